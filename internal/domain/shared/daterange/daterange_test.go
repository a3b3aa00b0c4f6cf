package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNew(t *testing.T) {
	t.Run("normalizes to UTC midnight", func(t *testing.T) {
		in := time.Date(2024, 1, 10, 15, 30, 0, 0, time.FixedZone("WIB", 7*3600))
		out := time.Date(2024, 1, 12, 9, 0, 0, 0, time.UTC)
		dr, err := New(in, out)
		require.NoError(t, err)
		assert.Equal(t, date(2024, 1, 10), dr.CheckIn)
		assert.Equal(t, date(2024, 1, 12), dr.CheckOut)
	})

	t.Run("rejects inverted order", func(t *testing.T) {
		_, err := New(date(2024, 1, 12), date(2024, 1, 10))
		assert.ErrorIs(t, err, ErrInvalidRange)
	})

	t.Run("rejects equal dates", func(t *testing.T) {
		_, err := New(date(2024, 1, 10), date(2024, 1, 10))
		assert.ErrorIs(t, err, ErrInvalidRange)
	})
}

func TestNights(t *testing.T) {
	dr, err := New(date(2024, 1, 10), date(2024, 1, 15))
	require.NoError(t, err)
	assert.Equal(t, 5, dr.Nights())
}

func TestOverlaps(t *testing.T) {
	base := DateRange{CheckIn: date(2024, 1, 10), CheckOut: date(2024, 1, 15)}

	tests := []struct {
		name  string
		other DateRange
		want  bool
	}{
		{"identical", DateRange{date(2024, 1, 10), date(2024, 1, 15)}, true},
		{"contained", DateRange{date(2024, 1, 11), date(2024, 1, 13)}, true},
		{"left overlap", DateRange{date(2024, 1, 8), date(2024, 1, 11)}, true},
		{"right overlap", DateRange{date(2024, 1, 14), date(2024, 1, 18)}, true},
		{"abuts before", DateRange{date(2024, 1, 5), date(2024, 1, 10)}, false},
		{"abuts after", DateRange{date(2024, 1, 15), date(2024, 1, 18)}, false},
		{"disjoint", DateRange{date(2024, 2, 1), date(2024, 2, 5)}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, base.Overlaps(tc.other))
			assert.Equal(t, tc.want, tc.other.Overlaps(base), "overlap must be symmetric")
		})
	}
}

func TestContainsDate(t *testing.T) {
	dr := DateRange{CheckIn: date(2024, 1, 10), CheckOut: date(2024, 1, 15)}
	assert.True(t, dr.ContainsDate(date(2024, 1, 10)))
	assert.True(t, dr.ContainsDate(date(2024, 1, 14)))
	assert.False(t, dr.ContainsDate(date(2024, 1, 15)), "checkout day is excluded")
	assert.False(t, dr.ContainsDate(date(2024, 1, 9)))
}

func TestClamp(t *testing.T) {
	window := DateRange{CheckIn: date(2024, 1, 10), CheckOut: date(2024, 1, 20)}

	clipped, ok := DateRange{date(2024, 1, 5), date(2024, 1, 12)}.Clamp(window)
	require.True(t, ok)
	assert.Equal(t, date(2024, 1, 10), clipped.CheckIn)
	assert.Equal(t, date(2024, 1, 12), clipped.CheckOut)

	_, ok = DateRange{date(2024, 2, 1), date(2024, 2, 3)}.Clamp(window)
	assert.False(t, ok)
}

func TestDates(t *testing.T) {
	dr := DateRange{CheckIn: date(2024, 1, 10), CheckOut: date(2024, 1, 13)}
	days := dr.Dates()
	require.Len(t, days, 3)
	assert.Equal(t, date(2024, 1, 10), days[0])
	assert.Equal(t, date(2024, 1, 12), days[2])
}
