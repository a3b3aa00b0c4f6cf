package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound(t *testing.T) {
	assert.Equal(t, int64(100), Round(99.5))
	assert.Equal(t, int64(99), Round(99.4))
	assert.Equal(t, int64(-100), Round(-99.5))
	assert.Equal(t, int64(0), Round(0))
}

func TestFormat(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{0, "Rp 0"},
		{500, "Rp 500"},
		{1500, "Rp 1.500"},
		{500000, "Rp 500.000"},
		{1234567, "Rp 1.234.567"},
		{-250000, "-Rp 250.000"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Format(tc.amount))
	}
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "Rp 1.110.000", FormatFloat(1109999.6))
}
