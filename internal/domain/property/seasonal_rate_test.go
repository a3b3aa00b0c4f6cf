package property

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func activeRule(id int64, priority int) SeasonalRate {
	return SeasonalRate{
		ID:            id,
		Name:          "rule",
		StartDate:     date(2024, 1, 1),
		EndDate:       date(2024, 1, 31),
		RateType:      RateTypePercentage,
		RateValue:     10,
		MinStayNights: 1,
		Priority:      priority,
		Active:        true,
	}
}

func TestSeasonalRateValidate(t *testing.T) {
	rule := activeRule(1, 0)
	require.NoError(t, rule.Validate())

	inverted := rule
	inverted.StartDate = date(2024, 2, 1)
	assert.ErrorIs(t, inverted.Validate(), ErrInvalidRuleRange)

	unknown := rule
	unknown.RateType = "surge"
	assert.ErrorIs(t, unknown.Validate(), ErrInvalidRuleType)

	zeroStay := rule
	zeroStay.MinStayNights = 0
	assert.ErrorIs(t, zeroStay.Validate(), ErrInvalidMinStay)
}

func TestSeasonalRateMatches(t *testing.T) {
	rule := activeRule(1, 0)

	t.Run("inside range", func(t *testing.T) {
		assert.True(t, rule.Matches(date(2024, 1, 15), 2))
	})

	t.Run("end date is inclusive", func(t *testing.T) {
		assert.True(t, rule.Matches(date(2024, 1, 31), 2))
		assert.False(t, rule.Matches(date(2024, 2, 1), 2))
	})

	t.Run("inactive never matches", func(t *testing.T) {
		off := rule
		off.Active = false
		assert.False(t, off.Matches(date(2024, 1, 15), 2))
	})

	t.Run("min stay gate", func(t *testing.T) {
		long := rule
		long.MinStayNights = 5
		assert.False(t, long.Matches(date(2024, 1, 15), 4))
		assert.True(t, long.Matches(date(2024, 1, 15), 5))
	})

	t.Run("weekends only", func(t *testing.T) {
		we := rule
		we.WeekendsOnly = true
		assert.True(t, we.Matches(date(2024, 1, 13), 2), "saturday")
		assert.True(t, we.Matches(date(2024, 1, 14), 2), "sunday")
		assert.False(t, we.Matches(date(2024, 1, 15), 2), "monday")
	})

	t.Run("applicable days restriction", func(t *testing.T) {
		fri := rule
		fri.ApplicableDays = []time.Weekday{time.Friday}
		assert.True(t, fri.Matches(date(2024, 1, 12), 2), "friday")
		assert.False(t, fri.Matches(date(2024, 1, 13), 2), "saturday")
	})
}

func TestResolveSeasonalRate(t *testing.T) {
	night := date(2024, 1, 15)

	t.Run("highest priority wins regardless of order", func(t *testing.T) {
		low := activeRule(1, 1)
		high := activeRule(2, 5)

		winner, ok := ResolveSeasonalRate([]SeasonalRate{low, high}, night, 2)
		require.True(t, ok)
		assert.Equal(t, int64(2), winner.ID)

		winner, ok = ResolveSeasonalRate([]SeasonalRate{high, low}, night, 2)
		require.True(t, ok)
		assert.Equal(t, int64(2), winner.ID)
	})

	t.Run("equal priority breaks by latest start date", func(t *testing.T) {
		early := activeRule(1, 3)
		late := activeRule(2, 3)
		late.StartDate = date(2024, 1, 10)

		winner, ok := ResolveSeasonalRate([]SeasonalRate{early, late}, night, 2)
		require.True(t, ok)
		assert.Equal(t, int64(2), winner.ID)
	})

	t.Run("full tie breaks by lowest id", func(t *testing.T) {
		a := activeRule(7, 3)
		b := activeRule(4, 3)

		winner, ok := ResolveSeasonalRate([]SeasonalRate{a, b}, night, 2)
		require.True(t, ok)
		assert.Equal(t, int64(4), winner.ID)
	})

	t.Run("no match", func(t *testing.T) {
		_, ok := ResolveSeasonalRate([]SeasonalRate{activeRule(1, 0)}, date(2024, 6, 1), 2)
		assert.False(t, ok)
	})
}

func TestPricingProfileValidate(t *testing.T) {
	valid := PricingProfile{BaseRate: 500000, Capacity: 2, CapacityMax: 4}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name    string
		mutate  func(*PricingProfile)
		wantErr error
	}{
		{"zero base rate", func(p *PricingProfile) { p.BaseRate = 0 }, ErrInvalidBaseRate},
		{"negative base rate", func(p *PricingProfile) { p.BaseRate = -100 }, ErrInvalidBaseRate},
		{"zero capacity", func(p *PricingProfile) { p.Capacity = 0 }, ErrInvalidCapacity},
		{"max below capacity", func(p *PricingProfile) { p.CapacityMax = 1 }, ErrCapacityMaxTooLow},
		{"negative cleaning fee", func(p *PricingProfile) { p.CleaningFee = -1 }, ErrNegativeFee},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := valid
			tc.mutate(&p)
			assert.ErrorIs(t, p.Validate(), tc.wantErr)
		})
	}
}
