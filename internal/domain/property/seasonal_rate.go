package property

import (
	"errors"
	"time"

	"staywise/internal/domain/shared/daterange"
)

var (
	ErrInvalidRuleRange = errors.New("property: seasonal rate start must not be after end")
	ErrInvalidRuleType  = errors.New("property: unknown seasonal rate type")
	ErrInvalidMinStay   = errors.New("property: seasonal rate min stay must be at least 1")
)

type RateType string

const (
	RateTypePercentage RateType = "percentage"
	RateTypeFixed      RateType = "fixed"
	RateTypeMultiplier RateType = "multiplier"
)

// SeasonalRate is a declarative nightly pricing override for an inclusive
// date range. Percentage adds value% of the base rate, fixed adds a flat
// amount, multiplier replaces the nightly base with base*value.
type SeasonalRate struct {
	ID             int64
	Name           string
	StartDate      time.Time // inclusive, UTC midnight
	EndDate        time.Time // inclusive, UTC midnight
	RateType       RateType
	RateValue      float64
	MinStayNights  int
	WeekendsOnly   bool
	ApplicableDays []time.Weekday // empty means every weekday
	Priority       int
	Active         bool
}

func (r SeasonalRate) Validate() error {
	if r.StartDate.After(r.EndDate) {
		return ErrInvalidRuleRange
	}
	switch r.RateType {
	case RateTypePercentage, RateTypeFixed, RateTypeMultiplier:
	default:
		return ErrInvalidRuleType
	}
	if r.MinStayNights < 1 {
		return ErrInvalidMinStay
	}
	return nil
}

// Matches reports whether the rule applies to the given night of a stay of
// totalNights. The night is compared at date granularity; EndDate is
// inclusive.
func (r SeasonalRate) Matches(night time.Time, totalNights int) bool {
	if !r.Active {
		return false
	}
	day := daterange.Midnight(night)
	if day.Before(r.StartDate) || day.After(r.EndDate) {
		return false
	}
	if r.MinStayNights > totalNights {
		return false
	}
	weekday := day.Weekday()
	if r.WeekendsOnly && weekday != time.Saturday && weekday != time.Sunday {
		return false
	}
	if len(r.ApplicableDays) > 0 {
		found := false
		for _, d := range r.ApplicableDays {
			if d == weekday {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// ResolveSeasonalRate picks the single winning rule for a night. Among
// matching rules the highest priority wins; ties break by latest start date,
// then by lowest rule ID, so resolution is deterministic regardless of input
// order.
func ResolveSeasonalRate(rules []SeasonalRate, night time.Time, totalNights int) (SeasonalRate, bool) {
	var winner SeasonalRate
	found := false
	for _, rule := range rules {
		if !rule.Matches(night, totalNights) {
			continue
		}
		if !found || beats(rule, winner) {
			winner = rule
			found = true
		}
	}
	return winner, found
}

func beats(a, b SeasonalRate) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	if !a.StartDate.Equal(b.StartDate) {
		return a.StartDate.After(b.StartDate)
	}
	return a.ID < b.ID
}
