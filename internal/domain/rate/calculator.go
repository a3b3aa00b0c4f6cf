package rate

import (
	"errors"
	"math"
	"time"

	"staywise/internal/domain/property"
	"staywise/internal/domain/shared/daterange"
)

var (
	ErrInvalidDateOrder = errors.New("rate: checkout must be after checkin")
	ErrCapacityExceeded = errors.New("rate: guest count exceeds maximum capacity")
	ErrMalformedProfile = errors.New("rate: pricing profile is malformed")
)

// TaxRate is the VAT-equivalent applied to the subtotal.
const TaxRate = 0.11

const (
	shortStayNights      = 3
	weeklyStayNights     = 7
	shortStayDiscountPct = 0.05
	weeklyDiscountPct    = 0.10
)

// Calculate walks every night of [checkIn, checkOut) and produces the full
// pricing breakdown for the stay. It is a pure function of its inputs: same
// profile, rules, dates and guest count always yield an identical Result.
//
// Validation failures are returned before any night is priced; there are no
// partial results.
func Calculate(profile property.PricingProfile, rules []property.SeasonalRate, checkIn, checkOut time.Time, guests int) (*Result, error) {
	stay, err := daterange.New(checkIn, checkOut)
	if err != nil {
		return nil, ErrInvalidDateOrder
	}
	if err := profile.Validate(); err != nil {
		return nil, errors.Join(ErrMalformedProfile, err)
	}
	if guests > profile.CapacityMax {
		return nil, ErrCapacityExceeded
	}

	nights := stay.Nights()
	res := &Result{
		Nights:      nights,
		CleaningFee: profile.CleaningFee,
		PerNight:    make([]NightBreakdown, 0, nights),
	}

	for _, night := range stay.Dates() {
		base := profile.BaseRate
		weekday := night.Weekday()
		isWeekend := weekday == time.Saturday || weekday == time.Sunday

		entry := NightBreakdown{
			Date:      night,
			BaseRate:  base,
			FinalRate: base,
			Weekday:   weekday.String(),
			IsWeekend: isWeekend,
		}

		if rule, ok := property.ResolveSeasonalRate(rules, night, nights); ok {
			delta := seasonalDelta(base, rule)
			entry.FinalRate += delta
			entry.SeasonalRate = &AppliedSeasonalRate{
				ID:        rule.ID,
				Name:      rule.Name,
				RateType:  rule.RateType,
				RateValue: rule.RateValue,
				Priority:  rule.Priority,
			}
			entry.Premiums = append(entry.Premiums, Premium{Type: PremiumSeasonal, Name: rule.Name, Amount: delta})
			res.SeasonalPremium += delta
		}

		// The weekend premium is always derived from the original base rate,
		// never the seasonally adjusted one, so premiums stay additive and
		// each line of the breakdown can be audited independently.
		if isWeekend && profile.WeekendPremiumPct > 0 {
			delta := base * profile.WeekendPremiumPct / 100
			entry.FinalRate += delta
			entry.Premiums = append(entry.Premiums, Premium{Type: PremiumWeekend, Name: "weekend premium", Amount: delta})
			res.WeekendPremium += delta
		}

		res.BaseAmount += base
		res.PerNight = append(res.PerNight, entry)
	}

	if guests > profile.Capacity {
		res.ExtraBeds = guests - profile.Capacity
		res.ExtraBedAmount = float64(res.ExtraBeds) * profile.ExtraBedRate * float64(nights)
	}

	switch {
	case nights >= weeklyStayNights:
		res.MinimumStayDiscount = res.BaseAmount * weeklyDiscountPct
	case nights >= shortStayNights:
		res.MinimumStayDiscount = res.BaseAmount * shortStayDiscountPct
	}

	res.Subtotal = res.BaseAmount + res.WeekendPremium + res.SeasonalPremium +
		res.ExtraBedAmount + res.CleaningFee - res.MinimumStayDiscount
	res.TaxAmount = res.Subtotal * TaxRate
	res.TotalAmount = math.Round(res.Subtotal + res.TaxAmount)

	res.Summary = Summary{
		AverageNightlyRate: (res.BaseAmount + res.WeekendPremium + res.SeasonalPremium) / float64(nights),
		TotalPremiums:      res.WeekendPremium + res.SeasonalPremium,
		TaxesAndFees:       res.TaxAmount + res.CleaningFee,
	}
	return res, nil
}

func seasonalDelta(base float64, rule property.SeasonalRate) float64 {
	switch rule.RateType {
	case property.RateTypePercentage:
		return base * rule.RateValue / 100
	case property.RateTypeFixed:
		return rule.RateValue
	case property.RateTypeMultiplier:
		// Multiplier replaces the nightly base; expressed here as a delta so
		// aggregation stays a plain sum.
		return base*rule.RateValue - base
	default:
		return 0
	}
}
