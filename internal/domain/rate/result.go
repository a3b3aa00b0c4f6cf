package rate

import (
	"time"

	"staywise/internal/domain/property"
)

// Premium is one per-night price contribution on top of the base rate.
type Premium struct {
	Type   string
	Name   string
	Amount float64
}

const (
	PremiumWeekend  = "weekend"
	PremiumSeasonal = "seasonal"
)

// AppliedSeasonalRate records which rule won a night, for auditing.
type AppliedSeasonalRate struct {
	ID        int64
	Name      string
	RateType  property.RateType
	RateValue float64
	Priority  int
}

// NightBreakdown is the full pricing record for a single night of the stay.
type NightBreakdown struct {
	Date         time.Time
	BaseRate     float64
	FinalRate    float64
	Premiums     []Premium
	SeasonalRate *AppliedSeasonalRate
	Weekday      string
	IsWeekend    bool
}

// Summary aggregates presentation-level figures over the whole stay.
type Summary struct {
	AverageNightlyRate float64
	TotalPremiums      float64
	TaxesAndFees       float64
}

// Result is the immutable output of one rate calculation. All monetary fields
// carry full float64 precision except TotalAmount, which is already rounded to
// whole currency units; everything else rounds at presentation time.
//
// A Result is safe to serialize and cache keyed by (property, check-in,
// check-out, guest count, profile version, rules version).
type Result struct {
	Nights              int
	BaseAmount          float64
	WeekendPremium      float64
	SeasonalPremium     float64
	ExtraBeds           int
	ExtraBedAmount      float64
	CleaningFee         float64
	MinimumStayDiscount float64
	Subtotal            float64
	TaxAmount           float64
	TotalAmount         float64
	PerNight            []NightBreakdown
	Summary             Summary
}
