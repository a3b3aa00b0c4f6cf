package dto

import (
	"time"

	"staywise/internal/domain/availability"
	"staywise/internal/domain/rate"
	"staywise/internal/domain/shared/daterange"
	"staywise/internal/domain/shared/money"
)

const dateLayout = "2006-01-02"

type QuotePremium struct {
	Type   string `json:"type"`
	Name   string `json:"name"`
	Amount int64  `json:"amount"`
}

type QuoteSeasonalRate struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	RateType  string  `json:"rate_type"`
	RateValue float64 `json:"rate_value"`
}

type QuoteNight struct {
	BaseRate     int64              `json:"base_rate"`
	FinalRate    int64              `json:"final_rate"`
	Weekday      string             `json:"weekday"`
	IsWeekend    bool               `json:"is_weekend"`
	Premiums     []QuotePremium     `json:"premiums"`
	SeasonalRate *QuoteSeasonalRate `json:"seasonal_rate,omitempty"`
}

type QuoteFormatted struct {
	TotalAmount string `json:"total_amount"`
	PerNight    string `json:"per_night"`
}

// Quote is the HTTP payload for a successful rate calculation. All amounts
// are rounded to whole currency units here, at the presentation boundary.
type Quote struct {
	Success             bool                  `json:"success"`
	PropertyID          string                `json:"property_id"`
	Nights              int                   `json:"nights"`
	BaseAmount          int64                 `json:"base_amount"`
	WeekendPremium      int64                 `json:"weekend_premium"`
	SeasonalPremium     int64                 `json:"seasonal_premium"`
	ExtraBeds           int                   `json:"extra_beds"`
	ExtraBedAmount      int64                 `json:"extra_bed_amount"`
	CleaningFee         int64                 `json:"cleaning_fee"`
	MinimumStayDiscount int64                 `json:"minimum_stay_discount"`
	Subtotal            int64                 `json:"subtotal"`
	TaxAmount           int64                 `json:"tax_amount"`
	TotalAmount         int64                 `json:"total_amount"`
	DailyBreakdown      map[string]QuoteNight `json:"daily_breakdown"`
	Formatted           QuoteFormatted        `json:"formatted"`
}

func MapQuote(propertyID string, res *rate.Result) Quote {
	q := Quote{
		Success:             true,
		PropertyID:          propertyID,
		Nights:              res.Nights,
		BaseAmount:          money.Round(res.BaseAmount),
		WeekendPremium:      money.Round(res.WeekendPremium),
		SeasonalPremium:     money.Round(res.SeasonalPremium),
		ExtraBeds:           res.ExtraBeds,
		ExtraBedAmount:      money.Round(res.ExtraBedAmount),
		CleaningFee:         money.Round(res.CleaningFee),
		MinimumStayDiscount: money.Round(res.MinimumStayDiscount),
		Subtotal:            money.Round(res.Subtotal),
		TaxAmount:           money.Round(res.TaxAmount),
		TotalAmount:         money.Round(res.TotalAmount),
		DailyBreakdown:      make(map[string]QuoteNight, len(res.PerNight)),
	}
	for _, night := range res.PerNight {
		entry := QuoteNight{
			BaseRate:  money.Round(night.BaseRate),
			FinalRate: money.Round(night.FinalRate),
			Weekday:   night.Weekday,
			IsWeekend: night.IsWeekend,
			Premiums:  make([]QuotePremium, 0, len(night.Premiums)),
		}
		for _, p := range night.Premiums {
			entry.Premiums = append(entry.Premiums, QuotePremium{
				Type:   p.Type,
				Name:   p.Name,
				Amount: money.Round(p.Amount),
			})
		}
		if night.SeasonalRate != nil {
			entry.SeasonalRate = &QuoteSeasonalRate{
				ID:        night.SeasonalRate.ID,
				Name:      night.SeasonalRate.Name,
				RateType:  string(night.SeasonalRate.RateType),
				RateValue: night.SeasonalRate.RateValue,
			}
		}
		q.DailyBreakdown[night.Date.Format(dateLayout)] = entry
	}
	q.Formatted = QuoteFormatted{
		TotalAmount: money.Format(q.TotalAmount),
		PerNight:    money.FormatFloat(res.Summary.AverageNightlyRate),
	}
	return q
}

type PeriodDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type RangeDTO struct {
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
}

type AvailabilityInfo struct {
	ConflictingPeriods []PeriodDTO `json:"conflicting_periods"`
	NextAvailable      *RangeDTO   `json:"next_available,omitempty"`
}

// QuoteFailure is the HTTP failure envelope.
type QuoteFailure struct {
	Success          bool              `json:"success"`
	ErrorType        string            `json:"error_type"`
	Message          string            `json:"message"`
	AvailabilityInfo *AvailabilityInfo `json:"availability_info,omitempty"`
}

func MapConflict(conflict *availability.ConflictError) QuoteFailure {
	info := &AvailabilityInfo{
		ConflictingPeriods: make([]PeriodDTO, 0, len(conflict.Periods)),
	}
	for _, p := range conflict.Periods {
		info.ConflictingPeriods = append(info.ConflictingPeriods, PeriodDTO{
			Start: p.Start.Format(dateLayout),
			End:   p.End.Format(dateLayout),
		})
	}
	if conflict.Suggestion != nil {
		info.NextAvailable = mapRange(*conflict.Suggestion)
	}
	return QuoteFailure{
		Success:          false,
		ErrorType:        "availability",
		Message:          conflict.Error(),
		AvailabilityInfo: info,
	}
}

func mapRange(dr daterange.DateRange) *RangeDTO {
	return &RangeDTO{
		CheckIn:  dr.CheckIn.Format(dateLayout),
		CheckOut: dr.CheckOut.Format(dateLayout),
	}
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}
