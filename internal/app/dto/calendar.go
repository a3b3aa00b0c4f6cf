package dto

import (
	"staywise/internal/domain/availability"
	"staywise/internal/domain/shared/daterange"
	"time"
)

// Calendar is the occupancy feed a booking UI renders for one property.
type Calendar struct {
	PropertyID  string      `json:"property_id"`
	From        string      `json:"from"`
	To          string      `json:"to"`
	BookedDates []string    `json:"booked_dates"`
	Periods     []PeriodDTO `json:"booked_periods"`
}

func MapCalendar(propertyID string, window daterange.DateRange, dates []time.Time, periods []availability.Period) Calendar {
	cal := Calendar{
		PropertyID:  propertyID,
		From:        formatDate(window.CheckIn),
		To:          formatDate(window.CheckOut),
		BookedDates: make([]string, 0, len(dates)),
		Periods:     make([]PeriodDTO, 0, len(periods)),
	}
	for _, d := range dates {
		cal.BookedDates = append(cal.BookedDates, formatDate(d))
	}
	for _, p := range periods {
		cal.Periods = append(cal.Periods, PeriodDTO{Start: formatDate(p.Start), End: formatDate(p.End)})
	}
	return cal
}

// NextWindow is the response for a next-available-slot lookup.
type NextWindow struct {
	PropertyID string    `json:"property_id"`
	Nights     int       `json:"nights"`
	Found      bool      `json:"found"`
	Window     *RangeDTO `json:"window,omitempty"`
}
