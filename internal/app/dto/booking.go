package dto

import (
	"staywise/internal/domain/booking"
	"staywise/internal/domain/shared/money"
)

type BookingSummary struct {
	BookingID   string `json:"booking_id"`
	PropertyID  string `json:"property_id"`
	CheckIn     string `json:"check_in"`
	CheckOut    string `json:"check_out"`
	Guests      int    `json:"guests"`
	Status      string `json:"status"`
	Nights      int    `json:"nights"`
	TotalAmount int64  `json:"total_amount"`
	Formatted   string `json:"formatted_total"`
}

func MapBookingSummary(b *booking.Booking) BookingSummary {
	total := money.Round(b.Breakdown.TotalAmount)
	return BookingSummary{
		BookingID:   string(b.ID),
		PropertyID:  string(b.PropertyID),
		CheckIn:     formatDate(b.Range.CheckIn),
		CheckOut:    formatDate(b.Range.CheckOut),
		Guests:      b.Guests,
		Status:      string(b.Status),
		Nights:      b.Range.Nights(),
		TotalAmount: total,
		Formatted:   money.Format(total),
	}
}
