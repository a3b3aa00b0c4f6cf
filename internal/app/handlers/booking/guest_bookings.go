package booking

import (
	"context"

	"staywise/internal/app/dto"
	"staywise/internal/app/queries"
	domainbooking "staywise/internal/domain/booking"
)

const guestBookingsKey = "booking.by_guest"

type GuestBookingsQuery struct {
	GuestID string
}

func (q GuestBookingsQuery) Key() string { return guestBookingsKey }

type GuestBookingsHandler struct {
	Bookings domainbooking.Repository
}

func (h *GuestBookingsHandler) Handle(ctx context.Context, q GuestBookingsQuery) ([]dto.BookingSummary, error) {
	items, err := h.Bookings.ListByGuest(ctx, q.GuestID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BookingSummary, 0, len(items))
	for _, b := range items {
		out = append(out, dto.MapBookingSummary(b))
	}
	return out, nil
}

var _ queries.Handler[GuestBookingsQuery, []dto.BookingSummary] = (*GuestBookingsHandler)(nil)
