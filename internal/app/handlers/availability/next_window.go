package availability

import (
	"context"
	"time"

	"staywise/internal/app/dto"
	"staywise/internal/app/queries"
	domainavail "staywise/internal/domain/availability"
	"staywise/internal/domain/booking"
	"staywise/internal/domain/property"
)

const nextWindowKey = "availability.next_window"

type NextWindowQuery struct {
	PropertyID  string
	Nights      int
	SearchStart time.Time
}

func (q NextWindowQuery) Key() string { return nextWindowKey }

// NextWindowHandler finds the first free run of the desired length starting
// at or after the search date.
type NextWindowHandler struct {
	Bookings booking.Repository
}

func (h *NextWindowHandler) Handle(ctx context.Context, q NextWindowQuery) (dto.NextWindow, error) {
	start := q.SearchStart
	if start.IsZero() {
		start = time.Now().UTC()
	}
	intervals, err := h.Bookings.HoldingIntervals(ctx, property.ID(q.PropertyID))
	if err != nil {
		return dto.NextWindow{}, err
	}
	out := dto.NextWindow{PropertyID: q.PropertyID, Nights: q.Nights}
	if window, ok := domainavail.NextAvailableWindow(intervals, q.Nights, start); ok {
		out.Found = true
		out.Window = &dto.RangeDTO{
			CheckIn:  window.CheckIn.Format("2006-01-02"),
			CheckOut: window.CheckOut.Format("2006-01-02"),
		}
	}
	return out, nil
}

var _ queries.Handler[NextWindowQuery, dto.NextWindow] = (*NextWindowHandler)(nil)
