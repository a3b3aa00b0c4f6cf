package availability

import (
	"context"
	"time"

	"staywise/internal/app/dto"
	"staywise/internal/app/queries"
	domainavail "staywise/internal/domain/availability"
	"staywise/internal/domain/booking"
	"staywise/internal/domain/property"
	"staywise/internal/domain/shared/daterange"
)

const getCalendarKey = "availability.calendar"

type GetCalendarQuery struct {
	PropertyID string
	From       time.Time
	To         time.Time
}

func (q GetCalendarQuery) Key() string { return getCalendarKey }

// GetCalendarHandler produces the occupied dates and periods inside a query
// window, the feed a UI calendar renders.
type GetCalendarHandler struct {
	Bookings booking.Repository
}

func (h *GetCalendarHandler) Handle(ctx context.Context, q GetCalendarQuery) (dto.Calendar, error) {
	window, err := daterange.New(q.From, q.To)
	if err != nil {
		return dto.Calendar{}, err
	}
	intervals, err := h.Bookings.HoldingIntervals(ctx, property.ID(q.PropertyID))
	if err != nil {
		return dto.Calendar{}, err
	}
	dates := domainavail.BookedDatesWithin(intervals, window)
	periods := domainavail.BookedPeriods(intervals, window)
	return dto.MapCalendar(q.PropertyID, window, dates, periods), nil
}

var _ queries.Handler[GetCalendarQuery, dto.Calendar] = (*GetCalendarHandler)(nil)
