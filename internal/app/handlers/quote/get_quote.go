package quote

import (
	"context"
	"time"

	"staywise/internal/app/dto"
	"staywise/internal/app/policies"
	"staywise/internal/app/queries"
	"staywise/internal/domain/availability"
	"staywise/internal/domain/booking"
	"staywise/internal/domain/property"
	"staywise/internal/domain/rate"
	"staywise/internal/domain/shared/daterange"
)

const getQuoteKey = "quote.get"

type GetQuoteQuery struct {
	PropertyID string
	CheckIn    time.Time
	CheckOut   time.Time
	Guests     int
	// Now anchors the past-check-in validation; the zero value means wall
	// clock time.
	Now time.Time
}

func (q GetQuoteQuery) Key() string { return getQuoteKey }

// GetQuoteHandler quotes a stay: it loads a consistent snapshot of the
// property, its seasonal rules, and the bookings still holding it, rejects
// unavailable ranges, and only then runs the rate calculation.
type GetQuoteHandler struct {
	Properties    property.Repository
	SeasonalRates property.SeasonalRateRepository
	Bookings      booking.Repository
	Cache         policies.QuoteCache
}

func (h *GetQuoteHandler) Handle(ctx context.Context, q GetQuoteQuery) (dto.Quote, error) {
	now := q.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	if errs := availability.ValidateDateInputs(q.CheckIn, q.CheckOut, now); len(errs) > 0 {
		return dto.Quote{}, errs[0]
	}
	stay, err := daterange.New(q.CheckIn, q.CheckOut)
	if err != nil {
		return dto.Quote{}, err
	}

	prop, err := h.Properties.ByID(ctx, property.ID(q.PropertyID))
	if err != nil {
		return dto.Quote{}, err
	}
	rules, err := h.SeasonalRates.ActiveForProperty(ctx, prop.ID)
	if err != nil {
		return dto.Quote{}, err
	}
	intervals, err := h.Bookings.HoldingIntervals(ctx, prop.ID)
	if err != nil {
		return dto.Quote{}, err
	}

	if err := availability.CheckRange(intervals, stay); err != nil {
		return dto.Quote{}, err
	}

	cacheKey := policies.QuoteCacheKey{
		PropertyID:     prop.ID,
		CheckIn:        stay.CheckIn,
		CheckOut:       stay.CheckOut,
		Guests:         q.Guests,
		ProfileVersion: prop.Pricing.Version,
		RulesVersion:   prop.RulesVersion,
	}
	if h.Cache != nil {
		if cached, ok := h.Cache.Get(ctx, cacheKey); ok {
			return dto.MapQuote(q.PropertyID, cached), nil
		}
	}

	res, err := rate.Calculate(prop.Pricing, rules, stay.CheckIn, stay.CheckOut, q.Guests)
	if err != nil {
		return dto.Quote{}, err
	}
	if h.Cache != nil {
		h.Cache.Put(ctx, cacheKey, res)
	}
	return dto.MapQuote(q.PropertyID, res), nil
}

var _ queries.Handler[GetQuoteQuery, dto.Quote] = (*GetQuoteHandler)(nil)
