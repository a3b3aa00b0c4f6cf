package quote

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staywise/internal/domain/availability"
	domainbooking "staywise/internal/domain/booking"
	"staywise/internal/domain/property"
	"staywise/internal/domain/rate"
	"staywise/internal/domain/shared/daterange"
	"staywise/internal/infra/storage/memory"
)

var testNow = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) (*GetQuoteHandler, *memory.PropertyRepository, *memory.SeasonalRateRepository, *memory.BookingRepository, *memory.QuoteCache) {
	t.Helper()
	props := memory.NewPropertyRepository()
	rates := memory.NewSeasonalRateRepository(props)
	bookings := memory.NewBookingRepository()
	cache := memory.NewQuoteCache()

	prop, err := property.New(property.CreateParams{
		ID:     "prop-1",
		HostID: "host-1",
		Title:  "Garden Villa",
		Pricing: property.PricingProfile{
			BaseRate:          500000,
			WeekendPremiumPct: 20,
			CleaningFee:       100000,
			ExtraBedRate:      150000,
			Capacity:          2,
			CapacityMax:       4,
			Version:           1,
		},
		Now: testNow,
	})
	require.NoError(t, err)
	require.NoError(t, props.Save(context.Background(), prop))

	h := &GetQuoteHandler{
		Properties:    props,
		SeasonalRates: rates,
		Bookings:      bookings,
		Cache:         cache,
	}
	return h, props, rates, bookings, cache
}

func holdBooking(t *testing.T, bookings *memory.BookingRepository, checkIn, checkOut time.Time) {
	t.Helper()
	stay, err := daterange.New(checkIn, checkOut)
	require.NoError(t, err)
	bk, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:         "bk-existing",
		PropertyID: "prop-1",
		GuestID:    "guest-9",
		Range:      stay,
		Guests:     2,
		CreatedAt:  testNow,
	})
	require.NoError(t, err)
	require.NoError(t, bookings.Save(context.Background(), bk))
}

func TestGetQuoteWeekdayStay(t *testing.T) {
	h, _, _, _, _ := newFixture(t)

	// Mon 7 Sep to Wed 9 Sep 2026, two weekday nights.
	q := GetQuoteQuery{
		PropertyID: "prop-1",
		CheckIn:    time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		CheckOut:   time.Date(2026, 9, 9, 0, 0, 0, 0, time.UTC),
		Guests:     2,
		Now:        testNow,
	}
	out, err := h.Handle(context.Background(), q)
	require.NoError(t, err)

	assert.True(t, out.Success)
	assert.Equal(t, 2, out.Nights)
	assert.Equal(t, int64(1000000), out.BaseAmount)
	assert.Equal(t, int64(0), out.WeekendPremium)
	assert.Equal(t, int64(100000), out.CleaningFee)
	assert.Equal(t, int64(1100000), out.Subtotal)
	assert.Equal(t, int64(121000), out.TaxAmount)
	assert.Equal(t, int64(1221000), out.TotalAmount)
	assert.Len(t, out.DailyBreakdown, 2)
	assert.Equal(t, "Rp 1.221.000", out.Formatted.TotalAmount)
}

func TestGetQuoteConflictCarriesSuggestion(t *testing.T) {
	h, _, _, bookings, _ := newFixture(t)
	holdBooking(t, bookings,
		time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 9, 0, 0, 0, 0, time.UTC))

	q := GetQuoteQuery{
		PropertyID: "prop-1",
		CheckIn:    time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		CheckOut:   time.Date(2026, 9, 9, 0, 0, 0, 0, time.UTC),
		Guests:     2,
		Now:        testNow,
	}
	_, err := h.Handle(context.Background(), q)
	require.Error(t, err)

	var conflict *availability.ConflictError
	require.ErrorAs(t, err, &conflict)
	require.Len(t, conflict.Periods, 1)
	require.NotNil(t, conflict.Suggestion)
	assert.Equal(t, time.Date(2026, 9, 9, 0, 0, 0, 0, time.UTC), conflict.Suggestion.CheckIn)
	assert.Equal(t, time.Date(2026, 9, 11, 0, 0, 0, 0, time.UTC), conflict.Suggestion.CheckOut)
}

func TestGetQuoteUsesCacheUntilRulesChange(t *testing.T) {
	h, _, rates, _, cache := newFixture(t)

	q := GetQuoteQuery{
		PropertyID: "prop-1",
		CheckIn:    time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		CheckOut:   time.Date(2026, 9, 9, 0, 0, 0, 0, time.UTC),
		Guests:     2,
		Now:        testNow,
	}
	first, err := h.Handle(context.Background(), q)
	require.NoError(t, err)
	second, err := h.Handle(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.Len())

	// A rule change bumps the property rules version, so the old entry no
	// longer matches.
	rule := property.SeasonalRate{
		ID:            1,
		Name:          "Shoulder Season",
		StartDate:     time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2026, 11, 30, 0, 0, 0, 0, time.UTC),
		RateType:      property.RateTypePercentage,
		RateValue:     10,
		MinStayNights: 1,
		Active:        true,
	}
	require.NoError(t, rates.Save(context.Background(), "prop-1", rule))

	third, err := h.Handle(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, first.TotalAmount, third.TotalAmount)
	assert.Equal(t, 2, cache.Len())
}

func TestGetQuoteCapacityExceeded(t *testing.T) {
	h, _, _, _, _ := newFixture(t)

	q := GetQuoteQuery{
		PropertyID: "prop-1",
		CheckIn:    time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		CheckOut:   time.Date(2026, 9, 9, 0, 0, 0, 0, time.UTC),
		Guests:     9,
		Now:        testNow,
	}
	_, err := h.Handle(context.Background(), q)
	assert.ErrorIs(t, err, rate.ErrCapacityExceeded)
}

func TestGetQuoteRejectsPastCheckIn(t *testing.T) {
	h, _, _, _, _ := newFixture(t)

	q := GetQuoteQuery{
		PropertyID: "prop-1",
		CheckIn:    time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		CheckOut:   time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC),
		Guests:     2,
		Now:        testNow,
	}
	_, err := h.Handle(context.Background(), q)
	require.Error(t, err)

	var validation availability.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, availability.CodePastCheckIn, validation.Code)
}

func TestGetQuoteUnknownProperty(t *testing.T) {
	h, _, _, _, _ := newFixture(t)

	q := GetQuoteQuery{
		PropertyID: "prop-missing",
		CheckIn:    time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		CheckOut:   time.Date(2026, 9, 9, 0, 0, 0, 0, time.UTC),
		Guests:     2,
		Now:        testNow,
	}
	_, err := h.Handle(context.Background(), q)
	assert.ErrorIs(t, err, property.ErrPropertyNotFound)
}
