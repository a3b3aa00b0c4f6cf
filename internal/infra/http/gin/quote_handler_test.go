package ginserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	availabilityapp "staywise/internal/app/handlers/availability"
	quoteapp "staywise/internal/app/handlers/quote"
	"staywise/internal/app/middleware"
	"staywise/internal/app/queries"
	domainbooking "staywise/internal/domain/booking"
	"staywise/internal/domain/property"
	"staywise/internal/domain/shared/daterange"
	"staywise/internal/infra/config"
	"staywise/internal/infra/obs"
	"staywise/internal/infra/storage/memory"
)

func newTestServer(t *testing.T) (http.Handler, *memory.BookingRepository) {
	t.Helper()
	props := memory.NewPropertyRepository()
	rates := memory.NewSeasonalRateRepository(props)
	bookings := memory.NewBookingRepository()

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
		Now: time.Now().UTC(),
	})
	require.NoError(t, err)
	require.NoError(t, props.Save(context.Background(), prop))

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, quoteapp.GetQuoteQuery{}.Key(), &quoteapp.GetQuoteHandler{
		Properties:    props,
		SeasonalRates: rates,
		Bookings:      bookings,
		Cache:         memory.NewQuoteCache(),
	})
	queries.RegisterHandler(queryBus, availabilityapp.GetCalendarQuery{}.Key(), &availabilityapp.GetCalendarHandler{
		Bookings: bookings,
	})
	wrapped := middleware.ChainQueries(queryBus)

	server := NewServer(config.Config{Env: "test", HTTPAddr: ":0"}, obs.Middleware{}, obs.HealthHandlers{}, Handlers{
		Quote:        QuoteHandler{Queries: wrapped},
		Availability: AvailabilityHandler{Queries: wrapped},
	})
	return server.Handler, bookings
}

func futureDate(months int) string {
	d := time.Now().UTC().AddDate(0, months, 0)
	return d.Format("2006-01-02")
}

func TestQuoteEndpointSuccess(t *testing.T) {
	handler, _ := newTestServer(t)

	checkIn := time.Now().UTC().AddDate(0, 1, 0)
	checkOut := checkIn.AddDate(0, 0, 2)
	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/properties/prop-1/quote?check_in="+checkIn.Format("2006-01-02")+
			"&check_out="+checkOut.Format("2006-01-02")+"&guests=2", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(2), body["nights"])
	assert.NotEmpty(t, body["daily_breakdown"])
}

func TestQuoteEndpointMissingDates(t *testing.T) {
	handler, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/properties/prop-1/quote", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "validation", body["error_type"])
}

func TestQuoteEndpointConflictEnvelope(t *testing.T) {
	handler, bookings := newTestServer(t)

	checkIn := time.Now().UTC().AddDate(0, 1, 0)
	checkIn = time.Date(checkIn.Year(), checkIn.Month(), checkIn.Day(), 0, 0, 0, 0, time.UTC)
	checkOut := checkIn.AddDate(0, 0, 2)
	stay, err := daterange.New(checkIn, checkOut)
	require.NoError(t, err)
	bk, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:         "bk-existing",
		PropertyID: "prop-1",
		GuestID:    "guest-9",
		Range:      stay,
		Guests:     2,
		CreatedAt:  time.Now().UTC(),
	})
	require.NoError(t, err)
	require.NoError(t, bookings.Save(context.Background(), bk))

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/properties/prop-1/quote?check_in="+checkIn.Format("2006-01-02")+
			"&check_out="+checkOut.Format("2006-01-02")+"&guests=2", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "availability", body["error_type"])

	info, ok := body["availability_info"].(map[string]any)
	require.True(t, ok)
	periods, ok := info["conflicting_periods"].([]any)
	require.True(t, ok)
	assert.Len(t, periods, 1)
	assert.NotNil(t, info["next_available"])
}

func TestQuoteEndpointUnknownProperty(t *testing.T) {
	handler, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/properties/prop-missing/quote?check_in="+futureDate(1)+"&check_out="+futureDate(2), nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCalendarEndpoint(t *testing.T) {
	handler, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/properties/prop-1/calendar", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "prop-1", body["property_id"])
}
