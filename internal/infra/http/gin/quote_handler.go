package ginserver

import (
	"errors"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"staywise/internal/app/dto"
	quoteapp "staywise/internal/app/handlers/quote"
	"staywise/internal/app/queries"
	"staywise/internal/domain/availability"
	"staywise/internal/domain/property"
	"staywise/internal/domain/rate"
)

// QuoteHandler wires the quote query to HTTP.
type QuoteHandler struct {
	Queries queries.Bus
}

func (h QuoteHandler) Quote(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "quote handler unavailable"})
		return
	}
	propertyID := c.Param("id")
	if propertyID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "property id is required"})
		return
	}
	checkIn, ok := parseFlexibleTime(c.Query("check_in"))
	if !ok {
		c.JSON(http.StatusBadRequest, failure("validation", "check_in is required (YYYY-MM-DD)"))
		return
	}
	checkOut, ok := parseFlexibleTime(c.Query("check_out"))
	if !ok {
		c.JSON(http.StatusBadRequest, failure("validation", "check_out is required (YYYY-MM-DD)"))
		return
	}
	query := quoteapp.GetQuoteQuery{
		PropertyID: propertyID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Guests:     parseIntWithDefault(c.Query("guests"), 1),
	}
	result, err := queries.Ask[quoteapp.GetQuoteQuery, dto.Quote](c.Request.Context(), h.Queries, query)
	if err != nil {
		writeRateError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// writeRateError maps domain errors onto the failure envelope. Availability
// conflicts carry the conflicting periods and a suggested alternative window.
func writeRateError(c *gin.Context, err error) {
	var conflict *availability.ConflictError
	if errors.As(err, &conflict) {
		c.JSON(http.StatusConflict, dto.MapConflict(conflict))
		return
	}
	var validation availability.ValidationError
	if errors.As(err, &validation) {
		c.JSON(http.StatusBadRequest, failure("validation", validation.Error()))
		return
	}
	switch {
	case errors.Is(err, property.ErrPropertyNotFound):
		c.JSON(http.StatusNotFound, failure("not_found", err.Error()))
	case errors.Is(err, rate.ErrCapacityExceeded):
		c.JSON(http.StatusBadRequest, failure("capacity", err.Error()))
	case errors.Is(err, rate.ErrInvalidDateOrder), errors.Is(err, rate.ErrMalformedProfile):
		c.JSON(http.StatusBadRequest, failure("calculation", err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, failure("internal", err.Error()))
	}
}

func failure(errorType, message string) dto.QuoteFailure {
	return dto.QuoteFailure{Success: false, ErrorType: errorType, Message: message}
}

func parseFlexibleTime(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

var _ QuoteHTTP = QuoteHandler{}
