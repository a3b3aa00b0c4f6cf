package ginserver

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	gin "github.com/gin-gonic/gin"

	"staywise/internal/app/dto"
	availapp "staywise/internal/app/handlers/availability"
	"staywise/internal/app/queries"
)

// AvailabilityHandler wires calendar queries to HTTP.
type AvailabilityHandler struct {
	Queries queries.Bus
}

// Calendar responds with the booked dates and periods inside a window.
func (h AvailabilityHandler) Calendar(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "availability handler unavailable"})
		return
	}
	propertyID := c.Param("id")
	if propertyID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "property id is required"})
		return
	}
	from, to := resolveWindow(c.Query("from"), c.Query("to"))
	query := availapp.GetCalendarQuery{
		PropertyID: propertyID,
		From:       from,
		To:         to,
	}
	result, err := queries.Ask[availapp.GetCalendarQuery, dto.Calendar](c.Request.Context(), h.Queries, query)
	if err != nil {
		writeRateError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// NextAvailable finds the first free window of the requested length.
func (h AvailabilityHandler) NextAvailable(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "availability handler unavailable"})
		return
	}
	propertyID := c.Param("id")
	if propertyID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "property id is required"})
		return
	}
	nights := parseIntWithDefault(c.Query("nights"), 1)
	query := availapp.NextWindowQuery{
		PropertyID: propertyID,
		Nights:     nights,
	}
	if from, ok := parseFlexibleTime(c.Query("from")); ok {
		query.SearchStart = from
	}
	result, err := queries.Ask[availapp.NextWindowQuery, dto.NextWindow](c.Request.Context(), h.Queries, query)
	if err != nil {
		writeRateError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ AvailabilityHTTP = AvailabilityHandler{}

func resolveWindow(fromRaw, toRaw string) (time.Time, time.Time) {
	now := time.Now().UTC()
	from, ok := parseFlexibleTime(fromRaw)
	if !ok {
		from = now
	}
	from = truncateToDay(from)
	to, ok := parseFlexibleTime(toRaw)
	if !ok {
		to = from.AddDate(0, 0, 45)
	}
	to = truncateToDay(to)
	if !to.After(from) {
		to = from.AddDate(0, 0, 45)
	}
	return from, to
}

func truncateToDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func parseInt(raw string) int {
	value, _ := strconv.Atoi(strings.TrimSpace(raw))
	if value < 0 {
		return 0
	}
	return value
}

func parseIntWithDefault(raw string, fallback int) int {
	value := parseInt(raw)
	if value == 0 {
		return fallback
	}
	return value
}
