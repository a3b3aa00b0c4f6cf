package ginserver

import (
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"staywise/internal/app/commands"
	"staywise/internal/app/dto"
	bookingapp "staywise/internal/app/handlers/booking"
	"staywise/internal/app/queries"
)

type BookingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type createBookingRequest struct {
	PropertyID string    `json:"property_id"`
	CheckIn    time.Time `json:"check_in"`
	CheckOut   time.Time `json:"check_out"`
	Guests     int       `json:"guests"`
}

func (h BookingHandler) Create(c *gin.Context) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	guestID := requireGuestID(c)
	if guestID == "" {
		return
	}
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := bookingapp.CreateBookingCommand{
		CommandID:       generateCommandID(),
		PropertyID:      req.PropertyID,
		GuestID:         guestID,
		CheckIn:         req.CheckIn,
		CheckOut:        req.CheckOut,
		Guests:          req.Guests,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[bookingapp.CreateBookingCommand, *bookingapp.CreateBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeRateError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h BookingHandler) ListMine(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	guestID := requireGuestID(c)
	if guestID == "" {
		return
	}
	query := bookingapp.GuestBookingsQuery{GuestID: guestID}
	result, err := queries.Ask[bookingapp.GuestBookingsQuery, []dto.BookingSummary](c.Request.Context(), h.Queries, query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// requireGuestID reads the caller identity supplied by the gateway. Writes
// the error response itself when missing.
func requireGuestID(c *gin.Context) string {
	guestID := c.GetHeader("X-Guest-ID")
	if guestID == "" {
		guestID = c.Query("guest_id")
	}
	if guestID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "guest identity is required"})
	}
	return guestID
}

func generateCommandID() string {
	return uuid.NewString()
}

var _ BookingHTTP = BookingHandler{}
