package booking

import (
	"context"
	"log/slog"
	"time"

	"staywise/internal/app/commands"
	"staywise/internal/app/middleware"
	"staywise/internal/app/outbox"
	"staywise/internal/app/policies"
	"staywise/internal/domain/availability"
	domainbooking "staywise/internal/domain/booking"
	"staywise/internal/domain/property"
	"staywise/internal/domain/rate"
	"staywise/internal/domain/shared/daterange"
)

const createBookingKey = "booking.create"

type CreateBookingCommand struct {
	CommandID       string
	PropertyID      string
	GuestID         string
	CheckIn         time.Time
	CheckOut        time.Time
	Guests          int
	IdempotencyKeyV string
}

func (c CreateBookingCommand) Key() string { return createBookingKey }

func (c CreateBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c CreateBookingCommand) ResultPrototype() any { return &CreateBookingResult{} }

type CreateBookingResult struct {
	BookingID   string  `json:"booking_id"`
	TotalAmount float64 `json:"total_amount"`
	AuditRef    string  `json:"audit_ref,omitempty"`
}

// CreateBookingHandler re-runs the availability check and the rate
// calculation at booking time and freezes the resulting breakdown on the
// booking, so the stored total never drifts from what was quoted.
type CreateBookingHandler struct {
	Properties    property.Repository
	SeasonalRates property.SeasonalRateRepository
	Bookings      domainbooking.Repository
	Outbox        outbox.Outbox
	Encoder       outbox.EventEncoder
	Archiver      policies.AuditArchiver
	Logger        *slog.Logger
}

func (h *CreateBookingHandler) Handle(ctx context.Context, cmd CreateBookingCommand) (*CreateBookingResult, error) {
	now := time.Now().UTC()
	if errs := availability.ValidateDateInputs(cmd.CheckIn, cmd.CheckOut, now); len(errs) > 0 {
		return nil, errs[0]
	}
	stay, err := daterange.New(cmd.CheckIn, cmd.CheckOut)
	if err != nil {
		return nil, err
	}

	prop, err := h.Properties.ByID(ctx, property.ID(cmd.PropertyID))
	if err != nil {
		return nil, err
	}
	rules, err := h.SeasonalRates.ActiveForProperty(ctx, prop.ID)
	if err != nil {
		return nil, err
	}
	intervals, err := h.Bookings.HoldingIntervals(ctx, prop.ID)
	if err != nil {
		return nil, err
	}
	if err := availability.CheckRange(intervals, stay); err != nil {
		return nil, err
	}

	breakdown, err := rate.Calculate(prop.Pricing, rules, stay.CheckIn, stay.CheckOut, cmd.Guests)
	if err != nil {
		return nil, err
	}

	bk, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:         domainbooking.BookingID(cmd.CommandID),
		PropertyID: prop.ID,
		GuestID:    cmd.GuestID,
		Range:      stay,
		Guests:     cmd.Guests,
		Breakdown:  *breakdown,
		CreatedAt:  now,
	})
	if err != nil {
		return nil, err
	}

	if err := h.Bookings.Save(ctx, bk); err != nil {
		return nil, err
	}

	pending := bk.PendingEvents()
	bk.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.encoder(), pending); err != nil {
		return nil, err
	}

	result := &CreateBookingResult{
		BookingID:   string(bk.ID),
		TotalAmount: breakdown.TotalAmount,
	}
	if h.Archiver != nil {
		ref, err := h.Archiver.Archive(ctx, "bookings/"+string(bk.ID)+".json", breakdown)
		if err != nil {
			// The booking stands; a missing audit copy is an operational
			// problem, not a guest-facing one.
			if h.Logger != nil {
				h.Logger.Warn("rate audit archive failed", "booking_id", bk.ID, "error", err)
			}
		} else {
			result.AuditRef = ref
		}
	}
	return result, nil
}

func (h *CreateBookingHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

var _ commands.Handler[CreateBookingCommand, *CreateBookingResult] = (*CreateBookingHandler)(nil)
var _ middleware.IdempotentCommand = (*CreateBookingCommand)(nil)
