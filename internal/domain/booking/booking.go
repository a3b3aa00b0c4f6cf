package booking

import (
	"context"
	"errors"
	"time"

	"staywise/internal/domain/availability"
	"staywise/internal/domain/property"
	"staywise/internal/domain/rate"
	"staywise/internal/domain/shared/daterange"
	"staywise/internal/domain/shared/events"
)

var (
	ErrInvalidGuests   = errors.New("booking: guests count must be positive")
	ErrInvalidState    = errors.New("booking: invalid state transition")
	ErrBookingNotFound = errors.New("booking: not found")
	ErrCheckInInPast   = errors.New("booking: check-in date is in the past")
)

type BookingID string

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusCheckedIn  Status = "checked_in"
	StatusCheckedOut Status = "checked_out"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// HoldsProperty reports whether a booking in this status still occupies its
// property's dates. Only cancelled bookings release their nights.
func (s Status) HoldsProperty() bool {
	return s != StatusCancelled
}

// Booking freezes the rate calculation that priced it, so historical totals
// survive later profile or rule changes.
type Booking struct {
	ID         BookingID
	PropertyID property.ID
	GuestID    string
	Range      daterange.DateRange
	Guests     int
	Breakdown  rate.Result
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Version    int64
	events.EventRecorder
}

// Interval converts the booking to the occupancy view the availability
// checker consumes.
func (b *Booking) Interval() availability.BookedInterval {
	return availability.BookedInterval{Range: b.Range, BookingID: string(b.ID)}
}

type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	Save(ctx context.Context, b *Booking) error
	ListByGuest(ctx context.Context, guestID string) ([]*Booking, error)
	// HoldingIntervals returns the date ranges of every booking that still
	// occupies the property, the snapshot quoting and booking run against.
	HoldingIntervals(ctx context.Context, propertyID property.ID) ([]availability.BookedInterval, error)
}

type CreateParams struct {
	ID         BookingID
	PropertyID property.ID
	GuestID    string
	Range      daterange.DateRange
	Guests     int
	Breakdown  rate.Result
	CreatedAt  time.Time
}

func NewBooking(params CreateParams) (*Booking, error) {
	if params.Guests <= 0 {
		return nil, ErrInvalidGuests
	}
	if params.GuestID == "" {
		return nil, errors.New("booking: guest id required")
	}
	if err := params.Range.Validate(); err != nil {
		return nil, err
	}
	now := params.CreatedAt.UTC()
	b := &Booking{
		ID:         params.ID,
		PropertyID: params.PropertyID,
		GuestID:    params.GuestID,
		Range:      params.Range,
		Guests:     params.Guests,
		Breakdown:  params.Breakdown,
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	b.Record(BookingRequested{
		BookingID:   b.ID,
		PropertyID:  b.PropertyID,
		GuestID:     b.GuestID,
		Range:       b.Range,
		GuestsCount: b.Guests,
		QuotedTotal: b.Breakdown.TotalAmount,
		At:          now,
	})
	return b, nil
}

// ValidateDateRange rejects stays whose check-in has already passed.
func ValidateDateRange(dr daterange.DateRange, now time.Time) error {
	if dr.CheckIn.Before(daterange.Midnight(now)) {
		return ErrCheckInInPast
	}
	return nil
}

func (b *Booking) Confirm(now time.Time) error {
	if b.Status != StatusPending {
		return ErrInvalidState
	}
	b.Status = StatusConfirmed
	b.UpdatedAt = now.UTC()
	b.Record(BookingConfirmed{BookingID: b.ID, PropertyID: b.PropertyID, Range: b.Range, Total: b.Breakdown.TotalAmount, At: b.UpdatedAt})
	return nil
}

func (b *Booking) Cancel(reason string, now time.Time) error {
	switch b.Status {
	case StatusPending, StatusConfirmed:
	default:
		return ErrInvalidState
	}
	b.Status = StatusCancelled
	b.UpdatedAt = now.UTC()
	b.Record(BookingCancelled{BookingID: b.ID, PropertyID: b.PropertyID, Reason: reason, At: b.UpdatedAt})
	return nil
}

func (b *Booking) CheckIn(now time.Time) error {
	if b.Status != StatusConfirmed {
		return ErrInvalidState
	}
	b.Status = StatusCheckedIn
	b.UpdatedAt = now.UTC()
	b.Record(GuestCheckedIn{BookingID: b.ID, At: b.UpdatedAt})
	return nil
}

func (b *Booking) CheckOut(now time.Time) error {
	if b.Status != StatusCheckedIn {
		return ErrInvalidState
	}
	b.Status = StatusCheckedOut
	b.UpdatedAt = now.UTC()
	b.Record(GuestCheckedOut{BookingID: b.ID, At: b.UpdatedAt})
	return nil
}

func (b *Booking) Complete(now time.Time) error {
	if b.Status != StatusCheckedOut {
		return ErrInvalidState
	}
	b.Status = StatusCompleted
	b.UpdatedAt = now.UTC()
	return nil
}
