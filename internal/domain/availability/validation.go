package availability

import (
	"fmt"
	"strings"
	"time"

	"staywise/internal/domain/shared/daterange"
)

type ValidationCode string

const (
	CodePastCheckIn  ValidationCode = "PastCheckIn"
	CodeInvalidOrder ValidationCode = "InvalidOrder"
)

type ValidationError struct {
	Code    ValidationCode
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("availability: %s: %s", e.Code, e.Message)
}

// ValidateDateInputs checks a candidate stay against the calendar rules that
// do not depend on existing bookings. An empty slice means the inputs are
// valid.
func ValidateDateInputs(checkIn, checkOut, today time.Time) []ValidationError {
	var errs []ValidationError
	in := daterange.Midnight(checkIn)
	out := daterange.Midnight(checkOut)
	if in.Before(daterange.Midnight(today)) {
		errs = append(errs, ValidationError{Code: CodePastCheckIn, Message: "check-in date is in the past"})
	}
	if !out.After(in) {
		errs = append(errs, ValidationError{Code: CodeInvalidOrder, Message: "check-out must be after check-in"})
	}
	return errs
}

// ConflictError reports that a requested range overlaps existing bookings. It
// carries the conflicting periods clipped to the requested range and, when one
// exists, the next window of the same length.
type ConflictError struct {
	Requested  daterange.DateRange
	Periods    []Period
	Suggestion *daterange.DateRange
}

func (e *ConflictError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "availability: %s to %s conflicts with %d existing booking(s)",
		e.Requested.CheckIn.Format("2006-01-02"), e.Requested.CheckOut.Format("2006-01-02"), len(e.Periods))
	if e.Suggestion != nil {
		fmt.Fprintf(&b, "; next available from %s", e.Suggestion.CheckIn.Format("2006-01-02"))
	}
	return b.String()
}

// CheckRange combines the overlap test with conflict reporting: nil when the
// range is free, otherwise a ConflictError with clipped periods and a
// suggested alternative window.
func CheckRange(intervals []BookedInterval, candidate daterange.DateRange) error {
	if IsRangeFree(intervals, candidate) {
		return nil
	}
	conflict := &ConflictError{
		Requested: candidate,
		Periods:   BookedPeriods(intervals, candidate),
	}
	if window, ok := NextAvailableWindow(intervals, candidate.Nights(), candidate.CheckIn); ok {
		conflict.Suggestion = &window
	}
	return conflict
}
