package availability

import (
	"time"

	"staywise/internal/domain/shared/daterange"
)

// BookedInterval is one existing booking that occupies a property for a
// half-open date range. Callers include only bookings whose status still
// holds the property; the checker never sees booking state.
type BookedInterval struct {
	Range     daterange.DateRange
	BookingID string
}

// Period is a booked interval clipped to a query window.
type Period struct {
	Start time.Time
	End   time.Time
}

// searchHorizonDays bounds NextAvailableWindow so a fully booked calendar
// still terminates.
const searchHorizonDays = 365

// IsRangeFree reports whether no existing interval overlaps the candidate
// range. Half-open semantics: an interval ending exactly on the candidate
// check-in does not conflict, so back-to-back bookings are legal.
func IsRangeFree(intervals []BookedInterval, candidate daterange.DateRange) bool {
	for _, iv := range intervals {
		if iv.Range.Overlaps(candidate) {
			return false
		}
	}
	return true
}

// BookedDatesWithin returns the individual occupied dates inside the window,
// sorted ascending with duplicates collapsed.
func BookedDatesWithin(intervals []BookedInterval, window daterange.DateRange) []time.Time {
	var out []time.Time
	for _, day := range window.Dates() {
		for _, iv := range intervals {
			if iv.Range.ContainsDate(day) {
				out = append(out, day)
				break
			}
		}
	}
	return out
}

// BookedPeriods returns the existing intervals clipped to the window, in
// ascending start order.
func BookedPeriods(intervals []BookedInterval, window daterange.DateRange) []Period {
	var out []Period
	for _, iv := range intervals {
		clipped, ok := iv.Range.Clamp(window)
		if !ok {
			continue
		}
		out = append(out, Period{Start: clipped.CheckIn, End: clipped.CheckOut})
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Start.Before(out[j-1].Start); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// NextAvailableWindow scans forward day by day from searchStart and returns
// the first run of desiredNights consecutive free nights. The second return
// value is false when no window exists inside the search horizon.
func NextAvailableWindow(intervals []BookedInterval, desiredNights int, searchStart time.Time) (daterange.DateRange, bool) {
	if desiredNights < 1 {
		return daterange.DateRange{}, false
	}
	start := daterange.Midnight(searchStart)
	for offset := 0; offset < searchHorizonDays; offset++ {
		checkIn := start.AddDate(0, 0, offset)
		candidate := daterange.DateRange{CheckIn: checkIn, CheckOut: checkIn.AddDate(0, 0, desiredNights)}
		if IsRangeFree(intervals, candidate) {
			return candidate, true
		}
	}
	return daterange.DateRange{}, false
}
