package money

import (
	"math"
	"strconv"
	"strings"
)

// Amounts flow through the rate engine as float64 rupiah at full precision.
// Rounding to whole units happens here, at the presentation boundary, so
// intermediate sums never compound rounding error.

// Round converts a full-precision amount to whole currency units.
func Round(amount float64) int64 {
	return int64(math.Round(amount))
}

// Format renders a whole-unit amount as "Rp 1.234.567".
func Format(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)
	var b strings.Builder
	b.WriteString(sign)
	b.WriteString("Rp ")
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
		if len(digits) > lead {
			b.WriteByte('.')
		}
	}
	for i := lead; i < len(digits); i += 3 {
		b.WriteString(digits[i : i+3])
		if i+3 < len(digits) {
			b.WriteByte('.')
		}
	}
	return b.String()
}

// FormatFloat rounds and formats in one step.
func FormatFloat(amount float64) string {
	return Format(Round(amount))
}
