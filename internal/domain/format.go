package domain

import (
	"strconv"
	"strings"
)

// DefaultDecimals is the decimal-place cap used when formatting values for
// report rows.
const DefaultDecimals = 10

// FormatDecimal renders x with up to maxPlaces decimal digits, trimming
// trailing zeros and a trailing decimal point. An empty or minus-only
// result collapses to "0". It never fails for finite input; non-finite
// values are the caller's problem and must be rejected upstream.
func FormatDecimal(x float64, maxPlaces int) string {
	if maxPlaces < 0 {
		maxPlaces = 0
	}
	s := strconv.FormatFloat(x, 'f', maxPlaces, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimRight(s, ".")
	}
	if s == "" || s == "-" {
		s = "0"
	}
	return s
}

// FormatAuto is FormatDecimal with the default decimal-place cap.
func FormatAuto(x float64) string { return FormatDecimal(x, DefaultDecimals) }
