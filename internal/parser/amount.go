package parser

import (
	"strconv"
	"strings"
)

// ParseAmount converts a continental-format amount string ("1.234,56") to a
// float64. Dots are thousands separators and are dropped; the comma is the
// decimal point. The value is accepted only inside [min, max] inclusive;
// anything else reports ok=false, never a clamped value.
func ParseAmount(s string, min, max float64) (float64, bool) {
	cleaned := strings.ReplaceAll(s, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return 0, false
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	if v < min || v > max {
		return 0, false
	}
	return v, true
}
