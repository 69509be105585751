package opportunity

import (
	"math"
	"strconv"
	"strings"

	"arbitrage-scanner/internal/domain"
)

// ParseNumber parses s as a finite float. The placeholder, blank text,
// NaN and infinities are all rejected.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == domain.Placeholder {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
