package report

import (
	"fmt"
	"strconv"
)

// formatCount renders n with a K/M/B suffix once it crosses the
// corresponding threshold, so a huge row count stays readable on one line.
func formatCount(n int64) string {
	switch {
	case n > 1_000_000_000:
		return fmt.Sprintf("%.1fB", float64(n)/1_000_000_000)
	case n > 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n > 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return strconv.FormatInt(n, 10)
	}
}
