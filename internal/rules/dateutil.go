package rules

import "time"

// dateUTC builds a UTC midnight time.Time for (year, month, day), used only
// to derive a day-count threshold at compile time.
func dateUTC(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}
