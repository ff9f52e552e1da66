package journey

import (
	"fmt"
	"time"
)

// DayNumber returns the 0-based number of whole calendar days between the
// journey start date and the given date. Day 0 is the start date itself;
// dates before the start yield negative numbers.
func DayNumber(date, journeyStart time.Time) int {
	return int(dateKey(date).Sub(dateKey(journeyStart)) / (24 * time.Hour))
}

// DayLabel renders a day number as the badge shown on post cards.
func DayLabel(n int) string {
	return fmt.Sprintf("Dag %d", n)
}
