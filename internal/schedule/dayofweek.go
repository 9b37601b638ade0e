package schedule

import "strings"

// Weekdays are indexed Mon=0 .. Sun=6, matching spec's day_of_week domain.
var weekdayNames = [7]string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

var weekdayFullNames = [7]string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

func weekdayIndex(name string) (int, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return 0, false
	}
	for i, w := range weekdayNames {
		if n == w || n == weekdayFullNames[i] {
			return i, true
		}
	}
	return 0, false
}

// goWeekdayToAxis converts Go's time.Weekday (Sun=0..Sat=6) to this
// package's Mon=0..Sun=6 axis indexing.
func goWeekdayToAxis(wd int) int {
	// time.Sunday == 0
	return (wd + 6) % 7
}
