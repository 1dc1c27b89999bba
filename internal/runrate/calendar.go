package runrate

import "time"

// Remaining counts the days strictly after now's calendar date through the
// last day of the same month. Saturday and Sunday are weekend days. The
// calendar date is taken in now's own location.
func Remaining(now time.Time) CalendarCounts {
	y, m, d := now.Date()
	last := time.Date(y, m+1, 0, 0, 0, 0, 0, now.Location()).Day()

	var c CalendarCounts
	for day := d + 1; day <= last; day++ {
		switch time.Date(y, m, day, 12, 0, 0, 0, now.Location()).Weekday() {
		case time.Saturday, time.Sunday:
			c.RemainingWeekends++
		default:
			c.RemainingWeekdays++
		}
	}
	return c
}
