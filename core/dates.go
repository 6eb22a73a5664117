package core

import "time"

// DateOf truncates t to its local civil day. All attendance and membership
// windows work at this granularity; no timezone conversion happens here.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same civil day.
func SameDay(a, b time.Time) bool {
	return DateOf(a).Equal(DateOf(b))
}

// DaysUntil returns ceil((to - from) / 1 day). It is negative once `to` is
// more than a day behind `from`.
func DaysUntil(from, to time.Time) int {
	diff := to.Sub(from)
	days := diff / (24 * time.Hour)
	if diff%(24*time.Hour) > 0 {
		days++
	}
	return int(days)
}
