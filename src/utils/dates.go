package utils

import (
	"time"
)

// CalendarDate returns the YYYY-MM-DD date of t as seen in loc.
func CalendarDate(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(ShortDashDateLayout)
}
