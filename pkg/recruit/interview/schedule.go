package interview

import (
	"strings"
	"time"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// ParseSchedule combines the date and time fields of the scheduling form
// into an instant in loc. Seconds in the time field are accepted and dropped.
func ParseSchedule(date, clock string, loc *time.Location) (time.Time, FieldErrors) {
	fields := FieldErrors{}
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)

	if date == "" {
		fields.Add("interview_date", "date is required")
	}
	if clock == "" {
		fields.Add("interview_time", "time is required")
	}
	if len(fields) > 0 {
		return time.Time{}, fields
	}

	d, err := time.ParseInLocation(dateLayout, date, loc)
	if err != nil {
		fields.Add("interview_date", "date is not a valid calendar date")
	}

	if len(clock) == len("15:04:05") {
		clock = clock[:len(timeLayout)]
	}
	c, err := time.Parse(timeLayout, clock)
	if err != nil {
		fields.Add("interview_time", "time must use HH:MM")
	}
	if len(fields) > 0 {
		return time.Time{}, fields
	}

	return time.Date(d.Year(), d.Month(), d.Day(), c.Hour(), c.Minute(), 0, 0, loc), nil
}

// SplitSchedule is the inverse of ParseSchedule
func SplitSchedule(t time.Time, loc *time.Location) (date, clock string) {
	local := t.In(loc)
	return local.Format(dateLayout), local.Format(timeLayout)
}

func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
