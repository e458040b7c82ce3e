package scheduling

import (
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// ParseClock parses "HH:MM" (one or two digit hour) into hour and minute.
func ParseClock(s string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 || len(parts[1]) != 2 || parts[0] == "" || len(parts[0]) > 2 {
		return 0, 0, invalid("startTime", "invalid time format %q, expected HH:MM", s)
	}
	if !allDigits(parts[0]) || !allDigits(parts[1]) {
		return 0, 0, invalid("startTime", "invalid time format %q, expected HH:MM", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, invalid("startTime", "invalid hour in %q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, invalid("startTime", "invalid minute in %q", s)
	}
	return hour, minute, nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// OnDate places an "HH:MM" clock time on the calendar day of date.
func OnDate(date time.Time, clock string) (time.Time, error) {
	hour, minute, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, date.Location()), nil
}

// ParseDate parses "YYYY-MM-DD" in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	d, err := time.ParseInLocation(dateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, invalid("date", "invalid date %q, expected YYYY-MM-DD", s)
	}
	return d, nil
}

// FormatDate renders t as "YYYY-MM-DD".
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// ReferenceTime resolves the instant a floor view is computed for. An empty
// viewTime means now; otherwise the clock time is placed on date.
func ReferenceTime(date time.Time, viewTime string, now time.Time) (time.Time, error) {
	if strings.TrimSpace(viewTime) == "" {
		return now, nil
	}
	return OnDate(date, viewTime)
}

// SlotStarts lists every bookable start time on day: OpeningHour:00 and then
// every SlotStep after it, up to ClosingHour:59.
func SlotStarts(day time.Time, s Settings) []time.Time {
	s = s.withDefaults()
	step := int(s.SlotStep / time.Minute)
	if step <= 0 {
		step = 1
	}
	var out []time.Time
	for m := s.OpeningHour * 60; m <= s.ClosingHour*60+59; m += step {
		out = append(out, time.Date(day.Year(), day.Month(), day.Day(), m/60, m%60, 0, 0, day.Location()))
	}
	return out
}

// withinWorkingHours checks that start is one of the bookable slot starts.
func withinWorkingHours(start time.Time, s Settings) error {
	minutes := start.Hour()*60 + start.Minute()
	first := s.OpeningHour * 60
	last := s.ClosingHour*60 + 59
	if minutes < first || minutes > last || start.Second() != 0 || start.Nanosecond() != 0 {
		return invalid("startTime", "%s is outside working hours %02d:00-%02d:59",
			start.Format("15:04"), s.OpeningHour, s.ClosingHour)
	}
	step := int(s.SlotStep / time.Minute)
	if step > 0 && (minutes-first)%step != 0 {
		return invalid("startTime", "%s is not aligned to %d minute slots", start.Format("15:04"), step)
	}
	return nil
}

