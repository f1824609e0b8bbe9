package filter

import (
	"strings"
	"time"
)

const (
	layoutSeconds = "2006-01-02T15:04:05"
	layoutMinutes = "2006-01-02T15:04"
)

// ParseTimestamp reads the local date-time at the start of s.
//
// Spaces become "T" and only the first 19 characters are significant, so
// "2024-06-03 09:15:00.123+00" and "2024-06-03T09:15:00Z" both read as
// 2024-06-03 09:15:00. A value without seconds is accepted. Zone suffixes
// are ignored: the result carries loc. It never panics.
func ParseTimestamp(s string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	s = strings.ReplaceAll(s, " ", "T")

	if len(s) >= len(layoutSeconds) {
		if t, err := time.ParseInLocation(layoutSeconds, s[:len(layoutSeconds)], loc); err == nil {
			return t, true
		}
	}
	if len(s) == len(layoutMinutes) {
		if t, err := time.ParseInLocation(layoutMinutes, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParsePtr is ParseTimestamp for optional values; nil never parses.
func ParsePtr(s *string, loc *time.Location) (time.Time, bool) {
	if s == nil {
		return time.Time{}, false
	}
	return ParseTimestamp(*s, loc)
}

// dateOf truncates t to midnight in its own location.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// isoWeekday maps Monday..Sunday to 1..7.
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}
