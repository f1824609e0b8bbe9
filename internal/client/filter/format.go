package filter

import "time"

const (
	clockLayout = "03:04 PM"
	dateLayout  = "Mon, Jan 2, 2006"
)

// FormatClock renders the time of day of a raw timestamp ("09:05 AM").
// Unreadable values fall back to their first 8 characters.
func FormatClock(raw *string, loc *time.Location) string {
	if raw == nil {
		return "-"
	}
	if t, ok := ParseTimestamp(*raw, loc); ok {
		return t.Format(clockLayout)
	}
	return prefix(*raw, 8)
}

// FormatDate renders the day of a raw timestamp ("Mon, Jun 3, 2024").
// Unreadable values fall back to their first 10 characters.
func FormatDate(raw *string, loc *time.Location) string {
	if raw == nil {
		return "-"
	}
	if t, ok := ParseTimestamp(*raw, loc); ok {
		return t.Format(dateLayout)
	}
	return prefix(*raw, 10)
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
