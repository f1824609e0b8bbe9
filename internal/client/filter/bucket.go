package filter

import (
	"fmt"
	"strings"
)

// DateBucket is a calendar window relative to "today".
type DateBucket string

const (
	All       DateBucket = "ALL"
	Today     DateBucket = "TODAY"
	ThisWeek  DateBucket = "THIS_WEEK"
	ThisMonth DateBucket = "THIS_MONTH"
)

// Buckets lists every bucket in display order.
var Buckets = []DateBucket{All, Today, ThisWeek, ThisMonth}

// Label is the human readable name shown in menus.
func (b DateBucket) Label() string {
	switch b {
	case Today:
		return "Today"
	case ThisWeek:
		return "This Week"
	case ThisMonth:
		return "This Month"
	default:
		return "All"
	}
}

// ParseDateBucket accepts the canonical names and common short forms,
// case-insensitively.
func ParseDateBucket(s string) (DateBucket, error) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)

	switch norm {
	case "", "ALL":
		return All, nil
	case "TODAY":
		return Today, nil
	case "THIS_WEEK", "WEEK":
		return ThisWeek, nil
	case "THIS_MONTH", "MONTH":
		return ThisMonth, nil
	default:
		return "", fmt.Errorf("unknown date filter %q (want all, today, week or month)", s)
	}
}
