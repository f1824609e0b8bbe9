// Package filter narrows attendance records by employee and calendar window
// and computes the aggregates shown next to the list.
//
// All date logic runs against an injected "now" so results are reproducible.
// Record timestamps are wall-clock values without a zone; they are read in
// the location of now.
package filter

import (
	"time"

	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/client/models"
)

// Criteria selects records. A nil EmployeeID means every employee.
type Criteria struct {
	EmployeeID *string
	Bucket     DateBucket
}

// Clock returns the current time.
type Clock func() time.Time

// Engine applies Criteria relative to its clock.
type Engine struct {
	now Clock
}

func NewEngine(now Clock) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{now: now}
}

func (e *Engine) Now() time.Time {
	return e.now()
}

func (e *Engine) Apply(records []models.AttendanceRecord, c Criteria) []models.AttendanceRecord {
	return Apply(records, c.EmployeeID, c.Bucket, e.now())
}

// Apply keeps the records matching employeeID (when non-nil) whose punch-in
// falls into bucket relative to now. Input order is preserved and the result
// is never nil. Records whose punch-in is missing or unreadable only survive
// the All bucket; an unknown bucket filters like All.
func Apply(records []models.AttendanceRecord, employeeID *string, bucket DateBucket, now time.Time) []models.AttendanceRecord {
	out := make([]models.AttendanceRecord, 0, len(records))
	in := window(bucket, now)

	for _, rec := range records {
		if employeeID != nil && rec.EmployeeID != *employeeID {
			continue
		}
		if in != nil {
			t, ok := ParsePtr(rec.PunchInTime, now.Location())
			if !ok || !in(dateOf(t)) {
				continue
			}
		}
		out = append(out, rec)
	}
	return out
}

// window returns the date predicate for bucket, or nil when no date filter
// applies. Dates are midnights in now's
// location.
func window(bucket DateBucket, now time.Time) func(time.Time) bool {
	today := dateOf(now)

	switch bucket {
	case Today:
		return func(d time.Time) bool { return d.Equal(today) }
	case ThisWeek:
		monday := today.AddDate(0, 0, -(isoWeekday(today) - 1))
		return func(d time.Time) bool { return !d.Before(monday) && !d.After(today) }
	case ThisMonth:
		return func(d time.Time) bool {
			return d.Year() == today.Year() && d.Month() == today.Month()
		}
	default:
		return nil
	}
}
