package filter

import (
	"fmt"
	"sort"
	"time"

	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/client/models"
)

// Stats are the dashboard counters for a record set.
type Stats struct {
	Total     int `json:"total"`
	Employees int `json:"employees"`
	Working   int `json:"working"`
}

func Summarize(records []models.AttendanceRecord) Stats {
	s := Stats{Total: len(records), Employees: len(DistinctEmployeeIDs(records))}
	for _, r := range records {
		if r.IsWorking() {
			s.Working++
		}
	}
	return s
}

// DistinctEmployeeIDs returns employee ids in first-seen order.
func DistinctEmployeeIDs(records []models.AttendanceRecord) []string {
	seen := make(map[string]struct{}, len(records))
	ids := make([]string, 0)
	for _, r := range records {
		if _, ok := seen[r.EmployeeID]; ok {
			continue
		}
		seen[r.EmployeeID] = struct{}{}
		ids = append(ids, r.EmployeeID)
	}
	return ids
}

// WorkDuration is punch-out minus punch-in. It fails when either stamp is
// missing or unreadable, or when punch-out precedes punch-in.
func WorkDuration(r models.AttendanceRecord, loc *time.Location) (time.Duration, bool) {
	in, ok := ParsePtr(r.PunchInTime, loc)
	if !ok {
		return 0, false
	}
	out, ok := ParsePtr(r.PunchOutTime, loc)
	if !ok || out.Before(in) {
		return 0, false
	}
	return out.Sub(in), true
}

// FormatDuration renders d as "Xh Ym" with minutes truncated.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	mins := int(d / time.Minute)
	return fmt.Sprintf("%dh %dm", mins/60, mins%60)
}

// DailySummary aggregates one employee's records for one calendar day.
type DailySummary struct {
	EmployeeID   string  `json:"employee_id"`
	Date         string  `json:"date"`
	FirstPunchIn string  `json:"first_punch_in"`
	LastPunchOut *string `json:"last_punch_out"`
	TotalHours   float64 `json:"total_hours"`
	RecordCount  int     `json:"record_count"`
}

// DailySummaries groups records by employee and punch-in date. Records with
// an unreadable punch-in are skipped. Output is sorted by date descending,
// then employee id.
func DailySummaries(records []models.AttendanceRecord, loc *time.Location) []DailySummary {
	type key struct{ emp, date string }

	type acc struct {
		first   time.Time
		lastOut *time.Time
		total   time.Duration
		count   int
	}

	groups := map[key]*acc{}
	for _, r := range records {
		in, ok := ParsePtr(r.PunchInTime, loc)
		if !ok {
			continue
		}
		k := key{emp: r.EmployeeID, date: in.Format(time.DateOnly)}
		a := groups[k]
		if a == nil {
			a = &acc{first: in}
			groups[k] = a
		}
		a.count++
		if in.Before(a.first) {
			a.first = in
		}
		if out, ok := ParsePtr(r.PunchOutTime, loc); ok {
			if a.lastOut == nil || out.After(*a.lastOut) {
				a.lastOut = &out
			}
		}
		if d, ok := WorkDuration(r, loc); ok {
			a.total += d
		}
	}

	out := make([]DailySummary, 0, len(groups))
	for k, a := range groups {
		s := DailySummary{
			EmployeeID:   k.emp,
			Date:         k.date,
			FirstPunchIn: a.first.Format(time.DateTime),
			TotalHours:   roundHours(a.total),
			RecordCount:  a.count,
		}
		if a.lastOut != nil {
			v := a.lastOut.Format(time.DateTime)
			s.LastPunchOut = &v
		}
		out = append(out, s)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].EmployeeID < out[j].EmployeeID
	})
	return out
}

func roundHours(d time.Duration) float64 {
	return float64(int(d.Hours()*100+0.5)) / 100
}
