package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/client/filter"
	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/client/models"
	"github.com/fatih/color"
)

const (
	FormatTable  = "table"
	FormatSimple = "simple"
	FormatJSON   = "json"
)

var (
	workingColor    = color.New(color.FgGreen, color.Bold)
	checkedOutColor = color.New(color.FgHiBlack)
	errorColor      = color.New(color.FgRed)
	successColor    = color.New(color.FgGreen)
)

func statusText(r models.AttendanceRecord) string {
	if r.IsWorking() {
		return workingColor.Sprint(r.Status())
	}
	return checkedOutColor.Sprint(r.Status())
}

func durationText(r models.AttendanceRecord, loc *time.Location) string {
	if d, ok := filter.WorkDuration(r, loc); ok {
		return filter.FormatDuration(d)
	}
	return "-"
}

func idText(r models.AttendanceRecord) string {
	if r.ID == nil {
		return "-"
	}
	return strconv.FormatInt(*r.ID, 10)
}

func printRecords(w io.Writer, format string, records []models.AttendanceRecord, loc *time.Location) error {
	switch format {
	case FormatJSON:
		return printJSON(w, records)
	case FormatSimple:
		return printRecordsSimple(w, records, loc)
	case FormatTable, "":
		return printRecordsTable(w, records, loc)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func printRecordsTable(w io.Writer, records []models.AttendanceRecord, loc *time.Location) error {
	if len(records) == 0 {
		fmt.Fprintln(w, "No attendance records found")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\tEmployee\tDate\tPunch In\tPunch Out\tDuration\tStatus\t\n")
	fmt.Fprintf(tw, "---\t---\t---\t---\t---\t---\t---\t\n")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			idText(r),
			r.EmployeeID,
			filter.FormatDate(r.PunchInTime, loc),
			filter.FormatClock(r.PunchInTime, loc),
			filter.FormatClock(r.PunchOutTime, loc),
			durationText(r, loc),
			statusText(r),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\nTotal records: %d\n", len(records))
	return nil
}

func printRecordsSimple(w io.Writer, records []models.AttendanceRecord, loc *time.Location) error {
	if len(records) == 0 {
		fmt.Fprintln(w, "No attendance records found")
		return nil
	}

	fmt.Fprintf(w, "Records found: %d\n\n", len(records))
	for i, r := range records {
		fmt.Fprintf(w, "%d. %s  %s  [%s]\n", i+1, r.EmployeeID, filter.FormatDate(r.PunchInTime, loc), statusText(r))
		fmt.Fprintf(w, "   In: %s | Out: %s | Duration: %s\n",
			filter.FormatClock(r.PunchInTime, loc),
			filter.FormatClock(r.PunchOutTime, loc),
			durationText(r, loc))
	}
	return nil
}

func printRecordDetail(w io.Writer, r models.AttendanceRecord, loc *time.Location) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", idText(r))
	fmt.Fprintf(tw, "Employee:\t%s\n", r.EmployeeID)
	fmt.Fprintf(tw, "Date:\t%s\n", filter.FormatDate(r.PunchInTime, loc))
	fmt.Fprintf(tw, "Punch in:\t%s\n", filter.FormatClock(r.PunchInTime, loc))
	fmt.Fprintf(tw, "Punch out:\t%s\n", filter.FormatClock(r.PunchOutTime, loc))
	fmt.Fprintf(tw, "Duration:\t%s\n", durationText(r, loc))
	fmt.Fprintf(tw, "Status:\t%s\n", statusText(r))
	fmt.Fprintf(tw, "Synced:\t%t\n", r.IsSynced)
	if r.ImageURL != nil {
		fmt.Fprintf(tw, "Punch-in photo:\t%s\n", *r.ImageURL)
	}
	if r.PunchOutImageURL != nil {
		fmt.Fprintf(tw, "Punch-out photo:\t%s\n", *r.PunchOutImageURL)
	}
	_ = tw.Flush()
}

func printStats(w io.Writer, s filter.Stats) {
	fmt.Fprintf(w, "Total: %d  Employees: %d  Working: %d\n", s.Total, s.Employees, s.Working)
}

func printDaily(w io.Writer, summaries []filter.DailySummary) error {
	if len(summaries) == 0 {
		fmt.Fprintln(w, "No attendance records found")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Date\tEmployee\tFirst In\tLast Out\tHours\tRecords\t\n")
	for _, s := range summaries {
		last := "-"
		if s.LastPunchOut != nil {
			last = *s.LastPunchOut
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.2f\t%d\t\n", s.Date, s.EmployeeID, s.FirstPunchIn, last, s.TotalHours, s.RecordCount)
	}
	return tw.Flush()
}

func printJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
