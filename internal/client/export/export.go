// Package export writes attendance records to spreadsheet files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/client/filter"
	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/client/models"
	"github.com/xuri/excelize/v2"
)

const (
	SheetAttendance = "Attendance"
	SheetDaily      = "Daily Summary"

	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

var attendanceHeader = []string{
	"ID", "Employee", "Date", "Punch In", "Punch Out", "Duration", "Status", "Punch In Image", "Punch Out Image",
}

var dailyHeader = []string{
	"Date", "Employee", "First Punch In", "Last Punch Out", "Total Hours", "Records",
}

// Write dispatches on format ("xlsx" or "csv").
func Write(w io.Writer, format string, records []models.AttendanceRecord, now time.Time) error {
	switch format {
	case FormatXLSX, "":
		return WriteXLSX(w, records, now)
	case FormatCSV:
		return WriteCSV(w, records, now.Location())
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// WriteXLSX writes a workbook with one row per record on the Attendance sheet
// and per-employee day totals on the Daily Summary sheet.
func WriteXLSX(w io.Writer, records []models.AttendanceRecord, now time.Time) error {
	loc := now.Location()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), SheetAttendance); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetDaily); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	rows := make([][]any, 0, len(records))
	for _, r := range records {
		rows = append(rows, attendanceRow(r, loc))
	}
	if err := writeSheet(f, SheetAttendance, attendanceHeader, rows, bold); err != nil {
		return err
	}

	summaries := filter.DailySummaries(records, loc)
	rows = make([][]any, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, dailyRow(s))
	}
	if err := writeSheet(f, SheetDaily, dailyHeader, rows, bold); err != nil {
		return err
	}

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   "Attendance Report",
		Creator: "reportsviewer",
		Created: now.UTC().Format(time.RFC3339),
	}); err != nil {
		return fmt.Errorf("set properties: %w", err)
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]any, headerStyle int) error {
	cells := make([]any, len(header))
	for i, h := range header {
		cells[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &cells); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}

	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("style %s header: %w", sheet, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", lastCol, 18)
}

// WriteCSV writes the Attendance columns as CSV.
func WriteCSV(w io.Writer, records []models.AttendanceRecord, loc *time.Location) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(attendanceHeader); err != nil {
		return err
	}
	for _, r := range records {
		row := attendanceRow(r, loc)
		out := make([]string, len(row))
		for i, v := range row {
			out[i] = fmt.Sprint(v)
		}
		if err := cw.Write(out); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func attendanceRow(r models.AttendanceRecord, loc *time.Location) []any {
	id := ""
	if r.ID != nil {
		id = strconv.FormatInt(*r.ID, 10)
	}
	duration := "-"
	if d, ok := filter.WorkDuration(r, loc); ok {
		duration = filter.FormatDuration(d)
	}
	return []any{
		id,
		r.EmployeeID,
		filter.FormatDate(r.PunchInTime, loc),
		filter.FormatClock(r.PunchInTime, loc),
		filter.FormatClock(r.PunchOutTime, loc),
		duration,
		r.Status(),
		deref(r.ImageURL),
		deref(r.PunchOutImageURL),
	}
}

func dailyRow(s filter.DailySummary) []any {
	return []any{
		s.Date,
		s.EmployeeID,
		s.FirstPunchIn,
		deref(s.LastPunchOut),
		s.TotalHours,
		s.RecordCount,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
