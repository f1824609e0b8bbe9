// Package repository reads attendance records from the remote "attendance"
// collection. Every operation returns either a value or a *Failure; nothing
// panics past this package.
package repository

import (
	"context"
	"sort"

	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/client/client"
	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/client/models"
	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/client/query"
	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/logging"
)

const (
	Table = "attendance"

	ColumnEmployeeID  = "employee_id"
	ColumnPunchInTime = "punch_in_time"
)

// Handles hands out backend handles for a credential pair.
// *connection.Cache implements it.
type Handles interface {
	Get(ctx context.Context, endpoint, secretKey string) (client.Client, error)
}

type Repository struct {
	handles Handles
	log     logging.Logger
}

func New(handles Handles, log logging.Logger) *Repository {
	return &Repository{handles: handles, log: log.With("component", "repository", "table", Table)}
}

// GetAllRecords returns every record, newest punch-in first.
func (r *Repository) GetAllRecords(ctx context.Context, creds models.Credentials) ([]models.AttendanceRecord, error) {
	return r.selectRecords(ctx, "GetAllRecords", creds,
		query.From(Table).OrderBy(ColumnPunchInTime, true))
}

// GetRecordsByEmployee returns the records whose employee_id equals employeeID exactly.
func (r *Repository) GetRecordsByEmployee(ctx context.Context, creds models.Credentials, employeeID string) ([]models.AttendanceRecord, error) {
	return r.selectRecords(ctx, "GetRecordsByEmployee", creds,
		query.From(Table).Eq(ColumnEmployeeID, employeeID).OrderBy(ColumnPunchInTime, true))
}

// GetRecordsByDateRange returns records with start <= punch_in_time <= end.
// The bounds are passed to the backend unchanged.
func (r *Repository) GetRecordsByDateRange(ctx context.Context, creds models.Credentials, start, end string) ([]models.AttendanceRecord, error) {
	return r.selectRecords(ctx, "GetRecordsByDateRange", creds,
		query.From(Table).Gte(ColumnPunchInTime, start).Lte(ColumnPunchInTime, end).OrderBy(ColumnPunchInTime, true))
}

// TestConnection issues a one-row query and ignores its content.
func (r *Repository) TestConnection(ctx context.Context, creds models.Credentials) (bool, error) {
	_, err := r.selectRecords(ctx, "TestConnection", creds, query.From(Table).WithLimit(1))
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetUniqueEmployeeIDs returns the distinct employee ids in ascending order.
func (r *Repository) GetUniqueEmployeeIDs(ctx context.Context, creds models.Credentials) ([]string, error) {
	recs, err := r.selectRecords(ctx, "GetUniqueEmployeeIDs", creds,
		query.From(Table).Select(ColumnEmployeeID))
	if err != nil {
		return nil, err
	}
	return UniqueEmployeeIDs(recs), nil
}

// UniqueEmployeeIDs projects, deduplicates and sorts employee ids.
func UniqueEmployeeIDs(recs []models.AttendanceRecord) []string {
	seen := make(map[string]struct{}, len(recs))
	ids := make([]string, 0, len(recs))
	for _, rec := range recs {
		if _, ok := seen[rec.EmployeeID]; ok {
			continue
		}
		seen[rec.EmployeeID] = struct{}{}
		ids = append(ids, rec.EmployeeID)
	}
	sort.Strings(ids)
	return ids
}

func (r *Repository) selectRecords(ctx context.Context, op string, creds models.Credentials, q *query.Query) (recs []models.AttendanceRecord, err error) {
	defer func() {
		if p := recover(); p != nil {
			recs = nil
			err = panicFailure(op, p)
			r.log.Error(ctx, "repository call panicked", "op", op, "panic", p)
		}
	}()

	h, err := r.handles.Get(ctx, creds.Endpoint, creds.SecretKey)
	if err != nil {
		f := newFailure(op, err)
		r.log.Warn(ctx, "no backend client", "op", op, "error", f)
		return nil, f
	}

	r.log.Debug(ctx, "select", "op", op, "query", q.String(), "client", h.ID())

	recs, err = h.Select(ctx, q)
	if err != nil {
		f := newFailure(op, err)
		r.log.Error(ctx, "select failed", "op", op, "kind", f.Kind, "error", err)
		return nil, f
	}

	r.log.Debug(ctx, "select done", "op", op, "rows", len(recs))
	return recs, nil
}
