package reports

import (
	"context"
	"errors"
	"sync"

	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/broadcast"
	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/client/filter"
	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/client/models"
	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/client/repository"
	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/logging"
)

const (
	MsgNotConfigured = "Please configure Supabase in Settings"
	MsgLoadFailed    = "Failed to load records"

	lastRefreshLayout = "15:04:05"
)

var ErrNotConfigured = errors.New(MsgNotConfigured)

type CredentialReader interface {
	Read(ctx context.Context) (models.Credentials, error)
}

type CredentialSubscriber interface {
	Subscribe(ctx context.Context) (<-chan models.Credentials, func(), error)
}

type RecordSource interface {
	GetAllRecords(ctx context.Context, creds models.Credentials) ([]models.AttendanceRecord, error)
}

type ReportsState struct {
	IsLoading          bool                      `json:"is_loading"`
	IsConfigured       bool                      `json:"is_configured"`
	Records            []models.AttendanceRecord `json:"records"`
	FilteredRecords    []models.AttendanceRecord `json:"filtered_records"`
	EmployeeIDs        []string                  `json:"employee_ids"`
	SelectedEmployeeID *string                   `json:"selected_employee_id"`
	SelectedDateFilter filter.DateBucket         `json:"selected_date_filter"`
	ErrorMessage       *string                   `json:"error_message"`
	LastRefresh        *string                   `json:"last_refresh"`
	Stats              filter.Stats              `json:"stats"`
}

func initialReportsState() ReportsState {
	return ReportsState{
		Records:            []models.AttendanceRecord{},
		FilteredRecords:    []models.AttendanceRecord{},
		EmployeeIDs:        []string{},
		SelectedDateFilter: filter.All,
	}
}

type Reports struct {
	mu      sync.Mutex
	state   ReportsState
	creds   models.Credentials
	loadSeq uint64

	store  CredentialReader
	source RecordSource
	engine *filter.Engine
	hub    *broadcast.Hub[ReportsState]
	log    logging.Logger
}

func NewReports(store CredentialReader, source RecordSource, engine *filter.Engine, log logging.Logger) *Reports {
	return &Reports{
		state:  initialReportsState(),
		store:  store,
		source: source,
		engine: engine,
		hub:    broadcast.NewHub[ReportsState](4),
		log:    log.With("component", "reports"),
	}
}

func (r *Reports) State() ReportsState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Subscribe emits the current state first, then every change.
func (r *Reports) Subscribe() (<-chan ReportsState, func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hub.SubscribeWith(r.state)
}

// update applies fn to the state and publishes the result. Callers hold no lock.
func (r *Reports) update(fn func(s *ReportsState)) ReportsState {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(&r.state)
	r.hub.Publish(r.state)
	return r.state
}

// CheckConfiguration reads the stored credentials and loads records when
// both are present.
func (r *Reports) CheckConfiguration(ctx context.Context) error {
	creds, err := r.store.Read(ctx)
	if err != nil {
		msg := err.Error()
		r.update(func(s *ReportsState) { s.ErrorMessage = &msg })
		return err
	}

	r.mu.Lock()
	r.creds = creds
	r.mu.Unlock()

	configured := creds.IsComplete()
	r.update(func(s *ReportsState) { s.IsConfigured = configured })
	if !configured {
		return nil
	}
	return r.Refresh(ctx)
}

// Refresh fetches all records and recomputes the derived fields. Overlapping
// refreshes are allowed; only the most recent one is applied.
func (r *Reports) Refresh(ctx context.Context) error {
	r.mu.Lock()
	creds := r.creds
	r.mu.Unlock()

	if !creds.IsComplete() {
		msg := MsgNotConfigured
		r.update(func(s *ReportsState) {
			s.IsConfigured = false
			s.ErrorMessage = &msg
		})
		return ErrNotConfigured
	}

	var seq uint64
	r.update(func(s *ReportsState) {
		r.loadSeq++
		seq = r.loadSeq
		s.IsLoading = true
		s.ErrorMessage = nil
	})

	records, err := r.source.GetAllRecords(ctx, creds)

	r.mu.Lock()
	defer r.mu.Unlock()

	if seq != r.loadSeq {
		return err
	}

	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = MsgLoadFailed
		}
		r.state.IsLoading = false
		r.state.ErrorMessage = &msg
		r.hub.Publish(r.state)
		r.log.Warn(ctx, "refresh failed", "error", err)
		return err
	}

	if records == nil {
		records = []models.AttendanceRecord{}
	}
	stamp := r.engine.Now().Format(lastRefreshLayout)

	r.state.IsLoading = false
	r.state.IsConfigured = true
	r.state.Records = records
	r.state.EmployeeIDs = repository.UniqueEmployeeIDs(records)
	r.state.LastRefresh = &stamp
	r.refilterLocked()
	r.hub.Publish(r.state)

	r.log.Info(ctx, "records refreshed", "records", len(records), "employees", len(r.state.EmployeeIDs))
	return nil
}

// SelectEmployee narrows the list to one employee; nil selects everyone.
func (r *Reports) SelectEmployee(employeeID *string) {
	if employeeID != nil {
		id := *employeeID
		employeeID = &id
	}
	r.update(func(s *ReportsState) {
		s.SelectedEmployeeID = employeeID
		r.refilter(s)
	})
}

func (r *Reports) SelectDateFilter(bucket filter.DateBucket) {
	r.update(func(s *ReportsState) {
		s.SelectedDateFilter = bucket
		r.refilter(s)
	})
}

func (r *Reports) ClearError() {
	r.update(func(s *ReportsState) { s.ErrorMessage = nil })
}

// WatchSettings follows credential changes until ctx ends: new complete
// credentials trigger a refresh, cleared credentials empty the report.
func (r *Reports) WatchSettings(ctx context.Context, sub CredentialSubscriber) error {
	ch, cancel, err := sub.Subscribe(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case creds, ok := <-ch:
			if !ok {
				return ctx.Err()
			}
			r.applyCredentials(ctx, creds)
		}
	}
}

func (r *Reports) applyCredentials(ctx context.Context, creds models.Credentials) {
	r.mu.Lock()
	changed := creds != r.creds
	r.creds = creds
	r.mu.Unlock()

	if !changed {
		return
	}

	if !creds.IsComplete() {
		r.update(func(s *ReportsState) {
			selected := s.SelectedDateFilter
			*s = initialReportsState()
			s.SelectedDateFilter = selected
		})
		return
	}

	r.update(func(s *ReportsState) { s.IsConfigured = true })
	if err := r.Refresh(ctx); err != nil {
		r.log.Debug(ctx, "refresh after settings change failed", "error", err)
	}
}

func (r *Reports) refilterLocked() {
	r.refilter(&r.state)
}

func (r *Reports) refilter(s *ReportsState) {
	s.FilteredRecords = r.engine.Apply(s.Records, filter.Criteria{
		EmployeeID: s.SelectedEmployeeID,
		Bucket:     s.SelectedDateFilter,
	})
	s.Stats = filter.Summarize(s.FilteredRecords)
}
