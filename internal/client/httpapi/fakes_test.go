package httpapi

import (
	"context"
	"sync"

	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/broadcast"
	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/client/filter"
	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/client/models"
	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/client/reports"
)

type fakeReports struct {
	mu         sync.Mutex
	state      reports.ReportsState
	refreshErr error
	hub        *broadcast.Hub[reports.ReportsState]
	cleared    int
}

func newFakeReports() *fakeReports {
	return &fakeReports{
		state: reports.ReportsState{
			IsConfigured:       true,
			Records:            []models.AttendanceRecord{{EmployeeID: "E1"}},
			FilteredRecords:    []models.AttendanceRecord{{EmployeeID: "E1"}},
			EmployeeIDs:        []string{"E1"},
			SelectedDateFilter: filter.All,
		},
		hub: broadcast.NewHub[reports.ReportsState](4),
	}
}

func (f *fakeReports) State() reports.ReportsState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fakeReports) Subscribe() (<-chan reports.ReportsState, func()) {
	return f.hub.SubscribeWith(f.State())
}

func (f *fakeReports) set(fn func(s *reports.ReportsState)) {
	f.mu.Lock()
	fn(&f.state)
	s := f.state
	f.mu.Unlock()
	f.hub.Publish(s)
}

func (f *fakeReports) Refresh(context.Context) error {
	if f.refreshErr != nil {
		return f.refreshErr
	}
	f.set(func(s *reports.ReportsState) { s.LastRefresh = models.Ptr("10:00:00") })
	return nil
}

func (f *fakeReports) SelectEmployee(id *string) {
	f.set(func(s *reports.ReportsState) { s.SelectedEmployeeID = id })
}

func (f *fakeReports) SelectDateFilter(b filter.DateBucket) {
	f.set(func(s *reports.ReportsState) { s.SelectedDateFilter = b })
}

func (f *fakeReports) ClearError() {
	f.cleared++
	f.set(func(s *reports.ReportsState) { s.ErrorMessage = nil })
}

type fakeSettings struct {
	state   reports.SettingsState
	saveErr error
	testOK  bool
	testErr error
	loaded  int
}

func (f *fakeSettings) State() reports.SettingsState   { return f.state }
func (f *fakeSettings) Load(context.Context) error     { f.loaded++; return nil }
func (f *fakeSettings) UpdateEndpoint(v string)        { f.state.Endpoint = v }
func (f *fakeSettings) UpdateSecretKey(v string)       { f.state.SecretKey = v }
func (f *fakeSettings) ClearError()                    { f.state.ErrorMessage = nil }
func (f *fakeSettings) ClearSuccessStates()            { f.state.SaveSuccess = false; f.state.TestSuccess = nil }
func (f *fakeSettings) Save(context.Context) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.state.SaveSuccess = true
	return nil
}

func (f *fakeSettings) TestConnection(context.Context) (bool, error) {
	if f.state.Endpoint == "" || f.state.SecretKey == "" {
		f.state.ErrorMessage = models.Ptr(reports.MsgMissingFields)
		return false, nil
	}
	if f.testErr != nil {
		f.state.ErrorMessage = models.Ptr(f.testErr.Error())
	}
	f.state.TestSuccess = models.Ptr(f.testOK)
	return f.testOK, f.testErr
}

type fakeClearer struct {
	calls int
	err   error
}

func (f *fakeClearer) Clear(context.Context) error {
	f.calls++
	return f.err
}
