package reports

import (
	"context"
	"strings"
	"sync"

	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/broadcast"
	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/client/models"
	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/logging"
)

const (
	MsgMissingFields  = "Please enter both URL and Key"
	MsgSaveFailed     = "Failed to save settings"
	MsgConnectionFail = "Connection failed"
)

type CredentialStore interface {
	CredentialReader
	Write(ctx context.Context, endpoint, secretKey string) error
}

type ConnectionTester interface {
	TestConnection(ctx context.Context, creds models.Credentials) (bool, error)
}

type SettingsState struct {
	Endpoint     string  `json:"url"`
	SecretKey    string  `json:"key"`
	IsSaving     bool    `json:"is_saving"`
	IsTesting    bool    `json:"is_testing"`
	SaveSuccess  bool    `json:"save_success"`
	TestSuccess  *bool   `json:"test_success"`
	ErrorMessage *string `json:"error_message"`
}

type Settings struct {
	mu    sync.Mutex
	state SettingsState

	store  CredentialStore
	tester ConnectionTester
	hub    *broadcast.Hub[SettingsState]
	log    logging.Logger
}

func NewSettings(store CredentialStore, tester ConnectionTester, log logging.Logger) *Settings {
	return &Settings{
		store:  store,
		tester: tester,
		hub:    broadcast.NewHub[SettingsState](4),
		log:    log.With("component", "settings_form"),
	}
}

func (s *Settings) State() SettingsState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Settings) Subscribe() (<-chan SettingsState, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hub.SubscribeWith(s.state)
}

func (s *Settings) update(fn func(st *SettingsState)) SettingsState {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
	s.hub.Publish(s.state)
	return s.state
}

// Load fills the form from the store.
func (s *Settings) Load(ctx context.Context) error {
	creds, err := s.store.Read(ctx)
	if err != nil {
		msg := err.Error()
		s.update(func(st *SettingsState) { st.ErrorMessage = &msg })
		return err
	}
	s.update(func(st *SettingsState) {
		st.Endpoint = creds.Endpoint
		st.SecretKey = creds.SecretKey
	})
	return nil
}

func (s *Settings) UpdateEndpoint(v string) {
	s.update(func(st *SettingsState) {
		st.Endpoint = v
		resetOutcome(st)
	})
}

func (s *Settings) UpdateSecretKey(v string) {
	s.update(func(st *SettingsState) {
		st.SecretKey = v
		resetOutcome(st)
	})
}

func resetOutcome(st *SettingsState) {
	st.SaveSuccess = false
	st.TestSuccess = nil
	st.ErrorMessage = nil
}

// Save trims both fields and writes them to the store.
func (s *Settings) Save(ctx context.Context) error {
	cur := s.update(func(st *SettingsState) {
		st.IsSaving = true
		st.ErrorMessage = nil
	})

	endpoint := strings.TrimSpace(cur.Endpoint)
	key := strings.TrimSpace(cur.SecretKey)

	if err := s.store.Write(ctx, endpoint, key); err != nil {
		msg := err.Error()
		if msg == "" {
			msg = MsgSaveFailed
		}
		s.update(func(st *SettingsState) {
			st.IsSaving = false
			st.ErrorMessage = &msg
		})
		return err
	}

	s.update(func(st *SettingsState) {
		st.IsSaving = false
		st.SaveSuccess = true
		st.Endpoint = endpoint
		st.SecretKey = key
	})
	return nil
}

// TestConnection probes the backend with the form's current (trimmed)
// values without saving them.
func (s *Settings) TestConnection(ctx context.Context) (bool, error) {
	cur := s.State()
	creds := models.Credentials{
		Endpoint:  strings.TrimSpace(cur.Endpoint),
		SecretKey: strings.TrimSpace(cur.SecretKey),
	}

	if !creds.IsComplete() {
		msg := MsgMissingFields
		s.update(func(st *SettingsState) { st.ErrorMessage = &msg })
		return false, nil
	}

	s.update(func(st *SettingsState) {
		st.IsTesting = true
		st.ErrorMessage = nil
		st.TestSuccess = nil
	})

	ok, err := s.tester.TestConnection(ctx, creds)
	if err != nil || !ok {
		msg := MsgConnectionFail
		if err != nil && err.Error() != "" {
			msg = err.Error()
		}
		failed := false
		s.update(func(st *SettingsState) {
			st.IsTesting = false
			st.TestSuccess = &failed
			st.ErrorMessage = &msg
		})
		s.log.Info(ctx, "connection test failed", "endpoint", creds.Endpoint, "error", err)
		return false, err
	}

	passed := true
	s.update(func(st *SettingsState) {
		st.IsTesting = false
		st.TestSuccess = &passed
	})
	s.log.Info(ctx, "connection test passed", "endpoint", creds.Endpoint)
	return true, nil
}

func (s *Settings) ClearError() {
	s.update(func(st *SettingsState) { st.ErrorMessage = nil })
}

func (s *Settings) ClearSuccessStates() {
	s.update(func(st *SettingsState) {
		st.SaveSuccess = false
		st.TestSuccess = nil
	})
}
