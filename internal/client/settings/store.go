// Package settings is the persistent configuration store for the backend
// credentials. Values survive restarts and every change is pushed to
// subscribers.
package settings

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/broadcast"
	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/client/models"
	repo "github.com/VasupariSaikumar/EmployerReportsViewer/internal/client/repositories/settings"
	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/dbx"
	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/logging"
)

const (
	KeyEndpoint  = "supabase_url"
	KeySecretKey = "supabase_key"
)

// Store reads and writes the credential pair.
type Store struct {
	// mu orders writes against subscriptions so no update falls between
	// the initial read and registration.
	mu  sync.Mutex
	db  *sql.DB
	log logging.Logger
	hub *broadcast.Hub[models.Credentials]
}

func NewStore(db *sql.DB, log logging.Logger) *Store {
	return &Store{
		db:  db,
		log: log.With("component", "settings"),
		hub: broadcast.NewHub[models.Credentials](4),
	}
}

func (s *Store) repo() repo.Repository {
	return repo.NewSQLiteRepository(s.db)
}

// Read returns the stored pair; missing values are empty strings. Both values
// come from one query so a concurrent Write is seen entirely or not at all.
func (s *Store) Read(ctx context.Context) (models.Credentials, error) {
	values, err := s.repo().List(ctx)
	if err != nil {
		return models.Credentials{}, err
	}
	return models.Credentials{Endpoint: values[KeyEndpoint], SecretKey: values[KeySecretKey]}, nil
}

// Write stores both values in one transaction and notifies subscribers.
// Values are stored as given.
func (s *Store) Write(ctx context.Context, endpoint, secretKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := repo.NewSQLiteRepository(tx)
		if err := r.Set(ctx, KeyEndpoint, endpoint); err != nil {
			return err
		}
		return r.Set(ctx, KeySecretKey, secretKey)
	})
	if err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}

	s.log.Info(ctx, "credentials saved", "endpoint", endpoint)
	s.hub.Publish(models.Credentials{Endpoint: endpoint, SecretKey: secretKey})
	return nil
}

// Clear removes every persisted setting and notifies subscribers with the
// empty pair.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo().Clear(ctx); err != nil {
		return err
	}
	s.log.Info(ctx, "credentials cleared")
	s.hub.Publish(models.Credentials{})
	return nil
}

// Subscribe emits the current pair immediately and again after every
// successful Write or Clear. The channel is closed after cancel is called or
// ctx is done.
func (s *Store) Subscribe(ctx context.Context) (<-chan models.Credentials, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.Read(ctx)
	if err != nil {
		return nil, nil, err
	}

	ch, release := s.hub.SubscribeWith(current)

	done := make(chan struct{})
	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			close(done)
			release()
		})
	}
	go func() {
		select {
		case <-ctx.Done():
			cleanup()
		case <-done:
		}
	}()
	return ch, cleanup, nil
}

// SeedIfEmpty writes creds when nothing has been stored yet. It reports
// whether a write happened.
func (s *Store) SeedIfEmpty(ctx context.Context, creds models.Credentials) (bool, error) {
	if !creds.IsComplete() {
		return false, nil
	}
	current, err := s.Read(ctx)
	if err != nil {
		return false, err
	}
	if current.Endpoint != "" || current.SecretKey != "" {
		return false, nil
	}
	if err := s.Write(ctx, creds.Endpoint, creds.SecretKey); err != nil {
		return false, err
	}
	return true, nil
}
