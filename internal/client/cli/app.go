package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/client/client"
	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/client/config"
	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/client/connection"
	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/client/filter"
	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/client/models"
	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/client/reports"
	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/client/repository"
	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/client/settings"
	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/client/storage"
	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/logging"
)

// App holds everything a command needs.
type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	store    *settings.Store
	cache    *connection.Cache
	repo     *repository.Repository
	engine   *filter.Engine
	reports  *reports.Reports
	settings *reports.Settings

	out    io.Writer
	reader *bufio.Reader
}

// NewApp opens the settings database, seeds it from configuration when it is
// empty and builds the state holders.
func NewApp(ctx context.Context, c *config.Config, l logging.Logger, clock filter.Clock, in io.Reader, out io.Writer) (*App, error) {
	db, err := storage.Open(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	store := settings.NewStore(db, l)
	seeded, err := store.SeedIfEmpty(ctx, models.Credentials{Endpoint: c.Endpoint, SecretKey: c.SecretKey})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if seeded {
		l.Info(ctx, "settings seeded from configuration", "endpoint", c.Endpoint)
	}

	timeouts := client.Timeouts{
		Connect: c.ConnectTimeout,
		Socket:  c.SocketTimeout,
		Request: c.RequestTimeout,
	}
	cache := connection.NewCache(connection.DefaultFactory(timeouts), l)
	repo := repository.New(cache, l)
	engine := filter.NewEngine(clock)

	if in == nil {
		in = os.Stdin
	}

	return &App{
		config:   c,
		logger:   l,
		db:       db,
		store:    store,
		cache:    cache,
		repo:     repo,
		engine:   engine,
		reports:  reports.NewReports(store, repo, engine, l),
		settings: reports.NewSettings(store, repo, l),
		out:      out,
		reader:   bufio.NewReader(in),
	}, nil
}

// Close drops the cached backend handle and closes the database.
func (a *App) Close(ctx context.Context) error {
	a.cache.Clear(ctx)
	return a.db.Close()
}

// credentials returns the stored pair or reports.ErrNotConfigured.
func (a *App) credentials(ctx context.Context) (models.Credentials, error) {
	creds, err := a.store.Read(ctx)
	if err != nil {
		return models.Credentials{}, err
	}
	if !creds.IsComplete() {
		return models.Credentials{}, reports.ErrNotConfigured
	}
	return creds, nil
}

// load selects employee and bucket, then reads settings and refreshes the
// report.
func (a *App) load(ctx context.Context, employeeID *string, bucket filter.DateBucket) (reports.ReportsState, error) {
	a.reports.SelectEmployee(employeeID)
	a.reports.SelectDateFilter(bucket)

	if err := a.reports.CheckConfiguration(ctx); err != nil {
		return reports.ReportsState{}, err
	}
	st := a.reports.State()
	if !st.IsConfigured {
		return st, reports.ErrNotConfigured
	}
	return st, nil
}
