package httpapi

import (
	"context"
	"log/slog"
	"time"

	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/client/filter"
	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/client/reports"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

const (
	apiTitle   = "Employer Reports Viewer API"
	apiVersion = "1.0.0"

	defaultKeepalive = 30 * time.Second
)

// ReportsService is the report state holder as seen by the handlers.
type ReportsService interface {
	State() reports.ReportsState
	Subscribe() (<-chan reports.ReportsState, func())
	Refresh(ctx context.Context) error
	SelectEmployee(employeeID *string)
	SelectDateFilter(bucket filter.DateBucket)
	ClearError()
}

// SettingsService is the settings form state holder.
type SettingsService interface {
	State() reports.SettingsState
	Load(ctx context.Context) error
	UpdateEndpoint(v string)
	UpdateSecretKey(v string)
	Save(ctx context.Context) error
	TestConnection(ctx context.Context) (bool, error)
	ClearError()
	ClearSuccessStates()
}

// CredentialClearer forgets the persisted credentials.
type CredentialClearer interface {
	Clear(ctx context.Context) error
}

type Deps struct {
	Reports  ReportsService
	Settings SettingsService
	Clearer  CredentialClearer
	Log      *slog.Logger
	// AllowedOrigins for CORS; empty allows any origin.
	AllowedOrigins []string
	// Keepalive between ping events on the event stream.
	Keepalive time.Duration
}

// Register adds every typed operation to api.
func Register(api huma.API, d Deps) {
	newHealthHandler(d.Log).SetupRoutes(api)
	newReportsHandler(d.Reports, d.Log).SetupRoutes(api)
	newSettingsHandler(d.Settings, d.Clearer, d.Log).SetupRoutes(api)
}

// NewRouter builds the full HTTP handler.
func NewRouter(d Deps) *chi.Mux {
	if d.Log == nil {
		d.Log = slog.New(slog.DiscardHandler)
	}
	if d.Keepalive <= 0 {
		d.Keepalive = defaultKeepalive
	}
	origins := d.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(httplog.RequestLogger(d.Log, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/ping"))

	r.Get("/api/v1/reports/events", newEventsHandler(d.Reports, d.Keepalive, d.Log).ServeHTTP)

	api := humachi.New(r, huma.DefaultConfig(apiTitle, apiVersion))
	Register(api, d)

	return r
}
