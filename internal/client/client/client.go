package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/client/models"
	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/client/query"
	"github.com/google/uuid"
)

const userAgent = "reportsviewer/1.0"

type Client interface {
	// ID identifies this handle instance in logs.
	ID() string
	// Endpoint is the backend address with any password removed.
	Endpoint() string
	Select(ctx context.Context, q *query.Query) ([]models.AttendanceRecord, error)
	Close() error
}

type Timeouts struct {
	Connect time.Duration
	Socket  time.Duration
	Request time.Duration
}

func DefaultTimeouts() Timeouts {
	return Timeouts{
		Connect: 30 * time.Second,
		Socket:  30 * time.Second,
		Request: 60 * time.Second,
	}
}

// New builds a handle for endpoint: http(s) URLs get a RESTClient,
// postgres URLs a PostgresClient.
func New(endpoint, secretKey string, t Timeouts) (Client, error) {
	if strings.TrimSpace(endpoint) == "" || strings.TrimSpace(secretKey) == "" {
		return nil, ErrNotConfigured
	}

	u, err := url.Parse(strings.TrimSpace(endpoint))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedEndpoint, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		c, err := NewRESTClient(endpoint, secretKey, t)
		if err != nil {
			return nil, err
		}
		return c, nil
	case "postgres", "postgresql":
		c, err := NewPostgresClient(endpoint, secretKey, t)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("%w: scheme %q", ErrUnsupportedEndpoint, u.Scheme)
	}
}

func newID() string {
	return uuid.NewString()
}
