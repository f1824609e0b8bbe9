package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/client/models"
	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/client/query"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresClient reads rows straight from the backend's PostgreSQL database.
// The pool connects lazily on first use.
type PostgresClient struct {
	id       string
	endpoint string
	pool     *pgxpool.Pool
	timeouts Timeouts
}

func NewPostgresClient(endpoint, secretKey string, t Timeouts) (*PostgresClient, error) {
	cfg, err := pgxpool.ParseConfig(strings.TrimSpace(endpoint))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedEndpoint, err)
	}

	cfg.MaxConns = 4
	cfg.ConnConfig.ConnectTimeout = t.Connect
	cfg.ConnConfig.DialFunc = (&net.Dialer{Timeout: t.Connect, KeepAlive: 30 * time.Second}).DialContext
	// transaction poolers in front of hosted databases reject prepared statements
	cfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	if cfg.ConnConfig.Password == "" {
		cfg.ConnConfig.Password = secretKey
	}
	if cfg.ConnConfig.RuntimeParams == nil {
		cfg.ConnConfig.RuntimeParams = map[string]string{}
	}
	cfg.ConnConfig.RuntimeParams["application_name"] = "reportsviewer"

	pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	return &PostgresClient{
		id:       newID(),
		endpoint: redactDSN(endpoint),
		pool:     pool,
		timeouts: t,
	}, nil
}

func redactDSN(dsn string) string {
	u, err := url.Parse(strings.TrimSpace(dsn))
	if err != nil {
		return "postgres"
	}
	return u.Redacted()
}

func (c *PostgresClient) ID() string {
	return c.id
}

func (c *PostgresClient) Endpoint() string {
	return c.endpoint
}

func (c *PostgresClient) Select(ctx context.Context, q *query.Query) ([]models.AttendanceRecord, error) {
	stmt, args, err := q.SQL()
	if err != nil {
		return nil, err
	}

	if c.timeouts.Request > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeouts.Request)
		defer cancel()
	}

	rows, err := c.pool.Query(ctx, stmt, args...)
	if err != nil {
		return nil, mapPgError(err)
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.AttendanceRecord, error) {
		var raw string
		if err := row.Scan(&raw); err != nil {
			return models.AttendanceRecord{}, err
		}
		var rec models.AttendanceRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return models.AttendanceRecord{}, fmt.Errorf("%w: %w", ErrDecode, err)
		}
		return rec, nil
	})
	if err != nil {
		if errors.Is(err, ErrDecode) {
			return nil, err
		}
		return nil, mapPgError(err)
	}
	if records == nil {
		records = []models.AttendanceRecord{}
	}
	return records, nil
}

func (c *PostgresClient) Close() error {
	c.pool.Close()
	return nil
}

func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "28000", "28P01", "42501":
			return fmt.Errorf("%w: %w", ErrUnauthorized, err)
		case "57014":
			return fmt.Errorf("%w: %w", ErrTimeout, err)
		default:
			return fmt.Errorf("%w: %w", ErrBadResponse, err)
		}
	}
	if pgconn.Timeout(err) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return mapTransportError(err)
}
