// Package connection keeps at most one live backend handle per Cache and
// rebuilds it only when the credentials change.
package connection

import (
	"context"
	"strings"
	"sync"

	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/client/client"
	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/logging"
)

// Factory builds a handle for a credential pair.
type Factory func(endpoint, secretKey string) (client.Client, error)

// DefaultFactory builds handles with client.New and the given timeouts.
func DefaultFactory(t client.Timeouts) Factory {
	return func(endpoint, secretKey string) (client.Client, error) {
		return client.New(endpoint, secretKey, t)
	}
}

// Cache is safe for concurrent use. Construction happens under the lock, so
// concurrent callers with the same credentials share one handle.
type Cache struct {
	mu        sync.Mutex
	factory   Factory
	log       logging.Logger
	current   client.Client
	endpoint  string
	secretKey string
}

func NewCache(factory Factory, log logging.Logger) *Cache {
	return &Cache{factory: factory, log: log.With("component", "connection")}
}

// Get returns the cached handle when endpoint and secretKey equal the pair it
// was built with; otherwise the old handle is closed and a new one built.
// Blank credentials return client.ErrNotConfigured and leave the cache as is.
func (c *Cache) Get(ctx context.Context, endpoint, secretKey string) (client.Client, error) {
	if strings.TrimSpace(endpoint) == "" || strings.TrimSpace(secretKey) == "" {
		return nil, client.ErrNotConfigured
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current != nil && c.endpoint == endpoint && c.secretKey == secretKey {
		return c.current, nil
	}

	next, err := c.factory(endpoint, secretKey)
	if err != nil {
		return nil, err
	}

	if c.current != nil {
		c.log.Debug(ctx, "credentials changed, replacing client", "old_client", c.current.ID())
		c.closeCurrent(ctx)
	}

	c.current = next
	c.endpoint = endpoint
	c.secretKey = secretKey
	c.log.Info(ctx, "client created", "client", next.ID(), "endpoint", next.Endpoint())
	return next, nil
}

// IsConfigured reports whether a handle for a non-blank pair is cached.
func (c *Cache) IsConfigured() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current != nil && c.endpoint != "" && c.secretKey != ""
}

// handle returns the cached handle or nil.
func (c *Cache) handle() client.Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Clear drops the handle; the next Get rebuilds it.
func (c *Cache) Clear(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeCurrent(ctx)
	c.current = nil
	c.endpoint = ""
	c.secretKey = ""
}

func (c *Cache) closeCurrent(ctx context.Context) {
	if c.current == nil {
		return
	}
	if err := c.current.Close(); err != nil {
		c.log.Warn(ctx, "failed to close client", "client", c.current.ID(), "error", err)
	}
}
