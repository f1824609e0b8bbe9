// Package settings persists string key/value pairs in the local "settings"
// table. Callers pass either *sql.DB or *sql.Tx.
package settings

import (
	"context"
)

type Repository interface {
	Set(ctx context.Context, key string, value string) error
	// List returns every stored pair in one query.
	List(ctx context.Context) (map[string]string, error)
	Clear(ctx context.Context) error
}
