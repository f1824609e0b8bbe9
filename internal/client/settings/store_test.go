package settings

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/client/models"
	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/client/storage"
	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T, path string) *sql.DB {
	t.Helper()
	db, err := storage.Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(openDB(t, ":memory:"), logging.Nop())
}

func next(t *testing.T, ch <-chan models.Credentials) models.Credentials {
	t.Helper()
	select {
	case c, ok := <-ch:
		require.True(t, ok, "subscription closed")
		return c
	case <-time.After(time.Second):
		t.Fatal("no emission")
	}
	return models.Credentials{}
}

func TestStore_ReadEmpty(t *testing.T) {
	s := newStore(t)

	c, err := s.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.Credentials{}, c)
}

func TestStore_WriteThenRead(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, "https://p.supabase.co", "anon"))

	c, err := s.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Credentials{Endpoint: "https://p.supabase.co", SecretKey: "anon"}, c)
}

func TestStore_WriteStoresValuesVerbatim(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, " not a url ", ""))

	c, err := s.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, " not a url ", c.Endpoint)
	assert.Equal(t, "", c.SecretKey)
}

func TestStore_PersistsAcrossRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.db")
	ctx := context.Background()

	db, err := storage.Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, NewStore(db, logging.Nop()).Write(ctx, "https://a", "k1"))
	require.NoError(t, db.Close())

	s := NewStore(openDB(t, path), logging.Nop())
	c, err := s.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Credentials{Endpoint: "https://a", SecretKey: "k1"}, c)
}

func TestStore_ReadNeverSeesHalfAWrite(t *testing.T) {
	ctx := context.Background()
	s := NewStore(openDB(t, filepath.Join(t.TempDir(), "settings.db")), logging.Nop())
	require.NoError(t, s.Write(ctx, "u0", "k0"))

	const writes = 300

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 1; i <= writes; i++ {
			if err := s.Write(ctx, fmt.Sprintf("u%d", i), fmt.Sprintf("k%d", i)); err != nil {
				t.Errorf("write %d: %v", i, err)
				return
			}
		}
	}()

	for i := 0; i < writes; i++ {
		c, err := s.Read(ctx)
		require.NoError(t, err)
		require.Equal(t, strings.TrimPrefix(c.Endpoint, "u"), strings.TrimPrefix(c.SecretKey, "k"),
			"mixed pair %+v", c)
	}
	wg.Wait()

	c, err := s.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Credentials{Endpoint: fmt.Sprintf("u%d", writes), SecretKey: fmt.Sprintf("k%d", writes)}, c)
}

func TestStore_Clear(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, "https://a", "k"))
	require.NoError(t, s.Clear(ctx))

	c, err := s.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Credentials{}, c)
}

func TestStore_SubscribeEmitsCurrentThenUpdates(t *testing.T) {
	s := newStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.Write(ctx, "https://a", "k1"))

	ch, unsubscribe, err := s.Subscribe(ctx)
	require.NoError(t, err)
	defer unsubscribe()

	assert.Equal(t, models.Credentials{Endpoint: "https://a", SecretKey: "k1"}, next(t, ch))

	require.NoError(t, s.Write(ctx, "https://b", "k2"))
	assert.Equal(t, models.Credentials{Endpoint: "https://b", SecretKey: "k2"}, next(t, ch))

	require.NoError(t, s.Clear(ctx))
	assert.Equal(t, models.Credentials{}, next(t, ch))
}

func TestStore_SubscribeClosesOnContextDone(t *testing.T) {
	s := newStore(t)
	ctx, cancel := context.WithCancel(context.Background())

	ch, _, err := s.Subscribe(ctx)
	require.NoError(t, err)
	_ = next(t, ch)

	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

func TestStore_SubscribeCleanupWithoutCancel(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	ch, cleanup, err := s.Subscribe(ctx)
	require.NoError(t, err)
	_ = next(t, ch)

	cleanup()
	cleanup()

	_, ok := <-ch
	assert.False(t, ok)
}

func TestStore_SubscribeCleanupReleasesWatcher(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	before := runtime.NumGoroutine()
	for i := 0; i < 50; i++ {
		_, cleanup, err := s.Subscribe(ctx)
		require.NoError(t, err)
		cleanup()
	}

	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before+5
	}, time.Second, 10*time.Millisecond)
}

func TestStore_SeedIfEmpty(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	wrote, err := s.SeedIfEmpty(ctx, models.Credentials{Endpoint: "https://env", SecretKey: "envkey"})
	require.NoError(t, err)
	assert.True(t, wrote)

	wrote, err = s.SeedIfEmpty(ctx, models.Credentials{Endpoint: "https://other", SecretKey: "x"})
	require.NoError(t, err)
	assert.False(t, wrote, "existing values must win")

	c, err := s.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://env", c.Endpoint)

	wrote, err = newStore(t).SeedIfEmpty(ctx, models.Credentials{Endpoint: "https://only-url"})
	require.NoError(t, err)
	assert.False(t, wrote)
}

func TestStore_WriteFailsOnClosedDB(t *testing.T) {
	db := openDB(t, ":memory:")
	s := NewStore(db, logging.Nop())
	require.NoError(t, db.Close())

	err := s.Write(context.Background(), "https://a", "k")
	require.ErrorContains(t, err, "failed to save credentials")
}
