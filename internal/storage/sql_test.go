package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

func setupSQLite(t *testing.T, path string) *SQLStore {
	store, err := NewSQLiteStore(path, "terminal-1")
	require.NoError(t, err)
	require.NoError(t, store.RunMigrations())
	return store
}

func TestSQLiteStore(t *testing.T) {
	store := setupSQLite(t, filepath.Join(t.TempDir(), "pos.db"))
	defer store.Close()

	exerciseKV(t, store)
}

func TestSQLiteStore_UnopenablePath(t *testing.T) {
	_, err := NewSQLiteStore(filepath.Join(t.TempDir(), "missing", "pos.db"), "t1")
	assert.ErrorContains(t, err, "failed to ping database")
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pos.db")
	ctx := context.Background()

	first := setupSQLite(t, path)
	require.NoError(t, first.Set(ctx, "order-storage", []byte(`{"items":[]}`)))
	require.NoError(t, first.Close())

	// migrations are idempotent on an existing file
	second := setupSQLite(t, path)
	defer second.Close()

	got, err := second.Get(ctx, "order-storage")
	require.NoError(t, err)
	assert.Equal(t, `{"items":[]}`, string(got))
}

func TestSQLiteStore_NamespacesAreIsolated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pos.db")
	ctx := context.Background()

	a := setupSQLite(t, path)
	require.NoError(t, a.Set(ctx, "order-storage", []byte("a")))
	require.NoError(t, a.Close())

	b, err := NewSQLiteStore(path, "terminal-2")
	require.NoError(t, err)
	defer b.Close()

	_, err = b.Get(ctx, "order-storage")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("pos"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	defer func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}()

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	store, err := NewPostgresStore(&Credentials{
		Host:     host,
		Port:     port.Int(),
		User:     "postgres",
		Password: "postgres",
		DBName:   "pos",
	}, "terminal-1")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.RunMigrations())
	exerciseKV(t, store)
}
