//go:build integration

package figura

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupPostgresContainer starts an ephemeral PostgreSQL and returns its DSN.
func setupPostgresContainer(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:15",
		postgres.WithDatabase("figura_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres container")
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")
	return dsn
}

func TestPostgres_E2E_Conformance(t *testing.T) {
	dsn := setupPostgresContainer(t)
	var n atomic.Int32

	runStorageConformance(t, func(t *testing.T) TemplateStorage {
		s, err := NewPostgresStorage(PostgresConfig{
			ConnectionString: dsn,
			TablePrefix:      fmt.Sprintf("conf%d_", n.Add(1)),
			AutoMigrate:      true,
		})
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestPostgres_E2E_Migrations(t *testing.T) {
	dsn := setupPostgresContainer(t)
	ctx := context.Background()

	s, err := NewPostgresStorage(PostgresConfig{ConnectionString: dsn, AutoMigrate: true})
	require.NoError(t, err)
	defer s.Close()

	version, err := s.CurrentSchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(s.migrations()), version)

	require.NoError(t, s.RunMigrations(ctx))
	again, err := s.CurrentSchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, version, again)
}

func TestPostgres_E2E_DriverAndEngine(t *testing.T) {
	dsn := setupPostgresContainer(t)
	ctx := context.Background()

	storage, err := OpenStorage(StorageDriverNamePostgres, dsn)
	require.NoError(t, err)

	se, err := NewStorageEngine(StorageEngineConfig{Storage: storage})
	require.NoError(t, err)
	defer se.Close()

	require.NoError(t, se.Save(ctx, &StoredTemplate{
		Name:       "banner",
		Source:     "[[<'=':width> <title> <'=':width>]]",
		OpenDelim:  "<",
		CloseDelim: ">",
		Metadata:   map[string]string{"owner": "ops"},
	}))

	vars := NewContext()
	vars.SetInt("width", 3)
	vars.SetString("title", "Status")

	out, err := se.Render(ctx, "banner", vars)
	require.NoError(t, err)
	assert.Equal(t, "[[=== Status ===]]", out)

	stored, err := se.Get(ctx, "banner")
	require.NoError(t, err)
	assert.Equal(t, "ops", stored.Metadata["owner"])
}
