// Package integration runs the API and the repositories against a PostgreSQL
// container started with testcontainers.
package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/invoicedesk/backend/internal/infrastructure/config"
	"github.com/invoicedesk/backend/internal/infrastructure/migration"
	"github.com/invoicedesk/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

const (
	postgresImage = "postgres:16-alpine"
	testDBName    = "invoicedesk_test"
	testDBUser    = "postgres"
	testDBPass    = "postgres"
)

var (
	sharedMu        sync.Mutex
	sharedContainer *tcpostgres.PostgresContainer
	sharedConfig    config.DatabaseConfig
)

// TestDB is a migrated database inside a PostgreSQL container
type TestDB struct {
	*persistence.Database
	Config config.DatabaseConfig
	URL    string
	t      *testing.T
}

// NewTestDB returns a connection to the package's shared container, starting
// and migrating it on first use. Tables are truncated before the test runs.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	cfg := sharedDatabase(t)
	log := testLogger(t)

	db, err := persistence.NewDatabase(&cfg, log, "error")
	require.NoError(t, err, "Failed to connect to test database")

	tdb := &TestDB{Database: db, Config: cfg, URL: databaseURL(cfg), t: t}
	t.Cleanup(func() {
		_ = tdb.Close()
	})
	tdb.CleanTables()
	return tdb
}

func sharedDatabase(t *testing.T) config.DatabaseConfig {
	t.Helper()
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if sharedContainer != nil {
		return sharedConfig
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := tcpostgres.Run(ctx, postgresImage,
		tcpostgres.WithDatabase(testDBName),
		tcpostgres.WithUsername(testDBUser),
		tcpostgres.WithPassword(testDBPass),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	cfg := config.DatabaseConfig{
		Host:            host,
		Port:            port.Int(),
		User:            testDBUser,
		Password:        testDBPass,
		DBName:          testDBName,
		SSLMode:         "disable",
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: 5,
		ConnMaxIdleTime: 1,
	}

	migrator, err := migration.NewFromURL(databaseURL(cfg), findMigrationsPath(t), zap.NewNop())
	require.NoError(t, err, "Failed to open migrator")
	require.NoError(t, migrator.Up(), "Failed to apply migrations")
	require.NoError(t, migrator.Close())

	sharedContainer = container
	sharedConfig = cfg
	return cfg
}

// CleanTables empties every application table
func (tdb *TestDB) CleanTables() {
	tdb.t.Helper()

	var tables []string
	err := tdb.DB.Raw(`
		SELECT tablename FROM pg_tables
		WHERE schemaname = 'public' AND tablename != 'schema_migrations'
	`).Scan(&tables).Error
	require.NoError(tdb.t, err, "Failed to list tables")

	for _, table := range tables {
		require.NoError(tdb.t, tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %q CASCADE", table)).Error)
	}
}

// TerminateSharedContainer stops the shared container. Call it from TestMain.
func TerminateSharedContainer() {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if sharedContainer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_ = sharedContainer.Terminate(ctx)
	sharedContainer = nil
}

func databaseURL(cfg config.DatabaseConfig) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName, cfg.SSLMode)
}

func testLogger(t *testing.T) *zap.Logger {
	if os.Getenv("TEST_DB_DEBUG") != "" {
		return zaptest.NewLogger(t)
	}
	return zap.NewNop()
}

// findMigrationsPath walks up from this file to the repository's migrations directory
func findMigrationsPath(t *testing.T) string {
	t.Helper()

	_, filename, _, ok := runtime.Caller(0)
	require.True(t, ok, "Could not resolve caller path")

	dir := filepath.Dir(filename)
	for i := 0; i < 5; i++ {
		candidate := filepath.Join(dir, "migrations")
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
		dir = filepath.Dir(dir)
	}
	require.Fail(t, "Could not find migrations directory")
	return ""
}
