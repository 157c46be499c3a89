package integration

import (
	"testing"

	"github.com/invoicedesk/backend/internal/infrastructure/migration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMigrations_RoundTrip(t *testing.T) {
	tdb := NewTestDB(t)

	sqlDB, err := tdb.DB.DB()
	require.NoError(t, err)
	m, err := migration.New(sqlDB, findMigrationsPath(t), zap.NewNop())
	require.NoError(t, err)

	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.EqualValues(t, 1, version)
	assert.False(t, dirty)

	tableExists := func(name string) bool {
		var exists bool
		require.NoError(t, tdb.DB.Raw(
			`SELECT EXISTS (SELECT 1 FROM pg_tables WHERE schemaname = 'public' AND tablename = ?)`, name,
		).Scan(&exists).Error)
		return exists
	}
	for _, table := range []string{"users", "profiles", "organizations", "organization_members", "organization_invitations", "invoices"} {
		assert.True(t, tableExists(table), table)
	}

	require.NoError(t, m.Steps(-1))
	assert.False(t, tableExists("invoices"))

	require.NoError(t, m.Up())
	assert.True(t, tableExists("invoices"))

	version, _, err = m.Version()
	require.NoError(t, err)
	assert.EqualValues(t, 1, version)
}
