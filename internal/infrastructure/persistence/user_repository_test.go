package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/identity"
	"github.com/invoicedesk/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	identity.BcryptCost = bcrypt.MinCost
}

func TestGormUserRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	user, err := identity.NewUser("Ana@Example.com", "secret123", "Ana")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, user))

	found, err := repo.FindByEmail(ctx, "ANA@example.com ")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.True(t, found.VerifyPassword("secret123"))

	exists, err := repo.ExistsByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	found.RecordLogin()
	require.NoError(t, repo.Update(ctx, found))
	reloaded, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NotNil(t, reloaded.LastLoginAt)

	_, err = repo.FindByEmail(ctx, "")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	ghost, err := identity.NewUser("ghost@example.com", "secret123", "")
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Update(ctx, ghost), shared.ErrNotFound)

	dup, err := identity.NewUser("ana@example.com", "secret123", "")
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Create(ctx, dup), shared.ErrAlreadyExists)
}

func TestGormProfileRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProfileRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, repo.Upsert(ctx, identity.NewProfile(userID, "ana@example.com", "Ana")))

	orgID := uuid.New()
	require.NoError(t, repo.UpdateSelectedOrganization(ctx, userID, orgID))

	// A second upsert refreshes the name but keeps the selection.
	require.NoError(t, repo.Upsert(ctx, identity.NewProfile(userID, "ana@example.com", "Ana K.")))

	found, err := repo.FindByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "Ana K.", found.DisplayName)
	require.NotNil(t, found.SelectedOrganizationID)
	assert.Equal(t, orgID, *found.SelectedOrganizationID)

	profiles, err := repo.FindByUserIDs(ctx, []uuid.UUID{userID, uuid.New()})
	require.NoError(t, err)
	assert.Len(t, profiles, 1)

	assert.ErrorIs(t, repo.UpdateSelectedOrganization(ctx, uuid.New(), orgID), shared.ErrNotFound)

	_, err = repo.FindByUserID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
