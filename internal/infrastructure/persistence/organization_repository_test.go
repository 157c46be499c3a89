package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/organization"
	"github.com/invoicedesk/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createOrganization(t *testing.T, repo *GormOrganizationRepository, name string, ownerID uuid.UUID) (*organization.Organization, *organization.Membership) {
	t.Helper()
	org, err := organization.NewOrganization(name, "")
	require.NoError(t, err)
	owner, err := organization.NewMembership(org.ID, ownerID, organization.RoleOwner)
	require.NoError(t, err)
	require.NoError(t, repo.CreateWithOwner(context.Background(), org, owner))
	return org, owner
}

func TestGormOrganizationRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOrganizationRepository(db)
	members := NewGormMembershipRepository(db)
	ctx := context.Background()
	ownerID := uuid.New()

	org, owner := createOrganization(t, repo, "Knjigovodstvo Plus", ownerID)

	t.Run("creates owner membership with the organization", func(t *testing.T) {
		found, err := members.FindByOrganizationAndUser(ctx, org.ID, ownerID)
		require.NoError(t, err)
		assert.Equal(t, owner.ID, found.ID)
		assert.Equal(t, organization.RoleOwner, found.Role)
	})

	t.Run("finds by id and slug", func(t *testing.T) {
		byID, err := repo.FindByID(ctx, org.ID)
		require.NoError(t, err)
		assert.Equal(t, "Knjigovodstvo Plus", byID.Name)
		assert.NotNil(t, byID.Settings)

		bySlug, err := repo.FindBySlug(ctx, "knjigovodstvo-plus")
		require.NoError(t, err)
		assert.Equal(t, org.ID, bySlug.ID)

		exists, err := repo.ExistsBySlug(ctx, "knjigovodstvo-plus")
		require.NoError(t, err)
		assert.True(t, exists)

		_, err = repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("batch load skips unknown ids", func(t *testing.T) {
		orgs, err := repo.FindByIDs(ctx, []uuid.UUID{org.ID, uuid.New()})
		require.NoError(t, err)
		require.Len(t, orgs, 1)

		orgs, err = repo.FindByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, orgs)
	})

	t.Run("save round-trips profile and settings", func(t *testing.T) {
		loaded, err := repo.FindByID(ctx, org.ID)
		require.NoError(t, err)
		loaded.Settings = organization.Settings{"pib": "123", "theme": "dark"}
		require.NoError(t, loaded.ApplyProfile(organization.ProfileForm{
			Name:          "Knjigovodstvo Plus d.o.o.",
			TaxID:         "999",
			Address:       "Main St 1",
			City:          "Sarajevo",
			VATRegistered: true,
		}))
		require.NoError(t, repo.Save(ctx, loaded))
		assert.Equal(t, 2, loaded.Version)

		reloaded, err := repo.FindByID(ctx, org.ID)
		require.NoError(t, err)
		assert.Equal(t, "Knjigovodstvo Plus d.o.o.", reloaded.Name)
		assert.Equal(t, "999", *reloaded.TaxID)
		assert.Equal(t, "Sarajevo", *reloaded.City)
		require.NotNil(t, reloaded.VATRegistered)
		assert.True(t, *reloaded.VATRegistered)
		assert.Equal(t, organization.Settings{"theme": "dark"}, reloaded.Settings)
	})

	t.Run("save of unknown organization is not found", func(t *testing.T) {
		ghost, err := organization.NewOrganization("Ghost", "")
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Save(ctx, ghost), shared.ErrNotFound)
	})

	t.Run("duplicate slug rolls back the owner membership", func(t *testing.T) {
		dup, err := organization.NewOrganization("Knjigovodstvo Plus", "")
		require.NoError(t, err)
		otherOwner := uuid.New()
		m, err := organization.NewMembership(dup.ID, otherOwner, organization.RoleOwner)
		require.NoError(t, err)

		assert.ErrorIs(t, repo.CreateWithOwner(ctx, dup, m), shared.ErrAlreadyExists)
		memberships, err := members.FindByUser(ctx, otherOwner)
		require.NoError(t, err)
		assert.Empty(t, memberships)
	})
}

func TestGormMembershipRepository(t *testing.T) {
	db := setupTestDB(t)
	orgs := NewGormOrganizationRepository(db)
	repo := NewGormMembershipRepository(db)
	ctx := context.Background()

	ownerID := uuid.New()
	first, _ := createOrganization(t, orgs, "First", ownerID)
	second, _ := createOrganization(t, orgs, "Second", uuid.New())

	employeeID := uuid.New()
	late, err := organization.NewMembership(first.ID, employeeID, organization.RoleEmployee)
	require.NoError(t, err)
	late.JoinedAt = time.Now().Add(time.Hour)
	require.NoError(t, repo.Save(ctx, late))

	early, err := organization.NewMembership(second.ID, employeeID, organization.RoleEmployee)
	require.NoError(t, err)
	early.JoinedAt = time.Now().Add(-time.Hour)
	require.NoError(t, repo.Save(ctx, early))

	t.Run("lists by user in join order", func(t *testing.T) {
		list, err := repo.FindByUser(ctx, employeeID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, second.ID, list[0].OrganizationID)
		assert.Equal(t, first.ID, list[1].OrganizationID)
	})

	t.Run("lists by organization in join order", func(t *testing.T) {
		list, err := repo.FindByOrganization(ctx, first.ID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, ownerID, list[0].UserID)
		assert.Equal(t, employeeID, list[1].UserID)
	})

	t.Run("counts owners", func(t *testing.T) {
		n, err := repo.CountOwners(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("deletes", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, late.ID))
		_, err := repo.FindByID(ctx, late.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, late.ID), shared.ErrNotFound)
	})
}

func TestGormInvitationRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormInvitationRepository(db)
	ctx := context.Background()
	orgID := uuid.New()
	inviter := uuid.New()

	active, err := organization.NewInvitation(orgID, inviter, "ana@example.com", "Ana", "", organization.RoleEmployee, 0)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, active))

	overdue, err := organization.NewInvitation(orgID, inviter, "bo@example.com", "", "", organization.RoleEmployee, time.Minute)
	require.NoError(t, err)
	overdue.ExpiresAt = time.Now().Add(-time.Minute)
	require.NoError(t, repo.Save(ctx, overdue))

	byToken, err := repo.FindByToken(ctx, active.Token)
	require.NoError(t, err)
	assert.Equal(t, active.ID, byToken.ID)
	assert.Equal(t, "ana@example.com", byToken.Email)
	assert.Equal(t, organization.InvitationPending, byToken.Status)

	pending, err := repo.FindPendingByOrganization(ctx, orgID)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	expired, err := repo.FindExpiredPending(ctx, time.Now())
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, overdue.ID, expired[0].ID)

	require.NoError(t, byToken.Revoke(time.Now()))
	require.NoError(t, repo.Save(ctx, byToken))

	pending, err = repo.FindPendingByOrganization(ctx, orgID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, overdue.ID, pending[0].ID)

	_, err = repo.FindByToken(ctx, "missing")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormInvitationRepository_Accept(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormInvitationRepository(db)
	memberships := NewGormMembershipRepository(db)
	ctx := context.Background()
	orgID := uuid.New()
	inviter := uuid.New()
	userID := uuid.New()
	now := time.Now()

	first, err := organization.NewInvitation(orgID, inviter, "ana@example.com", "", "", organization.RoleEmployee, 0)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, first))
	second, err := organization.NewInvitation(orgID, inviter, "ana@example.com", "", "", organization.RoleOwner, 0)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, second))

	membership, err := first.Accept(userID, now)
	require.NoError(t, err)
	require.NoError(t, repo.Accept(ctx, first, membership))

	stored, err := repo.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, organization.InvitationAccepted, stored.Status)
	require.NotNil(t, stored.AcceptedBy)
	assert.Equal(t, userID, *stored.AcceptedBy)
	joined, err := memberships.FindByOrganizationAndUser(ctx, orgID, userID)
	require.NoError(t, err)
	assert.Equal(t, organization.RoleEmployee, joined.Role)

	t.Run("duplicate membership rolls back the invitation", func(t *testing.T) {
		dup, err := second.Accept(userID, now)
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Accept(ctx, second, dup), shared.ErrAlreadyExists)

		reloaded, err := repo.FindByID(ctx, second.ID)
		require.NoError(t, err)
		assert.Equal(t, organization.InvitationPending, reloaded.Status)
	})

	t.Run("answered invitation rolls back the membership", func(t *testing.T) {
		stale, err := organization.NewInvitation(orgID, inviter, "ana@example.com", "", "", organization.RoleEmployee, 0)
		require.NoError(t, err)
		stale.ID = first.ID
		other := uuid.New()
		m, err := stale.Accept(other, now)
		require.NoError(t, err)

		assert.ErrorIs(t, repo.Accept(ctx, stale, m), ErrInvitationNotPending)
		_, err = memberships.FindByOrganizationAndUser(ctx, orgID, other)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
