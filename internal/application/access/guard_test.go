package access

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/organization"
	"github.com/invoicedesk/backend/internal/domain/shared"
	"github.com/invoicedesk/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGuard_RequireMember(t *testing.T) {
	ctx := context.Background()
	orgID, userID := uuid.New(), uuid.New()

	t.Run("member", func(t *testing.T) {
		repo := new(testutil.MockMembershipRepository)
		m, _ := organization.NewMembership(orgID, userID, organization.RoleEmployee)
		repo.On("FindByOrganizationAndUser", mock.Anything, orgID, userID).Return(m, nil)

		got, err := NewGuard(repo).RequireMember(ctx, userID, orgID)
		require.NoError(t, err)
		assert.Same(t, m, got)
	})

	t.Run("not a member", func(t *testing.T) {
		repo := new(testutil.MockMembershipRepository)
		repo.On("FindByOrganizationAndUser", mock.Anything, orgID, userID).Return(nil, shared.ErrNotFound)

		_, err := NewGuard(repo).RequireMember(ctx, userID, orgID)
		assert.ErrorIs(t, err, shared.ErrForbidden)
		assert.Equal(t, ErrNotMember.Message, err.Error())
	})

	t.Run("store failure is returned", func(t *testing.T) {
		repo := new(testutil.MockMembershipRepository)
		repo.On("FindByOrganizationAndUser", mock.Anything, orgID, userID).Return(nil, assert.AnError)

		_, err := NewGuard(repo).RequireMember(ctx, userID, orgID)
		assert.ErrorIs(t, err, assert.AnError)
	})

	t.Run("missing ids never reach the store", func(t *testing.T) {
		repo := new(testutil.MockMembershipRepository)
		guard := NewGuard(repo)

		_, err := guard.RequireMember(ctx, uuid.Nil, orgID)
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
		_, err = guard.RequireMember(ctx, userID, uuid.Nil)
		assert.Equal(t, "ORGANIZATION_REQUIRED", shared.ErrorCode(err))
		repo.AssertNotCalled(t, "FindByOrganizationAndUser", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestGuard_RequireOwner(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	owner, _ := organization.NewMembership(orgID, uuid.New(), organization.RoleOwner)
	employee, _ := organization.NewMembership(orgID, uuid.New(), organization.RoleEmployee)

	repo := new(testutil.MockMembershipRepository)
	repo.On("FindByOrganizationAndUser", mock.Anything, orgID, owner.UserID).Return(owner, nil)
	repo.On("FindByOrganizationAndUser", mock.Anything, orgID, employee.UserID).Return(employee, nil)
	guard := NewGuard(repo)

	got, err := guard.RequireOwner(ctx, owner.UserID, orgID)
	require.NoError(t, err)
	assert.Equal(t, organization.RoleOwner, got.Role)

	_, err = guard.RequireOwner(ctx, employee.UserID, orgID)
	assert.ErrorIs(t, err, shared.ErrForbidden)
	assert.Equal(t, ErrNotOwner.Message, err.Error())
}
