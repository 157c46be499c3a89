// Package access resolves a caller's membership in an organization and enforces
// role requirements before any tenant-scoped read or write.
package access

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/organization"
	"github.com/invoicedesk/backend/internal/domain/shared"
)

// Access errors
var (
	ErrNotMember = shared.NewDomainError("FORBIDDEN", "You are not a member of this organization")
	ErrNotOwner  = shared.NewDomainError("FORBIDDEN", "Only the organization owner can do this")
)

// Guard checks organization membership
type Guard struct {
	memberships organization.MembershipRepository
}

// NewGuard creates a membership guard
func NewGuard(memberships organization.MembershipRepository) *Guard {
	return &Guard{memberships: memberships}
}

// RequireMember returns the caller's membership or ErrNotMember
func (g *Guard) RequireMember(ctx context.Context, userID, organizationID uuid.UUID) (*organization.Membership, error) {
	if userID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}
	if organizationID == uuid.Nil {
		return nil, shared.NewDomainError("ORGANIZATION_REQUIRED", "Select an organization first")
	}
	m, err := g.memberships.FindByOrganizationAndUser(ctx, organizationID, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrNotMember
		}
		return nil, err
	}
	return m, nil
}

// RequireOwner returns the caller's membership when it may manage members
func (g *Guard) RequireOwner(ctx context.Context, userID, organizationID uuid.UUID) (*organization.Membership, error) {
	m, err := g.RequireMember(ctx, userID, organizationID)
	if err != nil {
		return nil, err
	}
	if !m.Permissions().CanManageMembers {
		return nil, ErrNotOwner
	}
	return m, nil
}
