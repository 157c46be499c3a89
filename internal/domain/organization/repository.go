package organization

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OrganizationRepository defines the interface for organization persistence
type OrganizationRepository interface {
	// FindByID finds an organization by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Organization, error)

	// FindBySlug finds an organization by its unique slug
	FindBySlug(ctx context.Context, slug string) (*Organization, error)

	// FindByIDs finds all organizations with the given IDs; missing IDs are skipped
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Organization, error)

	// ExistsBySlug checks whether a slug is already taken
	ExistsBySlug(ctx context.Context, slug string) (bool, error)

	// Save creates or updates an organization
	Save(ctx context.Context, org *Organization) error

	// CreateWithOwner creates an organization and its owner membership atomically
	CreateWithOwner(ctx context.Context, org *Organization, owner *Membership) error
}

// MembershipRepository defines the interface for membership persistence
type MembershipRepository interface {
	// FindByID finds a membership by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Membership, error)

	// FindByOrganization lists members of an organization ordered by join time ascending
	FindByOrganization(ctx context.Context, organizationID uuid.UUID) ([]*Membership, error)

	// FindByUser lists a user's memberships ordered by join time ascending
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*Membership, error)

	// FindByOrganizationAndUser finds the membership of a user in an organization
	FindByOrganizationAndUser(ctx context.Context, organizationID, userID uuid.UUID) (*Membership, error)

	// CountOwners counts owners of an organization
	CountOwners(ctx context.Context, organizationID uuid.UUID) (int64, error)

	// Save creates or updates a membership
	Save(ctx context.Context, m *Membership) error

	// Delete deletes a membership
	Delete(ctx context.Context, id uuid.UUID) error
}

// InvitationRepository defines the interface for invitation persistence
type InvitationRepository interface {
	// FindByID finds an invitation by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Invitation, error)

	// FindByToken finds an invitation by its token
	FindByToken(ctx context.Context, token string) (*Invitation, error)

	// FindPendingByOrganization lists pending invitations of an organization, newest first
	FindPendingByOrganization(ctx context.Context, organizationID uuid.UUID) ([]*Invitation, error)

	// FindExpiredPending lists pending invitations whose expiry is not after now
	FindExpiredPending(ctx context.Context, now time.Time) ([]*Invitation, error)

	// Save creates or updates an invitation
	Save(ctx context.Context, inv *Invitation) error

	// Accept stores an accepted invitation together with the membership it
	// created. Either both are written or neither is.
	Accept(ctx context.Context, inv *Invitation, membership *Membership) error
}
