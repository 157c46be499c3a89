package organization

import (
	"time"

	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/shared"
)

// Membership links a user to an organization with a role
type Membership struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	UserID         uuid.UUID
	Role           Role
	JoinedAt       time.Time
}

// NewMembership creates a membership joined now
func NewMembership(organizationID, userID uuid.UUID, role Role) (*Membership, error) {
	if organizationID == uuid.Nil || userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_MEMBERSHIP", "Organization and user are required")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Role must be owner or employee")
	}
	return &Membership{
		ID:             uuid.New(),
		OrganizationID: organizationID,
		UserID:         userID,
		Role:           role,
		JoinedAt:       time.Now(),
	}, nil
}

// EnsureRemovable rejects removal of owners
func (m *Membership) EnsureRemovable() error {
	if m.Role == RoleOwner {
		return shared.NewDomainError("OWNER_NOT_REMOVABLE", "The organization owner cannot be removed")
	}
	return nil
}

// Permissions returns the capability flags of the membership's role
func (m *Membership) Permissions() Permissions {
	return PermissionsFor(m.Role)
}

// OrganizationWithRole is an organization seen through the caller's membership
type OrganizationWithRole struct {
	Organization *Organization
	Role         Role
	JoinedAt     time.Time
}

// ID returns the organization ID
func (o OrganizationWithRole) ID() uuid.UUID {
	return o.Organization.ID
}

// Permissions derives capability flags from the role
func (o OrganizationWithRole) Permissions() Permissions {
	return PermissionsFor(o.Role)
}
