package identity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Profile is the public-facing record of a user, keyed by user ID.
// It also remembers the organization the user last acted as.
type Profile struct {
	UserID                 uuid.UUID
	DisplayName            string
	Email                  string
	SelectedOrganizationID *uuid.UUID
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// NewProfile creates a profile for a freshly registered user
func NewProfile(userID uuid.UUID, email, displayName string) *Profile {
	now := time.Now()
	return &Profile{
		UserID:      userID,
		Email:       NormalizeEmail(email),
		DisplayName: strings.TrimSpace(displayName),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// SelectOrganization records the active organization
func (p *Profile) SelectOrganization(organizationID uuid.UUID) {
	p.SelectedOrganizationID = &organizationID
	p.UpdatedAt = time.Now()
}
