package organization

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/shared"
)

// InvitationStatus is the state of an invitation
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationExpired  InvitationStatus = "expired"
	InvitationRevoked  InvitationStatus = "revoked"
)

// IsValid checks if the status is a defined invitation status
func (s InvitationStatus) IsValid() bool {
	switch s {
	case InvitationPending, InvitationAccepted, InvitationExpired, InvitationRevoked:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is possible
func (s InvitationStatus) IsTerminal() bool {
	return s != InvitationPending
}

// DefaultInvitationTTL is how long an invitation stays acceptable
const DefaultInvitationTTL = 7 * 24 * time.Hour

// Invitation is a pending offer to join an organization.
// Only a pending invitation can move, to accepted, expired or revoked.
type Invitation struct {
	shared.AggregateRoot
	OrganizationID uuid.UUID
	Email          string
	Name           string
	Phone          string
	Role           Role
	Token          string
	InvitedBy      uuid.UUID
	Status         InvitationStatus
	ExpiresAt      time.Time
	AcceptedBy     *uuid.UUID
	RespondedAt    *time.Time
}

// NewInvitation creates a pending invitation with a random token
func NewInvitation(organizationID, invitedBy uuid.UUID, email, name, phone string, role Role, ttl time.Duration) (*Invitation, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email is required")
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email is not a valid address")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Role must be owner or employee")
	}
	if ttl <= 0 {
		ttl = DefaultInvitationTTL
	}
	token, err := newInvitationToken()
	if err != nil {
		return nil, shared.WrapDomainError(err, "INTERNAL_ERROR", "Failed to create invitation")
	}

	inv := &Invitation{
		AggregateRoot:  shared.NewAggregateRoot(),
		OrganizationID: organizationID,
		Email:          email,
		Name:           strings.TrimSpace(name),
		Phone:          strings.TrimSpace(phone),
		Role:           role,
		Token:          token,
		InvitedBy:      invitedBy,
		Status:         InvitationPending,
	}
	inv.ExpiresAt = inv.CreatedAt.Add(ttl)
	inv.AddDomainEvent(NewInvitationCreatedEvent(inv))
	return inv, nil
}

// IsExpired reports whether the invitation passed its expiry at now
func (i *Invitation) IsExpired(now time.Time) bool {
	return !now.Before(i.ExpiresAt)
}

// Accept resolves the invitation into a membership for userID
func (i *Invitation) Accept(userID uuid.UUID, now time.Time) (*Membership, error) {
	if err := i.ensurePending("accept"); err != nil {
		return nil, err
	}
	if i.IsExpired(now) {
		return nil, shared.NewDomainError("INVITATION_EXPIRED", "This invitation has expired")
	}
	membership, err := NewMembership(i.OrganizationID, userID, i.Role)
	if err != nil {
		return nil, err
	}

	i.Status = InvitationAccepted
	i.AcceptedBy = &userID
	i.RespondedAt = &now
	i.UpdatedAt = now
	i.AddDomainEvent(NewInvitationStatusChangedEvent(i))
	return membership, nil
}

// Revoke withdraws a pending invitation
func (i *Invitation) Revoke(now time.Time) error {
	if err := i.ensurePending("revoke"); err != nil {
		return err
	}
	i.Status = InvitationRevoked
	i.RespondedAt = &now
	i.UpdatedAt = now
	i.AddDomainEvent(NewInvitationStatusChangedEvent(i))
	return nil
}

// Expire marks a pending invitation whose expiry has passed
func (i *Invitation) Expire(now time.Time) error {
	if err := i.ensurePending("expire"); err != nil {
		return err
	}
	if !i.IsExpired(now) {
		return shared.NewDomainError("INVALID_STATE", "Invitation has not reached its expiry")
	}
	i.Status = InvitationExpired
	i.UpdatedAt = now
	i.AddDomainEvent(NewInvitationStatusChangedEvent(i))
	return nil
}

func (i *Invitation) ensurePending(action string) error {
	if i.Status != InvitationPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot %s an invitation that is %s", action, i.Status))
	}
	return nil
}

func newInvitationToken() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
