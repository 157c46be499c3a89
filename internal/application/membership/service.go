// Package membership manages who belongs to an organization: listing and
// removing members and the invitation lifecycle.
package membership

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/application/access"
	"github.com/invoicedesk/backend/internal/domain/identity"
	"github.com/invoicedesk/backend/internal/domain/organization"
	"github.com/invoicedesk/backend/internal/domain/shared"
	"github.com/invoicedesk/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Membership errors
var (
	ErrAlreadyMember       = shared.NewDomainError("ALREADY_MEMBER", "This user is already a member of the organization")
	ErrInvitationNotFound  = shared.NewDomainError("NOT_FOUND", "Invitation not found")
	ErrMemberNotFound      = shared.NewDomainError("NOT_FOUND", "Member not found")
	ErrInvitationRecipient = shared.NewDomainError("FORBIDDEN", "This invitation was sent to a different email address")
)

// Service is the membership manager
type Service struct {
	memberships    organization.MembershipRepository
	invitations    organization.InvitationRepository
	profiles       identity.ProfileRepository
	users          identity.UserRepository
	guard          *access.Guard
	invitationTTL  time.Duration
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewService creates a membership manager. A non-positive invitationTTL uses
// the default of seven days.
func NewService(
	memberships organization.MembershipRepository,
	invitations organization.InvitationRepository,
	profiles identity.ProfileRepository,
	users identity.UserRepository,
	invitationTTL time.Duration,
	logger *zap.Logger,
) *Service {
	if invitationTTL <= 0 {
		invitationTTL = organization.DefaultInvitationTTL
	}
	return &Service{
		memberships:   memberships,
		invitations:   invitations,
		profiles:      profiles,
		users:         users,
		guard:         access.NewGuard(memberships),
		invitationTTL: invitationTTL,
		logger:        logger,
		now:           time.Now,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// ListMembers returns the organization's members in join order. Only the
// caller's own email is resolved; every other member gets MemberEmailPlaceholder.
func (s *Service) ListMembers(ctx context.Context, caller, organizationID uuid.UUID) ([]Member, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "membership", "list_members",
		telemetry.SpanAttrOrganizationID, organizationID)
	defer span.End()

	if _, err := s.guard.RequireMember(ctx, caller, organizationID); err != nil {
		return nil, err
	}

	memberships, err := s.memberships.FindByOrganization(ctx, organizationID)
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to load members", zap.String("organization_id", organizationID.String()), zap.Error(err))
		return nil, err
	}

	userIDs := make([]uuid.UUID, 0, len(memberships))
	for _, m := range memberships {
		userIDs = append(userIDs, m.UserID)
	}
	profiles := map[uuid.UUID]*identity.Profile{}
	if len(userIDs) > 0 {
		found, err := s.profiles.FindByUserIDs(ctx, userIDs)
		if err != nil {
			// names are decoration; the list itself is still valid
			s.logger.Warn("Failed to load member profiles", zap.Error(err))
		}
		for _, p := range found {
			profiles[p.UserID] = p
		}
	}

	members := make([]Member, 0, len(memberships))
	for _, m := range memberships {
		member := Member{
			MembershipID:  m.ID,
			UserID:        m.UserID,
			Role:          m.Role,
			JoinedAt:      m.JoinedAt,
			Email:         MemberEmailPlaceholder,
			IsCurrentUser: m.UserID == caller,
		}
		if p, ok := profiles[m.UserID]; ok {
			member.DisplayName = p.DisplayName
			if member.IsCurrentUser && p.Email != "" {
				member.Email = p.Email
			}
		}
		members = append(members, member)
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrCount, len(members))
	return members, nil
}

// RemoveMember deletes a membership. Owners cannot be removed, which keeps at
// least one owner in every organization.
func (s *Service) RemoveMember(ctx context.Context, caller, organizationID, membershipID uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "membership", "remove_member",
		telemetry.SpanAttrOrganizationID, organizationID,
		telemetry.SpanAttrMembershipID, membershipID)
	defer span.End()

	if _, err := s.guard.RequireOwner(ctx, caller, organizationID); err != nil {
		return err
	}

	target, err := s.memberships.FindByID(ctx, membershipID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return ErrMemberNotFound
		}
		return err
	}
	if target.OrganizationID != organizationID {
		return ErrMemberNotFound
	}
	if err := target.EnsureRemovable(); err != nil {
		return err
	}

	if err := s.memberships.Delete(ctx, target.ID); err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to remove member", zap.String("membership_id", target.ID.String()), zap.Error(err))
		return err
	}

	s.publish(ctx, organization.NewMemberRemovedEvent(target))
	s.logger.Info("Member removed",
		zap.String("organization_id", organizationID.String()),
		zap.String("membership_id", target.ID.String()))
	return nil
}

// InviteMember creates a pending invitation. Delivery is out of band.
func (s *Service) InviteMember(ctx context.Context, caller, organizationID uuid.UUID, input InviteMemberInput) (*organization.Invitation, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "membership", "invite_member",
		telemetry.SpanAttrOrganizationID, organizationID)
	defer span.End()

	if _, err := s.guard.RequireOwner(ctx, caller, organizationID); err != nil {
		return nil, err
	}

	role, ok := organization.ParseRole(input.Role)
	if input.Role == "" {
		role, ok = organization.RoleEmployee, true
	}
	if !ok {
		return nil, shared.NewDomainError("INVALID_ROLE", "Role must be owner or employee")
	}
	inv, err := organization.NewInvitation(organizationID, caller, input.Email, input.Name, input.Phone, role, s.invitationTTL)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNotMember(ctx, organizationID, inv.Email); err != nil {
		return nil, err
	}

	if err := s.invitations.Save(ctx, inv); err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to save invitation", zap.Error(err))
		return nil, err
	}
	s.publishFrom(ctx, inv)

	s.logger.Info("Invitation created",
		zap.String("organization_id", organizationID.String()),
		zap.String("invitation_id", inv.ID.String()))
	return inv, nil
}

// AcceptInvitation turns a pending, unexpired invitation into a membership of userID
func (s *Service) AcceptInvitation(ctx context.Context, token string, userID uuid.UUID) (*organization.Membership, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "membership", "accept_invitation", telemetry.SpanAttrUserID, userID)
	defer span.End()

	inv, err := s.invitations.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrInvitationID, inv.ID, telemetry.SpanAttrOrganizationID, inv.OrganizationID)

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if identity.NormalizeEmail(user.Email) != inv.Email {
		return nil, ErrInvitationRecipient
	}

	if _, err := s.memberships.FindByOrganizationAndUser(ctx, inv.OrganizationID, userID); err == nil {
		return nil, ErrAlreadyMember
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	membership, err := inv.Accept(userID, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.invitations.Accept(ctx, inv, membership); err != nil {
		switch {
		case errors.Is(err, shared.ErrAlreadyExists):
			return nil, ErrAlreadyMember
		case errors.Is(err, shared.ErrInvalidState):
			return nil, err
		}
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to accept invitation",
			zap.String("invitation_id", inv.ID.String()), zap.Error(err))
		return nil, err
	}

	s.publish(ctx, organization.NewMemberJoinedEvent(membership))
	s.publishFrom(ctx, inv)
	return membership, nil
}

// RevokeInvitation withdraws a pending invitation
func (s *Service) RevokeInvitation(ctx context.Context, caller, organizationID, invitationID uuid.UUID) (*organization.Invitation, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "membership", "revoke_invitation",
		telemetry.SpanAttrOrganizationID, organizationID,
		telemetry.SpanAttrInvitationID, invitationID)
	defer span.End()

	if _, err := s.guard.RequireOwner(ctx, caller, organizationID); err != nil {
		return nil, err
	}
	inv, err := s.invitations.FindByID(ctx, invitationID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, err
	}
	if inv.OrganizationID != organizationID {
		return nil, ErrInvitationNotFound
	}

	if err := inv.Revoke(s.now()); err != nil {
		return nil, err
	}
	if err := s.invitations.Save(ctx, inv); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.publishFrom(ctx, inv)
	return inv, nil
}

// ListInvitations returns the organization's pending invitations, newest first
func (s *Service) ListInvitations(ctx context.Context, caller, organizationID uuid.UUID) ([]*organization.Invitation, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "membership", "list_invitations",
		telemetry.SpanAttrOrganizationID, organizationID)
	defer span.End()

	if _, err := s.guard.RequireOwner(ctx, caller, organizationID); err != nil {
		return nil, err
	}
	invitations, err := s.invitations.FindPendingByOrganization(ctx, organizationID)
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to load invitations", zap.Error(err))
		return nil, err
	}
	return invitations, nil
}

// ExpireInvitations expires every pending invitation past its expiry at now
// and returns how many were expired. A failure on one invitation does not stop
// the sweep.
func (s *Service) ExpireInvitations(ctx context.Context, now time.Time) (int, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "membership", "expire_invitations")
	defer span.End()

	overdue, err := s.invitations.FindExpiredPending(ctx, now)
	if err != nil {
		telemetry.RecordError(span, err)
		return 0, err
	}

	expired := 0
	for _, inv := range overdue {
		if err := inv.Expire(now); err != nil {
			s.logger.Warn("Skipping invitation", zap.String("invitation_id", inv.ID.String()), zap.Error(err))
			continue
		}
		if err := s.invitations.Save(ctx, inv); err != nil {
			s.logger.Error("Failed to expire invitation", zap.String("invitation_id", inv.ID.String()), zap.Error(err))
			continue
		}
		s.publishFrom(ctx, inv)
		expired++
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrCount, expired)
	if expired > 0 {
		s.logger.Info("Expired invitations", zap.Int("count", expired))
	}
	return expired, nil
}

// ensureNotMember rejects invitations for an email that already belongs to a member
func (s *Service) ensureNotMember(ctx context.Context, organizationID uuid.UUID, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}
	_, err = s.memberships.FindByOrganizationAndUser(ctx, organizationID, user.ID)
	switch {
	case err == nil:
		return ErrAlreadyMember
	case errors.Is(err, shared.ErrNotFound):
		return nil
	default:
		return err
	}
}

func (s *Service) publishFrom(ctx context.Context, inv *organization.Invitation) {
	s.publish(ctx, inv.GetDomainEvents()...)
	inv.ClearDomainEvents()
}

func (s *Service) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish membership events", zap.Error(err))
	}
}
