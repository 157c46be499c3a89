// Package directory resolves which organizations a user belongs to and the
// role held in each.
package directory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/organization"
	"github.com/invoicedesk/backend/internal/domain/shared"
	"github.com/invoicedesk/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ErrSlugTaken is returned when a new organization's slug is in use
var ErrSlugTaken = shared.NewDomainError("ALREADY_EXISTS", "This organization address is already taken")

// Service is the organization directory
type Service struct {
	orgRepo        organization.OrganizationRepository
	membershipRepo organization.MembershipRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewService creates a directory service
func NewService(
	orgRepo organization.OrganizationRepository,
	membershipRepo organization.MembershipRepository,
	logger *zap.Logger,
) *Service {
	return &Service{
		orgRepo:        orgRepo,
		membershipRepo: membershipRepo,
		logger:         logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// ListForUser returns the user's organizations, each with the user's role, in
// join order. Memberships whose organization no longer exists are skipped.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]organization.OrganizationWithRole, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "directory", "list_for_user", telemetry.SpanAttrUserID, userID)
	defer span.End()

	memberships, err := s.membershipRepo.FindByUser(ctx, userID)
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to load memberships", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, err
	}
	if len(memberships) == 0 {
		return []organization.OrganizationWithRole{}, nil
	}

	ids := make([]uuid.UUID, 0, len(memberships))
	for _, m := range memberships {
		ids = append(ids, m.OrganizationID)
	}
	orgs, err := s.orgRepo.FindByIDs(ctx, ids)
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to load organizations", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, err
	}
	byID := make(map[uuid.UUID]*organization.Organization, len(orgs))
	for _, o := range orgs {
		byID[o.ID] = o
	}

	result := make([]organization.OrganizationWithRole, 0, len(memberships))
	for _, m := range memberships {
		org, ok := byID[m.OrganizationID]
		if !ok {
			s.logger.Warn("Membership points to a missing organization",
				zap.String("membership_id", m.ID.String()),
				zap.String("organization_id", m.OrganizationID.String()))
			continue
		}
		result = append(result, organization.OrganizationWithRole{
			Organization: org,
			Role:         m.Role,
			JoinedAt:     m.JoinedAt,
		})
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrCount, len(result))
	return result, nil
}

// Get returns one organization seen through the user's membership
func (s *Service) Get(ctx context.Context, userID, organizationID uuid.UUID) (*organization.OrganizationWithRole, error) {
	m, err := s.membershipRepo.FindByOrganizationAndUser(ctx, organizationID, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrForbidden
		}
		return nil, err
	}
	org, err := s.orgRepo.FindByID(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	return &organization.OrganizationWithRole{Organization: org, Role: m.Role, JoinedAt: m.JoinedAt}, nil
}

// CreateOrganization creates an organization owned by userID. This is the
// onboarding path for users without any membership.
func (s *Service) CreateOrganization(ctx context.Context, userID uuid.UUID, input CreateOrganizationInput) (*organization.OrganizationWithRole, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "directory", "create_organization", telemetry.SpanAttrUserID, userID)
	defer span.End()

	org, err := organization.NewOrganization(input.Name, input.Slug)
	if err != nil {
		return nil, err
	}
	owner, err := organization.NewMembership(org.ID, userID, organization.RoleOwner)
	if err != nil {
		return nil, err
	}

	taken, err := s.orgRepo.ExistsBySlug(ctx, org.Slug)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if taken {
		return nil, ErrSlugTaken
	}

	if err := s.orgRepo.CreateWithOwner(ctx, org, owner); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, ErrSlugTaken
		}
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to create organization", zap.Error(err))
		return nil, err
	}

	s.publish(ctx, append(org.GetDomainEvents(), organization.NewMemberJoinedEvent(owner))...)
	org.ClearDomainEvents()

	s.logger.Info("Organization created",
		zap.String("organization_id", org.ID.String()),
		zap.String("owner_id", userID.String()))
	return &organization.OrganizationWithRole{Organization: org, Role: owner.Role, JoinedAt: owner.JoinedAt}, nil
}

func (s *Service) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish organization events", zap.Error(err))
	}
}

// CreateOrganizationInput is the onboarding form. An empty slug is derived from the name.
type CreateOrganizationInput struct {
	Name string
	Slug string
}
