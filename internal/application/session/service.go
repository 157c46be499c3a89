package session

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/identity"
	"github.com/invoicedesk/backend/internal/domain/organization"
	"github.com/invoicedesk/backend/internal/domain/shared"
	"github.com/invoicedesk/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// OrganizationLister lists a user's organizations with roles, in join order
type OrganizationLister interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]organization.OrganizationWithRole, error)
}

// Service runs the session operations against the stores
type Service struct {
	users     identity.UserRepository
	profiles  identity.ProfileRepository
	directory OrganizationLister
	logger    *zap.Logger
}

// NewService creates a session service
func NewService(
	users identity.UserRepository,
	profiles identity.ProfileRepository,
	directory OrganizationLister,
	logger *zap.Logger,
) *Service {
	return &Service{
		users:     users,
		profiles:  profiles,
		directory: directory,
		logger:    logger,
	}
}

// RefreshOrganizations reloads the membership list and picks the active
// organization: the persisted selection when it is still a membership, else the
// first entry, which is then persisted. A missing user yields an empty session
// rather than an error.
func (s *Service) RefreshOrganizations(ctx context.Context, sess *Session) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "session", "refresh_organizations",
		telemetry.SpanAttrUserID, sess.UserID())
	defer span.End()

	gen := sess.begin(true)
	userID := sess.UserID()
	if userID == uuid.Nil {
		sess.commitRefresh(gen, nil, nil)
		return nil
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		s.logger.Warn("Session user lookup failed, treating as no organizations",
			zap.String("user_id", userID.String()), zap.Error(err))
		sess.commitRefresh(gen, nil, nil)
		return nil
	}

	orgs, err := s.directory.ListForUser(ctx, userID)
	if err != nil {
		telemetry.RecordError(span, err)
		sess.commitRefresh(gen, nil, nil)
		return err
	}
	if len(orgs) == 0 {
		sess.commitRefresh(gen, orgs, nil)
		return nil
	}

	selected, persist := s.selectedOrganization(ctx, userID)
	current := &orgs[0]
	restored := false
	if selected != nil {
		for i := range orgs {
			if orgs[i].ID() == *selected {
				current = &orgs[i]
				restored = true
				break
			}
		}
	}

	if !sess.commitRefresh(gen, orgs, current) {
		s.logger.Debug("Discarded stale session refresh", zap.String("user_id", userID.String()))
		return nil
	}
	if !restored && persist {
		s.persistSelection(ctx, userID, current.ID())
	}
	return nil
}

// SwitchOrganization makes organizationID active when it is one of the
// session's organizations and reports whether it did. Persisting the choice is
// best-effort and never undoes the local switch.
func (s *Service) SwitchOrganization(ctx context.Context, sess *Session, organizationID uuid.UUID) bool {
	ctx, span := telemetry.StartServiceSpan(ctx, "session", "switch_organization",
		telemetry.SpanAttrUserID, sess.UserID(),
		telemetry.SpanAttrOrganizationID, organizationID)
	defer span.End()

	if !sess.selectLocal(organizationID) {
		return false
	}
	s.persistSelection(ctx, sess.UserID(), organizationID)
	return true
}

// selectedOrganization returns the persisted selection. persist is false when
// the profile could not be read, so a transient failure never overwrites it.
func (s *Service) selectedOrganization(ctx context.Context, userID uuid.UUID) (selected *uuid.UUID, persist bool) {
	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, true
		}
		s.logger.Warn("Failed to read persisted organization selection",
			zap.String("user_id", userID.String()), zap.Error(err))
		return nil, false
	}
	return profile.SelectedOrganizationID, true
}

func (s *Service) persistSelection(ctx context.Context, userID, organizationID uuid.UUID) {
	if err := s.profiles.UpdateSelectedOrganization(ctx, userID, organizationID); err != nil {
		s.logger.Warn("Failed to persist organization selection",
			zap.String("user_id", userID.String()),
			zap.String("organization_id", organizationID.String()),
			zap.Error(err))
	}
}
