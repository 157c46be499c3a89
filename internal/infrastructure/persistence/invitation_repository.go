package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/organization"
	"github.com/invoicedesk/backend/internal/domain/shared"
	"github.com/invoicedesk/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// ErrInvitationNotPending is returned by Accept when the invitation was answered concurrently
var ErrInvitationNotPending = shared.NewDomainError("INVALID_STATE", "Invitation is no longer pending")

// GormInvitationRepository implements organization.InvitationRepository using GORM
type GormInvitationRepository struct {
	db *gorm.DB
}

// NewGormInvitationRepository creates a new GormInvitationRepository
func NewGormInvitationRepository(db *gorm.DB) *GormInvitationRepository {
	return &GormInvitationRepository{db: db}
}

// FindByID finds an invitation by ID
func (r *GormInvitationRepository) FindByID(ctx context.Context, id uuid.UUID) (*organization.Invitation, error) {
	var model models.InvitationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByToken finds an invitation by its secret token
func (r *GormInvitationRepository) FindByToken(ctx context.Context, token string) (*organization.Invitation, error) {
	var model models.InvitationModel
	if err := r.db.WithContext(ctx).First(&model, "token = ?", token).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindPendingByOrganization lists pending invitations, newest first
func (r *GormInvitationRepository) FindPendingByOrganization(ctx context.Context, organizationID uuid.UUID) ([]*organization.Invitation, error) {
	return r.find(ctx, r.db.
		Where("organization_id = ? AND status = ?", organizationID, string(organization.InvitationPending)).
		Order("created_at DESC"))
}

// FindExpiredPending lists pending invitations whose expiry is at or before now
func (r *GormInvitationRepository) FindExpiredPending(ctx context.Context, now time.Time) ([]*organization.Invitation, error) {
	return r.find(ctx, r.db.
		Where("status = ? AND expires_at <= ?", string(organization.InvitationPending), now).
		Order("expires_at ASC"))
}

func (r *GormInvitationRepository) find(ctx context.Context, query *gorm.DB) ([]*organization.Invitation, error) {
	var rows []models.InvitationModel
	if err := query.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	invitations := make([]*organization.Invitation, len(rows))
	for i := range rows {
		invitations[i] = rows[i].ToDomain()
	}
	return invitations, nil
}

// Save creates or updates an invitation
func (r *GormInvitationRepository) Save(ctx context.Context, inv *organization.Invitation) error {
	return r.db.WithContext(ctx).Save(models.InvitationModelFromDomain(inv)).Error
}

// Accept marks the invitation accepted and creates the membership in one
// transaction. The invitation row must still be pending.
func (r *GormInvitationRepository) Accept(ctx context.Context, inv *organization.Invitation, membership *organization.Membership) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(models.MembershipModelFromDomain(membership)).Error; err != nil {
			return translateError(err)
		}
		result := tx.Model(&models.InvitationModel{}).
			Where("id = ? AND status = ?", inv.ID, string(organization.InvitationPending)).
			Updates(map[string]any{
				"status":       string(inv.Status),
				"accepted_by":  inv.AcceptedBy,
				"responded_at": inv.RespondedAt,
				"updated_at":   inv.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrInvitationNotPending
		}
		return nil
	})
}

var _ organization.InvitationRepository = (*GormInvitationRepository)(nil)
