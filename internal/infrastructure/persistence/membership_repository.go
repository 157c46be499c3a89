package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/organization"
	"github.com/invoicedesk/backend/internal/domain/shared"
	"github.com/invoicedesk/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormMembershipRepository implements organization.MembershipRepository using GORM
type GormMembershipRepository struct {
	db *gorm.DB
}

// NewGormMembershipRepository creates a new GormMembershipRepository
func NewGormMembershipRepository(db *gorm.DB) *GormMembershipRepository {
	return &GormMembershipRepository{db: db}
}

// FindByID finds a membership by ID
func (r *GormMembershipRepository) FindByID(ctx context.Context, id uuid.UUID) (*organization.Membership, error) {
	var model models.MembershipModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByOrganization lists members ordered by join time ascending
func (r *GormMembershipRepository) FindByOrganization(ctx context.Context, organizationID uuid.UUID) ([]*organization.Membership, error) {
	return r.find(ctx, r.db.Where("organization_id = ?", organizationID))
}

// FindByUser lists a user's memberships ordered by join time ascending
func (r *GormMembershipRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*organization.Membership, error) {
	return r.find(ctx, r.db.Where("user_id = ?", userID))
}

func (r *GormMembershipRepository) find(ctx context.Context, query *gorm.DB) ([]*organization.Membership, error) {
	var rows []models.MembershipModel
	if err := query.WithContext(ctx).Order("joined_at ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	memberships := make([]*organization.Membership, len(rows))
	for i := range rows {
		memberships[i] = rows[i].ToDomain()
	}
	return memberships, nil
}

// FindByOrganizationAndUser finds the membership of a user in an organization
func (r *GormMembershipRepository) FindByOrganizationAndUser(ctx context.Context, organizationID, userID uuid.UUID) (*organization.Membership, error) {
	var model models.MembershipModel
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND user_id = ?", organizationID, userID).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// CountOwners counts owner memberships of an organization
func (r *GormMembershipRepository) CountOwners(ctx context.Context, organizationID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.MembershipModel{}).
		Where("organization_id = ? AND role = ?", organizationID, string(organization.RoleOwner)).
		Count(&count).Error
	return count, err
}

// Save creates or updates a membership
func (r *GormMembershipRepository) Save(ctx context.Context, m *organization.Membership) error {
	return r.db.WithContext(ctx).Save(models.MembershipModelFromDomain(m)).Error
}

// Delete deletes a membership by ID
func (r *GormMembershipRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.MembershipModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ organization.MembershipRepository = (*GormMembershipRepository)(nil)
