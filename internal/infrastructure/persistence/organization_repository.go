package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/organization"
	"github.com/invoicedesk/backend/internal/domain/shared"
	"github.com/invoicedesk/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormOrganizationRepository implements organization.OrganizationRepository using GORM
type GormOrganizationRepository struct {
	db *gorm.DB
}

// NewGormOrganizationRepository creates a new GormOrganizationRepository
func NewGormOrganizationRepository(db *gorm.DB) *GormOrganizationRepository {
	return &GormOrganizationRepository{db: db}
}

// FindByID finds an organization by ID
func (r *GormOrganizationRepository) FindByID(ctx context.Context, id uuid.UUID) (*organization.Organization, error) {
	var model models.OrganizationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindBySlug finds an organization by its slug
func (r *GormOrganizationRepository) FindBySlug(ctx context.Context, slug string) (*organization.Organization, error) {
	var model models.OrganizationModel
	if err := r.db.WithContext(ctx).First(&model, "slug = ?", slug).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByIDs batch-loads organizations. IDs without a row are skipped.
func (r *GormOrganizationRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*organization.Organization, error) {
	if len(ids) == 0 {
		return []*organization.Organization{}, nil
	}
	var rows []models.OrganizationModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	orgs := make([]*organization.Organization, len(rows))
	for i := range rows {
		orgs[i] = rows[i].ToDomain()
	}
	return orgs, nil
}

// ExistsBySlug checks whether a slug is already taken
func (r *GormOrganizationRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.OrganizationModel{}).
		Where("slug = ?", slug).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save updates an existing organization and bumps its version
func (r *GormOrganizationRepository) Save(ctx context.Context, org *organization.Organization) error {
	model, err := models.OrganizationModelFromDomain(org)
	if err != nil {
		return err
	}
	model.Version = org.Version + 1

	result := r.db.WithContext(ctx).
		Model(&models.OrganizationModel{}).
		Where("id = ?", org.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	org.Version = model.Version
	return nil
}

// CreateWithOwner inserts the organization and its owner membership in one transaction
func (r *GormOrganizationRepository) CreateWithOwner(ctx context.Context, org *organization.Organization, owner *organization.Membership) error {
	model, err := models.OrganizationModelFromDomain(org)
	if err != nil {
		return err
	}
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(model).Error; err != nil {
			return err
		}
		return tx.Create(models.MembershipModelFromDomain(owner)).Error
	})
	return translateError(err)
}

var _ organization.OrganizationRepository = (*GormOrganizationRepository)(nil)
