package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/identity"
	"github.com/invoicedesk/backend/internal/domain/shared"
	"github.com/invoicedesk/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProfileRepository implements identity.ProfileRepository using GORM
type GormProfileRepository struct {
	db *gorm.DB
}

// NewGormProfileRepository creates a new GormProfileRepository
func NewGormProfileRepository(db *gorm.DB) *GormProfileRepository {
	return &GormProfileRepository{db: db}
}

// FindByUserID finds the profile of a user
func (r *GormProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*identity.Profile, error) {
	var model models.ProfileModel
	if err := r.db.WithContext(ctx).First(&model, "user_id = ?", userID).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByUserIDs batch-loads profiles; users without a profile are skipped
func (r *GormProfileRepository) FindByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]*identity.Profile, error) {
	if len(userIDs) == 0 {
		return []*identity.Profile{}, nil
	}
	var rows []models.ProfileModel
	if err := r.db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	profiles := make([]*identity.Profile, len(rows))
	for i := range rows {
		profiles[i] = rows[i].ToDomain()
	}
	return profiles, nil
}

// Upsert inserts the profile keyed by user id, or refreshes its name and email.
// An existing organization selection is kept.
func (r *GormProfileRepository) Upsert(ctx context.Context, profile *identity.Profile) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"display_name", "email", "updated_at"}),
		}).
		Create(models.ProfileModelFromDomain(profile)).Error
}

// UpdateSelectedOrganization persists the user's active organization
func (r *GormProfileRepository) UpdateSelectedOrganization(ctx context.Context, userID, organizationID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.ProfileModel{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"selected_organization_id": organizationID,
			"updated_at":               time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ identity.ProfileRepository = (*GormProfileRepository)(nil)
