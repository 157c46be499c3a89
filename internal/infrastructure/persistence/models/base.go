package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/invoicedesk/backend/internal/domain/shared"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's Entity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to a domain Entity
func (m *BaseModel) ToDomain() shared.Entity {
	return shared.Entity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainEntity populates BaseModel from a domain Entity
func (m *BaseModel) FromDomainEntity(e shared.Entity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// AggregateModel extends BaseModel with the version used for optimistic locking
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

// FromDomainAggregateRoot populates AggregateModel from a domain AggregateRoot
func (m *AggregateModel) FromDomainAggregateRoot(a shared.AggregateRoot) {
	m.FromDomainEntity(a.Entity)
	m.Version = a.Version
}

// ToAggregateRoot rebuilds the domain aggregate root without pending events
func (m *AggregateModel) ToAggregateRoot() shared.AggregateRoot {
	return shared.AggregateRoot{
		Entity:  m.BaseModel.ToDomain(),
		Version: m.Version,
	}
}

// OrganizationAggregateModel adds the owning organization and creator to an aggregate
type OrganizationAggregateModel struct {
	AggregateModel
	OrganizationID uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedBy      *uuid.UUID `gorm:"type:uuid"`
}

// FromDomainOrganizationAggregateRoot populates the model from a tenant-scoped aggregate
func (m *OrganizationAggregateModel) FromDomainOrganizationAggregateRoot(o shared.OrganizationAggregateRoot) {
	m.FromDomainAggregateRoot(o.AggregateRoot)
	m.OrganizationID = o.OrganizationID
	m.CreatedBy = o.CreatedBy
}

// ToOrganizationAggregateRoot rebuilds the tenant-scoped aggregate root
func (m *OrganizationAggregateModel) ToOrganizationAggregateRoot() shared.OrganizationAggregateRoot {
	return shared.OrganizationAggregateRoot{
		AggregateRoot:  m.ToAggregateRoot(),
		OrganizationID: m.OrganizationID,
		CreatedBy:      m.CreatedBy,
	}
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func decimalPtr(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}
