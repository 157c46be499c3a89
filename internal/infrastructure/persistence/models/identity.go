package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/identity"
)

// UserModel is the persistence model for the User aggregate
type UserModel struct {
	AggregateModel
	Email        string     `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash string     `gorm:"type:varchar(255);not null"`
	DisplayName  string     `gorm:"type:varchar(100)"`
	LastLoginAt  *time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		AggregateRoot: m.ToAggregateRoot(),
		Email:         m.Email,
		PasswordHash:  m.PasswordHash,
		DisplayName:   m.DisplayName,
		LastLoginAt:   m.LastLoginAt,
	}
}

// UserModelFromDomain creates a new persistence model from a domain User entity
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		DisplayName:  u.DisplayName,
		LastLoginAt:  u.LastLoginAt,
	}
	m.FromDomainAggregateRoot(u.AggregateRoot)
	return m
}

// ProfileModel is the persistence model for the per-user profile row.
// It is keyed by the user id.
type ProfileModel struct {
	UserID                 uuid.UUID  `gorm:"type:uuid;primary_key"`
	DisplayName            string     `gorm:"type:varchar(100)"`
	Email                  string     `gorm:"type:varchar(200)"`
	SelectedOrganizationID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt              time.Time  `gorm:"not null"`
	UpdatedAt              time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProfileModel) TableName() string {
	return "profiles"
}

// ToDomain converts the persistence model to a domain Profile
func (m *ProfileModel) ToDomain() *identity.Profile {
	return &identity.Profile{
		UserID:                 m.UserID,
		DisplayName:            m.DisplayName,
		Email:                  m.Email,
		SelectedOrganizationID: m.SelectedOrganizationID,
		CreatedAt:              m.CreatedAt,
		UpdatedAt:              m.UpdatedAt,
	}
}

// ProfileModelFromDomain creates a new persistence model from a domain Profile
func ProfileModelFromDomain(p *identity.Profile) *ProfileModel {
	return &ProfileModel{
		UserID:                 p.UserID,
		DisplayName:            p.DisplayName,
		Email:                  p.Email,
		SelectedOrganizationID: p.SelectedOrganizationID,
		CreatedAt:              p.CreatedAt,
		UpdatedAt:              p.UpdatedAt,
	}
}
