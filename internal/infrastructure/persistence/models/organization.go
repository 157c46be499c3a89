package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/organization"
)

// OrganizationModel is the persistence model for the Organization aggregate.
// Settings holds the legacy free-form JSON object; profile fields live in columns.
type OrganizationModel struct {
	AggregateModel
	Name            string  `gorm:"type:varchar(200);not null"`
	Slug            string  `gorm:"type:varchar(64);not null;uniqueIndex"`
	LogoURL         *string `gorm:"type:text"`
	AccountantEmail *string `gorm:"type:varchar(200)"`
	Settings        string  `gorm:"type:jsonb;not null;default:'{}'"`
	TaxID           *string `gorm:"column:pib;type:varchar(50)"`
	VATNumber       *string `gorm:"type:varchar(50)"`
	Street          *string `gorm:"type:varchar(300)"`
	City            *string `gorm:"type:varchar(100)"`
	PostalCode      *string `gorm:"type:varchar(20)"`
	Country         *string `gorm:"type:varchar(100)"`
	ContactEmail    *string `gorm:"type:varchar(200)"`
	ContactPhone    *string `gorm:"type:varchar(50)"`
	OwnerName       *string `gorm:"type:varchar(200)"`
	VATRegistered   *bool
}

// TableName returns the table name for GORM
func (OrganizationModel) TableName() string {
	return "organizations"
}

// ToDomain converts the persistence model to a domain Organization.
// Unreadable settings become an empty map.
func (m *OrganizationModel) ToDomain() *organization.Organization {
	settings := organization.Settings{}
	if m.Settings != "" {
		if err := json.Unmarshal([]byte(m.Settings), &settings); err != nil || settings == nil {
			settings = organization.Settings{}
		}
	}

	return &organization.Organization{
		AggregateRoot:   m.ToAggregateRoot(),
		Name:            m.Name,
		Slug:            m.Slug,
		LogoURL:         m.LogoURL,
		AccountantEmail: m.AccountantEmail,
		Settings:        settings,
		TaxID:           m.TaxID,
		VATNumber:       m.VATNumber,
		Street:          m.Street,
		City:            m.City,
		PostalCode:      m.PostalCode,
		Country:         m.Country,
		ContactEmail:    m.ContactEmail,
		ContactPhone:    m.ContactPhone,
		OwnerName:       m.OwnerName,
		VATRegistered:   m.VATRegistered,
	}
}

// FromDomain populates the persistence model from a domain Organization
func (m *OrganizationModel) FromDomain(o *organization.Organization) error {
	settings := o.Settings
	if settings == nil {
		settings = organization.Settings{}
	}
	raw, err := json.Marshal(settings)
	if err != nil {
		return err
	}

	m.FromDomainAggregateRoot(o.AggregateRoot)
	m.Name = o.Name
	m.Slug = o.Slug
	m.LogoURL = o.LogoURL
	m.AccountantEmail = o.AccountantEmail
	m.Settings = string(raw)
	m.TaxID = o.TaxID
	m.VATNumber = o.VATNumber
	m.Street = o.Street
	m.City = o.City
	m.PostalCode = o.PostalCode
	m.Country = o.Country
	m.ContactEmail = o.ContactEmail
	m.ContactPhone = o.ContactPhone
	m.OwnerName = o.OwnerName
	m.VATRegistered = o.VATRegistered
	return nil
}

// OrganizationModelFromDomain creates a new persistence model from a domain Organization
func OrganizationModelFromDomain(o *organization.Organization) (*OrganizationModel, error) {
	m := &OrganizationModel{}
	if err := m.FromDomain(o); err != nil {
		return nil, err
	}
	return m, nil
}

// MembershipModel is the persistence model for organization memberships
type MembershipModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_memberships_org_user"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_memberships_org_user;index"`
	Role           string    `gorm:"type:varchar(20);not null"`
	JoinedAt       time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (MembershipModel) TableName() string {
	return "organization_members"
}

// ToDomain converts the persistence model to a domain Membership.
// Unknown stored roles are read as employee, the least privileged role.
func (m *MembershipModel) ToDomain() *organization.Membership {
	role, ok := organization.ParseRole(m.Role)
	if !ok {
		role = organization.RoleEmployee
	}
	return &organization.Membership{
		ID:             m.ID,
		OrganizationID: m.OrganizationID,
		UserID:         m.UserID,
		Role:           role,
		JoinedAt:       m.JoinedAt,
	}
}

// MembershipModelFromDomain creates a new persistence model from a domain Membership
func MembershipModelFromDomain(ms *organization.Membership) *MembershipModel {
	return &MembershipModel{
		ID:             ms.ID,
		OrganizationID: ms.OrganizationID,
		UserID:         ms.UserID,
		Role:           string(ms.Role),
		JoinedAt:       ms.JoinedAt,
	}
}

// InvitationModel is the persistence model for member invitations
type InvitationModel struct {
	AggregateModel
	OrganizationID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Email          string     `gorm:"type:varchar(200);not null"`
	Name           string     `gorm:"type:varchar(200)"`
	Phone          string     `gorm:"type:varchar(50)"`
	Role           string     `gorm:"type:varchar(20);not null"`
	Token          string     `gorm:"type:varchar(64);not null;uniqueIndex"`
	InvitedBy      uuid.UUID  `gorm:"type:uuid;not null"`
	Status         string     `gorm:"type:varchar(20);not null;default:'pending';index"`
	ExpiresAt      time.Time  `gorm:"not null;index"`
	AcceptedBy     *uuid.UUID `gorm:"type:uuid"`
	RespondedAt    *time.Time
}

// TableName returns the table name for GORM
func (InvitationModel) TableName() string {
	return "organization_invitations"
}

// ToDomain converts the persistence model to a domain Invitation
func (m *InvitationModel) ToDomain() *organization.Invitation {
	role, ok := organization.ParseRole(m.Role)
	if !ok {
		role = organization.RoleEmployee
	}
	return &organization.Invitation{
		AggregateRoot:  m.ToAggregateRoot(),
		OrganizationID: m.OrganizationID,
		Email:          m.Email,
		Name:           m.Name,
		Phone:          m.Phone,
		Role:           role,
		Token:          m.Token,
		InvitedBy:      m.InvitedBy,
		Status:         organization.InvitationStatus(m.Status),
		ExpiresAt:      m.ExpiresAt,
		AcceptedBy:     m.AcceptedBy,
		RespondedAt:    m.RespondedAt,
	}
}

// InvitationModelFromDomain creates a new persistence model from a domain Invitation
func InvitationModelFromDomain(i *organization.Invitation) *InvitationModel {
	m := &InvitationModel{
		OrganizationID: i.OrganizationID,
		Email:          i.Email,
		Name:           i.Name,
		Phone:          i.Phone,
		Role:           string(i.Role),
		Token:          i.Token,
		InvitedBy:      i.InvitedBy,
		Status:         string(i.Status),
		ExpiresAt:      i.ExpiresAt,
		AcceptedBy:     i.AcceptedBy,
		RespondedAt:    i.RespondedAt,
	}
	m.FromDomainAggregateRoot(i.AggregateRoot)
	return m
}
