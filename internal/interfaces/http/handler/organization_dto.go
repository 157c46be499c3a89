package handler

import (
	"time"

	"github.com/invoicedesk/backend/internal/application/profile"
	"github.com/invoicedesk/backend/internal/domain/organization"
)

// OrganizationResponse is an organization as seen by one of its members
type OrganizationResponse struct {
	ID          string                   `json:"id"`
	Name        string                   `json:"name"`
	Slug        string                   `json:"slug"`
	LogoURL     *string                  `json:"logo_url,omitempty"`
	Role        string                   `json:"role,omitempty"`
	JoinedAt    *time.Time               `json:"joined_at,omitempty"`
	Permissions organization.Permissions `json:"permissions"`
}

// CreateOrganizationRequest is the new-organization form
type CreateOrganizationRequest struct {
	Name string `json:"name" binding:"required,max=200" example:"Studio Kvadrat"`
	Slug string `json:"slug" binding:"max=100" example:"studio-kvadrat"`
}

// ProfileRequest is the company profile form
type ProfileRequest struct {
	Name            string `json:"name" binding:"required"`
	AccountantEmail string `json:"accountant_email"`
	TaxID           string `json:"tax_id"`
	VATNumber       string `json:"vat_number"`
	Address         string `json:"address"`
	City            string `json:"city"`
	PostalCode      string `json:"postal_code"`
	Country         string `json:"country"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	OwnerName       string `json:"owner_name"`
	VATRegistered   bool   `json:"vat_registered"`
}

// ProfileResponse is the merged company profile
type ProfileResponse struct {
	OrganizationID   string  `json:"organization_id"`
	Name             string  `json:"name"`
	LogoURL          *string `json:"logo_url,omitempty"`
	AccountantEmail  string  `json:"accountant_email"`
	TaxID            string  `json:"tax_id"`
	VATNumber        string  `json:"vat_number"`
	Address          string  `json:"address"`
	City             string  `json:"city"`
	PostalCode       string  `json:"postal_code"`
	Country          string  `json:"country"`
	Email            string  `json:"email"`
	Phone            string  `json:"phone"`
	OwnerName        string  `json:"owner_name"`
	VATRegistered    bool    `json:"vat_registered"`
	CompositeAddress string  `json:"composite_address"`
}

func (r ProfileRequest) toForm() organization.ProfileForm {
	return organization.ProfileForm{
		Name:            r.Name,
		AccountantEmail: r.AccountantEmail,
		TaxID:           r.TaxID,
		VATNumber:       r.VATNumber,
		Address:         r.Address,
		City:            r.City,
		PostalCode:      r.PostalCode,
		Country:         r.Country,
		Email:           r.Email,
		Phone:           r.Phone,
		OwnerName:       r.OwnerName,
		VATRegistered:   r.VATRegistered,
	}
}

func toOrganizationResponse(o organization.OrganizationWithRole) OrganizationResponse {
	joinedAt := o.JoinedAt
	return OrganizationResponse{
		ID:          o.Organization.ID.String(),
		Name:        o.Organization.Name,
		Slug:        o.Organization.Slug,
		LogoURL:     o.Organization.LogoURL,
		Role:        string(o.Role),
		JoinedAt:    &joinedAt,
		Permissions: o.Permissions(),
	}
}

func toOrganizationResponses(orgs []organization.OrganizationWithRole) []OrganizationResponse {
	out := make([]OrganizationResponse, 0, len(orgs))
	for _, o := range orgs {
		out = append(out, toOrganizationResponse(o))
	}
	return out
}

func toProfileResponse(v *profile.View) ProfileResponse {
	return ProfileResponse{
		OrganizationID:   v.Organization.ID.String(),
		Name:             v.Form.Name,
		LogoURL:          v.Organization.LogoURL,
		AccountantEmail:  v.Form.AccountantEmail,
		TaxID:            v.Form.TaxID,
		VATNumber:        v.Form.VATNumber,
		Address:          v.Form.Address,
		City:             v.Form.City,
		PostalCode:       v.Form.PostalCode,
		Country:          v.Form.Country,
		Email:            v.Form.Email,
		Phone:            v.Form.Phone,
		OwnerName:        v.Form.OwnerName,
		VATRegistered:    v.Form.VATRegistered,
		CompositeAddress: v.CompositeAddress,
	}
}

// LogoResponse is the organization's logo after an upload or removal
type LogoResponse struct {
	OrganizationID string  `json:"organization_id"`
	LogoURL        *string `json:"logo_url"`
}
