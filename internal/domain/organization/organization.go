package organization

import (
	"regexp"
	"strings"
	"time"

	"github.com/invoicedesk/backend/internal/domain/shared"
)

var (
	slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)
)

// Settings is the legacy free-form key/value store kept on an organization
type Settings map[string]any

// Organization is an isolated customer account (tenant)
type Organization struct {
	shared.AggregateRoot
	Name            string
	Slug            string
	LogoURL         *string
	AccountantEmail *string
	Settings        Settings

	// First-class legal and contact fields. Older records may still carry
	// these values inside Settings only.
	TaxID         *string
	VATNumber     *string
	Street        *string
	City          *string
	PostalCode    *string
	Country       *string
	ContactEmail  *string
	ContactPhone  *string
	OwnerName     *string
	VATRegistered *bool
}

// NewOrganization creates an organization. An empty slug is derived from the name.
func NewOrganization(name, slug string) (*Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Organization name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Organization name cannot exceed 200 characters")
	}
	if strings.TrimSpace(slug) == "" {
		slug = name
	}
	slug = Slugify(slug)
	if slug == "" {
		return nil, shared.NewDomainError("INVALID_SLUG", "Organization slug must contain letters or digits")
	}

	org := &Organization{
		AggregateRoot: shared.NewAggregateRoot(),
		Name:          name,
		Slug:          slug,
		Settings:      Settings{},
	}
	org.AddDomainEvent(NewOrganizationCreatedEvent(org))
	return org, nil
}

// Slugify lower-cases s and collapses every run of non-alphanumerics into a dash
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugInvalid.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > 64 {
		s = strings.TrimRight(s[:64], "-")
	}
	return s
}

// SetLogo replaces the logo reference
func (o *Organization) SetLogo(url string) {
	o.LogoURL = &url
	o.UpdatedAt = time.Now()
	o.AddDomainEvent(NewOrganizationLogoChangedEvent(o))
}

// ClearLogo removes the logo reference
func (o *Organization) ClearLogo() {
	o.LogoURL = nil
	o.UpdatedAt = time.Now()
	o.AddDomainEvent(NewOrganizationLogoChangedEvent(o))
}

// setting returns a legacy settings value as a string
func (o *Organization) setting(key string) string {
	if o.Settings == nil {
		return ""
	}
	switch v := o.Settings[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case nil:
		return ""
	default:
		return strings.TrimSpace(toString(v))
	}
}
