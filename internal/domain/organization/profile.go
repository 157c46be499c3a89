package organization

import (
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/invoicedesk/backend/internal/domain/shared"
	"github.com/invoicedesk/backend/internal/domain/shared/valueobject"
)

// Legacy settings keys that used to hold profile data
const (
	SettingTaxID         = "pib"
	SettingVATNumber     = "vat_number"
	SettingAddress       = "address"
	SettingCity          = "city"
	SettingPostalCode    = "postal_code"
	SettingCountry       = "country"
	SettingEmail         = "email"
	SettingPhone         = "phone"
	SettingOwnerName     = "owner_name"
	SettingVATRegistered = "vat_registered"
)

var migratedSettingKeys = []string{
	SettingTaxID, SettingVATNumber, SettingAddress, SettingCity, SettingPostalCode,
	SettingCountry, SettingEmail, SettingPhone, SettingOwnerName, SettingVATRegistered,
}

// ProfileForm is the flat, editable view of an organization profile
type ProfileForm struct {
	Name            string
	AccountantEmail string
	TaxID           string
	VATNumber       string
	Address         string
	City            string
	PostalCode      string
	Country         string
	Email           string
	Phone           string
	OwnerName       string
	VATRegistered   bool
}

// PostalAddress returns the address parts of the form as a value object
func (f ProfileForm) PostalAddress() valueobject.PostalAddress {
	return valueobject.NewPostalAddress(f.Address, f.City,
		valueobject.WithPostalCode(f.PostalCode),
		valueobject.WithCountry(f.Country),
	)
}

// CompositeAddress renders street, city and postal code for display
func (f ProfileForm) CompositeAddress() string {
	return f.PostalAddress().Composite()
}

// MergeProfile builds the editable form for an organization.
// For every field a non-empty first-class attribute wins; otherwise the legacy
// settings value is used.
func MergeProfile(o *Organization) ProfileForm {
	form := ProfileForm{
		Name:            o.Name,
		AccountantEmail: deref(o.AccountantEmail),
		TaxID:           prefer(o.TaxID, o.setting(SettingTaxID)),
		VATNumber:       prefer(o.VATNumber, o.setting(SettingVATNumber)),
		Address:         prefer(o.Street, o.setting(SettingAddress)),
		City:            prefer(o.City, o.setting(SettingCity)),
		PostalCode:      prefer(o.PostalCode, o.setting(SettingPostalCode)),
		Country:         prefer(o.Country, o.setting(SettingCountry)),
		Email:           prefer(o.ContactEmail, o.setting(SettingEmail)),
		Phone:           prefer(o.ContactPhone, o.setting(SettingPhone)),
		OwnerName:       prefer(o.OwnerName, o.setting(SettingOwnerName)),
	}

	if o.VATRegistered != nil {
		form.VATRegistered = *o.VATRegistered
	} else if v, err := strconv.ParseBool(o.setting(SettingVATRegistered)); err == nil {
		form.VATRegistered = v
	}
	return form
}

// ApplyProfile writes every profile field to its first-class attribute and drops
// the migrated keys from the legacy settings map. Unrelated settings keys are kept.
func (o *Organization) ApplyProfile(form ProfileForm) error {
	name := strings.TrimSpace(form.Name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Organization name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Organization name cannot exceed 200 characters")
	}
	if err := validateEmail("accountant email", form.AccountantEmail); err != nil {
		return err
	}
	if err := validateEmail("contact email", form.Email); err != nil {
		return err
	}

	o.Name = name
	o.AccountantEmail = optional(form.AccountantEmail)
	o.TaxID = optional(form.TaxID)
	o.VATNumber = optional(form.VATNumber)
	o.Street = optional(form.Address)
	o.City = optional(form.City)
	o.PostalCode = optional(form.PostalCode)
	o.Country = optional(form.Country)
	o.ContactEmail = optional(form.Email)
	o.ContactPhone = optional(form.Phone)
	o.OwnerName = optional(form.OwnerName)
	vatRegistered := form.VATRegistered
	o.VATRegistered = &vatRegistered

	if o.Settings != nil {
		for _, key := range migratedSettingKeys {
			delete(o.Settings, key)
		}
	} else {
		o.Settings = Settings{}
	}

	o.UpdatedAt = time.Now()
	o.AddDomainEvent(NewOrganizationProfileUpdatedEvent(o))
	return nil
}

func validateEmail(field, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return shared.NewDomainError("INVALID_EMAIL", fmt.Sprintf("The %s is not a valid email address", field))
	}
	return nil
}

func prefer(firstClass *string, legacy string) string {
	if v := deref(firstClass); v != "" {
		return v
	}
	return legacy
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func toString(v any) string {
	switch t := v.(type) {
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return fmt.Sprint(t)
	}
}
