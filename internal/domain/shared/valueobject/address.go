package valueobject

import (
	"strings"
)

// PostalAddress is an immutable postal address as stored on an organization profile.
// Every part is optional.
type PostalAddress struct {
	street     string
	city       string
	postalCode string
	country    string
}

// AddressOption is a functional option for configuring PostalAddress
type AddressOption func(*PostalAddress)

// WithPostalCode sets the postal code
func WithPostalCode(postalCode string) AddressOption {
	return func(a *PostalAddress) {
		a.postalCode = strings.TrimSpace(postalCode)
	}
}

// WithCountry sets the country
func WithCountry(country string) AddressOption {
	return func(a *PostalAddress) {
		a.country = strings.TrimSpace(country)
	}
}

// NewPostalAddress creates an address from street and city plus options
func NewPostalAddress(street, city string, opts ...AddressOption) PostalAddress {
	addr := PostalAddress{
		street: strings.TrimSpace(street),
		city:   strings.TrimSpace(city),
	}
	for _, opt := range opts {
		opt(&addr)
	}
	return addr
}

// Street returns the street line
func (a PostalAddress) Street() string {
	return a.street
}

// City returns the city
func (a PostalAddress) City() string {
	return a.city
}

// PostalCode returns the postal code
func (a PostalAddress) PostalCode() string {
	return a.postalCode
}

// Country returns the country
func (a PostalAddress) Country() string {
	return a.country
}

// IsEmpty reports whether no part of the address is set
func (a PostalAddress) IsEmpty() bool {
	return a.street == "" && a.city == "" && a.postalCode == "" && a.country == ""
}

// Composite renders "street, city postal" for display, omitting empty parts
// together with the separators that would surround them.
func (a PostalAddress) Composite() string {
	locality := strings.TrimSpace(strings.Join(nonEmpty(a.city, a.postalCode), " "))
	return strings.Join(nonEmpty(a.street, locality), ", ")
}

// String implements fmt.Stringer
func (a PostalAddress) String() string {
	return a.Composite()
}

func nonEmpty(parts ...string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
