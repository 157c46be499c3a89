package valueobject

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Currency represents a currency code as persisted on an invoice.
// Values outside the editable set are kept verbatim for display.
type Currency string

const (
	EUR Currency = "EUR" // Euro (default)
	BAM Currency = "BAM" // Bosnia-Herzegovina convertible mark
	RSD Currency = "RSD" // Serbian dinar
	HRK Currency = "HRK" // Croatian kuna
	USD Currency = "USD" // US dollar
)

// DefaultCurrency is used when an invoice carries no currency
const DefaultCurrency = EUR

var editableCurrencies = []Currency{EUR, BAM, RSD, HRK, USD}

// EditableCurrencies returns the closed set of currencies a user may select
func EditableCurrencies() []Currency {
	out := make([]Currency, len(editableCurrencies))
	copy(out, editableCurrencies)
	return out
}

// IsEditable reports whether c belongs to the editable set
func (c Currency) IsEditable() bool {
	for _, e := range editableCurrencies {
		if c == e {
			return true
		}
	}
	return false
}

// ParseEditableCurrency validates a currency chosen in the edit form.
// Blank input selects the default currency.
func ParseEditableCurrency(raw string) (Currency, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return DefaultCurrency, nil
	}
	c := Currency(s)
	if !c.IsEditable() {
		return "", fmt.Errorf("currency %q is not supported", raw)
	}
	return c, nil
}

// OrDefault returns c, or the default currency when c is blank
func (c Currency) OrDefault() Currency {
	if strings.TrimSpace(string(c)) == "" {
		return DefaultCurrency
	}
	return c
}

// Symbol returns the display symbol for the currency.
// Codes that are not ISO 4217 are returned as-is.
func (c Currency) Symbol() string {
	unit, err := currency.ParseISO(string(c))
	if err != nil {
		return string(c)
	}
	return fmt.Sprint(currency.Symbol(unit))
}

// Format renders an amount with two decimal places prefixed by the currency symbol
func (c Currency) Format(amount decimal.Decimal) string {
	return c.OrDefault().Symbol() + " " + amount.StringFixed(2)
}

// String implements fmt.Stringer
func (c Currency) String() string {
	return string(c)
}
