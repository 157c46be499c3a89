package valueobject

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// AmountError is returned when a monetary input does not parse as a number
type AmountError struct {
	Field string
	Value string
}

func (e *AmountError) Error() string {
	if e.Field == "" {
		return "value " + quote(e.Value) + " is not a valid amount"
	}
	return e.Field + ": value " + quote(e.Value) + " is not a valid amount"
}

const (
	// AmountIntegerDigits and AmountFractionDigits match the stored decimal(18,2) columns
	AmountIntegerDigits  = 16
	AmountFractionDigits = 2
)

// ParseAmount parses a user-supplied monetary value.
// Blank input clears the value (nil, nil); anything that is not a decimal number is rejected,
// as are values with more than two significant decimals or sixteen integer digits.
// Thousands separators are not accepted, a single comma is read as the decimal point.
func ParseAmount(field, raw string) (*decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, nil
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !fitsAmount(d) {
		return nil, &AmountError{Field: field, Value: raw}
	}
	return &d, nil
}

// fitsAmount checks precision from the coefficient digits and exponent so that
// inputs like 1e2147483647 are rejected without being expanded.
func fitsAmount(d decimal.Decimal) bool {
	digits := new(big.Int).Abs(d.Coefficient()).String()
	trimmed := strings.TrimRight(digits, "0")
	if trimmed == "" {
		return true
	}
	exp := int64(d.Exponent()) + int64(len(digits)-len(trimmed))
	if exp < -AmountFractionDigits {
		return false
	}
	return int64(len(trimmed))+exp <= AmountIntegerDigits
}

func quote(s string) string {
	return "\"" + s + "\""
}
