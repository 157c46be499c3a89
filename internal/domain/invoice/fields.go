package invoice

import (
	"errors"
	"strings"
	"time"

	"github.com/invoicedesk/backend/internal/domain/shared"
	"github.com/invoicedesk/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// DateLayout is the accepted format for invoice dates
const DateLayout = "2006-01-02"

// EditableFields is the validated field set written by the verification form
// and by the extraction pipeline.
// A nil LineItems keeps the stored items; a blank Currency keeps the stored currency.
type EditableFields struct {
	InvoiceNumber *string
	InvoiceDate   *time.Time
	Vendor        Party
	Buyer         Party
	Subtotal      *decimal.Decimal
	TaxAmount     *decimal.Decimal
	TotalAmount   *decimal.Decimal
	Currency      valueobject.Currency
	Notes         *string
	LineItems     []LineItem
}

// FieldInput carries the raw form values before validation
type FieldInput struct {
	InvoiceNumber string
	InvoiceDate   string
	Vendor        PartyInput
	Buyer         PartyInput
	Subtotal      string
	TaxAmount     string
	TotalAmount   string
	Currency      string
	Notes         string
	LineItems     any
}

// PartyInput carries raw vendor or buyer values
type PartyInput struct {
	Name    string
	Address string
	TaxID   string
	VATID   string
}

// ParseFieldInput validates raw form values. Monetary fields must parse as numbers;
// blank values clear the field.
func ParseFieldInput(in FieldInput) (EditableFields, error) {
	subtotal, err := valueobject.ParseAmount("subtotal", in.Subtotal)
	if err != nil {
		return EditableFields{}, amountError(err)
	}
	taxAmount, err := valueobject.ParseAmount("tax_amount", in.TaxAmount)
	if err != nil {
		return EditableFields{}, amountError(err)
	}
	totalAmount, err := valueobject.ParseAmount("total_amount", in.TotalAmount)
	if err != nil {
		return EditableFields{}, amountError(err)
	}

	var invoiceDate *time.Time
	if s := strings.TrimSpace(in.InvoiceDate); s != "" {
		d, err := time.Parse(DateLayout, s)
		if err != nil {
			return EditableFields{}, shared.NewDomainError("INVALID_DATE", "Invoice date must use the YYYY-MM-DD format")
		}
		invoiceDate = &d
	}

	fields := EditableFields{
		InvoiceNumber: optional(in.InvoiceNumber),
		InvoiceDate:   invoiceDate,
		Vendor:        in.Vendor.toParty(),
		Buyer:         in.Buyer.toParty(),
		Subtotal:      subtotal,
		TaxAmount:     taxAmount,
		TotalAmount:   totalAmount,
		Currency:      valueobject.Currency(strings.ToUpper(strings.TrimSpace(in.Currency))),
		Notes:         optional(in.Notes),
	}
	if in.LineItems != nil {
		fields.LineItems = ParseLineItems(in.LineItems)
	}
	return fields, nil
}

func (p PartyInput) toParty() Party {
	return Party{
		Name:    optional(p.Name),
		Address: optional(p.Address),
		TaxID:   optional(p.TaxID),
		VATID:   optional(p.VATID),
	}
}

func amountError(err error) error {
	var ae *valueobject.AmountError
	if errors.As(err, &ae) {
		return shared.WrapDomainError(err, "INVALID_AMOUNT", ae.Field+" must be a number")
	}
	return shared.WrapDomainError(err, "INVALID_AMOUNT", "Amount must be a number")
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
