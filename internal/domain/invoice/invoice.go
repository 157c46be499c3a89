package invoice

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/shared"
	"github.com/invoicedesk/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Party identifies the vendor or the buyer on an invoice
type Party struct {
	Name    *string
	Address *string
	TaxID   *string
	VATID   *string
}

// IsEmpty reports whether no identity field is set
func (p Party) IsEmpty() bool {
	return blank(p.Name) && blank(p.Address) && blank(p.TaxID) && blank(p.VATID)
}

// Invoice is the aggregate root for an uploaded invoice document
type Invoice struct {
	shared.OrganizationAggregateRoot
	UploadedBy    uuid.UUID
	InvoiceNumber *string
	InvoiceDate   *time.Time
	Vendor        Party
	Buyer         Party
	Subtotal      *decimal.Decimal
	TaxAmount     *decimal.Decimal
	TotalAmount   *decimal.Decimal
	Currency      valueobject.Currency
	LineItems     []LineItem
	Notes         *string
	FileURL       string
	FileType      string
	Status        Status
	ErrorReason   *string
	ProcessedAt   *time.Time
	VerifiedAt    *time.Time
	SentAt        *time.Time
}

// NewInvoice registers an uploaded document as a pending invoice
func NewInvoice(organizationID, uploadedBy uuid.UUID, fileURL, fileType string) (*Invoice, error) {
	if organizationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORGANIZATION", "Organization ID cannot be empty")
	}
	if uploadedBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "Uploader ID cannot be empty")
	}
	fileURL = strings.TrimSpace(fileURL)
	if fileURL == "" {
		return nil, shared.NewDomainError("INVALID_FILE", "File reference cannot be empty")
	}

	inv := &Invoice{
		OrganizationAggregateRoot: shared.NewOrganizationAggregateRoot(organizationID, uploadedBy),
		UploadedBy:                uploadedBy,
		Currency:                  valueobject.DefaultCurrency,
		LineItems:                 []LineItem{},
		FileURL:                   fileURL,
		FileType:                  strings.TrimSpace(fileType),
		Status:                    StatusPending,
	}
	inv.AddDomainEvent(NewInvoiceUploadedEvent(inv))
	return inv, nil
}

// AvailableActions returns the actions a user may trigger in the current status
func (i *Invoice) AvailableActions() []Action {
	actions := []Action{ActionEdit}
	switch ParseStatus(string(i.Status)) {
	case StatusProcessed:
		actions = append(actions, ActionVerify)
	case StatusVerified:
		actions = append(actions, ActionSendToAccountant)
	}
	return actions
}

// MarkProcessed applies fields produced by the extraction pipeline and moves the
// invoice to processed
func (i *Invoice) MarkProcessed(fields EditableFields) error {
	if !i.effectiveStatus().CanTransitionTo(StatusProcessed) {
		return invalidTransition("process", i.Status)
	}
	if err := i.checkCurrency(fields.Currency); err != nil {
		return err
	}

	now := time.Now()
	i.applyFields(fields)
	i.Status = StatusProcessed
	i.ErrorReason = nil
	i.ProcessedAt = &now
	i.UpdatedAt = now

	i.AddDomainEvent(NewInvoiceProcessedEvent(i))
	return nil
}

// Verify confirms the extracted data. Only processed invoices can be verified
// and no other field changes.
func (i *Invoice) Verify() error {
	if i.effectiveStatus() != StatusProcessed {
		return invalidTransition("verify", i.Status)
	}

	now := time.Now()
	i.Status = StatusVerified
	i.VerifiedAt = &now
	i.UpdatedAt = now

	i.AddDomainEvent(NewInvoiceVerifiedEvent(i))
	return nil
}

// SendToAccountant hands a verified invoice over to the accountant
func (i *Invoice) SendToAccountant() error {
	if i.effectiveStatus() != StatusVerified {
		return invalidTransition("send to accountant", i.Status)
	}

	now := time.Now()
	i.Status = StatusSentToAccountant
	i.SentAt = &now
	i.UpdatedAt = now

	i.AddDomainEvent(NewInvoiceSentToAccountantEvent(i))
	return nil
}

// MarkError records a processing failure. It is reachable from any status.
func (i *Invoice) MarkError(reason string) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "Processing failed"
	}
	i.Status = StatusError
	i.ErrorReason = &reason
	i.UpdatedAt = time.Now()

	i.AddDomainEvent(NewInvoiceFailedEvent(i, reason))
}

// SaveEdits overwrites the editable field set. Allowed in every status and never
// changes the status. The invoice is left untouched when validation fails.
func (i *Invoice) SaveEdits(fields EditableFields) error {
	if err := i.checkCurrency(fields.Currency); err != nil {
		return err
	}

	i.applyFields(fields)
	i.Status = i.effectiveStatus()
	i.UpdatedAt = time.Now()

	i.AddDomainEvent(NewInvoiceEditedEvent(i))
	return nil
}

// DisplayTotal renders the total amount with its currency symbol, or "" when unset
func (i *Invoice) DisplayTotal() string {
	if i.TotalAmount == nil {
		return ""
	}
	return i.Currency.Format(*i.TotalAmount)
}

// checkCurrency accepts the editable set, blank (keep current) and the currency
// already stored on the invoice even if it lies outside the editable set.
func (i *Invoice) checkCurrency(c valueobject.Currency) error {
	if c == "" || c == i.Currency || c.IsEditable() {
		return nil
	}
	return shared.NewDomainError("INVALID_CURRENCY", fmt.Sprintf("Currency %s is not supported", c))
}

func (i *Invoice) applyFields(f EditableFields) {
	i.InvoiceNumber = f.InvoiceNumber
	i.InvoiceDate = f.InvoiceDate
	i.Vendor = f.Vendor
	i.Buyer = f.Buyer
	i.Subtotal = f.Subtotal
	i.TaxAmount = f.TaxAmount
	i.TotalAmount = f.TotalAmount
	if f.Currency != "" {
		i.Currency = f.Currency
	}
	i.Notes = f.Notes
	if f.LineItems != nil {
		i.LineItems = f.LineItems
	}
}

func (i *Invoice) effectiveStatus() Status {
	return ParseStatus(string(i.Status))
}

func invalidTransition(action string, current Status) error {
	return shared.NewDomainError("INVALID_STATE",
		fmt.Sprintf("Cannot %s invoice in %s status", action, ParseStatus(string(current))))
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
