package invoice

import (
	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/shared"
)

// AggregateTypeInvoice is the aggregate type name used in events
const AggregateTypeInvoice = "Invoice"

// Event type constants
const (
	EventTypeInvoiceUploaded         = "InvoiceUploaded"
	EventTypeInvoiceProcessed        = "InvoiceProcessed"
	EventTypeInvoiceVerified         = "InvoiceVerified"
	EventTypeInvoiceSentToAccountant = "InvoiceSentToAccountant"
	EventTypeInvoiceFailed           = "InvoiceFailed"
	EventTypeInvoiceEdited           = "InvoiceEdited"
)

// InvoiceStatusEvent is raised whenever an invoice changes or is created
type InvoiceStatusEvent struct {
	shared.BaseDomainEvent
	InvoiceID uuid.UUID `json:"invoice_id"`
	Status    Status    `json:"status"`
	Reason    string    `json:"reason,omitempty"`
}

func newStatusEvent(eventType string, inv *Invoice) *InvoiceStatusEvent {
	return &InvoiceStatusEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeInvoice, inv.ID, inv.OrganizationID),
		InvoiceID:       inv.ID,
		Status:          inv.Status,
	}
}

// NewInvoiceUploadedEvent creates an InvoiceUploaded event
func NewInvoiceUploadedEvent(inv *Invoice) *InvoiceStatusEvent {
	return newStatusEvent(EventTypeInvoiceUploaded, inv)
}

// NewInvoiceProcessedEvent creates an InvoiceProcessed event
func NewInvoiceProcessedEvent(inv *Invoice) *InvoiceStatusEvent {
	return newStatusEvent(EventTypeInvoiceProcessed, inv)
}

// NewInvoiceVerifiedEvent creates an InvoiceVerified event
func NewInvoiceVerifiedEvent(inv *Invoice) *InvoiceStatusEvent {
	return newStatusEvent(EventTypeInvoiceVerified, inv)
}

// NewInvoiceSentToAccountantEvent creates an InvoiceSentToAccountant event
func NewInvoiceSentToAccountantEvent(inv *Invoice) *InvoiceStatusEvent {
	return newStatusEvent(EventTypeInvoiceSentToAccountant, inv)
}

// NewInvoiceEditedEvent creates an InvoiceEdited event
func NewInvoiceEditedEvent(inv *Invoice) *InvoiceStatusEvent {
	return newStatusEvent(EventTypeInvoiceEdited, inv)
}

// NewInvoiceFailedEvent creates an InvoiceFailed event carrying the failure reason
func NewInvoiceFailedEvent(inv *Invoice, reason string) *InvoiceStatusEvent {
	e := newStatusEvent(EventTypeInvoiceFailed, inv)
	e.Reason = reason
	return e
}
