package invoice

import (
	"context"

	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/shared"
)

// ErrStatusChanged is returned when a transition lost a race with another write
var ErrStatusChanged = shared.NewDomainError("INVALID_STATE", "Invoice status changed. Reload and try again")

// Filter narrows invoice listings
type Filter struct {
	shared.Filter
	Status *Status
}

// WithStatus restricts the listing to one status
func (f Filter) WithStatus(s Status) Filter {
	f.Status = &s
	return f
}

// Repository defines the interface for invoice persistence
type Repository interface {
	// FindByID finds an invoice by ID regardless of organization
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindByIDForOrganization finds an invoice by ID within an organization
	FindByIDForOrganization(ctx context.Context, organizationID, id uuid.UUID) (*Invoice, error)

	// FindAll lists invoices of an organization and returns the total count
	FindAll(ctx context.Context, organizationID uuid.UUID, filter Filter) ([]*Invoice, int64, error)

	// CountByStatus returns invoice counts per status for an organization
	CountByStatus(ctx context.Context, organizationID uuid.UUID) (map[Status]int64, error)

	// Create inserts a new invoice
	Create(ctx context.Context, inv *Invoice) error

	// SaveEdits writes the editable field set only. Status columns are never
	// touched. Concurrent edits are last write wins.
	SaveEdits(ctx context.Context, inv *Invoice) error

	// SaveEditsWithVersion writes the editable field set only if the stored
	// version equals expectedVersion. Returns shared.ErrConcurrencyConflict otherwise.
	SaveEditsWithVersion(ctx context.Context, inv *Invoice, expectedVersion int) error

	// SaveTransition writes the status columns, and the field set when
	// t.WithFields is set, only while the stored status satisfies t.
	// Returns ErrStatusChanged otherwise.
	SaveTransition(ctx context.Context, inv *Invoice, t Transition) error

	// Delete deletes an invoice of an organization
	Delete(ctx context.Context, organizationID, id uuid.UUID) error
}
