package invoice

import (
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/invoice"
)

// UploadInput registers a document that is already stored
type UploadInput struct {
	FileURL  string
	FileType string
}

// FileUpload describes an invoice document sent through the API
type FileUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadURLInput requests a presigned upload target
type UploadURLInput struct {
	Filename    string
	ContentType string
}

// UploadURL is a presigned upload target. FileURL is passed to Upload once the
// client finished the PUT.
type UploadURL struct {
	UploadURL string
	FileURL   string
	ExpiresAt time.Time
}

// SaveEditsInput carries the raw verification form.
// ExpectedVersion enables optimistic concurrency; nil means last write wins.
type SaveEditsInput struct {
	Fields          invoice.FieldInput
	ExpectedVersion *int
}

// ExtractionInput carries fields produced by the extraction pipeline
type ExtractionInput struct {
	Fields invoice.FieldInput
}

// ListInput filters an invoice listing
type ListInput struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Status   string
}

// View is an invoice prepared for display
type View struct {
	Invoice       *invoice.Invoice
	Actions       []invoice.Action
	StatusLabel   string
	StatusTag     invoice.StatusTag
	DisplayTotal  string
	BuyerDefaults *invoice.Party
}

// Summary holds invoice counts per status
type Summary struct {
	OrganizationID uuid.UUID
	Counts         map[invoice.Status]int64
	Total          int64
}
