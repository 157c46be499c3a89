// Package invoice implements the invoice workflow: upload, extraction hooks,
// verification, hand-over to the accountant and manual edits.
package invoice

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/application/access"
	"github.com/invoicedesk/backend/internal/domain/invoice"
	"github.com/invoicedesk/backend/internal/domain/organization"
	"github.com/invoicedesk/backend/internal/domain/shared"
	"github.com/invoicedesk/backend/internal/infrastructure/sanitize"
	"github.com/invoicedesk/backend/internal/infrastructure/storage"
	"github.com/invoicedesk/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// MaxFileSize is the largest invoice document accepted through the API
const MaxFileSize int64 = 10 << 20

// DefaultUploadURLExpiration is how long a presigned upload URL stays valid
const DefaultUploadURLExpiration = 15 * time.Minute

var invoiceContentTypes = map[string]string{
	"pdf":  "application/pdf",
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"webp": "image/webp",
}

var (
	// ErrInvoiceNotFound is returned for unknown invoices and invoices of another organization
	ErrInvoiceNotFound = shared.NewDomainError("NOT_FOUND", "Invoice not found")
	// ErrUnsupportedFile is returned for documents that are not PDF or image files
	ErrUnsupportedFile = shared.NewDomainError("INVALID_FILE", "Only PDF, PNG, JPEG and WebP files are supported")
	// ErrFileTooLarge is returned for documents over MaxFileSize
	ErrFileTooLarge = shared.NewDomainError("INVALID_FILE", "File must be 10MB or smaller")
	// ErrFileMissing is returned when a referenced upload was never stored
	ErrFileMissing = shared.NewDomainError("INVALID_FILE", "Uploaded file was not found")
)

// FileStorage stores invoice documents
type FileStorage interface {
	Upload(ctx context.Context, storageKey string, body io.Reader, size int64, contentType string) error
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
	PublicURL(storageKey string) string
	KeyFromURL(rawURL string) (string, bool)
}

// BuyerDefaultsProvider supplies the organization's own details for the buyer party
type BuyerDefaultsProvider interface {
	BuyerDefaults(ctx context.Context, caller, organizationID uuid.UUID) (invoice.Party, error)
}

// Service is the invoice workflow service
type Service struct {
	repo           invoice.Repository
	guard          *access.Guard
	storage        FileStorage
	buyerDefaults  BuyerDefaultsProvider
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewService creates an invoice service. buyerDefaults may be nil.
func NewService(
	repo invoice.Repository,
	memberships organization.MembershipRepository,
	fileStorage FileStorage,
	buyerDefaults BuyerDefaultsProvider,
	logger *zap.Logger,
) *Service {
	return &Service{
		repo:          repo,
		guard:         access.NewGuard(memberships),
		storage:       fileStorage,
		buyerDefaults: buyerDefaults,
		logger:        logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Upload registers a pending invoice for a document that is already stored
func (s *Service) Upload(ctx context.Context, caller, organizationID uuid.UUID, input UploadInput) (*View, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "upload",
		telemetry.SpanAttrOrganizationID, organizationID)
	defer span.End()

	if _, err := s.guard.RequireMember(ctx, caller, organizationID); err != nil {
		return nil, err
	}
	if err := s.checkStored(ctx, input.FileURL); err != nil {
		return nil, err
	}
	return s.register(ctx, caller, organizationID, input.FileURL, input.FileType)
}

// UploadFile stores an invoice document and registers it as pending
func (s *Service) UploadFile(ctx context.Context, caller, organizationID uuid.UUID, upload FileUpload) (*View, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "upload_file",
		telemetry.SpanAttrOrganizationID, organizationID)
	defer span.End()

	contentType, err := validateFile(upload.Filename, upload.ContentType, upload.Size)
	if err != nil {
		return nil, err
	}
	if _, err := s.guard.RequireMember(ctx, caller, organizationID); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(upload.Body, MaxFileSize+1))
	if err != nil {
		return nil, shared.WrapDomainError(err, "UPLOAD_FAILED", "Upload failed. Please try again")
	}
	if int64(len(data)) > MaxFileSize {
		return nil, ErrFileTooLarge
	}
	if !mimetype.Detect(data).Is(contentType) {
		return nil, ErrUnsupportedFile
	}

	key := storage.InvoiceFileKey(organizationID, upload.Filename)
	if err := s.storage.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to store invoice file", zap.String("organization_id", organizationID.String()), zap.Error(err))
		return nil, shared.WrapDomainError(err, "UPLOAD_FAILED", "Upload failed. Please try again")
	}
	return s.register(ctx, caller, organizationID, s.storage.PublicURL(key), contentType)
}

// UploadURL returns a presigned URL the client uploads a document to directly
func (s *Service) UploadURL(ctx context.Context, caller, organizationID uuid.UUID, input UploadURLInput) (*UploadURL, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "upload_url",
		telemetry.SpanAttrOrganizationID, organizationID)
	defer span.End()

	contentType, err := validateFile(input.Filename, input.ContentType, 1)
	if err != nil {
		return nil, err
	}
	if _, err := s.guard.RequireMember(ctx, caller, organizationID); err != nil {
		return nil, err
	}

	key := storage.InvoiceFileKey(organizationID, input.Filename)
	uploadURL, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, contentType, DefaultUploadURLExpiration)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, shared.WrapDomainError(err, "UPLOAD_FAILED", "Upload failed. Please try again")
	}
	return &UploadURL{
		UploadURL: uploadURL,
		FileURL:   s.storage.PublicURL(key),
		ExpiresAt: expiresAt,
	}, nil
}

// ApplyExtraction stores the fields read from the document and marks it processed
func (s *Service) ApplyExtraction(ctx context.Context, caller, organizationID, id uuid.UUID, input ExtractionInput) (*View, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "apply_extraction",
		telemetry.SpanAttrOrganizationID, organizationID, telemetry.SpanAttrInvoiceID, id)
	defer span.End()

	fields, err := parseFields(input.Fields)
	if err != nil {
		return nil, err
	}
	inv, err := s.load(ctx, caller, organizationID, id)
	if err != nil {
		return nil, err
	}
	if err := inv.MarkProcessed(fields); err != nil {
		return nil, err
	}
	if err := s.transition(ctx, inv, invoice.ProcessTransition()); err != nil {
		return nil, err
	}
	return s.view(ctx, caller, inv), nil
}

// MarkFailed records an extraction failure. It is accepted in every status.
func (s *Service) MarkFailed(ctx context.Context, caller, organizationID, id uuid.UUID, reason string) (*View, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "mark_failed",
		telemetry.SpanAttrOrganizationID, organizationID, telemetry.SpanAttrInvoiceID, id)
	defer span.End()

	inv, err := s.load(ctx, caller, organizationID, id)
	if err != nil {
		return nil, err
	}
	inv.MarkError(sanitize.Text(reason))
	if err := s.transition(ctx, inv, invoice.FailTransition()); err != nil {
		return nil, err
	}
	s.logger.Warn("Invoice processing failed",
		zap.String("invoice_id", id.String()),
		zap.String("reason", *inv.ErrorReason))
	return s.view(ctx, caller, inv), nil
}

// Get returns an invoice of the organization with its available actions
func (s *Service) Get(ctx context.Context, caller, organizationID, id uuid.UUID) (*View, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "get",
		telemetry.SpanAttrOrganizationID, organizationID, telemetry.SpanAttrInvoiceID, id)
	defer span.End()

	inv, err := s.load(ctx, caller, organizationID, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, caller, inv), nil
}

// List returns a page of the organization's invoices
func (s *Service) List(ctx context.Context, caller, organizationID uuid.UUID, input ListInput) (shared.Paginated[*View], error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "list",
		telemetry.SpanAttrOrganizationID, organizationID)
	defer span.End()

	if _, err := s.guard.RequireMember(ctx, caller, organizationID); err != nil {
		return shared.Paginated[*View]{}, err
	}

	filter := invoice.Filter{Filter: shared.Filter{
		Page:     input.Page,
		PageSize: input.PageSize,
		OrderBy:  input.OrderBy,
		OrderDir: input.OrderDir,
		Search:   strings.TrimSpace(input.Search),
	}}
	filter.Filter = filter.Filter.Normalize()
	if input.Status != "" {
		status := invoice.Status(strings.ToLower(strings.TrimSpace(input.Status)))
		if !status.IsValid() {
			return shared.Paginated[*View]{}, shared.NewDomainError("INVALID_STATUS", "Unknown invoice status")
		}
		filter = filter.WithStatus(status)
	}

	invoices, total, err := s.repo.FindAll(ctx, organizationID, filter)
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to list invoices", zap.String("organization_id", organizationID.String()), zap.Error(err))
		return shared.Paginated[*View]{}, err
	}

	views := make([]*View, 0, len(invoices))
	for _, inv := range invoices {
		views = append(views, newView(inv))
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrCount, len(views))
	return shared.NewPaginated(views, total, filter.Page, filter.PageSize), nil
}

// Verify confirms the extracted data of a processed invoice
func (s *Service) Verify(ctx context.Context, caller, organizationID, id uuid.UUID) (*View, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "verify",
		telemetry.SpanAttrOrganizationID, organizationID, telemetry.SpanAttrInvoiceID, id)
	defer span.End()

	inv, err := s.load(ctx, caller, organizationID, id)
	if err != nil {
		return nil, err
	}
	if err := inv.Verify(); err != nil {
		return nil, err
	}
	if err := s.transition(ctx, inv, invoice.VerifyTransition()); err != nil {
		return nil, err
	}
	return s.view(ctx, caller, inv), nil
}

// SendToAccountant hands a verified invoice over to the accountant
func (s *Service) SendToAccountant(ctx context.Context, caller, organizationID, id uuid.UUID) (*View, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "send_to_accountant",
		telemetry.SpanAttrOrganizationID, organizationID, telemetry.SpanAttrInvoiceID, id)
	defer span.End()

	inv, err := s.load(ctx, caller, organizationID, id)
	if err != nil {
		return nil, err
	}
	if err := inv.SendToAccountant(); err != nil {
		return nil, err
	}
	if err := s.transition(ctx, inv, invoice.SendTransition()); err != nil {
		return nil, err
	}
	return s.view(ctx, caller, inv), nil
}

// SaveEdits writes the verification form. Non-numeric amounts are rejected
// before anything is written and the status never changes.
func (s *Service) SaveEdits(ctx context.Context, caller, organizationID, id uuid.UUID, input SaveEditsInput) (*View, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "save_edits",
		telemetry.SpanAttrOrganizationID, organizationID, telemetry.SpanAttrInvoiceID, id)
	defer span.End()

	fields, err := parseFields(input.Fields)
	if err != nil {
		return nil, err
	}
	inv, err := s.load(ctx, caller, organizationID, id)
	if err != nil {
		return nil, err
	}
	if input.ExpectedVersion != nil && *input.ExpectedVersion != inv.Version {
		return nil, shared.ErrConcurrencyConflict
	}
	if err := inv.SaveEdits(fields); err != nil {
		return nil, err
	}
	if err := s.saveEdits(ctx, inv, input.ExpectedVersion); err != nil {
		return nil, err
	}
	return s.view(ctx, caller, inv), nil
}

// Summary returns invoice counts for every status
func (s *Service) Summary(ctx context.Context, caller, organizationID uuid.UUID) (*Summary, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "summary",
		telemetry.SpanAttrOrganizationID, organizationID)
	defer span.End()

	if _, err := s.guard.RequireMember(ctx, caller, organizationID); err != nil {
		return nil, err
	}
	counts, err := s.repo.CountByStatus(ctx, organizationID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	summary := &Summary{
		OrganizationID: organizationID,
		Counts:         make(map[invoice.Status]int64, len(invoice.AllStatuses())),
	}
	for _, status := range invoice.AllStatuses() {
		summary.Counts[status] = 0
	}
	for status, n := range counts {
		status = invoice.ParseStatus(string(status))
		summary.Counts[status] += n
		summary.Total += n
	}
	return summary, nil
}

func (s *Service) register(ctx context.Context, caller, organizationID uuid.UUID, fileURL, fileType string) (*View, error) {
	inv, err := invoice.NewInvoice(organizationID, caller, fileURL, fileType)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, inv); err != nil {
		s.logger.Error("Failed to create invoice", zap.String("organization_id", organizationID.String()), zap.Error(err))
		return nil, err
	}
	s.publishDomainEvents(ctx, inv)
	s.logger.Info("Invoice uploaded",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("organization_id", organizationID.String()))
	return s.view(ctx, caller, inv), nil
}

// load checks membership and returns the invoice of the organization.
// Invoices of other organizations are reported as not found.
func (s *Service) load(ctx context.Context, caller, organizationID, id uuid.UUID) (*invoice.Invoice, error) {
	if _, err := s.guard.RequireMember(ctx, caller, organizationID); err != nil {
		return nil, err
	}
	inv, err := s.repo.FindByIDForOrganization(ctx, organizationID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	return inv, nil
}

func (s *Service) saveEdits(ctx context.Context, inv *invoice.Invoice, expectedVersion *int) error {
	var err error
	if expectedVersion != nil {
		err = s.repo.SaveEditsWithVersion(ctx, inv, *expectedVersion)
	} else {
		err = s.repo.SaveEdits(ctx, inv)
	}
	return s.afterWrite(ctx, inv, err)
}

func (s *Service) transition(ctx context.Context, inv *invoice.Invoice, t invoice.Transition) error {
	return s.afterWrite(ctx, inv, s.repo.SaveTransition(ctx, inv, t))
}

func (s *Service) afterWrite(ctx context.Context, inv *invoice.Invoice, err error) error {
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return ErrInvoiceNotFound
		}
		if !errors.Is(err, shared.ErrConcurrencyConflict) && !errors.Is(err, shared.ErrInvalidState) {
			s.logger.Error("Failed to save invoice", zap.String("invoice_id", inv.ID.String()), zap.Error(err))
		}
		return err
	}
	s.publishDomainEvents(ctx, inv)
	return nil
}

// checkStored rejects references to managed storage that were never uploaded.
// URLs outside managed storage are accepted as-is.
func (s *Service) checkStored(ctx context.Context, fileURL string) error {
	if s.storage == nil {
		return nil
	}
	key, ok := s.storage.KeyFromURL(strings.TrimSpace(fileURL))
	if !ok {
		return nil
	}
	exists, err := s.storage.ObjectExists(ctx, key)
	if err != nil {
		return err
	}
	if !exists {
		return ErrFileMissing
	}
	return nil
}

func (s *Service) view(ctx context.Context, caller uuid.UUID, inv *invoice.Invoice) *View {
	v := newView(inv)
	if s.buyerDefaults == nil || !inv.Buyer.IsEmpty() {
		return v
	}
	party, err := s.buyerDefaults.BuyerDefaults(ctx, caller, inv.OrganizationID)
	if err != nil {
		s.logger.Warn("Failed to load buyer defaults",
			zap.String("organization_id", inv.OrganizationID.String()), zap.Error(err))
		return v
	}
	if !party.IsEmpty() {
		v.BuyerDefaults = &party
	}
	return v
}

// publishDomainEvents publishes all domain events from the invoice
func (s *Service) publishDomainEvents(ctx context.Context, inv *invoice.Invoice) {
	if s.eventPublisher == nil {
		return
	}
	events := inv.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish invoice events", zap.String("invoice_id", inv.ID.String()), zap.Error(err))
	}
	inv.ClearDomainEvents()
}

func newView(inv *invoice.Invoice) *View {
	status := invoice.ParseStatus(string(inv.Status))
	return &View{
		Invoice:      inv,
		Actions:      inv.AvailableActions(),
		StatusLabel:  status.Label(),
		StatusTag:    status.Tag(),
		DisplayTotal: inv.DisplayTotal(),
	}
}

// parseFields validates the raw form and strips markup from free text
func parseFields(in invoice.FieldInput) (invoice.EditableFields, error) {
	sanitize.Fields(&in.InvoiceNumber, &in.Notes,
		&in.Vendor.Name, &in.Vendor.Address, &in.Buyer.Name, &in.Buyer.Address)
	return invoice.ParseFieldInput(in)
}

// validateFile checks the extension and declared type of an invoice document
func validateFile(filename, contentType string, size int64) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	canonical, ok := invoiceContentTypes[ext]
	if !ok {
		return "", ErrUnsupportedFile
	}
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if ct != "" && ct != "application/octet-stream" && ct != canonical {
		return "", ErrUnsupportedFile
	}
	if size <= 0 {
		return "", shared.NewDomainError("INVALID_FILE", "File is empty")
	}
	if size > MaxFileSize {
		return "", ErrFileTooLarge
	}
	return canonical, nil
}
