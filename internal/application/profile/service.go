// Package profile manages an organization's company profile and logo.
package profile

import (
	"bytes"
	"context"
	"io"
	"strings"

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

// ObjectStorage stores logo objects
type ObjectStorage interface {
	Upload(ctx context.Context, storageKey string, body io.Reader, size int64, contentType string) error
	DeleteObject(ctx context.Context, storageKey string) error
	PublicURL(storageKey string) string
	KeyFromURL(rawURL string) (string, bool)
}

// View is the editable profile of an organization together with its display address
type View struct {
	Organization     *organization.Organization
	Form             organization.ProfileForm
	CompositeAddress string
}

// LogoUpload describes an uploaded logo file
type LogoUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Service is the organization profile manager
type Service struct {
	orgRepo        organization.OrganizationRepository
	guard          *access.Guard
	storage        ObjectStorage
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewService creates a profile service
func NewService(
	orgRepo organization.OrganizationRepository,
	memberships organization.MembershipRepository,
	objectStorage ObjectStorage,
	logger *zap.Logger,
) *Service {
	return &Service{
		orgRepo: orgRepo,
		guard:   access.NewGuard(memberships),
		storage: objectStorage,
		logger:  logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// LoadProfile returns the merged profile form. First-class fields win over
// legacy settings values.
func (s *Service) LoadProfile(ctx context.Context, caller, organizationID uuid.UUID) (*View, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "profile", "load",
		telemetry.SpanAttrOrganizationID, organizationID)
	defer span.End()

	if _, err := s.guard.RequireMember(ctx, caller, organizationID); err != nil {
		return nil, err
	}
	org, err := s.orgRepo.FindByID(ctx, organizationID)
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to load organization", zap.String("organization_id", organizationID.String()), zap.Error(err))
		return nil, err
	}
	return newView(org), nil
}

// SaveProfile writes every profile field to first-class attributes and drops
// the migrated legacy settings keys
func (s *Service) SaveProfile(ctx context.Context, caller, organizationID uuid.UUID, form organization.ProfileForm) (*View, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "profile", "save",
		telemetry.SpanAttrOrganizationID, organizationID)
	defer span.End()

	sanitize.Fields(&form.Name, &form.AccountantEmail, &form.TaxID, &form.VATNumber, &form.Address,
		&form.City, &form.PostalCode, &form.Country, &form.Email, &form.Phone, &form.OwnerName)
	if _, err := s.guard.RequireOwner(ctx, caller, organizationID); err != nil {
		return nil, err
	}
	org, err := s.orgRepo.FindByID(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	if err := org.ApplyProfile(form); err != nil {
		return nil, err
	}
	if err := s.orgRepo.Save(ctx, org); err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to save organization profile", zap.String("organization_id", organizationID.String()), zap.Error(err))
		return nil, err
	}
	s.publishDomainEvents(ctx, org)

	s.logger.Info("Organization profile saved", zap.String("organization_id", organizationID.String()))
	return newView(org), nil
}

// UploadLogo validates and stores a new logo, then removes the previous one.
// Type and size are checked before any storage call; the content must match
// the declared image type.
func (s *Service) UploadLogo(ctx context.Context, caller, organizationID uuid.UUID, upload LogoUpload) (*organization.Organization, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "profile", "upload_logo",
		telemetry.SpanAttrOrganizationID, organizationID)
	defer span.End()

	ext, contentType, err := organization.ValidateLogo(upload.Filename, upload.ContentType, upload.Size)
	if err != nil {
		return nil, err
	}
	data, err := readLogo(upload.Body, contentType)
	if err != nil {
		return nil, err
	}

	if _, err := s.guard.RequireOwner(ctx, caller, organizationID); err != nil {
		return nil, err
	}
	org, err := s.orgRepo.FindByID(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	previous := org.LogoURL

	key := storage.LogoKey(organizationID, ext)
	if err := s.storage.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to upload logo", zap.String("organization_id", organizationID.String()), zap.Error(err))
		return nil, shared.WrapDomainError(err, "LOGO_UPLOAD_FAILED", "Logo upload failed. Please try again")
	}

	org.SetLogo(s.storage.PublicURL(key))
	if err := s.orgRepo.Save(ctx, org); err != nil {
		telemetry.RecordError(span, err)
		s.deleteObject(ctx, key)
		return nil, err
	}
	if previous != nil {
		s.deleteURL(ctx, *previous)
	}
	s.publishDomainEvents(ctx, org)

	return s.refreshed(ctx, org)
}

// RemoveLogo clears the logo reference and deletes the stored object
func (s *Service) RemoveLogo(ctx context.Context, caller, organizationID uuid.UUID) (*organization.Organization, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "profile", "remove_logo",
		telemetry.SpanAttrOrganizationID, organizationID)
	defer span.End()

	if _, err := s.guard.RequireOwner(ctx, caller, organizationID); err != nil {
		return nil, err
	}
	org, err := s.orgRepo.FindByID(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	if org.LogoURL == nil {
		return org, nil
	}
	previous := *org.LogoURL

	org.ClearLogo()
	if err := s.orgRepo.Save(ctx, org); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.deleteURL(ctx, previous)
	s.publishDomainEvents(ctx, org)

	return s.refreshed(ctx, org)
}

// BuyerDefaults projects the organization profile onto the buyer party of an invoice
func (s *Service) BuyerDefaults(ctx context.Context, caller, organizationID uuid.UUID) (invoice.Party, error) {
	view, err := s.LoadProfile(ctx, caller, organizationID)
	if err != nil {
		return invoice.Party{}, err
	}
	return BuyerParty(view.Form), nil
}

// BuyerParty maps a profile form to invoice buyer fields
func BuyerParty(form organization.ProfileForm) invoice.Party {
	return invoice.Party{
		Name:    optional(form.Name),
		Address: optional(form.CompositeAddress()),
		TaxID:   optional(form.TaxID),
		VATID:   optional(form.VATNumber),
	}
}

// refreshed re-reads the organization after a write; the written copy is
// returned if the read fails
func (s *Service) refreshed(ctx context.Context, org *organization.Organization) (*organization.Organization, error) {
	fresh, err := s.orgRepo.FindByID(ctx, org.ID)
	if err != nil {
		s.logger.Warn("Failed to refresh organization", zap.String("organization_id", org.ID.String()), zap.Error(err))
		return org, nil
	}
	return fresh, nil
}

func (s *Service) deleteURL(ctx context.Context, rawURL string) {
	key, ok := s.storage.KeyFromURL(rawURL)
	if !ok {
		return
	}
	s.deleteObject(ctx, key)
}

func (s *Service) deleteObject(ctx context.Context, key string) {
	if err := s.storage.DeleteObject(ctx, key); err != nil {
		s.logger.Warn("Failed to delete logo object", zap.String("key", key), zap.Error(err))
	}
}

// publishDomainEvents publishes all domain events from the organization
func (s *Service) publishDomainEvents(ctx context.Context, org *organization.Organization) {
	if s.eventPublisher == nil {
		return
	}
	events := org.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish organization events", zap.Error(err))
	}
	org.ClearDomainEvents()
}

// readLogo reads the logo body and checks that the bytes are the declared image type
func readLogo(body io.Reader, contentType string) ([]byte, error) {
	if body == nil {
		return nil, organization.ErrEmptyLogo
	}
	data, err := io.ReadAll(io.LimitReader(body, organization.MaxLogoSize+1))
	if err != nil {
		return nil, shared.WrapDomainError(err, "LOGO_UPLOAD_FAILED", "Logo upload failed. Please try again")
	}
	if len(data) == 0 {
		return nil, organization.ErrEmptyLogo
	}
	if int64(len(data)) > organization.MaxLogoSize {
		return nil, organization.ErrLogoTooLarge
	}
	if !mimetype.Detect(data).Is(contentType) {
		return nil, organization.ErrInvalidLogoType
	}
	return data, nil
}

func newView(org *organization.Organization) *View {
	form := organization.MergeProfile(org)
	return &View{
		Organization:     org,
		Form:             form,
		CompositeAddress: form.CompositeAddress(),
	}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
