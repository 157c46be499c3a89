package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/invoice"
	"github.com/invoicedesk/backend/internal/domain/shared"
	"github.com/invoicedesk/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements invoice.Repository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID finds an invoice by ID regardless of organization
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*invoice.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByIDForOrganization finds an invoice by ID within an organization
func (r *GormInvoiceRepository) FindByIDForOrganization(ctx context.Context, organizationID, id uuid.UUID) (*invoice.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).Scopes(OrganizationScope(organizationID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists invoices of an organization and returns the total before pagination
func (r *GormInvoiceRepository) FindAll(ctx context.Context, organizationID uuid.UUID, filter invoice.Filter) ([]*invoice.Invoice, int64, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.InvoiceModel{}).Scopes(OrganizationScope(organizationID)), filter).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Filter.Normalize()
	orderBy := ValidateSortField(page.OrderBy, InvoiceSortFields, "created_at")
	orderDir := ValidateSortOrder(page.OrderDir)

	var rows []models.InvoiceModel
	if err := query.
		Order(orderBy + " " + orderDir).
		Order("id " + orderDir).
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	invoices := make([]*invoice.Invoice, len(rows))
	for i := range rows {
		invoices[i] = rows[i].ToDomain()
	}
	return invoices, total, nil
}

func (r *GormInvoiceRepository) applyFilter(query *gorm.DB, filter invoice.Filter) *gorm.DB {
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(invoice_number) LIKE ? OR LOWER(vendor_name) LIKE ?", pattern, pattern)
	}
	return query
}

type statusCount struct {
	Status string
	Count  int64
}

// CountByStatus returns invoice counts for every status of an organization.
// Unknown stored statuses are counted as pending.
func (r *GormInvoiceRepository) CountByStatus(ctx context.Context, organizationID uuid.UUID) (map[invoice.Status]int64, error) {
	var rows []statusCount
	if err := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).Scopes(OrganizationScope(organizationID)).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[invoice.Status]int64, len(invoice.AllStatuses()))
	for _, s := range invoice.AllStatuses() {
		counts[s] = 0
	}
	for _, row := range rows {
		counts[invoice.ParseStatus(row.Status)] += row.Count
	}
	return counts, nil
}

// Create inserts a new invoice
func (r *GormInvoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	model, err := models.InvoiceModelFromDomain(inv)
	if err != nil {
		return err
	}
	return translateError(r.db.WithContext(ctx).Create(model).Error)
}

// SaveEdits writes the editable columns only (last write wins). Status columns
// keep whatever a concurrent transition stored.
func (r *GormInvoiceRepository) SaveEdits(ctx context.Context, inv *invoice.Invoice) error {
	model, err := models.InvoiceModelFromDomain(inv)
	if err != nil {
		return err
	}
	applied, err := r.write(ctx, inv, model.FieldColumns())
	if err != nil || applied {
		return err
	}
	return shared.ErrNotFound
}

// SaveEditsWithVersion writes the editable columns while the stored version still
// equals expectedVersion. The check and the write are a single UPDATE statement.
func (r *GormInvoiceRepository) SaveEditsWithVersion(ctx context.Context, inv *invoice.Invoice, expectedVersion int) error {
	model, err := models.InvoiceModelFromDomain(inv)
	if err != nil {
		return err
	}
	applied, err := r.write(ctx, inv, model.FieldColumns(), func(db *gorm.DB) *gorm.DB {
		return db.Where("version = ?", expectedVersion)
	})
	if err != nil || applied {
		return err
	}
	return r.missed(ctx, inv, shared.ErrConcurrencyConflict)
}

// SaveTransition writes the status columns guarded by the stored status, so a
// transition based on a stale read is rejected by the database.
func (r *GormInvoiceRepository) SaveTransition(ctx context.Context, inv *invoice.Invoice, t invoice.Transition) error {
	model, err := models.InvoiceModelFromDomain(inv)
	if err != nil {
		return err
	}
	columns := model.StatusColumns()
	if t.WithFields {
		for column, value := range model.FieldColumns() {
			columns[column] = value
		}
	}
	applied, err := r.write(ctx, inv, columns, StatusScope(t.From))
	if err != nil || applied {
		return err
	}
	return r.missed(ctx, inv, invoice.ErrStatusChanged)
}

// StatusScope restricts an update to rows whose stored status is one of from.
// Pending also matches stored values outside the known statuses.
func StatusScope(from []invoice.Status) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if len(from) == 0 {
			return db
		}
		values := make([]string, 0, len(from))
		withUnknown := false
		for _, s := range from {
			values = append(values, string(s))
			if s == invoice.StatusPending {
				withUnknown = true
			}
		}
		if !withUnknown {
			return db.Where("status IN ?", values)
		}
		known := make([]string, 0, len(invoice.AllStatuses()))
		for _, s := range invoice.AllStatuses() {
			known = append(known, string(s))
		}
		return db.Where("(status IN ? OR status NOT IN ?)", values, known)
	}
}

// write updates the given columns and bumps the version. It reports whether a
// row matched and refreshes the version and status of inv from the stored row.
func (r *GormInvoiceRepository) write(ctx context.Context, inv *invoice.Invoice, columns map[string]any, scopes ...func(*gorm.DB) *gorm.DB) (bool, error) {
	columns["version"] = gorm.Expr("version + 1")

	applied := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.InvoiceModel{}).
			Where("id = ? AND organization_id = ?", inv.ID, inv.OrganizationID).
			Scopes(scopes...).
			Updates(columns)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		applied = true

		var stored models.InvoiceModel
		if err := tx.Where("id = ?", inv.ID).First(&stored).Error; err != nil {
			return err
		}
		fresh := stored.ToDomain()
		inv.Version = fresh.Version
		inv.Status = fresh.Status
		inv.ErrorReason = fresh.ErrorReason
		inv.ProcessedAt = fresh.ProcessedAt
		inv.VerifiedAt = fresh.VerifiedAt
		inv.SentAt = fresh.SentAt
		return nil
	})
	return applied, err
}

// missed distinguishes a missing invoice from a failed guard
func (r *GormInvoiceRepository) missed(ctx context.Context, inv *invoice.Invoice, guardErr error) error {
	if _, err := r.FindByIDForOrganization(ctx, inv.OrganizationID, inv.ID); err != nil {
		return err
	}
	return guardErr
}

// Delete deletes an invoice of an organization
func (r *GormInvoiceRepository) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Scopes(OrganizationScope(organizationID)).
		Where("id = ?", id).
		Delete(&models.InvoiceModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ invoice.Repository = (*GormInvoiceRepository)(nil)
