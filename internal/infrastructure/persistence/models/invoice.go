package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/invoice"
	"github.com/invoicedesk/backend/internal/domain/shared/valueobject"
)

// InvoiceModel is the persistence model for the Invoice aggregate.
// Vendor and buyer parties are flattened into prefixed columns.
type InvoiceModel struct {
	OrganizationAggregateModel
	UploadedBy    uuid.UUID           `gorm:"type:uuid;not null;index"`
	InvoiceNumber *string             `gorm:"type:varchar(100)"`
	InvoiceDate   *time.Time          `gorm:"type:date"`
	VendorName    *string             `gorm:"type:varchar(300)"`
	VendorAddress *string             `gorm:"type:text"`
	VendorTaxID   *string             `gorm:"type:varchar(50)"`
	VendorVATID   *string             `gorm:"column:vendor_vat_id;type:varchar(50)"`
	BuyerName     *string             `gorm:"type:varchar(300)"`
	BuyerAddress  *string             `gorm:"type:text"`
	BuyerTaxID    *string             `gorm:"type:varchar(50)"`
	BuyerVATID    *string             `gorm:"column:buyer_vat_id;type:varchar(50)"`
	Subtotal      decimal.NullDecimal `gorm:"type:decimal(18,2)"`
	TaxAmount     decimal.NullDecimal `gorm:"type:decimal(18,2)"`
	TotalAmount   decimal.NullDecimal `gorm:"type:decimal(18,2)"`
	Currency      string              `gorm:"type:varchar(10);not null;default:'EUR'"`
	LineItems     string              `gorm:"type:jsonb;not null;default:'[]'"`
	Notes         *string             `gorm:"type:text"`
	FileURL       string              `gorm:"type:text;not null"`
	FileType      string              `gorm:"type:varchar(100)"`
	Status        string              `gorm:"type:varchar(30);not null;default:'pending';index"`
	ErrorReason   *string             `gorm:"type:text"`
	ProcessedAt   *time.Time
	VerifiedAt    *time.Time
	SentAt        *time.Time
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice.
// Stored status and line items are read fail-open.
func (m *InvoiceModel) ToDomain() *invoice.Invoice {
	return &invoice.Invoice{
		OrganizationAggregateRoot: m.ToOrganizationAggregateRoot(),
		UploadedBy:                m.UploadedBy,
		InvoiceNumber:             m.InvoiceNumber,
		InvoiceDate:               m.InvoiceDate,
		Vendor: invoice.Party{
			Name:    m.VendorName,
			Address: m.VendorAddress,
			TaxID:   m.VendorTaxID,
			VATID:   m.VendorVATID,
		},
		Buyer: invoice.Party{
			Name:    m.BuyerName,
			Address: m.BuyerAddress,
			TaxID:   m.BuyerTaxID,
			VATID:   m.BuyerVATID,
		},
		Subtotal:    decimalPtr(m.Subtotal),
		TaxAmount:   decimalPtr(m.TaxAmount),
		TotalAmount: decimalPtr(m.TotalAmount),
		Currency:    valueobject.Currency(m.Currency).OrDefault(),
		LineItems:   invoice.ParseLineItems(m.LineItems),
		Notes:       m.Notes,
		FileURL:     m.FileURL,
		FileType:    m.FileType,
		Status:      invoice.ParseStatus(m.Status),
		ErrorReason: m.ErrorReason,
		ProcessedAt: m.ProcessedAt,
		VerifiedAt:  m.VerifiedAt,
		SentAt:      m.SentAt,
	}
}

// FromDomain populates the persistence model from a domain Invoice
func (m *InvoiceModel) FromDomain(inv *invoice.Invoice) error {
	items, err := invoice.MarshalLineItems(inv.LineItems)
	if err != nil {
		return err
	}

	m.FromDomainOrganizationAggregateRoot(inv.OrganizationAggregateRoot)
	m.UploadedBy = inv.UploadedBy
	m.InvoiceNumber = inv.InvoiceNumber
	m.InvoiceDate = inv.InvoiceDate
	m.VendorName = inv.Vendor.Name
	m.VendorAddress = inv.Vendor.Address
	m.VendorTaxID = inv.Vendor.TaxID
	m.VendorVATID = inv.Vendor.VATID
	m.BuyerName = inv.Buyer.Name
	m.BuyerAddress = inv.Buyer.Address
	m.BuyerTaxID = inv.Buyer.TaxID
	m.BuyerVATID = inv.Buyer.VATID
	m.Subtotal = nullDecimal(inv.Subtotal)
	m.TaxAmount = nullDecimal(inv.TaxAmount)
	m.TotalAmount = nullDecimal(inv.TotalAmount)
	m.Currency = string(inv.Currency.OrDefault())
	m.LineItems = string(items)
	m.Notes = inv.Notes
	m.FileURL = inv.FileURL
	m.FileType = inv.FileType
	m.Status = string(inv.Status)
	m.ErrorReason = inv.ErrorReason
	m.ProcessedAt = inv.ProcessedAt
	m.VerifiedAt = inv.VerifiedAt
	m.SentAt = inv.SentAt
	return nil
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice
func InvoiceModelFromDomain(inv *invoice.Invoice) (*InvoiceModel, error) {
	m := &InvoiceModel{}
	if err := m.FromDomain(inv); err != nil {
		return nil, err
	}
	return m, nil
}

// FieldColumns returns the columns written by a field edit
func (m *InvoiceModel) FieldColumns() map[string]any {
	return map[string]any{
		"invoice_number": m.InvoiceNumber,
		"invoice_date":   m.InvoiceDate,
		"vendor_name":    m.VendorName,
		"vendor_address": m.VendorAddress,
		"vendor_tax_id":  m.VendorTaxID,
		"vendor_vat_id":  m.VendorVATID,
		"buyer_name":     m.BuyerName,
		"buyer_address":  m.BuyerAddress,
		"buyer_tax_id":   m.BuyerTaxID,
		"buyer_vat_id":   m.BuyerVATID,
		"subtotal":       m.Subtotal,
		"tax_amount":     m.TaxAmount,
		"total_amount":   m.TotalAmount,
		"currency":       m.Currency,
		"line_items":     m.LineItems,
		"notes":          m.Notes,
		"updated_at":     m.UpdatedAt,
	}
}

// StatusColumns returns the columns written by a status transition
func (m *InvoiceModel) StatusColumns() map[string]any {
	return map[string]any{
		"status":       m.Status,
		"error_reason": m.ErrorReason,
		"processed_at": m.ProcessedAt,
		"verified_at":  m.VerifiedAt,
		"sent_at":      m.SentAt,
		"updated_at":   m.UpdatedAt,
	}
}
