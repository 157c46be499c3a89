package handler

import (
	"encoding/json"
	"time"

	appinvoice "github.com/invoicedesk/backend/internal/application/invoice"
	"github.com/invoicedesk/backend/internal/domain/invoice"
	"github.com/shopspring/decimal"
)

// RegisterInvoiceRequest registers a document already uploaded via an upload URL
type RegisterInvoiceRequest struct {
	FileURL  string `json:"file_url" binding:"required,max=2048"`
	FileType string `json:"file_type" binding:"max=20" example:"pdf"`
}

// UploadURLRequest asks for a presigned upload target
type UploadURLRequest struct {
	Filename    string `json:"filename" binding:"required,max=255" example:"invoice-2024-001.pdf"`
	ContentType string `json:"content_type" binding:"required" example:"application/pdf"`
}

// UploadURLResponse is a presigned upload target
type UploadURLResponse struct {
	UploadURL string    `json:"upload_url"`
	FileURL   string    `json:"file_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PartyRequest is the raw vendor or buyer block of the verification form
type PartyRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	TaxID   string `json:"tax_id"`
	VATID   string `json:"vat_id"`
}

// InvoiceFieldsRequest is the raw verification form. Amounts and the date are
// strings so that a blank value clears the field.
type InvoiceFieldsRequest struct {
	InvoiceNumber string          `json:"invoice_number"`
	InvoiceDate   string          `json:"invoice_date" example:"2024-03-01"`
	Vendor        PartyRequest    `json:"vendor"`
	Buyer         PartyRequest    `json:"buyer"`
	Subtotal      string          `json:"subtotal" example:"100.00"`
	TaxAmount     string          `json:"tax_amount" example:"17.00"`
	TotalAmount   string          `json:"total_amount" example:"117.00"`
	Currency      string          `json:"currency" example:"BAM"`
	Notes         string          `json:"notes"`
	LineItems     json.RawMessage `json:"line_items" swaggertype:"array,object"`
}

// SaveInvoiceRequest is the verification form with an optional version guard
type SaveInvoiceRequest struct {
	InvoiceFieldsRequest
	ExpectedVersion *int `json:"expected_version" binding:"omitempty,min=1"`
}

// MarkFailedRequest records an extraction failure
type MarkFailedRequest struct {
	Reason string `json:"reason" binding:"max=1000"`
}

// ListInvoicesRequest filters the invoice list
type ListInvoicesRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=created_at updated_at invoice_date total_amount status"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Search   string `form:"search" binding:"max=100"`
	Status   string `form:"status"`
}

// PartyResponse is a vendor or buyer
type PartyResponse struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	TaxID   *string `json:"tax_id"`
	VATID   *string `json:"vat_id"`
}

// LineItemResponse is an invoice row
type LineItemResponse struct {
	Description *string          `json:"description,omitempty"`
	Quantity    *decimal.Decimal `json:"quantity,omitempty" swaggertype:"string"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty" swaggertype:"string"`
	Amount      *decimal.Decimal `json:"amount,omitempty" swaggertype:"string"`
}

// InvoiceResponse is an invoice with its display state
type InvoiceResponse struct {
	ID             string             `json:"id"`
	OrganizationID string             `json:"organization_id"`
	UploadedBy     string             `json:"uploaded_by"`
	InvoiceNumber  *string            `json:"invoice_number"`
	InvoiceDate    *string            `json:"invoice_date"`
	Vendor         PartyResponse      `json:"vendor"`
	Buyer          PartyResponse      `json:"buyer"`
	Subtotal       *decimal.Decimal   `json:"subtotal" swaggertype:"string"`
	TaxAmount      *decimal.Decimal   `json:"tax_amount" swaggertype:"string"`
	TotalAmount    *decimal.Decimal   `json:"total_amount" swaggertype:"string"`
	Currency       string             `json:"currency"`
	LineItems      []LineItemResponse `json:"line_items"`
	Notes          *string            `json:"notes"`
	FileURL        string             `json:"file_url"`
	FileType       string             `json:"file_type"`
	Status         string             `json:"status"`
	StatusLabel    string             `json:"status_label"`
	StatusTag      string             `json:"status_tag"`
	DisplayTotal   string             `json:"display_total"`
	ErrorReason    *string            `json:"error_reason"`
	Actions        []string           `json:"actions"`
	BuyerDefaults  *PartyResponse     `json:"buyer_defaults,omitempty"`
	ProcessedAt    *time.Time         `json:"processed_at"`
	VerifiedAt     *time.Time         `json:"verified_at"`
	SentAt         *time.Time         `json:"sent_at"`
	Version        int                `json:"version"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// InvoiceSummaryResponse holds invoice counts per status
type InvoiceSummaryResponse struct {
	OrganizationID string           `json:"organization_id"`
	Counts         map[string]int64 `json:"counts"`
	Total          int64            `json:"total"`
}

func (r InvoiceFieldsRequest) toFieldInput() invoice.FieldInput {
	var lineItems any
	if len(r.LineItems) > 0 {
		lineItems = r.LineItems
	}
	return invoice.FieldInput{
		InvoiceNumber: r.InvoiceNumber,
		InvoiceDate:   r.InvoiceDate,
		Vendor:        r.Vendor.toPartyInput(),
		Buyer:         r.Buyer.toPartyInput(),
		Subtotal:      r.Subtotal,
		TaxAmount:     r.TaxAmount,
		TotalAmount:   r.TotalAmount,
		Currency:      r.Currency,
		Notes:         r.Notes,
		LineItems:     lineItems,
	}
}

func (r PartyRequest) toPartyInput() invoice.PartyInput {
	return invoice.PartyInput{
		Name:    r.Name,
		Address: r.Address,
		TaxID:   r.TaxID,
		VATID:   r.VATID,
	}
}

func toPartyResponse(p invoice.Party) PartyResponse {
	return PartyResponse{
		Name:    p.Name,
		Address: p.Address,
		TaxID:   p.TaxID,
		VATID:   p.VATID,
	}
}

func toInvoiceResponse(v *appinvoice.View) InvoiceResponse {
	inv := v.Invoice
	resp := InvoiceResponse{
		ID:             inv.ID.String(),
		OrganizationID: inv.OrganizationID.String(),
		UploadedBy:     inv.UploadedBy.String(),
		InvoiceNumber:  inv.InvoiceNumber,
		Vendor:         toPartyResponse(inv.Vendor),
		Buyer:          toPartyResponse(inv.Buyer),
		Subtotal:       inv.Subtotal,
		TaxAmount:      inv.TaxAmount,
		TotalAmount:    inv.TotalAmount,
		Currency:       inv.Currency.String(),
		LineItems:      make([]LineItemResponse, 0, len(inv.LineItems)),
		Notes:          inv.Notes,
		FileURL:        inv.FileURL,
		FileType:       inv.FileType,
		Status:         string(inv.Status),
		StatusLabel:    v.StatusLabel,
		StatusTag:      string(v.StatusTag),
		DisplayTotal:   v.DisplayTotal,
		ErrorReason:    inv.ErrorReason,
		Actions:        make([]string, 0, len(v.Actions)),
		ProcessedAt:    inv.ProcessedAt,
		VerifiedAt:     inv.VerifiedAt,
		SentAt:         inv.SentAt,
		Version:        inv.Version,
		CreatedAt:      inv.CreatedAt,
		UpdatedAt:      inv.UpdatedAt,
	}
	if inv.InvoiceDate != nil {
		date := inv.InvoiceDate.Format(time.DateOnly)
		resp.InvoiceDate = &date
	}
	for _, item := range inv.LineItems {
		resp.LineItems = append(resp.LineItems, LineItemResponse(item))
	}
	for _, a := range v.Actions {
		resp.Actions = append(resp.Actions, string(a))
	}
	if v.BuyerDefaults != nil {
		defaults := toPartyResponse(*v.BuyerDefaults)
		resp.BuyerDefaults = &defaults
	}
	return resp
}

func toInvoiceSummaryResponse(s *appinvoice.Summary) InvoiceSummaryResponse {
	counts := make(map[string]int64, len(s.Counts))
	for status, n := range s.Counts {
		counts[string(status)] = n
	}
	return InvoiceSummaryResponse{
		OrganizationID: s.OrganizationID.String(),
		Counts:         counts,
		Total:          s.Total,
	}
}
