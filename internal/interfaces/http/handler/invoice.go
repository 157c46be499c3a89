package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appinvoice "github.com/invoicedesk/backend/internal/application/invoice"
	"github.com/invoicedesk/backend/internal/interfaces/http/dto"
)

// InvoiceFileFormField is the multipart field carrying the invoice document
const InvoiceFileFormField = "file"

// InvoiceHandler serves the invoice workflow. The organization comes from the
// X-Organization-ID header.
type InvoiceHandler struct {
	BaseHandler
	invoiceService *appinvoice.Service
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *appinvoice.Service) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// List godoc
// @Summary      List invoices
// @Tags         invoices
// @Produce      json
// @Param        X-Organization-ID header string true "Organization ID"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        order_by query string false "Order by" Enums(created_at, updated_at, invoice_date, total_amount, status)
// @Param        order_dir query string false "Order direction" Enums(asc, desc)
// @Param        search query string false "Invoice number or vendor"
// @Param        status query string false "Status" Enums(pending, processed, verified, sent_to_accountant, error)
// @Success      200 {object} dto.Response{data=[]InvoiceResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	var req ListInvoicesRequest
	if !h.BindQuery(c, &req) {
		return
	}

	page, err := h.invoiceService.List(c.Request.Context(), caller(c), organizationID(c), appinvoice.ListInput{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Search:   req.Search,
		Status:   req.Status,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(page, func(v *appinvoice.View) interface{} {
		return toInvoiceResponse(v)
	}))
}

// Summary godoc
// @Summary      Invoice summary
// @Description  Invoice counts per status. Unknown statuses count as pending.
// @Tags         invoices
// @Produce      json
// @Param        X-Organization-ID header string true "Organization ID"
// @Success      200 {object} dto.Response{data=InvoiceSummaryResponse}
// @Security     BearerAuth
// @Router       /invoices/summary [get]
func (h *InvoiceHandler) Summary(c *gin.Context) {
	summary, err := h.invoiceService.Summary(c.Request.Context(), caller(c), organizationID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toInvoiceSummaryResponse(summary))
}

// Create godoc
// @Summary      Upload invoice
// @Description  Upload a PDF or image as multipart field "file", or register a document already PUT to an upload URL by sending JSON.
// @Tags         invoices
// @Accept       multipart/form-data,json
// @Produce      json
// @Param        X-Organization-ID header string true "Organization ID"
// @Param        file formData file false "Invoice document"
// @Param        request body RegisterInvoiceRequest false "Stored document"
// @Success      201 {object} dto.Response{data=InvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		h.createFromFile(c)
		return
	}

	var req RegisterInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}
	view, err := h.invoiceService.Upload(c.Request.Context(), caller(c), organizationID(c), appinvoice.UploadInput{
		FileURL:  req.FileURL,
		FileType: req.FileType,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toInvoiceResponse(view))
}

func (h *InvoiceHandler) createFromFile(c *gin.Context) {
	fileHeader, err := c.FormFile(InvoiceFileFormField)
	if err != nil {
		h.BadRequest(c, "Invoice file is required")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Invoice file could not be read")
		return
	}
	defer file.Close()

	view, err := h.invoiceService.UploadFile(c.Request.Context(), caller(c), organizationID(c), appinvoice.FileUpload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Body:        file,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toInvoiceResponse(view))
}

// UploadURL godoc
// @Summary      Request upload URL
// @Description  A presigned PUT target. Register the returned file_url with POST /invoices once uploaded.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        X-Organization-ID header string true "Organization ID"
// @Param        request body UploadURLRequest true "Document"
// @Success      200 {object} dto.Response{data=UploadURLResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices/upload-url [post]
func (h *InvoiceHandler) UploadURL(c *gin.Context) {
	var req UploadURLRequest
	if !h.BindJSON(c, &req) {
		return
	}

	target, err := h.invoiceService.UploadURL(c.Request.Context(), caller(c), organizationID(c), appinvoice.UploadURLInput{
		Filename:    req.Filename,
		ContentType: req.ContentType,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, UploadURLResponse{
		UploadURL: target.UploadURL,
		FileURL:   target.FileURL,
		ExpiresAt: target.ExpiresAt,
	})
}

// Get godoc
// @Summary      Get invoice
// @Tags         invoices
// @Produce      json
// @Param        X-Organization-ID header string true "Organization ID"
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} dto.Response{data=InvoiceResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices/{id} [get]
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	view, err := h.invoiceService.Get(c.Request.Context(), caller(c), organizationID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toInvoiceResponse(view))
}

// Update godoc
// @Summary      Save invoice edits
// @Description  Replaces the editable fields without changing the status. Send expected_version to reject stale edits.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        X-Organization-ID header string true "Organization ID"
// @Param        id path string true "Invoice ID" format(uuid)
// @Param        request body SaveInvoiceRequest true "Fields"
// @Success      200 {object} dto.Response{data=InvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices/{id} [put]
func (h *InvoiceHandler) Update(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req SaveInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	view, err := h.invoiceService.SaveEdits(c.Request.Context(), caller(c), organizationID(c), id, appinvoice.SaveEditsInput{
		Fields:          req.toFieldInput(),
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toInvoiceResponse(view))
}

// Verify godoc
// @Summary      Verify invoice
// @Description  Processed to verified
// @Tags         invoices
// @Produce      json
// @Param        X-Organization-ID header string true "Organization ID"
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} dto.Response{data=InvoiceResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices/{id}/verify [post]
func (h *InvoiceHandler) Verify(c *gin.Context) {
	h.transition(c, h.invoiceService.Verify)
}

// Send godoc
// @Summary      Send to accountant
// @Description  Verified to sent_to_accountant
// @Tags         invoices
// @Produce      json
// @Param        X-Organization-ID header string true "Organization ID"
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} dto.Response{data=InvoiceResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices/{id}/send [post]
func (h *InvoiceHandler) Send(c *gin.Context) {
	h.transition(c, h.invoiceService.SendToAccountant)
}

// ApplyExtraction godoc
// @Summary      Apply extraction result
// @Description  Pipeline hook. Pending or failed to processed with the extracted fields.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        X-Organization-ID header string true "Organization ID"
// @Param        id path string true "Invoice ID" format(uuid)
// @Param        request body InvoiceFieldsRequest true "Extracted fields"
// @Success      200 {object} dto.Response{data=InvoiceResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices/{id}/extraction [post]
func (h *InvoiceHandler) ApplyExtraction(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req InvoiceFieldsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	view, err := h.invoiceService.ApplyExtraction(c.Request.Context(), caller(c), organizationID(c), id, appinvoice.ExtractionInput{
		Fields: req.toFieldInput(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toInvoiceResponse(view))
}

// MarkFailed godoc
// @Summary      Record extraction failure
// @Description  Pipeline hook. Moves the invoice to error with a reason.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        X-Organization-ID header string true "Organization ID"
// @Param        id path string true "Invoice ID" format(uuid)
// @Param        request body MarkFailedRequest true "Reason"
// @Success      200 {object} dto.Response{data=InvoiceResponse}
// @Security     BearerAuth
// @Router       /invoices/{id}/error [post]
func (h *InvoiceHandler) MarkFailed(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req MarkFailedRequest
	if !h.BindJSON(c, &req) {
		return
	}

	view, err := h.invoiceService.MarkFailed(c.Request.Context(), caller(c), organizationID(c), id, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toInvoiceResponse(view))
}

func (h *InvoiceHandler) transition(c *gin.Context, fn func(ctx context.Context, caller, organizationID, id uuid.UUID) (*appinvoice.View, error)) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	view, err := fn(c.Request.Context(), caller(c), organizationID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toInvoiceResponse(view))
}
