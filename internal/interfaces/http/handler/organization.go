package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/invoicedesk/backend/internal/application/directory"
	"github.com/invoicedesk/backend/internal/application/profile"
	"github.com/invoicedesk/backend/internal/domain/organization"
	"github.com/invoicedesk/backend/internal/domain/shared"
	"github.com/invoicedesk/backend/internal/interfaces/http/dto"
)

// LogoFormField is the multipart field carrying the logo file
const LogoFormField = "logo"

// OrganizationHandler serves the organization directory and company profile
type OrganizationHandler struct {
	BaseHandler
	directoryService *directory.Service
	profileService   *profile.Service
}

// NewOrganizationHandler creates a new organization handler
func NewOrganizationHandler(directoryService *directory.Service, profileService *profile.Service) *OrganizationHandler {
	return &OrganizationHandler{
		directoryService: directoryService,
		profileService:   profileService,
	}
}

// List godoc
// @Summary      List organizations
// @Description  Organizations the caller belongs to, oldest membership first
// @Tags         organizations
// @Produce      json
// @Success      200 {object} dto.Response{data=[]OrganizationResponse}
// @Security     BearerAuth
// @Router       /organizations [get]
func (h *OrganizationHandler) List(c *gin.Context) {
	orgs, err := h.directoryService.ListForUser(c.Request.Context(), caller(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toOrganizationResponses(orgs))
}

// Create godoc
// @Summary      Create organization
// @Description  Create an organization owned by the caller
// @Tags         organizations
// @Accept       json
// @Produce      json
// @Param        request body CreateOrganizationRequest true "Organization"
// @Success      201 {object} dto.Response{data=OrganizationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /organizations [post]
func (h *OrganizationHandler) Create(c *gin.Context) {
	var req CreateOrganizationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	org, err := h.directoryService.CreateOrganization(c.Request.Context(), caller(c), directory.CreateOrganizationInput{
		Name: req.Name,
		Slug: req.Slug,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toOrganizationResponse(*org))
}

// GetProfile godoc
// @Summary      Get company profile
// @Description  The profile form, merged from columns and legacy settings
// @Tags         organizations
// @Produce      json
// @Param        id path string true "Organization ID" format(uuid)
// @Success      200 {object} dto.Response{data=ProfileResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /organizations/{id}/profile [get]
func (h *OrganizationHandler) GetProfile(c *gin.Context) {
	view, err := h.profileService.LoadProfile(c.Request.Context(), caller(c), organizationID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toProfileResponse(view))
}

// UpdateProfile godoc
// @Summary      Save company profile
// @Description  Owner only. Writes typed columns and drops the legacy settings keys.
// @Tags         organizations
// @Accept       json
// @Produce      json
// @Param        id path string true "Organization ID" format(uuid)
// @Param        request body ProfileRequest true "Profile"
// @Success      200 {object} dto.Response{data=ProfileResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /organizations/{id}/profile [put]
func (h *OrganizationHandler) UpdateProfile(c *gin.Context) {
	var req ProfileRequest
	if !h.BindJSON(c, &req) {
		return
	}

	view, err := h.profileService.SaveProfile(c.Request.Context(), caller(c), organizationID(c), req.toForm())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toProfileResponse(view))
}

// UploadLogo godoc
// @Summary      Upload logo
// @Description  Owner only. PNG, JPEG or WebP up to 2MB. Replaces and deletes the previous logo.
// @Tags         organizations
// @Accept       multipart/form-data
// @Produce      json
// @Param        id path string true "Organization ID" format(uuid)
// @Param        logo formData file true "Logo image"
// @Success      200 {object} dto.Response{data=LogoResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /organizations/{id}/logo [post]
func (h *OrganizationHandler) UploadLogo(c *gin.Context) {
	fileHeader, err := c.FormFile(LogoFormField)
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "Logo file is required")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "Logo file could not be read")
		return
	}
	defer file.Close()

	org, err := h.profileService.UploadLogo(c.Request.Context(), caller(c), organizationID(c), profile.LogoUpload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Body:        file,
	})
	if err != nil {
		h.handleLogoError(c, err)
		return
	}
	h.Success(c, toLogoResponse(org))
}

// RemoveLogo godoc
// @Summary      Remove logo
// @Description  Owner only. Clears the logo and deletes the stored object.
// @Tags         organizations
// @Produce      json
// @Param        id path string true "Organization ID" format(uuid)
// @Success      200 {object} dto.Response{data=LogoResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /organizations/{id}/logo [delete]
func (h *OrganizationHandler) RemoveLogo(c *gin.Context) {
	org, err := h.profileService.RemoveLogo(c.Request.Context(), caller(c), organizationID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toLogoResponse(org))
}

// handleLogoError surfaces the failure message verbatim, including for
// storage errors that would otherwise become a generic 500.
func (h *OrganizationHandler) handleLogoError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		h.HandleError(c, err)
		return
	}
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, err.Error())
}

func toLogoResponse(org *organization.Organization) LogoResponse {
	return LogoResponse{
		OrganizationID: org.ID.String(),
		LogoURL:        org.LogoURL,
	}
}
