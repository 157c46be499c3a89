package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/application/identity"
	"github.com/invoicedesk/backend/internal/application/session"
	"github.com/invoicedesk/backend/internal/domain/organization"
)

// SessionResponse is the session context of the signed-in user
type SessionResponse struct {
	User                UserResponse             `json:"user"`
	CurrentOrganization *OrganizationResponse    `json:"current_organization"`
	Organizations       []OrganizationResponse   `json:"organizations"`
	Role                string                   `json:"role,omitempty"`
	Permissions         organization.Permissions `json:"permissions"`
	IsLoading           bool                     `json:"is_loading"`
}

// SwitchOrganizationRequest selects the active organization
type SwitchOrganizationRequest struct {
	OrganizationID string `json:"organization_id" binding:"required,uuid"`
}

// SessionHandler serves the session context
type SessionHandler struct {
	BaseHandler
	sessionService *session.Service
	authService    *identity.AuthService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionService *session.Service, authService *identity.AuthService) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		authService:    authService,
	}
}

// Get godoc
// @Summary      Get session
// @Description  Reload the caller's organizations and return the active one with role and permissions
// @Tags         session
// @Produce      json
// @Success      200 {object} dto.Response{data=SessionResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /session [get]
func (h *SessionHandler) Get(c *gin.Context) {
	sess, ok := h.load(c)
	if !ok {
		return
	}
	h.respond(c, sess)
}

// SwitchOrganization godoc
// @Summary      Switch organization
// @Description  Make one of the caller's organizations active. An organization outside the list leaves the session unchanged.
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        request body SwitchOrganizationRequest true "Organization"
// @Success      200 {object} dto.Response{data=SessionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /session/organization [put]
func (h *SessionHandler) SwitchOrganization(c *gin.Context) {
	var req SwitchOrganizationRequest
	if !h.BindJSON(c, &req) {
		return
	}
	orgID, err := uuid.Parse(req.OrganizationID)
	if err != nil {
		h.BadRequest(c, "Invalid organization_id")
		return
	}

	sess, ok := h.load(c)
	if !ok {
		return
	}
	h.sessionService.SwitchOrganization(c.Request.Context(), sess, orgID)
	h.respond(c, sess)
}

func (h *SessionHandler) load(c *gin.Context) (*session.Session, bool) {
	sess := session.New(caller(c))
	if err := h.sessionService.RefreshOrganizations(c.Request.Context(), sess); err != nil {
		h.HandleError(c, err)
		return nil, false
	}
	return sess, true
}

func (h *SessionHandler) respond(c *gin.Context, sess *session.Session) {
	user, err := h.authService.CurrentUser(c.Request.Context(), sess.UserID())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	snap := sess.Snapshot()
	resp := SessionResponse{
		User:          toUserResponse(*user),
		Organizations: toOrganizationResponses(snap.Organizations),
		Role:          string(snap.Role),
		Permissions:   snap.Permissions,
		IsLoading:     snap.IsLoading,
	}
	if snap.Current != nil {
		current := toOrganizationResponse(*snap.Current)
		resp.CurrentOrganization = &current
	}
	h.Success(c, resp)
}
