package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/invoicedesk/backend/internal/application/membership"
	"github.com/invoicedesk/backend/internal/domain/organization"
)

// MemberResponse is a member of an organization
type MemberResponse struct {
	MembershipID  string    `json:"membership_id"`
	UserID        string    `json:"user_id"`
	Role          string    `json:"role"`
	JoinedAt      time.Time `json:"joined_at"`
	DisplayName   string    `json:"display_name"`
	Email         string    `json:"email"`
	IsCurrentUser bool      `json:"is_current_user"`
}

// InviteMemberRequest is the invitation form. Email and role are validated by
// the service after the caller's ownership is confirmed.
type InviteMemberRequest struct {
	Email string `json:"email" example:"marko@example.com"`
	Name  string `json:"name" binding:"max=100"`
	Phone string `json:"phone" binding:"max=50"`
	Role  string `json:"role" enums:"owner,employee" example:"employee"`
}

// InvitationResponse is an invitation. The token is only shown to the inviter.
type InvitationResponse struct {
	ID             string     `json:"id"`
	OrganizationID string     `json:"organization_id"`
	Email          string     `json:"email"`
	Name           string     `json:"name,omitempty"`
	Phone          string     `json:"phone,omitempty"`
	Role           string     `json:"role"`
	Status         string     `json:"status"`
	Token          string     `json:"token,omitempty"`
	ExpiresAt      time.Time  `json:"expires_at"`
	RespondedAt    *time.Time `json:"responded_at,omitempty"`
}

// MembershipResponse is the membership created by accepting an invitation
type MembershipResponse struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	UserID         string    `json:"user_id"`
	Role           string    `json:"role"`
	JoinedAt       time.Time `json:"joined_at"`
}

// MembershipHandler serves members and invitations
type MembershipHandler struct {
	BaseHandler
	membershipService *membership.Service
}

// NewMembershipHandler creates a new membership handler
func NewMembershipHandler(membershipService *membership.Service) *MembershipHandler {
	return &MembershipHandler{membershipService: membershipService}
}

// ListMembers godoc
// @Summary      List members
// @Tags         members
// @Produce      json
// @Param        id path string true "Organization ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]MemberResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /organizations/{id}/members [get]
func (h *MembershipHandler) ListMembers(c *gin.Context) {
	members, err := h.membershipService.ListMembers(c.Request.Context(), caller(c), organizationID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := make([]MemberResponse, 0, len(members))
	for _, m := range members {
		resp = append(resp, MemberResponse{
			MembershipID:  m.MembershipID.String(),
			UserID:        m.UserID.String(),
			Role:          string(m.Role),
			JoinedAt:      m.JoinedAt,
			DisplayName:   m.DisplayName,
			Email:         m.Email,
			IsCurrentUser: m.IsCurrentUser,
		})
	}
	h.Success(c, resp)
}

// RemoveMember godoc
// @Summary      Remove member
// @Description  Owner only. The owner membership cannot be removed.
// @Tags         members
// @Param        id path string true "Organization ID" format(uuid)
// @Param        memberId path string true "Membership ID" format(uuid)
// @Success      204
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /organizations/{id}/members/{memberId} [delete]
func (h *MembershipHandler) RemoveMember(c *gin.Context) {
	membershipID, ok := h.pathUUID(c, "memberId")
	if !ok {
		return
	}
	if err := h.membershipService.RemoveMember(c.Request.Context(), caller(c), organizationID(c), membershipID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Invite godoc
// @Summary      Invite member
// @Description  Owner only. The role defaults to employee.
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        id path string true "Organization ID" format(uuid)
// @Param        request body InviteMemberRequest true "Invitation"
// @Success      201 {object} dto.Response{data=InvitationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /organizations/{id}/invitations [post]
func (h *MembershipHandler) Invite(c *gin.Context) {
	var req InviteMemberRequest
	if !h.BindJSON(c, &req) {
		return
	}

	inv, err := h.membershipService.InviteMember(c.Request.Context(), caller(c), organizationID(c), membership.InviteMemberInput{
		Email: req.Email,
		Name:  req.Name,
		Phone: req.Phone,
		Role:  req.Role,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toInvitationResponse(inv, true))
}

// ListInvitations godoc
// @Summary      List invitations
// @Tags         members
// @Produce      json
// @Param        id path string true "Organization ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]InvitationResponse}
// @Security     BearerAuth
// @Router       /organizations/{id}/invitations [get]
func (h *MembershipHandler) ListInvitations(c *gin.Context) {
	invitations, err := h.membershipService.ListInvitations(c.Request.Context(), caller(c), organizationID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := make([]InvitationResponse, 0, len(invitations))
	for _, inv := range invitations {
		resp = append(resp, toInvitationResponse(inv, false))
	}
	h.Success(c, resp)
}

// RevokeInvitation godoc
// @Summary      Revoke invitation
// @Tags         members
// @Produce      json
// @Param        id path string true "Organization ID" format(uuid)
// @Param        invitationId path string true "Invitation ID" format(uuid)
// @Success      200 {object} dto.Response{data=InvitationResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /organizations/{id}/invitations/{invitationId} [delete]
func (h *MembershipHandler) RevokeInvitation(c *gin.Context) {
	invitationID, ok := h.pathUUID(c, "invitationId")
	if !ok {
		return
	}
	inv, err := h.membershipService.RevokeInvitation(c.Request.Context(), caller(c), organizationID(c), invitationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toInvitationResponse(inv, false))
}

// AcceptInvitation godoc
// @Summary      Accept invitation
// @Description  Join the inviting organization. The invitation must be addressed to the caller's email.
// @Tags         members
// @Produce      json
// @Param        token path string true "Invitation token"
// @Success      201 {object} dto.Response{data=MembershipResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invitations/{token}/accept [post]
func (h *MembershipHandler) AcceptInvitation(c *gin.Context) {
	m, err := h.membershipService.AcceptInvitation(c.Request.Context(), c.Param("token"), caller(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, MembershipResponse{
		ID:             m.ID.String(),
		OrganizationID: m.OrganizationID.String(),
		UserID:         m.UserID.String(),
		Role:           string(m.Role),
		JoinedAt:       m.JoinedAt,
	})
}

func toInvitationResponse(inv *organization.Invitation, withToken bool) InvitationResponse {
	resp := InvitationResponse{
		ID:             inv.ID.String(),
		OrganizationID: inv.OrganizationID.String(),
		Email:          inv.Email,
		Name:           inv.Name,
		Phone:          inv.Phone,
		Role:           string(inv.Role),
		Status:         string(inv.Status),
		ExpiresAt:      inv.ExpiresAt,
		RespondedAt:    inv.RespondedAt,
	}
	if withToken {
		resp.Token = inv.Token
	}
	return resp
}
