package router

import (
	"github.com/gin-gonic/gin"
	"github.com/invoicedesk/backend/internal/interfaces/http/handler"
	"github.com/invoicedesk/backend/internal/interfaces/http/middleware"
)

// Handlers bundles the HTTP handlers served under the API prefix
type Handlers struct {
	Auth         *handler.AuthHandler
	Session      *handler.SessionHandler
	Organization *handler.OrganizationHandler
	Membership   *handler.MembershipHandler
	Invoice      *handler.InvoiceHandler
	Health       *handler.HealthHandler
}

// Guards are the middleware that protect route groups
type Guards struct {
	// Auth rejects requests without a valid access token
	Auth gin.HandlerFunc
	// CredentialLimit throttles sign-in and sign-up; nil disables it
	CredentialLimit gin.HandlerFunc
}

// APIRoutes builds the route groups of the public API
func APIRoutes(h Handlers, g Guards) []RouteRegistrar {
	credential := func(fn gin.HandlerFunc) []gin.HandlerFunc {
		if g.CredentialLimit == nil {
			return []gin.HandlerFunc{fn}
		}
		return []gin.HandlerFunc{g.CredentialLimit, fn}
	}

	health := NewDomainGroup("health", "/health").
		GET("", h.Health.Check)

	authGroup := NewDomainGroup("auth", "/auth").
		POST("/sign-in", credential(h.Auth.SignIn)...).
		POST("/sign-up", credential(h.Auth.SignUp)...).
		POST("/refresh", h.Auth.Refresh).
		POST("/sign-out", h.Auth.SignOut)

	sessionGroup := NewDomainGroup("session", "/session").Use(g.Auth).
		GET("", h.Session.Get).
		PUT("/organization", h.Session.SwitchOrganization)

	organizations := NewDomainGroup("organizations", "/organizations").Use(g.Auth).
		GET("", h.Organization.List).
		POST("", h.Organization.Create)
	organizations.Group("organization", "/:id").Use(middleware.RequireOrganization("id")).
		GET("/profile", h.Organization.GetProfile).
		PUT("/profile", h.Organization.UpdateProfile).
		POST("/logo", h.Organization.UploadLogo).
		DELETE("/logo", h.Organization.RemoveLogo).
		GET("/members", h.Membership.ListMembers).
		DELETE("/members/:memberId", h.Membership.RemoveMember).
		GET("/invitations", h.Membership.ListInvitations).
		POST("/invitations", h.Membership.Invite).
		DELETE("/invitations/:invitationId", h.Membership.RevokeInvitation)

	invitations := NewDomainGroup("invitations", "/invitations").Use(g.Auth).
		POST("/:token/accept", h.Membership.AcceptInvitation)

	invoices := NewDomainGroup("invoices", "/invoices").Use(g.Auth, middleware.RequireOrganization("")).
		GET("", h.Invoice.List).
		POST("", h.Invoice.Create).
		GET("/summary", h.Invoice.Summary).
		POST("/upload-url", h.Invoice.UploadURL).
		GET("/:id", h.Invoice.Get).
		PUT("/:id", h.Invoice.Update).
		POST("/:id/verify", h.Invoice.Verify).
		POST("/:id/send", h.Invoice.Send).
		POST("/:id/extraction", h.Invoice.ApplyExtraction).
		POST("/:id/error", h.Invoice.MarkFailed)

	return []RouteRegistrar{health, authGroup, sessionGroup, organizations, invitations, invoices}
}
