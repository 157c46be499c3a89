package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/infrastructure/logger"
	"github.com/invoicedesk/backend/internal/interfaces/http/dto"
)

// OrganizationIDKey is the gin context key of the active organization
const OrganizationIDKey = "organization_id"

// RequireOrganization resolves the active organization from the path parameter
// param when the route has one, otherwise from the X-Organization-ID header.
// Membership is checked by the application services.
func RequireOrganization(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := ""
		if param != "" {
			raw = c.Param(param)
		}
		if raw == "" {
			raw = c.GetHeader(OrganizationIDHeader)
		}
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
				"ERR_ORGANIZATION_REQUIRED", "Select an organization first", GetRequestID(c)))
			return
		}
		organizationID, err := uuid.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeBadRequest, "Invalid organization ID", GetRequestID(c)))
			return
		}

		c.Set(OrganizationIDKey, organizationID)
		c.Request = c.Request.WithContext(logger.WithOrganizationID(c.Request.Context(), organizationID.String()))
		c.Next()
	}
}

// GetOrganizationID returns the organization resolved by RequireOrganization
func GetOrganizationID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(OrganizationIDKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}
