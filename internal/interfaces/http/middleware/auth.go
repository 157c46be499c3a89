package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/infrastructure/auth"
	"github.com/invoicedesk/backend/internal/infrastructure/logger"
	"github.com/invoicedesk/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Context keys set by RequireAuth
const (
	ClaimsKey  = "auth_claims"
	UserIDKey  = "auth_user_id"
	bearerType = "bearer"
)

// Authenticator validates access tokens
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*auth.Claims, error)
}

// RequireAuth rejects requests without a valid, unrevoked bearer token
func RequireAuth(authenticator Authenticator, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c)
		if !ok {
			abortUnauthorized(c, "Authentication required")
			return
		}

		claims, err := authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			log.Debug("Access token rejected", zap.String("path", c.FullPath()), zap.Error(err))
			abortUnauthorized(c, "Your session has expired. Please sign in again")
			return
		}
		userID, err := claims.UserUUID()
		if err != nil {
			abortUnauthorized(c, "Your session has expired. Please sign in again")
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(UserIDKey, userID)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), userID.String()))
		c.Next()
	}
}

// BearerToken extracts the token of an "Authorization: Bearer" header
func BearerToken(c *gin.Context) (string, bool) {
	scheme, token, found := strings.Cut(c.GetHeader("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, bearerType) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// GetUserID returns the authenticated user, or uuid.Nil outside RequireAuth
func GetUserID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(UserIDKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

// GetClaims returns the validated access token claims
func GetClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(ClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

func abortUnauthorized(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", `Bearer realm="api"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeUnauthorized, message, GetRequestID(c)))
}
