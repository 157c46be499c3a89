// Package handler exposes the application services over HTTP.
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/shared"
	"github.com/invoicedesk/backend/internal/infrastructure/logger"
	"github.com/invoicedesk/backend/internal/interfaces/http/dto"
	"github.com/invoicedesk/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a 200 response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with an explicit status
func (h *BaseHandler) Error(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// BindJSON decodes and validates the request body. On failure the error response
// has been written and false is returned.
func (h *BaseHandler) BindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.bindError(c, err)
		return false
	}
	return true
}

// BindQuery decodes and validates query parameters
func (h *BaseHandler) BindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		h.bindError(c, err)
		return false
	}
	return true
}

func (h *BaseHandler) bindError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
			"Request validation failed", middleware.GetRequestID(c), validationDetails(validationErrs)))
		return
	}
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge, "Request body exceeds maximum allowed size")
		return
	}
	h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "Invalid request body")
}

// HandleError writes the response for a service error. Domain errors keep their
// message; anything else becomes a generic 500 and is logged.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	switch {
	case errors.As(err, &domainErr):
		code := dto.NormalizeErrorCode(domainErr.Code)
		h.Error(c, dto.GetHTTPStatus(code), code, domainErr.Message)
	case errors.Is(err, context.DeadlineExceeded):
		h.Error(c, http.StatusGatewayTimeout, dto.ErrCodeTimeout, "The request took too long. Please try again")
	default:
		logger.L(c.Request.Context()).Error("Unhandled request error",
			zap.String("path", c.FullPath()), zap.Error(err))
		h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred")
	}
}

// pathUUID parses a UUID path parameter, writing a 400 response on failure
func (h *BaseHandler) pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.BadRequest(c, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// caller returns the authenticated user
func caller(c *gin.Context) uuid.UUID {
	return middleware.GetUserID(c)
}

// organizationID returns the organization resolved from the path or header
func organizationID(c *gin.Context) uuid.UUID {
	return middleware.GetOrganizationID(c)
}
