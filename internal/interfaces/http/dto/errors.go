package dto

import (
	"net/http"
	"strings"
)

// API error codes. Domain error codes are exposed as ERR_<DOMAIN_CODE>; the
// constants below are the ones the HTTP layer produces itself or maps specially.
const (
	ErrCodeInternal            = "ERR_INTERNAL"
	ErrCodeValidation          = "ERR_VALIDATION"
	ErrCodeBadRequest          = "ERR_BAD_REQUEST"
	ErrCodeInvalidJSON         = "ERR_INVALID_JSON"
	ErrCodeUnauthorized        = "ERR_UNAUTHORIZED"
	ErrCodeForbidden           = "ERR_FORBIDDEN"
	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
	ErrCodeInvalidState        = "ERR_INVALID_STATE"
	ErrCodeTimeout             = "ERR_TIMEOUT"
	ErrCodeRequestTooLarge     = "ERR_REQUEST_TOO_LARGE"
	ErrCodeRateLimited         = "ERR_RATE_LIMITED"
)

// domainStatus maps domain error codes to HTTP statuses. Codes not listed fall
// back to the INVALID_ prefix rule and then to 422.
var domainStatus = map[string]int{
	"INVALID_INPUT":            http.StatusBadRequest,
	"VALIDATION_ERROR":         http.StatusBadRequest,
	"ORGANIZATION_REQUIRED":    http.StatusBadRequest,
	"EMPTY_LOGO":               http.StatusBadRequest,
	"LOGO_TOO_LARGE":           http.StatusBadRequest,
	"UNAUTHORIZED":             http.StatusUnauthorized,
	"INVALID_CREDENTIALS":      http.StatusUnauthorized,
	"FORBIDDEN":                http.StatusForbidden,
	"NOT_FOUND":                http.StatusNotFound,
	"ALREADY_EXISTS":           http.StatusConflict,
	"ALREADY_MEMBER":           http.StatusConflict,
	"EMAIL_ALREADY_REGISTERED": http.StatusConflict,
	"CONCURRENCY_CONFLICT":     http.StatusConflict,
	"INVALID_STATE":            http.StatusUnprocessableEntity,
	"OWNER_NOT_REMOVABLE":      http.StatusUnprocessableEntity,
	"INVITATION_EXPIRED":       http.StatusUnprocessableEntity,
	"INTERNAL_ERROR":           http.StatusInternalServerError,
	"AUTH_FAILED":              http.StatusInternalServerError,
	"LOGO_UPLOAD_FAILED":       http.StatusInternalServerError,
	"UPLOAD_FAILED":            http.StatusInternalServerError,
}

// apiStatus covers the codes the HTTP layer emits without a domain error
var apiStatus = map[string]int{
	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeTimeout:         http.StatusGatewayTimeout,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:     http.StatusTooManyRequests,
}

// NormalizeErrorCode converts a domain error code to its API form
func NormalizeErrorCode(code string) string {
	if code == "" {
		return ErrCodeInternal
	}
	if strings.HasPrefix(code, "ERR_") {
		return code
	}
	return "ERR_" + code
}

// GetHTTPStatus returns the HTTP status for a domain or API error code
func GetHTTPStatus(code string) int {
	if status, ok := apiStatus[code]; ok {
		return status
	}
	code = strings.TrimPrefix(code, "ERR_")
	if status, ok := domainStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusUnprocessableEntity
}
