package dto

import (
	"net/http"
	"testing"

	"github.com/invoicedesk/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeErrorCode(t *testing.T) {
	assert.Equal(t, "ERR_NOT_FOUND", NormalizeErrorCode("NOT_FOUND"))
	assert.Equal(t, "ERR_INVALID_CREDENTIALS", NormalizeErrorCode("INVALID_CREDENTIALS"))
	assert.Equal(t, ErrCodeTimeout, NormalizeErrorCode(ErrCodeTimeout))
	assert.Equal(t, ErrCodeInternal, NormalizeErrorCode(""))
}

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{"INVALID_AMOUNT", http.StatusBadRequest},
		{"INVALID_LOGO_TYPE", http.StatusBadRequest},
		{"ORGANIZATION_REQUIRED", http.StatusBadRequest},
		{"INVALID_CREDENTIALS", http.StatusUnauthorized},
		{"UNAUTHORIZED", http.StatusUnauthorized},
		{"FORBIDDEN", http.StatusForbidden},
		{"NOT_FOUND", http.StatusNotFound},
		{"ALREADY_MEMBER", http.StatusConflict},
		{"EMAIL_ALREADY_REGISTERED", http.StatusConflict},
		{"CONCURRENCY_CONFLICT", http.StatusConflict},
		{"INVALID_STATE", http.StatusUnprocessableEntity},
		{"OWNER_NOT_REMOVABLE", http.StatusUnprocessableEntity},
		{"SOMETHING_NEW", http.StatusUnprocessableEntity},
		{"AUTH_FAILED", http.StatusInternalServerError},
		{ErrCodeTimeout, http.StatusGatewayTimeout},
		{ErrCodeRequestTooLarge, http.StatusRequestEntityTooLarge},
		{NormalizeErrorCode("NOT_FOUND"), http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, GetHTTPStatus(tt.code))
		})
	}
}

func TestNewValidationErrorResponse(t *testing.T) {
	resp := NewValidationErrorResponse("Request validation failed", "req-1", []ValidationDetail{
		{Field: "email", Message: "email is required"},
	})
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-1", resp.Error.RequestID)
	assert.Len(t, resp.Error.Details, 1)
}

func TestNewPaginatedResponse(t *testing.T) {
	page := shared.NewPaginated([]int{1, 2}, 5, 1, 2)
	resp := NewPaginatedResponse(page, func(n int) interface{} { return n * 10 })

	assert.True(t, resp.Success)
	assert.Equal(t, []interface{}{10, 20}, resp.Data)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(5), resp.Meta.Total)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}
