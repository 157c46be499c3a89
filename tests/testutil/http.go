package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// PerformRequest serves a request against engine. A non-nil body is sent as JSON
// unless it is already an io.Reader.
func PerformRequest(t *testing.T, engine *gin.Engine, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case io.Reader:
		reader = b
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err, "Failed to marshal request body")
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if _, ok := body.(io.Reader); !ok && body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

// JSONResponse parses the response body as JSON.
func JSONResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result), "Failed to parse JSON response: %s", w.Body.String())
	return result
}

// JSONResponseAs parses the response body into T.
func JSONResponseAs[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var result T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result), "Failed to parse JSON response")
	return result
}

// ResponseData returns the "data" member of a success envelope.
func ResponseData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	resp := JSONResponse(t, w)
	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok, "Expected object data in response: %s", w.Body.String())
	return data
}

// AssertSuccessResponse asserts the status code and a success envelope.
func AssertSuccessResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int) {
	t.Helper()

	require.Equal(t, expectedStatus, w.Code, "Unexpected status code: %s", w.Body.String())
	resp := JSONResponse(t, w)
	assert.Equal(t, true, resp["success"], "Expected success to be true")
	assert.Nil(t, resp["error"], "Expected no error")
}

// AssertErrorResponse asserts the status code and the envelope error code.
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedCode string) map[string]interface{} {
	t.Helper()

	require.Equal(t, expectedStatus, w.Code, "Unexpected status code: %s", w.Body.String())
	resp := JSONResponse(t, w)
	assert.Equal(t, false, resp["success"], "Expected success to be false")

	errMap, ok := resp["error"].(map[string]interface{})
	require.True(t, ok, "Expected error object in response")
	assert.Equal(t, expectedCode, errMap["code"], "Unexpected error code")
	return errMap
}

// BearerHeader returns an Authorization header map for token.
func BearerHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}
