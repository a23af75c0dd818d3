// errors_test.go - Tests for structured API error handling
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorConstructors(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name    string
		err     *APIError
		status  int
		code    string
		details string
	}{
		{"bad request", NewBadRequestError("bad input", cause), http.StatusBadRequest, "BAD_REQUEST", "boom"},
		{"bad request no cause", NewBadRequestError("bad input", nil), http.StatusBadRequest, "BAD_REQUEST", ""},
		{"validation", NewValidationError("name"), http.StatusBadRequest, "VALIDATION_ERROR", ""},
		{"not found", NewNotFoundError("file", "f-1"), http.StatusNotFound, "NOT_FOUND", ""},
		{"conflict", NewConflictError("already parsing"), http.StatusConflict, "CONFLICT", ""},
		{"internal", NewInternalError("oops", cause), http.StatusInternalServerError, "INTERNAL_ERROR", "boom"},
		{"unavailable", NewServiceUnavailableError("busy"), http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.Status)
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.details, tt.err.Details)
			assert.Contains(t, tt.err.Error(), tt.code)
		})
	}
}

func TestErrorHandler(t *testing.T) {
	e := echo.New()

	run := func(err error) (*httptest.ResponseRecorder, APIError) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		ErrorHandler(err, c)

		var body APIError
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		return rec, body
	}

	t.Run("api error passes through", func(t *testing.T) {
		rec, body := run(NewNotFoundError("session", "s-1"))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "NOT_FOUND", body.Code)
	})

	t.Run("echo http error is wrapped", func(t *testing.T) {
		rec, body := run(echo.NewHTTPError(http.StatusMethodNotAllowed, "nope"))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assert.Equal(t, "HTTP_ERROR", body.Code)
	})

	t.Run("unknown error becomes 500", func(t *testing.T) {
		rec, body := run(errors.New("something broke"))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "UNKNOWN_ERROR", body.Code)
	})
}
