package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"gadgetry/internal/config"
	apperrors "gadgetry/internal/errors"
)

func TestHTTPErrorHandler_BodyShape(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"not found", apperrors.ErrGadgetNotFound, http.StatusNotFound, "gadget not found"},
		{"bad confirmation code", apperrors.ErrInvalidConfirmationCode, http.StatusBadRequest, "invalid confirmation code"},
		{"conflict", apperrors.ErrUserAlreadyExists, http.StatusConflict, "user already exists"},
		{"unauthorized", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{"echo http error", echo.NewHTTPError(http.StatusBadRequest, "invalid request body"), http.StatusBadRequest, "invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			handler := newHTTPErrorHandler(&config.Config{Env: "production"})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handler(tt.err, c)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var body apperrors.ErrorResponse
			assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantMsg, body.Message)
			assert.NotEmpty(t, body.Timestamp)
			assert.Empty(t, body.Stack)
		})
	}
}

func TestHTTPErrorHandler_StackOnlyOutsideProduction(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	internal := assertInternal(t, e, req, &config.Config{Env: "development"})
	assert.NotEmpty(t, internal.Stack)

	internal = assertInternal(t, e, req, &config.Config{Env: "production"})
	assert.Empty(t, internal.Stack)
}

func assertInternal(t *testing.T, e *echo.Echo, req *http.Request, cfg *config.Config) apperrors.ErrorResponse {
	t.Helper()

	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	newHTTPErrorHandler(cfg)(assert.AnError, c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body apperrors.ErrorResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "internal server error", body.Message)
	return body
}
