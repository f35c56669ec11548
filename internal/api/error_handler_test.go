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

	"github.com/pagescope/user-service/internal/core/domain"
)

func renderError(t *testing.T, development bool, err error) (int, map[string]any) {
	t.Helper()
	e := echo.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(development)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	e.HTTPErrorHandler(err, c)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestHTTPErrorHandler_DomainErrors(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrMissingFields, http.StatusBadRequest},
		{domain.ErrInvalidCredentials, http.StatusBadRequest},
		{domain.ErrInvalidToken, http.StatusBadRequest},
		{domain.ErrExpiredToken, http.StatusUnauthorized},
		{domain.ErrInsufficientRole, http.StatusForbidden},
		{domain.ErrUserNotFound, http.StatusNotFound},
		{domain.ErrDuplicateClaim, http.StatusNotFound},
		{domain.ErrUserExists, http.StatusConflict},
	}

	for _, tc := range cases {
		code, body := renderError(t, false, tc.err)
		assert.Equal(t, tc.code, code, tc.err.Error())
		assert.Equal(t, "error", body["status"])
		assert.NotContains(t, body, "details")
	}
}

func TestHTTPErrorHandler_Details(t *testing.T) {
	code, body := renderError(t, false, domain.ErrMissingFields.WithDetails("name", "email"))

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "missing fields", body["message"])
	assert.Equal(t, []any{"name", "email"}, body["details"])
}

func TestHTTPErrorHandler_EchoError(t *testing.T) {
	code, body := renderError(t, false, echo.ErrNotFound)

	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Not Found", body["message"])
}

func TestHTTPErrorHandler_UnexpectedError(t *testing.T) {
	cause := errors.New("mongo: connection reset")

	code, body := renderError(t, false, cause)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "internal server error", body["message"])
	assert.NotContains(t, body, "details")

	_, body = renderError(t, true, cause)
	assert.Equal(t, "mongo: connection reset", body["details"])
}
