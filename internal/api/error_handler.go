package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pagescope/user-service/internal/core/domain"
	"github.com/pagescope/user-service/pkg/logger"
)

// errorResponse is the error envelope for every failed request.
type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that renders
// *domain.Error values with their own status code, echo errors with theirs,
// and anything else as a 500. Unexpected errors are logged; their detail is
// only sent to clients when development is set.
func NewHTTPErrorHandler(development bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, development, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, development bool, c echo.Context) (int, errorResponse) {
	var derr *domain.Error
	if errors.As(err, &derr) && derr.Kind != domain.KindInternal {
		body := errorResponse{Status: "error", Message: derr.Message}
		if len(derr.Details) > 0 {
			body.Details = derr.Details
		}
		return derr.Code, body
	}

	// Router misses, method mismatches and middleware rejections.
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Status: "error", Message: fmt.Sprintf("%v", he.Message)}
	}

	logger.FromContext(c.Request().Context()).Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	body := errorResponse{Status: "error", Message: domain.ErrInternal.Message}
	if development {
		body.Details = err.Error()
	}
	return http.StatusInternalServerError, body
}
