package handler

import (
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/pagescope/user-service/internal/core/domain"
)

var binder = new(echo.DefaultBinder)

// bindPayload decodes the JSON request body into a Payload. Path and query
// parameters are deliberately left out so they cannot shadow body keys.
func bindPayload(c echo.Context) (domain.Payload, error) {
	var p domain.Payload
	if err := binder.BindBody(c, &p); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return nil, domain.ErrInvalidPayload.WithDetails(fmt.Sprint(he.Message))
		}
		return nil, domain.ErrInvalidPayload.WithDetails(err.Error())
	}
	if p == nil {
		p = domain.Payload{}
	}
	return p, nil
}
