package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/pagescope/user-service/internal/api/middleware"
	"github.com/pagescope/user-service/internal/core/domain"
)

// callerIdentity returns the identity the Auth middleware attached. Handlers
// behind a non-optional gate can rely on it; a missing identity there means
// the route was wired without the gate and is treated as unauthenticated.
func callerIdentity(c echo.Context) (domain.Claims, error) {
	claims, ok := middleware.Identity(c)
	if !ok {
		return domain.Claims{}, domain.ErrMissingToken
	}
	return claims, nil
}
