package middleware

import (
	"slices"

	"github.com/labstack/echo/v4"

	"github.com/pagescope/user-service/internal/api/metrics"
	"github.com/pagescope/user-service/internal/core/domain"
)

// RBAC enforces role-based access control on the identity set by Auth. An
// empty role list, or one containing domain.RoleOptional, admits any caller.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	open := len(allowedRoles) == 0 || slices.Contains(allowedRoles, domain.RoleOptional)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if open {
			return next
		}
		return func(c echo.Context) error {
			claims, ok := Identity(c)
			if !ok {
				metrics.AuthRejectionsTotal.WithLabelValues("missing_token").Inc()
				return domain.ErrMissingToken
			}
			if !slices.Contains(allowedRoles, claims.Role) {
				metrics.AuthRejectionsTotal.WithLabelValues("insufficient_role").Inc()
				return domain.ErrInsufficientRole
			}
			return next(c)
		}
	}
}
