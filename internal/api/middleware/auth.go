package middleware

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pagescope/user-service/internal/api/metrics"
	"github.com/pagescope/user-service/internal/core/domain"
	"github.com/pagescope/user-service/internal/core/ports"
	"github.com/pagescope/user-service/pkg/logger"
)

// TokenHeader carries the raw token. Authorization: Bearer is accepted too.
const TokenHeader = "token"

const identityKey = "identity"

// now is swapped in tests.
var now = time.Now

// Auth decodes the request token, rejects expired ones and stores the caller
// identity on the context, then applies RBAC(roles...). A request without a
// token passes through untouched when roles contains domain.RoleOptional.
func Auth(tokens ports.TokenService, roles ...string) echo.MiddlewareFunc {
	optional := slices.Contains(roles, domain.RoleOptional)
	authorize := RBAC(roles...)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		guarded := authorize(next)

		return func(c echo.Context) error {
			raw := RawToken(c)
			if raw == "" {
				if optional {
					return next(c)
				}
				metrics.AuthRejectionsTotal.WithLabelValues("missing_token").Inc()
				return domain.ErrMissingToken
			}

			claims, err := tokens.Decode(raw)
			if err != nil {
				metrics.AuthRejectionsTotal.WithLabelValues("invalid_token").Inc()
				var derr *domain.Error
				if errors.As(err, &derr) {
					return derr
				}
				return domain.ErrInvalidToken.WithDetails(err.Error())
			}

			if claims.ExpiresAt <= now().Unix() {
				metrics.AuthRejectionsTotal.WithLabelValues("expired_token").Inc()
				return domain.ErrExpiredToken
			}

			SetIdentity(c, *claims)
			return guarded(c)
		}
	}
}

// RawToken returns the request token from the token header, falling back
// to a bearer Authorization header. Quote characters are stripped.
func RawToken(c echo.Context) string {
	h := c.Request().Header
	raw := h.Get(TokenHeader)
	if raw == "" {
		parts := strings.SplitN(h.Get(echo.HeaderAuthorization), " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			raw = parts[1]
		}
	}
	return strings.TrimSpace(strings.NewReplacer(`"`, "", "'", "").Replace(raw))
}

// SetIdentity stores claims as the caller identity and tags the request
// logger with the caller id.
func SetIdentity(c echo.Context, claims domain.Claims) {
	c.Set(identityKey, claims)

	req := c.Request()
	l := logger.FromContext(req.Context()).With().Str("user_id", claims.ID).Logger()
	c.SetRequest(req.WithContext(logger.WithContext(req.Context(), l)))
}

// Identity returns the caller identity stored by Auth, if any.
func Identity(c echo.Context) (domain.Claims, bool) {
	claims, ok := c.Get(identityKey).(domain.Claims)
	return claims, ok
}
