package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/pagescope/user-service/pkg/logger"
)

// RequestLogger attaches a logger tagged with the request id to the request
// context and writes one access entry per request. It must run after
// echo's RequestID middleware.
func RequestLogger(base zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			id := c.Response().Header().Get(echo.HeaderXRequestID)
			if id == "" {
				id = req.Header.Get(echo.HeaderXRequestID)
			}
			l := base.With().Str("request_id", id).Logger()
			c.SetRequest(req.WithContext(logger.WithContext(req.Context(), l)))

			if err := next(c); err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			var evt *zerolog.Event
			switch {
			case status >= 500:
				evt = logger.FromContext(c.Request().Context()).Error()
			case status >= 400:
				evt = logger.FromContext(c.Request().Context()).Warn()
			default:
				evt = logger.FromContext(c.Request().Context()).Info()
			}
			evt.Str("method", req.Method).
				Str("path", c.Path()).
				Int("status", status).
				Dur("latency", time.Since(start)).
				Msg("request")
			return nil
		}
	}
}
