package server

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"chatrelay/internal/core"
)

// RequestIDMiddleware mints a request ID for every inbound request, attaches
// it to the request context for log correlation and upstream forwarding, and
// echoes it back in the X-Request-Id response header. An ID supplied by the
// caller is preserved.
func RequestIDMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = uuid.NewString()
			}

			ctx := core.WithRequestID(c.Request().Context(), id)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Response().Header().Set(echo.HeaderXRequestID, id)

			return next(c)
		}
	}
}
