package middleware

import (
	"github.com/labstack/echo/v4"
	appctx "github.com/piresc/settlement/internal/pkg/context"
)

// RequestIDMiddleware propagates the caller's X-Request-ID, or a fresh one,
// to the response headers and the request context so outbound calls carry it
func RequestIDMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(echo.HeaderXRequestID)

			ctx := appctx.WithRequestID(c.Request().Context(), requestID)
			requestID = appctx.GetRequestID(ctx)

			c.Response().Header().Set(echo.HeaderXRequestID, requestID)
			c.Set("request_id", requestID)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
