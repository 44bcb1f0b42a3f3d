// pkg/middleware/logger.go

package middleware

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"request-console/pkg/contextkeys"
)

// InjectLogger - мидлвэр для добавления логгера в контекст запроса.
func InjectLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Response().Header().Get(echo.HeaderXRequestID)
			c.Set(contextkeys.LoggerKey, logger.With(
				zap.String("request_id", requestID),
				zap.String("path", c.Path()),
			))
			return next(c)
		}
	}
}

// LoggerFrom достаёт логгер запроса или возвращает fallback.
func LoggerFrom(c echo.Context, fallback *zap.Logger) *zap.Logger {
	if l, ok := c.Get(contextkeys.LoggerKey).(*zap.Logger); ok && l != nil {
		return l
	}
	return fallback
}
