package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/example/siteapi/internal/logger"
)

// RequestLogger logs every request once it has been answered. Errors returned by the
// chain are handed to the app's ErrorHandler first so the logged status is the one
// the client sees.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		if chainErr := c.Next(); chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			logger.WithStatus(status),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote_addr", c.IP()),
		}
		if id, ok := c.Locals("requestid").(string); ok && id != "" {
			fields = append(fields, logger.WithRequestID(id))
		}

		switch {
		case status >= fiber.StatusInternalServerError:
			logger.Log.Error("HTTP request", fields...)
		case status >= fiber.StatusBadRequest:
			logger.Log.Warn("HTTP request", fields...)
		default:
			logger.Log.Info("HTTP request", fields...)
		}
		return nil
	}
}
