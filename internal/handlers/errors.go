package handlers

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/example/siteapi/internal/logger"
)

const internalErrorMessage = "internal server error"

// ErrorHandler answers every error as {"detail": "..."}. Errors that are not a
// *fiber.Error are logged and hidden behind a generic 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"detail": fe.Message})
	}

	fields := []zap.Field{
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err),
	}
	if id, ok := c.Locals("requestid").(string); ok && id != "" {
		fields = append(fields, logger.WithRequestID(id))
	}
	logger.Log.Error("request failed", fields...)

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": internalErrorMessage})
}

func parseID(c *fiber.Ctx) (int, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	return id, nil
}

// pathParam returns the named route parameter percent-decoded. Fiber hands
// parameters over as they appear in the raw path; a literal "+" is kept.
func pathParam(c *fiber.Ctx, name string) (string, error) {
	value, err := url.PathUnescape(c.Params(name))
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "invalid "+name)
	}
	return value, nil
}
