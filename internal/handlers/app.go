package handlers

import "github.com/gofiber/fiber/v2"

// AppConfig is the fiber configuration shared by the server and the handler tests.
func AppConfig(bodyLimit int) fiber.Config {
	return fiber.Config{
		AppName:      "Site API",
		ErrorHandler: ErrorHandler,
		BodyLimit:    bodyLimit,
	}
}
