package middleware

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/example/siteapi/internal/metrics"
)

// Metrics records request counts and latency labelled by the matched route pattern,
// which keeps path parameters out of the label set.
func Metrics() fiber.Handler {
	m := metrics.Get()

	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := strconv.Itoa(statusOf(c, err))
		route := c.Route().Path
		method := c.Method()

		m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
		m.HTTPRequestDuration.WithLabelValues(method, route, status).Observe(time.Since(start).Seconds())
		return err
	}
}

// statusOf predicts the status an error will be answered with; the ErrorHandler runs
// further out in the chain.
func statusOf(c *fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}
