package observability

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"
)

// UnmatchedRoute labels requests that did not resolve to a route template.
const UnmatchedRoute = "unmatched"

// RouteLabel returns the matched route template of the request. The value is
// copied because Fiber reuses the underlying buffers between requests.
func RouteLabel(c *fiber.Ctx) string {
	if r := c.Route(); r != nil && r.Path != "" {
		return utils.CopyString(r.Path)
	}
	return UnmatchedRoute
}

// RequestLogger logs every request and records its metrics.
func RequestLogger(logger *zap.Logger, metrics *Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		elapsed := time.Since(start)

		status := c.Response().StatusCode()
		metrics.RecordRequest(RouteLabel(c), utils.CopyString(c.Method()), status, elapsed)

		logger.Info("request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", elapsed),
			zap.String("ip", c.IP()),
		)
		return err
	}
}
