package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestLogger tags each request with an id (reusing X-Request-ID when the
// client sent one) and logs method, path, status and latency.
func RequestLogger(log *zap.SugaredLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		requestID := c.Get(fiber.HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Locals("requestId", requestID)
		c.Set(fiber.HeaderXRequestID, requestID)

		// render errors here so the logged status is the one sent
		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		log.Infow("request",
			"requestId", requestID,
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"ip", c.IP(),
			"latency", time.Since(start).String(),
		)
		return nil
	}
}

// GetRequestID extracts the request id from context
func GetRequestID(c *fiber.Ctx) string {
	id, ok := c.Locals("requestId").(string)
	if !ok {
		return ""
	}
	return id
}
