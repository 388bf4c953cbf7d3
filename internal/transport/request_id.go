package transport

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/kursadbilgin/pushover/internal/observability"
)

const requestIDLocal = "requestid"

// RequestID propagates the caller's X-Request-ID, or a fresh uuid, into the
// user context and the response headers.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := strings.TrimSpace(c.Get(fiber.HeaderXRequestID))
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Locals(requestIDLocal, requestID)
		c.SetUserContext(observability.WithRequestID(c.UserContext(), requestID))
		c.Set(fiber.HeaderXRequestID, requestID)

		return c.Next()
	}
}

func RequestIDFromLocals(c *fiber.Ctx) string {
	if value, ok := c.Locals(requestIDLocal).(string); ok {
		return value
	}
	return ""
}
