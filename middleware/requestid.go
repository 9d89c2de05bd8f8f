package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HeaderRequestID is the header carrying the request correlation ID.
const HeaderRequestID = "X-Request-ID"

const localsRequestID = "requestID"

// RequestID tags every request with a correlation ID: an incoming
// X-Request-ID header is kept, otherwise a UUID is generated. The ID is
// echoed on the response and stored in the request locals for handlers and
// the logging middleware.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(HeaderRequestID)
		if id == "" {
			id = uuid.New().String()
		}

		c.Set(HeaderRequestID, id)
		c.Locals(localsRequestID, id)

		return c.Next()
	}
}

// GetRequestID returns the correlation ID set by RequestID, or "" when the
// middleware did not run.
func GetRequestID(c *fiber.Ctx) string {
	if id, ok := c.Locals(localsRequestID).(string); ok {
		return id
	}
	return ""
}
