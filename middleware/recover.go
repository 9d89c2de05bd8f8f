package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Recover turns a handler panic into a generic 500 response. The panic value
// and stack go to the logger and Sentry only; the client sees the same
// opaque body the error translator produces for unexpected errors.
func Recover(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			panicErr, ok := r.(error)
			if !ok {
				panicErr = fmt.Errorf("%v", r)
			}

			logger.Error("panic recovered",
				zap.Error(panicErr),
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("request_id", GetRequestID(c)),
				zap.String("stack", string(debug.Stack())),
			)
			sentry.CaptureException(panicErr)

			err = c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": http.StatusText(http.StatusInternalServerError),
			})
		}()

		return c.Next()
	}
}
