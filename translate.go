package rest

import (
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/appgeist/rest/schema"
)

// DefaultErrorHandler returns the translator used when neither the resource
// nor the method configures one. Classification runs in a fixed order:
//
//  1. schema.Errors answer 400 with the collected field violations.
//  2. *Error answers with its carried status and message.
//  3. Anything else answers a generic 500. The underlying error is logged
//     and captured by Sentry (a no-op unless sentry.Init ran) but never
//     reaches the client.
//
// Custom error handlers that replace case 3 should keep internal detail out
// of the response.
func DefaultErrorHandler(logger *zap.Logger) ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var verrs schema.Errors
		if errors.As(err, &verrs) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Validation failed",
				"errors":  verrs.Strings(),
			})
		}

		var appErr *Error
		if errors.As(err, &appErr) {
			return c.Status(appErr.StatusCode()).JSON(fiber.Map{
				"message": appErr.Error(),
			})
		}

		logger.Error("unhandled error in dispatched handler",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		sentry.CaptureException(err)

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": http.StatusText(http.StatusInternalServerError),
		})
	}
}
