package transport

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/kursadbilgin/pushover/internal/observability"
	"github.com/kursadbilgin/pushover/pkg/pushover"
	"go.uber.org/zap"
)

type errorResponse struct {
	Error          string   `json:"error"`
	Errors         []string `json:"errors,omitempty"`
	Request        string   `json:"request,omitempty"`
	UpstreamStatus int      `json:"upstreamStatus,omitempty"`
}

// ErrorHandler renders handler errors as JSON. Upstream rejections become 502
// (503 when transient) and keep the service's error list and request id.
func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		body := errorResponse{Error: err.Error()}

		var fiberErr *fiber.Error
		var apiErr *pushover.APIError
		switch {
		case errors.As(err, &fiberErr):
			code = fiberErr.Code
		case errors.Is(err, pushover.ErrValidation):
			code = fiber.StatusBadRequest
		case errors.As(err, &apiErr):
			code = fiber.StatusBadGateway
			if pushover.IsTransient(err) {
				code = fiber.StatusServiceUnavailable
			}
			body.Errors = apiErr.Errors
			body.Request = apiErr.Request
			body.UpstreamStatus = apiErr.StatusCode
		}

		observability.WithContextLogger(logger, c.UserContext()).Error("request error",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err),
		)

		return c.Status(code).JSON(body)
	}
}
