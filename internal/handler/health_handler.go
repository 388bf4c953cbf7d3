package handler

import (
	"github.com/gofiber/fiber/v2"
)

func RegisterHealthRoutes(app fiber.Router) {
	app.Get("/livez", LivezHandler())
}

// LivezHandler only reports process liveness; the relay has no dependency it
// could probe without sending a message.
func LivezHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "ok",
		})
	}
}
