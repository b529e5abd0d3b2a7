package routes

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RegisterHealthRoutes wires the liveness endpoint.
func RegisterHealthRoutes(app *fiber.App, d Deps) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":    "ok",
			"app":       d.Cfg.AppName,
			"env":       d.Cfg.AppEnv,
			"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		})
	})
}
