package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/paynova/console/internal/dashboard"
)

// RegisterDashboardRoutes wires the console data endpoints. Key and webhook
// management additionally require a verified merchant account.
func RegisterDashboardRoutes(r fiber.Router, requireVerified fiber.Handler, h *dashboard.Handler) {
	r.Get("/dashboard/summary", h.Summary)
	r.Get("/transactions", h.Transactions)
	r.Get("/settlements", h.Settlements)

	verified := r.Group("", requireVerified)
	verified.Get("/keys", h.Keys)
	verified.Get("/webhooks", h.Webhooks)
}
