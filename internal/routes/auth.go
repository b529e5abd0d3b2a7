package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/paynova/console/internal/authflow"
)

// RegisterAuthRoutes wires the login negotiation and registration endpoints.
func RegisterAuthRoutes(r fiber.Router, h *authflow.Handler, rateLimiter fiber.Handler) {
	group := r.Group("/auth")
	if rateLimiter != nil {
		group.Post("/login", rateLimiter, h.Login)
	} else {
		group.Post("/login", h.Login)
	}
	group.Post("/otp", h.VerifyOTP)
	group.Post("/register", h.Register)
	group.Post("/logout", h.Logout)
}
