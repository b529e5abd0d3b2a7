package middleware

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/paynova/console/internal/authapi"
	"github.com/paynova/console/internal/session"
)

// RequireSession gates console routes on an authenticated session. While the
// store has not finished restoring state nothing protected is served; once it
// has, unauthenticated requests are pointed back at the login view.
func RequireSession(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !store.Loaded() {
			c.Set(fiber.HeaderRetryAfter, "1")
			return fiber.NewError(http.StatusServiceUnavailable, "session state not ready")
		}
		if !store.IsAuthenticated() {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
				"error":    "authentication required",
				"redirect": "/login",
			})
		}
		return c.Next()
	}
}

// RequireVerified additionally gates on the merchant's KYC progress: a pending
// or missing verification yields a holding response instead of the page data.
// Verified accounts, and any status outside the two holding cases, pass through.
func RequireVerified(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, ok := store.Current()
		if !ok {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
				"error":    "authentication required",
				"redirect": "/login",
			})
		}

		switch sess.User.VerificationStatus {
		case authapi.VerificationPending:
			return c.Status(http.StatusForbidden).JSON(fiber.Map{
				"error":  "verification_pending",
				"detail": "Your verification is being reviewed.",
			})
		case authapi.VerificationNotSubmitted:
			return c.Status(http.StatusForbidden).JSON(fiber.Map{
				"error":  "verification_required",
				"detail": "Complete verification to access this section.",
			})
		default:
			return c.Next()
		}
	}
}
