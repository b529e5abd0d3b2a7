package dashboard

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handler serves the console's dashboard data endpoints. The backing services
// are not wired yet, so stats report zeros and listings are empty; API keys
// and webhook material are generated once per process so the views have
// something stable to render.
type Handler struct {
	once          sync.Once
	publicKey     string
	secretKey     string
	webhookSecret string
	generatedAt   time.Time
}

// NewHandler builds the dashboard handler.
func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) generate() {
	h.once.Do(func() {
		h.publicKey = "pk_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
		h.secretKey = "sk_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
		h.webhookSecret = webhookSecret(uuid.NewString())
		h.generatedAt = time.Now().UTC()
	})
}

// webhookSecret derives a demo signing secret from seed.
func webhookSecret(seed string) string {
	sum := sha256.Sum256([]byte(seed))
	return "whsec_" + hex.EncodeToString(sum[:16])
}

// Summary returns the headline dashboard stats.
func (h *Handler) Summary(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"total_volume":     0,
		"transactions":     0,
		"success_rate":     0,
		"settlements_due":  0,
		"currency":         "USD",
		"period":           "30d",
		"generated_at":     time.Now().UTC().Format(time.RFC3339),
		"data_unavailable": true,
	})
}

// Transactions returns an empty transaction page.
func (h *Handler) Transactions(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"transactions": []any{},
		"page":         1,
		"per_page":     25,
		"total":        0,
	})
}

// Settlements returns an empty settlement listing.
func (h *Handler) Settlements(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"settlements": []any{},
		"total":       0,
	})
}

// Keys returns the merchant's API key pair.
func (h *Handler) Keys(c *fiber.Ctx) error {
	h.generate()
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"public_key": h.publicKey,
		"secret_key": h.secretKey,
		"created_at": h.generatedAt.Format(time.RFC3339),
		"mode":       "test",
	})
}

// Webhooks returns the configured webhook endpoints and their signing secret.
func (h *Handler) Webhooks(c *fiber.Ctx) error {
	h.generate()
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"endpoints": []fiber.Map{
			{
				"url":     "https://example.com/webhooks/paynova",
				"events":  []string{"payment.succeeded", "payment.failed", "settlement.completed"},
				"secret":  h.webhookSecret,
				"enabled": false,
			},
		},
	})
}
