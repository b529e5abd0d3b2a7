package routes

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/paynova/console/internal/config"
	"github.com/paynova/console/internal/logging"
)

// fakeAuthService scripts the external auth endpoints for end-to-end tests.
func fakeAuthService(t *testing.T, phone, verificationStatus string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != "a@b.com" || body["password"] != "secret12" {
			json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "Invalid email or password"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"user": map[string]any{
					"id":                  "u-1",
					"email":               "a@b.com",
					"full_name":           "Ada Merchant",
					"phone":               phone,
					"verification_status": verificationStatus,
				},
				"access_token": "tok-1",
			},
		})
	})

	mux.HandleFunc("/auth/send-otp", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": true, "session_id": "s1"})
	})

	mux.HandleFunc("/auth/verify-otp", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["otp"] != "123456" {
			json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "Invalid OTP"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	})

	mux.HandleFunc("/auth/register", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"user":         map[string]any{"id": "u-2", "email": "new@b.com", "full_name": "New Merchant", "verification_status": "not_submitted"},
				"access_token": "tok-2",
			},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func setupApp(t *testing.T, phone, verificationStatus string) *fiber.App {
	t.Helper()
	authSrv := fakeAuthService(t, phone, verificationStatus)

	cfg := config.Config{
		AppName:        "console-test",
		AppEnv:         "test",
		AuthAPIURL:     authSrv.URL,
		AuthAPITimeout: 5 * time.Second,
		SessionFile:    filepath.Join(t.TempDir(), "session.json"),
		LoginRateLimit: 100,
	}

	app := fiber.New()
	if err := Setup(app, Deps{Cfg: cfg, Logger: logging.Discard()}); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req, 10_000)
	if err != nil {
		t.Fatalf("app.Test %s: %v", path, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	resp.Body.Close()
	var body map[string]any
	if err := json.Unmarshal(payload, &body); err != nil {
		t.Fatalf("decode body %s: %v", string(payload), err)
	}
	return body
}

func TestHealthz(t *testing.T) {
	app := setupApp(t, "", "verified")

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/healthz", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestProtectedRoutesRequireLogin(t *testing.T) {
	app := setupApp(t, "", "verified")

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/me", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestLoginWithoutPhoneThenDashboard(t *testing.T) {
	app := setupApp(t, "", "verified")

	resp := postJSON(t, app, "/api/v1/auth/login", `{"email":"a@b.com","password":"secret12"}`)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("login: expected 200, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["status"] != "completed" {
		t.Fatalf("expected completed login, got %v", body["status"])
	}

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/dashboard/summary", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("summary: expected 200, got %d", resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/keys", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("keys: expected 200 for verified account, got %d", resp.StatusCode)
	}
}

func TestLoginWithPhoneGoesThroughOTP(t *testing.T) {
	app := setupApp(t, "9999999999", "verified")

	resp := postJSON(t, app, "/api/v1/auth/login", `{"email":"a@b.com","password":"secret12"}`)
	body := decodeBody(t, resp)
	if body["status"] != "otp_required" {
		t.Fatalf("expected otp_required, got %v", body["status"])
	}

	resp = postJSON(t, app, "/api/v1/auth/otp", `{"otp":"000000"}`)
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("bad otp: expected 401, got %d", resp.StatusCode)
	}
	body = decodeBody(t, resp)
	if body["error"] != "Invalid OTP" {
		t.Fatalf("expected Invalid OTP, got %v", body["error"])
	}

	resp = postJSON(t, app, "/api/v1/auth/otp", `{"otp":"123456"}`)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("good otp: expected 200, got %d", resp.StatusCode)
	}
	body = decodeBody(t, resp)
	if body["status"] != "completed" {
		t.Fatalf("expected completed after otp, got %v", body["status"])
	}
}

func TestUnverifiedAccountHeldAtKeys(t *testing.T) {
	app := setupApp(t, "", "pending")

	resp := postJSON(t, app, "/api/v1/auth/login", `{"email":"a@b.com","password":"secret12"}`)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("login: expected 200, got %d", resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/transactions", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("transactions should not require verification, got %d", resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/keys", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("keys: expected 403 while pending, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["error"] != "verification_pending" {
		t.Fatalf("expected verification_pending, got %v", body["error"])
	}
}

func TestLogoutClearsSession(t *testing.T) {
	app := setupApp(t, "", "verified")

	postJSON(t, app, "/api/v1/auth/login", `{"email":"a@b.com","password":"secret12"}`)

	resp := postJSON(t, app, "/api/v1/auth/logout", `{}`)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("logout: expected 200, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["redirect"] != "/" {
		t.Fatalf("expected public redirect after logout, got %v", body["redirect"])
	}

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/me", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", resp.StatusCode)
	}
}

func TestRejectedLoginSurfacesServiceMessage(t *testing.T) {
	app := setupApp(t, "", "verified")

	resp := postJSON(t, app, "/api/v1/auth/login", `{"email":"a@b.com","password":"nope"}`)
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["error"] != "Invalid email or password" {
		t.Fatalf("expected service message, got %v", body["error"])
	}
}

func TestRegisterShortPasswordFailsLocally(t *testing.T) {
	app := setupApp(t, "", "verified")

	resp := postJSON(t, app, "/api/v1/auth/register", `{"email":"new@b.com","password":"short12","full_name":"New Merchant"}`)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["error"] != "Password must be at least 8 characters long" {
		t.Fatalf("expected exact password message, got %v", body["error"])
	}
}

func TestRegisterCreatesSession(t *testing.T) {
	app := setupApp(t, "", "verified")

	resp := postJSON(t, app, "/api/v1/auth/register", `{"email":"new@b.com","password":"longenough","full_name":"New Merchant"}`)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["redirect"] != "/dashboard" {
		t.Fatalf("expected dashboard redirect, got %v", body["redirect"])
	}

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/me", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected authenticated /me after register, got %d", resp.StatusCode)
	}
}
