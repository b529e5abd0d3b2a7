package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// APIError is a failure reported by the auth service itself (success=false).
// Message carries the service-provided text verbatim and may be empty.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return "auth service rejected the request"
	}
	return e.Message
}

// Client calls the external authentication HTTP service.
type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a Client for the auth service at baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// envelope is the common response wrapper used by every auth endpoint.
type envelope struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	Data      struct {
		User        User   `json:"user"`
		AccessToken string `json:"access_token"`
	} `json:"data"`
}

// Login submits credentials and returns the user plus access token.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	env, err := c.post(ctx, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{User: env.Data.User, AccessToken: env.Data.AccessToken}, nil
}

// Register creates a new merchant account and returns the initial session material.
func (c *Client) Register(ctx context.Context, input RegisterInput) (LoginResult, error) {
	env, err := c.post(ctx, "/auth/register", input)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{User: env.Data.User, AccessToken: env.Data.AccessToken}, nil
}

// SendOTP asks the service to deliver a one-time code to phone and returns
// the challenge session identifier.
func (c *Client) SendOTP(ctx context.Context, phone string) (string, error) {
	env, err := c.post(ctx, "/auth/send-otp", map[string]string{"phone": phone})
	if err != nil {
		return "", err
	}
	return env.SessionID, nil
}

// VerifyOTP submits the user-entered code for the given challenge.
func (c *Client) VerifyOTP(ctx context.Context, sessionID, otp string) error {
	_, err := c.post(ctx, "/auth/verify-otp", map[string]string{
		"session_id": sessionID,
		"otp":        otp,
	})
	return err
}

func (c *Client) post(ctx context.Context, path string, body any) (envelope, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return envelope{}, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return envelope{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return envelope{}, fmt.Errorf("call auth service: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return envelope{}, fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return envelope{}, fmt.Errorf("decode response: %w", err)
	}

	if !env.Success {
		return envelope{}, &APIError{Message: env.Message}
	}
	return env, nil
}
