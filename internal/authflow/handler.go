package authflow

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/paynova/console/internal/authapi"
	"github.com/paynova/console/internal/session"
)

// Handler exposes the login negotiation and registration over HTTP.
type Handler struct {
	ctrl  *Controller
	store *session.Store
}

// NewHandler builds the auth HTTP handler.
func NewHandler(ctrl *Controller, store *session.Store) *Handler {
	return &Handler{ctrl: ctrl, store: store}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

// Login runs the credential step. The response tells the UI whether the login
// completed or an OTP is now expected.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	if err := h.ctrl.SubmitCredentials(c.UserContext(), req.Email, req.Password, req.Remember); err != nil {
		return flowErrorResponse(c, http.StatusUnauthorized, err)
	}

	if h.ctrl.State() == StateAwaitingOTP {
		return c.Status(http.StatusOK).JSON(fiber.Map{"status": "otp_required"})
	}

	sess, _ := h.store.Current()
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": "completed", "user": sess.User})
}

type otpRequest struct {
	OTP string `json:"otp"`
}

// VerifyOTP runs the second login step.
func (h *Handler) VerifyOTP(c *fiber.Ctx) error {
	var req otpRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	if err := h.ctrl.SubmitOTP(c.UserContext(), req.OTP); err != nil {
		return flowErrorResponse(c, http.StatusUnauthorized, err)
	}

	sess, _ := h.store.Current()
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": "completed", "user": sess.User})
}

type registerRequestBody struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"full_name"`
	CompanyName string `json:"company_name"`
	Phone       string `json:"phone"`
	Remember    bool   `json:"remember"`
}

// Register creates the merchant account and starts a session.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequestBody
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	input := authapi.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		FullName:    req.FullName,
		CompanyName: req.CompanyName,
		Phone:       req.Phone,
	}
	if err := h.ctrl.Register(c.UserContext(), input, req.Remember); err != nil {
		return flowErrorResponse(c, http.StatusBadRequest, err)
	}

	sess, _ := h.store.Current()
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"status":   "registered",
		"user":     sess.User,
		"redirect": "/dashboard",
	})
}

// Logout clears the session and points the UI at the public landing page.
func (h *Handler) Logout(c *fiber.Ctx) error {
	if err := h.store.Clear(c.UserContext()); err != nil {
		return fiber.NewError(http.StatusInternalServerError, "failed to clear session")
	}
	h.ctrl.Reset()
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": "logged_out", "redirect": "/"})
}

// Me returns the current session's user record.
func (h *Handler) Me(c *fiber.Ctx) error {
	sess, ok := h.store.Current()
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}
	return c.JSON(fiber.Map{"user": sess.User})
}

func flowErrorResponse(c *fiber.Ctx, status int, err error) error {
	var ferr *FlowError
	switch {
	case errors.As(err, &ferr):
		return c.Status(status).JSON(fiber.Map{"error": ferr.Message})
	case errors.Is(err, ErrRequestInFlight):
		return fiber.NewError(http.StatusConflict, "a request is already in progress")
	case errors.Is(err, ErrNotAwaitingOTP), errors.Is(err, ErrFlowCompleted):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}
