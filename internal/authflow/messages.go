package authflow

import (
	"errors"

	"github.com/paynova/console/internal/authapi"
)

// failure identifies the step that produced an error, keying the default
// display message used when the service did not provide one.
type failure int

const (
	failCredentials failure = iota
	failOTPSend
	failOTPInvalid
	failRegistration
	failNetwork
)

// MsgPasswordTooShort is surfaced locally before any registration request.
const MsgPasswordTooShort = "Password must be at least 8 characters long"

var defaultMessages = map[failure]string{
	failCredentials:  "Invalid email or password",
	failOTPSend:      "Failed to send OTP",
	failOTPInvalid:   "Invalid OTP",
	failRegistration: "Registration failed. Please check your details and try again.",
	failNetwork:      "An error occurred. Please try again.",
}

// FlowError is the display-ready failure handed to the UI. No raw transport
// error or HTTP detail ever crosses this boundary.
type FlowError struct {
	Message string
	cause   error
}

func (e *FlowError) Error() string { return e.Message }

func (e *FlowError) Unwrap() error { return e.cause }

// flowError maps err to a FlowError: service-reported failures surface the
// service message when present, anything else gets the generic network text.
func flowError(cause failure, err error) *FlowError {
	var apiErr *authapi.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = defaultMessages[cause]
		}
		return &FlowError{Message: msg, cause: err}
	}
	return &FlowError{Message: defaultMessages[failNetwork], cause: err}
}

func localError(message string) *FlowError {
	return &FlowError{Message: message}
}
