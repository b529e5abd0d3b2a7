package authflow

import (
	"context"
	"errors"

	"github.com/paynova/console/internal/authapi"
	"github.com/paynova/console/internal/session"
)

// API is the subset of the auth service client the controller depends on.
type API interface {
	Login(ctx context.Context, email, password string) (authapi.LoginResult, error)
	Register(ctx context.Context, input authapi.RegisterInput) (authapi.LoginResult, error)
	SendOTP(ctx context.Context, phone string) (string, error)
	VerifyOTP(ctx context.Context, sessionID, otp string) error
}

// Errors reported for calls that are invalid in the controller's current state.
var (
	ErrRequestInFlight = errors.New("authflow: a request is already in flight")
	ErrNotAwaitingOTP  = errors.New("authflow: no OTP challenge in progress")
	ErrFlowCompleted   = errors.New("authflow: login already completed")
)

// Controller sequences the login negotiation and registration against the
// auth service and commits the resulting session. One attempt may be in
// flight at a time; concurrent submissions are rejected rather than queued.
type Controller struct {
	api   API
	store *session.Store

	mu        chan struct{} // acts as a try-lock so a second submit fails fast
	state     State
	pending   *challenge
	lastError string
}

// NewController builds a Controller over the API client and session store.
func NewController(api API, store *session.Store) *Controller {
	mu := make(chan struct{}, 1)
	mu <- struct{}{}
	return &Controller{api: api, store: store, mu: mu, state: StateCollectingCredentials}
}

func (c *Controller) acquire() bool {
	select {
	case <-c.mu:
		return true
	default:
		return false
	}
}

func (c *Controller) release() {
	c.mu <- struct{}{}
}

// State returns the current flow position.
func (c *Controller) State() State {
	if !c.acquire() {
		// A request is in flight; report the state it started from.
		return c.state
	}
	defer c.release()
	return c.state
}

// LastError returns the display message of the most recent failure, if any.
func (c *Controller) LastError() string {
	if !c.acquire() {
		return c.lastError
	}
	defer c.release()
	return c.lastError
}

// SubmitCredentials runs the first login step. Depending on the service
// response the flow either completes immediately (no phone on file) or moves
// to AwaitingOTP after requesting a code.
func (c *Controller) SubmitCredentials(ctx context.Context, email, password string, remember bool) error {
	if !c.acquire() {
		return ErrRequestInFlight
	}
	defer c.release()

	switch c.state {
	case StateCompleted:
		return ErrFlowCompleted
	case StateFailed:
		// Manual retry restarts the flow.
		c.state = StateCollectingCredentials
	case StateAwaitingOTP:
		// Re-submitting credentials abandons the pending challenge.
		c.pending = nil
		c.state = StateCollectingCredentials
	}
	c.lastError = ""

	result, err := c.api.Login(ctx, email, password)
	if err != nil {
		return c.fail(failCredentials, err)
	}

	if result.User.Phone == "" {
		if err := c.store.Commit(ctx, result.User, result.AccessToken, remember); err != nil {
			return c.fail(failNetwork, err)
		}
		c.state = StateCompleted
		return nil
	}

	sessionID, err := c.api.SendOTP(ctx, result.User.Phone)
	if err != nil {
		return c.fail(failOTPSend, err)
	}

	c.pending = &challenge{
		sessionID: sessionID,
		phone:     result.User.Phone,
		email:     email,
		password:  password,
		remember:  remember,
	}
	c.state = StateAwaitingOTP
	return nil
}

// SubmitOTP verifies the user-entered code. A rejected code keeps the flow in
// AwaitingOTP so the user can retry; a verified code completes the login by
// re-submitting the retained credentials and committing the session.
func (c *Controller) SubmitOTP(ctx context.Context, code string) error {
	if !c.acquire() {
		return ErrRequestInFlight
	}
	defer c.release()

	if c.state != StateAwaitingOTP || c.pending == nil {
		return ErrNotAwaitingOTP
	}
	c.lastError = ""

	if err := c.api.VerifyOTP(ctx, c.pending.sessionID, code); err != nil {
		// Stay in AwaitingOTP; the challenge remains valid for another attempt.
		ferr := flowError(failOTPInvalid, err)
		c.lastError = ferr.Message
		return ferr
	}

	result, err := c.api.Login(ctx, c.pending.email, c.pending.password)
	if err != nil {
		ferr := flowError(failCredentials, err)
		c.lastError = ferr.Message
		return ferr
	}

	if err := c.store.Commit(ctx, result.User, result.AccessToken, c.pending.remember); err != nil {
		ferr := flowError(failNetwork, err)
		c.lastError = ferr.Message
		return ferr
	}

	c.pending = nil
	c.state = StateCompleted
	return nil
}

// Register validates locally, creates the account, and commits the returned
// session. A password shorter than 8 characters never reaches the network.
func (c *Controller) Register(ctx context.Context, input authapi.RegisterInput, remember bool) error {
	if !c.acquire() {
		return ErrRequestInFlight
	}
	defer c.release()

	c.lastError = ""
	if verr := validateRegister(input); verr != nil {
		c.lastError = verr.Message
		return verr
	}

	result, err := c.api.Register(ctx, input)
	if err != nil {
		ferr := flowError(failRegistration, err)
		c.lastError = ferr.Message
		return ferr
	}

	if err := c.store.Commit(ctx, result.User, result.AccessToken, remember); err != nil {
		ferr := flowError(failNetwork, err)
		c.lastError = ferr.Message
		return ferr
	}

	c.state = StateCompleted
	return nil
}

// Reset abandons any pending challenge and returns the flow to its start.
func (c *Controller) Reset() {
	if !c.acquire() {
		return
	}
	defer c.release()
	c.pending = nil
	c.lastError = ""
	c.state = StateCollectingCredentials
}

func (c *Controller) fail(cause failure, err error) *FlowError {
	ferr := flowError(cause, err)
	c.lastError = ferr.Message
	c.pending = nil
	var apiErr *authapi.APIError
	if errors.As(err, &apiErr) {
		c.state = StateFailed
	} else {
		// Transport failure: return to the pre-call state so the user can retry.
		c.state = StateCollectingCredentials
	}
	return ferr
}
