package authflow

// State enumerates the login flow positions. Transitions:
//
//	CollectingCredentials -> AwaitingOTP -> Completed
//	CollectingCredentials -> Completed          (no phone on file)
//	CollectingCredentials -> Failed             (rejected credentials, OTP send failure)
//	Failed               -> CollectingCredentials (retry)
//
// A failed OTP verification keeps the flow in AwaitingOTP so the user can retry.
type State int

const (
	StateCollectingCredentials State = iota
	StateAwaitingOTP
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateCollectingCredentials:
		return "collecting_credentials"
	case StateAwaitingOTP:
		return "awaiting_otp"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// challenge is the in-flight OTP verification. It only exists while the flow
// is in StateAwaitingOTP; the retained credentials complete the login after a
// successful verification (the auth service issues the token from a second
// credential submission, not from the challenge).
type challenge struct {
	sessionID string
	phone     string
	email     string
	password  string
	remember  bool
}
