package authapi

// Verification status values reported by the auth service for a merchant account.
const (
	VerificationNotSubmitted = "not_submitted"
	VerificationPending      = "pending"
	VerificationVerified     = "verified"
)

// User represents the merchant account as returned by the auth service.
type User struct {
	ID                 string `json:"id"`
	Email              string `json:"email"`
	FullName           string `json:"full_name"`
	CompanyName        string `json:"company_name,omitempty"`
	Phone              string `json:"phone,omitempty"`
	VerificationStatus string `json:"verification_status,omitempty"`
}

// LoginResult pairs the user record with the issued bearer token.
type LoginResult struct {
	User        User
	AccessToken string
}

// RegisterInput carries the registration request fields.
type RegisterInput struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"full_name"`
	CompanyName string `json:"company_name,omitempty"`
	Phone       string `json:"phone,omitempty"`
}
