package auth

import "errors"

var (
	ErrMissingFields      = errors.New("missing required fields")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidPurpose     = errors.New("invalid otp purpose")
	ErrInvalidCode        = errors.New("invalid or expired code")
	ErrTooManyAttempts    = errors.New("too many attempts")
	ErrTokenIssueFailed   = errors.New("failed to issue token")
)

// PolicyError la nueva contraseña no cumple la política.
type PolicyError struct {
	Reasons []string
}

func (e *PolicyError) Error() string { return "password policy violation" }
