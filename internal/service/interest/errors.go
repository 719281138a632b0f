package interest

import "errors"

// Sentinel errors for the interest service layer. The HTTP layer maps these
// to status codes with errors.Is; anything else is a generic 500.
var (
	ErrMissingFields        = errors.New("missing required fields: name, email, and country are required")
	ErrInvalidEmail         = errors.New("invalid email format")
	ErrVerificationRejected = errors.New("turnstile verification failed")
	ErrDuplicate            = errors.New("email already registered")
)
