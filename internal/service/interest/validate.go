package interest

import (
	"regexp"
	"strings"
)

// emailPattern matches local@domain.tld: no spaces or extra @ signs, and at
// least one dot in the domain. "bob@example" is rejected, "bob@example.com"
// is accepted.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// SubmitInput is one incoming form submission before validation.
type SubmitInput struct {
	Title    string `json:"title"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Country  string `json:"country"`
	Token    string `json:"cf-turnstile-response"`
	RemoteIP string `json:"-"`
}

// Validate normalizes the input in place and reports the first rejection
// reason. Name, email, and country are required; title is optional. No side
// effects beyond whitespace trimming.
func (in *SubmitInput) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Country = strings.TrimSpace(in.Country)

	if in.Name == "" || in.Email == "" || in.Country == "" {
		return ErrMissingFields
	}
	if !emailPattern.MatchString(in.Email) {
		return ErrInvalidEmail
	}
	return nil
}
