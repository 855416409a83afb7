package validation

import (
	"errors"
	"net/mail"
)

var (
	ErrEmailRequired = errors.New("error.email.required")
	ErrEmailInvalid  = errors.New("error.email.invalid")
	ErrEmailTooLong  = errors.New("error.email.too_long")
)

// ValidateEmail validates email format and length
// Uses Go's built-in net/mail parser which follows RFC 5322
func ValidateEmail(email string) error {
	if email == "" {
		return ErrEmailRequired
	}

	// RFC 5321: total max 254 with @
	if len(email) > 254 {
		return ErrEmailTooLong
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrEmailInvalid
	}

	return nil
}
