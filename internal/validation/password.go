package validation

import (
	"errors"
	"strings"
	"unicode"
)

const (
	PasswordMinLength = 6
	PasswordMaxLength = 24
)

var (
	ErrPasswordRequired     = errors.New("error.password.required")
	ErrPasswordTooShort     = errors.New("error.password.too_short")
	ErrPasswordTooLong      = errors.New("error.password.too_long")
	ErrPasswordNoUppercase  = errors.New("error.password.no_uppercase")
	ErrPasswordNoDigit      = errors.New("error.password.no_digit")
	ErrPasswordConfirmation = errors.New("error.password.confirmation")
)

// ValidatePassword validates password strength: 6 to 24 characters with at
// least one uppercase letter and one digit.
func ValidatePassword(password string) error {
	if password == "" {
		return ErrPasswordRequired
	}

	length := len([]rune(password))
	if length < PasswordMinLength {
		return ErrPasswordTooShort
	}
	if length > PasswordMaxLength {
		return ErrPasswordTooLong
	}

	if !strings.ContainsFunc(password, unicode.IsUpper) {
		return ErrPasswordNoUppercase
	}
	if !strings.ContainsFunc(password, unicode.IsDigit) {
		return ErrPasswordNoDigit
	}

	return nil
}

// ValidatePasswordConfirmation checks that both password inputs match
func ValidatePasswordConfirmation(password, confirmation string) error {
	if password != confirmation {
		return ErrPasswordConfirmation
	}
	return nil
}
