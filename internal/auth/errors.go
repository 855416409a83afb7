package auth

import (
	"encoding/json"
	"errors"

	"github.com/fanaberia/fanaberia/internal/validation"
)

var (
	ErrUnknownStrategy = errors.New("unknown authentication strategy")
	ErrNotRedirecting  = errors.New("strategy does not redirect")
)

// Message keys used in the "common" slot of an AuthorizationError.
const (
	MessageCommon  = "auth.error.common"
	MessageConfirm = "auth.error.confirm"
	MessageSocial  = "auth.error.social"
)

// AuthorizationError is a rejected sign-in. Errors maps a form field (or
// "common") to a message key; Fields echoes submitted values for redisplay.
// Passwords are never echoed.
type AuthorizationError struct {
	Errors map[string]string `json:"errors"`
	Fields map[string]string `json:"fields,omitempty"`
}

func (e *AuthorizationError) Error() string {
	if msg, ok := e.Errors["common"]; ok {
		return "authorization failed: " + msg
	}
	return "authorization failed: " + validation.Errors(e.Errors).Error()
}

func commonError(key, email string) *AuthorizationError {
	err := &AuthorizationError{Errors: map[string]string{"common": key}}
	if email != "" {
		err.Fields = map[string]string{"email": email}
	}
	return err
}

func formError(errs validation.Errors, email string) *AuthorizationError {
	return &AuthorizationError{Errors: errs, Fields: map[string]string{"email": email}}
}

func (e *AuthorizationError) encode() (string, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeAuthorizationError(value string) (*AuthorizationError, error) {
	e := &AuthorizationError{}
	err := json.Unmarshal([]byte(value), e)
	if err != nil {
		return nil, err
	}
	return e, nil
}
