package model

import (
	"time"
)

type User struct {
	ID                  int64      `db:"id"`
	Email               string     `db:"email"`
	PasswordHash        *string    `db:"password_hash"`  // Nullable for OAuth-only accounts
	OAuthProvider       *string    `db:"oauth_provider"` // Set when the account was created through OAuth
	ConfirmationToken   *string    `db:"confirmation_token"`
	ConfirmedAt         *time.Time `db:"confirmed_at"`
	ResetPasswordToken  *string    `db:"reset_password_token"`
	ResetPasswordSentAt *time.Time `db:"reset_password_sent_at"`
	SignInCount         int        `db:"sign_in_count"`
	CurrentSignInAt     *time.Time `db:"current_sign_in_at"`
	LastSignInAt        *time.Time `db:"last_sign_in_at"`
	CurrentSignInIP     *string    `db:"current_sign_in_ip"`
	LastSignInIP        *string    `db:"last_sign_in_ip"`
	CreatedAt           time.Time  `db:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at"`
}

func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// IsConfirmed reports whether the pending confirmation token has been consumed.
func (u *User) IsConfirmed() bool {
	return u.ConfirmationToken == nil
}

// IsRecovering reports whether a password reset is in progress.
func (u *User) IsRecovering() bool {
	return u.ResetPasswordToken != nil && u.ResetPasswordSentAt != nil
}

// Sanitize strips credentials and pending tokens before the user leaves the service layer.
func (u *User) Sanitize() *User {
	clean := *u
	clean.PasswordHash = nil
	clean.ConfirmationToken = nil
	clean.ResetPasswordToken = nil
	return &clean
}
