package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fanaberia/fanaberia/internal/model"
	"github.com/fanaberia/fanaberia/internal/repository"
	"github.com/fanaberia/fanaberia/internal/token"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotConfirmed  = errors.New("email not confirmed")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrOAuthEmailMissing  = errors.New("oauth profile has no email")
)

type AuthService struct {
	userRepository           repository.UserRepository
	mailer                   Mailer
	tokenPasswordResetExpiry time.Duration
	now                      func() time.Time
	compare                  func(password, hash string) error
}

func NewAuthService(
	userRepository repository.UserRepository,
	mailer Mailer,
	tokenPasswordResetExpiry time.Duration,
) *AuthService {
	return &AuthService{
		userRepository:           userRepository,
		mailer:                   mailer,
		tokenPasswordResetExpiry: tokenPasswordResetExpiry,
		now:                      func() time.Time { return time.Now().UTC() },
		compare:                  comparePassword,
	}
}

// ValidateCredentials signs a user in with email and password. Unknown emails,
// accounts without a password and wrong passwords all yield
// ErrInvalidCredentials. A wrong password bumps the failure counter; a correct
// one on an unconfirmed account yields ErrEmailNotConfirmed.
func (s *AuthService) ValidateCredentials(email, password, ip string) (*model.User, error) {
	email = strings.TrimSpace(email)

	user, err := s.userRepository.ByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			_ = s.compare(password, dummyPasswordHash())
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.HasPassword() {
		_ = s.compare(password, dummyPasswordHash())
		return nil, ErrInvalidCredentials
	}

	err = s.compare(password, *user.PasswordHash)
	if err != nil {
		err = s.userRepository.IncrementSignInCount(user.ID, s.now())
		if err != nil {
			slog.Error("failed to record failed sign in", "error", err, "user_id", user.ID)
		}
		slog.Warn("sign in rejected", "reason", "password", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	if !user.IsConfirmed() {
		slog.Warn("sign in rejected", "reason", "not_confirmed", "user_id", user.ID)
		return nil, ErrEmailNotConfirmed
	}

	return s.signIn(user.ID, ip)
}

// signIn records a successful sign-in and returns the refreshed account
// without credentials.
func (s *AuthService) signIn(id int64, ip string) (*model.User, error) {
	err := s.userRepository.RecordSignIn(id, ip, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to record sign in: %w", err)
	}

	user, err := s.userRepository.ByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user.Sanitize(), nil
}

// SignUp creates an unconfirmed account and mails its confirmation link.
func (s *AuthService) SignUp(email, password string) (*model.User, error) {
	email = strings.TrimSpace(email)

	_, err := s.userRepository.ByEmail(email)
	if err == nil {
		return nil, ErrEmailAlreadyExists
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	confirmationToken, err := token.Unique(token.ConfirmationLength, s.userRepository.ConfirmationTokenExists)
	if err != nil {
		return nil, fmt.Errorf("failed to generate confirmation token: %w", err)
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	user := &model.User{
		Email:             email,
		PasswordHash:      &passwordHash,
		ConfirmationToken: &confirmationToken,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	err = s.userRepository.Create(user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	err = s.mailer.SendConfirmationEmail(user.Email, confirmationToken)
	if err != nil {
		slog.Warn("failed to send confirmation email", "error", err, "user_id", user.ID)
	}

	slog.Info("user signed up", "user_id", user.ID)
	return user.Sanitize(), nil
}

// Confirm consumes a confirmation token. It reports false for empty, unknown
// or already consumed tokens; confirmed_at is only ever set once.
func (s *AuthService) Confirm(confirmationToken string) (bool, error) {
	if confirmationToken == "" {
		return false, nil
	}

	ok, err := s.userRepository.Confirm(confirmationToken, s.now())
	if err != nil {
		return false, fmt.Errorf("failed to confirm user: %w", err)
	}
	return ok, nil
}

// IsRecoveryEligible reports whether email belongs to a confirmed account.
func (s *AuthService) IsRecoveryEligible(email string) (bool, error) {
	user, err := s.userRepository.ByEmail(strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get user: %w", err)
	}
	return user.IsConfirmed(), nil
}

// IssueRecoveryToken stores a fresh reset token for the account and returns it.
// A previously issued token is replaced.
func (s *AuthService) IssueRecoveryToken(email string) (string, error) {
	user, err := s.userRepository.ByEmail(strings.TrimSpace(email))
	if err != nil {
		return "", fmt.Errorf("failed to get user: %w", err)
	}

	recoveryToken, err := token.Unique(token.RecoveryLength, s.userRepository.ResetTokenExists)
	if err != nil {
		return "", fmt.Errorf("failed to generate recovery token: %w", err)
	}

	err = s.userRepository.SetResetToken(user.ID, recoveryToken, s.now())
	if err != nil {
		return "", fmt.Errorf("failed to store recovery token: %w", err)
	}

	slog.Info("recovery token issued", "user_id", user.ID)
	return recoveryToken, nil
}

// RequestRecovery issues and mails a recovery link when the email is eligible.
// The caller always gets the same outcome so accounts cannot be enumerated.
func (s *AuthService) RequestRecovery(email string) {
	eligible, err := s.IsRecoveryEligible(email)
	if err != nil {
		slog.Error("failed to check recovery eligibility", "error", err)
		return
	}
	if !eligible {
		slog.Info("recovery requested for ineligible email")
		return
	}

	recoveryToken, err := s.IssueRecoveryToken(email)
	if err != nil {
		slog.Error("failed to issue recovery token", "error", err)
		return
	}

	err = s.mailer.SendRecoveryEmail(strings.TrimSpace(email), recoveryToken)
	if err != nil {
		slog.Warn("failed to send recovery email", "error", err)
	}
}

// IsRecovering reports whether recoveryToken belongs to a confirmed account
// and was issued within the reset expiry window.
func (s *AuthService) IsRecovering(recoveryToken string) (bool, error) {
	if recoveryToken == "" {
		return false, nil
	}

	user, err := s.userRepository.ByResetToken(recoveryToken)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.IsRecovering() || !user.IsConfirmed() {
		return false, nil
	}
	return s.now().Before(user.ResetPasswordSentAt.Add(s.tokenPasswordResetExpiry)), nil
}

// CompleteRecovery sets a new password and consumes the token. It reports
// false when the token is not (or no longer) usable, including when a
// concurrent completion consumed it first.
func (s *AuthService) CompleteRecovery(recoveryToken, newPassword string) (bool, error) {
	recovering, err := s.IsRecovering(recoveryToken)
	if err != nil || !recovering {
		return false, err
	}

	passwordHash, err := hashPassword(newPassword)
	if err != nil {
		return false, fmt.Errorf("failed to hash password: %w", err)
	}

	ok, err := s.userRepository.ResetPassword(recoveryToken, passwordHash, s.now())
	if err != nil {
		return false, fmt.Errorf("failed to reset password: %w", err)
	}
	if ok {
		slog.Info("password recovered")
	}
	return ok, nil
}

// FindOrCreateOAuthUser resolves a provider-verified email to a local account.
// Existing accounts are confirmed if needed; new ones are created confirmed
// and without a password, so credential sign-in never matches them.
func (s *AuthService) FindOrCreateOAuthUser(email, provider, ip string) (*model.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrOAuthEmailMissing
	}

	user, err := s.userRepository.ByEmail(email)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to lookup user: %w", err)
	}

	if user == nil {
		user, err = s.createOAuthUser(email, provider)
		if err != nil {
			return nil, err
		}
	}

	if !user.IsConfirmed() {
		err = s.userRepository.ConfirmByID(user.ID, s.now())
		if err != nil {
			return nil, fmt.Errorf("failed to confirm user: %w", err)
		}
	}

	slog.Info("user authenticated via OAuth", "user_id", user.ID, "provider", provider)
	return s.signIn(user.ID, ip)
}

func (s *AuthService) createOAuthUser(email, provider string) (*model.User, error) {
	now := s.now()
	user := &model.User{
		Email:         email,
		OAuthProvider: &provider,
		ConfirmedAt:   &now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err := s.userRepository.Create(user)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		// Lost a race with a concurrent first sign-in for the same email.
		existing, lookupErr := s.userRepository.ByEmail(email)
		if lookupErr != nil {
			return nil, fmt.Errorf("failed to lookup user: %w", lookupErr)
		}
		return existing, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("new OAuth user created", "user_id", user.ID, "provider", provider)
	return user, nil
}

func (s *AuthService) DeleteUserByEmail(email string) error {
	err := s.userRepository.DeleteByEmail(email)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
