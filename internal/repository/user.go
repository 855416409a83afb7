package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fanaberia/fanaberia/internal/model"
)

var (
	ErrUserNotFound = errors.New("user not found")
)

type UserRepository interface {
	Create(user *model.User) error
	ByID(id int64) (*model.User, error)
	ByEmail(email string) (*model.User, error)
	ByResetToken(token string) (*model.User, error)
	All() ([]*model.User, error)
	ConfirmationTokenExists(token string) (bool, error)
	ResetTokenExists(token string) (bool, error)
	IncrementSignInCount(id int64, at time.Time) error
	RecordSignIn(id int64, ip string, at time.Time) error
	Confirm(token string, at time.Time) (bool, error)
	ConfirmByID(id int64, at time.Time) error
	SetResetToken(id int64, token string, sentAt time.Time) error
	ResetPassword(token, passwordHash string, at time.Time) (bool, error)
	DeleteByEmail(email string) error
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	query := `INSERT INTO users (email, password_hash, oauth_provider, confirmation_token, confirmed_at, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`

	err := r.db.Get(&user.ID, query,
		user.Email,
		user.PasswordHash,
		user.OAuthProvider,
		user.ConfirmationToken,
		user.ConfirmedAt,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (r *userRepository) ByID(id int64) (*model.User, error) {
	return r.one(`SELECT * FROM users WHERE id = $1`, id)
}

func (r *userRepository) ByEmail(email string) (*model.User, error) {
	return r.one(`SELECT * FROM users WHERE email = $1`, email)
}

func (r *userRepository) ByResetToken(token string) (*model.User, error) {
	return r.one(`SELECT * FROM users WHERE reset_password_token = $1`, token)
}

func (r *userRepository) one(query string, args ...any) (*model.User, error) {
	user := &model.User{}
	err := r.db.Get(user, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) All() ([]*model.User, error) {
	var users []*model.User
	err := r.db.Select(&users, `SELECT * FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) ConfirmationTokenExists(token string) (bool, error) {
	return r.exists(`SELECT COUNT(*) FROM users WHERE confirmation_token = $1`, token)
}

func (r *userRepository) ResetTokenExists(token string) (bool, error) {
	return r.exists(`SELECT COUNT(*) FROM users WHERE reset_password_token = $1`, token)
}

func (r *userRepository) exists(query string, args ...any) (bool, error) {
	var n int
	err := r.db.Get(&n, query, args...)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *userRepository) IncrementSignInCount(id int64, at time.Time) error {
	query := `UPDATE users SET sign_in_count = sign_in_count + 1, updated_at = $1 WHERE id = $2`

	result, err := r.db.Exec(query, at, id)
	if err != nil {
		return err
	}
	ok, err := affected(result)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUserNotFound
	}
	return nil
}

// RecordSignIn rotates the current sign-in stamp into the last one, resets the
// failure counter and drops any pending password reset, in a single statement.
func (r *userRepository) RecordSignIn(id int64, ip string, at time.Time) error {
	query := `
		UPDATE users SET
			last_sign_in_ip = current_sign_in_ip,
			current_sign_in_ip = $1,
			last_sign_in_at = COALESCE(current_sign_in_at, $2),
			current_sign_in_at = $2,
			sign_in_count = 0,
			reset_password_token = NULL,
			reset_password_sent_at = NULL,
			updated_at = $2
		WHERE id = $3
	`

	result, err := r.db.Exec(query, ip, at, id)
	if err != nil {
		return err
	}
	ok, err := affected(result)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUserNotFound
	}
	return nil
}

// Confirm consumes a confirmation token. It reports false when no account
// holds the token, which includes tokens that were already consumed.
func (r *userRepository) Confirm(token string, at time.Time) (bool, error) {
	query := `
		UPDATE users
		SET confirmed_at = COALESCE(confirmed_at, $1),
			confirmation_token = NULL,
			updated_at = $1
		WHERE confirmation_token = $2
	`

	result, err := r.db.Exec(query, at, token)
	if err != nil {
		return false, err
	}
	return affected(result)
}

func (r *userRepository) ConfirmByID(id int64, at time.Time) error {
	query := `
		UPDATE users
		SET confirmed_at = COALESCE(confirmed_at, $1),
			confirmation_token = NULL,
			updated_at = $1
		WHERE id = $2
	`

	_, err := r.db.Exec(query, at, id)
	return err
}

func (r *userRepository) SetResetToken(id int64, token string, sentAt time.Time) error {
	query := `UPDATE users SET reset_password_token = $1, reset_password_sent_at = $2, updated_at = $2 WHERE id = $3`

	result, err := r.db.Exec(query, token, sentAt, id)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("reset token collision: %w", err)
		}
		return err
	}
	ok, err := affected(result)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUserNotFound
	}
	return nil
}

// ResetPassword sets a new password hash and clears the reset pair atomically.
// Only confirmed accounts with an issued token match. A second call with the
// same token matches zero rows and reports false.
func (r *userRepository) ResetPassword(token, passwordHash string, at time.Time) (bool, error) {
	query := `
		UPDATE users
		SET password_hash = $1,
			reset_password_token = NULL,
			reset_password_sent_at = NULL,
			updated_at = $2
		WHERE reset_password_token = $3
		AND reset_password_sent_at IS NOT NULL
		AND confirmation_token IS NULL
	`

	result, err := r.db.Exec(query, passwordHash, at, token)
	if err != nil {
		return false, err
	}
	return affected(result)
}

func (r *userRepository) DeleteByEmail(email string) error {
	result, err := r.db.Exec(`DELETE FROM users WHERE email = $1`, email)
	if err != nil {
		return err
	}
	ok, err := affected(result)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUserNotFound
	}
	return nil
}
