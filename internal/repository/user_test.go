package repository_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fanaberia/fanaberia/internal/dbtest"
	"github.com/fanaberia/fanaberia/internal/model"
	"github.com/fanaberia/fanaberia/internal/repository"
)

func strPtr(s string) *string { return &s }

func newUser(t *testing.T, repo repository.UserRepository, email string, confirmationToken *string) *model.User {
	t.Helper()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	user := &model.User{
		Email:             email,
		PasswordHash:      strPtr("hash"),
		ConfirmationToken: confirmationToken,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	require.NoError(t, repo.Create(user))
	require.NotZero(t, user.ID)
	return user
}

func TestUserCreateRejectsDuplicateEmail(t *testing.T) {
	repo := repository.NewUserRepository(dbtest.Open(t))
	newUser(t, repo, "a@test", nil)

	err := repo.Create(&model.User{Email: "a@test", CreatedAt: time.Now(), UpdatedAt: time.Now()})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
}

func TestUserLookupNotFound(t *testing.T) {
	repo := repository.NewUserRepository(dbtest.Open(t))

	_, err := repo.ByEmail("missing@test")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
	_, err = repo.ByID(42)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
	_, err = repo.ByResetToken("nope")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestRecordSignInRotatesStamps(t *testing.T) {
	repo := repository.NewUserRepository(dbtest.Open(t))
	user := newUser(t, repo, "a@test", nil)

	first := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	second := first.Add(24 * time.Hour)

	require.NoError(t, repo.IncrementSignInCount(user.ID, first))
	require.NoError(t, repo.SetResetToken(user.ID, "reset-token", first))
	require.NoError(t, repo.RecordSignIn(user.ID, "1.1.1.1", first))

	got, err := repo.ByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.SignInCount)
	assert.Equal(t, "1.1.1.1", *got.CurrentSignInIP)
	assert.Nil(t, got.LastSignInIP)
	require.NotNil(t, got.LastSignInAt)
	assert.True(t, got.LastSignInAt.Equal(first))
	assert.Nil(t, got.ResetPasswordToken)
	assert.Nil(t, got.ResetPasswordSentAt)

	require.NoError(t, repo.RecordSignIn(user.ID, "2.2.2.2", second))

	got, err = repo.ByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "2.2.2.2", *got.CurrentSignInIP)
	assert.Equal(t, "1.1.1.1", *got.LastSignInIP)
	assert.True(t, got.CurrentSignInAt.Equal(second))
	assert.True(t, got.LastSignInAt.Equal(first))
}

func TestConfirmConsumesTokenOnce(t *testing.T) {
	repo := repository.NewUserRepository(dbtest.Open(t))
	user := newUser(t, repo, "a@test", strPtr("confirm-me"))
	at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	ok, err := repo.Confirm("confirm-me", at)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Confirm("confirm-me", at.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.ByID(user.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ConfirmationToken)
	require.NotNil(t, got.ConfirmedAt)
	assert.True(t, got.ConfirmedAt.Equal(at))
}

func TestResetPasswordIsSingleUse(t *testing.T) {
	repo := repository.NewUserRepository(dbtest.Open(t))
	user := newUser(t, repo, "a@test", nil)
	at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.SetResetToken(user.ID, "reset-token", at))

	ok, err := repo.ResetPassword("reset-token", "new-hash", at)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.ResetPassword("reset-token", "other-hash", at)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.ByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", *got.PasswordHash)
	assert.False(t, got.IsRecovering())
}

func TestResetPasswordIgnoresUnconfirmedAccounts(t *testing.T) {
	repo := repository.NewUserRepository(dbtest.Open(t))
	user := newUser(t, repo, "a@test", strPtr("pending"))
	at := time.Now().UTC()

	require.NoError(t, repo.SetResetToken(user.ID, "reset-token", at))

	ok, err := repo.ResetPassword("reset-token", "new-hash", at)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTokenExistence(t *testing.T) {
	repo := repository.NewUserRepository(dbtest.Open(t))
	user := newUser(t, repo, "a@test", strPtr("confirm-me"))
	require.NoError(t, repo.SetResetToken(user.ID, "reset-token", time.Now().UTC()))

	exists, err := repo.ConfirmationTokenExists("confirm-me")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ResetTokenExists("reset-token")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ResetTokenExists("other")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDeleteByEmail(t *testing.T) {
	repo := repository.NewUserRepository(dbtest.Open(t))
	newUser(t, repo, "a@test", nil)

	require.NoError(t, repo.DeleteByEmail("a@test"))
	assert.ErrorIs(t, repo.DeleteByEmail("a@test"), repository.ErrUserNotFound)
}
