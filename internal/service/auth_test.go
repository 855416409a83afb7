package service

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/fanaberia/fanaberia/internal/dbtest"
	"github.com/fanaberia/fanaberia/internal/model"
	"github.com/fanaberia/fanaberia/internal/repository"
)

type sentEmail struct {
	kind  string
	to    string
	token string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentEmail
	err  error
}

func (m *fakeMailer) SendConfirmationEmail(email, token string) error {
	return m.record("confirmation", email, token)
}

func (m *fakeMailer) SendRecoveryEmail(email, token string) error {
	return m.record("recovery", email, token)
}

func (m *fakeMailer) record(kind, to, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentEmail{kind: kind, to: to, token: token})
	return m.err
}

type authFixture struct {
	service *AuthService
	users   repository.UserRepository
	mailer  *fakeMailer
	now     time.Time
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	users := repository.NewUserRepository(dbtest.Open(t))
	f := &authFixture{
		users:  users,
		mailer: &fakeMailer{},
		now:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	f.service = NewAuthService(users, f.mailer, time.Hour)
	f.service.now = func() time.Time { return f.now }
	return f
}

// confirmedUser signs up and confirms an account with the given password.
func (f *authFixture) confirmedUser(t *testing.T, email, password string) *model.User {
	t.Helper()

	_, err := f.service.SignUp(email, password)
	require.NoError(t, err)

	user, err := f.users.ByEmail(email)
	require.NoError(t, err)
	ok, err := f.service.Confirm(*user.ConfirmationToken)
	require.NoError(t, err)
	require.True(t, ok)

	user, err = f.users.ByEmail(email)
	require.NoError(t, err)
	return user
}

func TestSignUpSendsConfirmation(t *testing.T) {
	f := newAuthFixture(t)

	user, err := f.service.SignUp("new@test.dev", "Secret1")
	require.NoError(t, err)
	assert.Nil(t, user.PasswordHash)

	stored, err := f.users.ByEmail("new@test.dev")
	require.NoError(t, err)
	require.NotNil(t, stored.ConfirmationToken)
	assert.Len(t, *stored.ConfirmationToken, 64)
	assert.Nil(t, stored.ConfirmedAt)
	assert.NotEqual(t, "Secret1", *stored.PasswordHash)

	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, sentEmail{kind: "confirmation", to: "new@test.dev", token: *stored.ConfirmationToken}, f.mailer.sent[0])
}

func TestSignUpRejectsExistingEmail(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.service.SignUp("dup@test.dev", "Secret1")
	require.NoError(t, err)

	_, err = f.service.SignUp("dup@test.dev", "Secret2")
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestSignUpSurvivesDeliveryFailure(t *testing.T) {
	f := newAuthFixture(t)
	f.mailer.err = errors.New("smtp down")

	_, err := f.service.SignUp("fail@test.dev", "Secret1")
	require.NoError(t, err)

	_, err = f.users.ByEmail("fail@test.dev")
	assert.NoError(t, err)
}

func TestConfirmIsIdempotent(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.service.SignUp("c@test.dev", "Secret1")
	require.NoError(t, err)
	user, err := f.users.ByEmail("c@test.dev")
	require.NoError(t, err)
	confirmationToken := *user.ConfirmationToken

	ok, err := f.service.Confirm(confirmationToken)
	require.NoError(t, err)
	assert.True(t, ok)

	confirmed, err := f.users.ByEmail("c@test.dev")
	require.NoError(t, err)
	require.NotNil(t, confirmed.ConfirmedAt)
	firstConfirmedAt := *confirmed.ConfirmedAt

	f.now = f.now.Add(time.Hour)
	ok, err = f.service.Confirm(confirmationToken)
	require.NoError(t, err)
	assert.False(t, ok)

	again, err := f.users.ByEmail("c@test.dev")
	require.NoError(t, err)
	assert.True(t, firstConfirmedAt.Equal(*again.ConfirmedAt))

	ok, err = f.service.Confirm("")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestValidateCredentials(t *testing.T) {
	f := newAuthFixture(t)
	f.confirmedUser(t, "u@test.dev", "Secret1")

	_, err := f.service.ValidateCredentials("missing@test.dev", "Secret1", "1.1.1.1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.service.ValidateCredentials("u@test.dev", "Wrong1", "1.1.1.1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	user, err := f.service.ValidateCredentials("u@test.dev", "Secret1", "1.1.1.1")
	require.NoError(t, err)
	assert.Equal(t, "u@test.dev", user.Email)
	assert.Nil(t, user.PasswordHash)
	require.NotNil(t, user.CurrentSignInIP)
	assert.Equal(t, "1.1.1.1", *user.CurrentSignInIP)
}

func TestRejectedCredentialsCostOneComparison(t *testing.T) {
	f := newAuthFixture(t)
	f.confirmedUser(t, "u@test.dev", "Secret1")
	_, err := f.service.FindOrCreateOAuthUser("g@test.dev", "google", "1.1.1.1")
	require.NoError(t, err)

	var hashes []string
	f.service.compare = func(password, hash string) error {
		hashes = append(hashes, hash)
		return comparePassword(password, hash)
	}

	for _, email := range []string{"missing@test.dev", "g@test.dev", "u@test.dev"} {
		_, err := f.service.ValidateCredentials(email, "Wrong1", "1.1.1.1")
		assert.ErrorIs(t, err, ErrInvalidCredentials, email)
	}

	require.Len(t, hashes, 3)
	assert.Equal(t, dummyPasswordHash(), hashes[0])
	assert.Equal(t, dummyPasswordHash(), hashes[1])
	assert.NotEqual(t, dummyPasswordHash(), hashes[2])

	cost, err := bcrypt.Cost([]byte(dummyPasswordHash()))
	require.NoError(t, err)
	assert.Equal(t, passwordCost, cost)
}

func TestAdminUnknownEmailCostsOneComparison(t *testing.T) {
	admins := NewAdminService(repository.NewAdminRepository(dbtest.Open(t)))

	var hashes []string
	admins.compare = func(password, hash string) error {
		hashes = append(hashes, hash)
		return comparePassword(password, hash)
	}

	_, err := admins.ValidateCredentials("nobody@test.dev", "Secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, []string{dummyPasswordHash()}, hashes)
}

func TestValidateCredentialsRequiresConfirmation(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.service.SignUp("pending@test.dev", "Secret1")
	require.NoError(t, err)

	_, err = f.service.ValidateCredentials("pending@test.dev", "Wrong1", "1.1.1.1")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "wrong password is reported before confirmation state")

	_, err = f.service.ValidateCredentials("pending@test.dev", "Secret1", "1.1.1.1")
	assert.ErrorIs(t, err, ErrEmailNotConfirmed)
}

func TestSignInCounterResetsOnSuccess(t *testing.T) {
	f := newAuthFixture(t)
	f.confirmedUser(t, "count@test.dev", "Secret1")

	const failures = 4
	for range failures {
		_, err := f.service.ValidateCredentials("count@test.dev", "Wrong1", "1.1.1.1")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}

	stored, err := f.users.ByEmail("count@test.dev")
	require.NoError(t, err)
	assert.Equal(t, failures, stored.SignInCount)

	_, err = f.service.ValidateCredentials("count@test.dev", "Secret1", "1.1.1.1")
	require.NoError(t, err)

	stored, err = f.users.ByEmail("count@test.dev")
	require.NoError(t, err)
	assert.Equal(t, 0, stored.SignInCount)
}

func TestSignInRotatesStamps(t *testing.T) {
	f := newAuthFixture(t)
	f.confirmedUser(t, "rot@test.dev", "Secret1")

	first := f.now
	_, err := f.service.ValidateCredentials("rot@test.dev", "Secret1", "1.1.1.1")
	require.NoError(t, err)

	f.now = f.now.Add(time.Hour)
	user, err := f.service.ValidateCredentials("rot@test.dev", "Secret1", "2.2.2.2")
	require.NoError(t, err)

	assert.Equal(t, "2.2.2.2", *user.CurrentSignInIP)
	assert.Equal(t, "1.1.1.1", *user.LastSignInIP)
	assert.True(t, f.now.Equal(*user.CurrentSignInAt))
	assert.True(t, first.Equal(*user.LastSignInAt))
}

func TestSignInInvalidatesPendingRecovery(t *testing.T) {
	f := newAuthFixture(t)
	f.confirmedUser(t, "r@test.dev", "Secret1")

	recoveryToken, err := f.service.IssueRecoveryToken("r@test.dev")
	require.NoError(t, err)

	_, err = f.service.ValidateCredentials("r@test.dev", "Secret1", "1.1.1.1")
	require.NoError(t, err)

	recovering, err := f.service.IsRecovering(recoveryToken)
	require.NoError(t, err)
	assert.False(t, recovering)
}

func TestRecoveryLifecycle(t *testing.T) {
	f := newAuthFixture(t)
	f.confirmedUser(t, "rec@test.dev", "Secret1")

	f.service.RequestRecovery("rec@test.dev")
	require.Len(t, f.mailer.sent, 2)
	sent := f.mailer.sent[1]
	assert.Equal(t, "recovery", sent.kind)
	assert.Len(t, sent.token, 20)

	recovering, err := f.service.IsRecovering(sent.token)
	require.NoError(t, err)
	assert.True(t, recovering)

	ok, err := f.service.CompleteRecovery(sent.token, "Changed2")
	require.NoError(t, err)
	assert.True(t, ok)

	recovering, err = f.service.IsRecovering(sent.token)
	require.NoError(t, err)
	assert.False(t, recovering)

	ok, err = f.service.CompleteRecovery(sent.token, "Another3")
	require.NoError(t, err)
	assert.False(t, ok, "token is single use")

	_, err = f.service.ValidateCredentials("rec@test.dev", "Changed2", "1.1.1.1")
	assert.NoError(t, err)
	_, err = f.service.ValidateCredentials("rec@test.dev", "Another3", "1.1.1.1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRecoveryTokenExpires(t *testing.T) {
	f := newAuthFixture(t)
	f.confirmedUser(t, "exp@test.dev", "Secret1")

	recoveryToken, err := f.service.IssueRecoveryToken("exp@test.dev")
	require.NoError(t, err)

	f.now = f.now.Add(61 * time.Minute)

	recovering, err := f.service.IsRecovering(recoveryToken)
	require.NoError(t, err)
	assert.False(t, recovering)

	ok, err := f.service.CompleteRecovery(recoveryToken, "Changed2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRequestRecoveryIsEnumerationSafe(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.service.SignUp("unconfirmed@test.dev", "Secret1")
	require.NoError(t, err)
	f.mailer.sent = nil

	for _, email := range []string{"nobody@test.dev", "unconfirmed@test.dev"} {
		eligible, err := f.service.IsRecoveryEligible(email)
		require.NoError(t, err)
		assert.False(t, eligible)

		f.service.RequestRecovery(email)
	}

	assert.Empty(t, f.mailer.sent)
	stored, err := f.users.ByEmail("unconfirmed@test.dev")
	require.NoError(t, err)
	assert.Nil(t, stored.ResetPasswordToken)
	assert.Nil(t, stored.ResetPasswordSentAt)
}

func TestConcurrentRecoveryCompletion(t *testing.T) {
	f := newAuthFixture(t)
	f.confirmedUser(t, "race@test.dev", "Secret1")

	recoveryToken, err := f.service.IssueRecoveryToken("race@test.dev")
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]bool, 2)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := f.service.CompleteRecovery(recoveryToken, "Changed2")
			assert.NoError(t, err)
			results[i] = ok
		}()
	}
	wg.Wait()

	wins := 0
	for _, ok := range results {
		if ok {
			wins++
		}
	}
	assert.Equal(t, 1, wins)
}

func TestFindOrCreateOAuthUserConfirmsExisting(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.service.SignUp("u@test", "Secret1")
	require.NoError(t, err)
	before, err := f.users.ByEmail("u@test")
	require.NoError(t, err)
	require.NotNil(t, before.ConfirmationToken)

	user, err := f.service.FindOrCreateOAuthUser("u@test", "google", "1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, before.ID, user.ID)

	after, err := f.users.ByEmail("u@test")
	require.NoError(t, err)
	assert.Nil(t, after.ConfirmationToken)
	assert.NotNil(t, after.ConfirmedAt)
	assert.Equal(t, "1.2.3.4", *after.CurrentSignInIP)

	all, err := f.users.All()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestFindOrCreateOAuthUserCreatesPasswordlessAccount(t *testing.T) {
	f := newAuthFixture(t)

	first, err := f.service.FindOrCreateOAuthUser("g@test.dev", "google", "1.2.3.4")
	require.NoError(t, err)
	second, err := f.service.FindOrCreateOAuthUser("g@test.dev", "google", "1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	stored, err := f.users.ByEmail("g@test.dev")
	require.NoError(t, err)
	assert.False(t, stored.HasPassword())
	assert.Equal(t, "google", *stored.OAuthProvider)
	assert.NotNil(t, stored.ConfirmedAt)

	_, err = f.service.ValidateCredentials("g@test.dev", "", "1.2.3.4")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.service.FindOrCreateOAuthUser("  ", "google", "1.2.3.4")
	assert.ErrorIs(t, err, ErrOAuthEmailMissing)
}

func TestDeleteUserByEmail(t *testing.T) {
	f := newAuthFixture(t)
	f.confirmedUser(t, "del@test.dev", "Secret1")

	require.NoError(t, f.service.DeleteUserByEmail("del@test.dev"))
	_, err := f.users.ByEmail("del@test.dev")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	assert.ErrorIs(t, f.service.DeleteUserByEmail("del@test.dev"), repository.ErrUserNotFound)
}
