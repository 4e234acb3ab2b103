package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcs-suzini/club-backend/models"
	"github.com/tcs-suzini/club-backend/repositories"
)

type stubMailer struct {
	mu     sync.Mutex
	resets []string
	codes  []string
}

func (m *stubMailer) SendPasswordReset(to, resetToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets = append(m.resets, to)
	return nil
}

func (m *stubMailer) SendReferentCode(to, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes = append(m.codes, to)
	return nil
}

func newTestAuthService(t *testing.T) (AuthService, *repositories.MemoryUserRepository, *repositories.MemoryReferentRequestRepository, *TokenService) {
	t.Helper()
	users := repositories.NewMemoryUserRepository()
	requests := repositories.NewMemoryReferentRequestRepository()
	tokens := NewTokenService("test-secret")
	svc := NewAuthService(users, requests, tokens, &stubMailer{}, "club-secret", testLogger())
	return svc, users, requests, tokens
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		Email:       "marie@example.com",
		Password:    "s3cret-pass",
		LastName:    "Durand",
		FirstName:   "Marie",
		LicenceType: models.LicenceCompetition,
		Licensed:    true,
	}
}

func TestRegisterCreatesUserWithToken(t *testing.T) {
	svc, _, _, tokens := newTestAuthService(t)

	user, token, err := svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "marie@example.com", user.Email)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.True(t, user.Licensed)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)

	subject, purpose, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, subject)
	assert.Equal(t, PurposeAccess, purpose)
}

func TestRegisterDuplicateEmailCaseInsensitive(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)

	_, _, err := svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	dup := validRegisterInput()
	dup.Email = "MARIE@example.com"
	_, _, err = svc.Register(context.Background(), dup)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)
	ctx := context.Background()

	short := validRegisterInput()
	short.Password = "abc"
	_, _, err := svc.Register(ctx, short)
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	badEmail := validRegisterInput()
	badEmail.Email = "not-an-email"
	_, _, err = svc.Register(ctx, badEmail)
	assert.ErrorIs(t, err, ErrValidationFailed)

	badLicence := validRegisterInput()
	badLicence.LicenceType = "gold"
	_, _, err = svc.Register(ctx, badLicence)
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestLogin(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)
	ctx := context.Background()

	registered, _, err := svc.Register(ctx, validRegisterInput())
	require.NoError(t, err)

	user, token, err := svc.Login(ctx, LoginInput{Email: "marie@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, token)

	_, _, err = svc.Login(ctx, LoginInput{Email: "marie@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestForgotPasswordUnknownEmailIsSilent(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)

	err := svc.ForgotPassword(context.Background(), "nobody@example.com")
	assert.NoError(t, err)
}

func TestResetPassword(t *testing.T) {
	svc, _, _, tokens := newTestAuthService(t)
	ctx := context.Background()

	user, _, err := svc.Register(ctx, validRegisterInput())
	require.NoError(t, err)

	resetToken, err := tokens.Issue(user.ID, PurposePasswordReset, time.Hour)
	require.NoError(t, err)

	require.NoError(t, svc.ResetPassword(ctx, resetToken, "new-password"))

	_, _, err = svc.Login(ctx, LoginInput{Email: user.Email, Password: "s3cret-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, LoginInput{Email: user.Email, Password: "new-password"})
	assert.NoError(t, err)
}

func TestResetPasswordRejectsAccessToken(t *testing.T) {
	svc, _, _, tokens := newTestAuthService(t)
	ctx := context.Background()

	user, _, err := svc.Register(ctx, validRegisterInput())
	require.NoError(t, err)

	// A login token must never pass where a reset token is expected.
	accessToken, err := tokens.Issue(user.ID, PurposeAccess, time.Hour)
	require.NoError(t, err)

	err = svc.ResetPassword(ctx, accessToken, "new-password")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestResetPasswordExpiredToken(t *testing.T) {
	svc, _, _, tokens := newTestAuthService(t)
	ctx := context.Background()

	user, _, err := svc.Register(ctx, validRegisterInput())
	require.NoError(t, err)

	expired, err := tokens.Issue(user.ID, PurposePasswordReset, -time.Minute)
	require.NoError(t, err)

	err = svc.ResetPassword(ctx, expired, "new-password")
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestRegisterReferentRequiresSecretCode(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)

	err := svc.RegisterReferent(context.Background(), ReferentRegisterInput{
		Email:      "coach@example.com",
		Password:   "s3cret-pass",
		LastName:   "Martin",
		FirstName:  "Paul",
		SecretCode: "wrong-code",
	})
	assert.ErrorIs(t, err, ErrInvalidReferentCode)
}

func TestReferentVerificationFlow(t *testing.T) {
	svc, _, requests, _ := newTestAuthService(t)
	ctx := context.Background()

	err := svc.RegisterReferent(ctx, ReferentRegisterInput{
		Email:      "coach@example.com",
		Password:   "s3cret-pass",
		LastName:   "Martin",
		FirstName:  "Paul",
		SecretCode: "club-secret",
	})
	require.NoError(t, err)

	request, err := requests.GetByEmail(ctx, "coach@example.com")
	require.NoError(t, err)
	require.Len(t, request.VerificationCode, 6)

	_, _, err = svc.VerifyReferent(ctx, "coach@example.com", "000000")
	if request.VerificationCode != "000000" {
		assert.ErrorIs(t, err, ErrVerificationFailed)
	}

	user, token, err := svc.VerifyReferent(ctx, "coach@example.com", request.VerificationCode)
	require.NoError(t, err)
	assert.Equal(t, models.RoleReferent, user.Role)
	assert.True(t, user.Licensed)
	assert.NotEmpty(t, token)

	// The pending request is consumed: the same code cannot be replayed.
	_, _, err = svc.VerifyReferent(ctx, "coach@example.com", request.VerificationCode)
	assert.ErrorIs(t, err, ErrVerificationFailed)
}

func TestVerifyReferentExpiredRequest(t *testing.T) {
	svc, _, requests, _ := newTestAuthService(t)
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, requests.Upsert(ctx, &models.ReferentRequest{
		Email:            "coach@example.com",
		PasswordHash:     "irrelevant",
		VerificationCode: "123456",
		CreatedAt:        now.Add(-time.Hour),
		ExpiresAt:        now.Add(-45 * time.Minute),
	}))

	_, _, err := svc.VerifyReferent(ctx, "coach@example.com", "123456")
	assert.ErrorIs(t, err, ErrVerificationFailed)
}

func TestRegisterReferentReplacesPendingRequest(t *testing.T) {
	svc, _, requests, _ := newTestAuthService(t)
	ctx := context.Background()

	input := ReferentRegisterInput{
		Email:      "coach@example.com",
		Password:   "s3cret-pass",
		LastName:   "Martin",
		FirstName:  "Paul",
		SecretCode: "club-secret",
	}
	require.NoError(t, svc.RegisterReferent(ctx, input))
	first, err := requests.GetByEmail(ctx, "coach@example.com")
	require.NoError(t, err)

	require.NoError(t, svc.RegisterReferent(ctx, input))
	second, err := requests.GetByEmail(ctx, "coach@example.com")
	require.NoError(t, err)

	// One pending request per email: the second submission replaced the first.
	assert.False(t, second.CreatedAt.Before(first.CreatedAt))
}
