package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenServiceRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret")

	token, err := svc.Issue("user-123", PurposeAccess, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, purpose, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", subject)
	assert.Equal(t, PurposeAccess, purpose)
}

func TestTokenServicePreservesPurpose(t *testing.T) {
	svc := NewTokenService("test-secret")

	token, err := svc.Issue("user-123", PurposePasswordReset, time.Hour)
	require.NoError(t, err)

	_, purpose, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, PurposePasswordReset, purpose)
}

func TestTokenServiceExpired(t *testing.T) {
	svc := NewTokenService("test-secret")

	token, err := svc.Issue("user-123", PurposeAccess, -time.Minute)
	require.NoError(t, err)

	_, _, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenServiceWrongSecret(t *testing.T) {
	issuer := NewTokenService("secret-one")
	verifier := NewTokenService("secret-two")

	token, err := issuer.Issue("user-123", PurposeAccess, time.Hour)
	require.NoError(t, err)

	_, _, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenServiceGarbage(t *testing.T) {
	svc := NewTokenService("test-secret")

	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		_, _, err := svc.Verify(raw)
		assert.ErrorIs(t, err, ErrTokenInvalid, "input %q", raw)
	}
}
