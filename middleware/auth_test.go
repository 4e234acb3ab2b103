package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcs-suzini/club-backend/models"
	"github.com/tcs-suzini/club-backend/repositories"
	"github.com/tcs-suzini/club-backend/services"
)

func newTestAuthenticator(t *testing.T) (*Authenticator, *services.TokenService, *repositories.MemoryUserRepository) {
	t.Helper()
	tokens := services.NewTokenService("test-secret")
	users := repositories.NewMemoryUserRepository()
	return NewAuthenticator(tokens, users), tokens, users
}

func okHandler(hit *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hit = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticateMissingHeader(t *testing.T) {
	auth, _, _ := newTestAuthenticator(t)
	var hit bool

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	auth.Authenticate(okHandler(&hit)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.False(t, hit)
}

func TestAuthenticateMalformedHeader(t *testing.T) {
	auth, _, _ := newTestAuthenticator(t)
	var hit bool

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Token abc123")
	auth.Authenticate(okHandler(&hit)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.False(t, hit)
}

func TestAuthenticateExpiredToken(t *testing.T) {
	auth, tokens, users := newTestAuthenticator(t)
	user := &models.User{ID: "user-1", Email: "joueur@example.com"}
	require.NoError(t, users.Create(context.Background(), user))

	expired, err := tokens.Issue(user.ID, services.PurposeAccess, -time.Minute)
	require.NoError(t, err)

	var hit bool
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	auth.Authenticate(okHandler(&hit)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.False(t, hit)
}

func TestAuthenticateRejectsResetToken(t *testing.T) {
	auth, tokens, users := newTestAuthenticator(t)
	user := &models.User{ID: "user-1", Email: "joueur@example.com"}
	require.NoError(t, users.Create(context.Background(), user))

	// A password-reset token is not a login.
	reset, err := tokens.Issue(user.ID, services.PurposePasswordReset, time.Hour)
	require.NoError(t, err)

	var hit bool
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+reset)
	auth.Authenticate(okHandler(&hit)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.False(t, hit)
}

func TestAuthenticateDeletedUser(t *testing.T) {
	auth, tokens, _ := newTestAuthenticator(t)

	token, err := tokens.Issue("ghost", services.PurposeAccess, time.Hour)
	require.NoError(t, err)

	var hit bool
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	auth.Authenticate(okHandler(&hit)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.False(t, hit)
}

func TestAuthenticatePlacesUserInContext(t *testing.T) {
	auth, tokens, users := newTestAuthenticator(t)
	user := &models.User{ID: "user-1", Email: "joueur@example.com", Role: models.RoleUser}
	require.NoError(t, users.Create(context.Background(), user))

	token, err := tokens.Issue(user.ID, services.PurposeAccess, time.Hour)
	require.NoError(t, err)

	var got *models.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	auth.Authenticate(next).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.ID)
}

func TestRoleGates(t *testing.T) {
	tests := []struct {
		name       string
		role       models.UserRole
		gate       func(http.Handler) http.Handler
		wantStatus int
	}{
		{"user blocked from privileged", models.RoleUser, RequirePrivileged, http.StatusForbidden},
		{"referent passes privileged", models.RoleReferent, RequirePrivileged, http.StatusOK},
		{"admin passes privileged", models.RoleAdmin, RequirePrivileged, http.StatusOK},
		{"user blocked from referent", models.RoleUser, RequireReferent, http.StatusForbidden},
		{"admin blocked from referent", models.RoleAdmin, RequireReferent, http.StatusForbidden},
		{"referent passes referent", models.RoleReferent, RequireReferent, http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var hit bool
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			ctx := context.WithValue(req.Context(), userContextKey, &models.User{ID: "u", Role: tc.role})
			rr := httptest.NewRecorder()

			tc.gate(okHandler(&hit)).ServeHTTP(rr, req.WithContext(ctx))

			assert.Equal(t, tc.wantStatus, rr.Code)
			assert.Equal(t, tc.wantStatus == http.StatusOK, hit)
		})
	}
}

func TestRoleGateWithoutAuthentication(t *testing.T) {
	var hit bool
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	RequireReferent(okHandler(&hit)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.False(t, hit)
}
