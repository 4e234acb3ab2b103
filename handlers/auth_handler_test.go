package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcs-suzini/club-backend/repositories"
	"github.com/tcs-suzini/club-backend/services"
)

type noopMailer struct{}

func (noopMailer) SendPasswordReset(to, resetToken string) error { return nil }
func (noopMailer) SendReferentCode(to, code string) error        { return nil }

func newTestAuthHandler(t *testing.T) *AuthHandler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := services.NewAuthService(
		repositories.NewMemoryUserRepository(),
		repositories.NewMemoryReferentRequestRepository(),
		services.NewTokenService("test-secret"),
		noopMailer{},
		"club-secret",
		logger,
	)
	return NewAuthHandler(svc, logger)
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	handler(rr, req)
	return rr
}

func registerPayload() map[string]any {
	return map[string]any{
		"email":        "marie@example.com",
		"password":     "s3cret-pass",
		"nom":          "Durand",
		"prenom":       "Marie",
		"type_licence": "competition",
		"est_licencie": true,
	}
}

func TestRegisterEndpoint(t *testing.T) {
	h := newTestAuthHandler(t)

	rr := postJSON(t, h.Register, "/api/auth/register", registerPayload())
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID    string `json:"id"`
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.NotEmpty(t, resp.User.ID)
	assert.Equal(t, "marie@example.com", resp.User.Email)
	assert.Equal(t, "user", resp.User.Role)

	// The password hash never leaves the server.
	assert.NotContains(t, rr.Body.String(), "password_hash")
}

func TestRegisterEndpointDuplicate(t *testing.T) {
	h := newTestAuthHandler(t)

	rr := postJSON(t, h.Register, "/api/auth/register", registerPayload())
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = postJSON(t, h.Register, "/api/auth/register", registerPayload())
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "error")
}

func TestRegisterEndpointBadPayload(t *testing.T) {
	h := newTestAuthHandler(t)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader([]byte("{not json")))
	h.Register(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	bad := registerPayload()
	bad["password"] = "abc"
	rr = postJSON(t, h.Register, "/api/auth/register", bad)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLoginEndpoint(t *testing.T) {
	h := newTestAuthHandler(t)

	rr := postJSON(t, h.Register, "/api/auth/register", registerPayload())
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = postJSON(t, h.Login, "/api/auth/login", map[string]any{
		"email":    "marie@example.com",
		"password": "s3cret-pass",
	})
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = postJSON(t, h.Login, "/api/auth/login", map[string]any{
		"email":    "marie@example.com",
		"password": "wrong-pass",
	})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestForgotPasswordEndpointIsGeneric(t *testing.T) {
	h := newTestAuthHandler(t)

	rr := postJSON(t, h.Register, "/api/auth/register", registerPayload())
	require.Equal(t, http.StatusCreated, rr.Code)

	known := postJSON(t, h.ForgotPassword, "/api/auth/forgot-password", map[string]any{"email": "marie@example.com"})
	unknown := postJSON(t, h.ForgotPassword, "/api/auth/forgot-password", map[string]any{"email": "nobody@example.com"})

	// Identical responses: the endpoint does not reveal which emails exist.
	assert.Equal(t, http.StatusOK, known.Code)
	assert.Equal(t, http.StatusOK, unknown.Code)
	assert.Equal(t, known.Body.String(), unknown.Body.String())
}

func TestVerifyReferentEndpointWrongCode(t *testing.T) {
	h := newTestAuthHandler(t)

	rr := postJSON(t, h.RegisterReferent, "/api/auth/register-referent", map[string]any{
		"email":       "coach@example.com",
		"password":    "s3cret-pass",
		"nom":         "Martin",
		"prenom":      "Paul",
		"code_secret": "club-secret",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = postJSON(t, h.VerifyReferent, "/api/auth/verify-referent", map[string]any{
		"email": "coach@example.com",
		"code":  "wrong!",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRegisterReferentEndpointWrongSecret(t *testing.T) {
	h := newTestAuthHandler(t)

	rr := postJSON(t, h.RegisterReferent, "/api/auth/register-referent", map[string]any{
		"email":       "coach@example.com",
		"password":    "s3cret-pass",
		"nom":         "Martin",
		"prenom":      "Paul",
		"code_secret": "wrong",
	})
	assert.Equal(t, http.StatusForbidden, rr.Code)
}
