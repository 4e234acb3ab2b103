package handlers

import (
	"log/slog"
	"net/http"

	"github.com/tcs-suzini/club-backend/services"
)

type AuthHandler struct {
	auth   services.AuthService
	logger *slog.Logger
}

func NewAuthHandler(auth services.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	user, token, err := h.auth.Register(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.logger.Info("user registered", slog.String("user_id", user.ID), slog.String("email", user.Email))
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"token": token, "user": user}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input services.LoginInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	user, token, err := h.auth.Login(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"token": token, "user": user}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email string `json:"email"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.auth.ForgotPassword(r.Context(), input.Email); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	// Unknown addresses got the same nil result as known ones, so the
	// endpoint cannot be used to probe for accounts.
	msg := "si un compte existe avec cet email, un lien de réinitialisation a été envoyé"
	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": msg}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.auth.ResetPassword(r.Context(), input.Token, input.NewPassword); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "mot de passe réinitialisé"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AuthHandler) RegisterReferent(w http.ResponseWriter, r *http.Request) {
	var input services.ReferentRegisterInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.auth.RegisterReferent(r.Context(), input); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	msg := "un code de vérification a été envoyé par email"
	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": msg}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AuthHandler) VerifyReferent(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	user, token, err := h.auth.VerifyReferent(r.Context(), input.Email, input.Code)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.logger.Info("referent account verified", slog.String("user_id", user.ID))
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"token": token, "user": user}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
