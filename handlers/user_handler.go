package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/tcs-suzini/club-backend/middleware"
	"github.com/tcs-suzini/club-backend/services"
)

type UserHandler struct {
	users  services.UserService
	logger *slog.Logger
}

func NewUserHandler(users services.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		unauthorizedResponse(w, r, "authentification requise")
		return
	}

	profile, err := h.users.GetProfile(r.Context(), user)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, profile, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		unauthorizedResponse(w, r, "authentification requise")
		return
	}

	var patch services.UserPatch
	if err := readPatch(w, r, &patch); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	updated, err := h.users.UpdateSelf(r.Context(), user, patch)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, updated, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		unauthorizedResponse(w, r, "authentification requise")
		return
	}

	if err := h.users.DeleteUser(r.Context(), user.ID); err != nil {
		// The account may have been removed between authentication and
		// deletion, which is the outcome the caller wanted anyway.
		if !errors.Is(err, services.ErrUserNotFound) {
			mapServiceErrorToHTTP(w, r, err)
			return
		}
	}

	h.logger.Info("account deleted", slog.String("user_id", user.ID))
	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "compte supprimé"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *UserHandler) Rankings(w http.ResponseWriter, r *http.Request) {
	ranked, err := h.users.Rankings(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, ranked, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
