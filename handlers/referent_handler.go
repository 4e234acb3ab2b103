package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tcs-suzini/club-backend/middleware"
	"github.com/tcs-suzini/club-backend/services"
)

// ReferentHandler exposes member administration to referents.
type ReferentHandler struct {
	users  services.UserService
	logger *slog.Logger
}

func NewReferentHandler(users services.UserService, logger *slog.Logger) *ReferentHandler {
	return &ReferentHandler{users: users, logger: logger}
}

func (h *ReferentHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.users.ListUsers(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, members, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ReferentHandler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch services.MemberPatch
	if err := readPatch(w, r, &patch); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	member, err := h.users.UpdateUser(r.Context(), id, patch)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if caller, ok := middleware.UserFromContext(r.Context()); ok {
		h.logger.Info("member updated",
			slog.String("member_id", id),
			slog.String("by", caller.ID))
	}
	if err := writeJSON(w, http.StatusOK, member, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ReferentHandler) ToggleLicense(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	member, err := h.users.ToggleLicense(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, member, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ReferentHandler) DeleteMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.users.DeleteUser(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.logger.Info("member deleted", slog.String("member_id", id))
	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "membre supprimé"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
