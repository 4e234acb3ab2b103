package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tcs-suzini/club-backend/middleware"
	"github.com/tcs-suzini/club-backend/services"
)

type TournamentHandler struct {
	tournaments services.TournamentService
	logger      *slog.Logger
}

func NewTournamentHandler(tournaments services.TournamentService, logger *slog.Logger) *TournamentHandler {
	return &TournamentHandler{tournaments: tournaments, logger: logger}
}

func (h *TournamentHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.tournaments.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, list, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateTournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournaments.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.logger.Info("tournament created",
		slog.String("tournament_id", tournament.ID),
		slog.String("name", tournament.Name))
	if err := writeJSON(w, http.StatusCreated, tournament, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch services.TournamentPatch
	if err := readPatch(w, r, &patch); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournaments.Update(r.Context(), id, patch)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, tournament, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) Register(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		unauthorizedResponse(w, r, "authentification requise")
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.tournaments.Register(r.Context(), id, user); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.logger.Info("tournament registration",
		slog.String("tournament_id", id),
		slog.String("user_id", user.ID))
	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "inscription confirmée"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
