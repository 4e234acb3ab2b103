package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tcs-suzini/club-backend/services"
)

type TrainingHandler struct {
	trainings services.TrainingService
	logger    *slog.Logger
}

func NewTrainingHandler(trainings services.TrainingService, logger *slog.Logger) *TrainingHandler {
	return &TrainingHandler{trainings: trainings, logger: logger}
}

func (h *TrainingHandler) List(w http.ResponseWriter, r *http.Request) {
	slots, err := h.trainings.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, slots, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TrainingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.TrainingSlotInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	slot, err := h.trainings.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.logger.Info("training slot created", slog.String("schedule_id", slot.ID))
	if err := writeJSON(w, http.StatusCreated, slot, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TrainingHandler) Replace(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var input services.TrainingSlotInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	slot, err := h.trainings.Replace(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, slot, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TrainingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.trainings.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "créneau supprimé"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
