package handlers

import (
	"net/http"

	"github.com/tcs-suzini/club-backend/services"
)

type AchievementHandler struct {
	achievements services.AchievementService
}

func NewAchievementHandler(achievements services.AchievementService) *AchievementHandler {
	return &AchievementHandler{achievements: achievements}
}

func (h *AchievementHandler) ListCatalog(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.achievements.ListCatalog(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, catalog, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
