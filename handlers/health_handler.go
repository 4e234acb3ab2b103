package handlers

import "net/http"

type HealthHandler struct {
	storeBackend string
}

func NewHealthHandler(storeBackend string) *HealthHandler {
	return &HealthHandler{storeBackend: storeBackend}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	payload := jsonResponse{
		"status": "ok",
		"store":  h.storeBackend,
	}
	if err := writeJSON(w, http.StatusOK, payload, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
