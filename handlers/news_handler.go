package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tcs-suzini/club-backend/middleware"
	"github.com/tcs-suzini/club-backend/services"
)

const maxImageBytes = 10 << 20 // 10MB

type NewsHandler struct {
	news   services.NewsService
	logger *slog.Logger
}

func NewNewsHandler(news services.NewsService, logger *slog.Logger) *NewsHandler {
	return &NewsHandler{news: news, logger: logger}
}

func (h *NewsHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.news.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, list, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *NewsHandler) Create(w http.ResponseWriter, r *http.Request) {
	author, ok := middleware.UserFromContext(r.Context())
	if !ok {
		unauthorizedResponse(w, r, "authentification requise")
		return
	}

	var input services.CreateNewsInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	article, err := h.news.Create(r.Context(), author, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.logger.Info("news published",
		slog.String("news_id", article.ID),
		slog.String("author_id", author.ID))
	if err := writeJSON(w, http.StatusCreated, article, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *NewsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch services.NewsPatch
	if err := readPatch(w, r, &patch); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	article, err := h.news.Update(r.Context(), id, patch)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, article, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *NewsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.news.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "actualité supprimée"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *NewsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes)
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		badRequestResponse(w, r, fmt.Errorf("invalid multipart form: %w", err))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		badRequestResponse(w, r, fmt.Errorf("missing form file %q", "image"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	article, err := h.news.UploadImage(r.Context(), id, file, header.Size, contentType)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.logger.Info("news image uploaded",
		slog.String("news_id", id),
		slog.Int64("size", header.Size))
	if err := writeJSON(w, http.StatusOK, article, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
