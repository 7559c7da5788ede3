package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/pagoda8/Walking-Buddy-sub000/internal/middleware"
	"github.com/pagoda8/Walking-Buddy-sub000/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// PhotoHandler handles photo-related HTTP requests
type PhotoHandler struct {
	photoService *services.PhotoService
	notifier     *Notifier
}

// NewPhotoHandler creates a new photo handler
func NewPhotoHandler(photoService *services.PhotoService, notifier *Notifier) *PhotoHandler {
	return &PhotoHandler{
		photoService: photoService,
		notifier:     notifier,
	}
}

// UploadBody carries where the photo was taken and its content type.
type UploadBody struct {
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	ContentType string  `json:"content_type"`
}

// Upload handles POST /api/v1/photos/upload
func (h *PhotoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req UploadBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ContentType == "" {
		req.ContentType = "image/jpeg"
	}

	response, err := h.photoService.RequestUpload(ctx, userID, req.Lat, req.Lng, req.ContentType)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to generate pre-signed URL")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("photo_id", response.PhotoID).
		Msg("Pre-signed URL generated")

	respondJSON(w, http.StatusOK, response)
}

// Nearby handles GET /api/v1/photos/nearby
func (h *PhotoHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	lat, err := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if err != nil {
		respondError(w, "lat is required", http.StatusBadRequest)
		return
	}
	lng, err := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if err != nil {
		respondError(w, "lng is required", http.StatusBadRequest)
		return
	}
	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil {
			limit = parsed
		}
	}

	photos, err := h.photoService.Nearby(ctx, userID, lat, lng, limit)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to get nearby photos")
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"photos": photos})
}

// CollectBody carries the collector's position.
type CollectBody struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Collect handles POST /api/v1/photos/{id}/collect
func (h *PhotoHandler) Collect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	photoID := chi.URLParam(r, "id")

	var req CollectBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.photoService.Collect(ctx, userID, photoID, req.Lat, req.Lng)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("photo_id", photoID).Msg("Failed to collect photo")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("photo_id", photoID).
		Int("xp_earned", result.XPEarned).
		Msg("Photo collected")

	h.notifier.Send(ctx, userID, services.EventPhotoCollected, result, "", "")

	respondJSON(w, http.StatusOK, result)
}
