package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/pagoda8/Walking-Buddy-sub000/internal/middleware"
	"github.com/pagoda8/Walking-Buddy-sub000/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// ProfileHandler handles profile-related HTTP requests
type ProfileHandler struct {
	profileService     *services.ProfileService
	achievementService *services.AchievementService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService *services.ProfileService, achievementService *services.AchievementService) *ProfileHandler {
	return &ProfileHandler{
		profileService:     profileService,
		achievementService: achievementService,
	}
}

// GetMe handles GET /api/v1/profiles/me
func (h *ProfileHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	profile, err := h.profileService.Get(ctx, userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// GetByID handles GET /api/v1/profiles/{id}
func (h *ProfileHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	profile, err := h.profileService.Get(ctx, id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// OnboardingRequest carries the fields set during onboarding.
type OnboardingRequest struct {
	Username string `json:"username"`
	Bio      string `json:"bio"`
	AgeRange string `json:"age_range"`
	PhotoURL string `json:"photo_url"`
}

// CompleteOnboarding handles POST /api/v1/profiles/onboarding
func (h *ProfileHandler) CompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req OnboardingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	profile, err := h.profileService.CompleteOnboarding(ctx, userID, req.Username, req.Bio, req.AgeRange, req.PhotoURL)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Onboarding failed")
		respondServiceError(w, err)
		return
	}

	log.Info().Str("user_id", userID).Str("username", req.Username).Msg("Onboarding completed")
	respondJSON(w, http.StatusOK, profile)
}

// PushTokenRequest carries a device push token.
type PushTokenRequest struct {
	PushToken *string `json:"push_token"`
}

// UpdatePushToken handles PUT /api/v1/profiles/push-token
func (h *ProfileHandler) UpdatePushToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req PushTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.profileService.UpdatePushToken(ctx, userID, req.PushToken); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AchievementView adds the next tier threshold for progress bars.
type AchievementView struct {
	Name          string `json:"name"`
	Amount        int    `json:"amount"`
	Level         int    `json:"level"`
	NextThreshold int    `json:"next_threshold"`
}

// ListAchievements handles GET /api/v1/achievements
func (h *ProfileHandler) ListAchievements(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	achievements, err := h.achievementService.List(ctx, userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	views := make([]AchievementView, 0, len(achievements))
	for _, a := range achievements {
		views = append(views, AchievementView{
			Name:          a.Name,
			Amount:        a.Amount,
			Level:         a.Level,
			NextThreshold: services.NextThreshold(a.Level),
		})
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"achievements": views})
}
