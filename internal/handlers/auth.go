package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/pagoda8/Walking-Buddy-sub000/internal/middleware"
	"github.com/pagoda8/Walking-Buddy-sub000/internal/services"

	"github.com/rs/zerolog/log"
)

// AuthHandler handles sign-in and sign-out
type AuthHandler struct {
	profileService *services.ProfileService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(profileService *services.ProfileService) *AuthHandler {
	return &AuthHandler{profileService: profileService}
}

// SignInRequest carries the external auth subject and the name claims that
// come with it.
type SignInRequest struct {
	SubjectID string `json:"subject_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// SignInResponse returns the profile and a session token.
type SignInResponse struct {
	Profile   interface{} `json:"profile"`
	Token     string      `json:"token"`
	Onboarded bool        `json:"onboarded"`
}

// SignIn handles POST /api/v1/auth/signin
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.SubjectID == "" {
		respondError(w, "subject_id is required", http.StatusBadRequest)
		return
	}

	profile, token, err := h.profileService.SignIn(ctx, req.SubjectID, req.FirstName, req.LastName)
	if err != nil {
		log.Error().Err(err).Str("subject_id", req.SubjectID).Msg("Sign-in failed")
		respondServiceError(w, err)
		return
	}

	log.Info().Str("user_id", profile.ID).Msg("User signed in")

	respondJSON(w, http.StatusOK, SignInResponse{
		Profile:   profile,
		Token:     token,
		Onboarded: profile.Onboarded(),
	})
}

// SignOut handles POST /api/v1/auth/signout
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	if err := h.profileService.SignOut(ctx, userID); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Sign-out failed")
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
