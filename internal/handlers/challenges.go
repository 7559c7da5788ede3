package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pagoda8/Walking-Buddy-sub000/internal/middleware"
	"github.com/pagoda8/Walking-Buddy-sub000/internal/models"
	"github.com/pagoda8/Walking-Buddy-sub000/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// ChallengeHandler handles challenge-related HTTP requests
type ChallengeHandler struct {
	challengeService *services.ChallengeService
	notifier         *Notifier
}

// NewChallengeHandler creates a new challenge handler
func NewChallengeHandler(challengeService *services.ChallengeService, notifier *Notifier) *ChallengeHandler {
	return &ChallengeHandler{
		challengeService: challengeService,
		notifier:         notifier,
	}
}

// ChallengeView annotates a challenge with the formatted time remaining.
type ChallengeView struct {
	*models.Challenge
	TimeRemaining string `json:"time_remaining"`
}

// ListActive handles GET /api/v1/challenges
func (h *ChallengeHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	challenges, err := h.challengeService.ListActive(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list challenges")
		respondServiceError(w, err)
		return
	}

	now := time.Now()
	views := make([]ChallengeView, 0, len(challenges))
	for _, c := range challenges {
		minutes := int(c.EndAt.Sub(now).Minutes())
		views = append(views, ChallengeView{
			Challenge:     c,
			TimeRemaining: services.FormatDuration(minutes),
		})
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"challenges": views})
}

// ListRequests handles GET /api/v1/challenges/requests
func (h *ChallengeHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	requests, err := h.challengeService.ListIncomingRequests(ctx, userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"requests": requests})
}

// ChallengeRequestBody carries the receiver and the requested duration.
type ChallengeRequestBody struct {
	ReceiverID string `json:"receiver_id"`
	Minutes    int    `json:"minutes"`
}

// SendRequest handles POST /api/v1/challenges/requests
func (h *ChallengeHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req ChallengeRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ReceiverID == "" {
		respondError(w, "receiver_id is required", http.StatusBadRequest)
		return
	}

	request, err := h.challengeService.SendRequest(ctx, userID, req.ReceiverID, req.Minutes)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("receiver_id", req.ReceiverID).Msg("Failed to send challenge request")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("receiver_id", req.ReceiverID).
		Int("minutes", req.Minutes).
		Msg("Challenge request sent")

	h.notifier.Send(ctx, request.ReceiverID, services.EventChallengeRequest, request,
		"Challenge!", "A friend challenged you to a "+services.FormatDuration(request.Minutes)+" XP race")

	respondJSON(w, http.StatusOK, request)
}

// AcceptRequest handles POST /api/v1/challenges/requests/{id}/accept
func (h *ChallengeHandler) AcceptRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	requestID := chi.URLParam(r, "id")

	challenge, err := h.challengeService.AcceptRequest(ctx, requestID, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("request_id", requestID).Msg("Failed to accept challenge request")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("challenge_id", challenge.ID).
		Time("end_at", challenge.EndAt).
		Msg("Challenge started")

	h.notifier.Send(ctx, challenge.User1ID, services.EventChallengeStarted, challenge,
		"Challenge accepted", "Your challenge is on")

	respondJSON(w, http.StatusOK, challenge)
}

// DenyRequest handles POST /api/v1/challenges/requests/{id}/deny
func (h *ChallengeHandler) DenyRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	requestID := chi.URLParam(r, "id")

	if err := h.challengeService.DenyRequest(ctx, requestID, userID); err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("request_id", requestID).Msg("Failed to deny challenge request")
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
