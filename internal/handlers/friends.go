package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/pagoda8/Walking-Buddy-sub000/internal/middleware"
	"github.com/pagoda8/Walking-Buddy-sub000/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// FriendHandler handles friend-related HTTP requests
type FriendHandler struct {
	friendService  *services.FriendService
	profileService *services.ProfileService
	notifier       *Notifier
}

// NewFriendHandler creates a new friend handler
func NewFriendHandler(friendService *services.FriendService, profileService *services.ProfileService, notifier *Notifier) *FriendHandler {
	return &FriendHandler{
		friendService:  friendService,
		profileService: profileService,
		notifier:       notifier,
	}
}

// ListFriends handles GET /api/v1/friends
func (h *FriendHandler) ListFriends(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	friends, err := h.friendService.ListFriends(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list friends")
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"friends": friends})
}

// ListRequests handles GET /api/v1/friends/requests
func (h *FriendHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	requests, err := h.friendService.ListIncomingRequests(ctx, userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"requests": requests})
}

// SendRequestBody addresses the receiver by username.
type SendRequestBody struct {
	Username string `json:"username"`
}

// SendRequest handles POST /api/v1/friends/requests
func (h *FriendHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req SendRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Username == "" {
		respondError(w, "username is required", http.StatusBadRequest)
		return
	}

	request, err := h.friendService.SendRequest(ctx, userID, req.Username)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("username", req.Username).Msg("Failed to send friend request")
		respondServiceError(w, err)
		return
	}

	log.Info().Str("user_id", userID).Str("receiver_id", request.ReceiverID).Msg("Friend request sent")

	sender, err := h.profileService.Get(ctx, userID)
	senderName := userID
	if err == nil && sender.Username != nil {
		senderName = *sender.Username
	}
	h.notifier.Send(ctx, request.ReceiverID, services.EventFriendRequest, request,
		"New friend request", senderName+" wants to be your walking buddy")

	respondJSON(w, http.StatusOK, request)
}

// PairBody identifies the other side of a pending request.
type PairBody struct {
	SenderID string `json:"sender_id"`
}

// AcceptRequest handles POST /api/v1/friends/requests/accept
func (h *FriendHandler) AcceptRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req PairBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.SenderID == "" {
		respondError(w, "sender_id is required", http.StatusBadRequest)
		return
	}

	if err := h.friendService.AcceptRequest(ctx, req.SenderID, userID); err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("sender_id", req.SenderID).Msg("Failed to accept friend request")
		respondServiceError(w, err)
		return
	}

	log.Info().Str("user_id", userID).Str("sender_id", req.SenderID).Msg("Friend request accepted")

	h.notifier.Send(ctx, req.SenderID, services.EventFriendAccepted,
		map[string]string{"friend_id": userID},
		"Friend request accepted", "You have a new walking buddy")

	w.WriteHeader(http.StatusNoContent)
}

// DenyRequest handles POST /api/v1/friends/requests/deny
func (h *FriendHandler) DenyRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req PairBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.SenderID == "" {
		respondError(w, "sender_id is required", http.StatusBadRequest)
		return
	}

	if err := h.friendService.DenyRequest(ctx, req.SenderID, userID); err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("sender_id", req.SenderID).Msg("Failed to deny friend request")
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Unfriend handles DELETE /api/v1/friends/{id}
func (h *FriendHandler) Unfriend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	friendID := chi.URLParam(r, "id")

	if friendID == "" {
		respondError(w, "friend id is required", http.StatusBadRequest)
		return
	}

	if err := h.friendService.Unfriend(ctx, userID, friendID); err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("friend_id", friendID).Msg("Failed to unfriend")
		respondServiceError(w, err)
		return
	}

	log.Info().Str("user_id", userID).Str("friend_id", friendID).Msg("Unfriended")
	w.WriteHeader(http.StatusNoContent)
}
