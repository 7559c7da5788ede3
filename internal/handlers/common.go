package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pagoda8/Walking-Buddy-sub000/internal/pending"
	"github.com/pagoda8/Walking-Buddy-sub000/internal/repository"
	"github.com/pagoda8/Walking-Buddy-sub000/internal/services"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// respondServiceError maps a service error to a status code. Validation
// failures keep their specific message; everything else collapses to a
// generic retryable message.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		respondError(w, "Not found", http.StatusNotFound)
	case errors.Is(err, services.ErrAlreadyFriends),
		errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrChallengeExists),
		errors.Is(err, services.ErrAlreadyCollected),
		errors.Is(err, pending.ErrInFlight):
		respondError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, services.ErrEmptyUsername),
		errors.Is(err, services.ErrInvalidAgeRange),
		errors.Is(err, services.ErrSelfFriend),
		errors.Is(err, services.ErrSelfChallenge),
		errors.Is(err, services.ErrNotFriends),
		errors.Is(err, services.ErrZeroDuration),
		errors.Is(err, services.ErrChallengeOver),
		errors.Is(err, services.ErrOwnPhoto),
		errors.Is(err, services.ErrOutOfRange):
		respondError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrNotParticipant):
		respondError(w, err.Error(), http.StatusForbidden)
	default:
		respondError(w, "Something went wrong, please try again later", http.StatusInternalServerError)
	}
}
