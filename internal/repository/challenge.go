package repository

import (
	"context"
	"fmt"

	"github.com/pagoda8/Walking-Buddy-sub000/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ChallengeRequestRepository handles database operations for challenge requests
type ChallengeRequestRepository struct {
	db *pgxpool.Pool
}

// NewChallengeRequestRepository creates a new challenge request repository
func NewChallengeRequestRepository(db *pgxpool.Pool) *ChallengeRequestRepository {
	return &ChallengeRequestRepository{db: db}
}

// Create creates a new challenge request
func (r *ChallengeRequestRepository) Create(ctx context.Context, req *models.ChallengeRequest) error {
	query := `
		INSERT INTO challenge_requests (id, sender_id, receiver_id, minutes, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query, req.ID, req.SenderID, req.ReceiverID, req.Minutes, req.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create challenge request: %w", err)
	}
	return nil
}

// GetByID retrieves a challenge request by ID
func (r *ChallengeRequestRepository) GetByID(ctx context.Context, id string) (*models.ChallengeRequest, error) {
	query := `
		SELECT id, sender_id, receiver_id, minutes, created_at
		FROM challenge_requests
		WHERE id = $1
	`
	var req models.ChallengeRequest
	err := r.db.QueryRow(ctx, query, id).Scan(&req.ID, &req.SenderID, &req.ReceiverID, &req.Minutes, &req.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("challenge request %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get challenge request: %w", err)
	}
	return &req, nil
}

// ListByReceiver retrieves pending challenge requests addressed to a user
func (r *ChallengeRequestRepository) ListByReceiver(ctx context.Context, receiverID string) ([]*models.ChallengeRequest, error) {
	query := `
		SELECT id, sender_id, receiver_id, minutes, created_at
		FROM challenge_requests
		WHERE receiver_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, receiverID)
	if err != nil {
		return nil, fmt.Errorf("failed to list challenge requests: %w", err)
	}
	defer rows.Close()

	var requests []*models.ChallengeRequest
	for rows.Next() {
		var req models.ChallengeRequest
		if err := rows.Scan(&req.ID, &req.SenderID, &req.ReceiverID, &req.Minutes, &req.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan challenge request: %w", err)
		}
		requests = append(requests, &req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating challenge requests: %w", err)
	}
	return requests, nil
}

// Delete deletes a challenge request by ID
func (r *ChallengeRequestRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM challenge_requests WHERE id = $1`
	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete challenge request: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("challenge request %s: %w", id, ErrNotFound)
	}
	return nil
}

// ChallengeRepository handles database operations for challenges
type ChallengeRepository struct {
	db *pgxpool.Pool
}

// NewChallengeRepository creates a new challenge repository
func NewChallengeRepository(db *pgxpool.Pool) *ChallengeRepository {
	return &ChallengeRepository{db: db}
}

// Create creates a new challenge. At-most-one-per-pair is checked by the
// service before this call, not enforced by the table.
func (r *ChallengeRepository) Create(ctx context.Context, c *models.Challenge) error {
	query := `
		INSERT INTO challenges (id, user1_id, user2_id, xp1, xp2, end_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query, c.ID, c.User1ID, c.User2ID, c.XP1, c.XP2, c.EndAt)
	if err != nil {
		return fmt.Errorf("failed to create challenge: %w", err)
	}
	return nil
}

// GetByID retrieves a challenge by ID
func (r *ChallengeRepository) GetByID(ctx context.Context, id string) (*models.Challenge, error) {
	query := `
		SELECT id, user1_id, user2_id, xp1, xp2, end_at
		FROM challenges
		WHERE id = $1
	`
	var c models.Challenge
	err := r.db.QueryRow(ctx, query, id).Scan(&c.ID, &c.User1ID, &c.User2ID, &c.XP1, &c.XP2, &c.EndAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("challenge %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}
	return &c, nil
}

// ListByUser retrieves all challenges a user participates in
func (r *ChallengeRepository) ListByUser(ctx context.Context, userID string) ([]*models.Challenge, error) {
	query := `
		SELECT id, user1_id, user2_id, xp1, xp2, end_at
		FROM challenges
		WHERE user1_id = $1 OR user2_id = $1
		ORDER BY end_at ASC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}
	defer rows.Close()

	var challenges []*models.Challenge
	for rows.Next() {
		var c models.Challenge
		if err := rows.Scan(&c.ID, &c.User1ID, &c.User2ID, &c.XP1, &c.XP2, &c.EndAt); err != nil {
			return nil, fmt.Errorf("failed to scan challenge: %w", err)
		}
		challenges = append(challenges, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating challenges: %w", err)
	}
	return challenges, nil
}

// ExistsForPair checks whether a challenge exists for either ordering of the pair
func (r *ChallengeRepository) ExistsForPair(ctx context.Context, a, b string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM challenges
			WHERE (user1_id = $1 AND user2_id = $2) OR (user1_id = $2 AND user2_id = $1)
		)
	`
	var exists bool
	err := r.db.QueryRow(ctx, query, a, b).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check challenge existence: %w", err)
	}
	return exists, nil
}

// UpdateXP writes both participants' accrued counters
func (r *ChallengeRepository) UpdateXP(ctx context.Context, id string, xp1, xp2 int) error {
	query := `UPDATE challenges SET xp1 = $1, xp2 = $2 WHERE id = $3`
	result, err := r.db.Exec(ctx, query, xp1, xp2, id)
	if err != nil {
		return fmt.Errorf("failed to update challenge xp: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("challenge %s: %w", id, ErrNotFound)
	}
	return nil
}

// Delete deletes a challenge by ID. Deleting an already-deleted challenge is
// not an error so that two sessions resolving the same expiry don't both fail.
func (r *ChallengeRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM challenges WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete challenge: %w", err)
	}
	return nil
}
