package repository

import (
	"context"
	"fmt"

	"github.com/pagoda8/Walking-Buddy-sub000/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FriendListRepository handles database operations for friend lists
type FriendListRepository struct {
	db *pgxpool.Pool
}

// NewFriendListRepository creates a new friend list repository
func NewFriendListRepository(db *pgxpool.Pool) *FriendListRepository {
	return &FriendListRepository{db: db}
}

// Create creates an empty friend list for a profile
func (r *FriendListRepository) Create(ctx context.Context, profileID string) error {
	query := `INSERT INTO friend_lists (profile_id, friends) VALUES ($1, $2)`
	_, err := r.db.Exec(ctx, query, profileID, []string{})
	if err != nil {
		return fmt.Errorf("failed to create friend list: %w", err)
	}
	return nil
}

// Get retrieves a profile's friend list
func (r *FriendListRepository) Get(ctx context.Context, profileID string) (*models.FriendList, error) {
	query := `SELECT profile_id, friends FROM friend_lists WHERE profile_id = $1`
	var list models.FriendList
	err := r.db.QueryRow(ctx, query, profileID).Scan(&list.ProfileID, &list.Friends)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("friend list %s: %w", profileID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get friend list: %w", err)
	}
	if list.Friends == nil {
		list.Friends = []string{}
	}
	return &list, nil
}

// Update rewrites the whole friends array. There is no append primitive;
// callers read, mutate and resave, so concurrent writers can lose updates.
func (r *FriendListRepository) Update(ctx context.Context, list *models.FriendList) error {
	query := `UPDATE friend_lists SET friends = $1 WHERE profile_id = $2`
	result, err := r.db.Exec(ctx, query, list.Friends, list.ProfileID)
	if err != nil {
		return fmt.Errorf("failed to update friend list: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("friend list %s: %w", list.ProfileID, ErrNotFound)
	}
	return nil
}

// FriendRequestRepository handles database operations for friend requests
type FriendRequestRepository struct {
	db *pgxpool.Pool
}

// NewFriendRequestRepository creates a new friend request repository
func NewFriendRequestRepository(db *pgxpool.Pool) *FriendRequestRepository {
	return &FriendRequestRepository{db: db}
}

// Create creates a new friend request. No uniqueness is enforced on the
// (sender, receiver) pair.
func (r *FriendRequestRepository) Create(ctx context.Context, req *models.FriendRequest) error {
	query := `
		INSERT INTO friend_requests (id, sender_id, receiver_id, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.Exec(ctx, query, req.ID, req.SenderID, req.ReceiverID, req.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create friend request: %w", err)
	}
	return nil
}

// ListByReceiver retrieves pending requests addressed to a user
func (r *FriendRequestRepository) ListByReceiver(ctx context.Context, receiverID string) ([]*models.FriendRequest, error) {
	query := `
		SELECT id, sender_id, receiver_id, created_at
		FROM friend_requests
		WHERE receiver_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, receiverID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friend requests: %w", err)
	}
	defer rows.Close()

	var requests []*models.FriendRequest
	for rows.Next() {
		var req models.FriendRequest
		if err := rows.Scan(&req.ID, &req.SenderID, &req.ReceiverID, &req.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan friend request: %w", err)
		}
		requests = append(requests, &req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating friend requests: %w", err)
	}
	return requests, nil
}

// DeleteByPair deletes every request from sender to receiver. Duplicates
// created by double-taps all go in one sweep.
func (r *FriendRequestRepository) DeleteByPair(ctx context.Context, senderID, receiverID string) error {
	query := `DELETE FROM friend_requests WHERE sender_id = $1 AND receiver_id = $2`
	_, err := r.db.Exec(ctx, query, senderID, receiverID)
	if err != nil {
		return fmt.Errorf("failed to delete friend requests: %w", err)
	}
	return nil
}
