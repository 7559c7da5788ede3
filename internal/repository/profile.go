package repository

import (
	"context"
	"fmt"

	"github.com/pagoda8/Walking-Buddy-sub000/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = fmt.Errorf("record not found")

// ProfileRepository handles database operations for profiles
type ProfileRepository struct {
	db *pgxpool.Pool
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Create creates a new profile
func (r *ProfileRepository) Create(ctx context.Context, p *models.Profile) error {
	query := `
		INSERT INTO profiles (id, username, first_name, last_name, bio, age_range, photo_url, xp, push_token, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(ctx, query,
		p.ID, p.Username, p.FirstName, p.LastName, p.Bio, p.AgeRange, p.PhotoURL, p.XP, p.PushToken, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// GetByID retrieves a profile by ID
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	query := `
		SELECT id, username, first_name, last_name, bio, age_range, photo_url, xp, push_token, created_at
		FROM profiles
		WHERE id = $1
	`
	var p models.Profile
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Username, &p.FirstName, &p.LastName, &p.Bio, &p.AgeRange, &p.PhotoURL, &p.XP, &p.PushToken, &p.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("profile %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &p, nil
}

// GetByUsername retrieves a profile by username
func (r *ProfileRepository) GetByUsername(ctx context.Context, username string) (*models.Profile, error) {
	query := `
		SELECT id, username, first_name, last_name, bio, age_range, photo_url, xp, push_token, created_at
		FROM profiles
		WHERE username = $1
	`
	var p models.Profile
	err := r.db.QueryRow(ctx, query, username).Scan(
		&p.ID, &p.Username, &p.FirstName, &p.LastName, &p.Bio, &p.AgeRange, &p.PhotoURL, &p.XP, &p.PushToken, &p.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("profile %q: %w", username, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get profile by username: %w", err)
	}
	return &p, nil
}

// UsernameExists checks if a username is already taken
func (r *ProfileRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM profiles WHERE username = $1)`
	var exists bool
	err := r.db.QueryRow(ctx, query, username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check username existence: %w", err)
	}
	return exists, nil
}

// Update rewrites the mutable fields of a profile
func (r *ProfileRepository) Update(ctx context.Context, p *models.Profile) error {
	query := `
		UPDATE profiles
		SET username = $1, bio = $2, age_range = $3, photo_url = $4, xp = $5, push_token = $6
		WHERE id = $7
	`
	result, err := r.db.Exec(ctx, query, p.Username, p.Bio, p.AgeRange, p.PhotoURL, p.XP, p.PushToken, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("profile %s: %w", p.ID, ErrNotFound)
	}
	return nil
}

// UpdateXP writes an absolute XP value. The read-modify-write cycle lives in
// the service layer; two concurrent awards can lose an update.
func (r *ProfileRepository) UpdateXP(ctx context.Context, id string, xp int64) error {
	query := `UPDATE profiles SET xp = $1 WHERE id = $2`
	result, err := r.db.Exec(ctx, query, xp, id)
	if err != nil {
		return fmt.Errorf("failed to update xp: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("profile %s: %w", id, ErrNotFound)
	}
	return nil
}

// UpdatePushToken updates the push token for a profile
func (r *ProfileRepository) UpdatePushToken(ctx context.Context, id string, pushToken *string) error {
	query := `UPDATE profiles SET push_token = $1 WHERE id = $2`
	_, err := r.db.Exec(ctx, query, pushToken, id)
	if err != nil {
		return fmt.Errorf("failed to update push token: %w", err)
	}
	return nil
}
