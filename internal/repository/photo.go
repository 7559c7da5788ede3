package repository

import (
	"context"
	"fmt"

	"github.com/pagoda8/Walking-Buddy-sub000/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PhotoRepository handles database operations for photos
type PhotoRepository struct {
	db *pgxpool.Pool
}

// NewPhotoRepository creates a new photo repository
func NewPhotoRepository(db *pgxpool.Pool) *PhotoRepository {
	return &PhotoRepository{db: db}
}

// Create creates a new photo
func (r *PhotoRepository) Create(ctx context.Context, photo *models.Photo) error {
	query := `
		INSERT INTO photos (id, owner_id, s3_url, lat, lng, xp_value, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		photo.ID, photo.OwnerID, photo.S3URL, photo.Lat, photo.Lng, photo.XPValue, photo.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create photo: %w", err)
	}
	return nil
}

// GetByID retrieves a photo by ID
func (r *PhotoRepository) GetByID(ctx context.Context, id string) (*models.Photo, error) {
	query := `
		SELECT id, owner_id, s3_url, lat, lng, xp_value, created_at
		FROM photos
		WHERE id = $1
	`
	var photo models.Photo
	err := r.db.QueryRow(ctx, query, id).Scan(
		&photo.ID, &photo.OwnerID, &photo.S3URL, &photo.Lat, &photo.Lng, &photo.XPValue, &photo.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("photo %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get photo: %w", err)
	}
	return &photo, nil
}

// Nearest retrieves up to limit photos ordered by proximity to a reference
// coordinate, skipping the viewer's own photos and ones they already
// collected. The ordering uses squared coordinate deltas, which is good
// enough to rank candidates; precise distance filtering happens in the
// service layer.
func (r *PhotoRepository) Nearest(ctx context.Context, viewerID string, lat, lng float64, limit int) ([]*models.Photo, error) {
	query := `
		SELECT p.id, p.owner_id, p.s3_url, p.lat, p.lng, p.xp_value, p.created_at
		FROM photos p
		WHERE p.owner_id <> $1
		  AND NOT EXISTS (
			SELECT 1 FROM collected_photos c
			WHERE c.photo_id = p.id AND c.profile_id = $1
		  )
		ORDER BY (p.lat - $2) * (p.lat - $2) + (p.lng - $3) * (p.lng - $3) ASC
		LIMIT $4
	`
	rows, err := r.db.Query(ctx, query, viewerID, lat, lng, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query nearest photos: %w", err)
	}
	defer rows.Close()

	var photos []*models.Photo
	for rows.Next() {
		var photo models.Photo
		err := rows.Scan(
			&photo.ID, &photo.OwnerID, &photo.S3URL, &photo.Lat, &photo.Lng, &photo.XPValue, &photo.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}
		photos = append(photos, &photo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating photos: %w", err)
	}
	return photos, nil
}

// CollectedPhotoRepository handles database operations for collected photos
type CollectedPhotoRepository struct {
	db *pgxpool.Pool
}

// NewCollectedPhotoRepository creates a new collected photo repository
func NewCollectedPhotoRepository(db *pgxpool.Pool) *CollectedPhotoRepository {
	return &CollectedPhotoRepository{db: db}
}

// Create records a collection
func (r *CollectedPhotoRepository) Create(ctx context.Context, c *models.CollectedPhoto) error {
	query := `
		INSERT INTO collected_photos (profile_id, photo_id, collected_at)
		VALUES ($1, $2, $3)
	`
	_, err := r.db.Exec(ctx, query, c.ProfileID, c.PhotoID, c.CollectedAt)
	if err != nil {
		return fmt.Errorf("failed to create collected photo: %w", err)
	}
	return nil
}

// Exists checks whether a user already collected a photo
func (r *CollectedPhotoRepository) Exists(ctx context.Context, profileID, photoID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM collected_photos WHERE profile_id = $1 AND photo_id = $2)`
	var exists bool
	err := r.db.QueryRow(ctx, query, profileID, photoID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check collected photo: %w", err)
	}
	return exists, nil
}
