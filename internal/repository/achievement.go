package repository

import (
	"context"
	"fmt"

	"github.com/pagoda8/Walking-Buddy-sub000/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AchievementRepository handles database operations for achievements
type AchievementRepository struct {
	db *pgxpool.Pool
}

// NewAchievementRepository creates a new achievement repository
func NewAchievementRepository(db *pgxpool.Pool) *AchievementRepository {
	return &AchievementRepository{db: db}
}

// Create creates a new achievement record
func (r *AchievementRepository) Create(ctx context.Context, a *models.Achievement) error {
	query := `
		INSERT INTO achievements (profile_id, name, amount, level)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.Exec(ctx, query, a.ProfileID, a.Name, a.Amount, a.Level)
	if err != nil {
		return fmt.Errorf("failed to create achievement: %w", err)
	}
	return nil
}

// Get retrieves one named achievement for a profile
func (r *AchievementRepository) Get(ctx context.Context, profileID, name string) (*models.Achievement, error) {
	query := `
		SELECT profile_id, name, amount, level
		FROM achievements
		WHERE profile_id = $1 AND name = $2
	`
	var a models.Achievement
	err := r.db.QueryRow(ctx, query, profileID, name).Scan(&a.ProfileID, &a.Name, &a.Amount, &a.Level)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("achievement %s/%s: %w", profileID, name, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get achievement: %w", err)
	}
	return &a, nil
}

// List retrieves all achievements for a profile
func (r *AchievementRepository) List(ctx context.Context, profileID string) ([]*models.Achievement, error) {
	query := `
		SELECT profile_id, name, amount, level
		FROM achievements
		WHERE profile_id = $1
		ORDER BY name
	`
	rows, err := r.db.Query(ctx, query, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}
	defer rows.Close()

	var achievements []*models.Achievement
	for rows.Next() {
		var a models.Achievement
		if err := rows.Scan(&a.ProfileID, &a.Name, &a.Amount, &a.Level); err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		achievements = append(achievements, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating achievements: %w", err)
	}
	return achievements, nil
}

// Update rewrites the amount and level of an achievement
func (r *AchievementRepository) Update(ctx context.Context, a *models.Achievement) error {
	query := `UPDATE achievements SET amount = $1, level = $2 WHERE profile_id = $3 AND name = $4`
	result, err := r.db.Exec(ctx, query, a.Amount, a.Level, a.ProfileID, a.Name)
	if err != nil {
		return fmt.Errorf("failed to update achievement: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("achievement %s/%s: %w", a.ProfileID, a.Name, ErrNotFound)
	}
	return nil
}
