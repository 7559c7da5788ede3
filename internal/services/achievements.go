package services

import (
	"context"
	"fmt"

	"github.com/pagoda8/Walking-Buddy-sub000/internal/models"
)

// Tier thresholds. A counter reaching 5, 15 and 50 unlocks levels 1-3.
const (
	ThresholdLevel1 = 5
	ThresholdLevel2 = 15
	ThresholdLevel3 = 50
)

// AchievementService maintains the collector and competitor counters and
// their tier levels.
type AchievementService struct {
	store AchievementStore
}

// NewAchievementService creates a new achievement service
func NewAchievementService(store AchievementStore) *AchievementService {
	return &AchievementService{store: store}
}

// Advance adds delta to the named counter and applies the tier transition.
// Promotion happens only when the new amount lands exactly on the next
// threshold; an increment that jumps past a threshold keeps the current
// level, so callers must advance one step at a time to never skip a tier.
func (s *AchievementService) Advance(ctx context.Context, profileID, name string, delta int) error {
	a, err := s.store.Get(ctx, profileID, name)
	if err != nil {
		return err
	}

	a.Amount += delta

	switch {
	case a.Level == 0 && a.Amount == ThresholdLevel1:
		a.Level = 1
	case a.Level == 1 && a.Amount == ThresholdLevel2:
		a.Level = 2
	case a.Level == 2 && a.Amount == ThresholdLevel3:
		a.Level = 3
	}

	if err := s.store.Update(ctx, a); err != nil {
		return fmt.Errorf("failed to update achievement: %w", err)
	}
	return nil
}

// List retrieves all achievements for a profile.
func (s *AchievementService) List(ctx context.Context, profileID string) ([]*models.Achievement, error) {
	return s.store.List(ctx, profileID)
}

// NextThreshold returns the amount needed for the next level, or 0 when the
// top tier is reached. Used by clients for progress bars.
func NextThreshold(level int) int {
	switch level {
	case 0:
		return ThresholdLevel1
	case 1:
		return ThresholdLevel2
	case 2:
		return ThresholdLevel3
	}
	return 0
}
