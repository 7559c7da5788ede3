package services

import (
	"context"

	"github.com/pagoda8/Walking-Buddy-sub000/internal/models"
)

// Store interfaces consumed by the services. The repository package provides
// the Postgres implementations; tests substitute in-memory fakes. None of
// these offer multi-record transactions, so every invariant spanning records
// is enforced by read-then-write sequencing in the services.

// ProfileStore persists profiles.
type ProfileStore interface {
	Create(ctx context.Context, p *models.Profile) error
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	GetByUsername(ctx context.Context, username string) (*models.Profile, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	Update(ctx context.Context, p *models.Profile) error
	UpdateXP(ctx context.Context, id string, xp int64) error
	UpdatePushToken(ctx context.Context, id string, pushToken *string) error
}

// FriendListStore persists per-user friend lists.
type FriendListStore interface {
	Create(ctx context.Context, profileID string) error
	Get(ctx context.Context, profileID string) (*models.FriendList, error)
	Update(ctx context.Context, list *models.FriendList) error
}

// FriendRequestStore persists friend requests.
type FriendRequestStore interface {
	Create(ctx context.Context, req *models.FriendRequest) error
	ListByReceiver(ctx context.Context, receiverID string) ([]*models.FriendRequest, error)
	DeleteByPair(ctx context.Context, senderID, receiverID string) error
}

// ChallengeRequestStore persists challenge requests.
type ChallengeRequestStore interface {
	Create(ctx context.Context, req *models.ChallengeRequest) error
	GetByID(ctx context.Context, id string) (*models.ChallengeRequest, error)
	ListByReceiver(ctx context.Context, receiverID string) ([]*models.ChallengeRequest, error)
	Delete(ctx context.Context, id string) error
}

// ChallengeStore persists running challenges.
type ChallengeStore interface {
	Create(ctx context.Context, c *models.Challenge) error
	GetByID(ctx context.Context, id string) (*models.Challenge, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Challenge, error)
	ExistsForPair(ctx context.Context, a, b string) (bool, error)
	UpdateXP(ctx context.Context, id string, xp1, xp2 int) error
	Delete(ctx context.Context, id string) error
}

// AchievementStore persists achievement counters.
type AchievementStore interface {
	Create(ctx context.Context, a *models.Achievement) error
	Get(ctx context.Context, profileID, name string) (*models.Achievement, error)
	List(ctx context.Context, profileID string) ([]*models.Achievement, error)
	Update(ctx context.Context, a *models.Achievement) error
}

// PhotoStore persists photos.
type PhotoStore interface {
	Create(ctx context.Context, photo *models.Photo) error
	GetByID(ctx context.Context, id string) (*models.Photo, error)
	Nearest(ctx context.Context, viewerID string, lat, lng float64, limit int) ([]*models.Photo, error)
}

// CollectedPhotoStore persists collection records.
type CollectedPhotoStore interface {
	Create(ctx context.Context, c *models.CollectedPhoto) error
	Exists(ctx context.Context, profileID, photoID string) (bool, error)
}
