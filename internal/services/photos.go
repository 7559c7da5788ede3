package services

import (
	"context"
	"fmt"
	"time"

	"github.com/pagoda8/Walking-Buddy-sub000/internal/geo"
	"github.com/pagoda8/Walking-Buddy-sub000/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	// CollectRadiusMeters is how close a user must be to collect a photo.
	CollectRadiusMeters = 300.0

	// photoXPValue is the XP a photo is worth to its collector.
	photoXPValue = 10

	defaultNearbyLimit = 50
	maxNearbyLimit     = 100
)

// PhotoService handles geotagged photo uploads and the collection flow that
// feeds XP, the collector achievement and running challenges.
type PhotoService struct {
	photos     PhotoStore
	collected  CollectedPhotoStore
	profiles   ProfileStore
	challenges ChallengeStore
	uploader   Uploader
	achiev     *AchievementService
}

// NewPhotoService creates a new photo service
func NewPhotoService(
	photos PhotoStore,
	collected CollectedPhotoStore,
	profiles ProfileStore,
	challenges ChallengeStore,
	achiev *AchievementService,
	uploader Uploader,
) *PhotoService {
	return &PhotoService{
		photos:     photos,
		collected:  collected,
		profiles:   profiles,
		challenges: challenges,
		achiev:     achiev,
		uploader:   uploader,
	}
}

// UploadResponse carries the pre-signed URL the client PUTs the image to.
type UploadResponse struct {
	UploadURL string `json:"upload_url"`
	PhotoID   string `json:"photo_id"`
	ExpiresIn int    `json:"expires_in"`
}

// RequestUpload creates the photo record and returns a pre-signed upload URL.
func (s *PhotoService) RequestUpload(ctx context.Context, ownerID string, lat, lng float64, contentType string) (*UploadResponse, error) {
	photoID := uuid.New().String()
	key := fmt.Sprintf("%s/%s.jpg", ownerID, photoID)

	uploadURL, err := s.uploader.PresignPut(ctx, key, contentType)
	if err != nil {
		return nil, err
	}

	photo := &models.Photo{
		ID:        photoID,
		OwnerID:   ownerID,
		S3URL:     s.uploader.PublicURL(key),
		Lat:       lat,
		Lng:       lng,
		XPValue:   photoXPValue,
		CreatedAt: time.Now(),
	}
	if err := s.photos.Create(ctx, photo); err != nil {
		return nil, fmt.Errorf("failed to create photo record: %w", err)
	}

	return &UploadResponse{
		UploadURL: uploadURL,
		PhotoID:   photoID,
		ExpiresIn: int(uploadURLTTL.Seconds()),
	}, nil
}

// NearbyPhoto is a photo annotated with its distance from the viewer.
type NearbyPhoto struct {
	*models.Photo
	DistanceMeters float64 `json:"distance_meters"`
	Distance       string  `json:"distance"`
	Collectable    bool    `json:"collectable"`
}

// Nearby returns the closest uncollected photos to a coordinate, annotated
// with precise distances.
func (s *PhotoService) Nearby(ctx context.Context, viewerID string, lat, lng float64, limit int) ([]*NearbyPhoto, error) {
	if limit <= 0 {
		limit = defaultNearbyLimit
	}
	if limit > maxNearbyLimit {
		limit = maxNearbyLimit
	}

	photos, err := s.photos.Nearest(ctx, viewerID, lat, lng, limit)
	if err != nil {
		return nil, err
	}

	result := make([]*NearbyPhoto, 0, len(photos))
	for _, p := range photos {
		d := geo.Distance(lat, lng, p.Lat, p.Lng)
		result = append(result, &NearbyPhoto{
			Photo:          p,
			DistanceMeters: d,
			Distance:       geo.FormatDistance(d),
			Collectable:    d <= CollectRadiusMeters,
		})
	}
	return result, nil
}

// CollectResult reports what a collection earned.
type CollectResult struct {
	PhotoID     string `json:"photo_id"`
	XPEarned    int    `json:"xp_earned"`
	NewXP       int64  `json:"new_xp"`
	ChallengeID string `json:"challenge_id,omitempty"`
}

// Collect claims a photo for a user standing within its collection radius.
// On success the photo's XP lands on the profile, the collector achievement
// advances by one, and if the collector has a running challenge the XP is
// mirrored into their counter on it.
func (s *PhotoService) Collect(ctx context.Context, userID, photoID string, lat, lng float64) (*CollectResult, error) {
	photo, err := s.photos.GetByID(ctx, photoID)
	if err != nil {
		return nil, err
	}
	if photo.OwnerID == userID {
		return nil, ErrOwnPhoto
	}

	already, err := s.collected.Exists(ctx, userID, photoID)
	if err != nil {
		return nil, fmt.Errorf("failed to check collection: %w", err)
	}
	if already {
		return nil, ErrAlreadyCollected
	}

	if !geo.Within(photo.Lat, photo.Lng, lat, lng, CollectRadiusMeters) {
		return nil, ErrOutOfRange
	}

	record := &models.CollectedPhoto{
		ProfileID:   userID,
		PhotoID:     photoID,
		CollectedAt: time.Now(),
	}
	if err := s.collected.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to record collection: %w", err)
	}

	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	newXP := profile.XP + int64(photo.XPValue)
	if err := s.profiles.UpdateXP(ctx, userID, newXP); err != nil {
		return nil, fmt.Errorf("failed to award xp: %w", err)
	}

	if err := s.achiev.Advance(ctx, userID, models.AchievementCollector, 1); err != nil {
		return nil, fmt.Errorf("failed to advance collector achievement: %w", err)
	}

	result := &CollectResult{
		PhotoID:  photoID,
		XPEarned: photo.XPValue,
		NewXP:    newXP,
	}

	// Mirror the XP into the collector's running challenge, if any.
	challenges, err := s.challenges.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}
	now := time.Now()
	for _, c := range challenges {
		if c.Expired(now) {
			continue
		}
		if c.User1ID == userID {
			c.XP1 += photo.XPValue
		} else {
			c.XP2 += photo.XPValue
		}
		if err := s.challenges.UpdateXP(ctx, c.ID, c.XP1, c.XP2); err != nil {
			log.Error().Err(err).Str("challenge_id", c.ID).Msg("Failed to mirror collection into challenge")
			continue
		}
		result.ChallengeID = c.ID
		break
	}

	return result, nil
}
