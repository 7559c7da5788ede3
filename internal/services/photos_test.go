package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/pagoda8/Walking-Buddy-sub000/internal/models"
	"github.com/pagoda8/Walking-Buddy-sub000/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Coordinates around central London; ~0.001 deg latitude is ~111 m.
const (
	testLat = 51.5074
	testLng = -0.1278
)

func addPhoto(t *testing.T, e *env, id, ownerID string, lat, lng float64) {
	t.Helper()
	require.NoError(t, e.photos.Create(context.Background(), &models.Photo{
		ID:      id,
		OwnerID: ownerID,
		S3URL:   "https://cdn.test/" + ownerID + "/" + id + ".jpg",
		Lat:     lat,
		Lng:     lng,
		XPValue: 10,
	}))
}

func TestRequestUpload(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.addUser(t, "alice", "alice")

	resp, err := e.photoSvc.RequestUpload(ctx, "alice", testLat, testLng, "image/jpeg")
	require.NoError(t, err)
	assert.Contains(t, resp.UploadURL, "alice/"+resp.PhotoID)
	assert.Greater(t, resp.ExpiresIn, 0)

	photo, err := e.photos.GetByID(ctx, resp.PhotoID)
	require.NoError(t, err)
	assert.Equal(t, "alice", photo.OwnerID)
	assert.Equal(t, testLat, photo.Lat)
}

func TestNearby(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.addUser(t, "alice", "alice")
	e.addUser(t, "bob", "bob")

	addPhoto(t, e, "close", "bob", testLat+0.001, testLng)  // ~111 m
	addPhoto(t, e, "far", "bob", testLat+0.05, testLng)     // ~5.5 km
	addPhoto(t, e, "own", "alice", testLat, testLng)        // alice's own
	require.NoError(t, e.collected.Create(ctx, &models.CollectedPhoto{ProfileID: "alice", PhotoID: "far"}))
	addPhoto(t, e, "mid", "bob", testLat+0.01, testLng) // ~1.1 km

	nearby, err := e.photoSvc.Nearby(ctx, "alice", testLat, testLng, 10)
	require.NoError(t, err)
	require.Len(t, nearby, 2, "own and already-collected photos are excluded")

	assert.Equal(t, "close", nearby[0].ID)
	assert.True(t, nearby[0].Collectable)
	assert.InDelta(t, 111, nearby[0].DistanceMeters, 5)
	assert.Equal(t, "111 m", nearby[0].Distance)

	assert.Equal(t, "mid", nearby[1].ID)
	assert.False(t, nearby[1].Collectable)
	assert.Contains(t, nearby[1].Distance, "km")
}

func TestCollectRejections(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.addUser(t, "alice", "alice")
	e.addUser(t, "bob", "bob")

	addPhoto(t, e, "p1", "bob", testLat, testLng)

	t.Run("own photo", func(t *testing.T) {
		_, err := e.photoSvc.Collect(ctx, "bob", "p1", testLat, testLng)
		assert.ErrorIs(t, err, services.ErrOwnPhoto)
	})

	t.Run("out of range", func(t *testing.T) {
		_, err := e.photoSvc.Collect(ctx, "alice", "p1", testLat+0.01, testLng)
		assert.ErrorIs(t, err, services.ErrOutOfRange)
	})

	t.Run("already collected", func(t *testing.T) {
		_, err := e.photoSvc.Collect(ctx, "alice", "p1", testLat, testLng)
		require.NoError(t, err)

		_, err = e.photoSvc.Collect(ctx, "alice", "p1", testLat, testLng)
		assert.ErrorIs(t, err, services.ErrAlreadyCollected)
	})
}

func TestCollectAwardsEverything(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.addUser(t, "alice", "alice")
	e.addUser(t, "bob", "bob")

	addPhoto(t, e, "p1", "bob", testLat, testLng)

	running := &models.Challenge{
		ID:      "c1",
		User1ID: "bob",
		User2ID: "alice",
		EndAt:   time.Now().Add(time.Hour),
	}
	require.NoError(t, e.challenges.Create(ctx, running))

	result, err := e.photoSvc.Collect(ctx, "alice", "p1", testLat+0.002, testLng) // ~222 m, inside 300
	require.NoError(t, err)

	assert.Equal(t, 10, result.XPEarned)
	assert.Equal(t, int64(10), result.NewXP)
	assert.Equal(t, "c1", result.ChallengeID)

	profile, err := e.profileSvc.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(10), profile.XP)

	a, err := e.achieves.Get(ctx, "alice", models.AchievementCollector)
	require.NoError(t, err)
	assert.Equal(t, 1, a.Amount)

	c, err := e.challenges.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 0, c.XP1, "owner side untouched")
	assert.Equal(t, 10, c.XP2, "collection mirrored into alice's counter")
}

func TestCollectSkipsExpiredChallenge(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.addUser(t, "alice", "alice")
	e.addUser(t, "bob", "bob")

	addPhoto(t, e, "p1", "bob", testLat, testLng)

	expired := &models.Challenge{
		ID:      "c1",
		User1ID: "alice",
		User2ID: "bob",
		EndAt:   time.Now().Add(-time.Hour),
	}
	require.NoError(t, e.challenges.Create(ctx, expired))

	result, err := e.photoSvc.Collect(ctx, "alice", "p1", testLat, testLng)
	require.NoError(t, err)
	assert.Empty(t, result.ChallengeID)

	c, err := e.challenges.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 0, c.XP1)
}
