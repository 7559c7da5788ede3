package services_test

import (
	"context"
	"testing"

	"github.com/pagoda8/Walking-Buddy-sub000/internal/models"
	"github.com/pagoda8/Walking-Buddy-sub000/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignIn(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	profile, token, err := e.profileSvc.SignIn(ctx, "sub-123", "Ada", "Lovelace")
	require.NoError(t, err)
	assert.Equal(t, "sub-123", profile.ID)
	assert.Equal(t, "Ada", profile.FirstName)
	assert.Nil(t, profile.Username, "fresh profile has no username")
	assert.False(t, profile.Onboarded())
	assert.Equal(t, int64(0), profile.XP)

	userID, err := e.profileSvc.ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "sub-123", userID)

	// Second sign-in resolves the same profile instead of recreating it.
	_, err = e.profileSvc.AddXP(ctx, "sub-123", 42)
	require.NoError(t, err)

	again, _, err := e.profileSvc.SignIn(ctx, "sub-123", "Ada", "Lovelace")
	require.NoError(t, err)
	assert.Equal(t, int64(42), again.XP)
}

func TestValidateJWTRejectsGarbage(t *testing.T) {
	e := newEnv(t)

	_, err := e.profileSvc.ValidateJWT("not-a-token")
	assert.Error(t, err)

	other := services.NewProfileService(e.profiles, e.lists, e.achieves, nil, "different-secret")
	token, err := other.GenerateJWT("sub-123")
	require.NoError(t, err)

	_, err = e.profileSvc.ValidateJWT(token)
	assert.Error(t, err, "token signed with another secret is rejected")
}

func TestCompleteOnboarding(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	_, _, err := e.profileSvc.SignIn(ctx, "sub-1", "Ada", "Lovelace")
	require.NoError(t, err)
	_, _, err = e.profileSvc.SignIn(ctx, "sub-2", "Grace", "Hopper")
	require.NoError(t, err)

	t.Run("rejects empty username", func(t *testing.T) {
		_, err := e.profileSvc.CompleteOnboarding(ctx, "sub-1", "   ", "", string(models.AgeRange18To25), "")
		assert.ErrorIs(t, err, services.ErrEmptyUsername)
	})

	t.Run("rejects invalid age range", func(t *testing.T) {
		_, err := e.profileSvc.CompleteOnboarding(ctx, "sub-1", "ada", "", "12_99", "")
		assert.ErrorIs(t, err, services.ErrInvalidAgeRange)
	})

	t.Run("completes the profile", func(t *testing.T) {
		profile, err := e.profileSvc.CompleteOnboarding(ctx, "sub-1", "ada", "hello", string(models.AgeRange26To40), "https://cdn.test/ada.jpg")
		require.NoError(t, err)
		require.NotNil(t, profile.Username)
		assert.Equal(t, "ada", *profile.Username)
		assert.True(t, profile.Onboarded())

		// Onboarding seeds the friend list and the two achievements.
		list, err := e.lists.Get(ctx, "sub-1")
		require.NoError(t, err)
		assert.Empty(t, list.Friends)

		achievements, err := e.achievementSvc.List(ctx, "sub-1")
		require.NoError(t, err)
		require.Len(t, achievements, 2)
		for _, a := range achievements {
			assert.Equal(t, 0, a.Amount)
			assert.Equal(t, 0, a.Level)
		}
	})

	t.Run("rejects taken username", func(t *testing.T) {
		_, err := e.profileSvc.CompleteOnboarding(ctx, "sub-2", "ada", "", string(models.AgeRange18To25), "")
		assert.ErrorIs(t, err, services.ErrUsernameTaken)
	})
}

func TestAddXP(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.addUser(t, "alice", "alice")

	newXP, err := e.profileSvc.AddXP(ctx, "alice", 10)
	require.NoError(t, err)
	assert.Equal(t, int64(10), newXP)

	newXP, err = e.profileSvc.AddXP(ctx, "alice", -4)
	require.NoError(t, err)
	assert.Equal(t, int64(6), newXP)

	// The balance clamps at zero instead of going negative.
	newXP, err = e.profileSvc.AddXP(ctx, "alice", -100)
	require.NoError(t, err)
	assert.Equal(t, int64(0), newXP)
}

func TestUpdatePushToken(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.addUser(t, "alice", "alice")

	token := "device-token-1"
	require.NoError(t, e.profileSvc.UpdatePushToken(ctx, "alice", &token))

	profile, err := e.profileSvc.Get(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, profile.PushToken)
	assert.Equal(t, token, *profile.PushToken)

	require.NoError(t, e.profileSvc.UpdatePushToken(ctx, "alice", nil))
	profile, err = e.profileSvc.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Nil(t, profile.PushToken)
}
