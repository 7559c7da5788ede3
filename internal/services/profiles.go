package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pagoda8/Walking-Buddy-sub000/internal/chat"
	"github.com/pagoda8/Walking-Buddy-sub000/internal/models"
	"github.com/pagoda8/Walking-Buddy-sub000/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

const jwtExpDays = 365

// ProfileService handles sign-in, onboarding and the XP ledger.
type ProfileService struct {
	profiles     ProfileStore
	friendLists  FriendListStore
	achievements AchievementStore
	chat         *chat.Client
	jwtSecret    string
}

// NewProfileService creates a new profile service
func NewProfileService(
	profiles ProfileStore,
	friendLists FriendListStore,
	achievements AchievementStore,
	chatClient *chat.Client,
	jwtSecret string,
) *ProfileService {
	return &ProfileService{
		profiles:     profiles,
		friendLists:  friendLists,
		achievements: achievements,
		chat:         chatClient,
		jwtSecret:    jwtSecret,
	}
}

// SignIn resolves the external auth subject to a profile, creating an
// incomplete one (no username, no age range, zero XP) on first sign-in, and
// returns a session token. Also opens the chat SaaS session; chat failures
// are logged but do not block sign-in.
func (s *ProfileService) SignIn(ctx context.Context, subjectID, firstName, lastName string) (*models.Profile, string, error) {
	profile, err := s.profiles.GetByID(ctx, subjectID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, "", fmt.Errorf("failed to look up profile: %w", err)
		}
		profile = &models.Profile{
			ID:        subjectID,
			FirstName: firstName,
			LastName:  lastName,
			XP:        0,
			CreatedAt: time.Now(),
		}
		if err := s.profiles.Create(ctx, profile); err != nil {
			return nil, "", fmt.Errorf("failed to create profile: %w", err)
		}
	}

	displayName := strings.TrimSpace(profile.FirstName + " " + profile.LastName)
	if err := s.chat.SignIn(ctx, profile.ID, displayName); err != nil {
		log.Error().Err(err).Str("user_id", profile.ID).Msg("Chat sign-in failed")
	}

	token, err := s.GenerateJWT(profile.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return profile, token, nil
}

// SignOut closes the chat SaaS session.
func (s *ProfileService) SignOut(ctx context.Context, userID string) error {
	if err := s.chat.SignOut(ctx, userID); err != nil {
		return fmt.Errorf("failed to sign out of chat: %w", err)
	}
	return nil
}

// CompleteOnboarding finishes profile setup. Setting the age range marks the
// profile complete; the blank friend list and the two zeroed achievements are
// created here.
func (s *ProfileService) CompleteOnboarding(ctx context.Context, id, username, bio, ageRange, photoURL string) (*models.Profile, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrEmptyUsername
	}
	if !models.ValidAgeRange(ageRange) {
		return nil, ErrInvalidAgeRange
	}

	taken, err := s.profiles.UsernameExists(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	profile, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	profile.Username = &username
	profile.Bio = bio
	profile.AgeRange = &ageRange
	profile.PhotoURL = photoURL

	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	if err := s.friendLists.Create(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to create friend list: %w", err)
	}

	for _, name := range []string{models.AchievementCollector, models.AchievementCompetitor} {
		a := &models.Achievement{ProfileID: id, Name: name, Amount: 0, Level: 0}
		if err := s.achievements.Create(ctx, a); err != nil {
			return nil, fmt.Errorf("failed to create %s achievement: %w", name, err)
		}
	}

	return profile, nil
}

// AddXP reads the profile, adds delta and writes the balance back. The two
// steps are separate store calls; concurrent awards can lose an update.
func (s *ProfileService) AddXP(ctx context.Context, id string, delta int64) (int64, error) {
	profile, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("failed to get profile: %w", err)
	}
	newXP := profile.XP + delta
	if newXP < 0 {
		newXP = 0
	}
	if err := s.profiles.UpdateXP(ctx, id, newXP); err != nil {
		return 0, fmt.Errorf("failed to write xp: %w", err)
	}
	return newXP, nil
}

// Get retrieves a profile by id.
func (s *ProfileService) Get(ctx context.Context, id string) (*models.Profile, error) {
	return s.profiles.GetByID(ctx, id)
}

// GetByUsername retrieves a profile by username.
func (s *ProfileService) GetByUsername(ctx context.Context, username string) (*models.Profile, error) {
	return s.profiles.GetByUsername(ctx, username)
}

// UpdatePushToken stores the device push token for a profile.
func (s *ProfileService) UpdatePushToken(ctx context.Context, id string, pushToken *string) error {
	return s.profiles.UpdatePushToken(ctx, id, pushToken)
}

// GenerateJWT generates a session token for a user
func (s *ProfileService) GenerateJWT(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().AddDate(0, 0, jwtExpDays).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateJWT validates a session token and returns the user ID
func (s *ProfileService) ValidateJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return "", fmt.Errorf("user_id not found in token")
	}

	return userID, nil
}
