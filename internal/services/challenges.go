package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pagoda8/Walking-Buddy-sub000/internal/models"
	"github.com/pagoda8/Walking-Buddy-sub000/internal/pending"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const minutesPerDay = 1440

// Pending-operation names used with the tracker.
const (
	opChallengeAccept  = "challenge-accept"
	opChallengeResolve = "challenge-resolve"
)

// ChallengeService runs the time-boxed 1v1 XP competition lifecycle:
// request -> accept/deny -> run -> lazy expiry -> reward.
type ChallengeService struct {
	lists        FriendListStore
	requests     ChallengeRequestStore
	challenges   ChallengeStore
	profiles     ProfileStore
	achievements *AchievementService
	pending      *pending.Tracker
}

// NewChallengeService creates a new challenge service. The pending tracker
// may be nil, in which case in-flight deduplication is disabled.
func NewChallengeService(
	lists FriendListStore,
	requests ChallengeRequestStore,
	challenges ChallengeStore,
	profiles ProfileStore,
	achievements *AchievementService,
	tracker *pending.Tracker,
) *ChallengeService {
	return &ChallengeService{
		lists:        lists,
		requests:     requests,
		challenges:   challenges,
		profiles:     profiles,
		achievements: achievements,
		pending:      tracker,
	}
}

// Reward computes the XP payout when a challenge with final scores xp1/xp2
// resolves. On a draw both participants get ceil(xp1/4) and winner is 0.
// Otherwise the higher scorer alone gets floor(max/2) and winner is 1 or 2.
func Reward(xp1, xp2 int) (reward, winner int) {
	if xp1 == xp2 {
		return (xp1 + 3) / 4, 0
	}
	if xp1 > xp2 {
		return xp1 / 2, 1
	}
	return xp2 / 2, 2
}

// FormatDuration renders a minute count as its non-zero day/hour/minute
// components, e.g. "3d 2h" or "45m". Zero renders as "< 1m".
func FormatDuration(minutes int) string {
	if minutes <= 0 {
		return "< 1m"
	}

	d := minutes / minutesPerDay
	h := (minutes % minutesPerDay) / 60
	m := minutes % 60

	var parts []string
	if d > 0 {
		parts = append(parts, fmt.Sprintf("%dd", d))
	}
	if h > 0 {
		parts = append(parts, fmt.Sprintf("%dh", h))
	}
	if m > 0 {
		parts = append(parts, fmt.Sprintf("%dm", m))
	}
	return strings.Join(parts, " ")
}

// challengeEnd computes the expiry instant. The duration is decomposed into
// days, hours and minutes and the days are applied by calendar addition, so
// a window spanning a DST transition can differ from the literal minute
// count by up to an hour.
func challengeEnd(now time.Time, minutes int) time.Time {
	d := minutes / minutesPerDay
	h := (minutes % minutesPerDay) / 60
	m := minutes % 60
	return now.AddDate(0, 0, d).Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

// SendRequest creates a challenge request. The duration must be at least one
// minute and the receiver must be on the sender's friend list.
func (s *ChallengeService) SendRequest(ctx context.Context, senderID, receiverID string, minutes int) (*models.ChallengeRequest, error) {
	if minutes < 1 {
		return nil, ErrZeroDuration
	}
	if senderID == receiverID {
		return nil, ErrSelfChallenge
	}

	list, err := s.lists.Get(ctx, senderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get friend list: %w", err)
	}
	if !list.Contains(receiverID) {
		return nil, ErrNotFriends
	}

	req := &models.ChallengeRequest{
		ID:         uuid.New().String(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Minutes:    minutes,
		CreatedAt:  time.Now(),
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to create challenge request: %w", err)
	}
	return req, nil
}

// AcceptRequest turns a challenge request into a running challenge. The
// at-most-one-challenge-per-pair invariant is a read-then-decide check, not
// an atomic one; if a challenge already exists for the pair the request is
// left intact and ErrChallengeExists is returned.
func (s *ChallengeService) AcceptRequest(ctx context.Context, requestID, accepterID string) (*models.Challenge, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.ReceiverID != accepterID {
		return nil, ErrNotParticipant
	}

	if err := s.acquire(ctx, opChallengeAccept, accepterID); err != nil {
		return nil, err
	}
	defer s.release(ctx, opChallengeAccept, accepterID)

	exists, err := s.challenges.ExistsForPair(ctx, req.SenderID, req.ReceiverID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing challenge: %w", err)
	}
	if exists {
		return nil, ErrChallengeExists
	}

	challenge := &models.Challenge{
		ID:      uuid.New().String(),
		User1ID: req.SenderID,
		User2ID: req.ReceiverID,
		XP1:     0,
		XP2:     0,
		EndAt:   challengeEnd(time.Now(), req.Minutes),
	}
	if err := s.challenges.Create(ctx, challenge); err != nil {
		return nil, fmt.Errorf("failed to create challenge: %w", err)
	}

	if err := s.requests.Delete(ctx, req.ID); err != nil {
		// The challenge is live; a leftover request row only affects the
		// request list and is cleaned up on the next deny.
		log.Error().Err(err).Str("request_id", req.ID).Msg("Failed to delete accepted challenge request")
	}

	return challenge, nil
}

// DenyRequest deletes a challenge request.
func (s *ChallengeService) DenyRequest(ctx context.Context, requestID, accepterID string) error {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req.ReceiverID != accepterID {
		return ErrNotParticipant
	}
	if err := s.requests.Delete(ctx, req.ID); err != nil {
		return fmt.Errorf("failed to delete challenge request: %w", err)
	}
	return nil
}

// ListIncomingRequests retrieves pending challenge requests for a user.
func (s *ChallengeService) ListIncomingRequests(ctx context.Context, userID string) ([]*models.ChallengeRequest, error) {
	return s.requests.ListByReceiver(ctx, userID)
}

// ListActive returns the user's running challenges. Expiry is pull-based:
// any fetched challenge whose window has closed is resolved here and
// excluded from the result.
func (s *ChallengeService) ListActive(ctx context.Context, userID string) ([]*models.Challenge, error) {
	all, err := s.challenges.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}

	now := time.Now()
	active := make([]*models.Challenge, 0, len(all))
	for _, c := range all {
		if !c.Expired(now) {
			active = append(active, c)
			continue
		}
		if err := s.Resolve(ctx, c); err != nil {
			if errors.Is(err, pending.ErrInFlight) {
				continue // another session is resolving it
			}
			return nil, err
		}
	}
	return active, nil
}

// RecordProgress adds delta to the acting participant's accrued counter on a
// running challenge.
func (s *ChallengeService) RecordProgress(ctx context.Context, challengeID, userID string, delta int) error {
	c, err := s.challenges.GetByID(ctx, challengeID)
	if err != nil {
		return err
	}
	if !c.Involves(userID) {
		return ErrNotParticipant
	}
	if c.Expired(time.Now()) {
		return ErrChallengeOver
	}

	if c.User1ID == userID {
		c.XP1 += delta
	} else {
		c.XP2 += delta
	}
	if err := s.challenges.UpdateXP(ctx, c.ID, c.XP1, c.XP2); err != nil {
		return fmt.Errorf("failed to record progress: %w", err)
	}
	return nil
}

// Resolve deletes an expired challenge and pays out the reward. The delete
// and the XP award are separate writes; a crash in between loses the reward.
// On a draw both participants are paid and no achievement moves; on a win
// the winner is paid and their competitor achievement advances by one.
func (s *ChallengeService) Resolve(ctx context.Context, c *models.Challenge) error {
	if err := s.acquire(ctx, opChallengeResolve, c.ID); err != nil {
		return err
	}
	defer s.release(ctx, opChallengeResolve, c.ID)

	if err := s.challenges.Delete(ctx, c.ID); err != nil {
		return fmt.Errorf("failed to delete challenge: %w", err)
	}

	reward, winner := Reward(c.XP1, c.XP2)

	switch winner {
	case 0:
		if err := s.award(ctx, c.User1ID, reward); err != nil {
			return err
		}
		if err := s.award(ctx, c.User2ID, reward); err != nil {
			return err
		}
	case 1:
		if err := s.rewardWinner(ctx, c.User1ID, reward); err != nil {
			return err
		}
	case 2:
		if err := s.rewardWinner(ctx, c.User2ID, reward); err != nil {
			return err
		}
	}

	log.Info().
		Str("challenge_id", c.ID).
		Int("xp1", c.XP1).
		Int("xp2", c.XP2).
		Int("reward", reward).
		Int("winner", winner).
		Msg("Challenge resolved")

	return nil
}

func (s *ChallengeService) rewardWinner(ctx context.Context, userID string, reward int) error {
	if err := s.award(ctx, userID, reward); err != nil {
		return err
	}
	if err := s.achievements.Advance(ctx, userID, models.AchievementCompetitor, 1); err != nil {
		return fmt.Errorf("failed to advance competitor achievement: %w", err)
	}
	return nil
}

func (s *ChallengeService) award(ctx context.Context, userID string, reward int) error {
	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get profile for award: %w", err)
	}
	if err := s.profiles.UpdateXP(ctx, userID, profile.XP+int64(reward)); err != nil {
		return fmt.Errorf("failed to award xp: %w", err)
	}
	return nil
}

func (s *ChallengeService) acquire(ctx context.Context, op, id string) error {
	if s.pending == nil {
		return nil
	}
	return s.pending.Acquire(ctx, op, id)
}

func (s *ChallengeService) release(ctx context.Context, op, id string) {
	if s.pending == nil {
		return
	}
	if err := s.pending.Release(ctx, op, id); err != nil {
		log.Error().Err(err).Str("op", op).Str("id", id).Msg("Failed to release pending token")
	}
}
