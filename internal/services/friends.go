package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pagoda8/Walking-Buddy-sub000/internal/models"

	"github.com/google/uuid"
)

// FriendService implements the friend-relationship protocol:
// none -> requested -> {friends | none}, and friends -> none via unfriend.
type FriendService struct {
	profiles ProfileStore
	lists    FriendListStore
	requests FriendRequestStore
}

// NewFriendService creates a new friend service
func NewFriendService(profiles ProfileStore, lists FriendListStore, requests FriendRequestStore) *FriendService {
	return &FriendService{
		profiles: profiles,
		lists:    lists,
		requests: requests,
	}
}

// SendRequest creates a friend request addressed by username. Rejects
// self-friending, unknown usernames and existing friendships. There is no
// duplicate-request guard; two rapid sends create two requests, and accept
// sweeps them all at once.
func (s *FriendService) SendRequest(ctx context.Context, senderID, receiverUsername string) (*models.FriendRequest, error) {
	receiver, err := s.profiles.GetByUsername(ctx, receiverUsername)
	if err != nil {
		return nil, err
	}

	if receiver.ID == senderID {
		return nil, ErrSelfFriend
	}

	list, err := s.lists.Get(ctx, senderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get friend list: %w", err)
	}
	if list.Contains(receiver.ID) {
		return nil, ErrAlreadyFriends
	}

	req := &models.FriendRequest{
		ID:         uuid.New().String(),
		SenderID:   senderID,
		ReceiverID: receiver.ID,
		CreatedAt:  time.Now(),
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to create friend request: %w", err)
	}

	return req, nil
}

// AcceptRequest deletes the pair's requests and appends each user to the
// other's friend list. The four store calls are independent; a failure
// partway leaves a friendship recorded on one side only.
func (s *FriendService) AcceptRequest(ctx context.Context, requesterID, accepterID string) error {
	if err := s.requests.DeleteByPair(ctx, requesterID, accepterID); err != nil {
		return fmt.Errorf("failed to delete friend request: %w", err)
	}

	if err := s.appendFriend(ctx, requesterID, accepterID); err != nil {
		return err
	}
	return s.appendFriend(ctx, accepterID, requesterID)
}

func (s *FriendService) appendFriend(ctx context.Context, listOwner, friendID string) error {
	list, err := s.lists.Get(ctx, listOwner)
	if err != nil {
		return fmt.Errorf("failed to get friend list: %w", err)
	}
	list.Friends = append(list.Friends, friendID)
	if err := s.lists.Update(ctx, list); err != nil {
		return fmt.Errorf("failed to update friend list: %w", err)
	}
	return nil
}

// DenyRequest deletes the pair's requests. On failure the requests stay in
// place for a retry.
func (s *FriendService) DenyRequest(ctx context.Context, requesterID, accepterID string) error {
	if err := s.requests.DeleteByPair(ctx, requesterID, accepterID); err != nil {
		return fmt.Errorf("failed to delete friend request: %w", err)
	}
	return nil
}

// Unfriend removes each user from the other's friend list. Same
// no-transaction caveat as AcceptRequest.
func (s *FriendService) Unfriend(ctx context.Context, a, b string) error {
	if err := s.removeFriend(ctx, a, b); err != nil {
		return err
	}
	return s.removeFriend(ctx, b, a)
}

func (s *FriendService) removeFriend(ctx context.Context, listOwner, friendID string) error {
	list, err := s.lists.Get(ctx, listOwner)
	if err != nil {
		return fmt.Errorf("failed to get friend list: %w", err)
	}

	filtered := list.Friends[:0]
	for _, id := range list.Friends {
		if id != friendID {
			filtered = append(filtered, id)
		}
	}
	list.Friends = filtered

	if err := s.lists.Update(ctx, list); err != nil {
		return fmt.Errorf("failed to update friend list: %w", err)
	}
	return nil
}

// AreFriends reports whether b is on a's friend list.
func (s *FriendService) AreFriends(ctx context.Context, a, b string) (bool, error) {
	list, err := s.lists.Get(ctx, a)
	if err != nil {
		return false, fmt.Errorf("failed to get friend list: %w", err)
	}
	return list.Contains(b), nil
}

// ListFriends resolves a user's friend list to profiles. Profiles are
// fetched in parallel and joined; order follows the stored list.
func (s *FriendService) ListFriends(ctx context.Context, userID string) ([]*models.Profile, error) {
	list, err := s.lists.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get friend list: %w", err)
	}

	profiles := make([]*models.Profile, len(list.Friends))
	errs := make([]error, len(list.Friends))

	var wg sync.WaitGroup
	for i, id := range list.Friends {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			profiles[i], errs[i] = s.profiles.GetByID(ctx, id)
		}(i, id)
	}
	wg.Wait()

	result := make([]*models.Profile, 0, len(profiles))
	for i, p := range profiles {
		if errs[i] != nil {
			return nil, fmt.Errorf("failed to resolve friend profile: %w", errs[i])
		}
		result = append(result, p)
	}
	return result, nil
}

// ListIncomingRequests retrieves pending requests addressed to a user.
func (s *FriendService) ListIncomingRequests(ctx context.Context, userID string) ([]*models.FriendRequest, error) {
	return s.requests.ListByReceiver(ctx, userID)
}
