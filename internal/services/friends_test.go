package services_test

import (
	"context"
	"testing"

	"github.com/pagoda8/Walking-Buddy-sub000/internal/repository"
	"github.com/pagoda8/Walking-Buddy-sub000/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendFriendRequest(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.addUser(t, "alice", "alice")
	e.addUser(t, "bob", "bob")

	t.Run("unknown username", func(t *testing.T) {
		_, err := e.friendSvc.SendRequest(ctx, "alice", "nobody")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("self request", func(t *testing.T) {
		_, err := e.friendSvc.SendRequest(ctx, "alice", "alice")
		assert.ErrorIs(t, err, services.ErrSelfFriend)
	})

	t.Run("creates request", func(t *testing.T) {
		req, err := e.friendSvc.SendRequest(ctx, "alice", "bob")
		require.NoError(t, err)
		assert.Equal(t, "alice", req.SenderID)
		assert.Equal(t, "bob", req.ReceiverID)

		incoming, err := e.friendSvc.ListIncomingRequests(ctx, "bob")
		require.NoError(t, err)
		require.Len(t, incoming, 1)
	})

	t.Run("already friends", func(t *testing.T) {
		require.NoError(t, e.friendSvc.AcceptRequest(ctx, "alice", "bob"))

		_, err := e.friendSvc.SendRequest(ctx, "alice", "bob")
		assert.ErrorIs(t, err, services.ErrAlreadyFriends)
	})
}

func TestDuplicateFriendRequestsSweptTogether(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.addUser(t, "alice", "alice")
	e.addUser(t, "bob", "bob")

	// Nothing stops a second identical request; both rows land.
	_, err := e.friendSvc.SendRequest(ctx, "alice", "bob")
	require.NoError(t, err)
	_, err = e.friendSvc.SendRequest(ctx, "alice", "bob")
	require.NoError(t, err)

	incoming, err := e.friendSvc.ListIncomingRequests(ctx, "bob")
	require.NoError(t, err)
	assert.Len(t, incoming, 2)

	// A single accept clears every request for the pair.
	require.NoError(t, e.friendSvc.AcceptRequest(ctx, "alice", "bob"))

	incoming, err = e.friendSvc.ListIncomingRequests(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, incoming)

	ok, err := e.friendSvc.AreFriends(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAcceptFriendRequestIsSymmetric(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.addUser(t, "alice", "alice")
	e.addUser(t, "bob", "bob")

	_, err := e.friendSvc.SendRequest(ctx, "alice", "bob")
	require.NoError(t, err)
	require.NoError(t, e.friendSvc.AcceptRequest(ctx, "alice", "bob"))

	for _, pair := range [][2]string{{"alice", "bob"}, {"bob", "alice"}} {
		ok, err := e.friendSvc.AreFriends(ctx, pair[0], pair[1])
		require.NoError(t, err)
		assert.True(t, ok, "%s should list %s", pair[0], pair[1])
	}
}

func TestDenyFriendRequest(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.addUser(t, "alice", "alice")
	e.addUser(t, "bob", "bob")

	_, err := e.friendSvc.SendRequest(ctx, "alice", "bob")
	require.NoError(t, err)

	require.NoError(t, e.friendSvc.DenyRequest(ctx, "alice", "bob"))

	incoming, err := e.friendSvc.ListIncomingRequests(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, incoming)

	ok, err := e.friendSvc.AreFriends(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUnfriend(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.addUser(t, "alice", "alice")
	e.addUser(t, "bob", "bob")
	e.addUser(t, "carol", "carol")
	e.befriend(t, "alice", "bob")
	e.befriend(t, "alice", "carol")

	require.NoError(t, e.friendSvc.Unfriend(ctx, "alice", "bob"))

	ok, err := e.friendSvc.AreFriends(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = e.friendSvc.AreFriends(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.False(t, ok)

	// The other friendship is untouched.
	ok, err = e.friendSvc.AreFriends(ctx, "alice", "carol")
	require.NoError(t, err)
	assert.True(t, ok)

	// Unfriending again is a no-op, not an error.
	require.NoError(t, e.friendSvc.Unfriend(ctx, "alice", "bob"))
}

func TestListFriends(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.addUser(t, "alice", "alice")
	e.addUser(t, "bob", "bob")
	e.addUser(t, "carol", "carol")
	e.befriend(t, "alice", "bob")
	e.befriend(t, "alice", "carol")

	friends, err := e.friendSvc.ListFriends(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, friends, 2)

	ids := []string{friends[0].ID, friends[1].ID}
	assert.ElementsMatch(t, []string{"bob", "carol"}, ids)

	// A user with no friends gets an empty slice, not an error.
	e.addUser(t, "dave", "dave")
	friends, err = e.friendSvc.ListFriends(ctx, "dave")
	require.NoError(t, err)
	assert.Empty(t, friends)
}
