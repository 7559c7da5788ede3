package services

import "errors"

// Validation failures. These are rejected before any store mutation and map
// to specific user-facing messages; anything else surfaces as a retryable
// "try again later" condition.
var (
	ErrEmptyUsername    = errors.New("username must not be empty")
	ErrUsernameTaken    = errors.New("username is already taken")
	ErrInvalidAgeRange  = errors.New("invalid age range")
	ErrSelfFriend       = errors.New("cannot add yourself as a friend")
	ErrAlreadyFriends   = errors.New("you are already friends with this user")
	ErrSelfChallenge    = errors.New("cannot challenge yourself")
	ErrNotFriends       = errors.New("you can only challenge a friend")
	ErrZeroDuration     = errors.New("challenge duration must be at least one minute")
	ErrChallengeExists  = errors.New("a challenge with this person is already running")
	ErrChallengeOver    = errors.New("challenge has already ended")
	ErrNotParticipant   = errors.New("not a participant of this challenge")
	ErrOwnPhoto         = errors.New("cannot collect your own photo")
	ErrAlreadyCollected = errors.New("photo already collected")
	ErrOutOfRange       = errors.New("too far away to collect this photo")
)
