package models

import "time"

// AgeRange buckets a user's age. A profile with an empty age range has not
// finished onboarding yet.
type AgeRange string

const (
	AgeRangeUnder18 AgeRange = "under_18"
	AgeRange18To25  AgeRange = "18_25"
	AgeRange26To40  AgeRange = "26_40"
	AgeRange41To60  AgeRange = "41_60"
	AgeRangeOver60  AgeRange = "over_60"
)

// ValidAgeRange reports whether s is one of the known buckets.
func ValidAgeRange(s string) bool {
	switch AgeRange(s) {
	case AgeRangeUnder18, AgeRange18To25, AgeRange26To40, AgeRange41To60, AgeRangeOver60:
		return true
	}
	return false
}

// Profile represents a user of the app. ID is the external auth subject and
// never changes. Username and AgeRange are null until onboarding completes.
type Profile struct {
	ID        string    `json:"id"`
	Username  *string   `json:"username,omitempty"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Bio       string    `json:"bio"`
	AgeRange  *string   `json:"age_range,omitempty"`
	PhotoURL  string    `json:"photo_url,omitempty"`
	XP        int64     `json:"xp"`
	PushToken *string   `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Onboarded reports whether the profile has completed onboarding.
func (p *Profile) Onboarded() bool {
	return p.AgeRange != nil && *p.AgeRange != ""
}

// FriendList holds one user's friends as an ordered sequence of profile ids.
// The sequence is semantically a set but nothing deduplicates it.
type FriendList struct {
	ProfileID string   `json:"profile_id"`
	Friends   []string `json:"friends"`
}

// Contains reports whether id is in the list.
func (l *FriendList) Contains(id string) bool {
	for _, f := range l.Friends {
		if f == id {
			return true
		}
	}
	return false
}

// FriendRequest is a pending friendship offer from sender to receiver.
// Deleted on accept or deny.
type FriendRequest struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// ChallengeRequest is a pending challenge offer. Minutes is the requested
// duration and is always at least 1.
type ChallengeRequest struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Minutes    int       `json:"minutes"`
	CreatedAt  time.Time `json:"created_at"`
}

// Challenge is a running 1v1 XP competition. XP1/XP2 count experience accrued
// by each participant during the window; EndAt is when it expires.
type Challenge struct {
	ID      string    `json:"id"`
	User1ID string    `json:"user1_id"`
	User2ID string    `json:"user2_id"`
	XP1     int       `json:"xp1"`
	XP2     int       `json:"xp2"`
	EndAt   time.Time `json:"end_at"`
}

// Expired reports whether the challenge window has closed at t.
func (c *Challenge) Expired(t time.Time) bool {
	return !c.EndAt.After(t)
}

// Involves reports whether userID is one of the two participants.
func (c *Challenge) Involves(userID string) bool {
	return c.User1ID == userID || c.User2ID == userID
}

// Achievement names. Each user has one record per name.
const (
	AchievementCollector  = "collector"
	AchievementCompetitor = "competitor"
)

// Achievement tracks a monotonic counter and the tier derived from it.
type Achievement struct {
	ProfileID string `json:"profile_id"`
	Name      string `json:"name"`
	Amount    int    `json:"amount"`
	Level     int    `json:"level"`
}

// Photo is a geotagged photograph other users can collect for XP.
type Photo struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	S3URL     string    `json:"s3_url"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	XPValue   int       `json:"xp_value"`
	CreatedAt time.Time `json:"created_at"`
}

// CollectedPhoto records that a user collected a photo.
type CollectedPhoto struct {
	ProfileID   string    `json:"profile_id"`
	PhotoID     string    `json:"photo_id"`
	CollectedAt time.Time `json:"collected_at"`
}
