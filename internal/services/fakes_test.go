package services_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/pagoda8/Walking-Buddy-sub000/internal/models"
	"github.com/pagoda8/Walking-Buddy-sub000/internal/repository"
	"github.com/pagoda8/Walking-Buddy-sub000/internal/services"

	"github.com/stretchr/testify/require"
)

//
// In-memory store fakes. They copy records on the way in and out so tests
// exercise the same read-modify-write sequencing the real repositories force.
//

type fakeProfiles struct {
	mu sync.Mutex
	m  map[string]models.Profile
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{m: make(map[string]models.Profile)}
}

func (f *fakeProfiles) Create(_ context.Context, p *models.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.m[p.ID] = *p
	return nil
}

func (f *fakeProfiles) GetByID(_ context.Context, id string) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.m[id]
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", id, repository.ErrNotFound)
	}
	return &p, nil
}

func (f *fakeProfiles) GetByUsername(_ context.Context, username string) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.m {
		if p.Username != nil && *p.Username == username {
			p := p
			return &p, nil
		}
	}
	return nil, fmt.Errorf("profile %q: %w", username, repository.ErrNotFound)
}

func (f *fakeProfiles) UsernameExists(_ context.Context, username string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.m {
		if p.Username != nil && *p.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeProfiles) Update(_ context.Context, p *models.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.m[p.ID]; !ok {
		return fmt.Errorf("profile %s: %w", p.ID, repository.ErrNotFound)
	}
	f.m[p.ID] = *p
	return nil
}

func (f *fakeProfiles) UpdateXP(_ context.Context, id string, xp int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.m[id]
	if !ok {
		return fmt.Errorf("profile %s: %w", id, repository.ErrNotFound)
	}
	p.XP = xp
	f.m[id] = p
	return nil
}

func (f *fakeProfiles) UpdatePushToken(_ context.Context, id string, token *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.m[id]
	if !ok {
		return fmt.Errorf("profile %s: %w", id, repository.ErrNotFound)
	}
	p.PushToken = token
	f.m[id] = p
	return nil
}

type fakeLists struct {
	mu sync.Mutex
	m  map[string][]string
}

func newFakeLists() *fakeLists {
	return &fakeLists{m: make(map[string][]string)}
}

func (f *fakeLists) Create(_ context.Context, profileID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.m[profileID] = []string{}
	return nil
}

func (f *fakeLists) Get(_ context.Context, profileID string) (*models.FriendList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	friends, ok := f.m[profileID]
	if !ok {
		return nil, fmt.Errorf("friend list %s: %w", profileID, repository.ErrNotFound)
	}
	return &models.FriendList{ProfileID: profileID, Friends: append([]string{}, friends...)}, nil
}

func (f *fakeLists) Update(_ context.Context, list *models.FriendList) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.m[list.ProfileID]; !ok {
		return fmt.Errorf("friend list %s: %w", list.ProfileID, repository.ErrNotFound)
	}
	f.m[list.ProfileID] = append([]string{}, list.Friends...)
	return nil
}

type fakeFriendRequests struct {
	mu sync.Mutex
	m  []models.FriendRequest
}

func newFakeFriendRequests() *fakeFriendRequests {
	return &fakeFriendRequests{}
}

func (f *fakeFriendRequests) Create(_ context.Context, req *models.FriendRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.m = append(f.m, *req)
	return nil
}

func (f *fakeFriendRequests) ListByReceiver(_ context.Context, receiverID string) ([]*models.FriendRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.FriendRequest
	for i := range f.m {
		if f.m[i].ReceiverID == receiverID {
			req := f.m[i]
			out = append(out, &req)
		}
	}
	return out, nil
}

func (f *fakeFriendRequests) DeleteByPair(_ context.Context, senderID, receiverID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.m[:0]
	for _, req := range f.m {
		if req.SenderID != senderID || req.ReceiverID != receiverID {
			kept = append(kept, req)
		}
	}
	f.m = kept
	return nil
}

type fakeChallengeRequests struct {
	mu sync.Mutex
	m  map[string]models.ChallengeRequest
}

func newFakeChallengeRequests() *fakeChallengeRequests {
	return &fakeChallengeRequests{m: make(map[string]models.ChallengeRequest)}
}

func (f *fakeChallengeRequests) Create(_ context.Context, req *models.ChallengeRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.m[req.ID] = *req
	return nil
}

func (f *fakeChallengeRequests) GetByID(_ context.Context, id string) (*models.ChallengeRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.m[id]
	if !ok {
		return nil, fmt.Errorf("challenge request %s: %w", id, repository.ErrNotFound)
	}
	return &req, nil
}

func (f *fakeChallengeRequests) ListByReceiver(_ context.Context, receiverID string) ([]*models.ChallengeRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.ChallengeRequest
	for _, req := range f.m {
		if req.ReceiverID == receiverID {
			req := req
			out = append(out, &req)
		}
	}
	return out, nil
}

func (f *fakeChallengeRequests) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.m[id]; !ok {
		return fmt.Errorf("challenge request %s: %w", id, repository.ErrNotFound)
	}
	delete(f.m, id)
	return nil
}

type fakeChallenges struct {
	mu sync.Mutex
	m  map[string]models.Challenge
}

func newFakeChallenges() *fakeChallenges {
	return &fakeChallenges{m: make(map[string]models.Challenge)}
}

func (f *fakeChallenges) Create(_ context.Context, c *models.Challenge) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.m[c.ID] = *c
	return nil
}

func (f *fakeChallenges) GetByID(_ context.Context, id string) (*models.Challenge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.m[id]
	if !ok {
		return nil, fmt.Errorf("challenge %s: %w", id, repository.ErrNotFound)
	}
	return &c, nil
}

func (f *fakeChallenges) ListByUser(_ context.Context, userID string) ([]*models.Challenge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Challenge
	for _, c := range f.m {
		if c.User1ID == userID || c.User2ID == userID {
			c := c
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EndAt.Before(out[j].EndAt) })
	return out, nil
}

func (f *fakeChallenges) ExistsForPair(_ context.Context, a, b string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.m {
		if (c.User1ID == a && c.User2ID == b) || (c.User1ID == b && c.User2ID == a) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeChallenges) UpdateXP(_ context.Context, id string, xp1, xp2 int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.m[id]
	if !ok {
		return fmt.Errorf("challenge %s: %w", id, repository.ErrNotFound)
	}
	c.XP1, c.XP2 = xp1, xp2
	f.m[id] = c
	return nil
}

func (f *fakeChallenges) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.m, id)
	return nil
}

type fakeAchievements struct {
	mu sync.Mutex
	m  map[string]models.Achievement // key: profileID/name
}

func newFakeAchievements() *fakeAchievements {
	return &fakeAchievements{m: make(map[string]models.Achievement)}
}

func achievementKey(profileID, name string) string {
	return profileID + "/" + name
}

func (f *fakeAchievements) Create(_ context.Context, a *models.Achievement) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.m[achievementKey(a.ProfileID, a.Name)] = *a
	return nil
}

func (f *fakeAchievements) Get(_ context.Context, profileID, name string) (*models.Achievement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.m[achievementKey(profileID, name)]
	if !ok {
		return nil, fmt.Errorf("achievement %s/%s: %w", profileID, name, repository.ErrNotFound)
	}
	return &a, nil
}

func (f *fakeAchievements) List(_ context.Context, profileID string) ([]*models.Achievement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Achievement
	for _, a := range f.m {
		if a.ProfileID == profileID {
			a := a
			out = append(out, &a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeAchievements) Update(_ context.Context, a *models.Achievement) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := achievementKey(a.ProfileID, a.Name)
	if _, ok := f.m[key]; !ok {
		return fmt.Errorf("achievement %s/%s: %w", a.ProfileID, a.Name, repository.ErrNotFound)
	}
	f.m[key] = *a
	return nil
}

type fakePhotos struct {
	mu        sync.Mutex
	m         map[string]models.Photo
	collected *fakeCollected
}

func newFakePhotos(collected *fakeCollected) *fakePhotos {
	return &fakePhotos{m: make(map[string]models.Photo), collected: collected}
}

func (f *fakePhotos) Create(_ context.Context, p *models.Photo) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.m[p.ID] = *p
	return nil
}

func (f *fakePhotos) GetByID(_ context.Context, id string) (*models.Photo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.m[id]
	if !ok {
		return nil, fmt.Errorf("photo %s: %w", id, repository.ErrNotFound)
	}
	return &p, nil
}

func (f *fakePhotos) Nearest(ctx context.Context, viewerID string, lat, lng float64, limit int) ([]*models.Photo, error) {
	f.mu.Lock()
	var out []*models.Photo
	for _, p := range f.m {
		if p.OwnerID == viewerID {
			continue
		}
		p := p
		out = append(out, &p)
	}
	f.mu.Unlock()

	if f.collected != nil {
		filtered := out[:0]
		for _, p := range out {
			ok, _ := f.collected.Exists(ctx, viewerID, p.ID)
			if !ok {
				filtered = append(filtered, p)
			}
		}
		out = filtered
	}

	sort.Slice(out, func(i, j int) bool {
		di := (out[i].Lat-lat)*(out[i].Lat-lat) + (out[i].Lng-lng)*(out[i].Lng-lng)
		dj := (out[j].Lat-lat)*(out[j].Lat-lat) + (out[j].Lng-lng)*(out[j].Lng-lng)
		return di < dj
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeCollected struct {
	mu sync.Mutex
	m  map[string]bool // key: profileID/photoID
}

func newFakeCollected() *fakeCollected {
	return &fakeCollected{m: make(map[string]bool)}
}

func (f *fakeCollected) Create(_ context.Context, c *models.CollectedPhoto) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.m[c.ProfileID+"/"+c.PhotoID] = true
	return nil
}

func (f *fakeCollected) Exists(_ context.Context, profileID, photoID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.m[profileID+"/"+photoID], nil
}

type fakeUploader struct{}

func (fakeUploader) PresignPut(_ context.Context, key, _ string) (string, error) {
	return "https://upload.test/" + key, nil
}

func (fakeUploader) PublicURL(key string) string {
	return "https://cdn.test/" + key
}

//
// Test environment wiring all services over the fakes.
//

type env struct {
	profiles   *fakeProfiles
	lists      *fakeLists
	friendReqs *fakeFriendRequests
	chalReqs   *fakeChallengeRequests
	challenges *fakeChallenges
	achieves   *fakeAchievements
	photos     *fakePhotos
	collected  *fakeCollected

	profileSvc     *services.ProfileService
	friendSvc      *services.FriendService
	challengeSvc   *services.ChallengeService
	achievementSvc *services.AchievementService
	photoSvc       *services.PhotoService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	e := &env{
		profiles:   newFakeProfiles(),
		lists:      newFakeLists(),
		friendReqs: newFakeFriendRequests(),
		chalReqs:   newFakeChallengeRequests(),
		challenges: newFakeChallenges(),
		achieves:   newFakeAchievements(),
		collected:  newFakeCollected(),
	}
	e.photos = newFakePhotos(e.collected)

	e.achievementSvc = services.NewAchievementService(e.achieves)
	e.profileSvc = services.NewProfileService(e.profiles, e.lists, e.achieves, nil, "test-secret")
	e.friendSvc = services.NewFriendService(e.profiles, e.lists, e.friendReqs)
	e.challengeSvc = services.NewChallengeService(
		e.lists, e.chalReqs, e.challenges, e.profiles, e.achievementSvc, nil,
	)
	e.photoSvc = services.NewPhotoService(
		e.photos, e.collected, e.profiles, e.challenges, e.achievementSvc, fakeUploader{},
	)
	return e
}

// addUser creates an onboarded profile with its friend list and zeroed
// achievements, mirroring what sign-in plus onboarding produce.
func (e *env) addUser(t *testing.T, id, username string) {
	t.Helper()
	ctx := context.Background()

	_, _, err := e.profileSvc.SignIn(ctx, id, "Test", "User")
	require.NoError(t, err)
	_, err = e.profileSvc.CompleteOnboarding(ctx, id, username, "bio", string(models.AgeRange18To25), "")
	require.NoError(t, err)
}

// befriend makes two users friends via the request protocol.
func (e *env) befriend(t *testing.T, a, b string) {
	t.Helper()
	ctx := context.Background()

	aProfile, err := e.profiles.GetByID(ctx, b)
	require.NoError(t, err)
	_, err = e.friendSvc.SendRequest(ctx, a, *aProfile.Username)
	require.NoError(t, err)
	require.NoError(t, e.friendSvc.AcceptRequest(ctx, a, b))
}
