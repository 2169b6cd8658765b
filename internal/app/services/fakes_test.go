package services

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/bluecollar/internal/app/models"
	"github.com/yigit/bluecollar/internal/app/repositories"
	"github.com/yigit/bluecollar/internal/pkg/apperrors"
	"github.com/yigit/bluecollar/internal/pkg/cache"
	"github.com/yigit/bluecollar/internal/pkg/pagination"
)

// memDB is an in-memory stand-in for the Postgres repositories. A single
// mutex makes every method atomic, which is what the real transactions
// guarantee for join and leave.
type memDB struct {
	mu          sync.Mutex
	clock       time.Time
	tick        time.Duration
	communities map[string]models.Community
	memberships map[string]models.Membership // communityID + "|" + userID
	posts       map[string]models.Post
	jobs        map[string]models.JobPost
	apps        map[string]models.JobApplication
	profiles    map[string]models.UserProfile
	failWith    error
}

func newMemDB() *memDB {
	return &memDB{
		clock:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		tick:        time.Second,
		communities: map[string]models.Community{},
		memberships: map[string]models.Membership{},
		posts:       map[string]models.Post{},
		jobs:        map[string]models.JobPost{},
		apps:        map[string]models.JobApplication{},
		profiles:    map[string]models.UserProfile{},
	}
}

// now advances the fake database clock. A zero tick makes every write share
// a timestamp, which exercises the id tie-break.
func (m *memDB) now() time.Time {
	m.clock = m.clock.Add(m.tick)
	return m.clock
}

func membershipKey(communityID, userID string) string {
	return communityID + "|" + userID
}

// newestFirst sorts by (createdAt DESC, id DESC)
func newestFirst[T any](items []T, key func(T) (time.Time, string)) {
	sort.Slice(items, func(i, j int) bool {
		ti, ii := key(items[i])
		tj, ij := key(items[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return ii > ij
	})
}

// keysetPage emulates resolveCursor plus the row-value comparison
func keysetPage[T any](items []T, key func(T) (time.Time, string), cursor string, limit int) ([]T, error) {
	newestFirst(items, key)
	start := 0
	if cursor != "" {
		found := false
		for i, it := range items {
			if _, id := key(it); id == cursor {
				start, found = i+1, true
				break
			}
		}
		if !found {
			return nil, pagination.ErrInvalidCursor
		}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out, nil
}

func communityKey(c models.Community) (time.Time, string) { return c.CreatedAt, c.ID }
func postKey(p models.Post) (time.Time, string)           { return p.CreatedAt, p.ID }

// seedCommunity inserts a community directly, bypassing the service
func (m *memDB) seedCommunity(id, name string) models.Community {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	c := models.Community{
		ID:        id,
		Name:      name,
		NameLower: strings.ToLower(name),
		Type:      models.CommunityPublic,
		Topics:    []string{},
		Rules:     []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.communities[id] = c
	return c
}

func (m *memDB) memberCount(communityID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.communities[communityID].MemberCount
}

func (m *memDB) membershipRows(communityID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, ms := range m.memberships {
		if ms.CommunityID == communityID {
			n++
		}
	}
	return n
}

// --- communities ---

type memCommunities struct{ *memDB }

func (s memCommunities) Create(_ context.Context, c *models.Community) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	for _, existing := range s.communities {
		if existing.NameLower == c.NameLower {
			return apperrors.ErrNameTaken
		}
	}
	now := s.now()
	c.MemberCount = 0
	c.CreatedAt, c.UpdatedAt = now, now
	s.communities[c.ID] = *c
	return nil
}

func (s memCommunities) GetByID(_ context.Context, id string) (*models.Community, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.communities[id]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("Community not found")
	}
	return &c, nil
}

func (s memCommunities) all() []models.Community {
	out := make([]models.Community, 0, len(s.communities))
	for _, c := range s.communities {
		out = append(out, c)
	}
	return out
}

func (s memCommunities) List(_ context.Context, cursor string, limit int) ([]models.Community, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return keysetPage(s.all(), communityKey, cursor, limit)
}

func (s memCommunities) SearchByPrefix(_ context.Context, lo, hi string, limit int) ([]models.Community, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Community
	for _, c := range s.communities {
		if c.NameLower >= lo && c.NameLower <= hi {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NameLower < out[j].NameLower })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s memCommunities) ScanFirst(_ context.Context, n int) ([]models.Community, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return keysetPage(s.all(), communityKey, "", n)
}

// --- memberships ---

type memMemberships struct{ *memDB }

func (s memMemberships) Get(_ context.Context, communityID, userID string) (*models.Membership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ms, ok := s.memberships[membershipKey(communityID, userID)]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("Membership not found")
	}
	return &ms, nil
}

func (s memMemberships) Exists(_ context.Context, communityID, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.memberships[membershipKey(communityID, userID)]
	return ok, nil
}

func (s memMemberships) Join(_ context.Context, userID, communityID, communityName string) (*models.Membership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	c, ok := s.communities[communityID]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("Community not found")
	}
	if c.Name != communityName {
		return nil, apperrors.ErrNameMismatch
	}
	key := membershipKey(communityID, userID)
	if _, exists := s.memberships[key]; exists {
		return nil, apperrors.ErrAlreadyMember
	}
	now := s.now()
	ms := models.Membership{
		CommunityID:   communityID,
		UserID:        userID,
		CommunityName: communityName,
		Status:        models.MembershipActive,
		JoinedAt:      now,
	}
	s.memberships[key] = ms
	c.MemberCount++
	c.UpdatedAt = now
	s.communities[communityID] = c
	return &ms, nil
}

func (s memMemberships) Leave(_ context.Context, userID, communityID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	key := membershipKey(communityID, userID)
	if _, ok := s.memberships[key]; !ok {
		return apperrors.NewResourceNotFoundError("Membership not found")
	}
	c := s.communities[communityID]
	if c.MemberCount <= 0 {
		// rolled back: the membership stays
		return apperrors.ErrCounterUnderflow
	}
	delete(s.memberships, key)
	c.MemberCount--
	c.UpdatedAt = s.now()
	s.communities[communityID] = c
	return nil
}

func (s memMemberships) ListByUser(_ context.Context, userID string, limit int) ([]models.Membership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Membership
	for _, ms := range s.memberships {
		if ms.UserID == userID {
			out = append(out, ms)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].JoinedAt.Equal(out[j].JoinedAt) {
			return out[i].JoinedAt.After(out[j].JoinedAt)
		}
		return out[i].CommunityID < out[j].CommunityID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// --- posts ---

type memPosts struct{ *memDB }

func (s memPosts) Create(_ context.Context, p *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	c, ok := s.communities[p.CommunityID]
	if !ok {
		return apperrors.NewResourceNotFoundError("Community not found")
	}
	now := s.now()
	p.CreatedAt, p.UpdatedAt = now, now
	p.Comments = []models.Comment{}
	s.posts[p.ID] = *p
	c.UpdatedAt = now
	s.communities[c.ID] = c
	return nil
}

func (s memPosts) GetByID(_ context.Context, id string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("Post not found")
	}
	return &p, nil
}

func (s memPosts) ListByCommunity(_ context.Context, communityID, cursor string, limit int) ([]models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var scoped []models.Post
	for _, p := range s.posts {
		if p.CommunityID == communityID {
			scoped = append(scoped, p)
		}
	}
	return keysetPage(scoped, postKey, cursor, limit)
}

func (s memPosts) LatestByCommunity(ctx context.Context, communityID string, n int) ([]models.Post, error) {
	return s.ListByCommunity(ctx, communityID, "", n)
}

func (s memPosts) AppendComment(_ context.Context, postID string, comment models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[postID]
	if !ok {
		return apperrors.NewResourceNotFoundError("Post not found")
	}
	p.Comments = append(append([]models.Comment{}, p.Comments...), comment)
	p.UpdatedAt = s.now()
	s.posts[postID] = p
	return nil
}

// --- job posts ---

type memJobs struct{ *memDB }

func (s memJobs) Create(_ context.Context, j *models.JobPost) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	j.CreatedAt, j.UpdatedAt = now, now
	s.jobs[j.ID] = *j
	return nil
}

func (s memJobs) GetByID(_ context.Context, id string) (*models.JobPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("Job post not found")
	}
	return &j, nil
}

func (s memJobs) GetByIDs(_ context.Context, ids []string) (map[string]models.JobPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[string]models.JobPost{}
	for _, id := range ids {
		if j, ok := s.jobs[id]; ok {
			out[id] = j
		}
	}
	return out, nil
}

func (s memJobs) Update(_ context.Context, id string, changes map[string]interface{}) (*models.JobPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("Job post not found")
	}
	for col, v := range changes {
		switch col {
		case "job_title":
			j.JobTitle = v.(string)
		case "type_of_work":
			j.TypeOfWork = v.(string)
		case "city":
			j.Location.City = v.(string)
		case "vacancies":
			j.Vacancies = v.(int)
		case "wage":
			j.Wage = v.(float64)
		case "special_woman_provision":
			j.SpecialWomanProvision = v.(bool)
		}
	}
	j.UpdatedAt = s.now()
	s.jobs[id] = j
	return &j, nil
}

func (s memJobs) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[id]; !ok {
		return apperrors.NewResourceNotFoundError("Job post not found")
	}
	delete(s.jobs, id)
	return nil
}

func (s memJobs) List(_ context.Context, filter repositories.JobPostFilter) ([]models.JobPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.JobPost
	for _, j := range s.jobs {
		if filter.EmployerID != "" && j.EmployerID != filter.EmployerID {
			continue
		}
		if filter.TypeOfWork != "" && j.TypeOfWork != filter.TypeOfWork {
			continue
		}
		out = append(out, j)
	}
	newestFirst(out, func(j models.JobPost) (time.Time, string) { return j.CreatedAt, j.ID })
	if len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// --- applications ---

type memApps struct{ *memDB }

func (s memApps) Exists(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.apps[id]
	return ok, nil
}

func (s memApps) Create(_ context.Context, a *models.JobApplication) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.apps[a.ID]; ok {
		return apperrors.ErrDuplicateApplication
	}
	now := s.now()
	a.CreatedAt, a.UpdatedAt = now, now
	s.apps[a.ID] = *a
	return nil
}

func (s memApps) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.apps[id]; !ok {
		return apperrors.NewResourceNotFoundError("No application found for this worker and job")
	}
	delete(s.apps, id)
	return nil
}

func (s memApps) UpdateStatus(_ context.Context, id string, status models.ApplicationStatus) (*models.JobApplication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.apps[id]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("Application not found")
	}
	a.Status = status
	a.UpdatedAt = s.now()
	s.apps[id] = a
	return &a, nil
}

func (s memApps) list(match func(models.JobApplication) bool) []models.JobApplication {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.JobApplication
	for _, a := range s.apps {
		if match(a) {
			out = append(out, a)
		}
	}
	newestFirst(out, func(a models.JobApplication) (time.Time, string) { return a.CreatedAt, a.ID })
	return out
}

func (s memApps) ListByWorker(_ context.Context, workerID string) ([]models.JobApplication, error) {
	return s.list(func(a models.JobApplication) bool { return a.WorkerID == workerID }), nil
}

func (s memApps) ListByJob(_ context.Context, jobID string) ([]models.JobApplication, error) {
	return s.list(func(a models.JobApplication) bool { return a.JobID == jobID }), nil
}

// --- profiles ---

type memProfiles struct{ *memDB }

func (s memProfiles) Create(_ context.Context, p *models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	if _, ok := s.profiles[p.UserID]; ok {
		return apperrors.NewConflictError("Profile already exists for this user.")
	}
	now := s.now()
	p.CreatedAt, p.UpdatedAt = now, now
	s.profiles[p.UserID] = *p
	return nil
}

func (s memProfiles) GetByID(_ context.Context, userID string) (*models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("Profile not found")
	}
	return &p, nil
}

func (s memProfiles) GetByIDs(_ context.Context, userIDs []string) (map[string]models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[string]models.UserProfile{}
	for _, id := range userIDs {
		if p, ok := s.profiles[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (s memProfiles) Update(_ context.Context, userID string, changes map[string]interface{}) (*models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("Profile not found")
	}
	for col, v := range changes {
		switch col {
		case "first_name":
			p.FirstName = v.(string)
		case "profession":
			p.Profession = v.(string)
		case "profile_photo_url":
			url := v.(string)
			p.ProfilePhotoURL = &url
		case "resume_url":
			url := v.(string)
			p.ResumeURL = &url
		}
	}
	p.UpdatedAt = s.now()
	s.profiles[userID] = p
	return &p, nil
}

// --- collaborators ---

type publishedEvent struct {
	topic, eventType, key string
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(_ context.Context, topic, eventType, key string, _ interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{topic, eventType, key})
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.eventType
	}
	return out
}

type memBlobs struct {
	mu        sync.Mutex
	objects   map[string][]byte
	uploadErr error
	seq       int
}

func newMemBlobs() *memBlobs {
	return &memBlobs{objects: map[string][]byte{}}
}

func (b *memBlobs) Upload(_ context.Context, data []byte, folder, filename string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.uploadErr != nil {
		return "", b.uploadErr
	}
	b.seq++
	url := "mem://" + folder + "/" + strconv.Itoa(b.seq) + "-" + filename
	b.objects[url] = data
	return url, nil
}

func (b *memBlobs) Delete(_ context.Context, url string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, url)
	return nil
}

func (b *memBlobs) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.objects)
}

var errStoreDown = errors.New("connection refused")

func newTestCache() *CommunityCache {
	return cache.NewReadThrough[models.Community](nil, "community", time.Minute, zerolog.Nop())
}
