package application

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/x036ox/video-api/internal/domain"
	"github.com/x036ox/video-api/internal/ports"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; ok {
		return domain.ErrAlreadyExists
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) Exists(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.users[id]
	return ok, nil
}

func (r *fakeUserRepo) List(_ context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.User, 0, len(r.users))
	for _, user := range r.users {
		out = append(out, user)
	}
	return out, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrNotFound
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) FindByOption(_ context.Context, filter ports.UserFilter) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.User
	for _, user := range r.users {
		if filter.ID != "" && user.ID != filter.ID {
			continue
		}
		if filter.Email != "" && user.Email != filter.Email {
			continue
		}
		if filter.Username != "" && user.Username != filter.Username {
			continue
		}
		out = append(out, user)
	}
	return out, nil
}

type fakeVideoRepo struct {
	mu     sync.Mutex
	videos map[int64]domain.Video
	nextID int64
}

func newFakeVideoRepo() *fakeVideoRepo {
	return &fakeVideoRepo{videos: map[int64]domain.Video{}}
}

func (r *fakeVideoRepo) Create(_ context.Context, video *domain.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	video.ID = r.nextID
	r.videos[video.ID] = *video
	return nil
}

func (r *fakeVideoRepo) GetByID(_ context.Context, id int64) (domain.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	video, ok := r.videos[id]
	if !ok {
		return domain.Video{}, domain.ErrNotFound
	}
	return video, nil
}

func (r *fakeVideoRepo) Exists(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.videos[id]
	return ok, nil
}

func (r *fakeVideoRepo) Update(_ context.Context, video domain.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.videos[video.ID]; !ok {
		return domain.ErrNotFound
	}
	r.videos[video.ID] = video
	return nil
}

func (r *fakeVideoRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.videos[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.videos, id)
	return nil
}

func (r *fakeVideoRepo) ListByOwner(_ context.Context, ownerID string) ([]domain.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Video
	for _, video := range r.videos {
		if video.OwnerID == ownerID {
			out = append(out, video)
		}
	}
	return out, nil
}

func (r *fakeVideoRepo) IncrementViews(_ context.Context, id int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	video, ok := r.videos[id]
	if !ok {
		return 0, domain.ErrNotFound
	}
	video.Views++
	r.videos[id] = video
	return video.Views, nil
}

func (r *fakeVideoRepo) FindByOption(_ context.Context, filter ports.VideoFilter) ([]domain.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Video
	for _, video := range r.videos {
		if filter.ID != 0 && video.ID != filter.ID {
			continue
		}
		if filter.Title != "" && !strings.Contains(strings.ToLower(video.Title), strings.ToLower(filter.Title)) {
			continue
		}
		out = append(out, video)
	}
	return out, nil
}

func (r *fakeVideoRepo) CountByOwner(_ context.Context, ownerID string) (int64, error) {
	videos, _ := r.ListByOwner(context.Background(), ownerID)
	return int64(len(videos)), nil
}

type likeKey struct {
	userID  string
	videoID int64
}

type fakeLikeRepo struct {
	mu    sync.Mutex
	likes map[likeKey]time.Time
}

func newFakeLikeRepo() *fakeLikeRepo {
	return &fakeLikeRepo{likes: map[likeKey]time.Time{}}
}

func (r *fakeLikeRepo) Toggle(_ context.Context, userID string, videoID int64, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := likeKey{userID, videoID}
	if _, ok := r.likes[key]; ok {
		delete(r.likes, key)
		return false, nil
	}
	r.likes[key] = now
	return true, nil
}

func (r *fakeLikeRepo) Add(_ context.Context, userID string, videoID int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.likes[likeKey{userID, videoID}] = at
	return nil
}

func (r *fakeLikeRepo) Remove(_ context.Context, userID string, videoID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.likes, likeKey{userID, videoID})
	return nil
}

func (r *fakeLikeRepo) Exists(_ context.Context, userID string, videoID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.likes[likeKey{userID, videoID}]
	return ok, nil
}

func (r *fakeLikeRepo) CountByVideo(_ context.Context, videoID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for key := range r.likes {
		if key.videoID == videoID {
			count++
		}
	}
	return count, nil
}

func (r *fakeLikeRepo) ListVideoIDsByUser(_ context.Context, userID string) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []int64
	for key := range r.likes {
		if key.userID == userID {
			ids = append(ids, key.videoID)
		}
	}
	return ids, nil
}

func (r *fakeLikeRepo) DeleteByVideo(_ context.Context, videoID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key := range r.likes {
		if key.videoID == videoID {
			delete(r.likes, key)
		}
	}
	return nil
}

type fakeWatchRepo struct {
	mu      sync.Mutex
	entries []domain.WatchEntry
}

func newFakeWatchRepo() *fakeWatchRepo { return &fakeWatchRepo{} }

func (r *fakeWatchRepo) Record(_ context.Context, userID string, videoID int64, now time.Time, dedupWindow time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.entries[:0]
	for _, entry := range r.entries {
		if entry.UserID == userID && entry.VideoID == videoID && entry.WatchedAt.After(now.Add(-dedupWindow)) {
			continue
		}
		kept = append(kept, entry)
	}
	r.entries = append(kept, domain.WatchEntry{UserID: userID, VideoID: videoID, WatchedAt: now})
	return nil
}

func (r *fakeWatchRepo) ListByUser(_ context.Context, userID string) ([]domain.WatchEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.WatchEntry
	for _, entry := range r.entries {
		if entry.UserID == userID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (r *fakeWatchRepo) DeleteByVideo(_ context.Context, videoID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.entries[:0]
	for _, entry := range r.entries {
		if entry.VideoID != videoID {
			kept = append(kept, entry)
		}
	}
	r.entries = kept
	return nil
}

type fakeAffinityRepo struct {
	mu         sync.Mutex
	categories map[string]map[string]int
	languages  map[string]map[string]int
}

func newFakeAffinityRepo() *fakeAffinityRepo {
	return &fakeAffinityRepo{
		categories: map[string]map[string]int{},
		languages:  map[string]map[string]int{},
	}
}

func (r *fakeAffinityRepo) Get(_ context.Context, userID string) (domain.Affinity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	aff := domain.Affinity{UserID: userID, CategoryScores: map[string]int{}, LanguageScores: map[string]int{}}
	for category, score := range r.categories[userID] {
		aff.CategoryScores[category] = score
	}
	for language, score := range r.languages[userID] {
		aff.LanguageScores[language] = score
	}
	return aff, nil
}

func (r *fakeAffinityRepo) IncrementWatch(_ context.Context, userID, category, language string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.categories[userID] == nil {
		r.categories[userID] = map[string]int{}
	}
	if r.languages[userID] == nil {
		r.languages[userID] = map[string]int{}
	}
	r.categories[userID][category]++
	r.languages[userID][language]++
	return nil
}

func (r *fakeAffinityRepo) DecayCategory(_ context.Context, userID, category string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	scores, ok := r.categories[userID]
	if !ok {
		return nil
	}
	score, ok := scores[category]
	if !ok {
		return nil
	}
	newScore := score / 4
	if newScore <= 0 {
		delete(scores, category)
		return nil
	}
	scores[category] = newScore
	return nil
}

type fakeSearchRepo struct {
	mu      sync.Mutex
	entries map[string][]domain.SearchEntry
}

func newFakeSearchRepo() *fakeSearchRepo {
	return &fakeSearchRepo{entries: map[string][]domain.SearchEntry{}}
}

func (r *fakeSearchRepo) Add(_ context.Context, userID, query string, now time.Time, maxEntries int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries := r.entries[userID]
	kept := entries[:0]
	for _, entry := range entries {
		if entry.Query != query {
			kept = append(kept, entry)
		}
	}
	kept = append(kept, domain.SearchEntry{UserID: userID, Query: query, AddedAt: now})
	for len(kept) > maxEntries {
		kept = kept[1:]
	}
	r.entries[userID] = kept
	return nil
}

func (r *fakeSearchRepo) ListByUser(_ context.Context, userID string) ([]domain.SearchEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries := r.entries[userID]
	out := make([]domain.SearchEntry, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		out = append(out, entries[i])
	}
	return out, nil
}

func (r *fakeSearchRepo) Delete(_ context.Context, userID, query string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries := r.entries[userID]
	kept := entries[:0]
	for _, entry := range entries {
		if entry.Query != query {
			kept = append(kept, entry)
		}
	}
	r.entries[userID] = kept
	return nil
}

type subKey struct {
	subscriberID string
	channelID    string
}

type fakeSubRepo struct {
	mu   sync.Mutex
	subs map[subKey]struct{}
}

func newFakeSubRepo() *fakeSubRepo { return &fakeSubRepo{subs: map[subKey]struct{}{}} }

func (r *fakeSubRepo) Subscribe(_ context.Context, subscriberID, channelID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs[subKey{subscriberID, channelID}] = struct{}{}
	return nil
}

func (r *fakeSubRepo) Unsubscribe(_ context.Context, subscriberID, channelID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.subs, subKey{subscriberID, channelID})
	return nil
}

func (r *fakeSubRepo) Exists(_ context.Context, subscriberID, channelID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.subs[subKey{subscriberID, channelID}]
	return ok, nil
}

func (r *fakeSubRepo) ListChannels(_ context.Context, subscriberID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for key := range r.subs {
		if key.subscriberID == subscriberID {
			out = append(out, key.channelID)
		}
	}
	return out, nil
}

func (r *fakeSubRepo) CountSubscribers(_ context.Context, channelID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for key := range r.subs {
		if key.channelID == channelID {
			count++
		}
	}
	return count, nil
}

// fakePopularity serves scripted id lists per tier, honoring excludes and
// size like the real index, and counts calls so tests can assert tier order.
type fakePopularity struct {
	mu            sync.Mutex
	affinityIDs   []int64
	languageIDs   map[string][]int64
	overallIDs    []int64
	affinityCalls int
	languageCalls int
	overallCalls  int
}

func newFakePopularity() *fakePopularity {
	return &fakePopularity{languageIDs: map[string][]int64{}}
}

func filterIDs(ids, excludes []int64, size int) []int64 {
	excluded := make(map[int64]struct{}, len(excludes))
	for _, id := range excludes {
		excluded[id] = struct{}{}
	}
	out := make([]int64, 0, size)
	for _, id := range ids {
		if _, skip := excluded[id]; skip {
			continue
		}
		out = append(out, id)
		if len(out) == size {
			break
		}
	}
	return out
}

func (p *fakePopularity) TopByUserAffinity(_ context.Context, _ string, _ time.Time, excludes []int64, size int) ([]int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.affinityCalls++
	return filterIDs(p.affinityIDs, excludes, size), nil
}

func (p *fakePopularity) TopByLanguage(_ context.Context, language string, _ time.Time, excludes []int64, size int) ([]int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.languageCalls++
	return filterIDs(p.languageIDs[language], excludes, size), nil
}

func (p *fakePopularity) TopOverall(_ context.Context, _ time.Time, excludes []int64, size int) ([]int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.overallCalls++
	return filterIDs(p.overallIDs, excludes, size), nil
}

type fakeCache struct {
	mu     sync.Mutex
	values map[string]string
}

func newFakeCache() *fakeCache { return &fakeCache{values: map[string]string{}} }

func (c *fakeCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values[key], nil
}

func (c *fakeCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
	return nil
}

func (c *fakeCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.values, key)
	}
	return nil
}

type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeStorage() *fakeStorage { return &fakeStorage{objects: map[string][]byte{}} }

func (s *fakeStorage) Get(_ context.Context, path string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *fakeStorage) Put(_ context.Context, path string, data io.Reader, _ int64, _ string) error {
	raw, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[path] = raw
	return nil
}

func (s *fakeStorage) Remove(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, path)
	return nil
}

func (s *fakeStorage) RemoveFolder(_ context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for path := range s.objects {
		if strings.HasPrefix(path, prefix) {
			delete(s.objects, path)
		}
	}
	return nil
}

func (s *fakeStorage) ListFiles(_ context.Context, prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for path := range s.objects {
		if strings.HasPrefix(path, prefix) {
			out = append(out, path)
		}
	}
	return out, nil
}

func (s *fakeStorage) count(prefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for path := range s.objects {
		if strings.HasPrefix(path, prefix) {
			n++
		}
	}
	return n
}

type fakeProcessor struct {
	mu            sync.Mutex
	rejectKind    string
	failErr       error
	processed     []string
	notifications []int64
}

func (p *fakeProcessor) Process(_ context.Context, kind, path string, _ time.Duration) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failErr != nil {
		return false, p.failErr
	}
	if p.rejectKind == kind {
		return false, nil
	}
	p.processed = append(p.processed, kind+":"+path)
	return true, nil
}

func (p *fakeProcessor) VideoCreated(_ context.Context, videoID int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notifications = append(p.notifications, videoID)
	return nil
}

type fakeDetector struct {
	code string
}

func (d fakeDetector) Detect(string) (string, bool) {
	if d.code == "" {
		return "", false
	}
	return d.code, true
}

type fakeProber struct {
	seconds int
	err     error
}

func (p fakeProber) DurationSeconds([]byte) (int, error) {
	if p.err != nil {
		return 0, p.err
	}
	return p.seconds, nil
}

type testEnv struct {
	svc        *Service
	users      *fakeUserRepo
	videos     *fakeVideoRepo
	likes      *fakeLikeRepo
	watch      *fakeWatchRepo
	affinity   *fakeAffinityRepo
	search     *fakeSearchRepo
	subs       *fakeSubRepo
	popularity *fakePopularity
	cache      *fakeCache
	storage    *fakeStorage
	processor  *fakeProcessor
}

func newTestEnv() *testEnv {
	env := &testEnv{
		users:      newFakeUserRepo(),
		videos:     newFakeVideoRepo(),
		likes:      newFakeLikeRepo(),
		watch:      newFakeWatchRepo(),
		affinity:   newFakeAffinityRepo(),
		search:     newFakeSearchRepo(),
		subs:       newFakeSubRepo(),
		popularity: newFakePopularity(),
		cache:      newFakeCache(),
		storage:    newFakeStorage(),
		processor:  &fakeProcessor{},
	}
	env.svc = NewService(Dependencies{
		Users:         env.users,
		Videos:        env.videos,
		Likes:         env.likes,
		WatchHistory:  env.watch,
		Affinity:      env.affinity,
		SearchHistory: env.search,
		Subscriptions: env.subs,
		Popularity:    env.popularity,
		Cache:         env.cache,
		Storage:       env.storage,
		Processor:     env.processor,
		Notifier:      env.processor,
		LangDetect:    fakeDetector{code: "en"},
		Prober:        fakeProber{seconds: 90},
	})
	return env
}

func (e *testEnv) addUser(id string) domain.User {
	user := domain.User{
		ID:       id,
		Username: "user-" + id,
		Email:    id + "@example.com",
	}
	_ = e.users.Create(context.Background(), user)
	return user
}

func (e *testEnv) addVideo(ownerID, category, language string) domain.Video {
	video := domain.Video{
		OwnerID:  ownerID,
		Title:    fmt.Sprintf("%s clip", category),
		Category: category,
		Language: language,
	}
	_ = e.videos.Create(context.Background(), &video)
	return video
}
