package application

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/x036ox/video-api/internal/domain"
)

// Synthetic fixture data for seeding. Whole categories map to title pools so
// generated affinity signals stay coherent.
var (
	seedNames = strings.Fields("Liam Noah Oliver James Elijah William Henry Lucas Benjamin Theodore " +
		"Mateo Levi Sebastian Daniel Jack Michael Alexander Owen Asher Samuel Ethan Leo Jackson Mason " +
		"Ezra John Hudson Luca Aiden Joseph David Jacob Logan Luke Julian Gabriel Grayson Wyatt Matthew")

	seedCategories = []string{"Sport", "Music", "Education", "Movies", "Games", "Other"}

	seedTitles = map[string][]string{
		"Sport":     {"Football", "Basketball", "Hockey", "Golf"},
		"Music":     {"Eminem", "Drake", "Playboi Carti", "Yeat"},
		"Education": {"Java", "Php", "English", "French", "C#", "C++"},
		"Movies":    {"Oppenheimer", "American psycho", "Fight club", "Breaking bad", "The boys"},
		"Games":     {"GTA V", "Fortnite", "Minecraft", "Need For Speed Most Wanted"},
		"Other":     {"Monkeys", "Cars", "Dogs", "Cats", "Nature"},
	}
)

// SeedUsers creates n synthetic users through a bounded worker pool and
// returns how many were actually created.
func (s *Service) SeedUsers(ctx context.Context, n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidArgument)
	}
	var created atomic.Int64
	jobs := make(chan struct{})
	var wg sync.WaitGroup
	for w := 0; w < s.cfg.SeedWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range jobs {
				id := uuid.NewString()
				_, err := s.RegisterUser(ctx, RegisterUserRequest{
					ID:       id,
					Username: seedNames[rand.Intn(len(seedNames))],
					Email:    id + "@example.com",
				})
				if err != nil {
					s.logger.ErrorContext(ctx, "seed user failed", "error", err)
					continue
				}
				created.Add(1)
			}
		}()
	}
	for i := 0; i < n; i++ {
		jobs <- struct{}{}
	}
	close(jobs)
	wg.Wait()
	return int(created.Load()), nil
}

// SeedVideos creates n synthetic videos with randomized like edges spread over
// the popularity window, so freshly seeded data already produces meaningful
// recommendation tiers. Seeded media bypasses the processing pipeline.
func (s *Service) SeedVideos(ctx context.Context, n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidArgument)
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("seed videos: %w", err)
	}
	if len(users) == 0 {
		return 0, fmt.Errorf("%w: seed users before seeding videos", domain.ErrNotFound)
	}

	window := time.Duration(s.cfg.PopularityDays) * 24 * time.Hour
	var created atomic.Int64
	jobs := make(chan struct{})
	var wg sync.WaitGroup
	for w := 0; w < s.cfg.SeedWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range jobs {
				if err := s.seedOneVideo(ctx, users, window); err != nil {
					s.logger.ErrorContext(ctx, "seed video failed", "error", err)
					continue
				}
				created.Add(1)
			}
		}()
	}
	for i := 0; i < n; i++ {
		jobs <- struct{}{}
	}
	close(jobs)
	wg.Wait()
	return int(created.Load()), nil
}

func (s *Service) seedOneVideo(ctx context.Context, users []domain.User, window time.Duration) error {
	owner := users[rand.Intn(len(users))]
	category := seedCategories[rand.Intn(len(seedCategories))]
	titles := seedTitles[category]
	title := titles[rand.Intn(len(titles))] + " by " + owner.Username

	video := domain.Video{
		OwnerID:         owner.ID,
		Title:           title,
		Description:     "Nothing here...",
		Category:        category,
		Language:        s.cfg.DefaultLanguage,
		DurationSeconds: 30 + rand.Intn(570),
		UploadDate:      s.nowFn().Add(-time.Duration(rand.Int63n(int64(window)))),
	}
	if s.langDetect != nil {
		if code, ok := s.langDetect.Detect(title); ok {
			video.Language = code
		}
	}
	if err := s.videos.Create(ctx, &video); err != nil {
		return err
	}
	placeholder := []byte("placeholder-thumbnail")
	if err := s.storage.Put(ctx, videoFolder(video.ID)+thumbnailFilename, bytes.NewReader(placeholder), int64(len(placeholder)), "image/jpeg"); err != nil {
		s.logger.WarnContext(ctx, "seed thumbnail upload failed", "video_id", video.ID, "error", err)
	}

	likesToAdd := rand.Intn(len(users))
	liked := make(map[string]struct{}, likesToAdd)
	for len(liked) < likesToAdd {
		liker := users[rand.Intn(len(users))]
		if _, done := liked[liker.ID]; done {
			continue
		}
		liked[liker.ID] = struct{}{}
		at := s.nowFn().Add(-time.Duration(rand.Int63n(int64(window))))
		if err := s.likes.Add(ctx, liker.ID, video.ID, at); err != nil {
			return err
		}
	}
	return nil
}
