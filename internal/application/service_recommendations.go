package application

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/x036ox/video-api/internal/domain"
)

// GetRecommendations assembles a bounded, deduplicated recommendation list in
// three strictly ordered tiers, each filling the gap left by the previous one:
//
//  1. personalized — most popular videos matching the user's non-zero
//     category/language affinity keys (only when userID is set);
//  2. language — browser languages in priority order, one query per language;
//  3. generic — most popular videos regardless of language or category.
//
// Every tier excludes everything already selected plus the caller's excludes,
// so the result never contains duplicates. The final list is shuffled and
// truncated to size. A shortfall degrades through the tiers instead of
// failing; only an unknown userID is an error. A non-positive size is treated
// as "no preference" and promoted to the configured maximum rather than
// returning an empty list.
func (s *Service) GetRecommendations(ctx context.Context, userID string, excludes []int64, languages []string, size int) ([]int64, error) {
	if len(languages) == 0 {
		return nil, fmt.Errorf("%w: at least one language required", domain.ErrInvalidArgument)
	}
	if size <= 0 || size > s.cfg.MaxVideosPerRequest {
		size = s.cfg.MaxVideosPerRequest
	}
	since := s.nowFn().Add(-time.Duration(s.cfg.PopularityDays) * 24 * time.Hour)

	selected := make([]int64, 0, size)
	seen := make(map[int64]struct{}, len(excludes)+size)
	for _, id := range excludes {
		seen[id] = struct{}{}
	}
	exclusion := func() []int64 {
		out := make([]int64, 0, len(seen))
		for id := range seen {
			out = append(out, id)
		}
		return out
	}
	add := func(ids []int64) {
		for _, id := range ids {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			selected = append(selected, id)
		}
	}

	if userID != "" {
		exists, err := s.users.Exists(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("check user %s: %w", userID, err)
		}
		if !exists {
			return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, userID)
		}
		ids, err := s.popularity.TopByUserAffinity(ctx, userID, since, exclusion(), size)
		if err != nil {
			return nil, fmt.Errorf("personalized tier: %w", err)
		}
		add(ids)
	}

	for _, language := range languages {
		if len(selected) >= size {
			break
		}
		ids, err := s.popularity.TopByLanguage(ctx, language, since, exclusion(), size-len(selected))
		if err != nil {
			return nil, fmt.Errorf("language tier %q: %w", language, err)
		}
		add(ids)
	}

	if len(selected) < size {
		s.logger.WarnContext(ctx, "recommendations exhausted affinity and language tiers, falling back to overall popularity",
			"user_id", userID,
			"have", len(selected),
			"want", size)
		ids, err := s.popularity.TopOverall(ctx, since, exclusion(), size-len(selected))
		if err != nil {
			return nil, fmt.Errorf("generic tier: %w", err)
		}
		add(ids)
	}

	rand.Shuffle(len(selected), func(i, j int) {
		selected[i], selected[j] = selected[j], selected[i]
	})
	if len(selected) > size {
		selected = selected[:size]
	}
	return selected, nil
}

// RecommendedVideos resolves recommendation ids into video views, optionally
// sorted. Ids that no longer resolve are dropped rather than failing the call.
func (s *Service) RecommendedVideos(ctx context.Context, userID string, excludes []int64, languages []string, size int, sort VideoSort) ([]VideoView, error) {
	ids, err := s.GetRecommendations(ctx, userID, excludes, languages, size)
	if err != nil {
		return nil, err
	}
	videos := make([]domain.Video, 0, len(ids))
	for _, id := range ids {
		video, getErr := s.videos.GetByID(ctx, id)
		if getErr != nil {
			s.logger.WarnContext(ctx, "recommended video vanished before resolution", "video_id", id, "error", getErr)
			continue
		}
		videos = append(videos, video)
	}
	sortVideos(videos, sort)
	return s.toVideoViews(ctx, videos), nil
}
