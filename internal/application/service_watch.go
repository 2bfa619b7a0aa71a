package application

import (
	"context"
	"fmt"

	"github.com/x036ox/video-api/internal/domain"
)

// WatchVideo records a watch event. The view counter is incremented for every
// watch, anonymous or not. When userID resolves to an existing user the user's
// category and language affinity each gain one point and the watch is written
// to the history with the 24h refresh semantics; an unresolvable userID skips
// the side effects silently.
func (s *Service) WatchVideo(ctx context.Context, videoID int64, userID string) (VideoView, error) {
	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		return VideoView{}, fmt.Errorf("watch video %d: %w", videoID, err)
	}
	views, err := s.videos.IncrementViews(ctx, videoID)
	if err != nil {
		return VideoView{}, fmt.Errorf("increment views for video %d: %w", videoID, err)
	}
	video.Views = views

	if userID != "" {
		exists, existsErr := s.users.Exists(ctx, userID)
		if existsErr != nil {
			return VideoView{}, fmt.Errorf("resolve watcher %s: %w", userID, existsErr)
		}
		if exists {
			if err := s.affinity.IncrementWatch(ctx, userID, video.Category, video.Language); err != nil {
				return VideoView{}, fmt.Errorf("update affinity for user %s: %w", userID, err)
			}
			if err := s.watchHistory.Record(ctx, userID, videoID, s.nowFn(), s.cfg.WatchDedupWindow); err != nil {
				return VideoView{}, fmt.Errorf("record watch history for user %s: %w", userID, err)
			}
		}
	}

	view := s.toVideoView(ctx, video)
	s.cacheVideoView(ctx, view)
	return view, nil
}

// MarkNotInterested applies negative feedback: the video's category score in
// the user's affinity is quartered (floored) and dropped entirely at zero. A
// category the user never watched is left untouched.
func (s *Service) MarkNotInterested(ctx context.Context, videoID int64, userID string) error {
	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		return fmt.Errorf("not-interested video %d: %w", videoID, err)
	}
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return fmt.Errorf("resolve user %s: %w", userID, err)
	}
	if !exists {
		return fmt.Errorf("%w: user %s", domain.ErrNotFound, userID)
	}
	if err := s.affinity.DecayCategory(ctx, userID, video.Category); err != nil {
		return fmt.Errorf("decay category %q for user %s: %w", video.Category, userID, err)
	}
	return nil
}

// WatchHistory lists the videos the user has watched, most recent first.
// Entries whose video has been deleted are skipped.
func (s *Service) WatchHistory(ctx context.Context, userID string) ([]VideoView, error) {
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, userID)
	}
	entries, err := s.watchHistory.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list watch history for user %s: %w", userID, err)
	}
	videos := make([]domain.Video, 0, len(entries))
	for _, entry := range entries {
		video, getErr := s.videos.GetByID(ctx, entry.VideoID)
		if getErr != nil {
			continue
		}
		videos = append(videos, video)
	}
	return s.toVideoViews(ctx, videos), nil
}
