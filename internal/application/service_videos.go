package application

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/x036ox/video-api/internal/domain"
	"github.com/x036ox/video-api/internal/ports"
)

// FindVideoByID returns the video view, served from the redis cache when warm.
func (s *Service) FindVideoByID(ctx context.Context, id int64) (VideoView, error) {
	if cached, ok := s.cachedVideoView(ctx, id); ok {
		return cached, nil
	}
	video, err := s.videos.GetByID(ctx, id)
	if err != nil {
		return VideoView{}, fmt.Errorf("find video %d: %w", id, err)
	}
	view := s.toVideoView(ctx, video)
	s.cacheVideoView(ctx, view)
	return view, nil
}

func (s *Service) FindVideosByOption(ctx context.Context, options, values []string) ([]VideoView, error) {
	filter, err := parseVideoOptions(options, values)
	if err != nil {
		return nil, err
	}
	videos, err := s.videos.FindByOption(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find videos by option: %w", err)
	}
	return s.toVideoViews(ctx, videos), nil
}

func (s *Service) SearchVideos(ctx context.Context, query string) ([]VideoView, error) {
	return s.FindVideosByOption(ctx, []string{videoOptionByTitle}, []string{query})
}

func (s *Service) UserVideos(ctx context.Context, userID string, videoSort VideoSort) ([]VideoView, error) {
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, userID)
	}
	videos, err := s.videos.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list videos of user %s: %w", userID, err)
	}
	sortVideos(videos, videoSort)
	return s.toVideoViews(ctx, videos), nil
}

// CreateVideo persists the video record, uploads the thumbnail and the media
// to object storage and waits for the external processor to acknowledge both.
// A negative or missed acknowledgement rolls everything back: the uploaded
// folder is removed and the record deleted.
func (s *Service) CreateVideo(ctx context.Context, req CreateVideoRequest, userID string) (int64, error) {
	if err := domain.ValidateVideoTitle(req.Title); err != nil {
		return 0, err
	}
	if len(req.Video) == 0 || len(req.Thumbnail) == 0 {
		return 0, fmt.Errorf("%w: video and thumbnail payloads required", domain.ErrInvalidArgument)
	}
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, fmt.Errorf("%w: user %s", domain.ErrNotFound, userID)
	}

	language := s.cfg.DefaultLanguage
	if s.langDetect != nil {
		if code, ok := s.langDetect.Detect(req.Title); ok {
			language = code
		}
	}
	duration := 0
	if s.prober != nil {
		probed, probeErr := s.prober.DurationSeconds(req.Video)
		if probeErr != nil {
			s.logger.WarnContext(ctx, "could not probe video duration", "error", probeErr)
		} else {
			duration = probed
		}
	}

	video := domain.Video{
		OwnerID:         userID,
		Title:           req.Title,
		Description:     req.Description,
		Category:        req.Category,
		Language:        language,
		DurationSeconds: duration,
		UploadDate:      s.nowFn(),
	}
	if err := s.videos.Create(ctx, &video); err != nil {
		return 0, fmt.Errorf("create video record: %w", err)
	}

	folder := videoFolder(video.ID)
	cleanup := func() {
		if err := s.storage.RemoveFolder(ctx, folder); err != nil {
			s.logger.ErrorContext(ctx, "cleanup of video folder failed", "folder", folder, "error", err)
		}
		if err := s.videos.Delete(ctx, video.ID); err != nil {
			s.logger.ErrorContext(ctx, "rollback of video record failed", "video_id", video.ID, "error", err)
		}
	}

	thumbnailPath := folder + thumbnailFilename
	if err := s.storage.Put(ctx, thumbnailPath, bytes.NewReader(req.Thumbnail), int64(len(req.Thumbnail)), "image/jpeg"); err != nil {
		cleanup()
		return 0, fmt.Errorf("upload thumbnail: %w", err)
	}
	videoPath := folder + videoFilename
	if err := s.storage.Put(ctx, videoPath, bytes.NewReader(req.Video), int64(len(req.Video)), "video/mp4"); err != nil {
		cleanup()
		return 0, fmt.Errorf("upload video: %w", err)
	}

	if err := s.awaitProcessing(ctx, ports.ProcessingKindThumbnail, thumbnailPath); err != nil {
		cleanup()
		return 0, err
	}
	if err := s.awaitProcessing(ctx, ports.ProcessingKindVideo, videoPath); err != nil {
		cleanup()
		return 0, err
	}

	if s.notifier != nil {
		if err := s.notifier.VideoCreated(ctx, video.ID); err != nil {
			s.logger.WarnContext(ctx, "video created notification failed", "video_id", video.ID, "error", err)
		}
	}
	s.logger.InfoContext(ctx, "video created", "video_id", video.ID, "owner_id", userID)
	return video.ID, nil
}

func (s *Service) awaitProcessing(ctx context.Context, kind, path string) error {
	ok, err := s.processor.Process(ctx, kind, path, s.cfg.ProcessingTimeout)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", domain.ErrProcessingFailed, kind, path, err)
	}
	if !ok {
		return fmt.Errorf("%w: processor rejected %s %s", domain.ErrProcessingFailed, kind, path)
	}
	return nil
}

func (s *Service) UpdateVideo(ctx context.Context, req UpdateVideoRequest) (VideoView, error) {
	video, err := s.videos.GetByID(ctx, req.VideoID)
	if err != nil {
		return VideoView{}, fmt.Errorf("update video %d: %w", req.VideoID, err)
	}
	if req.Title != nil {
		if err := domain.ValidateVideoTitle(*req.Title); err != nil {
			return VideoView{}, err
		}
		video.Title = *req.Title
	}
	if req.Description != nil {
		video.Description = *req.Description
	}
	if req.Category != nil {
		video.Category = *req.Category
	}

	folder := videoFolder(video.ID)
	if len(req.Thumbnail) > 0 {
		path := folder + thumbnailFilename
		if err := s.storage.Put(ctx, path, bytes.NewReader(req.Thumbnail), int64(len(req.Thumbnail)), "image/jpeg"); err != nil {
			return VideoView{}, fmt.Errorf("upload thumbnail: %w", err)
		}
		if err := s.awaitProcessing(ctx, ports.ProcessingKindThumbnail, path); err != nil {
			return VideoView{}, err
		}
	}
	if len(req.Video) > 0 {
		// Replaced media invalidates previously generated renditions.
		files, listErr := s.storage.ListFiles(ctx, folder)
		if listErr != nil {
			return VideoView{}, fmt.Errorf("list video folder: %w", listErr)
		}
		for _, file := range files {
			if file == folder+thumbnailFilename {
				continue
			}
			if err := s.storage.Remove(ctx, file); err != nil {
				return VideoView{}, fmt.Errorf("remove stale rendition %s: %w", file, err)
			}
		}
		path := folder + videoFilename
		if err := s.storage.Put(ctx, path, bytes.NewReader(req.Video), int64(len(req.Video)), "video/mp4"); err != nil {
			return VideoView{}, fmt.Errorf("upload video: %w", err)
		}
		if err := s.awaitProcessing(ctx, ports.ProcessingKindVideo, path); err != nil {
			return VideoView{}, err
		}
	}

	if err := s.videos.Update(ctx, video); err != nil {
		return VideoView{}, fmt.Errorf("persist video %d: %w", video.ID, err)
	}
	view := s.toVideoView(ctx, video)
	s.cacheVideoView(ctx, view)
	return view, nil
}

func (s *Service) DeleteVideo(ctx context.Context, id int64) error {
	exists, err := s.videos.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: video %d", domain.ErrNotFound, id)
	}
	if err := s.likes.DeleteByVideo(ctx, id); err != nil {
		return fmt.Errorf("delete likes of video %d: %w", id, err)
	}
	if err := s.watchHistory.DeleteByVideo(ctx, id); err != nil {
		return fmt.Errorf("delete watch history of video %d: %w", id, err)
	}
	if err := s.videos.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete video %d: %w", id, err)
	}
	if err := s.storage.RemoveFolder(ctx, videoFolder(id)); err != nil {
		return fmt.Errorf("remove media of video %d: %w", id, err)
	}
	s.evictVideoView(ctx, id)
	s.logger.InfoContext(ctx, "video deleted", "video_id", id)
	return nil
}

// StreamPlaylist returns the HLS index of a processed video.
func (s *Service) StreamPlaylist(ctx context.Context, videoID int64) (io.ReadCloser, error) {
	rc, err := s.storage.Get(ctx, videoFolder(videoID)+playlistFilename)
	if err != nil {
		return nil, fmt.Errorf("%w: playlist of video %d", domain.ErrNotFound, videoID)
	}
	return rc, nil
}

// StreamSegment returns one transport-stream segment of a processed video.
func (s *Service) StreamSegment(ctx context.Context, videoID int64, filename string) (io.ReadCloser, error) {
	rc, err := s.storage.Get(ctx, videoFolder(videoID)+filename)
	if err != nil {
		return nil, fmt.Errorf("%w: segment %s of video %d", domain.ErrNotFound, filename, videoID)
	}
	return rc, nil
}

func videoFolder(id int64) string {
	return videoPathPrefix + strconv.FormatInt(id, 10) + "/"
}

func (s *Service) toVideoView(ctx context.Context, video domain.Video) VideoView {
	likes, err := s.likes.CountByVideo(ctx, video.ID)
	if err != nil {
		s.logger.WarnContext(ctx, "could not count likes", "video_id", video.ID, "error", err)
	}
	view := VideoView{
		ID:          video.ID,
		Title:       video.Title,
		Duration:    formatDuration(video.DurationSeconds),
		Views:       formatViews(video.Views),
		Likes:       likes,
		UploadDate:  humanizeSince(video.UploadDate, s.nowFn()),
		Description: video.Description,
		Category:    video.Category,
		ChannelID:   video.OwnerID,
	}
	if owner, ownerErr := s.users.GetByID(ctx, video.OwnerID); ownerErr == nil {
		view.CreatorName = owner.Username
		view.CreatorPicture = owner.Picture
	}
	if s.storage != nil {
		if rc, thumbErr := s.storage.Get(ctx, videoFolder(video.ID)+thumbnailFilename); thumbErr == nil {
			raw, readErr := io.ReadAll(rc)
			_ = rc.Close()
			if readErr == nil {
				view.Thumbnail = base64.StdEncoding.EncodeToString(raw)
			}
		} else {
			s.logger.WarnContext(ctx, "thumbnail unavailable, view rendered without it", "video_id", video.ID, "error", thumbErr)
		}
	}
	return view
}

func (s *Service) toVideoViews(ctx context.Context, videos []domain.Video) []VideoView {
	views := make([]VideoView, 0, len(videos))
	for _, video := range videos {
		views = append(views, s.toVideoView(ctx, video))
	}
	return views
}

func sortVideos(videos []domain.Video, videoSort VideoSort) {
	switch videoSort {
	case SortByUploadDateDesc:
		sort.SliceStable(videos, func(i, j int) bool { return videos[i].UploadDate.After(videos[j].UploadDate) })
	case SortByViewsDesc:
		sort.SliceStable(videos, func(i, j int) bool { return videos[i].Views > videos[j].Views })
	case SortByDurationAsc:
		sort.SliceStable(videos, func(i, j int) bool { return videos[i].DurationSeconds < videos[j].DurationSeconds })
	}
}

func (s *Service) videoCacheKey(id int64) string {
	return "video:" + strconv.FormatInt(id, 10)
}

func (s *Service) cachedVideoView(ctx context.Context, id int64) (VideoView, bool) {
	if s.cache == nil {
		return VideoView{}, false
	}
	raw, err := s.cache.Get(ctx, s.videoCacheKey(id))
	if err != nil || raw == "" {
		return VideoView{}, false
	}
	var view VideoView
	if err := json.Unmarshal([]byte(raw), &view); err != nil {
		return VideoView{}, false
	}
	return view, true
}

func (s *Service) cacheVideoView(ctx context.Context, view VideoView) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(view)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.videoCacheKey(view.ID), string(raw), s.cfg.VideoCacheTTL); err != nil {
		s.logger.WarnContext(ctx, "video cache write failed", "video_id", view.ID, "error", err)
	}
}

func (s *Service) evictVideoView(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, s.videoCacheKey(id)); err != nil {
		s.logger.WarnContext(ctx, "video cache evict failed", "video_id", id, "error", err)
	}
}
