package application

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/x036ox/video-api/internal/domain"
	"github.com/x036ox/video-api/internal/ports"
)

func (s *Service) RegisterUser(ctx context.Context, req RegisterUserRequest) (UserView, error) {
	if err := domain.ValidateUsername(req.Username); err != nil {
		return UserView{}, err
	}
	if err := domain.ValidateEmail(req.Email); err != nil {
		return UserView{}, err
	}
	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = uuid.NewString()
	}
	exists, err := s.users.Exists(ctx, id)
	if err != nil {
		return UserView{}, err
	}
	if exists {
		return UserView{}, fmt.Errorf("%w: user %s", domain.ErrAlreadyExists, id)
	}
	authorities := req.Authorities
	if authorities == "" {
		authorities = "ROLE_USER"
	}
	picture := req.Picture
	if picture == "" {
		picture = s.cfg.DefaultUserPicture
	}
	user := domain.User{
		ID:          id,
		Username:    strings.TrimSpace(req.Username),
		Email:       strings.TrimSpace(req.Email),
		Picture:     picture,
		Authorities: authorities,
		CreatedAt:   s.nowFn(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return UserView{}, fmt.Errorf("register user %s: %w", id, err)
	}
	s.logger.InfoContext(ctx, "user registered", "user_id", id)
	return s.toUserView(ctx, user), nil
}

func (s *Service) FindAllUsers(ctx context.Context) ([]UserView, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("%w: no users", domain.ErrNotFound)
	}
	return s.toUserViews(ctx, users), nil
}

func (s *Service) FindUserByID(ctx context.Context, id string) (UserView, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return UserView{}, fmt.Errorf("find user %s: %w", id, err)
	}
	return s.toUserView(ctx, user), nil
}

func (s *Service) FindUsersByOption(ctx context.Context, options, values []string) ([]UserView, error) {
	filter, err := parseUserOptions(options, values)
	if err != nil {
		return nil, err
	}
	users, err := s.users.FindByOption(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find users by option: %w", err)
	}
	return s.toUserViews(ctx, users), nil
}

// UpdateUser patches the user record. A picture payload is uploaded to the
// user's folder and held until the external processor acknowledges it; a
// rejected picture leaves the record unchanged.
func (s *Service) UpdateUser(ctx context.Context, userID string, req UpdateUserRequest) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("update user %s: %w", userID, err)
	}
	if req.Email != nil {
		if err := domain.ValidateEmail(*req.Email); err != nil {
			return err
		}
		user.Email = *req.Email
	}
	if len(req.Picture) > 0 {
		path := userPathPrefix + userID + "/" + pictureFilename
		if err := s.storage.Put(ctx, path, bytes.NewReader(req.Picture), int64(len(req.Picture)), "image/png"); err != nil {
			return fmt.Errorf("upload picture of user %s: %w", userID, err)
		}
		if err := s.awaitProcessing(ctx, ports.ProcessingKindPicture, path); err != nil {
			return err
		}
		user.Picture = path
	}
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("persist user %s: %w", userID, err)
	}
	return nil
}

// DeleteUser removes the user record and all stored media under the user's
// folder. Only synthetic users (id embedded in the email) may be deleted.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	if !strings.Contains(user.Email, id) {
		return fmt.Errorf("%w: only synthetic users may be deleted", domain.ErrForbidden)
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	if err := s.storage.RemoveFolder(ctx, userPathPrefix+id+"/"); err != nil {
		return fmt.Errorf("remove media of user %s: %w", id, err)
	}
	s.logger.InfoContext(ctx, "user deleted", "user_id", id)
	return nil
}

// LikeVideo toggles the like edge for the pair: an absent edge is created, an
// existing one removed. Returns the refreshed video view either way.
func (s *Service) LikeVideo(ctx context.Context, userID string, videoID int64) (VideoView, error) {
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return VideoView{}, err
	}
	if !exists {
		return VideoView{}, fmt.Errorf("%w: user %s", domain.ErrNotFound, userID)
	}
	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		return VideoView{}, fmt.Errorf("like video %d: %w", videoID, err)
	}
	if _, err := s.likes.Toggle(ctx, userID, videoID, s.nowFn()); err != nil {
		return VideoView{}, fmt.Errorf("toggle like (%s, %d): %w", userID, videoID, err)
	}
	view := s.toVideoView(ctx, video)
	s.cacheVideoView(ctx, view)
	return view, nil
}

// DislikeVideo removes the like edge if the user had one; absent edges are a
// no-op.
func (s *Service) DislikeVideo(ctx context.Context, userID string, videoID int64) error {
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: user %s", domain.ErrNotFound, userID)
	}
	videoExists, err := s.videos.Exists(ctx, videoID)
	if err != nil {
		return err
	}
	if !videoExists {
		return fmt.Errorf("%w: video %d", domain.ErrNotFound, videoID)
	}
	if err := s.likes.Remove(ctx, userID, videoID); err != nil {
		return fmt.Errorf("remove like (%s, %d): %w", userID, videoID, err)
	}
	s.evictVideoView(ctx, videoID)
	return nil
}

func (s *Service) HasUserLikedVideo(ctx context.Context, userID string, videoID int64) (bool, error) {
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, fmt.Errorf("%w: user %s", domain.ErrNotFound, userID)
	}
	videoExists, err := s.videos.Exists(ctx, videoID)
	if err != nil {
		return false, err
	}
	if !videoExists {
		return false, fmt.Errorf("%w: video %d", domain.ErrNotFound, videoID)
	}
	return s.likes.Exists(ctx, userID, videoID)
}

func (s *Service) UserLikes(ctx context.Context, userID string) ([]VideoView, error) {
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, userID)
	}
	ids, err := s.likes.ListVideoIDsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list likes of user %s: %w", userID, err)
	}
	videos := make([]domain.Video, 0, len(ids))
	for _, id := range ids {
		if video, getErr := s.videos.GetByID(ctx, id); getErr == nil {
			videos = append(videos, video)
		}
	}
	return s.toVideoViews(ctx, videos), nil
}

func (s *Service) Subscribe(ctx context.Context, subscriberID, channelID string) error {
	if err := s.requireUsers(ctx, subscriberID, channelID); err != nil {
		return err
	}
	if err := s.subscriptions.Subscribe(ctx, subscriberID, channelID); err != nil {
		return fmt.Errorf("subscribe %s -> %s: %w", subscriberID, channelID, err)
	}
	return nil
}

func (s *Service) Unsubscribe(ctx context.Context, subscriberID, channelID string) error {
	if err := s.requireUsers(ctx, subscriberID, channelID); err != nil {
		return err
	}
	if err := s.subscriptions.Unsubscribe(ctx, subscriberID, channelID); err != nil {
		return fmt.Errorf("unsubscribe %s -> %s: %w", subscriberID, channelID, err)
	}
	return nil
}

func (s *Service) HasUserSubscribed(ctx context.Context, subscriberID, channelID string) (bool, error) {
	exists, err := s.users.Exists(ctx, subscriberID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, fmt.Errorf("%w: user %s", domain.ErrNotFound, subscriberID)
	}
	return s.subscriptions.Exists(ctx, subscriberID, channelID)
}

func (s *Service) UserSubscriptions(ctx context.Context, subscriberID string) ([]UserView, error) {
	exists, err := s.users.Exists(ctx, subscriberID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, subscriberID)
	}
	channelIDs, err := s.subscriptions.ListChannels(ctx, subscriberID)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions of user %s: %w", subscriberID, err)
	}
	users := make([]domain.User, 0, len(channelIDs))
	for _, id := range channelIDs {
		if user, getErr := s.users.GetByID(ctx, id); getErr == nil {
			users = append(users, user)
		}
	}
	return s.toUserViews(ctx, users), nil
}

func (s *Service) AddSearchOption(ctx context.Context, userID, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return fmt.Errorf("%w: empty search query", domain.ErrInvalidArgument)
	}
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: user %s", domain.ErrNotFound, userID)
	}
	if err := s.searchHistory.Add(ctx, userID, query, s.nowFn(), s.cfg.MaxSearchHistory); err != nil {
		return fmt.Errorf("add search option for user %s: %w", userID, err)
	}
	return nil
}

func (s *Service) SearchHistory(ctx context.Context, userID string) ([]string, error) {
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, userID)
	}
	entries, err := s.searchHistory.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list search history of user %s: %w", userID, err)
	}
	queries := make([]string, 0, len(entries))
	for _, entry := range entries {
		queries = append(queries, entry.Query)
	}
	return queries, nil
}

func (s *Service) DeleteSearchOption(ctx context.Context, userID, query string) error {
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: user %s", domain.ErrNotFound, userID)
	}
	if err := s.searchHistory.Delete(ctx, userID, query); err != nil {
		return fmt.Errorf("delete search option of user %s: %w", userID, err)
	}
	return nil
}

func (s *Service) requireUsers(ctx context.Context, ids ...string) error {
	for _, id := range ids {
		exists, err := s.users.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: user %s", domain.ErrNotFound, id)
		}
	}
	return nil
}

func (s *Service) toUserView(ctx context.Context, user domain.User) UserView {
	subscribers, err := s.subscriptions.CountSubscribers(ctx, user.ID)
	if err != nil {
		s.logger.WarnContext(ctx, "could not count subscribers", "user_id", user.ID, "error", err)
	}
	return UserView{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		Picture:     user.Picture,
		Subscribers: subscribers,
	}
}

func (s *Service) toUserViews(ctx context.Context, users []domain.User) []UserView {
	views := make([]UserView, 0, len(users))
	for _, user := range users {
		views = append(views, s.toUserView(ctx, user))
	}
	return views
}
