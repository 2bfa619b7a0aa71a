package ports

import (
	"context"
	"time"

	"github.com/x036ox/video-api/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (domain.User, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, user domain.User) error
	Delete(ctx context.Context, id string) error
	FindByOption(ctx context.Context, filter UserFilter) ([]domain.User, error)
}

// UserFilter restricts an admin user search. Zero-valued fields are ignored;
// range fields use inclusive bounds.
type UserFilter struct {
	ID              string
	Email           string
	Username        string
	SubscribersFrom *int
	SubscribersTo   *int
	VideosFrom      *int
	VideosTo        *int
}

type VideoRepository interface {
	Create(ctx context.Context, video *domain.Video) error
	GetByID(ctx context.Context, id int64) (domain.Video, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Update(ctx context.Context, video domain.Video) error
	Delete(ctx context.Context, id int64) error
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Video, error)
	IncrementViews(ctx context.Context, id int64) (int64, error)
	FindByOption(ctx context.Context, filter VideoFilter) ([]domain.Video, error)
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
}

type VideoFilter struct {
	ID        int64
	Title     string
	ViewsFrom *int64
	ViewsTo   *int64
	LikesFrom *int
	LikesTo   *int
}

type LikeRepository interface {
	// Toggle adds the like edge if absent and removes it if present, atomically
	// with respect to the (userID, videoID) pair. Returns true when the edge
	// exists after the call.
	Toggle(ctx context.Context, userID string, videoID int64, now time.Time) (bool, error)
	Remove(ctx context.Context, userID string, videoID int64) error
	Exists(ctx context.Context, userID string, videoID int64) (bool, error)
	CountByVideo(ctx context.Context, videoID int64) (int64, error)
	ListVideoIDsByUser(ctx context.Context, userID string) ([]int64, error)
	DeleteByVideo(ctx context.Context, videoID int64) error
	Add(ctx context.Context, userID string, videoID int64, at time.Time) error
}

type WatchHistoryRepository interface {
	// Record inserts a watch entry. An existing entry for the same pair with a
	// timestamp inside the dedup window is replaced instead of duplicated.
	Record(ctx context.Context, userID string, videoID int64, now time.Time, dedupWindow time.Duration) error
	ListByUser(ctx context.Context, userID string) ([]domain.WatchEntry, error)
	DeleteByVideo(ctx context.Context, videoID int64) error
}

type AffinityRepository interface {
	Get(ctx context.Context, userID string) (domain.Affinity, error)
	// IncrementWatch adds one point to both the category and language scores,
	// creating rows lazily, in a single transaction.
	IncrementWatch(ctx context.Context, userID, category, language string) error
	// DecayCategory multiplies the category score by 0.25 (floored) and removes
	// the entry when it reaches zero. Missing entries are a no-op.
	DecayCategory(ctx context.Context, userID, category string) error
}

type SearchHistoryRepository interface {
	// Add records a search query. A duplicate query refreshes its timestamp;
	// exceeding maxEntries evicts the oldest entry.
	Add(ctx context.Context, userID, query string, now time.Time, maxEntries int) error
	ListByUser(ctx context.Context, userID string) ([]domain.SearchEntry, error)
	Delete(ctx context.Context, userID, query string) error
}

type SubscriptionRepository interface {
	Subscribe(ctx context.Context, subscriberID, channelID string) error
	Unsubscribe(ctx context.Context, subscriberID, channelID string) error
	Exists(ctx context.Context, subscriberID, channelID string) (bool, error)
	ListChannels(ctx context.Context, subscriberID string) ([]string, error)
	CountSubscribers(ctx context.Context, channelID string) (int64, error)
}

// PopularityIndex answers "most liked videos within a trailing window" under
// various predicates. Results are ordered by descending like-count inside the
// window and never include excluded ids.
type PopularityIndex interface {
	TopByUserAffinity(ctx context.Context, userID string, since time.Time, excludes []int64, size int) ([]int64, error)
	TopByLanguage(ctx context.Context, language string, since time.Time, excludes []int64, size int) ([]int64, error)
	TopOverall(ctx context.Context, since time.Time, excludes []int64, size int) ([]int64, error)
}
