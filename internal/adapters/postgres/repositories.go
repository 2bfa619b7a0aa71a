package postgres

import (
	"github.com/x036ox/video-api/internal/ports"
	"gorm.io/gorm"
)

// Repositories bundles all postgres-backed port implementations over a single
// gorm handle.
type Repositories struct {
	Users         ports.UserRepository
	Videos        ports.VideoRepository
	Likes         ports.LikeRepository
	WatchHistory  ports.WatchHistoryRepository
	Affinity      ports.AffinityRepository
	SearchHistory ports.SearchHistoryRepository
	Subscriptions ports.SubscriptionRepository
	Popularity    ports.PopularityIndex
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Users:         &userRepository{db: db},
		Videos:        &videoRepository{db: db},
		Likes:         &likeRepository{db: db},
		WatchHistory:  &watchHistoryRepository{db: db},
		Affinity:      &affinityRepository{db: db},
		SearchHistory: &searchHistoryRepository{db: db},
		Subscriptions: &subscriptionRepository{db: db},
		Popularity:    &popularityRepository{db: db},
	}
}
