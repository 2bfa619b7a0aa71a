package application

import (
	"log/slog"
	"time"

	"github.com/x036ox/video-api/internal/ports"
)

type Service struct {
	cfg           Config
	logger        *slog.Logger
	users         ports.UserRepository
	videos        ports.VideoRepository
	likes         ports.LikeRepository
	watchHistory  ports.WatchHistoryRepository
	affinity      ports.AffinityRepository
	searchHistory ports.SearchHistoryRepository
	subscriptions ports.SubscriptionRepository
	popularity    ports.PopularityIndex
	cache         ports.Cache
	storage       ports.ObjectStorage
	processor     ports.MediaProcessor
	notifier      ports.Notifier
	langDetect    ports.LanguageDetector
	prober        ports.DurationProber
	nowFn         func() time.Time
}

type Dependencies struct {
	Config        Config
	Logger        *slog.Logger
	Users         ports.UserRepository
	Videos        ports.VideoRepository
	Likes         ports.LikeRepository
	WatchHistory  ports.WatchHistoryRepository
	Affinity      ports.AffinityRepository
	SearchHistory ports.SearchHistoryRepository
	Subscriptions ports.SubscriptionRepository
	Popularity    ports.PopularityIndex
	Cache         ports.Cache
	Storage       ports.ObjectStorage
	Processor     ports.MediaProcessor
	Notifier      ports.Notifier
	LangDetect    ports.LanguageDetector
	Prober        ports.DurationProber
	Now           func() time.Time
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.ServiceName == "" {
		cfg.ServiceName = "video-api"
	}
	if cfg.MaxVideosPerRequest <= 0 {
		cfg.MaxVideosPerRequest = 20
	}
	if cfg.PopularityDays <= 0 {
		cfg.PopularityDays = 30
	}
	if cfg.WatchDedupWindow <= 0 {
		cfg.WatchDedupWindow = 24 * time.Hour
	}
	if cfg.MaxSearchHistory <= 0 {
		cfg.MaxSearchHistory = 10
	}
	if cfg.ProcessingTimeout <= 0 {
		cfg.ProcessingTimeout = 5 * time.Minute
	}
	if cfg.VideoCacheTTL <= 0 {
		cfg.VideoCacheTTL = 5 * time.Minute
	}
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = "en"
	}
	if cfg.SeedWorkers <= 0 {
		cfg.SeedWorkers = 12
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	nowFn := deps.Now
	if nowFn == nil {
		nowFn = func() time.Time { return time.Now().UTC() }
	}

	return &Service{
		cfg:           cfg,
		logger:        logger,
		users:         deps.Users,
		videos:        deps.Videos,
		likes:         deps.Likes,
		watchHistory:  deps.WatchHistory,
		affinity:      deps.Affinity,
		searchHistory: deps.SearchHistory,
		subscriptions: deps.Subscriptions,
		popularity:    deps.Popularity,
		cache:         deps.Cache,
		storage:       deps.Storage,
		processor:     deps.Processor,
		notifier:      deps.Notifier,
		langDetect:    deps.LangDetect,
		prober:        deps.Prober,
		nowFn:         nowFn,
	}
}
