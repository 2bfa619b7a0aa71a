package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ServiceID string

	HTTPPort int
	GRPCPort int

	DatabaseURL  string
	RedisURL     string
	KafkaBrokers []string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	MaxDBConns         int32
	KafkaConsumerGroup string

	MaxVideosPerRequest int
	PopularityDays      int
	WatchDedupWindow    time.Duration
	MaxSearchHistory    int
	ProcessingTimeout   time.Duration
	VideoCacheTTL       time.Duration
	DefaultUserPicture  string
	DefaultLanguage     string
	SeedWorkers         int
}

type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
		GRPCPort int    `yaml:"grpc_port"`
	} `yaml:"service"`
	Dependencies struct {
		PostgresURL        string   `yaml:"postgres_url"`
		RedisURL           string   `yaml:"redis_url"`
		KafkaBrokers       []string `yaml:"kafka_brokers"`
		KafkaConsumerGroup string   `yaml:"kafka_consumer_group"`
		MinioEndpoint      string   `yaml:"minio_endpoint"`
		MinioAccessKey     string   `yaml:"minio_access_key"`
		MinioSecretKey     string   `yaml:"minio_secret_key"`
		MinioBucket        string   `yaml:"minio_bucket"`
		MinioUseSSL        bool     `yaml:"minio_use_ssl"`
	} `yaml:"dependencies"`
	Tuning struct {
		MaxVideosPerRequest      int    `yaml:"max_videos_per_request"`
		PopularityDays           int    `yaml:"popularity_days"`
		WatchDedupHours          int    `yaml:"watch_dedup_hours"`
		MaxSearchHistory         int    `yaml:"max_search_history"`
		ProcessingTimeoutSeconds int    `yaml:"processing_timeout_seconds"`
		VideoCacheSeconds        int    `yaml:"video_cache_seconds"`
		DefaultUserPicture       string `yaml:"default_user_picture"`
		DefaultLanguage          string `yaml:"default_language"`
		SeedWorkers              int    `yaml:"seed_workers"`
	} `yaml:"tuning"`
}

func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:           "video-api",
		HTTPPort:            8080,
		GRPCPort:            9090,
		MaxDBConns:          20,
		KafkaConsumerGroup:  "video-api",
		MinioBucket:         "videos",
		MaxVideosPerRequest: 20,
		PopularityDays:      30,
		WatchDedupWindow:    24 * time.Hour,
		MaxSearchHistory:    10,
		ProcessingTimeout:   5 * time.Minute,
		VideoCacheTTL:       5 * time.Minute,
		DefaultLanguage:     "en",
		SeedWorkers:         12,
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		if f.Service.ID != "" {
			cfg.ServiceID = f.Service.ID
		}
		if f.Service.HTTPPort > 0 {
			cfg.HTTPPort = f.Service.HTTPPort
		}
		if f.Service.GRPCPort > 0 {
			cfg.GRPCPort = f.Service.GRPCPort
		}
		if f.Dependencies.PostgresURL != "" {
			cfg.DatabaseURL = f.Dependencies.PostgresURL
		}
		if f.Dependencies.RedisURL != "" {
			cfg.RedisURL = f.Dependencies.RedisURL
		}
		if len(f.Dependencies.KafkaBrokers) > 0 {
			cfg.KafkaBrokers = trimNonEmpty(f.Dependencies.KafkaBrokers)
		}
		if f.Dependencies.KafkaConsumerGroup != "" {
			cfg.KafkaConsumerGroup = f.Dependencies.KafkaConsumerGroup
		}
		cfg.MinioEndpoint = f.Dependencies.MinioEndpoint
		cfg.MinioAccessKey = f.Dependencies.MinioAccessKey
		cfg.MinioSecretKey = f.Dependencies.MinioSecretKey
		if f.Dependencies.MinioBucket != "" {
			cfg.MinioBucket = f.Dependencies.MinioBucket
		}
		cfg.MinioUseSSL = f.Dependencies.MinioUseSSL
		if f.Tuning.MaxVideosPerRequest > 0 {
			cfg.MaxVideosPerRequest = f.Tuning.MaxVideosPerRequest
		}
		if f.Tuning.PopularityDays > 0 {
			cfg.PopularityDays = f.Tuning.PopularityDays
		}
		if f.Tuning.WatchDedupHours > 0 {
			cfg.WatchDedupWindow = time.Duration(f.Tuning.WatchDedupHours) * time.Hour
		}
		if f.Tuning.MaxSearchHistory > 0 {
			cfg.MaxSearchHistory = f.Tuning.MaxSearchHistory
		}
		if f.Tuning.ProcessingTimeoutSeconds > 0 {
			cfg.ProcessingTimeout = time.Duration(f.Tuning.ProcessingTimeoutSeconds) * time.Second
		}
		if f.Tuning.VideoCacheSeconds > 0 {
			cfg.VideoCacheTTL = time.Duration(f.Tuning.VideoCacheSeconds) * time.Second
		}
		if f.Tuning.DefaultUserPicture != "" {
			cfg.DefaultUserPicture = f.Tuning.DefaultUserPicture
		}
		if f.Tuning.DefaultLanguage != "" {
			cfg.DefaultLanguage = f.Tuning.DefaultLanguage
		}
		if f.Tuning.SeedWorkers > 0 {
			cfg.SeedWorkers = f.Tuning.SeedWorkers
		}
	}

	cfg.DatabaseURL = envOrDefault("DB_URL", envOrDefault("POSTGRES_URL", cfg.DatabaseURL))
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.KafkaBrokers = envCSV("KAFKA_BROKERS", cfg.KafkaBrokers)
	cfg.KafkaConsumerGroup = envOrDefault("KAFKA_CONSUMER_GROUP", cfg.KafkaConsumerGroup)
	cfg.MinioEndpoint = envOrDefault("MINIO_ENDPOINT", cfg.MinioEndpoint)
	cfg.MinioAccessKey = envOrDefault("MINIO_ACCESS_KEY", cfg.MinioAccessKey)
	cfg.MinioSecretKey = envOrDefault("MINIO_SECRET_KEY", cfg.MinioSecretKey)
	cfg.MinioBucket = envOrDefault("MINIO_BUCKET", cfg.MinioBucket)
	cfg.MinioUseSSL = envBool("MINIO_USE_SSL", cfg.MinioUseSSL)
	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.GRPCPort = envInt("GRPC_PORT", cfg.GRPCPort)
	cfg.MaxDBConns = int32(envInt("DB_MAX_CONNS", int(cfg.MaxDBConns)))
	cfg.MaxVideosPerRequest = envInt("MAX_VIDEOS_PER_REQUEST", cfg.MaxVideosPerRequest)
	cfg.PopularityDays = envInt("POPULARITY_DAYS", cfg.PopularityDays)
	cfg.WatchDedupWindow = time.Duration(envInt("WATCH_DEDUP_HOURS", int(cfg.WatchDedupWindow.Hours()))) * time.Hour
	cfg.MaxSearchHistory = envInt("MAX_SEARCH_HISTORY", cfg.MaxSearchHistory)
	cfg.ProcessingTimeout = time.Duration(envInt("PROCESSING_TIMEOUT_SECONDS", int(cfg.ProcessingTimeout.Seconds()))) * time.Second
	cfg.VideoCacheTTL = time.Duration(envInt("VIDEO_CACHE_SECONDS", int(cfg.VideoCacheTTL.Seconds()))) * time.Second
	cfg.DefaultUserPicture = envOrDefault("DEFAULT_USER_PICTURE", cfg.DefaultUserPicture)
	cfg.DefaultLanguage = envOrDefault("DEFAULT_LANGUAGE", cfg.DefaultLanguage)
	cfg.SeedWorkers = envInt("SEED_WORKERS", cfg.SeedWorkers)

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("missing DB_URL/POSTGRES_URL")
	}
	if cfg.RedisURL == "" {
		return Config{}, fmt.Errorf("missing REDIS_URL")
	}
	if cfg.MinioEndpoint == "" {
		return Config{}, fmt.Errorf("missing MINIO_ENDPOINT")
	}
	return cfg, nil
}

func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	switch strings.ToLower(raw) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	default:
		return fallback
	}
}

func envCSV(name string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	return trimNonEmpty(strings.Split(raw, ","))
}

func trimNonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
