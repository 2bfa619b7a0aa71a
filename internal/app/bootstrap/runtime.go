package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/x036ox/video-api/internal/adapters/cache"
	eventadapter "github.com/x036ox/video-api/internal/adapters/events"
	httpadapter "github.com/x036ox/video-api/internal/adapters/http"
	"github.com/x036ox/video-api/internal/adapters/media"
	"github.com/x036ox/video-api/internal/adapters/objectstore"
	"github.com/x036ox/video-api/internal/adapters/postgres"
	"github.com/x036ox/video-api/internal/application"
	"github.com/x036ox/video-api/internal/ports"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type Runtime struct {
	cfg        Config
	logger     *slog.Logger
	httpServer *http.Server
	grpcServer *grpc.Server
	grpcLis    net.Listener
	processor  *eventadapter.KafkaProcessor
	cleanupFn  func(context.Context)
}

func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})).With("service", cfg.ServiceID)
	slog.SetDefault(logger)

	db, err := postgres.Connect(ctx, cfg.DatabaseURL, cfg.MaxDBConns)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := postgres.RunMigrations(ctx, db); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	redisClient, err := cache.Connect(ctx, cfg.RedisURL)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	cacheStore := cache.NewRedisCache(redisClient)

	storage, err := objectstore.Connect(ctx, objectstore.Config{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioUseSSL,
	})
	if err != nil {
		_ = redisClient.Close()
		_ = sqlDB.Close()
		return nil, err
	}

	var (
		processor      ports.MediaProcessor
		notifier       ports.Notifier
		kafkaProcessor *eventadapter.KafkaProcessor
	)
	if len(cfg.KafkaBrokers) > 0 {
		kafkaProcessor, err = eventadapter.NewKafkaProcessor(cfg.KafkaBrokers, cfg.KafkaConsumerGroup, logger)
		if err != nil {
			logger.WarnContext(ctx, "kafka processor disabled, acknowledging locally", "error", err)
		}
	}
	if kafkaProcessor != nil {
		processor = kafkaProcessor
		notifier = kafkaProcessor
	} else {
		noop := eventadapter.NewNoopProcessor(logger)
		processor = noop
		notifier = noop
	}

	repos := postgres.NewRepositories(db)
	service := application.NewService(application.Dependencies{
		Config: application.Config{
			ServiceName:         cfg.ServiceID,
			MaxVideosPerRequest: cfg.MaxVideosPerRequest,
			PopularityDays:      cfg.PopularityDays,
			WatchDedupWindow:    cfg.WatchDedupWindow,
			MaxSearchHistory:    cfg.MaxSearchHistory,
			ProcessingTimeout:   cfg.ProcessingTimeout,
			VideoCacheTTL:       cfg.VideoCacheTTL,
			DefaultUserPicture:  cfg.DefaultUserPicture,
			DefaultLanguage:     cfg.DefaultLanguage,
			SeedWorkers:         cfg.SeedWorkers,
		},
		Logger:        logger,
		Users:         repos.Users,
		Videos:        repos.Videos,
		Likes:         repos.Likes,
		WatchHistory:  repos.WatchHistory,
		Affinity:      repos.Affinity,
		SearchHistory: repos.SearchHistory,
		Subscriptions: repos.Subscriptions,
		Popularity:    repos.Popularity,
		Cache:         cacheStore,
		Storage:       storage,
		Processor:     processor,
		Notifier:      notifier,
		LangDetect:    media.NewLinguaDetector(),
		Prober:        media.NewMP4Prober(),
	})

	handler := httpadapter.NewHandler(service)
	router := httpadapter.NewRouter(handler, logger)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	grpcServer := grpc.NewServer()
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthSrv)
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
	if err != nil {
		_ = redisClient.Close()
		_ = sqlDB.Close()
		return nil, err
	}

	return &Runtime{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpServer,
		grpcServer: grpcServer,
		grpcLis:    lis,
		processor:  kafkaProcessor,
		cleanupFn: func(context.Context) {
			if kafkaProcessor != nil {
				_ = kafkaProcessor.Close()
			}
			_ = redisClient.Close()
			_ = sqlDB.Close()
		},
	}, nil
}

func (r *Runtime) RunAPI(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	errCh := make(chan error, 2)

	if r.processor != nil {
		go r.processor.Run(ctx)
	}
	go func() {
		if err := r.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	go func() {
		if err := r.grpcServer.Serve(r.grpcLis); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		r.logger.ErrorContext(ctx, "runtime failure", "error", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = r.httpServer.Shutdown(shutdownCtx)
	r.grpcServer.GracefulStop()
	r.cleanupFn(shutdownCtx)
	return nil
}
