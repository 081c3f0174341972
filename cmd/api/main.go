package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httptransport "github.com/lexpage/landing-service/internal/api/http"
	"github.com/lexpage/landing-service/internal/api/http/handlers"
	"github.com/lexpage/landing-service/internal/auth"
	"github.com/lexpage/landing-service/internal/cache"
	"github.com/lexpage/landing-service/internal/config"
	"github.com/lexpage/landing-service/internal/events"
	"github.com/lexpage/landing-service/internal/llm"
	"github.com/lexpage/landing-service/internal/observability"
	"github.com/lexpage/landing-service/internal/persistence"
	"github.com/lexpage/landing-service/internal/ratelimit"
	"github.com/lexpage/landing-service/internal/repository"
	"github.com/lexpage/landing-service/internal/search"
	"github.com/lexpage/landing-service/internal/service"
	"github.com/lexpage/landing-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.Pool, cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	checks := []handlers.DependencyCheck{
		{Name: "postgres", Ping: pg.Ping},
		{Name: "redis", Ping: redis.Ping},
	}

	contentStore, mongo, err := persistence.OpenContentStore(ctx, cfg, pg.Pool, logger)
	if err != nil {
		logger.Fatal("failed to open content store", zap.Error(err))
	}
	if mongo != nil {
		defer mongo.Close(context.Background())
		checks = append(checks, handlers.DependencyCheck{Name: "mongo", Ping: mongo.Ping})
	}

	metrics := observability.NewMetrics()
	pool := pg.Pool
	userRepo := repository.NewUserRepository(pool)
	metricRepo := repository.NewMetricEventRepository(pool)

	dispatcher := events.NewInMemoryDispatcher(logger)
	worker.StartMetricsWorker(service.NewMetricsRecorder(dispatcher, metricRepo, metrics, logger))

	contentDeps := service.ContentDependencies{Store: contentStore, Logger: logger}
	if contentCache := cache.NewContentCache(redis.Client, cfg.Content.CacheTTL()); contentCache != nil {
		contentDeps.Cache = contentCache
	}
	contentService := service.NewContentService(contentDeps)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:       userRepo,
		ContentService: contentService,
		Logger:         logger,
	})

	helpDeps := service.HelpDependencies{
		FaqRepo:         repository.NewFaqRepository(pool),
		TicketRepo:      repository.NewHelpTicketRepository(pool),
		ChatRepo:        repository.NewChatRepository(pool),
		MetricRepo:      metricRepo,
		Dispatcher:      dispatcher,
		Logger:          logger,
		UpstreamFailure: metrics.RecordUpstreamFailure,
	}
	if cfg.Search.MeiliURL != "" {
		faqIndex := search.NewFaqIndex(cfg.Search.MeiliURL, cfg.Search.MeiliAPIKey, cfg.Search.FaqIndex, logger)
		defer faqIndex.Close()
		helpDeps.Searcher = faqIndex
	}
	if completer := llm.NewAnthropic(cfg.LLM); completer != nil {
		helpDeps.Completer = completer
	} else {
		logger.Warn("LLM_API_KEY not set; chat replies will fail with UPSTREAM_ERROR")
	}
	helpService := service.NewHelpService(helpDeps)

	var limiter *ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		limiter = ratelimit.NewLimiter(redis.Client, cfg.RateLimit.Window(), cfg.RateLimit.Max)
	}

	app := httptransport.NewApp(*cfg, logger, metrics)
	httptransport.RegisterMiddlewares(app, *cfg, logger, metrics)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, checks...),
		Auth:           handlers.NewAuthHandler(authService),
		Content:        handlers.NewContentHandler(contentService),
		Help:           handlers.NewHelpHandler(helpService),
		AuthMiddleware: auth.NewAuthMiddleware(authService),
		Limiter:        limiter,
		Metrics:        metrics,
		Logger:         logger,
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("content_store", cfg.Content.Store))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
