package app

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"donorseeker/pkg/config"
	"donorseeker/pkg/events"
	"donorseeker/pkg/jwt"
	"donorseeker/pkg/logger"
	"donorseeker/pkg/middleware"
	"donorseeker/pkg/queue"
	_ "donorseeker/services/matching/docs" // Swagger docs
	matchingHTTP "donorseeker/services/matching/internal/controller/http"
	"donorseeker/services/matching/internal/metrics"
	"donorseeker/services/matching/internal/notifier"
	"donorseeker/services/matching/internal/outbox"
	"donorseeker/services/matching/internal/repo/persistent"
	"donorseeker/services/matching/internal/scoring"
	"donorseeker/services/matching/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// Deps are the connections main opened. RedisClient, QueueClient and
// Publisher may be nil; the engine then runs without score caching, with
// log-only notifications and without domain events.
type Deps struct {
	DB          *gorm.DB
	RedisClient *redis.Client
	QueueClient *queue.Client
	Publisher   events.Publisher
}

func newScorer(cfg *config.Config, redisClient *redis.Client, log *logger.Logger) scoring.Scorer {
	if cfg.ScorerURL == "" {
		log.Info("[MATCHING] No scorer configured, every request scores neutral")
		return scoring.NeutralScorer{}
	}

	var scorer scoring.Scorer = scoring.NewHTTPScorer(cfg.ScorerURL, cfg.ScorerTimeout, log)
	if redisClient != nil {
		scorer = scoring.NewCachedScorer(scorer, redisClient, cfg.ScoreCacheTTL, log)
	}
	return scorer
}

func newNotifier(queueClient *queue.Client, log *logger.Logger) notifier.Notifier {
	if queueClient == nil {
		log.Warn("[MATCHING] RabbitMQ unavailable, acceptance notifications are only logged")
		return notifier.NewLogNotifier(log)
	}
	return notifier.NewQueueNotifier(queueClient, log)
}

// Run serves the API and the outbox relay until SIGINT or SIGTERM.
func Run(cfg *config.Config, log *logger.Logger, deps Deps) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	publisher := deps.Publisher
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	jwtService := jwt.NewService(cfg.JWTSecret)

	// Initialize unit of work and background relay
	uow := persistent.NewUnitOfWork(deps.DB)
	relay := outbox.NewRelay(uow.Repositories().Outbox, newNotifier(deps.QueueClient, log), outbox.Config{
		Interval:    cfg.OutboxInterval,
		BatchSize:   cfg.OutboxBatchSize,
		MaxAttempts: cfg.OutboxMaxAttempts,
	}, m, log.Named("outbox"))

	// Initialize use cases
	annotator := scoring.NewAnnotator(newScorer(cfg, deps.RedisClient, log), cfg.ScoreBudget, m, log)
	listingUseCase := usecase.NewListingUseCase(uow, m, log)
	requestUseCase := usecase.NewRequestUseCase(uow, annotator, m, log)
	matchingUseCase := usecase.NewMatchingUseCase(uow, relay, publisher, m, log)
	transactionUseCase := usecase.NewTransactionUseCase(uow, publisher, m, log)
	feedbackUseCase := usecase.NewFeedbackUseCase(uow, publisher, m, log)

	// Setup router
	r := gin.New()
	r.Use(gin.Recovery())

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "matching"})
	})
	r.GET(cfg.MetricsPath, gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(jwtService))
	api.Use(middleware.RateLimitMiddleware(deps.RedisClient, cfg.RateLimitPerMinute, time.Minute))

	matchingHTTP.RegisterRoutes(api, matchingHTTP.Handlers{
		Listings:     matchingHTTP.NewListingHandler(listingUseCase, log),
		Requests:     matchingHTTP.NewRequestHandler(requestUseCase, matchingUseCase, log),
		Transactions: matchingHTTP.NewTransactionHandler(transactionUseCase, feedbackUseCase, log),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Matching service starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return relay.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down matching service...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	closeDeps(deps, publisher, log)

	if err != nil {
		log.Error("Matching service stopped with error: %v", err)
		return err
	}
	log.Info("Matching service exited")
	return nil
}

func closeDeps(deps Deps, publisher events.Publisher, log *logger.Logger) {
	publisher.Close()

	if deps.QueueClient != nil {
		if err := deps.QueueClient.Close(); err != nil {
			log.Error("Error closing RabbitMQ: %v", err)
		}
	}

	if deps.RedisClient != nil {
		if err := deps.RedisClient.Close(); err != nil {
			log.Error("Error closing Redis: %v", err)
		}
	}

	if sqlDB, err := deps.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Error("Error closing database: %v", err)
		}
	}
}
