package app

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"donorseeker/pkg/config"
	"donorseeker/pkg/jwt"
	"donorseeker/pkg/logger"
	"donorseeker/pkg/middleware"
	"donorseeker/pkg/queue"
	notificationHTTP "donorseeker/services/notification/internal/controller/http"
	"donorseeker/services/notification/internal/mailer"
	"donorseeker/services/notification/internal/repo/inbox"
	"donorseeker/services/notification/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

// Run serves the inbox API and consumes donation_accepted tasks until SIGINT
// or SIGTERM.
func Run(cfg *config.Config, log *logger.Logger, redisClient *redis.Client, queueClient *queue.Client) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	jwtService := jwt.NewService(cfg.JWTSecret)

	// Initialize UseCase
	notificationUseCase := usecase.NewNotificationUseCase(inbox.NewRedisInbox(redisClient), mailer.New(cfg, log), log)

	// Initialize HTTP handlers
	notificationHandler := notificationHTTP.NewNotificationHandler(notificationUseCase, log)

	// Setup router
	r := gin.New()
	r.Use(gin.Recovery())

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		backlog, err := queueClient.GetQueueLength()
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "service": "notification"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "notification", "queue_length": backlog})
	})

	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(jwtService))
	{
		api.GET("/notifications", notificationHandler.GetNotifications)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Notification service starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		log.Info("Starting notification queue processor...")
		return queueClient.ConsumeDonationAccepted(gctx, notificationUseCase.HandleDonationAccepted)
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down notification service...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err := g.Wait()

	if err := queueClient.Close(); err != nil {
		log.Error("Error closing RabbitMQ: %v", err)
	}
	if err := redisClient.Close(); err != nil {
		log.Error("Error closing Redis: %v", err)
	}

	if err != nil {
		log.Error("Notification service stopped with error: %v", err)
		return err
	}
	log.Info("Notification service exited")
	return nil
}
