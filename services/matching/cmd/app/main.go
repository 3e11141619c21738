package main

import (
	"os"

	"donorseeker/pkg/cache"
	"donorseeker/pkg/config"
	"donorseeker/pkg/database"
	"donorseeker/pkg/events"
	"donorseeker/pkg/logger"
	"donorseeker/pkg/queue"
	matchingApp "donorseeker/services/matching/internal/app"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.ReleaseMode)
}

// @title           Donorseeker Matching API
// @version         1.0
// @description     Listings, requests, matching, receipt and feedback for donations
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New().Named("matching")
	defer func() { _ = log.Sync() }()

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	deps := matchingApp.Deps{DB: db}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Warn("Failed to connect to Redis: %v (continuing without rate limiting and score cache)", err)
	} else {
		deps.RedisClient = redisClient
	}

	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Warn("Failed to connect to RabbitMQ: %v (continuing with log notifications)", err)
	} else {
		deps.QueueClient = queueClient
	}

	if cfg.NATSURL != "" {
		publisher, err := events.NewNATSPublisher(cfg.NATSURL, "donorseeker-matching", log)
		if err != nil {
			log.Warn("Failed to connect to NATS: %v (continuing without domain events)", err)
		} else {
			deps.Publisher = publisher
		}
	}

	if err := matchingApp.Run(cfg, log, deps); err != nil {
		os.Exit(1)
	}
}
