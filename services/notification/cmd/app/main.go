package main

import (
	"os"

	"donorseeker/pkg/cache"
	"donorseeker/pkg/config"
	"donorseeker/pkg/logger"
	"donorseeker/pkg/queue"
	notificationApp "donorseeker/services/notification/internal/app"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.ReleaseMode)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New().Named("notification")
	defer func() { _ = log.Sync() }()

	// The inbox lives in Redis and tasks arrive over RabbitMQ; neither is optional here.
	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}

	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Error("Failed to connect to RabbitMQ: %v", err)
		os.Exit(1)
	}

	if err := notificationApp.Run(cfg, log, redisClient, queueClient); err != nil {
		os.Exit(1)
	}
}
