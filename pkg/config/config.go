package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	ServerPort  string
	MetricsPath string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// RabbitMQ
	RabbitMQHost     string
	RabbitMQPort     string
	RabbitMQUser     string
	RabbitMQPassword string

	// NATS
	NATSURL string

	// SMTP
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPSender   string

	// JWT
	JWTSecret string

	// Neediness scorer
	ScorerURL     string
	ScorerTimeout time.Duration
	// ScoreBudget bounds the whole scoring step of a pending-list read and
	// is always longer than ScorerTimeout.
	ScoreBudget   time.Duration
	ScoreCacheTTL time.Duration

	// Outbox relay
	OutboxInterval    time.Duration
	OutboxBatchSize   int
	OutboxMaxAttempts int

	// Rate limiting
	RateLimitPerMinute int

	// Services URLs
	MatchingServiceURL     string
	NotificationServiceURL string
}

func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	config := &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		MetricsPath: getEnv("METRICS_PATH", "/metrics"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "donorseeker"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		RabbitMQHost:     getEnv("RABBITMQ_HOST", "localhost"),
		RabbitMQPort:     getEnv("RABBITMQ_PORT", "5672"),
		RabbitMQUser:     getEnv("RABBITMQ_USER", "guest"),
		RabbitMQPassword: getEnv("RABBITMQ_PASSWORD", "guest"),

		NATSURL: getEnv("NATS_URL", ""),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPSender:   getEnv("SMTP_SENDER", "no-reply@donorseeker.local"),

		JWTSecret: getEnv("JWT_SECRET", "your-secret-key-change-in-production"),

		ScorerURL:     getEnv("SCORER_URL", ""),
		ScorerTimeout: getEnvDuration("SCORER_TIMEOUT", 2*time.Second),
		ScoreBudget:   getEnvDuration("SCORE_BUDGET", 0),
		ScoreCacheTTL: getEnvDuration("SCORE_CACHE_TTL", 10*time.Minute),

		OutboxInterval:    getEnvDuration("OUTBOX_INTERVAL", 5*time.Second),
		OutboxBatchSize:   getEnvInt("OUTBOX_BATCH_SIZE", 50),
		OutboxMaxAttempts: getEnvInt("OUTBOX_MAX_ATTEMPTS", 10),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 100),

		MatchingServiceURL:     getEnv("MATCHING_SERVICE_URL", "http://localhost:8001"),
		NotificationServiceURL: getEnv("NOTIFICATION_SERVICE_URL", "http://localhost:8002"),
	}

	if config.ScoreBudget <= config.ScorerTimeout {
		config.ScoreBudget = config.ScorerTimeout + scoreBudgetSlack
	}

	// JWT_SECRET validation is optional - only required for services that use JWT
	// If not set, it will use default value and services without JWT will work fine

	return config, nil
}

const scoreBudgetSlack = 500 * time.Millisecond

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
