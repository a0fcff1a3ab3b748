package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Webhook  WebhookConfig
	Billing  BillingConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	WebhookLogFilePath string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type WebhookConfig struct {
	Timeout     time.Duration
	MaxAttempts int
	BackoffBase time.Duration
	// RetryInterval is how often the dispatcher sweeps for deliveries
	// whose next_retry_at has passed.
	RetryInterval time.Duration
}

type BillingConfig struct {
	// ArchiveRetention is how long a paid invoice must sit before the
	// archive sweep moves it out of the active set.
	ArchiveRetention time.Duration
	OverdueInterval  time.Duration
	ArchiveInterval  time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			WebhookLogFilePath: getEnv("WEBHOOK_LOG_FILE_PATH", "webhook.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "InvoiceFlow"),
		},
		Webhook: WebhookConfig{
			Timeout:       getEnvAsDuration("WEBHOOK_TIMEOUT", 10*time.Second),
			MaxAttempts:   getEnvAsInt("WEBHOOK_MAX_ATTEMPTS", 5),
			BackoffBase:   getEnvAsDuration("WEBHOOK_BACKOFF_BASE", 30*time.Second),
			RetryInterval: getEnvAsDuration("WEBHOOK_RETRY_INTERVAL", 15*time.Second),
		},
		Billing: BillingConfig{
			ArchiveRetention: getEnvAsDuration("INVOICE_ARCHIVE_RETENTION", 90*24*time.Hour),
			OverdueInterval:  getEnvAsDuration("OVERDUE_SWEEP_INTERVAL", time.Minute),
			ArchiveInterval:  getEnvAsDuration("ARCHIVE_SWEEP_INTERVAL", time.Hour),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
