package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the configuration for the application.
type Config struct {
	DatabasePath string
	Port         string
	LogLevel     string
	LogFormat    string

	// Days of task metrics shown by /stats and kept on startup cleanup.
	StatsDays            int
	MetricsRetentionDays int

	// Telegram Config
	TelegramBotToken   string
	TelegramWebhookURL string // empty means long polling
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("DATABASE_PATH", "data/shopping.db")
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("STATS_DAYS", 7)
	v.SetDefault("METRICS_RETENTION_DAYS", 30)

	telegramBotToken := v.GetString("TELEGRAM_BOT_TOKEN")
	if telegramBotToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable not set")
	}

	statsDays := v.GetInt("STATS_DAYS")
	if statsDays <= 0 {
		return nil, fmt.Errorf("STATS_DAYS must be a positive number, got %q", v.GetString("STATS_DAYS"))
	}

	retentionDays := v.GetInt("METRICS_RETENTION_DAYS")
	if retentionDays <= 0 {
		return nil, fmt.Errorf("METRICS_RETENTION_DAYS must be a positive number, got %q", v.GetString("METRICS_RETENTION_DAYS"))
	}

	return &Config{
		DatabasePath:         v.GetString("DATABASE_PATH"),
		Port:                 v.GetString("PORT"),
		LogLevel:             v.GetString("LOG_LEVEL"),
		LogFormat:            v.GetString("LOG_FORMAT"),
		StatsDays:            statsDays,
		MetricsRetentionDays: retentionDays,
		TelegramBotToken:     telegramBotToken,
		TelegramWebhookURL:   v.GetString("TELEGRAM_WEBHOOK_URL"),
	}, nil
}
