package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application.
type AppConfig struct {
	DatabaseURL string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SenderEmail  string
	SenderDomain string // domain used for synthesized signature addresses

	AttachmentPath string // packaging-guidelines PDF attached to every notification
	SkipLogPath    string // exported skip-log workbook

	BatchSize  int
	BatchPause time.Duration

	RunSchedule string // cron spec; empty means run once and exit

	TelegramToken string // optional ops summary channel
	OpsChatID     int64

	LogLevel    string
	Environment string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.SMTPHost = os.Getenv("SMTP_HOST")
	if cfg.SMTPHost == "" {
		return nil, fmt.Errorf("SMTP_HOST is not set")
	}
	portStr := os.Getenv("SMTP_PORT")
	if portStr == "" {
		portStr = "587"
	}
	cfg.SMTPPort, err = strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}
	cfg.SMTPUsername = os.Getenv("SMTP_USERNAME")
	cfg.SMTPPassword = os.Getenv("SMTP_PASSWORD")

	cfg.SenderEmail = os.Getenv("SENDER_EMAIL")
	if cfg.SenderEmail == "" {
		return nil, fmt.Errorf("SENDER_EMAIL is not set")
	}
	cfg.SenderDomain = os.Getenv("SENDER_DOMAIN")
	if cfg.SenderDomain == "" {
		if at := strings.LastIndex(cfg.SenderEmail, "@"); at >= 0 {
			cfg.SenderDomain = cfg.SenderEmail[at+1:]
		}
	}

	cfg.AttachmentPath = os.Getenv("ATTACHMENT_PATH")
	if cfg.AttachmentPath == "" {
		return nil, fmt.Errorf("ATTACHMENT_PATH is not set")
	}
	// A missing guidelines document is a configuration error: no
	// notification may be sent without the attachment.
	if _, err := os.Stat(cfg.AttachmentPath); err != nil {
		return nil, fmt.Errorf("attachment not found at ATTACHMENT_PATH %q: %w", cfg.AttachmentPath, err)
	}

	cfg.SkipLogPath = os.Getenv("SKIP_LOG_PATH")
	if cfg.SkipLogPath == "" {
		cfg.SkipLogPath = "skipped_vendors.xlsx"
	}

	batchStr := os.Getenv("BATCH_SIZE")
	if batchStr == "" {
		batchStr = "5"
	}
	cfg.BatchSize, err = strconv.Atoi(batchStr)
	if err != nil || cfg.BatchSize <= 0 {
		return nil, fmt.Errorf("invalid BATCH_SIZE %q", batchStr)
	}

	pauseStr := os.Getenv("BATCH_PAUSE")
	if pauseStr == "" {
		pauseStr = "30s"
	}
	cfg.BatchPause, err = time.ParseDuration(pauseStr)
	if err != nil {
		return nil, fmt.Errorf("invalid BATCH_PAUSE: %w", err)
	}

	cfg.RunSchedule = os.Getenv("RUN_SCHEDULE")

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if chatStr := os.Getenv("OPS_CHAT_ID"); chatStr != "" {
		cfg.OpsChatID, err = strconv.ParseInt(chatStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid OPS_CHAT_ID: %w", err)
		}
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	return cfg, nil
}
