package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port            string
	TempDir         string
	MaxFileSize     int64
	CleanupInterval time.Duration
	TempMaxAge      time.Duration

	// Google Drive
	DriveRootFolderID  string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRefreshToken string

	// Email
	SMTPHost      string
	SMTPPort      int
	EmailUser     string
	EmailPassword string
	AdminEmail    string // optional: empty skips the admin notification
}

func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8080"),
		TempDir:         getEnv("TEMP_DIR", "./temp"),
		MaxFileSize:     getEnvInt64("MAX_FILE_SIZE", 10*1024*1024), // 10MiB per file
		CleanupInterval: getEnvDuration("CLEANUP_INTERVAL_HOURS", 1*time.Hour),
		TempMaxAge:      getEnvDuration("TEMP_MAX_AGE_HOURS", 24*time.Hour),

		DriveRootFolderID:  os.Getenv("GOOGLE_DRIVE_PARENT_FOLDER_ID"),
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRefreshToken: os.Getenv("GOOGLE_REFRESH_TOKEN"),

		SMTPHost:      getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:      getEnvInt("SMTP_PORT", 587),
		EmailUser:     os.Getenv("EMAIL_USER"),
		EmailPassword: os.Getenv("EMAIL_PASSWORD"),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
	}
}

// Validate checks the fields the server cannot run without. Drive settings are
// deliberately not required here: the upload endpoint reports their absence per
// request, so the server can still boot and answer health checks.
func (c *Config) Validate() error {
	if c.EmailUser == "" {
		return fmt.Errorf("EMAIL_USER is required")
	}
	if c.EmailPassword == "" {
		return fmt.Errorf("EMAIL_PASSWORD is required")
	}
	if c.MaxFileSize <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE must be positive, got %d", c.MaxFileSize)
	}
	return nil
}

// DriveConfigured reports whether all Google Drive settings are present.
func (c *Config) DriveConfigured() bool {
	return c.DriveRootFolderID != "" &&
		c.GoogleClientID != "" &&
		c.GoogleClientSecret != "" &&
		c.GoogleRefreshToken != ""
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if hours, err := strconv.ParseFloat(val, 64); err == nil {
			return time.Duration(hours * float64(time.Hour))
		}
	}
	return fallback
}
