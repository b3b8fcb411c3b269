package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration values.
type Config struct {
	AppPort     string
	DatabaseURL string
	// DatabaseName is the database created on startup when missing.
	DatabaseName    string
	BootstrapScript string

	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioPhoneNumber string

	AWSAccessKey string
	AWSSecretKey string
	AWSRegion    string
	BucketName   string

	LogLevel         string
	LogFile          string
	CORSAllowOrigins string
	MaxUploadMB      int
}

// Load reads environment variables and returns a populated Config.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		AppPort:           getEnv("APP_PORT", "8000"),
		DatabaseName:      getEnv("DB_DATABASE", "siteapi"),
		BootstrapScript:   getEnv("DB_BOOTSTRAP_SCRIPT", "database.sql"),
		TwilioAccountSID:  getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:   getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioPhoneNumber: getEnv("TWILIO_PHONE_NUMBER", ""),
		AWSAccessKey:      getEnv("AWS_ACCESS_KEY", ""),
		AWSSecretKey:      getEnv("AWS_SECRET_KEY", ""),
		AWSRegion:         getEnv("AWS_REGION", "us-east-1"),
		BucketName:        getEnv("BUCKET_NAME", ""),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFile:           getEnv("LOG_FILE", ""),
		CORSAllowOrigins:  getEnv("CORS_ALLOW_ORIGINS", "*"),
		MaxUploadMB:       getEnvInt("MAX_UPLOAD_MB", 100),
	}

	cfg.DatabaseURL = getEnv("DATABASE_URL", "")
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = BuildDatabaseURL(
			getEnv("DB_HOST", "localhost"),
			getEnv("DB_PORT", "5432"),
			getEnv("DB_USER", "postgres"),
			getEnv("DB_PASSWORD", ""),
			cfg.DatabaseName,
			getEnv("DB_SSLMODE", "disable"),
		)
	}

	if cfg.AppPort == "" {
		log.Fatal("APP_PORT must be set")
	}

	return cfg
}

// BuildDatabaseURL assembles a postgres:// URL from its parts.
func BuildDatabaseURL(host, port, user, password, name, sslmode string) string {
	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%s", host, port),
		Path:   "/" + name,
	}
	if password != "" {
		u.User = url.UserPassword(user, password)
	} else {
		u.User = url.User(user)
	}
	if sslmode != "" {
		u.RawQuery = url.Values{"sslmode": []string{sslmode}}.Encode()
	}
	return u.String()
}

// BodyLimit returns the maximum request body size in bytes.
func (c *Config) BodyLimit() int {
	return c.MaxUploadMB * 1024 * 1024
}

// StorageConfigured reports whether an object-store bucket is set.
func (c *Config) StorageConfigured() bool {
	return strings.TrimSpace(c.BucketName) != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}
