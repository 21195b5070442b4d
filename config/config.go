package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Dosada05/swiss-tournament/brackets"
)

const defaultDatabaseURL = "dbname=tournament sslmode=disable"

// Config holds every setting the service reads at startup.
type Config struct {
	DatabaseURL      string
	DBConnectTimeout time.Duration
	ServerPort       int
	LogLevel         slog.Level

	OddPlayerPolicy    brackets.OddPolicy
	AvoidRematches     bool
	CORSAllowedOrigins []string

	Archive ArchiveConfig
}

// ArchiveConfig configures the S3-compatible round archive. The archive is
// disabled when BucketName is empty.
type ArchiveConfig struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Endpoint        string
	PublicBaseURL   string
}

func (a ArchiveConfig) Enabled() bool {
	return a.BucketName != ""
}

// Load reads the configuration from environment variables.
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL: getEnvOrDefault("DATABASE_URL", defaultDatabaseURL),
		Archive: ArchiveConfig{
			AccountID:       os.Getenv("R2_ACCOUNT_ID"),
			AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
			BucketName:      os.Getenv("R2_BUCKET_NAME"),
			Endpoint:        os.Getenv("R2_ENDPOINT"),
			PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),
		},
	}

	port, err := strconv.Atoi(getEnvOrDefault("SERVER_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}
	cfg.ServerPort = port

	timeout, err := time.ParseDuration(getEnvOrDefault("DB_CONNECT_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_CONNECT_TIMEOUT environment variable: %w", err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("DB_CONNECT_TIMEOUT must be positive, got %s", timeout)
	}
	cfg.DBConnectTimeout = timeout

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnvOrDefault("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL environment variable: %w", err)
	}

	policy, err := brackets.ParseOddPolicy(getEnvOrDefault("ODD_PLAYER_POLICY", string(brackets.OddPolicyBye)))
	if err != nil {
		return nil, fmt.Errorf("invalid ODD_PLAYER_POLICY environment variable: %w", err)
	}
	cfg.OddPlayerPolicy = policy

	avoid, err := strconv.ParseBool(getEnvOrDefault("AVOID_REMATCHES", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid AVOID_REMATCHES environment variable: %w", err)
	}
	cfg.AvoidRematches = avoid

	cfg.CORSAllowedOrigins = splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*"))

	if cfg.Archive.Enabled() {
		if cfg.Archive.AccessKeyID == "" || cfg.Archive.SecretAccessKey == "" {
			return nil, fmt.Errorf("R2_ACCESS_KEY_ID and R2_SECRET_ACCESS_KEY are required when R2_BUCKET_NAME is set")
		}
		if cfg.Archive.Endpoint == "" && cfg.Archive.AccountID == "" {
			return nil, fmt.Errorf("R2_ENDPOINT or R2_ACCOUNT_ID is required when R2_BUCKET_NAME is set")
		}
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
