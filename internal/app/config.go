package app

import (
	"os"
	"strconv"
	"time"

	"github.com/invertar/invertar/pkg/cryptox"
	"github.com/invertar/invertar/pkg/jwtx"
)

type Config struct {
	SigningSecret  string // Required: HS256 secret for session tokens; process exits if missing
	Issuer         string // Optional: issuer claim for tokens (default: invertar)
	BootstrapToken string // Optional: token required to perform first-run bootstrap

	BcryptCost           int           // Optional: bcrypt cost factor (default: 12)
	AccessTTL            time.Duration // Optional: access token lifetime (default: 15m)
	RefreshTTL           time.Duration // Optional: refresh token lifetime (default: 30 days)
	AccessCodeTTL        time.Duration // Optional: one-time access code lifetime (default: 24h)
	AccessCodeLength     int           // Optional: one-time access code length (default: 12)
	DatabaseFile         string        // Optional: path to SQLite database file (default: ./invertar.db)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		SigningSecret:        os.Getenv("INVERTAR_SIGNING_SECRET"),
		Issuer:               getEnvOrDefault("INVERTAR_ISSUER", "invertar"),
		BootstrapToken:       os.Getenv("BOOTSTRAP_TOKEN"),
		BcryptCost:           getEnvIntOrDefault("INVERTAR_BCRYPT_COST", cryptox.DefaultCost),
		AccessTTL:            getEnvDurationOrDefault("INVERTAR_ACCESS_TTL", jwtx.DefaultAccessTTL),
		RefreshTTL:           getEnvDurationOrDefault("INVERTAR_REFRESH_TTL", jwtx.DefaultRefreshTTL),
		AccessCodeTTL:        getEnvDurationOrDefault("INVERTAR_ACCESS_CODE_TTL", 24*time.Hour),
		AccessCodeLength:     getEnvIntOrDefault("INVERTAR_ACCESS_CODE_LENGTH", cryptox.MinAccessCodeLength),
		DatabaseFile:         getEnvOrDefault("INVERTAR_DATABASE_FILE", "invertar.db"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
