package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort string

	// Database settings. DatabaseType selects the dialect: sqlite
	// (default), postgres or mysql. SQLite uses DatabasePath, the
	// others use DatabaseURL.
	DatabaseType   string
	DatabasePath   string
	DatabaseURL    string
	MigrationsPath string

	// Auth settings
	JWTSecret     string
	TokenDuration time.Duration

	GoogleOAuthClientID     string
	GoogleOAuthClientSecret string
	OAuthRedirectBaseURL    string

	// Email settings. Email sending is disabled when EmailFrom is empty.
	EmailFrom  string
	AWSRegion  string
	EmailDebug bool

	// Game settings
	LeaderboardLimit   int
	SessionIdleTimeout time.Duration
}

// Load reads configuration from environment variables with sensible
// defaults. A .env file in the working directory is loaded first when
// present.
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env file")
	}

	return &Config{
		ServerPort:     getEnv("PORT", "8080"),
		DatabaseType:   getEnv("DATABASE_TYPE", "sqlite"),
		DatabasePath:   getEnv("DB_PATH", "./memorymaster.db"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),

		JWTSecret:     getEnv("JWT_SECRET", "dev_secret_key"),
		TokenDuration: time.Duration(getEnvInt("TOKEN_DURATION_HOURS", 24)) * time.Hour,

		GoogleOAuthClientID:     getEnv("GOOGLE_OAUTH_CLIENT_ID", ""),
		GoogleOAuthClientSecret: getEnv("GOOGLE_OAUTH_CLIENT_SECRET", ""),
		OAuthRedirectBaseURL:    getEnv("OAUTH_REDIRECT_BASE_URL", "http://localhost:8080"),

		EmailFrom:  getEnv("EMAIL_FROM", ""),
		AWSRegion:  getEnv("AWS_REGION", "us-east-1"),
		EmailDebug: getEnvBool("EMAIL_DEBUG", false),

		LeaderboardLimit:   getEnvInt("LEADERBOARD_LIMIT", 10),
		SessionIdleTimeout: time.Duration(getEnvInt("SESSION_IDLE_TIMEOUT_MINUTES", 30)) * time.Minute,
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
		log.Printf("Invalid value for %s: %q, using default %d", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvBool reads a boolean environment variable or returns a default value
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
		log.Printf("Invalid value for %s: %q, using default %t", key, value, defaultValue)
	}
	return defaultValue
}
