package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the application
type Config struct {
	Port           string
	AllowedOrigins []string
	LogLevel       string
	DatabaseURL    string
	RedisURL       string
	Environment    string

	// Authentication
	JWTSecret        string
	SessionTTL       time.Duration
	AuthReplayWindow time.Duration

	// Chain / token distribution
	SolanaRPCURL       string
	TokenMint          string
	TreasuryWallet     string
	TransferServiceURL string
	TransferTimeout    time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: parseOrigins(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000")),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		RedisURL:       getEnv("REDIS_URL", ""),
		Environment:    getEnv("ENVIRONMENT", "production"),

		JWTSecret:        getEnv("JWT_SECRET", "change-this-secret-key"),
		SessionTTL:       getDurationEnv("SESSION_TTL", 24*time.Hour),
		AuthReplayWindow: getDurationEnv("AUTH_REPLAY_WINDOW", 5*time.Minute),

		SolanaRPCURL:       getEnv("SOLANA_RPC_URL", "https://api.mainnet-beta.solana.com"),
		TokenMint:          getEnv("TOKEN_MINT", "TLGkmTbAUVPyXiCM8e67h9WnDLRiGRo8LAfGvPt6Awz"),
		TreasuryWallet:     getEnv("TREASURY_WALLET", ""),
		TransferServiceURL: getEnv("TRANSFER_SERVICE_URL", ""),
		TransferTimeout:    getDurationEnv("TRANSFER_TIMEOUT", 60*time.Second),
	}, nil
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getDurationEnv gets a duration environment variable with a fallback value
func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

// parseOrigins parses comma-separated origins into a slice
func parseOrigins(origins string) []string {
	if origins == "" {
		return []string{}
	}

	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))

	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
