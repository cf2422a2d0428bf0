package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	JWTSecret string
	JWTIssuer string

	// DefaultBaseCurrency seeds lazily-created organization currency configs.
	DefaultBaseCurrency string

	// Resolution cache settings. Backend is "memory" or "redis".
	RateCacheTTL     time.Duration
	RateCacheBackend string
	RedisAddr        string

	// RateLimitSpec is a ulule/limiter formatted rate, e.g. "100-M".
	RateLimitSpec string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "payroll-fx")
	viper.SetDefault("DEFAULT_BASE_CURRENCY", "USD")
	viper.SetDefault("RATE_CACHE_TTL", "5m")
	viper.SetDefault("RATE_CACHE_BACKEND", "memory")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("RATE_LIMIT", "300-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.DefaultBaseCurrency = viper.GetString("DEFAULT_BASE_CURRENCY")

	ttlStr := viper.GetString("RATE_CACHE_TTL")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		ttl = 5 * time.Minute
		log.Printf("Warning: Invalid value for RATE_CACHE_TTL (%q). Defaulting to %s.\n", ttlStr, ttl)
	}
	cfg.RateCacheTTL = ttl

	cfg.RateCacheBackend = viper.GetString("RATE_CACHE_BACKEND")
	switch cfg.RateCacheBackend {
	case "memory", "redis":
	default:
		log.Printf("Warning: Unknown RATE_CACHE_BACKEND (%q). Defaulting to memory.\n", cfg.RateCacheBackend)
		cfg.RateCacheBackend = "memory"
	}
	cfg.RedisAddr = viper.GetString("REDIS_ADDR")

	cfg.RateLimitSpec = viper.GetString("RATE_LIMIT")

	return cfg, nil
}
