package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all process configuration, loaded from the environment.
type Config struct {
	Addr       string
	DBPath     string
	JWTSecret  string
	TokenTTL   time.Duration
	UploadDir  string
	BcryptCost int
	Dev        bool
}

// Load reads configuration from the environment. It returns an error
// for missing or out-of-range values rather than falling back silently.
func Load() (Config, error) {
	cfg := Config{
		Addr:       ":" + envString("PORT", "8080"),
		DBPath:     envString("DATABASE_PATH", "inkwell.db"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		TokenTTL:   envDuration("TOKEN_TTL", 30*24*time.Hour),
		UploadDir:  envString("UPLOAD_DIR", "uploads"),
		BcryptCost: envInt("BCRYPT_COST", 12),
		Dev:        envString("ENV", "production") == "development",
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET environment variable is required")
	}
	if len(cfg.JWTSecret) < 32 {
		return Config{}, fmt.Errorf("JWT_SECRET must be at least 32 characters for HMAC-SHA256 security")
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 14 {
		return Config{}, fmt.Errorf("BCRYPT_COST must be between 4 and 14, got %d", cfg.BcryptCost)
	}
	if cfg.TokenTTL <= 0 {
		return Config{}, fmt.Errorf("TOKEN_TTL must be positive, got %s", cfg.TokenTTL)
	}

	return cfg, nil
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
