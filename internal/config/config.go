package config

import (
	"fmt"
	"os"
	"time"
)

const (
	DefaultAccessTokenTTL  = time.Hour
	DefaultRefreshTokenTTL = 60 * 24 * time.Hour
)

type Config struct {
	ServerAddr string
	DBURL      string
	JWTSecret  string
	Platform   string
	PolkaKey   string
	RedisAddr  string

	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// Load reads configuration from the environment. DB_URL, JWT_SECRET and
// POLKA_KEY have no sane defaults and must be set.
func Load() (*Config, error) {
	dbURL, err := requireEnv("DB_URL")
	if err != nil {
		return nil, err
	}
	jwtSecret, err := requireEnv("JWT_SECRET")
	if err != nil {
		return nil, err
	}
	polkaKey, err := requireEnv("POLKA_KEY")
	if err != nil {
		return nil, err
	}

	accessTTL, err := durationEnv("ACCESS_TOKEN_TTL", DefaultAccessTokenTTL)
	if err != nil {
		return nil, err
	}
	refreshTTL, err := durationEnv("REFRESH_TOKEN_TTL", DefaultRefreshTokenTTL)
	if err != nil {
		return nil, err
	}

	return &Config{
		ServerAddr:      getEnvOrDefault("SERVER_ADDR", ":8080"),
		DBURL:           dbURL,
		JWTSecret:       jwtSecret,
		Platform:        getEnvOrDefault("PLATFORM", "dev"),
		PolkaKey:        polkaKey,
		RedisAddr:       getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		AccessTokenTTL:  accessTTL,
		RefreshTokenTTL: refreshTTL,
	}, nil
}

func requireEnv(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s is not set", key)
	}
	return value, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func durationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}
