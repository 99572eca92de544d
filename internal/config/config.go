package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

var (
	ErrMissingAPIKey = errors.New("YouTube API key is required")
	ErrInvalidValue  = errors.New("invalid configuration value")
)

// Config holds the application configuration
type Config struct {
	YouTubeAPIKey   string
	YouTubeEndpoint string
	Port            string
	MaxVideos       int
	MaxVideosLimit  int
	CacheTTL        time.Duration
	RedisURL        string
	LogLevel        string
	CORSOrigins     []string
}

var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:3001",
	"http://localhost:3002",
	"https://ytca-frontend.vercel.app",
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		YouTubeAPIKey:   os.Getenv("YOUTUBE_API_KEY"),
		YouTubeEndpoint: os.Getenv("YOUTUBE_ENDPOINT"),
		Port:            getEnv("PORT", "8080"),
		RedisURL:        os.Getenv("REDIS_URL"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		CORSOrigins:     getList("CORS_ORIGINS", defaultOrigins),
	}

	var err error
	if cfg.MaxVideos, err = getInt("MAX_VIDEOS", 50); err != nil {
		return nil, err
	}
	if cfg.MaxVideosLimit, err = getInt("MAX_VIDEOS_LIMIT", 5000); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = getDuration("CACHE_TTL", 6*time.Hour); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if strings.TrimSpace(c.YouTubeAPIKey) == "" {
		return fmt.Errorf("%w: YOUTUBE_API_KEY environment variable is not set", ErrMissingAPIKey)
	}
	if c.MaxVideosLimit <= 0 {
		return fmt.Errorf("%w: MAX_VIDEOS_LIMIT must be positive, got %d", ErrInvalidValue, c.MaxVideosLimit)
	}
	if c.MaxVideos <= 0 || c.MaxVideos > c.MaxVideosLimit {
		return fmt.Errorf("%w: MAX_VIDEOS must be between 1 and %d, got %d", ErrInvalidValue, c.MaxVideosLimit, c.MaxVideos)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("%w: CACHE_TTL must be positive, got %s", ErrInvalidValue, c.CacheTTL)
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("%w: PORT must be a number, got %q", ErrInvalidValue, c.Port)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", ErrInvalidValue, key, v)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a duration, got %q", ErrInvalidValue, key, v)
	}
	return d, nil
}

func getList(key string, fallback []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}

	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
