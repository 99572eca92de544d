package main

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"

	"github.com/yt-insights/channel-stats/internal/api"
	"github.com/yt-insights/channel-stats/internal/collector"
	"github.com/yt-insights/channel-stats/internal/config"
	"github.com/yt-insights/channel-stats/internal/logger"
)

func main() {
	// Load environment variables from .env file
	envErr := godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Init("info", "channel-stats")
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Init(cfg.LogLevel, "channel-stats")
	if envErr != nil {
		log.Warn().Msg(".env file not found")
	}

	// Snapshot cache
	var cache collector.Cache = collector.NewMemoryCache(cfg.CacheTTL)
	if cfg.RedisURL != "" {
		redisCache, err := collector.NewRedisCache(context.Background(), cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, using in-memory cache")
		} else {
			defer redisCache.Close()
			cache = redisCache
		}
	}

	// YouTube clients are created per request key
	var opts []option.ClientOption
	if cfg.YouTubeEndpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.YouTubeEndpoint))
	}
	c := collector.New(collector.ClientFactory(opts...), cache, collector.Options{
		MaxVideosLimit: cfg.MaxVideosLimit,
	})

	server := api.NewServer(c, api.Options{
		APIKey:      cfg.YouTubeAPIKey,
		MaxVideos:   cfg.MaxVideos,
		CORSOrigins: cfg.CORSOrigins,
	})

	log.Info().
		Str("port", cfg.Port).
		Int("max_videos", cfg.MaxVideos).
		Dur("cache_ttl", cfg.CacheTTL).
		Msg("Server starting")

	if err := server.Start(cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}
