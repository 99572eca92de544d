package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yt-insights/channel-stats/internal/collector"
	"github.com/yt-insights/channel-stats/internal/models"
)

// APIKeyHeader lets a caller use their own YouTube API key for a request
const APIKeyHeader = "X-API-Key"

// Collector produces channel snapshots. *collector.Collector implements it.
type Collector interface {
	Collect(ctx context.Context, req collector.Request) (*models.Snapshot, error)
	Refresh(ctx context.Context, req collector.Request) (*models.Snapshot, error)
}

// Options configure the API server
type Options struct {
	// APIKey is used when a request carries no X-API-Key header
	APIKey string
	// MaxVideos is used when a request has no maxVideos parameter
	MaxVideos   int
	CORSOrigins []string
}

// Server represents the API server
type Server struct {
	router    *gin.Engine
	collector Collector
	opts      Options
}

// NewServer creates a new API server
func NewServer(c Collector, opts Options) *Server {
	if opts.MaxVideos <= 0 {
		opts.MaxVideos = 50
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger())
	router.Use(cors.New(corsConfig(opts.CORSOrigins)))

	server := &Server{
		router:    router,
		collector: c,
		opts:      opts,
	}

	// Setup routes
	server.setupRoutes()

	return server
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", "Pragma", APIKeyHeader},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", warningHeader},
		MaxAge:        12 * time.Hour,
	}

	// credentials are only allowed for an explicit origin list
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

// setupRoutes configures all the routes for the server
func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	// Channel endpoints
	s.router.GET("/channel/url", s.getChannelByURL)
	s.router.GET("/channel/:id", s.getChannel)
	s.router.POST("/channel/:id/refresh", s.refreshChannel)

	// Video endpoints
	s.router.GET("/channel/:id/videos", s.getChannelVideos)
	s.router.GET("/channel/:id/top", s.getTopVideos)
	s.router.GET("/channel/:id/export.csv", s.exportCSV)

	// Analytics endpoints
	s.router.GET("/channel/:id/trends", s.getChannelTrends)
}

// Handler exposes the router, for tests and custom listeners
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the server on the specified port
func (s *Server) Start(port string) error {
	return s.router.Run(":" + port)
}
