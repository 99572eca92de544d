package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/yt-insights/channel-stats/internal/analytics"
	"github.com/yt-insights/channel-stats/internal/collector"
	"github.com/yt-insights/channel-stats/internal/export"
	"github.com/yt-insights/channel-stats/internal/models"
)

const (
	defaultTopN = 10
	// warningHeader carries the partial result warning on CSV downloads
	warningHeader = "X-Collection-Warning"
)

// snapshotMeta describes where a response's data came from
type snapshotMeta struct {
	ChannelID string    `json:"channelId"`
	FetchedAt time.Time `json:"fetchedAt"`
	MaxVideos int       `json:"maxVideos"`
	Range     string    `json:"range,omitempty"`
	Partial   bool      `json:"partial,omitempty"`
	Warning   string    `json:"warning,omitempty"`
}

type channelResponse struct {
	snapshotMeta
	Channel   models.ChannelSummary   `json:"channel"`
	Analytics models.ChannelAnalytics `json:"analytics"`
}

type videosResponse struct {
	snapshotMeta
	SortBy string            `json:"sortBy"`
	Count  int               `json:"count"`
	Videos models.VideoTable `json:"videos"`
}

type topResponse struct {
	snapshotMeta
	Metric models.Metric     `json:"metric"`
	N      int               `json:"n"`
	Videos models.VideoTable `json:"videos"`
}

type trendBucket struct {
	Period string                  `json:"period"`
	Year   int                     `json:"year"`
	Month  int                     `json:"month"`
	Videos int                     `json:"videos"`
	Totals map[models.Metric]int64 `json:"totals"`
}

type trendsResponse struct {
	snapshotMeta
	Metrics []models.Metric `json:"metrics"`
	Buckets []trendBucket   `json:"buckets"`
}

func meta(snap *models.Snapshot, r models.DateRange) snapshotMeta {
	m := snapshotMeta{
		ChannelID: snap.Channel.ID,
		FetchedAt: snap.FetchedAt,
		MaxVideos: snap.MaxVideos,
		Partial:   snap.Partial,
		Warning:   snap.Warning,
	}
	if !r.IsZero() {
		m.Range = r.String()
	}
	return m
}

// snapshot collects the channel named by input with the request's key and
// maxVideos. It writes the error response itself and returns nil when
// there is nothing to render. Partial snapshots are returned.
func (s *Server) snapshot(c *gin.Context, input string, refresh bool) *models.Snapshot {
	req, err := s.collectRequest(c, input)
	if err != nil {
		writeError(c, err)
		return nil
	}

	collect := s.collector.Collect
	if refresh {
		collect = s.collector.Refresh
	}

	snap, err := collect(c.Request.Context(), req)
	if err != nil {
		if snap != nil && snap.Partial {
			log.Warn().Err(err).Str("channel", input).Msg("api: serving partial result")
			return snap
		}
		writeError(c, err)
		return nil
	}
	return snap
}

func (s *Server) collectRequest(c *gin.Context, input string) (collector.Request, error) {
	maxVideos := s.opts.MaxVideos
	if v := strings.TrimSpace(c.Query("maxVideos")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return collector.Request{}, models.Validationf("maxVideos must be an integer, got %q", v)
		}
		maxVideos = n
	}

	apiKey := strings.TrimSpace(c.GetHeader(APIKeyHeader))
	if apiKey == "" {
		apiKey = s.opts.APIKey
	}

	return collector.Request{
		APIKey:    apiKey,
		Channel:   input,
		MaxVideos: maxVideos,
	}, nil
}

func dateRange(c *gin.Context) (models.DateRange, error) {
	return models.ParseDateRange(c.Query("start"), c.Query("end"))
}

// parseSort accepts "recency" (publish order) or a metric name
func parseSort(s string) (models.Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "recency", "date":
		return "", nil
	}
	return models.ParseMetric(s)
}

// sorted orders table by metric, or keeps publish order for an empty metric
func sorted(table models.VideoTable, metric models.Metric) models.VideoTable {
	if metric == "" {
		return table
	}
	return analytics.TopN(table, metric, len(table))
}

// getChannelByURL handles requests to get a channel by URL or handle
func (s *Server) getChannelByURL(c *gin.Context) {
	input := strings.TrimSpace(c.Query("url"))
	if input == "" {
		writeError(c, models.Validationf("url query parameter is required"))
		return
	}
	s.renderChannel(c, input, false)
}

// getChannel handles requests to get a channel summary and its KPIs
func (s *Server) getChannel(c *gin.Context) {
	s.renderChannel(c, c.Param("id"), false)
}

// refreshChannel drops the stored snapshot and collects again
func (s *Server) refreshChannel(c *gin.Context) {
	s.renderChannel(c, c.Param("id"), true)
}

func (s *Server) renderChannel(c *gin.Context, input string, refresh bool) {
	r, err := dateRange(c)
	if err != nil {
		writeError(c, err)
		return
	}

	snap := s.snapshot(c, input, refresh)
	if snap == nil {
		return
	}

	c.JSON(http.StatusOK, channelResponse{
		snapshotMeta: meta(snap, r),
		Channel:      snap.Channel,
		Analytics:    analytics.Summarize(snap.Channel, analytics.Filter(snap.Videos, r)),
	})
}

// getChannelVideos handles requests to get channel videos
func (s *Server) getChannelVideos(c *gin.Context) {
	r, err := dateRange(c)
	if err != nil {
		writeError(c, err)
		return
	}
	metric, err := parseSort(c.Query("sortBy"))
	if err != nil {
		writeError(c, err)
		return
	}

	snap := s.snapshot(c, c.Param("id"), false)
	if snap == nil {
		return
	}

	videos := sorted(analytics.Filter(snap.Videos, r), metric)
	sortBy := string(metric)
	if sortBy == "" {
		sortBy = "recency"
	}

	c.JSON(http.StatusOK, videosResponse{
		snapshotMeta: meta(snap, r),
		SortBy:       sortBy,
		Count:        len(videos),
		Videos:       videos,
	})
}

// getTopVideos handles requests for the best performing videos
func (s *Server) getTopVideos(c *gin.Context) {
	r, err := dateRange(c)
	if err != nil {
		writeError(c, err)
		return
	}

	metric := models.MetricViews
	if v := c.Query("metric"); v != "" {
		if metric, err = models.ParseMetric(v); err != nil {
			writeError(c, err)
			return
		}
	}

	n := defaultTopN
	if v := strings.TrimSpace(c.Query("n")); v != "" {
		if n, err = strconv.Atoi(v); err != nil || n < 0 {
			writeError(c, models.Validationf("n must be a non-negative integer, got %q", v))
			return
		}
	}

	snap := s.snapshot(c, c.Param("id"), false)
	if snap == nil {
		return
	}

	c.JSON(http.StatusOK, topResponse{
		snapshotMeta: meta(snap, r),
		Metric:       metric,
		N:            n,
		Videos:       analytics.TopN(analytics.Filter(snap.Videos, r), metric, n),
	})
}

// getChannelTrends handles requests for monthly totals
func (s *Server) getChannelTrends(c *gin.Context) {
	r, err := dateRange(c)
	if err != nil {
		writeError(c, err)
		return
	}
	metrics, err := models.ParseMetrics(c.Query("metrics"))
	if err != nil {
		writeError(c, err)
		return
	}

	snap := s.snapshot(c, c.Param("id"), false)
	if snap == nil {
		return
	}

	months := analytics.ByMonth(analytics.Filter(snap.Videos, r), metrics...)
	buckets := make([]trendBucket, 0, len(months))
	for _, b := range months {
		buckets = append(buckets, trendBucket{
			Period: b.Period(),
			Year:   b.Year,
			Month:  int(b.Month),
			Videos: b.Videos,
			Totals: b.Totals,
		})
	}

	c.JSON(http.StatusOK, trendsResponse{
		snapshotMeta: meta(snap, r),
		Metrics:      metrics,
		Buckets:      buckets,
	})
}

// exportCSV streams the filtered, sorted table as a CSV download
func (s *Server) exportCSV(c *gin.Context) {
	r, err := dateRange(c)
	if err != nil {
		writeError(c, err)
		return
	}
	metric, err := parseSort(c.Query("sortBy"))
	if err != nil {
		writeError(c, err)
		return
	}

	snap := s.snapshot(c, c.Param("id"), false)
	if snap == nil {
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	if snap.Partial {
		c.Header(warningHeader, snap.Warning)
	}
	c.Status(http.StatusOK)

	if err := export.WriteCSV(c.Writer, sorted(analytics.Filter(snap.Videos, r), metric)); err != nil {
		log.Error().Err(err).Str("channel_id", snap.Channel.ID).Msg("api: csv export failed")
	}
}
