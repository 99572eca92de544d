// Package normalize turns YouTube API payloads into models.Video rows.
// Nothing here returns an error: malformed fields fall back to defaults.
package normalize

import (
	"math"
	"strconv"
	"strings"
	"time"

	ytapi "google.golang.org/api/youtube/v3"

	"github.com/yt-insights/channel-stats/internal/models"
)

// PublishedLayout is the timestamp format the API uses for publishedAt
const PublishedLayout = time.RFC3339

// Count converts an API counter to int64, clamping values that do not fit
func Count(n uint64) int64 {
	if n > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(n)
}

// CountString parses a counter sent as text. Anything that is not a
// non-negative integer becomes 0.
func CountString(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// PublishedAt parses a publishedAt value. Absent or unparsable input
// yields nil.
func PublishedAt(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	t, err := time.Parse(PublishedLayout, s)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}

// Video converts one API video. ok is false when the payload has no ID.
func Video(v *ytapi.Video) (video models.Video, ok bool) {
	if v == nil || strings.TrimSpace(v.Id) == "" {
		return models.Video{}, false
	}

	video.ID = v.Id
	if v.Snippet != nil {
		video.Title = v.Snippet.Title
		video.PublishedAt = PublishedAt(v.Snippet.PublishedAt)
	}
	if v.Statistics != nil {
		video.Views = Count(v.Statistics.ViewCount)
		video.Likes = Count(v.Statistics.LikeCount)
		video.Comments = Count(v.Statistics.CommentCount)
	}

	return video, true
}

// Videos converts a detail batch, dropping payloads without an ID
func Videos(items []*ytapi.Video) []models.Video {
	videos := make([]models.Video, 0, len(items))
	for _, item := range items {
		if v, ok := Video(item); ok {
			videos = append(videos, v)
		}
	}
	return videos
}

// Channel converts a channel payload into a summary. It does not check
// that the uploads playlist is present; callers decide whether that is fatal.
func Channel(c *ytapi.Channel) models.ChannelSummary {
	summary := models.ChannelSummary{ID: c.Id}
	if c.Snippet != nil {
		summary.Title = c.Snippet.Title
	}
	if c.Statistics != nil {
		summary.SubscriberCount = Count(c.Statistics.SubscriberCount)
		summary.ViewCount = Count(c.Statistics.ViewCount)
		summary.VideoCount = Count(c.Statistics.VideoCount)
	}
	if c.ContentDetails != nil && c.ContentDetails.RelatedPlaylists != nil {
		summary.UploadsPlaylistID = c.ContentDetails.RelatedPlaylists.Uploads
	}
	return summary
}
