// Package youtube is the read-only adapter over the YouTube Data API v3.
// It issues one request per call, never retries, and reports every
// failure as a *models.Error.
package youtube

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"

	"github.com/yt-insights/channel-stats/internal/models"
	"github.com/yt-insights/channel-stats/internal/normalize"
)

// MaxPageSize is the largest maxResults / id batch the API accepts
const MaxPageSize = 50

var (
	channelParts  = []string{"snippet", "statistics", "contentDetails"}
	playlistParts = []string{"snippet", "contentDetails"}
	videoParts    = []string{"snippet", "statistics"}
)

// Client handles YouTube API interactions for a single API key
type Client struct {
	service *ytapi.Service
}

// NewClient creates a client for apiKey. Extra options are appended after
// the key, e.g. option.WithEndpoint to point at a different host.
func NewClient(ctx context.Context, apiKey string, opts ...option.ClientOption) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, models.NewError(models.ErrAuth, models.StageRequest, "", fmt.Errorf("YouTube API key is required"))
	}

	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	service, err := ytapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	return &Client{service: service}, nil
}

// FetchChannelSummary looks up a channel by ID. The summary is only
// returned when every part of it, including the uploads listing, is known.
func (c *Client) FetchChannelSummary(ctx context.Context, channelID string) (*models.ChannelSummary, error) {
	response, err := c.service.Channels.List(channelParts).
		Id(channelID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, classify(err, models.StageChannel, channelID)
	}

	if len(response.Items) == 0 || response.Items[0] == nil {
		return nil, models.NewError(models.ErrNotFound, models.StageChannel, channelID, fmt.Errorf("channel not found"))
	}

	summary := normalize.Channel(response.Items[0])
	if summary.UploadsPlaylistID == "" {
		return nil, models.NewError(models.ErrNotFound, models.StageChannel, channelID, fmt.Errorf("uploads playlist ID not found"))
	}

	log.Debug().
		Str("channel_id", summary.ID).
		Str("title", summary.Title).
		Int64("subscribers", summary.SubscriberCount).
		Int64("video_count", summary.VideoCount).
		Msg("youtube: channel found")

	return &summary, nil
}

// ListUploadedVideoIDs returns a pager over the video IDs of an uploads
// playlist. No request is made until the first call to Next.
func (c *Client) ListUploadedVideoIDs(playlistID string, pageSize, maxTotal int) *Pager {
	return NewPager(func(ctx context.Context, size int, token string) ([]string, string, error) {
		return c.playlistPage(ctx, playlistID, size, token)
	}, pageSize, maxTotal)
}

func (c *Client) playlistPage(ctx context.Context, playlistID string, size int, token string) ([]string, string, error) {
	call := c.service.PlaylistItems.List(playlistParts).
		PlaylistId(playlistID).
		MaxResults(int64(size))
	if token != "" {
		call = call.PageToken(token)
	}

	response, err := call.Context(ctx).Do()
	if err != nil {
		return nil, "", classify(err, models.StageListing, playlistID)
	}

	ids := make([]string, 0, len(response.Items))
	for _, item := range response.Items {
		if id := playlistItemVideoID(item); id != "" {
			ids = append(ids, id)
		}
	}

	return ids, response.NextPageToken, nil
}

func playlistItemVideoID(item *ytapi.PlaylistItem) string {
	if item == nil {
		return ""
	}
	if item.Snippet != nil && item.Snippet.ResourceId != nil && item.Snippet.ResourceId.VideoId != "" {
		return item.Snippet.ResourceId.VideoId
	}
	if item.ContentDetails != nil {
		return item.ContentDetails.VideoId
	}
	return ""
}

// FetchVideoDetails fetches snippet and statistics for up to MaxPageSize
// videos. Chunking larger sets is the caller's job.
func (c *Client) FetchVideoDetails(ctx context.Context, ids []string) ([]*ytapi.Video, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > MaxPageSize {
		return nil, models.NewError(models.ErrValidation, models.StageDetails, "",
			fmt.Errorf("%d video IDs requested, at most %d per call", len(ids), MaxPageSize))
	}

	response, err := c.service.Videos.List(videoParts).
		Id(ids...).
		Context(ctx).
		Do()
	if err != nil {
		return nil, classify(err, models.StageDetails, "")
	}

	return response.Items, nil
}
