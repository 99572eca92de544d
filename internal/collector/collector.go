// Package collector turns a channel identifier into a normalized, sorted
// video table by walking the uploads listing page by page and fetching
// details for every page before requesting the next one.
package collector

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"

	"github.com/yt-insights/channel-stats/internal/analytics"
	"github.com/yt-insights/channel-stats/internal/models"
	"github.com/yt-insights/channel-stats/internal/normalize"
	"github.com/yt-insights/channel-stats/internal/youtube"
)

// Source is the remote API as seen by the collector. *youtube.Client
// implements it.
type Source interface {
	ResolveChannelID(ctx context.Context, input string) (string, error)
	FetchChannelSummary(ctx context.Context, channelID string) (*models.ChannelSummary, error)
	ListUploadedVideoIDs(playlistID string, pageSize, maxTotal int) *youtube.Pager
	FetchVideoDetails(ctx context.Context, ids []string) ([]*ytapi.Video, error)
}

// SourceFactory builds a Source for one API key
type SourceFactory func(ctx context.Context, apiKey string) (Source, error)

// ClientFactory returns a SourceFactory creating youtube clients with the
// given extra options
func ClientFactory(opts ...option.ClientOption) SourceFactory {
	return func(ctx context.Context, apiKey string) (Source, error) {
		client, err := youtube.NewClient(ctx, apiKey, opts...)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

// Request describes one collection. APIKey is not part of the result
// identity: two keys asking for the same channel share a snapshot.
type Request struct {
	APIKey    string
	Channel   string
	MaxVideos int
}

func (r Request) key() string {
	return fmt.Sprintf("snapshot:%s:%d", strings.TrimSpace(r.Channel), r.MaxVideos)
}

// Options tune a Collector
type Options struct {
	// MaxVideosLimit bounds Request.MaxVideos. Zero means no bound.
	MaxVideosLimit int
}

// Collector runs collections and memoizes complete results
type Collector struct {
	factory SourceFactory
	cache   Cache
	opts    Options
	now     func() time.Time
}

// New creates a Collector. A nil cache disables memoization.
func New(factory SourceFactory, cache Cache, opts Options) *Collector {
	if cache == nil {
		cache = nopCache{}
	}
	return &Collector{
		factory: factory,
		cache:   cache,
		opts:    opts,
		now:     time.Now,
	}
}

// Collect returns the snapshot for req, from the cache when a complete
// one is stored. When pagination fails midway the partial snapshot is
// returned together with the error and is not cached.
func (c *Collector) Collect(ctx context.Context, req Request) (*models.Snapshot, error) {
	if err := c.validate(req); err != nil {
		return nil, err
	}

	key := req.key()
	cached, err := c.cache.Get(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("collector: cache read failed")
	}
	if cached != nil {
		log.Debug().Str("key", key).Time("fetched_at", cached.FetchedAt).Msg("collector: cache hit")
		return cached, nil
	}

	snap, err := c.run(ctx, req)
	if err != nil {
		return snap, err
	}

	if err := c.cache.Set(ctx, key, snap); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("collector: cache write failed")
	}
	return snap, nil
}

// Refresh drops any stored snapshot for req and collects again
func (c *Collector) Refresh(ctx context.Context, req Request) (*models.Snapshot, error) {
	if err := c.validate(req); err != nil {
		return nil, err
	}

	if err := c.cache.Delete(ctx, req.key()); err != nil {
		log.Warn().Err(err).Str("key", req.key()).Msg("collector: cache invalidation failed")
	}
	return c.Collect(ctx, req)
}

func (c *Collector) validate(req Request) error {
	if strings.TrimSpace(req.Channel) == "" {
		return models.Validationf("channel identifier is required")
	}
	if req.MaxVideos <= 0 {
		return models.Validationf("maxVideos must be positive, got %d", req.MaxVideos)
	}
	if c.opts.MaxVideosLimit > 0 && req.MaxVideos > c.opts.MaxVideosLimit {
		return models.Validationf("maxVideos must be at most %d, got %d", c.opts.MaxVideosLimit, req.MaxVideos)
	}
	return nil
}

func (c *Collector) run(ctx context.Context, req Request) (*models.Snapshot, error) {
	source, err := c.factory(ctx, req.APIKey)
	if err != nil {
		return nil, err
	}

	channelID, err := source.ResolveChannelID(ctx, req.Channel)
	if err != nil {
		return nil, err
	}

	summary, err := source.FetchChannelSummary(ctx, channelID)
	if err != nil {
		return nil, err
	}

	snap := &models.Snapshot{
		Channel:   *summary,
		MaxVideos: req.MaxVideos,
	}

	var (
		table models.VideoTable
		seen  = make(map[string]bool)
		calls int
	)

	pager := source.ListUploadedVideoIDs(summary.UploadsPlaylistID, youtube.MaxPageSize, req.MaxVideos)
	for !pager.Done() {
		ids, err := pager.Next(ctx)
		if err != nil {
			return c.partial(snap, table, withChannel(err, channelID))
		}

		for start := 0; start < len(ids); start += youtube.MaxPageSize {
			batch := ids[start:min(start+youtube.MaxPageSize, len(ids))]

			calls++
			items, err := source.FetchVideoDetails(ctx, batch)
			if err != nil {
				return c.partial(snap, table, withChannel(err, channelID))
			}

			for _, v := range normalize.Videos(items) {
				if seen[v.ID] {
					continue
				}
				seen[v.ID] = true
				table = append(table, v)
			}
		}
	}

	snap.Videos = analytics.SortByPublished(table)
	snap.FetchedAt = c.now().UTC()

	log.Info().
		Str("channel_id", channelID).
		Int("videos", len(snap.Videos)).
		Int("listing_calls", pager.Requests()).
		Int("detail_calls", calls).
		Msg("collector: collection finished")

	return snap, nil
}

func (c *Collector) partial(snap *models.Snapshot, table models.VideoTable, err error) (*models.Snapshot, error) {
	snap.Videos = analytics.SortByPublished(table)
	snap.FetchedAt = c.now().UTC()
	snap.Partial = true
	snap.Warning = fmt.Sprintf("collection stopped after %d videos: %v", len(table), err)

	log.Warn().
		Err(err).
		Str("channel_id", snap.Channel.ID).
		Int("videos", len(table)).
		Msg("collector: returning partial result")

	return snap, err
}

// withChannel records channelID on errors that do not name one yet
func withChannel(err error, channelID string) error {
	var e *models.Error
	if errors.As(err, &e) && e.ChannelID == "" {
		e.ChannelID = channelID
	}
	return err
}
