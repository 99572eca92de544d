package youtube

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/yt-insights/channel-stats/internal/models"
	"github.com/yt-insights/channel-stats/internal/youtube/youtubetest"
)

func newTestClient(t *testing.T, srv *youtubetest.Server) *Client {
	t.Helper()

	c, err := NewClient(context.Background(), "test-key", srv.ClientOptions()...)
	require.NoError(t, err)
	return c
}

func seedChannel(srv *youtubetest.Server, n int) {
	srv.AddChannel(youtubetest.Channel{
		ID:          "UCtest",
		Title:       "Test Channel",
		Subscribers: 1200,
		Views:       98765,
		VideoCount:  uint64(n),
		Uploads:     "UUtest",
	})
	for i := 0; i < n; i++ {
		srv.AddVideos("UUtest", youtubetest.Video(
			fmt.Sprintf("vid%03d", i),
			fmt.Sprintf("Video %d", i),
			fmt.Sprintf("2024-01-%02dT12:00:00Z", i%28+1),
			uint64(i*10), uint64(i), uint64(i%3),
		))
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(context.Background(), "  ")
	assert.ErrorIs(t, err, models.ErrAuth)
}

func TestFetchChannelSummary(t *testing.T) {
	a := assert.New(t)

	srv := youtubetest.NewServer(t)
	seedChannel(srv, 3)
	c := newTestClient(t, srv)

	summary, err := c.FetchChannelSummary(context.Background(), "UCtest")
	require.NoError(t, err)
	a.Equal(&models.ChannelSummary{
		ID:                "UCtest",
		Title:             "Test Channel",
		SubscriberCount:   1200,
		ViewCount:         98765,
		VideoCount:        3,
		UploadsPlaylistID: "UUtest",
	}, summary)
}

func TestFetchChannelSummaryNotFound(t *testing.T) {
	a := assert.New(t)

	srv := youtubetest.NewServer(t)
	c := newTestClient(t, srv)

	summary, err := c.FetchChannelSummary(context.Background(), "UCmissing")
	a.Nil(summary)
	a.ErrorIs(err, models.ErrNotFound)
	a.Equal(models.StageChannel, models.StageOf(err))
	a.Contains(err.Error(), "UCmissing")
}

func TestFetchChannelSummaryWithoutUploads(t *testing.T) {
	a := assert.New(t)

	srv := youtubetest.NewServer(t)
	srv.AddChannel(youtubetest.Channel{ID: "UCempty", Title: "No uploads"})
	c := newTestClient(t, srv)

	summary, err := c.FetchChannelSummary(context.Background(), "UCempty")
	a.Nil(summary)
	a.ErrorIs(err, models.ErrNotFound)
}

func TestFetchChannelSummaryErrors(t *testing.T) {
	for _, tc := range []struct {
		name    string
		failure youtubetest.Failure
		kind    error
	}{
		{"invalid key", youtubetest.Failure{Status: http.StatusBadRequest, Reason: "keyInvalid"}, models.ErrAuth},
		{"forbidden", youtubetest.Failure{Status: http.StatusForbidden, Reason: "forbidden"}, models.ErrAuth},
		{"quota", youtubetest.Failure{Status: http.StatusForbidden, Reason: "quotaExceeded"}, models.ErrQuota},
		{"rate limit", youtubetest.Failure{Status: http.StatusTooManyRequests, Reason: "rateLimitExceeded"}, models.ErrQuota},
		{"server error", youtubetest.Failure{Status: http.StatusInternalServerError, Reason: "backendError"}, models.ErrTransport},
	} {
		t.Run(tc.name, func(t *testing.T) {
			a := assert.New(t)

			srv := youtubetest.NewServer(t)
			seedChannel(srv, 1)
			srv.Fail(youtubetest.Channels, tc.failure)
			c := newTestClient(t, srv)

			summary, err := c.FetchChannelSummary(context.Background(), "UCtest")
			a.Nil(summary)
			a.ErrorIs(err, tc.kind)
			a.Equal(models.StageChannel, models.StageOf(err))
		})
	}
}

func TestFetchChannelSummaryTransport(t *testing.T) {
	a := assert.New(t)

	srv := youtubetest.NewServer(t)
	c := newTestClient(t, srv)
	srv.Close()

	_, err := c.FetchChannelSummary(context.Background(), "UCtest")
	a.ErrorIs(err, models.ErrTransport)
}

func TestFetchChannelSummaryCanceled(t *testing.T) {
	a := assert.New(t)

	srv := youtubetest.NewServer(t)
	seedChannel(srv, 1)
	c := newTestClient(t, srv)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.FetchChannelSummary(ctx, "UCtest")
	a.ErrorIs(err, models.ErrTransport)
	a.ErrorIs(err, context.Canceled)
}

func TestListUploadedVideoIDs(t *testing.T) {
	a := assert.New(t)

	srv := youtubetest.NewServer(t)
	seedChannel(srv, 107)
	c := newTestClient(t, srv)

	p := c.ListUploadedVideoIDs("UUtest", MaxPageSize, 200)
	ids, err := drain(t, p)
	a.NoError(err)
	a.Len(ids, 107)
	a.Equal("vid000", ids[0])
	a.Equal("vid106", ids[106])
	a.Equal(3, srv.Calls(youtubetest.PlaylistItems))
	a.Equal([]int{50, 50, 50}, srv.ListingSizes())
}

func TestListUploadedVideoIDsCapped(t *testing.T) {
	a := assert.New(t)

	srv := youtubetest.NewServer(t)
	seedChannel(srv, 107)
	c := newTestClient(t, srv)

	ids, err := drain(t, c.ListUploadedVideoIDs("UUtest", MaxPageSize, 60))
	a.NoError(err)
	a.Len(ids, 60)
	a.Equal([]int{50, 10}, srv.ListingSizes())
}

func TestListUploadedVideoIDsSkipsItemsWithoutIDs(t *testing.T) {
	a := assert.New(t)

	srv := youtubetest.NewServer(t)
	srv.AddPlaylistItems("UUodd",
		youtubetest.PlaylistItem("a"),
		youtubetest.PlaylistItem(""),
		youtubetest.PlaylistItem("b"),
	)
	c := newTestClient(t, srv)

	ids, err := drain(t, c.ListUploadedVideoIDs("UUodd", MaxPageSize, 10))
	a.NoError(err)
	a.Equal([]string{"a", "b"}, ids)
}

func TestListUploadedVideoIDsMissingPlaylist(t *testing.T) {
	a := assert.New(t)

	srv := youtubetest.NewServer(t)
	c := newTestClient(t, srv)

	p := c.ListUploadedVideoIDs("UUnothing", MaxPageSize, 10)
	_, err := p.Next(context.Background())
	a.ErrorIs(err, models.ErrNotFound)
	a.Equal(models.StageListing, models.StageOf(err))
	a.True(p.Done())
}

func TestFetchVideoDetails(t *testing.T) {
	a := assert.New(t)

	srv := youtubetest.NewServer(t)
	seedChannel(srv, 5)
	c := newTestClient(t, srv)

	videos, err := c.FetchVideoDetails(context.Background(), []string{"vid001", "vid003"})
	require.NoError(t, err)
	require.Len(t, videos, 2)
	a.Equal("vid001", videos[0].Id)
	a.Equal("Video 3", videos[1].Snippet.Title)
	a.Equal(uint64(30), videos[1].Statistics.ViewCount)
	a.Equal([][]string{{"vid001", "vid003"}}, srv.DetailBatches())
}

func TestFetchVideoDetailsBatchLimits(t *testing.T) {
	a := assert.New(t)

	srv := youtubetest.NewServer(t)
	c := newTestClient(t, srv)

	videos, err := c.FetchVideoDetails(context.Background(), nil)
	a.NoError(err)
	a.Nil(videos)

	ids := make([]string, MaxPageSize+1)
	for i := range ids {
		ids[i] = fmt.Sprintf("v%d", i)
	}
	_, err = c.FetchVideoDetails(context.Background(), ids)
	a.ErrorIs(err, models.ErrValidation)

	a.Equal(0, srv.Calls(youtubetest.Videos))
}

func TestFetchVideoDetailsQuota(t *testing.T) {
	a := assert.New(t)

	srv := youtubetest.NewServer(t)
	srv.Fail(youtubetest.Videos, youtubetest.Failure{Status: http.StatusForbidden, Reason: "quotaExceeded"})
	c, err := NewClient(context.Background(), "test-key", option.WithEndpoint(srv.URL+"/"))
	require.NoError(t, err)

	_, err = c.FetchVideoDetails(context.Background(), []string{"x"})
	a.ErrorIs(err, models.ErrQuota)
	a.Equal(models.StageDetails, models.StageOf(err))
}
