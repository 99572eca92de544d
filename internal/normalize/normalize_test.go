package normalize

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	ytapi "google.golang.org/api/youtube/v3"
)

func TestCountString(t *testing.T) {
	for _, tc := range []struct {
		in  string
		out int64
	}{
		{"42", 42},
		{" 7 ", 7},
		{"0", 0},
		{"", 0},
		{"-5", 0},
		{"1.5", 0},
		{"abc", 0},
		{"99999999999999999999999", 0},
	} {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.out, CountString(tc.in))
		})
	}
}

func TestCount(t *testing.T) {
	a := assert.New(t)

	a.Equal(int64(0), Count(0))
	a.Equal(int64(123), Count(123))
	a.Equal(int64(math.MaxInt64), Count(math.MaxUint64))
}

func TestPublishedAt(t *testing.T) {
	a := assert.New(t)

	ts := PublishedAt("2023-05-06T07:08:09Z")
	if a.NotNil(ts) {
		a.Equal(time.Date(2023, 5, 6, 7, 8, 9, 0, time.UTC), *ts)
	}

	ts = PublishedAt("2023-05-06T07:08:09+02:00")
	if a.NotNil(ts) {
		a.Equal(time.UTC, ts.Location())
		a.Equal(5, ts.Hour())
	}

	a.Nil(PublishedAt(""))
	a.Nil(PublishedAt("yesterday"))
	a.Nil(PublishedAt("2023-05-06"))
}

func TestVideoDefaults(t *testing.T) {
	a := assert.New(t)

	for name, in := range map[string]*ytapi.Video{
		"no statistics": {Id: "a", Snippet: &ytapi.VideoSnippet{Title: "A"}},
		"empty statistics": {Id: "a", Snippet: &ytapi.VideoSnippet{Title: "A"},
			Statistics: &ytapi.VideoStatistics{}},
		"bad timestamp": {Id: "a", Snippet: &ytapi.VideoSnippet{Title: "A", PublishedAt: "not a date"}},
	} {
		v, ok := Video(in)
		a.True(ok, name)
		a.Equal("a", v.ID, name)
		a.Equal("A", v.Title, name)
		a.Nil(v.PublishedAt, name)
		a.Equal(int64(0), v.Views, name)
		a.Equal(int64(0), v.Likes, name)
		a.Equal(int64(0), v.Comments, name)
	}
}

func TestVideoFull(t *testing.T) {
	a := assert.New(t)

	v, ok := Video(&ytapi.Video{
		Id:         "x",
		Snippet:    &ytapi.VideoSnippet{Title: "X", PublishedAt: "2024-02-29T23:59:59Z"},
		Statistics: &ytapi.VideoStatistics{ViewCount: 100, LikeCount: 10, CommentCount: 1},
	})
	a.True(ok)
	a.Equal(int64(100), v.Views)
	a.Equal(int64(10), v.Likes)
	a.Equal(int64(1), v.Comments)
	if a.NotNil(v.PublishedAt) {
		a.Equal(time.February, v.PublishedAt.Month())
	}
}

func TestVideosDropsMissingIDs(t *testing.T) {
	a := assert.New(t)

	out := Videos([]*ytapi.Video{
		{Id: "a"},
		nil,
		{Id: ""},
		{Id: "  "},
		{Id: "b"},
	})
	a.Len(out, 2)
	a.Equal("a", out[0].ID)
	a.Equal("b", out[1].ID)
}

func TestChannel(t *testing.T) {
	a := assert.New(t)

	s := Channel(&ytapi.Channel{
		Id:         "UC1",
		Snippet:    &ytapi.ChannelSnippet{Title: "Chan"},
		Statistics: &ytapi.ChannelStatistics{SubscriberCount: 5, ViewCount: 50, VideoCount: 3},
		ContentDetails: &ytapi.ChannelContentDetails{
			RelatedPlaylists: &ytapi.ChannelContentDetailsRelatedPlaylists{Uploads: "UU1"},
		},
	})
	a.Equal("UC1", s.ID)
	a.Equal("Chan", s.Title)
	a.Equal(int64(5), s.SubscriberCount)
	a.Equal(int64(50), s.ViewCount)
	a.Equal(int64(3), s.VideoCount)
	a.Equal("UU1", s.UploadsPlaylistID)

	bare := Channel(&ytapi.Channel{Id: "UC2"})
	a.Equal(int64(0), bare.SubscriberCount)
	a.Empty(bare.UploadsPlaylistID)
}
