package youtube

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yt-insights/channel-stats/internal/models"
	"github.com/yt-insights/channel-stats/internal/youtube/youtubetest"
)

func TestParseChannelInput(t *testing.T) {
	for _, tc := range []struct {
		in    string
		kind  inputKind
		value string
		err   bool
	}{
		{"UCpNvmbdtY8WAzhdNUDxbT2g", kindChannelID, "UCpNvmbdtY8WAzhdNUDxbT2g", false},
		{"  UCabc  ", kindChannelID, "UCabc", false},
		{"https://www.youtube.com/channel/UCabc", kindChannelID, "UCabc", false},
		{"https://youtube.com/channel/UCabc/videos", kindChannelID, "UCabc", false},
		{"youtube.com/channel/UCabc?view=0", kindChannelID, "UCabc", false},
		{"https://m.youtube.com/channel/UCabc", kindChannelID, "UCabc", false},
		{"@somehandle", kindHandle, "somehandle", false},
		{"https://www.youtube.com/@somehandle", kindHandle, "somehandle", false},
		{"https://www.youtube.com/@somehandle/videos", kindHandle, "somehandle", false},
		{"www.youtube.com/@somehandle?si=x", kindHandle, "somehandle", false},
		{"https://www.youtube.com/user/oldname", kindUsername, "oldname", false},
		{"https://www.youtube.com/c/CustomName", kindCustomURL, "CustomName", false},
		{"", 0, "", true},
		{"@", 0, "", true},
		{"https://youtu.be/dQw4w9WgXcQ", 0, "", true},
		{"https://example.com/channel/UCabc", 0, "", true},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", 0, "", true},
		{"https://www.youtube.com/channel/", 0, "", true},
	} {
		t.Run(tc.in, func(t *testing.T) {
			a := assert.New(t)

			kind, value, err := parseChannelInput(tc.in)
			if tc.err {
				a.ErrorIs(err, models.ErrValidation)
				return
			}
			a.NoError(err)
			a.Equal(tc.kind, kind)
			a.Equal(tc.value, value)
		})
	}
}

func TestResolveChannelIDWithoutRequests(t *testing.T) {
	a := assert.New(t)

	srv := youtubetest.NewServer(t)
	c := newTestClient(t, srv)

	id, err := c.ResolveChannelID(context.Background(), "UCbare")
	a.NoError(err)
	a.Equal("UCbare", id)

	id, err = c.ResolveChannelID(context.Background(), "https://www.youtube.com/channel/UCfromurl")
	a.NoError(err)
	a.Equal("UCfromurl", id)

	a.Equal(0, srv.Calls(youtubetest.Search))
	a.Equal(0, srv.Calls(youtubetest.Channels))
}

func TestResolveChannelIDHandle(t *testing.T) {
	a := assert.New(t)

	srv := youtubetest.NewServer(t)
	srv.AddHandle("SomeHandle", "UChandle")
	c := newTestClient(t, srv)

	id, err := c.ResolveChannelID(context.Background(), "https://www.youtube.com/@SomeHandle")
	a.NoError(err)
	a.Equal("UChandle", id)
	a.Equal(1, srv.Calls(youtubetest.Search))

	_, err = c.ResolveChannelID(context.Background(), "@nobody")
	a.ErrorIs(err, models.ErrNotFound)
	a.Equal(models.StageResolve, models.StageOf(err))
	a.Equal(2, srv.Calls(youtubetest.Search))
}

func TestResolveChannelIDUsername(t *testing.T) {
	a := assert.New(t)

	srv := youtubetest.NewServer(t)
	srv.AddChannel(youtubetest.Channel{ID: "UCuser", Uploads: "UUuser"})
	srv.AddUsername("oldname", "UCuser")
	c := newTestClient(t, srv)

	id, err := c.ResolveChannelID(context.Background(), "https://www.youtube.com/user/oldname")
	a.NoError(err)
	a.Equal("UCuser", id)

	_, err = c.ResolveChannelID(context.Background(), "https://www.youtube.com/user/missing")
	a.ErrorIs(err, models.ErrNotFound)
}

func TestResolveChannelIDQuota(t *testing.T) {
	a := assert.New(t)

	srv := youtubetest.NewServer(t)
	srv.Fail(youtubetest.Search, youtubetest.Failure{Status: 403, Reason: "quotaExceeded"})
	c := newTestClient(t, srv)

	_, err := c.ResolveChannelID(context.Background(), "@anyone")
	a.ErrorIs(err, models.ErrQuota)
}
