package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yt-insights/channel-stats/internal/models"
)

func ts(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestWriteCSV(t *testing.T) {
	a := assert.New(t)

	var buf bytes.Buffer
	err := WriteCSV(&buf, models.VideoTable{
		{ID: "a", Title: "Hello, world", PublishedAt: ts("2024-01-15T10:00:00Z"), Views: 10, Likes: 2, Comments: 1},
		{ID: "b", Title: `Say "hi"`, Views: 3},
	})
	a.NoError(err)
	a.Equal(strings.Join([]string{
		"title,publishedAt,views,likes,comments",
		`"Hello, world",2024-01-15,10,2,1`,
		`"Say ""hi""",,3,0,0`,
		"",
	}, "\n"), buf.String())
}

func TestRoundTrip(t *testing.T) {
	a := assert.New(t)

	in := models.VideoTable{
		{ID: "a", Title: "First", PublishedAt: ts("2023-06-01T12:30:00Z"), Views: 1000, Likes: 50, Comments: 7},
		{ID: "b", Title: "Second, with comma", PublishedAt: ts("2023-07-04T00:00:00Z"), Views: 0, Likes: 0, Comments: 0},
		{ID: "c", Title: "Multi\nline", PublishedAt: ts("2024-02-29T23:59:59Z"), Views: 12, Likes: 3, Comments: 1},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, in))

	out, err := ReadCSV(&buf)
	require.NoError(t, err)
	require.Len(t, out, len(in))

	for i := range in {
		a.Equal(in[i].Title, out[i].Title)
		a.Equal(in[i].Views, out[i].Views)
		a.Equal(in[i].Likes, out[i].Likes)
		a.Equal(in[i].Comments, out[i].Comments)
		if a.NotNil(out[i].PublishedAt) {
			a.Equal(in[i].PublishedAt.Format(models.DateLayout), out[i].PublishedAt.Format(models.DateLayout))
		}
	}
}

func TestReadCSVLenient(t *testing.T) {
	a := assert.New(t)

	out, err := ReadCSV(strings.NewReader("title,publishedAt,views,likes,comments\nX,garbage,-1,abc,\n"))
	a.NoError(err)
	if a.Len(out, 1) {
		a.Nil(out[0].PublishedAt)
		a.Equal(int64(0), out[0].Views)
		a.Equal(int64(0), out[0].Likes)
		a.Equal(int64(0), out[0].Comments)
	}
}

func TestReadCSVErrors(t *testing.T) {
	a := assert.New(t)

	out, err := ReadCSV(strings.NewReader(""))
	a.NoError(err)
	a.Empty(out)

	_, err = ReadCSV(strings.NewReader("name,date,views,likes,comments\n"))
	a.Error(err)

	_, err = ReadCSV(strings.NewReader("title,publishedAt,views,likes,comments\nonly,two\n"))
	a.Error(err)
}
