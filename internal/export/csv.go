// Package export writes video tables in the downloadable CSV layout and
// reads them back.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/yt-insights/channel-stats/internal/models"
	"github.com/yt-insights/channel-stats/internal/normalize"
)

// Header lists the exported columns in order
var Header = []string{"title", "publishedAt", "views", "likes", "comments"}

// Filename is the suggested download name
const Filename = "youtube_data.csv"

// WriteCSV writes one row per video in table order. A missing publish
// timestamp is written as an empty cell.
func WriteCSV(w io.Writer, table models.VideoTable) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, v := range table {
		published := ""
		if v.PublishedAt != nil {
			published = v.PublishedAt.UTC().Format(models.DateLayout)
		}

		record := []string{
			v.Title,
			published,
			strconv.FormatInt(v.Views, 10),
			strconv.FormatInt(v.Likes, 10),
			strconv.FormatInt(v.Comments, 10),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row for video %s: %w", v.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a table written by WriteCSV. Video IDs are not part of
// the export, so the returned rows have none. Counts and dates are
// normalized the same way API payloads are.
func ReadCSV(r io.Reader) (models.VideoTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return models.VideoTable{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	for i, name := range Header {
		if strings.TrimSpace(header[i]) != name {
			return nil, fmt.Errorf("unexpected csv column %d: got %q, want %q", i, header[i], name)
		}
	}

	table := models.VideoTable{}
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row: %w", err)
		}

		table = append(table, models.Video{
			Title:       record[0],
			PublishedAt: parseDate(record[1]),
			Views:       normalize.CountString(record[2]),
			Likes:       normalize.CountString(record[3]),
			Comments:    normalize.CountString(record[4]),
		})
	}
	return table, nil
}

func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(models.DateLayout, s); err == nil {
		return &t
	}
	return normalize.PublishedAt(s)
}
