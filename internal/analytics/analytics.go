// Package analytics derives views from a video table: date filtering,
// rankings, monthly trends and channel level KPIs. Every function returns a
// new table or slice and leaves its input untouched.
package analytics

import (
	"sort"
	"time"

	"github.com/yt-insights/channel-stats/internal/models"
)

// SortByPublished orders videos oldest first. Videos without a publish
// timestamp go last, keeping their relative order.
func SortByPublished(table models.VideoTable) models.VideoTable {
	out := clone(table)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].PublishedAt, out[j].PublishedAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		}
		return a.Before(*b)
	})
	return out
}

// Filter keeps the videos published within r. The end date covers its
// whole day. Videos without a timestamp only survive an empty range.
func Filter(table models.VideoTable, r models.DateRange) models.VideoTable {
	if r.IsZero() {
		return clone(table)
	}

	var from, until time.Time
	if !r.Start.IsZero() {
		from = startOfDay(r.Start)
	}
	if !r.End.IsZero() {
		until = startOfDay(r.End).AddDate(0, 0, 1)
	}

	out := make(models.VideoTable, 0, len(table))
	for _, v := range table {
		if v.PublishedAt == nil {
			continue
		}
		ts := v.PublishedAt.UTC()
		if !from.IsZero() && ts.Before(from) {
			continue
		}
		if !until.IsZero() && !ts.Before(until) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// TopN returns at most n videos ranked by metric, highest first. Ties keep
// table order.
func TopN(table models.VideoTable, metric models.Metric, n int) models.VideoTable {
	if n <= 0 {
		return models.VideoTable{}
	}

	out := clone(table)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Value(metric) > out[j].Value(metric)
	})

	if len(out) > n {
		out = out[:n]
	}
	return out
}

// ByMonth sums the requested metrics per UTC calendar month, oldest month
// first. With no metrics given every metric is summed.
func ByMonth(table models.VideoTable, metrics ...models.Metric) []models.MonthlyBucket {
	if len(metrics) == 0 {
		metrics = models.AllMetrics
	}

	type monthKey struct {
		year  int
		month time.Month
	}

	buckets := make(map[monthKey]*models.MonthlyBucket)
	for _, v := range table {
		if v.PublishedAt == nil {
			continue
		}

		ts := v.PublishedAt.UTC()
		key := monthKey{ts.Year(), ts.Month()}
		b, ok := buckets[key]
		if !ok {
			b = &models.MonthlyBucket{
				Year:   key.year,
				Month:  key.month,
				Totals: make(map[models.Metric]int64, len(metrics)),
			}
			for _, m := range metrics {
				b.Totals[m] = 0
			}
			buckets[key] = b
		}

		b.Videos++
		for _, m := range metrics {
			b.Totals[m] += v.Value(m)
		}
	}

	out := make([]models.MonthlyBucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out
}

// Summarize computes channel KPIs over the given table
func Summarize(channel models.ChannelSummary, table models.VideoTable) models.ChannelAnalytics {
	analytics := models.ChannelAnalytics{
		ChannelID:       channel.ID,
		ChannelTitle:    channel.Title,
		SubscriberCount: channel.SubscriberCount,
		ViewCount:       channel.ViewCount,
		VideoCount:      channel.VideoCount,
		TotalVideos:     len(table),
	}

	var first, last *time.Time
	for _, v := range table {
		analytics.TotalViews += v.Views
		analytics.TotalLikes += v.Likes
		analytics.TotalComments += v.Comments

		if v.PublishedAt == nil {
			continue
		}
		if first == nil || v.PublishedAt.Before(*first) {
			first = v.PublishedAt
		}
		if last == nil || v.PublishedAt.After(*last) {
			last = v.PublishedAt
		}
	}

	if len(table) > 0 {
		analytics.AverageViews = float64(analytics.TotalViews) / float64(len(table))
	}
	if analytics.TotalViews > 0 {
		analytics.LikeToViewRatio = float64(analytics.TotalLikes) / float64(analytics.TotalViews)
		analytics.CommentToViewRatio = float64(analytics.TotalComments) / float64(analytics.TotalViews)
	}
	if first != nil {
		analytics.TimeRange = models.TimeRange{
			StartDate: first.UTC().Format(models.DateLayout),
			EndDate:   last.UTC().Format(models.DateLayout),
		}
	}

	return analytics
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func clone(table models.VideoTable) models.VideoTable {
	out := make(models.VideoTable, len(table))
	copy(out, table)
	return out
}
