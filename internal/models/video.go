package models

import (
	"fmt"
	"strings"
	"time"
)

// Video represents one uploaded YouTube video after normalization.
// PublishedAt is nil when the API omitted it or sent something unparsable.
type Video struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	PublishedAt *time.Time `json:"publishedAt"`
	Views       int64      `json:"views"`
	Likes       int64      `json:"likes"`
	Comments    int64      `json:"comments"`
}

// Value returns the count stored under the given metric
func (v Video) Value(m Metric) int64 {
	switch m {
	case MetricViews:
		return v.Views
	case MetricLikes:
		return v.Likes
	case MetricComments:
		return v.Comments
	}
	return 0
}

// VideoTable is an ordered collection of videos with unique IDs
type VideoTable []Video

// IDs returns the video IDs in table order
func (t VideoTable) IDs() []string {
	ids := make([]string, 0, len(t))
	for _, v := range t {
		ids = append(ids, v.ID)
	}
	return ids
}

// Metric represents one of the numeric video attributes used for ranking
// and aggregation
type Metric string

const (
	MetricViews    Metric = "views"
	MetricLikes    Metric = "likes"
	MetricComments Metric = "comments"
)

// AllMetrics lists every metric in display order
var AllMetrics = []Metric{MetricViews, MetricLikes, MetricComments}

// ParseMetric converts a query value into a Metric
func ParseMetric(s string) (Metric, error) {
	switch m := Metric(strings.ToLower(strings.TrimSpace(s))); m {
	case MetricViews, MetricLikes, MetricComments:
		return m, nil
	}
	return "", Validationf("unknown metric %q (want views, likes or comments)", s)
}

// ParseMetrics converts a comma separated list into metrics. An empty list
// yields AllMetrics.
func ParseMetrics(s string) ([]Metric, error) {
	if strings.TrimSpace(s) == "" {
		return AllMetrics, nil
	}

	var metrics []Metric
	for _, part := range strings.Split(s, ",") {
		m, err := ParseMetric(part)
		if err != nil {
			return nil, err
		}
		metrics = append(metrics, m)
	}
	return metrics, nil
}

// DateLayout is the calendar date format accepted for ranges and used in exports
const DateLayout = "2006-01-02"

// DateRange is an optional pair of calendar dates. A zero Start or End
// leaves that side of the range open.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// IsZero reports whether no bound is set
func (r DateRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// ParseDateRange parses two optional YYYY-MM-DD dates
func ParseDateRange(start, end string) (DateRange, error) {
	var r DateRange

	if start = strings.TrimSpace(start); start != "" {
		t, err := time.Parse(DateLayout, start)
		if err != nil {
			return DateRange{}, Validationf("invalid start date %q", start)
		}
		r.Start = t
	}

	if end = strings.TrimSpace(end); end != "" {
		t, err := time.Parse(DateLayout, end)
		if err != nil {
			return DateRange{}, Validationf("invalid end date %q", end)
		}
		r.End = t
	}

	if err := r.Validate(); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

// Validate checks that the start date is not after the end date
func (r DateRange) Validate() error {
	if !r.Start.IsZero() && !r.End.IsZero() && r.Start.After(r.End) {
		return Validationf("start date %s is after end date %s",
			r.Start.Format(DateLayout), r.End.Format(DateLayout))
	}
	return nil
}

func (r DateRange) String() string {
	format := func(t time.Time) string {
		if t.IsZero() {
			return "*"
		}
		return t.Format(DateLayout)
	}
	return fmt.Sprintf("%s..%s", format(r.Start), format(r.End))
}
