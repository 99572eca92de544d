package models

import (
	"fmt"
	"time"
)

// ChannelAnalytics represents engagement analytics for a channel, derived
// from a video table
type ChannelAnalytics struct {
	ChannelID          string    `json:"channelId"`
	ChannelTitle       string    `json:"channelTitle"`
	SubscriberCount    int64     `json:"subscriberCount"`
	ViewCount          int64     `json:"viewCount"`
	VideoCount         int64     `json:"videoCount"`
	TotalVideos        int       `json:"totalVideos"`
	TotalViews         int64     `json:"totalViews"`
	TotalLikes         int64     `json:"totalLikes"`
	TotalComments      int64     `json:"totalComments"`
	AverageViews       float64   `json:"averageViews"`
	LikeToViewRatio    float64   `json:"likeToViewRatio"`
	CommentToViewRatio float64   `json:"commentToViewRatio"`
	TimeRange          TimeRange `json:"timeRange"`
}

// TimeRange represents the publish dates covered by a table
type TimeRange struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// MonthlyBucket sums the metrics of all videos published in one calendar month
type MonthlyBucket struct {
	Year   int              `json:"year"`
	Month  time.Month       `json:"month"`
	Videos int              `json:"videos"`
	Totals map[Metric]int64 `json:"totals"`
}

// Period returns the bucket key formatted as YYYY-MM
func (b MonthlyBucket) Period() string {
	return fmt.Sprintf("%04d-%02d", b.Year, int(b.Month))
}
