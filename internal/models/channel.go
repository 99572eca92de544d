package models

// ChannelSummary represents the aggregate statistics of a YouTube channel
// at the time it was fetched
type ChannelSummary struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	SubscriberCount   int64  `json:"subscriberCount"`
	ViewCount         int64  `json:"viewCount"`
	VideoCount        int64  `json:"videoCount"`
	UploadsPlaylistID string `json:"uploadsPlaylistId"`
}
