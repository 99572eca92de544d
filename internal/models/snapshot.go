package models

import (
	"encoding/json"
	"time"
)

// Snapshot is the result of one collection: the channel summary and its
// normalized video table, as fetched at FetchedAt
type Snapshot struct {
	Channel   ChannelSummary `json:"channel"`
	Videos    VideoTable     `json:"videos"`
	MaxVideos int            `json:"maxVideos"`
	FetchedAt time.Time      `json:"fetchedAt"`

	// Partial is set when pagination failed midway; Videos then holds
	// whatever was collected before the failure
	Partial bool   `json:"partial,omitempty"`
	Warning string `json:"warning,omitempty"`
}

// MarshalSnapshot encodes a snapshot for a cache backend
func MarshalSnapshot(s *Snapshot) ([]byte, error) {
	return json.Marshal(s)
}

// UnmarshalSnapshot decodes a snapshot written by MarshalSnapshot
func UnmarshalSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
