// Package youtubetest provides an in-process fake of the YouTube Data API
// endpoints used by the youtube package. It records every call so tests
// can assert on quota usage.
package youtubetest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"
)

// Endpoint names as recorded by Calls
const (
	Channels      = "channels"
	PlaylistItems = "playlistItems"
	Videos        = "videos"
	Search        = "search"
)

// Channel describes a channel served by the fake
type Channel struct {
	ID          string
	Title       string
	Subscribers uint64
	Views       uint64
	VideoCount  uint64
	Uploads     string
}

// Failure makes an endpoint answer with an API error
type Failure struct {
	// After is the number of calls that still succeed before failing
	After  int
	Status int
	Reason string
}

// Server is a fake YouTube API
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	channels  map[string]Channel
	handles   map[string]string
	usernames map[string]string
	playlists map[string][]*ytapi.PlaylistItem
	videos    map[string]*ytapi.Video
	failures  map[string]Failure
	calls     map[string]int

	listingSizes  []int
	detailBatches [][]string
}

// NewServer starts a fake server that is closed when the test ends
func NewServer(t testing.TB) *Server {
	s := &Server{
		channels:  map[string]Channel{},
		handles:   map[string]string{},
		usernames: map[string]string{},
		playlists: map[string][]*ytapi.PlaylistItem{},
		videos:    map[string]*ytapi.Video{},
		failures:  map[string]Failure{},
		calls:     map[string]int{},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serveHTTP))
	t.Cleanup(s.Close)
	return s
}

// ClientOptions points a youtube client at the fake
func (s *Server) ClientOptions() []option.ClientOption {
	return []option.ClientOption{option.WithEndpoint(s.URL + "/")}
}

// AddChannel registers a channel
func (s *Server) AddChannel(c Channel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channels[c.ID] = c
}

// AddHandle makes a search for "@handle" return channelID
func (s *Server) AddHandle(handle, channelID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handles[strings.ToLower(handle)] = channelID
}

// AddUsername makes channels.list forUsername return channelID
func (s *Server) AddUsername(username, channelID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usernames[username] = channelID
}

// AddVideos appends videos to a playlist and registers their details
func (s *Server) AddVideos(playlistID string, videos ...*ytapi.Video) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range videos {
		s.playlists[playlistID] = append(s.playlists[playlistID], PlaylistItem(v.Id))
		s.videos[v.Id] = v
	}
}

// AddPlaylistItems appends raw playlist entries without registering details
func (s *Server) AddPlaylistItems(playlistID string, items ...*ytapi.PlaylistItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playlists[playlistID] = append(s.playlists[playlistID], items...)
}

// Fail makes endpoint fail from its (f.After+1)th call on
func (s *Server) Fail(endpoint string, f Failure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[endpoint] = f
}

// Calls returns how many requests hit endpoint
func (s *Server) Calls(endpoint string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[endpoint]
}

// ListingSizes returns the maxResults of every playlistItems call
func (s *Server) ListingSizes() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.listingSizes...)
}

// DetailBatches returns the requested IDs of every videos call
func (s *Server) DetailBatches() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]string(nil), s.detailBatches...)
}

// PlaylistItem builds a playlist entry pointing at videoID
func PlaylistItem(videoID string) *ytapi.PlaylistItem {
	return &ytapi.PlaylistItem{
		Snippet: &ytapi.PlaylistItemSnippet{
			ResourceId: &ytapi.ResourceId{Kind: "youtube#video", VideoId: videoID},
		},
	}
}

// Video builds a video payload with statistics
func Video(id, title, publishedAt string, views, likes, comments uint64) *ytapi.Video {
	return &ytapi.Video{
		Id:      id,
		Snippet: &ytapi.VideoSnippet{Title: title, PublishedAt: publishedAt},
		Statistics: &ytapi.VideoStatistics{
			ViewCount:    views,
			LikeCount:    likes,
			CommentCount: comments,
		},
	}
}

func (s *Server) serveHTTP(w http.ResponseWriter, r *http.Request) {
	endpoint := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]

	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls[endpoint]++
	if f, ok := s.failures[endpoint]; ok && s.calls[endpoint] > f.After {
		writeError(w, f.Status, f.Reason)
		return
	}

	q := r.URL.Query()
	switch endpoint {
	case Channels:
		s.serveChannels(w, q)
	case PlaylistItems:
		s.servePlaylistItems(w, q)
	case Videos:
		s.serveVideos(w, q)
	case Search:
		s.serveSearch(w, q)
	default:
		writeError(w, http.StatusNotFound, "notFound")
	}
}

func (s *Server) serveChannels(w http.ResponseWriter, q map[string][]string) {
	resp := &ytapi.ChannelListResponse{Items: []*ytapi.Channel{}}

	ids := multi(q, "id")
	if username := first(q, "forUsername"); username != "" {
		if id, ok := s.usernames[username]; ok {
			ids = append(ids, id)
		}
	}

	for _, id := range ids {
		c, ok := s.channels[id]
		if !ok {
			continue
		}
		resp.Items = append(resp.Items, &ytapi.Channel{
			Id:      c.ID,
			Snippet: &ytapi.ChannelSnippet{Title: c.Title},
			Statistics: &ytapi.ChannelStatistics{
				SubscriberCount: c.Subscribers,
				ViewCount:       c.Views,
				VideoCount:      c.VideoCount,
			},
			ContentDetails: &ytapi.ChannelContentDetails{
				RelatedPlaylists: &ytapi.ChannelContentDetailsRelatedPlaylists{Uploads: c.Uploads},
			},
		})
	}
	writeJSON(w, resp)
}

func (s *Server) servePlaylistItems(w http.ResponseWriter, q map[string][]string) {
	items, ok := s.playlists[first(q, "playlistId")]
	if !ok {
		writeError(w, http.StatusNotFound, "playlistNotFound")
		return
	}

	size := 5
	if v := first(q, "maxResults"); v != "" {
		size, _ = strconv.Atoi(v)
	}
	s.listingSizes = append(s.listingSizes, size)

	offset := 0
	if v := first(q, "pageToken"); v != "" {
		offset, _ = strconv.Atoi(strings.TrimPrefix(v, "page-"))
	}
	if offset > len(items) {
		offset = len(items)
	}

	end := offset + size
	if end > len(items) {
		end = len(items)
	}

	resp := &ytapi.PlaylistItemListResponse{Items: items[offset:end]}
	if end < len(items) {
		resp.NextPageToken = fmt.Sprintf("page-%d", end)
	}
	writeJSON(w, resp)
}

func (s *Server) serveVideos(w http.ResponseWriter, q map[string][]string) {
	ids := multi(q, "id")
	s.detailBatches = append(s.detailBatches, ids)

	resp := &ytapi.VideoListResponse{Items: []*ytapi.Video{}}
	for _, id := range ids {
		if v, ok := s.videos[id]; ok {
			resp.Items = append(resp.Items, v)
		}
	}
	writeJSON(w, resp)
}

func (s *Server) serveSearch(w http.ResponseWriter, q map[string][]string) {
	resp := &ytapi.SearchListResponse{Items: []*ytapi.SearchResult{}}

	query := strings.ToLower(strings.TrimPrefix(first(q, "q"), "@"))
	if id, ok := s.handles[query]; ok {
		resp.Items = append(resp.Items, &ytapi.SearchResult{
			Id: &ytapi.ResourceId{Kind: "youtube#channel", ChannelId: id},
		})
	}
	writeJSON(w, resp)
}

// multi collects a repeated or comma separated parameter
func multi(q map[string][]string, key string) []string {
	var out []string
	for _, v := range q[key] {
		for _, part := range strings.Split(v, ",") {
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func first(q map[string][]string, key string) string {
	if v := q[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, reason string) {
	message := reason
	if reason == "keyInvalid" {
		message = "API key not valid. Please pass a valid API key."
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]interface{}{
			"code":    status,
			"message": message,
			"errors": []map[string]string{
				{"domain": "youtube", "reason": reason, "message": message},
			},
		},
	})
}
