package youtube

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/yt-insights/channel-stats/internal/models"
)

type inputKind int

const (
	kindChannelID inputKind = iota
	kindHandle
	kindUsername
	kindCustomURL
)

// parseChannelInput identifies what the user typed: a bare channel ID, an
// @handle, or one of the youtube.com channel URL forms.
func parseChannelInput(input string) (inputKind, string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, "", models.Validationf("channel identifier is required")
	}

	if strings.HasPrefix(s, "@") {
		return handleOrError(s[1:], input)
	}

	if !looksLikeURL(s) {
		return kindChannelID, s, nil
	}

	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	parsed, err := url.Parse(s)
	if err != nil {
		return 0, "", models.Validationf("invalid URL %q: %v", input, err)
	}

	host := strings.ToLower(parsed.Hostname())
	host = strings.TrimPrefix(host, "www.")
	host = strings.TrimPrefix(host, "m.")

	switch host {
	case "youtube.com":
	case "youtu.be":
		return 0, "", models.Validationf("youtu.be URLs are video URLs, not channel URLs")
	default:
		return 0, "", models.Validationf("unsupported host %q in %q", parsed.Hostname(), input)
	}

	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	switch {
	case strings.HasPrefix(segments[0], "@"):
		return handleOrError(segments[0][1:], input)
	case len(segments) >= 2 && segments[0] == "channel" && segments[1] != "":
		return kindChannelID, segments[1], nil
	case len(segments) >= 2 && segments[0] == "user" && segments[1] != "":
		return kindUsername, segments[1], nil
	case len(segments) >= 2 && segments[0] == "c" && segments[1] != "":
		return kindCustomURL, segments[1], nil
	}

	return 0, "", models.Validationf("unsupported YouTube URL format %q", input)
}

func handleOrError(handle, input string) (inputKind, string, error) {
	if i := strings.IndexAny(handle, "/?#"); i >= 0 {
		handle = handle[:i]
	}
	if handle == "" {
		return 0, "", models.Validationf("empty handle in %q", input)
	}
	return kindHandle, handle, nil
}

func looksLikeURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.Contains(lower, "://") ||
		strings.Contains(lower, "youtube.com") ||
		strings.Contains(lower, "youtu.be") ||
		strings.Contains(lower, "/")
}

// ResolveChannelID turns a channel ID, @handle or channel URL into a
// channel ID. IDs and /channel/ URLs are resolved without a request.
func (c *Client) ResolveChannelID(ctx context.Context, input string) (string, error) {
	kind, value, err := parseChannelInput(input)
	if err != nil {
		return "", err
	}

	switch kind {
	case kindHandle:
		return c.searchChannel(ctx, "@"+value)
	case kindUsername:
		return c.channelForUsername(ctx, value)
	case kindCustomURL:
		return c.searchChannel(ctx, value)
	}
	return value, nil
}

func (c *Client) searchChannel(ctx context.Context, query string) (string, error) {
	response, err := c.service.Search.List([]string{"snippet"}).
		Q(query).
		Type("channel").
		MaxResults(1).
		Context(ctx).
		Do()
	if err != nil {
		return "", classify(err, models.StageResolve, query)
	}

	for _, item := range response.Items {
		if item != nil && item.Id != nil && item.Id.ChannelId != "" {
			log.Debug().Str("query", query).Str("channel_id", item.Id.ChannelId).Msg("youtube: channel resolved")
			return item.Id.ChannelId, nil
		}
	}

	return "", models.NewError(models.ErrNotFound, models.StageResolve, query, fmt.Errorf("no channel found for %s", query))
}

func (c *Client) channelForUsername(ctx context.Context, username string) (string, error) {
	response, err := c.service.Channels.List([]string{"id"}).
		ForUsername(username).
		Context(ctx).
		Do()
	if err != nil {
		return "", classify(err, models.StageResolve, username)
	}

	if len(response.Items) == 0 || response.Items[0] == nil || response.Items[0].Id == "" {
		return "", models.NewError(models.ErrNotFound, models.StageResolve, username, fmt.Errorf("no channel found for user %s", username))
	}

	return response.Items[0].Id, nil
}
