package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/yt-insights/channel-stats/internal/models"
)

type errorResponse struct {
	Error  string       `json:"error"`
	Detail string       `json:"detail,omitempty"`
	Stage  models.Stage `json:"stage,omitempty"`
}

// statusFor maps an error kind to the HTTP status reported to clients
func statusFor(err error) int {
	switch models.KindOf(err) {
	case models.ErrValidation:
		return http.StatusBadRequest
	case models.ErrAuth:
		return http.StatusUnauthorized
	case models.ErrQuota:
		return http.StatusTooManyRequests
	case models.ErrNotFound:
		return http.StatusNotFound
	case models.ErrTransport:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func messageFor(err error) string {
	switch models.KindOf(err) {
	case models.ErrValidation:
		return "Invalid request"
	case models.ErrAuth:
		return "YouTube API key is missing or was rejected"
	case models.ErrQuota:
		return "YouTube API quota exceeded, try again later"
	case models.ErrNotFound:
		return "Channel not found"
	case models.ErrTransport:
		return "Could not reach the YouTube API"
	}
	return "Internal server error"
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)

	resp := errorResponse{
		Error: messageFor(err),
		Stage: models.StageOf(err),
	}

	var e *models.Error
	if errors.As(err, &e) && e.Err != nil {
		resp.Detail = e.Err.Error()
	} else if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("api: unexpected error")
	} else {
		resp.Detail = err.Error()
	}

	c.AbortWithStatusJSON(status, resp)
}
