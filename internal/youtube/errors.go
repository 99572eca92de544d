package youtube

import (
	"errors"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"

	"github.com/yt-insights/channel-stats/internal/models"
)

var quotaReasons = map[string]bool{
	"quotaExceeded":         true,
	"dailyLimitExceeded":    true,
	"rateLimitExceeded":     true,
	"userRateLimitExceeded": true,
}

var authReasons = map[string]bool{
	"keyInvalid":          true,
	"keyExpired":          true,
	"forbidden":           true,
	"accessNotConfigured": true,
	"ipRefererBlocked":    true,
	"unauthorized":        true,
}

// classify maps an API call failure onto one of the models.Err* kinds
func classify(err error, stage models.Stage, id string) error {
	if err == nil {
		return nil
	}

	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return models.NewError(models.ErrTransport, stage, id, err)
	}

	for _, item := range apiErr.Errors {
		if quotaReasons[item.Reason] {
			return models.NewError(models.ErrQuota, stage, id, err)
		}
		if authReasons[item.Reason] {
			return models.NewError(models.ErrAuth, stage, id, err)
		}
	}

	// an invalid key comes back as a plain 400 badRequest
	if strings.Contains(strings.ToLower(apiErr.Message), "api key") {
		return models.NewError(models.ErrAuth, stage, id, err)
	}

	switch apiErr.Code {
	case http.StatusTooManyRequests:
		return models.NewError(models.ErrQuota, stage, id, err)
	case http.StatusUnauthorized, http.StatusForbidden:
		return models.NewError(models.ErrAuth, stage, id, err)
	case http.StatusNotFound:
		return models.NewError(models.ErrNotFound, stage, id, err)
	case http.StatusBadRequest:
		return models.NewError(models.ErrValidation, stage, id, err)
	}

	return models.NewError(models.ErrTransport, stage, id, err)
}
