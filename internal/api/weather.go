package api

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// WeatherClient looks up current conditions by free-text place name.
// The endpoint is unauthenticated and outside the backend boundary.
type WeatherClient struct {
	rc     *resty.Client
	suffix string
}

func NewWeatherClient(baseURL, suffix string, timeout time.Duration) *WeatherClient {
	return &WeatherClient{
		rc:     resty.New().SetBaseURL(baseURL).SetTimeout(timeout),
		suffix: suffix,
	}
}

// Lookup returns condition and temperature as one display string.
func (w *WeatherClient) Lookup(ctx context.Context, place string) (string, error) {
	query := place
	if w.suffix != "" {
		query = place + ", " + w.suffix
	}
	resp, err := w.rc.R().SetContext(ctx).
		Get(fmt.Sprintf("/%s?format=%%C+%%t", url.PathEscape(query)))
	if err := checked(status(resp), body(resp), err); err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.String()), nil
}
