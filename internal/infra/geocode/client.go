// Package geocode provides best-effort reverse geocoding for captured
// positions. Failures here never block the scan pipeline.
package geocode

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"tripwatch/config"
	"tripwatch/internal/domain/service"

	"github.com/pkg/errors"
)

const defaultTimeout = 3 * time.Second

// client implements the service.ReverseGeocoder interface over an HTTP
// geocoding endpoint.
type client struct {
	httpClient *http.Client
	baseURL    string
}

type reverseResponse struct {
	DisplayName string `json:"display_name"`
}

// NewClient is the constructor for client.
func NewClient(cfg *config.Config) service.ReverseGeocoder {
	timeout := defaultTimeout
	var baseURL string
	if cfg.Geocoder != nil {
		baseURL = cfg.Geocoder.BaseURL
		if cfg.Geocoder.Timeout > 0 {
			timeout = cfg.Geocoder.Timeout
		}
	}

	return &client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
	}
}

// ReverseGeocode turns coordinates into a human-readable address.
func (c *client) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	if c.baseURL == "" {
		return "", errors.New("geocoder is not configured")
	}

	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(lat, 'f', 6, 64))
	query.Set("lon", strconv.FormatFloat(lng, 'f', 6, 64))
	query.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/reverse?"+query.Encode(), nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to build reverse geocode request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "failed to reach geocoder")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	var result reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", errors.Wrap(err, "failed to decode geocoder response")
	}
	if result.DisplayName == "" {
		return "", errors.New("geocoder returned no address")
	}

	return result.DisplayName, nil
}
