// Package locationagent talks to the on-device location agent that exposes
// the operator device's positioning service over local HTTP.
package locationagent

import (
	"context"
	"encoding/json"
	"net/http"

	"tripwatch/config"
	"tripwatch/internal/domain/entity"
	"tripwatch/internal/domain/service"

	"github.com/pkg/errors"
)

// client implements the service.LocationProvider interface. The caller owns
// the timeout through the request context, so no client timeout is set here.
type client struct {
	httpClient *http.Client
	baseURL    string
}

type fixResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	AccuracyM float64 `json:"accuracy_m"`
}

// NewClient is the constructor for client.
func NewClient(cfg *config.Config) service.LocationProvider {
	var baseURL string
	if cfg.LocationAgent != nil {
		baseURL = cfg.LocationAgent.BaseURL
	}

	return &client{
		httpClient: &http.Client{},
		baseURL:    baseURL,
	}
}

// Capture obtains a single position fix from the device agent.
func (c *client) Capture(ctx context.Context) (*entity.Position, error) {
	if c.baseURL == "" {
		return nil, service.ErrCaptureUnavailable
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/fix", nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build capture request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, service.ErrCaptureUnavailable
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusForbidden:
		return nil, service.ErrCapturePermissionDenied
	default:
		return nil, service.ErrCaptureUnavailable
	}

	var fix fixResponse
	if err := json.NewDecoder(resp.Body).Decode(&fix); err != nil {
		return nil, errors.Wrap(err, "failed to decode position fix")
	}

	return &entity.Position{
		Latitude:  fix.Latitude,
		Longitude: fix.Longitude,
		AccuracyM: fix.AccuracyM,
	}, nil
}
