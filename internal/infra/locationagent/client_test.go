package locationagent

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tripwatch/config"
	"tripwatch/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProviderForURL(url string) service.LocationProvider {
	return NewClient(&config.Config{LocationAgent: &config.LocationAgentConfig{BaseURL: url}})
}

func TestClient_Capture(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fix", r.URL.Path)
		_, _ = w.Write([]byte(`{"latitude":-23.55052,"longitude":-46.633308,"accuracy_m":12.5}`))
	}))
	defer server.Close()

	position, err := newProviderForURL(server.URL).Capture(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, -23.55052, position.Latitude, 1e-9)
	assert.InDelta(t, -46.633308, position.Longitude, 1e-9)
	assert.InDelta(t, 12.5, position.AccuracyM, 1e-9)
}

func TestClient_Capture_PermissionDenied(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	_, err := newProviderForURL(server.URL).Capture(context.Background())
	assert.ErrorIs(t, err, service.ErrCapturePermissionDenied)
}

func TestClient_Capture_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := newProviderForURL(server.URL).Capture(ctx)
	assert.ErrorIs(t, err, service.ErrCaptureUnavailable)
}

func TestClient_Capture_Unconfigured(t *testing.T) {
	_, err := NewClient(&config.Config{}).Capture(context.Background())
	assert.ErrorIs(t, err, service.ErrCaptureUnavailable)
}
