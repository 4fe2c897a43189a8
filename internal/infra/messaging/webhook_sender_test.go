package messaging

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"tripwatch/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSenderForURL(url string) *webhookSender {
	cfg := &config.Config{Messaging: &config.MessagingConfig{WebhookURL: url}}

	return NewWebhookSender(cfg).(*webhookSender)
}

func TestWebhookSender_Send(t *testing.T) {
	var received sendRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(sendResponse{MessageID: "msg-789"})
	}))
	defer server.Close()

	sender := newSenderForURL(server.URL)
	messageID, err := sender.Send(context.Background(), "+5511999990000", "Ana Souza is safe")
	require.NoError(t, err)
	assert.Equal(t, "msg-789", messageID)
	assert.Equal(t, "+5511999990000", received.To)
	assert.Equal(t, "Ana Souza is safe", received.Body)
}

func TestWebhookSender_GatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	sender := newSenderForURL(server.URL)
	_, err := sender.Send(context.Background(), "+5511999990000", "hello")
	assert.ErrorContains(t, err, "status 502")
}

func TestWebhookSender_RejectedMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(sendResponse{Error: "invalid destination"})
	}))
	defer server.Close()

	sender := newSenderForURL(server.URL)
	_, err := sender.Send(context.Background(), "not-a-phone", "hello")
	assert.ErrorContains(t, err, "invalid destination")
}

func TestWebhookSender_Unreachable(t *testing.T) {
	sender := newSenderForURL("http://127.0.0.1:1")

	_, err := sender.Send(context.Background(), "+5511999990000", "hello")
	assert.Error(t, err)
}
