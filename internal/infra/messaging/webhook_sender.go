// Package messaging delivers guardian notifications through the external SMS
// gateway's webhook endpoint.
package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"tripwatch/config"
	"tripwatch/internal/domain/service"

	"github.com/pkg/errors"
)

const defaultTimeout = 10 * time.Second

// webhookSender implements the service.MessageSender interface against an
// HTTP gateway. The gateway owns carrier selection and delivery receipts;
// this client only hands over the rendered message.
type webhookSender struct {
	client     *http.Client
	webhookURL string
}

type sendRequest struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

type sendResponse struct {
	MessageID string `json:"message_id"`
	Error     string `json:"error"`
}

// NewWebhookSender is the constructor for webhookSender.
func NewWebhookSender(cfg *config.Config) service.MessageSender {
	timeout := defaultTimeout
	if cfg.Messaging != nil && cfg.Messaging.Timeout > 0 {
		timeout = cfg.Messaging.Timeout
	}

	var url string
	if cfg.Messaging != nil {
		url = cfg.Messaging.WebhookURL
	}

	return &webhookSender{
		client:     &http.Client{Timeout: timeout},
		webhookURL: url,
	}
}

// Send posts one message to the gateway and returns its message ID.
func (sender *webhookSender) Send(ctx context.Context, destination, body string) (string, error) {
	payload, err := json.Marshal(sendRequest{To: destination, Body: body})
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal send request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sender.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return "", errors.Wrap(err, "failed to build send request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := sender.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "failed to reach messaging gateway")
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return "", errors.Wrap(err, "failed to read gateway response")
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", errors.Errorf("messaging gateway returned status %d: %s", resp.StatusCode, string(raw))
	}

	var result sendResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", errors.Wrap(err, "failed to decode gateway response")
	}
	if result.Error != "" {
		return "", errors.Errorf("messaging gateway rejected message: %s", result.Error)
	}

	return result.MessageID, nil
}
