package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultWebhookTimeout bounds a webhook request.
const DefaultWebhookTimeout = 10 * time.Second

// errEmptyWebhookURL is returned when no URL is configured.
var errEmptyWebhookURL = errors.New("webhook url is empty")

// WebhookNotifier posts the pre-warning as JSON.
type WebhookNotifier struct {
	// url is the endpoint receiving the POST.
	url string
	// client performs the request.
	client *http.Client
}

// webhookPayload is the request body.
type webhookPayload struct {
	// MsgType is always "text".
	MsgType string `json:"msgtype"`
	// Text carries the message.
	Text webhookText `json:"text"`
}

// webhookText is the text part of the payload.
type webhookText struct {
	// Content is the pre-warning message.
	Content string `json:"content"`
}

// NewWebhookNotifier creates a webhook notifier.
func NewWebhookNotifier(url string, timeout time.Duration) *WebhookNotifier {
	if timeout <= 0 {
		timeout = DefaultWebhookTimeout
	}

	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Notify posts the message and expects a 2xx response.
func (n *WebhookNotifier) Notify(ctx context.Context, message string) error {
	if n.url == "" {
		return errEmptyWebhookURL
	}

	body, err := json.Marshal(webhookPayload{
		MsgType: "text",
		Text:    webhookText{Content: message},
	})
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send webhook: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("send webhook: unexpected status %s", resp.Status)
	}

	return nil
}
