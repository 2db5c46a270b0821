package server

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// WebhookEvent identifies what happened.
type WebhookEvent string

const (
	// WebhookEventPagePublished fires after a body has been accepted and
	// written to the target file.
	WebhookEventPagePublished WebhookEvent = "page.published"
)

// WebhookPayload is the JSON document delivered to the webhook endpoint.
type WebhookPayload struct {
	Event     WebhookEvent   `json:"event"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data"`
}

// Notifier delivers publish events to a single configured endpoint,
// asynchronously, with bounded retries.
type Notifier struct {
	URL      string
	Secret   string
	RetryMax int
	client   *http.Client
}

// NewNotifierFromEnv builds a notifier from PGT_WEBHOOK_URL and
// PGT_WEBHOOK_SECRET. Returns nil when no URL is configured.
func NewNotifierFromEnv() *Notifier {
	u := os.Getenv("PGT_WEBHOOK_URL")
	if u == "" {
		return nil
	}
	return &Notifier{
		URL:      u,
		Secret:   os.Getenv("PGT_WEBHOOK_SECRET"),
		RetryMax: 3,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Notify sends the event in the background. The caller's request is never
// held up by delivery.
func (n *Notifier) Notify(event WebhookEvent, data map[string]any) {
	payload := WebhookPayload{
		Event:     event,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
	go n.deliver(payload)
}

// deliver attempts delivery with exponential backoff between retries.
func (n *Notifier) deliver(payload WebhookPayload) {
	body, err := json.Marshal(payload)
	if err != nil {
		Error("webhook payload marshal failed", nil, err)
		return
	}

	lastErr := errors.New("no attempts made")
	for attempt := 0; attempt <= n.RetryMax; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(attempt*attempt) * time.Second)
		}
		if lastErr = n.send(body, payload); lastErr == nil {
			GetMetrics().RecordWebhookDelivery(true)
			Info("webhook delivered", map[string]any{
				"url":   n.URL,
				"event": string(payload.Event),
			})
			return
		}
	}

	GetMetrics().RecordWebhookDelivery(false)
	Error("webhook delivery failed", map[string]any{
		"url":   n.URL,
		"event": string(payload.Event),
	}, lastErr)
}

func (n *Notifier) send(body []byte, payload WebhookPayload) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "pagegate-webhook/1.0")
	req.Header.Set("X-Webhook-Event", string(payload.Event))
	req.Header.Set("X-Webhook-Timestamp", payload.Timestamp.Format(time.RFC3339))
	if n.Secret != "" {
		req.Header.Set("X-Webhook-Signature", signWebhook(body, n.Secret))
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook endpoint returned %d", resp.StatusCode)
	}
	return nil
}

// signWebhook returns "sha256=<hex>" where <hex> is the HMAC-SHA256 of the
// payload under the shared webhook secret.
func signWebhook(payload []byte, secret string) string {
	m := hmac.New(sha256.New, []byte(secret))
	_, _ = m.Write(payload)
	return "sha256=" + hex.EncodeToString(m.Sum(nil))
}
