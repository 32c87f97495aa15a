// Package notify sends the outbound webhook that hands an uploaded
// lead list to the external workflow processor.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Payload is the JSON body sent to the external processor.
type Payload struct {
	FileURL          string `json:"file_url"`
	County           string `json:"county"`
	State            string `json:"state"`
	RecordID         string `json:"record_id"`
	CallbackURL      string `json:"callback_url"`
	OriginalFilename string `json:"original_filename,omitempty"`
	Notes            string `json:"notes,omitempty"`
}

// Notifier delivers a processing request to the external processor.
type Notifier interface {
	Notify(ctx context.Context, p Payload) error
}

// WebhookNotifier implements Notifier over HTTP POST.
type WebhookNotifier struct {
	endpoint string
	client   *http.Client
}

// NewWebhookNotifier creates a notifier targeting the given webhook
// endpoint.
func NewWebhookNotifier(endpoint string) *WebhookNotifier {
	return &WebhookNotifier{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Notify posts the payload and treats any non-2xx response as a
// failure. Callers decide whether the failure is surfaced; the submit
// flow only logs it.
func (n *WebhookNotifier) Notify(ctx context.Context, p Payload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding notification payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting notification: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notification rejected: %s", resp.Status)
	}
	return nil
}
