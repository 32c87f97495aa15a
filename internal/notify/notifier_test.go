// notifier_test.go - Tests for the outbound processor webhook
package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWebhookNotifier_Notify(t *testing.T) {
	var received Payload
	var gotContentType string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &received)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL)
	err := n.Notify(context.Background(), Payload{
		FileURL:          "https://store/a.csv",
		County:           "Travis",
		State:            "TX",
		RecordID:         "rec-1",
		CallbackURL:      "http://localhost:8080/api/leadlists/rec-1/callback",
		OriginalFilename: "travis.csv",
		Notes:            "august batch",
	})
	if err != nil {
		t.Fatalf("Notify failed: %v", err)
	}

	if gotContentType != "application/json" {
		t.Errorf("expected application/json, got %s", gotContentType)
	}
	if received.RecordID != "rec-1" || received.County != "Travis" || received.State != "TX" {
		t.Errorf("unexpected payload: %+v", received)
	}
	if received.CallbackURL != "http://localhost:8080/api/leadlists/rec-1/callback" {
		t.Errorf("unexpected callback url: %s", received.CallbackURL)
	}
}

func TestWebhookNotifier_PayloadFieldNames(t *testing.T) {
	var raw map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &raw)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL)
	if err := n.Notify(context.Background(), Payload{
		FileURL:          "https://store/a.csv",
		County:           "Travis",
		State:            "TX",
		RecordID:         "rec-1",
		CallbackURL:      "http://cb",
		OriginalFilename: "travis.csv",
	}); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}

	for _, key := range []string{"file_url", "county", "state", "record_id", "callback_url", "original_filename"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("payload missing key %q; got %v", key, raw)
		}
	}
}

func TestWebhookNotifier_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL)
	if err := n.Notify(context.Background(), Payload{RecordID: "rec-1"}); err == nil {
		t.Error("expected error for non-2xx response")
	}
}

func TestWebhookNotifier_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // closed server refuses connections

	n := NewWebhookNotifier(srv.URL)
	if err := n.Notify(context.Background(), Payload{RecordID: "rec-1"}); err == nil {
		t.Error("expected transport error")
	}
}
