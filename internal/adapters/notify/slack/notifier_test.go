package slack

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestPublishReport(t *testing.T) {
	var got webhookPayload

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	n := NewNotifier(ts.URL, 2*time.Second)
	if !n.IsConfigured() {
		t.Fatalf("expected notifier configured")
	}

	if err := n.PublishReport(context.Background(), "hola refugio"); err != nil {
		t.Fatalf("PublishReport: %v", err)
	}
	if got.Text != "hola refugio" {
		t.Fatalf("unexpected payload text: %q", got.Text)
	}
}

func TestPublishReport_Non2xx(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no_service", http.StatusGone)
	}))
	defer ts.Close()

	n := NewNotifier(ts.URL, 2*time.Second)
	if err := n.PublishReport(context.Background(), "x"); err == nil {
		t.Fatalf("expected error on non-2xx")
	}
}

func TestPublishReport_NotConfigured(t *testing.T) {
	n := NewNotifier("", 0)
	if err := n.PublishReport(context.Background(), "x"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
