package notify

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lysyi3m/wire-comb/app/feed"
)

func TestWebhookNotifier_Notify(t *testing.T) {
	var received webhookPayload
	calls := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Expected application/json content type, got %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("Failed to decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	notifier := NewWebhookNotifier(server.URL, server.Client())
	notifier.Notify(feed.Record{
		ID:         "abc123",
		Title:      "【重要】测试消息",
		Body:       "测试正文",
		Source:     "财联社",
		TimeLabel:  "17:24:17",
		Popularity: 15000,
		Flagged:    true,
	})

	if calls != 1 {
		t.Fatalf("Expected 1 delivery, got %d", calls)
	}
	if received.ID != "abc123" {
		t.Errorf("Expected id abc123, got %q", received.ID)
	}
	if received.Title != "【重要】测试消息" {
		t.Errorf("Expected title carried, got %q", received.Title)
	}
	if !received.Flagged {
		t.Errorf("Expected flagged carried")
	}
	if received.Popularity != 15000 {
		t.Errorf("Expected popularity carried, got %d", received.Popularity)
	}
}
