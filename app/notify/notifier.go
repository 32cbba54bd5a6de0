package notify

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/lysyi3m/wire-comb/app/feed"
)

// Notifier receives records worth surfacing to the user: flagged stories and
// stories whose popularity crossed the hot threshold. Delivery order across
// records is not guaranteed.
type Notifier interface {
	Notify(record feed.Record)
}

// LogNotifier surfaces notifications through the structured log. It is the
// default sink when no webhook is configured.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Notify(record feed.Record) {
	slog.Info("Wire notification",
		"id", record.ID,
		"title", record.Title,
		"flagged", record.Flagged,
		"popularity", record.Popularity,
		"time_label", record.TimeLabel)
}

// WebhookNotifier POSTs one JSON payload per record to a configured URL.
type WebhookNotifier struct {
	url    string
	client *http.Client
}

func NewWebhookNotifier(url string, client *http.Client) *WebhookNotifier {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &WebhookNotifier{url: url, client: client}
}

type webhookPayload struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	Source     string    `json:"source"`
	TimeLabel  string    `json:"time_label"`
	Timestamp  time.Time `json:"timestamp"`
	Popularity int       `json:"popularity"`
	Flagged    bool      `json:"flagged"`
}

func (n *WebhookNotifier) Notify(record feed.Record) {
	payload := webhookPayload{
		ID:         record.ID,
		Title:      record.Title,
		Body:       record.Body,
		Source:     record.Source,
		TimeLabel:  record.TimeLabel,
		Timestamp:  record.Timestamp,
		Popularity: record.Popularity,
		Flagged:    record.Flagged,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Failed to marshal notification payload", "id", record.ID, "error", err)
		return
	}

	resp, err := n.client.Post(n.url, "application/json", bytes.NewReader(data))
	if err != nil {
		slog.Warn("Failed to deliver notification", "id", record.ID, "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Warn("Notification endpoint returned error", "id", record.ID, "status", resp.StatusCode)
	}
}
