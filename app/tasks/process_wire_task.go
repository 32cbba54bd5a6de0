package tasks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/lysyi3m/wire-comb/app/database"
	"github.com/lysyi3m/wire-comb/app/feed"
	"github.com/lysyi3m/wire-comb/app/notify"
)

const (
	fetchAttempts       = 3
	fetchBackoffBase    = time.Second
	fetchBackoffCeiling = 10 * time.Second
)

// ProcessWireTask runs one ingestion cycle: fetch the wire page, extract a
// candidate batch, reconcile it against the stored set, persist the merged
// outcome atomically, then publish counts and notifications. The cycle
// mutex serializes scheduled and manually triggered cycles; the whole
// load-merge-save sequence is a critical section over the stored set.
type ProcessWireTask struct {
	Task
	WireConfig   *feed.Config
	cycleMu      *sync.Mutex
	httpClient   *http.Client
	extractor    *feed.Extractor
	reconciler   *feed.Reconciler
	counter      *feed.Counter
	recordRepo   database.RecordRepository
	settingsRepo database.SettingsRepository
	notifier     notify.Notifier
	badge        *notify.BadgePublisher
	userAgent    string
}

func NewProcessWireTask(wireConfig *feed.Config, cycleMu *sync.Mutex, httpClient *http.Client,
	extractor *feed.Extractor, reconciler *feed.Reconciler, counter *feed.Counter,
	recordRepo database.RecordRepository, settingsRepo database.SettingsRepository,
	notifier notify.Notifier, badge *notify.BadgePublisher, userAgent string) *ProcessWireTask {
	return &ProcessWireTask{
		Task:         NewTask(TaskTypeProcessWire, wireConfig.Name),
		WireConfig:   wireConfig,
		cycleMu:      cycleMu,
		httpClient:   httpClient,
		extractor:    extractor,
		reconciler:   reconciler,
		counter:      counter,
		recordRepo:   recordRepo,
		settingsRepo: settingsRepo,
		notifier:     notifier,
		badge:        badge,
		userAgent:    userAgent,
	}
}

func (t *ProcessWireTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.WireConfig.Settings.Enabled {
		slog.Debug("Wire disabled, skipping", "wire", t.WireName)
		return nil
	}

	t.cycleMu.Lock()
	defer t.cycleMu.Unlock()

	data, err := t.fetchWire(ctx, t.WireConfig.URL)
	if err != nil {
		return fmt.Errorf("failed to fetch wire page: %w", err)
	}

	now := time.Now()
	batch := t.extractor.Run(string(data), now)
	if len(batch) == 0 {
		slog.Warn("No records extracted from wire page, skipping cycle", "wire", t.WireName, "bytes", len(data))
		return nil
	}

	existing, err := t.recordRepo.GetAllRecords()
	if err != nil {
		return fmt.Errorf("failed to load stored records: %w", err)
	}

	settings, err := t.settingsRepo.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	result := t.reconciler.Run(existing, batch, now)

	if err := t.recordRepo.ApplyMerge(result.Records, result.RemovedIDs, now); err != nil {
		return fmt.Errorf("failed to persist merged records: %w", err)
	}

	cutoff := now.Add(-time.Duration(settings.RetentionHours) * time.Hour)
	counts := t.counter.Run(result.Records, cutoff, settings.HotThreshold)
	t.badge.Publish(counts, settings.BadgeMode, &now)

	t.sendNotifications(result.Changed, settings)

	slog.Info("Task completed",
		"type", "ProcessWire",
		"wire", t.WireName,
		"duration", t.GetDuration(),
		"extracted", len(batch),
		"inserted", result.Inserted,
		"updated", result.Updated,
		"collisions", result.Collisions,
		"total", counts.Total,
		"unread", counts.Unread)

	return nil
}

// fetchWire downloads the wire page, retrying transient failures with a
// doubling backoff capped at the ceiling. Any non-2xx status is treated the
// same as a transport failure.
func (t *ProcessWireTask) fetchWire(ctx context.Context, url string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt < fetchAttempts; attempt++ {
		if attempt > 0 {
			delay := fetchBackoffBase << uint(attempt-1)
			if delay > fetchBackoffCeiling {
				delay = fetchBackoffCeiling
			}
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		data, err := t.fetchOnce(ctx, url)
		if err == nil {
			return data, nil
		}
		lastErr = err
		slog.Warn("Wire fetch attempt failed", "wire", t.WireName, "attempt", attempt+1, "error", err)
	}

	return nil, lastErr
}

func (t *ProcessWireTask) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, time.Duration(t.WireConfig.Settings.Timeout)*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", t.userAgent)
	if t.WireConfig.Referer != "" {
		req.Header.Set("Referer", t.WireConfig.Referer)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch wire page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

func (t *ProcessWireTask) sendNotifications(changed []feed.Record, settings feed.Settings) {
	if !settings.NotificationsEnabled {
		return
	}

	for _, rec := range changed {
		if rec.Flagged || rec.Popularity >= settings.HotThreshold {
			t.notifier.Notify(rec)
		}
	}
}
