package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/wire-comb/app/database"
	"github.com/lysyi3m/wire-comb/app/feed"
	"github.com/lysyi3m/wire-comb/app/notify"
)

// PurgeRecordsTask evicts records older than the retention window,
// independent of read state, then republishes fresh counts.
type PurgeRecordsTask struct {
	Task
	counter      *feed.Counter
	recordRepo   database.RecordRepository
	settingsRepo database.SettingsRepository
	badge        *notify.BadgePublisher
}

func NewPurgeRecordsTask(wireName string, counter *feed.Counter, recordRepo database.RecordRepository,
	settingsRepo database.SettingsRepository, badge *notify.BadgePublisher) *PurgeRecordsTask {
	return &PurgeRecordsTask{
		Task:         NewTask(TaskTypePurgeRecords, wireName),
		counter:      counter,
		recordRepo:   recordRepo,
		settingsRepo: settingsRepo,
		badge:        badge,
	}
}

func (t *PurgeRecordsTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	settings, err := t.settingsRepo.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	now := time.Now()
	cutoff := now.Add(-time.Duration(settings.RetentionHours) * time.Hour)

	purged, err := t.recordRepo.PurgeOlderThan(cutoff)
	if err != nil {
		return fmt.Errorf("failed to purge records: %w", err)
	}

	records, err := t.recordRepo.GetAllRecords()
	if err != nil {
		return fmt.Errorf("failed to reload records after purge: %w", err)
	}

	lastCycleAt, err := t.settingsRepo.GetLastCycleAt()
	if err != nil {
		return fmt.Errorf("failed to load wire state: %w", err)
	}

	counts := t.counter.Run(records, cutoff, settings.HotThreshold)
	t.badge.Publish(counts, settings.BadgeMode, lastCycleAt)

	slog.Info("Task completed",
		"type", "PurgeRecords",
		"wire", t.WireName,
		"duration", t.GetDuration(),
		"purged", purged,
		"remaining", len(records))

	return nil
}
