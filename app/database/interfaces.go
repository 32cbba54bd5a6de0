package database

import (
	"time"

	"github.com/lysyi3m/wire-comb/app/feed"
)

// Record filter views exposed through the API.
const (
	FilterAll       = "all"
	FilterUnread    = "unread"
	FilterImportant = "important"
	FilterHot       = "hot"
)

type RecordRepository interface {
	GetAllRecords() ([]feed.Record, error)
	GetRecords(filter string, hotThreshold, limit int) ([]feed.Record, error)
	GetRecordCount() (int, error)

	// ApplyMerge persists the outcome of one reconciliation pass atomically:
	// superseded rows leave, the merged set is upserted, and the
	// last-successful-cycle timestamp is advanced, all in one transaction.
	ApplyMerge(records []feed.Record, removedIDs []string, cycleAt time.Time) error

	MarkRead(id string) (bool, error)
	MarkAllRead() (int64, error)
	PurgeOlderThan(cutoff time.Time) (int64, error)
}

type SettingsRepository interface {
	GetSettings() (feed.Settings, error)
	UpdateSettings(settings feed.Settings) error
	GetLastCycleAt() (*time.Time, error)
}
