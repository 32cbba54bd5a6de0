package api

import (
	"time"

	"github.com/lysyi3m/wire-comb/app/database"
	"github.com/lysyi3m/wire-comb/app/feed"
	"github.com/lysyi3m/wire-comb/app/notify"
	"github.com/lysyi3m/wire-comb/app/tasks"
)

type Handler struct {
	recordRepo   database.RecordRepository
	settingsRepo database.SettingsRepository
	counter      *feed.Counter
	badge        *notify.BadgePublisher
	scheduler    tasks.TaskSchedulerInterface
	wireConfig   *feed.Config
}

// RecordResponse is the JSON shape of one wire record.
type RecordResponse struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	TimeLabel  string    `json:"time_label"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	Source     string    `json:"source"`
	Popularity int       `json:"popularity"`
	Flagged    bool      `json:"flagged"`
	Read       bool      `json:"read"`
	RawMarkup  string    `json:"raw_markup,omitempty"`
}

// SettingsRequest carries a settings update; pointers distinguish omitted
// fields from zero values.
type SettingsRequest struct {
	HotThreshold         *int    `json:"hot_threshold"`
	BadgeMode            *string `json:"badge_mode"`
	NotificationsEnabled *bool   `json:"notifications_enabled"`
	RetentionHours       *int    `json:"retention_hours"`
}

type SettingsResponse struct {
	HotThreshold         int    `json:"hot_threshold"`
	BadgeMode            string `json:"badge_mode"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
	RetentionHours       int    `json:"retention_hours"`
}

func toRecordResponse(rec feed.Record) RecordResponse {
	return RecordResponse{
		ID:         rec.ID,
		Timestamp:  rec.Timestamp,
		TimeLabel:  rec.TimeLabel,
		Title:      rec.Title,
		Body:       rec.Body,
		Source:     rec.Source,
		Popularity: rec.Popularity,
		Flagged:    rec.Flagged,
		Read:       rec.Read,
		RawMarkup:  rec.RawMarkup,
	}
}

func toSettingsResponse(s feed.Settings) SettingsResponse {
	return SettingsResponse{
		HotThreshold:         s.HotThreshold,
		BadgeMode:            s.BadgeMode,
		NotificationsEnabled: s.NotificationsEnabled,
		RetentionHours:       s.RetentionHours,
	}
}
