package feed

import (
	"time"
)

// Wire processing types

// Record is one ingested wire item. ID is a content fingerprint and doubles
// as the storage key; it changes when the upstream edits the text enough to
// shift the hash, in which case the reconciler carries Read/Flagged forward.
type Record struct {
	ID         string
	Timestamp  time.Time
	TimeLabel  string // original wall-clock label as rendered upstream, e.g. "17:24:17"
	Title      string
	Body       string
	Source     string
	Popularity int
	Flagged    bool
	Read       bool
	RawMarkup  string // original body markup, kept only for flagged records

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Settings is the user-tunable state stored alongside the record set.
type Settings struct {
	HotThreshold         int
	BadgeMode            string // total, unread, important, hot
	NotificationsEnabled bool
	RetentionHours       int
}

const (
	BadgeModeTotal     = "total"
	BadgeModeUnread    = "unread"
	BadgeModeImportant = "important"
	BadgeModeHot       = "hot"
)

// Counts is the aggregate summary derived from a record set.
type Counts struct {
	Total     int `json:"total"`
	Unread    int `json:"unread"`
	Important int `json:"important"`
	Hot       int `json:"hot"`
}

// Configuration types

type Config struct {
	Name     string         // Derived from filename (without .yml extension)
	URL      string         `yaml:"url"`
	Source   string         `yaml:"source"` // provenance label stamped on records
	Referer  string         `yaml:"referer"`
	Settings ConfigSettings `yaml:"settings"`
}

type ConfigSettings struct {
	Enabled         bool `yaml:"enabled"`
	RefreshInterval int  `yaml:"refresh_interval"` // seconds
	Timeout         int  `yaml:"timeout"`          // seconds
	MaxItems        int  `yaml:"max_items"`
}
