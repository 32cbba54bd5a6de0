package notify

import (
	"sync"
	"time"

	"github.com/lysyi3m/wire-comb/app/feed"
)

// BadgeState is the summary a badge/UI consumer reads: the aggregate counts,
// the value the configured badge mode selects, and the last successful
// ingestion cycle.
type BadgeState struct {
	Counts      feed.Counts `json:"counts"`
	Badge       int         `json:"badge"`
	BadgeMode   string      `json:"badge_mode"`
	LastCycleAt *time.Time  `json:"last_cycle_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// BadgePublisher holds the latest badge state. Ingestion cycles and
// read-state mutations push fresh counts here; the API serves the snapshot.
type BadgePublisher struct {
	mu    sync.RWMutex
	state BadgeState
}

func NewBadgePublisher() *BadgePublisher {
	return &BadgePublisher{}
}

func (b *BadgePublisher) Publish(counts feed.Counts, badgeMode string, lastCycleAt *time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.state = BadgeState{
		Counts:      counts,
		Badge:       feed.BadgeValue(counts, badgeMode),
		BadgeMode:   badgeMode,
		LastCycleAt: lastCycleAt,
		UpdatedAt:   time.Now(),
	}
}

func (b *BadgePublisher) Get() BadgeState {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}
