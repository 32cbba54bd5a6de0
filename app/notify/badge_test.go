package notify

import (
	"testing"
	"time"

	"github.com/lysyi3m/wire-comb/app/feed"
)

func TestBadgePublisher_PublishAndGet(t *testing.T) {
	publisher := NewBadgePublisher()

	initial := publisher.Get()
	if !initial.UpdatedAt.IsZero() {
		t.Errorf("Expected zero state before first publish")
	}

	counts := feed.Counts{Total: 10, Unread: 3, Important: 2, Hot: 1}
	cycleAt := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	publisher.Publish(counts, feed.BadgeModeUnread, &cycleAt)

	state := publisher.Get()
	if state.Counts != counts {
		t.Errorf("Expected counts %+v, got %+v", counts, state.Counts)
	}
	if state.Badge != 3 {
		t.Errorf("Expected badge 3 for unread mode, got %d", state.Badge)
	}
	if state.BadgeMode != feed.BadgeModeUnread {
		t.Errorf("Expected badge mode unread, got %q", state.BadgeMode)
	}
	if state.LastCycleAt == nil || !state.LastCycleAt.Equal(cycleAt) {
		t.Errorf("Expected last cycle timestamp to be carried, got %v", state.LastCycleAt)
	}
	if state.UpdatedAt.IsZero() {
		t.Errorf("Expected updated timestamp to be set")
	}

	// A later publish with a different mode replaces the whole state.
	publisher.Publish(counts, feed.BadgeModeImportant, nil)
	state = publisher.Get()
	if state.Badge != 2 {
		t.Errorf("Expected badge 2 for important mode, got %d", state.Badge)
	}
	if state.LastCycleAt != nil {
		t.Errorf("Expected nil last cycle after republish, got %v", state.LastCycleAt)
	}
}
