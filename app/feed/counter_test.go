package feed

import (
	"testing"
	"time"
)

func TestCounter_Run(t *testing.T) {
	counter := NewCounter()

	now := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	cutoff := now.Add(-24 * time.Hour)

	// 10 records in the window: 3 unread, 2 flagged, 1 over the hot threshold.
	records := make([]Record, 10)
	for i := range records {
		records[i] = Record{
			ID:        string(rune('a' + i)),
			Timestamp: now.Add(-time.Duration(i) * time.Hour),
			Read:      true,
		}
	}
	records[0].Read = false
	records[1].Read = false
	records[2].Read = false
	records[3].Flagged = true
	records[4].Flagged = true
	records[5].Popularity = 15000

	counts := counter.Run(records, cutoff, 10000)

	if counts.Total != 10 {
		t.Errorf("Expected total 10, got %d", counts.Total)
	}
	if counts.Unread != 3 {
		t.Errorf("Expected unread 3, got %d", counts.Unread)
	}
	if counts.Important != 2 {
		t.Errorf("Expected important 2, got %d", counts.Important)
	}
	if counts.Hot != 1 {
		t.Errorf("Expected hot 1, got %d", counts.Hot)
	}
}

func TestCounter_Run_WindowCutoff(t *testing.T) {
	counter := NewCounter()

	now := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	cutoff := now.Add(-24 * time.Hour)

	records := []Record{
		{ID: "recent", Timestamp: now.Add(-1 * time.Hour)},
		{ID: "edge", Timestamp: cutoff},
		{ID: "stale", Timestamp: cutoff.Add(-time.Minute), Flagged: true},
	}

	counts := counter.Run(records, cutoff, 10000)

	if counts.Total != 2 {
		t.Errorf("Expected records outside the window to be excluded, got total %d", counts.Total)
	}
	if counts.Important != 0 {
		t.Errorf("Expected stale flagged record to be excluded, got important %d", counts.Important)
	}
}

func TestBadgeValue(t *testing.T) {
	counts := Counts{Total: 10, Unread: 3, Important: 2, Hot: 1}

	cases := []struct {
		mode     string
		expected int
	}{
		{BadgeModeTotal, 10},
		{BadgeModeUnread, 3},
		{BadgeModeImportant, 2},
		{BadgeModeHot, 1},
		{"bogus", 3},
		{"", 3},
	}

	for _, tc := range cases {
		if got := BadgeValue(counts, tc.mode); got != tc.expected {
			t.Errorf("Mode %q: expected %d, got %d", tc.mode, got, tc.expected)
		}
	}
}
