package feed

import (
	"testing"
	"time"
)

func TestResolveLabel_SameDay(t *testing.T) {
	now := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)

	resolved, ok := ResolveLabel("17:24:17", now)
	if !ok {
		t.Fatalf("Expected label to parse")
	}

	expected := time.Date(2026, 3, 14, 17, 24, 17, 0, time.UTC)
	if !resolved.Equal(expected) {
		t.Errorf("Expected %v, got %v", expected, resolved)
	}
}

func TestResolveLabel_MinutesOnly(t *testing.T) {
	now := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)

	resolved, ok := ResolveLabel("17:24", now)
	if !ok {
		t.Fatalf("Expected label to parse")
	}

	expected := time.Date(2026, 3, 14, 17, 24, 0, 0, time.UTC)
	if !resolved.Equal(expected) {
		t.Errorf("Expected seconds to default to 0, got %v", resolved)
	}
}

func TestResolveLabel_DayRollover(t *testing.T) {
	// Fetched shortly after midnight: a label later than now belongs to the
	// previous day.
	now := time.Date(2026, 3, 15, 0, 5, 0, 0, time.UTC)

	resolved, ok := ResolveLabel("23:59:59", now)
	if !ok {
		t.Fatalf("Expected label to parse")
	}

	expected := time.Date(2026, 3, 14, 23, 59, 59, 0, time.UTC)
	if !resolved.Equal(expected) {
		t.Errorf("Expected previous-day resolution %v, got %v", expected, resolved)
	}
}

func TestResolveLabel_TodayPrefix(t *testing.T) {
	now := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)

	resolved, ok := ResolveLabel("今天 14:02", now)
	if !ok {
		t.Fatalf("Expected label to parse")
	}

	expected := time.Date(2026, 3, 14, 14, 2, 0, 0, time.UTC)
	if !resolved.Equal(expected) {
		t.Errorf("Expected %v, got %v", expected, resolved)
	}
}

func TestResolveLabel_FullWidthDigits(t *testing.T) {
	now := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)

	resolved, ok := ResolveLabel("１７：２４", now)
	if !ok {
		t.Fatalf("Expected full-width label to parse")
	}

	expected := time.Date(2026, 3, 14, 17, 24, 0, 0, time.UTC)
	if !resolved.Equal(expected) {
		t.Errorf("Expected %v, got %v", expected, resolved)
	}
}

func TestResolveLabel_Unparseable(t *testing.T) {
	now := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)

	for _, label := range []string{"", "not a time", "25:00", "17:61", "17", "1:2:3:4"} {
		resolved, ok := ResolveLabel(label, now)
		if ok {
			t.Errorf("Expected label %q to fail parsing", label)
		}
		if !resolved.Equal(now) {
			t.Errorf("Expected now fallback for label %q, got %v", label, resolved)
		}
	}
}

func TestCompareLabels(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 5, 0, 0, time.UTC)

	if c := CompareLabels("17:30:00", "17:24:17", now); c <= 0 {
		t.Errorf("Expected positive comparison, got %d", c)
	}
	if c := CompareLabels("09:00", "17:24:17", now); c >= 0 {
		t.Errorf("Expected negative comparison, got %d", c)
	}
	if c := CompareLabels("17:24:17", "17:24:17", now); c != 0 {
		t.Errorf("Expected equal labels to compare 0, got %d", c)
	}

	// Labels never cross day boundaries: even with now just past midnight,
	// 23:59 compares later than 00:04 on the same calendar day.
	if c := CompareLabels("23:59:59", "00:04:00", now); c <= 0 {
		t.Errorf("Expected same-day wall-clock ordering, got %d", c)
	}
}

func TestCompareLabels_Unparseable(t *testing.T) {
	now := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)

	if c := CompareLabels("garbage", "17:24:17", now); c != 0 {
		t.Errorf("Expected 0 when one label fails to parse, got %d", c)
	}
}
