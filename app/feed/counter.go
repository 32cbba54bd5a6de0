package feed

import (
	"time"
)

// Counter derives the aggregate summary a badge or UI reads from the record
// set. Pure function of its inputs; records outside the retention window are
// not counted.
type Counter struct{}

func NewCounter() *Counter {
	return &Counter{}
}

// Run counts records whose timestamp falls at or after cutoff.
func (c *Counter) Run(records []Record, cutoff time.Time, hotThreshold int) Counts {
	var counts Counts

	for _, rec := range records {
		if rec.Timestamp.Before(cutoff) {
			continue
		}

		counts.Total++
		if !rec.Read {
			counts.Unread++
		}
		if rec.Flagged {
			counts.Important++
		}
		if rec.Popularity >= hotThreshold {
			counts.Hot++
		}
	}

	return counts
}

// BadgeValue selects the count the configured badge mode displays. Unknown
// modes fall back to unread, matching the historical default.
func BadgeValue(counts Counts, mode string) int {
	switch mode {
	case BadgeModeTotal:
		return counts.Total
	case BadgeModeImportant:
		return counts.Important
	case BadgeModeHot:
		return counts.Hot
	default:
		return counts.Unread
	}
}
