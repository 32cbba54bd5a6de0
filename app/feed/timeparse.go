package feed

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/width"
)

// The wire renders each entry with a bare wall-clock label ("17:24:17",
// "17:24" or "今天 17:24") and no date. ResolveLabel anchors a label to an
// absolute time relative to now; labels later than now are assumed to have
// wrapped past midnight and belong to the previous day, because the feed
// only ever moves forward in time.

const todayPrefix = "今天"

// ResolveLabel converts a wall-clock label to an absolute time. The second
// return value reports whether the label parsed; on failure now is returned
// so callers never block on a bad label.
func ResolveLabel(label string, now time.Time) (time.Time, bool) {
	resolved, ok := resolveSameDay(label, now)
	if !ok {
		return now, false
	}

	if resolved.After(now) {
		resolved = resolved.AddDate(0, 0, -1)
	}

	return resolved, true
}

// CompareLabels orders two labels on the same calendar day, returning a
// positive value when a is later than b. Labels are never compared across
// day boundaries; day rollover is applied only when deriving an absolute
// timestamp in ResolveLabel.
func CompareLabels(a, b string, now time.Time) int {
	ta, okA := resolveSameDay(a, now)
	tb, okB := resolveSameDay(b, now)
	if !okA || !okB {
		return 0
	}
	return ta.Compare(tb)
}

// resolveSameDay parses a label to today's wall-clock time without any day
// adjustment. Full-width digits and colons are narrowed first; the wire
// occasionally renders them.
func resolveSameDay(label string, now time.Time) (time.Time, bool) {
	s := width.Narrow.String(strings.TrimSpace(label))

	if rest, found := strings.CutPrefix(s, todayPrefix); found {
		s = strings.TrimSpace(rest)
	}

	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return time.Time{}, false
	}

	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return time.Time{}, false
	}
	minute, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return time.Time{}, false
	}

	second := 0
	if len(parts) == 3 {
		second, err = strconv.Atoi(strings.TrimSpace(parts[2]))
		if err != nil {
			return time.Time{}, false
		}
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return time.Time{}, false
	}

	year, month, day := now.Date()
	return time.Date(year, month, day, hour, minute, second, 0, now.Location()), true
}
