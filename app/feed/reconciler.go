package feed

import (
	"log/slog"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

// Reconciler merges a freshly extracted batch into the stored record set.
// Upstream re-renders stories with trimmed or expanded wording on nearly
// every fetch, which shifts the fingerprint; without the fuzzy tiers below
// the same story would duplicate indefinitely and shed its read/flagged
// state every cycle. Matching cascade, first hit wins:
//
//  1. exact id
//  2. same time label + matching content-key head
//  3. exact 30-rune content-key match across time labels
//  4. relaxed 15-rune content-key match across time labels
//  5. no match: insert as new
//
// Tiers 2-4 replace the stored record (the id changes with the text) while
// carrying forward read state, the sticky flagged bit and the earliest
// timestamp of the lineage.
type Reconciler struct{}

func NewReconciler() *Reconciler {
	return &Reconciler{}
}

// Result is the outcome of one reconciliation pass.
type Result struct {
	Records    []Record // new canonical set, effective time descending
	RemovedIDs []string // stored ids superseded by a replacement under a new id
	Changed    []Record // inserted or replaced records, in merged form
	Inserted   int
	Updated    int
	Collisions int // fingerprint collisions within the incoming batch
}

// keyEntry is one content-key index posting.
type keyEntry struct {
	id      string
	label   string
	fullKey string
}

type mergeState struct {
	working    map[string]Record
	labelIndex map[string][]string   // time label -> record ids
	keyIndex   map[string][]keyEntry // 30-rune key head -> postings
	now        time.Time
}

// Run merges incoming into existing and returns the new canonical set.
// Indexes are built once per call and discarded; nothing here touches
// storage.
func (r *Reconciler) Run(existing, incoming []Record, now time.Time) Result {
	var res Result

	st := &mergeState{
		working:    make(map[string]Record, len(existing)+len(incoming)),
		labelIndex: make(map[string][]string),
		keyIndex:   make(map[string][]keyEntry),
		now:        now,
	}
	for _, rec := range existing {
		st.working[rec.ID] = rec
		st.register(rec)
	}

	batch := dedupBatch(incoming, &res.Collisions)
	SortByEffectiveTime(batch, now)

	for _, cand := range batch {
		r.mergeOne(st, cand, &res)
	}

	res.Records = make([]Record, 0, len(st.working))
	for _, rec := range st.working {
		res.Records = append(res.Records, rec)
	}
	SortByEffectiveTime(res.Records, now)

	return res
}

func (r *Reconciler) mergeOne(st *mergeState, cand Record, res *Result) {
	// Tier 1: exact fingerprint.
	if old, ok := st.working[cand.ID]; ok {
		merged := carryForward(old, cand)
		st.working[cand.ID] = merged
		res.Changed = append(res.Changed, merged)
		res.Updated++
		return
	}

	candKey := ContentKey(cand.Body)

	// Tier 2: same time label, matching content-key head.
	if cand.TimeLabel != "" && runeLen(candKey) >= MinContentKeyRunes {
		for _, id := range st.labelIndex[cand.TimeLabel] {
			old, ok := st.working[id]
			if !ok {
				continue // superseded earlier in this batch
			}
			oldKey := ContentKey(old.Body)
			if runeLen(oldKey) < MinContentKeyRunes || keyPrefix(oldKey, MinContentKeyRunes) != keyPrefix(candKey, MinContentKeyRunes) {
				continue
			}
			slog.Debug("Record matched by time label", "old_id", old.ID, "new_id", cand.ID, "label", cand.TimeLabel)
			r.replace(st, old, cand, res)
			return
		}
	}

	if runeLen(candKey) >= MinContentKeyRunes {
		head30 := keyPrefix(candKey, contentKeyIndexRunes)
		head15 := keyPrefix(candKey, MinContentKeyRunes)

		// Tier 3: exact key head across time labels.
		var exact []keyEntry
		for _, entry := range st.keyIndex[head30] {
			if keyPrefix(entry.fullKey, MinContentKeyRunes) == head15 {
				exact = append(exact, entry)
			}
		}
		if old, ok := st.pickLatest(exact); ok {
			slog.Debug("Record matched by content key", "old_id", old.ID, "new_id", cand.ID, "old_label", old.TimeLabel, "new_label", cand.TimeLabel)
			r.replace(st, old, cand, res)
			return
		}

		// Tier 4: relaxed key-head match, any bucket sharing the 15-rune head.
		var partial []keyEntry
		for bucket, entries := range st.keyIndex {
			if keyPrefix(bucket, MinContentKeyRunes) != head15 {
				continue
			}
			partial = append(partial, entries...)
		}
		if old, ok := st.pickLatest(partial); ok {
			slog.Debug("Record matched by partial content key", "old_id", old.ID, "new_id", cand.ID)
			r.replace(st, old, cand, res)
			return
		}
	}

	// Tier 5: genuinely new. Index it so later candidates in the same batch
	// can fold into it.
	st.working[cand.ID] = cand
	st.register(cand)
	res.Changed = append(res.Changed, cand)
	res.Inserted++
}

// replace folds cand into old's lineage: old leaves the set, cand takes its
// place under the new id with old's user state carried forward.
func (r *Reconciler) replace(st *mergeState, old, cand Record, res *Result) {
	merged := carryForward(old, cand)

	delete(st.working, old.ID)
	if old.ID != merged.ID {
		res.RemovedIDs = append(res.RemovedIDs, old.ID)
	}

	st.working[merged.ID] = merged
	st.register(merged)
	res.Changed = append(res.Changed, merged)
	res.Updated++
}

// carryForward preserves user state across an edit of the same story: read
// survives, flagged is sticky, the lineage keeps its earliest timestamp and
// creation time. Forced-flagged records inherit the stored raw markup when
// the new rendering carried none.
func carryForward(old, incoming Record) Record {
	merged := incoming

	merged.Read = old.Read
	if old.Flagged {
		merged.Flagged = true
		if merged.RawMarkup == "" {
			merged.RawMarkup = old.RawMarkup
		}
	}
	if !old.Timestamp.IsZero() && old.Timestamp.Before(merged.Timestamp) {
		merged.Timestamp = old.Timestamp
	}
	if !old.CreatedAt.IsZero() {
		merged.CreatedAt = old.CreatedAt
	}

	return merged
}

func (st *mergeState) register(rec Record) {
	if rec.TimeLabel != "" {
		st.labelIndex[rec.TimeLabel] = append(st.labelIndex[rec.TimeLabel], rec.ID)
	}

	key := ContentKey(rec.Body)
	if runeLen(key) >= MinContentKeyRunes {
		head := keyPrefix(key, contentKeyIndexRunes)
		st.keyIndex[head] = append(st.keyIndex[head], keyEntry{
			id:      rec.ID,
			label:   rec.TimeLabel,
			fullKey: key,
		})
	}
}

// pickLatest resolves a multi-candidate match to the entry with the latest
// time label; exact ties break to the smallest id so the outcome never
// depends on index iteration order.
func (st *mergeState) pickLatest(entries []keyEntry) (Record, bool) {
	var best Record
	found := false

	for _, entry := range entries {
		rec, ok := st.working[entry.id]
		if !ok {
			continue // superseded earlier in this batch
		}
		if !found || laterLineage(rec, best, st.now) {
			best = rec
			found = true
		}
	}

	return best, found
}

func laterLineage(a, b Record, now time.Time) bool {
	if c := CompareLabels(a.TimeLabel, b.TimeLabel, now); c != 0 {
		return c > 0
	}
	if c := strings.Compare(a.TimeLabel, b.TimeLabel); c != 0 {
		return c > 0
	}
	return a.ID < b.ID
}

// dedupBatch drops fingerprint duplicates within one batch, keeping the
// first occurrence.
func dedupBatch(incoming []Record, collisions *int) []Record {
	seen := make(map[string]struct{}, len(incoming))
	batch := make([]Record, 0, len(incoming))

	for _, rec := range incoming {
		if _, dup := seen[rec.ID]; dup {
			slog.Warn("Fingerprint collision within batch, dropping later record", "id", rec.ID, "title", rec.Title)
			*collisions++
			continue
		}
		seen[rec.ID] = struct{}{}
		batch = append(batch, rec)
	}

	return batch
}

// SortByEffectiveTime orders a set by effective time, most recent first.
// The original wall-clock label wins over the derived timestamp when both
// sides carry one; ids break exact ties to keep the order deterministic.
func SortByEffectiveTime(records []Record, now time.Time) {
	sort.SliceStable(records, func(i, j int) bool {
		if c := compareEffective(records[i], records[j], now); c != 0 {
			return c > 0
		}
		return records[i].ID < records[j].ID
	})
}

func compareEffective(a, b Record, now time.Time) int {
	if a.TimeLabel != "" && b.TimeLabel != "" {
		if c := CompareLabels(a.TimeLabel, b.TimeLabel, now); c != 0 {
			return c
		}
	}
	return a.Timestamp.Compare(b.Timestamp)
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
