// Package dedupe tracks record keys to detect duplicate countable entries.
package dedupe

import (
	"fmt"
)

// Kind distinguishes the record families a key belongs to.
type Kind string

// Record families.
const (
	KindHourly   Kind = "hourly"
	KindBigCatch Kind = "big_catch"
)

// Key identifies the slot a countable record fills: (competitor, hour) for
// hourly entries, competitor alone for big catches.
type Key struct {
	Kind         Kind
	CompetitorID string
	Hour         int
	RecordID     string // record that claimed or attempted to claim the slot
}

// HourKey builds the slot key of an hourly entry.
func HourKey(competitorID string, hour int, recordID string) Key {
	return Key{Kind: KindHourly, CompetitorID: competitorID, Hour: hour, RecordID: recordID}
}

// BigCatchKey builds the slot key of a big-catch entry.
func BigCatchKey(competitorID, recordID string) Key {
	return Key{Kind: KindBigCatch, CompetitorID: competitorID, RecordID: recordID}
}

func (k Key) slot() string {
	if k.Kind == KindHourly {
		return fmt.Sprintf("%s/%s/%d", k.Kind, k.CompetitorID, k.Hour)
	}
	return fmt.Sprintf("%s/%s", k.Kind, k.CompetitorID)
}

// String describes the key for operator-facing warnings.
func (k Key) String() string {
	if k.Kind == KindHourly {
		return fmt.Sprintf("competitor %s hour %d: duplicate countable hourly entry %s", k.CompetitorID, k.Hour, k.RecordID)
	}
	return fmt.Sprintf("competitor %s: duplicate countable big catch %s", k.CompetitorID, k.RecordID)
}

// Tracker records which slots are filled. The first record to claim a slot
// wins; later claims are collected as duplicates. A Tracker is meant for one
// aggregation pass and is not safe for concurrent use.
type Tracker struct {
	seen       map[string]struct{}
	duplicates []Key
	expected   int
}

// NewTracker creates an empty tracker.
func NewTracker(opts ...Option) *Tracker {
	t := &Tracker{}
	for _, opt := range opts {
		opt(t)
	}
	t.seen = make(map[string]struct{}, t.expected)
	return t
}

// SeenAndRecord claims the slot of k. It returns true when the slot was
// already claimed, in which case k is recorded as a duplicate.
func (t *Tracker) SeenAndRecord(k Key) bool {
	slot := k.slot()
	if _, exists := t.seen[slot]; exists {
		t.duplicates = append(t.duplicates, k)
		return true
	}
	t.seen[slot] = struct{}{}
	return false
}

// Duplicates returns the duplicate claims in the order they were seen.
func (t *Tracker) Duplicates() []Key {
	out := make([]Key, len(t.duplicates))
	copy(out, t.duplicates)
	return out
}
