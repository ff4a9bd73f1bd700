package app

import (
	"examwatch/internal/detection"
)

// FeedEntry is one rendered line of the live alert feed.
type FeedEntry struct {
	Type        detection.Category `json:"type"`
	Label       string             `json:"label"`
	Icon        string             `json:"icon"`
	Time        string             `json:"time"`
	Percent     string             `json:"percent"`
	HasSnapshot bool               `json:"has_snapshot"`
	Snapshot    string             `json:"snapshot,omitempty"`
}

// NewFeedEntry renders an alert for the live feed.
func NewFeedEntry(a detection.Alert) FeedEntry {
	return FeedEntry{
		Type:        a.Type,
		Label:       detection.MonitorLabel(a.Type),
		Icon:        detection.Icon(a.Type),
		Time:        detection.FormatTime(a.Timestamp),
		Percent:     detection.FormatPercent(a.Confidence),
		HasSnapshot: a.HasSnapshot(),
		Snapshot:    a.Snapshot,
	}
}

// Feed is a bounded FIFO of feed entries. The oldest entries are evicted
// first once capacity is reached. Not safe for concurrent use.
type Feed struct {
	limit    int
	capacity int
	entries  []FeedEntry
}

// NewFeed creates a feed that keeps at most limit entries from each payload
// and never holds more than capacity entries.
func NewFeed(limit, capacity int) *Feed {
	if limit < 1 {
		limit = 1
	}
	if capacity < limit {
		capacity = limit
	}
	return &Feed{limit: limit, capacity: capacity}
}

// Replace swaps the feed contents for the newest entries of alerts. An empty
// payload leaves the feed as it was and Replace reports false.
func (f *Feed) Replace(alerts []detection.Alert) bool {
	recent := detection.Recent(alerts, f.limit)
	if len(recent) == 0 {
		return false
	}
	f.entries = f.entries[:0]
	for _, a := range recent {
		f.Push(NewFeedEntry(a))
	}
	return true
}

// Push appends an entry, evicting the oldest when over capacity.
func (f *Feed) Push(e FeedEntry) {
	f.entries = append(f.entries, e)
	if over := len(f.entries) - f.capacity; over > 0 {
		f.entries = append(f.entries[:0], f.entries[over:]...)
	}
}

// Entries returns a copy of the feed, oldest first.
func (f *Feed) Entries() []FeedEntry {
	out := make([]FeedEntry, len(f.entries))
	copy(out, f.entries)
	return out
}

// Len returns the number of entries in the feed.
func (f *Feed) Len() int {
	return len(f.entries)
}

// Capacity returns the maximum number of entries.
func (f *Feed) Capacity() int {
	return f.capacity
}
