package eventlog

import (
	"examwatch/internal/detection"
	"strconv"

	"github.com/cockroachdb/errors"
)

const notApplicable = "N/A"

// EventDetail is the formatted view of one logged event.
type EventDetail struct {
	Number      int
	Type        detection.Category
	Label       string
	Icon        string
	Date        string
	Time        string
	Confidence  int // percent
	Percent     string
	Snapshot    string // empty when the event has none
	SnapshotURL string
	Count       string // running category count or "N/A"
}

// HasSnapshot reports whether the event has a snapshot.
func (d EventDetail) HasSnapshot() bool {
	return d.Snapshot != ""
}

// Detail formats the event at index. snapshotURL resolves snapshot names and
// may be nil.
func Detail(l *Log, index int, snapshotURL func(string) string) (EventDetail, error) {
	if l.Len() == 0 {
		return EventDetail{}, ErrLogUnavailable
	}
	a, ok := l.At(index)
	if !ok {
		return EventDetail{}, errors.Wrapf(ErrEventNotFound, "index %d", index)
	}

	d := EventDetail{
		Number:     index + 1,
		Type:       a.Type,
		Label:      detection.SummaryLabel(a.Type),
		Icon:       detection.Icon(a.Type),
		Date:       detection.FormatDate(a.Timestamp),
		Time:       detection.FormatTime(a.Timestamp),
		Confidence: a.Percent(),
		Percent:    detection.FormatPercent(a.Confidence),
		Snapshot:   a.Snapshot,
		Count:      notApplicable,
	}
	if a.HasSnapshot() && snapshotURL != nil {
		d.SnapshotURL = snapshotURL(a.Snapshot)
	}
	if a.Count != 0 {
		d.Count = strconv.Itoa(a.Count)
	}
	return d, nil
}
