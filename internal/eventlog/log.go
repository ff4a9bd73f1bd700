// Package eventlog holds a finished session's detection events and the
// filtering, detail and export operations over them.
package eventlog

import (
	"bytes"
	"encoding/json"
	"examwatch/internal/detection"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cockroachdb/errors"
)

var (
	// ErrLogUnavailable is returned when no event log was supplied.
	ErrLogUnavailable = errors.New("event log not available")
	// ErrEventNotFound is returned for an index outside the log.
	ErrEventNotFound = errors.New("event not found")
)

// Log is an ordered, read-only sequence of detection events. A nil *Log
// models a session whose log was never supplied.
type Log struct {
	events       []detection.Alert
	sessionStart time.Time
	sessionEnd   time.Time
}

// NewLog wraps events in a Log.
func NewLog(events []detection.Alert) *Log {
	out := make([]detection.Alert, len(events))
	copy(out, events)
	return &Log{events: out}
}

// WithSession returns a copy of l carrying the session bounds.
func (l *Log) WithSession(start, end time.Time) *Log {
	if l == nil {
		return nil
	}
	out := *l
	out.sessionStart = start
	out.sessionEnd = end
	return &out
}

type logFileJSON struct {
	SessionStart string            `json:"session_start"`
	SessionEnd   string            `json:"session_end"`
	Events       []json.RawMessage `json:"malpractice_log"`
}

// Decode reads a log from r. The input is either a JSON array of events or
// an object with a "malpractice_log" array and optional session bounds.
// Elements that are not objects are skipped.
func Decode(r io.Reader) (*Log, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read event log")
	}
	data = bytes.TrimSpace(data)

	var file logFileJSON
	switch {
	case len(data) > 0 && data[0] == '[':
		if err := json.Unmarshal(data, &file.Events); err != nil {
			return nil, errors.Wrap(err, "decode event log")
		}
	case len(data) > 0 && data[0] == '{':
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, errors.Wrap(err, "decode event log")
		}
	default:
		return nil, errors.New("decode event log: expected JSON array or object")
	}

	events := make([]detection.Alert, 0, len(file.Events))
	for _, raw := range file.Events {
		var a detection.Alert
		if err := json.Unmarshal(raw, &a); err != nil {
			continue
		}
		events = append(events, a)
	}

	return &Log{
		events:       events,
		sessionStart: detection.ParseTimestamp(file.SessionStart),
		sessionEnd:   detection.ParseTimestamp(file.SessionEnd),
	}, nil
}

// Load reads a log file from path.
func Load(path string) (*Log, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open event log %s", path)
	}
	defer f.Close()

	l, err := Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return l, nil
}

// Len returns the number of events. A nil log has none.
func (l *Log) Len() int {
	if l == nil {
		return 0
	}
	return len(l.events)
}

// At returns the event at index i.
func (l *Log) At(i int) (detection.Alert, bool) {
	if l == nil || i < 0 || i >= len(l.events) {
		return detection.Alert{}, false
	}
	return l.events[i], true
}

// Events returns a copy of all events in order.
func (l *Log) Events() []detection.Alert {
	if l == nil {
		return nil
	}
	out := make([]detection.Alert, len(l.events))
	copy(out, l.events)
	return out
}

// Counts returns the number of events per category.
func (l *Log) Counts() map[detection.Category]int {
	counts := make(map[detection.Category]int, len(detection.Categories))
	for _, c := range detection.Categories {
		counts[c] = 0
	}
	if l == nil {
		return counts
	}
	for _, e := range l.events {
		counts[e.Type]++
	}
	return counts
}

// SessionStart returns the session start, zero when unknown.
func (l *Log) SessionStart() time.Time {
	if l == nil {
		return time.Time{}
	}
	return l.sessionStart
}

// SessionEnd returns the session end, zero when unknown.
func (l *Log) SessionEnd() time.Time {
	if l == nil {
		return time.Time{}
	}
	return l.sessionEnd
}

// Duration renders the session length as H:MM:SS, or "" when either bound
// is unknown.
func (l *Log) Duration() string {
	if l == nil || l.sessionStart.IsZero() || l.sessionEnd.IsZero() {
		return ""
	}
	d := l.sessionEnd.Sub(l.sessionStart)
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	return fmt.Sprintf("%d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
}
