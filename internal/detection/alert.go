package detection

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Alert is a single detection event as reported by the backend.
type Alert struct {
	Type       Category
	Confidence float64 // fraction in [0,1]
	Timestamp  time.Time
	Snapshot   string // optional snapshot file name
	Count      int    // running per-category count, only present in session logs
}

// HasSnapshot reports whether the alert references a snapshot image.
func (a Alert) HasSnapshot() bool {
	return a.Snapshot != ""
}

// Percent returns the confidence as a rounded integer percentage.
func (a Alert) Percent() int {
	return ConfidencePercent(a.Confidence)
}

// Key identifies an alert for de-duplication across polls.
func (a Alert) Key() string {
	return string(a.Type) + "|" + a.Timestamp.Format(time.RFC3339Nano) + "|" + a.Snapshot
}

type alertJSON struct {
	Type       string          `json:"type"`
	Confidence json.RawMessage `json:"confidence"`
	Timestamp  string          `json:"timestamp"`
	Snapshot   *string         `json:"snapshot"`
	Count      json.RawMessage `json:"count"`
}

// UnmarshalJSON decodes an alert, defaulting missing or ill-typed fields.
func (a *Alert) UnmarshalJSON(data []byte) error {
	var raw alertJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	a.Type = Category(raw.Type)
	a.Confidence = numberOrZero(raw.Confidence)
	a.Timestamp = ParseTimestamp(raw.Timestamp)
	a.Snapshot = ""
	if raw.Snapshot != nil {
		a.Snapshot = *raw.Snapshot
	}
	a.Count = int(numberOrZero(raw.Count))
	return nil
}

// MarshalJSON encodes the alert in the backend's wire shape.
func (a Alert) MarshalJSON() ([]byte, error) {
	out := struct {
		Type       string  `json:"type"`
		Confidence float64 `json:"confidence"`
		Timestamp  string  `json:"timestamp,omitempty"`
		Snapshot   string  `json:"snapshot,omitempty"`
		Count      int     `json:"count,omitempty"`
	}{
		Type:       string(a.Type),
		Confidence: a.Confidence,
		Snapshot:   a.Snapshot,
		Count:      a.Count,
	}
	if !a.Timestamp.IsZero() {
		out.Timestamp = a.Timestamp.Format(time.RFC3339Nano)
	}
	return json.Marshal(out)
}

// ConfidencePercent converts a confidence fraction to a rounded percentage.
func ConfidencePercent(f float64) int {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(math.Round(f * 100))
}

// FormatPercent renders a confidence fraction as "82%".
func FormatPercent(f float64) string {
	return strconv.Itoa(ConfidencePercent(f)) + "%"
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
}

// ParseTimestamp parses ISO-8601 timestamps with or without a zone.
// Timestamps without a zone are read in local time. Unparseable input yields
// the zero time.
func ParseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for i, layout := range timestampLayouts {
		var (
			t   time.Time
			err error
		)
		if i == 0 {
			t, err = time.Parse(layout, s)
		} else {
			t, err = time.ParseInLocation(layout, s, time.Local)
		}
		if err == nil {
			return t
		}
	}
	return time.Time{}
}

// FormatDate renders the date part the way the summary shows it (1/2/2006).
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "Invalid Date"
	}
	return t.Format("1/2/2006")
}

// FormatTime renders the time part the way every view shows it (3:04:05 PM).
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return "Invalid Date"
	}
	return t.Format("3:04:05 PM")
}

func numberOrZero(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f
		}
	}
	return 0
}
