package notifier

import (
	"examwatch/internal/detection"
	"time"
)

// DetectionAlert contains all the data needed for a detection alert notification.
type DetectionAlert struct {
	// Detection info
	Category   detection.Category
	Label      string // Human-readable category label
	Icon       string
	Confidence float64 // fraction in [0,1]

	// Snapshot info
	SnapshotName string
	SnapshotURL  string // Empty when the alert has no snapshot

	// Session info
	SessionID    string
	SessionTotal int // Total events reported by the backend at the time of the poll

	Timestamp time.Time
}

// NewDetectionAlert builds a notification from an alert.
// snapshotURL resolves snapshot names to URLs and may be nil.
func NewDetectionAlert(a detection.Alert, sessionID string, total int, snapshotURL func(string) string) DetectionAlert {
	out := DetectionAlert{
		Category:     a.Type,
		Label:        detection.MonitorLabel(a.Type),
		Icon:         detection.Icon(a.Type),
		Confidence:   a.Confidence,
		SnapshotName: a.Snapshot,
		SessionID:    sessionID,
		SessionTotal: total,
		Timestamp:    a.Timestamp,
	}
	if a.HasSnapshot() && snapshotURL != nil {
		out.SnapshotURL = snapshotURL(a.Snapshot)
	}
	return out
}

// Percent returns the confidence as a rendered percentage.
func (a DetectionAlert) Percent() string {
	return detection.FormatPercent(a.Confidence)
}

// Notifier is the interface for sending detection alerts to various channels.
type Notifier interface {
	// SendDetectionAlert sends a detection alert notification.
	SendDetectionAlert(alert DetectionAlert)

	// Close cleans up any resources.
	Close() error
}

// MultiNotifier broadcasts alerts to multiple notifiers.
type MultiNotifier struct {
	notifiers []Notifier
}

// NewMultiNotifier creates a new MultiNotifier with the given notifiers.
func NewMultiNotifier(notifiers ...Notifier) *MultiNotifier {
	// Filter out nil notifiers
	var active []Notifier
	for _, n := range notifiers {
		if n != nil {
			active = append(active, n)
		}
	}
	return &MultiNotifier{notifiers: active}
}

// SendDetectionAlert sends the alert to all registered notifiers.
func (m *MultiNotifier) SendDetectionAlert(alert DetectionAlert) {
	for _, n := range m.notifiers {
		n.SendDetectionAlert(alert)
	}
}

// Close closes all registered notifiers.
func (m *MultiNotifier) Close() error {
	var lastErr error
	for _, n := range m.notifiers {
		if err := n.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// Count returns the number of active notifiers.
func (m *MultiNotifier) Count() int {
	return len(m.notifiers)
}
