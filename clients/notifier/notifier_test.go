package notifier

import (
	"errors"
	"examwatch/internal/detection"
	"testing"
	"time"
)

// mockNotifier is a test helper that implements Notifier interface
type mockNotifier struct {
	alerts      []DetectionAlert
	closeErr    error
	closeCalled bool
}

func (m *mockNotifier) SendDetectionAlert(alert DetectionAlert) {
	m.alerts = append(m.alerts, alert)
}

func (m *mockNotifier) Close() error {
	m.closeCalled = true
	return m.closeErr
}

func TestNewMultiNotifier_FiltersNil(t *testing.T) {
	mock1 := &mockNotifier{}
	mock2 := &mockNotifier{}

	mn := NewMultiNotifier(mock1, nil, mock2, nil)

	if mn.Count() != 2 {
		t.Errorf("expected 2 notifiers, got %d", mn.Count())
	}
}

func TestNewMultiNotifier_Empty(t *testing.T) {
	mn := NewMultiNotifier()

	if mn.Count() != 0 {
		t.Errorf("expected 0 notifiers, got %d", mn.Count())
	}

	// Should not panic
	mn.SendDetectionAlert(DetectionAlert{})
	if err := mn.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestMultiNotifier_SendDetectionAlert(t *testing.T) {
	mock1 := &mockNotifier{}
	mock2 := &mockNotifier{}

	mn := NewMultiNotifier(mock1, mock2)

	mn.SendDetectionAlert(DetectionAlert{Category: detection.Talking, Label: "Talking Detected"})

	if len(mock1.alerts) != 1 {
		t.Errorf("expected 1 alert for mock1, got %d", len(mock1.alerts))
	}
	if len(mock2.alerts) != 1 {
		t.Errorf("expected 1 alert for mock2, got %d", len(mock2.alerts))
	}
	if mock1.alerts[0].Label != "Talking Detected" {
		t.Errorf("unexpected label: %s", mock1.alerts[0].Label)
	}
}

func TestMultiNotifier_Close(t *testing.T) {
	mock1 := &mockNotifier{}
	mock2 := &mockNotifier{closeErr: errors.New("close failed")}

	mn := NewMultiNotifier(mock1, mock2)

	if err := mn.Close(); err == nil || err.Error() != "close failed" {
		t.Errorf("expected close error, got %v", err)
	}
	if !mock1.closeCalled || !mock2.closeCalled {
		t.Error("expected all notifiers to be closed")
	}
}

func TestNewDetectionAlert(t *testing.T) {
	ts := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	a := detection.Alert{Type: detection.MobilePhone, Confidence: 0.914, Timestamp: ts, Snapshot: "s1.jpg"}

	out := NewDetectionAlert(a, "session-1", 12, func(name string) string { return "http://host/snapshot/" + name })

	if out.Label != "Mobile Phone Detected" {
		t.Errorf("unexpected label: %s", out.Label)
	}
	if out.Icon != "📱" {
		t.Errorf("unexpected icon: %s", out.Icon)
	}
	if out.Percent() != "91%" {
		t.Errorf("unexpected percent: %s", out.Percent())
	}
	if out.SnapshotURL != "http://host/snapshot/s1.jpg" {
		t.Errorf("unexpected snapshot URL: %s", out.SnapshotURL)
	}
	if out.SessionID != "session-1" || out.SessionTotal != 12 {
		t.Errorf("unexpected session info: %+v", out)
	}

	noSnap := NewDetectionAlert(detection.Alert{Type: detection.Talking}, "", 0, nil)
	if noSnap.SnapshotURL != "" {
		t.Errorf("expected empty snapshot URL, got %s", noSnap.SnapshotURL)
	}
}
