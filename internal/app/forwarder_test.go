package app

import (
	"examwatch/internal/detection"
	"testing"
	"time"
)

func TestForwarder_SendsOnlyUnseen(t *testing.T) {
	n := &MockNotifier{}
	f := NewForwarder(nil, n, "s-1", nil)
	start := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	if got := f.Forward(makeAlerts(3, start), 3); got != 3 {
		t.Errorf("expected 3 forwarded, got %d", got)
	}
	// Next poll window overlaps the previous one
	if got := f.Forward(makeAlerts(5, start), 5); got != 2 {
		t.Errorf("expected 2 forwarded, got %d", got)
	}

	alerts := n.Alerts()
	if len(alerts) != 5 {
		t.Fatalf("expected 5 alerts total, got %d", len(alerts))
	}
	if alerts[4].SessionTotal != 5 || alerts[4].SessionID != "s-1" {
		t.Errorf("unexpected alert: %+v", alerts[4])
	}
	if f.Sent() != 5 {
		t.Errorf("expected Sent 5, got %d", f.Sent())
	}
}

func TestForwarder_Prune(t *testing.T) {
	n := &MockNotifier{}
	f := NewForwarder(nil, n, "", nil)
	f.maxSeen = 4
	start := time.Now()

	f.Forward(makeAlerts(3, start), 3)
	window := makeAlerts(6, start)[3:]
	f.Forward(window, 6)

	if f.SeenCount() != 3 {
		t.Errorf("expected seen set pruned to current window, got %d", f.SeenCount())
	}
	if got := f.Forward(window, 6); got != 0 {
		t.Errorf("expected window alerts to stay seen, got %d", got)
	}
}

func TestForwarder_NilSafe(t *testing.T) {
	var f *Forwarder
	if got := f.Forward([]detection.Alert{{Type: detection.Talking}}, 1); got != 0 {
		t.Errorf("expected 0 from nil forwarder, got %d", got)
	}
	if f.Sent() != 0 || f.SeenCount() != 0 {
		t.Error("expected zero counters from nil forwarder")
	}

	noNotifier := NewForwarder(nil, nil, "", nil)
	if got := noNotifier.Forward([]detection.Alert{{Type: detection.Talking}}, 1); got != 0 {
		t.Errorf("expected 0 without notifier, got %d", got)
	}
}

func TestForwarder_RateLimitDropsExcess(t *testing.T) {
	n := &MockNotifier{}
	f := NewForwarder(nil, n, "", nil)
	f.SetRateLimit(1, 2)

	if got := f.Forward(makeAlerts(5, time.Now()), 5); got != 2 {
		t.Errorf("expected burst of 2 forwarded, got %d", got)
	}
	if f.Dropped() != 3 {
		t.Errorf("expected 3 dropped, got %d", f.Dropped())
	}
	if f.SeenCount() != 5 {
		t.Errorf("dropped alerts should still be marked seen, got %d", f.SeenCount())
	}

	f.SetRateLimit(0, 0)
	if got := f.Forward(makeAlerts(8, time.Now().Add(time.Hour)), 8); got != 8 {
		t.Errorf("expected unlimited forwarding, got %d", got)
	}
}
