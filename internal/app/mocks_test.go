package app

import (
	"context"
	"examwatch/clients/notifier"
	"examwatch/internal/detection"
	"sync"
	"time"
)

// MockAlertsSource is a mock implementation of AlertsSource for testing.
type MockAlertsSource struct {
	mu       sync.Mutex
	summary  *detection.Summary
	getErr   error
	probeErr error
	gets     int
	probes   int
}

// NewMockAlertsSource creates a source returning an empty summary.
func NewMockAlertsSource() *MockAlertsSource {
	return &MockAlertsSource{
		summary: &detection.Summary{Counts: map[detection.Category]int{}, Alerts: []detection.Alert{}},
	}
}

// SetSummary sets the payload returned by GetAlerts.
func (m *MockAlertsSource) SetSummary(s *detection.Summary) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.summary = s
}

// SetGetErr makes GetAlerts fail.
func (m *MockAlertsSource) SetGetErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getErr = err
}

// SetProbeErr makes Probe fail.
func (m *MockAlertsSource) SetProbeErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.probeErr = err
}

// GetAlerts returns the configured summary.
func (m *MockAlertsSource) GetAlerts(ctx context.Context) (*detection.Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.summary, nil
}

// Probe returns the configured probe error.
func (m *MockAlertsSource) Probe(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.probes++
	return m.probeErr
}

// Gets returns the number of GetAlerts calls.
func (m *MockAlertsSource) Gets() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gets
}

// Probes returns the number of Probe calls.
func (m *MockAlertsSource) Probes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.probes
}

// MockNotifier records detection alerts.
type MockNotifier struct {
	mu     sync.Mutex
	alerts []notifier.DetectionAlert
}

func (m *MockNotifier) SendDetectionAlert(alert notifier.DetectionAlert) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alerts = append(m.alerts, alert)
}

func (m *MockNotifier) Close() error {
	return nil
}

// Alerts returns a copy of the received alerts.
func (m *MockNotifier) Alerts() []notifier.DetectionAlert {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]notifier.DetectionAlert, len(m.alerts))
	copy(out, m.alerts)
	return out
}

// fakeClock is a settable time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{now: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// makeAlerts builds n talking alerts one second apart.
func makeAlerts(n int, start time.Time) []detection.Alert {
	alerts := make([]detection.Alert, n)
	for i := range alerts {
		alerts[i] = detection.Alert{
			Type:       detection.Talking,
			Confidence: 0.5,
			Timestamp:  start.Add(time.Duration(i) * time.Second),
		}
	}
	return alerts
}
