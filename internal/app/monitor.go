package app

import (
	"context"
	"examwatch/clients/notifier"
	"examwatch/config"
	"examwatch/internal/detection"
	"examwatch/internal/task"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Build info - populated from embedded VCS info at init time
var (
	BuildCommit = "dev"
	BuildTime   = "unknown"
)

func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				if setting.Value != "" {
					BuildCommit = setting.Value
				}
			case "vcs.time":
				BuildTime = setting.Value
			}
		}
	}
}

// AlertsSource is the part of the backend the monitor reads from.
type AlertsSource interface {
	GetAlerts(ctx context.Context) (*detection.Summary, error)
	Probe(ctx context.Context) error
}

// MonitorOption configures a Monitor.
type MonitorOption func(*Monitor)

// WithNow replaces the time source of the session clock.
func WithNow(now func() time.Time) MonitorOption {
	return func(m *Monitor) { m.now = now }
}

// WithNotifier forwards alerts not seen before in the session to n.
// snapshotURL resolves snapshot names for the notification and may be nil.
func WithNotifier(n notifier.Notifier, snapshotURL func(string) string) MonitorOption {
	return func(m *Monitor) {
		m.notifier = n
		m.snapshotURL = snapshotURL
	}
}

// WithSessionID overrides the generated session ID.
func WithSessionID(id string) MonitorOption {
	return func(m *Monitor) { m.sessionID = id }
}

// Monitor drives the live monitoring view. It polls the backend, keeps the
// counters and feed current, ticks the clocks and tracks connectivity.
// Every change is published to subscribers as a new View.
type Monitor struct {
	logger      *zap.Logger
	cfg         config.MonitorConfig
	source      AlertsSource
	notifier    notifier.Notifier
	snapshotURL func(string) string
	now         func() time.Time
	sessionID   string

	clock     *detection.SessionClock
	forwarder *Forwarder
	tasks     *task.Group

	mu   sync.Mutex
	view View
	feed *Feed

	subMu   sync.Mutex
	subs    map[int]chan View
	nextSub int
	closed  bool

	closeOnce sync.Once
}

func NewMonitor(logger *zap.Logger, cfg *config.Config, source AlertsSource, opts ...MonitorOption) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Monitor{
		logger: logger,
		cfg:    cfg.Monitor,
		source: source,
		subs:   make(map[int]chan View),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.sessionID == "" {
		m.sessionID = uuid.NewString()
	}

	m.clock = detection.NewSessionClock(m.now)
	m.feed = NewFeed(m.cfg.FeedLimit, m.cfg.FeedCapacity)

	if m.notifier != nil && m.cfg.Notify {
		m.forwarder = NewForwarder(logger, m.notifier, m.sessionID, m.snapshotURL)
		m.forwarder.SetRateLimit(m.cfg.NotifyPerMin, m.cfg.NotifyBurst)
	}

	start := m.clock.Start()
	m.view = View{
		SessionID:    m.sessionID,
		SessionStart: start,
		Status:       StatusActive,
		Connected:    true,
		Clock:        detection.FormatTime(start),
		Duration:     detection.FormatDuration(0),
		Rate:         detection.DetectionRate(0, 0),
		Feed:         []FeedEntry{},
	}

	m.tasks = task.NewGroup(
		task.New("clock", m.cfg.ClockInterval, m.tickClock,
			task.WithImmediate(), task.WithLogger(logger)),
		task.New("duration", m.cfg.ClockInterval, m.tickDuration,
			task.WithImmediate(), task.WithLogger(logger)),
		task.New("poll", m.cfg.PollInterval, m.poll,
			task.WithImmediate(), task.WithOverlap(), task.WithLogger(logger)),
		task.New("probe", m.cfg.ProbeInterval, m.probe,
			task.WithLogger(logger)),
	)

	return m
}

// Start launches the clock, duration, poll and probe tasks. They run until
// ctx is cancelled or Close is called.
func (m *Monitor) Start(ctx context.Context) error {
	if err := m.tasks.StartAll(ctx); err != nil {
		return err
	}

	m.logger.Info("monitor started",
		zap.String("sessionID", m.sessionID),
		zap.Duration("pollInterval", m.cfg.PollInterval),
		zap.Duration("probeInterval", m.cfg.ProbeInterval),
		zap.Bool("notify", m.forwarder != nil),
	)
	return nil
}

// Refresh fetches alerts out of cycle and applies them. On failure the
// displayed state is left as it was.
func (m *Monitor) Refresh(ctx context.Context) error {
	summary, err := m.source.GetAlerts(ctx)
	if err != nil {
		m.recordPollError(err)
		return err
	}
	m.apply(summary)
	return nil
}

// SessionID returns the ID of this monitoring session.
func (m *Monitor) SessionID() string {
	return m.sessionID
}

// SessionStart returns the instant the session clock started.
func (m *Monitor) SessionStart() time.Time {
	return m.clock.Start()
}

// View returns the current snapshot.
func (m *Monitor) View() View {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view
}

// Tasks returns the monitor's task group.
func (m *Monitor) Tasks() *task.Group {
	return m.tasks
}

// Forwarded returns the number of alerts sent to the notifier.
func (m *Monitor) Forwarded() uint64 {
	return m.forwarder.Sent()
}

// Subscribe returns a channel that receives the current View immediately and
// every later one. A receiver that falls behind only sees the latest View.
// The channel is closed by Close or by calling the returned cancel func.
func (m *Monitor) Subscribe() (<-chan View, func()) {
	ch := make(chan View, 1)

	// Lock order matches apply and update: mu before subMu.
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subMu.Lock()
	defer m.subMu.Unlock()

	if m.closed {
		close(ch)
		return ch, func() {}
	}

	ch <- m.view
	id := m.nextSub
	m.nextSub++
	m.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.subMu.Lock()
			defer m.subMu.Unlock()
			if c, ok := m.subs[id]; ok {
				delete(m.subs, id)
				close(c)
			}
		})
	}
}

// Close stops all tasks and closes every subscriber channel.
func (m *Monitor) Close() {
	m.closeOnce.Do(func() {
		m.tasks.StopAll()

		m.subMu.Lock()
		m.closed = true
		for id, ch := range m.subs {
			delete(m.subs, id)
			close(ch)
		}
		m.subMu.Unlock()

		m.logger.Info("monitor stopped", zap.String("sessionID", m.sessionID))
	})
}

func (m *Monitor) poll(ctx context.Context) {
	if err := m.Refresh(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		m.logger.Warn("failed to fetch alerts", zap.Error(err))
	}
}

func (m *Monitor) apply(summary *detection.Summary) {
	m.mu.Lock()
	v := m.view
	v.HandGestures = summary.Count(detection.HandGestures)
	v.MobilePhone = summary.Count(detection.MobilePhone)
	v.Talking = summary.Count(detection.Talking)
	v.TotalEvents = summary.TotalEvents
	v.Rate = m.clock.Rate(summary.TotalEvents)

	v.AutoScroll = m.feed.Replace(summary.Alerts)
	if v.AutoScroll {
		v.Feed = m.feed.Entries()
	}

	v.LastPollAt = m.clock.Now()
	v.LastError = ""
	v.Polls++
	m.view = v
	m.publish(v)
	m.mu.Unlock()

	m.forwarder.Forward(summary.Alerts, summary.TotalEvents)
}

func (m *Monitor) recordPollError(err error) {
	m.mu.Lock()
	m.view.PollErrors++
	m.view.LastError = err.Error()
	m.mu.Unlock()
}

func (m *Monitor) probe(ctx context.Context) {
	err := m.source.Probe(ctx)
	if ctx.Err() != nil {
		return
	}

	m.update(func(v *View) {
		v.Connected = err == nil
		if v.Connected {
			v.Status = StatusActive
		} else {
			v.Status = StatusLost
		}
	})

	if err != nil {
		m.logger.Warn("connectivity probe failed", zap.Error(err))
	}
}

func (m *Monitor) tickClock(context.Context) {
	now := m.clock.Now()
	m.update(func(v *View) {
		v.Clock = detection.FormatTime(now)
	})
}

func (m *Monitor) tickDuration(context.Context) {
	d := m.clock.Duration()
	m.update(func(v *View) {
		v.Duration = d
	})
}

// update applies fn to a copy of the view and publishes the result. The feed
// slice is shared between views and never modified in place.
func (m *Monitor) update(fn func(v *View)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v := m.view
	v.AutoScroll = false
	fn(&v)
	m.view = v
	m.publish(v)
}

// publish hands v to every subscriber without blocking. A full channel has
// its stale View replaced.
func (m *Monitor) publish(v View) {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	for _, ch := range m.subs {
		select {
		case ch <- v:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- v:
			default:
			}
		}
	}
}
