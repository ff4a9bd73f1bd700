package app

import (
	"examwatch/clients/notifier"
	"examwatch/internal/detection"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const defaultMaxSeen = 10000

// Forwarder sends alerts to a notifier the first time they are observed in a
// session. Polls return overlapping windows of the backend log, so each alert
// is keyed and remembered.
type Forwarder struct {
	logger      *zap.Logger
	notifier    notifier.Notifier
	sessionID   string
	snapshotURL func(string) string
	maxSeen     int
	limiter     *rate.Limiter // nil means unlimited

	mu      sync.Mutex
	seen    map[string]struct{}
	sent    uint64
	dropped uint64
}

func NewForwarder(logger *zap.Logger, n notifier.Notifier, sessionID string, snapshotURL func(string) string) *Forwarder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Forwarder{
		logger:      logger,
		notifier:    n,
		sessionID:   sessionID,
		snapshotURL: snapshotURL,
		maxSeen:     defaultMaxSeen,
		seen:        make(map[string]struct{}),
	}
}

// SetRateLimit caps notifications at perMinute with the given burst. Alerts
// over the limit are dropped. perMinute <= 0 removes the limit.
func (f *Forwarder) SetRateLimit(perMinute, burst int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if perMinute <= 0 {
		f.limiter = nil
		return
	}
	f.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), max(burst, 1))
}

// Forward notifies about every alert in the payload not seen before and
// returns how many were sent.
func (f *Forwarder) Forward(alerts []detection.Alert, total int) int {
	if f == nil || f.notifier == nil || len(alerts) == 0 {
		return 0
	}

	f.mu.Lock()
	var fresh []detection.Alert
	for _, a := range alerts {
		key := a.Key()
		if _, ok := f.seen[key]; ok {
			continue
		}
		f.seen[key] = struct{}{}
		if f.limiter != nil && !f.limiter.Allow() {
			f.dropped++
			continue
		}
		fresh = append(fresh, a)
	}
	f.pruneLocked(alerts)
	f.sent += uint64(len(fresh))
	dropped := f.dropped
	f.mu.Unlock()

	for _, a := range fresh {
		f.notifier.SendDetectionAlert(notifier.NewDetectionAlert(a, f.sessionID, total, f.snapshotURL))
	}

	if len(fresh) > 0 {
		f.logger.Debug("forwarded new alerts",
			zap.Int("count", len(fresh)),
			zap.Int("total", total),
			zap.Uint64("droppedSoFar", dropped),
		)
	}
	return len(fresh)
}

// pruneLocked keeps the seen set bounded. The backend log only grows, so
// once an alert falls out of the payload window it never comes back and only
// the current window's keys need to be kept.
func (f *Forwarder) pruneLocked(window []detection.Alert) {
	if len(f.seen) <= f.maxSeen {
		return
	}
	f.seen = make(map[string]struct{}, len(window))
	for _, a := range window {
		f.seen[a.Key()] = struct{}{}
	}
	f.logger.Info("pruned seen alerts cache")
}

// Sent returns the number of alerts forwarded so far.
func (f *Forwarder) Sent() uint64 {
	if f == nil {
		return 0
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent
}

// Dropped returns the number of alerts skipped by the rate limit.
func (f *Forwarder) Dropped() uint64 {
	if f == nil {
		return 0
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dropped
}

// SeenCount returns the number of remembered alert keys.
func (f *Forwarder) SeenCount() int {
	if f == nil {
		return 0
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.seen)
}
