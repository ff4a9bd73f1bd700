package detection

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// SessionClock captures the session start and derives elapsed time and the
// detection rate from it.
type SessionClock struct {
	start time.Time
	now   func() time.Time
}

// NewSessionClock starts a clock at now(). A nil now uses time.Now.
func NewSessionClock(now func() time.Time) *SessionClock {
	if now == nil {
		now = time.Now
	}
	return &SessionClock{start: now(), now: now}
}

// Start returns the session start instant.
func (c *SessionClock) Start() time.Time {
	return c.start
}

// Now returns the clock's current instant.
func (c *SessionClock) Now() time.Time {
	return c.now()
}

// Elapsed returns the time since the session started, never negative.
func (c *SessionClock) Elapsed() time.Duration {
	d := c.now().Sub(c.start)
	if d < 0 {
		return 0
	}
	return d
}

// Duration returns the elapsed time formatted as HH:MM:SS.
func (c *SessionClock) Duration() string {
	return FormatDuration(c.Elapsed())
}

// Rate returns the detection rate for total events over the elapsed time.
func (c *SessionClock) Rate(total int) string {
	return DetectionRate(total, c.Elapsed())
}

// FormatDuration renders d as zero-padded HH:MM:SS using integer division of
// elapsed milliseconds. Hours are not capped.
func FormatDuration(d time.Duration) string {
	ms := d.Milliseconds()
	if ms < 0 {
		ms = 0
	}
	hours := ms / (1000 * 60 * 60)
	minutes := (ms % (1000 * 60 * 60)) / (1000 * 60)
	seconds := (ms % (1000 * 60)) / 1000
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

// DetectionRate returns events per minute with one decimal place, "0.0" when
// no time has elapsed.
func DetectionRate(total int, elapsed time.Duration) string {
	minutes := float64(elapsed.Milliseconds()) / (1000 * 60)
	if minutes <= 0 {
		return "0.0"
	}
	rate := math.Round(float64(total)/minutes*10) / 10
	return strconv.FormatFloat(rate, 'f', 1, 64)
}
