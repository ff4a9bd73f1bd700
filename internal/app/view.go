package app

import (
	"examwatch/internal/detection"
	"time"
)

const (
	StatusActive = "AI MONITORING ACTIVE"
	StatusLost   = "CONNECTION LOST"
)

// View is an immutable snapshot of the live monitoring state. Each state
// change produces a new View; receivers may keep it without copying.
type View struct {
	SessionID    string    `json:"session_id"`
	SessionStart time.Time `json:"session_start"`

	Status    string `json:"status"`
	Connected bool   `json:"connected"`

	Clock    string `json:"clock"`    // wall clock text
	Duration string `json:"duration"` // HH:MM:SS since session start

	HandGestures int    `json:"hand_gestures"`
	MobilePhone  int    `json:"mobile_phone"`
	Talking      int    `json:"talking"`
	TotalEvents  int    `json:"total_events"`
	Rate         string `json:"rate"` // events per minute, one decimal

	Feed       []FeedEntry `json:"feed"`
	AutoScroll bool        `json:"auto_scroll"` // feed changed; scroll to newest

	LastPollAt time.Time `json:"last_poll_at,omitempty"`
	LastError  string    `json:"last_error,omitempty"`
	Polls      uint64    `json:"polls"`
	PollErrors uint64    `json:"poll_errors"`
}

// Count returns the counter shown for category c.
func (v View) Count(c detection.Category) int {
	switch c {
	case detection.HandGestures:
		return v.HandGestures
	case detection.MobilePhone:
		return v.MobilePhone
	case detection.Talking:
		return v.Talking
	case detection.CategoryAll:
		return v.TotalEvents
	default:
		return 0
	}
}
