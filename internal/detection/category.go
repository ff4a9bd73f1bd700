// Package detection holds the domain types shared by the live monitor and the
// session summary: detection categories, alerts, the /get_alerts payload and
// the session clock.
package detection

import "strings"

// Category is a detection type reported by the backend.
// Values outside the known set are carried verbatim and formatted by fallback.
type Category string

const (
	// CategoryAll is the wildcard filter key. It never appears on an alert.
	CategoryAll Category = "all"

	HandGestures Category = "hand_gestures"
	MobilePhone  Category = "mobile_phone"
	Talking      Category = "talking"
)

// Categories lists the known detection categories in display order.
var Categories = []Category{HandGestures, MobilePhone, Talking}

// FilterKeys lists the filter keys in shortcut order (1=all ... 4=talking).
var FilterKeys = []Category{CategoryAll, HandGestures, MobilePhone, Talking}

// Known reports whether c is one of the known detection categories.
func (c Category) Known() bool {
	switch c {
	case HandGestures, MobilePhone, Talking:
		return true
	default:
		return false
	}
}

// ParseFilter parses a filter key. Only "all" and known categories are accepted.
func ParseFilter(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if c == CategoryAll || c.Known() {
		return c, true
	}
	return "", false
}

// MonitorLabel is the short label used in the live alert feed.
func MonitorLabel(c Category) string {
	switch c {
	case HandGestures:
		return "Suspicious Hand Gesture"
	case MobilePhone:
		return "Mobile Phone Detected"
	case Talking:
		return "Talking Detected"
	default:
		return fallbackLabel(c)
	}
}

// SummaryLabel is the label used in the session summary, detail view and exports.
func SummaryLabel(c Category) string {
	switch c {
	case HandGestures:
		return "Suspicious Hand Gestures"
	case MobilePhone:
		return "Mobile Phone Usage"
	case Talking:
		return "Talking/Mouth Movement"
	default:
		return fallbackLabel(c)
	}
}

// ShortLabel is the counter card title.
func ShortLabel(c Category) string {
	switch c {
	case HandGestures:
		return "Hand Gestures"
	case MobilePhone:
		return "Mobile Phone"
	case Talking:
		return "Talking"
	case CategoryAll:
		return "All Events"
	default:
		return fallbackLabel(c)
	}
}

// Icon returns the glyph shown next to a category label.
func Icon(c Category) string {
	switch c {
	case HandGestures:
		return "✋"
	case MobilePhone:
		return "📱"
	case Talking:
		return "💬"
	default:
		return "❗"
	}
}

// fallbackLabel replaces the first underscore with a space and uppercases.
func fallbackLabel(c Category) string {
	return strings.ToUpper(strings.Replace(string(c), "_", " ", 1))
}
