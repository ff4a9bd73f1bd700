package detection

import (
	"encoding/json"
	"testing"
	"time"
)

func TestLabels(t *testing.T) {
	tests := []struct {
		category Category
		monitor  string
		summary  string
		icon     string
	}{
		{HandGestures, "Suspicious Hand Gesture", "Suspicious Hand Gestures", "✋"},
		{MobilePhone, "Mobile Phone Detected", "Mobile Phone Usage", "📱"},
		{Talking, "Talking Detected", "Talking/Mouth Movement", "💬"},
		{Category("eye_contact"), "EYE CONTACT", "EYE CONTACT", "❗"},
		{Category("looking_away_left"), "LOOKING AWAY_LEFT", "LOOKING AWAY_LEFT", "❗"},
	}
	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			if got := MonitorLabel(tt.category); got != tt.monitor {
				t.Errorf("MonitorLabel = %q, want %q", got, tt.monitor)
			}
			if got := SummaryLabel(tt.category); got != tt.summary {
				t.Errorf("SummaryLabel = %q, want %q", got, tt.summary)
			}
			if got := Icon(tt.category); got != tt.icon {
				t.Errorf("Icon = %q, want %q", got, tt.icon)
			}
		})
	}
}

func TestParseFilter(t *testing.T) {
	for _, key := range []string{"all", "hand_gestures", "mobile_phone", " Talking "} {
		if _, ok := ParseFilter(key); !ok {
			t.Errorf("expected %q to parse", key)
		}
	}
	if _, ok := ParseFilter("eye_contact"); ok {
		t.Error("expected eye_contact to be rejected")
	}
	if CategoryAll.Known() {
		t.Error("all is not a detection category")
	}
}

func TestSummaryDecode_Scenario(t *testing.T) {
	body := `{"counts":{"hand_gestures":3,"mobile_phone":0,"talking":1},"total_events":4,
		"alerts":[{"type":"talking","confidence":0.82,"timestamp":"2024-01-15T10:30:00.123456","snapshot":"s1.jpg"}]}`

	var s Summary
	if err := json.Unmarshal([]byte(body), &s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.Count(HandGestures) != 3 || s.Count(MobilePhone) != 0 || s.Count(Talking) != 1 {
		t.Errorf("unexpected counts: %+v", s.Counts)
	}
	if s.TotalEvents != 4 {
		t.Errorf("expected 4 total events, got %d", s.TotalEvents)
	}
	if len(s.Alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(s.Alerts))
	}

	a := s.Alerts[0]
	if a.Type != Talking {
		t.Errorf("unexpected type: %s", a.Type)
	}
	if a.Percent() != 82 {
		t.Errorf("expected 82%%, got %d", a.Percent())
	}
	if !a.HasSnapshot() {
		t.Error("expected snapshot")
	}
	if got := MonitorLabel(a.Type); got != "Talking Detected" {
		t.Errorf("unexpected label: %s", got)
	}
	if got := FormatTime(a.Timestamp); got != "10:30:00 AM" {
		t.Errorf("unexpected time: %s", got)
	}
}

func TestSummaryDecode_ShapeDeviations(t *testing.T) {
	tests := map[string]string{
		"empty object":      `{}`,
		"null fields":       `{"counts":null,"total_events":null,"alerts":null}`,
		"wrong types":       `{"counts":[1,2],"total_events":"many","alerts":{"a":1}}`,
		"partial counts":    `{"counts":{"talking":"x"}}`,
		"bad alert element": `{"alerts":[42,"nope"]}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			var s Summary
			if err := json.Unmarshal([]byte(body), &s); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, c := range Categories {
				if s.Count(c) != 0 {
					t.Errorf("expected zero %s, got %d", c, s.Count(c))
				}
			}
			if s.TotalEvents != 0 {
				t.Errorf("expected zero total, got %d", s.TotalEvents)
			}
			if s.Alerts == nil || len(s.Alerts) != 0 {
				t.Errorf("expected empty non-nil alerts, got %#v", s.Alerts)
			}
		})
	}

	var s Summary
	if err := json.Unmarshal([]byte(`not json`), &s); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestAlertDecode_Defaults(t *testing.T) {
	var a Alert
	if err := json.Unmarshal([]byte(`{"type":"mobile_phone"}`), &a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Type != MobilePhone || a.Confidence != 0 {
		t.Errorf("unexpected alert: %+v", a)
	}
	if !a.Timestamp.IsZero() {
		t.Errorf("expected zero timestamp, got %v", a.Timestamp)
	}
	if a.HasSnapshot() {
		t.Error("expected no snapshot")
	}
	if got := FormatDate(a.Timestamp); got != "Invalid Date" {
		t.Errorf("unexpected date: %s", got)
	}

	if err := json.Unmarshal([]byte(`{"type":"talking","confidence":"0.5","count":7,"snapshot":null}`), &a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Percent() != 50 || a.Count != 7 {
		t.Errorf("unexpected alert: %+v", a)
	}
	if a.HasSnapshot() {
		t.Error("expected null snapshot to be absent")
	}
}

func TestAlertRoundTrip(t *testing.T) {
	ts := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	a := Alert{Type: HandGestures, Confidence: 0.75, Timestamp: ts, Snapshot: "x.jpg"}

	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var back Alert
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back.Type != a.Type || !ts.Equal(back.Timestamp) {
		t.Errorf("round trip mismatch: %+v", back)
	}
	if back.Key() != a.Key() {
		t.Errorf("key changed: %s != %s", back.Key(), a.Key())
	}
}

func TestParseTimestamp(t *testing.T) {
	for _, s := range []string{
		"2024-01-15T10:30:00Z",
		"2024-01-15T10:30:00+02:00",
		"2024-01-15T10:30:00",
		"2024-01-15 10:30:00.5",
	} {
		if ParseTimestamp(s).IsZero() {
			t.Errorf("expected %q to parse", s)
		}
	}

	if loc := ParseTimestamp("2024-01-15T10:30:00").Location(); loc != time.Local {
		t.Errorf("expected local time, got %v", loc)
	}

	for _, s := range []string{"", "yesterday"} {
		if !ParseTimestamp(s).IsZero() {
			t.Errorf("expected %q to be rejected", s)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	tests := map[float64]string{0.82: "82%", 1: "100%", 0: "0%", 0.666: "67%"}
	for in, want := range tests {
		if got := FormatPercent(in); got != want {
			t.Errorf("FormatPercent(%v) = %s, want %s", in, got, want)
		}
	}
}

func TestRecent(t *testing.T) {
	alerts := make([]Alert, 15)
	for i := range alerts {
		alerts[i].Count = i
	}
	recent := Recent(alerts, 10)
	if len(recent) != 10 {
		t.Fatalf("expected 10 alerts, got %d", len(recent))
	}
	if recent[0].Count != 5 || recent[9].Count != 14 {
		t.Errorf("expected the last 10 alerts, got %d..%d", recent[0].Count, recent[9].Count)
	}

	if got := Recent(alerts[:3], 10); len(got) != 3 {
		t.Errorf("expected 3 alerts, got %d", len(got))
	}
	if got := Recent(alerts, 0); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00"},
		{999 * time.Millisecond, "00:00:00"},
		{61 * time.Second, "00:01:01"},
		{3*time.Hour + 4*time.Minute + 5*time.Second, "03:04:05"},
		{101 * time.Hour, "101:00:00"},
		{-5 * time.Second, "00:00:00"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %s, want %s", tt.d, got, tt.want)
		}
	}
}

func TestDetectionRate(t *testing.T) {
	tests := []struct {
		total   int
		elapsed time.Duration
		want    string
	}{
		{4, 0, "0.0"},
		{0, 0, "0.0"},
		{4, 2 * time.Minute, "2.0"},
		{4, 3 * time.Minute, "1.3"},
		{1, 4 * time.Minute, "0.3"},
		{4, time.Second, "240.0"},
	}
	for _, tt := range tests {
		if got := DetectionRate(tt.total, tt.elapsed); got != tt.want {
			t.Errorf("DetectionRate(%d, %v) = %s, want %s", tt.total, tt.elapsed, got, tt.want)
		}
	}
}

func TestSessionClock(t *testing.T) {
	start := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	now := start
	clock := NewSessionClock(func() time.Time { return now })

	if !clock.Start().Equal(start) {
		t.Errorf("unexpected start: %v", clock.Start())
	}
	if clock.Duration() != "00:00:00" || clock.Rate(10) != "0.0" {
		t.Errorf("unexpected initial clock: %s %s", clock.Duration(), clock.Rate(10))
	}

	now = start.Add(90 * time.Minute)
	if clock.Duration() != "01:30:00" {
		t.Errorf("unexpected duration: %s", clock.Duration())
	}
	if clock.Rate(180) != "2.0" {
		t.Errorf("unexpected rate: %s", clock.Rate(180))
	}
}
