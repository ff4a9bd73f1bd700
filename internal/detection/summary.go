package detection

import (
	"encoding/json"
)

// Summary is the /get_alerts payload: per-category counts, the session total
// and the most recent alerts.
type Summary struct {
	Counts      map[Category]int
	TotalEvents int
	Alerts      []Alert
}

// Count returns the count for c, zero when absent.
func (s *Summary) Count(c Category) int {
	if s == nil || s.Counts == nil {
		return 0
	}
	return s.Counts[c]
}

type summaryJSON struct {
	Counts      json.RawMessage `json:"counts"`
	TotalEvents json.RawMessage `json:"total_events"`
	Alerts      json.RawMessage `json:"alerts"`
}

// UnmarshalJSON decodes the payload. Shape deviations fall back to zero
// counts and an empty alert list instead of failing; only a body that is not
// a JSON object is an error.
func (s *Summary) UnmarshalJSON(data []byte) error {
	var raw summaryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	s.Counts = make(map[Category]int)
	var counts map[string]json.RawMessage
	if err := json.Unmarshal(raw.Counts, &counts); err == nil {
		for k, v := range counts {
			s.Counts[Category(k)] = int(numberOrZero(v))
		}
	}

	s.TotalEvents = int(numberOrZero(raw.TotalEvents))

	s.Alerts = s.Alerts[:0]
	var items []json.RawMessage
	if err := json.Unmarshal(raw.Alerts, &items); err == nil {
		for _, item := range items {
			var a Alert
			if err := json.Unmarshal(item, &a); err != nil {
				continue
			}
			s.Alerts = append(s.Alerts, a)
		}
	}
	if s.Alerts == nil {
		s.Alerts = []Alert{}
	}
	return nil
}

// MarshalJSON encodes the payload in the backend's wire shape.
func (s Summary) MarshalJSON() ([]byte, error) {
	counts := make(map[string]int, len(s.Counts))
	for k, v := range s.Counts {
		counts[string(k)] = v
	}
	alerts := s.Alerts
	if alerts == nil {
		alerts = []Alert{}
	}
	return json.Marshal(struct {
		Counts      map[string]int `json:"counts"`
		TotalEvents int            `json:"total_events"`
		Alerts      []Alert        `json:"alerts"`
	}{counts, s.TotalEvents, alerts})
}

// Recent returns at most n of the newest alerts, oldest first.
func Recent(alerts []Alert, n int) []Alert {
	if n <= 0 {
		return nil
	}
	if len(alerts) <= n {
		return alerts
	}
	return alerts[len(alerts)-n:]
}
