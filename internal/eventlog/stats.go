package eventlog

import (
	"examwatch/internal/detection"
)

// Stats summarises a recorded session.
type Stats struct {
	TotalEvents   int
	Rate          string             // events per minute over the session bounds
	MostCommon    detection.Category // empty for a log without events
	AvgConfidence float64            // fraction in [0,1]
}

// MostCommonLabel returns the summary label of the most frequent detection
// type, or "N/A" when there is none.
func (s Stats) MostCommonLabel() string {
	if s.MostCommon == "" {
		return notApplicable
	}
	return detection.SummaryLabel(s.MostCommon)
}

// AvgPercent returns the average confidence as a rendered percentage.
func (s Stats) AvgPercent() string {
	return detection.FormatPercent(s.AvgConfidence)
}

// Stats computes the session statistics. The rate is "0.0" unless both
// session bounds are known and the session has a positive length. Ties for
// the most common type go to the type seen first.
func (l *Log) Stats() Stats {
	s := Stats{Rate: detection.DetectionRate(0, 0)}
	if l.Len() == 0 {
		return s
	}
	s.TotalEvents = len(l.events)

	if !l.sessionStart.IsZero() && !l.sessionEnd.IsZero() {
		s.Rate = detection.DetectionRate(s.TotalEvents, l.sessionEnd.Sub(l.sessionStart))
	}

	counts := make(map[detection.Category]int)
	var order []detection.Category
	var total float64
	for _, e := range l.events {
		if counts[e.Type] == 0 {
			order = append(order, e.Type)
		}
		counts[e.Type]++
		total += e.Confidence
	}

	best := 0
	for _, c := range order {
		if counts[c] > best {
			best = counts[c]
			s.MostCommon = c
		}
	}
	s.AvgConfidence = total / float64(s.TotalEvents)
	return s
}
