package observability

import (
	"fmt"
	"time"
)

// Metrics holds calculated metrics derived from the event log.
type Metrics struct {
	SessionsStarted  int            `json:"sessions_started"`
	StageTransitions int            `json:"stage_transitions"`
	PromptsGenerated int            `json:"prompts_generated"`
	TextsScored      int            `json:"texts_scored"`
	DecisionsLogged  int            `json:"decisions_logged"`
	ScoresByBucket   map[string]int `json:"scores_by_bucket"`
	AverageScore     float64        `json:"average_score"`
	EventCount       int            `json:"event_count"`
	OldestEvent      *time.Time     `json:"oldest_event,omitempty"`
	NewestEvent      *time.Time     `json:"newest_event,omitempty"`
}

// MetricsCalculator derives metrics from the event log.
type MetricsCalculator interface {
	Calculate(since time.Time) (*Metrics, error)
}

// metricsCalculator implements MetricsCalculator by reading from an EventLog.
type metricsCalculator struct {
	eventLog EventLog
}

// NewMetricsCalculator creates a new MetricsCalculator that reads from the given EventLog.
func NewMetricsCalculator(eventLog EventLog) MetricsCalculator {
	return &metricsCalculator{eventLog: eventLog}
}

// Calculate reads all events since the given time and aggregates them into metrics.
func (mc *metricsCalculator) Calculate(since time.Time) (*Metrics, error) {
	events, err := mc.eventLog.Read(EventFilter{Since: &since})
	if err != nil {
		return nil, fmt.Errorf("reading events for metrics: %w", err)
	}

	m := &Metrics{
		ScoresByBucket: make(map[string]int),
	}
	m.EventCount = len(events)

	scoreSum := 0
	scoreCount := 0

	for i, event := range events {
		if i == 0 {
			t := event.Time
			m.OldestEvent = &t
		}
		t := event.Time
		m.NewestEvent = &t

		switch event.Type {
		case EventSessionStarted:
			m.SessionsStarted++
		case EventStageTransitioned:
			m.StageTransitions++
		case EventPromptGenerated:
			m.PromptsGenerated++
		case EventDecisionRecorded:
			m.DecisionsLogged++
		case EventTextScored:
			m.TextsScored++
			if bucket, ok := event.Data["bucket"].(string); ok {
				m.ScoresByBucket[bucket]++
			}
			// JSON numbers decode as float64.
			if score, ok := event.Data["score"].(float64); ok {
				scoreSum += int(score)
				scoreCount++
			}
		}
	}

	if scoreCount > 0 {
		m.AverageScore = float64(scoreSum) / float64(scoreCount)
	}

	return m, nil
}
