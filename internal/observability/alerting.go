package observability

import (
	"fmt"
	"time"
)

// AlertSeverity represents the urgency of an alert.
type AlertSeverity string

const (
	SeverityHigh   AlertSeverity = "high"
	SeverityMedium AlertSeverity = "medium"
	SeverityLow    AlertSeverity = "low"
)

// Alert represents a triggered alert condition.
type Alert struct {
	ID          string        `json:"id"`
	Condition   string        `json:"condition"`
	Severity    AlertSeverity `json:"severity"`
	Message     string        `json:"message"`
	TriggeredAt time.Time     `json:"triggered_at"`
}

// AlertThresholds configures when alerts should fire.
type AlertThresholds struct {
	StaleSessionDays int `yaml:"stale_session_days" json:"stale_session_days"`
	LowScoreFloor    int `yaml:"low_score_floor" json:"low_score_floor"`
	LowScoreStreak   int `yaml:"low_score_streak" json:"low_score_streak"`
	DegradedWindow   int `yaml:"degraded_window_hours" json:"degraded_window_hours"`
}

// DefaultAlertThresholds returns sensible defaults for alert thresholds.
func DefaultAlertThresholds() AlertThresholds {
	return AlertThresholds{
		StaleSessionDays: 3,
		LowScoreFloor:    55,
		LowScoreStreak:   3,
		DegradedWindow:   24,
	}
}

// AlertEngine evaluates alert conditions against the event log.
type AlertEngine interface {
	Evaluate() ([]Alert, error)
}

type alertEngine struct {
	eventLog   EventLog
	thresholds AlertThresholds
}

// NewAlertEngine creates a new AlertEngine with the given EventLog and thresholds.
func NewAlertEngine(eventLog EventLog, thresholds AlertThresholds) AlertEngine {
	return &alertEngine{
		eventLog:   eventLog,
		thresholds: thresholds,
	}
}

// Evaluate reads events and checks all alert conditions, returning any triggered alerts.
func (ae *alertEngine) Evaluate() ([]Alert, error) {
	now := time.Now().UTC()
	var alerts []Alert

	staleAlerts, err := ae.checkStaleSessions(now)
	if err != nil {
		return nil, fmt.Errorf("checking stale sessions: %w", err)
	}
	alerts = append(alerts, staleAlerts...)

	scoreAlerts, err := ae.checkLowScores(now)
	if err != nil {
		return nil, fmt.Errorf("checking low scores: %w", err)
	}
	alerts = append(alerts, scoreAlerts...)

	degradedAlerts, err := ae.checkDegradedUpstream(now)
	if err != nil {
		return nil, fmt.Errorf("checking degraded upstream: %w", err)
	}
	alerts = append(alerts, degradedAlerts...)

	return alerts, nil
}

// checkStaleSessions flags sessions started but with no stage transition
// inside the stale window.
func (ae *alertEngine) checkStaleSessions(now time.Time) ([]Alert, error) {
	started, err := ae.eventLog.Read(EventFilter{Type: EventSessionStarted})
	if err != nil {
		return nil, err
	}
	transitions, err := ae.eventLog.Read(EventFilter{Type: EventStageTransitioned})
	if err != nil {
		return nil, err
	}

	lastActivity := make(map[string]time.Time)
	for _, e := range started {
		if id, ok := e.Data["session_id"].(string); ok {
			lastActivity[id] = e.Time
		}
	}
	for _, e := range transitions {
		if id, ok := e.Data["session_id"].(string); ok {
			if e.Time.After(lastActivity[id]) {
				lastActivity[id] = e.Time
			}
		}
	}

	staleCutoff := now.Add(-time.Duration(ae.thresholds.StaleSessionDays) * 24 * time.Hour)
	var alerts []Alert
	for id, last := range lastActivity {
		if last.Before(staleCutoff) {
			alerts = append(alerts, Alert{
				ID:          fmt.Sprintf("stale-session-%s", id),
				Condition:   "stale_session",
				Severity:    SeverityMedium,
				Message:     fmt.Sprintf("session %s has had no activity since %s", id, last.Format("2006-01-02")),
				TriggeredAt: now,
			})
		}
	}
	return alerts, nil
}

// checkLowScores flags a run of consecutive sub-floor quality scores.
func (ae *alertEngine) checkLowScores(now time.Time) ([]Alert, error) {
	scored, err := ae.eventLog.Read(EventFilter{Type: EventTextScored})
	if err != nil {
		return nil, err
	}

	streak := 0
	for _, e := range scored {
		score, ok := e.Data["score"].(float64)
		if !ok {
			continue
		}
		if int(score) < ae.thresholds.LowScoreFloor {
			streak++
		} else {
			streak = 0
		}
	}

	if streak >= ae.thresholds.LowScoreStreak {
		return []Alert{{
			ID:          "low-score-streak",
			Condition:   "low_quality_streak",
			Severity:    SeverityHigh,
			Message:     fmt.Sprintf("last %d scored texts were below %d; review method choice or context", streak, ae.thresholds.LowScoreFloor),
			TriggeredAt: now,
		}}, nil
	}
	return nil, nil
}

// checkDegradedUpstream flags recent persistence or knowledge-source failures.
func (ae *alertEngine) checkDegradedUpstream(now time.Time) ([]Alert, error) {
	since := now.Add(-time.Duration(ae.thresholds.DegradedWindow) * time.Hour)
	degraded, err := ae.eventLog.Read(EventFilter{Type: EventUpstreamDegraded, Since: &since})
	if err != nil {
		return nil, err
	}

	if len(degraded) == 0 {
		return nil, nil
	}
	return []Alert{{
		ID:          "upstream-degraded",
		Condition:   "upstream_degraded",
		Severity:    SeverityMedium,
		Message:     fmt.Sprintf("%d degraded upstream operations in the last %dh", len(degraded), ae.thresholds.DegradedWindow),
		TriggeredAt: now,
	}}, nil
}
