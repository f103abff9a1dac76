package models

import "time"

// SessionStatus is the lifecycle state of a workflow session.
type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionPaused    SessionStatus = "paused"
	SessionCompleted SessionStatus = "completed"
	SessionAbandoned SessionStatus = "abandoned"
)

// Terminal reports whether the status accepts no further transitions.
func (s SessionStatus) Terminal() bool {
	return s == SessionCompleted || s == SessionAbandoned
}

// SessionMetadata carries descriptive attributes of a workflow run.
type SessionMetadata struct {
	ParticipantCount   int    `yaml:"participant_count,omitempty"`
	SessionType        string `yaml:"session_type,omitempty"`
	QualityLevel       string `yaml:"quality_level,omitempty"`
	AccessibilityFocus bool   `yaml:"accessibility_focus,omitempty"`
}

// WorkflowSession represents one end-to-end run of a framework for a project.
// Sessions are never deleted; they only move to a terminal status.
type WorkflowSession struct {
	ID             string          `yaml:"id"`
	ProjectID      string          `yaml:"project_id"`
	FrameworkID    string          `yaml:"framework_id"`
	CurrentStageID string          `yaml:"current_stage_id,omitempty"`
	Status         SessionStatus   `yaml:"status"`
	StartedAt      time.Time       `yaml:"started_at"`
	LastActivityAt time.Time       `yaml:"last_activity_at"`
	Metadata       SessionMetadata `yaml:"metadata,omitempty"`
}

// ValidationStatus marks how far a transition's outputs have been reviewed.
type ValidationStatus string

const (
	ValidationPending       ValidationStatus = "pending"
	ValidationValidated     ValidationStatus = "validated"
	ValidationNeedsRevision ValidationStatus = "needs_revision"
)

// GeneratedOutput is one piece of generated or authored text produced while
// working a stage with a particular tool.
type GeneratedOutput struct {
	ToolID    string    `yaml:"tool_id,omitempty"`
	Content   string    `yaml:"content"`
	CreatedAt time.Time `yaml:"created_at"`
}

// StageTransition is an append-only record of a move into a new stage,
// carrying everything that stage produced.
type StageTransition struct {
	ID                string             `yaml:"id"`
	SessionID         string             `yaml:"session_id"`
	FromStageID       string             `yaml:"from_stage_id,omitempty"`
	ToStageID         string             `yaml:"to_stage_id"`
	TransitionedAt    time.Time          `yaml:"transitioned_at"`
	Outputs           []GeneratedOutput  `yaml:"outputs,omitempty"`
	Decisions         []Decision         `yaml:"decisions,omitempty"`
	Insights          []string           `yaml:"insights,omitempty"`
	CarryForwardItems []CarryForwardItem `yaml:"carry_forward_items,omitempty"`
	ValidationStatus  ValidationStatus   `yaml:"validation_status"`
}

// SessionIndex is the master index of all workflow sessions.
type SessionIndex struct {
	Version  string            `yaml:"version"`
	Sessions []WorkflowSession `yaml:"sessions"`
}

// SessionAnalytics summarizes a session's progress. Computed on demand,
// never persisted.
type SessionAnalytics struct {
	SessionID        string        `yaml:"session_id"`
	Duration         time.Duration `yaml:"duration"`
	StagesCompleted  int           `yaml:"stages_completed"`
	DecisionCount    int           `yaml:"decision_count"`
	OutputCount      int           `yaml:"output_count"`
	ActiveCarryItems int           `yaml:"active_carry_items"`
	ConsistencyScore float64       `yaml:"consistency_score"`
}
