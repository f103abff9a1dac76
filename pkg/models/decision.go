package models

import "time"

// ImpactLevel grades how far-reaching a decision is.
type ImpactLevel string

const (
	ImpactLow    ImpactLevel = "low"
	ImpactMedium ImpactLevel = "medium"
	ImpactHigh   ImpactLevel = "high"
)

// Decision is a recorded choice with its rationale. Decisions are immutable
// once recorded; follow-up is tracked through derived carry-forward items.
type Decision struct {
	ID           string      `yaml:"id"`
	StageID      string      `yaml:"stage_id,omitempty"`
	Title        string      `yaml:"title"`
	Rationale    string      `yaml:"rationale,omitempty"`
	Alternatives []string    `yaml:"alternatives,omitempty"`
	Impact       ImpactLevel `yaml:"impact"`
	Reversible   bool        `yaml:"reversible"`
	Stakeholders []string    `yaml:"stakeholders,omitempty"`
	Evidence     []string    `yaml:"evidence,omitempty"`
	NeedsReview  bool        `yaml:"needs_review,omitempty"`
	RecordedAt   time.Time   `yaml:"recorded_at"`
}
