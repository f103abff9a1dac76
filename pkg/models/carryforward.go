package models

import "time"

// CarryForwardType categorizes the kind of obligation handed to later stages.
type CarryForwardType string

const (
	CarryInsight     CarryForwardType = "insight"
	CarryConstraint  CarryForwardType = "constraint"
	CarryRequirement CarryForwardType = "requirement"
	CarryAssumption  CarryForwardType = "assumption"
	CarryRisk        CarryForwardType = "risk"
)

// CarryForwardPriority grades how urgently an item must be addressed.
type CarryForwardPriority string

const (
	PriorityLow      CarryForwardPriority = "low"
	PriorityMedium   CarryForwardPriority = "medium"
	PriorityHigh     CarryForwardPriority = "high"
	PriorityCritical CarryForwardPriority = "critical"
)

// CarryForwardStatus is the lifecycle state of a carry-forward item.
// Items move active -> resolved or active -> outdated and stay there;
// outdated items are kept for audit history, never erased.
type CarryForwardStatus string

const (
	CarryActive   CarryForwardStatus = "active"
	CarryResolved CarryForwardStatus = "resolved"
	CarryOutdated CarryForwardStatus = "outdated"
)

// TargetAllStages is the sentinel target meaning "every later stage".
const TargetAllStages = "all"

// ItemValidation records who confirmed a carry-forward item and when.
type ItemValidation struct {
	Validated   bool      `yaml:"validated"`
	ValidatedBy string    `yaml:"validated_by,omitempty"`
	ValidatedAt time.Time `yaml:"validated_at,omitempty"`
	Notes       string    `yaml:"notes,omitempty"`
}

// CarryForwardItem is a unit of information later stages must account for.
type CarryForwardItem struct {
	ID           string               `yaml:"id"`
	Type         CarryForwardType     `yaml:"type"`
	Content      string               `yaml:"content"`
	SourceStage  string               `yaml:"source_stage,omitempty"`
	SourceTool   string               `yaml:"source_tool,omitempty"`
	TargetStages []string             `yaml:"target_stages"`
	Priority     CarryForwardPriority `yaml:"priority"`
	Status       CarryForwardStatus   `yaml:"status"`
	Validation   ItemValidation       `yaml:"validation"`
	CreatedAt    time.Time            `yaml:"created_at"`
}

// Targets reports whether the item applies to the given stage.
func (c CarryForwardItem) Targets(stageID string) bool {
	for _, t := range c.TargetStages {
		if t == stageID || t == TargetAllStages {
			return true
		}
	}
	return false
}

// ConsistencyStatus classifies a term-usage comparison across stages.
type ConsistencyStatus string

const (
	ConsistencyConsistent   ConsistencyStatus = "consistent"
	ConsistencyInconsistent ConsistencyStatus = "inconsistent"
	ConsistencyUnclear      ConsistencyStatus = "unclear"
)

// ConsistencyCheckType names the vocabulary dimension being compared.
type ConsistencyCheckType string

const (
	CheckTerminology ConsistencyCheckType = "terminology"
	CheckUserNeeds   ConsistencyCheckType = "user_needs"
	CheckConstraints ConsistencyCheckType = "constraints"
	CheckGoals       ConsistencyCheckType = "goals"
	CheckAssumptions ConsistencyCheckType = "assumptions"
)

// TermUsage records one observation of a tracked term in a stage's outputs.
type TermUsage struct {
	StageID    string    `yaml:"stage_id"`
	Value      string    `yaml:"value"`
	ObservedAt time.Time `yaml:"observed_at"`
}

// ConsistencyCheck compares a term's usage across stages. Checks are derived
// on every continuity query and never stored.
type ConsistencyCheck struct {
	Type           ConsistencyCheckType `yaml:"type"`
	Term           string               `yaml:"term"`
	CurrentValue   string               `yaml:"current_value"`
	PreviousValues []TermUsage          `yaml:"previous_values,omitempty"`
	Status         ConsistencyStatus    `yaml:"status"`
	Recommendation string               `yaml:"recommendation,omitempty"`
}
