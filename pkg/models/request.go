package models

// IntegratedContextRequest is the orchestrator's single-call input: one
// request describes everything needed to produce a context-aware prompt.
type IntegratedContextRequest struct {
	ProjectID       string            `yaml:"project_id"`
	FrameworkID     string            `yaml:"framework_id"`
	StageID         string            `yaml:"stage_id"`
	ToolID          string            `yaml:"tool_id"`
	MethodID        string            `yaml:"method_id"`
	Instruction     string            `yaml:"instruction,omitempty"`
	UserInputs      map[string]any    `yaml:"user_inputs,omitempty"`
	UserPreferences map[string]string `yaml:"user_preferences,omitempty"`
	Options         ProcessingOptions `yaml:"options"`
}

// ContextQualityMetrics are the orchestrator's five [0,1] ratios describing
// how well-supported the generated prompt is, plus an overall confidence.
type ContextQualityMetrics struct {
	ContextRichness         float64 `yaml:"context_richness"`
	VariableCompleteness    float64 `yaml:"variable_completeness"`
	WorkflowConsistency     float64 `yaml:"workflow_consistency"`
	AccessibilityCompliance float64 `yaml:"accessibility_compliance"`
	OverallQuality          float64 `yaml:"overall_quality"`
	ConfidenceScore         float64 `yaml:"confidence_score"`
}

// WorkflowContinuity is the continuity engine's answer for "what must this
// stage know about everything that happened before it".
type WorkflowContinuity struct {
	SessionID         string             `yaml:"session_id"`
	CarryForwardItems []CarryForwardItem `yaml:"carry_forward_items,omitempty"`
	PreviousOutputs   []GeneratedOutput  `yaml:"previous_outputs,omitempty"`
	KeyDecisions      []Decision         `yaml:"key_decisions,omitempty"`
	ConsistencyChecks []ConsistencyCheck `yaml:"consistency_checks,omitempty"`
	Suggestions       []string           `yaml:"suggestions,omitempty"`
}

// IntegratedContextResponse is the orchestrator's single-call output.
type IntegratedContextResponse struct {
	ProcessedContext  []EnrichedKnowledgeEntry `yaml:"processed_context,omitempty"`
	Continuity        *WorkflowContinuity      `yaml:"continuity,omitempty"`
	EnhancedVariables map[string]any           `yaml:"enhanced_variables,omitempty"`
	ProcessedTemplate string                   `yaml:"processed_template"`
	SynthesizedPrompt string                   `yaml:"synthesized_prompt"`
	QualityMetrics    ContextQualityMetrics    `yaml:"quality_metrics"`
	Validation        *QualityValidationResult `yaml:"validation,omitempty"`
	Recommendations   []string                 `yaml:"recommendations,omitempty"`
	Warnings          []string                 `yaml:"warnings,omitempty"`
}
