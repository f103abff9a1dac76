package core

import (
	"fmt"
	"strings"

	"github.com/praxiskit/praxis/internal/catalog"
	"github.com/praxiskit/praxis/internal/observability"
	"github.com/praxiskit/praxis/internal/storage"
	"github.com/praxiskit/praxis/pkg/models"
)

// Orchestrator is the one-call entry point that chains context ranking,
// workflow continuity, template compilation, and quality scoring into a
// single context-aware prompt.
type Orchestrator interface {
	ProcessIntegratedContext(req models.IntegratedContextRequest) (*models.IntegratedContextResponse, error)
}

type orchestrator struct {
	catalog   catalog.Catalog
	knowledge storage.KnowledgeStore
	ranker    ContextRanker
	tracker   ContinuityTracker
	compiler  PromptCompiler
	scorer    QualityScorer
	eventLog  observability.EventLog

	defaults      models.ProcessingOptions
	accessibility bool
}

// NewOrchestrator wires the engines together. eventLog may be nil when
// observability is disabled, and cfg may be nil to use the built-in
// processing defaults.
func NewOrchestrator(cat catalog.Catalog, knowledge storage.KnowledgeStore, ranker ContextRanker, tracker ContinuityTracker, compiler PromptCompiler, scorer QualityScorer, eventLog observability.EventLog, cfg *models.GlobalConfig) Orchestrator {
	defaults := models.DefaultProcessingOptions()
	accessibility := false
	if cfg != nil {
		if cfg.Processing.MaxEntries > 0 {
			defaults.MaxEntries = cfg.Processing.MaxEntries
		}
		if cfg.Processing.RelevanceThreshold > 0 {
			defaults.RelevanceThreshold = cfg.Processing.RelevanceThreshold
		}
		defaults.PrioritizeRecent = cfg.Processing.PrioritizeRecent
		accessibility = cfg.AccessibilityMode
	}

	return &orchestrator{
		catalog:       cat,
		knowledge:     knowledge,
		ranker:        ranker,
		tracker:       tracker,
		compiler:      compiler,
		scorer:        scorer,
		eventLog:      eventLog,
		defaults:      defaults,
		accessibility: accessibility,
	}
}

// ProcessIntegratedContext produces a context-aware prompt for the request.
// Bad input fails fast; upstream failures degrade instead, recorded as
// warnings and priced into the confidence score. Only a compile failure of
// the method template itself aborts the call.
func (o *orchestrator) ProcessIntegratedContext(req models.IntegratedContextRequest) (*models.IntegratedContextResponse, error) {
	if req.ProjectID == "" {
		return nil, &ValidationError{Code: CodeInvalidArgument, Param: "projectId", Message: "must not be empty"}
	}
	if _, ok := catalog.Method(req.MethodID); !ok {
		return nil, ErrUnknownMethod(req.MethodID)
	}
	if err := o.compiler.ValidateParameters(req.MethodID, req.UserInputs); err != nil {
		return nil, err
	}

	// All-zero options take the configured defaults wholesale; a partially
	// set Options fills each unset numeric field independently, so setting
	// only a cap still gets the default threshold.
	opts := req.Options
	if opts == (models.ProcessingOptions{}) {
		opts = o.defaults
	} else {
		if opts.MaxEntries == 0 {
			opts.MaxEntries = o.defaults.MaxEntries
		}
		if opts.RelevanceThreshold == 0 {
			opts.RelevanceThreshold = o.defaults.RelevanceThreshold
		}
	}

	resp := &models.IntegratedContextResponse{}

	// Knowledge context. A failing knowledge base degrades to no context.
	entries, err := o.knowledge.GetAllEntries()
	if err != nil {
		o.degrade(resp, "knowledge base unavailable; continuing without context", err)
	} else {
		resp.ProcessedContext = o.ranker.ProcessContext(req.ProjectID, entries, req.FrameworkID, req.StageID, req.ToolID, opts)
	}

	// Workflow continuity. One active session per project+framework pair is
	// reused; a fresh one is started otherwise.
	session, err := o.tracker.FindActiveSession(req.ProjectID, req.FrameworkID)
	if err != nil {
		o.degrade(resp, "session lookup failed; continuing without continuity", err)
	} else {
		if session == nil {
			session, err = o.tracker.StartSession(req.ProjectID, req.FrameworkID,
				models.SessionMetadata{AccessibilityFocus: o.accessibility})
			if err != nil {
				o.degrade(resp, "session could not be started; continuing without continuity", err)
				session = nil
			}
		}
		if session != nil {
			continuity, err := o.tracker.GetContinuity(session.ID, req.StageID, req.ToolID)
			if err != nil {
				o.degrade(resp, "continuity unavailable; continuing without it", err)
			} else {
				resp.Continuity = continuity
			}
		}
	}

	resp.EnhancedVariables = o.enhanceVariables(req, resp)

	compiled, err := o.compiler.Compile(models.PromptRequest{
		MethodID:    req.MethodID,
		Instruction: req.Instruction,
		Variables:   resp.EnhancedVariables,
	})
	if err != nil {
		return nil, fmt.Errorf("processing integrated context: %w", err)
	}
	resp.ProcessedTemplate = compiled
	resp.SynthesizedPrompt = o.synthesize(compiled, resp)

	resp.Validation = o.scorer.Score(resp.SynthesizedPrompt, req.ToolID, req.UserPreferences["industry"])
	resp.Recommendations = resp.Validation.Recommendations
	resp.QualityMetrics = o.qualityMetrics(req, resp, opts)

	observability.Emit(o.eventLog, "INFO", observability.EventPromptGenerated,
		fmt.Sprintf("integrated prompt generated for project %s with %s", req.ProjectID, req.MethodID),
		map[string]any{
			"project_id": req.ProjectID,
			"method_id":  req.MethodID,
			"confidence": resp.QualityMetrics.ConfidenceScore,
			"warnings":   len(resp.Warnings),
		})

	return resp, nil
}

// degrade records a degraded step as a warning and a log event.
func (o *orchestrator) degrade(resp *models.IntegratedContextResponse, message string, err error) {
	resp.Warnings = append(resp.Warnings, message)
	observability.Emit(o.eventLog, "WARN", observability.EventUpstreamDegraded,
		fmt.Sprintf("%s: %v", message, err), nil)
}

// enhanceVariables merges caller inputs with variables derived from the
// ranked context and the session history. Caller values win on collision.
func (o *orchestrator) enhanceVariables(req models.IntegratedContextRequest, resp *models.IntegratedContextResponse) map[string]any {
	vars := make(map[string]any, len(req.UserInputs)+4)

	var insights []string
	for _, enriched := range resp.ProcessedContext {
		insights = append(insights, enriched.ExtractedInsights...)
	}
	if len(insights) > 0 {
		vars["context_insights"] = insights
	}

	if resp.Continuity != nil {
		var obligations []string
		for _, item := range resp.Continuity.CarryForwardItems {
			obligations = append(obligations, item.Content)
		}
		if len(obligations) > 0 {
			vars["carry_forward"] = obligations
		}

		var decisions []string
		for _, d := range resp.Continuity.KeyDecisions {
			decisions = append(decisions, d.Title)
		}
		if len(decisions) > 0 {
			vars["key_decisions"] = decisions
		}
	}

	if stage, ok := o.catalog.Stage(req.StageID); ok {
		vars["stage_name"] = stage.Name
	}
	if tool, ok := o.catalog.Tool(req.ToolID); ok {
		vars["tool_name"] = tool.Name
	}

	for k, v := range req.UserInputs {
		vars[k] = v
	}
	return vars
}

// synthesize appends the context and continuity sections to the compiled
// template, producing the final prompt text.
func (o *orchestrator) synthesize(compiled string, resp *models.IntegratedContextResponse) string {
	var sb strings.Builder
	sb.WriteString(compiled)

	if len(resp.ProcessedContext) > 0 {
		sb.WriteString("\n\nRelevant context:\n")
		for _, enriched := range resp.ProcessedContext {
			fmt.Fprintf(&sb, "- %s: %s\n", enriched.Entry.Title, enriched.Connection)
		}
	}

	if resp.Continuity != nil {
		if len(resp.Continuity.CarryForwardItems) > 0 {
			sb.WriteString("\nCarry-forward obligations:\n")
			for _, item := range resp.Continuity.CarryForwardItems {
				fmt.Fprintf(&sb, "- [%s] %s\n", item.Type, item.Content)
			}
		}
		if len(resp.Continuity.KeyDecisions) > 0 {
			sb.WriteString("\nStanding decisions:\n")
			for _, d := range resp.Continuity.KeyDecisions {
				fmt.Fprintf(&sb, "- %s: %s\n", d.Title, d.Rationale)
			}
		}
	}

	return strings.TrimSpace(sb.String())
}

// qualityMetrics computes the five support ratios and the confidence score.
// Each warning collected during processing costs a tenth of confidence.
func (o *orchestrator) qualityMetrics(req models.IntegratedContextRequest, resp *models.IntegratedContextResponse, opts models.ProcessingOptions) models.ContextQualityMetrics {
	m := models.ContextQualityMetrics{}

	if opts.MaxEntries > 0 {
		m.ContextRichness = clampRatio(float64(len(resp.ProcessedContext)) / float64(opts.MaxEntries))
	}

	m.VariableCompleteness = 1
	if method, ok := catalog.Method(req.MethodID); ok {
		required, resolved := 0, 0
		for _, p := range method.Parameters {
			if !p.Required {
				continue
			}
			required++
			if _, present := resp.EnhancedVariables[p.Name]; present || p.Default != nil {
				resolved++
			}
		}
		if req.Instruction != "" {
			// The instruction travels outside the variable map.
			if _, declared := resp.EnhancedVariables["instruction"]; !declared {
				resolved = min(resolved+1, required)
			}
		}
		if required > 0 {
			m.VariableCompleteness = clampRatio(float64(resolved) / float64(required))
		}
	}

	m.WorkflowConsistency = 1
	if resp.Continuity != nil && len(resp.Continuity.ConsistencyChecks) > 0 {
		consistent := 0
		for _, check := range resp.Continuity.ConsistencyChecks {
			if check.Status != models.ConsistencyInconsistent {
				consistent++
			}
		}
		m.WorkflowConsistency = clampRatio(float64(consistent) / float64(len(resp.Continuity.ConsistencyChecks)))
	}

	m.AccessibilityCompliance = clampRatio(float64(analyzeAccessibility(resp.SynthesizedPrompt)) / 100)
	if resp.Validation != nil {
		m.OverallQuality = clampRatio(float64(resp.Validation.OverallScore) / 100)
	}

	confidence := (m.ContextRichness + m.VariableCompleteness + m.WorkflowConsistency +
		m.AccessibilityCompliance + m.OverallQuality) / 5
	confidence -= 0.1 * float64(len(resp.Warnings))
	m.ConfidenceScore = clampRatio(confidence)

	return m
}

func clampRatio(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
