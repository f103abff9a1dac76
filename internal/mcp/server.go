// Package mcp provides an MCP (Model Context Protocol) server that exposes
// praxis functionality as MCP tools for AI coding assistants.
package mcp

import (
	"context"
	"fmt"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/praxiskit/praxis/internal/core"
	"github.com/praxiskit/praxis/internal/observability"
	"github.com/praxiskit/praxis/internal/storage"
	"github.com/praxiskit/praxis/pkg/models"
)

// Server wraps praxis services and exposes them as MCP tools.
type Server struct {
	server      *gomcp.Server
	engine      core.Orchestrator
	scorer      core.QualityScorer
	tracker     core.ContinuityTracker
	knowledge   storage.KnowledgeStore
	metricsCalc observability.MetricsCalculator
	alertEngine observability.AlertEngine
	eventLog    observability.EventLog
}

// NewServer creates a new MCP server with the given praxis service
// dependencies. metricsCalc, alertEngine, and eventLog may be nil if
// observability is disabled.
func NewServer(
	engine core.Orchestrator,
	scorer core.QualityScorer,
	tracker core.ContinuityTracker,
	knowledge storage.KnowledgeStore,
	metricsCalc observability.MetricsCalculator,
	alertEngine observability.AlertEngine,
	eventLog observability.EventLog,
	version string,
) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{
		engine:      engine,
		scorer:      scorer,
		tracker:     tracker,
		knowledge:   knowledge,
		metricsCalc: metricsCalc,
		alertEngine: alertEngine,
		eventLog:    eventLog,
	}

	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "praxis", Version: version},
		nil,
	)

	s.registerTools()

	return s
}

// Run starts the MCP server on the given transport, blocking until the client
// disconnects or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type generatePromptInput struct {
	ProjectID   string `json:"project_id" jsonschema:"required,the project the prompt belongs to"`
	FrameworkID string `json:"framework_id" jsonschema:"required,framework id (design-thinking, double-diamond, lean-ux)"`
	StageID     string `json:"stage_id" jsonschema:"required,stage id within the framework (e.g. empathize, define)"`
	ToolID      string `json:"tool_id,omitempty" jsonschema:"tool id within the stage (e.g. user-interview)"`
	MethodID    string `json:"method_id" jsonschema:"required,prompt method id (zero-shot, few-shot, chain-of-thought, persona, tree-of-thought, knowledge-grounded)"`
	Instruction string `json:"instruction" jsonschema:"required,the task instruction to fold into the template"`
	Industry    string `json:"industry,omitempty" jsonschema:"industry profile for quality scoring (healthcare, finance, education)"`
}

type generatePromptOutput struct {
	Prompt     string   `json:"prompt"`
	Score      int      `json:"score"`
	Bucket     string   `json:"bucket"`
	Confidence float64  `json:"confidence"`
	Warnings   []string `json:"warnings,omitempty"`
}

type scoreTextInput struct {
	Text       string `json:"text" jsonschema:"required,the text to score"`
	TemplateID string `json:"template_id,omitempty" jsonschema:"template id extending the metric set (e.g. user-interview)"`
	Industry   string `json:"industry,omitempty" jsonschema:"industry profile extending the metric set (e.g. healthcare)"`
}

type scoreTextOutput struct {
	OverallScore    int      `json:"overall_score"`
	Bucket          string   `json:"bucket"`
	Strengths       []string `json:"strengths,omitempty"`
	Weaknesses      []string `json:"weaknesses,omitempty"`
	CriticalIssues  []string `json:"critical_issues,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
}

type validateMethodTextInput struct {
	MethodID   string `json:"method_id" jsonschema:"required,the method the text claims to follow"`
	Text       string `json:"text" jsonschema:"required,the text to validate"`
	Complexity string `json:"complexity,omitempty" jsonschema:"task complexity (basic, intermediate, advanced)"`
}

type validateMethodTextOutput struct {
	MethodID        string   `json:"method_id"`
	MethodScore     int      `json:"method_score"`
	Coherence       int      `json:"coherence"`
	Effectiveness   int      `json:"effectiveness"`
	Appropriateness int      `json:"appropriateness"`
	Combined        int      `json:"combined"`
	Notes           []string `json:"notes,omitempty"`
}

type recommendMethodInput struct {
	Complexity           string `json:"complexity,omitempty" jsonschema:"task complexity (basic, intermediate, advanced)"`
	NeedsExamples        bool   `json:"needs_examples,omitempty" jsonschema:"worked examples are available or wanted"`
	MultiplePerspectives bool   `json:"multiple_perspectives,omitempty" jsonschema:"multiple perspectives should be explored"`
	DomainExpertise      bool   `json:"domain_expertise,omitempty" jsonschema:"domain expertise should shape the answer"`
	StepByStep           bool   `json:"step_by_step,omitempty" jsonschema:"step-by-step reasoning is wanted"`
	HasKnowledgeBase     bool   `json:"has_knowledge_base,omitempty" jsonschema:"a knowledge base is available to ground on"`
}

type recommendMethodOutput struct {
	PrimaryMethod string   `json:"primary_method"`
	Alternatives  []string `json:"alternatives,omitempty"`
	Reasons       []string `json:"reasons,omitempty"`
	Score         int      `json:"score"`
}

type getContinuityInput struct {
	SessionID string `json:"session_id" jsonschema:"required,the workflow session id (e.g. S-00001)"`
	StageID   string `json:"stage_id,omitempty" jsonschema:"stage id to assemble continuity for"`
	ToolID    string `json:"tool_id,omitempty" jsonschema:"tool id in use at the stage"`
}

type carryItemOutput struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Content  string `json:"content"`
	Priority string `json:"priority"`
	Status   string `json:"status"`
}

type decisionOutput struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Impact string `json:"impact"`
}

type getContinuityOutput struct {
	SessionID         string            `json:"session_id"`
	CarryForwardItems []carryItemOutput `json:"carry_forward_items,omitempty"`
	KeyDecisions      []decisionOutput  `json:"key_decisions,omitempty"`
	Suggestions       []string          `json:"suggestions,omitempty"`
	InconsistentTerms []string          `json:"inconsistent_terms,omitempty"`
}

type recordDecisionInput struct {
	SessionID string `json:"session_id" jsonschema:"required,the workflow session id"`
	Title     string `json:"title" jsonschema:"required,what was decided"`
	Rationale string `json:"rationale,omitempty" jsonschema:"why it was decided"`
	Impact    string `json:"impact,omitempty" jsonschema:"impact level (low, medium, high). Defaults to medium."`
	StageID   string `json:"stage_id,omitempty" jsonschema:"stage the decision was made in"`
}

type recordDecisionOutput struct {
	Message string `json:"message"`
}

type sessionAnalyticsInput struct {
	SessionID string `json:"session_id" jsonschema:"required,the workflow session id"`
}

type sessionAnalyticsOutput struct {
	SessionID        string  `json:"session_id"`
	DurationMinutes  int     `json:"duration_minutes"`
	StagesCompleted  int     `json:"stages_completed"`
	DecisionCount    int     `json:"decision_count"`
	OutputCount      int     `json:"output_count"`
	ActiveCarryItems int     `json:"active_carry_items"`
	ConsistencyScore float64 `json:"consistency_score"`
}

type searchKnowledgeInput struct {
	Query string `json:"query" jsonschema:"required,search term matched against titles, content, and tags"`
}

type knowledgeEntryOutput struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Type    string   `json:"type"`
	Tags    []string `json:"tags,omitempty"`
	Content string   `json:"content"`
}

type searchKnowledgeOutput struct {
	Entries []knowledgeEntryOutput `json:"entries"`
	Count   int                    `json:"count"`
}

type getMetricsInput struct {
	Since string `json:"since,omitempty" jsonschema:"time window for metrics (e.g. 7d, 30d, 24h). Defaults to 7d."`
}

type metricsOutput struct {
	SessionsStarted  int            `json:"sessions_started"`
	StageTransitions int            `json:"stage_transitions"`
	PromptsGenerated int            `json:"prompts_generated"`
	TextsScored      int            `json:"texts_scored"`
	DecisionsLogged  int            `json:"decisions_logged"`
	ScoresByBucket   map[string]int `json:"scores_by_bucket"`
	AverageScore     float64        `json:"average_score"`
	EventCount       int            `json:"event_count"`
	OldestEvent      string         `json:"oldest_event,omitempty"`
	NewestEvent      string         `json:"newest_event,omitempty"`
}

type getAlertsInput struct{}

type alertOutput struct {
	ID          string `json:"id"`
	Condition   string `json:"condition"`
	Severity    string `json:"severity"`
	Message     string `json:"message"`
	TriggeredAt string `json:"triggered_at"`
}

type getAlertsOutput struct {
	Alerts []alertOutput `json:"alerts"`
	Count  int           `json:"count"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "generate_prompt",
		Description: "Generate a context-aware prompt for a workflow stage: ranks knowledge entries, pulls session continuity, compiles the method template, and scores the result.",
	}, s.handleGeneratePrompt)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "score_text",
		Description: "Score text against the weighted quality metrics. Returns the overall score, bucket, and a summary of strengths, weaknesses, and recommendations.",
	}, s.handleScoreText)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "validate_method_text",
		Description: "Validate how well text fits a prompt method's expected shape, its coherence, effectiveness, and fit for the declared task complexity.",
	}, s.handleValidateMethodText)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "recommend_method",
		Description: "Recommend the best prompt method for a described task, with alternatives and the signals that drove the choice.",
	}, s.handleRecommendMethod)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_continuity",
		Description: "Get the continuity picture for a session stage: carry-forward obligations, standing decisions, suggestions, and vocabulary inconsistencies.",
	}, s.handleGetContinuity)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "record_decision",
		Description: "Record a decision in a workflow session. Medium and high impact decisions spawn carry-forward requirements for later stages.",
	}, s.handleRecordDecision)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "session_analytics",
		Description: "Get progress analytics for a workflow session: stages completed, decisions, outputs, active carry items, and consistency score.",
	}, s.handleSessionAnalytics)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "search_knowledge",
		Description: "Search knowledge-base entries by title, content, or tag.",
	}, s.handleSearchKnowledge)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_metrics",
		Description: "Get aggregated metrics from the event log: sessions, transitions, prompts generated, and quality score distribution.",
	}, s.handleGetMetrics)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_alerts",
		Description: "Evaluate and return active alerts (stale sessions, low quality streaks, degraded stores).",
	}, s.handleGetAlerts)
}

// --- Tool handlers ---

func (s *Server) handleGeneratePrompt(_ context.Context, _ *gomcp.CallToolRequest, input generatePromptInput) (*gomcp.CallToolResult, generatePromptOutput, error) {
	if s.engine == nil {
		return errorResult("orchestrator not available"), generatePromptOutput{}, nil
	}
	if input.ProjectID == "" {
		return errorResult("project_id is required"), generatePromptOutput{}, nil
	}

	req := models.IntegratedContextRequest{
		ProjectID:   input.ProjectID,
		FrameworkID: input.FrameworkID,
		StageID:     input.StageID,
		ToolID:      input.ToolID,
		MethodID:    input.MethodID,
		Instruction: input.Instruction,
		UserInputs:  map[string]any{"instruction": input.Instruction},
	}
	if input.Industry != "" {
		req.UserPreferences = map[string]string{"industry": input.Industry}
	}

	resp, err := s.engine.ProcessIntegratedContext(req)
	if err != nil {
		return errorResult(fmt.Sprintf("generating prompt: %s", err)), generatePromptOutput{}, nil
	}

	out := generatePromptOutput{
		Prompt:     resp.SynthesizedPrompt,
		Confidence: resp.QualityMetrics.ConfidenceScore,
		Warnings:   resp.Warnings,
	}
	if resp.Validation != nil {
		out.Score = resp.Validation.OverallScore
		out.Bucket = string(resp.Validation.Bucket)
	}
	return nil, out, nil
}

func (s *Server) handleScoreText(_ context.Context, _ *gomcp.CallToolRequest, input scoreTextInput) (*gomcp.CallToolResult, scoreTextOutput, error) {
	if input.Text == "" {
		return errorResult("text is required"), scoreTextOutput{}, nil
	}

	result := s.scorer.Score(input.Text, input.TemplateID, input.Industry)
	observability.Emit(s.eventLog, "INFO", observability.EventTextScored,
		fmt.Sprintf("text scored %d (%s)", result.OverallScore, result.Bucket),
		map[string]any{"score": float64(result.OverallScore), "bucket": string(result.Bucket)})

	out := scoreTextOutput{
		OverallScore:    result.OverallScore,
		Bucket:          string(result.Bucket),
		Strengths:       result.Strengths,
		Weaknesses:      result.Weaknesses,
		CriticalIssues:  result.CriticalIssues,
		Recommendations: result.Recommendations,
	}
	return nil, out, nil
}

func (s *Server) handleValidateMethodText(_ context.Context, _ *gomcp.CallToolRequest, input validateMethodTextInput) (*gomcp.CallToolResult, validateMethodTextOutput, error) {
	if input.MethodID == "" {
		return errorResult("method_id is required"), validateMethodTextOutput{}, nil
	}
	if input.Text == "" {
		return errorResult("text is required"), validateMethodTextOutput{}, nil
	}

	result, err := s.scorer.ValidateMethodText(input.MethodID, input.Text, input.Complexity)
	if err != nil {
		return errorResult(fmt.Sprintf("validating text: %s", err)), validateMethodTextOutput{}, nil
	}

	out := validateMethodTextOutput{
		MethodID:        result.MethodID,
		MethodScore:     result.MethodScore,
		Coherence:       result.Coherence,
		Effectiveness:   result.Effectiveness,
		Appropriateness: result.Appropriateness,
		Combined:        result.Combined,
		Notes:           result.Notes,
	}
	return nil, out, nil
}

func (s *Server) handleRecommendMethod(_ context.Context, _ *gomcp.CallToolRequest, input recommendMethodInput) (*gomcp.CallToolResult, recommendMethodOutput, error) {
	rec := core.RecommendMethod(models.RecommendationContext{
		Complexity:           input.Complexity,
		NeedsExamples:        input.NeedsExamples,
		MultiplePerspectives: input.MultiplePerspectives,
		DomainExpertise:      input.DomainExpertise,
		StepByStep:           input.StepByStep,
		HasKnowledgeBase:     input.HasKnowledgeBase,
	})

	out := recommendMethodOutput{
		PrimaryMethod: rec.PrimaryMethod,
		Alternatives:  rec.Alternatives,
		Reasons:       rec.Reasons,
		Score:         rec.Score,
	}
	return nil, out, nil
}

func (s *Server) handleGetContinuity(_ context.Context, _ *gomcp.CallToolRequest, input getContinuityInput) (*gomcp.CallToolResult, getContinuityOutput, error) {
	if input.SessionID == "" {
		return errorResult("session_id is required"), getContinuityOutput{}, nil
	}

	cont, err := s.tracker.GetContinuity(input.SessionID, input.StageID, input.ToolID)
	if err != nil {
		return errorResult(fmt.Sprintf("loading continuity for %s: %s", input.SessionID, err)), getContinuityOutput{}, nil
	}

	out := getContinuityOutput{
		SessionID:   cont.SessionID,
		Suggestions: cont.Suggestions,
	}
	for _, item := range cont.CarryForwardItems {
		out.CarryForwardItems = append(out.CarryForwardItems, carryItemOutput{
			ID:       item.ID,
			Type:     string(item.Type),
			Content:  item.Content,
			Priority: string(item.Priority),
			Status:   string(item.Status),
		})
	}
	for _, d := range cont.KeyDecisions {
		out.KeyDecisions = append(out.KeyDecisions, decisionOutput{
			ID:     d.ID,
			Title:  d.Title,
			Impact: string(d.Impact),
		})
	}
	for _, c := range cont.ConsistencyChecks {
		if c.Status == models.ConsistencyInconsistent {
			out.InconsistentTerms = append(out.InconsistentTerms, c.Term)
		}
	}
	return nil, out, nil
}

func (s *Server) handleRecordDecision(_ context.Context, _ *gomcp.CallToolRequest, input recordDecisionInput) (*gomcp.CallToolResult, recordDecisionOutput, error) {
	if input.SessionID == "" {
		return errorResult("session_id is required"), recordDecisionOutput{}, nil
	}
	if input.Title == "" {
		return errorResult("title is required"), recordDecisionOutput{}, nil
	}

	impact := input.Impact
	if impact == "" {
		impact = "medium"
	}

	err := s.tracker.RecordDecision(input.SessionID, models.Decision{
		Title:      input.Title,
		Rationale:  input.Rationale,
		Impact:     models.ImpactLevel(impact),
		StageID:    input.StageID,
		Reversible: true,
		RecordedAt: time.Now().UTC(),
	})
	if err != nil {
		return errorResult(fmt.Sprintf("recording decision: %s", err)), recordDecisionOutput{}, nil
	}

	out := recordDecisionOutput{
		Message: fmt.Sprintf("decision %q recorded in session %s", input.Title, input.SessionID),
	}
	return nil, out, nil
}

func (s *Server) handleSessionAnalytics(_ context.Context, _ *gomcp.CallToolRequest, input sessionAnalyticsInput) (*gomcp.CallToolResult, sessionAnalyticsOutput, error) {
	if input.SessionID == "" {
		return errorResult("session_id is required"), sessionAnalyticsOutput{}, nil
	}

	a, err := s.tracker.Analytics(input.SessionID)
	if err != nil {
		return errorResult(fmt.Sprintf("computing analytics for %s: %s", input.SessionID, err)), sessionAnalyticsOutput{}, nil
	}

	out := sessionAnalyticsOutput{
		SessionID:        a.SessionID,
		DurationMinutes:  int(a.Duration.Minutes()),
		StagesCompleted:  a.StagesCompleted,
		DecisionCount:    a.DecisionCount,
		OutputCount:      a.OutputCount,
		ActiveCarryItems: a.ActiveCarryItems,
		ConsistencyScore: a.ConsistencyScore,
	}
	return nil, out, nil
}

func (s *Server) handleSearchKnowledge(_ context.Context, _ *gomcp.CallToolRequest, input searchKnowledgeInput) (*gomcp.CallToolResult, searchKnowledgeOutput, error) {
	if input.Query == "" {
		return errorResult("query is required"), searchKnowledgeOutput{}, nil
	}

	entries, err := s.knowledge.Search(input.Query)
	if err != nil {
		return errorResult(fmt.Sprintf("searching knowledge: %s", err)), searchKnowledgeOutput{}, nil
	}

	out := searchKnowledgeOutput{
		Entries: make([]knowledgeEntryOutput, len(entries)),
		Count:   len(entries),
	}
	for i, e := range entries {
		out.Entries[i] = knowledgeEntryOutput{
			ID:      e.ID,
			Title:   e.Title,
			Type:    string(e.Type),
			Tags:    e.Tags,
			Content: e.Content,
		}
	}
	return nil, out, nil
}

func (s *Server) handleGetMetrics(_ context.Context, _ *gomcp.CallToolRequest, input getMetricsInput) (*gomcp.CallToolResult, metricsOutput, error) {
	if s.metricsCalc == nil {
		return errorResult("metrics calculator not available (observability may be disabled)"), emptyMetricsOutput(), nil
	}

	sinceStr := input.Since
	if sinceStr == "" {
		sinceStr = "7d"
	}

	sinceTime, err := parseSince(sinceStr)
	if err != nil {
		return errorResult(fmt.Sprintf("parsing since duration: %s", err)), emptyMetricsOutput(), nil
	}

	metrics, err := s.metricsCalc.Calculate(sinceTime)
	if err != nil {
		return errorResult(fmt.Sprintf("calculating metrics: %s", err)), emptyMetricsOutput(), nil
	}

	out := metricsOutput{
		SessionsStarted:  metrics.SessionsStarted,
		StageTransitions: metrics.StageTransitions,
		PromptsGenerated: metrics.PromptsGenerated,
		TextsScored:      metrics.TextsScored,
		DecisionsLogged:  metrics.DecisionsLogged,
		ScoresByBucket:   metrics.ScoresByBucket,
		AverageScore:     metrics.AverageScore,
		EventCount:       metrics.EventCount,
	}
	if metrics.OldestEvent != nil {
		out.OldestEvent = metrics.OldestEvent.Format(time.RFC3339)
	}
	if metrics.NewestEvent != nil {
		out.NewestEvent = metrics.NewestEvent.Format(time.RFC3339)
	}

	return nil, out, nil
}

func (s *Server) handleGetAlerts(_ context.Context, _ *gomcp.CallToolRequest, _ getAlertsInput) (*gomcp.CallToolResult, getAlertsOutput, error) {
	if s.alertEngine == nil {
		return errorResult("alert engine not available (observability may be disabled)"), getAlertsOutput{}, nil
	}

	alerts, err := s.alertEngine.Evaluate()
	if err != nil {
		return errorResult(fmt.Sprintf("evaluating alerts: %s", err)), getAlertsOutput{}, nil
	}

	out := getAlertsOutput{
		Alerts: make([]alertOutput, len(alerts)),
		Count:  len(alerts),
	}
	for i, a := range alerts {
		out.Alerts[i] = alertOutput{
			ID:          a.ID,
			Condition:   a.Condition,
			Severity:    string(a.Severity),
			Message:     a.Message,
			TriggeredAt: a.TriggeredAt.Format(time.RFC3339),
		}
	}

	return nil, out, nil
}

// --- Helpers ---

func emptyMetricsOutput() metricsOutput {
	return metricsOutput{
		ScoresByBucket: make(map[string]int),
	}
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}

// parseSince parses a human-friendly duration string like "7d", "30d", or "24h"
// into the corresponding time in the past.
func parseSince(s string) (time.Time, error) {
	now := time.Now().UTC()

	if len(s) < 2 {
		return time.Time{}, fmt.Errorf("invalid duration %q", s)
	}

	suffix := s[len(s)-1]
	numStr := s[:len(s)-1]
	var num int
	if _, err := fmt.Sscanf(numStr, "%d", &num); err != nil {
		return time.Time{}, fmt.Errorf("invalid duration %q: %w", s, err)
	}

	switch suffix {
	case 'd':
		return now.AddDate(0, 0, -num), nil
	case 'h':
		return now.Add(-time.Duration(num) * time.Hour), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported duration suffix %q (use d or h)", string(suffix))
	}
}
