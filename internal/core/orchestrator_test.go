package core

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/praxiskit/praxis/internal/catalog"
	"github.com/praxiskit/praxis/internal/storage"
	"github.com/praxiskit/praxis/pkg/models"
)

func newTestOrchestrator(t *testing.T) (Orchestrator, storage.KnowledgeStore, ContinuityTracker) {
	t.Helper()
	dir := t.TempDir()
	cat := catalog.NewCatalog()
	knowledge := storage.NewKnowledgeStore(dir)
	sessions := storage.NewSessionStore(dir)
	tracker := NewContinuityTracker(sessions, cat, nil)
	orch := NewOrchestrator(cat, knowledge, NewContextRanker(cat), tracker, NewPromptCompiler(), NewQualityScorer(), nil, nil)
	return orch, knowledge, tracker
}

func baseRequest() models.IntegratedContextRequest {
	return models.IntegratedContextRequest{
		ProjectID:   "proj-1",
		FrameworkID: "design-thinking",
		StageID:     "empathize",
		ToolID:      "user-interview",
		MethodID:    "zero-shot",
		Instruction: "Plan interviews about the checkout flow",
		UserInputs:  map[string]any{"instruction": "Plan interviews about the checkout flow"},
	}
}

func TestProcessIntegratedContext(t *testing.T) {
	orch, knowledge, _ := newTestOrchestrator(t)

	if _, err := knowledge.AddEntry(models.KnowledgeEntry{
		Title:     "User interview guide",
		Content:   "A user interview during empathize works best with open questions.",
		Type:      models.KnowledgeTypeGuideline,
		Tags:      []string{"empathize"},
		CreatedAt: time.Now(),
	}); err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}

	resp, err := orch.ProcessIntegratedContext(baseRequest())
	if err != nil {
		t.Fatalf("ProcessIntegratedContext failed: %v", err)
	}

	if resp.SynthesizedPrompt == "" {
		t.Fatal("expected a synthesized prompt")
	}
	if len(resp.ProcessedContext) == 0 {
		t.Error("expected the relevant knowledge entry in the context")
	}
	if resp.Continuity == nil {
		t.Error("expected continuity for a fresh session")
	}
	if resp.Validation == nil {
		t.Error("expected a quality validation")
	}
	if len(resp.Warnings) != 0 {
		t.Errorf("expected no warnings on the happy path, got %v", resp.Warnings)
	}

	m := resp.QualityMetrics
	for name, v := range map[string]float64{
		"context richness":     m.ContextRichness,
		"variable complete":    m.VariableCompleteness,
		"workflow consistency": m.WorkflowConsistency,
		"accessibility":        m.AccessibilityCompliance,
		"overall quality":      m.OverallQuality,
		"confidence":           m.ConfidenceScore,
	} {
		if v < 0 || v > 1 {
			t.Errorf("%s ratio %.3f out of [0,1]", name, v)
		}
	}
}

func TestProcessIntegratedContextValidation(t *testing.T) {
	orch, _, _ := newTestOrchestrator(t)

	req := baseRequest()
	req.ProjectID = ""
	if _, err := orch.ProcessIntegratedContext(req); err == nil {
		t.Error("expected error for empty project id")
	}

	req = baseRequest()
	req.MethodID = "no-such-method"
	if _, err := orch.ProcessIntegratedContext(req); !IsUnknownMethod(err) {
		t.Errorf("expected unknown-method error, got %v", err)
	}

	req = baseRequest()
	req.UserInputs = map[string]any{"instruction": 42}
	if _, err := orch.ProcessIntegratedContext(req); err == nil {
		t.Error("expected error for mistyped parameter")
	}
}

func TestProcessIntegratedContextReusesActiveSession(t *testing.T) {
	orch, _, tracker := newTestOrchestrator(t)

	first, err := orch.ProcessIntegratedContext(baseRequest())
	if err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	second, err := orch.ProcessIntegratedContext(baseRequest())
	if err != nil {
		t.Fatalf("second call failed: %v", err)
	}
	if first.Continuity == nil || second.Continuity == nil {
		t.Fatal("expected continuity on both calls")
	}
	if first.Continuity.SessionID != second.Continuity.SessionID {
		t.Errorf("expected one session per project, got %s and %s",
			first.Continuity.SessionID, second.Continuity.SessionID)
	}

	// Completing the session forces a fresh one on the next call.
	if err := tracker.UpdateSessionStatus(first.Continuity.SessionID, models.SessionCompleted); err != nil {
		t.Fatalf("completing session failed: %v", err)
	}
	third, err := orch.ProcessIntegratedContext(baseRequest())
	if err != nil {
		t.Fatalf("third call failed: %v", err)
	}
	if third.Continuity.SessionID == first.Continuity.SessionID {
		t.Error("expected a new session after completion")
	}
}

// failingKnowledgeStore simulates an unavailable knowledge base.
type failingKnowledgeStore struct {
	storage.KnowledgeStore
}

func (f *failingKnowledgeStore) GetAllEntries() ([]models.KnowledgeEntry, error) {
	return nil, fmt.Errorf("disk offline")
}

func TestProcessIntegratedContextDegradesWithoutKnowledge(t *testing.T) {
	dir := t.TempDir()
	cat := catalog.NewCatalog()
	sessions := storage.NewSessionStore(dir)
	tracker := NewContinuityTracker(sessions, cat, nil)
	knowledge := &failingKnowledgeStore{KnowledgeStore: storage.NewKnowledgeStore(dir)}
	orch := NewOrchestrator(cat, knowledge, NewContextRanker(cat), tracker, NewPromptCompiler(), NewQualityScorer(), nil, nil)

	resp, err := orch.ProcessIntegratedContext(baseRequest())
	if err != nil {
		t.Fatalf("expected degraded success, got %v", err)
	}
	if len(resp.ProcessedContext) != 0 {
		t.Error("expected empty context when the knowledge base is down")
	}
	if len(resp.Warnings) == 0 {
		t.Error("expected a degradation warning")
	}
	if resp.SynthesizedPrompt == "" {
		t.Error("expected a prompt despite degradation")
	}

	full, err := orch.ProcessIntegratedContext(baseRequest())
	if err != nil {
		t.Fatalf("second call failed: %v", err)
	}
	if full.QualityMetrics.ConfidenceScore > resp.QualityMetrics.ConfidenceScore+1e-9 {
		// Same inputs, same degradation: confidence must not grow.
		t.Errorf("confidence grew across identical degraded calls: %.3f then %.3f",
			resp.QualityMetrics.ConfidenceScore, full.QualityMetrics.ConfidenceScore)
	}
}

func TestProcessIntegratedContextHonorsConfiguredDefaults(t *testing.T) {
	dir := t.TempDir()
	cat := catalog.NewCatalog()
	knowledge := storage.NewKnowledgeStore(dir)
	tracker := NewContinuityTracker(storage.NewSessionStore(dir), cat, nil)

	cfg := &models.GlobalConfig{
		Processing: models.ProcessingOptions{
			MaxEntries:         3,
			RelevanceThreshold: 0.95,
			PrioritizeRecent:   true,
		},
		AccessibilityMode: true,
	}
	orch := NewOrchestrator(cat, knowledge, NewContextRanker(cat), tracker, NewPromptCompiler(), NewQualityScorer(), nil, cfg)

	if _, err := knowledge.AddEntry(models.KnowledgeEntry{
		Title:     "User interview guide",
		Content:   "A user interview during empathize works best with open questions.",
		Type:      models.KnowledgeTypeGuideline,
		Tags:      []string{"empathize"},
		CreatedAt: time.Now(),
	}); err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}

	resp, err := orch.ProcessIntegratedContext(baseRequest())
	if err != nil {
		t.Fatalf("ProcessIntegratedContext failed: %v", err)
	}

	// The configured threshold is steep enough to drop every entry.
	if len(resp.ProcessedContext) != 0 {
		t.Errorf("expected the configured threshold to drop all entries, got %d", len(resp.ProcessedContext))
	}

	// Sessions the orchestrator starts inherit the accessibility setting.
	session, err := tracker.FindActiveSession("proj-1", "design-thinking")
	if err != nil {
		t.Fatalf("FindActiveSession failed: %v", err)
	}
	if session == nil || !session.Metadata.AccessibilityFocus {
		t.Errorf("expected an accessibility-focused session, got %+v", session)
	}
}

func TestProcessIntegratedContextDefaultsFieldsIndependently(t *testing.T) {
	orch, knowledge, _ := newTestOrchestrator(t)

	// An entry with no name or tag overlap and an old timestamp scores zero,
	// below the default threshold.
	if _, err := knowledge.AddEntry(models.KnowledgeEntry{
		Title:     "Quarterly budget notes",
		Content:   "Spreadsheet cleanup and travel receipts.",
		Type:      models.KnowledgeTypeResearch,
		CreatedAt: time.Now().AddDate(0, 0, -30),
	}); err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}

	// Setting only the cap must still apply the default threshold.
	req := baseRequest()
	req.Options = models.ProcessingOptions{MaxEntries: 5}

	resp, err := orch.ProcessIntegratedContext(req)
	if err != nil {
		t.Fatalf("ProcessIntegratedContext failed: %v", err)
	}
	if len(resp.ProcessedContext) != 0 {
		t.Errorf("expected the default threshold to drop the unrelated entry, got %d entries", len(resp.ProcessedContext))
	}
}

func TestSynthesizedPromptCarriesContinuitySections(t *testing.T) {
	orch, _, tracker := newTestOrchestrator(t)

	session, err := tracker.StartSession("proj-1", "design-thinking", models.SessionMetadata{})
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	if _, err := tracker.AddCarryForwardItem(session.ID, models.CarryForwardItem{
		Content: "Checkout must stay under three steps",
		Type:    models.CarryConstraint,
	}); err != nil {
		t.Fatalf("AddCarryForwardItem failed: %v", err)
	}

	resp, err := orch.ProcessIntegratedContext(baseRequest())
	if err != nil {
		t.Fatalf("ProcessIntegratedContext failed: %v", err)
	}
	if !strings.Contains(resp.SynthesizedPrompt, "Checkout must stay under three steps") {
		t.Errorf("expected carry-forward obligation in the prompt:\n%s", resp.SynthesizedPrompt)
	}
}
