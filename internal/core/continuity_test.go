package core

import (
	"strings"
	"testing"
	"time"

	"github.com/praxiskit/praxis/internal/catalog"
	"github.com/praxiskit/praxis/internal/storage"
	"github.com/praxiskit/praxis/pkg/models"
)

func newTestTracker(t *testing.T) ContinuityTracker {
	t.Helper()
	store := storage.NewSessionStore(t.TempDir())
	return NewContinuityTracker(store, catalog.NewCatalog(), nil)
}

func TestStartSession(t *testing.T) {
	ct := newTestTracker(t)

	session, err := ct.StartSession("proj-1", "design-thinking", models.SessionMetadata{SessionType: "workshop"})
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	if session.Status != models.SessionActive {
		t.Errorf("expected active session, got %s", session.Status)
	}
	if !strings.HasPrefix(session.ID, "S-") {
		t.Errorf("expected S- prefixed id, got %s", session.ID)
	}
	if session.CurrentStageID != "" {
		t.Errorf("expected no current stage on a fresh session, got %s", session.CurrentStageID)
	}

	loaded, err := ct.GetSession(session.ID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if loaded.Metadata.SessionType != "workshop" {
		t.Errorf("metadata not persisted: %+v", loaded.Metadata)
	}
}

func TestStartSessionValidation(t *testing.T) {
	ct := newTestTracker(t)

	if _, err := ct.StartSession("", "design-thinking", models.SessionMetadata{}); err == nil {
		t.Error("expected error for empty project id")
	}
	if _, err := ct.StartSession("proj-1", "no-such-framework", models.SessionMetadata{}); err == nil {
		t.Error("expected error for unknown framework")
	}
}

func TestGetSessionUnknown(t *testing.T) {
	ct := newTestTracker(t)

	_, err := ct.GetSession("S-99999")
	if err == nil {
		t.Fatal("expected error for unknown session")
	}
	if !IsSessionNotFound(err) {
		t.Errorf("expected session not-found error, got %v", err)
	}
}

func TestSessionLifecycle(t *testing.T) {
	ct := newTestTracker(t)
	session, err := ct.StartSession("proj-1", "design-thinking", models.SessionMetadata{})
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}

	if err := ct.UpdateSessionStatus(session.ID, models.SessionPaused); err != nil {
		t.Fatalf("pausing failed: %v", err)
	}
	if err := ct.UpdateSessionStatus(session.ID, models.SessionActive); err != nil {
		t.Fatalf("resuming failed: %v", err)
	}
	if err := ct.UpdateSessionStatus(session.ID, models.SessionCompleted); err != nil {
		t.Fatalf("completing failed: %v", err)
	}

	// Terminal states reject any further change.
	err = ct.UpdateSessionStatus(session.ID, models.SessionActive)
	if err == nil {
		t.Fatal("expected error changing a completed session")
	}
	if _, ok := err.(*ValidationError); !ok {
		t.Errorf("expected ValidationError, got %T", err)
	}
}

func TestTransitionDerivesInsightsAndCarryItems(t *testing.T) {
	ct := newTestTracker(t)
	session, _ := ct.StartSession("proj-1", "design-thinking", models.SessionMetadata{})

	outputs := []models.GeneratedOutput{{
		ToolID: "user-interview",
		Content: "We discovered that users abandon signup at the email step. " +
			"A key requirement is that signup must work without a company email address. " +
			"Short note.",
		CreatedAt: time.Now(),
	}}

	transition, err := ct.TransitionToStage(session.ID, "define", outputs, nil)
	if err != nil {
		t.Fatalf("TransitionToStage failed: %v", err)
	}

	if len(transition.Insights) == 0 {
		t.Error("expected insights derived from discovery-flavored sentences")
	}
	if len(transition.Insights) > 2 {
		t.Errorf("expected at most 2 insights per output, got %d", len(transition.Insights))
	}

	var foundRequirement bool
	for _, item := range transition.CarryForwardItems {
		if item.Type == models.CarryRequirement {
			foundRequirement = true
		}
		if item.Status != models.CarryActive {
			t.Errorf("expected derived items active, got %s", item.Status)
		}
	}
	if !foundRequirement {
		t.Errorf("expected a requirement-typed item, got %+v", transition.CarryForwardItems)
	}

	updated, _ := ct.GetSession(session.ID)
	if updated.CurrentStageID != "define" {
		t.Errorf("expected current stage define, got %s", updated.CurrentStageID)
	}
}

func TestTransitionDecisionDerivedItems(t *testing.T) {
	ct := newTestTracker(t)
	session, _ := ct.StartSession("proj-1", "design-thinking", models.SessionMetadata{})

	decisions := []models.Decision{
		{ID: "D-1", Title: "Drop the native app", Rationale: "Web reaches more users", Impact: models.ImpactHigh, Stakeholders: []string{"PM", "Lead"}},
		{ID: "D-2", Title: "Rename a button", Rationale: "Cosmetic", Impact: models.ImpactLow},
	}

	transition, err := ct.TransitionToStage(session.ID, "define", nil, decisions)
	if err != nil {
		t.Fatalf("TransitionToStage failed: %v", err)
	}

	if len(transition.CarryForwardItems) != 1 {
		t.Fatalf("expected only the high-impact decision to carry forward, got %d items", len(transition.CarryForwardItems))
	}
	item := transition.CarryForwardItems[0]
	if item.Type != models.CarryRequirement {
		t.Errorf("expected requirement type, got %s", item.Type)
	}
	if item.Priority != models.PriorityHigh {
		t.Errorf("expected high priority for high-impact decision, got %s", item.Priority)
	}
	if !item.Validation.Validated {
		t.Error("expected decision-derived item pre-validated")
	}
	if !item.Targets("anything") {
		t.Error("expected decision-derived item to target all stages")
	}
}

func TestTransitionTerminalSessionRejected(t *testing.T) {
	ct := newTestTracker(t)
	session, _ := ct.StartSession("proj-1", "design-thinking", models.SessionMetadata{})
	_ = ct.UpdateSessionStatus(session.ID, models.SessionAbandoned)

	if _, err := ct.TransitionToStage(session.ID, "define", nil, nil); err == nil {
		t.Fatal("expected error transitioning an abandoned session")
	}
}

func TestGetContinuityFiltersItems(t *testing.T) {
	ct := newTestTracker(t)
	session, _ := ct.StartSession("proj-1", "design-thinking", models.SessionMetadata{})

	if _, err := ct.AddCarryForwardItem(session.ID, models.CarryForwardItem{
		Content:      "Signup must work without a company email",
		Type:         models.CarryRequirement,
		TargetStages: []string{"define"},
	}); err != nil {
		t.Fatalf("AddCarryForwardItem failed: %v", err)
	}
	if _, err := ct.AddCarryForwardItem(session.ID, models.CarryForwardItem{
		Content:      "Only relevant during testing",
		Type:         models.CarryConstraint,
		TargetStages: []string{"test"},
	}); err != nil {
		t.Fatalf("AddCarryForwardItem failed: %v", err)
	}

	continuity, err := ct.GetContinuity(session.ID, "define", "problem-statement")
	if err != nil {
		t.Fatalf("GetContinuity failed: %v", err)
	}
	if len(continuity.CarryForwardItems) != 1 {
		t.Fatalf("expected 1 item targeting define, got %d", len(continuity.CarryForwardItems))
	}
	if continuity.CarryForwardItems[0].TargetStages[0] != "define" {
		t.Errorf("wrong item surfaced: %+v", continuity.CarryForwardItems[0])
	}
}

func TestUpdateCarryForwardItemLifecycle(t *testing.T) {
	ct := newTestTracker(t)
	session, _ := ct.StartSession("proj-1", "design-thinking", models.SessionMetadata{})

	item, err := ct.AddCarryForwardItem(session.ID, models.CarryForwardItem{Content: "A standing constraint"})
	if err != nil {
		t.Fatalf("AddCarryForwardItem failed: %v", err)
	}

	resolved, err := ct.UpdateCarryForwardItem(session.ID, item.ID, models.CarryResolved, false)
	if err != nil {
		t.Fatalf("resolving failed: %v", err)
	}
	if resolved.Status != models.CarryResolved {
		t.Errorf("expected resolved, got %s", resolved.Status)
	}

	// Reactivation without force is rejected.
	if _, err := ct.UpdateCarryForwardItem(session.ID, item.ID, models.CarryActive, false); err == nil {
		t.Fatal("expected error reactivating without force")
	}
	reactivated, err := ct.UpdateCarryForwardItem(session.ID, item.ID, models.CarryActive, true)
	if err != nil {
		t.Fatalf("forced reactivation failed: %v", err)
	}
	if reactivated.Status != models.CarryActive {
		t.Errorf("expected active after force, got %s", reactivated.Status)
	}

	// Unknown item ids are a silent no-op.
	got, err := ct.UpdateCarryForwardItem(session.ID, "CF-nope", models.CarryResolved, false)
	if err != nil || got != nil {
		t.Errorf("expected (nil, nil) for unknown item, got (%v, %v)", got, err)
	}
}

func TestCarryItemIDsUniqueAcrossTrackers(t *testing.T) {
	dir := t.TempDir()
	cat := catalog.NewCatalog()

	// Two trackers over the same directory stand in for two processes
	// creating items within the same second.
	first := NewContinuityTracker(storage.NewSessionStore(dir), cat, nil)

	session, err := first.StartSession("proj-1", "design-thinking", models.SessionMetadata{})
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}

	secondStore := storage.NewSessionStore(dir)
	if err := secondStore.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	second := NewContinuityTracker(secondStore, cat, nil)

	a, err := first.AddCarryForwardItem(session.ID, models.CarryForwardItem{Content: "First obligation"})
	if err != nil {
		t.Fatalf("AddCarryForwardItem failed: %v", err)
	}
	b, err := second.AddCarryForwardItem(session.ID, models.CarryForwardItem{Content: "Second obligation"})
	if err != nil {
		t.Fatalf("AddCarryForwardItem failed: %v", err)
	}

	if a.ID == b.ID {
		t.Errorf("expected distinct carry-forward ids, got %s twice", a.ID)
	}
	if !strings.HasPrefix(a.ID, "CF-") || !strings.HasPrefix(b.ID, "CF-") {
		t.Errorf("expected CF- prefixed ids, got %s and %s", a.ID, b.ID)
	}
}

func TestRecordDecisionSurfacesInContinuity(t *testing.T) {
	ct := newTestTracker(t)
	session, _ := ct.StartSession("proj-1", "design-thinking", models.SessionMetadata{})

	err := ct.RecordDecision(session.ID, models.Decision{
		ID: "D-1", Title: "Target mobile first", Rationale: "Most traffic is mobile", Impact: models.ImpactHigh,
	})
	if err != nil {
		t.Fatalf("RecordDecision failed: %v", err)
	}

	continuity, err := ct.GetContinuity(session.ID, "define", "problem-statement")
	if err != nil {
		t.Fatalf("GetContinuity failed: %v", err)
	}
	if len(continuity.KeyDecisions) != 1 || continuity.KeyDecisions[0].Title != "Target mobile first" {
		t.Errorf("expected the recorded decision among key decisions, got %+v", continuity.KeyDecisions)
	}
}

func TestConsistencyChecksAcrossStages(t *testing.T) {
	ct := newTestTracker(t)
	session, _ := ct.StartSession("proj-1", "design-thinking", models.SessionMetadata{})

	out1 := []models.GeneratedOutput{{ToolID: "user-interview", Content: "The user needs faster checkout. One constraint applies."}}
	out2 := []models.GeneratedOutput{{ToolID: "problem-statement", Content: "The customer wants faster checkout with the same constraint."}}

	if _, err := ct.TransitionToStage(session.ID, "define", out1, nil); err != nil {
		t.Fatalf("first transition failed: %v", err)
	}
	if _, err := ct.TransitionToStage(session.ID, "ideate", out2, nil); err != nil {
		t.Fatalf("second transition failed: %v", err)
	}

	continuity, err := ct.GetContinuity(session.ID, "ideate", "brainstorming")
	if err != nil {
		t.Fatalf("GetContinuity failed: %v", err)
	}

	byTerm := make(map[string]models.ConsistencyCheck)
	for _, check := range continuity.ConsistencyChecks {
		byTerm[check.Term] = check
	}

	if check, ok := byTerm["constraint"]; !ok || check.Status != models.ConsistencyConsistent {
		t.Errorf("expected constraint consistent across both stages, got %+v", check)
	}
	if check, ok := byTerm["user"]; !ok || check.Status != models.ConsistencyInconsistent {
		t.Errorf("expected user flagged inconsistent (only one stage), got %+v", check)
	}
	if check, ok := byTerm["user/customer"]; !ok || check.Status != models.ConsistencyInconsistent {
		t.Errorf("expected synonym pair flagged, got %+v", check)
	}
}

func TestAnalytics(t *testing.T) {
	ct := newTestTracker(t)
	session, _ := ct.StartSession("proj-1", "design-thinking", models.SessionMetadata{})

	outputs := []models.GeneratedOutput{{ToolID: "user-interview", Content: "plain output text"}}
	decisions := []models.Decision{{ID: "D-1", Title: "A call", Impact: models.ImpactLow}}
	if _, err := ct.TransitionToStage(session.ID, "define", outputs, decisions); err != nil {
		t.Fatalf("transition failed: %v", err)
	}

	analytics, err := ct.Analytics(session.ID)
	if err != nil {
		t.Fatalf("Analytics failed: %v", err)
	}
	if analytics.StagesCompleted != 1 {
		t.Errorf("expected 1 stage completed, got %d", analytics.StagesCompleted)
	}
	if analytics.OutputCount != 1 || analytics.DecisionCount != 1 {
		t.Errorf("unexpected counts: %+v", analytics)
	}
	if analytics.ConsistencyScore != 100 {
		t.Errorf("expected consistency 100 with no carry items, got %.1f", analytics.ConsistencyScore)
	}
}
