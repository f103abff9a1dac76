package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/praxiskit/praxis/internal/catalog"
	"github.com/praxiskit/praxis/internal/observability"
	"github.com/praxiskit/praxis/internal/storage"
	"github.com/praxiskit/praxis/pkg/models"
)

// ContinuityTracker owns workflow sessions: their lifecycle, stage
// transitions, decisions, carry-forward obligations, and cross-stage
// consistency. It is the only writer of session state; other components go
// through this interface.
type ContinuityTracker interface {
	StartSession(projectID, frameworkID string, metadata models.SessionMetadata) (*models.WorkflowSession, error)
	GetSession(sessionID string) (*models.WorkflowSession, error)
	FindActiveSession(projectID, frameworkID string) (*models.WorkflowSession, error)
	UpdateSessionStatus(sessionID string, status models.SessionStatus) error
	TransitionToStage(sessionID, toStageID string, outputs []models.GeneratedOutput, decisions []models.Decision) (*models.StageTransition, error)
	GetContinuity(sessionID, currentStageID, currentToolID string) (*models.WorkflowContinuity, error)
	RecordDecision(sessionID string, decision models.Decision) error
	AddCarryForwardItem(sessionID string, item models.CarryForwardItem) (*models.CarryForwardItem, error)
	UpdateCarryForwardItem(sessionID, itemID string, status models.CarryForwardStatus, force bool) (*models.CarryForwardItem, error)
	Analytics(sessionID string) (*models.SessionAnalytics, error)
}

// insightKeywords mark sentences worth surfacing as insights.
var insightKeywords = []string{"insight", "finding", "discovered", "learned", "important", "key", "significant"}

// obligationKeywords mark sentences that become carry-forward items.
var obligationKeywords = []string{"constraint", "limitation", "requirement", "must", "cannot"}

type continuityTracker struct {
	store    storage.SessionStore
	catalog  catalog.Catalog
	eventLog observability.EventLog
	now      func() time.Time

	// sessionCache keeps the last known copy of each touched session so
	// lookups can degrade when the store is unavailable.
	sessionCache map[string]models.WorkflowSession
}

// NewContinuityTracker creates a ContinuityTracker over the given store and
// catalog. eventLog may be nil when observability is disabled.
func NewContinuityTracker(store storage.SessionStore, cat catalog.Catalog, eventLog observability.EventLog) ContinuityTracker {
	return &continuityTracker{
		store:        store,
		catalog:      cat,
		eventLog:     eventLog,
		now:          time.Now,
		sessionCache: make(map[string]models.WorkflowSession),
	}
}

// StartSession creates a new active session with no current stage.
func (ct *continuityTracker) StartSession(projectID, frameworkID string, metadata models.SessionMetadata) (*models.WorkflowSession, error) {
	if projectID == "" {
		return nil, &ValidationError{Code: CodeInvalidArgument, Param: "projectId", Message: "must not be empty"}
	}
	if _, ok := ct.catalog.Framework(frameworkID); !ok {
		return nil, &NotFoundError{Resource: "framework", ID: frameworkID}
	}

	id, err := ct.store.GenerateSessionID()
	if err != nil {
		return nil, &UpstreamError{Op: "generating session id", Err: err}
	}

	now := ct.now()
	session := models.WorkflowSession{
		ID:             id,
		ProjectID:      projectID,
		FrameworkID:    frameworkID,
		Status:         models.SessionActive,
		StartedAt:      now,
		LastActivityAt: now,
		Metadata:       metadata,
	}

	if err := ct.store.UpsertSession(session); err != nil {
		return nil, &UpstreamError{Op: "persisting session", Err: err}
	}
	ct.sessionCache[id] = session

	observability.Emit(ct.eventLog, "INFO", observability.EventSessionStarted,
		fmt.Sprintf("session %s started for project %s", id, projectID),
		map[string]any{"session_id": id, "project_id": projectID, "framework_id": frameworkID})

	return &session, nil
}

// GetSession returns the session by id, falling back to the in-memory cache
// when the store read fails.
func (ct *continuityTracker) GetSession(sessionID string) (*models.WorkflowSession, error) {
	session, err := ct.store.GetSession(sessionID)
	if err == nil {
		ct.sessionCache[sessionID] = *session
		return session, nil
	}

	if cached, ok := ct.sessionCache[sessionID]; ok {
		observability.Emit(ct.eventLog, "WARN", observability.EventUpstreamDegraded,
			fmt.Sprintf("session %s served from cache: %v", sessionID, err),
			map[string]any{"session_id": sessionID})
		cp := cached
		return &cp, nil
	}
	return nil, ErrSessionNotFound(sessionID)
}

// FindActiveSession returns the active session for the project+framework
// pair, or nil when there is none.
func (ct *continuityTracker) FindActiveSession(projectID, frameworkID string) (*models.WorkflowSession, error) {
	session, err := ct.store.FindActiveSession(projectID, frameworkID)
	if err != nil {
		return nil, &UpstreamError{Op: "finding active session", Err: err}
	}
	return session, nil
}

// UpdateSessionStatus moves the session along its lifecycle:
// active -> paused/completed/abandoned, paused -> active. Terminal states
// reject any further change.
func (ct *continuityTracker) UpdateSessionStatus(sessionID string, status models.SessionStatus) error {
	session, err := ct.GetSession(sessionID)
	if err != nil {
		return err
	}

	if session.Status.Terminal() {
		return &ValidationError{
			Code:    CodeInvalidArgument,
			Param:   "status",
			Message: fmt.Sprintf("session %s is %s and accepts no further changes", sessionID, session.Status),
		}
	}
	if session.Status == models.SessionPaused && status != models.SessionActive &&
		status != models.SessionCompleted && status != models.SessionAbandoned {
		return &ValidationError{Code: CodeInvalidArgument, Param: "status", Message: fmt.Sprintf("invalid status %q", status)}
	}

	session.Status = status
	session.LastActivityAt = ct.now()
	if err := ct.store.UpsertSession(*session); err != nil {
		return &UpstreamError{Op: "persisting session status", Err: err}
	}
	ct.sessionCache[sessionID] = *session

	observability.Emit(ct.eventLog, "INFO", observability.EventSessionStatus,
		fmt.Sprintf("session %s is now %s", sessionID, status),
		map[string]any{"session_id": sessionID, "status": string(status)})
	return nil
}

// TransitionToStage records the move into toStageID: it derives insights and
// carry-forward items from the outputs and decisions, appends the immutable
// transition record, and only then advances the session's current stage.
// A failed append leaves no state changed.
func (ct *continuityTracker) TransitionToStage(sessionID, toStageID string, outputs []models.GeneratedOutput, decisions []models.Decision) (*models.StageTransition, error) {
	session, err := ct.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status.Terminal() {
		return nil, &ValidationError{
			Code:    CodeInvalidArgument,
			Param:   "sessionId",
			Message: fmt.Sprintf("session %s is %s and accepts no transitions", sessionID, session.Status),
		}
	}
	if _, ok := ct.catalog.Stage(toStageID); !ok {
		return nil, &NotFoundError{Resource: "stage", ID: toStageID}
	}

	transitionID, err := ct.store.GenerateTransitionID()
	if err != nil {
		return nil, &UpstreamError{Op: "generating transition id", Err: err}
	}

	now := ct.now()
	transition := models.StageTransition{
		ID:               transitionID,
		SessionID:        sessionID,
		FromStageID:      session.CurrentStageID,
		ToStageID:        toStageID,
		TransitionedAt:   now,
		Outputs:          outputs,
		Decisions:        decisions,
		Insights:         deriveInsights(outputs),
		ValidationStatus: models.ValidationPending,
	}
	items, err := ct.deriveCarryItems(session, toStageID, outputs, decisions, now)
	if err != nil {
		return nil, err
	}
	transition.CarryForwardItems = items

	if err := ct.store.AppendTransition(transition); err != nil {
		return nil, &UpstreamError{Op: "appending transition", Err: err}
	}

	// The transition is durable; item and session writes degrade on failure
	// rather than rolling it back.
	if len(transition.CarryForwardItems) > 0 {
		existing, err := ct.store.GetCarryItems(sessionID)
		if err == nil {
			err = ct.store.PutCarryItems(sessionID, append(existing, transition.CarryForwardItems...))
		}
		if err != nil {
			observability.Emit(ct.eventLog, "ERROR", observability.EventUpstreamDegraded,
				fmt.Sprintf("carry-forward items for %s not persisted: %v", sessionID, err),
				map[string]any{"session_id": sessionID})
		}
	}

	session.CurrentStageID = toStageID
	session.LastActivityAt = now
	if err := ct.store.UpsertSession(*session); err != nil {
		observability.Emit(ct.eventLog, "ERROR", observability.EventUpstreamDegraded,
			fmt.Sprintf("session %s stage pointer not persisted: %v", sessionID, err),
			map[string]any{"session_id": sessionID})
	}
	ct.sessionCache[sessionID] = *session

	observability.Emit(ct.eventLog, "INFO", observability.EventStageTransitioned,
		fmt.Sprintf("session %s moved to stage %s", sessionID, toStageID),
		map[string]any{"session_id": sessionID, "to_stage": toStageID, "from_stage": transition.FromStageID})

	return &transition, nil
}

// deriveInsights pulls up to two insight-flavored sentences per output.
func deriveInsights(outputs []models.GeneratedOutput) []string {
	var insights []string
	for _, out := range outputs {
		found := 0
		for _, sentence := range splitSentences(out.Content) {
			if containsAnyKeyword(sentence, insightKeywords) {
				insights = append(insights, sentence)
				found++
				if found == 2 {
					break
				}
			}
		}
	}
	return insights
}

// deriveCarryItems builds carry-forward items from obligation-flavored
// output sentences and from medium/high-impact decisions. Item ids come from
// the store's flock-guarded counter so they stay unique across processes.
func (ct *continuityTracker) deriveCarryItems(session *models.WorkflowSession, toStageID string, outputs []models.GeneratedOutput, decisions []models.Decision, now time.Time) ([]models.CarryForwardItem, error) {
	var items []models.CarryForwardItem

	for _, out := range outputs {
		for _, sentence := range splitSentences(out.Content) {
			if len(sentence) <= 20 || !containsAnyKeyword(sentence, obligationKeywords) {
				continue
			}
			itemType := models.CarryConstraint
			if strings.Contains(strings.ToLower(sentence), "requirement") {
				itemType = models.CarryRequirement
			}
			id, err := ct.store.GenerateCarryItemID()
			if err != nil {
				return nil, &UpstreamError{Op: "generating carry-forward id", Err: err}
			}
			items = append(items, models.CarryForwardItem{
				ID:           id,
				Type:         itemType,
				Content:      sentence,
				SourceStage:  session.CurrentStageID,
				SourceTool:   out.ToolID,
				TargetStages: []string{toStageID},
				Priority:     models.PriorityMedium,
				Status:       models.CarryActive,
				CreatedAt:    now,
			})
		}
	}

	for _, d := range decisions {
		if d.Impact != models.ImpactMedium && d.Impact != models.ImpactHigh {
			continue
		}
		priority := models.PriorityMedium
		if d.Impact == models.ImpactHigh {
			priority = models.PriorityHigh
		}
		id, err := ct.store.GenerateCarryItemID()
		if err != nil {
			return nil, &UpstreamError{Op: "generating carry-forward id", Err: err}
		}
		items = append(items, models.CarryForwardItem{
			ID:           id,
			Type:         models.CarryRequirement,
			Content:      fmt.Sprintf("Decision %q: %s", d.Title, d.Rationale),
			SourceStage:  session.CurrentStageID,
			TargetStages: []string{models.TargetAllStages},
			Priority:     priority,
			Status:       models.CarryActive,
			Validation: models.ItemValidation{
				Validated:   true,
				ValidatedBy: strings.Join(d.Stakeholders, ", "),
				ValidatedAt: now,
			},
			CreatedAt: now,
		})
	}

	return items, nil
}

// GetContinuity assembles everything the current stage must know about the
// session's history.
func (ct *continuityTracker) GetContinuity(sessionID, currentStageID, currentToolID string) (*models.WorkflowContinuity, error) {
	session, err := ct.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	continuity := &models.WorkflowContinuity{SessionID: sessionID}

	items, err := ct.store.GetCarryItems(sessionID)
	if err != nil {
		observability.Emit(ct.eventLog, "WARN", observability.EventUpstreamDegraded,
			fmt.Sprintf("carry-forward items for %s unavailable: %v", sessionID, err),
			map[string]any{"session_id": sessionID})
	}
	for _, item := range items {
		if item.Status == models.CarryActive && item.Targets(currentStageID) {
			continuity.CarryForwardItems = append(continuity.CarryForwardItems, item)
		}
	}

	transitions, err := ct.store.GetTransitions(sessionID)
	if err != nil {
		observability.Emit(ct.eventLog, "WARN", observability.EventUpstreamDegraded,
			fmt.Sprintf("transitions for %s unavailable: %v", sessionID, err),
			map[string]any{"session_id": sessionID})
	}

	// Previous outputs, newest first.
	for i := len(transitions) - 1; i >= 0; i-- {
		if transitions[i].ToStageID == currentStageID {
			continue
		}
		continuity.PreviousOutputs = append(continuity.PreviousOutputs, transitions[i].Outputs...)
	}

	// High-impact and follow-up decisions from transitions and the direct log.
	for _, t := range transitions {
		for _, d := range t.Decisions {
			if d.Impact == models.ImpactHigh || d.NeedsReview {
				continuity.KeyDecisions = append(continuity.KeyDecisions, d)
			}
		}
	}
	recorded, err := ct.store.GetDecisions(sessionID)
	if err == nil {
		for _, d := range recorded {
			if d.Impact == models.ImpactHigh || d.NeedsReview {
				continuity.KeyDecisions = append(continuity.KeyDecisions, d)
			}
		}
	}

	continuity.ConsistencyChecks = checkConsistency(transitions)
	continuity.Suggestions = ct.suggestNextSteps(session, currentStageID, currentToolID)

	return continuity, nil
}

// suggestNextSteps produces heuristic guidance for what to do after the
// current tool.
func (ct *continuityTracker) suggestNextSteps(session *models.WorkflowSession, currentStageID, currentToolID string) []string {
	var suggestions []string

	tool, ok := ct.catalog.Tool(currentToolID)
	if ok && tool.Category == "research" {
		if next, ok := ct.catalog.NextStage(session.FrameworkID, currentStageID); ok {
			for _, t := range ct.catalog.StageTools(next.ID) {
				if t.Category == "synthesis" {
					suggestions = append(suggestions, fmt.Sprintf("Synthesize %s findings with %s in the %s stage.", tool.Name, t.Name, next.Name))
					break
				}
			}
		}
	}

	if session.Metadata.AccessibilityFocus {
		suggestions = append(suggestions, "Run an accessibility review before closing out this stage.")
	}

	if _, ok := ct.catalog.NextStage(session.FrameworkID, currentStageID); !ok && currentStageID != "" {
		suggestions = append(suggestions, "This is the final stage; consider completing the session and archiving its outputs.")
	}

	return suggestions
}

// RecordDecision appends an immutable decision to the session's direct log.
func (ct *continuityTracker) RecordDecision(sessionID string, decision models.Decision) error {
	if _, err := ct.GetSession(sessionID); err != nil {
		return err
	}
	if decision.Title == "" {
		return &ValidationError{Code: CodeInvalidArgument, Param: "title", Message: "must not be empty"}
	}
	if decision.RecordedAt.IsZero() {
		decision.RecordedAt = ct.now()
	}

	existing, err := ct.store.GetDecisions(sessionID)
	if err != nil {
		return &UpstreamError{Op: "reading decisions", Err: err}
	}
	if err := ct.store.PutDecisions(sessionID, append(existing, decision)); err != nil {
		return &UpstreamError{Op: "persisting decision", Err: err}
	}

	observability.Emit(ct.eventLog, "INFO", observability.EventDecisionRecorded,
		fmt.Sprintf("decision %q recorded for session %s", decision.Title, sessionID),
		map[string]any{"session_id": sessionID, "impact": string(decision.Impact)})
	return nil
}

// AddCarryForwardItem stores an explicitly-created item for the session.
func (ct *continuityTracker) AddCarryForwardItem(sessionID string, item models.CarryForwardItem) (*models.CarryForwardItem, error) {
	if _, err := ct.GetSession(sessionID); err != nil {
		return nil, err
	}
	if item.Content == "" {
		return nil, &ValidationError{Code: CodeInvalidArgument, Param: "content", Message: "must not be empty"}
	}

	now := ct.now()
	if item.ID == "" {
		id, err := ct.store.GenerateCarryItemID()
		if err != nil {
			return nil, &UpstreamError{Op: "generating carry-forward id", Err: err}
		}
		item.ID = id
	}
	if item.Status == "" {
		item.Status = models.CarryActive
	}
	if item.Priority == "" {
		item.Priority = models.PriorityMedium
	}
	if len(item.TargetStages) == 0 {
		item.TargetStages = []string{models.TargetAllStages}
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}

	existing, err := ct.store.GetCarryItems(sessionID)
	if err != nil {
		return nil, &UpstreamError{Op: "reading carry-forward items", Err: err}
	}
	if err := ct.store.PutCarryItems(sessionID, append(existing, item)); err != nil {
		return nil, &UpstreamError{Op: "persisting carry-forward item", Err: err}
	}
	return &item, nil
}

// UpdateCarryForwardItem moves an item along its lifecycle. Unknown item ids
// return (nil, nil) so callers can treat it as a no-op. Leaving a terminal
// status requires force.
func (ct *continuityTracker) UpdateCarryForwardItem(sessionID, itemID string, status models.CarryForwardStatus, force bool) (*models.CarryForwardItem, error) {
	if _, err := ct.GetSession(sessionID); err != nil {
		return nil, err
	}

	items, err := ct.store.GetCarryItems(sessionID)
	if err != nil {
		return nil, &UpstreamError{Op: "reading carry-forward items", Err: err}
	}

	for i := range items {
		if items[i].ID != itemID {
			continue
		}
		if items[i].Status != models.CarryActive && status == models.CarryActive && !force {
			return nil, &ValidationError{
				Code:    CodeInvalidArgument,
				Param:   "status",
				Message: fmt.Sprintf("item %s is %s; reactivation requires force", itemID, items[i].Status),
			}
		}
		items[i].Status = status
		if err := ct.store.PutCarryItems(sessionID, items); err != nil {
			return nil, &UpstreamError{Op: "persisting carry-forward item", Err: err}
		}
		observability.Emit(ct.eventLog, "INFO", observability.EventCarryItemUpdated,
			fmt.Sprintf("carry-forward item %s is now %s", itemID, status),
			map[string]any{"session_id": sessionID, "item_id": itemID, "status": string(status)})
		cp := items[i]
		return &cp, nil
	}
	return nil, nil
}

// Analytics computes session statistics on demand; nothing is cached.
func (ct *continuityTracker) Analytics(sessionID string) (*models.SessionAnalytics, error) {
	session, err := ct.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	transitions, err := ct.store.GetTransitions(sessionID)
	if err != nil {
		return nil, &UpstreamError{Op: "reading transitions", Err: err}
	}
	items, err := ct.store.GetCarryItems(sessionID)
	if err != nil {
		return nil, &UpstreamError{Op: "reading carry-forward items", Err: err}
	}
	recorded, err := ct.store.GetDecisions(sessionID)
	if err != nil {
		return nil, &UpstreamError{Op: "reading decisions", Err: err}
	}

	analytics := &models.SessionAnalytics{
		SessionID: sessionID,
		Duration:  session.LastActivityAt.Sub(session.StartedAt),
	}

	stagesSeen := make(map[string]bool)
	for _, t := range transitions {
		stagesSeen[t.ToStageID] = true
		analytics.DecisionCount += len(t.Decisions)
		analytics.OutputCount += len(t.Outputs)
	}
	analytics.StagesCompleted = len(stagesSeen)
	analytics.DecisionCount += len(recorded)

	resolved := 0
	for _, item := range items {
		if item.Status == models.CarryActive {
			analytics.ActiveCarryItems++
		}
		if item.Status == models.CarryResolved {
			resolved++
		}
	}
	if len(items) == 0 {
		analytics.ConsistencyScore = 100
	} else {
		analytics.ConsistencyScore = float64(resolved) / float64(len(items)) * 100
	}

	return analytics, nil
}
