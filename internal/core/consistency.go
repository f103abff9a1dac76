package core

import (
	"fmt"
	"strings"

	"github.com/praxiskit/praxis/pkg/models"
)

// trackedTerms is the fixed vocabulary the consistency checker watches. The
// check is deliberately coarse: it flags presence divergence of a term
// across stages, not semantic drift in how the term is used.
var trackedTerms = []struct {
	term      string
	checkType models.ConsistencyCheckType
}{
	{"user", models.CheckUserNeeds},
	{"customer", models.CheckUserNeeds},
	{"stakeholder", models.CheckTerminology},
	{"requirement", models.CheckConstraints},
	{"constraint", models.CheckConstraints},
	{"goal", models.CheckGoals},
}

// checkConsistency scans every previous stage's outputs for the tracked
// terms and flags terms whose usage set differs across stages. Checks are
// regenerated on each call and never stored.
func checkConsistency(transitions []models.StageTransition) []models.ConsistencyCheck {
	// Per-term: which stages used it, in transition order.
	type usage struct {
		stages []models.TermUsage
		seen   map[string]bool
	}
	usages := make(map[string]*usage, len(trackedTerms))
	for _, t := range trackedTerms {
		usages[t.term] = &usage{seen: make(map[string]bool)}
	}

	stagesWithOutputs := make(map[string]bool)
	for _, transition := range transitions {
		if len(transition.Outputs) == 0 {
			continue
		}
		stagesWithOutputs[transition.ToStageID] = true

		var combined strings.Builder
		for _, out := range transition.Outputs {
			combined.WriteString(strings.ToLower(out.Content))
			combined.WriteString(" ")
		}
		text := combined.String()

		for _, t := range trackedTerms {
			u := usages[t.term]
			if strings.Contains(text, t.term) && !u.seen[transition.ToStageID] {
				u.seen[transition.ToStageID] = true
				u.stages = append(u.stages, models.TermUsage{
					StageID:    transition.ToStageID,
					Value:      "present",
					ObservedAt: transition.TransitionedAt,
				})
			}
		}
	}

	var checks []models.ConsistencyCheck
	for _, t := range trackedTerms {
		u := usages[t.term]
		if len(u.stages) == 0 {
			continue
		}

		check := models.ConsistencyCheck{
			Type:           t.checkType,
			Term:           t.term,
			CurrentValue:   "present",
			PreviousValues: u.stages,
		}

		switch {
		case len(stagesWithOutputs) <= 1:
			// Nothing to compare against yet.
			check.Status = models.ConsistencyUnclear
		case len(u.stages) == len(stagesWithOutputs):
			check.Status = models.ConsistencyConsistent
		default:
			check.Status = models.ConsistencyInconsistent
			check.Recommendation = fmt.Sprintf(
				"%q appears in %d of %d stages with outputs; standardize its use across stages",
				t.term, len(u.stages), len(stagesWithOutputs))
		}
		checks = append(checks, check)
	}

	// Synonym pair: using both "user" and "customer" is flagged even when
	// each is individually consistent.
	userStages := usages["user"].seen
	customerStages := usages["customer"].seen
	if len(userStages) > 0 && len(customerStages) > 0 {
		checks = append(checks, models.ConsistencyCheck{
			Type:           models.CheckTerminology,
			Term:           "user/customer",
			CurrentValue:   "both in use",
			Status:         models.ConsistencyInconsistent,
			Recommendation: "Both \"user\" and \"customer\" are in use; pick one term and apply it consistently.",
		})
	}

	return checks
}
