package core

import (
	"sort"

	"github.com/praxiskit/praxis/internal/catalog"
	"github.com/praxiskit/praxis/pkg/models"
)

// recommendationRule adds a bonus (or penalty) to one method when its
// condition holds for the context.
type recommendationRule struct {
	methodID string
	bonus    int
	reason   string
	applies  func(models.RecommendationContext) bool
}

var recommendationRules = []recommendationRule{
	{"few-shot", 30, "worked examples were requested", func(c models.RecommendationContext) bool { return c.NeedsExamples }},
	{"chain-of-thought", 25, "step-by-step reasoning was requested", func(c models.RecommendationContext) bool { return c.StepByStep }},
	{"tree-of-thought", 30, "multiple perspectives were requested", func(c models.RecommendationContext) bool { return c.MultiplePerspectives }},
	{"persona", 25, "domain expertise was requested", func(c models.RecommendationContext) bool { return c.DomainExpertise }},
	{"knowledge-grounded", 30, "a knowledge base is available to ground on", func(c models.RecommendationContext) bool { return c.HasKnowledgeBase }},
	{"knowledge-grounded", -20, "", func(c models.RecommendationContext) bool { return !c.HasKnowledgeBase }},
	{"zero-shot", 20, "basic tasks need no scaffolding", func(c models.RecommendationContext) bool { return c.Complexity == "basic" }},
	{"zero-shot", -15, "", func(c models.RecommendationContext) bool { return c.Complexity == "advanced" }},
	{"chain-of-thought", 15, "advanced tasks benefit from explicit reasoning", func(c models.RecommendationContext) bool { return c.Complexity == "advanced" }},
	{"chain-of-thought", 10, "intermediate tasks benefit from visible steps", func(c models.RecommendationContext) bool { return c.Complexity == "intermediate" }},
	{"tree-of-thought", 10, "advanced tasks reward exploring branches", func(c models.RecommendationContext) bool { return c.Complexity == "advanced" }},
	{"tree-of-thought", -10, "", func(c models.RecommendationContext) bool { return c.Complexity == "basic" }},
	{"few-shot", 10, "examples anchor simpler tasks quickly", func(c models.RecommendationContext) bool { return c.Complexity == "basic" && c.NeedsExamples }},
}

// RecommendMethod scores every built-in method against the context with the
// additive rule table and returns the top method plus up to three
// alternatives. Ties keep the catalog's method order, so results are stable.
func RecommendMethod(ctx models.RecommendationContext) models.MethodRecommendation {
	scores := make(map[string]int)
	reasons := make(map[string][]string)
	for _, m := range catalog.Methods() {
		scores[m.ID] = 50
	}

	for _, rule := range recommendationRules {
		if !rule.applies(ctx) {
			continue
		}
		scores[rule.methodID] += rule.bonus
		if rule.reason != "" && rule.bonus > 0 {
			reasons[rule.methodID] = append(reasons[rule.methodID], rule.reason)
		}
	}

	ranked := make([]string, 0, len(scores))
	for _, m := range catalog.Methods() {
		ranked = append(ranked, m.ID)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return scores[ranked[i]] > scores[ranked[j]]
	})

	rec := models.MethodRecommendation{
		PrimaryMethod: ranked[0],
		Score:         clampScore(scores[ranked[0]]),
		Reasons:       reasons[ranked[0]],
	}
	if len(rec.Reasons) == 0 {
		rec.Reasons = []string{"no strong signal in the context; defaulting to the simplest fit"}
	}
	for _, id := range ranked[1:] {
		if len(rec.Alternatives) == 3 {
			break
		}
		rec.Alternatives = append(rec.Alternatives, id)
	}
	return rec
}
