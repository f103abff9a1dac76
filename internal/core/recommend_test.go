package core

import (
	"testing"

	"github.com/praxiskit/praxis/pkg/models"
	"pgregory.net/rapid"
)

func TestRecommendMethodSignals(t *testing.T) {
	tests := []struct {
		name string
		ctx  models.RecommendationContext
		want string
	}{
		{"examples requested", models.RecommendationContext{NeedsExamples: true}, "few-shot"},
		{"step by step", models.RecommendationContext{StepByStep: true}, "chain-of-thought"},
		{"multiple perspectives", models.RecommendationContext{MultiplePerspectives: true}, "tree-of-thought"},
		{"domain expertise", models.RecommendationContext{DomainExpertise: true}, "persona"},
		{"knowledge base", models.RecommendationContext{HasKnowledgeBase: true}, "knowledge-grounded"},
		{"basic no signals", models.RecommendationContext{Complexity: "basic"}, "zero-shot"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := RecommendMethod(tt.ctx)
			if rec.PrimaryMethod != tt.want {
				t.Errorf("expected %s, got %s (score %d)", tt.want, rec.PrimaryMethod, rec.Score)
			}
			if len(rec.Reasons) == 0 {
				t.Error("expected at least one reason")
			}
		})
	}
}

func TestRecommendMethodAlternatives(t *testing.T) {
	rec := RecommendMethod(models.RecommendationContext{StepByStep: true, Complexity: "advanced"})

	if len(rec.Alternatives) != 3 {
		t.Fatalf("expected 3 alternatives, got %d", len(rec.Alternatives))
	}
	for _, alt := range rec.Alternatives {
		if alt == rec.PrimaryMethod {
			t.Errorf("primary method %s repeated in alternatives", alt)
		}
	}
}

// Feature: method recommender, Property 1: Total and stable
// Every context yields a primary method, exactly three alternatives, and a
// bounded score; identical contexts yield identical answers.
func TestProperty_RecommendTotality(t *testing.T) {
	complexities := []string{"", "basic", "intermediate", "advanced"}

	rapid.Check(t, func(rt *rapid.T) {
		ctx := models.RecommendationContext{
			Complexity:           rapid.SampledFrom(complexities).Draw(rt, "complexity"),
			NeedsExamples:        rapid.Bool().Draw(rt, "examples"),
			MultiplePerspectives: rapid.Bool().Draw(rt, "perspectives"),
			DomainExpertise:      rapid.Bool().Draw(rt, "expertise"),
			StepByStep:           rapid.Bool().Draw(rt, "steps"),
			HasKnowledgeBase:     rapid.Bool().Draw(rt, "kb"),
		}

		first := RecommendMethod(ctx)
		second := RecommendMethod(ctx)

		if first.PrimaryMethod == "" {
			t.Fatal("no primary method")
		}
		if len(first.Alternatives) != 3 {
			t.Fatalf("expected 3 alternatives, got %d", len(first.Alternatives))
		}
		if first.Score < 0 || first.Score > 100 {
			t.Fatalf("score %d out of range", first.Score)
		}
		if first.PrimaryMethod != second.PrimaryMethod {
			t.Fatalf("unstable recommendation: %s vs %s", first.PrimaryMethod, second.PrimaryMethod)
		}
	})
}
