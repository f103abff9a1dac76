package core

import (
	"strings"
	"testing"

	"github.com/praxiskit/praxis/internal/catalog"
)

const wellFormedText = `# Research Plan

First, define the goal: interview 8 users about checkout.
Then identify the key tasks to test and measure completion.
- Create a discussion guide with open questions.
- Document the evidence and data from each session.
Because the context matters, review the scope and assumptions.
Finally, analyze the results and prioritize the next steps.`

func TestScoreBuckets(t *testing.T) {
	q := NewQualityScorer()

	result := q.Score(wellFormedText, "", "")
	if result.OverallScore < 0 || result.OverallScore > 100 {
		t.Fatalf("overall score out of range: %d", result.OverallScore)
	}
	if result.Bucket == "" {
		t.Fatal("expected a bucket")
	}
	if len(result.Scores) != 9 {
		t.Errorf("expected 9 core metric scores, got %d", len(result.Scores))
	}
}

func TestBucketBoundaries(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{85, "excellent"},
		{84, "good"},
		{70, "good"},
		{69, "fair"},
		{55, "fair"},
		{54, "poor"},
		{0, "poor"},
		{100, "excellent"},
	}
	for _, tt := range tests {
		if got := string(bucketFor(tt.score)); got != tt.want {
			t.Errorf("bucketFor(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestScoreTemplateProfileExtendsMetrics(t *testing.T) {
	q := NewQualityScorer()

	plain := q.Score(wellFormedText, "", "")
	profiled := q.Score(wellFormedText, "user-interview", "")

	if len(profiled.Scores) != len(plain.Scores)+2 {
		t.Errorf("expected 2 extra metrics from the user-interview profile, got %d vs %d",
			len(profiled.Scores), len(plain.Scores))
	}

	found := false
	for _, s := range profiled.Scores {
		if s.MetricID == "empathy-language" {
			found = true
		}
	}
	if !found {
		t.Error("expected empathy-language metric in profiled scores")
	}
}

func TestScoreIndustryProfile(t *testing.T) {
	q := NewQualityScorer()

	result := q.Score(wellFormedText, "", "healthcare")
	found := false
	for _, s := range result.Scores {
		if s.MetricID == "compliance-language" {
			found = true
		}
	}
	if !found {
		t.Error("expected compliance-language metric for healthcare")
	}
}

func TestScoreSummaryCaps(t *testing.T) {
	q := NewQualityScorer()

	// Thin text scores poorly across many metrics; the summary lists must
	// still respect their caps.
	result := q.Score("ok", "user-interview", "healthcare")

	if len(result.Strengths) > 5 {
		t.Errorf("strengths over cap: %d", len(result.Strengths))
	}
	if len(result.Weaknesses) > 5 {
		t.Errorf("weaknesses over cap: %d", len(result.Weaknesses))
	}
	if len(result.CriticalIssues) > 3 {
		t.Errorf("critical issues over cap: %d", len(result.CriticalIssues))
	}
	if len(result.Recommendations) > 8 {
		t.Errorf("recommendations over cap: %d", len(result.Recommendations))
	}
}

func TestScoreSummaryNoDuplicates(t *testing.T) {
	q := NewQualityScorer()
	result := q.Score(wellFormedText, "user-interview", "education")

	seen := make(map[string]bool)
	for _, list := range [][]string{result.Strengths, result.Weaknesses, result.CriticalIssues, result.Recommendations} {
		for _, entry := range list {
			if seen[entry] {
				t.Errorf("duplicate summary entry: %q", entry)
			}
			seen[entry] = true
		}
	}
}

func TestValidateMethodTextUnknownMethodFirst(t *testing.T) {
	q := NewQualityScorer()

	_, err := q.ValidateMethodText("no-such-method", wellFormedText, "basic")
	if err == nil {
		t.Fatal("expected error for unknown method")
	}
	if !IsUnknownMethod(err) {
		t.Errorf("expected unknown-method error, got %v", err)
	}
}

func TestValidateMethodTextCombinedWeights(t *testing.T) {
	q := NewQualityScorer()

	result, err := q.ValidateMethodText("chain-of-thought", wellFormedText, "intermediate")
	if err != nil {
		t.Fatalf("ValidateMethodText failed: %v", err)
	}

	want := int(0.4*float64(result.MethodScore) + 0.2*float64(result.Coherence) +
		0.25*float64(result.Effectiveness) + 0.15*float64(result.Appropriateness) + 0.5)
	if result.Combined < want-1 || result.Combined > want+1 {
		t.Errorf("combined %d does not match weighted parts (%d expected)", result.Combined, want)
	}
	if result.Appropriateness != 90 {
		t.Errorf("expected 90 for matching tier, got %d", result.Appropriateness)
	}
}

func TestValidateMethodTextTierMismatch(t *testing.T) {
	q := NewQualityScorer()

	result, err := q.ValidateMethodText("tree-of-thought", "short text", "basic")
	if err != nil {
		t.Fatalf("ValidateMethodText failed: %v", err)
	}
	if result.Appropriateness >= 65 {
		t.Errorf("expected low appropriateness for advanced method on basic task, got %d", result.Appropriateness)
	}
	joined := strings.Join(result.Notes, " ")
	if !strings.Contains(joined, "complexity") {
		t.Errorf("expected a tier-mismatch note, got %v", result.Notes)
	}
}

func TestMethodShapeScoreRewardsShape(t *testing.T) {
	cotText := "First, consider the step. Then reason about it. Therefore the answer follows step by step."
	flat := "The answer is yes."

	method, ok := catalog.Method("chain-of-thought")
	if !ok {
		t.Fatal("chain-of-thought method missing from catalog")
	}
	if methodShapeScore(method, cotText) <= methodShapeScore(method, flat) {
		t.Error("expected step-flavored text to outscore flat text for chain-of-thought")
	}
}
