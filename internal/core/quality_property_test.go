package core

import (
	"testing"

	"pgregory.net/rapid"
)

var profileIDs = []string{"", "user-interview", "usability-test", "problem-statement", "brainstorming"}
var industryTags = []string{"", "healthcare", "finance", "education"}

// Feature: quality scorer, Property 1: Boundedness
// For any input text and profile combination, every metric score and the
// overall score stay within [0,100] and the bucket matches the overall score.
func TestProperty_ScoreBoundedness(t *testing.T) {
	q := NewQualityScorer()

	rapid.Check(t, func(rt *rapid.T) {
		text := rapid.StringN(0, 2000, 4000).Draw(rt, "text")
		templateID := rapid.SampledFrom(profileIDs).Draw(rt, "template")
		industry := rapid.SampledFrom(industryTags).Draw(rt, "industry")

		result := q.Score(text, templateID, industry)

		if result.OverallScore < 0 || result.OverallScore > 100 {
			t.Fatalf("overall score %d out of range", result.OverallScore)
		}
		for _, s := range result.Scores {
			if s.Score < 0 || s.Score > 100 {
				t.Fatalf("metric %s score %d out of range", s.MetricID, s.Score)
			}
		}
		if result.Bucket != bucketFor(result.OverallScore) {
			t.Fatalf("bucket %s does not match overall %d", result.Bucket, result.OverallScore)
		}
		if len(result.Strengths) > 5 || len(result.Weaknesses) > 5 ||
			len(result.CriticalIssues) > 3 || len(result.Recommendations) > 8 {
			t.Fatalf("summary caps violated: %d/%d/%d/%d",
				len(result.Strengths), len(result.Weaknesses),
				len(result.CriticalIssues), len(result.Recommendations))
		}
	})
}

// Feature: quality scorer, Property 2: Scoring is a pure function
// The same text, template, and industry always produce the same result.
func TestProperty_ScoreDeterminism(t *testing.T) {
	q := NewQualityScorer()

	rapid.Check(t, func(rt *rapid.T) {
		text := rapid.StringN(0, 500, 1000).Draw(rt, "text")
		templateID := rapid.SampledFrom(profileIDs).Draw(rt, "template")

		first := q.Score(text, templateID, "")
		second := q.Score(text, templateID, "")

		if first.OverallScore != second.OverallScore || first.Bucket != second.Bucket {
			t.Fatalf("non-deterministic scoring: %d/%s vs %d/%s",
				first.OverallScore, first.Bucket, second.OverallScore, second.Bucket)
		}
	})
}
