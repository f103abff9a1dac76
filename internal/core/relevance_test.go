package core

import (
	"fmt"
	"testing"
	"time"

	"github.com/praxiskit/praxis/internal/catalog"
	"github.com/praxiskit/praxis/pkg/models"
)

var rankerNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestRanker() *contextRanker {
	cr := NewContextRanker(catalog.NewCatalog()).(*contextRanker)
	cr.now = func() time.Time { return rankerNow }
	return cr
}

func entry(id, title, content string, age time.Duration, tags ...string) models.KnowledgeEntry {
	return models.KnowledgeEntry{
		ID:        id,
		Title:     title,
		Content:   content,
		Type:      models.KnowledgeTypeResearch,
		Tags:      tags,
		CreatedAt: rankerNow.Add(-age),
	}
}

func TestProcessContextEmptyInput(t *testing.T) {
	cr := newTestRanker()

	got := cr.ProcessContext("proj", nil, "design-thinking", "empathize", "user-interview", models.DefaultProcessingOptions())
	if len(got) != 0 {
		t.Errorf("expected no results for empty knowledge base, got %d", len(got))
	}
}

func TestProcessContextThresholdDropsEntries(t *testing.T) {
	cr := newTestRanker()

	entries := []models.KnowledgeEntry{
		entry("K-00001", "Empathize notes from user interview sessions",
			"The user interview during the empathize stage surfaced recurring frustration.", 2*24*time.Hour, "empathize"),
		entry("K-00002", "Quarterly budget", "Numbers for finance.", 300*24*time.Hour),
	}

	opts := models.DefaultProcessingOptions()
	got := cr.ProcessContext("proj", entries, "design-thinking", "empathize", "user-interview", opts)

	for _, e := range got {
		if e.Entry.ID == "K-00002" {
			t.Errorf("expected irrelevant entry dropped, but it survived with score %.2f", e.RelevanceScore)
		}
		if e.RelevanceScore < opts.RelevanceThreshold {
			t.Errorf("entry %s survived below threshold: %.2f", e.Entry.ID, e.RelevanceScore)
		}
	}
}

func TestProcessContextMaxEntries(t *testing.T) {
	cr := newTestRanker()

	var entries []models.KnowledgeEntry
	for i := 0; i < 20; i++ {
		entries = append(entries, entry(
			fmt.Sprintf("K-%05d", i+1),
			"User interview findings",
			"Interviews with users during empathize revealed unmet needs.",
			time.Duration(i)*24*time.Hour,
			"empathize"))
	}

	opts := models.ProcessingOptions{MaxEntries: 5, RelevanceThreshold: 0.1, PrioritizeRecent: true}
	got := cr.ProcessContext("proj", entries, "design-thinking", "empathize", "user-interview", opts)
	if len(got) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(got))
	}
}

func TestProcessContextEnrichment(t *testing.T) {
	cr := newTestRanker()

	entries := []models.KnowledgeEntry{
		entry("K-00001", "User Interview playbook",
			"A good user interview avoids leading questions and lets silence work.", 24*time.Hour, "research"),
	}

	got := cr.ProcessContext("proj", entries, "design-thinking", "empathize", "user-interview", models.DefaultProcessingOptions())
	if len(got) != 1 {
		t.Fatalf("expected 1 enriched entry, got %d", len(got))
	}

	e := got[0]
	wantTags := map[string]bool{
		"framework:design-thinking": true,
		"stage:empathize":           true,
		"tool:user-interview":       true,
	}
	for _, tag := range e.ContextualTags {
		delete(wantTags, tag)
	}
	if len(wantTags) != 0 {
		t.Errorf("missing contextual tags: %v (got %v)", wantTags, e.ContextualTags)
	}
	if e.Connection == "" {
		t.Error("expected a connection line")
	}
	if len(e.ExtractedInsights) == 0 {
		t.Error("expected at least one extracted insight")
	}
}

func TestProcessContextCacheAndInvalidation(t *testing.T) {
	cr := newTestRanker()

	entries := []models.KnowledgeEntry{
		entry("K-00001", "User interview notes", "Users struggle with onboarding.", 24*time.Hour, "empathize"),
	}
	opts := models.DefaultProcessingOptions()

	first := cr.ProcessContext("proj-a", entries, "design-thinking", "empathize", "user-interview", opts)
	second := cr.ProcessContext("proj-a", entries, "design-thinking", "empathize", "user-interview", opts)
	if len(first) != len(second) {
		t.Fatalf("cached result differs: %d vs %d", len(first), len(second))
	}

	cr.ProcessContext("proj-b", entries, "design-thinking", "empathize", "user-interview", opts)

	dropped := cr.InvalidateProject("proj-a")
	if dropped != 1 {
		t.Errorf("expected 1 cache entry invalidated for proj-a, got %d", dropped)
	}
	if n := cr.InvalidateProject("proj-b"); n != 1 {
		t.Errorf("expected proj-b cache untouched by proj-a invalidation, got %d remaining", n)
	}
}

func TestRecencyBonus(t *testing.T) {
	cr := newTestRanker()

	fresh := entry("K-00001", "unrelated title", "unrelated content", 2*24*time.Hour)
	stale := entry("K-00002", "unrelated title", "unrelated content", 30*24*time.Hour)

	fw, _ := cr.catalog.Framework("design-thinking")
	stage, _ := cr.catalog.Stage("empathize")
	tool, _ := cr.catalog.Tool("user-interview")

	freshScore := relevanceScore(fresh, fw, stage, tool, rankerNow)
	staleScore := relevanceScore(stale, fw, stage, tool, rankerNow)
	if freshScore-staleScore < 0.09 || freshScore-staleScore > 0.11 {
		t.Errorf("expected ~0.10 recency bonus, fresh=%.2f stale=%.2f", freshScore, staleScore)
	}
}
