package core

import (
	"testing"

	"github.com/praxiskit/praxis/pkg/models"
)

func TestContextCache(t *testing.T) {
	c := NewContextCache()

	if _, ok := c.Get("proj-a|x"); ok {
		t.Error("expected miss on empty cache")
	}

	c.Put("proj-a|x", []models.EnrichedKnowledgeEntry{{}})
	c.Put("proj-a|y", []models.EnrichedKnowledgeEntry{{}, {}})
	c.Put("proj-b|x", nil)

	if got, ok := c.Get("proj-a|y"); !ok || len(got) != 2 {
		t.Errorf("expected hit with 2 entries, got ok=%t len=%d", ok, len(got))
	}
	if c.Len() != 3 {
		t.Errorf("expected 3 cached results, got %d", c.Len())
	}

	if removed := c.InvalidatePrefix("proj-a|"); removed != 2 {
		t.Errorf("expected 2 removed, got %d", removed)
	}
	if _, ok := c.Get("proj-a|x"); ok {
		t.Error("expected proj-a entries gone")
	}
	if _, ok := c.Get("proj-b|x"); !ok {
		t.Error("expected proj-b entry untouched")
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("expected empty cache after Clear, got %d", c.Len())
	}
}

func TestSplitSentences(t *testing.T) {
	got := splitSentences("First one. Second!  Third?\nFourth\n\n")
	want := []string{"First one", "Second", "Third", "Fourth"}
	if len(got) != len(want) {
		t.Fatalf("expected %d sentences, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sentence %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestCountKeywordsCountsEachOnce(t *testing.T) {
	n := countKeywords("must must must cannot", []string{"must", "cannot", "requirement"})
	if n != 2 {
		t.Errorf("expected 2, got %d", n)
	}
}
