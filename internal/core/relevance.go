package core

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/praxiskit/praxis/internal/catalog"
	"github.com/praxiskit/praxis/pkg/models"
)

// ContextRanker scores, filters, and enriches knowledge entries for
// relevance to the active (framework, stage, tool) triple. Input entries are
// never mutated.
type ContextRanker interface {
	ProcessContext(projectID string, entries []models.KnowledgeEntry, frameworkID, stageID, toolID string, opts models.ProcessingOptions) []models.EnrichedKnowledgeEntry
	InvalidateProject(projectID string) int
	ClearCache()
}

type contextRanker struct {
	catalog catalog.Catalog
	cache   ContextCache
	now     func() time.Time
}

// NewContextRanker creates a ContextRanker over the given catalog with its
// own result cache.
func NewContextRanker(cat catalog.Catalog) ContextRanker {
	return &contextRanker{
		catalog: cat,
		cache:   NewContextCache(),
		now:     time.Now,
	}
}

// ProcessContext ranks the entries for the triple and returns the enriched
// survivors, newest-ranked first. Results are cached per request signature;
// an empty input yields an empty output without error.
func (cr *contextRanker) ProcessContext(projectID string, entries []models.KnowledgeEntry, frameworkID, stageID, toolID string, opts models.ProcessingOptions) []models.EnrichedKnowledgeEntry {
	key := cr.signature(projectID, entries, frameworkID, stageID, toolID, opts)
	if cached, ok := cr.cache.Get(key); ok {
		return cached
	}

	fw, _ := cr.catalog.Framework(frameworkID)
	stage, _ := cr.catalog.Stage(stageID)
	tool, _ := cr.catalog.Tool(toolID)

	now := cr.now()

	type scored struct {
		entry     models.KnowledgeEntry
		relevance float64
		rank      float64
	}

	var survivors []scored
	for _, entry := range entries {
		rel := relevanceScore(entry, fw, stage, tool, now)
		if rel < opts.RelevanceThreshold {
			continue
		}
		rank := rel
		if opts.PrioritizeRecent {
			rank = 0.7*rel + 0.3*recencyScore(entry.CreatedAt, now)
		}
		survivors = append(survivors, scored{entry: entry, relevance: rel, rank: rank})
	}

	// Stable sort keeps input order for equal rank keys.
	sort.SliceStable(survivors, func(i, j int) bool {
		return survivors[i].rank > survivors[j].rank
	})

	if opts.MaxEntries > 0 && len(survivors) > opts.MaxEntries {
		survivors = survivors[:opts.MaxEntries]
	}

	enriched := make([]models.EnrichedKnowledgeEntry, 0, len(survivors))
	for _, s := range survivors {
		enriched = append(enriched, models.EnrichedKnowledgeEntry{
			Entry:             s.entry,
			RelevanceScore:    s.relevance,
			ContextualTags:    contextualTags(s.entry, frameworkID, stageID, toolID),
			ExtractedInsights: extractInsights(s.entry.Content, fw.Name, stage.Name, tool.Name),
			Connection:        connectionLine(s.entry, fw, stage, tool),
		})
	}

	cr.cache.Put(key, enriched)
	return enriched
}

// InvalidateProject drops every cached result for the given project.
func (cr *contextRanker) InvalidateProject(projectID string) int {
	return cr.cache.InvalidatePrefix(projectID + "|")
}

// ClearCache drops all cached results.
func (cr *contextRanker) ClearCache() {
	cr.cache.Clear()
}

// signature builds the cache key from everything that affects the result.
func (cr *contextRanker) signature(projectID string, entries []models.KnowledgeEntry, frameworkID, stageID, toolID string, opts models.ProcessingOptions) string {
	h := sha256.New()
	for _, e := range entries {
		fmt.Fprintf(h, "%s:%d;", e.ID, e.CreatedAt.Unix())
	}
	fmt.Fprintf(h, "%d:%.3f:%t", opts.MaxEntries, opts.RelevanceThreshold, opts.PrioritizeRecent)
	return fmt.Sprintf("%s|%s|%s|%s|%x", projectID, frameworkID, stageID, toolID, h.Sum(nil)[:8])
}

// relevanceScore accumulates the heuristic relevance of one entry:
// +0.25 per triple name found in title+content, +0.10 per matching tag,
// +0.10 for entries under a week old, clamped to [0,1].
func relevanceScore(entry models.KnowledgeEntry, fw catalog.Framework, stage catalog.Stage, tool catalog.Tool, now time.Time) float64 {
	haystack := strings.ToLower(entry.Title + " " + entry.Content)

	score := 0.0
	for _, name := range []string{fw.Name, stage.Name, tool.Name, tool.Category} {
		if name != "" && strings.Contains(haystack, strings.ToLower(name)) {
			score += 0.25
		}
	}

	for _, tag := range entry.Tags {
		if tagMatches(tag, fw, stage, tool) {
			score += 0.10
		}
	}

	if now.Sub(entry.CreatedAt) < 7*24*time.Hour {
		score += 0.10
	}

	if score > 1 {
		score = 1
	}
	if score < 0 {
		score = 0
	}
	return score
}

func tagMatches(tag string, fw catalog.Framework, stage catalog.Stage, tool catalog.Tool) bool {
	t := strings.ToLower(tag)
	for _, candidate := range []string{fw.ID, stage.ID, tool.ID, fw.Name, stage.Name, tool.Name, tool.Category} {
		if candidate != "" && t == strings.ToLower(candidate) {
			return true
		}
	}
	return false
}

// recencyScore decays linearly from 1 to 0 over 30 days.
func recencyScore(createdAt, now time.Time) float64 {
	ageDays := now.Sub(createdAt).Hours() / 24
	r := 1 - ageDays/30
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}

func contextualTags(entry models.KnowledgeEntry, frameworkID, stageID, toolID string) []string {
	return []string{
		"framework:" + frameworkID,
		"stage:" + stageID,
		"tool:" + toolID,
		"type:" + string(entry.Type),
	}
}

// extractInsights pulls up to three sentences that mention a triple name and
// carry enough substance to be worth surfacing.
func extractInsights(content string, names ...string) []string {
	var insights []string
	for _, sentence := range splitSentences(content) {
		if len(sentence) <= 20 {
			continue
		}
		lower := strings.ToLower(sentence)
		for _, name := range names {
			if name != "" && strings.Contains(lower, strings.ToLower(name)) {
				insights = append(insights, sentence)
				break
			}
		}
		if len(insights) == 3 {
			break
		}
	}
	return insights
}

func connectionLine(entry models.KnowledgeEntry, fw catalog.Framework, stage catalog.Stage, tool catalog.Tool) string {
	return fmt.Sprintf("%q informs %s work during the %s stage of %s.",
		entry.Title, tool.Name, stage.Name, fw.Name)
}
