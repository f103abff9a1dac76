package models

import "time"

// KnowledgeEntryType categorizes the kind of knowledge captured.
type KnowledgeEntryType string

const (
	KnowledgeTypeResearch  KnowledgeEntryType = "research"
	KnowledgeTypeGuideline KnowledgeEntryType = "guideline"
	KnowledgeTypePattern   KnowledgeEntryType = "pattern"
	KnowledgeTypeCaseStudy KnowledgeEntryType = "case_study"
	KnowledgeTypeOutput    KnowledgeEntryType = "output"
)

// KnowledgeEntry is a single knowledge-base record. The ranker treats these
// as read-only input and never mutates them.
type KnowledgeEntry struct {
	ID        string             `yaml:"id"`
	Title     string             `yaml:"title"`
	Content   string             `yaml:"content"`
	Type      KnowledgeEntryType `yaml:"type"`
	Tags      []string           `yaml:"tags,omitempty"`
	CreatedAt time.Time          `yaml:"created_at"`
}

// KnowledgeIndex is the master index of all knowledge entries.
type KnowledgeIndex struct {
	Version string           `yaml:"version"`
	Entries []KnowledgeEntry `yaml:"entries"`
}

// EnrichedKnowledgeEntry is a knowledge entry augmented with contextual
// relevance information for the current task. Computed per request, cached
// by request signature, never persisted.
type EnrichedKnowledgeEntry struct {
	Entry             KnowledgeEntry `yaml:"entry"`
	RelevanceScore    float64        `yaml:"relevance_score"`
	ContextualTags    []string       `yaml:"contextual_tags,omitempty"`
	ExtractedInsights []string       `yaml:"extracted_insights,omitempty"`
	Connection        string         `yaml:"connection,omitempty"`
}

// ProcessingOptions controls how knowledge entries are ranked and filtered.
type ProcessingOptions struct {
	MaxEntries         int     `yaml:"max_entries" mapstructure:"max_entries"`
	RelevanceThreshold float64 `yaml:"relevance_threshold" mapstructure:"relevance_threshold"`
	PrioritizeRecent   bool    `yaml:"prioritize_recent" mapstructure:"prioritize_recent"`
}

// DefaultProcessingOptions returns the options used when a caller supplies none.
func DefaultProcessingOptions() ProcessingOptions {
	return ProcessingOptions{
		MaxEntries:         10,
		RelevanceThreshold: 0.3,
		PrioritizeRecent:   true,
	}
}
