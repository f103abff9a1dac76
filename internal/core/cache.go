package core

import (
	"strings"
	"sync"

	"github.com/praxiskit/praxis/pkg/models"
)

// ContextCache stores ranked context results by request signature. There is
// no TTL: entries live until an explicit invalidation, and callers are
// responsible for invalidating after any out-of-band change to the
// underlying sources.
type ContextCache interface {
	Get(key string) ([]models.EnrichedKnowledgeEntry, bool)
	Put(key string, entries []models.EnrichedKnowledgeEntry)
	InvalidatePrefix(prefix string) int
	Clear()
	Len() int
}

type contextCache struct {
	mu      sync.Mutex
	entries map[string][]models.EnrichedKnowledgeEntry
}

// NewContextCache creates an empty ContextCache.
func NewContextCache() ContextCache {
	return &contextCache{
		entries: make(map[string][]models.EnrichedKnowledgeEntry),
	}
}

func (c *contextCache) Get(key string) ([]models.EnrichedKnowledgeEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *contextCache) Put(key string, entries []models.EnrichedKnowledgeEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entries
}

// InvalidatePrefix removes every entry whose key starts with prefix and
// returns the number removed. Invalidating a project's cached context after
// its sources change is the expected use.
func (c *contextCache) InvalidatePrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

func (c *contextCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string][]models.EnrichedKnowledgeEntry)
}

func (c *contextCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
