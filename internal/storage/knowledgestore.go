package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/praxiskit/praxis/pkg/models"
)

// KnowledgeStore manages the knowledge base under knowledge/. The ranker
// reads entries through this interface and never mutates them.
type KnowledgeStore interface {
	AddEntry(entry models.KnowledgeEntry) (string, error)
	GetEntry(id string) (*models.KnowledgeEntry, error)
	GetAllEntries() ([]models.KnowledgeEntry, error)
	Search(query string) ([]models.KnowledgeEntry, error)
	GenerateID() (string, error)
	Load() error
	Save() error
}

type fileKnowledgeStore struct {
	basePath string
	index    models.KnowledgeIndex
}

// NewKnowledgeStore creates a KnowledgeStore backed by YAML files under
// knowledge/ in the given base directory.
func NewKnowledgeStore(basePath string) KnowledgeStore {
	return &fileKnowledgeStore{
		basePath: basePath,
		index: models.KnowledgeIndex{
			Version: "1.0",
			Entries: nil,
		},
	}
}

func (s *fileKnowledgeStore) knowledgeDir() string {
	return filepath.Join(s.basePath, "knowledge")
}

func (s *fileKnowledgeStore) indexPath() string {
	return filepath.Join(s.knowledgeDir(), "index.yaml")
}

func (s *fileKnowledgeStore) counterPath() string {
	return filepath.Join(s.knowledgeDir(), ".knowledge_counter")
}

// AddEntry stores a knowledge entry. An empty id is assigned from the counter.
func (s *fileKnowledgeStore) AddEntry(entry models.KnowledgeEntry) (string, error) {
	if entry.ID == "" {
		id, err := s.GenerateID()
		if err != nil {
			return "", fmt.Errorf("adding knowledge entry: %w", err)
		}
		entry.ID = id
	}

	for _, existing := range s.index.Entries {
		if existing.ID == entry.ID {
			return "", fmt.Errorf("adding knowledge entry: %s already exists", entry.ID)
		}
	}

	s.index.Entries = append(s.index.Entries, entry)
	if err := s.Save(); err != nil {
		return "", fmt.Errorf("adding knowledge entry: %w", err)
	}
	return entry.ID, nil
}

// GetEntry returns the entry by id.
func (s *fileKnowledgeStore) GetEntry(id string) (*models.KnowledgeEntry, error) {
	for i := range s.index.Entries {
		if s.index.Entries[i].ID == id {
			cp := s.index.Entries[i]
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("knowledge entry %s not found", id)
}

// GetAllEntries returns all entries in index order.
func (s *fileKnowledgeStore) GetAllEntries() ([]models.KnowledgeEntry, error) {
	out := make([]models.KnowledgeEntry, len(s.index.Entries))
	copy(out, s.index.Entries)
	return out, nil
}

// Search returns entries whose title, content, or tags contain the query,
// case-insensitively.
func (s *fileKnowledgeStore) Search(query string) ([]models.KnowledgeEntry, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, nil
	}

	var results []models.KnowledgeEntry
	for _, entry := range s.index.Entries {
		if strings.Contains(strings.ToLower(entry.Title), q) ||
			strings.Contains(strings.ToLower(entry.Content), q) {
			results = append(results, entry)
			continue
		}
		for _, tag := range entry.Tags {
			if strings.Contains(strings.ToLower(tag), q) {
				results = append(results, entry)
				break
			}
		}
	}
	return results, nil
}

// GenerateID reads and increments the knowledge counter file, returning the
// next sequential id in K-XXXXX format.
func (s *fileKnowledgeStore) GenerateID() (string, error) {
	if err := os.MkdirAll(s.knowledgeDir(), 0o755); err != nil {
		return "", fmt.Errorf("generating knowledge id: creating directory: %w", err)
	}

	counter := 0
	data, err := os.ReadFile(s.counterPath())
	if err == nil {
		trimmed := strings.TrimSpace(string(data))
		if trimmed != "" {
			counter, err = strconv.Atoi(trimmed)
			if err != nil {
				return "", fmt.Errorf("generating knowledge id: parsing counter: %w", err)
			}
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("generating knowledge id: reading counter: %w", err)
	}

	counter++
	if err := os.WriteFile(s.counterPath(), []byte(strconv.Itoa(counter)), 0o600); err != nil {
		return "", fmt.Errorf("generating knowledge id: writing counter: %w", err)
	}
	return fmt.Sprintf("K-%05d", counter), nil
}

// Load reads the knowledge index from disk. Missing files are treated as empty.
func (s *fileKnowledgeStore) Load() error {
	if err := loadYAML(s.indexPath(), &s.index); err != nil {
		return fmt.Errorf("loading knowledge index: %w", err)
	}
	if s.index.Version == "" {
		s.index.Version = "1.0"
	}
	return nil
}

// Save persists the knowledge index to disk.
func (s *fileKnowledgeStore) Save() error {
	if err := os.MkdirAll(s.knowledgeDir(), 0o755); err != nil {
		return fmt.Errorf("saving knowledge store: creating directory: %w", err)
	}
	if err := saveYAML(s.indexPath(), &s.index); err != nil {
		return fmt.Errorf("saving knowledge index: %w", err)
	}
	return nil
}
