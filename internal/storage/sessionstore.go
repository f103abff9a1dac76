// Package storage implements the YAML file-backed persistence layer:
// workflow sessions with their transition logs under sessions/, and the
// knowledge base under knowledge/. Stores keep an in-memory index and
// persist explicitly via Load/Save; writes by id are upserts.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/praxiskit/praxis/pkg/models"
	"gopkg.in/yaml.v3"
)

// SessionStore manages workflow sessions and their append-only transition
// logs. UpsertSession is create-or-replace by id; transitions only append.
type SessionStore interface {
	UpsertSession(session models.WorkflowSession) error
	GetSession(id string) (*models.WorkflowSession, error)
	FindActiveSession(projectID, frameworkID string) (*models.WorkflowSession, error)
	ListSessions() ([]models.WorkflowSession, error)
	AppendTransition(transition models.StageTransition) error
	GetTransitions(sessionID string) ([]models.StageTransition, error)
	PutCarryItems(sessionID string, items []models.CarryForwardItem) error
	GetCarryItems(sessionID string) ([]models.CarryForwardItem, error)
	PutDecisions(sessionID string, decisions []models.Decision) error
	GetDecisions(sessionID string) ([]models.Decision, error)
	GenerateSessionID() (string, error)
	GenerateTransitionID() (string, error)
	GenerateCarryItemID() (string, error)
	Load() error
	Save() error
}

type fileSessionStore struct {
	basePath         string
	sessionPrefix    string
	transitionPrefix string
	index            models.SessionIndex
}

// NewSessionStore creates a SessionStore backed by YAML files under
// sessions/ in the given base directory, with the default id prefixes.
func NewSessionStore(basePath string) SessionStore {
	return NewSessionStoreWithPrefixes(basePath, "", "")
}

// NewSessionStoreWithPrefixes creates a SessionStore whose generated ids use
// the given prefixes. Empty prefixes fall back to "S" and "T".
func NewSessionStoreWithPrefixes(basePath, sessionPrefix, transitionPrefix string) SessionStore {
	if sessionPrefix == "" {
		sessionPrefix = "S"
	}
	if transitionPrefix == "" {
		transitionPrefix = "T"
	}
	return &fileSessionStore{
		basePath:         basePath,
		sessionPrefix:    sessionPrefix,
		transitionPrefix: transitionPrefix,
		index: models.SessionIndex{
			Version:  "1.0",
			Sessions: nil,
		},
	}
}

func (s *fileSessionStore) sessionsDir() string {
	return filepath.Join(s.basePath, "sessions")
}

func (s *fileSessionStore) indexPath() string {
	return filepath.Join(s.sessionsDir(), "index.yaml")
}

func (s *fileSessionStore) sessionDir(id string) string {
	return filepath.Join(s.sessionsDir(), id)
}

// UpsertSession creates or replaces the session record by id, in the index
// and on disk.
func (s *fileSessionStore) UpsertSession(session models.WorkflowSession) error {
	if session.ID == "" {
		return fmt.Errorf("upserting session: ID must not be empty")
	}

	dir := s.sessionDir(session.ID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("upserting session %s: creating directory: %w", session.ID, err)
	}
	if err := saveYAML(filepath.Join(dir, "session.yaml"), &session); err != nil {
		return fmt.Errorf("upserting session %s: writing metadata: %w", session.ID, err)
	}

	replaced := false
	for i := range s.index.Sessions {
		if s.index.Sessions[i].ID == session.ID {
			s.index.Sessions[i] = session
			replaced = true
			break
		}
	}
	if !replaced {
		s.index.Sessions = append(s.index.Sessions, session)
	}

	return s.Save()
}

// GetSession returns the session by id, or an error when it is unknown.
func (s *fileSessionStore) GetSession(id string) (*models.WorkflowSession, error) {
	for i := range s.index.Sessions {
		if s.index.Sessions[i].ID == id {
			cp := s.index.Sessions[i]
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("session %s not found", id)
}

// FindActiveSession returns the active session for the project+framework
// pair, or nil when there is none. Used to reuse sessions instead of
// creating duplicates per project.
func (s *fileSessionStore) FindActiveSession(projectID, frameworkID string) (*models.WorkflowSession, error) {
	for i := range s.index.Sessions {
		sess := &s.index.Sessions[i]
		if sess.ProjectID == projectID && sess.FrameworkID == frameworkID && sess.Status == models.SessionActive {
			cp := *sess
			return &cp, nil
		}
	}
	return nil, nil
}

// ListSessions returns all sessions in index order.
func (s *fileSessionStore) ListSessions() ([]models.WorkflowSession, error) {
	out := make([]models.WorkflowSession, len(s.index.Sessions))
	copy(out, s.index.Sessions)
	return out, nil
}

// AppendTransition appends the transition to the session's transition log.
func (s *fileSessionStore) AppendTransition(transition models.StageTransition) error {
	if transition.SessionID == "" {
		return fmt.Errorf("appending transition: session ID must not be empty")
	}

	transitions, err := s.GetTransitions(transition.SessionID)
	if err != nil {
		return fmt.Errorf("appending transition: %w", err)
	}
	transitions = append(transitions, transition)

	dir := s.sessionDir(transition.SessionID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("appending transition: creating directory: %w", err)
	}

	wrapper := struct {
		Transitions []models.StageTransition `yaml:"transitions"`
	}{Transitions: transitions}
	if err := saveYAML(filepath.Join(dir, "transitions.yaml"), &wrapper); err != nil {
		return fmt.Errorf("appending transition: writing log: %w", err)
	}
	return nil
}

// GetTransitions loads the session's transition log from disk. A missing log
// file means no transitions yet.
func (s *fileSessionStore) GetTransitions(sessionID string) ([]models.StageTransition, error) {
	var wrapper struct {
		Transitions []models.StageTransition `yaml:"transitions"`
	}
	path := filepath.Join(s.sessionDir(sessionID), "transitions.yaml")
	if err := loadYAML(path, &wrapper); err != nil {
		return nil, fmt.Errorf("reading transitions for %s: %w", sessionID, err)
	}
	return wrapper.Transitions, nil
}

// PutCarryItems replaces the session's carry-forward item set on disk.
func (s *fileSessionStore) PutCarryItems(sessionID string, items []models.CarryForwardItem) error {
	dir := s.sessionDir(sessionID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("writing carry-forward items: creating directory: %w", err)
	}
	wrapper := struct {
		Items []models.CarryForwardItem `yaml:"items"`
	}{Items: items}
	if err := saveYAML(filepath.Join(dir, "carryforward.yaml"), &wrapper); err != nil {
		return fmt.Errorf("writing carry-forward items for %s: %w", sessionID, err)
	}
	return nil
}

// GetCarryItems loads the session's carry-forward items from disk.
func (s *fileSessionStore) GetCarryItems(sessionID string) ([]models.CarryForwardItem, error) {
	var wrapper struct {
		Items []models.CarryForwardItem `yaml:"items"`
	}
	path := filepath.Join(s.sessionDir(sessionID), "carryforward.yaml")
	if err := loadYAML(path, &wrapper); err != nil {
		return nil, fmt.Errorf("reading carry-forward items for %s: %w", sessionID, err)
	}
	return wrapper.Items, nil
}

// PutDecisions replaces the session's directly-recorded decision list.
func (s *fileSessionStore) PutDecisions(sessionID string, decisions []models.Decision) error {
	dir := s.sessionDir(sessionID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("writing decisions: creating directory: %w", err)
	}
	wrapper := struct {
		Decisions []models.Decision `yaml:"decisions"`
	}{Decisions: decisions}
	if err := saveYAML(filepath.Join(dir, "decisions.yaml"), &wrapper); err != nil {
		return fmt.Errorf("writing decisions for %s: %w", sessionID, err)
	}
	return nil
}

// GetDecisions loads the session's directly-recorded decisions from disk.
func (s *fileSessionStore) GetDecisions(sessionID string) ([]models.Decision, error) {
	var wrapper struct {
		Decisions []models.Decision `yaml:"decisions"`
	}
	path := filepath.Join(s.sessionDir(sessionID), "decisions.yaml")
	if err := loadYAML(path, &wrapper); err != nil {
		return nil, fmt.Errorf("reading decisions for %s: %w", sessionID, err)
	}
	return wrapper.Decisions, nil
}

// GenerateSessionID returns the next sequential session id (S-XXXXX by
// default; the prefix is configurable).
func (s *fileSessionStore) GenerateSessionID() (string, error) {
	return s.nextCounterID(".session_counter", s.sessionPrefix)
}

// GenerateTransitionID returns the next sequential transition id (T-XXXXX by
// default; the prefix is configurable).
func (s *fileSessionStore) GenerateTransitionID() (string, error) {
	return s.nextCounterID(".transition_counter", s.transitionPrefix)
}

// GenerateCarryItemID returns the next sequential carry-forward item id
// (CF-XXXXX). The counter is flock-guarded like the session and transition
// counters, so concurrent processes never hand out the same id.
func (s *fileSessionStore) GenerateCarryItemID() (string, error) {
	return s.nextCounterID(".carryitem_counter", "CF")
}

// nextCounterID reads and increments a counter file under sessions/,
// holding an exclusive flock for the read-modify-write.
func (s *fileSessionStore) nextCounterID(counterName, prefix string) (string, error) {
	if err := os.MkdirAll(s.sessionsDir(), 0o755); err != nil {
		return "", fmt.Errorf("generating %s id: creating directory: %w", prefix, err)
	}
	counterFile := filepath.Join(s.sessionsDir(), counterName)

	unlock, err := lockFile(counterFile)
	if err != nil {
		return "", fmt.Errorf("generating %s id: acquiring lock: %w", prefix, err)
	}
	defer unlock()

	counter := 0
	data, err := os.ReadFile(counterFile)
	if err == nil {
		trimmed := strings.TrimSpace(string(data))
		if trimmed != "" {
			counter, err = strconv.Atoi(trimmed)
			if err != nil {
				return "", fmt.Errorf("generating %s id: parsing counter: %w", prefix, err)
			}
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("generating %s id: reading counter: %w", prefix, err)
	}

	counter++
	if err := os.WriteFile(counterFile, []byte(strconv.Itoa(counter)), 0o600); err != nil {
		return "", fmt.Errorf("generating %s id: writing counter: %w", prefix, err)
	}
	return fmt.Sprintf("%s-%05d", prefix, counter), nil
}

// lockFile acquires an exclusive flock on the given path.
func lockFile(path string) (unlock func() error, err error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening lock file: %w", err)
	}

	// syscall.Flock is Unix-specific. On Windows, this will compile but may
	// not work; a different locking mechanism is needed there.
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		f.Close()
		return nil, fmt.Errorf("acquiring lock: %w", err)
	}

	return func() error {
		defer f.Close()
		return syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
	}, nil
}

// Load reads the session index from disk. Missing files are treated as empty.
func (s *fileSessionStore) Load() error {
	if err := loadYAML(s.indexPath(), &s.index); err != nil {
		return fmt.Errorf("loading session index: %w", err)
	}
	if s.index.Version == "" {
		s.index.Version = "1.0"
	}
	return nil
}

// Save persists the session index to disk.
func (s *fileSessionStore) Save() error {
	if err := os.MkdirAll(s.sessionsDir(), 0o755); err != nil {
		return fmt.Errorf("saving session store: creating directory: %w", err)
	}
	if err := saveYAML(s.indexPath(), &s.index); err != nil {
		return fmt.Errorf("saving session index: %w", err)
	}
	return nil
}

func loadYAML(path string, target interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // Missing files are initialized to zero values.
		}
		return err
	}
	return yaml.Unmarshal(data, target)
}

func saveYAML(path string, source interface{}) error {
	data, err := yaml.Marshal(source)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
