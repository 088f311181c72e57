package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/agentfoundry/agent-directory/core"
)

var (
	// ErrCorrupt means the backing file exists but is not parseable JSON.
	// Operations never auto-repair a corrupt store.
	ErrCorrupt = errors.New("agent store is not valid JSON")

	// ErrNotArray means the backing file holds valid JSON whose top-level
	// value is not an array. Callers decide per endpoint whether that is
	// "no usable data" or a hard failure.
	ErrNotArray = errors.New("agent store is not a JSON array")
)

// FileStore persists the whole agent directory as a single pretty-printed
// JSON array in one file. Every read loads the full file and every write
// rewrites it; access is serialized through one RWMutex so concurrent
// submissions cannot drop each other's append.
type FileStore struct {
	mu   sync.RWMutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the location of the backing file.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads every record from the backing file. A missing file is an empty
// directory, not an error.
func (s *FileStore) Load() ([]core.Agent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read()
}

// Save rewrites the backing file with the given records.
func (s *FileStore) Save(agents []core.Agent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(agents)
}

// Append adds one record at the end of the store. The write lock spans the
// whole read-modify-write, so two concurrent Appends both land. A corrupt
// store aborts the operation with the file untouched; a non-array store is
// reset to empty with a warning before the append.
func (s *FileStore) Append(agent core.Agent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	agents, err := s.read()
	if err != nil {
		if !errors.Is(err, ErrNotArray) {
			return err
		}
		log.Printf("Agent store %s does not hold a JSON array, reinitializing to empty", s.path)
		agents = []core.Agent{}
	}

	agents = append(agents, agent)
	return s.write(agents)
}

func (s *FileStore) read() ([]core.Agent, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []core.Agent{}, nil
		}
		return nil, fmt.Errorf("reading agent store %s: %w", s.path, err)
	}

	var agents []core.Agent
	if err := json.Unmarshal(data, &agents); err != nil {
		var shape any
		if json.Unmarshal(data, &shape) != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		return nil, ErrNotArray
	}
	if agents == nil {
		// The file holds the literal "null".
		return nil, ErrNotArray
	}
	return agents, nil
}

func (s *FileStore) write(agents []core.Agent) error {
	if agents == nil {
		agents = []core.Agent{}
	}

	data, err := json.MarshalIndent(agents, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding agent store: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating agent store directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("writing agent store %s: %w", s.path, err)
	}
	return nil
}
