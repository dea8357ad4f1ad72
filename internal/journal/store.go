package journal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Store handles persistence of the journal
type Store struct {
	filePath string
}

// NewStore creates a new journal store
func NewStore(filePath string) *Store {
	return &Store{
		filePath: filePath,
	}
}

// Save writes the journal to disk as JSON. The file is replaced atomically so
// an interrupted run never leaves a truncated journal behind.
func (s *Store) Save(j *Journal) error {
	dir := filepath.Dir(s.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	j.mu.Lock()
	data, err := json.MarshalIndent(j, "", "  ")
	j.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to marshal journal: %w", err)
	}

	tmp := s.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write journal file: %w", err)
	}
	if err := os.Rename(tmp, s.filePath); err != nil {
		return fmt.Errorf("failed to replace journal file: %w", err)
	}

	return nil
}

// Load reads the journal from disk
func (s *Store) Load() (*Journal, error) {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("journal file not found: %s", s.filePath)
		}
		return nil, fmt.Errorf("failed to read journal file: %w", err)
	}

	j := New()
	if err := json.Unmarshal(data, j); err != nil {
		return nil, fmt.Errorf("failed to parse journal file: %w", err)
	}
	if j.Version != Version {
		return nil, fmt.Errorf("unsupported journal version %q in %s", j.Version, s.filePath)
	}

	return j, nil
}

// LoadOrNew reads the journal, or returns an empty one if none was saved yet
func (s *Store) LoadOrNew() (*Journal, error) {
	if !s.Exists() {
		return New(), nil
	}
	return s.Load()
}

// Exists checks if the journal file exists
func (s *Store) Exists() bool {
	_, err := os.Stat(s.filePath)
	return err == nil
}

// Delete removes the journal file
func (s *Store) Delete() error {
	if !s.Exists() {
		return nil
	}
	return os.Remove(s.filePath)
}

// Path returns the file path where the journal is stored
func (s *Store) Path() string {
	return s.filePath
}
