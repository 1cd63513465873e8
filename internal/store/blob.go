// Package store owns the persisted monitor state: the capacity-bounded
// haptic event log, the insight list and the user config. Everything
// persists as small flat blobs keyed by name; a missing or corrupt
// blob falls back to defaults and never fails startup.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Persisted blob keys
const (
	KeyEvents            = "hapticEvents"
	KeyInsights          = "aiInsights"
	KeySensitivity       = "sensitivityMode"
	KeyMonitoringEnabled = "isMonitoringEnabled"
	KeyReminderInterval  = "reminderInterval"
)

// ErrNotFound is returned when an event id is not in the log
var ErrNotFound = errors.New("event not found")

// Blob saves and loads named byte blobs. Load reports whether the key
// existed; absence is not an error.
type Blob interface {
	Save(key string, data []byte) error
	Load(key string) ([]byte, bool, error)
}

// FileStore keeps one file per key inside a state directory
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore creates the state directory if needed
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Save writes the blob atomically via a temp file rename
func (s *FileStore) Save(key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write blob %s: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to commit blob %s: %w", key, err)
	}
	return nil
}

// Load reads the blob; a missing file reports (nil, false, nil)
func (s *FileStore) Load(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read blob %s: %w", key, err)
	}
	return data, true, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// MemStore is an in-memory blob store for tests
type MemStore struct {
	mu    sync.Mutex
	blobs map[string][]byte

	// SaveError, if set, is returned by every Save
	SaveError error
}

// NewMemStore creates an empty in-memory store
func NewMemStore() *MemStore {
	return &MemStore{blobs: make(map[string][]byte)}
}

// Save stores a copy of the blob
func (s *MemStore) Save(key string, data []byte) error {
	if s.SaveError != nil {
		return s.SaveError
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	s.blobs[key] = cp
	return nil
}

// Load returns the stored blob, if any
func (s *MemStore) Load(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.blobs[key]
	return data, ok, nil
}

// Put seeds a blob directly, bypassing SaveError
func (s *MemStore) Put(key string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = data
}
