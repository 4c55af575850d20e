package kvstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Store is the persistence primitive behind the listing cache and the
// view gate. Values are JSON-encoded; Get reports found=false for absent
// keys and returns an error for entries that no longer decode.
type Store interface {
	Get(key string, out interface{}) (bool, error)
	Set(key string, value interface{}) error
	Delete(key string) error
}

// FileStore keeps each key as a JSON file under a directory.
type FileStore struct {
	dir    string
	mu     sync.RWMutex
	logger *logrus.Logger
}

func NewFileStore(dir string, logger *logrus.Logger) *FileStore {
	os.MkdirAll(dir, 0755)
	return &FileStore{
		dir:    dir,
		logger: logger,
	}
}

func (s *FileStore) path(key string) string {
	// Keys use "/" as a namespace separator; flatten for the filesystem.
	name := strings.ReplaceAll(key, "/", "_") + ".json"
	return filepath.Join(s.dir, name)
}

func (s *FileStore) Get(key string, out interface{}) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

func (s *FileStore) Set(key string, value interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := os.WriteFile(s.path(key), data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// MemoryStore is the in-memory Store used in tests.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]json.RawMessage
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]json.RawMessage),
	}
}

func (s *MemoryStore) Get(key string, out interface{}) (bool, error) {
	s.mu.RLock()
	data, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

func (s *MemoryStore) Set(key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	s.mu.Lock()
	s.entries[key] = data
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

// SetRaw stores bytes without validation. Tests use it to simulate
// corrupt persisted state.
func (s *MemoryStore) SetRaw(key string, data []byte) {
	s.mu.Lock()
	s.entries[key] = data
	s.mu.Unlock()
}
