// Package recent keeps the most-recently-opened databases list, stored as
// recent-databases.json in the application data directory.
package recent

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/natefinch/atomic"

	"github.com/zhubert/afterthought-core/bundle"
	"github.com/zhubert/afterthought-core/paths"
)

// MaxEntries caps the list; older entries fall off the end.
const MaxEntries = 20

type fileData struct {
	Databases  []bundle.Info `json:"databases"`
	LastOpened *string       `json:"lastOpened"`
}

// Store reads and updates the recent-databases file. Each call reads the file
// fresh, so several processes can share it; mu serializes callers in this one.
type Store struct {
	mu   sync.Mutex
	path func() (string, error)
}

// NewStore returns a Store backed by the default recent-databases file.
func NewStore() *Store {
	return NewStoreWithPath(paths.RecentDatabasesFilePath)
}

// NewStoreWithPath returns a Store that resolves its file with path (for testing).
func NewStoreWithPath(path func() (string, error)) *Store {
	return &Store{path: path}
}

// List returns the recent databases, most recent first.
func (s *Store) List() ([]bundle.Info, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return nil, err
	}
	return data.Databases, nil
}

// Add moves info to the front of the list and marks it last opened.
func (s *Store) Add(info bundle.Info) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return err
	}

	dbs := make([]bundle.Info, 0, len(data.Databases)+1)
	dbs = append(dbs, info)
	for _, db := range data.Databases {
		if db.Path != info.Path {
			dbs = append(dbs, db)
		}
	}
	if len(dbs) > MaxEntries {
		dbs = dbs[:MaxEntries]
	}

	data.Databases = dbs
	last := info.Path
	data.LastOpened = &last
	return s.write(data)
}

// Remove drops path from the list. It reports whether anything was removed.
func (s *Store) Remove(path string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return false, err
	}

	kept := data.Databases[:0]
	for _, db := range data.Databases {
		if db.Path != path {
			kept = append(kept, db)
		}
	}
	if len(kept) == len(data.Databases) {
		return false, nil
	}

	data.Databases = kept
	if data.LastOpened != nil && *data.LastOpened == path {
		data.LastOpened = nil
	}
	return true, s.write(data)
}

// LastOpened returns the last opened database path if valid accepts it,
// otherwise "".
func (s *Store) LastOpened(valid func(path string) bool) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return "", err
	}
	if data.LastOpened == nil || !valid(*data.LastOpened) {
		return "", nil
	}
	return *data.LastOpened, nil
}

// read loads the file, treating a missing file as an empty list.
// Caller must hold mu.
func (s *Store) read() (*fileData, error) {
	path, err := s.path()
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &fileData{Databases: []bundle.Info{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read recent databases: %w", err)
	}

	var data fileData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse recent databases: %w", err)
	}
	if data.Databases == nil {
		data.Databases = []bundle.Info{}
	}
	return &data, nil
}

// write replaces the file. Caller must hold mu.
func (s *Store) write(data *fileData) error {
	path, err := s.path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode recent databases: %w", err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("failed to write recent databases: %w", err)
	}
	return os.Chmod(path, 0644)
}
