// Package session persists the session snapshot: which databases were open
// and where their windows sat, so the next launch can restore them.
//
// The snapshot lives in session.json inside the application data directory:
//
//	{
//	  "openDatabases": ["/docs/Notes"],
//	  "windowGeometry": {"/docs/Notes": {"x": 10, "y": 20, "width": 800, "height": 600}}
//	}
//
// Session data is advisory. Writes favor availability: if the data directory
// cannot be resolved or written, the snapshot is skipped and the failure is
// only logged.
package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"github.com/zhubert/afterthought-core/logger"
	"github.com/zhubert/afterthought-core/paths"
)

// FileName is the snapshot file name inside the data directory.
const FileName = "session.json"

var errNoDataDir = errors.New("application data directory unavailable")

// WindowGeometry is a window rectangle in logical (scale-independent) units.
type WindowGeometry struct {
	X      int32  `json:"x"`
	Y      int32  `json:"y"`
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
}

// State is the persisted snapshot. Every key of WindowGeometry also appears
// in OpenDatabases.
type State struct {
	OpenDatabases  []string                  `json:"openDatabases"`
	WindowGeometry map[string]WindowGeometry `json:"windowGeometry"`
}

// DirFunc resolves the directory the snapshot is stored in.
type DirFunc func() (string, error)

// Store reads and writes the session snapshot.
type Store struct {
	dir DirFunc
}

// NewStore returns a Store rooted at the application data directory.
func NewStore() *Store {
	return NewStoreWithDir(paths.DataDir)
}

// NewStoreWithDir returns a Store that resolves its directory with dir.
// This is primarily used for testing.
func NewStoreWithDir(dir DirFunc) *Store {
	return &Store{dir: dir}
}

// Path returns the full path of the snapshot file.
func (s *Store) Path() (string, error) {
	dir, err := s.dir()
	if err != nil {
		return "", fmt.Errorf("%w: %w", errNoDataDir, err)
	}
	return filepath.Join(dir, FileName), nil
}

// Write persists dbPaths and geometry, replacing any previous snapshot.
// Failures are logged and otherwise ignored.
func (s *Store) Write(dbPaths []string, geometry map[string]WindowGeometry) {
	log := logger.WithComponent("session")

	err := s.Save(State{OpenDatabases: dbPaths, WindowGeometry: geometry})
	switch {
	case errors.Is(err, errNoDataDir):
		log.Debug("skipping session write", "error", err)
	case err != nil:
		log.Warn("failed to write session", "error", err)
	default:
		log.Debug("session written", "databases", len(dbPaths), "geometry", len(geometry))
	}
}

// Save persists state, replacing any previous snapshot, and reports failures.
func (s *Store) Save(state State) error {
	path, err := s.Path()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	state.normalize()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	// atomic.WriteFile leaves temp-file permissions on new files
	if err := os.Chmod(path, 0644); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	return nil
}

// Load reads the last snapshot. It returns nil, nil when none has been written.
func (s *Store) Load() (*State, error) {
	path, err := s.Path()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}
	// Older snapshots only carried openDatabases
	state.normalize()
	return &state, nil
}

func (st *State) normalize() {
	if st.OpenDatabases == nil {
		st.OpenDatabases = []string{}
	}
	if st.WindowGeometry == nil {
		st.WindowGeometry = make(map[string]WindowGeometry)
	}
}
