// Package paths provides centralized path resolution for Afterthought's
// per-user directories.
//
// Afterthought supports the XDG Base Directory Specification:
//
//   - Config (XDG_CONFIG_HOME): config.yaml (user settings)
//   - Data (XDG_DATA_HOME): session.json, recent-databases.json (app data)
//   - State (XDG_STATE_HOME): logs/ (transient log files)
//
// Resolution order:
//  1. If ~/.afterthought/ exists → use legacy flat layout (all paths under it)
//  2. If XDG env vars are set → use XDG layout with proper separation
//  3. Fresh install, no XDG vars → default to ~/.afterthought/
//
// Database bundles themselves live wherever the user puts them; the default
// database goes under the documents directory (XDG_DOCUMENTS_DIR or ~/Documents).
package paths

import (
	"os"
	"path/filepath"
	"sync"
)

const (
	appName     = "afterthought"
	legacyName  = ".afterthought"
	sessionFile = "session.json"
	recentFile  = "recent-databases.json"
	configFile  = "config.yaml"
)

var (
	mu       sync.Mutex
	resolved *resolvedPaths
)

type resolvedPaths struct {
	home      string
	configDir string
	dataDir   string
	stateDir  string
	legacy    bool
}

// resolve computes the path layout once and caches it.
func resolve() (*resolvedPaths, error) {
	mu.Lock()
	defer mu.Unlock()

	if resolved != nil {
		return resolved, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	legacyDir := filepath.Join(home, legacyName)

	// 1. If ~/.afterthought/ exists, use legacy layout
	if info, err := os.Stat(legacyDir); err == nil && info.IsDir() {
		resolved = legacyLayout(home, legacyDir)
		return resolved, nil
	}

	// 2. Check XDG env vars
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	xdgData := os.Getenv("XDG_DATA_HOME")
	xdgState := os.Getenv("XDG_STATE_HOME")

	if xdgConfig != "" || xdgData != "" || xdgState != "" {
		if xdgConfig == "" {
			xdgConfig = filepath.Join(home, ".config")
		}
		if xdgData == "" {
			xdgData = filepath.Join(home, ".local", "share")
		}
		if xdgState == "" {
			xdgState = filepath.Join(home, ".local", "state")
		}
		resolved = &resolvedPaths{
			home:      home,
			configDir: filepath.Join(xdgConfig, appName),
			dataDir:   filepath.Join(xdgData, appName),
			stateDir:  filepath.Join(xdgState, appName),
		}
		return resolved, nil
	}

	// 3. Fresh install, no XDG, default to legacy
	resolved = legacyLayout(home, legacyDir)
	return resolved, nil
}

func legacyLayout(home, dir string) *resolvedPaths {
	return &resolvedPaths{
		home:      home,
		configDir: dir,
		dataDir:   dir,
		stateDir:  dir,
		legacy:    true,
	}
}

// ConfigDir returns the directory for configuration files (config.yaml).
func ConfigDir() (string, error) {
	r, err := resolve()
	if err != nil {
		return "", err
	}
	return r.configDir, nil
}

// DataDir returns the application data directory. The session snapshot and
// the recent-databases list are stored here.
func DataDir() (string, error) {
	r, err := resolve()
	if err != nil {
		return "", err
	}
	return r.dataDir, nil
}

// StateDir returns the directory for runtime state and logs.
func StateDir() (string, error) {
	r, err := resolve()
	if err != nil {
		return "", err
	}
	return r.stateDir, nil
}

// DocumentsDir returns the user's documents directory. XDG_DOCUMENTS_DIR wins
// when set; otherwise ~/Documents.
func DocumentsDir() (string, error) {
	if dir := os.Getenv("XDG_DOCUMENTS_DIR"); dir != "" {
		return dir, nil
	}
	r, err := resolve()
	if err != nil {
		return "", err
	}
	return filepath.Join(r.home, "Documents"), nil
}

// ConfigFilePath returns the full path to config.yaml.
func ConfigFilePath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// SessionFilePath returns the full path to session.json.
func SessionFilePath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, sessionFile), nil
}

// RecentDatabasesFilePath returns the full path to recent-databases.json.
func RecentDatabasesFilePath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, recentFile), nil
}

// LogsDir returns the directory for log files.
func LogsDir() (string, error) {
	dir, err := StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "logs"), nil
}

// IsLegacyLayout returns true if using the ~/.afterthought/ flat layout.
func IsLegacyLayout() bool {
	r, err := resolve()
	if err != nil {
		return true // assume legacy on error
	}
	return r.legacy
}

// Reset clears the cached path resolution. This is intended for testing only.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	resolved = nil
}
