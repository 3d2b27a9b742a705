// Package logger owns the process-wide structured logger.
//
// Everything logs through log/slog with a text handler writing to
// <state>/logs/afterthought.log. The logger is created lazily on first use;
// call Init to pick a different file before anything logs.
package logger

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/zhubert/afterthought-core/paths"
)

var (
	root     *slog.Logger
	levelVar = new(slog.LevelVar)
	logFile  *os.File
	mu       sync.Mutex
	logPath  string
	initDone bool
)

// DefaultLogPath returns the default log file path for the main process
func DefaultLogPath() (string, error) {
	dir, err := paths.LogsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "afterthought.log"), nil
}

// Path returns the path of the active log file, or "" before initialization.
func Path() string {
	mu.Lock()
	defer mu.Unlock()
	return logPath
}

// SetDebug enables or disables debug level logging
func SetDebug(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	if enabled {
		levelVar.Set(slog.LevelDebug)
	} else {
		levelVar.Set(slog.LevelInfo)
	}
}

// Init initializes the logger with a custom path. It is a no-op once the
// logger has been initialized, either by Init or by the first log call.
func Init(path string) error {
	mu.Lock()
	defer mu.Unlock()

	if initDone {
		return nil
	}
	return openLocked(path)
}

// openLocked opens path for appending and installs the root logger.
// Caller must hold mu.
func openLocked(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	logFile = f
	logPath = path
	root = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: levelVar}))
	initDone = true

	root.Info("logger initialized", "path", path)
	return nil
}

// ensureInit falls back to the default log path. Failures are reported on
// stderr and leave root nil, in which case callers get slog.Default().
// Caller must hold mu.
func ensureInit() {
	if initDone {
		return
	}

	path, err := DefaultLogPath()
	if err == nil {
		err = openLocked(path)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging to stderr: %v\n", err)
	}
}

// current returns the root logger, initializing it if needed.
func current() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()

	ensureInit()
	if root == nil {
		return slog.Default()
	}
	return root
}

// Get returns the root logger instance.
func Get() *slog.Logger {
	return current()
}

// WithWindow returns a logger with the window label attached.
//
// Example:
//
//	log := logger.WithWindow(label)
//	log.Debug("window focused", "path", path)
//	// Output: level=DEBUG msg="window focused" window=db-1f2e path=/docs/Notes
func WithWindow(label string) *slog.Logger {
	return current().With("window", label)
}

// WithComponent returns a logger with the component name attached.
//
//	log := logger.WithComponent("bundle")
//	log.Info("database created", "path", path)
//	// Output: level=INFO msg="database created" component=bundle path=/docs/Notes
func WithComponent(component string) *slog.Logger {
	return current().With("component", component)
}

// Close closes the log file
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	root = nil
}

// Reset resets the logger state, allowing reinitialization.
// This is primarily for testing purposes.
func Reset() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	initDone = false
	logPath = ""
	root = nil
	levelVar = new(slog.LevelVar)
}

// ClearLogs removes afterthought log files from the logs directory.
// The active log file is skipped.
func ClearLogs() (int, error) {
	defaultPath, err := DefaultLogPath()
	if err != nil {
		return 0, fmt.Errorf("failed to get default log path: %w", err)
	}

	pattern := filepath.Join(filepath.Dir(defaultPath), "afterthought*.log")
	logs, err := filepath.Glob(pattern)
	if err != nil {
		return 0, err
	}

	active := Path()
	count := 0
	for _, p := range logs {
		if p == active {
			continue
		}
		if err := os.Remove(p); err == nil {
			count++
		} else if !os.IsNotExist(err) {
			return count, err
		}
	}
	return count, nil
}
