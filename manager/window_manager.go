package manager

import (
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/zhubert/afterthought-core/logger"
	"github.com/zhubert/afterthought-core/session"
)

// Compile-time interface satisfaction check.
var _ SnapshotWriter = (*session.Store)(nil)

// SnapshotWriter persists the session snapshot. Implementations swallow their
// own failures; window bookkeeping never fails because the snapshot could not
// be written.
//
// *session.Store satisfies this interface.
type SnapshotWriter interface {
	Write(dbPaths []string, geometry map[string]session.WindowGeometry)
}

// WindowManager tracks which database is open in which window and keeps the
// session snapshot in step with it.
//
// Locking: mu guards databases and quitMu guards quitting. The two are never
// held together. Unregister and Quit hold mu across the whole
// modify-then-read span so geometry always reflects one consistent map.
type WindowManager struct {
	host   Host
	writer SnapshotWriter

	mu        sync.Mutex
	databases map[string]string // window label → database path

	quitMu   sync.Mutex
	quitting bool
}

// NewWindowManager creates a window manager that queries host for live window
// state and persists snapshots through writer.
func NewWindowManager(host Host, writer SnapshotWriter) *WindowManager {
	return &WindowManager{
		host:      host,
		writer:    writer,
		databases: make(map[string]string),
	}
}

// NewWindowLabel returns a fresh label for a database window.
func NewWindowLabel() string {
	return "db-" + uuid.New().String()
}

// Register records that the window labelled label has path open. An existing
// entry for label is replaced.
func (wm *WindowManager) Register(label, path string) {
	wm.mu.Lock()
	defer wm.mu.Unlock()

	wm.databases[label] = path
	logger.WithWindow(label).Debug("registered database window", "path", path)
}

// Unregister forgets label and snapshots the remaining windows. Once Quit has
// started, the snapshot is not written: Quit owns the final write.
func (wm *WindowManager) Unregister(label string) {
	log := logger.WithWindow(label)

	dbPaths, geometry := wm.removeAndSnapshot(label)

	if wm.IsQuitting() {
		log.Debug("quit in progress, skipping session write")
		return
	}
	log.Debug("unregistered database window", "remaining", len(dbPaths))
	wm.writer.Write(dbPaths, geometry)
}

func (wm *WindowManager) removeAndSnapshot(label string) ([]string, map[string]session.WindowGeometry) {
	wm.mu.Lock()
	defer wm.mu.Unlock()

	delete(wm.databases, label)
	return wm.snapshotLocked()
}

// FindAndFocus focuses a window that has path open. It reports whether any
// registered window has exactly path; focusing itself is best-effort.
func (wm *WindowManager) FindAndFocus(path string) bool {
	wm.mu.Lock()
	defer wm.mu.Unlock()

	for label, dbPath := range wm.databases {
		if dbPath != path {
			continue
		}
		log := logger.WithWindow(label)
		if w, ok := wm.host.Window(label); ok {
			if err := w.SetFocus(); err != nil {
				log.Debug("failed to focus window", "error", err)
			}
		} else {
			log.Debug("registered window not found")
		}
		return true
	}
	return false
}

// Quit writes the final session snapshot for every open window and then asks
// every live window to close. After Quit begins, Unregister stops writing.
func (wm *WindowManager) Quit() {
	wm.quitMu.Lock()
	wm.quitting = true
	wm.quitMu.Unlock()

	dbPaths, geometry := wm.snapshot()
	logger.WithComponent("manager").Info("quitting", "databases", len(dbPaths))
	wm.writer.Write(dbPaths, geometry)

	for _, w := range wm.host.Windows() {
		if err := w.Close(); err != nil {
			logger.WithWindow(w.Label()).Debug("failed to close window", "error", err)
		}
	}
}

// IsQuitting reports whether Quit has been called.
func (wm *WindowManager) IsQuitting() bool {
	wm.quitMu.Lock()
	defer wm.quitMu.Unlock()
	return wm.quitting
}

// Databases returns a copy of the label → path map.
func (wm *WindowManager) Databases() map[string]string {
	wm.mu.Lock()
	defer wm.mu.Unlock()
	return maps.Clone(wm.databases)
}

// Len returns the number of registered windows.
func (wm *WindowManager) Len() int {
	wm.mu.Lock()
	defer wm.mu.Unlock()
	return len(wm.databases)
}

func (wm *WindowManager) snapshot() ([]string, map[string]session.WindowGeometry) {
	wm.mu.Lock()
	defer wm.mu.Unlock()
	return wm.snapshotLocked()
}

// snapshotLocked derives the open paths and their geometry from the current
// map. Paths are sorted so successive snapshots are stable. Caller must hold mu.
func (wm *WindowManager) snapshotLocked() ([]string, map[string]session.WindowGeometry) {
	dbPaths := slices.Sorted(maps.Values(wm.databases))
	return dbPaths, collectGeometry(wm.host, wm.databases)
}
