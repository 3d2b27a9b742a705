// Package commands exposes the native operations the interface layer calls.
//
// Handler has one method per operation. Dispatch routes the same operations
// by their snake_case command names with camelCase JSON arguments, which is
// the shape a webview bridge delivers them in:
//
//	h.Dispatch("create_database", []byte(`{"parentDir":"/docs","name":"Notes","version":1}`))
//
// Window bookkeeping commands never fail. Filesystem and database commands
// return the underlying error, whose message is shown to the user as-is.
package commands

import (
	"github.com/zhubert/afterthought-core/bundle"
	"github.com/zhubert/afterthought-core/config"
	"github.com/zhubert/afterthought-core/fsops"
	"github.com/zhubert/afterthought-core/logger"
	"github.com/zhubert/afterthought-core/manager"
	"github.com/zhubert/afterthought-core/paths"
	"github.com/zhubert/afterthought-core/recent"
	"github.com/zhubert/afterthought-core/session"
)

// Handler wires the native services together. It is the single owner of
// process-wide state and is handed to every call site.
type Handler struct {
	windows  *manager.WindowManager
	fs       *fsops.Service
	bundles  *bundle.Service
	sessions *session.Store
	recent   *recent.Store
	cfg      *config.Config
}

// Options overrides Handler dependencies. Zero fields get the defaults.
type Options struct {
	FS       *fsops.Service
	Sessions *session.Store
	Recent   *recent.Store
	Config   *config.Config
}

// New creates a Handler for host using the default filesystem, session store
// and recent-databases store, with settings read from config.yaml.
func New(host manager.Host) *Handler {
	return NewWithOptions(host, Options{})
}

// NewWithOptions creates a Handler for host with the given overrides. When no
// Config is given it is loaded from disk; an unreadable config falls back to
// the defaults. The config's debug setting is applied to the logger.
func NewWithOptions(host manager.Host, opts Options) *Handler {
	if opts.Config == nil {
		cfg, err := config.Load()
		if err != nil {
			logger.WithComponent("commands").Warn("using default config", "error", err)
			cfg = config.Default()
		}
		opts.Config = cfg
	}
	logger.SetDebug(opts.Config.GetDebug())

	if opts.FS == nil {
		opts.FS = fsops.New()
	}
	if opts.Sessions == nil {
		opts.Sessions = session.NewStore()
	}
	if opts.Recent == nil {
		opts.Recent = recent.NewStore()
	}
	return &Handler{
		windows:  manager.NewWindowManager(host, opts.Sessions),
		fs:       opts.FS,
		bundles:  bundle.NewService(opts.FS),
		sessions: opts.Sessions,
		recent:   opts.Recent,
		cfg:      opts.Config,
	}
}

// Config returns the settings the handler was built with.
func (h *Handler) Config() *config.Config {
	return h.cfg
}

// Windows returns the window manager.
func (h *Handler) Windows() *manager.WindowManager {
	return h.windows
}

// Bundles returns the bundle service.
func (h *Handler) Bundles() *bundle.Service {
	return h.bundles
}

// RegisterWindowDatabase records that window label has path open.
func (h *Handler) RegisterWindowDatabase(label, path string) {
	h.windows.Register(label, path)
}

// UnregisterWindowDatabase forgets window label and snapshots the session.
func (h *Handler) UnregisterWindowDatabase(label string) {
	h.windows.Unregister(label)
}

// FindWindowForDatabase focuses the window holding path, if any.
func (h *Handler) FindWindowForDatabase(path string) bool {
	return h.windows.FindAndFocus(path)
}

// Quit writes the final session and closes every window.
func (h *Handler) Quit() {
	h.windows.Quit()
}

// CreateDatabase creates a database bundle and returns its path.
func (h *Handler) CreateDatabase(parentDir, name string, version uint32) (string, error) {
	return h.bundles.Create(parentDir, name, version)
}

// OpenDatabase validates path as a database bundle.
func (h *Handler) OpenDatabase(path string) (bundle.Info, error) {
	return h.bundles.Open(path)
}

// IsValidDatabase reports whether path is a database bundle.
func (h *Handler) IsValidDatabase(path string) bool {
	return h.bundles.IsValid(path)
}

// EnsureDefaultDatabase returns the default database in the documents
// directory, creating it on first launch. Its name and schema version come
// from the config.
func (h *Handler) EnsureDefaultDatabase() (bundle.Info, error) {
	dir, err := paths.DocumentsDir()
	if err != nil {
		return bundle.Info{}, err
	}
	return h.bundles.EnsureDefault(dir, h.cfg.GetDefaultDatabaseName(), h.cfg.GetDatabaseVersion())
}

// LoadSession returns the last session snapshot, or nil if there is none.
func (h *Handler) LoadSession() (*session.State, error) {
	return h.sessions.Load()
}

// RecentDatabases lists recently opened databases, most recent first.
func (h *Handler) RecentDatabases() ([]bundle.Info, error) {
	return h.recent.List()
}

// AddRecentDatabase moves info to the front of the recent list.
func (h *Handler) AddRecentDatabase(info bundle.Info) error {
	return h.recent.Add(info)
}

// LastOpenedDatabase returns the last opened database if it is still valid.
func (h *Handler) LastOpenedDatabase() (string, error) {
	return h.recent.LastOpened(h.bundles.IsValid)
}

// FsExists reports whether path exists.
func (h *Handler) FsExists(path string) bool {
	return h.fs.Exists(path)
}

// FsReadTextFile returns the text contents of path.
func (h *Handler) FsReadTextFile(path string) (string, error) {
	return h.fs.ReadTextFile(path)
}

// FsWriteTextFile writes contents to path, replacing any existing file.
func (h *Handler) FsWriteTextFile(path, contents string) error {
	return h.fs.WriteTextFile(path, contents)
}

// FsMkdir creates path and any missing parents.
func (h *Handler) FsMkdir(path string) error {
	return h.fs.Mkdir(path)
}

// FsReadDir lists the entries of path.
func (h *Handler) FsReadDir(path string) ([]fsops.DirEntry, error) {
	return h.fs.ReadDir(path)
}

// FsRemoveFile removes the file at path.
func (h *Handler) FsRemoveFile(path string) error {
	return h.fs.RemoveFile(path)
}

// FsRemoveDir removes path recursively.
func (h *Handler) FsRemoveDir(path string) error {
	return h.fs.RemoveDir(path)
}
