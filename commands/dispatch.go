package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/zhubert/afterthought-core/bundle"
)

var (
	// ErrUnknownCommand is returned by Dispatch for names it does not route.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrInvalidArgs is returned by Dispatch when arguments do not decode.
	ErrInvalidArgs = errors.New("invalid arguments")
)

type pathArgs struct {
	Path string `json:"path"`
}

type labelArgs struct {
	Label string `json:"label"`
}

type registerArgs struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

type createArgs struct {
	ParentDir string `json:"parentDir"`
	Name      string `json:"name"`
	Version   uint32 `json:"version"`
}

type writeArgs struct {
	Path     string `json:"path"`
	Contents string `json:"contents"`
}

type route func(h *Handler, raw json.RawMessage) (any, error)

// withArgs decodes raw into A before calling fn.
func withArgs[A any](fn func(h *Handler, args A) (any, error)) route {
	return func(h *Handler, raw json.RawMessage) (any, error) {
		var args A
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &args); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidArgs, err)
			}
		}
		return fn(h, args)
	}
}

var routes = map[string]route{
	"register_window_database": withArgs(func(h *Handler, a registerArgs) (any, error) {
		h.RegisterWindowDatabase(a.Label, a.Path)
		return nil, nil
	}),
	"unregister_window_database": withArgs(func(h *Handler, a labelArgs) (any, error) {
		h.UnregisterWindowDatabase(a.Label)
		return nil, nil
	}),
	"find_window_for_database": withArgs(func(h *Handler, a pathArgs) (any, error) {
		return h.FindWindowForDatabase(a.Path), nil
	}),
	"quit_app": withArgs(func(h *Handler, _ struct{}) (any, error) {
		h.Quit()
		return nil, nil
	}),
	"create_database": withArgs(func(h *Handler, a createArgs) (any, error) {
		return h.CreateDatabase(a.ParentDir, a.Name, a.Version)
	}),
	"open_database": withArgs(func(h *Handler, a pathArgs) (any, error) {
		return h.OpenDatabase(a.Path)
	}),
	"is_valid_database": withArgs(func(h *Handler, a pathArgs) (any, error) {
		return h.IsValidDatabase(a.Path), nil
	}),
	"ensure_default_database": withArgs(func(h *Handler, _ struct{}) (any, error) {
		return h.EnsureDefaultDatabase()
	}),
	"load_session": withArgs(func(h *Handler, _ struct{}) (any, error) {
		return h.LoadSession()
	}),
	"recent_databases": withArgs(func(h *Handler, _ struct{}) (any, error) {
		return h.RecentDatabases()
	}),
	"add_recent_database": withArgs(func(h *Handler, a bundle.Info) (any, error) {
		return nil, h.AddRecentDatabase(a)
	}),
	"last_opened_database": withArgs(func(h *Handler, _ struct{}) (any, error) {
		return h.LastOpenedDatabase()
	}),
	"fs_exists": withArgs(func(h *Handler, a pathArgs) (any, error) {
		return h.FsExists(a.Path), nil
	}),
	"fs_read_text_file": withArgs(func(h *Handler, a pathArgs) (any, error) {
		return h.FsReadTextFile(a.Path)
	}),
	"fs_write_text_file": withArgs(func(h *Handler, a writeArgs) (any, error) {
		return nil, h.FsWriteTextFile(a.Path, a.Contents)
	}),
	"fs_mkdir": withArgs(func(h *Handler, a pathArgs) (any, error) {
		return nil, h.FsMkdir(a.Path)
	}),
	"fs_read_dir": withArgs(func(h *Handler, a pathArgs) (any, error) {
		return h.FsReadDir(a.Path)
	}),
	"fs_remove_file": withArgs(func(h *Handler, a pathArgs) (any, error) {
		return nil, h.FsRemoveFile(a.Path)
	}),
	"fs_remove_dir": withArgs(func(h *Handler, a pathArgs) (any, error) {
		return nil, h.FsRemoveDir(a.Path)
	}),
}

// Names returns every command name Dispatch accepts, sorted.
func Names() []string {
	return slices.Sorted(maps.Keys(routes))
}

// Dispatch runs the command called name with JSON-encoded args and returns
// its result, ready to be JSON-encoded back to the caller. Commands without a
// result return nil.
func (h *Handler) Dispatch(name string, args json.RawMessage) (any, error) {
	r, ok := routes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	return r(h, args)
}
