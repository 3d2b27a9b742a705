// Package fsops exposes the primitive filesystem operations the interface
// layer calls directly: existence checks, text read/write, directory creation
// and listing, and removal.
//
// Every operation is a single step against the underlying filesystem. There is
// no path validation or sandboxing; callers are trusted and OS permissions are
// the only boundary. Errors are returned as-is so their message is the
// platform's.
package fsops

import (
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"unicode/utf8"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

const (
	dirPerm  os.FileMode = 0755
	filePerm os.FileMode = 0644
)

// ErrInvalidUTF8 is returned by ReadTextFile for files that are not text.
var ErrInvalidUTF8 = errors.New("stream did not contain valid UTF-8")

// DirEntry is one entry of a directory listing.
type DirEntry struct {
	Name string `json:"name"`
}

// Service runs filesystem operations against a billy filesystem.
type Service struct {
	fs billy.Filesystem
}

// New returns a Service backed by the host filesystem. Relative paths resolve
// against the process working directory.
func New() *Service {
	return NewWithFilesystem(osfs.New("/"))
}

// NewWithFilesystem returns a Service backed by fs.
// This is primarily used for testing with an in-memory filesystem.
func NewWithFilesystem(fs billy.Filesystem) *Service {
	return &Service{fs: fs}
}

// Filesystem returns the underlying filesystem.
func (s *Service) Filesystem() billy.Filesystem {
	return s.fs
}

// abs makes path absolute against the working directory. The billy
// filesystem is rooted at "/", so a bare relative path would otherwise land
// under the root.
func abs(path string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}
	return filepath.Abs(path)
}

// Exists reports whether path exists. It never fails; any stat error reads as
// "does not exist".
func (s *Service) Exists(path string) bool {
	p, err := abs(path)
	if err != nil {
		return false
	}
	_, err = s.fs.Stat(p)
	return err == nil
}

// ReadTextFile returns the contents of path. Files that are not valid UTF-8
// fail with ErrInvalidUTF8.
func (s *Service) ReadTextFile(path string) (string, error) {
	p, err := abs(path)
	if err != nil {
		return "", err
	}
	data, err := util.ReadFile(s.fs, p)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", &os.PathError{Op: "read", Path: path, Err: ErrInvalidUTF8}
	}
	return string(data), nil
}

// WriteTextFile writes contents to path, creating or truncating it. The parent
// directory must already exist.
func (s *Service) WriteTextFile(path, contents string) error {
	p, err := abs(path)
	if err != nil {
		return err
	}
	// osfs creates missing parents on O_CREATE.
	if err := s.requireDir(filepath.Dir(p), path); err != nil {
		return err
	}
	return util.WriteFile(s.fs, p, []byte(contents), filePerm)
}

// requireDir fails the way open(2) would when dir is missing or not a
// directory. target is the path reported in the error.
func (s *Service) requireDir(dir, target string) error {
	info, err := s.fs.Stat(dir)
	if errors.Is(err, os.ErrNotExist) {
		return &os.PathError{Op: "open", Path: target, Err: syscall.ENOENT}
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return &os.PathError{Op: "open", Path: target, Err: syscall.ENOTDIR}
	}
	return nil
}

// Mkdir creates path and any missing parents. An existing directory is not an
// error.
func (s *Service) Mkdir(path string) error {
	p, err := abs(path)
	if err != nil {
		return err
	}
	return s.fs.MkdirAll(p, dirPerm)
}

// ReadDir lists the entries of path in enumeration order.
func (s *Service) ReadDir(path string) ([]DirEntry, error) {
	p, err := abs(path)
	if err != nil {
		return nil, err
	}
	infos, err := s.fs.ReadDir(p)
	if err != nil {
		return nil, err
	}
	entries := make([]DirEntry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, DirEntry{Name: info.Name()})
	}
	return entries, nil
}

// RemoveFile removes a single file. Directories are refused, even empty ones.
func (s *Service) RemoveFile(path string) error {
	p, err := abs(path)
	if err != nil {
		return err
	}
	info, err := s.fs.Lstat(p)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return &os.PathError{Op: "remove", Path: path, Err: syscall.EISDIR}
	}
	return s.fs.Remove(p)
}

// RemoveDir removes path and everything under it. A missing path is an error.
func (s *Service) RemoveDir(path string) error {
	p, err := abs(path)
	if err != nil {
		return err
	}
	if _, err := s.fs.Lstat(p); err != nil {
		return err
	}
	return util.RemoveAll(s.fs, p)
}
