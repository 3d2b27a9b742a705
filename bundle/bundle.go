// Package bundle creates and inspects Afterthought database bundles.
//
// A bundle is a directory named after the database:
//
//	<name>/
//	  stores/         shared, version-controlled data
//	  personal/       per-user data, excluded from version control
//	  <name>.afdb     metadata descriptor {name, version, createdAt}
//	  .gitignore      "personal/\n"
//
// The presence of <name>.afdb is what makes a directory a database.
package bundle

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/zhubert/afterthought-core/fsops"
	"github.com/zhubert/afterthought-core/isotime"
	"github.com/zhubert/afterthought-core/logger"
)

const (
	// MetaExt is the extension of the metadata descriptor.
	MetaExt = ".afdb"

	StoresDir   = "stores"
	PersonalDir = "personal"
	IgnoreFile  = ".gitignore"

	ignoreContent = PersonalDir + "/\n"
)

// ErrNotDatabase is returned when a path has no metadata descriptor.
var ErrNotDatabase = errors.New("not a valid database")

// Meta is the content of <name>.afdb.
type Meta struct {
	Name      string `json:"name"`
	Version   uint32 `json:"version"`
	CreatedAt string `json:"createdAt"`
}

// Info identifies an opened or created database.
type Info struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Service creates and validates bundles through the filesystem layer.
type Service struct {
	fs  *fsops.Service
	now func() string
}

// NewService creates a bundle service on top of fs.
func NewService(fs *fsops.Service) *Service {
	return &Service{fs: fs, now: isotime.Now}
}

// SetClock overrides the createdAt timestamp source (for testing).
func (s *Service) SetClock(now func() string) {
	s.now = now
}

// MetaPath returns the descriptor path for the bundle at dbPath.
func MetaPath(dbPath string) string {
	return filepath.Join(dbPath, filepath.Base(dbPath)+MetaExt)
}

// Create lays out a new bundle at parentDir/name and returns its path.
//
// Directory creation tolerates existing directories, so calling Create again
// succeeds and rewrites the descriptor and ignore file. The first failure
// aborts the remaining steps; nothing already created is rolled back.
func (s *Service) Create(parentDir, name string, version uint32) (string, error) {
	dbPath := filepath.Join(parentDir, name)

	for _, sub := range []string{StoresDir, PersonalDir} {
		dir := filepath.Join(dbPath, sub)
		if err := s.fs.Mkdir(dir); err != nil {
			return "", fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	meta := Meta{
		Name:      name,
		Version:   version,
		CreatedAt: s.now(),
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode database metadata: %w", err)
	}

	metaPath := filepath.Join(dbPath, name+MetaExt)
	if err := s.fs.WriteTextFile(metaPath, string(data)); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", metaPath, err)
	}

	ignorePath := filepath.Join(dbPath, IgnoreFile)
	if err := s.fs.WriteTextFile(ignorePath, ignoreContent); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", ignorePath, err)
	}

	logger.WithComponent("bundle").Info("database created", "path", dbPath, "version", version)
	return dbPath, nil
}

// IsValid reports whether dbPath contains its metadata descriptor.
func (s *Service) IsValid(dbPath string) bool {
	return s.fs.Exists(MetaPath(dbPath))
}

// Open validates dbPath and returns its Info.
func (s *Service) Open(dbPath string) (Info, error) {
	if !s.IsValid(dbPath) {
		return Info{}, fmt.Errorf("%w: %s", ErrNotDatabase, dbPath)
	}
	return Info{Name: filepath.Base(dbPath), Path: dbPath}, nil
}

// ReadMeta loads the metadata descriptor of the bundle at dbPath.
func (s *Service) ReadMeta(dbPath string) (*Meta, error) {
	metaPath := MetaPath(dbPath)
	if !s.fs.Exists(metaPath) {
		return nil, fmt.Errorf("%w: %s", ErrNotDatabase, dbPath)
	}

	content, err := s.fs.ReadTextFile(metaPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", metaPath, err)
	}

	var meta Meta
	if err := json.Unmarshal([]byte(content), &meta); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", metaPath, err)
	}
	return &meta, nil
}

// EnsureDefault returns the database named name under documentsDir, creating
// it first when missing or invalid.
func (s *Service) EnsureDefault(documentsDir, name string, version uint32) (Info, error) {
	dbPath := filepath.Join(documentsDir, name)
	if s.IsValid(dbPath) {
		return Info{Name: name, Path: dbPath}, nil
	}

	created, err := s.Create(documentsDir, name, version)
	if err != nil {
		return Info{}, err
	}
	return Info{Name: name, Path: created}, nil
}
