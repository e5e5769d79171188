// Package adapter contains infrastructure adapters for the mutator CLI.
package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	m "mutator.dev/pkg/mutator/internal/model"
)

// projectRootMarkers are the files whose presence in a directory marks it as
// the root of a user project. Checked in order while walking upward.
var projectRootMarkers = []string{
	"pyproject.toml",
	"setup.py",
	"setup.cfg",
	"package.json",
	"Cargo.toml",
	"go.mod",
	".git",
}

// copySkipNames lists directory and file names that are never copied into an
// isolated workspace. They are caches, VCS metadata, or build output that only
// slow the copy down and can confuse the test run.
var copySkipNames = map[string]struct{}{
	".git":           {},
	".hg":            {},
	".svn":           {},
	"node_modules":   {},
	".venv":          {},
	"venv":           {},
	"__pycache__":    {},
	".tox":           {},
	".mypy_cache":    {},
	".pytest_cache":  {},
	".ruff_cache":    {},
	"target":         {},
	"dist":           {},
	"build":          {},
	".next":          {},
	".nuxt":          {},
	stateFileName:    {},
}

// copySkipSuffixes lists file suffixes excluded from workspace copies.
var copySkipSuffixes = []string{backupSuffix, ".pyc", ".pyo"}

// SourceFSAdapter abstracts filesystem-specific operations that the domain
// layer relies on when preparing and tearing down isolated workspaces. It
// intentionally hides direct `os` access so the run logic can be tested
// without touching the disk.
type SourceFSAdapter interface {
	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// WriteFile writes content to a file with the given permissions.
	WriteFile(path m.Path, content []byte, perm os.FileMode) error

	// FileInfo returns metadata for a path so callers can check existence or
	// distinguish between files and directories when necessary.
	FileInfo(path m.Path) (os.FileInfo, error)

	// FindProjectRoot walks upward from startPath looking for a directory
	// containing a known project marker. When no marker is found it falls
	// back to the starting file's own directory.
	FindProjectRoot(startPath m.Path) (m.Path, error)

	// CreateTempDir creates a temporary directory for mutation testing.
	CreateTempDir(pattern string) (m.Path, error)

	// RemoveAll removes a directory and all its contents.
	RemoveAll(path m.Path) error

	// CopyTree recursively copies a directory tree, skipping caches, VCS
	// metadata, build output, and symlinks.
	CopyTree(src, dst m.Path) error

	// RelPath returns the relative path from base to target.
	RelPath(base, target m.Path) (m.Path, error)

	// JoinPath joins path elements into a single path.
	JoinPath(elem ...string) m.Path

	// AbsPath resolves a path to its absolute form.
	AbsPath(path m.Path) (m.Path, error)
}

// LocalSourceFSAdapter is the concrete implementation backing SourceFSAdapter
// with the local filesystem.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter instance ready to
// be wired into the run workflow.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

// ReadFile loads the file contents into memory.
func (a *LocalSourceFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	data, err := os.ReadFile(string(path))
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}

	return data, nil
}

// WriteFile persists content to path with the requested permissions.
func (a *LocalSourceFSAdapter) WriteFile(path m.Path, content []byte, perm os.FileMode) error {
	if err := os.WriteFile(string(path), content, perm); err != nil {
		return fmt.Errorf("write file %s: %w", path, err)
	}

	return nil
}

// FileInfo returns os.Stat metadata for the path.
func (a *LocalSourceFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	info, err := os.Stat(string(path))
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	return info, nil
}

// FindProjectRoot searches for a project marker walking up the directory tree.
func (a *LocalSourceFSAdapter) FindProjectRoot(startPath m.Path) (m.Path, error) {
	abs, err := filepath.Abs(string(startPath))
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", startPath, err)
	}

	dir := abs
	if info, statErr := os.Stat(abs); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(abs)
	}

	fallback := dir
	for {
		for _, marker := range projectRootMarkers {
			if _, statErr := os.Stat(filepath.Join(dir, marker)); statErr == nil {
				return m.Path(dir), nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return m.Path(fallback), nil
		}
		dir = parent
	}
}

// CreateTempDir creates a uniquely named directory under the system temp root.
func (a *LocalSourceFSAdapter) CreateTempDir(pattern string) (m.Path, error) {
	dir, err := os.MkdirTemp("", pattern)
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}

	return m.Path(dir), nil
}

// RemoveAll deletes path and everything below it.
func (a *LocalSourceFSAdapter) RemoveAll(path m.Path) error {
	if err := os.RemoveAll(string(path)); err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}

	return nil
}

// CopyTree duplicates src under dst. Directory structure is created
// sequentially, then file contents are copied by a bounded worker pool.
// Non-regular files and skip-listed entries are ignored.
func (a *LocalSourceFSAdapter) CopyTree(src, dst m.Path) error {
	srcRoot := string(src)
	dstRoot := string(dst)

	var files [][2]string

	err := filepath.Walk(srcRoot, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		name := info.Name()
		if path != srcRoot {
			if _, skip := copySkipNames[name]; skip {
				if info.IsDir() {
					return filepath.SkipDir
				}

				return nil
			}
		}

		rel, relErr := filepath.Rel(srcRoot, path)
		if relErr != nil {
			return relErr
		}

		target := filepath.Join(dstRoot, rel)
		if info.IsDir() {
			return os.MkdirAll(target, 0o755)
		}

		// Symlinks, sockets, and pipes are skipped; reading a FIFO
		// would block the copy forever.
		if !info.Mode().IsRegular() {
			return nil
		}

		for _, suffix := range copySkipSuffixes {
			if strings.HasSuffix(name, suffix) {
				return nil
			}
		}

		files = append(files, [2]string{path, target})

		return nil
	})
	if err != nil {
		return fmt.Errorf("copy tree %s: %w", src, err)
	}

	group := errgroup.Group{}
	group.SetLimit(runtime.NumCPU())

	for _, pair := range files {
		pair := pair

		group.Go(func() error {
			return copyFile(pair[0], pair[1])
		})
	}

	if err := group.Wait(); err != nil {
		return fmt.Errorf("copy tree %s: %w", src, err)
	}

	return nil
}

// RelPath computes target relative to base.
func (a *LocalSourceFSAdapter) RelPath(base, target m.Path) (m.Path, error) {
	rel, err := filepath.Rel(string(base), string(target))
	if err != nil {
		return "", fmt.Errorf("relativize %s against %s: %w", target, base, err)
	}

	return m.Path(rel), nil
}

// JoinPath joins path elements into a single path.
func (a *LocalSourceFSAdapter) JoinPath(elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}

// AbsPath resolves path to its absolute form.
func (a *LocalSourceFSAdapter) AbsPath(path m.Path) (m.Path, error) {
	abs, err := filepath.Abs(string(path))
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}

	return m.Path(abs), nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}

	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	return os.WriteFile(dst, data, info.Mode().Perm())
}
