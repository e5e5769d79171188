package adapter

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	m "mutator.dev/pkg/mutator/internal/model"
)

// Workspace is an isolated copy of a user project. Mutations are spliced into
// files under Root so the original tree is never touched.
type Workspace struct {
	// Root is the copied project root.
	Root m.Path

	// SourceFile is the mutation target remapped into Root.
	SourceFile m.Path

	// TestFile is the test entry point remapped into Root.
	TestFile m.Path

	// Session identifies this run. It is embedded in the temp dir name so
	// stray workspaces can be traced back to a run.
	Session string

	fs SourceFSAdapter
}

// Isolator prepares and tears down workspaces.
type Isolator struct {
	fs SourceFSAdapter
}

// NewIsolator constructs an Isolator backed by the given filesystem adapter.
func NewIsolator(fs SourceFSAdapter) *Isolator {
	return &Isolator{fs: fs}
}

// Prepare copies the project containing sourceFile into a fresh temp
// directory and remaps sourceFile and testFile into the copy. A missing or
// empty session gets a generated identifier.
func (i *Isolator) Prepare(sourceFile, testFile m.Path, session string) (*Workspace, error) {
	if session == "" {
		session = uuid.NewString()[:8]
	}

	root, err := i.fs.FindProjectRoot(sourceFile)
	if err != nil {
		return nil, err
	}

	dir, err := i.fs.CreateTempDir(fmt.Sprintf("mutator-%s-", session))
	if err != nil {
		return nil, err
	}

	if err := i.fs.CopyTree(root, dir); err != nil {
		teardownErr := i.fs.RemoveAll(dir)
		if teardownErr != nil {
			return nil, fmt.Errorf("%w (teardown also failed: %v)", err, teardownErr)
		}

		return nil, err
	}

	ws := &Workspace{Root: dir, Session: session, fs: i.fs}

	ws.SourceFile, err = remapInto(i.fs, root, dir, sourceFile)
	if err != nil {
		_ = ws.Close()

		return nil, err
	}

	ws.TestFile, err = remapInto(i.fs, root, dir, testFile)
	if err != nil {
		_ = ws.Close()

		return nil, err
	}

	return ws, nil
}

// Close removes the workspace directory. Safe to call more than once.
func (w *Workspace) Close() error {
	if w.Root == "" {
		return nil
	}

	err := w.fs.RemoveAll(w.Root)
	w.Root = ""

	return err
}

// remapInto translates path from the original project root into the copied
// tree. Paths outside the root (e.g. an absolute test harness) are kept as-is.
func remapInto(fs SourceFSAdapter, root, dir, path m.Path) (m.Path, error) {
	abs, err := fs.AbsPath(path)
	if err != nil {
		return "", err
	}

	rel, err := fs.RelPath(root, abs)
	if err != nil || strings.HasPrefix(string(rel), "..") || filepath.IsAbs(string(rel)) {
		return abs, nil //nolint:nilerr // outside the tree means no remapping
	}

	return fs.JoinPath(string(dir), string(rel)), nil
}
