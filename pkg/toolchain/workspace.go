package toolchain

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Workspace is a private scratch directory for one compile-and-run cycle.
// Compile artifacts land here and the whole directory is removed when the
// cycle ends, success or failure.
type Workspace struct {
	dir string
}

// NewWorkspace creates a fresh scratch directory.
func NewWorkspace() (*Workspace, error) {
	dir, err := os.MkdirTemp("", "umlc-")
	if err != nil {
		return nil, fmt.Errorf("creating workspace: %w", err)
	}
	return &Workspace{dir: dir}, nil
}

// Dir returns the workspace directory path.
func (w *Workspace) Dir() string {
	return w.dir
}

// Stage copies a source file into the workspace under the same base name
// and returns the staged path. Languages whose compiler couples artifact
// names to the source file name need the source next to its artifacts.
func (w *Workspace) Stage(sourcePath string) (string, error) {
	src, err := os.Open(sourcePath)
	if err != nil {
		return "", fmt.Errorf("staging %s: %w", sourcePath, err)
	}
	defer src.Close()

	staged := filepath.Join(w.dir, filepath.Base(sourcePath))
	dst, err := os.Create(staged)
	if err != nil {
		return "", fmt.Errorf("staging %s: %w", sourcePath, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("staging %s: %w", sourcePath, err)
	}
	return staged, nil
}

// Close removes the workspace directory and everything in it.
func (w *Workspace) Close() error {
	if w == nil || w.dir == "" {
		return nil
	}
	return os.RemoveAll(w.dir)
}
