package compiler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pankaj-khatmode/umlc/pkg/executor"
	"github.com/pankaj-khatmode/umlc/pkg/language"
)

// RunInline executes a code snippet without a source file on disk. The
// snippet is written to a temporary file with the language's extension and
// run like any other source. Managed languages get the file name "Main"
// plus extension, so a snippet declaring unit Main compiles cleanly.
func (m *Manager) RunInline(ctx context.Context, code, languageID, input string) (*executor.Outcome, error) {
	if languageID == "" {
		return nil, &language.UnsupportedError{ID: "(none)"}
	}
	profile, err := m.registry.Get(languageID)
	if err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp("", "umlc-inline-")
	if err != nil {
		return nil, &executor.IOError{Op: "inline", Err: err}
	}
	defer os.RemoveAll(dir)

	name := "snippet" + profile.Extension
	if profile.Kind == language.KindManaged {
		name = "Main" + profile.Extension
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(code), 0o644); err != nil {
		return nil, &executor.IOError{Op: "inline", Err: fmt.Errorf("writing %s: %w", path, err)}
	}

	return m.Run(ctx, path, profile.ID, input)
}
