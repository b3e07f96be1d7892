// Package compiler is the top-level entry point: given a source file and a
// language, it compiles when the language needs it and runs the result,
// streaming output to the caller's sink as it is produced.
//
// The manager itself is stateless across invocations. Every call gets its
// own scratch workspace and its own process group, so concurrent calls
// never share anything and a misbehaving program can always be torn down
// without touching the host process.
package compiler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pankaj-khatmode/umlc/pkg/executor"
	"github.com/pankaj-khatmode/umlc/pkg/language"
	"github.com/pankaj-khatmode/umlc/pkg/stdin"
	"github.com/pankaj-khatmode/umlc/pkg/toolchain"
)

// Manager orchestrates compile and run cycles over the language registry.
type Manager struct {
	registry *language.Registry
	sink     executor.Sink
	timeout  time.Duration
}

// Option configures a Manager.
type Option func(*Manager)

// WithTimeout overrides the default per-invocation wall-clock ceiling.
func WithTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// WithSink sets the sink that receives output, warnings and progress.
func WithSink(s executor.Sink) Option {
	return func(m *Manager) {
		if s != nil {
			m.sink = s
		}
	}
}

// New creates a Manager over the given registry.
func New(reg *language.Registry, opts ...Option) *Manager {
	m := &Manager{
		registry: reg,
		sink:     executor.NopSink{},
		timeout:  executor.DefaultTimeout,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Registry returns the language registry the manager resolves against.
func (m *Manager) Registry() *language.Registry {
	return m.registry
}

// Resolve finds the profile for an explicit language id, or infers it from
// the source file's extension when the id is empty.
func (m *Manager) Resolve(sourcePath, languageID string) (*language.Profile, error) {
	if languageID != "" {
		return m.registry.Get(languageID)
	}
	return m.registry.GetByFile(sourcePath)
}

// Run compiles the source if its language needs it, then runs it with the
// supplied stdin text. Compile failures propagate unchanged: the program
// is never spawned on a failed compile.
//
// The returned outcome is non-nil whenever the cycle itself produced a
// result, including failures (nonzero exit, timeout, failed compile,
// missing toolchain). The error return is reserved for problems outside
// the cycle: unknown language, unreadable source.
func (m *Manager) Run(ctx context.Context, sourcePath, languageID, input string) (*executor.Outcome, error) {
	profile, err := m.Resolve(sourcePath, languageID)
	if err != nil {
		return nil, err
	}

	source, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, &executor.IOError{Op: "read source", Err: err}
	}

	plan := stdin.PlanFor(string(source), profile.InputCalls, input)
	for _, w := range plan.Warnings {
		m.sink.Warning(w)
	}

	return m.execute(ctx, profile, sourcePath, plan.Input, true)
}

// Compile runs only the compile step for the source's language. It always
// recompiles; interpreted languages trivially succeed without spawning
// anything. The compile artifact is scratch-only and removed with the
// workspace, so this is a diagnostic operation.
func (m *Manager) Compile(ctx context.Context, sourcePath, languageID string) (*executor.Outcome, error) {
	profile, err := m.Resolve(sourcePath, languageID)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(sourcePath); err != nil {
		return nil, &executor.IOError{Op: "read source", Err: err}
	}
	if !profile.NeedsCompile() {
		m.sink.Info(fmt.Sprintf("%s is interpreted, nothing to compile", profile.Name))
		return &executor.Outcome{Success: true}, nil
	}
	return m.execute(ctx, profile, sourcePath, nil, false)
}

// execute drives one compile-and-maybe-run cycle. The workspace lives for
// exactly this call, timeouts included.
func (m *Manager) execute(ctx context.Context, profile *language.Profile, sourcePath string, input []byte, run bool) (*executor.Outcome, error) {
	exe := &executor.Executor{Sink: m.sink, Timeout: m.timeout}

	var ws *toolchain.Workspace
	if profile.NeedsCompile() {
		var err error
		ws, err = toolchain.NewWorkspace()
		if err != nil {
			return nil, &executor.IOError{Op: "workspace", Err: err}
		}
		defer ws.Close()
		m.sink.Info(fmt.Sprintf("compiling %s", sourcePath))
	}

	driver, err := toolchain.ForKind(profile.Kind)
	if err != nil {
		return nil, err
	}

	spec, compile, err := driver.Prepare(ctx, exe, ws, sourcePath, profile)
	if err != nil {
		if errors.Is(err, toolchain.ErrCompileFailed) && compile != nil {
			compile.Err = err
			return compile, nil
		}
		if outcome, ok := m.toolchainMissing(err, profile); ok {
			return outcome, nil
		}
		return nil, err
	}

	if !run {
		m.sink.Info("compilation succeeded")
		return compile, nil
	}

	outcome, err := exe.Execute(ctx, executor.Invocation{
		Argv:  spec.Argv,
		Dir:   spec.Dir,
		Input: input,
	})
	if err != nil {
		if out, ok := m.toolchainMissing(err, profile); ok {
			return out, nil
		}
		return nil, err
	}
	return outcome, nil
}

// toolchainMissing converts a missing-binary spawn error into a failed
// outcome with an install hint, so callers get guidance instead of a bare
// "not found".
func (m *Manager) toolchainMissing(err error, profile *language.Profile) (*executor.Outcome, bool) {
	var notFound *executor.ToolchainNotFoundError
	if !errors.As(err, &notFound) {
		return nil, false
	}
	hint := m.registry.InstallHint(profile)
	if hint != "" {
		m.sink.Warning(hint)
	}
	detail := fmt.Sprintf("%s toolchain not found: %s is not installed or not on PATH", profile.Name, notFound.Binary)
	return &executor.Outcome{
		Success:       false,
		ExitCode:      -1,
		Err:           err,
		FailureDetail: detail,
	}, true
}
