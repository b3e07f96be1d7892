// Package toolchain turns a source file into something the executor can
// run, according to the language's execution model.
//
// Three models are supported. Interpreted languages run straight from the
// source file. Natively compiled languages compile into a scratch workspace
// and run the produced binary. Managed languages stage the source into the
// workspace, compile it in place, and run the result by unit name, which
// keeps compilers happy whose artifact names are coupled to the source file
// name.
package toolchain

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/pankaj-khatmode/umlc/pkg/executor"
	"github.com/pankaj-khatmode/umlc/pkg/language"
)

// ErrCompileFailed marks a compile step that ran and failed. The run step
// never starts in that case.
var ErrCompileFailed = errors.New("compilation failed")

// CompileError carries the outcome of a failed compile step. Err is the
// compile invocation's own failure and stays reachable through Unwrap.
type CompileError struct {
	Outcome *executor.Outcome
	Err     error
}

func (e *CompileError) Error() string {
	if e.Outcome != nil && e.Outcome.FailureDetail != "" {
		return "compilation failed: " + e.Outcome.FailureDetail
	}
	return "compilation failed"
}

func (e *CompileError) Is(target error) bool {
	return target == ErrCompileFailed
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// RunSpec is a ready-to-execute run step: resolved argv and the working
// directory it must run in.
type RunSpec struct {
	Argv []string
	Dir  string
}

// Driver prepares one execution model.
type Driver interface {
	// Prepare stages source for execution, running the language's compile
	// step when it has one. It returns the run spec and, when a compile
	// step ran, its outcome. A failed compile returns a CompileError
	// alongside the compile outcome.
	Prepare(ctx context.Context, exe *executor.Executor, ws *Workspace, sourcePath string, p *language.Profile) (RunSpec, *executor.Outcome, error)
}

// ForKind returns the driver for an execution model.
func ForKind(k language.Kind) (Driver, error) {
	switch k {
	case language.KindInterpreted:
		return interpretedDriver{}, nil
	case language.KindNative:
		return nativeDriver{}, nil
	case language.KindManaged:
		return managedDriver{}, nil
	default:
		return nil, fmt.Errorf("no driver for execution model %q", k)
	}
}

// interpretedDriver runs the source file directly, no compile step.
type interpretedDriver struct{}

func (interpretedDriver) Prepare(_ context.Context, _ *executor.Executor, _ *Workspace, sourcePath string, p *language.Profile) (RunSpec, *executor.Outcome, error) {
	abs, err := filepath.Abs(sourcePath)
	if err != nil {
		return RunSpec{}, nil, fmt.Errorf("resolving %s: %w", sourcePath, err)
	}
	return RunSpec{
		Argv: language.ResolveTemplate(p.Run, abs, "", language.UnitName(abs)),
		Dir:  filepath.Dir(abs),
	}, nil, nil
}

// nativeDriver compiles the source into a binary inside the workspace and
// runs that binary from the workspace.
type nativeDriver struct{}

func (nativeDriver) Prepare(ctx context.Context, exe *executor.Executor, ws *Workspace, sourcePath string, p *language.Profile) (RunSpec, *executor.Outcome, error) {
	abs, err := filepath.Abs(sourcePath)
	if err != nil {
		return RunSpec{}, nil, fmt.Errorf("resolving %s: %w", sourcePath, err)
	}
	unit := language.UnitName(abs)
	output := filepath.Join(ws.Dir(), unit)

	compile, err := runCompile(ctx, exe, ws, language.ResolveTemplate(p.Compile, abs, output, unit))
	if err != nil || !compile.Success {
		return RunSpec{}, compile, compileFailure(compile, err)
	}

	return RunSpec{
		Argv: language.ResolveTemplate(p.Run, abs, output, unit),
		Dir:  ws.Dir(),
	}, compile, nil
}

// managedDriver stages the source into the workspace, compiles it there,
// and runs by unit name. The staged copy keeps the source file name, so
// artifact-name coupling (class name must match file name) holds.
type managedDriver struct{}

func (managedDriver) Prepare(ctx context.Context, exe *executor.Executor, ws *Workspace, sourcePath string, p *language.Profile) (RunSpec, *executor.Outcome, error) {
	staged, err := ws.Stage(sourcePath)
	if err != nil {
		return RunSpec{}, nil, err
	}
	unit := language.UnitName(staged)

	compile, err := runCompile(ctx, exe, ws, language.ResolveTemplate(p.Compile, staged, "", unit))
	if err != nil || !compile.Success {
		return RunSpec{}, compile, compileFailure(compile, err)
	}

	return RunSpec{
		Argv: language.ResolveTemplate(p.Run, staged, "", unit),
		Dir:  ws.Dir(),
	}, compile, nil
}

func runCompile(ctx context.Context, exe *executor.Executor, ws *Workspace, argv []string) (*executor.Outcome, error) {
	return exe.Execute(ctx, executor.Invocation{Argv: argv, Dir: ws.Dir()})
}

func compileFailure(outcome *executor.Outcome, err error) error {
	if err != nil {
		return err
	}
	return &CompileError{Outcome: outcome, Err: outcome.Err}
}
