//go:build !windows

package executor

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func run(t *testing.T, inv Invocation) *Outcome {
	t.Helper()
	exe := New(NopSink{})
	outcome, err := exe.Execute(context.Background(), inv)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	return outcome
}

func TestExecuteSuccess(t *testing.T) {
	outcome := run(t, Invocation{Argv: []string{"sh", "-c", "echo hello"}})

	if !outcome.Success {
		t.Errorf("expected success, got %+v", outcome)
	}
	if outcome.ExitCode != 0 {
		t.Errorf("expected exit code 0, got %d", outcome.ExitCode)
	}
	if len(outcome.Stdout) != 1 || outcome.Stdout[0] != "hello" {
		t.Errorf("expected stdout [hello], got %v", outcome.Stdout)
	}
	if len(outcome.Stderr) != 0 {
		t.Errorf("expected empty stderr, got %v", outcome.Stderr)
	}
	if outcome.Err != nil {
		t.Errorf("expected nil Err, got %v", outcome.Err)
	}
}

func TestExecuteNoOutput(t *testing.T) {
	outcome := run(t, Invocation{Argv: []string{"true"}})

	if !outcome.Success {
		t.Error("zero exit with no output should succeed")
	}
	if len(outcome.Stdout) != 0 || len(outcome.Stderr) != 0 {
		t.Errorf("expected empty buffers, got stdout=%v stderr=%v",
			outcome.Stdout, outcome.Stderr)
	}
}

func TestExecuteNonZeroExit(t *testing.T) {
	outcome := run(t, Invocation{Argv: []string{"sh", "-c", "echo boom >&2; exit 1"}})

	if outcome.Success {
		t.Error("nonzero exit should not succeed")
	}
	if outcome.ExitCode != 1 {
		t.Errorf("expected exit code 1, got %d", outcome.ExitCode)
	}
	if len(outcome.Stderr) != 1 || outcome.Stderr[0] != "boom" {
		t.Errorf("expected stderr [boom], got %v", outcome.Stderr)
	}
	if !strings.Contains(outcome.FailureDetail, "1") {
		t.Errorf("detail should mention the exit code, got %q", outcome.FailureDetail)
	}
	if !errors.Is(outcome.Err, ErrNonZeroExit) {
		t.Errorf("expected ErrNonZeroExit, got %v", outcome.Err)
	}
}

func TestStderrAloneDoesNotFail(t *testing.T) {
	outcome := run(t, Invocation{Argv: []string{"sh", "-c", "echo warning >&2; exit 0"}})

	if !outcome.Success {
		t.Error("stderr content must not flip success")
	}
	if len(outcome.Stderr) != 1 || outcome.Stderr[0] != "warning" {
		t.Errorf("expected stderr captured, got %v", outcome.Stderr)
	}
}

func TestExecuteTimeout(t *testing.T) {
	start := time.Now()
	outcome := run(t, Invocation{
		Argv:    []string{"sh", "-c", "sleep 30"},
		Timeout: 200 * time.Millisecond,
	})

	if !outcome.TimedOut {
		t.Fatal("expected TimedOut")
	}
	if outcome.Success {
		t.Error("timed-out run should not succeed")
	}
	if !errors.Is(outcome.Err, ErrTimedOut) {
		t.Errorf("expected ErrTimedOut, got %v", outcome.Err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("timeout took too long: %v", elapsed)
	}
}

func TestTimeoutKillsProcessGroup(t *testing.T) {
	// The child forks a grandchild holding the output pipe. Killing only
	// the direct child would leave the reader blocked on the grandchild.
	start := time.Now()
	outcome := run(t, Invocation{
		Argv:    []string{"sh", "-c", "sleep 30 & wait"},
		Timeout: 200 * time.Millisecond,
	})

	if !outcome.TimedOut {
		t.Fatal("expected TimedOut")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("process group was not killed promptly: %v", elapsed)
	}
}

func TestBinaryNotFound(t *testing.T) {
	exe := New(NopSink{})
	_, err := exe.Execute(context.Background(), Invocation{
		Argv: []string{"umlc-no-such-binary-zz"},
	})
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
	if !errors.Is(err, ErrToolchainNotFound) {
		t.Errorf("expected ErrToolchainNotFound, got %v", err)
	}
	var notFound *ToolchainNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ToolchainNotFoundError, got %T", err)
	}
	if notFound.Binary != "umlc-no-such-binary-zz" {
		t.Errorf("wrong binary in error: %q", notFound.Binary)
	}
}

func TestStdinClosedWithoutInput(t *testing.T) {
	// With no supplied input a read must see end-of-input immediately
	// instead of blocking until the timeout.
	start := time.Now()
	outcome := run(t, Invocation{
		Argv:    []string{"sh", "-c", "read x && echo got:$x"},
		Timeout: 5 * time.Second,
	})

	if outcome.TimedOut {
		t.Fatal("read should fail fast, not hang until timeout")
	}
	if outcome.Success {
		t.Error("read at end-of-input should fail the program")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("read did not fail fast: %v", elapsed)
	}
}

func TestSuppliedInputThenEOF(t *testing.T) {
	// Supplied lines are delivered in order, then the stream ends: the
	// loop consumes both lines and exits cleanly at end-of-input rather
	// than seeing empty-string refills.
	outcome := run(t, Invocation{
		Argv:  []string{"sh", "-c", "while read x; do echo got:$x; done"},
		Input: []byte("alpha\nbeta\n"),
	})

	if !outcome.Success {
		t.Fatalf("expected success, got %+v", outcome)
	}
	want := []string{"got:alpha", "got:beta"}
	if len(outcome.Stdout) != len(want) {
		t.Fatalf("expected %v, got %v", want, outcome.Stdout)
	}
	for i := range want {
		if outcome.Stdout[i] != want[i] {
			t.Errorf("stdout[%d] = %q, want %q", i, outcome.Stdout[i], want[i])
		}
	}
}

func TestSinkReceivesLinesInOrder(t *testing.T) {
	sink := &BufferSink{}
	exe := New(sink)
	outcome, err := exe.Execute(context.Background(), Invocation{
		Argv: []string{"sh", "-c", "echo one; echo two; echo three"},
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !outcome.Success {
		t.Fatalf("expected success, got %+v", outcome)
	}

	want := []string{"one", "two", "three"}
	got := sink.Output()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sink line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestStreamsStayDisjoint(t *testing.T) {
	outcome := run(t, Invocation{
		Argv: []string{"sh", "-c", "echo out1; echo err1 >&2; echo out2"},
	})

	if len(outcome.Stdout) != 2 {
		t.Errorf("expected 2 stdout lines, got %v", outcome.Stdout)
	}
	if len(outcome.Stderr) != 1 || outcome.Stderr[0] != "err1" {
		t.Errorf("expected stderr [err1], got %v", outcome.Stderr)
	}
}

func TestBlankLinesDropped(t *testing.T) {
	outcome := run(t, Invocation{
		Argv: []string{"sh", "-c", "echo a; echo; echo '   '; echo b"},
	})

	want := []string{"a", "b"}
	if len(outcome.Stdout) != len(want) {
		t.Fatalf("expected %v, got %v", want, outcome.Stdout)
	}
}

func TestExecuteCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	exe := New(NopSink{})
	outcome, err := exe.Execute(ctx, Invocation{
		Argv:    []string{"sh", "-c", "sleep 30"},
		Timeout: 30 * time.Second,
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if outcome.Success {
		t.Error("canceled run should not succeed")
	}
	if !errors.Is(outcome.Err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", outcome.Err)
	}
}

func TestEmptyArgv(t *testing.T) {
	exe := New(NopSink{})
	if _, err := exe.Execute(context.Background(), Invocation{}); err == nil {
		t.Error("expected error for empty argv")
	}
}

func TestWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	outcome := run(t, Invocation{Argv: []string{"pwd"}, Dir: dir})

	if !outcome.Success {
		t.Fatalf("expected success, got %+v", outcome)
	}
	if len(outcome.Stdout) != 1 || !strings.HasSuffix(outcome.Stdout[0], filepath.Base(dir)) {
		t.Errorf("expected pwd output under %s, got %v", dir, outcome.Stdout)
	}
}

func TestOverlongLineSurfacesCaptureFailure(t *testing.T) {
	// A single line past the scanner cap, then a normal line, then a
	// clean exit. The executor must not break the pipe under the child:
	// the run keeps the real exit status and reports the capture loss.
	outcome := run(t, Invocation{
		Argv:    []string{"sh", "-c", "head -c 2000000 /dev/zero | tr '\\0' 'a'; echo; echo done"},
		Timeout: 10 * time.Second,
	})

	if outcome.TimedOut {
		t.Fatal("run should not time out")
	}
	if outcome.ExitCode != 0 {
		t.Fatalf("child exits 0 on its own; got exit code %d (detail %q)",
			outcome.ExitCode, outcome.FailureDetail)
	}
	if outcome.Success {
		t.Error("incomplete capture should not report success")
	}
	if !errors.Is(outcome.Err, ErrIOFailure) {
		t.Errorf("expected ErrIOFailure, got %v", outcome.Err)
	}
	if !strings.Contains(outcome.FailureDetail, "output capture failed") {
		t.Errorf("expected capture-failure detail, got %q", outcome.FailureDetail)
	}
}
