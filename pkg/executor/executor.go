// Package executor runs a single external command to completion, draining
// its output streams concurrently so nothing deadlocks on full pipe buffers.
//
// One invocation owns one child process (in its own process group) and two
// reader goroutines, one per stream. The readers feed a Sink line-by-line as
// output arrives and append to disjoint buffers, so no locking is needed on
// the buffers themselves. The caller blocks on process exit or timeout,
// whichever fires first; readers get a bounded grace period to flush after
// exit before being abandoned.
package executor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout is the wall-clock ceiling applied when an invocation does
// not set its own.
const DefaultTimeout = 10 * time.Second

// drainGrace is how long the reader goroutines get to flush buffered lines
// after the process exits before they are abandoned.
const drainGrace = 1 * time.Second

// Invocation describes one command to execute.
type Invocation struct {
	// Argv is the resolved argument list. Argv[0] is the binary.
	Argv []string

	// Dir is the working directory for the child process.
	Dir string

	// Input is written to the child's stdin, which is then closed. When
	// nil the child's stdin reads end-of-input immediately, so a program
	// that tries to read fails fast instead of hanging.
	Input []byte

	// Timeout bounds total wall-clock time. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Outcome is the result of one invocation. It is never mutated after
// Execute returns.
type Outcome struct {
	// Success is true iff the process exited zero before any timeout and
	// its output was captured in full. Stderr content alone never makes
	// Success false.
	Success bool

	// Stdout holds the captured standard output lines in stream order.
	Stdout []string

	// Stderr holds the captured standard error lines in stream order.
	Stderr []string

	// ExitCode is the process exit status (-1 when killed).
	ExitCode int

	// TimedOut is true when the wall-clock ceiling fired.
	TimedOut bool

	// Duration is how long the invocation ran.
	Duration time.Duration

	// FailureDetail describes the failure for display. Empty on success.
	FailureDetail string

	// Err carries the typed failure (ExitError, TimeoutError, IOError)
	// for errors.Is checks. Nil on success.
	Err error
}

// Executor runs commands. The zero value is usable; Sink defaults to
// NopSink and Timeout to DefaultTimeout.
type Executor struct {
	// Sink receives output lines as they arrive. Optional.
	Sink Sink

	// Timeout is the default wall-clock ceiling for invocations that do
	// not set their own.
	Timeout time.Duration
}

// New creates an executor that reports to the given sink.
func New(sink Sink) *Executor {
	return &Executor{Sink: sink, Timeout: DefaultTimeout}
}

// Execute runs one command to completion.
//
// The returned error is non-nil only when the process could not be spawned
// (missing binary, unusable pipes). Nonzero exits and timeouts are normal
// outcomes: Success is false and Err holds the typed failure.
func (e *Executor) Execute(ctx context.Context, inv Invocation) (*Outcome, error) {
	if len(inv.Argv) == 0 {
		return nil, fmt.Errorf("empty argument list")
	}

	sink := e.Sink
	if sink == nil {
		sink = NopSink{}
	}
	timeout := inv.Timeout
	if timeout == 0 {
		timeout = e.Timeout
	}
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	cmd := exec.Command(inv.Argv[0], inv.Argv[1:]...)
	cmd.Dir = inv.Dir

	// Own process group so a timeout can kill the child and anything it
	// forked in one shot.
	setProcessGroup(cmd)

	// Plain pipes instead of StdoutPipe/StderrPipe: Wait must be free to
	// detect process exit while the readers are still draining.
	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		return nil, &IOError{Op: "pipe", Err: err}
	}
	stderrR, stderrW, err := os.Pipe()
	if err != nil {
		stdoutR.Close()
		stdoutW.Close()
		return nil, &IOError{Op: "pipe", Err: err}
	}
	cmd.Stdout = stdoutW
	cmd.Stderr = stderrW

	var stdinW *os.File
	if inv.Input != nil {
		stdinR, w, err := os.Pipe()
		if err != nil {
			closeAll(stdoutR, stdoutW, stderrR, stderrW)
			return nil, &IOError{Op: "pipe", Err: err}
		}
		cmd.Stdin = stdinR
		stdinW = w
		defer stdinR.Close()
	}
	// With no input, stdin stays nil: the child reads from /dev/null and
	// any read returns end-of-input immediately rather than blocking.

	start := time.Now()
	if err := cmd.Start(); err != nil {
		closeAll(stdoutR, stdoutW, stderrR, stderrW)
		if stdinW != nil {
			stdinW.Close()
		}
		var execErr *exec.Error
		if errors.As(err, &execErr) && errors.Is(execErr.Err, exec.ErrNotFound) {
			return nil, &ToolchainNotFoundError{Binary: inv.Argv[0]}
		}
		return nil, &IOError{Op: "spawn", Err: err}
	}

	// The child holds duplicates of the write ends; drop ours so the
	// readers see EOF once the child (and its children) exit.
	stdoutW.Close()
	stderrW.Close()

	// Supplied input is written once, then the stream is closed: the
	// program gets exactly those predetermined values before hitting
	// end-of-input. No interactive feeding happens.
	if stdinW != nil {
		go func() {
			stdinW.Write(inv.Input)
			stdinW.Close()
		}()
	}

	stdoutCh := make(chan drainResult, 1)
	stderrCh := make(chan drainResult, 1)
	go func() {
		defer stdoutR.Close()
		stdoutCh <- drainLines(stdoutR, sink.OutputLine)
	}()
	go func() {
		defer stderrR.Close()
		stderrCh <- drainLines(stderrR, sink.ErrorLine)
	}()

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	outcome := &Outcome{ExitCode: -1}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case waitErr := <-done:
		outcome.Duration = time.Since(start)
		if waitErr == nil {
			outcome.ExitCode = 0
		} else {
			var exitErr *exec.ExitError
			if errors.As(waitErr, &exitErr) {
				outcome.ExitCode = exitErr.ExitCode()
			} else {
				outcome.Stdout, outcome.Stderr, _ = joinReaders(stdoutCh, stderrCh)
				return outcome, &IOError{Op: "wait", Err: waitErr}
			}
		}

	case <-ctx.Done():
		killGroup(cmd)
		<-done
		outcome.Stdout, outcome.Stderr, _ = joinReaders(stdoutCh, stderrCh)
		outcome.Duration = time.Since(start)
		outcome.Err = ctx.Err()
		outcome.FailureDetail = "execution canceled"
		return outcome, nil

	case <-timer.C:
		// Kill the whole process group, then discard whatever is still
		// buffered. The readers unblock once the write ends die.
		killGroup(cmd)
		<-done
		outcome.Stdout, outcome.Stderr, _ = joinReaders(stdoutCh, stderrCh)

		outcome.Duration = time.Since(start)
		outcome.TimedOut = true
		outcome.Err = &TimeoutError{Limit: timeout}
		outcome.FailureDetail = fmt.Sprintf("execution timed out (%s)", timeout)
		return outcome, nil
	}

	// Exited: give the readers a bounded grace period to flush, then
	// abandon them. A slow or stuck drain never blocks the caller.
	var drainErr error
	outcome.Stdout, outcome.Stderr, drainErr = joinReaders(stdoutCh, stderrCh)

	if outcome.ExitCode == 0 {
		if drainErr != nil {
			// The process finished cleanly but the capture is incomplete.
			// Report the capture failure, not a phantom process failure.
			outcome.Err = &IOError{Op: "drain", Err: drainErr}
			outcome.FailureDetail = fmt.Sprintf("output capture failed: %v", drainErr)
			return outcome, nil
		}
		outcome.Success = true
		return outcome, nil
	}

	outcome.Err = &ExitError{Code: outcome.ExitCode, Stderr: outcome.Stderr}
	detail := fmt.Sprintf("command failed with exit code %d", outcome.ExitCode)
	if len(outcome.Stderr) > 0 {
		detail += "\nerror output: " + strings.Join(outcome.Stderr, " ")
	}
	outcome.FailureDetail = detail
	return outcome, nil
}

type drainResult struct {
	lines []string
	err   error
}

// drainLines reads a stream line-by-line as it arrives, forwarding each
// line to report and collecting it. Lines are trimmed and blank lines are
// dropped, matching console rendering semantics.
//
// On a scan failure (a line over the buffer cap, a read error) the
// remainder of the stream is swallowed so the child keeps a live pipe
// and exits on its own terms instead of dying of a broken pipe. The
// error rides along with whatever was captured.
func drainLines(r *os.File, report func(string)) drainResult {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
		report(line)
	}
	if err := scanner.Err(); err != nil {
		io.Copy(io.Discard, r)
		return drainResult{lines: lines, err: err}
	}
	return drainResult{lines: lines}
}

// joinReaders collects both readers' captured lines, waiting no longer
// than the drain grace period. An abandoned reader contributes nothing.
// The first drain error encountered is returned.
func joinReaders(stdoutCh, stderrCh <-chan drainResult) (stdout, stderr []string, err error) {
	deadline := time.After(drainGrace)
	for i := 0; i < 2; i++ {
		select {
		case res := <-stdoutCh:
			stdout = res.lines
			if err == nil {
				err = res.err
			}
			stdoutCh = nil
		case res := <-stderrCh:
			stderr = res.lines
			if err == nil {
				err = res.err
			}
			stderrCh = nil
		case <-deadline:
			return stdout, stderr, err
		}
	}
	return stdout, stderr, err
}

func closeAll(files ...*os.File) {
	for _, f := range files {
		f.Close()
	}
}
