package executor

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors for invocation failures.
// Use errors.Is() to check for these errors.
var (
	// ErrToolchainNotFound is returned when a toolchain binary is missing.
	ErrToolchainNotFound = errors.New("toolchain not found")

	// ErrNonZeroExit is returned when a process exits with a nonzero code.
	ErrNonZeroExit = errors.New("nonzero exit")

	// ErrTimedOut is returned when an invocation hits its wall-clock limit.
	ErrTimedOut = errors.New("timed out")

	// ErrIOFailure is returned when draining the child's streams fails.
	ErrIOFailure = errors.New("i/o failure")
)

// ToolchainNotFoundError wraps ErrToolchainNotFound with the missing binary.
type ToolchainNotFoundError struct {
	Binary string
}

func (e *ToolchainNotFoundError) Error() string {
	return "toolchain not found: " + e.Binary
}

func (e *ToolchainNotFoundError) Is(target error) bool {
	return target == ErrToolchainNotFound
}

// ExitError wraps ErrNonZeroExit with the exit code and captured stderr.
type ExitError struct {
	Code   int
	Stderr []string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("command failed with exit code %d", e.Code)
	if len(e.Stderr) > 0 {
		msg += ": " + strings.Join(e.Stderr, " ")
	}
	return msg
}

func (e *ExitError) Is(target error) bool {
	return target == ErrNonZeroExit
}

// TimeoutError wraps ErrTimedOut with the limit that fired.
type TimeoutError struct {
	Limit time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("execution timed out after %s", e.Limit)
}

func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimedOut
}

// IOError wraps ErrIOFailure with detail.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("i/o failure during %s: %v", e.Op, e.Err)
}

func (e *IOError) Is(target error) bool {
	return target == ErrIOFailure
}

func (e *IOError) Unwrap() error {
	return e.Err
}
