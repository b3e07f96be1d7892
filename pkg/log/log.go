// Package log provides human-friendly logging for umlc.
//
// Design: show what matters, hide what doesn't.
package log

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Level represents log verbosity.
type Level int

const (
	LevelQuiet   Level = iota // Errors only
	LevelNormal               // Default - key events
	LevelVerbose              // Extra detail
	LevelDebug                // Everything
)

// ANSI color codes
const (
	reset  = "\033[0m"
	dim    = "\033[2m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	blue   = "\033[34m"
	cyan   = "\033[36m"
)

// Symbols for quick visual scanning
const (
	symOK    = "+"
	symFail  = "!"
	symWarn  = "~"
	symInfo  = "-"
	symStart = ">"
	symDone  = "<"
)

// Logger is the main logging interface.
type Logger struct {
	mu     sync.Mutex
	out    io.Writer
	level  Level
	color  bool
	prefix string
	start  time.Time
}

var (
	std   = New(os.Stderr)
	stdMu sync.RWMutex
)

// New creates a logger.
func New(out io.Writer) *Logger {
	return &Logger{
		out:   out,
		level: LevelNormal,
		color: isTTY(out),
		start: time.Now(),
	}
}

// SetLevel sets the global log level.
func SetLevel(l Level) {
	stdMu.Lock()
	std.level = l
	stdMu.Unlock()
}

// SetOutput sets the global output.
func SetOutput(w io.Writer) {
	stdMu.Lock()
	std.out = w
	std.color = isTTY(w)
	stdMu.Unlock()
}

// SetColor forces color on/off.
func SetColor(on bool) {
	stdMu.Lock()
	std.color = on
	stdMu.Unlock()
}

// WithPrefix returns a logger with a prefix.
func WithPrefix(prefix string) *Logger {
	stdMu.RLock()
	l := &Logger{
		out:    std.out,
		level:  std.level,
		color:  std.color,
		prefix: prefix,
		start:  std.start,
	}
	stdMu.RUnlock()
	return l
}

// --- Core logging methods ---

// OK logs a success. Something worked.
func OK(format string, args ...any) {
	std.log(LevelNormal, symOK, green, format, args...)
}

// Fail logs a failure. Something broke.
func Fail(format string, args ...any) {
	std.log(LevelQuiet, symFail, red, format, args...)
}

// Warn logs a warning. Heads up, but not fatal.
func Warn(format string, args ...any) {
	std.log(LevelNormal, symWarn, yellow, format, args...)
}

// Info logs information. FYI.
func Info(format string, args ...any) {
	std.log(LevelNormal, symInfo, blue, format, args...)
}

// Start logs the beginning of something.
func Start(format string, args ...any) {
	std.log(LevelNormal, symStart, cyan, format, args...)
}

// Done logs completion.
func Done(format string, args ...any) {
	std.log(LevelNormal, symDone, green, format, args...)
}

// Debug logs debug info. Only when you're hunting bugs.
func Debug(format string, args ...any) {
	std.log(LevelDebug, " ", dim, format, args...)
}

// --- Verbose variants ---

// V returns true if verbose logging is enabled.
func V() bool {
	stdMu.RLock()
	v := std.level >= LevelVerbose
	stdMu.RUnlock()
	return v
}

// VInfo logs info only in verbose mode.
func VInfo(format string, args ...any) {
	std.log(LevelVerbose, symInfo, blue, format, args...)
}

// --- Execution logging ---

// ExecEvent describes the outcome of one compile or run invocation.
type ExecEvent struct {
	Name     string
	Duration time.Duration
	ExitCode int
	Error    error
}

// LogExec logs an execution result nicely.
func LogExec(e ExecEvent) {
	dur := formatDuration(e.Duration)
	if e.Error != nil {
		Fail("%s failed: %v %s", e.Name, e.Error, dim+dur+reset)
	} else if e.ExitCode != 0 {
		Fail("%s exited %d %s", e.Name, e.ExitCode, dim+dur+reset)
	} else {
		OK("%s %s", e.Name, dim+dur+reset)
	}
}

// --- Internal ---

func (l *Logger) log(minLevel Level, sym, color, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.level < minLevel {
		return
	}

	msg := fmt.Sprintf(format, args...)

	var line string
	if l.color {
		prefix := ""
		if l.prefix != "" {
			prefix = dim + l.prefix + " " + reset
		}
		line = fmt.Sprintf("%s%s%s%s %s%s\n", prefix, color, sym, reset, msg, reset)
	} else {
		prefix := ""
		if l.prefix != "" {
			prefix = l.prefix + " "
		}
		line = fmt.Sprintf("%s%s %s\n", prefix, sym, msg)
	}

	l.out.Write([]byte(line))
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%.0fus", float64(d.Microseconds()))
	case d < time.Second:
		return fmt.Sprintf("%.0fms", float64(d.Milliseconds()))
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%.1fm", d.Minutes())
	}
}

func isTTY(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		fi, err := f.Stat()
		if err != nil {
			return false
		}
		return fi.Mode()&os.ModeCharDevice != 0
	}
	return false
}
