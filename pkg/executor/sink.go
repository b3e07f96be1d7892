package executor

import (
	"sync"

	"github.com/pankaj-khatmode/umlc/pkg/log"
)

// Sink receives console messages from a running invocation. The UI layer
// implements this to render output as it arrives; implementations must not
// block the reader goroutines feeding them.
type Sink interface {
	// OutputLine delivers one line of the child's standard output.
	OutputLine(line string)

	// ErrorLine delivers one line of the child's standard error.
	ErrorLine(line string)

	// Warning delivers an advisory message from the orchestrator itself.
	Warning(msg string)

	// Info delivers an informational message from the orchestrator itself.
	Info(msg string)
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) OutputLine(string) {}
func (NopSink) ErrorLine(string)  {}
func (NopSink) Warning(string)    {}
func (NopSink) Info(string)       {}

// LogSink forwards messages to the umlc logger. This is the sink the CLI
// attaches: program output on stdout-like lines, diagnostics via log levels.
type LogSink struct{}

func (LogSink) OutputLine(line string) { log.Info("%s", line) }
func (LogSink) ErrorLine(line string)  { log.Fail("%s", line) }
func (LogSink) Warning(msg string)     { log.Warn("%s", msg) }
func (LogSink) Info(msg string)        { log.VInfo("%s", msg) }

// BufferSink collects messages in memory. Used by tests and by callers that
// only want the assembled outcome.
type BufferSink struct {
	mu       sync.Mutex
	output   []string
	errors   []string
	warnings []string
	infos    []string
}

func (b *BufferSink) OutputLine(line string) {
	b.mu.Lock()
	b.output = append(b.output, line)
	b.mu.Unlock()
}

func (b *BufferSink) ErrorLine(line string) {
	b.mu.Lock()
	b.errors = append(b.errors, line)
	b.mu.Unlock()
}

func (b *BufferSink) Warning(msg string) {
	b.mu.Lock()
	b.warnings = append(b.warnings, msg)
	b.mu.Unlock()
}

func (b *BufferSink) Info(msg string) {
	b.mu.Lock()
	b.infos = append(b.infos, msg)
	b.mu.Unlock()
}

// Output returns the collected stdout lines.
func (b *BufferSink) Output() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.output...)
}

// Errors returns the collected stderr lines.
func (b *BufferSink) Errors() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.errors...)
}

// Warnings returns the collected warnings.
func (b *BufferSink) Warnings() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.warnings...)
}

// Infos returns the collected info messages.
func (b *BufferSink) Infos() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.infos...)
}
