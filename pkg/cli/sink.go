package cli

import (
	"fmt"
	"os"

	"github.com/pankaj-khatmode/umlc/pkg/log"
)

// consoleSink streams program output straight to the terminal as it is
// produced: stdout lines plain, stderr lines to the error stream, and
// advisory messages through the logger.
type consoleSink struct{}

func (consoleSink) OutputLine(line string) { fmt.Fprintln(os.Stdout, line) }
func (consoleSink) ErrorLine(line string)  { fmt.Fprintln(os.Stderr, line) }
func (consoleSink) Warning(msg string)     { log.Warn("%s", msg) }
func (consoleSink) Info(msg string)        { log.VInfo("%s", msg) }
