// Package stdin decides what a program's standard input should look like
// before it runs.
//
// Interactive prompts are useless when output is captured line-by-line: the
// prompt may never flush, and a blocking read would hang the whole run until
// the timeout fires. Instead the source is scanned for the language's known
// read calls, and stdin is planned up front: either the caller's supplied
// text followed by end-of-input, or end-of-input from the very first read.
package stdin

import "strings"

// Plan is the stdin policy for one run.
type Plan struct {
	// Input is written to the child's stdin before the stream is closed.
	// Nil means stdin is closed from the start and every read sees
	// end-of-input.
	Input []byte

	// ReadsInput is true when the source appears to read from stdin.
	ReadsInput bool

	// Warnings are advisory notes for the caller's sink.
	Warnings []string
}

// DetectsReads reports whether the source appears to read from standard
// input, by scanning for any of the language's read-call markers. This is
// a textual heuristic: a marker inside a comment or string literal counts,
// which errs on the side of warning rather than hanging.
func DetectsReads(source string, markers []string) bool {
	for _, m := range markers {
		if m != "" && strings.Contains(source, m) {
			return true
		}
	}
	return false
}

// PlanFor builds the stdin plan for a run of source with the given
// read-call markers and caller-supplied input text.
//
// Supplied input is delivered once, in order, then the stream closes: a
// program that reads past the supplied values sees end-of-input rather
// than blocking. When the source reads input but none was supplied, stdin
// closes at spawn so the first read fails fast instead of stalling until
// the timeout.
func PlanFor(source string, markers []string, supplied string) Plan {
	p := Plan{ReadsInput: DetectsReads(source, markers)}

	if supplied != "" {
		if !strings.HasSuffix(supplied, "\n") {
			supplied += "\n"
		}
		p.Input = []byte(supplied)
		if !p.ReadsInput {
			p.Warnings = append(p.Warnings,
				"input was provided but the program does not appear to read stdin")
		}
		return p
	}

	if p.ReadsInput {
		p.Warnings = append(p.Warnings,
			"program reads input but none was provided; reads will see end-of-input immediately")
	}
	return p
}
