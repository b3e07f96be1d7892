package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pankaj-khatmode/umlc/pkg/compiler"
	"github.com/pankaj-khatmode/umlc/pkg/config"
	"github.com/pankaj-khatmode/umlc/pkg/executor"
	"github.com/pankaj-khatmode/umlc/pkg/history"
	"github.com/pankaj-khatmode/umlc/pkg/language"
	"github.com/pankaj-khatmode/umlc/pkg/log"
)

// errReported marks failures whose detail was already shown; the root
// handler turns it into a nonzero exit without logging again.
var errReported = errors.New("failed")

func newRunCmd() *cobra.Command {
	var (
		languageID string
		input      string
		timeout    time.Duration
		inline     string
	)

	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Compile if needed, then run a source file",
		Long: `Run a source file, compiling first when its language needs it.

The language is inferred from the file extension, or forced with
--language. Programs that read stdin get the --input text followed by
end-of-input; with no --input their reads see end-of-input immediately
instead of hanging. Every run is bounded by a wall-clock timeout.

Examples:
  umlc run hello.py                     # Run Python
  umlc run Main.java                    # Compile and run Java
  umlc run sum.c --input "3 4"          # Feed stdin text
  umlc run slow.py --timeout 30s        # Raise the timeout
  umlc run -e 'print(6*7)' -l python    # Inline snippet`,

		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if inline == "" && len(args) == 0 {
				return fmt.Errorf("provide a source file or -e with inline code")
			}
			if inline != "" && len(args) > 0 {
				return fmt.Errorf("-e and a source file are mutually exclusive")
			}

			printer := NewPrinter(cmd)
			var sink executor.Sink = consoleSink{}
			buffer := &executor.BufferSink{}
			if printer.IsStructured() {
				sink = buffer
			}

			mgr, cfg, err := setup(cmd, sink, timeout)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			var (
				outcome *executor.Outcome
				source  string
			)
			if inline != "" {
				source = "(inline)"
				outcome, err = mgr.RunInline(ctx, inline, languageID, input)
			} else {
				source, err = resolveSource(args[0])
				if err != nil {
					return err
				}
				outcome, err = mgr.Run(ctx, source, languageID, input)
			}
			if err != nil {
				if errors.Is(err, language.ErrUnsupportedLanguage) {
					return fmt.Errorf("%w (see `umlc languages`)", err)
				}
				return err
			}

			recordRun(cfg, "run", mgr, source, languageID, inline, outcome)

			if printer.IsStructured() {
				return printer.Print(newOutcomeReport(outcome, buffer))
			}
			return reportOutcome(outcome)
		},
	}

	cmd.Flags().StringVarP(&languageID, "language", "l", "", "Language id (default: from file extension)")
	cmd.Flags().StringVarP(&input, "input", "i", "", "Text supplied to the program's stdin")
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 0, "Wall-clock limit per step (default from config, 10s)")
	cmd.Flags().StringVarP(&inline, "eval", "e", "", "Run inline code instead of a file (requires --language)")

	return cmd
}

// reportOutcome prints the terminal summary for text mode and converts a
// failed outcome into a nonzero exit.
func reportOutcome(outcome *executor.Outcome) error {
	if outcome.Success {
		log.VInfo("completed in %s", outcome.Duration.Round(time.Millisecond))
		return nil
	}
	if outcome.FailureDetail != "" {
		log.Fail("%s", outcome.FailureDetail)
	} else {
		log.Fail("execution failed")
	}
	return errReported
}

// outcomeReport is the structured-output shape for one cycle.
type outcomeReport struct {
	Success  bool     `json:"success" yaml:"success"`
	ExitCode int      `json:"exit_code" yaml:"exit_code"`
	TimedOut bool     `json:"timed_out" yaml:"timed_out"`
	Duration string   `json:"duration" yaml:"duration"`
	Stdout   []string `json:"stdout" yaml:"stdout"`
	Stderr   []string `json:"stderr" yaml:"stderr"`
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Detail   string   `json:"detail,omitempty" yaml:"detail,omitempty"`
}

func newOutcomeReport(outcome *executor.Outcome, buffer *executor.BufferSink) outcomeReport {
	return outcomeReport{
		Success:  outcome.Success,
		ExitCode: outcome.ExitCode,
		TimedOut: outcome.TimedOut,
		Duration: outcome.Duration.Round(time.Millisecond).String(),
		Stdout:   outcome.Stdout,
		Stderr:   outcome.Stderr,
		Warnings: buffer.Warnings(),
		Detail:   outcome.FailureDetail,
	}
}

// recordRun appends the cycle to the history database. History failures
// are logged, never fatal; the run already happened.
func recordRun(cfg *config.Config, kind string, mgr *compiler.Manager, source, languageID, inline string, outcome *executor.Outcome) {
	if !cfg.History.Enabled || outcome == nil {
		return
	}

	path := cfg.History.Path
	if path == "" {
		path = config.DefaultHistoryPath()
	}
	store, err := history.Open(path)
	if err != nil {
		log.Debug("history unavailable: %v", err)
		return
	}
	defer store.Close()

	lang := languageID
	if lang == "" {
		if p, err := mgr.Resolve(source, ""); err == nil {
			lang = p.ID
		}
	}

	var fingerprint string
	if inline != "" {
		fingerprint = history.FingerprintBytes([]byte(inline))
	} else if fp, err := history.Fingerprint(source); err == nil {
		fingerprint = fp
	}

	entry := &history.Entry{
		Kind:        kind,
		Language:    lang,
		Source:      source,
		Fingerprint: fingerprint,
		Success:     outcome.Success,
		ExitCode:    outcome.ExitCode,
		TimedOut:    outcome.TimedOut,
		Duration:    outcome.Duration,
		Stdout:      joinLines(outcome.Stdout),
		Stderr:      joinLines(outcome.Stderr),
		Detail:      outcome.FailureDetail,
	}
	if err := store.Record(entry); err != nil {
		log.Debug("history record failed: %v", err)
		return
	}
	if _, err := store.Cleanup(cfg.History.Retention.Std(), cfg.History.MaxEntries); err != nil {
		log.Debug("history cleanup failed: %v", err)
	}
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
