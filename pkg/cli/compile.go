package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pankaj-khatmode/umlc/pkg/executor"
	"github.com/pankaj-khatmode/umlc/pkg/language"
	"github.com/pankaj-khatmode/umlc/pkg/log"
)

func newCompileCmd() *cobra.Command {
	var (
		languageID string
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "compile <file>",
		Short: "Run only the compile step",
		Long: `Compile a source file without running it, reporting diagnostics.

Interpreted languages trivially succeed. The compile artifact lands in a
scratch directory that is removed afterwards, so this is a check, not a
build.

Examples:
  umlc compile prog.c
  umlc compile Main.java
  umlc compile weird.src --language cpp`,

		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			source, err := resolveSource(args[0])
			if err != nil {
				return err
			}

			outcome, err := mgr.Compile(cmd.Context(), source, languageID)
			if err != nil {
				if errors.Is(err, language.ErrUnsupportedLanguage) {
					return fmt.Errorf("%w (see `umlc languages`)", err)
				}
				return err
			}

			recordRun(cfg, "compile", mgr, source, languageID, "", outcome)

			if printer.IsStructured() {
				return printer.Print(newOutcomeReport(outcome, buffer))
			}
			if outcome.Success {
				log.OK("compiled %s", args[0])
				return nil
			}
			return reportOutcome(outcome)
		},
	}

	cmd.Flags().StringVarP(&languageID, "language", "l", "", "Language id (default: from file extension)")
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 0, "Wall-clock limit for the compile step")

	return cmd
}
