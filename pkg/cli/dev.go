package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/pankaj-khatmode/umlc/pkg/log"
)

func newDevCmd() *cobra.Command {
	var (
		languageID string
		input      string
		timeout    time.Duration
		debounce   time.Duration
		clear      bool
	)

	cmd := &cobra.Command{
		Use:   "dev <file>",
		Short: "Watch a file and re-run it on every save",
		Long: `Run a source file and automatically re-run when it changes.

Creates a tight feedback loop:
1. Runs the file immediately
2. Watches the file's directory for changes
3. Re-runs on save (with debouncing)

Examples:
  umlc dev hello.py               # Watch and run
  umlc dev Main.java --clear      # Clear screen between runs
  umlc dev sum.c --input "3 4"    # Re-run with the same stdin text`,

		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := resolveSource(args[0])
			if err != nil {
				return err
			}

			mgr, _, err := setup(cmd, consoleSink{}, timeout)
			if err != nil {
				return err
			}

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("failed to create file watcher: %w", err)
			}
			defer watcher.Close()

			// Watch the directory, not the file: editors that save via
			// rename would otherwise drop the watch after the first save.
			if err := watcher.Add(filepath.Dir(source)); err != nil {
				return fmt.Errorf("failed to watch directory: %w", err)
			}

			runOnce := func() {
				if clear {
					fmt.Print("\033[2J\033[H")
				}
				log.Start("running %s", args[0])
				outcome, err := mgr.Run(cmd.Context(), source, languageID, input)
				if err != nil {
					log.Fail("%v", err)
				} else {
					event := log.ExecEvent{
						Name:     filepath.Base(source),
						Duration: outcome.Duration,
						ExitCode: outcome.ExitCode,
					}
					if outcome.ExitCode < 0 {
						event.Error = outcome.Err
					}
					log.LogExec(event)
				}
				log.Info("watching for changes (ctrl-c to stop)")
			}

			runOnce()

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

			var pending *time.Timer
			for {
				select {
				case event, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if filepath.Clean(event.Name) != source {
						continue
					}
					if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
						continue
					}
					// Editors fire bursts of events per save; collapse
					// them into one re-run.
					if pending != nil {
						pending.Stop()
					}
					pending = time.AfterFunc(debounce, runOnce)

				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					log.Warn("watch error: %v", err)

				case <-sig:
					fmt.Println()
					log.Info("stopped")
					return nil
				}
			}
		},
	}

	cmd.Flags().StringVarP(&languageID, "language", "l", "", "Language id (default: from file extension)")
	cmd.Flags().StringVarP(&input, "input", "i", "", "Text supplied to the program's stdin on each run")
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 0, "Wall-clock limit per step")
	cmd.Flags().DurationVar(&debounce, "debounce", 300*time.Millisecond, "Quiet period after a change before re-running")
	cmd.Flags().BoolVar(&clear, "clear", false, "Clear the screen between runs")

	return cmd
}
