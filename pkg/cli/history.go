package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pankaj-khatmode/umlc/pkg/config"
	"github.com/pankaj-khatmode/umlc/pkg/history"
	"github.com/pankaj-khatmode/umlc/pkg/log"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse past runs",
		Long: `Browse the local run history.

Every run and compile is recorded in a local SQLite database, including
captured output. Old entries are pruned by the retention settings in
umlc.toml.

Examples:
  umlc history              # Recent runs
  umlc history show 3fa8    # Full output of one run (id prefix ok)
  umlc history clear        # Delete everything`,

		RunE: func(cmd *cobra.Command, args []string) error {
			return listHistory(cmd, 20)
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List recent runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			return listHistory(cmd, limit)
		},
	}
	list.Flags().Int("limit", 20, "Maximum entries to show")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one run with its captured output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistory(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			entry, err := store.Get(args[0])
			if err != nil {
				return err
			}

			printer := NewPrinter(cmd)
			if printer.IsStructured() {
				return printer.Print(entry)
			}

			status := "failed"
			if entry.Success {
				status = "ok"
			}
			fmt.Printf("id:       %s\n", entry.ID)
			fmt.Printf("when:     %s\n", entry.CreatedAt.Format(time.RFC3339))
			fmt.Printf("kind:     %s\n", entry.Kind)
			fmt.Printf("language: %s\n", entry.Language)
			fmt.Printf("source:   %s\n", entry.Source)
			fmt.Printf("status:   %s (exit %d, %s)\n", status, entry.ExitCode,
				entry.Duration.Round(time.Millisecond))
			if entry.Detail != "" {
				fmt.Printf("detail:   %s\n", entry.Detail)
			}
			if entry.Stdout != "" {
				fmt.Printf("\nstdout:\n%s\n", entry.Stdout)
			}
			if entry.Stderr != "" {
				fmt.Printf("\nstderr:\n%s\n", entry.Stderr)
			}
			return nil
		},
	}

	clear := &cobra.Command{
		Use:   "clear",
		Short: "Delete all history entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistory(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := store.Clear()
			if err != nil {
				return err
			}
			log.OK("deleted %d entries", n)
			return nil
		},
	}

	cmd.AddCommand(list, show, clear)
	return cmd
}

func listHistory(cmd *cobra.Command, limit int) error {
	store, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(limit)
	if err != nil {
		return err
	}

	printer := NewPrinter(cmd)
	if printer.IsStructured() {
		return printer.Print(entries)
	}

	var rows [][]string
	for _, e := range entries {
		status := "failed"
		switch {
		case e.Success:
			status = "ok"
		case e.TimedOut:
			status = "timeout"
		}
		rows = append(rows, []string{
			shortID(e.ID),
			e.CreatedAt.Format("2006-01-02 15:04:05"),
			e.Kind,
			e.Language,
			e.Source,
			status,
			e.Duration.Round(time.Millisecond).String(),
		})
	}
	printer.PrintTable(
		[]string{"ID", "WHEN", "KIND", "LANGUAGE", "SOURCE", "STATUS", "TIME"},
		rows,
	)
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func openHistory(cmd *cobra.Command) (*history.Store, error) {
	cfgPath, _ := cmd.Root().PersistentFlags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	path := cfg.History.Path
	if path == "" {
		path = config.DefaultHistoryPath()
	}
	return history.Open(path)
}
