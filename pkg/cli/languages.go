package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/pankaj-khatmode/umlc/pkg/executor"
)

func newLanguagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "languages",
		Aliases: []string{"langs"},
		Short:   "List supported languages",
		Long: `List every registered language profile: builtins plus any custom
profiles from umlc.toml.`,

		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, _, err := setup(cmd, executor.NopSink{}, 0)
			if err != nil {
				return err
			}

			profiles := mgr.Registry().List()
			printer := NewPrinter(cmd)
			if printer.IsStructured() {
				return printer.Print(profiles)
			}

			var rows [][]string
			for _, p := range profiles {
				origin := "builtin"
				if !p.Builtin {
					origin = "custom"
				}
				rows = append(rows, []string{
					p.ID,
					p.Name,
					p.Extension,
					string(p.Kind),
					strings.Join(p.Run, " "),
					origin,
				})
			}
			printer.PrintTable(
				[]string{"ID", "NAME", "EXT", "KIND", "RUN", "ORIGIN"},
				rows,
			)
			return nil
		},
	}
	return cmd
}
