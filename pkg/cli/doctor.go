package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pankaj-khatmode/umlc/pkg/compiler"
	"github.com/pankaj-khatmode/umlc/pkg/executor"
)

// DoctorReport is the full doctor output.
type DoctorReport struct {
	Toolchains []compiler.ToolchainStatus `json:"toolchains" yaml:"toolchains"`
	Summary    struct {
		Found   int `json:"found" yaml:"found"`
		Missing int `json:"missing" yaml:"missing"`
		Total   int `json:"total" yaml:"total"`
	} `json:"summary" yaml:"summary"`
}

func newDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check which language toolchains are installed",
		Long: `Check every registered language's toolchain.

Each language's compiler or interpreter binary is looked up on PATH and,
when present, its version check is run. Missing toolchains come with an
install hint. Nothing is cached: install something and run doctor again.

Examples:
  umlc doctor           # Human-readable report
  umlc doctor -o json   # JSON output for CI`,

		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, _, err := setup(cmd, executor.NopSink{}, 0)
			if err != nil {
				return err
			}

			report := DoctorReport{Toolchains: mgr.Diagnose(cmd.Context())}
			for _, st := range report.Toolchains {
				if st.Found {
					report.Summary.Found++
				} else {
					report.Summary.Missing++
				}
			}
			report.Summary.Total = len(report.Toolchains)

			printer := NewPrinter(cmd)
			if printer.IsStructured() {
				return printer.Print(report)
			}

			fmt.Println("UMLC DOCTOR")
			fmt.Println("===========")
			fmt.Println()
			for _, st := range report.Toolchains {
				if st.Found {
					detail := st.Path
					if st.Version != "" {
						detail = st.Version
					}
					fmt.Printf("  + %-12s %s\n", st.Name, detail)
					continue
				}
				fmt.Printf("  ! %-12s %s not found\n", st.Name, st.Binary)
				if st.Hint != "" {
					fmt.Printf("      fix: %s\n", st.Hint)
				}
			}
			fmt.Println()
			fmt.Printf("%d toolchains available, %d missing\n",
				report.Summary.Found, report.Summary.Missing)
			return nil
		},
	}
	return cmd
}
