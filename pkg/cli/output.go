package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// OutputFormat represents the desired output format.
type OutputFormat string

const (
	OutputText OutputFormat = "text"
	OutputJSON OutputFormat = "json"
	OutputYAML OutputFormat = "yaml"
)

// Printer handles formatting output based on the requested format.
type Printer struct {
	Format OutputFormat
	Writer io.Writer
}

// NewPrinter creates a printer from the command's output flag.
func NewPrinter(cmd *cobra.Command) *Printer {
	format, _ := cmd.Root().PersistentFlags().GetString("output")
	return &Printer{
		Format: OutputFormat(format),
		Writer: os.Stdout,
	}
}

// IsStructured returns true if the output format expects structured data.
func (p *Printer) IsStructured() bool {
	return p.Format == OutputJSON || p.Format == OutputYAML
}

// Print outputs the data in the appropriate format.
func (p *Printer) Print(data any) error {
	switch p.Format {
	case OutputJSON:
		enc := json.NewEncoder(p.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case OutputYAML:
		return yaml.NewEncoder(p.Writer).Encode(data)
	case OutputText, "":
		fmt.Fprintln(p.Writer, data)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s (use text, json, or yaml)", p.Format)
	}
}

// PrintTable prints headers and rows as an aligned table.
func (p *Printer) PrintTable(headers []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(p.Writer, "(none)")
		return
	}
	w := tabwriter.NewWriter(p.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(headers, "\t"))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	w.Flush()
}
