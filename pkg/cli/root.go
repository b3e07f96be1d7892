// Package cli implements the umlc command-line interface.
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pankaj-khatmode/umlc/pkg/compiler"
	"github.com/pankaj-khatmode/umlc/pkg/config"
	"github.com/pankaj-khatmode/umlc/pkg/executor"
	"github.com/pankaj-khatmode/umlc/pkg/language"
	"github.com/pankaj-khatmode/umlc/pkg/log"
)

// BuildInfo contains version information for the binary.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCmd creates the root umlc command.
func NewRootCmd(info BuildInfo) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "umlc",
		Short: "Compile and run code in any supported language",
		Long: `umlc - compile and run source files across languages

QUICK START
  umlc run hello.py                Run a file (language from extension)
  umlc run Main.java               Compile and run Java
  umlc run prog.c --input "5 7"    Run with stdin text
  umlc compile prog.cpp            Compile only, report diagnostics

COMMANDS
  run        Compile if needed, then run a source file
  compile    Run only the compile step
  dev        Watch a file and re-run it on every save
  languages  List supported languages
  doctor     Check which toolchains are installed
  history    Browse past runs

MORE
  umlc <command> --help     Help for a command
  umlc version              Show version info`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose, _ := cmd.Root().PersistentFlags().GetBool("verbose"); verbose {
				log.SetLevel(log.LevelDebug)
			}
		},
	}

	// Typo suggestions ("umlc rnu" -> "Did you mean 'run'?")
	cmd.SuggestionsMinimumDistance = 2

	cmd.PersistentFlags().StringP("output", "o", "text", "Output format: text, json, yaml")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().String("config", "", "Config file (default: umlc.toml, then ~/.umlc/umlc.toml)")

	cmd.AddCommand(
		newRunCmd(),
		newCompileCmd(),
		newDevCmd(),
		newLanguagesCmd(),
		newDoctorCmd(),
		newHistoryCmd(),
		newVersionCmd(info),
	)

	return cmd
}

// Execute runs the root command and returns the process exit code.
func Execute(info BuildInfo) int {
	root := NewRootCmd(info)
	if err := root.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			log.Fail("%v", err)
		}
		return 1
	}
	return 0
}

func newVersionCmd(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			printer := NewPrinter(cmd)
			if printer.IsStructured() {
				printer.Print(info)
				return
			}
			fmt.Printf("umlc %s (commit %s, built %s)\n", info.Version, info.Commit, info.Date)
		},
	}
}

// setup loads config, builds the registry with any custom profiles, and
// returns a manager wired to the given sink.
func setup(cmd *cobra.Command, sink executor.Sink, timeoutFlag time.Duration) (*compiler.Manager, *config.Config, error) {
	cfgPath, _ := cmd.Root().PersistentFlags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, err
	}

	reg := language.NewRegistry()
	if err := cfg.ApplyLanguages(reg); err != nil {
		return nil, nil, err
	}

	timeout := cfg.Run.Timeout.Std()
	if timeoutFlag > 0 {
		timeout = timeoutFlag
	}

	mgr := compiler.New(reg,
		compiler.WithSink(sink),
		compiler.WithTimeout(timeout),
	)
	return mgr, cfg, nil
}

// resolveSource makes a source path absolute and checks it exists.
func resolveSource(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("cannot resolve source path: %w", err)
	}
	if _, err := os.Stat(abs); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("source file not found: %s", path)
		}
		return "", fmt.Errorf("cannot access source file: %w", err)
	}
	return abs, nil
}
