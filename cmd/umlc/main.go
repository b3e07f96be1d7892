// umlc - compile and run source files across languages
//
// A single-binary front end over per-language toolchains: point it at a
// source file and it compiles when needed, runs the result, and streams
// the output.
package main

import (
	"os"

	"github.com/pankaj-khatmode/umlc/pkg/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(cli.Execute(cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}))
}
