// Package language defines toolchain profiles for the languages umlc can
// compile and run.
//
// Any language can be added by defining:
// - How to compile it (optional)
// - How to run it
// - Which file extension it owns
//
// Example profile definition (TOML):
//
//	[language.go]
//	name = "Go"
//	extension = ".go"
//	kind = "native"
//	compile = ["go", "build", "-o", "{output}", "{file}"]
//	run = ["{output}"]
//
//	[language.go.detect]
//	check = "go version"
package language

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Kind classifies how a toolchain turns source into a running process.
// It is a closed set: drivers dispatch on it, so adding a kind is a
// deliberate, localized change.
type Kind string

const (
	// KindInterpreted runs the source file directly (python, node).
	KindInterpreted Kind = "interpreted"

	// KindNative compiles to a standalone executable first (gcc, g++).
	KindNative Kind = "native"

	// KindManaged compiles in a directory-scoped step whose artifact name
	// is derived from the source filename (javac/java).
	KindManaged Kind = "managed"
)

// Valid reports whether k is a known toolchain kind.
func (k Kind) Valid() bool {
	switch k {
	case KindInterpreted, KindNative, KindManaged:
		return true
	}
	return false
}

// Placeholder tokens recognized in command templates.
const (
	PlaceholderFile   = "{file}"   // Absolute path of the source file
	PlaceholderOutput = "{output}" // Freshly allocated artifact path
	PlaceholderUnit   = "{unit}"   // Derived unit name (source filename stem)
)

// Profile describes one language's toolchain.
type Profile struct {
	// ID is the unique identifier (e.g., "python", "cpp")
	ID string `toml:"id" json:"id"`

	// Name is the human-readable name (e.g., "Python 3", "C++")
	Name string `toml:"name" json:"name"`

	// Extension is the source file extension including the dot (e.g., ".py")
	Extension string `toml:"extension" json:"extension"`

	// Kind selects the driver behavior: interpreted, native, or managed
	Kind Kind `toml:"kind" json:"kind"`

	// Compile is the compile command template. Empty for interpreted
	// languages. Tokens: {file}, {output}.
	Compile []string `toml:"compile" json:"compile,omitempty"`

	// Run is the run command template. Tokens: {file}, {output}, {unit}.
	Run []string `toml:"run" json:"run"`

	// Detect configures how to verify the toolchain is installed
	Detect DetectConfig `toml:"detect" json:"detect"`

	// Install configures hints for installing the toolchain
	Install InstallConfig `toml:"install" json:"install"`

	// InputCalls are substrings whose presence in source suggests the
	// program reads from standard input. A heuristic, not a parse.
	InputCalls []string `toml:"input_calls" json:"input_calls,omitempty"`

	// Builtin indicates this is a built-in profile (not user-defined)
	Builtin bool `toml:"-" json:"-"`
}

// DetectConfig configures toolchain detection.
type DetectConfig struct {
	// Check is a command to run to verify the toolchain works
	// Example: "gcc --version"
	Check string `toml:"check" json:"check"`
}

// InstallConfig configures installation hints.
type InstallConfig struct {
	// Commands are platform-specific install commands
	// Keys: "macos", "linux", "windows"
	Commands map[string]string `toml:"commands" json:"commands,omitempty"`

	// DocURL is documentation for manual installation
	DocURL string `toml:"doc_url" json:"doc_url,omitempty"`

	// Note is a human-readable installation note
	Note string `toml:"note" json:"note,omitempty"`
}

// NeedsCompile reports whether the profile has a compile step.
func (p *Profile) NeedsCompile() bool {
	return len(p.Compile) > 0
}

// Binary returns the toolchain binary the run step invokes, or the compile
// step's for compiled languages. Template tokens resolve to the artifact, so
// argv[0] of a pure-token template has no fixed binary and returns "".
func (p *Profile) Binary() string {
	argv := p.Run
	if p.NeedsCompile() {
		argv = p.Compile
	}
	if len(argv) == 0 {
		return ""
	}
	if strings.Contains(argv[0], "{") {
		return ""
	}
	return argv[0]
}

// UnitName derives the managed-toolchain unit name from a source path.
// It is the filename stem: /tmp/work/Main.java -> Main. The run step must
// use exactly this name or the toolchain will not find its artifact.
func UnitName(sourcePath string) string {
	base := filepath.Base(sourcePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ResolveTemplate substitutes placeholder tokens in a command template.
// Tokens are replaced inside arguments, so "-o{output}" style fragments
// also resolve. The template itself is never mutated.
func ResolveTemplate(template []string, file, output, unit string) []string {
	argv := make([]string, len(template))
	for i, arg := range template {
		arg = strings.ReplaceAll(arg, PlaceholderFile, file)
		arg = strings.ReplaceAll(arg, PlaceholderOutput, output)
		arg = strings.ReplaceAll(arg, PlaceholderUnit, unit)
		argv[i] = arg
	}
	return argv
}

// validate checks a profile is internally consistent before registration.
func (p *Profile) validate() error {
	if p.ID == "" {
		return errors.New("profile ID is required")
	}
	if !p.Kind.Valid() {
		return fmt.Errorf("profile %s: unknown kind %q", p.ID, p.Kind)
	}
	if len(p.Run) == 0 {
		return fmt.Errorf("profile %s: run template is required", p.ID)
	}
	if p.Kind == KindInterpreted && p.NeedsCompile() {
		return fmt.Errorf("profile %s: interpreted languages cannot have a compile template", p.ID)
	}
	if p.Kind != KindInterpreted && !p.NeedsCompile() {
		return fmt.Errorf("profile %s: %s languages require a compile template", p.ID, p.Kind)
	}
	if p.Extension != "" && !strings.HasPrefix(p.Extension, ".") {
		return fmt.Errorf("profile %s: extension must start with a dot", p.ID)
	}
	return nil
}

// --- Errors ---

// ErrUnsupportedLanguage is returned when no profile exists for a language
// id or file extension. Use errors.Is() to check for it.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// UnsupportedError wraps ErrUnsupportedLanguage with the offending id.
type UnsupportedError struct {
	ID string
}

func (e *UnsupportedError) Error() string {
	return "unsupported language: " + e.ID
}

func (e *UnsupportedError) Is(target error) bool {
	return target == ErrUnsupportedLanguage
}
