package compiler

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/pankaj-khatmode/umlc/pkg/executor"
)

// ToolchainStatus reports whether one language's toolchain is usable.
type ToolchainStatus struct {
	Language string `json:"language" yaml:"language"`
	Name     string `json:"name" yaml:"name"`
	Binary   string `json:"binary" yaml:"binary"`
	Path     string `json:"path,omitempty" yaml:"path,omitempty"`
	Found    bool   `json:"found" yaml:"found"`
	Version  string `json:"version,omitempty" yaml:"version,omitempty"`
	Hint     string `json:"hint,omitempty" yaml:"hint,omitempty"`
}

// diagnoseTimeout bounds each version-check command. A wedged toolchain
// should not stall the whole report.
const diagnoseTimeout = 5 * time.Second

// Diagnose checks every registered language's toolchain: whether its
// binary resolves on PATH and, when it does, what the version check says.
// The scan runs on demand and can be repeated after installing something;
// nothing is checked at load time.
func (m *Manager) Diagnose(ctx context.Context) []ToolchainStatus {
	var statuses []ToolchainStatus
	for _, p := range m.registry.List() {
		st := ToolchainStatus{
			Language: p.ID,
			Name:     p.Name,
			Binary:   p.Binary(),
		}
		if st.Binary == "" {
			continue
		}

		path, err := exec.LookPath(st.Binary)
		if err != nil {
			st.Hint = m.registry.InstallHint(p)
			statuses = append(statuses, st)
			continue
		}
		st.Found = true
		st.Path = path
		st.Version = versionOf(ctx, p.Detect.Check)
		statuses = append(statuses, st)
	}
	return statuses
}

// versionOf runs a "binary --version" style check and returns the first
// line it printed, on either stream (gcc reports on stdout, javac on
// stderr).
func versionOf(ctx context.Context, check string) string {
	argv := strings.Fields(check)
	if len(argv) == 0 {
		return ""
	}
	exe := &executor.Executor{Timeout: diagnoseTimeout}
	outcome, err := exe.Execute(ctx, executor.Invocation{Argv: argv, Timeout: diagnoseTimeout})
	if err != nil || outcome == nil {
		return ""
	}
	if len(outcome.Stdout) > 0 {
		return outcome.Stdout[0]
	}
	if len(outcome.Stderr) > 0 {
		return outcome.Stderr[0]
	}
	return ""
}
