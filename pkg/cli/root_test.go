package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := NewRootCmd(BuildInfo{Version: "test"})

	want := []string{"run", "compile", "dev", "languages", "doctor", "history", "version"}
	for _, name := range want {
		found := false
		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestRunRequiresFileOrInline(t *testing.T) {
	root := NewRootCmd(BuildInfo{})
	root.SetArgs([]string{"run"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	if err := root.Execute(); err == nil {
		t.Error("run with no file and no -e should fail")
	}
}

func TestPrinterJSON(t *testing.T) {
	var buf bytes.Buffer
	p := &Printer{Format: OutputJSON, Writer: &buf}

	if err := p.Print(map[string]int{"answer": 42}); err != nil {
		t.Fatalf("Print failed: %v", err)
	}
	var decoded map[string]int
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["answer"] != 42 {
		t.Errorf("decoded = %v", decoded)
	}
}

func TestPrinterYAML(t *testing.T) {
	var buf bytes.Buffer
	p := &Printer{Format: OutputYAML, Writer: &buf}

	if err := p.Print(map[string]string{"status": "ok"}); err != nil {
		t.Fatalf("Print failed: %v", err)
	}
	if !strings.Contains(buf.String(), "status: ok") {
		t.Errorf("unexpected YAML: %q", buf.String())
	}
}

func TestPrinterUnknownFormat(t *testing.T) {
	p := &Printer{Format: "xml", Writer: &bytes.Buffer{}}
	if err := p.Print("anything"); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestPrinterTable(t *testing.T) {
	var buf bytes.Buffer
	p := &Printer{Format: OutputText, Writer: &buf}

	p.PrintTable([]string{"ID", "NAME"}, [][]string{{"python", "Python 3"}})
	out := buf.String()
	if !strings.Contains(out, "ID") || !strings.Contains(out, "python") {
		t.Errorf("table output missing content: %q", out)
	}
}

func TestPrinterTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	p := &Printer{Format: OutputText, Writer: &buf}

	p.PrintTable([]string{"ID"}, nil)
	if !strings.Contains(buf.String(), "(none)") {
		t.Errorf("empty table should print (none), got %q", buf.String())
	}
}
