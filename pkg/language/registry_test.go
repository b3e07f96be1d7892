package language

import (
	"errors"
	"strings"
	"testing"
)

func TestBuiltinProfilesRegistered(t *testing.T) {
	reg := NewRegistry()

	for _, id := range []string{"python", "c", "cpp", "java", "javascript"} {
		p, err := reg.Get(id)
		if err != nil {
			t.Fatalf("Get(%q) failed: %v", id, err)
		}
		if p.ID != id {
			t.Errorf("expected id %q, got %q", id, p.ID)
		}
		if len(p.Run) == 0 {
			t.Errorf("%s: run template should not be empty", id)
		}
		if !p.Builtin {
			t.Errorf("%s: should be marked builtin", id)
		}
	}
}

func TestGetUnknownLanguage(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.Get("cobol")
	if err == nil {
		t.Fatal("expected error for unknown language")
	}
	if !errors.Is(err, ErrUnsupportedLanguage) {
		t.Errorf("expected ErrUnsupportedLanguage, got %v", err)
	}
	if !strings.Contains(err.Error(), "cobol") {
		t.Errorf("error should name the language, got %q", err.Error())
	}
}

func TestGetIsCaseInsensitive(t *testing.T) {
	reg := NewRegistry()

	p, err := reg.Get("Python")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if p.ID != "python" {
		t.Errorf("expected python, got %q", p.ID)
	}
}

func TestGetByExtension(t *testing.T) {
	reg := NewRegistry()

	tests := []struct {
		ext  string
		want string
	}{
		{".py", "python"},
		{"py", "python"},
		{".c", "c"},
		{".cpp", "cpp"},
		{".java", "java"},
		{".js", "javascript"},
	}
	for _, tt := range tests {
		p, err := reg.GetByExtension(tt.ext)
		if err != nil {
			t.Errorf("GetByExtension(%q) failed: %v", tt.ext, err)
			continue
		}
		if p.ID != tt.want {
			t.Errorf("GetByExtension(%q) = %q, want %q", tt.ext, p.ID, tt.want)
		}
	}

	if _, err := reg.GetByExtension(".xyz"); !errors.Is(err, ErrUnsupportedLanguage) {
		t.Errorf("unknown extension should be unsupported, got %v", err)
	}
}

func TestGetByFile(t *testing.T) {
	reg := NewRegistry()

	p, err := reg.GetByFile("/tmp/project/Main.java")
	if err != nil {
		t.Fatalf("GetByFile failed: %v", err)
	}
	if p.ID != "java" {
		t.Errorf("expected java, got %q", p.ID)
	}
}

func TestRegisterDuplicateFails(t *testing.T) {
	reg := NewRegistry()

	err := reg.Register(&Profile{
		ID:   "python",
		Name: "Another Python",
		Kind: KindInterpreted,
		Run:  []string{"python", "{file}"},
	})
	if err == nil {
		t.Fatal("duplicate registration should fail")
	}
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name    string
		profile *Profile
	}{
		{"missing id", &Profile{Kind: KindInterpreted, Run: []string{"x"}}},
		{"bad kind", &Profile{ID: "x", Kind: "jit", Run: []string{"x"}}},
		{"missing run", &Profile{ID: "x", Kind: KindInterpreted}},
		{"interpreted with compile", &Profile{
			ID: "x", Kind: KindInterpreted,
			Compile: []string{"cc", "{file}"}, Run: []string{"x"},
		}},
		{"native without compile", &Profile{
			ID: "x", Kind: KindNative, Run: []string{"{output}"},
		}},
		{"extension without dot", &Profile{
			ID: "x", Kind: KindInterpreted, Extension: "py", Run: []string{"x"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry()
			if err := reg.Register(tt.profile); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestResolveTemplate(t *testing.T) {
	template := []string{"gcc", "{file}", "-o", "{output}"}
	argv := ResolveTemplate(template, "/src/main.c", "/tmp/ws/main", "main")

	want := []string{"gcc", "/src/main.c", "-o", "/tmp/ws/main"}
	for i := range want {
		if argv[i] != want[i] {
			t.Errorf("argv[%d] = %q, want %q", i, argv[i], want[i])
		}
	}
	// Original template untouched
	if template[1] != "{file}" {
		t.Error("template should not be mutated")
	}
}

func TestResolveTemplateInsideArgument(t *testing.T) {
	argv := ResolveTemplate([]string{"-o{output}"}, "", "/tmp/a.out", "")
	if argv[0] != "-o/tmp/a.out" {
		t.Errorf("expected token replaced inside argument, got %q", argv[0])
	}
}

func TestUnitName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/tmp/work/Main.java", "Main"},
		{"HelloWorld.java", "HelloWorld"},
		{"/a/b/prog.c", "prog"},
		{"noext", "noext"},
	}
	for _, tt := range tests {
		if got := UnitName(tt.path); got != tt.want {
			t.Errorf("UnitName(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestLoadFromTOML(t *testing.T) {
	reg := NewRegistry()

	content := `
[language.go]
name = "Go"
extension = ".go"
kind = "native"
compile = ["go", "build", "-o", "{output}", "{file}"]
run = ["{output}"]

[language.go.detect]
check = "go version"

[language.ruby]
name = "Ruby"
extension = ".rb"
kind = "interpreted"
run = ["ruby", "{file}"]
`
	if err := reg.LoadFromTOML([]byte(content)); err != nil {
		t.Fatalf("LoadFromTOML failed: %v", err)
	}

	goProfile, err := reg.Get("go")
	if err != nil {
		t.Fatalf("Get(go) failed: %v", err)
	}
	if goProfile.Kind != KindNative {
		t.Errorf("expected native kind, got %q", goProfile.Kind)
	}
	if goProfile.Detect.Check != "go version" {
		t.Errorf("detect check not loaded: %q", goProfile.Detect.Check)
	}

	ruby, err := reg.GetByExtension(".rb")
	if err != nil {
		t.Fatalf("GetByExtension(.rb) failed: %v", err)
	}
	if ruby.ID != "ruby" {
		t.Errorf("expected ruby, got %q", ruby.ID)
	}
	if ruby.Builtin {
		t.Error("loaded profile should not be builtin")
	}
}

func TestLoadFromTOMLRejectsConflicts(t *testing.T) {
	reg := NewRegistry()

	content := `
[language.python]
name = "Shadow Python"
kind = "interpreted"
run = ["python", "{file}"]
`
	if err := reg.LoadFromTOML([]byte(content)); err == nil {
		t.Fatal("expected conflict with builtin python profile")
	}
}

func TestInstallHint(t *testing.T) {
	reg := NewRegistry()

	p, err := reg.Get("java")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	hint := reg.InstallHint(p)
	if hint == "" {
		t.Error("builtin java profile should carry an install hint")
	}
}

func TestProfileBinary(t *testing.T) {
	reg := NewRegistry()

	c, _ := reg.Get("c")
	if c.Binary() != "gcc" {
		t.Errorf("c binary = %q, want gcc", c.Binary())
	}
	py, _ := reg.Get("python")
	if py.Binary() != "python3" {
		t.Errorf("python binary = %q, want python3", py.Binary())
	}
}
