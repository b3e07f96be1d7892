package language

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

// Registry manages the available language profiles.
type Registry struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
	byExt    map[string]*Profile
}

// NewRegistry creates a registry with the built-in profiles.
func NewRegistry() *Registry {
	r := &Registry{
		profiles: make(map[string]*Profile),
		byExt:    make(map[string]*Profile),
	}
	for _, p := range BuiltinProfiles() {
		// Builtins are static and validated by tests; registration
		// cannot fail here.
		r.Register(p)
	}
	return r
}

// Register adds a profile to the registry. Registering an id twice is an
// error: profiles are immutable once defined.
func (r *Registry) Register(p *Profile) error {
	if err := p.validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := strings.ToLower(p.ID)
	if _, exists := r.profiles[id]; exists {
		return fmt.Errorf("duplicate language profile: %s", p.ID)
	}
	r.profiles[id] = p

	if p.Extension != "" {
		r.byExt[strings.ToLower(p.Extension)] = p
	}
	return nil
}

// Get returns a profile by language id.
func (r *Registry) Get(id string) (*Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[strings.ToLower(id)]
	if !ok {
		return nil, &UnsupportedError{ID: id}
	}
	return p, nil
}

// GetByExtension returns the profile owning a file extension.
func (r *Registry) GetByExtension(ext string) (*Profile, error) {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byExt[ext]
	if !ok {
		return nil, &UnsupportedError{ID: ext}
	}
	return p, nil
}

// GetByFile returns the profile for a file based on its extension.
func (r *Registry) GetByFile(path string) (*Profile, error) {
	return r.GetByExtension(filepath.Ext(path))
}

// List returns all registered profiles sorted by id.
func (r *Registry) List() []*Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]*Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// InstallHint returns installation instructions for the current platform.
func (r *Registry) InstallHint(p *Profile) string {
	if p.Install.Note != "" {
		return p.Install.Note
	}
	if cmd, ok := p.Install.Commands[runtime.GOOS]; ok {
		return fmt.Sprintf("Install %s:\n  %s", p.Name, cmd)
	}
	if p.Install.DocURL != "" {
		return fmt.Sprintf("Install %s: see %s", p.Name, p.Install.DocURL)
	}
	return fmt.Sprintf("%s toolchain is required but not installed", p.Name)
}

// profileFile is the TOML shape of a profile definitions file:
//
//	[language.<id>]
//	name = "..."
//	...
type profileFile struct {
	Language map[string]Profile `toml:"language"`
}

// LoadFromTOML parses profile definitions from TOML content and registers
// them. The map key becomes the profile id.
func (r *Registry) LoadFromTOML(content []byte) error {
	var file profileFile
	if err := toml.Unmarshal(content, &file); err != nil {
		return fmt.Errorf("failed to parse language profiles: %w", err)
	}

	ids := make([]string, 0, len(file.Language))
	for id := range file.Language {
		ids = append(ids, id)
	}
	sort.Strings(ids) // deterministic registration order

	for _, id := range ids {
		p := file.Language[id]
		p.ID = id
		if err := r.Register(&p); err != nil {
			return err
		}
	}
	return nil
}

// LoadFromFile loads profile definitions from a TOML file.
func (r *Registry) LoadFromFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return r.LoadFromTOML(content)
}
