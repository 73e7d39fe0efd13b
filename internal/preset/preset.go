// Package preset provides the named starter schedules.
package preset

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/javiermolinar/dayring/internal/palette"
	"github.com/javiermolinar/dayring/internal/schedule"
	"github.com/pelletier/go-toml/v2"
)

//go:embed presets/*.toml
var embedded embed.FS

// Default is the template used when nothing has been saved yet.
const Default = "classic"

// Preset is a named starter schedule as stored on disk. Times are "HH:MM".
type Preset struct {
	Name        string       `toml:"name"`
	Description string       `toml:"description"`
	Slots       []presetSlot `toml:"slots"`
}

type presetSlot struct {
	Start string `toml:"start"`
	End   string `toml:"end"`
	Label string `toml:"label"`
	Color string `toml:"color"`
}

// Provider serves presets from an fs.FS holding *.toml files.
type Provider struct {
	fsys fs.FS
	dir  string
	// fallback answers for names this provider does not have.
	fallback *Provider
}

// Embedded returns the provider for the built-in presets.
func Embedded() *Provider {
	return &Provider{fsys: embedded, dir: "presets"}
}

// FromFS returns a provider reading *.toml files in dir of fsys.
func FromFS(fsys fs.FS, dir string) *Provider {
	return &Provider{fsys: fsys, dir: dir}
}

// Open returns the built-in presets overlaid by the *.toml files in dir.
// Files in dir win over built-ins of the same name. An empty dir means
// built-ins only.
func Open(dir string) *Provider {
	if dir == "" {
		return Embedded()
	}
	return &Provider{fsys: os.DirFS(dir), dir: ".", fallback: Embedded()}
}

// Names returns the available preset names in alphabetical order.
func (p *Provider) Names() []string {
	seen := make(map[string]bool)
	if p.fallback != nil {
		for _, n := range p.fallback.Names() {
			seen[n] = true
		}
	}
	if entries, err := fs.ReadDir(p.fsys, p.dir); err == nil {
		for _, e := range entries {
			if e.IsDir() || path.Ext(e.Name()) != ".toml" {
				continue
			}
			seen[strings.TrimSuffix(e.Name(), ".toml")] = true
		}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Load reads and parses the named preset.
func (p *Provider) Load(name string) (*Preset, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || strings.ContainsAny(name, `/\.`) {
		return nil, fmt.Errorf("%w: %q", schedule.ErrUnknownTemplate, name)
	}
	data, err := fs.ReadFile(p.fsys, path.Join(p.dir, name+".toml"))
	if errors.Is(err, fs.ErrNotExist) {
		if p.fallback != nil {
			return p.fallback.Load(name)
		}
		return nil, fmt.Errorf("%w: %q", schedule.ErrUnknownTemplate, name)
	}
	if err != nil {
		return nil, fmt.Errorf("reading preset %q: %w", name, err)
	}

	var pr Preset
	if err := toml.Unmarshal(data, &pr); err != nil {
		return nil, fmt.Errorf("parsing preset %q: %w", name, err)
	}
	if pr.Name == "" {
		pr.Name = name
	}
	return &pr, nil
}

// Template implements schedule.TemplateProvider.
func (p *Provider) Template(name string) ([]schedule.Slot, error) {
	pr, err := p.Load(name)
	if err != nil {
		return nil, err
	}
	return pr.Schedule()
}

// Schedule converts the stored slots into schedule slots.
func (pr *Preset) Schedule() ([]schedule.Slot, error) {
	out := make([]schedule.Slot, len(pr.Slots))
	for i, s := range pr.Slots {
		start, err := schedule.ParseTime(s.Start)
		if err != nil {
			return nil, fmt.Errorf("preset %q slot %d: %w", pr.Name, i, err)
		}
		end, err := schedule.ParseTime(s.End)
		if err != nil {
			return nil, fmt.Errorf("preset %q slot %d: %w", pr.Name, i, err)
		}
		var color palette.Color
		if s.Color != "" {
			if color, err = palette.Parse(s.Color); err != nil {
				return nil, fmt.Errorf("preset %q slot %d: %w", pr.Name, i, err)
			}
		}
		out[i] = schedule.Slot{Start: start, End: end, Label: s.Label, Color: color}
	}
	return out, nil
}

// IsAvailable reports whether a preset with that name exists.
func (p *Provider) IsAvailable(name string) bool {
	name = strings.ToLower(name)
	for _, n := range p.Names() {
		if n == name {
			return true
		}
	}
	return false
}
