// Package theme loads the TUI color schemes.
package theme

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml/v2"
)

//go:embed embedded/*.toml
var embeddedThemes embed.FS

// Default is the theme used when none is configured.
const Default = "mocha"

// Theme is one scheme as stored on disk. Colors are "#rrggbb".
type Theme struct {
	Name        string `toml:"name"`
	Bg          string `toml:"bg"`           // base background
	BgHighlight string `toml:"bg_highlight"` // panels, slot list rows
	BgSelection string `toml:"bg_selection"` // selected row
	Fg          string `toml:"fg"`
	FgMuted     string `toml:"fg_muted"` // hour labels, help text
	Accent      string `toml:"accent"`   // title, borders
	Handle      string `toml:"handle"`   // boundary handles on the dial
	Current     string `toml:"current"`  // boundary being dragged
	Warning     string `toml:"warning"`
}

// Load reads a theme by name. Unknown names fall back to Default; a theme
// with a malformed color is an error.
func Load(name string) (*Theme, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if !IsAvailable(name) {
		name = Default
	}

	data, err := embeddedThemes.ReadFile(path.Join("embedded", name+".toml"))
	if err != nil {
		return nil, fmt.Errorf("loading theme %q: %w", name, err)
	}
	var t Theme
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing theme %q: %w", name, err)
	}
	if t.Name == "" {
		t.Name = name
	}
	t.applyDefaults()
	if err := t.validate(); err != nil {
		return nil, fmt.Errorf("theme %q: %w", name, err)
	}
	return &t, nil
}

func (t *Theme) applyDefaults() {
	t.Handle = coalesce(t.Handle, t.Accent)
	t.Current = coalesce(t.Current, t.Accent)
	t.Warning = coalesce(t.Warning, t.Accent)
	t.BgHighlight = coalesce(t.BgHighlight, t.Bg)
	t.BgSelection = coalesce(t.BgSelection, t.BgHighlight)
	t.FgMuted = coalesce(t.FgMuted, t.Fg)
}

func (t *Theme) validate() error {
	for field, hex := range map[string]string{
		"bg": t.Bg, "bg_highlight": t.BgHighlight, "bg_selection": t.BgSelection,
		"fg": t.Fg, "fg_muted": t.FgMuted, "accent": t.Accent,
		"handle": t.Handle, "current": t.Current, "warning": t.Warning,
	} {
		if _, err := colorful.Hex(hex); err != nil {
			return fmt.Errorf("%s: invalid color %q", field, hex)
		}
	}
	return nil
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Available lists the embedded themes, Default first.
func Available() []string {
	files, _ := fs.Glob(embeddedThemes, "embedded/*.toml")
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, strings.TrimSuffix(path.Base(f), ".toml"))
	}
	slices.SortFunc(names, func(a, b string) int {
		switch {
		case a == Default:
			return -1
		case b == Default:
			return 1
		}
		return strings.Compare(a, b)
	})
	return names
}

// IsAvailable reports whether name is an embedded theme, ignoring case.
func IsAvailable(name string) bool {
	return slices.Contains(Available(), strings.ToLower(name))
}
