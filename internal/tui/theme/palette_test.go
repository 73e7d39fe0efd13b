package theme

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func testTheme(bg, fg string) *Theme {
	t := &Theme{
		Bg:          bg,
		BgHighlight: "#202020",
		BgSelection: "#303030",
		Fg:          fg,
		FgMuted:     "#aaaaaa",
		Accent:      "#ff0000",
		Warning:     "#ffff00",
	}
	t.applyDefaults()
	return t
}

func TestNewPalette_TextOnColors(t *testing.T) {
	p := NewPalette(testTheme("#101010", "#ffffff"))

	// Yellow is light, so the dark theme background reads better on it.
	if p.TextOnWarning != lipgloss.Color("#101010") {
		t.Errorf("TextOnWarning = %q, want %q", p.TextOnWarning, "#101010")
	}
	if p.Handle != p.Accent {
		t.Errorf("Handle = %q, want accent fallback %q", p.Handle, p.Accent)
	}
}

func TestPalette_SlotMutedOnDarkThemes(t *testing.T) {
	dark := NewPalette(testTheme("#101010", "#ffffff"))
	light := NewPalette(testTheme("#ffffff", "#101010"))

	if got := light.Slot("#ffe4e1", false); got != lipgloss.Color("#ffe4e1") {
		t.Errorf("light theme slot = %q, want the slot color unchanged", got)
	}
	if got := dark.Slot("#ffe4e1", false); got == lipgloss.Color("#ffe4e1") {
		t.Error("dark theme slot should be blended toward the background")
	}
	if dark.Slot("#ffe4e1", true) == dark.Slot("#ffe4e1", false) {
		t.Error("selected slot should differ from unselected")
	}
}

func TestPalette_TextOn(t *testing.T) {
	p := NewPalette(testTheme("#101010", "#ffffff"))
	tests := []struct {
		bg   string
		want string
	}{
		{"#000000", "#ffffff"},
		{"#ffffff", "#101010"},
		{"#ffe4e1", "#101010"},
	}
	for _, tc := range tests {
		t.Run(tc.bg, func(t *testing.T) {
			if got := p.TextOn(lipgloss.Color(tc.bg)); got != lipgloss.Color(tc.want) {
				t.Errorf("TextOn(%s) = %q, want %q", tc.bg, got, tc.want)
			}
		})
	}
}

func TestBlend(t *testing.T) {
	if got := Blend("#000000", "#ffffff", 0); got != "#000000" {
		t.Errorf("Blend ratio 0 = %q", got)
	}
	if got := Blend("#000000", "#ffffff", 1); got != "#ffffff" {
		t.Errorf("Blend ratio 1 = %q", got)
	}
	if got := Blend("bogus", "#ffffff", 0.5); got != "bogus" {
		t.Errorf("Blend with invalid input = %q, want input unchanged", got)
	}
}

func TestIsLight(t *testing.T) {
	tests := []struct {
		hex  string
		want bool
	}{
		{"#ffffff", true},
		{"#eff1f5", true},
		{"#1e1e2e", false},
		{"nope", false},
	}
	for _, tc := range tests {
		if got := IsLight(tc.hex); got != tc.want {
			t.Errorf("IsLight(%q) = %v, want %v", tc.hex, got, tc.want)
		}
	}
}
