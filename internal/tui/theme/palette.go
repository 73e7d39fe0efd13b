package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Palette holds precomputed colors derived from a Theme.
type Palette struct {
	Bg          lipgloss.Color
	BgHighlight lipgloss.Color
	BgSelection lipgloss.Color
	Fg          lipgloss.Color
	FgMuted     lipgloss.Color
	Accent      lipgloss.Color
	Handle      lipgloss.Color
	Current     lipgloss.Color
	Warning     lipgloss.Color

	TextOnAccent  lipgloss.Color
	TextOnWarning lipgloss.Color

	// Ring is the faint outline drawn where the dial meets the background.
	Ring lipgloss.Color

	light    bool
	bg, fg   string
	selected string
}

// NewPalette derives a Palette from the provided Theme.
func NewPalette(t *Theme) *Palette {
	if t == nil {
		t, _ = Load(Default)
	}
	light := IsLight(t.Bg)

	return &Palette{
		Bg:          lipgloss.Color(t.Bg),
		BgHighlight: lipgloss.Color(t.BgHighlight),
		BgSelection: lipgloss.Color(t.BgSelection),
		Fg:          lipgloss.Color(t.Fg),
		FgMuted:     lipgloss.Color(t.FgMuted),
		Accent:      lipgloss.Color(t.Accent),
		Handle:      lipgloss.Color(t.Handle),
		Current:     lipgloss.Color(t.Current),
		Warning:     lipgloss.Color(t.Warning),

		TextOnAccent:  lipgloss.Color(ChooseText(t.Accent, t.Bg, t.Fg)),
		TextOnWarning: lipgloss.Color(ChooseText(t.Warning, t.Bg, t.Fg)),
		Ring:          lipgloss.Color(Blend(t.Bg, t.FgMuted, 0.35)),

		light:    light,
		bg:       t.Bg,
		fg:       t.Fg,
		selected: t.Accent,
	}
}

// Slot returns the background used for a slot on the dial. Pastel slot
// colors are muted on dark themes so labels stay readable.
func (p *Palette) Slot(hex string, selected bool) lipgloss.Color {
	c := hex
	if !p.light {
		c = Blend(hex, p.bg, 0.35)
	}
	if selected {
		c = Blend(c, p.selected, 0.25)
	}
	return lipgloss.Color(c)
}

// TextOn picks the theme foreground or background, whichever reads better on bg.
func (p *Palette) TextOn(bg lipgloss.Color) lipgloss.Color {
	return lipgloss.Color(ChooseText(string(bg), p.bg, p.fg))
}

// IsLight reports whether hex is a light color.
func IsLight(hex string) bool {
	c, err := colorful.Hex(hex)
	if err != nil {
		return false
	}
	l, _, _ := c.Lab()
	return l > 0.6
}

// Blend mixes a toward b by ratio in Lab space. Invalid input returns a.
func Blend(a, b string, ratio float64) string {
	ca, errA := colorful.Hex(a)
	cb, errB := colorful.Hex(b)
	if errA != nil || errB != nil {
		return a
	}
	ratio = min(max(ratio, 0), 1)
	return ca.BlendLab(cb, ratio).Clamped().Hex()
}

// ChooseText returns whichever of light and dark contrasts more with bg.
func ChooseText(bg, light, dark string) string {
	if contrast(bg, light) >= contrast(bg, dark) {
		return light
	}
	return dark
}

func contrast(a, b string) float64 {
	l1, l2 := luminance(a), luminance(b)
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

func luminance(hex string) float64 {
	c, err := colorful.Hex(hex)
	if err != nil {
		return 0
	}
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}
