package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/dayring/internal/tui/theme"
)

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	colorBg lipgloss.Color

	TitleStyle  lipgloss.Style
	HeaderStyle lipgloss.Style
	MutedStyle  lipgloss.Style

	// Slot list
	ListStyle        lipgloss.Style
	RowStyle         lipgloss.Style
	RowSelectedStyle lipgloss.Style
	TimeStyle        lipgloss.Style

	// Footer
	StatusStyle    lipgloss.Style
	ErrorStyle     lipgloss.Style
	HelpStyle      lipgloss.Style
	PromptStyle    lipgloss.Style
	InputTextStyle lipgloss.Style

	// Help overlay
	HelpBoxStyle lipgloss.Style
	HelpKeyStyle lipgloss.Style
}

// NewStyles creates styles from a palette.
func NewStyles(p *theme.Palette) *Styles {
	base := lipgloss.NewStyle().Background(p.Bg).Foreground(p.Fg)

	return &Styles{
		colorBg: p.Bg,

		TitleStyle:  base.Foreground(p.Accent).Bold(true),
		HeaderStyle: base,
		MutedStyle:  base.Foreground(p.FgMuted),

		ListStyle: base.
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(p.Accent).
			BorderBackground(p.Bg).
			Padding(0, 1),
		RowStyle:         base,
		RowSelectedStyle: lipgloss.NewStyle().Background(p.BgSelection).Foreground(p.Fg).Bold(true),
		TimeStyle:        base.Foreground(p.FgMuted),

		StatusStyle:    base.Foreground(p.Accent),
		ErrorStyle:     lipgloss.NewStyle().Background(p.Warning).Foreground(p.TextOnWarning).Padding(0, 1),
		HelpStyle:      base.Foreground(p.FgMuted),
		PromptStyle:    base.Foreground(p.Accent),
		InputTextStyle: base,

		HelpBoxStyle: lipgloss.NewStyle().
			Background(p.BgHighlight).
			Foreground(p.Fg).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(p.Accent).
			Padding(1, 2),
		HelpKeyStyle: lipgloss.NewStyle().Background(p.BgHighlight).Foreground(p.Accent).Bold(true),
	}
}
