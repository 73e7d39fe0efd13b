package view

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// FooterModel contains content and styles for rendering the footer.
type FooterModel struct {
	InnerW int
	// InputLine replaces the help line while a text input is active.
	InputLine   string
	StatusText  string
	HelpText    string
	StatusStyle lipgloss.Style
	HelpStyle   lipgloss.Style
	Bg          lipgloss.Color
}

// RenderFooter renders the status line above the help or input line.
func RenderFooter(model FooterModel) string {
	status := footerLine(model.InnerW, model.StatusStyle, model.StatusText)
	second := footerLine(model.InnerW, model.HelpStyle, model.HelpText)
	if model.InputLine != "" {
		second = model.InputLine
	}
	return PlaceBox(model.InnerW, 2, lipgloss.Bottom, status+"\n"+second, model.Bg)
}

func footerLine(width int, style lipgloss.Style, content string) string {
	frameW, _ := style.GetFrameSize()
	contentWidth := max(0, width-frameW)
	style = style.Width(contentWidth)
	if contentWidth > 0 {
		content = ansi.Truncate(content, contentWidth, "")
	}
	return style.Render(content)
}
