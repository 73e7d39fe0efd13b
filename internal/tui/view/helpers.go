package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// PlaceBox places content in a w x h block filled with bg.
func PlaceBox(w, h int, vAlign lipgloss.Position, content string, bg lipgloss.Color) string {
	placed := lipgloss.Place(w, h, lipgloss.Left, vAlign, content,
		lipgloss.WithWhitespaceBackground(bg))
	return PadLinesWithBackground(placed, w, h, bg)
}

// PadLinesWithBackground makes content exactly width x height: short lines
// are filled with bg, long ones cut, missing lines added.
func PadLinesWithBackground(content string, width, height int, bg lipgloss.Color) string {
	if width <= 0 || height <= 0 {
		return content
	}
	fill := lipgloss.NewStyle().Background(bg)
	src := strings.Split(content, "\n")
	out := make([]string, height)
	for i := range out {
		var line string
		if i < len(src) {
			line = ansi.Truncate(src[i], width, "")
		}
		if gap := width - ansi.StringWidth(line); gap > 0 {
			line += fill.Render(strings.Repeat(" ", gap))
		}
		out[i] = line
	}
	return strings.Join(out, "\n")
}

// RenderOverlay centers box over base, keeping the base visible on
// either side of it.
func RenderOverlay(base, box string, width, height int, bg lipgloss.Color) string {
	boxLines := strings.Split(box, "\n")
	boxW := 0
	for _, line := range boxLines {
		boxW = max(boxW, lipgloss.Width(line))
	}
	if boxW == 0 {
		return base
	}
	boxW = min(boxW, width)

	top := max(0, (height-len(boxLines))/2)
	left := max(0, (width-boxW)/2)
	pad := lipgloss.NewStyle().Background(bg)

	for i, line := range boxLines {
		w := lipgloss.Width(line)
		if w > boxW {
			line = ansi.Cut(line, 0, boxW)
		} else if w < boxW {
			line += pad.Render(strings.Repeat(" ", boxW-w))
		}
		boxLines[i] = applyBackgroundResets(line, bg) + ansi.ResetStyle
	}

	out := strings.Split(PadLinesWithBackground(base, width, height, lipgloss.Color("")), "\n")
	for i, line := range boxLines {
		row := top + i
		if row >= len(out) {
			break
		}
		out[row] = ansi.Cut(out[row], 0, left) + line + ansi.Cut(out[row], left+boxW, width)
	}
	return strings.Join(out, "\n")
}

// applyBackgroundResets reapplies the overlay background after ANSI resets.
func applyBackgroundResets(line string, bg lipgloss.Color) string {
	bgSeq := backgroundSeq(bg)
	if bgSeq == "" {
		return line
	}
	line = strings.ReplaceAll(line, ansi.ResetStyle, ansi.ResetStyle+bgSeq)
	line = strings.ReplaceAll(line, "\x1b[0m", "\x1b[0m"+bgSeq)
	line = strings.ReplaceAll(line, "\x1b[49m", "\x1b[49m"+bgSeq)
	return line
}

// backgroundSeq returns the escape sequence for bg, or "" when unset.
func backgroundSeq(bg lipgloss.Color) string {
	if bg == "" {
		return ""
	}
	return ansi.Style{}.BackgroundColor(ansi.HexColor(string(bg))).String()
}
