package view

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"
)

// SlotRow is one line of the slot list.
type SlotRow struct {
	Range    string // "07:00-09:00"
	Label    string
	Duration string
	Swatch   lipgloss.Color
	Selected bool
}

// SlotTableState holds data needed to render the slot list.
type SlotTableState struct {
	W, H          int
	Rows          []SlotRow
	BorderStyle   lipgloss.Style
	RowStyle      lipgloss.Style
	SelectedStyle lipgloss.Style
	MutedStyle    lipgloss.Style
	Bg            lipgloss.Color
}

const (
	colSwatch = iota
	colRange
	colLabel
	colDuration
)

// RenderSlotTable renders the slot list as a borderless-column lipgloss table.
func RenderSlotTable(state SlotTableState) string {
	if state.W <= 0 || state.H <= 0 {
		return ""
	}

	// border (2) + swatch (1) + range (11) + duration (6) + separators
	labelW := max(4, state.W-26)
	rows := make([][]string, len(state.Rows))
	for i, r := range state.Rows {
		rows[i] = []string{"█", r.Range, ansi.Truncate(r.Label, labelW, "…"), r.Duration}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderColumn(false).
		BorderHeader(false).
		BorderRow(false).
		BorderStyle(state.BorderStyle).
		Width(state.W).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row < 0 || row >= len(state.Rows) {
				return state.RowStyle
			}
			r := state.Rows[row]
			style := state.RowStyle
			if r.Selected {
				style = state.SelectedStyle
			}
			switch col {
			case colSwatch:
				return style.Foreground(r.Swatch).PaddingRight(1)
			case colRange, colDuration:
				if !r.Selected {
					style = state.MutedStyle
				}
				return style.PaddingRight(1)
			}
			return style.PaddingRight(1)
		})

	return PlaceBox(state.W, state.H, lipgloss.Top, t.Render(), state.Bg)
}
