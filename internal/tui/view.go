package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/dayring/internal/schedule"
	"github.com/javiermolinar/dayring/internal/tui/view"
)

const helpHint = "j/k select  [/] end  {/} start  a add  d del  r rename  u undo  ? help  q quit"

// View renders the dial next to the slot list.
func (m Model) View() string {
	return view.Render(view.ViewState{
		Width:            m.width,
		Height:           m.height,
		BaseContent:      m.renderAppContent(),
		OverlayContent:   m.renderHelp(),
		ShowOverlay:      m.mode == ModeHelp,
		OverlayBg:        m.palette.BgHighlight,
		EmptyPlaceholder: "Loading...",
	})
}

func (m Model) renderAppContent() string {
	if m.dial.Empty() || m.width < listMinW {
		return view.PlaceBox(m.width, m.height, lipgloss.Center, "Terminal too small", m.styles.colorBg)
	}

	bodyH := m.height - headerLines - footerLines
	header := m.placeLine(m.renderHeader())
	dial := view.PlaceBox(m.dial.Cols, bodyH, lipgloss.Center, renderCells(m.dial.rasterize(m.dialState(), m.palette)), m.styles.colorBg)
	list := m.renderList(m.width-m.dial.Cols, bodyH)
	body := lipgloss.JoinHorizontal(lipgloss.Top, dial, list)
	footer := m.renderFooter()

	content := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return view.PadLinesWithBackground(content, m.width, m.height, m.styles.colorBg)
}

func (m Model) dialState() dialState {
	dragging, ok := m.editor.Dragging()
	if !ok {
		dragging = -1
	}
	return dialState{
		partition: m.partition(),
		selected:  m.selected,
		dragging:  dragging,
		handles:   m.handlesVisible(),
	}
}

func (m Model) placeLine(s string) string {
	return view.PlaceBox(m.width, 1, lipgloss.Top, s, m.styles.colorBg)
}

func (m Model) renderHeader() string {
	p := m.partition()
	past, future := m.editor.HistoryDepth()
	info := fmt.Sprintf("  %d slots  undo %d  redo %d", p.Len(), past, future)
	if m.loading {
		info += "  thinking..."
	}
	return m.styles.TitleStyle.Render("dayring") + m.styles.MutedStyle.Render(info)
}

func (m Model) renderList(w, h int) string {
	p := m.partition()
	rows := make([]view.SlotRow, p.Len())
	for i, s := range p.Slots() {
		rows[i] = view.SlotRow{
			Range:    s.Start.String() + "-" + s.End.String(),
			Label:    s.Label,
			Duration: schedule.FormatDuration(s.Duration()),
			Swatch:   lipgloss.Color(s.Color),
			Selected: i == m.selected,
		}
	}
	return view.RenderSlotTable(view.SlotTableState{
		W:             w,
		H:             h,
		Rows:          rows,
		BorderStyle:   m.styles.ListStyle,
		RowStyle:      m.styles.RowStyle,
		SelectedStyle: m.styles.RowSelectedStyle,
		MutedStyle:    m.styles.TimeStyle,
		Bg:            m.styles.colorBg,
	})
}

func (m Model) renderFooter() string {
	status := m.statusMsg
	statusStyle := m.styles.StatusStyle
	if m.err != nil {
		statusStyle = m.styles.ErrorStyle
	}

	input := ""
	switch m.mode {
	case ModeRename:
		input = m.rename.View()
	case ModeSuggest:
		input = m.prompt.View()
	}

	return view.RenderFooter(view.FooterModel{
		InnerW:      m.width,
		InputLine:   input,
		StatusText:  status,
		HelpText:    helpHint,
		StatusStyle: statusStyle,
		HelpStyle:   m.styles.HelpStyle,
		Bg:          m.styles.colorBg,
	})
}

func (m Model) renderHelp() string {
	if m.mode != ModeHelp {
		return ""
	}
	keyW := 0
	for _, kv := range keyHelp {
		keyW = max(keyW, len(kv[0]))
	}
	var sb strings.Builder
	sb.WriteString(m.styles.HelpKeyStyle.Render("Keys"))
	for _, kv := range keyHelp {
		sb.WriteString("\n")
		sb.WriteString(m.styles.HelpKeyStyle.Render(fmt.Sprintf("%-*s", keyW, kv[0])))
		sb.WriteString("  " + kv[1])
	}
	return m.styles.HelpBoxStyle.Render(sb.String())
}
