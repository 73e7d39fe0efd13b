package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/dayring/internal/editor"
	"github.com/javiermolinar/dayring/internal/tui/commands"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.prompt.Width = max(10, m.width-6)
		m.layout()
		return m, nil

	case commands.ErrMsg:
		m.loading = false
		return m, m.setError("command", msg.Err)

	case commands.StatusMsgCmd:
		return m, m.setStatus(msg.Msg)

	case commands.ClearStatusMsg:
		if time.Now().After(m.statusTime) {
			m.statusMsg = ""
			m.err = nil
		}
		return m, nil

	case commands.ExportedMsg:
		return m, m.setStatus("Exported " + strings.Join(msg.Paths, ", "))

	case commands.SuggestionMsg:
		m.loading = false
		if err := m.editor.Replace(m.ctx, msg.Suggestion.Partition); err != nil {
			return m, m.setError("suggestion", friendlyError(err))
		}
		m.selected = 0
		status := fmt.Sprintf("Applied suggestion (%d slots, u to undo)", msg.Suggestion.Partition.Len())
		if len(msg.Suggestion.Warnings) > 0 {
			status += ": " + strings.Join(msg.Suggestion.Warnings, "; ")
		}
		return m, m.setStatus(status)
	}

	// Cursor blink and other textinput messages
	var cmd tea.Cmd
	switch m.mode {
	case ModeRename:
		m.rename, cmd = m.rename.Update(msg)
	case ModeSuggest:
		m.prompt, cmd = m.prompt.Update(msg)
	}
	return m, cmd
}

// handleMouseMsg maps pointer events onto the dial. A press on a boundary
// handle starts a drag, motion feeds it and release ends it. A press on an
// arc selects the slot and opens its label editor.
func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.dial.Empty() {
		return m, nil
	}
	x, y := m.dial.Point(msg.X, msg.Y)
	LogMouse(msg, x, y)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || m.mode != ModeNormal {
			return m, nil
		}
		kind, i := m.editor.PressAt(x, y)
		switch kind {
		case editor.PressBoundary:
			m.selected = i
		case editor.PressSlot:
			if idx, ok := m.focus.take(); ok {
				return m.startRename(idx), nil
			}
		}
		return m, nil

	case tea.MouseActionMotion:
		if _, dragging := m.editor.Dragging(); !dragging {
			return m, nil
		}
		if err := m.editor.DragTo(m.ctx, x, y); err != nil {
			return m, m.setError("drag", err)
		}
		return m, nil

	case tea.MouseActionRelease:
		if _, dragging := m.editor.Dragging(); dragging {
			m.editor.EndDrag()
		}
		return m, nil
	}
	return m, nil
}
