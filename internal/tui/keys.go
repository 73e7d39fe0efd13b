package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/dayring/internal/editor"
	"github.com/javiermolinar/dayring/internal/schedule"
	"github.com/javiermolinar/dayring/internal/tui/commands"
)

// keyHelp is the help overlay content, in display order.
var keyHelp = [][2]string{
	{"j / k", "select next / previous slot"},
	{"] / [", "move end 30m later / earlier"},
	{"} / {", "move start 30m later / earlier"},
	{"a", "insert a slot after the selection"},
	{"d", "delete the selected slot"},
	{"r", "rename the selected slot"},
	{"c", "cycle the slot color"},
	{"u / ctrl+r", "undo / redo"},
	{"t", "load the next template"},
	{"e", "export SVG and PNG"},
	{"y", "copy SVG to the clipboard"},
	{"p", "ask the LLM for a schedule"},
	{"mouse", "drag a handle, click a slot to rename"},
	{"?", "toggle help"},
	{"q", "quit"},
}

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	LogKeyPress(msg, m.mode)

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.mode {
	case ModeRename:
		return m.handleRenameKeys(msg)
	case ModeSuggest:
		return m.handleSuggestKeys(msg)
	case ModeHelp:
		m.setMode(ModeNormal, "help closed")
		return m, nil
	default:
		return m.handleNormalKeys(msg)
	}
}

// handleNormalKeys handles keys in normal mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.partition()
	n := p.Len()

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "j", "down":
		if n > 0 {
			m.selected = (m.selected + 1) % n
		}
	case "k", "up":
		if n > 0 {
			m.selected = (m.selected - 1 + n) % n
		}

	case "]":
		return m.edit("retime", func() error {
			return m.editor.Retime(m.ctx, m.selected, p.Slot(m.selected).End+schedule.Step)
		})
	case "[":
		return m.edit("retime", func() error {
			return m.editor.Retime(m.ctx, m.selected, p.Slot(m.selected).End-schedule.Step)
		})
	case "}":
		return m.edit("move start", func() error {
			return m.editor.MoveStart(m.ctx, m.selected, p.Slot(m.selected).Start+schedule.Step)
		})
	case "{":
		return m.edit("move start", func() error {
			return m.editor.MoveStart(m.ctx, m.selected, p.Slot(m.selected).Start-schedule.Step)
		})

	case "a":
		model, cmd := m.edit("insert", func() error {
			return m.editor.Insert(m.ctx, m.selected)
		})
		if mm, ok := model.(Model); ok && mm.err == nil {
			mm.selected++
			mm.clampSelection()
			return mm, cmd
		}
		return model, cmd
	case "d":
		model, cmd := m.edit("delete", func() error {
			return m.editor.Delete(m.ctx, m.selected)
		})
		if mm, ok := model.(Model); ok {
			mm.clampSelection()
			return mm, cmd
		}
		return model, cmd
	case "c":
		return m.edit("cycle color", func() error {
			return m.editor.CycleColor(m.ctx, m.selected)
		})

	case "r":
		return m.startRename(m.selected), textinput.Blink

	case "u":
		return m.history("undo", m.editor.Undo)
	case "ctrl+r":
		return m.history("redo", m.editor.Redo)

	case "t":
		return m.nextTemplate()

	case "e":
		return m, commands.Export(p, m.exportDir, m.exportOpt)
	case "y":
		return m, commands.CopySVG(p, m.exportOpt)

	case "p":
		m.prompt.SetValue("")
		m.prompt.Focus()
		m.setMode(ModeSuggest, "suggest key")
		return m, textinput.Blink

	case "?":
		m.setMode(ModeHelp, "help key")
	}
	return m, nil
}

// edit runs one editor operation and reports rejections in the status line.
func (m Model) edit(op string, fn func() error) (tea.Model, tea.Cmd) {
	m.err = nil
	if err := fn(); err != nil {
		return m, m.setError(op, friendlyError(err))
	}
	m.clampSelection()
	return m, nil
}

func (m Model) history(op string, fn func(ctx context.Context) (bool, error)) (tea.Model, tea.Cmd) {
	changed, err := fn(m.ctx)
	if err != nil {
		return m, m.setError(op, friendlyError(err))
	}
	m.clampSelection()
	if !changed {
		return m, m.setStatus("Nothing to " + op)
	}
	return m, nil
}

func (m Model) nextTemplate() (tea.Model, tea.Cmd) {
	names := m.editor.Templates()
	if len(names) == 0 {
		return m, m.setStatus("No templates available")
	}
	m.templateIdx = (m.templateIdx + 1) % len(names)
	name := names[m.templateIdx]
	if err := m.editor.LoadTemplate(m.ctx, name); err != nil {
		return m, m.setError("template", friendlyError(err))
	}
	m.selected = 0
	return m, m.setStatus(fmt.Sprintf("Loaded template %q", name))
}

func (m Model) startRename(index int) Model {
	p := m.partition()
	if index < 0 || index >= p.Len() {
		return m
	}
	m.selected = index
	m.rename.SetValue(p.Slot(index).Label)
	m.rename.CursorEnd()
	m.rename.Focus()
	m.setMode(ModeRename, "rename")
	return m
}

func (m Model) handleRenameKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.rename.Blur()
		m.setMode(ModeNormal, "rename canceled")
		return m, nil
	case "enter":
		label := strings.TrimSpace(m.rename.Value())
		m.rename.Blur()
		m.setMode(ModeNormal, "rename submitted")
		return m.edit("rename", func() error {
			return m.editor.Rename(m.ctx, m.selected, label)
		})
	}
	var cmd tea.Cmd
	m.rename, cmd = m.rename.Update(msg)
	return m, cmd
}

func (m Model) handleSuggestKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.prompt.Blur()
		m.setMode(ModeNormal, "suggest canceled")
		return m, nil
	case "enter":
		request := strings.TrimSpace(m.prompt.Value())
		m.prompt.Blur()
		m.setMode(ModeNormal, "suggest submitted")
		if request == "" {
			return m, nil
		}
		m.loading = true
		m.statusMsg = "Asking the LLM..."
		return m, m.suggest(request, m.partition())
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

// friendlyError rewords the model's rejections for the status line.
func friendlyError(err error) error {
	switch {
	case errors.Is(err, schedule.ErrInvalidRetime):
		return errors.New("boundary can't move there")
	case errors.Is(err, schedule.ErrNoRoomToInsert):
		return errors.New("no room to insert a slot here")
	case errors.Is(err, schedule.ErrLastSlotUndeletable):
		return errors.New("the last slot can't be deleted")
	case errors.Is(err, editor.ErrDragInProgress):
		return errors.New("finish dragging first")
	}
	return err
}
