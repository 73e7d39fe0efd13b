// Package tui provides the terminal user interface for dayring.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/dayring/internal/config"
	"github.com/javiermolinar/dayring/internal/drag"
	"github.com/javiermolinar/dayring/internal/editor"
	"github.com/javiermolinar/dayring/internal/export"
	"github.com/javiermolinar/dayring/internal/schedule"
	"github.com/javiermolinar/dayring/internal/tui/commands"
	"github.com/javiermolinar/dayring/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeRename      // Editing the selected slot's label
	ModeSuggest     // Typing a request for the LLM
	ModeHelp
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeRename:
		return "rename"
	case ModeSuggest:
		return "suggest"
	case ModeHelp:
		return "help"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

const (
	headerLines = 1
	footerLines = 2
	listMinW    = 28
	statusTTL   = 3 * time.Second
)

// focusRequest receives FocusSlot calls from the editor. It is a pointer
// so copies of the Model share it.
type focusRequest struct {
	index   int
	pending bool
}

// FocusSlot implements editor.Focuser.
func (f *focusRequest) FocusSlot(index int) {
	f.index = index
	f.pending = true
}

func (f *focusRequest) take() (int, bool) {
	if !f.pending {
		return 0, false
	}
	f.pending = false
	return f.index, true
}

// SuggestFunc starts an LLM suggestion for request.
type SuggestFunc func(request string, current schedule.Partition) tea.Cmd

// Model is the main TUI model.
type Model struct {
	ctx    context.Context
	editor *editor.Editor
	config *config.Config

	theme   *theme.Theme
	palette *theme.Palette
	styles  *Styles

	mode     Mode
	selected int
	focus    *focusRequest
	loading  bool

	rename textinput.Model
	prompt textinput.Model

	templateIdx int

	suggest   SuggestFunc
	exportDir string
	exportOpt export.Options

	width  int
	height int
	dial   Dial

	statusMsg  string
	statusTime time.Time
	err        error
}

// ModelOption configures optional model behavior.
type ModelOption func(*Model)

// WithExportDir sets where `e` writes exports.
func WithExportDir(dir string) ModelOption {
	return func(m *Model) { m.exportDir = dir }
}

// WithSuggest replaces the LLM suggestion command.
func WithSuggest(fn SuggestFunc) ModelOption {
	return func(m *Model) { m.suggest = fn }
}

// WithContext sets the context passed to editor operations.
func WithContext(ctx context.Context) ModelOption {
	return func(m *Model) { m.ctx = ctx }
}

// New creates a new TUI model around ed.
func New(ed *editor.Editor, cfg *config.Config, opts ...ModelOption) Model {
	if cfg == nil {
		cfg = config.Default()
	}

	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		t, _ = theme.Load(theme.Default)
	}
	pal := theme.NewPalette(t)
	styles := NewStyles(pal)

	rename := textinput.New()
	rename.Placeholder = "Label"
	rename.CharLimit = 40
	rename.Width = 24
	rename.PromptStyle = styles.PromptStyle
	rename.TextStyle = styles.InputTextStyle

	prompt := textinput.New()
	prompt.Placeholder = "e.g. sleep 23-7, gym before work"
	prompt.CharLimit = 256
	prompt.PromptStyle = styles.PromptStyle
	prompt.TextStyle = styles.InputTextStyle

	m := Model{
		ctx:       context.Background(),
		editor:    ed,
		config:    cfg,
		theme:     t,
		palette:   pal,
		styles:    styles,
		mode:      ModeNormal,
		focus:     &focusRequest{},
		rename:    rename,
		prompt:    prompt,
		exportDir: ".",
		exportOpt: export.FromConfig(cfg.Export),
	}
	m.suggest = func(request string, current schedule.Partition) tea.Cmd {
		return commands.Suggest(cfg.LLM, ed.Model(), request, current)
	}
	for _, opt := range opts {
		opt(&m)
	}
	ed.SetFocuser(m.focus)
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Selected returns the selected slot index.
func (m Model) Selected() int {
	return m.selected
}

// Mode returns the current interaction mode.
func (m Model) Mode() Mode {
	return m.mode
}

func (m Model) partition() schedule.Partition {
	return m.editor.Partition()
}

// clampSelection keeps the selection on an existing slot.
func (m *Model) clampSelection() {
	n := m.partition().Len()
	switch {
	case n == 0:
		m.selected = 0
	case m.selected >= n:
		m.selected = n - 1
	case m.selected < 0:
		m.selected = 0
	}
}

func (m *Model) setMode(mode Mode, reason string) {
	LogModeChange(m.mode, mode, reason)
	m.mode = mode
}

// layout recomputes the dial placement for the current terminal size and
// hands the matching ring to the editor so pointer hits line up.
func (m *Model) layout() {
	bodyH := m.height - headerLines - footerLines
	dialW := m.width - listMinW
	m.dial = fitDial(0, headerLines, dialW, bodyH)
	if !m.dial.Empty() {
		m.editor.SetRing(m.dial.Ring())
	}
}

func (m Model) handlesVisible() bool {
	return drag.Available(m.partition())
}

func (m *Model) setStatus(msg string) tea.Cmd {
	m.statusMsg = msg
	m.statusTime = time.Now().Add(statusTTL)
	return commands.ClearStatusAfter(statusTTL)
}

func (m *Model) setError(context string, err error) tea.Cmd {
	LogError(context, err)
	m.err = err
	return m.setStatus(fmt.Sprintf("Error: %v", err))
}

// Run starts the TUI.
func Run(ed *editor.Editor, cfg *config.Config, debug bool, opts ...ModelOption) error {
	logger, closeLog, err := InitDebugLogger(debug)
	if err != nil {
		return err
	}
	defer closeLog()
	if debug {
		ed.SetLogger(logger)
	}

	p := tea.NewProgram(New(ed, cfg, opts...), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}
