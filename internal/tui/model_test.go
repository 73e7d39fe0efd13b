package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/javiermolinar/dayring/internal/config"
	"github.com/javiermolinar/dayring/internal/editor"
	"github.com/javiermolinar/dayring/internal/llm"
	"github.com/javiermolinar/dayring/internal/preset"
	"github.com/javiermolinar/dayring/internal/schedule"
	"github.com/javiermolinar/dayring/internal/tui/commands"
)

func init() {
	lipgloss.SetColorProfile(termenv.TrueColor)
}

type memStore struct {
	slots []schedule.Slot
}

func (m *memStore) Load(context.Context) ([]schedule.Slot, error) {
	return append([]schedule.Slot(nil), m.slots...), nil
}

func (m *memStore) Save(_ context.Context, slots []schedule.Slot) error {
	m.slots = append([]schedule.Slot(nil), slots...)
	return nil
}

func (m *memStore) Close() error { return nil }

func testTemplates() *preset.Provider {
	return preset.FromFS(fstest.MapFS{
		"t/three.toml": {Data: []byte(`
[[slots]]
start = "22:00"
end = "06:00"
label = "Sleep"

[[slots]]
start = "06:00"
end = "09:00"
label = "Morning"

[[slots]]
start = "09:00"
end = "22:00"
label = "Day"
`)},
		"t/two.toml": {Data: []byte(`
[[slots]]
start = "00:00"
end = "12:00"
label = "AM"

[[slots]]
start = "12:00"
end = "00:00"
label = "PM"
`)},
	}, "t")
}

func newTestModel(t *testing.T, template string, opts ...ModelOption) Model {
	t.Helper()
	ed, err := editor.Open(context.Background(), &memStore{}, testTemplates(), editor.WithDefaultTemplate(template))
	if err != nil {
		t.Fatalf("editor.Open() error = %v", err)
	}
	return New(ed, config.Default(), opts...)
}

// send feeds msgs through Update and returns the resulting model.
func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		if m, ok = next.(Model); !ok {
			t.Fatalf("Update returned %T", next)
		}
	}
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(s string) []tea.Msg {
	msgs := make([]tea.Msg, 0, len(s))
	for _, r := range s {
		msgs = append(msgs, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return msgs
}

func TestModeString(t *testing.T) {
	tests := []struct {
		mode Mode
		want string
	}{
		{ModeNormal, "normal"},
		{ModeRename, "rename"},
		{ModeSuggest, "suggest"},
		{ModeHelp, "help"},
		{Mode(42), "mode(42)"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("Mode(%d).String() = %q, want %q", int(tt.mode), got, tt.want)
		}
	}
}

func TestSelectionWraps(t *testing.T) {
	m := newTestModel(t, "three")
	m = send(t, m, key("k"))
	if m.Selected() != 2 {
		t.Fatalf("k from 0 selected %d, want 2", m.Selected())
	}
	m = send(t, m, key("j"), key("j"))
	if m.Selected() != 1 {
		t.Fatalf("selected %d, want 1", m.Selected())
	}
}

func TestRetimeKeysAndUndoRedo(t *testing.T) {
	m := newTestModel(t, "three")

	m = send(t, m, key("]"))
	if got := m.partition().Slot(0).End; got != 6.5 {
		t.Fatalf("end after ] = %v, want 6.5", got)
	}
	m = send(t, m, key("{"))
	if got := m.partition().Slot(0).Start; got != 21.5 {
		t.Fatalf("start after { = %v, want 21.5", got)
	}

	m = send(t, m, key("u"), key("u"))
	if got := m.partition().Slot(0); got.Start != 22 || got.End != 6 {
		t.Fatalf("after two undos slot 0 = %v-%v, want 22-6", got.Start, got.End)
	}
	m = send(t, m, key("u"))
	if m.statusMsg != "Nothing to undo" {
		t.Fatalf("status = %q", m.statusMsg)
	}
	m = send(t, m, key("ctrl+r"))
	if got := m.partition().Slot(0).End; got != 6.5 {
		t.Fatalf("end after redo = %v, want 6.5", got)
	}
}

func TestRetimeOutOfWindowReportsError(t *testing.T) {
	m := newTestModel(t, "three")
	m = send(t, m, key("j")) // Morning 06-09, window ends at 21:30
	for range 30 {
		m = send(t, m, key("]"))
	}
	if got := m.partition().Slot(1).End; got != 21.5 {
		t.Fatalf("end = %v, want clamp at 21.5", got)
	}
	if m.err == nil || !strings.Contains(m.statusMsg, "can't move there") {
		t.Fatalf("status = %q, err = %v", m.statusMsg, m.err)
	}
}

func TestInsertSelectsNewSlotAndDeleteClamps(t *testing.T) {
	m := newTestModel(t, "three")
	m = send(t, m, key("j"), key("a"))
	p := m.partition()
	if p.Len() != 4 {
		t.Fatalf("len after insert = %d, want 4", p.Len())
	}
	if m.Selected() != 2 || p.Slot(2).Start != 9 || p.Slot(3).Start != 15.5 {
		t.Fatalf("selected %d, slots %v", m.Selected(), p.Slots())
	}

	m = send(t, m, key("k"), key("k"), key("k"))
	m = send(t, m, key("d"))
	if m.partition().Len() != 3 || m.Selected() != 2 {
		t.Fatalf("after delete len %d selected %d", m.partition().Len(), m.Selected())
	}
}

func TestDeleteLastSlotShowsError(t *testing.T) {
	m := newTestModel(t, "two")
	m = send(t, m, key("d"))
	if m.partition().Len() != 1 {
		t.Fatalf("len = %d, want 1", m.partition().Len())
	}
	m = send(t, m, key("d"))
	if m.partition().Len() != 1 {
		t.Fatal("last slot was deleted")
	}
	if !strings.Contains(m.statusMsg, "last slot") {
		t.Fatalf("status = %q", m.statusMsg)
	}
}

func TestRenameFlow(t *testing.T) {
	m := newTestModel(t, "three")
	m = send(t, m, key("r"))
	if m.Mode() != ModeRename || m.rename.Value() != "Sleep" {
		t.Fatalf("mode %v value %q", m.Mode(), m.rename.Value())
	}
	m.rename.SetValue("")
	m = send(t, m, typeText("Rest")...)
	m = send(t, m, key("enter"))
	if m.Mode() != ModeNormal {
		t.Fatalf("mode = %v after enter", m.Mode())
	}
	if got := m.partition().Slot(0).Label; got != "Rest" {
		t.Fatalf("label = %q, want Rest", got)
	}

	m = send(t, m, key("r"), key("x"), key("esc"))
	if got := m.partition().Slot(0).Label; got != "Rest" {
		t.Fatalf("label after esc = %q, want Rest", got)
	}
}

func TestCycleColorAndTemplate(t *testing.T) {
	m := newTestModel(t, "three")
	before := m.partition().Slot(0).Color
	m = send(t, m, key("c"))
	if m.partition().Slot(0).Color == before {
		t.Fatal("color did not change")
	}

	m = send(t, m, key("t"))
	if !strings.HasPrefix(m.statusMsg, "Loaded template") {
		t.Fatalf("status = %q", m.statusMsg)
	}
	if m.editor.CanUndo() {
		t.Fatal("template load should reset history")
	}
}

func TestSuggestKeysCallSuggestFunc(t *testing.T) {
	var gotRequest string
	var gotLen int
	fake := func(request string, current schedule.Partition) tea.Cmd {
		gotRequest, gotLen = request, current.Len()
		return nil
	}
	m := newTestModel(t, "three", WithSuggest(fake))
	m = send(t, m, key("p"))
	if m.Mode() != ModeSuggest {
		t.Fatalf("mode = %v", m.Mode())
	}
	m = send(t, m, typeText("more sleep")...)
	m = send(t, m, key("enter"))
	if gotRequest != "more sleep" || gotLen != 3 {
		t.Fatalf("suggest got (%q, %d)", gotRequest, gotLen)
	}
	if !m.loading {
		t.Fatal("expected loading while the suggestion runs")
	}
}

func TestSuggestionMsgAppliesAndUndoes(t *testing.T) {
	m := newTestModel(t, "three")
	m.loading = true
	suggested := schedule.MustNew([]schedule.Slot{
		{Start: 0, End: 8, Label: "Sleep", Color: "#89b4fa"},
		{Start: 8, End: 0, Label: "Awake", Color: "#f38ba8"},
	})
	m = send(t, m, commands.SuggestionMsg{Suggestion: llm.Suggestion{Partition: suggested, Warnings: []string{"filled gap"}}})
	if m.loading {
		t.Fatal("loading not cleared")
	}
	if !m.partition().Equal(suggested) {
		t.Fatalf("partition not replaced: %v", m.partition().Slots())
	}
	if !strings.Contains(m.statusMsg, "filled gap") {
		t.Fatalf("status = %q", m.statusMsg)
	}
	m = send(t, m, key("u"))
	if m.partition().Len() != 3 {
		t.Fatalf("undo did not restore: len %d", m.partition().Len())
	}
}

func TestErrMsgClearsLoading(t *testing.T) {
	m := newTestModel(t, "three")
	m.loading = true
	m = send(t, m, commands.ErrMsg{Err: errors.New("offline")})
	if m.loading || m.err == nil {
		t.Fatalf("loading %v err %v", m.loading, m.err)
	}
}

func TestHelpOverlay(t *testing.T) {
	m := newTestModel(t, "three")
	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30}, key("?"))
	if m.Mode() != ModeHelp {
		t.Fatalf("mode = %v", m.Mode())
	}
	if out := ansi.Strip(m.View()); !strings.Contains(out, "undo / redo") {
		t.Fatalf("help not shown:\n%s", out)
	}
	m = send(t, m, key("x"))
	if m.Mode() != ModeNormal {
		t.Fatalf("mode = %v after closing help", m.Mode())
	}
}

func TestViewShowsDialAndList(t *testing.T) {
	m := newTestModel(t, "three")
	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	out := ansi.Strip(m.View())
	for _, want := range []string{"dayring", "3 slots", "22:00-06:00", "Morning", "13h", "00", "12"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if got := len(strings.Split(out, "\n")); got != 30 {
		t.Errorf("view height = %d, want 30", got)
	}
}

func TestViewTooSmall(t *testing.T) {
	m := newTestModel(t, "three")
	m = send(t, m, tea.WindowSizeMsg{Width: 30, Height: 8})
	if out := ansi.Strip(m.View()); !strings.Contains(out, "Terminal too small") {
		t.Fatalf("view = %q", out)
	}
	if out := newTestModel(t, "three").View(); out != "Loading..." {
		t.Fatalf("unsized view = %q", out)
	}
}
