package ui

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goccy/go-json"

	"github.com/javiermolinar/dayring/internal/config"
	"github.com/javiermolinar/dayring/internal/db"
	"github.com/javiermolinar/dayring/internal/llm"
	"github.com/javiermolinar/dayring/internal/preset"
	"github.com/javiermolinar/dayring/internal/schedule"
)

func init() {
	DisableColor()
}

type memStore struct {
	slots []schedule.Slot
	saves int
}

func (m *memStore) Load(context.Context) ([]schedule.Slot, error) {
	return append([]schedule.Slot(nil), m.slots...), nil
}

func (m *memStore) Save(_ context.Context, slots []schedule.Slot) error {
	m.slots = append([]schedule.Slot(nil), slots...)
	m.saves++
	return nil
}

func (m *memStore) Close() error { return nil }

const threeSlots = `
description = "Three blocks"

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
`

// fakeLLM answers every request with the same reply.
type fakeLLM struct {
	reply string
	err   error
	calls int
}

func (f *fakeLLM) Chat(context.Context, []llm.Message) (string, error) {
	f.calls++
	return f.reply, f.err
}

func (f *fakeLLM) ChatJSON(ctx context.Context, messages []llm.Message, result any) error {
	reply, err := f.Chat(ctx, messages)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(reply), result)
}

func newTestApp(t *testing.T, opts ...AppOption) (*App, *memStore) {
	t.Helper()
	cfg := config.Default()
	cfg.Schedule.DefaultTemplate = "three"
	cfg.Log.Level = "error"
	store := &memStore{}
	templates := preset.FromFS(fstest.MapFS{
		"t/three.toml": {Data: []byte(threeSlots)},
		"t/whole.toml": {Data: []byte("[[slots]]\nstart = \"00:00\"\nend = \"00:00\"\nlabel = \"Free\"\n")},
	}, "t")
	opts = append([]AppOption{WithStore(store), WithTemplates(templates)}, opts...)
	app := NewApp(cfg, opts...)
	t.Cleanup(func() { _ = app.Close() })
	return app, store
}

func run(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := app.ExecuteContext(context.Background(), args, &out)
	return out.String(), err
}

func TestShowPrintsSchedule(t *testing.T) {
	app, _ := newTestApp(t)
	out, err := run(t, app, "show")
	if err != nil {
		t.Fatalf("show error = %v", err)
	}
	for _, want := range []string{"22:00-06:00", "Morning", "13h", "3 slots, longest \"Day\" (13h)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestEditCommands(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr error
	}{
		{name: "retime", args: []string{"retime", "1", "10:00"}, want: "06:00-10:00"},
		{name: "start", args: []string{"start", "1", "05:30"}, want: "05:30-09:00"},
		{name: "insert", args: []string{"insert", "1"}, want: "4 slots"},
		{name: "delete", args: []string{"delete", "1"}, want: "2 slots"},
		{name: "rename", args: []string{"rename", "0", "Nap"}, want: "Nap"},
		{name: "color", args: []string{"color", "2", "#123456"}, want: "#123456"},
		{name: "retime collision", args: []string{"retime", "1", "23:00"}, wantErr: schedule.ErrInvalidRetime},
		{name: "index out of range", args: []string{"rename", "7", "x"}, wantErr: schedule.ErrIndexOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, store := newTestApp(t)
			out, err := run(t, app, tt.args...)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				// Opening a fresh store saves the default template once.
				if store.saves != 1 {
					t.Errorf("store saved %d times, want only the initial save", store.saves)
				}
				return
			}
			if err != nil {
				t.Fatalf("error = %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out)
			}
			if store.saves < 2 {
				t.Error("edit was not saved")
			}
		})
	}
}

func TestRenameTrimsInput(t *testing.T) {
	app, store := newTestApp(t)
	if _, err := run(t, app, "rename", "0", "  Nap  "); err != nil {
		t.Fatalf("rename error = %v", err)
	}
	if got := store.slots[0].Label; got != "Nap" {
		t.Errorf("stored label = %q, want %q", got, "Nap")
	}
}

func TestEditRejectsNonNumericIndex(t *testing.T) {
	app, _ := newTestApp(t)
	_, err := run(t, app, "delete", "first")
	if err == nil || !strings.Contains(err.Error(), "not a number") {
		t.Fatalf("error = %v", err)
	}
}

func TestTemplateCommands(t *testing.T) {
	app, _ := newTestApp(t)
	out, err := run(t, app, "template", "list")
	if err != nil {
		t.Fatalf("template list error = %v", err)
	}
	for _, want := range []string{"three (default)", "Three blocks", "whole"} {
		if !strings.Contains(out, want) {
			t.Errorf("list missing %q:\n%s", want, out)
		}
	}

	app, _ = newTestApp(t)
	out, err = run(t, app, "template", "load", "whole")
	if err != nil {
		t.Fatalf("template load error = %v", err)
	}
	if !strings.Contains(out, "1 slots") {
		t.Errorf("load output:\n%s", out)
	}

	app, _ = newTestApp(t)
	if _, err := run(t, app, "template", "load", "nope"); !errors.Is(err, schedule.ErrUnknownTemplate) {
		t.Errorf("unknown template error = %v", err)
	}
}

func TestExportWritesImages(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		file  string
		magic string
	}{
		{file: "ring.svg", magic: "<svg"},
		{file: "ring.png", magic: "\x89PNG"},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			app, _ := newTestApp(t)
			path := filepath.Join(dir, tt.file)
			out, err := run(t, app, "export", "-o", path, "--width", "100", "--height", "100")
			if err != nil {
				t.Fatalf("export error = %v", err)
			}
			if !strings.Contains(out, "Wrote") {
				t.Errorf("output = %q", out)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.HasPrefix(string(data), tt.magic) {
				t.Errorf("%s starts with %q", tt.file, data[:min(8, len(data))])
			}
		})
	}

	app, _ := newTestApp(t)
	if _, err := run(t, app, "export", "-o", filepath.Join(dir, "ring.gif")); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestSuggestPrintsAndApplies(t *testing.T) {
	reply := `{"slots": [{"start": "23:00", "end": "07:00", "label": "Sleep"}, {"start": "07:00", "end": "23:00", "label": "Awake"}], "warnings": ["short evening"]}`

	client := &fakeLLM{reply: reply}
	app, store := newTestApp(t, WithLLMClient(client))
	out, err := run(t, app, "suggest", "sleep", "more")
	if err != nil {
		t.Fatalf("suggest error = %v", err)
	}
	if !strings.Contains(out, "Awake") || !strings.Contains(out, "short evening") {
		t.Errorf("suggest output:\n%s", out)
	}
	if store.saves != 1 || len(store.slots) != 3 {
		t.Error("suggest without --apply changed the schedule")
	}

	app, store = newTestApp(t, WithLLMClient(&fakeLLM{reply: reply}))
	if _, err := run(t, app, "suggest", "--apply", "sleep more"); err != nil {
		t.Fatalf("suggest --apply error = %v", err)
	}
	if len(store.slots) != 2 || store.slots[1].Label != "Awake" {
		t.Errorf("stored slots = %+v", store.slots)
	}
}

func TestReviewPrintsFeedback(t *testing.T) {
	app, _ := newTestApp(t, WithLLMClient(&fakeLLM{reply: "  Plenty of sleep.  "}))
	out, err := run(t, app, "review")
	if err != nil {
		t.Fatalf("review error = %v", err)
	}
	if !strings.Contains(out, "Review\nPlenty of sleep.") {
		t.Errorf("review output:\n%s", out)
	}

	app, _ = newTestApp(t, WithLLMClient(&fakeLLM{err: errors.New("offline")}))
	if _, err := run(t, app, "review"); err == nil {
		t.Error("expected LLM error to surface")
	}
}

func TestShowPrintsSaveTimeForTimestampedStores(t *testing.T) {
	store, err := db.New(filepath.Join(t.TempDir(), "dayring.db"))
	if err != nil {
		t.Fatalf("db.New error = %v", err)
	}
	app, _ := newTestApp(t, WithStore(store))
	out, err := run(t, app, "show")
	if err != nil {
		t.Fatalf("show error = %v", err)
	}
	if !strings.Contains(out, "Saved ") {
		t.Errorf("show output has no save time:\n%s", out)
	}

	app, _ = newTestApp(t)
	out, _ = run(t, app, "show")
	if strings.Contains(out, "Saved ") {
		t.Errorf("memory store should not report a save time:\n%s", out)
	}
}

func TestTUIOptionsForwardInjectedClient(t *testing.T) {
	app, _ := newTestApp(t)
	ed, err := app.openEditor(context.Background())
	if err != nil {
		t.Fatalf("openEditor error = %v", err)
	}
	if got := len(app.tuiOptions(context.Background(), ed)); got != 2 {
		t.Errorf("options without client = %d, want 2", got)
	}

	app.llm = &fakeLLM{}
	if got := len(app.tuiOptions(context.Background(), ed)); got != 3 {
		t.Errorf("options with client = %d, want 3", got)
	}
}

func TestVersion(t *testing.T) {
	app, _ := newTestApp(t)
	out, err := run(t, app, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.Contains(out, Version) {
		t.Errorf("version output = %q", out)
	}
}
