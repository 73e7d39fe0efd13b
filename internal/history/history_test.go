package history

import (
	"testing"

	"github.com/javiermolinar/dayring/internal/schedule"
)

func partitions(t *testing.T) (a, b, c schedule.Partition) {
	t.Helper()
	m := schedule.NewModel(nil)
	a = schedule.MustNew([]schedule.Slot{
		{Start: 22, End: 6, Label: "Sleep"},
		{Start: 6, End: 22, Label: "Day"},
	})
	b, err := m.InsertBetween(a, 0)
	if err != nil {
		t.Fatalf("InsertBetween() error = %v", err)
	}
	c, err = m.Rename(b, 1, "Morning")
	if err != nil {
		t.Fatalf("Rename() error = %v", err)
	}
	return a, b, c
}

func TestManagerNew(t *testing.T) {
	h := New()
	if h.CanUndo() || h.CanRedo() {
		t.Error("new history should have nothing to undo or redo")
	}
	a, _, _ := partitions(t)
	got, ok := h.Undo(a)
	if ok {
		t.Error("Undo() on empty history should report no-op")
	}
	if !got.Equal(a) {
		t.Error("no-op Undo() should return the current partition")
	}
	if _, ok := h.Redo(a); ok {
		t.Error("Redo() on empty history should report no-op")
	}
}

func TestManagerUndoRedoSymmetry(t *testing.T) {
	a, b, _ := partitions(t)
	h := New()

	// apply: a -> b
	h.Record(a)
	live := b

	live, ok := h.Undo(live)
	if !ok || !live.Equal(a) {
		t.Fatal("undo(apply(m, P)) should equal P")
	}
	live, ok = h.Redo(live)
	if !ok || !live.Equal(b) {
		t.Fatal("redo(undo(apply(m, P))) should equal apply(m, P)")
	}
	if past, future := h.Depth(); past != 1 || future != 0 {
		t.Errorf("Depth() = (%d, %d), want (1, 0)", past, future)
	}
}

func TestManagerRecordClearsFuture(t *testing.T) {
	a, b, c := partitions(t)
	h := New()

	h.Record(a)
	live, _ := h.Undo(b)
	if !h.CanRedo() {
		t.Fatal("undo should make redo available")
	}

	h.Record(live)
	if h.CanRedo() {
		t.Error("a new mutation after undo should invalidate redo")
	}
	if past, _ := h.Depth(); past != 1 {
		t.Errorf("past depth = %d, want 1", past)
	}
	if got, _ := h.Undo(c); !got.Equal(a) {
		t.Error("undo after the new mutation should return the partition it replaced")
	}
}

func TestManagerMultipleSteps(t *testing.T) {
	a, b, c := partitions(t)
	h := New()
	h.Record(a)
	h.Record(b)
	live := c

	var ok bool
	live, ok = h.Undo(live)
	if !ok || !live.Equal(b) {
		t.Fatal("first undo should return b")
	}
	live, ok = h.Undo(live)
	if !ok || !live.Equal(a) {
		t.Fatal("second undo should return a")
	}
	if _, ok := h.Undo(live); ok {
		t.Fatal("third undo should be a no-op")
	}
	live, _ = h.Redo(live)
	live, _ = h.Redo(live)
	if !live.Equal(c) {
		t.Error("two redos should return c")
	}
}

func TestManagerReset(t *testing.T) {
	a, b, _ := partitions(t)
	h := New()
	h.Record(a)
	h.Undo(b)
	h.Reset()
	if past, future := h.Depth(); past != 0 || future != 0 {
		t.Errorf("Depth() after Reset = (%d, %d), want (0, 0)", past, future)
	}
}
