// Package editor is the composition root of the schedule editor. It owns the
// live partition and threads every input through the model, the undo history
// and the drag controller, then hands the result to the store.
//
// An Editor is not safe for concurrent use; callers serialize access.
package editor

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/javiermolinar/dayring/internal/db"
	"github.com/javiermolinar/dayring/internal/drag"
	"github.com/javiermolinar/dayring/internal/history"
	"github.com/javiermolinar/dayring/internal/preset"
	"github.com/javiermolinar/dayring/internal/ring"
	"github.com/javiermolinar/dayring/internal/schedule"
)

// ErrDragInProgress is returned by discrete edits while a drag gesture is live.
var ErrDragInProgress = errors.New("finish the drag gesture first")

// BoundaryTolerance is how close, in hours, a press must land to a boundary
// to start dragging it.
const BoundaryTolerance schedule.Time = 0.4

// Focuser is the UI capability to focus the label editor of a slot.
type Focuser interface {
	FocusSlot(index int)
}

// Templates supplies named starter partitions.
type Templates interface {
	schedule.TemplateProvider
	Names() []string
}

// Option configures an Editor.
type Option func(*Editor)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(e *Editor) { e.logger = l }
}

// WithFocuser sets the focus capability used when an arc is pressed.
func WithFocuser(f Focuser) Option {
	return func(e *Editor) { e.focuser = f }
}

// WithModel replaces the partition model, for example to use another palette.
func WithModel(m *schedule.Model) Option {
	return func(e *Editor) { e.model = m }
}

// WithRing sets the pointer coordinate frame for drags and presses.
func WithRing(g ring.Ring) Option {
	return func(e *Editor) { e.ring = g }
}

// WithDefaultTemplate sets the template loaded when nothing is saved.
func WithDefaultTemplate(name string) Option {
	return func(e *Editor) { e.defaultTemplate = name }
}

// Editor holds the single live partition.
type Editor struct {
	model     *schedule.Model
	history   *history.Manager
	drag      *drag.Controller
	store     db.Store
	templates Templates
	focuser   Focuser
	logger    *zap.Logger
	ring      ring.Ring

	defaultTemplate string

	live schedule.Partition
	// beforeDrag is the partition at gesture start, recorded once at EndDrag.
	beforeDrag schedule.Partition
}

// Open loads the persisted schedule from store, falling back to the default
// template when nothing usable is saved.
func Open(ctx context.Context, store db.Store, templates Templates, opts ...Option) (*Editor, error) {
	e := &Editor{
		history:         history.New(),
		store:           store,
		templates:       templates,
		logger:          zap.NewNop(),
		ring:            ring.Ring{CX: 200, CY: 200, Radius: 140},
		defaultTemplate: preset.Default,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.model == nil {
		e.model = schedule.NewModel(nil)
	}
	e.drag = drag.New(e.ring, e.model)

	if p, ok := e.restore(ctx); ok {
		e.live = p
		return e, nil
	}

	p, err := e.model.LoadTemplate(e.templates, e.defaultTemplate)
	if err != nil {
		return nil, fmt.Errorf("loading default template: %w", err)
	}
	e.live = p
	e.logger.Info("starting from template", zap.String("template", e.defaultTemplate))
	if err := e.save(ctx); err != nil {
		e.logger.Warn("saving initial schedule", zap.Error(err))
	}
	return e, nil
}

// restore reads the store once. Unreadable or invalid data is logged and
// ignored.
func (e *Editor) restore(ctx context.Context) (schedule.Partition, bool) {
	if e.store == nil {
		return schedule.Partition{}, false
	}
	slots, err := e.store.Load(ctx)
	if err != nil {
		e.logger.Warn("loading saved schedule", zap.Error(err))
		return schedule.Partition{}, false
	}
	if len(slots) == 0 {
		return schedule.Partition{}, false
	}
	p, err := schedule.New(slots)
	if err != nil {
		e.logger.Warn("saved schedule is invalid", zap.Error(err))
		return schedule.Partition{}, false
	}
	e.logger.Debug("restored schedule", zap.Int("slots", p.Len()))
	return p, true
}

// Partition returns the live partition.
func (e *Editor) Partition() schedule.Partition {
	return e.live
}

// Model returns the partition model.
func (e *Editor) Model() *schedule.Model {
	return e.model
}

// Ring returns the pointer coordinate frame.
func (e *Editor) Ring() ring.Ring {
	return e.ring
}

// SetRing changes the pointer coordinate frame, for example after a resize.
func (e *Editor) SetRing(g ring.Ring) {
	e.ring = g
	e.drag.SetRing(g)
}

// Geometry returns the drawing geometry of the live partition.
func (e *Editor) Geometry() []ring.Geometry {
	return e.ring.Layout(e.live)
}

// Templates returns the available template names.
func (e *Editor) Templates() []string {
	return e.templates.Names()
}

// SetFocuser replaces the focus capability.
func (e *Editor) SetFocuser(f Focuser) {
	e.focuser = f
}

// SetLogger replaces the logger.
func (e *Editor) SetLogger(l *zap.Logger) {
	e.logger = l
}

// CanUndo reports whether Undo would change anything.
func (e *Editor) CanUndo() bool {
	return e.history.CanUndo()
}

// CanRedo reports whether Redo would change anything.
func (e *Editor) CanRedo() bool {
	return e.history.CanRedo()
}

// HistoryDepth returns the sizes of the undo and redo stacks.
func (e *Editor) HistoryDepth() (past, future int) {
	return e.history.Depth()
}

// Retime moves the end of slot index to end.
func (e *Editor) Retime(ctx context.Context, index int, end schedule.Time) error {
	return e.apply(ctx, "retime", func(p schedule.Partition) (schedule.Partition, error) {
		return e.model.Retime(p, index, end, false)
	})
}

// MoveStart moves the start of slot index to start.
func (e *Editor) MoveStart(ctx context.Context, index int, start schedule.Time) error {
	return e.apply(ctx, "move start", func(p schedule.Partition) (schedule.Partition, error) {
		return e.model.MoveStart(p, index, start, false)
	})
}

// Insert adds a slot after index.
func (e *Editor) Insert(ctx context.Context, index int) error {
	return e.apply(ctx, "insert", func(p schedule.Partition) (schedule.Partition, error) {
		return e.model.InsertBetween(p, index)
	})
}

// Delete removes slot index.
func (e *Editor) Delete(ctx context.Context, index int) error {
	return e.apply(ctx, "delete", func(p schedule.Partition) (schedule.Partition, error) {
		return e.model.Delete(p, index)
	})
}

// Rename sets the label of slot index.
func (e *Editor) Rename(ctx context.Context, index int, label string) error {
	return e.apply(ctx, "rename", func(p schedule.Partition) (schedule.Partition, error) {
		return e.model.Rename(p, index, label)
	})
}

// Recolor sets the color of slot index.
func (e *Editor) Recolor(ctx context.Context, index int, color string) error {
	return e.apply(ctx, "recolor", func(p schedule.Partition) (schedule.Partition, error) {
		return e.model.Recolor(p, index, color)
	})
}

// CycleColor gives slot index the palette color after its current one.
func (e *Editor) CycleColor(ctx context.Context, index int) error {
	return e.apply(ctx, "cycle color", func(p schedule.Partition) (schedule.Partition, error) {
		if index < 0 || index >= p.Len() {
			return p, fmt.Errorf("%w: %d", schedule.ErrIndexOutOfRange, index)
		}
		next := e.model.NextColor(p.Slot(index).Color)
		return e.model.Recolor(p, index, string(next))
	})
}

// Replace swaps in a whole new partition, for example an accepted
// suggestion. It is recorded in history like any other edit.
func (e *Editor) Replace(ctx context.Context, p schedule.Partition) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return e.apply(ctx, "replace", func(schedule.Partition) (schedule.Partition, error) {
		return p, nil
	})
}

// LoadTemplate replaces the live partition with a named template and clears
// the undo history.
func (e *Editor) LoadTemplate(ctx context.Context, name string) error {
	if _, dragging := e.drag.Index(); dragging {
		return ErrDragInProgress
	}
	p, err := e.model.LoadTemplate(e.templates, name)
	if err != nil {
		return err
	}
	e.history.Reset()
	e.live = p
	e.logger.Info("loaded template", zap.String("template", name), zap.Int("slots", p.Len()))
	return e.save(ctx)
}

// Undo restores the previous partition. It reports false when there was
// nothing to undo.
func (e *Editor) Undo(ctx context.Context) (bool, error) {
	if _, dragging := e.drag.Index(); dragging {
		return false, ErrDragInProgress
	}
	p, ok := e.history.Undo(e.live)
	if !ok {
		return false, nil
	}
	e.live = p
	e.logger.Debug("undo", zap.Int("slots", p.Len()))
	return true, e.save(ctx)
}

// Redo re-applies the last undone edit. It reports false when there was
// nothing to redo.
func (e *Editor) Redo(ctx context.Context) (bool, error) {
	if _, dragging := e.drag.Index(); dragging {
		return false, ErrDragInProgress
	}
	p, ok := e.history.Redo(e.live)
	if !ok {
		return false, nil
	}
	e.live = p
	e.logger.Debug("redo", zap.Int("slots", p.Len()))
	return true, e.save(ctx)
}

// BeginDrag starts dragging the end boundary of slot index.
func (e *Editor) BeginDrag(index int) error {
	if err := e.drag.Begin(e.live, index); err != nil {
		return err
	}
	e.beforeDrag = e.live
	e.logger.Debug("drag begin", zap.Int("index", index))
	return nil
}

// Dragging returns the dragged slot index while a gesture is live.
func (e *Editor) Dragging() (int, bool) {
	return e.drag.Index()
}

// DragTo moves the dragged boundary under the pointer at (x, y).
func (e *Editor) DragTo(ctx context.Context, x, y float64) error {
	return e.dragMove(ctx, func(p schedule.Partition) (schedule.Partition, error) {
		return e.drag.Move(p, x, y)
	})
}

// DragToTime moves the dragged boundary toward t.
func (e *Editor) DragToTime(ctx context.Context, t schedule.Time) error {
	return e.dragMove(ctx, func(p schedule.Partition) (schedule.Partition, error) {
		return e.drag.MoveTime(p, t)
	})
}

func (e *Editor) dragMove(ctx context.Context, move func(schedule.Partition) (schedule.Partition, error)) error {
	next, err := move(e.live)
	if err != nil {
		return err
	}
	if next.Equal(e.live) {
		return nil
	}
	e.live = next
	return e.save(ctx)
}

// EndDrag finishes the gesture. The pre-gesture partition goes into history
// once, and only if the gesture changed anything. It reports whether the
// partition changed.
func (e *Editor) EndDrag() bool {
	idx, ok := e.drag.End()
	if !ok {
		return false
	}
	before := e.beforeDrag
	e.beforeDrag = schedule.Partition{}
	if before.Equal(e.live) {
		return false
	}
	e.history.Record(before)
	e.logger.Debug("drag end", zap.Int("index", idx))
	return true
}

// PressKind says what a pointer press landed on.
type PressKind int

const (
	PressNone PressKind = iota
	PressBoundary
	PressSlot
)

// PressAt handles a pointer press at (x, y): on a boundary it starts a drag,
// on an arc it asks the UI to focus that slot's label editor.
func (e *Editor) PressAt(x, y float64) (PressKind, int) {
	if _, dragging := e.drag.Index(); dragging {
		return PressNone, 0
	}
	if i, ok := e.drag.HitBoundary(e.live, x, y, BoundaryTolerance); ok {
		if err := e.BeginDrag(i); err == nil {
			return PressBoundary, i
		}
	}
	if i, ok := e.drag.HitSlot(e.live, x, y); ok {
		if e.focuser != nil {
			e.focuser.FocusSlot(i)
		}
		return PressSlot, i
	}
	return PressNone, 0
}

// apply runs a discrete edit: the previous value goes into history, the new
// one becomes live and is saved. Rejected and no-op edits change nothing.
func (e *Editor) apply(ctx context.Context, op string, fn func(schedule.Partition) (schedule.Partition, error)) error {
	if _, dragging := e.drag.Index(); dragging {
		return ErrDragInProgress
	}
	prev := e.live
	next, err := fn(prev)
	if err != nil {
		e.logger.Debug("edit rejected", zap.String("op", op), zap.Error(err))
		return err
	}
	if next.Equal(prev) {
		return nil
	}
	e.history.Record(prev)
	e.live = next
	e.logger.Debug("edit", zap.String("op", op), zap.Int("slots", next.Len()))
	return e.save(ctx)
}

func (e *Editor) save(ctx context.Context) error {
	if e.store == nil {
		return nil
	}
	if err := e.store.Save(ctx, e.live.Slots()); err != nil {
		e.logger.Error("saving schedule", zap.Error(err))
		return fmt.Errorf("saving schedule: %w", err)
	}
	return nil
}
