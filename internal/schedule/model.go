package schedule

import (
	"fmt"
	"math"

	"github.com/javiermolinar/dayring/internal/palette"
)

// TemplateProvider supplies named starter partitions.
type TemplateProvider interface {
	// Template returns the slots of the named template, or an error wrapping
	// ErrUnknownTemplate.
	Template(name string) ([]Slot, error)
}

// Model implements the partition mutations. It holds no partition itself:
// every operation takes the current value and returns a new one, so callers
// keep the previous value for history.
type Model struct {
	palette palette.Palette
}

// NewModel creates a Model that colors slots from pal (palette.Default if empty).
func NewModel(pal palette.Palette) *Model {
	if pal.Len() == 0 {
		pal = palette.Default
	}
	return &Model{palette: pal}
}

// Palette returns the palette used for recoloring.
func (m *Model) Palette() palette.Palette {
	return m.palette
}

// Bounds returns the inclusive window [lo, hi] that the end of slot index may
// be moved to: at least one grid step after the slot's own start and at least
// one step before the start of the slot two positions ahead.
func (m *Model) Bounds(p Partition, index int) (lo, hi Time, err error) {
	if err := p.checkIndex(index); err != nil {
		return 0, 0, err
	}
	if p.Len() < 2 {
		return 0, 0, fmt.Errorf("%w: a single slot has no movable boundary", ErrInvalidRetime)
	}
	start := p.slots[index].Start
	limit := m.limit(p, index)
	return (start + Step).Wrap(), (start + limit - Step).Wrap(), nil
}

// limit is the clockwise distance from slot index's start to the start of the
// slot two ahead. With two slots that is the moving slot itself: a full turn.
func (m *Model) limit(p Partition, index int) Time {
	start := p.slots[index].Start
	ahead := p.slots[p.wrapIndex(index+2)].Start
	l := Span(start, ahead)
	if l < epsilon {
		l = Day
	}
	return l
}

// Retime moves the boundary between slot index and its successor to end.
//
// A non-drag call rejects values off the grid or outside Bounds with
// ErrInvalidRetime. A drag call snaps to the grid and clamps to the nearest
// edge of Bounds instead, so it only fails for a bad index or a one-slot ring.
func (m *Model) Retime(p Partition, index int, end Time, drag bool) (Partition, error) {
	lo, hi, err := m.Bounds(p, index)
	if err != nil {
		return p, err
	}
	if drag {
		end = end.Snap()
	} else {
		if !end.OnGrid() {
			return p, fmt.Errorf("%w: %.2fh is off the 30-minute grid", ErrInvalidRetime, float64(end))
		}
		end = end.Wrap()
	}

	start := p.slots[index].Start
	offset := Span(start, end)
	if offset < Step-epsilon || offset > m.limit(p, index)-Step+epsilon {
		if !drag {
			return p, fmt.Errorf("%w: %s must lie between %s and %s", ErrInvalidRetime, end, lo, hi)
		}
		end = nearest(end, lo, hi)
	}

	slots := p.Slots()
	next := p.wrapIndex(index + 1)
	slots[index].End = end
	slots[next].Start = end
	return rebuild(p, slots)
}

// nearest returns whichever of lo and hi is closer to t around the ring.
func nearest(t, lo, hi Time) Time {
	if Distance(t, lo) <= Distance(t, hi) {
		return lo
	}
	return hi
}

// MoveStart moves the start of slot index, which is the end of its
// predecessor.
func (m *Model) MoveStart(p Partition, index int, start Time, drag bool) (Partition, error) {
	if err := p.checkIndex(index); err != nil {
		return p, err
	}
	if p.Len() < 2 {
		return p, fmt.Errorf("%w: a single slot has no movable boundary", ErrInvalidRetime)
	}
	return m.Retime(p, p.wrapIndex(index-1), start, drag)
}

// InsertBetween splits the slot following index at its circular midpoint
// (rounded to the grid) and inserts a new unlabeled slot at index+1. A single
// full-ring slot is cut into two 12-hour halves.
func (m *Model) InsertBetween(p Partition, index int) (Partition, error) {
	if err := p.checkIndex(index); err != nil {
		return p, err
	}

	slots := p.Slots()
	if len(slots) == 1 {
		only := slots[0]
		cut := (only.Start + Day/2).Snap()
		added := Slot{Start: only.Start, End: cut}
		only.Start = cut
		return rebuild(p, m.recolor([]Slot{only, added}))
	}

	next := p.wrapIndex(index + 1)
	start := slots[index].End
	span := Span(start, slots[next].End)
	if span < 2*Step-epsilon {
		return p, fmt.Errorf("%w: %s-%s is only %d minutes",
			ErrNoRoomToInsert, start, slots[next].End, span.Minutes())
	}

	offset := Time(math.Round(float64(span/2/Step))) * Step
	offset = max(Step, min(span-Step, offset))
	cut := (start + offset).Wrap()

	added := Slot{Start: start, End: cut}
	slots[next].Start = cut

	out := make([]Slot, 0, len(slots)+1)
	out = append(out, slots[:index+1]...)
	out = append(out, added)
	out = append(out, slots[index+1:]...)
	return rebuild(p, m.recolor(out))
}

// Delete removes slot index and extends its successor backward over the
// freed span.
func (m *Model) Delete(p Partition, index int) (Partition, error) {
	if err := p.checkIndex(index); err != nil {
		return p, err
	}
	if p.Len() == 1 {
		return p, ErrLastSlotUndeletable
	}

	slots := p.Slots()
	next := p.wrapIndex(index + 1)
	slots[next].Start = slots[index].Start
	out := append(slots[:index:index], slots[index+1:]...)
	return rebuild(p, m.recolor(out))
}

// Rename replaces the label of slot index.
func (m *Model) Rename(p Partition, index int, label string) (Partition, error) {
	if err := p.checkIndex(index); err != nil {
		return p, err
	}
	slots := p.Slots()
	slots[index].Label = label
	return rebuild(p, slots)
}

// Recolor sets the color of slot index. The color is normalized to "#rrggbb".
func (m *Model) Recolor(p Partition, index int, color string) (Partition, error) {
	if err := p.checkIndex(index); err != nil {
		return p, err
	}
	c, err := palette.Parse(color)
	if err != nil {
		return p, err
	}
	slots := p.Slots()
	slots[index].Color = c
	return rebuild(p, slots)
}

// NextColor returns the palette color that follows the last of used, or the
// first palette color when used is empty.
func (m *Model) NextColor(used ...palette.Color) palette.Color {
	return m.palette.Next(used)
}

// LoadTemplate builds the named template from provider. Slots without a
// color get the palette color for their position.
func (m *Model) LoadTemplate(provider TemplateProvider, name string) (Partition, error) {
	slots, err := provider.Template(name)
	if err != nil {
		return Partition{}, err
	}
	colors := m.palette.Cycle(len(slots))
	for i := range slots {
		if slots[i].Color == "" {
			slots[i].Color = colors[i]
		}
	}
	p, err := New(slots)
	if err != nil {
		return Partition{}, fmt.Errorf("template %q: %w", name, err)
	}
	return p, nil
}

// Reassign rewrites every slot color to the palette entry for its position.
// Only colors change, so p stays valid.
func (m *Model) Reassign(p Partition) Partition {
	return Partition{slots: m.recolor(p.Slots())}
}

func (m *Model) recolor(slots []Slot) []Slot {
	colors := m.palette.Cycle(len(slots))
	for i := range slots {
		slots[i].Color = colors[i]
	}
	return slots
}

// rebuild validates the result of an edit on p. On failure p is returned
// unchanged together with an ErrInvalidPartition.
func rebuild(p Partition, slots []Slot) (Partition, error) {
	out, err := New(slots)
	if err != nil {
		return p, err
	}
	return out, nil
}
