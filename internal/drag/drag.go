// Package drag turns pointer gestures on the ring into boundary retimes.
package drag

import (
	"errors"
	"fmt"

	"github.com/javiermolinar/dayring/internal/ring"
	"github.com/javiermolinar/dayring/internal/schedule"
)

// MinSlots is the smallest partition on which boundaries can be dragged.
const MinSlots = 3

// Controller errors.
var (
	ErrDragUnavailable = errors.New("dragging needs at least three slots")
	ErrAlreadyDragging = errors.New("a drag gesture is already in progress")
	ErrNotDragging     = errors.New("no drag gesture in progress")
)

// State is the gesture state.
type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Hit-test band around the rim, as fractions of the radius.
const (
	hitInner = 0.3
	hitOuter = 1.25
)

// Controller is the Idle / Dragging(index) state machine. The index is the
// slot whose end boundary follows the pointer.
type Controller struct {
	ring  ring.Ring
	model *schedule.Model
	state State
	index int
}

// New creates an idle controller reading pointer coordinates in g's frame.
func New(g ring.Ring, m *schedule.Model) *Controller {
	return &Controller{ring: g, model: m}
}

// Available reports whether p has enough slots to drag.
func Available(p schedule.Partition) bool {
	return p.Len() >= MinSlots
}

// SetRing changes the pointer coordinate frame, for example after a resize.
func (c *Controller) SetRing(g ring.Ring) {
	c.ring = g
}

// Ring returns the pointer coordinate frame.
func (c *Controller) Ring() ring.Ring {
	return c.ring
}

// State returns the current gesture state.
func (c *Controller) State() State {
	return c.state
}

// Index returns the dragged slot index while dragging.
func (c *Controller) Index() (int, bool) {
	return c.index, c.state == Dragging
}

// Begin enters Dragging(index).
func (c *Controller) Begin(p schedule.Partition, index int) error {
	if c.state == Dragging {
		return ErrAlreadyDragging
	}
	if index < 0 || index >= p.Len() {
		return fmt.Errorf("%w: %d (have %d slots)", schedule.ErrIndexOutOfRange, index, p.Len())
	}
	if !Available(p) {
		return fmt.Errorf("%w: have %d", ErrDragUnavailable, p.Len())
	}
	c.state = Dragging
	c.index = index
	return nil
}

// Move converts the pointer position into a time and retimes the dragged
// boundary to it, snapped and clamped into the slot's window.
func (c *Controller) Move(p schedule.Partition, x, y float64) (schedule.Partition, error) {
	return c.MoveTime(p, c.ring.TimeAt(x, y))
}

// MoveTime is Move for a raw time value.
func (c *Controller) MoveTime(p schedule.Partition, t schedule.Time) (schedule.Partition, error) {
	if c.state != Dragging {
		return p, ErrNotDragging
	}
	return c.model.Retime(p, c.index, t, true)
}

// End returns to Idle and reports which slot was being dragged. The last
// clamped value stays in place.
func (c *Controller) End() (int, bool) {
	if c.state != Dragging {
		return 0, false
	}
	idx := c.index
	c.state = Idle
	c.index = 0
	return idx, true
}

// HitBoundary returns the slot whose end boundary lies closest to the
// pointer, if it is within tolerance hours and the pointer is near the rim.
func (c *Controller) HitBoundary(p schedule.Partition, x, y float64, tolerance schedule.Time) (int, bool) {
	if !Available(p) {
		return 0, false
	}
	if r := c.ring.RadiusAt(x, y); r < hitInner || r > hitOuter {
		return 0, false
	}
	t := c.ring.TimeAt(x, y)
	best, bestDist := -1, tolerance
	for i := 0; i < p.Len(); i++ {
		if d := schedule.Distance(t, p.Slot(i).End); d <= bestDist {
			best, bestDist = i, d
		}
	}
	return best, best >= 0
}

// HitSlot returns the slot whose arc contains the pointer.
func (c *Controller) HitSlot(p schedule.Partition, x, y float64) (int, bool) {
	if p.Len() == 0 || c.ring.RadiusAt(x, y) > 1 {
		return 0, false
	}
	i := p.IndexAt(c.ring.TimeAt(x, y))
	return i, i >= 0
}
