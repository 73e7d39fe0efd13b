// Package schedule models a day as a gap-free, overlap-free cyclic partition
// of the 24-hour ring into labeled slots.
package schedule

import (
	"errors"
	"fmt"

	"github.com/javiermolinar/dayring/internal/palette"
)

// Rejection reasons. Operations that fail return the unchanged input
// partition together with one of these.
var (
	ErrInvalidRetime       = errors.New("retime would collide with a neighboring boundary")
	ErrNoRoomToInsert      = errors.New("no room to insert a 30-minute slot")
	ErrLastSlotUndeletable = errors.New("the last slot cannot be deleted")
	ErrIndexOutOfRange     = errors.New("slot index out of range")
	ErrInvalidPartition    = errors.New("invalid partition")
	ErrUnknownTemplate     = errors.New("unknown template")
)

// Slot is a labeled arc of the ring running clockwise from Start to End.
// Start == End means the slot covers the whole ring.
type Slot struct {
	Start Time          `json:"start" toml:"start"`
	End   Time          `json:"end" toml:"end"`
	Label string        `json:"label" toml:"label"`
	Color palette.Color `json:"color" toml:"color"`
}

// Duration returns the clockwise length of the slot in hours.
func (s Slot) Duration() Time {
	if s.FullRing() {
		return Day
	}
	return Span(s.Start, s.End)
}

// FullRing reports whether the slot covers the whole ring.
func (s Slot) FullRing() bool {
	return Equal(s.Start, s.End)
}

// Contains reports whether t lies in [Start, End) going clockwise.
func (s Slot) Contains(t Time) bool {
	if s.FullRing() {
		return true
	}
	return Span(s.Start, t.Wrap()) < s.Duration()
}

// Midpoint returns the circular midpoint of the slot.
func (s Slot) Midpoint() Time {
	return (s.Start + s.Duration()/2).Wrap()
}

// Partition is an immutable ordered cyclic sequence of slots covering the ring
// exactly once. The zero value is not a valid partition; build one with New.
type Partition struct {
	slots []Slot
}

// New validates slots against the ring invariants and returns a Partition
// holding its own copy of them.
func New(slots []Slot) (Partition, error) {
	p := Partition{slots: normalize(slots)}
	if err := p.Validate(); err != nil {
		return Partition{}, err
	}
	return p, nil
}

// MustNew is New for static data that is known to be valid.
func MustNew(slots []Slot) Partition {
	p, err := New(slots)
	if err != nil {
		panic(err)
	}
	return p
}

func normalize(slots []Slot) []Slot {
	out := make([]Slot, len(slots))
	for i, s := range slots {
		s.Start = s.Start.Wrap()
		s.End = s.End.Wrap()
		out[i] = s
	}
	return out
}

// Validate checks contiguity, coverage, grid alignment and positive duration.
func (p Partition) Validate() error {
	n := len(p.slots)
	if n == 0 {
		return fmt.Errorf("%w: no slots", ErrInvalidPartition)
	}
	var total Time
	for i, s := range p.slots {
		if !s.Start.OnGrid() || !s.End.OnGrid() {
			return fmt.Errorf("%w: slot %d (%s-%s) is off the 30-minute grid", ErrInvalidPartition, i, s.Start, s.End)
		}
		if n > 1 && s.FullRing() {
			return fmt.Errorf("%w: slot %d has zero duration", ErrInvalidPartition, i)
		}
		next := p.slots[(i+1)%n]
		if !Equal(s.End, next.Start) {
			return fmt.Errorf("%w: slot %d ends at %s but slot %d starts at %s",
				ErrInvalidPartition, i, s.End, (i+1)%n, next.Start)
		}
		total += s.Duration()
	}
	if total-Day > epsilon || Day-total > epsilon {
		return fmt.Errorf("%w: slots cover %.1fh instead of 24h", ErrInvalidPartition, float64(total))
	}
	return nil
}

// Len returns the number of slots.
func (p Partition) Len() int {
	return len(p.slots)
}

// Slot returns slot i. It panics if i is out of range, like a slice index.
func (p Partition) Slot(i int) Slot {
	return p.slots[i]
}

// Slots returns a copy of the slots in partition order.
func (p Partition) Slots() []Slot {
	return append([]Slot(nil), p.slots...)
}

// IsZero reports whether p is the zero value.
func (p Partition) IsZero() bool {
	return p.slots == nil
}

// Equal reports whether both partitions hold the same slots in the same order.
func (p Partition) Equal(q Partition) bool {
	if len(p.slots) != len(q.slots) {
		return false
	}
	for i := range p.slots {
		a, b := p.slots[i], q.slots[i]
		if !Equal(a.Start, b.Start) || !Equal(a.End, b.End) || a.Label != b.Label || a.Color != b.Color {
			return false
		}
	}
	return true
}

// IndexAt returns the index of the slot containing t.
func (p Partition) IndexAt(t Time) int {
	for i, s := range p.slots {
		if s.Contains(t) {
			return i
		}
	}
	return -1
}

// wrapIndex maps any integer onto [0,n).
func (p Partition) wrapIndex(i int) int {
	n := len(p.slots)
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

func (p Partition) checkIndex(i int) error {
	if i < 0 || i >= len(p.slots) {
		return fmt.Errorf("%w: %d (have %d slots)", ErrIndexOutOfRange, i, len(p.slots))
	}
	return nil
}
