// Package history keeps linear undo/redo stacks of partition snapshots.
package history

import "github.com/javiermolinar/dayring/internal/schedule"

// Manager holds the past and future stacks. Both are unbounded. Partitions
// are immutable values, so snapshots are stored by value without copying.
type Manager struct {
	past   []schedule.Partition
	future []schedule.Partition
}

// New creates an empty history.
func New() *Manager {
	return &Manager{}
}

// Record pushes the pre-mutation partition onto the past stack and drops the
// redo branch.
func (m *Manager) Record(previous schedule.Partition) {
	m.past = append(m.past, previous)
	m.future = nil
}

// Undo returns the most recent past partition and moves current to the front
// of the future stack. It reports false, leaving current live, when there is
// nothing to undo.
func (m *Manager) Undo(current schedule.Partition) (schedule.Partition, bool) {
	if len(m.past) == 0 {
		return current, false
	}
	last := len(m.past) - 1
	prev := m.past[last]
	m.past = m.past[:last]
	m.future = append(m.future, current)
	return prev, true
}

// Redo is the mirror of Undo.
func (m *Manager) Redo(current schedule.Partition) (schedule.Partition, bool) {
	if len(m.future) == 0 {
		return current, false
	}
	last := len(m.future) - 1
	next := m.future[last]
	m.future = m.future[:last]
	m.past = append(m.past, current)
	return next, true
}

// Reset clears both stacks.
func (m *Manager) Reset() {
	m.past = nil
	m.future = nil
}

// CanUndo reports whether Undo would change anything.
func (m *Manager) CanUndo() bool {
	return len(m.past) > 0
}

// CanRedo reports whether Redo would change anything.
func (m *Manager) CanRedo() bool {
	return len(m.future) > 0
}

// Depth returns the sizes of the past and future stacks.
func (m *Manager) Depth() (past, future int) {
	return len(m.past), len(m.future)
}
