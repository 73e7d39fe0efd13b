package schedule

import (
	"fmt"
	"math"
)

// Entry is one row of a partition summary.
type Entry struct {
	Index    int
	Slot     Slot
	Duration Time
}

// Summary describes a partition slot by slot.
type Summary struct {
	Entries []Entry
	Total   Time
	Longest int
}

// Summarize lists every slot with its duration. Total is always 24h for a
// valid partition.
func Summarize(p Partition) Summary {
	s := Summary{Entries: make([]Entry, 0, p.Len()), Longest: -1}
	var longest Time
	for i, slot := range p.slots {
		d := slot.Duration()
		s.Entries = append(s.Entries, Entry{Index: i, Slot: slot, Duration: d})
		s.Total += d
		if d > longest {
			longest = d
			s.Longest = i
		}
	}
	return s
}

// DurationMinutes returns d as whole minutes. Unlike Time.Minutes it does
// not wrap, so a full ring is 1440.
func DurationMinutes(d Time) int {
	return int(math.Round(float64(d) * 60))
}

// FormatDuration renders a duration as "7h30m" or "45m".
func FormatDuration(d Time) string {
	m := DurationMinutes(d)
	h, m := m/60, m%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh%dm", h, m)
	}
}
