package schedule

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// Day is the length of the ring in hours.
	Day Time = 24
	// Step is the grid resolution in hours (30 minutes).
	Step Time = 0.5

	epsilon = 1e-9
)

// Time is a position on the 24-hour ring, in hours since midnight.
type Time float64

// Wrap reduces t modulo 24 into [0,24).
func (t Time) Wrap() Time {
	w := Time(math.Mod(float64(t), float64(Day)))
	if w < 0 {
		w += Day
	}
	// Values like 23.9999999999 snap back to 0 rather than surviving as 24.
	if Day-w < epsilon {
		return 0
	}
	return w
}

// Snap rounds t to the nearest grid point and wraps it into [0,24).
func (t Time) Snap() Time {
	return (Time(math.Round(float64(t/Step))) * Step).Wrap()
}

// OnGrid reports whether t is a multiple of the grid step.
func (t Time) OnGrid() bool {
	q := float64(t / Step)
	return math.Abs(q-math.Round(q)) < epsilon
}

// Minutes returns t as whole minutes since midnight.
func (t Time) Minutes() int {
	return int(math.Round(float64(t.Wrap()) * 60))
}

// String renders t as "HH:MM".
func (t Time) String() string {
	m := t.Minutes()
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// ParseTime parses "HH:MM" on the 30-minute grid. "24:00" wraps to 0.
func ParseTime(s string) (Time, error) {
	s = strings.TrimSpace(s)
	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("time %q must be in HH:MM format", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 24 {
		return 0, fmt.Errorf("time %q has an invalid hour", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || (m != 0 && m != 30) || (h == 24 && m != 0) {
		return 0, fmt.Errorf("time %q must fall on a 30-minute boundary", s)
	}
	return (Time(h) + Time(m)/60).Wrap(), nil
}

// Span returns the clockwise distance from start to end, in [0,24).
func Span(start, end Time) Time {
	return (end - start).Wrap()
}

// Distance returns the shorter way around the ring between a and b, in [0,12].
func Distance(a, b Time) Time {
	d := Span(a, b)
	if d > Day/2 {
		return Day - d
	}
	return d
}

// Equal reports whether a and b are the same ring position.
func Equal(a, b Time) bool {
	return Distance(a, b) < epsilon
}
