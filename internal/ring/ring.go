// Package ring maps positions on the 24-hour ring to angles, coordinates and
// SVG path data. Angles start at 06:00 on the positive x axis and grow
// clockwise in screen coordinates (y pointing down), which puts midnight at
// the top of the dial.
package ring

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/javiermolinar/dayring/internal/schedule"
)

// Precision is the number of decimals kept in computed coordinates.
const Precision = 8

// Label radius bounds, as fractions of the ring radius.
const (
	MinLabelRadius = 0.45
	MaxLabelRadius = 0.90
	baseLabel      = 0.60
)

// Point is a coordinate pair.
type Point struct {
	X, Y float64
}

// Angle returns the angle of t in radians.
func Angle(t schedule.Time) float64 {
	return float64((t-6).Wrap()/schedule.Day) * 2 * math.Pi
}

// Degrees returns the angle of t in degrees.
func Degrees(t schedule.Time) float64 {
	return float64((t-6).Wrap()/schedule.Day) * 360
}

// Position returns the point at time t on a circle of radius r centered on
// the origin.
func Position(t schedule.Time, r float64) Point {
	a := Angle(t)
	return Point{X: round(r * math.Cos(a)), Y: round(r * math.Sin(a))}
}

// TimeAt inverts Angle: it returns the raw, unsnapped time at offset (dx, dy)
// from the center.
func TimeAt(dx, dy float64) schedule.Time {
	a := math.Atan2(dy, dx)
	if a < 0 {
		a += 2 * math.Pi
	}
	return (schedule.Time(a/(2*math.Pi))*schedule.Day + 6).Wrap()
}

// ArcPath returns a pie-slice path for slot s on a circle of radius r
// centered on the origin.
func ArcPath(s schedule.Slot, r float64) string {
	return Ring{Radius: r}.ArcPath(s)
}

// LabelRadius returns the label anchor radius for s as a fraction of the ring
// radius. Short slots and slots centered near the 00:00 or 12:00 seams pull
// the label inward; long label text pushes it outward.
func LabelRadius(s schedule.Slot, label string) float64 {
	f := baseLabel
	d := float64(s.Duration())
	if d < 2 {
		f -= 0.15 * (2 - d) / 2
	}

	mid := s.Midpoint()
	seam := math.Min(float64(schedule.Distance(mid, 0)), float64(schedule.Distance(mid, 12)))
	if seam < 1.5 {
		f -= 0.1 * (1.5 - seam) / 1.5
	}

	if n := len([]rune(label)); n > 8 {
		f += math.Min(0.3, 0.02*float64(n-8))
	}
	return math.Max(MinLabelRadius, math.Min(MaxLabelRadius, f))
}

// Ring is a rendered dial: a center and a radius in some coordinate frame
// (SVG user units, terminal sub-cells, pixels).
type Ring struct {
	CX, CY float64
	Radius float64
}

// Position returns the point at time t at the given fraction of the radius.
func (g Ring) Position(t schedule.Time, fraction float64) Point {
	p := Position(t, g.Radius*fraction)
	return Point{X: round(g.CX + p.X), Y: round(g.CY + p.Y)}
}

// ArcPath returns the pie slice for s: center, out to Start, clockwise along
// the arc to End, back to center. A full-ring slot is drawn as two
// semicircles since a zero-length arc renders as nothing.
func (g Ring) ArcPath(s schedule.Slot) string {
	r := g.Radius
	c := Point{X: round(g.CX), Y: round(g.CY)}
	start := g.Position(s.Start, 1)

	if s.FullRing() {
		opposite := g.Position(s.Start+schedule.Day/2, 1)
		return fmt.Sprintf("M %s %s A %s %s 0 1 1 %s %s A %s %s 0 1 1 %s %s Z",
			num(start.X), num(start.Y),
			num(r), num(r), num(opposite.X), num(opposite.Y),
			num(r), num(r), num(start.X), num(start.Y))
	}

	end := g.Position(s.End, 1)
	large := 0
	if s.Duration() > schedule.Day/2 {
		large = 1
	}
	return fmt.Sprintf("M %s %s L %s %s A %s %s 0 %d 1 %s %s Z",
		num(c.X), num(c.Y),
		num(start.X), num(start.Y),
		num(r), num(r), large, num(end.X), num(end.Y))
}

// LabelPosition returns the label anchor for s at its circular midpoint.
func (g Ring) LabelPosition(s schedule.Slot) Point {
	return g.Position(s.Midpoint(), LabelRadius(s, s.Label))
}

// TimeAt returns the raw time under the point (x, y).
func (g Ring) TimeAt(x, y float64) schedule.Time {
	return TimeAt(x-g.CX, y-g.CY)
}

// RadiusAt returns the distance of (x, y) from the center as a fraction of
// the radius.
func (g Ring) RadiusAt(x, y float64) float64 {
	if g.Radius == 0 {
		return math.Inf(1)
	}
	return math.Hypot(x-g.CX, y-g.CY) / g.Radius
}

// Tick is one hour mark on the dial.
type Tick struct {
	Hour         int
	Inner, Outer Point
	Label        Point
}

// HourTicks returns the 24 hour marks running from 0.9r to r, with labels
// at 1.1r.
func (g Ring) HourTicks() []Tick {
	ticks := make([]Tick, 24)
	for h := range ticks {
		t := schedule.Time(h)
		ticks[h] = Tick{
			Hour:  h,
			Inner: g.Position(t, 0.9),
			Outer: g.Position(t, 1),
			Label: g.Position(t, 1.1),
		}
	}
	return ticks
}

// Geometry is everything needed to draw one slot.
type Geometry struct {
	Index int
	Slot  schedule.Slot
	Path  string
	Start Point
	End   Point
	Label Point
}

// Layout computes the drawing geometry of every slot of p.
func (g Ring) Layout(p schedule.Partition) []Geometry {
	out := make([]Geometry, p.Len())
	for i := range out {
		s := p.Slot(i)
		out[i] = Geometry{
			Index: i,
			Slot:  s,
			Path:  g.ArcPath(s),
			Start: g.Position(s.Start, 1),
			End:   g.Position(s.End, 1),
			Label: g.LabelPosition(s),
		}
	}
	return out
}

func round(v float64) float64 {
	const scale = 1e8
	r := math.Round(v*scale) / scale
	if r == 0 {
		return 0 // drop negative zero
	}
	return r
}

// num formats a coordinate without trailing zeros.
func num(v float64) string {
	s := strconv.FormatFloat(v, 'f', Precision, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
