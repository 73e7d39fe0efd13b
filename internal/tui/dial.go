package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/dayring/internal/ring"
	"github.com/javiermolinar/dayring/internal/schedule"
	"github.com/javiermolinar/dayring/internal/tui/theme"
)

const (
	// cellAspect is the width of a terminal cell relative to its height.
	cellAspect = 0.5
	// dialMargin leaves room outside the ring for hour labels.
	dialMargin  = 1.3
	minDialRows = 9
	handleGlyph = '●'
)

// labeledHours get a label around the dial.
var labeledHours = []int{0, 3, 6, 9, 12, 15, 18, 21}

// Dial maps terminal cells onto ring coordinates. A cell spans cellAspect
// units horizontally and one unit vertically, so the ring stays round.
type Dial struct {
	Col, Row   int // screen position of the top-left cell
	Cols, Rows int
}

// fitDial returns the largest dial fitting in cols x rows at (col, row).
func fitDial(col, row, cols, rows int) Dial {
	h := min(rows, int(float64(cols)*cellAspect))
	if h < minDialRows {
		return Dial{Col: col, Row: row}
	}
	return Dial{Col: col, Row: row, Cols: int(float64(h) / cellAspect), Rows: h}
}

// Empty reports whether there was no room for a dial.
func (d Dial) Empty() bool {
	return d.Rows == 0
}

// Ring returns the ring in dial coordinates.
func (d Dial) Ring() ring.Ring {
	cx := float64(d.Cols) * cellAspect / 2
	cy := float64(d.Rows) / 2
	return ring.Ring{CX: cx, CY: cy, Radius: math.Min(cx, cy) / dialMargin}
}

// Point converts a screen cell to ring coordinates at the cell center.
func (d Dial) Point(col, row int) (x, y float64) {
	return (float64(col-d.Col) + 0.5) * cellAspect, float64(row-d.Row) + 0.5
}

// Contains reports whether the screen cell lies on the dial.
func (d Dial) Contains(col, row int) bool {
	return col >= d.Col && col < d.Col+d.Cols && row >= d.Row && row < d.Row+d.Rows
}

// cellAt converts ring coordinates back to a local cell.
func (d Dial) cellAt(p ring.Point) (col, row int) {
	return int(math.Floor(p.X / cellAspect)), int(math.Floor(p.Y))
}

type cell struct {
	ch     rune
	fg, bg lipgloss.Color
}

// dialState is everything the dial rasterizer needs.
type dialState struct {
	partition schedule.Partition
	selected  int
	dragging  int // boundary index being dragged, -1 when idle
	handles   bool
}

// rasterize paints the partition into a grid of cells.
func (d Dial) rasterize(s dialState, pal *theme.Palette) [][]cell {
	grid := make([][]cell, d.Rows)
	g := d.Ring()
	n := s.partition.Len()

	slotBg := make([]lipgloss.Color, n)
	for i := range slotBg {
		slotBg[i] = pal.Slot(string(s.partition.Slot(i).Color), i == s.selected)
	}

	for r := range grid {
		grid[r] = make([]cell, d.Cols)
		for c := range grid[r] {
			x, y := (float64(c)+0.5)*cellAspect, float64(r)+0.5
			grid[r][c] = cell{ch: ' ', fg: pal.Fg, bg: pal.Bg}
			if g.RadiusAt(x, y) > 1 {
				continue
			}
			if i := s.partition.IndexAt(g.TimeAt(x, y)); i >= 0 {
				grid[r][c].bg = slotBg[i]
			}
		}
	}

	put := func(p ring.Point, text string, fg lipgloss.Color, keepBg bool) {
		col, row := d.cellAt(p)
		col -= ansi.StringWidth(text) / 2
		if row < 0 || row >= d.Rows {
			return
		}
		for i, ch := range []rune(text) {
			c := col + i
			if c < 0 || c >= d.Cols {
				continue
			}
			grid[row][c].ch = ch
			grid[row][c].fg = fg
			if !keepBg {
				grid[row][c].bg = pal.Bg
			}
		}
	}

	for _, h := range labeledHours {
		put(g.Position(schedule.Time(h), 1.15), hourLabel(h), pal.FgMuted, false)
	}

	labelWidth := max(3, d.Cols/5)
	for _, geo := range g.Layout(s.partition) {
		label := ansi.Truncate(geo.Slot.Label, labelWidth, "…")
		if label == "" {
			continue
		}
		put(geo.Label, label, pal.TextOn(slotBg[geo.Index]), true)
	}

	if s.handles {
		for i := 0; i < n; i++ {
			fg := pal.Handle
			if i == s.dragging {
				fg = pal.Current
			}
			end := s.partition.Slot(i).End
			col, row := d.cellAt(g.Position(end, 0.92))
			if row >= 0 && row < d.Rows && col >= 0 && col < d.Cols {
				grid[row][col].ch = handleGlyph
				grid[row][col].fg = fg
			}
		}
	}
	return grid
}

// render turns the cell grid into styled lines, merging runs that share a style.
func renderCells(grid [][]cell) string {
	lines := make([]string, len(grid))
	for r, row := range grid {
		var sb strings.Builder
		for c := 0; c < len(row); {
			start := c
			for c < len(row) && row[c].fg == row[start].fg && row[c].bg == row[start].bg {
				c++
			}
			var run strings.Builder
			for _, cl := range row[start:c] {
				run.WriteRune(cl.ch)
			}
			style := lipgloss.NewStyle().Foreground(row[start].fg).Background(row[start].bg)
			sb.WriteString(style.Render(run.String()))
		}
		lines[r] = sb.String()
	}
	return strings.Join(lines, "\n")
}

func hourLabel(h int) string {
	const digits = "0123456789"
	return string([]byte{digits[h/10], digits[h%10]})
}
