package export

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/javiermolinar/dayring/internal/schedule"
)

// SVG writes p as a standalone SVG document.
func SVG(w io.Writer, p schedule.Partition, opts Options) error {
	if err := opts.validate(); err != nil {
		return err
	}

	g := opts.Ring()
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(opts.Width, opts.Height)
	canvas.Rect(0, 0, opts.Width, opts.Height, "fill:"+string(opts.Background))

	for _, geo := range g.Layout(p) {
		canvas.Path(geo.Path, fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", slotColor(geo.Slot), opts.Ink))
	}

	canvas.Gstyle(fmt.Sprintf("stroke:%s;stroke-width:1", opts.Ink))
	for _, tick := range g.HourTicks() {
		canvas.Line(px(tick.Inner.X), px(tick.Inner.Y), px(tick.Outer.X), px(tick.Outer.Y))
	}
	canvas.Gend()

	fontSize := max(8, int(math.Round(g.Radius/14)))
	hourStyle := fmt.Sprintf("text-anchor:middle;dominant-baseline:central;font-family:sans-serif;font-size:%dpx;fill:%s", fontSize, opts.Ink)
	for _, tick := range g.HourTicks() {
		canvas.Text(px(tick.Label.X), px(tick.Label.Y), hourLabel(tick.Hour), hourStyle)
	}

	for _, geo := range g.Layout(p) {
		if geo.Slot.Label == "" {
			continue
		}
		ink := "#ffffff"
		if slotColor(geo.Slot).IsLight() {
			ink = "#222222"
		}
		style := fmt.Sprintf("text-anchor:middle;dominant-baseline:central;font-family:sans-serif;font-size:%dpx;fill:%s", fontSize, ink)
		canvas.Text(px(geo.Label.X), px(geo.Label.Y), geo.Slot.Label, style)
	}

	canvas.End()
	return ew.err
}

func px(v float64) int {
	return int(math.Round(v))
}

// errWriter keeps the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(b []byte) (int, error) {
	if e.err != nil {
		return len(b), nil
	}
	n, err := e.w.Write(b)
	if err != nil {
		e.err = fmt.Errorf("writing svg: %w", err)
	}
	return n, nil
}
