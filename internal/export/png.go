package export

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/javiermolinar/dayring/internal/palette"
	"github.com/javiermolinar/dayring/internal/ring"
	"github.com/javiermolinar/dayring/internal/schedule"
)

// arcStep is the length of one straight segment approximating an arc.
const arcStep schedule.Time = 0.1

// canvas draws anti-aliased paths onto an RGBA image.
type canvas struct {
	img  *image.RGBA
	z    *vector.Rasterizer
	face font.Face
}

func newCanvas(w, h int, fontSize float64) (*canvas, error) {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("creating font face: %w", err)
	}
	return &canvas{
		img:  image.NewRGBA(image.Rect(0, 0, w, h)),
		z:    vector.NewRasterizer(w, h),
		face: face,
	}, nil
}

// PNG writes p as a PNG image of opts.Width x opts.Height.
func PNG(w io.Writer, p schedule.Partition, opts Options) error {
	if err := opts.validate(); err != nil {
		return err
	}
	img, err := Render(p, opts)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}

// Render rasterizes p without encoding it.
func Render(p schedule.Partition, opts Options) (*image.RGBA, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	g := opts.Ring()
	c, err := newCanvas(opts.Width, opts.Height, math.Max(8, math.Round(g.Radius/14)))
	if err != nil {
		return nil, err
	}
	defer c.face.Close()

	ink := rgba(opts.Ink)
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(rgba(opts.Background)), image.Point{}, draw.Src)

	for i := 0; i < p.Len(); i++ {
		s := p.Slot(i)
		c.wedge(g, s)
		c.fill(rgba(slotColor(s)))
	}
	for i := 0; i < p.Len(); i++ {
		s := p.Slot(i)
		if s.FullRing() {
			continue
		}
		edge := g.Position(s.Start, 1)
		c.line(center(g), edge, 1)
	}
	c.outline(g, 1)
	c.fill(ink)

	for _, tick := range g.HourTicks() {
		c.line(tick.Inner, tick.Outer, 1)
		c.text(tick.Label, hourLabel(tick.Hour), ink)
	}
	c.fill(ink)

	for _, geo := range g.Layout(p) {
		if geo.Slot.Label == "" {
			continue
		}
		fg := color.RGBA{255, 255, 255, 255}
		if slotColor(geo.Slot).IsLight() {
			fg = color.RGBA{34, 34, 34, 255}
		}
		c.text(geo.Label, geo.Slot.Label, fg)
	}
	return c.img, nil
}

// fill paints the path built so far and starts a new one.
func (c *canvas) fill(col color.RGBA) {
	b := c.img.Bounds()
	c.z.Draw(c.img, b, image.NewUniform(col), image.Point{})
	c.z.Reset(b.Dx(), b.Dy())
}

func (c *canvas) moveTo(pt ring.Point) { c.z.MoveTo(float32(pt.X), float32(pt.Y)) }
func (c *canvas) lineTo(pt ring.Point) { c.z.LineTo(float32(pt.X), float32(pt.Y)) }

// arc traces the circle of the given radius fraction from start for span
// hours. A negative span runs counterclockwise.
func (c *canvas) arc(g ring.Ring, start, span schedule.Time, fraction float64) {
	steps := int(math.Ceil(math.Abs(float64(span / arcStep))))
	for i := 1; i <= steps; i++ {
		c.lineTo(g.Position(start+span*schedule.Time(i)/schedule.Time(steps), fraction))
	}
}

// wedge adds the pie slice of s; a full-ring slot is the whole disc.
func (c *canvas) wedge(g ring.Ring, s schedule.Slot) {
	if s.FullRing() {
		c.moveTo(g.Position(s.Start, 1))
	} else {
		c.moveTo(center(g))
		c.lineTo(g.Position(s.Start, 1))
	}
	c.arc(g, s.Start, s.Duration(), 1)
	c.z.ClosePath()
}

// outline adds a band of the given width along the rim. The inner circle
// runs the other way so it cuts a hole.
func (c *canvas) outline(g ring.Ring, width float64) {
	half := width / 2 / g.Radius
	c.moveTo(g.Position(0, 1+half))
	c.arc(g, 0, schedule.Day, 1+half)
	c.z.ClosePath()
	c.moveTo(g.Position(0, 1-half))
	c.arc(g, 0, -schedule.Day, 1-half)
	c.z.ClosePath()
}

// line adds a segment of the given width as a thin quad.
func (c *canvas) line(a, b ring.Point, width float64) {
	length := math.Hypot(b.X-a.X, b.Y-a.Y)
	if length == 0 {
		return
	}
	nx, ny := -(b.Y-a.Y)/length*width/2, (b.X-a.X)/length*width/2
	c.moveTo(ring.Point{X: a.X + nx, Y: a.Y + ny})
	c.lineTo(ring.Point{X: b.X + nx, Y: b.Y + ny})
	c.lineTo(ring.Point{X: b.X - nx, Y: b.Y - ny})
	c.lineTo(ring.Point{X: a.X - nx, Y: a.Y - ny})
	c.z.ClosePath()
}

// text draws s centered on pt.
func (c *canvas) text(pt ring.Point, s string, col color.RGBA) {
	width := font.MeasureString(c.face, s)
	m := c.face.Metrics()
	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: c.face,
		Dot: fixed.Point26_6{
			X: fixed.Int26_6(pt.X*64) - width/2,
			Y: fixed.Int26_6(pt.Y*64) + (m.Ascent-m.Descent)/2,
		},
	}
	d.DrawString(s)
}

func center(g ring.Ring) ring.Point {
	return ring.Point{X: g.CX, Y: g.CY}
}

func rgba(c palette.Color) color.RGBA {
	r, g, b := c.RGB()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
