// Package export renders a schedule ring to SVG and PNG.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/javiermolinar/dayring/internal/config"
	"github.com/javiermolinar/dayring/internal/palette"
	"github.com/javiermolinar/dayring/internal/ring"
	"github.com/javiermolinar/dayring/internal/schedule"
)

// Format names accepted by Write.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
)

// ErrUnknownFormat is returned for formats other than svg and png.
var ErrUnknownFormat = errors.New("unknown export format")

// ringFraction is the dial radius relative to the shorter image side. It
// leaves room for the hour labels at 1.1r.
const ringFraction = 0.38

// Options controls the exported picture.
type Options struct {
	Width      int
	Height     int
	Background palette.Color
	Ink        palette.Color // ticks, outlines and hour labels
}

// DefaultOptions returns an 800x800 picture on white.
func DefaultOptions() Options {
	return Options{
		Width:      800,
		Height:     800,
		Background: "#ffffff",
		Ink:        "#333333",
	}
}

// FromConfig returns DefaultOptions sized by cfg.
func FromConfig(cfg config.ExportConfig) Options {
	opts := DefaultOptions()
	if cfg.Width > 0 {
		opts.Width = cfg.Width
	}
	if cfg.Height > 0 {
		opts.Height = cfg.Height
	}
	return opts
}

// Ring returns the dial the picture is drawn on, centered in the image.
func (o Options) Ring() ring.Ring {
	side := min(o.Width, o.Height)
	return ring.Ring{
		CX:     float64(o.Width) / 2,
		CY:     float64(o.Height) / 2,
		Radius: float64(side) * ringFraction,
	}
}

func (o Options) validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("export size must be positive, got %dx%d", o.Width, o.Height)
	}
	return nil
}

// ParseFormat normalizes a format name, accepting a leading dot.
func ParseFormat(name string) (string, error) {
	f := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), ".")
	switch f {
	case FormatSVG, FormatPNG:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// slotColor falls back to gray for slots without a color.
func slotColor(s schedule.Slot) palette.Color {
	if s.Color == "" {
		return "#cccccc"
	}
	return s.Color
}

func hourLabel(h int) string {
	return fmt.Sprintf("%02d", h)
}

// Write renders p in the named format.
func Write(w io.Writer, format string, p schedule.Partition, opts Options) error {
	f, err := ParseFormat(format)
	if err != nil {
		return err
	}
	if f == FormatPNG {
		return PNG(w, p, opts)
	}
	return SVG(w, p, opts)
}
