// Package palette assigns slot colors from a fixed, ordered pastel palette.
package palette

import (
	"errors"
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidColor is returned when a color string is not a #rrggbb hex value.
var ErrInvalidColor = errors.New("color must be a #rrggbb hex value")

// Color is a lowercase "#rrggbb" string.
type Color string

// Palette is an ordered list of colors that is cycled through.
type Palette []Color

// Default is the pastel palette used for new schedules.
var Default = Palette{
	"#ffe4e1", // misty rose
	"#e6e6fa", // lavender
	"#98fb98", // pale green
	"#87ceeb", // sky blue
	"#dda0dd", // plum
	"#f0e68c", // khaki
	"#add8e6", // light blue
	"#ffa07a", // light salmon
	"#ffb6c1", // light pink
	"#b0c4de", // light steel blue
	"#d8bfd8", // thistle
}

// Len returns the number of palette entries.
func (p Palette) Len() int {
	return len(p)
}

// At returns the palette entry for index i, wrapping around.
func (p Palette) At(i int) Color {
	if len(p) == 0 {
		return ""
	}
	i %= len(p)
	if i < 0 {
		i += len(p)
	}
	return p[i]
}

// Index returns the position of c in the palette, or -1.
func (p Palette) Index(c Color) int {
	c = Color(strings.ToLower(string(c)))
	for i, pc := range p {
		if pc == c {
			return i
		}
	}
	return -1
}

// Next returns the entry after the last color of existing, or the first
// entry when existing is empty. A last color that is not in the palette
// restarts the cycle.
func (p Palette) Next(existing []Color) Color {
	if len(existing) == 0 {
		return p.At(0)
	}
	last := p.Index(existing[len(existing)-1])
	return p.At(last + 1)
}

// Cycle returns n colors assigned in sequence order: entry i gets p[i mod N].
func (p Palette) Cycle(n int) []Color {
	out := make([]Color, n)
	for i := range out {
		out[i] = p.At(i)
	}
	return out
}

// Parse normalizes a hex color ("#RGB" or "#RRGGBB", any case) into a Color.
func Parse(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return Color(c.Hex()), nil
}

// RGB returns the 8-bit channels of c. Invalid colors decode as mid gray.
func (c Color) RGB() (r, g, b uint8) {
	cc, err := colorful.Hex(string(c))
	if err != nil {
		return 0x80, 0x80, 0x80
	}
	return cc.RGB255()
}

// IsLight reports whether dark text reads better than light text on c.
func (c Color) IsLight() bool {
	cc, err := colorful.Hex(string(c))
	if err != nil {
		return false
	}
	l, _, _ := cc.Lab()
	return l > 0.6
}

// Blend mixes c toward other by ratio in [0,1] in Lab space.
func (c Color) Blend(other Color, ratio float64) Color {
	a, errA := colorful.Hex(string(c))
	b, errB := colorful.Hex(string(other))
	if errA != nil || errB != nil {
		return c
	}
	ratio = max(0, min(1, ratio))
	return Color(a.BlendLab(b, ratio).Clamped().Hex())
}
