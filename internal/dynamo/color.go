package dynamo

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Color is an RGB triple with channels in [0, 1].
type Color struct {
	R, G, B float64
}

var White = Color{1, 1, 1}

// RGBA8 converts the color to 8-bit channels with full alpha.
func (c Color) RGBA8() (r, g, b, a uint8) {
	return channel(c.R), channel(c.G), channel(c.B), 255
}

// Hex formats the color as #rrggbb.
func (c Color) Hex() string {
	r, g, b, _ := c.RGBA8()
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func channel(v float64) uint8 {
	v = math.Max(0, math.Min(1, v))
	return uint8(math.Round(v * 255))
}

// ParseHex reads a #rrggbb (or rrggbb) color.
func ParseHex(s string) (Color, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) != 6 {
		return Color{}, fmt.Errorf("color %q: want 6 hex digits", s)
	}
	n, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("color %q: %w", s, err)
	}
	return Color{
		R: float64(n>>16&0xff) / 255,
		G: float64(n>>8&0xff) / 255,
		B: float64(n&0xff) / 255,
	}, nil
}
