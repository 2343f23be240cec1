package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ColorOrder is the byte order a strip expects on the wire. The numeric
// values match the usual WS2812 driver constants.
type ColorOrder int

const (
	RGB ColorOrder = iota
	RBG
	GRB
	GBR
	BRG
	BGR
)

var colorOrderNames = []string{"RGB", "RBG", "GRB", "GBR", "BRG", "BGR"}

// ParseColorOrder accepts a name such as "grb" or its numeric value.
func ParseColorOrder(s string) (ColorOrder, error) {
	key := strings.ToUpper(strings.TrimSpace(s))
	for i, name := range colorOrderNames {
		if name == key {
			return ColorOrder(i), nil
		}
	}
	if n, err := strconv.Atoi(key); err == nil && n >= 0 && n < len(colorOrderNames) {
		return ColorOrder(n), nil
	}
	return 0, fmt.Errorf("unknown color order %q", s)
}

func (o ColorOrder) String() string {
	if o < 0 || int(o) >= len(colorOrderNames) {
		return fmt.Sprintf("ColorOrder(%d)", int(o))
	}
	return colorOrderNames[o]
}

// Pack writes c into dst[0:3] in strip order.
func (o ColorOrder) Pack(dst []byte, c colorful.Color) {
	r, g, b := c.Clamped().RGB255()
	switch o {
	case RBG:
		dst[0], dst[1], dst[2] = r, b, g
	case GRB:
		dst[0], dst[1], dst[2] = g, r, b
	case GBR:
		dst[0], dst[1], dst[2] = g, b, r
	case BRG:
		dst[0], dst[1], dst[2] = b, r, g
	case BGR:
		dst[0], dst[1], dst[2] = b, g, r
	default:
		dst[0], dst[1], dst[2] = r, g, b
	}
}

// HSV converts a hue in [0,1) with saturation and value into a color.
func HSV(h, s, v float64) colorful.Color {
	return colorful.Hsv(h*360, clamp01(s), clamp01(v))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
