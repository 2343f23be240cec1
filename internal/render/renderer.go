package render

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/guidoenr/sortlights/internal/sorting"
)

// ErrRendererQuit is returned by a driver whose window was closed by the user.
var ErrRendererQuit = errors.New("renderer closed")

// Driver transmits pixels to a strip. SetHSV takes hue in [0,1), saturation
// and value in [0,1]; Show pushes the buffered frame.
type Driver interface {
	Start() error
	SetHSV(index int, h, s, v float64)
	Show() error
	Close() error
}

// Renderer maps array state plus a highlight overlay onto a driver frame.
// Driver errors are sticky: after the first failure rendering stops and Err
// returns it.
type Renderer struct {
	driver     Driver
	brightness float64
	active     []bool
	unlit      []bool
	err        error
}

// New creates a Renderer for driver at the given brightness.
func New(driver Driver, brightness float64) (*Renderer, error) {
	if driver == nil {
		return nil, errors.New("render: nil driver")
	}
	if brightness < 0 || brightness > 1 || math.IsNaN(brightness) {
		return nil, fmt.Errorf("render: brightness %.2f out of range [0,1]", brightness)
	}
	return &Renderer{driver: driver, brightness: brightness}, nil
}

// Render pushes one full frame. Values are read during the call only.
func (r *Renderer) Render(values []int, h sorting.Highlight) {
	if r.err != nil {
		return
	}
	n := len(values)
	r.active = marks(r.active, n, h.Active)
	r.unlit = marks(r.unlit, n, h.Unlit)

	for i, v := range values {
		s, val := 1.0, r.brightness
		if r.active[i] {
			s = 0
		}
		if r.unlit[i] {
			val = 0
		}
		r.driver.SetHSV(i, Hue(v), s, val)
	}
	if err := r.driver.Show(); err != nil {
		r.err = err
	}
}

// Err returns the first driver error, if any.
func (r *Renderer) Err() error { return r.err }

// Hue maps a value in degrees onto [0,1). 360 wraps to 0.
func Hue(v int) float64 {
	h := math.Mod(float64(v), 360)
	if h < 0 {
		h += 360
	}
	return h / 360
}

func marks(buf []bool, n int, idx []int) []bool {
	if cap(buf) < n {
		buf = make([]bool, n)
	}
	buf = buf[:n]
	clear(buf)
	for _, i := range idx {
		if i >= 0 && i < n {
			buf[i] = true
		}
	}
	return buf
}

// DriverNames lists the drivers selectable by name.
func DriverNames() []string {
	names := []string{"terminal", "web", "none"}
	if SupportsSDL() {
		names = append(names, "sdl")
	}
	return names
}

// ValidDriver reports whether name is a known driver, regardless of build
// tags.
func ValidDriver(name string) bool {
	switch strings.ToLower(name) {
	case "terminal", "web", "none", "null", "sdl":
		return true
	}
	return false
}
