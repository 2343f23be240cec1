//go:build sdl

package render

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	sdlCell     = 24
	sdlMaxWidth = 1440
)

// SDL shows the strip in a window, one square per pixel, wrapping rows when
// the strip is wider than the screen budget.
type SDL struct {
	count       int
	perRow      int
	rows        int
	pixels      []colorful.Color
	initialized bool
	window      *sdl.Window
	renderer    *sdl.Renderer
}

// NewSDL prepares an SDL driver for count pixels. The window opens in Start.
func NewSDL(count int) (*SDL, error) {
	if count <= 0 {
		return nil, fmt.Errorf("sdl: invalid pixel count %d", count)
	}
	perRow := min(count, sdlMaxWidth/sdlCell)
	return &SDL{
		count:  count,
		perRow: perRow,
		rows:   (count + perRow - 1) / perRow,
		pixels: make([]colorful.Color, count),
	}, nil
}

func (d *SDL) Start() error {
	if err := sdl.InitSubSystem(sdl.INIT_VIDEO); err != nil {
		return err
	}
	d.initialized = true

	window, err := sdl.CreateWindow(
		"sortlights",
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(d.perRow*sdlCell), int32(d.rows*sdlCell),
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		return err
	}
	d.window = window

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		return err
	}
	d.renderer = renderer
	return nil
}

func (d *SDL) SetHSV(index int, h, s, v float64) {
	if index < 0 || index >= len(d.pixels) {
		return
	}
	d.pixels[index] = HSV(h, s, v)
}

func (d *SDL) Show() error {
	if d.renderer == nil {
		return fmt.Errorf("SDL backend not started")
	}
	if err := d.renderer.SetDrawColor(0, 0, 0, 255); err != nil {
		return err
	}
	if err := d.renderer.Clear(); err != nil {
		return err
	}
	for i, c := range d.pixels {
		r, g, b := c.Clamped().RGB255()
		if err := d.renderer.SetDrawColor(r, g, b, 255); err != nil {
			return err
		}
		rect := sdl.Rect{
			X: int32((i%d.perRow)*sdlCell + 1),
			Y: int32((i/d.perRow)*sdlCell + 1),
			W: sdlCell - 2,
			H: sdlCell - 2,
		}
		if err := d.renderer.FillRect(&rect); err != nil {
			return err
		}
	}
	d.renderer.Present()

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch event.(type) {
		case *sdl.QuitEvent:
			return ErrRendererQuit
		}
	}
	return nil
}

func (d *SDL) Close() error {
	if d.renderer != nil {
		d.renderer.Destroy()
		d.renderer = nil
	}
	if d.window != nil {
		d.window.Destroy()
		d.window = nil
	}
	if d.initialized {
		sdl.QuitSubSystem(sdl.INIT_VIDEO)
		d.initialized = false
	}
	return nil
}

func SupportsSDL() bool { return true }
