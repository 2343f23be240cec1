//go:build !sdl

package render

import "errors"

// SDL is unavailable without the sdl build tag.
type SDL struct{}

func NewSDL(count int) (*SDL, error) {
	return nil, errors.New("SDL backend not enabled; rebuild with -tags sdl")
}

func (d *SDL) Start() error                      { return errors.New("SDL backend not enabled") }
func (d *SDL) SetHSV(index int, h, s, v float64) {}
func (d *SDL) Show() error                       { return ErrRendererQuit }
func (d *SDL) Close() error                      { return nil }

func SupportsSDL() bool { return false }
