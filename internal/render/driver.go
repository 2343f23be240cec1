package render

import (
	"fmt"
	"io"
	"strings"
)

// Null discards every frame. It is selected as "none"; "null" is kept as
// an alias for flags, since YAML reads a bare null as no value.
type Null struct {
	Frames int
}

func (n *Null) Start() error                      { return nil }
func (n *Null) SetHSV(index int, h, s, v float64) {}
func (n *Null) Close() error                      { return nil }

func (n *Null) Show() error {
	n.Frames++
	return nil
}

// Open builds the named driver for count pixels. The web driver lives in its
// own package and is constructed by the caller.
func Open(name string, count int, out io.Writer) (Driver, error) {
	switch strings.ToLower(name) {
	case "terminal", "":
		return NewTerminal(out, count), nil
	case "none", "null":
		return &Null{}, nil
	case "sdl":
		d, err := NewSDL(count)
		if err != nil {
			return nil, err
		}
		return d, nil
	default:
		return nil, fmt.Errorf("unknown driver %q", name)
	}
}
