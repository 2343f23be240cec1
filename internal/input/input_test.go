package input

import (
	"bytes"
	"log"
	"testing"

	"github.com/eiannone/keyboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guidoenr/sortlights/internal/params"
	"github.com/guidoenr/sortlights/internal/sorting"
)

func TestParseEvent(t *testing.T) {
	cases := map[string]Event{
		"speed_up":       SpeedUp,
		"SPEED-DOWN":     SpeedDown,
		"next_algorithm": NextAlgorithm,
		" quit ":         Quit,
	}
	for in, want := range cases {
		got, err := ParseEvent(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
		assert.Equal(t, eventNames[want], got.String())
	}

	_, err := ParseEvent("rewind")
	assert.Error(t, err)
	assert.Equal(t, "Event(9)", Event(9).String())
}

func TestKeyEvent(t *testing.T) {
	type press struct {
		char rune
		key  keyboard.Key
	}
	cases := map[press]Event{
		{'+', 0}:               SpeedUp,
		{'b', 0}:               SpeedUp,
		{'-', 0}:               SpeedDown,
		{'a', 0}:               SpeedDown,
		{'n', 0}:               NextAlgorithm,
		{0, keyboard.KeySpace}: NextAlgorithm,
		{'q', 0}:               Quit,
		{0, keyboard.KeyEsc}:   Quit,
		{0, keyboard.KeyCtrlC}: Quit,
	}
	for p, want := range cases {
		got, ok := KeyEvent(p.char, p.key)
		require.True(t, ok, "%q/%v", p.char, p.key)
		assert.Equal(t, want, got)
	}

	_, ok := KeyEvent('x', 0)
	assert.False(t, ok)
}

func TestOfferDropsWhenFull(t *testing.T) {
	events := make(chan Event, 1)
	assert.True(t, Offer(events, SpeedUp))
	assert.False(t, Offer(events, SpeedDown))
	assert.Equal(t, SpeedUp, <-events)
}

func TestHandlerApply(t *testing.T) {
	var out bytes.Buffer
	rt := params.NewRuntime(0.1, params.DefaultBrightness, 0, sorting.Count)
	h := NewHandler(rt, log.New(&out, "", 0))

	assert.False(t, h.Apply(SpeedUp))
	assert.InDelta(t, 0.05, rt.DelaySeconds(), 1e-12)

	assert.False(t, h.Apply(SpeedDown))
	assert.False(t, h.Apply(SpeedDown))
	assert.InDelta(t, 0.2, rt.DelaySeconds(), 1e-12)

	assert.False(t, h.Apply(NextAlgorithm))
	assert.Equal(t, int(sorting.Gnome), rt.Algorithm())
	assert.Contains(t, out.String(), "next sort method is Day 2 - gnome")

	assert.True(t, h.Apply(Quit))
}

func TestHandlerWithoutLogger(t *testing.T) {
	rt := params.NewRuntime(0.1, params.DefaultBrightness, 0, sorting.Count)
	h := NewHandler(rt, nil)
	for i := 0; i < sorting.Count; i++ {
		h.Apply(NextAlgorithm)
	}
	assert.Equal(t, 0, rt.Algorithm())
}
