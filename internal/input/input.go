package input

import (
	"fmt"
	"log"
	"strings"

	"github.com/guidoenr/sortlights/internal/params"
	"github.com/guidoenr/sortlights/internal/sorting"
)

// Event is a payload-free control signal.
type Event int

const (
	SpeedUp Event = iota
	SpeedDown
	NextAlgorithm
	Quit
)

var eventNames = map[Event]string{
	SpeedUp:       "speed_up",
	SpeedDown:     "speed_down",
	NextAlgorithm: "next_algorithm",
	Quit:          "quit",
}

func (e Event) String() string {
	if name, ok := eventNames[e]; ok {
		return name
	}
	return fmt.Sprintf("Event(%d)", int(e))
}

// ParseEvent resolves an event name; dashes and case are ignored.
func ParseEvent(name string) (Event, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	for e, n := range eventNames {
		if n == key {
			return e, nil
		}
	}
	return 0, fmt.Errorf("unknown event %q", name)
}

// Offer sends e without blocking. It reports false when the queue is full and
// the event was dropped.
func Offer(events chan<- Event, e Event) bool {
	select {
	case events <- e:
		return true
	default:
		return false
	}
}

// Handler applies events to the shared runtime settings.
type Handler struct {
	rt  *params.Runtime
	log *log.Logger
}

// NewHandler returns a Handler; logger may be nil.
func NewHandler(rt *params.Runtime, logger *log.Logger) *Handler {
	return &Handler{rt: rt, log: logger}
}

// Apply performs the saturating update for e and reports whether e asks the
// process to stop.
func (h *Handler) Apply(e Event) (quit bool) {
	switch e {
	case SpeedUp:
		h.logf("speed up: delay is now %.3gs", h.rt.SpeedUp())
	case SpeedDown:
		h.logf("slow down: delay is now %.3gs", h.rt.SlowDown())
	case NextAlgorithm:
		k := sorting.Kind(h.rt.NextAlgorithm())
		h.logf("next sort method is Day %d - %s", k.Day(), k)
	case Quit:
		return true
	default:
		h.logf("ignoring unknown input event %v", e)
	}
	return false
}

func (h *Handler) logf(format string, args ...any) {
	if h.log != nil {
		h.log.Printf(format, args...)
	}
}
