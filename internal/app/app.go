package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/guidoenr/sortlights/internal/input"
	"github.com/guidoenr/sortlights/internal/metrics"
	"github.com/guidoenr/sortlights/internal/params"
	"github.com/guidoenr/sortlights/internal/render"
	"github.com/guidoenr/sortlights/internal/sorting"
)

// Default pauses between the phases of one cycle.
const (
	DefaultShufflePause = time.Second
	DefaultSettlePause  = 10 * time.Second
)

const eventQueue = 16

var errStopped = errors.New("playback stopped")

// Tone sonifies highlighted values. *audio.Voice satisfies it.
type Tone interface {
	Play(hues ...int)
}

// Server is a long-running listener started alongside playback, such as the
// web control surface.
type Server interface {
	Serve(ctx context.Context) error
}

// Config configures the application runtime.
type Config struct {
	Runtime  *params.Runtime
	Driver   render.Driver
	LEDCount int
	Rand     *rand.Rand

	// Events carries control events from every input adapter. A buffered
	// channel is created when nil.
	Events   chan input.Event
	Keyboard bool
	Server   Server

	Tone    Tone
	Metrics *metrics.Recorder

	// ShufflePause and SettlePause are waited after the shuffle and after
	// each sort. Zero means no pause.
	ShufflePause time.Duration
	SettlePause  time.Duration
	// Sleep replaces the per-step wait inside algorithms.
	Sleep func(time.Duration)
	// Cycles stops playback after that many cycles; zero runs forever.
	Cycles int

	ProfilePath string
	Log         *log.Logger
}

// App ties together the sorting loop, the strip renderer and the input
// adapters.
type App struct {
	cfg      Config
	rt       *params.Runtime
	renderer *render.Renderer
	driver   render.Driver
	events   chan input.Event
	handler  *input.Handler
	tone     Tone
	metrics  *metrics.Recorder
	profiler *profiler
	rng      *rand.Rand
	log      *log.Logger
	hues     []int
	array    *sorting.Array
}

// New constructs the application using the provided configuration.
func New(cfg Config) (*App, error) {
	if cfg.Runtime == nil {
		return nil, errors.New("app: nil runtime")
	}
	if cfg.LEDCount <= 0 {
		return nil, fmt.Errorf("app: led count must be positive (got %d)", cfg.LEDCount)
	}
	if cfg.Log == nil {
		cfg.Log = log.New(os.Stdout, "", log.LstdFlags)
	}
	if cfg.Events == nil {
		cfg.Events = make(chan input.Event, eventQueue)
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	renderer, err := render.New(cfg.Driver, cfg.Runtime.Brightness())
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:      cfg,
		rt:       cfg.Runtime,
		renderer: renderer,
		driver:   cfg.Driver,
		events:   cfg.Events,
		handler:  input.NewHandler(cfg.Runtime, cfg.Log),
		tone:     cfg.Tone,
		metrics:  cfg.Metrics,
		profiler: newProfiler(cfg.ProfilePath, cfg.Log),
		rng:      cfg.Rand,
		log:      cfg.Log,
	}, nil
}

// Run drives playback until ctx is cancelled, a quit event arrives, the
// driver fails or the configured number of cycles completes. A quit event
// or a closed driver window ends Run with a nil error.
func (a *App) Run(ctx context.Context) error {
	if err := a.driver.Start(); err != nil {
		return fmt.Errorf("start driver: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	if a.cfg.Keyboard {
		if err := input.ListenKeyboard(gctx, a.events); err != nil {
			a.log.Printf("keyboard input disabled: %v", err)
		}
	}
	if a.cfg.Server != nil {
		g.Go(func() error {
			return a.cfg.Server.Serve(gctx)
		})
	}
	g.Go(func() error {
		return a.dispatch(gctx)
	})
	g.Go(func() error {
		return a.play(gctx)
	})

	err := g.Wait()
	switch {
	case errors.Is(err, errStopped), errors.Is(err, render.ErrRendererQuit):
		return nil
	case err == nil:
		return ctx.Err()
	}
	return err
}

// Close releases held resources.
func (a *App) Close() error {
	var errs []error
	if c, ok := a.tone.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	errs = append(errs, a.driver.Close(), a.profiler.Close())
	return errors.Join(errs...)
}

// Values returns the strip contents after Run has returned.
func (a *App) Values() []int {
	if a.array == nil {
		return nil
	}
	return a.array.Values()
}

// Render draws a frame and sounds the active values.
func (a *App) Render(values []int, h sorting.Highlight) {
	a.renderer.Render(values, h)
	if a.tone == nil || len(h.Active) == 0 {
		return
	}
	a.hues = a.hues[:0]
	for _, i := range h.Active {
		if i >= 0 && i < len(values) {
			a.hues = append(a.hues, values[i])
		}
	}
	a.tone.Play(a.hues...)
}

func (a *App) dispatch(ctx context.Context) error {
	a.metrics.SetRuntime(a.rt.DelaySeconds(), a.rt.Algorithm())
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case e := <-a.events:
			if a.handler.Apply(e) {
				a.log.Println("quit requested")
				return errStopped
			}
			a.metrics.SetRuntime(a.rt.DelaySeconds(), a.rt.Algorithm())
		}
	}
}

func (a *App) play(ctx context.Context) error {
	a.array = sorting.NewArray(sorting.Hues(a.cfg.LEDCount), sorting.Config{
		Canvas: a,
		Pacer:  a.rt,
		Sleep:  a.cfg.Sleep,
		Rand:   a.rng,
		Done:   ctx.Done(),
	})
	a.array.Settle()

	for cycle := 1; a.cfg.Cycles == 0 || cycle <= a.cfg.Cycles; cycle++ {
		if err := a.cycle(ctx, cycle); err != nil {
			return err
		}
	}
	a.log.Printf("finished %d cycles", a.cfg.Cycles)
	return errStopped
}

func (a *App) cycle(ctx context.Context, n int) error {
	arr := a.array
	arr.ResetCounters()
	a.profiler.beginCycle()

	arr.Shuffle()
	if err := a.check(ctx); err != nil {
		return err
	}
	if err := pause(ctx, a.cfg.ShufflePause); err != nil {
		return err
	}
	a.profiler.mark("shuffle")

	kind := sorting.Kind(a.rt.Algorithm())
	a.metrics.SetRuntime(a.rt.DelaySeconds(), int(kind))
	a.log.Printf("%s cycle: Day %d - %s", humanize.Ordinal(n), kind.Day(), kind)

	start := time.Now()
	if err := sorting.Run(kind, arr); err != nil {
		return err
	}
	if err := a.check(ctx); err != nil {
		return err
	}
	elapsed := time.Since(start)
	a.profiler.mark("sort:" + kind.String())

	c := arr.Counters()
	a.metrics.ObserveRun(kind.String(), c, elapsed.Seconds())
	a.log.Printf("%s sorted %d lights in %s: %s steps, %s compares, %s swaps, %s writes",
		kind, arr.Len(), elapsed.Round(time.Millisecond),
		humanize.Comma(int64(c.Steps)), humanize.Comma(int64(c.Compares)),
		humanize.Comma(int64(c.Swaps)), humanize.Comma(int64(c.Writes)))

	if err := pause(ctx, a.cfg.SettlePause); err != nil {
		return err
	}
	a.profiler.mark("settle")
	a.profiler.endCycle()
	return nil
}

// check reports a driver failure first, then cancellation.
func (a *App) check(ctx context.Context) error {
	if err := a.renderer.Err(); err != nil {
		return err
	}
	return ctx.Err()
}

func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
