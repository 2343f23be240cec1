package sorting

import (
	"math"
	"math/rand"
	"time"
)

// Highlight is a per-render overlay. Active indices are drawn desaturated and
// unlit indices are drawn dark. It is never stored in the array.
type Highlight struct {
	Active []int
	Unlit  []int
}

// Canvas receives one full frame per call.
type Canvas interface {
	Render(values []int, h Highlight)
}

// Pacer supplies the current step delay. It is read on every wait so that
// speed changes take effect on the next step.
type Pacer interface {
	StepDelay() time.Duration
}

// Counters tallies the observable work of a run.
type Counters struct {
	Compares uint64
	Swaps    uint64
	Writes   uint64
	Steps    uint64
	Shuffles uint64
}

// Config wires an Array to its collaborators.
type Config struct {
	Canvas Canvas
	Pacer  Pacer
	// Sleep defaults to a timer wait that returns early once Done is closed.
	Sleep func(time.Duration)
	Rand  *rand.Rand
	// Done, when closed, turns waits into no-ops and suppresses rendering so
	// a running algorithm drains quickly during shutdown.
	Done <-chan struct{}
}

// Array is the fixed-length sequence of hues under animation. All mutation
// goes through Set and Swap so it can be counted and rendered. An Array is
// owned by a single goroutine.
type Array struct {
	values   []int
	canvas   Canvas
	pacer    Pacer
	sleep    func(time.Duration)
	rng      *rand.Rand
	done     <-chan struct{}
	counters Counters
}

// Hues returns round(i*360/n) for i in [0, n).
func Hues(n int) []int {
	if n <= 0 {
		return nil
	}
	out := make([]int, n)
	for i := range out {
		out[i] = int(math.Round(float64(i) * 360 / float64(n)))
	}
	return out
}

// NewArray copies values into a new Array.
func NewArray(values []int, cfg Config) *Array {
	a := &Array{
		values: append([]int(nil), values...),
		canvas: cfg.Canvas,
		pacer:  cfg.Pacer,
		sleep:  cfg.Sleep,
		rng:    cfg.Rand,
		done:   cfg.Done,
	}
	if a.rng == nil {
		a.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if a.sleep == nil {
		a.sleep = a.timerSleep
	}
	return a
}

// Len returns N.
func (a *Array) Len() int { return len(a.values) }

// Get returns the value at i.
func (a *Array) Get(i int) int { return a.values[i] }

// Set stores v at i.
func (a *Array) Set(i, v int) {
	a.values[i] = v
	a.counters.Writes++
}

// Swap exchanges the values at i and j.
func (a *Array) Swap(i, j int) {
	a.values[i], a.values[j] = a.values[j], a.values[i]
	a.counters.Swaps++
}

// Less reports whether the value at i is strictly smaller than the value at j.
func (a *Array) Less(i, j int) bool {
	return a.less(a.values[i], a.values[j])
}

func (a *Array) less(x, y int) bool {
	a.counters.Compares++
	return x < y
}

// Values returns a copy of the current contents.
func (a *Array) Values() []int {
	return append([]int(nil), a.values...)
}

// Sorted reports whether the contents are non-decreasing.
func (a *Array) Sorted() bool {
	for i := 0; i+1 < len(a.values); i++ {
		if a.Less(i+1, i) {
			return false
		}
	}
	return true
}

// Counters returns the tallies since the last ResetCounters.
func (a *Array) Counters() Counters { return a.counters }

// ResetCounters zeroes the tallies.
func (a *Array) ResetCounters() { a.counters = Counters{} }

// Stopped reports whether Done has been closed.
func (a *Array) Stopped() bool {
	if a.done == nil {
		return false
	}
	select {
	case <-a.done:
		return true
	default:
		return false
	}
}

// Render pushes one full frame with the given overlay.
func (a *Array) Render(h Highlight) {
	if a.canvas == nil || a.Stopped() {
		return
	}
	a.canvas.Render(a.values, h)
}

// Settle renders the frame without any overlay.
func (a *Array) Settle() { a.Render(Highlight{}) }

// Wait suspends for the current step delay.
func (a *Array) Wait() { a.Pause(1) }

// Pause suspends for scale times the current step delay.
func (a *Array) Pause(scale float64) {
	if a.pacer == nil || a.Stopped() {
		return
	}
	a.sleep(time.Duration(float64(a.pacer.StepDelay()) * scale))
}

// Step runs one observable operation: render h, wait, apply mutate (which may
// be nil), then render again with the active marks cleared. Unlit marks are
// kept for the second render.
func (a *Array) Step(h Highlight, mutate func()) {
	a.counters.Steps++
	a.Render(h)
	a.Wait()
	if mutate != nil {
		mutate()
	}
	a.Render(Highlight{Unlit: h.Unlit})
}

// scan is Step for a comparison that can move the unlit marks: the second
// render uses the indices compare returns.
func (a *Array) scan(h Highlight, compare func() []int) {
	a.counters.Steps++
	a.Render(h)
	a.Wait()
	a.Render(Highlight{Unlit: compare()})
}

// Touch is Step with only active indices.
func (a *Array) Touch(mutate func(), active ...int) {
	a.Step(Highlight{Active: active}, mutate)
}

// Shuffle performs a Fisher-Yates shuffle from the last index down to 1.
// Every swap is a step, including the i == j no-op, so timing stays uniform.
func (a *Array) Shuffle() {
	n := len(a.values)
	if n <= 1 {
		return
	}
	a.counters.Shuffles++
	for i := n - 1; i > 0; i-- {
		j := a.rng.Intn(i + 1)
		a.Touch(func() { a.Swap(i, j) }, i, j)
	}
}

func (a *Array) timerSleep(d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-a.done:
	}
}

// span returns the indices [lo, hi).
func span(lo, hi int) []int {
	if hi <= lo {
		return nil
	}
	out := make([]int, 0, hi-lo)
	for i := lo; i < hi; i++ {
		out = append(out, i)
	}
	return out
}
