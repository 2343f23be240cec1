package params

import (
	"math"
	"sync/atomic"
	"time"
)

const (
	// MinDelay is the fastest step delay in seconds.
	MinDelay = 0.01
	// MaxDelay is the slowest step delay in seconds.
	MaxDelay = 1.0
	// DefaultDelay matches the stock configuration.
	DefaultDelay = 0.05
	// DefaultBrightness matches the stock configuration.
	DefaultBrightness = 0.7
)

// Runtime holds the settings shared between the playback loop and input
// handlers. Each field lives in its own atomic cell and is updated with a
// single saturating read-modify-write, so readers may observe the delay and
// the algorithm index from different generations.
type Runtime struct {
	delay      atomic.Uint64 // math.Float64bits of seconds
	algorithm  atomic.Int64
	count      int
	brightness float64
}

// NewRuntime returns a Runtime with the delay clamped to [MinDelay, MaxDelay],
// the algorithm index wrapped into [0, count) and brightness clamped to [0, 1].
func NewRuntime(delaySeconds, brightness float64, algorithm, count int) *Runtime {
	if count <= 0 {
		count = 1
	}
	if math.IsNaN(delaySeconds) || delaySeconds <= 0 {
		delaySeconds = DefaultDelay
	}
	if math.IsNaN(brightness) {
		brightness = DefaultBrightness
	}
	r := &Runtime{
		count:      count,
		brightness: clamp(brightness, 0, 1),
	}
	r.delay.Store(math.Float64bits(clamp(delaySeconds, MinDelay, MaxDelay)))
	r.algorithm.Store(int64(wrap(algorithm, count)))
	return r
}

// SpeedUp halves the step delay, never going below MinDelay.
func (r *Runtime) SpeedUp() float64 {
	return r.updateDelay(func(d float64) float64 {
		return math.Max(d/2, MinDelay)
	})
}

// SlowDown doubles the step delay, never going above MaxDelay.
func (r *Runtime) SlowDown() float64 {
	return r.updateDelay(func(d float64) float64 {
		return math.Min(d*2, MaxDelay)
	})
}

// NextAlgorithm advances the selection, wrapping after the last algorithm.
func (r *Runtime) NextAlgorithm() int {
	for {
		cur := r.algorithm.Load()
		next := (cur + 1) % int64(r.count)
		if r.algorithm.CompareAndSwap(cur, next) {
			return int(next)
		}
	}
}

// DelaySeconds returns the current step delay in seconds.
func (r *Runtime) DelaySeconds() float64 {
	return math.Float64frombits(r.delay.Load())
}

// StepDelay returns the current step delay.
func (r *Runtime) StepDelay() time.Duration {
	return time.Duration(r.DelaySeconds() * float64(time.Second))
}

// Algorithm returns the selected algorithm index.
func (r *Runtime) Algorithm() int { return int(r.algorithm.Load()) }

// Brightness is fixed at construction.
func (r *Runtime) Brightness() float64 { return r.brightness }

func (r *Runtime) updateDelay(fn func(float64) float64) float64 {
	for {
		bits := r.delay.Load()
		next := fn(math.Float64frombits(bits))
		if r.delay.CompareAndSwap(bits, math.Float64bits(next)) {
			return next
		}
	}
}

func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

func clamp(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}
