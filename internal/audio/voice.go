package audio

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"
	"github.com/mjibson/go-dsp/window"
)

var (
	initOnce sync.Once
	termOnce sync.Once
	initErr  error
)

// Initialize starts PortAudio once per process.
func Initialize() error {
	initOnce.Do(func() {
		initErr = portaudio.Initialize()
	})
	return initErr
}

// Terminate balances a successful Initialize.
func Terminate() {
	if initErr != nil {
		return
	}
	termOnce.Do(func() {
		_ = portaudio.Terminate()
	})
}

// Config controls tone output.
type Config struct {
	DeviceName string
	// Blip is the length of one tone.
	Blip  time.Duration
	Gain  float64
	MinHz float64
	MaxHz float64
}

const (
	defaultBlip  = 60 * time.Millisecond
	defaultGain  = 0.25
	defaultMinHz = 120
	defaultMaxHz = 1200
)

// Voice plays a short enveloped sine tone for each highlighted step, pitched
// by the hue of the highlighted values.
type Voice struct {
	stream     *portaudio.Stream
	sampleRate float64
	minHz      float64
	maxHz      float64
	gain       float64
	envelope   []float64

	mu     sync.Mutex
	freq   float64
	phase  float64
	envPos int
}

// NewVoice opens and starts an output stream. Initialize must have been
// called.
func NewVoice(cfg Config) (*Voice, error) {
	device, err := findOutputDevice(cfg.DeviceName)
	if err != nil {
		return nil, err
	}

	v := newVoice(device.DefaultSampleRate, cfg)
	stream, err := portaudio.OpenStream(portaudio.StreamParameters{
		Output: portaudio.StreamDeviceParameters{
			Device:   device,
			Channels: 1,
			Latency:  device.DefaultLowOutputLatency,
		},
		SampleRate:      v.sampleRate,
		FramesPerBuffer: portaudio.FramesPerBufferUnspecified,
	}, v.process)
	if err != nil {
		return nil, fmt.Errorf("open stream: %w", err)
	}
	v.stream = stream

	if err := v.stream.Start(); err != nil {
		_ = v.stream.Close()
		return nil, fmt.Errorf("start stream: %w", err)
	}
	return v, nil
}

func newVoice(sampleRate float64, cfg Config) *Voice {
	if cfg.Blip <= 0 {
		cfg.Blip = defaultBlip
	}
	if cfg.Gain <= 0 {
		cfg.Gain = defaultGain
	}
	if cfg.MinHz <= 0 {
		cfg.MinHz = defaultMinHz
	}
	if cfg.MaxHz <= cfg.MinHz {
		cfg.MaxHz = math.Max(defaultMaxHz, cfg.MinHz*2)
	}
	samples := int(math.Round(cfg.Blip.Seconds() * sampleRate))
	if samples < 2 {
		samples = 2
	}
	env := window.Hann(samples)
	return &Voice{
		sampleRate: sampleRate,
		minHz:      cfg.MinHz,
		maxHz:      cfg.MaxHz,
		gain:       cfg.Gain,
		envelope:   env,
		envPos:     len(env),
	}
}

// Play starts a tone at the mean pitch of hues, restarting the envelope.
func (v *Voice) Play(hues ...int) {
	if v == nil || len(hues) == 0 {
		return
	}
	sum := 0.0
	for _, h := range hues {
		sum += Frequency(h, v.minHz, v.maxHz)
	}
	v.mu.Lock()
	v.freq = sum / float64(len(hues))
	v.envPos = 0
	v.mu.Unlock()
}

// Close stops and closes the stream.
func (v *Voice) Close() error {
	if v == nil || v.stream == nil {
		return nil
	}
	if err := v.stream.Stop(); err != nil && !errorsIsInvalidStreamState(err) {
		return err
	}
	return v.stream.Close()
}

// Frequency maps a hue in [0,360] linearly onto [minHz, maxHz].
func Frequency(hue int, minHz, maxHz float64) float64 {
	t := math.Min(math.Max(float64(hue)/360, 0), 1)
	return minHz + t*(maxHz-minHz)
}

func (v *Voice) process(out []float32) {
	v.mu.Lock()
	defer v.mu.Unlock()

	step := 2 * math.Pi * v.freq / v.sampleRate
	for i := range out {
		if v.envPos >= len(v.envelope) {
			out[i] = 0
			continue
		}
		out[i] = float32(math.Sin(v.phase) * v.envelope[v.envPos] * v.gain)
		v.phase = math.Mod(v.phase+step, 2*math.Pi)
		v.envPos++
	}
}

func findOutputDevice(name string) (*portaudio.DeviceInfo, error) {
	if name == "" {
		dev, err := portaudio.DefaultOutputDevice()
		if err != nil {
			return nil, fmt.Errorf("default output device: %w", err)
		}
		return dev, nil
	}

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("list audio devices: %w", err)
	}
	lower := strings.ToLower(name)
	for _, d := range devices {
		if d.MaxOutputChannels > 0 && strings.Contains(strings.ToLower(d.Name), lower) {
			return d, nil
		}
	}
	return nil, fmt.Errorf("audio output device %q not found", name)
}

// errorsIsInvalidStreamState matches PortAudio's error for stopping a stream
// that is not running.
func errorsIsInvalidStreamState(err error) bool {
	return err != nil && strings.Contains(err.Error(), "PaErrorCode -9986")
}
