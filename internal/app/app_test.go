package app

import (
	"bytes"
	"context"
	"errors"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guidoenr/sortlights/internal/input"
	"github.com/guidoenr/sortlights/internal/metrics"
	"github.com/guidoenr/sortlights/internal/params"
	"github.com/guidoenr/sortlights/internal/render"
	"github.com/guidoenr/sortlights/internal/sorting"
)

type failingDriver struct {
	render.Null
	failAt int
	err    error
}

func (d *failingDriver) Show() error {
	_ = d.Null.Show()
	if d.Frames >= d.failAt {
		return d.err
	}
	return nil
}

type recordingTone struct {
	played [][]int
}

func (r *recordingTone) Play(hues ...int) {
	r.played = append(r.played, append([]int(nil), hues...))
}

func testConfig(t *testing.T, driver render.Driver, kind sorting.Kind) (Config, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	return Config{
		Runtime:  params.NewRuntime(0.01, 0.5, int(kind), sorting.Count),
		Driver:   driver,
		LEDCount: 24,
		Rand:     rand.New(rand.NewSource(7)),
		Sleep:    func(time.Duration) {},
		Cycles:   1,
		Log:      log.New(&logs, "", 0),
	}, &logs
}

func TestRunSortsOneCycle(t *testing.T) {
	driver := &render.Null{}
	cfg, logs := testConfig(t, driver, sorting.Heap)

	a, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, a.Run(context.Background()))
	require.NoError(t, a.Close())

	assert.Equal(t, sorting.Hues(24), a.Values())
	assert.Greater(t, driver.Frames, 24)
	assert.Contains(t, logs.String(), "1st cycle: Day 10 - heap")
	assert.Contains(t, logs.String(), "heap sorted 24 lights")
	assert.Contains(t, logs.String(), "finished 1 cycles")
}

func TestRunEveryAlgorithm(t *testing.T) {
	for _, kind := range sorting.Kinds() {
		if kind == sorting.Bogo {
			continue
		}
		t.Run(kind.String(), func(t *testing.T) {
			cfg, _ := testConfig(t, &render.Null{}, kind)
			cfg.Cycles = 2
			a, err := New(cfg)
			require.NoError(t, err)
			require.NoError(t, a.Run(context.Background()))
			assert.Equal(t, sorting.Hues(24), a.Values())
		})
	}
}

func TestRunQuitEvent(t *testing.T) {
	cfg, logs := testConfig(t, &render.Null{}, sorting.Bubble)
	cfg.Cycles = 0
	cfg.SettlePause = time.Hour
	cfg.Events = make(chan input.Event, 4)
	cfg.Events <- input.SpeedDown
	cfg.Events <- input.NextAlgorithm
	cfg.Events <- input.Quit

	a, err := New(cfg)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- a.Run(context.Background()) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after quit")
	}
	assert.InDelta(t, 0.02, cfg.Runtime.DelaySeconds(), 1e-12)
	assert.Equal(t, 1, cfg.Runtime.Algorithm())
	assert.Contains(t, logs.String(), "quit requested")
}

func TestRunCancelledContext(t *testing.T) {
	cfg, _ := testConfig(t, &render.Null{}, sorting.Bogo)
	cfg.Cycles = 0

	a, err := New(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, a.Run(ctx), context.Canceled)
}

func TestRunDriverFailure(t *testing.T) {
	boom := errors.New("strip unplugged")
	cfg, _ := testConfig(t, &failingDriver{failAt: 5, err: boom}, sorting.Bubble)

	a, err := New(cfg)
	require.NoError(t, err)
	assert.ErrorIs(t, a.Run(context.Background()), boom)
}

func TestRunWindowClosedIsClean(t *testing.T) {
	cfg, _ := testConfig(t, &failingDriver{failAt: 3, err: render.ErrRendererQuit}, sorting.Bubble)
	cfg.Cycles = 0

	a, err := New(cfg)
	require.NoError(t, err)
	assert.NoError(t, a.Run(context.Background()))
}

func TestRunPlaysTones(t *testing.T) {
	tone := &recordingTone{}
	cfg, _ := testConfig(t, &render.Null{}, sorting.Selection)
	cfg.Tone = tone

	a, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, a.Run(context.Background()))

	require.NotEmpty(t, tone.played)
	for _, hues := range tone.played {
		require.NotEmpty(t, hues)
		for _, h := range hues {
			assert.True(t, h >= 0 && h < 360, "hue %d", h)
		}
	}
}

func TestRunRecordsMetrics(t *testing.T) {
	rec := metrics.New()
	cfg, _ := testConfig(t, &render.Null{}, sorting.Quick)
	cfg.Metrics = rec
	cfg.Cycles = 3

	a, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, a.Run(context.Background()))

	count, err := testutil.GatherAndCount(rec.Registry(), "sortlights_runs_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	expected := `
# HELP sortlights_runs_total Completed sort runs.
# TYPE sortlights_runs_total counter
sortlights_runs_total{algorithm="quick"} 3
`
	assert.NoError(t, testutil.GatherAndCompare(rec.Registry(), strings.NewReader(expected), "sortlights_runs_total"))
}

func TestProfileWritesCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cycles.csv")
	cfg, _ := testConfig(t, &render.Null{}, sorting.Gnome)
	cfg.ProfilePath = path
	cfg.Cycles = 2

	a, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, a.Run(context.Background()))
	require.NoError(t, a.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1+2*4)
	assert.Equal(t, "timestamp,section,delta_ms", lines[0])
	assert.Contains(t, lines[1], ",shuffle,")
	assert.Contains(t, lines[2], ",sort:gnome,")
	assert.Contains(t, lines[3], ",settle,")
	assert.Contains(t, lines[4], ",cycle_total,")
}

func TestNewValidates(t *testing.T) {
	_, err := New(Config{Driver: &render.Null{}, LEDCount: 10})
	assert.Error(t, err)

	_, err = New(Config{Runtime: params.NewRuntime(0.05, 0.7, 0, sorting.Count), Driver: &render.Null{}})
	assert.Error(t, err)

	_, err = New(Config{Runtime: params.NewRuntime(0.05, 0.7, 0, sorting.Count), LEDCount: 10})
	assert.Error(t, err)
}
