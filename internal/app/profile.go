package app

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"
)

// profiler appends per-phase cycle timings as CSV rows.
type profiler struct {
	mu    sync.Mutex
	out   io.Writer
	file  *os.File
	start time.Time
	last  time.Time
}

func newProfiler(path string, logger *log.Logger) *profiler {
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		if logger != nil {
			logger.Printf("profiler disabled: %v", err)
		}
		return nil
	}
	p := &profiler{out: f, file: f}
	if info, err := f.Stat(); err == nil && info.Size() == 0 {
		fmt.Fprintln(p.out, "timestamp,section,delta_ms")
	}
	return p
}

func (p *profiler) beginCycle() {
	if p == nil {
		return
	}
	now := time.Now()
	p.start = now
	p.last = now
}

func (p *profiler) mark(section string) {
	if p == nil {
		return
	}
	now := time.Now()
	delta := now.Sub(p.last).Seconds() * 1000
	p.last = now
	p.write(section, delta)
}

func (p *profiler) endCycle() {
	if p == nil {
		return
	}
	p.write("cycle_total", time.Since(p.start).Seconds()*1000)
}

func (p *profiler) Close() error {
	if p == nil || p.file == nil {
		return nil
	}
	return p.file.Close()
}

func (p *profiler) write(section string, deltaMs float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.out == nil {
		return
	}
	fmt.Fprintf(p.out, "%s,%s,%.3f\n", time.Now().Format(time.RFC3339Nano), section, deltaMs)
}
