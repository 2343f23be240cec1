package render

import (
	"bytes"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/term"
)

const (
	resetANSI = "\x1b[0m"
	// pixelGlyph is two cells wide so pixels look roughly square.
	pixelGlyph = "██"
)

// Terminal draws the strip as rows of 24-bit colored blocks on an alternate
// screen, wrapped to the terminal width, with a status line underneath. It
// also implements io.Writer: the last line written becomes the status text,
// so a logger can target it directly.
type Terminal struct {
	out    io.Writer
	fd     int
	width  int
	pixels []colorful.Color
	buf    bytes.Buffer

	mu     sync.Mutex
	status string
}

// NewTerminal creates a terminal driver for count pixels writing to out.
// When out is a terminal its width is queried on every frame.
func NewTerminal(out io.Writer, count int) *Terminal {
	t := &Terminal{
		out:    out,
		fd:     -1,
		width:  80,
		pixels: make([]colorful.Color, count),
	}
	if f, ok := out.(*os.File); ok {
		t.fd = int(f.Fd())
	}
	return t
}

func (t *Terminal) Start() error {
	_, err := io.WriteString(t.out, "\x1b[?1049h\x1b[2J\x1b[H\x1b[?25l")
	return err
}

func (t *Terminal) SetHSV(index int, h, s, v float64) {
	if index < 0 || index >= len(t.pixels) {
		return
	}
	t.pixels[index] = HSV(h, s, v)
}

func (t *Terminal) Show() error {
	t.ensureWidth()

	perRow := t.width / 2
	if perRow < 1 {
		perRow = 1
	}

	t.buf.Reset()
	t.buf.WriteString("\x1b[H")
	for i, c := range t.pixels {
		if i > 0 && i%perRow == 0 {
			t.buf.WriteString(resetANSI)
			t.buf.WriteString("\x1b[K\r\n")
		}
		r, g, b := c.Clamped().RGB255()
		t.buf.WriteString("\x1b[38;2;")
		t.buf.WriteString(strconv.Itoa(int(r)))
		t.buf.WriteByte(';')
		t.buf.WriteString(strconv.Itoa(int(g)))
		t.buf.WriteByte(';')
		t.buf.WriteString(strconv.Itoa(int(b)))
		t.buf.WriteByte('m')
		t.buf.WriteString(pixelGlyph)
	}
	t.buf.WriteString(resetANSI)
	t.buf.WriteString("\x1b[K\r\n\r\n")
	t.buf.WriteString(statusBar(t.Status(), t.width))
	t.buf.WriteString("\x1b[K")

	_, err := t.out.Write(t.buf.Bytes())
	return err
}

func (t *Terminal) Close() error {
	_, err := io.WriteString(t.out, "\x1b[?25h\x1b[?1049l"+resetANSI)
	return err
}

// Write stores the last non-empty line of p as the status text.
func (t *Terminal) Write(p []byte) (int, error) {
	lines := strings.Split(strings.TrimRight(string(p), "\r\n"), "\n")
	line := strings.TrimSpace(lines[len(lines)-1])
	if line != "" {
		t.mu.Lock()
		t.status = line
		t.mu.Unlock()
	}
	return len(p), nil
}

// Status returns the current status text.
func (t *Terminal) Status() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

func (t *Terminal) ensureWidth() {
	if t.fd < 0 || !term.IsTerminal(t.fd) {
		return
	}
	w, _, err := term.GetSize(t.fd)
	if err != nil || w <= 0 {
		return
	}
	t.width = w
}

func statusBar(text string, width int) string {
	if width <= 0 {
		return text
	}
	n := utf8.RuneCountInString(text)
	if n >= width {
		return string([]rune(text)[:width])
	}
	return text + strings.Repeat(" ", width-n)
}
