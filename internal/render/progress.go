package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Progress prints a single-line bar that is redrawn in place. It stays
// silent when the output is not a terminal.
type Progress struct {
	out   io.Writer
	width func() int
}

// NewProgress draws on f, sized to f's terminal width.
func NewProgress(f *os.File) *Progress {
	fd := int(f.Fd())
	return &Progress{
		out: f,
		width: func() int {
			if !term.IsTerminal(fd) {
				return 0
			}
			w, _, err := term.GetSize(fd)
			if err != nil {
				return 0
			}
			return w
		},
	}
}

// NewFixedProgress draws on out at a fixed width.
func NewFixedProgress(out io.Writer, width int) *Progress {
	return &Progress{out: out, width: func() int { return width }}
}

// Set redraws the bar at frac in [0, 1].
func (p *Progress) Set(frac float64) {
	w := p.width()
	if w == 0 {
		return
	}
	fmt.Fprintf(p.out, "\r%-*s", w, Bar(frac, w))
}

// Clear blanks the line so regular output can follow.
func (p *Progress) Clear() {
	w := p.width()
	if w == 0 {
		return
	}
	fmt.Fprintf(p.out, "\r%s\r", strings.Repeat(" ", w))
}

// Bar formats frac as a bar exactly width cells wide, e.g. "[=====     ]  50%".
func Bar(frac float64, width int) string {
	const pctWidth = 5
	if width < pctWidth+3 {
		return ""
	}
	frac = min(1, max(0, frac))
	inner := width - 2 - pctWidth
	filled := int(frac * float64(inner))
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", inner-filled) + "]" +
		fmt.Sprintf(" %3d%%", int(frac*100))
}
