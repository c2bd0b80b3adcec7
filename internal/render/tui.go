package render

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"missile-guidance/internal/sim"
)

// TUI is a live terminal view of one engagement at a time, XY projection
// scaled to fit the bodies.
type TUI struct {
	screen tcell.Screen
	quit   chan struct{}

	missileLog []point
	targetLog  []point
}

// NewTUI takes over the terminal until Close.
func NewTUI() (*TUI, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	return newTUI(screen)
}

func newTUI(screen tcell.Screen) (*TUI, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	t := &TUI{screen: screen, quit: make(chan struct{})}
	go t.poll()
	return t, nil
}

func (t *TUI) poll() {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
				(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
				close(t.quit)
				return
			}
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}
}

// Quit is closed when the user asks to leave.
func (t *TUI) Quit() <-chan struct{} { return t.quit }

func (t *TUI) Close() { t.screen.Fini() }

// Reset forgets the trails, for the next scene.
func (t *TUI) Reset() {
	t.missileLog = t.missileLog[:0]
	t.targetLog = t.targetLog[:0]
}

// Draw redraws the scene with the current state of s.
func (t *TUI) Draw(sceneNum int, s *sim.Sim, progress float64) {
	t.missileLog = append(t.missileLog, point{s.Missile.Position.X, s.Missile.Position.Y})
	t.targetLog = append(t.targetLog, point{s.Target.Position.X, s.Target.Position.Y})

	w, h := t.screen.Size()
	t.screen.Clear()
	if w < 10 || h < 4 {
		t.screen.Show()
		return
	}

	view := fit(append(append([]point(nil), t.missileLog...), t.targetLog...), w, h-2)

	dimM := tcell.StyleDefault.Foreground(tcell.NewRGBColor(128, 64, 64))
	dimT := tcell.StyleDefault.Foreground(tcell.NewRGBColor(64, 64, 128))
	for _, p := range t.missileLog {
		t.plot(view, p, '·', dimM)
	}
	for _, p := range t.targetLog {
		t.plot(view, p, '·', dimT)
	}
	t.plot(view, t.targetLog[len(t.targetLog)-1], '◆', tcell.StyleDefault.Foreground(tcell.NewRGBColor(128, 128, 255)))
	t.plot(view, t.missileLog[len(t.missileLog)-1], '▲', tcell.StyleDefault.Foreground(tcell.NewRGBColor(255, 128, 128)))

	header := fmt.Sprintf("%d: %s  step %d  t=%.2fs  range %.1f  steering %.1f",
		sceneNum, s.Scene().Name, s.Steps(), s.SimTime(), s.Distance(), s.Steering().Norm())
	t.text(0, 0, header, tcell.StyleDefault)
	t.text(0, h-1, Bar(progress, w), tcell.StyleDefault.Foreground(tcell.ColorGreen))
	t.screen.Show()
}

func (t *TUI) plot(v viewport, p point, r rune, style tcell.Style) {
	x, y, ok := v.cell(p)
	if !ok {
		return
	}
	t.screen.SetContent(x, y+1, r, nil, style)
}

func (t *TUI) text(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		t.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// viewport maps world XY onto a w×h cell grid, y up. Terminal cells are
// about twice as tall as wide, so x is stretched by two.
type viewport struct {
	minX, minY float64
	scale      float64
	w, h       int
}

func fit(points []point, w, h int) viewport {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	spanX := math.Max(maxX-minX, 1)
	spanY := math.Max(maxY-minY, 1)
	scale := math.Min(float64(w-1)/(2*spanX), float64(h-1)/spanY)
	return viewport{minX: minX, minY: minY, scale: scale, w: w, h: h}
}

func (v viewport) cell(p point) (int, int, bool) {
	x := int(math.Round((p.X - v.minX) * v.scale * 2))
	y := v.h - 1 - int(math.Round((p.Y-v.minY)*v.scale))
	if x < 0 || x >= v.w || y < 0 || y >= v.h {
		return 0, 0, false
	}
	return x, y, true
}
