// Package render draws engagements: PNG frame sequences, a terminal
// progress bar and a live terminal view.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"missile-guidance/internal/sim"
)

const (
	FrameWidth  = 1920
	FrameHeight = 1080
	// FrameScale maps world units onto pixels.
	FrameScale = 0.2
)

var (
	MissileColor = color.RGBA{R: 255, G: 128, B: 128, A: 255}
	TargetColor  = color.RGBA{R: 128, G: 128, B: 255, A: 255}
)

type point struct{ X, Y float64 }

// Frames renders the XY projection of an engagement, y up, and keeps the
// trail of every body drawn so far.
type Frames struct {
	Dir string

	missileLog []point
	targetLog  []point
}

func NewFrames(dir string) *Frames {
	return &Frames{Dir: dir}
}

// Reset forgets the trails, for the next scene.
func (f *Frames) Reset() {
	f.missileLog = f.missileLog[:0]
	f.targetLog = f.targetLog[:0]
}

// Draw renders the current frame and writes it as
// scene_<scene>-frame_<frame>.png under Dir.
func (f *Frames) Draw(sceneNum, frameNum int, missile, target sim.Body) error {
	img := f.Render(missile, target)
	name := filepath.Join(f.Dir, fmt.Sprintf("scene_%d-frame_%d.png", sceneNum, frameNum))
	file, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("create frame: %w", err)
	}
	if err := png.Encode(file, img); err != nil {
		file.Close()
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	f.Record(missile, target)
	return nil
}

// Record appends the bodies' positions to the trails without drawing.
func (f *Frames) Record(missile, target sim.Body) {
	f.missileLog = append(f.missileLog, point{missile.Position.X, missile.Position.Y})
	f.targetLog = append(f.targetLog, point{target.Position.X, target.Position.Y})
}

// Render draws the frame in memory.
func (f *Frames) Render(missile, target sim.Body) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, FrameWidth, FrameHeight))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
	drawBody(img, MissileColor, missile, f.missileLog)
	drawBody(img, TargetColor, target, f.targetLog)
	return img
}

// toPixel maps world coordinates onto the image.
func toPixel(p point) point {
	return point{X: p.X * FrameScale, Y: FrameHeight - p.Y*FrameScale}
}

func drawBody(img *image.RGBA, c color.RGBA, body sim.Body, trail []point) {
	pos := point{body.Position.X, body.Position.Y}

	dim := color.RGBA{R: c.R / 2, G: c.G / 2, B: c.B / 2, A: 255}
	if len(trail) > 0 {
		prev := toPixel(trail[0])
		for _, p := range trail[1:] {
			cur := toPixel(p)
			line(img, prev, cur, 2, dim)
			prev = cur
		}
		line(img, prev, toPixel(pos), 2, dim)
	}

	center := toPixel(pos)
	disc(img, center, 6, c)
	// velocity tick, 0.05 px per unit of speed
	tip := point{X: center.X + body.Velocity.X*0.05, Y: center.Y - body.Velocity.Y*0.05}
	line(img, center, tip, 2, c)
}

func disc(img *image.RGBA, c point, r float64, col color.RGBA) {
	b := img.Bounds()
	for y := int(math.Floor(c.Y - r)); y <= int(math.Ceil(c.Y+r)); y++ {
		for x := int(math.Floor(c.X - r)); x <= int(math.Ceil(c.X+r)); x++ {
			dx, dy := float64(x)+0.5-c.X, float64(y)+0.5-c.Y
			if dx*dx+dy*dy <= r*r && image.Pt(x, y).In(b) {
				img.SetRGBA(x, y, col)
			}
		}
	}
}

func line(img *image.RGBA, a, b point, width float64, col color.RGBA) {
	dx, dy := b.X-a.X, b.Y-a.Y
	n := int(math.Ceil(math.Max(math.Abs(dx), math.Abs(dy))))
	// cap the work for segments that leave the frame by a lot
	if n > 4*FrameWidth {
		n = 4 * FrameWidth
	}
	for i := 0; i <= n; i++ {
		t := 0.0
		if n > 0 {
			t = float64(i) / float64(n)
		}
		disc(img, point{a.X + dx*t, a.Y + dy*t}, width/2, col)
	}
}
