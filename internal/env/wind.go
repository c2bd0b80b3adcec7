package env

import (
	"math"
)

// Wind is a constant drift of the ground track in m/s. Applied to both
// bodies of an engagement it leaves the relative geometry unchanged, but it
// moves the frames the renderer draws.
type Wind struct {
	Velocity Vec
}

// Apply shifts position by the drift without touching the body's own velocity.
func (w Wind) Apply(dt float64, pos, vel Vec) (Vec, Vec, string) {
	return pos.Add(w.Velocity.Mul(dt)), vel, ""
}

// Calm returns a Wind with zero velocity.
func Calm() Wind {
	return Wind{}
}

// FromSpeedAndDir creates a horizontal Wind in the XY plane from a speed
// (m/s) and a direction in degrees clockwise from +Y.
func FromSpeedAndDir(speed, directionDeg float64) Wind {
	rad := (90 - directionDeg) * math.Pi / 180
	return Wind{Velocity: Vec{X: speed * math.Cos(rad), Y: speed * math.Sin(rad)}}
}
