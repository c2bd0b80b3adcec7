package sim

import (
	"math"
)

// HeadingDeg is the azimuth of v in the XY plane, 0=+Y, 90=+X.
func HeadingDeg(v Vec) float64 {
	if math.Abs(v.X) < 1e-9 && math.Abs(v.Y) < 1e-9 {
		return 0
	}
	angleRad := math.Atan2(v.X, v.Y)
	deg := angleRad * 180.0 / math.Pi
	if deg < 0 {
		deg += 360
	}
	return deg
}

// ElevationDeg is the angle of v above the XY plane, in [-90, 90].
func ElevationDeg(v Vec) float64 {
	if v.IsZero() {
		return 0
	}
	return math.Atan2(v.Z, math.Hypot(v.X, v.Y)) * 180.0 / math.Pi
}
