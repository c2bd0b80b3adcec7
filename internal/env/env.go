// Package env applies environmental effects to simulated bodies between
// integration steps.
package env

import (
	"missile-guidance/internal/geometry/vector"
)

// Vec is the vector type the simulator integrates in.
type Vec = vector.Vec3[float64]

// Effect modifies a body's state in place of the simulator's own physics.
type Effect interface {
	// Apply takes the current position and velocity of a body and returns the
	// modified position, velocity, and an optional warning message.
	// dt is the time step in seconds.
	Apply(dt float64, pos, vel Vec) (Vec, Vec, string)
}

// Chain is a composite effect that applies multiple effects in sequence.
type Chain struct {
	Effects []Effect
}

// Apply applies all effects in the chain, in order. The output of one effect
// is the input to the next. The last non-empty warning message is returned.
func (c *Chain) Apply(dt float64, pos, vel Vec) (Vec, Vec, string) {
	var warning string
	for _, effect := range c.Effects {
		newPos, newVel, w := effect.Apply(dt, pos, vel)
		if w != "" {
			warning = w
		}
		pos, vel = newPos, newVel
	}
	return pos, vel, warning
}

// Len returns the number of chained effects.
func (c *Chain) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Effects)
}

// NoOp is an effect that does nothing.
var NoOp Effect = noOpEffect{}

type noOpEffect struct{}

func (noOpEffect) Apply(_ float64, pos, vel Vec) (Vec, Vec, string) {
	return pos, vel, ""
}
