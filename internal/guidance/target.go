// Package guidance implements missile guidance laws over a target expressed
// relative to the pursuer.
//
// Every function is pure: inputs are immutable values, nothing is cached and
// no state is shared, so calls are safe from any number of goroutines.
//
// References: https://nptel.ac.in/courses/101108056/9
package guidance

import "missile-guidance/internal/geometry/vector"

// Target is a target as seen from the pursuer. Position is measured from the
// pursuer's origin and Velocity relative to the pursuer's velocity, both in a
// non-rotating frame. Callers build a fresh Target every control tick.
type Target[T vector.Real] struct {
	Position vector.Vec3[T] `json:"position"`
	Velocity vector.Vec3[T] `json:"velocity"`
}

// IsClosing reports whether the target is currently approaching the origin,
// shorthand for position·velocity < 0.
func (t Target[T]) IsClosing() bool {
	return t.Position.Dot(t.Velocity) < 0
}

// MissDistance is the closest approach of the target to the origin if both
// keep their current velocities. A non-closing target is already at its
// closest point, so its current range is returned.
func (t Target[T]) MissDistance() T {
	if !t.IsClosing() {
		return t.Position.Norm()
	}
	vv := t.Velocity.NormSquared()
	tc := -t.Position.Dot(t.Velocity) / vv
	return t.Position.Add(t.Velocity.Mul(tc)).Norm()
}
