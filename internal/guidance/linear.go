package guidance

import "missile-guidance/internal/geometry/vector"

// EqualSpeedTolerance bounds |v|² − s² below which LinearAim treats the
// projectile and target speeds as equal.
const EqualSpeedTolerance = 1e-3

// LinearAim returns the direction to launch a projectile travelling at speed
// from the origin so that it meets target, and the time of impact. ok is
// false when no intercept exists at a non-negative time.
//
// With |velocity| ≈ speed the impact equation degenerates to a linear one;
// in that equal-speed case LinearAim aims at the target's current position
// with time 0 instead of solving it.
func LinearAim[T vector.Real](target Target[T], speed T) (dir vector.Unit[T], t T, ok bool) {
	// t² (|v|² - s²) + t (2 v·p) + p·p = 0
	a := target.Velocity.NormSquared() - speed*speed
	if vector.Abs(a) < EqualSpeedTolerance {
		dir, ok = target.Position.TryNormalize(0)
		return dir, 0, ok
	}
	b := 2 * target.Position.Dot(target.Velocity)
	c := target.Position.NormSquared()

	rt, ok := vector.TrySqrt(b*b - 4*a*c)
	if !ok {
		return dir, 0, false
	}
	t, ok = earliest((-b+rt)/(2*a), (-b-rt)/(2*a))
	if !ok {
		return dir, 0, false
	}

	dir, ok = target.Position.Add(target.Velocity.Mul(t)).TryNormalize(0)
	if !ok {
		return dir, 0, false
	}
	return dir, t, true
}

// earliest picks the smallest non-negative root.
func earliest[T vector.Real](t0, t1 T) (T, bool) {
	switch {
	case t0 >= 0 && t1 >= 0:
		return min(t0, t1), true
	case t0 >= 0:
		return t0, true
	case t1 >= 0:
		return t1, true
	}
	return 0, false
}

// LinearSteer returns the change in velocity that puts an in-flight
// projectile on an intercept course with target, and the time of impact.
//
// The projectile keeps its current speed; averageSpeed is the speed it is
// expected to hold on average until impact. ok is false whenever LinearAim
// finds no intercept for the equivalent launch problem.
func LinearSteer[T vector.Real](target Target[T], currentVelocity vector.Vec3[T], averageSpeed T) (delta vector.Vec3[T], t T, ok bool) {
	launch := Target[T]{
		Position: target.Position,
		Velocity: target.Velocity.Add(currentVelocity),
	}
	dir, t, ok := LinearAim(launch, averageSpeed)
	if !ok {
		return delta, 0, false
	}
	goal := dir.Scale(currentVelocity.Norm())
	return goal.Sub(currentVelocity), t, true
}
