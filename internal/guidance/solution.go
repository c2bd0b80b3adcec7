package guidance

import "missile-guidance/internal/geometry/vector"

// Solution is an intercept found by Aim or Steer. For Aim, Vector is the unit
// launch direction; for Steer it is the velocity change to apply.
type Solution[T vector.Real] struct {
	Vector vector.Vec3[T] `json:"vector"`
	Time   T              `json:"time"`
}

// Aim wraps LinearAim, returning nil when there is no intercept.
func Aim[T vector.Real](target Target[T], speed T) *Solution[T] {
	dir, t, ok := LinearAim(target, speed)
	if !ok {
		return nil
	}
	return &Solution[T]{Vector: dir.Vec(), Time: t}
}

// Steer wraps LinearSteer, returning nil when there is no intercept.
func Steer[T vector.Real](target Target[T], currentVelocity vector.Vec3[T], averageSpeed T) *Solution[T] {
	delta, t, ok := LinearSteer(target, currentVelocity, averageSpeed)
	if !ok {
		return nil
	}
	return &Solution[T]{Vector: delta, Time: t}
}
