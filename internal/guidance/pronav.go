package guidance

import "missile-guidance/internal/geometry/vector"

// IPN is Ideal Proportional Navigation. It returns the desired instantaneous
// acceleration of the pursuer: navigationConstant times the closing velocity
// crossed with the line-of-sight rotation rate. The result is perpendicular
// to target.Velocity.
//
// target.IsClosing() must be true; builds with the guidancedebug tag panic
// otherwise. The target must not sit exactly at the origin, where the line of
// sight rate divides by zero.
func IPN[T vector.Real](navigationConstant T, target Target[T]) vector.Vec3[T] {
	assertf(target.IsClosing(), "guidance: IPN on a target that is not closing (p=%v v=%v)", target.Position, target.Velocity)

	// line-of-sight rotation vector
	w := target.Position.Cross(target.Velocity).Div(target.Position.NormSquared())
	return target.Velocity.Mul(navigationConstant).Cross(w)
}
