// Package vector provides generic 3D vector operations
package vector

import "math"

// Real is the set of scalar types the vector math is defined over
type Real interface {
	~float32 | ~float64
}

// Vec3 represents a 3D vector in a pursuer-centred, non-rotating frame
type Vec3[T Real] struct {
	X T `json:"x"`
	Y T `json:"y"`
	Z T `json:"z"`
}

// New creates a new 3D vector with the given components
func New[T Real](x, y, z T) Vec3[T] {
	return Vec3[T]{X: x, Y: y, Z: z}
}

// UnitY returns the +Y axis
func UnitY[T Real]() Unit[T] { return Unit[T]{v: Vec3[T]{Y: 1}} }

// Add returns the sum of two vectors
func (v Vec3[T]) Add(o Vec3[T]) Vec3[T] { return Vec3[T]{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns the difference between two vectors
func (v Vec3[T]) Sub(o Vec3[T]) Vec3[T] { return Vec3[T]{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Mul scales a vector by a scalar
func (v Vec3[T]) Mul(k T) Vec3[T] { return Vec3[T]{v.X * k, v.Y * k, v.Z * k} }

// Div divides every component by a scalar
func (v Vec3[T]) Div(k T) Vec3[T] { return Vec3[T]{v.X / k, v.Y / k, v.Z / k} }

// Neg returns the opposite vector
func (v Vec3[T]) Neg() Vec3[T] { return Vec3[T]{-v.X, -v.Y, -v.Z} }

// Dot returns the dot product of two vectors
func (v Vec3[T]) Dot(o Vec3[T]) T { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Cross returns the cross product of two vectors
func (v Vec3[T]) Cross(o Vec3[T]) Vec3[T] {
	return Vec3[T]{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

// NormSquared returns the squared Euclidean norm
func (v Vec3[T]) NormSquared() T { return v.Dot(v) }

// Norm returns the vector's magnitude (Euclidean norm)
func (v Vec3[T]) Norm() T { return Sqrt(v.NormSquared()) }

// Distance returns the Euclidean distance between two points
func (v Vec3[T]) Distance(o Vec3[T]) T { return v.Sub(o).Norm() }

// IsZero reports whether every component is exactly zero
func (v Vec3[T]) IsZero() bool { return v.X == 0 && v.Y == 0 && v.Z == 0 }

// TryNormalize returns the unit vector in the direction of v, failing when
// the magnitude is not greater than minNorm
func (v Vec3[T]) TryNormalize(minNorm T) (Unit[T], bool) {
	norm := v.Norm()
	if !(norm > minNorm) {
		return Unit[T]{}, false
	}
	return Unit[T]{v: v.Mul(1 / norm)}, true
}

// ClampNorm scales v down so that its magnitude does not exceed limit
func (v Vec3[T]) ClampNorm(limit T) Vec3[T] {
	norm := v.Norm()
	if norm <= limit || norm == 0 {
		return v
	}
	return v.Mul(limit / norm)
}

// Sqrt returns the square root of x in the precision of T
func Sqrt[T Real](x T) T { return T(math.Sqrt(float64(x))) }

// TrySqrt returns the square root of x, failing for negative or NaN input
func TrySqrt[T Real](x T) (T, bool) {
	if !(x >= 0) {
		return 0, false
	}
	return Sqrt(x), true
}

// Abs returns the absolute value of x
func Abs[T Real](x T) T {
	if x < 0 {
		return -x
	}
	return x
}
