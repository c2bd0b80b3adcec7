package vector

// Unit is a vector of length one. The zero value is not a valid direction;
// obtain one from TryNormalize or UnitY.
type Unit[T Real] struct{ v Vec3[T] }

// Vec returns the underlying vector
func (u Unit[T]) Vec() Vec3[T] { return u.v }

// Scale returns the direction stretched to magnitude k
func (u Unit[T]) Scale(k T) Vec3[T] { return u.v.Mul(k) }
