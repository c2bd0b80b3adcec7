package env

// Axis selects the vertical component a Floor acts on.
type Axis int

const (
	AxisZ Axis = iota
	AxisY
)

// Floor keeps a body at or above a flat altitude plane.
type Floor struct {
	Axis     Axis
	Altitude float64
}

// Apply clips the body back onto the plane and cancels velocity into it.
func (f Floor) Apply(_ float64, pos, vel Vec) (Vec, Vec, string) {
	alt, climb := &pos.Z, &vel.Z
	if f.Axis == AxisY {
		alt, climb = &pos.Y, &vel.Y
	}
	if *alt >= f.Altitude {
		return pos, vel, ""
	}
	*alt = f.Altitude
	if *climb < 0 {
		*climb = 0
	}
	return pos, vel, "floor: altitude clipped"
}
