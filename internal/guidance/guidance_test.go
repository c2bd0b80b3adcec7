package guidance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"missile-guidance/internal/geometry/vector"
)

type vec = vector.Vec3[float64]

func v3(x, y, z float64) vec { return vector.New(x, y, z) }

func TestIsClosing(t *testing.T) {
	cases := []struct {
		name string
		tgt  Target[float64]
		want bool
	}{
		{"head-on", Target[float64]{v3(0, 0, -10), v3(0, 0, 1)}, true},
		{"receding", Target[float64]{v3(0, 0, 10), v3(0, 0, 1)}, false},
		{"crossing", Target[float64]{v3(10, 0, 0), v3(0, 1, 0)}, false},
		{"stationary", Target[float64]{v3(10, 0, 0), v3(0, 0, 0)}, false},
		{"oblique", Target[float64]{v3(0, 0, 10), v3(0, 1, -1)}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.tgt.IsClosing())
		})
	}
}

// miss flies the pursuer under IPN until the target stops closing and
// returns the final range.
func miss(t *testing.T, target Target[float64]) float64 {
	t.Helper()
	const timestep = 1e-2
	for steps := 0; target.IsClosing(); steps++ {
		require.Less(t, steps, 1_000_000, "engagement did not terminate")
		// semi-implicit euler
		acceleration := IPN(3.0, target)
		require.InDelta(t, 0, acceleration.Dot(target.Velocity), 1e-3)
		target.Velocity = target.Velocity.Add(acceleration.Neg().Mul(timestep))
		target.Position = target.Position.Add(target.Velocity.Mul(timestep))
	}
	return target.Position.Norm()
}

func TestIPNLinear(t *testing.T) {
	assert.Less(t, miss(t, Target[float64]{v3(0, 0, -10), v3(0, 0, 1)}), 1.0)
}

func TestIPNDeflection(t *testing.T) {
	assert.Less(t, miss(t, Target[float64]{v3(0, -1, -10), v3(0, 1, 0.1)}), 1.0)
}

func TestIPNBehind(t *testing.T) {
	assert.Less(t, miss(t, Target[float64]{v3(0, 0, 10), v3(0, 1, -1)}), 1.0)
}

func TestIPNPerpendicular(t *testing.T) {
	targets := []Target[float64]{
		{v3(100, 20, -5), v3(-30, 1, 2)},
		{v3(-4, 9, 1), v3(2, -3, 0.5)},
		{v3(1e4, 3e3, 0), v3(-3e3, -1e3, 0)},
	}
	for _, tgt := range targets {
		require.True(t, tgt.IsClosing())
		for _, n := range []float64{2, 3, 4, 5} {
			a := IPN(n, tgt)
			cos := a.Dot(tgt.Velocity) / (a.Norm()*tgt.Velocity.Norm() + 1e-300)
			assert.InDelta(t, 0, cos, 1e-9)
		}
	}
}

func TestIPNHeadOnIsZero(t *testing.T) {
	// no line-of-sight rotation, no command
	a := IPN(4.0, Target[float64]{v3(0, 0, -10), v3(0, 0, 3)})
	assert.InDelta(t, 0, a.Norm(), 1e-12)
}

// assertIntercept checks that a projectile launched along dir at speed meets
// the target at time tt.
func assertIntercept(t *testing.T, tgt Target[float64], speed float64, dir vector.Unit[float64], tt float64) {
	t.Helper()
	assert.InDelta(t, 1, dir.Vec().Norm(), 1e-9)
	assert.GreaterOrEqual(t, tt, 0.0)
	impact := tgt.Position.Add(tgt.Velocity.Mul(tt))
	shot := dir.Scale(speed * tt)
	assert.InDelta(t, 0, impact.Sub(shot).Norm(), 1e-6*math.Max(1, impact.Norm()))
	// co-linear from the origin
	assert.InDelta(t, 0, impact.Cross(dir.Vec()).Norm(), 1e-6*math.Max(1, impact.Norm()))
}

func TestLinearAimCrossing(t *testing.T) {
	tgt := Target[float64]{v3(10, 0, 0), v3(0, 1, 0)}
	dir, tt, ok := LinearAim(tgt, 2)
	require.True(t, ok)
	assert.InDelta(t, 10/math.Sqrt(3), tt, 1e-9)
	assertIntercept(t, tgt, 2, dir, tt)
}

func TestLinearAimProperties(t *testing.T) {
	cases := []struct {
		tgt   Target[float64]
		speed float64
	}{
		{Target[float64]{v3(0, 0, -10), v3(0, 0, 1)}, 3},
		{Target[float64]{v3(100, 50, 0), v3(0, 0, 0)}, 10},
		{Target[float64]{v3(1e4, 3e3, 0), v3(-2e3, 0, 0)}, 1e3},
		{Target[float64]{v3(-20, 5, 7), v3(3, 3, -1)}, 8},
		{Target[float64]{v3(10, 0, 0), v3(4, 0, 0)}, 5},
	}
	for _, tc := range cases {
		dir, tt, ok := LinearAim(tc.tgt, tc.speed)
		require.True(t, ok, "target %+v speed %v", tc.tgt, tc.speed)
		assertIntercept(t, tc.tgt, tc.speed, dir, tt)
	}
}

func TestLinearAimEqualSpeed(t *testing.T) {
	tgt := Target[float64]{v3(0, 10, 0), v3(1, 0, 0)}
	dir, tt, ok := LinearAim(tgt, 1)
	require.True(t, ok)
	assert.Equal(t, 0.0, tt)
	assert.Equal(t, v3(0, 1, 0), dir.Vec())
}

func TestLinearAimEqualSpeedAtOrigin(t *testing.T) {
	_, _, ok := LinearAim(Target[float64]{v3(0, 0, 0), v3(1, 0, 0)}, 1)
	assert.False(t, ok)
}

func TestLinearAimNegativeDiscriminant(t *testing.T) {
	_, _, ok := LinearAim(Target[float64]{v3(10, 0, 0), v3(0, 2, 0)}, 1)
	assert.False(t, ok)
}

func TestLinearAimBothRootsNegative(t *testing.T) {
	// faster target running away: both impact times lie in the past
	assert.NotPanics(t, func() {
		_, _, ok := LinearAim(Target[float64]{v3(10, 0, 0), v3(2, 0, 0)}, 1)
		assert.False(t, ok)
	})
}

func TestLinearAimRepeatedRoot(t *testing.T) {
	tgt := Target[float64]{v3(10, 0, 0), v3(-2, 1, 0)}
	dir, tt, ok := LinearAim(tgt, 1)
	require.True(t, ok)
	assert.InDelta(t, 5, tt, 1e-12)
	assert.InDelta(t, 0, dir.Vec().Sub(v3(0, 1, 0)).Norm(), 1e-12)
	assertIntercept(t, tgt, 1, dir, tt)
}

func TestLinearAimFloat32(t *testing.T) {
	tgt := Target[float32]{vector.New[float32](10, 0, 0), vector.New[float32](0, 1, 0)}
	dir, tt, ok := LinearAim(tgt, float32(2))
	require.True(t, ok)
	assert.InDelta(t, 10/math.Sqrt(3), float64(tt), 1e-4)
	assert.InDelta(t, 1, float64(dir.Vec().Norm()), 1e-5)
}

func TestLinearSteerStationaryTarget(t *testing.T) {
	current := v3(10, 0, 0)
	// stationary target at (100, 50) seen from a pursuer moving along +X
	tgt := Target[float64]{v3(100, 50, 0), current.Neg()}

	delta, tt, ok := LinearSteer(tgt, current, current.Norm())
	require.True(t, ok)
	assert.InDelta(t, math.Sqrt(125), tt, 1e-9)

	next := current.Add(delta)
	assert.InDelta(t, current.Norm(), next.Norm(), 1e-9)
	assert.InDelta(t, 0, next.Cross(tgt.Position).Norm(), 1e-9)
	assert.Greater(t, next.Dot(tgt.Position), 0.0)
}

func TestLinearSteerReducesMiss(t *testing.T) {
	cases := []struct {
		tgt     Target[float64]
		current vec
	}{
		{Target[float64]{v3(100, 50, 0), v3(-10, 0, 0)}, v3(10, 0, 0)},
		{Target[float64]{v3(1e4, 3e3, 0), v3(-3e3, -1e3, 0)}, v3(0, 1e3, 0)},
		{Target[float64]{v3(50, -20, 30), v3(-12, 4, -2)}, v3(8, 0, 3)},
	}
	for _, tc := range cases {
		delta, _, ok := LinearSteer(tc.tgt, tc.current, tc.current.Norm())
		require.True(t, ok)

		corrected := Target[float64]{
			Position: tc.tgt.Position,
			Velocity: tc.tgt.Velocity.Sub(delta),
		}
		before := tc.tgt.MissDistance()
		after := corrected.MissDistance()
		assert.Less(t, after, before)
		assert.InDelta(t, 0, after, 1e-6*tc.tgt.Position.Norm())

		_, _, ok = LinearAim(corrected, tc.current.Norm())
		assert.True(t, ok)
	}
}

func TestLinearSteerPropagatesNoSolution(t *testing.T) {
	current := v3(1, 0, 0)
	// absolute target velocity (3,0,0) outruns the pursuer
	tgt := Target[float64]{v3(10, 0, 0), v3(2, 0, 0)}
	_, _, ok := LinearSteer(tgt, current, 1)
	assert.False(t, ok)
	assert.Nil(t, Steer(tgt, current, 1))
}

func TestSolutionWrappers(t *testing.T) {
	tgt := Target[float64]{v3(10, 0, 0), v3(0, 1, 0)}
	s := Aim(tgt, 2)
	require.NotNil(t, s)
	assert.InDelta(t, 1, s.Vector.Norm(), 1e-12)
	assert.Nil(t, Aim(Target[float64]{v3(10, 0, 0), v3(0, 2, 0)}, 1))
}

func TestMissDistance(t *testing.T) {
	assert.InDelta(t, 5, Target[float64]{v3(-10, 5, 0), v3(1, 0, 0)}.MissDistance(), 1e-12)
	assert.InDelta(t, 10, Target[float64]{v3(10, 0, 0), v3(1, 0, 0)}.MissDistance(), 1e-12)
}
