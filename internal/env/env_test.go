package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChainOrderAndWarning(t *testing.T) {
	c := &Chain{Effects: []Effect{
		Wind{Velocity: Vec{Z: -20}},
		Floor{Altitude: 0},
		NoOp,
	}}
	pos, vel, warn := c.Apply(1, Vec{Z: 5}, Vec{X: 1, Z: -3})

	// drift pushes below the floor, the floor clips it back
	assert.Equal(t, Vec{Z: 0}, pos)
	assert.Equal(t, Vec{X: 1}, vel)
	assert.Equal(t, "floor: altitude clipped", warn)
	assert.Equal(t, 3, c.Len())
}

func TestFloorAxisY(t *testing.T) {
	f := Floor{Axis: AxisY, Altitude: 10}
	pos, vel, warn := f.Apply(0.1, Vec{Y: 12}, Vec{Y: -1})
	assert.Equal(t, Vec{Y: 12}, pos)
	assert.Equal(t, Vec{Y: -1}, vel)
	assert.Empty(t, warn)

	pos, vel, warn = f.Apply(0.1, Vec{X: 3, Y: 2}, Vec{Y: 4})
	assert.Equal(t, Vec{X: 3, Y: 10}, pos)
	assert.Equal(t, Vec{Y: 4}, vel)
	assert.NotEmpty(t, warn)
}

func TestWind(t *testing.T) {
	w := FromSpeedAndDir(10, 90)
	pos, vel, _ := w.Apply(2, Vec{}, Vec{Y: 1})
	assert.InDelta(t, 20, pos.X, 1e-9)
	assert.InDelta(t, 0, pos.Y, 1e-9)
	assert.Equal(t, Vec{Y: 1}, vel)

	pos, _, _ = Calm().Apply(5, Vec{X: 1}, Vec{})
	assert.Equal(t, Vec{X: 1}, pos)
}

func TestNilChain(t *testing.T) {
	var c *Chain
	assert.Equal(t, 0, c.Len())
}
