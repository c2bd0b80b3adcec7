package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"missile-guidance/internal/env"
	"missile-guidance/internal/sim"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())

	scenes, err := Default().SceneList()
	require.NoError(t, err)
	require.Len(t, scenes, 1)
	assert.Equal(t, sim.DefaultScene(), scenes[0])
	assert.Equal(t, env.NoOp, Default().Sim.Effect())
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
server:
  addr: ":9090"
  shutdown_timeout: 2s
sim:
  tick_hz: 60
  wind:
    velocity: [5, 2, 0]
  floor:
    axis: y
    altitude: -10
scenes:
  - name: slow
    law: ipn
    navigation_constant: 4
    max_steps: 50
    target:
      position: [100, 0, 0]
      velocity: [-10, 0, 0]
`))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 2*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadHeaderTimeout)
	assert.Equal(t, 60.0, cfg.Sim.TickHz)
	assert.Equal(t, sim.DefaultStepsPerFrame, cfg.Sim.StepsPerTick)
	assert.Equal(t, "info", cfg.Log.Level)

	chain, ok := cfg.Sim.Effect().(*env.Chain)
	require.True(t, ok)
	require.Len(t, chain.Effects, 2)
	assert.Equal(t, env.Wind{Velocity: env.Vec{X: 5, Y: 2}}, chain.Effects[0])
	assert.Equal(t, env.Floor{Axis: env.AxisY, Altitude: -10}, chain.Effects[1])

	scenes, err := cfg.SceneList()
	require.NoError(t, err)
	require.Len(t, scenes, 1)
	s := scenes[0]
	assert.Equal(t, "slow", s.Name)
	assert.Equal(t, sim.LawIPN, s.Law)
	assert.Equal(t, 4.0, s.NavigationConstant)
	assert.Equal(t, 50, s.MaxSteps)
	assert.Equal(t, sim.Vec{X: 100}, s.Target.Position)
	assert.Equal(t, sim.DefaultScene().Missile, s.Missile)
	assert.Equal(t, sim.DefaultTimestep, s.Timestep)
}

func TestParseRejects(t *testing.T) {
	cases := map[string]string{
		"yaml":      "server: [",
		"level":     "log: {level: loud}",
		"addr":      `server: {addr: ""}`,
		"tick":      "sim: {tick_hz: 0}",
		"axis":      "sim: {floor: {axis: w}}",
		"ratelimit": "rate_limit: {rps: -1}",
		"scene":     "scenes: [{law: pursuit}]",
	}
	for name, doc := range cases {
		_, err := Parse([]byte(doc))
		assert.Error(t, err, name)
		if name != "yaml" {
			assert.ErrorIs(t, err, ErrInvalid, name)
		}
	}
}

func TestLoad(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	cfg, err := Load(filepath.Join("..", "..", "configs", "config.example.yaml"))
	require.NoError(t, err)
	scenes, err := cfg.SceneList()
	require.NoError(t, err)
	require.Len(t, scenes, 2)
	assert.Equal(t, sim.LawIPN, scenes[1].Law)
}
