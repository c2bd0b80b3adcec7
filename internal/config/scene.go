package config

import (
	"missile-guidance/internal/sim"
)

// SceneConfig overrides fields of sim.DefaultScene; omitted keys keep the
// default value.
type SceneConfig struct {
	Name    string      `yaml:"name"`
	Missile *BodyConfig `yaml:"missile,omitempty"`
	Target  *BodyConfig `yaml:"target,omitempty"`

	MaxSteeringAccel   *float64 `yaml:"max_steering_accel,omitempty"`
	Law                string   `yaml:"law,omitempty"`
	NavigationConstant *float64 `yaml:"navigation_constant,omitempty"`
	BoostTime          *float64 `yaml:"boost_time,omitempty"`
	MaxBoost           *float64 `yaml:"max_boost,omitempty"`
	Timestep           *float64 `yaml:"timestep,omitempty"`
	MaxSteps           *int     `yaml:"max_steps,omitempty"`
}

type BodyConfig struct {
	Position [3]float64 `yaml:"position"`
	Velocity [3]float64 `yaml:"velocity"`
}

func (b BodyConfig) body() sim.Body {
	return sim.Body{
		Position: sim.Vec{X: b.Position[0], Y: b.Position[1], Z: b.Position[2]},
		Velocity: sim.Vec{X: b.Velocity[0], Y: b.Velocity[1], Z: b.Velocity[2]},
	}
}

// ToScene applies the overrides and validates the result.
func (c SceneConfig) ToScene() (sim.Scene, error) {
	s := sim.DefaultScene()
	if c.Name != "" {
		s.Name = c.Name
	}
	if c.Missile != nil {
		s.Missile = c.Missile.body()
	}
	if c.Target != nil {
		s.Target = c.Target.body()
	}
	if c.Law != "" {
		s.Law = sim.Law(c.Law)
	}
	set(&s.MaxSteeringAccel, c.MaxSteeringAccel)
	set(&s.NavigationConstant, c.NavigationConstant)
	set(&s.BoostTime, c.BoostTime)
	set(&s.MaxBoost, c.MaxBoost)
	set(&s.Timestep, c.Timestep)
	set(&s.MaxSteps, c.MaxSteps)

	if err := s.Validate(); err != nil {
		return sim.Scene{}, err
	}
	return s, nil
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
