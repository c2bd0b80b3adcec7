package sim

import (
	"missile-guidance/internal/env"
	"missile-guidance/internal/geometry/vector"
	"missile-guidance/internal/guidance"
	"missile-guidance/internal/metrics"
)

// Sim integrates one Scene step by step. It is not safe for concurrent use.
type Sim struct {
	scene       Scene
	environment env.Effect
	metrics     *metrics.Collector

	Missile Body
	Target  Body

	steps      int
	noSolution int
	steering   Vec
	peak       Vec
	warning    string
	timedOut   bool
}

// NewSim prepares scene for stepping. environment may be nil.
func NewSim(scene Scene, environment env.Effect) *Sim {
	if environment == nil {
		environment = env.NoOp
	}
	return &Sim{
		scene:       scene,
		environment: environment,
		Missile:     scene.Missile,
		Target:      scene.Target,
	}
}

// WithMetrics counts guidance solutions on m.
func (s *Sim) WithMetrics(m *metrics.Collector) *Sim {
	s.metrics = m
	return s
}

func (s *Sim) Scene() Scene { return s.scene }

// Relative is the target as seen from the missile.
func (s *Sim) Relative() guidance.Target[float64] {
	return guidance.Target[float64]{
		Position: s.Target.Position.Sub(s.Missile.Position),
		Velocity: s.Target.Velocity.Sub(s.Missile.Velocity),
	}
}

func (s *Sim) Distance() float64 { return s.Target.Position.Distance(s.Missile.Position) }

func (s *Sim) Steps() int { return s.steps }

// SimTime is the simulated time elapsed, in seconds.
func (s *Sim) SimTime() float64 { return float64(s.steps) * s.scene.Timestep }

// Steering is the steering acceleration applied on the last step.
func (s *Sim) Steering() Vec { return s.steering }

// Warning is the last environment warning, if any.
func (s *Sim) Warning() string { return s.warning }

// Step advances the engagement by one timestep and reports whether it is
// over: the target was no longer closing at the start of the step, or the
// scene ran out of steps.
func (s *Sim) Step() bool {
	dt := s.scene.Timestep
	target := s.Relative()
	closing := target.IsClosing()

	s.steering = Vec{}
	if closing {
		if a, ok := s.command(target); ok {
			s.steering = a.ClampNorm(s.scene.MaxSteeringAccel)
		} else {
			s.noSolution++
		}
	}
	if s.steering.NormSquared() > s.peak.NormSquared() {
		s.peak = s.steering
	}

	boost := Vec{}
	if s.scene.BoostTime > 0 && float64(s.steps)*dt <= s.scene.BoostTime {
		dir, ok := s.Missile.Velocity.TryNormalize(1e-3)
		if !ok {
			dir = vector.UnitY[float64]()
		}
		boost = dir.Scale(s.scene.MaxBoost / s.scene.BoostTime)
	}

	s.Target.Integrate(Vec{}, dt)
	s.Missile.Integrate(s.steering.Add(boost), dt)

	var w1, w2 string
	s.Target.Position, s.Target.Velocity, w1 = s.environment.Apply(dt, s.Target.Position, s.Target.Velocity)
	s.Missile.Position, s.Missile.Velocity, w2 = s.environment.Apply(dt, s.Missile.Position, s.Missile.Velocity)
	if w2 != "" {
		s.warning = "missile " + w2
	} else if w1 != "" {
		s.warning = "target " + w1
	} else {
		s.warning = ""
	}

	s.steps++
	if !closing {
		return true
	}
	if s.steps >= s.scene.MaxSteps {
		s.timedOut = true
		return true
	}
	return false
}

// command is the unclamped steering acceleration for the scene's law.
func (s *Sim) command(target guidance.Target[float64]) (Vec, bool) {
	switch s.scene.Law {
	case LawIPN:
		return guidance.IPN(s.scene.NavigationConstant, target), true
	default:
		current := s.Missile.Velocity
		delta, _, ok := guidance.LinearSteer(target, current, current.Norm())
		s.metrics.RecordSolution("steer", ok)
		if !ok {
			return Vec{}, false
		}
		return delta.Div(s.scene.Timestep), true
	}
}

func (s *Sim) Result() Result {
	return Result{
		Steps:           s.steps,
		Miss:            s.Distance(),
		PeakSteering:    s.peak.Norm(),
		NoSolutionSteps: s.noSolution,
		Duration:        s.SimTime(),
		TimedOut:        s.timedOut,
	}
}

// Run validates scene and steps it to completion, calling observe (if not
// nil) before every step. An observer error stops the run; the partial
// result is returned with it.
func Run(scene Scene, environment env.Effect, observe func(*Sim) error) (Result, error) {
	if err := scene.Validate(); err != nil {
		return Result{}, err
	}
	s := NewSim(scene, environment)
	for {
		if observe != nil {
			if err := observe(s); err != nil {
				return s.Result(), err
			}
		}
		if s.Step() {
			return s.Result(), nil
		}
	}
}
