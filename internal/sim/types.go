package sim

import (
	"errors"
	"fmt"
	"time"

	"missile-guidance/internal/geometry/vector"
)

type Vec = vector.Vec3[float64]

// Law selects how the missile computes its steering acceleration.
type Law string

const (
	// LawSteer flies linear intercept corrections (LinearSteer).
	LawSteer Law = "steer"
	// LawIPN flies ideal proportional navigation.
	LawIPN Law = "ipn"
)

// Body is a point mass in the world frame.
type Body struct {
	Position Vec `json:"position" yaml:"position"`
	Velocity Vec `json:"velocity" yaml:"velocity"`
}

// Integrate advances the body by dt with semi-implicit Euler.
func (b *Body) Integrate(acceleration Vec, dt float64) {
	b.Velocity = b.Velocity.Add(acceleration.Mul(dt))
	b.Position = b.Position.Add(b.Velocity.Mul(dt))
}

// Scene is one missile vs target engagement.
type Scene struct {
	Name    string `json:"name,omitempty"`
	Missile Body   `json:"missile"`
	Target  Body   `json:"target"`

	MaxSteeringAccel   float64 `json:"maxSteeringAccel"`
	Law                Law     `json:"law,omitempty"`
	NavigationConstant float64 `json:"navigationConstant,omitempty"`

	// Boost accelerates the missile along its velocity until MaxBoost m/s
	// have been added over BoostTime seconds
	BoostTime float64 `json:"boostTime"`
	MaxBoost  float64 `json:"maxBoost"`

	Timestep float64 `json:"timestep,omitempty"` // seconds per step
	MaxSteps int     `json:"maxSteps,omitempty"`
}

const (
	DefaultFramerate     = 30
	DefaultStepsPerFrame = 10
	DefaultTimestep      = 1.0 / (DefaultStepsPerFrame * DefaultFramerate)
	DefaultMaxSteps      = 1_000_000
)

// DefaultScene is the reference engagement: a missile climbing along +Y
// against a target crossing right to left.
func DefaultScene() Scene {
	return Scene{
		Name: "crossing",
		Missile: Body{
			Position: Vec{},
			Velocity: Vec{Y: 1e3},
		},
		Target: Body{
			Position: Vec{X: 1e4, Y: 3e3},
			Velocity: Vec{X: -2e3},
		},
		MaxSteeringAccel:   1e3,
		Law:                LawSteer,
		NavigationConstant: 3,
		BoostTime:          2,
		MaxBoost:           1e3,
		Timestep:           DefaultTimestep,
		MaxSteps:           DefaultMaxSteps,
	}
}

var ErrInvalidScene = errors.New("invalid scene")

func (s Scene) Validate() error {
	switch {
	case s.Timestep <= 0:
		return fmt.Errorf("%w: timestep must be positive", ErrInvalidScene)
	case s.MaxSteeringAccel < 0:
		return fmt.Errorf("%w: maxSteeringAccel must not be negative", ErrInvalidScene)
	case s.BoostTime < 0 || s.MaxBoost < 0:
		return fmt.Errorf("%w: boost must not be negative", ErrInvalidScene)
	case s.MaxSteps <= 0:
		return fmt.Errorf("%w: maxSteps must be positive", ErrInvalidScene)
	}
	switch s.Law {
	case LawSteer:
	case LawIPN:
		if s.NavigationConstant <= 0 {
			return fmt.Errorf("%w: navigationConstant must be positive", ErrInvalidScene)
		}
	default:
		return fmt.Errorf("%w: unknown law %q", ErrInvalidScene, s.Law)
	}
	return nil
}

// Result summarises a completed engagement.
type Result struct {
	Steps           int     `json:"steps"`
	Miss            float64 `json:"miss"`
	PeakSteering    float64 `json:"peakSteering"`
	NoSolutionSteps int     `json:"noSolutionSteps"`
	Duration        float64 `json:"duration"` // simulated seconds
	TimedOut        bool    `json:"timedOut,omitempty"`
}

func (r Result) String() string {
	return fmt.Sprintf("%d steps; miss by %g; peak steering accel %g", r.Steps, r.Miss, r.PeakSteering)
}

type Status string

const (
	StatusIdle     Status = "idle"
	StatusRunning  Status = "running"
	StatusHeld     Status = "held"
	StatusFinished Status = "finished"
	StatusAborted  Status = "aborted"
)

// EngagementState is the snapshot published by the engine.
type EngagementState struct {
	ID     string `json:"id,omitempty"`
	Scene  string `json:"scene,omitempty"`
	Status Status `json:"status"`

	Step    int     `json:"step"`
	SimTime float64 `json:"simTime"`

	Missile Body `json:"missile"`
	Target  Body `json:"target"`

	Distance     float64 `json:"distance"`
	Closing      bool    `json:"closing"`
	HeadingDeg   float64 `json:"headingDeg"`
	ElevationDeg float64 `json:"elevationDeg"`
	Steering     Vec     `json:"steering"`
	Progress     float64 `json:"progress"`

	Queued  int       `json:"queued,omitempty"`
	Warning string    `json:"warning,omitempty"`
	Result  *Result   `json:"result,omitempty"`
	TS      time.Time `json:"ts"`
}
