package sim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"missile-guidance/internal/env"
	"missile-guidance/internal/logging"
	"missile-guidance/internal/metrics"
)

var (
	ErrBusy           = errors.New("engine command queue full")
	ErrNoScenes       = errors.New("sequence has no scenes")
	ErrUnknownCommand = errors.New("unsupported command")
)

type stateReq struct {
	reply chan EngagementState
}

type subscribeReq struct {
	ch chan EngagementState
}

type Engine struct {
	// Actor channels
	cmdCh       chan Command
	stateReqCh  chan stateReq
	subscribeCh chan subscribeReq
	unsubCh     chan chan EngagementState

	tickHz       float64
	stepsPerTick int
	environment  env.Effect
	log          *zap.Logger
	metrics      *metrics.Collector
}

type Config struct {
	TickHz       float64
	StepsPerTick int

	Environment env.Effect
	Logger      *zap.Logger
	Metrics     *metrics.Collector
}

func New(cfg Config) *Engine {
	if cfg.TickHz <= 0 {
		cfg.TickHz = DefaultFramerate
	}
	if cfg.StepsPerTick <= 0 {
		cfg.StepsPerTick = DefaultStepsPerFrame
	}
	return &Engine{
		cmdCh:        make(chan Command, 128),
		stateReqCh:   make(chan stateReq, 32),
		subscribeCh:  make(chan subscribeReq, 32),
		unsubCh:      make(chan chan EngagementState, 32),
		tickHz:       cfg.TickHz,
		stepsPerTick: cfg.StepsPerTick,
		environment:  cfg.Environment,
		log:          logging.OrNop(cfg.Logger),
		metrics:      cfg.Metrics,
	}
}

// Submit validates cmd and queues it for the engine loop.
func (e *Engine) Submit(cmd Command) error {
	switch c := cmd.(type) {
	case LaunchCommand:
		if err := c.Scene.Validate(); err != nil {
			return err
		}
	case SequenceCommand:
		if len(c.Scenes) == 0 {
			return ErrNoScenes
		}
		for i, s := range c.Scenes {
			if err := s.Validate(); err != nil {
				return fmt.Errorf("scene %d: %w", i, err)
			}
		}
	case HoldCommand, ResumeCommand, AbortCommand, StopCommand:
	default:
		return fmt.Errorf("%w: %T", ErrUnknownCommand, cmd)
	}

	select {
	case e.cmdCh <- cmd:
		return nil
	default:
		e.log.Warn("command dropped", zap.String("type", string(cmd.Type())))
		return ErrBusy
	}
}

func (e *Engine) GetState(ctx context.Context) (EngagementState, error) {
	req := stateReq{reply: make(chan EngagementState, 1)}
	select {
	case e.stateReqCh <- req:
	case <-ctx.Done():
		return EngagementState{}, ctx.Err()
	}

	select {
	case st := <-req.reply:
		return st, nil
	case <-ctx.Done():
		return EngagementState{}, ctx.Err()
	}
}

func (e *Engine) Subscribe(ctx context.Context) (<-chan EngagementState, func()) {
	ch := make(chan EngagementState, 32)

	select {
	case e.subscribeCh <- subscribeReq{ch: ch}:
	case <-ctx.Done():
		close(ch)
		return ch, func() {}
	}

	unsub := func() {
		select {
		case e.unsubCh <- ch:
		default:
		}
	}
	return ch, unsub
}

// queued is a scene waiting to fly.
type queued struct {
	id    string
	scene Scene
}

func (e *Engine) Run(ctx context.Context) error {
	// Actor-owned state
	now := time.Now()

	var (
		sim    *Sim
		id     string
		result *Result
		range0 float64
		queue  []queued
		loop   []queued
	)
	status := StatusIdle

	subs := map[chan EngagementState]struct{}{}

	buildSnapshot := func(ts time.Time) EngagementState {
		if sim == nil {
			return EngagementState{Status: status, ID: id, Result: result, Queued: len(queue), TS: ts}
		}
		rel := sim.Relative()
		st := EngagementState{
			ID:           id,
			Scene:        sim.Scene().Name,
			Status:       status,
			Step:         sim.Steps(),
			SimTime:      sim.SimTime(),
			Missile:      sim.Missile,
			Target:       sim.Target,
			Distance:     sim.Distance(),
			Closing:      rel.IsClosing(),
			HeadingDeg:   HeadingDeg(sim.Missile.Velocity),
			ElevationDeg: ElevationDeg(sim.Missile.Velocity),
			Steering:     sim.Steering(),
			Queued:       len(queue),
			Warning:      sim.Warning(),
			Result:       result,
			TS:           ts,
		}
		if range0 > 0 {
			st.Progress = min(1, max(0, 1-st.Distance/range0))
		}
		return st
	}

	publish := func(st EngagementState) {
		for ch := range subs {
			select {
			case ch <- st:
			default:
				// slow subscriber -> drop frame
			}
		}
	}

	start := func(q queued) {
		sim = NewSim(q.scene, e.environment).WithMetrics(e.metrics)
		id = q.id
		status = StatusRunning
		result = nil
		range0 = sim.Distance()
		e.log.Info("engagement launched",
			zap.String("id", id),
			zap.String("scene", q.scene.Name),
			zap.String("law", string(q.scene.Law)),
			zap.Float64("range", range0),
		)
	}

	// next starts the following queued scene, refilling from loop when empty.
	next := func() bool {
		if len(queue) == 0 && len(loop) > 0 {
			queue = append(queue, loop...)
		}
		if len(queue) == 0 {
			return false
		}
		q := queue[0]
		queue = queue[1:]
		start(q)
		return true
	}

	finish := func(outcome string) {
		r := sim.Result()
		result = &r
		if outcome == metrics.OutcomeAborted {
			status = StatusAborted
		} else {
			status = StatusFinished
		}
		e.metrics.RecordEngagement(outcome, r.Miss)
		e.log.Info("engagement over",
			zap.String("id", id),
			zap.String("outcome", outcome),
			zap.Int("steps", r.Steps),
			zap.Float64("miss", r.Miss),
			zap.Float64("peakSteering", r.PeakSteering),
			zap.Int("noSolutionSteps", r.NoSolutionSteps),
		)
		publish(buildSnapshot(now))
	}

	newID := func(prefix string, i int) string {
		if prefix == "" {
			return uuid.NewString()
		}
		return fmt.Sprintf("%s/%d", prefix, i)
	}

	tick := time.NewTicker(time.Duration(float64(time.Second) / e.tickHz))
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			for ch := range subs {
				close(ch)
			}
			return nil

		case req := <-e.subscribeCh:
			subs[req.ch] = struct{}{}
			req.ch <- buildSnapshot(now)

		case ch := <-e.unsubCh:
			if _, ok := subs[ch]; ok {
				delete(subs, ch)
				close(ch)
			}

		case req := <-e.stateReqCh:
			req.reply <- buildSnapshot(now)

		case cmd := <-e.cmdCh:
			switch c := cmd.(type) {
			case LaunchCommand:
				if status == StatusRunning || status == StatusHeld {
					finish(metrics.OutcomeAborted)
				}
				queue, loop = nil, nil
				lid := c.ID
				if lid == "" {
					lid = uuid.NewString()
				}
				start(queued{id: lid, scene: c.Scene})

			case SequenceCommand:
				if status == StatusRunning || status == StatusHeld {
					finish(metrics.OutcomeAborted)
				}
				queue, loop = nil, nil
				for i, s := range c.Scenes {
					queue = append(queue, queued{id: newID(c.ID, i), scene: s})
				}
				if c.Loop {
					loop = append(loop, queue...)
				}
				next()

			case HoldCommand:
				if status == StatusRunning {
					status = StatusHeld
				}

			case ResumeCommand:
				if status == StatusHeld {
					status = StatusRunning
				}

			case AbortCommand:
				if status == StatusRunning || status == StatusHeld {
					finish(metrics.OutcomeAborted)
					next()
				}

			case StopCommand:
				if status == StatusRunning || status == StatusHeld {
					finish(metrics.OutcomeAborted)
				}
				queue, loop = nil, nil
			}
			publish(buildSnapshot(now))

		case t := <-tick.C:
			now = t
			if status != StatusRunning {
				continue
			}

			done := false
			steps := 0
			for steps < e.stepsPerTick && !done {
				done = sim.Step()
				steps++
			}
			e.metrics.AddSteps(steps)

			if done {
				outcome := metrics.OutcomeFinished
				if sim.Result().TimedOut {
					outcome = metrics.OutcomeTimeout
				}
				finish(outcome)
				if !next() {
					continue
				}
			}
			publish(buildSnapshot(now))
		}
	}
}
