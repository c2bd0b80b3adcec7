// Command anim flies engagements offline and reports how close each missile
// got. It can write a PNG per frame or show the engagement live in the
// terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"missile-guidance/internal/config"
	"missile-guidance/internal/env"
	"missile-guidance/internal/logging"
	"missile-guidance/internal/render"
	"missile-guidance/internal/sim"
)

var (
	configPath = flag.String("config", "", "YAML config with scenes and environment")
	framesDir  = flag.String("frames", "", "Write scene_<n>-frame_<m>.png into this directory")
	liveTUI    = flag.Bool("tui", false, "Show the engagement live in the terminal")
	quiet      = flag.Bool("quiet", false, "No progress bar")
	logLevel   = flag.String("log-level", "warn", "Log level")
)

var errQuit = errors.New("quit")

func main() {
	flag.Parse()

	logger, err := logging.New(*logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(logger); err != nil && !errors.Is(err, errQuit) {
		logger.Error("anim failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(logger *zap.Logger) error {
	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return err
		}
	}
	scenes, err := cfg.SceneList()
	if err != nil {
		return err
	}
	effect := cfg.Sim.Effect()

	if *framesDir != "" {
		if err := os.MkdirAll(*framesDir, 0o755); err != nil {
			return fmt.Errorf("frames dir: %w", err)
		}
	}

	switch {
	case *liveTUI:
		return runTUI(scenes, effect)
	case !*quiet && term.IsTerminal(int(os.Stdout.Fd())):
		return runSequential(scenes, effect)
	default:
		return runParallel(logger, scenes, effect)
	}
}

// newFrames is nil when frame output is disabled.
func newFrames() *render.Frames {
	if *framesDir == "" {
		return nil
	}
	return render.NewFrames(*framesDir)
}

// recorder writes a frame of scene num every DefaultStepsPerFrame steps.
// frames may be nil.
func recorder(frames *render.Frames, num int) func(*sim.Sim) error {
	if frames == nil {
		return func(*sim.Sim) error { return nil }
	}
	return func(s *sim.Sim) error {
		if s.Steps()%sim.DefaultStepsPerFrame != 0 {
			return nil
		}
		return frames.Draw(num, s.Steps()/sim.DefaultStepsPerFrame, s.Missile, s.Target)
	}
}

func report(num int, res sim.Result) {
	fmt.Printf("%d: %s\n", num, res)
}

func runSequential(scenes []sim.Scene, effect env.Effect) error {
	progress := render.NewProgress(os.Stdout)
	frames := newFrames()
	for num, scene := range scenes {
		if frames != nil {
			frames.Reset()
		}
		record := recorder(frames, num)
		var range0 float64
		res, err := sim.Run(scene, effect, func(s *sim.Sim) error {
			if s.Steps() == 0 {
				range0 = s.Distance()
			}
			if s.Steps()%sim.DefaultStepsPerFrame == 0 && range0 > 0 {
				progress.Set(1 - s.Distance()/range0)
			}
			return record(s)
		})
		progress.Clear()
		if err != nil {
			return fmt.Errorf("scene %d: %w", num, err)
		}
		report(num, res)
	}
	return nil
}

func runParallel(logger *zap.Logger, scenes []sim.Scene, effect env.Effect) error {
	results := make([]sim.Result, len(scenes))

	var g errgroup.Group
	for num, scene := range scenes {
		g.Go(func() error {
			start := time.Now()
			// trails are per scene, so each goroutine draws its own
			res, err := sim.Run(scene, effect, recorder(newFrames(), num))
			if err != nil {
				return fmt.Errorf("scene %d: %w", num, err)
			}
			results[num] = res
			logger.Debug("scene done",
				zap.Int("scene", num),
				zap.String("name", scene.Name),
				zap.Duration("elapsed", time.Since(start)),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for num, res := range results {
		report(num, res)
	}
	return nil
}

// runTUI plays the scenes one after another at the nominal frame rate.
func runTUI(scenes []sim.Scene, effect env.Effect) error {
	tui, err := render.NewTUI()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	frame := time.NewTicker(time.Second / sim.DefaultFramerate)
	defer frame.Stop()

	frames := newFrames()
	results := make([]sim.Result, 0, len(scenes))
	err = func() error {
		defer tui.Close()
		for num, scene := range scenes {
			if err := scene.Validate(); err != nil {
				return fmt.Errorf("scene %d: %w", num, err)
			}
			record := recorder(frames, num)
			s := sim.NewSim(scene, effect)
			range0 := s.Distance()
			tui.Reset()
			if frames != nil {
				frames.Reset()
			}

			for done := false; !done; {
				if s.Steps()%sim.DefaultStepsPerFrame == 0 {
					if err := record(s); err != nil {
						return fmt.Errorf("scene %d: %w", num, err)
					}
					progress := 0.0
					if range0 > 0 {
						progress = 1 - s.Distance()/range0
					}
					tui.Draw(num, s, progress)

					select {
					case <-frame.C:
					case <-tui.Quit():
						return errQuit
					case <-ctx.Done():
						return errQuit
					}
				}
				done = s.Step()
			}
			results = append(results, s.Result())
		}
		return nil
	}()

	// the screen is restored by now
	for num, res := range results {
		report(num, res)
	}
	return err
}
