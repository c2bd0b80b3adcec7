package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"missile-guidance/internal/api"
	"missile-guidance/internal/config"
	"missile-guidance/internal/logging"
	"missile-guidance/internal/metrics"
	"missile-guidance/internal/sim"
)

var (
	configPath = flag.String("config", "", "Path to YAML config file")
	addr       = flag.String("addr", "", "Listen address, overrides server.addr")
	play       = flag.Bool("play", false, "Loop the configured scenes from startup")
)

func main() {
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, *play); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

// run serves until ctx is cancelled. With play set the configured scenes are
// queued on the engine before anything starts.
func run(ctx context.Context, cfg config.Config, logger *zap.Logger, play bool) error {
	m := metrics.NewCollector()

	engine := sim.New(sim.Config{
		TickHz:       cfg.Sim.TickHz,
		StepsPerTick: cfg.Sim.StepsPerTick,
		Environment:  cfg.Sim.Effect(),
		Logger:       logger.Named("sim"),
		Metrics:      m,
	})

	server := api.NewServer(engine, api.Options{
		Logger:  logger.Named("api"),
		Metrics: m,
		RPS:     cfg.RateLimit.RPS,
		Burst:   cfg.RateLimit.Burst,
	})

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	if play {
		scenes, err := cfg.SceneList()
		if err != nil {
			return err
		}
		// the command queue is buffered, so this lands before Run starts
		if err := engine.Submit(sim.SequenceCommand{At: time.Now(), ID: "play", Scenes: scenes, Loop: true}); err != nil {
			return fmt.Errorf("play: %w", err)
		}
		logger.Info("playing scenes", zap.Int("count", len(scenes)))
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return engine.Run(ctx)
	})

	g.Go(func() error {
		logger.Info("starting HTTP server", zap.String("addr", cfg.Server.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("shutdown complete")
	return nil
}
