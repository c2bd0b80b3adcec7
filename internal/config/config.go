// Package config loads the YAML configuration shared by the server and the
// animation driver.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"missile-guidance/internal/env"
	"missile-guidance/internal/logging"
	"missile-guidance/internal/sim"
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
	Log       LogConfig       `yaml:"log"`
	Server    ServerConfig    `yaml:"server"`
	Sim       SimConfig       `yaml:"sim"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Scenes    []SceneConfig   `yaml:"scenes"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type ServerConfig struct {
	Addr              string        `yaml:"addr"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
}

type SimConfig struct {
	TickHz       float64      `yaml:"tick_hz"`
	StepsPerTick int          `yaml:"steps_per_tick"`
	Wind         *WindConfig  `yaml:"wind,omitempty"`
	Floor        *FloorConfig `yaml:"floor,omitempty"`
}

type WindConfig struct {
	Velocity [3]float64 `yaml:"velocity"`
}

type FloorConfig struct {
	Axis     string  `yaml:"axis"` // "z" (default) or "y"
	Altitude float64 `yaml:"altitude"`
}

// RateLimitConfig bounds POST requests per client IP.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

func Default() Config {
	return Config{
		Log: LogConfig{Level: "info"},
		Server: ServerConfig{
			Addr:              ":8080",
			ReadHeaderTimeout: 5 * time.Second,
			ShutdownTimeout:   5 * time.Second,
		},
		Sim: SimConfig{
			TickHz:       sim.DefaultFramerate,
			StepsPerTick: sim.DefaultStepsPerFrame,
		},
		RateLimit: RateLimitConfig{RPS: 20, Burst: 40},
	}
}

// Load reads and validates the YAML file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data over Default and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log: %v", ErrInvalid, err)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("%w: server.addr is required", ErrInvalid)
	}
	if c.Sim.TickHz <= 0 || c.Sim.StepsPerTick <= 0 {
		return fmt.Errorf("%w: sim.tick_hz and sim.steps_per_tick must be positive", ErrInvalid)
	}
	if f := c.Sim.Floor; f != nil {
		if _, err := parseAxis(f.Axis); err != nil {
			return fmt.Errorf("%w: sim.floor: %v", ErrInvalid, err)
		}
	}
	if c.RateLimit.RPS < 0 || c.RateLimit.Burst < 0 {
		return fmt.Errorf("%w: rate_limit must not be negative", ErrInvalid)
	}
	for i, s := range c.Scenes {
		if _, err := s.ToScene(); err != nil {
			return fmt.Errorf("%w: scenes[%d]: %v", ErrInvalid, i, err)
		}
	}
	return nil
}

// Effect builds the environment chain described by the sim section.
func (c SimConfig) Effect() env.Effect {
	chain := &env.Chain{}
	if c.Wind != nil {
		v := c.Wind.Velocity
		chain.Effects = append(chain.Effects, env.Wind{Velocity: env.Vec{X: v[0], Y: v[1], Z: v[2]}})
	}
	if c.Floor != nil {
		axis, _ := parseAxis(c.Floor.Axis)
		chain.Effects = append(chain.Effects, env.Floor{Axis: axis, Altitude: c.Floor.Altitude})
	}
	if chain.Len() == 0 {
		return env.NoOp
	}
	return chain
}

func parseAxis(s string) (env.Axis, error) {
	switch strings.ToLower(s) {
	case "", "z":
		return env.AxisZ, nil
	case "y":
		return env.AxisY, nil
	default:
		return 0, fmt.Errorf("unknown axis %q", s)
	}
}

// SceneList converts the configured scenes, falling back to the default
// scene when none are configured.
func (c Config) SceneList() ([]sim.Scene, error) {
	if len(c.Scenes) == 0 {
		return []sim.Scene{sim.DefaultScene()}, nil
	}
	out := make([]sim.Scene, 0, len(c.Scenes))
	for i, sc := range c.Scenes {
		s, err := sc.ToScene()
		if err != nil {
			return nil, fmt.Errorf("scenes[%d]: %w", i, err)
		}
		out = append(out, s)
	}
	return out, nil
}
