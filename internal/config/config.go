package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/zeusync/danmaku/internal/core/observability/log"
	"gopkg.in/yaml.v3"
)

// Config is the runtime configuration of a stage run.
type Config struct {
	Log    LogConfig    `json:"log" yaml:"log"`
	Engine EngineConfig `json:"engine" yaml:"engine"`
	Stage  StageConfig  `json:"stage" yaml:"stage"`
	Replay ReplayConfig `json:"replay" yaml:"replay"`
}

type LogConfig struct {
	Level       string `json:"level" yaml:"level"`
	Development bool   `json:"development" yaml:"development"`
}

type EngineConfig struct {
	// MaxWaves bounds spawn waves per tick. Zero disables the bound.
	MaxWaves int `json:"max_waves" yaml:"max_waves"`

	// MaxSpawned bounds objects spawned per tick. Zero disables the bound.
	MaxSpawned int `json:"max_spawned" yaml:"max_spawned"`

	ElapsedMillis int64 `json:"elapsed_millis" yaml:"elapsed_millis"`
}

type StageConfig struct {
	Seed          uint64 `json:"seed" yaml:"seed"`
	Ticks         int    `json:"ticks" yaml:"ticks"`
	Audio         bool   `json:"audio" yaml:"audio"`
	PlayerXMillis int64  `json:"player_x_millis" yaml:"player_x_millis"`
	PlayerYMillis int64  `json:"player_y_millis" yaml:"player_y_millis"`
	IDNamespace   string `json:"id_namespace" yaml:"id_namespace"`
}

type ReplayConfig struct {
	Workers int `json:"workers" yaml:"workers"`
	Runs    int `json:"runs" yaml:"runs"`
}

// Default returns the configuration used when no file is given: a 60 fps
// stage with the player near the bottom centre of a 1000x700 pixel field.
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info"},
		Engine: EngineConfig{
			MaxWaves:      1024,
			MaxSpawned:    1 << 16,
			ElapsedMillis: 16,
		},
		Stage: StageConfig{
			Seed:          0,
			Ticks:         600,
			Audio:         true,
			PlayerXMillis: 500_000,
			PlayerYMillis: 100_000,
		},
		Replay: ReplayConfig{
			Workers: 4,
			Runs:    4,
		},
	}
}

// Load decodes YAML from r over the defaults and validates the result.
func Load(r io.Reader) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadFile reads the configuration at path.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return Load(f)
}

var ErrInvalid = errors.New("invalid config")

// Validate checks ranges the engine relies on.
func (c *Config) Validate() error {
	switch {
	case c.Engine.MaxWaves < 0:
		return fmt.Errorf("%w: engine.max_waves must not be negative, got %d", ErrInvalid, c.Engine.MaxWaves)
	case c.Engine.MaxSpawned < 0:
		return fmt.Errorf("%w: engine.max_spawned must not be negative, got %d", ErrInvalid, c.Engine.MaxSpawned)
	case c.Engine.ElapsedMillis < 0:
		return fmt.Errorf("%w: engine.elapsed_millis must not be negative, got %d", ErrInvalid, c.Engine.ElapsedMillis)
	case c.Stage.Ticks < 0:
		return fmt.Errorf("%w: stage.ticks must not be negative, got %d", ErrInvalid, c.Stage.Ticks)
	case c.Replay.Workers < 1:
		return fmt.Errorf("%w: replay.workers must be at least 1, got %d", ErrInvalid, c.Replay.Workers)
	case c.Replay.Runs < 1:
		return fmt.Errorf("%w: replay.runs must be at least 1, got %d", ErrInvalid, c.Replay.Runs)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %w", ErrInvalid, err)
	}
	return nil
}
