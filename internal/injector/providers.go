package injector

import (
	"github.com/google/wire"
	"github.com/zeusync/danmaku/internal/config"
	"github.com/zeusync/danmaku/internal/core/events/bus"
	"github.com/zeusync/danmaku/internal/core/observability/log"
	"github.com/zeusync/danmaku/internal/stage"
)

// ProviderSet wires a demo stage from a loaded configuration.
var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideSettings,
	ProvideScenario,
	bus.New,
	stage.New,
)

// ProvideLogger builds the process logger. The level was checked by
// config.Validate, so a parse failure falls back to info.
func ProvideLogger(cfg *config.Config) log.Log {
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = log.LevelInfo
	}
	return log.New(level, log.WithDevelopment(cfg.Log.Development))
}

func ProvideSettings(cfg *config.Config) stage.Settings {
	return stage.Settings{
		Seed:          cfg.Stage.Seed,
		ElapsedMillis: cfg.Engine.ElapsedMillis,
		MaxWaves:      cfg.Engine.MaxWaves,
		MaxSpawned:    cfg.Engine.MaxSpawned,
		Audio:         cfg.Stage.Audio,
		IDNamespace:   cfg.Stage.IDNamespace,
	}
}

func ProvideScenario() stage.Scenario {
	return stage.Demo
}
