//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"
	"github.com/zeusync/danmaku/internal/config"
	"github.com/zeusync/danmaku/internal/stage"
)

func InitializeStage(cfg *config.Config) *stage.Stage {
	wire.Build(ProviderSet)
	return nil
}
