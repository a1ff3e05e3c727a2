package enemy

import (
	"errors"

	"github.com/zeusync/danmaku/internal/core/script"
)

var (
	ErrMissingParent     = script.ErrMissingParent
	ErrUnknownAction     = errors.New("unknown action variant")
	ErrUnknownTemplate   = errors.New("unknown object template")
	ErrMissingNextAction = errors.New("action resolution produced no next action")
	ErrSpawnCascade      = errors.New("spawn cascade exceeded tick limit")
)
