package enemy

import (
	"github.com/zeusync/danmaku/internal/core/action"
)

// PowerUp is a power-up drop position in millipixels.
type PowerUp struct {
	XMillis int64
	YMillis int64
}

// ResultOfAction is what resolving one action for one object produced.
type ResultOfAction struct {
	NewAction      action.Action
	ShouldEndLevel bool
	NewObjects     []*Object
	NewPowerUps    []PowerUp
	NewSounds      []string

	// Nil when the action did not display a boss health bar.
	BossHealthMeterNumber          *int64
	BossHealthMeterMilliPercentage *int64
}

// UpdateResult is the aggregated output of one tick.
type UpdateResult struct {
	// Objects are the surviving objects in roster order: the input objects
	// first, then everything spawned this tick in spawn order.
	Objects []*Object
	// Spawned lists every object created this tick, including ones that were
	// destroyed before the tick ended.
	Spawned        []*Object
	PowerUps       []PowerUp
	SoundEffects   []string
	ShouldEndLevel bool

	BossHealthMeterNumber          *int64
	BossHealthMeterMilliPercentage *int64
}

// merge folds r into the aggregate in resolution order. Later boss meter
// readings replace earlier ones.
func (r *ResultOfAction) merge(other ResultOfAction) {
	if other.ShouldEndLevel {
		r.ShouldEndLevel = true
	}
	r.NewObjects = append(r.NewObjects, other.NewObjects...)
	r.NewPowerUps = append(r.NewPowerUps, other.NewPowerUps...)
	r.NewSounds = append(r.NewSounds, other.NewSounds...)
	if other.BossHealthMeterNumber != nil {
		r.BossHealthMeterNumber = other.BossHealthMeterNumber
	}
	if other.BossHealthMeterMilliPercentage != nil {
		r.BossHealthMeterMilliPercentage = other.BossHealthMeterMilliPercentage
	}
}
