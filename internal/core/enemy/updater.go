package enemy

import (
	"fmt"

	"github.com/zeusync/danmaku/internal/core/action"
	"github.com/zeusync/danmaku/internal/core/observability/log"
	"github.com/zeusync/danmaku/internal/core/random"
	"github.com/zeusync/danmaku/internal/core/script"
	"github.com/zeusync/danmaku/pkg/sequence"
)

// DefaultMaxWaves bounds how many spawn waves one tick may take before the
// tick is aborted with ErrSpawnCascade.
const DefaultMaxWaves = 1024

// DefaultMaxSpawned bounds how many objects one tick may spawn before the
// tick is aborted with ErrSpawnCascade.
const DefaultMaxSpawned = 1 << 16

// Environment is the per-tick input shared by every object resolved in it.
type Environment struct {
	PlayerXMillis     int64
	PlayerYMillis     int64
	ElapsedMillis     int64
	IsPlayerDestroyed bool

	Templates map[string]*Template
	RNG       random.Source
}

// IDSource hands out identifiers for spawned objects.
type IDSource interface {
	NextGUID() string
}

// Updater resolves ticks. It holds no per-tick state and may be reused.
type Updater struct {
	log        log.Log
	maxWaves   int
	maxSpawned int
	ids        IDSource
}

type Option func(*Updater)

func WithLogger(l log.Log) Option {
	return func(u *Updater) { u.log = l }
}

// WithMaxWaves sets the spawn wave ceiling. Zero disables it.
func WithMaxWaves(n int) Option {
	return func(u *Updater) { u.maxWaves = n }
}

// WithMaxSpawned sets the per-tick spawned object ceiling. Zero disables it.
func WithMaxSpawned(n int) Option {
	return func(u *Updater) { u.maxSpawned = n }
}

// WithIDSource assigns an ID to every spawned object.
func WithIDSource(ids IDSource) Option {
	return func(u *Updater) { u.ids = ids }
}

func NewUpdater(opts ...Option) *Updater {
	u := &Updater{
		log:        log.Nop(),
		maxWaves:   DefaultMaxWaves,
		maxSpawned: DefaultMaxSpawned,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Update resolves one tick with a default Updater.
func Update(objects []*Object, env Environment) (*UpdateResult, error) {
	return NewUpdater().Update(objects, env)
}

// Update resolves one tick. Every live object, including the ones spawned
// during this tick, has its action resolved exactly once and is then moved
// unless its action destroyed it. Objects spawned in one wave are resolved in
// the next, so a child acts in the same tick it was created.
//
// A broken scripting contract aborts the tick and is returned as an error.
// Objects may already have been mutated when that happens.
func (u *Updater) Update(objects []*Object, env Environment) (result *UpdateResult, err error) {
	defer recoverViolation(&err, u.log)

	r := &resolver{env: &env, ids: u.ids, log: u.log}

	roster := make([]*Object, len(objects))
	copy(roster, objects)

	var acc ResultOfAction
	waves := 0
	// everything before next has been handled
	for next := 0; next < len(roster); waves++ {
		if u.maxWaves > 0 && waves >= u.maxWaves {
			u.log.Error("tick aborted", log.Int("waves", waves), log.Int("pending", len(roster)-next))
			return nil, fmt.Errorf("%w: %d waves, %d objects pending", ErrSpawnCascade, waves, len(roster)-next)
		}

		wave := roster[next:]
		next = len(roster)

		var spawned []*Object
		for _, obj := range wave {
			if obj.IsDestroyed {
				continue
			}

			res := r.resolve(obj, obj.Action)
			obj.Action = res.NewAction
			spawned = append(spawned, res.NewObjects...)
			if total := len(roster) - len(objects) + len(spawned); u.maxSpawned > 0 && total > u.maxSpawned {
				u.log.Error("tick aborted", log.Int("waves", waves+1), log.Int("spawned", total))
				return nil, fmt.Errorf("%w: %d objects spawned in %d waves", ErrSpawnCascade, total, waves+1)
			}
			acc.merge(res)

			if !obj.IsDestroyed {
				obj.move(env.ElapsedMillis)
			}
		}
		roster = append(roster, spawned...)
	}

	result = &UpdateResult{
		Objects: sequence.From(roster).
			Filter(func(o *Object) bool { return !o.IsDestroyed }).
			Collect(),
		Spawned:                        nonNil(acc.NewObjects),
		PowerUps:                       nonNil(acc.NewPowerUps),
		SoundEffects:                   nonNil(acc.NewSounds),
		ShouldEndLevel:                 acc.ShouldEndLevel,
		BossHealthMeterNumber:          acc.BossHealthMeterNumber,
		BossHealthMeterMilliPercentage: acc.BossHealthMeterMilliPercentage,
	}

	u.log.Debug("tick resolved",
		log.Int("waves", waves),
		log.Int("spawned", len(result.Spawned)),
		log.Int("survivors", len(result.Objects)),
		log.Bool("end_level", result.ShouldEndLevel))

	return result, nil
}

// HandleAction resolves a single action for obj outside of a tick. Spawned
// objects are returned but not resolved and the object is not moved.
func (u *Updater) HandleAction(obj *Object, act action.Action, env Environment) (res ResultOfAction, err error) {
	defer recoverViolation(&err, u.log)
	r := &resolver{env: &env, ids: u.ids, log: u.log}
	return r.resolve(obj, act), nil
}

func recoverViolation(err *error, l log.Log) {
	rec := recover()
	if rec == nil {
		return
	}
	v, ok := rec.(*script.Violation)
	if !ok {
		panic(rec)
	}
	l.Error("tick aborted", log.Err(v))
	*err = v
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
