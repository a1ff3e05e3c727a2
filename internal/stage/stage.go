// Package stage runs a level: it owns the live objects, drives the enemy
// updater once per frame and publishes what each tick produced on a bus.
package stage

import (
	"errors"
	"fmt"

	"github.com/zeusync/danmaku/internal/core/enemy"
	"github.com/zeusync/danmaku/internal/core/events/bus"
	"github.com/zeusync/danmaku/internal/core/observability/log"
	"github.com/zeusync/danmaku/internal/core/random"
	"github.com/zeusync/danmaku/pkg/ident"
	"github.com/zeusync/danmaku/pkg/sequence"
)

var ErrLevelEnded = errors.New("level has ended")

// rngLabel names the stage's random stream.
const rngLabel = "enemies"

// Input is the per-frame state supplied by the game loop.
type Input struct {
	PlayerXMillis     int64
	PlayerYMillis     int64
	IsPlayerDestroyed bool
}

// Settings fix everything about a run except the per-frame input.
type Settings struct {
	Seed          uint64
	ElapsedMillis int64
	MaxWaves      int
	MaxSpawned    int
	Audio         bool
	IDNamespace   string
}

// Scenario builds the initial objects and the template table of a level.
// It must return fresh objects on every call.
type Scenario func() ([]*enemy.Object, map[string]*enemy.Template)

type Stage struct {
	settings  Settings
	objects   []*enemy.Object
	templates map[string]*enemy.Template
	rng       *random.Deterministic
	updater   *enemy.Updater
	bus       bus.EventBus
	log       log.Log

	tick        uint64
	fingerprint uint64
	ended       bool
	boss        *BossHealth
}

// New sets up a stage from a scenario. Objects the scenario left without an
// ID get one from the stage's generator.
func New(scenario Scenario, settings Settings, l log.Log, b bus.EventBus) *Stage {
	ids := ident.FromString(settings.IDNamespace)
	objects, templates := scenario()
	for _, o := range objects {
		if o.ID == "" {
			o.ID = ids.NextGUID()
		}
	}

	return &Stage{
		settings:  settings,
		objects:   objects,
		templates: templates,
		rng:       random.Labeled(settings.Seed, rngLabel),
		updater: enemy.NewUpdater(
			enemy.WithLogger(l),
			enemy.WithMaxWaves(settings.MaxWaves),
			enemy.WithMaxSpawned(settings.MaxSpawned),
			enemy.WithIDSource(ids),
		),
		bus: b,
		log: l.With(log.Uint64("seed", settings.Seed)),
	}
}

// Step resolves one frame and publishes its signals.
func (s *Stage) Step(in Input) (*enemy.UpdateResult, error) {
	if s.ended {
		return nil, ErrLevelEnded
	}

	res, err := s.updater.Update(s.objects, enemy.Environment{
		PlayerXMillis:     in.PlayerXMillis,
		PlayerYMillis:     in.PlayerYMillis,
		ElapsedMillis:     s.settings.ElapsedMillis,
		IsPlayerDestroyed: in.IsPlayerDestroyed,
		Templates:         s.templates,
		RNG:               s.rng,
	})
	if err != nil {
		return nil, fmt.Errorf("tick %d: %w", s.tick, err)
	}

	s.objects = res.Objects
	s.fingerprint = fold(s.fingerprint, res)
	tick := s.tick
	s.tick++

	if err = s.publish(tick, res); err != nil {
		return res, fmt.Errorf("tick %d: publish: %w", tick, err)
	}
	return res, nil
}

func (s *Stage) publish(tick uint64, res *enemy.UpdateResult) error {
	events := sequence.Map(sequence.From(res.PowerUps), func(p enemy.PowerUp) bus.Event {
		return bus.NewEvent(EventPowerUp, eventSource, tick, p)
	}).Collect()

	if res.BossHealthMeterNumber != nil && res.BossHealthMeterMilliPercentage != nil {
		health := BossHealth{
			MeterNumber:     *res.BossHealthMeterNumber,
			MilliPercentage: *res.BossHealthMeterMilliPercentage,
		}
		if s.boss == nil || s.boss.MeterNumber != health.MeterNumber {
			s.log.Info("boss health meter",
				log.Uint64("tick", tick),
				log.Int64("meter", health.MeterNumber),
				log.Int64("milli_percentage", health.MilliPercentage))
		}
		s.boss = &health
		events = append(events, bus.NewEvent(EventBossHealthBar, eventSource, tick, health))
	}

	if res.ShouldEndLevel {
		s.ended = true
		s.log.Info("level ended",
			log.Uint64("tick", tick),
			log.Int("survivors", len(res.Objects)))
		events = append(events, bus.NewEvent(EventEndLevel, eventSource, tick, nil))
	}

	err := s.bus.PublishBatch(events...)

	for _, name := range res.SoundEffects {
		e := bus.NewEvent(EventSoundEffect, eventSource, tick, SoundEffect{Name: name})
		if perr := s.bus.PublishWithFilters(e, s.audible); perr != nil {
			err = errors.Join(err, perr)
		}
	}
	return err
}

func (s *Stage) audible(bus.Event) bool { return s.settings.Audio }

// SetAudio toggles whether sound effects are published.
func (s *Stage) SetAudio(on bool) { s.settings.Audio = on }

// Objects returns the live objects after the last step.
func (s *Stage) Objects() []*enemy.Object { return s.objects }

// Tick returns how many frames have been resolved.
func (s *Stage) Tick() uint64 { return s.tick }

// Ended reports whether an EndLevel action has fired.
func (s *Stage) Ended() bool { return s.ended }

// Boss returns the last boss health reading, or nil if none was shown yet.
func (s *Stage) Boss() *BossHealth { return s.boss }

// Fingerprint is the running hash of every tick resolved so far.
func (s *Stage) Fingerprint() uint64 { return s.fingerprint }

// Draws returns how many random values the stage has consumed.
func (s *Stage) Draws() uint64 { return s.rng.Draws() }
