package enemy

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zeusync/danmaku/internal/core/action"
	"github.com/zeusync/danmaku/internal/core/random"
	"github.com/zeusync/danmaku/internal/core/script"
	"github.com/zeusync/danmaku/internal/core/systems/physics"
)

func testEnv(templates map[string]*Template) Environment {
	return Environment{
		PlayerXMillis: 500_000,
		PlayerYMillis: 100_000,
		ElapsedMillis: 16,
		Templates:     templates,
		RNG:           random.New(1),
	}
}

func sound(name string) action.Action { return action.PlaySoundEffect{Name: name} }

type counterIDs struct{ n int }

func (c *counterIDs) NextGUID() string {
	c.n++
	return fmt.Sprintf("obj-%d", c.n)
}

func TestUpdate_MovementMatchesMover(t *testing.T) {
	for _, tc := range []struct{ speed, direction int64 }{
		{0, 0}, {1, 45_000}, {37, 123_456}, {250, 270_000}, {9_999, 359_999},
	} {
		scripted := NewObject(KindBullet, 10_000, 20_000, action.NewUnion())
		scripted.SpeedInMillipixelsPerMillisecond = tc.speed
		scripted.MovementDirectionInMillidegrees = tc.direction
		plain := NewObject(KindBullet, 10_000, 20_000, nil)
		plain.SpeedInMillipixelsPerMillisecond = tc.speed
		plain.MovementDirectionInMillidegrees = tc.direction

		_, err := Update([]*Object{scripted}, testEnv(nil))
		require.NoError(t, err)
		UpdatePositions([]*Object{plain}, 16)

		off := physics.GetOffset(tc.speed, tc.direction, 16)
		require.Equal(t, plain.XMillis, scripted.XMillis)
		require.Equal(t, plain.YMillis, scripted.YMillis)
		require.Equal(t, 10_000+off.DeltaXMillis, plain.XMillis)
		require.Equal(t, 20_000+off.DeltaYMillis, plain.YMillis)
	}
}

func TestUpdatePositions_SkipsDestroyed(t *testing.T) {
	o := NewObject(KindBullet, 0, 0, nil)
	o.SpeedInMillipixelsPerMillisecond = 100
	o.IsDestroyed = true
	UpdatePositions([]*Object{o}, 16)
	require.Zero(t, o.YMillis)
}

func TestUpdate_SpeedNeverNegative(t *testing.T) {
	o := NewObject(KindBullet, 0, 0, action.DecreaseSpeed{Speed: script.RandomInteger{MaxExclusive: script.Int(40)}})
	o.SpeedInMillipixelsPerMillisecond = 100
	env := testEnv(nil)
	for i := 0; i < 50; i++ {
		_, err := Update([]*Object{o}, env)
		require.NoError(t, err)
		require.GreaterOrEqual(t, o.SpeedInMillipixelsPerMillisecond, int64(0))
	}
	require.Zero(t, o.SpeedInMillipixelsPerMillisecond)

	o.Action = action.SetSpeed{Speed: script.Int(-5)}
	_, err := Update([]*Object{o}, env)
	require.NoError(t, err)
	require.Zero(t, o.SpeedInMillipixelsPerMillisecond)

	o.Action = action.IncreaseSpeed{Speed: script.Int(-5)}
	_, err = Update([]*Object{o}, env)
	require.NoError(t, err)
	require.Zero(t, o.SpeedInMillipixelsPerMillisecond)
}

func TestUpdate_Destroy(t *testing.T) {
	o := NewObject(KindEnemy, 0, 0, action.Destroy{})
	o.SpeedInMillipixelsPerMillisecond = 100
	other := NewObject(KindEnemy, 0, 0, action.NewUnion())

	res, err := Update([]*Object{o, other}, testEnv(nil))
	require.NoError(t, err)
	require.True(t, o.IsDestroyed)
	require.Equal(t, []*Object{other}, res.Objects)
	require.Zero(t, o.YMillis, "destroyed objects are not moved")

	// a destroyed object handed back in is never resolved again
	o.Action = sound("should-not-play")
	res, err = Update([]*Object{o}, testEnv(nil))
	require.NoError(t, err)
	require.Empty(t, res.SoundEffects)
	require.Empty(t, res.Objects)
	require.Zero(t, o.YMillis)
}

func TestUpdate_SpawnedChildActsSameTick(t *testing.T) {
	templates := map[string]*Template{
		"bullet": {
			Name:       "bullet",
			Kind:       KindBullet,
			Action:     action.SetSpeed{Speed: script.Int(10)},
			SpriteName: "bullet-small",
			NumericVariables: []action.NumericBinding{
				{Name: "bornAtPlayerX", Value: script.PlayerXMillis{}},
				{Name: "bornAtX", Value: script.XMillis{}},
			},
		},
	}
	parent := NewObject(KindEnemy, 40_000, 60_000, action.SpawnChild{
		X:        script.Add{Left: script.XMillis{}, Right: script.Int(5_000)},
		Y:        script.Subtract{Left: script.YMillis{}, Right: script.Int(1_000)},
		Template: "bullet",
		NumericVariables: []action.NumericBinding{
			{Name: "angle", Value: script.Add{Left: script.XMillis{}, Right: script.Int(1)}},
		},
		BooleanVariables: []action.BooleanBinding{{Name: "fromBoss", Value: script.True}},
	})

	ids := &counterIDs{}
	res, err := NewUpdater(WithIDSource(ids)).Update([]*Object{parent}, testEnv(templates))
	require.NoError(t, err)
	require.Len(t, res.Spawned, 1)
	require.Len(t, res.Objects, 2)

	child := res.Spawned[0]
	require.Same(t, child, res.Objects[1])
	require.Same(t, parent, child.Parent)
	require.Equal(t, "obj-1", child.ID)
	require.Equal(t, KindBullet, child.Kind)
	require.True(t, child.HasSprite())
	require.Equal(t, int64(10), child.SpeedInMillipixelsPerMillisecond)
	require.Equal(t, int64(45_000), child.XMillis)
	require.Equal(t, int64(59_000+160), child.YMillis, "child moved in the tick it was spawned")
	// spawn bindings read the spawner, template bindings read the child
	require.Equal(t, int64(40_001), child.NumericVariables["angle"])
	require.Equal(t, int64(45_000), child.NumericVariables["bornAtX"])
	require.Equal(t, int64(500_000), child.NumericVariables["bornAtPlayerX"])
	require.True(t, child.BooleanVariables["fromBoss"])
}

func TestUpdate_SplitCascadeResolvesInOneTick(t *testing.T) {
	gen := script.Variable{Name: "gen"}
	split := action.SpawnChild{
		X:        script.XMillis{},
		Y:        script.YMillis{},
		Template: "fragment",
		NumericVariables: []action.NumericBinding{
			{Name: "gen", Value: script.Add{Left: gen, Right: script.Int(1)}},
		},
	}
	templates := map[string]*Template{
		"fragment": {
			Name: "fragment",
			Kind: KindBullet,
			Action: action.Conditional{
				Test:   script.Less(gen, script.Int(2)),
				Action: action.NewUnion(split, split, action.Destroy{}),
			},
		},
	}
	root := NewObject(KindEnemy, 0, 0, action.Conditional{
		Test: script.Not{Operand: script.BoolVariable{Name: "fired"}},
		Action: action.NewUnion(
			action.SpawnChild{X: script.Int(0), Y: script.Int(0), Template: "fragment",
				NumericVariables: []action.NumericBinding{{Name: "gen", Value: script.Int(0)}}},
			action.SetBooleanVariable{Name: "fired", Value: script.True},
		),
	})
	root.BooleanVariables["fired"] = false

	res, err := Update([]*Object{root}, testEnv(templates))
	require.NoError(t, err)
	require.Len(t, res.Spawned, 1+2+4)
	require.Len(t, res.Objects, 1+4)
	for _, o := range res.Objects[1:] {
		require.Equal(t, int64(2), o.NumericVariables["gen"])
	}

	res, err = Update(res.Objects, testEnv(templates))
	require.NoError(t, err)
	require.Empty(t, res.Spawned)
	require.Len(t, res.Objects, 5)
}

func TestUpdate_SpawnCascadeCeiling(t *testing.T) {
	templates := map[string]*Template{
		"forever": {Name: "forever", Action: action.SpawnChild{X: script.Int(0), Y: script.Int(0), Template: "forever"}},
	}
	root := NewObject(KindEnemy, 0, 0, action.SpawnChild{X: script.Int(0), Y: script.Int(0), Template: "forever"})

	res, err := NewUpdater(WithMaxWaves(8)).Update([]*Object{root}, testEnv(templates))
	require.ErrorIs(t, err, ErrSpawnCascade)
	require.Nil(t, res)
}

func TestUpdate_ForkingCascadeCeiling(t *testing.T) {
	fork := action.SpawnChild{X: script.Int(0), Y: script.Int(0), Template: "fork"}
	templates := map[string]*Template{
		"fork": {Name: "fork", Kind: KindBullet, Action: action.NewUnion(fork, fork)},
	}

	t.Run("Default Limit", func(t *testing.T) {
		root := NewObject(KindEnemy, 0, 0, fork)
		res, err := Update([]*Object{root}, testEnv(templates))
		require.ErrorIs(t, err, ErrSpawnCascade)
		require.Nil(t, res)
	})

	t.Run("Configured Limit", func(t *testing.T) {
		root := NewObject(KindEnemy, 0, 0, fork)
		res, err := NewUpdater(WithMaxSpawned(100)).Update([]*Object{root}, testEnv(templates))
		require.ErrorIs(t, err, ErrSpawnCascade)
		require.Contains(t, err.Error(), "101 objects spawned")
		require.Nil(t, res)
	})

	t.Run("Bounded Fork Fits", func(t *testing.T) {
		gen := script.Variable{Name: "gen"}
		bounded := action.SpawnChild{
			X: script.Int(0), Y: script.Int(0), Template: "bounded",
			NumericVariables: []action.NumericBinding{{Name: "gen", Value: script.Add{Left: gen, Right: script.Int(1)}}},
		}
		limited := map[string]*Template{
			"bounded": {Name: "bounded", Action: action.Conditional{
				Test:   script.Less(gen, script.Int(5)),
				Action: action.NewUnion(bounded, bounded, action.Destroy{}),
			}},
		}
		root := NewObject(KindEnemy, 0, 0, action.NewUnion(
			action.SpawnChild{X: script.Int(0), Y: script.Int(0), Template: "bounded",
				NumericVariables: []action.NumericBinding{{Name: "gen", Value: script.Int(0)}}},
			action.Destroy{},
		))

		// 1 + 2 + 4 + 8 + 16 + 32 spawned
		res, err := NewUpdater(WithMaxSpawned(63)).Update([]*Object{root}, testEnv(limited))
		require.NoError(t, err)
		require.Len(t, res.Spawned, 63)
		require.Len(t, res.Objects, 32)

		root = NewObject(KindEnemy, 0, 0, root.Action)
		_, err = NewUpdater(WithMaxSpawned(62)).Update([]*Object{root}, testEnv(limited))
		require.ErrorIs(t, err, ErrSpawnCascade)
	})
}

func TestUpdate_DestroyParentSkipsParentThisTick(t *testing.T) {
	parent := NewObject(KindEnemy, 0, 0, sound("roar"))
	parent.SpeedInMillipixelsPerMillisecond = 100
	child := NewObject(KindBullet, 0, 0, action.DestroyParent{})
	child.Parent = parent

	res, err := Update([]*Object{child, parent}, testEnv(nil))
	require.NoError(t, err)
	require.True(t, parent.IsDestroyed)
	require.Empty(t, res.SoundEffects)
	require.Zero(t, parent.YMillis)
	require.Equal(t, sound("roar"), parent.Action)
	require.Equal(t, []*Object{child}, res.Objects)
}

func TestUpdate_UnionKeepsRunningAfterDestroy(t *testing.T) {
	templates := map[string]*Template{
		"spark": {Name: "spark", Kind: KindBullet, Action: action.NewUnion()},
	}
	spawn := func(x int64) action.Action {
		return action.SpawnChild{X: script.Int(x), Y: script.Int(0), Template: "spark"}
	}
	o := NewObject(KindEnemy, 7_000, 8_000, action.NewUnion(
		sound("a"),
		spawn(1),
		action.Destroy{},
		sound("b"),
		action.SetNumericVariable{Name: "lastX", Value: script.XMillis{}},
		spawn(2),
	))
	o.SpeedInMillipixelsPerMillisecond = 50

	res, err := Update([]*Object{o}, testEnv(templates))
	require.NoError(t, err)
	require.True(t, o.IsDestroyed)
	require.Equal(t, []string{"a", "b"}, res.SoundEffects)
	require.Len(t, res.Spawned, 2)
	require.Equal(t, int64(1), res.Spawned[0].XMillis)
	require.Equal(t, int64(2), res.Spawned[1].XMillis)
	require.Equal(t, int64(7_000), o.NumericVariables["lastX"], "members after Destroy still write the object")
	require.Equal(t, int64(8_000), o.YMillis, "destroyed object is not moved")
	require.Equal(t, res.Spawned, res.Objects)
}

func TestUpdate_ConditionalNextAction(t *testing.T) {
	target := action.Move{X: script.Int(0), Y: script.Int(100_000)}
	test := script.BoolVariable{Name: "go"}
	start := action.ConditionalNextAction{Current: target, Test: test, Next: action.Destroy{}}

	o := NewObject(KindEnemy, 0, 0, start)
	o.BooleanVariables["go"] = false
	o.SpeedInMillipixelsPerMillisecond = 10

	_, err := Update([]*Object{o}, testEnv(nil))
	require.NoError(t, err)
	require.False(t, o.IsDestroyed)
	require.Equal(t, start, o.Action)
	require.Equal(t, int64(160), o.YMillis)

	o.BooleanVariables["go"] = true
	res, err := Update([]*Object{o}, testEnv(nil))
	require.NoError(t, err)
	require.False(t, o.IsDestroyed)
	require.Equal(t, action.Action(action.Destroy{}), o.Action)
	require.Equal(t, []*Object{o}, res.Objects)

	res, err = Update([]*Object{o}, testEnv(nil))
	require.NoError(t, err)
	require.True(t, o.IsDestroyed)
	require.Empty(t, res.Objects)
}

func TestUpdate_ConditionalWrapsContinuation(t *testing.T) {
	test := script.BoolVariable{Name: "armed"}
	inner := action.Sequence(sound("first"), sound("second"))
	o := NewObject(KindEnemy, 0, 0, action.Conditional{Test: test, Action: inner})
	o.BooleanVariables["armed"] = false

	res, err := Update([]*Object{o}, testEnv(nil))
	require.NoError(t, err)
	require.Empty(t, res.SoundEffects)
	require.Equal(t, action.Action(action.Conditional{Test: test, Action: inner}), o.Action)

	o.BooleanVariables["armed"] = true
	res, err = Update([]*Object{o}, testEnv(nil))
	require.NoError(t, err)
	require.Equal(t, []string{"first"}, res.SoundEffects)
	require.Equal(t, action.Action(action.Conditional{Test: test, Action: sound("second")}), o.Action)

	res, err = Update([]*Object{o}, testEnv(nil))
	require.NoError(t, err)
	require.Equal(t, []string{"second"}, res.SoundEffects)
}

func TestUpdate_BossHealthBarLastWins(t *testing.T) {
	bar := func(meter, pct int64) action.Action {
		return action.DisplayBossHealthBar{MeterNumber: script.Int(meter), MilliPercentage: script.Int(pct)}
	}
	first := NewObject(KindEnemy, 0, 0, bar(1, 100_000))
	quiet := NewObject(KindEnemy, 0, 0, action.NewUnion())
	second := NewObject(KindEnemy, 0, 0, bar(2, 42_500))

	res, err := Update([]*Object{first, second, quiet}, testEnv(nil))
	require.NoError(t, err)
	require.NotNil(t, res.BossHealthMeterNumber)
	require.NotNil(t, res.BossHealthMeterMilliPercentage)
	require.Equal(t, int64(2), *res.BossHealthMeterNumber)
	require.Equal(t, int64(42_500), *res.BossHealthMeterMilliPercentage)

	res, err = Update([]*Object{quiet}, testEnv(nil))
	require.NoError(t, err)
	require.Nil(t, res.BossHealthMeterNumber)
	require.Nil(t, res.BossHealthMeterMilliPercentage)
}

func TestUpdate_Signals(t *testing.T) {
	a := NewObject(KindEnemy, 3_000, 4_000, action.NewUnion(action.SpawnPowerUp{}, sound("pop")))
	b := NewObject(KindEnemy, 0, 0, action.NewUnion(action.EndLevel{}, sound("fanfare")))
	c := NewObject(KindEnemy, 0, 0, action.SetSpriteName{Name: "boss-angry"})

	res, err := Update([]*Object{a, b, c}, testEnv(nil))
	require.NoError(t, err)
	require.True(t, res.ShouldEndLevel)
	require.Equal(t, []PowerUp{{XMillis: 3_000, YMillis: 4_000}}, res.PowerUps)
	require.Equal(t, []string{"pop", "fanfare"}, res.SoundEffects)
	require.Equal(t, "boss-angry", c.SpriteName)

	res, err = Update([]*Object{c}, testEnv(nil))
	require.NoError(t, err)
	require.False(t, res.ShouldEndLevel)
	require.NotNil(t, res.PowerUps)
	require.NotNil(t, res.SoundEffects)
	require.NotNil(t, res.Spawned)
}

func TestHandleAction_Steering(t *testing.T) {
	u := NewUpdater()
	env := testEnv(nil)

	t.Run("Move Faces Target", func(t *testing.T) {
		o := NewObject(KindEnemy, 0, 0, nil)
		res, err := u.HandleAction(o, action.Move{X: script.Int(10), Y: script.Int(0)}, env)
		require.NoError(t, err)
		require.Equal(t, action.Action(action.Move{X: script.Int(10), Y: script.Int(0)}), res.NewAction)
		require.Equal(t, int64(physics.QuarterCircle), o.MovementDirectionInMillidegrees)
		require.Equal(t, int64(physics.QuarterCircle), o.FacingDirectionInMillidegrees)
	})

	t.Run("StrafeMove Faces Down", func(t *testing.T) {
		o := NewObject(KindEnemy, 0, 0, nil)
		_, err := u.HandleAction(o, action.StrafeMove{X: script.Int(-10), Y: script.Int(0)}, env)
		require.NoError(t, err)
		require.Equal(t, int64(270_000), o.MovementDirectionInMillidegrees)
		require.Equal(t, int64(180_000), o.FacingDirectionInMillidegrees)
	})

	t.Run("Reached Target Keeps Heading", func(t *testing.T) {
		o := NewObject(KindEnemy, 5, 5, nil)
		o.MovementDirectionInMillidegrees = 12_345
		o.FacingDirectionInMillidegrees = 54_321
		_, err := u.HandleAction(o, action.Move{X: script.Int(5), Y: script.Int(5)}, env)
		require.NoError(t, err)
		require.Equal(t, int64(12_345), o.MovementDirectionInMillidegrees)
		require.Equal(t, int64(54_321), o.FacingDirectionInMillidegrees)
	})

	t.Run("SetPosition And Facing", func(t *testing.T) {
		o := NewObject(KindEnemy, 0, 0, nil)
		_, err := u.HandleAction(o, action.NewUnion(
			action.SetPosition{X: script.PlayerXMillis{}, Y: script.PlayerYMillis{}},
			action.SetFacingDirection{Direction: script.Int(33_000)},
		), env)
		require.NoError(t, err)
		require.Equal(t, int64(500_000), o.XMillis)
		require.Equal(t, int64(100_000), o.YMillis)
		require.Equal(t, int64(33_000), o.FacingDirectionInMillidegrees)
		require.Zero(t, o.MovementDirectionInMillidegrees)
	})
}

func TestHandleAction_Parent(t *testing.T) {
	u := NewUpdater()
	env := testEnv(nil)

	parent := NewObject(KindEnemy, 0, 0, nil)
	child := NewObject(KindBullet, 0, 0, nil)
	child.Parent = parent

	_, err := u.HandleAction(child, action.NewUnion(
		action.SetParentNumericVariable{Name: "hits", Value: script.Int(3)},
		action.SetParentBooleanVariable{Name: "hit", Value: script.Not{Operand: script.ParentDestroyed{}}},
	), env)
	require.NoError(t, err)
	require.Equal(t, int64(3), parent.NumericVariables["hits"])
	require.True(t, parent.BooleanVariables["hit"])

	_, err = u.HandleAction(child, action.DestroyParent{}, env)
	require.NoError(t, err)
	require.True(t, parent.IsDestroyed)

	// writes through a destroyed parent are dropped
	_, err = u.HandleAction(child, action.SetParentNumericVariable{Name: "hits", Value: script.Int(9)}, env)
	require.NoError(t, err)
	require.Equal(t, int64(3), parent.NumericVariables["hits"])

	child.BooleanVariables["parentGone"] = false
	_, err = u.HandleAction(child, action.SetBooleanVariable{Name: "parentGone", Value: script.ParentDestroyed{}}, env)
	require.NoError(t, err)
	require.True(t, child.BooleanVariables["parentGone"])
}

func TestUpdate_ContractViolations(t *testing.T) {
	cases := []struct {
		name string
		act  action.Action
		want error
	}{
		{"DestroyParent Without Parent", action.DestroyParent{}, ErrMissingParent},
		{"SetParentNumericVariable Without Parent", action.SetParentNumericVariable{Name: "x", Value: script.Int(1)}, ErrMissingParent},
		{"SetParentBooleanVariable Without Parent", action.SetParentBooleanVariable{Name: "x", Value: script.True}, ErrMissingParent},
		{"Unknown Template", action.SpawnChild{X: script.Int(0), Y: script.Int(0), Template: "nope"}, ErrUnknownTemplate},
		{"Missing Action", nil, ErrUnknownAction},
		{"Nested Missing Parent", action.NewUnion(sound("x"), action.DestroyParent{}), ErrMissingParent},
		{"Unknown Variable", action.SetSpeed{Speed: script.Variable{Name: "ghost"}}, script.ErrUnknownVariable},
		{"ParentDestroyed Without Parent", action.Conditional{Test: script.ParentDestroyed{}, Action: action.Destroy{}}, script.ErrMissingParent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := NewObject(KindEnemy, 0, 0, tc.act)
			res, err := Update([]*Object{o}, testEnv(map[string]*Template{}))
			require.Error(t, err)
			require.ErrorIs(t, err, tc.want)
			require.Nil(t, res)
		})
	}

	t.Run("Non Violation Panics Propagate", func(t *testing.T) {
		o := NewObject(KindEnemy, 0, 0, action.SetSpeed{Speed: script.RandomInteger{MaxExclusive: script.Int(5)}})
		env := testEnv(nil)
		env.RNG = nil
		require.Panics(t, func() { _, _ = Update([]*Object{o}, env) })
	})
}

func TestUpdate_Deterministic(t *testing.T) {
	build := func() ([]*Object, map[string]*Template) {
		templates := map[string]*Template{
			"shard": {
				Name: "shard",
				Kind: KindBullet,
				Action: action.NewUnion(
					action.SetSpeed{Speed: script.Add{Left: script.Int(5), Right: script.RandomInteger{MaxExclusive: script.Int(20)}}},
					action.Move{
						X: script.Add{Left: script.XMillis{}, Right: script.Subtract{Left: script.RandomInteger{MaxExclusive: script.Int(2_000)}, Right: script.Int(1_000)}},
						Y: script.Subtract{Left: script.YMillis{}, Right: script.Int(1_000)},
					},
				),
			},
		}
		boss := NewObject(KindEnemy, 500_000, 600_000, action.NewUnion(
			action.SpawnChild{X: script.XMillis{}, Y: script.YMillis{}, Template: "shard"},
			action.Conditional{
				Test:   script.Equals(script.RandomInteger{MaxExclusive: script.Int(3)}, script.Int(0)),
				Action: action.SpawnPowerUp{},
			},
			action.DisplayBossHealthBar{MeterNumber: script.Int(1), MilliPercentage: script.RandomInteger{MaxExclusive: script.Int(100_001)}},
		))
		return []*Object{boss}, templates
	}

	run := func() ([]*UpdateResult, []*Object) {
		objects, templates := build()
		env := testEnv(templates)
		env.RNG = random.New(2024)
		var results []*UpdateResult
		for i := 0; i < 20; i++ {
			res, err := Update(objects, env)
			require.NoError(t, err)
			results = append(results, res)
			objects = res.Objects
		}
		return results, objects
	}

	resultsA, objectsA := run()
	resultsB, objectsB := run()
	require.Equal(t, resultsA, resultsB)
	require.Equal(t, objectsA, objectsB)
	require.Len(t, objectsA, 21)
}
