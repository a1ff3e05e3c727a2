package stage

import (
	"github.com/zeusync/danmaku/internal/core/action"
	"github.com/zeusync/danmaku/internal/core/enemy"
	"github.com/zeusync/danmaku/internal/core/script"
)

// Playfield size in millipixels. Y grows upwards.
const (
	FieldWidthMillis  = 1_000_000
	FieldHeightMillis = 700_000

	offscreenMargin = 50_000
)

// Demo is a short boss level: a boss descends, fires rotating volleys and
// aimed splitters, and ends the level when its health runs out. A hidden
// director drops drifters at random columns throughout.
func Demo() ([]*enemy.Object, map[string]*enemy.Template) {
	templates := map[string]*enemy.Template{
		"spiral":   spiralBullet(),
		"splitter": splitterBullet(),
		"drifter":  drifter(),
	}
	return []*enemy.Object{director(), boss()}, templates
}

func offscreen() script.Boolean {
	return script.Or{
		Left: script.Or{
			Left:  script.Less(script.XMillis{}, script.Int(-offscreenMargin)),
			Right: script.Greater(script.XMillis{}, script.Int(FieldWidthMillis+offscreenMargin)),
		},
		Right: script.Or{
			Left:  script.Less(script.YMillis{}, script.Int(-offscreenMargin)),
			Right: script.Greater(script.YMillis{}, script.Int(FieldHeightMillis+offscreenMargin)),
		},
	}
}

func despawnOffscreen() action.Action {
	return action.Conditional{Test: offscreen(), Action: action.Destroy{}}
}

// heading steers towards a point one pixel away along the angle variable.
func heading(angle script.Numeric) action.Action {
	return action.Move{
		X: script.Add{Left: script.XMillis{}, Right: script.Sine{Angle: angle}},
		Y: script.Add{Left: script.YMillis{}, Right: script.Cosine{Angle: angle}},
	}
}

func accumulate(name string, by script.Numeric) action.Action {
	return action.SetNumericVariable{Name: name, Value: script.Add{Left: script.Variable{Name: name}, Right: by}}
}

func spawnSpiral(angle script.Numeric) action.Action {
	return action.SpawnChild{
		X:        script.XMillis{},
		Y:        script.YMillis{},
		Template: "spiral",
		NumericVariables: []action.NumericBinding{
			{Name: "angle", Value: angle},
		},
	}
}

func spiralBullet() *enemy.Template {
	return &enemy.Template{
		Name:       "spiral",
		Kind:       enemy.KindBullet,
		SpriteName: "bullet-round",
		Action: action.NewUnion(
			action.SetSpeed{Speed: script.Int(200)},
			heading(script.Variable{Name: "angle"}),
			despawnOffscreen(),
		),
		NumericVariables: []action.NumericBinding{
			{Name: "angle", Value: script.Int(180_000)},
		},
	}
}

// splitterBullet flies at where the player was when it was fired and bursts
// into three spiral bullets once its fuse runs out. The first burst enrages
// the boss.
func splitterBullet() *enemy.Template {
	fuse := script.Variable{Name: "fuse"}
	return &enemy.Template{
		Name:       "splitter",
		Kind:       enemy.KindBullet,
		SpriteName: "bullet-large",
		Action: action.NewUnion(
			action.SetSpeed{Speed: script.Int(150)},
			action.Move{X: script.Variable{Name: "targetX"}, Y: script.Variable{Name: "targetY"}},
			accumulate("fuse", script.ElapsedMillis{}),
			action.Conditional{
				Test: script.Compare{Op: script.GreaterThanOrEqual, Left: fuse, Right: script.Int(800)},
				Action: action.NewUnion(
					spawnSpiral(script.Subtract{Left: script.MovementDirection{}, Right: script.Int(30_000)}),
					spawnSpiral(script.MovementDirection{}),
					spawnSpiral(script.Add{Left: script.MovementDirection{}, Right: script.Int(30_000)}),
					action.SetParentBooleanVariable{Name: "enraged", Value: script.True},
					action.PlaySoundEffect{Name: "split"},
					action.Destroy{},
				),
			},
			despawnOffscreen(),
		),
		NumericVariables: []action.NumericBinding{
			{Name: "targetX", Value: script.PlayerXMillis{}},
			{Name: "targetY", Value: script.PlayerYMillis{}},
			{Name: "fuse", Value: script.Int(0)},
		},
	}
}

func drifter() *enemy.Template {
	return &enemy.Template{
		Name:       "drifter",
		Kind:       enemy.KindEnemy,
		SpriteName: "drifter",
		Action: action.NewUnion(
			action.SetSpeed{Speed: script.Add{Left: script.Int(60), Right: script.RandomInteger{MaxExclusive: script.Int(60)}}},
			action.StrafeMove{X: script.XMillis{}, Y: script.Int(-2 * offscreenMargin)},
			action.Conditional{
				Test: script.And{
					Left:  script.RandomBool{},
					Right: script.Equals(script.RandomInteger{MaxExclusive: script.Int(120)}, script.Int(0)),
				},
				Action: action.NewUnion(action.SpawnPowerUp{}, action.PlaySoundEffect{Name: "drop"}),
			},
			despawnOffscreen(),
		),
	}
}

// director is an invisible placeholder that schedules drifters.
func director() *enemy.Object {
	timer := script.Variable{Name: "timer"}
	o := enemy.NewObject(enemy.KindPlaceholder, 0, 0, action.NewUnion(
		accumulate("timer", script.ElapsedMillis{}),
		action.Conditional{
			Test: script.Compare{Op: script.GreaterThanOrEqual, Left: timer, Right: script.Int(1_500)},
			Action: action.NewUnion(
				action.SpawnChild{
					X:        script.Add{Left: script.Int(100_000), Right: script.RandomInteger{MaxExclusive: script.Int(FieldWidthMillis - 200_000)}},
					Y:        script.Int(FieldHeightMillis + 20_000),
					Template: "drifter",
				},
				action.SetNumericVariable{Name: "timer", Value: script.Int(0)},
			),
		},
	))
	o.NumericVariables["timer"] = 0
	return o
}

func boss() *enemy.Object {
	hp := script.Variable{Name: "hp"}
	volley := script.Variable{Name: "volleyTimer"}
	split := script.Variable{Name: "splitTimer"}
	angle := script.Variable{Name: "angle"}

	fight := action.NewUnion(
		action.SetSpeed{Speed: script.Int(0)},
		action.SetNumericVariable{Name: "hp", Value: script.Max{Left: script.Subtract{Left: hp, Right: script.Int(250)}, Right: script.Int(0)}},
		action.DisplayBossHealthBar{MeterNumber: script.Int(1), MilliPercentage: hp},
		action.Conditional{
			Test: script.BoolVariable{Name: "enraged"},
			Action: action.NewUnion(
				action.SetSpriteName{Name: "boss-enraged"},
				action.SetNumericVariable{Name: "splitInterval", Value: script.Int(400)},
			),
		},
		accumulate("volleyTimer", script.ElapsedMillis{}),
		action.Conditional{
			Test: script.Compare{Op: script.GreaterThanOrEqual, Left: volley, Right: script.Int(96)},
			Action: action.NewUnion(
				spawnSpiral(angle),
				spawnSpiral(script.Add{Left: angle, Right: script.Int(180_000)}),
				accumulate("angle", script.Int(13_000)),
				action.SetNumericVariable{Name: "volleyTimer", Value: script.Int(0)},
				action.PlaySoundEffect{Name: "shot"},
			),
		},
		accumulate("splitTimer", script.ElapsedMillis{}),
		action.Conditional{
			Test: script.Compare{Op: script.GreaterThanOrEqual, Left: split, Right: script.Variable{Name: "splitInterval"}},
			Action: action.NewUnion(
				action.SpawnChild{X: script.XMillis{}, Y: script.YMillis{}, Template: "splitter"},
				action.SetNumericVariable{Name: "splitTimer", Value: script.Int(0)},
			),
		},
		action.Conditional{
			Test: script.Compare{Op: script.LessThanOrEqual, Left: hp, Right: script.Int(0)},
			Action: action.NewUnion(
				action.SpawnPowerUp{},
				action.PlaySoundEffect{Name: "explosion"},
				action.EndLevel{},
				action.Destroy{},
			),
		},
	)

	o := enemy.NewObject(enemy.KindEnemy, FieldWidthMillis/2, 750_000, action.Sequence(
		action.NewUnion(
			action.SetSpeed{Speed: script.Int(100)},
			action.PlaySoundEffect{Name: "boss-intro"},
		),
		action.ConditionalNextAction{
			Current: action.Move{X: script.Int(FieldWidthMillis / 2), Y: script.Int(600_000)},
			Test:    script.Compare{Op: script.LessThanOrEqual, Left: script.YMillis{}, Right: script.Int(600_000)},
			Next:    fight,
		},
	))
	o.SpriteName = "boss"
	o.NumericVariables["hp"] = 100_000
	o.NumericVariables["volleyTimer"] = 0
	o.NumericVariables["splitTimer"] = 0
	o.NumericVariables["splitInterval"] = 1_000
	o.NumericVariables["angle"] = 0
	o.BooleanVariables["enraged"] = false
	return o
}
