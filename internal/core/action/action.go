// Package action defines the closed set of scripted instructions an object
// executes once per tick. Actions are immutable values: resolving one never
// changes it, it returns the action to store for the next tick instead.
package action

import (
	"github.com/zeusync/danmaku/internal/core/script"
	"github.com/zeusync/danmaku/pkg/sequence"
)

// Kind identifies an action variant for logging and diagnostics.
type Kind int

const (
	KindInvalid Kind = iota
	KindMove
	KindStrafeMove
	KindSetSpeed
	KindIncreaseSpeed
	KindDecreaseSpeed
	KindSetPosition
	KindSetFacingDirection
	KindDestroy
	KindDestroyParent
	KindSpawnChild
	KindSpawnPowerUp
	KindSetNumericVariable
	KindSetBooleanVariable
	KindSetParentNumericVariable
	KindSetParentBooleanVariable
	KindEndLevel
	KindPlaySoundEffect
	KindDisplayBossHealthBar
	KindSetSpriteName
	KindConditional
	KindConditionalNextAction
	KindUnion
)

var kindNames = [...]string{
	KindInvalid:                  "Invalid",
	KindMove:                     "Move",
	KindStrafeMove:               "StrafeMove",
	KindSetSpeed:                 "SetSpeed",
	KindIncreaseSpeed:            "IncreaseSpeed",
	KindDecreaseSpeed:            "DecreaseSpeed",
	KindSetPosition:              "SetPosition",
	KindSetFacingDirection:       "SetFacingDirection",
	KindDestroy:                  "Destroy",
	KindDestroyParent:            "DestroyParent",
	KindSpawnChild:               "SpawnChild",
	KindSpawnPowerUp:             "SpawnPowerUp",
	KindSetNumericVariable:       "SetNumericVariable",
	KindSetBooleanVariable:       "SetBooleanVariable",
	KindSetParentNumericVariable: "SetParentNumericVariable",
	KindSetParentBooleanVariable: "SetParentBooleanVariable",
	KindEndLevel:                 "EndLevel",
	KindPlaySoundEffect:          "PlaySoundEffect",
	KindDisplayBossHealthBar:     "DisplayBossHealthBar",
	KindSetSpriteName:            "SetSpriteName",
	KindConditional:              "Conditional",
	KindConditionalNextAction:    "ConditionalNextAction",
	KindUnion:                    "Union",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Invalid"
	}
	return kindNames[k]
}

// Action is implemented only by the variants in this package.
type Action interface {
	Kind() Kind
	sealed()
}

// NumericBinding seeds a numeric variable on a spawned object.
type NumericBinding struct {
	Name  string
	Value script.Numeric
}

// BooleanBinding seeds a boolean variable on a spawned object.
type BooleanBinding struct {
	Name  string
	Value script.Boolean
}

type (
	// Move steers towards the target and turns the object to face it.
	Move struct{ X, Y script.Numeric }

	// StrafeMove steers towards the target while facing straight down.
	StrafeMove struct{ X, Y script.Numeric }

	SetSpeed      struct{ Speed script.Numeric }
	IncreaseSpeed struct{ Speed script.Numeric }
	DecreaseSpeed struct{ Speed script.Numeric }

	SetPosition struct{ X, Y script.Numeric }

	SetFacingDirection struct{ Direction script.Numeric }

	Destroy struct{}

	// DestroyParent requires the object to have a parent.
	DestroyParent struct{}

	// SpawnChild creates an object from the named template at (X, Y) with the
	// spawning object as its parent.
	SpawnChild struct {
		X, Y             script.Numeric
		Template         string
		NumericVariables []NumericBinding
		BooleanVariables []BooleanBinding
	}

	// SpawnPowerUp drops a power-up at the object's current position.
	SpawnPowerUp struct{}

	SetNumericVariable struct {
		Name  string
		Value script.Numeric
	}
	SetBooleanVariable struct {
		Name  string
		Value script.Boolean
	}
	SetParentNumericVariable struct {
		Name  string
		Value script.Numeric
	}
	SetParentBooleanVariable struct {
		Name  string
		Value script.Boolean
	}

	EndLevel struct{}

	PlaySoundEffect struct{ Name string }

	// DisplayBossHealthBar reports a meter index and a fill level in
	// milli-percent (0..100000).
	DisplayBossHealthBar struct {
		MeterNumber     script.Numeric
		MilliPercentage script.Numeric
	}

	// SetSpriteName changes the rendered sprite. An empty name hides the object.
	SetSpriteName struct{ Name string }

	// Conditional runs Action only on ticks where Test holds, and keeps
	// testing on every later tick.
	Conditional struct {
		Test   script.Boolean
		Action Action
	}

	// ConditionalNextAction runs Current every tick until Test holds after a
	// run, then switches to Next for the following tick.
	ConditionalNextAction struct {
		Current Action
		Test    script.Boolean
		Next    Action
	}

	// Union runs every member each tick, in order.
	Union struct {
		Actions sequence.List[Action]
	}
)

func (Move) Kind() Kind                     { return KindMove }
func (StrafeMove) Kind() Kind               { return KindStrafeMove }
func (SetSpeed) Kind() Kind                 { return KindSetSpeed }
func (IncreaseSpeed) Kind() Kind            { return KindIncreaseSpeed }
func (DecreaseSpeed) Kind() Kind            { return KindDecreaseSpeed }
func (SetPosition) Kind() Kind              { return KindSetPosition }
func (SetFacingDirection) Kind() Kind       { return KindSetFacingDirection }
func (Destroy) Kind() Kind                  { return KindDestroy }
func (DestroyParent) Kind() Kind            { return KindDestroyParent }
func (SpawnChild) Kind() Kind               { return KindSpawnChild }
func (SpawnPowerUp) Kind() Kind             { return KindSpawnPowerUp }
func (SetNumericVariable) Kind() Kind       { return KindSetNumericVariable }
func (SetBooleanVariable) Kind() Kind       { return KindSetBooleanVariable }
func (SetParentNumericVariable) Kind() Kind { return KindSetParentNumericVariable }
func (SetParentBooleanVariable) Kind() Kind { return KindSetParentBooleanVariable }
func (EndLevel) Kind() Kind                 { return KindEndLevel }
func (PlaySoundEffect) Kind() Kind          { return KindPlaySoundEffect }
func (DisplayBossHealthBar) Kind() Kind     { return KindDisplayBossHealthBar }
func (SetSpriteName) Kind() Kind            { return KindSetSpriteName }
func (Conditional) Kind() Kind              { return KindConditional }
func (ConditionalNextAction) Kind() Kind    { return KindConditionalNextAction }
func (Union) Kind() Kind                    { return KindUnion }

func (Move) sealed()                     {}
func (StrafeMove) sealed()               {}
func (SetSpeed) sealed()                 {}
func (IncreaseSpeed) sealed()            {}
func (DecreaseSpeed) sealed()            {}
func (SetPosition) sealed()              {}
func (SetFacingDirection) sealed()       {}
func (Destroy) sealed()                  {}
func (DestroyParent) sealed()            {}
func (SpawnChild) sealed()               {}
func (SpawnPowerUp) sealed()             {}
func (SetNumericVariable) sealed()       {}
func (SetBooleanVariable) sealed()       {}
func (SetParentNumericVariable) sealed() {}
func (SetParentBooleanVariable) sealed() {}
func (EndLevel) sealed()                 {}
func (PlaySoundEffect) sealed()          {}
func (DisplayBossHealthBar) sealed()     {}
func (SetSpriteName) sealed()            {}
func (Conditional) sealed()              {}
func (ConditionalNextAction) sealed()    {}
func (Union) sealed()                    {}

// NewUnion builds a Union over the given actions.
func NewUnion(actions ...Action) Union {
	return Union{Actions: sequence.NewList(actions...)}
}

// Sequence runs each action for exactly one tick before moving on to the
// next one; the last action keeps running. It is built from
// ConditionalNextAction with an always-true test.
func Sequence(actions ...Action) Action {
	if len(actions) == 0 {
		return NewUnion()
	}
	result := actions[len(actions)-1]
	for i := len(actions) - 2; i >= 0; i-- {
		result = ConditionalNextAction{Current: actions[i], Test: script.True, Next: result}
	}
	return result
}
