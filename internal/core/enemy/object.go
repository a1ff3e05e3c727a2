package enemy

import (
	"github.com/zeusync/danmaku/internal/core/action"
	"github.com/zeusync/danmaku/internal/core/script"
)

// Kind tells the renderer which layer an object is drawn on.
type Kind int

const (
	KindEnemy Kind = iota
	KindBullet
	// KindPlaceholder objects only run scripts and are never drawn.
	KindPlaceholder
)

func (k Kind) String() string {
	switch k {
	case KindEnemy:
		return "enemy"
	case KindBullet:
		return "bullet"
	case KindPlaceholder:
		return "placeholder"
	default:
		return "unknown"
	}
}

// Template is the blueprint a spawned object is built from.
type Template struct {
	Name       string
	Kind       Kind
	Action     action.Action
	SpriteName string

	// Evaluated against the new object once its position and parent are set.
	NumericVariables []action.NumericBinding
	BooleanVariables []action.BooleanBinding
}

// Object is a scripted enemy or bullet.
//
// Parent is a non-owning back reference. Once the parent is destroyed only
// its IsDestroyed flag may be read; it is never written through again.
type Object struct {
	ID   string
	Kind Kind

	XMillis                          int64
	YMillis                          int64
	SpeedInMillipixelsPerMillisecond int64
	MovementDirectionInMillidegrees  int64
	FacingDirectionInMillidegrees    int64

	Action     action.Action
	SpriteName string

	IsDestroyed bool

	NumericVariables map[string]int64
	BooleanVariables map[string]bool

	Parent *Object
}

// NewObject creates a parentless object at the given position running act.
func NewObject(kind Kind, xMillis, yMillis int64, act action.Action) *Object {
	return &Object{
		Kind:             kind,
		XMillis:          xMillis,
		YMillis:          yMillis,
		Action:           act,
		NumericVariables: make(map[string]int64),
		BooleanVariables: make(map[string]bool),
	}
}

// ExpressionInfo returns the read-only view expressions evaluate against.
func (o *Object) ExpressionInfo() script.ObjectInfo {
	return script.ObjectInfo{
		XMillis:                          o.XMillis,
		YMillis:                          o.YMillis,
		SpeedInMillipixelsPerMillisecond: o.SpeedInMillipixelsPerMillisecond,
		MovementDirectionInMillidegrees:  o.MovementDirectionInMillidegrees,
		FacingDirectionInMillidegrees:    o.FacingDirectionInMillidegrees,
		NumericVariables:                 o.NumericVariables,
		BooleanVariables:                 o.BooleanVariables,
	}
}

// HasSprite reports whether the renderer should draw the object.
func (o *Object) HasSprite() bool {
	return o.SpriteName != ""
}

// isParentDestroyed returns nil for parentless objects.
func (o *Object) isParentDestroyed() *bool {
	if o.Parent == nil {
		return nil
	}
	destroyed := o.Parent.IsDestroyed
	return &destroyed
}
