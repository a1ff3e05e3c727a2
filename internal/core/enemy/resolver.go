package enemy

import (
	"github.com/zeusync/danmaku/internal/core/action"
	"github.com/zeusync/danmaku/internal/core/observability/log"
	"github.com/zeusync/danmaku/internal/core/script"
	"github.com/zeusync/danmaku/internal/core/systems/physics"
	"github.com/zeusync/danmaku/pkg/sequence"
)

// strafeFacing is the facing used by StrafeMove: straight down the screen.
const strafeFacing = physics.HalfCircle

type resolver struct {
	env *Environment
	ids IDSource
	log log.Log
}

// resolve runs one action for obj. Broken contracts are raised as
// *script.Violation panics.
func (r *resolver) resolve(obj *Object, act action.Action) ResultOfAction {
	res := r.dispatch(obj, act)
	if res.NewAction == nil {
		script.Violate(ErrMissingNextAction, "%s", act.Kind())
	}
	return res
}

func (r *resolver) context(obj *Object, parentDestroyed *bool) *script.Context {
	return &script.Context{
		Object:            obj.ExpressionInfo(),
		PlayerXMillis:     r.env.PlayerXMillis,
		PlayerYMillis:     r.env.PlayerYMillis,
		ElapsedMillis:     r.env.ElapsedMillis,
		IsPlayerDestroyed: r.env.IsPlayerDestroyed,
		IsParentDestroyed: parentDestroyed,
		RNG:               r.env.RNG,
	}
}

func (r *resolver) dispatch(obj *Object, act action.Action) ResultOfAction {
	// sampled once on entry, nested actions sample again
	parentDestroyed := obj.isParentDestroyed()
	numeric := func(e script.Numeric) int64 { return e.Evaluate(r.context(obj, parentDestroyed)) }
	boolean := func(e script.Boolean) bool { return e.Evaluate(r.context(obj, parentDestroyed)) }

	switch a := act.(type) {
	case action.Move:
		r.steer(obj, numeric(a.X), numeric(a.Y), false)
		return ResultOfAction{NewAction: a}

	case action.StrafeMove:
		r.steer(obj, numeric(a.X), numeric(a.Y), true)
		return ResultOfAction{NewAction: a}

	case action.SetSpeed:
		obj.setSpeed(numeric(a.Speed))
		return ResultOfAction{NewAction: a}

	case action.IncreaseSpeed:
		obj.setSpeed(obj.SpeedInMillipixelsPerMillisecond + numeric(a.Speed))
		return ResultOfAction{NewAction: a}

	case action.DecreaseSpeed:
		obj.setSpeed(obj.SpeedInMillipixelsPerMillisecond - numeric(a.Speed))
		return ResultOfAction{NewAction: a}

	case action.SetPosition:
		x := numeric(a.X)
		y := numeric(a.Y)
		obj.XMillis, obj.YMillis = x, y
		return ResultOfAction{NewAction: a}

	case action.SetFacingDirection:
		obj.FacingDirectionInMillidegrees = numeric(a.Direction)
		return ResultOfAction{NewAction: a}

	case action.Destroy:
		obj.IsDestroyed = true
		return ResultOfAction{NewAction: a}

	case action.DestroyParent:
		r.parent(obj, a).IsDestroyed = true
		return ResultOfAction{NewAction: a}

	case action.SpawnChild:
		return ResultOfAction{NewAction: a, NewObjects: []*Object{r.spawn(obj, a, parentDestroyed)}}

	case action.SpawnPowerUp:
		return ResultOfAction{NewAction: a, NewPowerUps: []PowerUp{{XMillis: obj.XMillis, YMillis: obj.YMillis}}}

	case action.SetNumericVariable:
		obj.NumericVariables[a.Name] = numeric(a.Value)
		return ResultOfAction{NewAction: a}

	case action.SetBooleanVariable:
		obj.BooleanVariables[a.Name] = boolean(a.Value)
		return ResultOfAction{NewAction: a}

	case action.SetParentNumericVariable:
		parent := r.parent(obj, a)
		v := numeric(a.Value)
		if r.writable(obj, parent, a) {
			parent.NumericVariables[a.Name] = v
		}
		return ResultOfAction{NewAction: a}

	case action.SetParentBooleanVariable:
		parent := r.parent(obj, a)
		v := a.Value.Evaluate(r.context(obj, obj.isParentDestroyed()))
		if r.writable(obj, parent, a) {
			parent.BooleanVariables[a.Name] = v
		}
		return ResultOfAction{NewAction: a}

	case action.EndLevel:
		return ResultOfAction{NewAction: a, ShouldEndLevel: true}

	case action.PlaySoundEffect:
		return ResultOfAction{NewAction: a, NewSounds: []string{a.Name}}

	case action.DisplayBossHealthBar:
		meter := numeric(a.MeterNumber)
		percentage := numeric(a.MilliPercentage)
		return ResultOfAction{
			NewAction:                      a,
			BossHealthMeterNumber:          &meter,
			BossHealthMeterMilliPercentage: &percentage,
		}

	case action.SetSpriteName:
		obj.SpriteName = a.Name
		return ResultOfAction{NewAction: a}

	case action.Conditional:
		if !boolean(a.Test) {
			return ResultOfAction{NewAction: a}
		}
		inner := r.resolve(obj, a.Action)
		inner.NewAction = action.Conditional{Test: a.Test, Action: inner.NewAction}
		return inner

	case action.ConditionalNextAction:
		inner := r.resolve(obj, a.Current)
		if boolean(a.Test) {
			inner.NewAction = a.Next
		} else {
			inner.NewAction = action.ConditionalNextAction{Current: inner.NewAction, Test: a.Test, Next: a.Next}
		}
		return inner

	case action.Union:
		// Members keep running after one of them destroys obj; later members
		// still see and write the object's state for this tick.
		var merged ResultOfAction
		next := make([]action.Action, 0, a.Actions.Len())
		for _, member := range a.Actions.All() {
			res := r.resolve(obj, member)
			next = append(next, res.NewAction)
			merged.merge(res)
		}
		merged.NewAction = action.Union{Actions: sequence.NewList(next...)}
		return merged

	default:
		script.Violate(ErrUnknownAction, "%T", act)
		return ResultOfAction{}
	}
}

// steer points obj at the target. A target equal to the current position
// leaves both headings untouched.
func (r *resolver) steer(obj *Object, x, y int64, strafe bool) {
	direction, ok := physics.GetMovementDirection(obj.XMillis, obj.YMillis, x, y)
	if !ok {
		return
	}
	obj.MovementDirectionInMillidegrees = direction
	if strafe {
		obj.FacingDirectionInMillidegrees = strafeFacing
	} else {
		obj.FacingDirectionInMillidegrees = direction
	}
}

func (r *resolver) parent(obj *Object, act action.Action) *Object {
	if obj.Parent == nil {
		script.Violate(ErrMissingParent, "%s on object %q", act.Kind(), obj.ID)
	}
	return obj.Parent
}

// writable reports whether parent may still be written through. Destroyed
// objects are inert, so writes aimed at them are dropped.
func (r *resolver) writable(obj, parent *Object, act action.Action) bool {
	if !parent.IsDestroyed {
		return true
	}
	r.log.Debug("dropped write to destroyed parent",
		log.String("action", act.Kind().String()),
		log.String("object", obj.ID),
		log.String("parent", parent.ID))
	return false
}

func (r *resolver) spawn(obj *Object, a action.SpawnChild, parentDestroyed *bool) *Object {
	x := a.X.Evaluate(r.context(obj, parentDestroyed))
	y := a.Y.Evaluate(r.context(obj, parentDestroyed))

	tmpl, ok := r.env.Templates[a.Template]
	if !ok || tmpl == nil {
		script.Violate(ErrUnknownTemplate, "%q", a.Template)
	}

	child := NewObject(tmpl.Kind, x, y, tmpl.Action)
	child.SpriteName = tmpl.SpriteName
	child.Parent = obj
	if r.ids != nil {
		child.ID = r.ids.NextGUID()
	}

	// template defaults see the child, spawn bindings see the spawner
	for _, b := range tmpl.NumericVariables {
		child.NumericVariables[b.Name] = b.Value.Evaluate(r.context(child, child.isParentDestroyed()))
	}
	for _, b := range tmpl.BooleanVariables {
		child.BooleanVariables[b.Name] = b.Value.Evaluate(r.context(child, child.isParentDestroyed()))
	}
	for _, b := range a.NumericVariables {
		child.NumericVariables[b.Name] = b.Value.Evaluate(r.context(obj, parentDestroyed))
	}
	for _, b := range a.BooleanVariables {
		child.BooleanVariables[b.Name] = b.Value.Evaluate(r.context(obj, parentDestroyed))
	}
	return child
}

func (o *Object) setSpeed(speed int64) {
	o.SpeedInMillipixelsPerMillisecond = max(speed, 0)
}
