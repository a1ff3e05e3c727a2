package script

import (
	"github.com/zeusync/danmaku/internal/core/systems/physics"
)

type (
	// Constant always yields Value.
	Constant struct{ Value int64 }

	Add      struct{ Left, Right Numeric }
	Subtract struct{ Left, Right Numeric }
	Multiply struct{ Left, Right Numeric }
	// Divide truncates towards zero. A zero divisor is a contract violation.
	Divide struct{ Left, Right Numeric }
	Min    struct{ Left, Right Numeric }
	Max    struct{ Left, Right Numeric }

	Absolute struct{ Operand Numeric }
	Negate   struct{ Operand Numeric }

	// RandomInteger draws one value in [0, MaxExclusive).
	RandomInteger struct{ MaxExclusive Numeric }

	// Variable reads an object-local numeric variable.
	Variable struct{ Name string }

	XMillis           struct{}
	YMillis           struct{}
	Speed             struct{}
	MovementDirection struct{}
	FacingDirection   struct{}
	PlayerXMillis     struct{}
	PlayerYMillis     struct{}
	ElapsedMillis     struct{}

	// Sine and Cosine take millidegrees and return the result scaled by 1000.
	Sine   struct{ Angle Numeric }
	Cosine struct{ Angle Numeric }

	// Arctangent returns the heading in millidegrees of the vector (X, Y),
	// using the same convention as movement. A zero vector yields 0.
	Arctangent struct{ X, Y Numeric }
)

func (e Constant) Evaluate(*Context) int64 { return e.Value }

func (e Add) Evaluate(c *Context) int64 { return e.Left.Evaluate(c) + e.Right.Evaluate(c) }

func (e Subtract) Evaluate(c *Context) int64 { return e.Left.Evaluate(c) - e.Right.Evaluate(c) }

func (e Multiply) Evaluate(c *Context) int64 { return e.Left.Evaluate(c) * e.Right.Evaluate(c) }

func (e Divide) Evaluate(c *Context) int64 {
	l := e.Left.Evaluate(c)
	r := e.Right.Evaluate(c)
	if r == 0 {
		Violate(ErrDivisionByZero, "%d / 0", l)
	}
	return l / r
}

func (e Min) Evaluate(c *Context) int64 { return min(e.Left.Evaluate(c), e.Right.Evaluate(c)) }

func (e Max) Evaluate(c *Context) int64 { return max(e.Left.Evaluate(c), e.Right.Evaluate(c)) }

func (e Absolute) Evaluate(c *Context) int64 {
	v := e.Operand.Evaluate(c)
	if v < 0 {
		return -v
	}
	return v
}

func (e Negate) Evaluate(c *Context) int64 { return -e.Operand.Evaluate(c) }

func (e RandomInteger) Evaluate(c *Context) int64 {
	bound := e.MaxExclusive.Evaluate(c)
	if bound <= 0 {
		Violate(ErrInvalidBound, "got %d", bound)
	}
	return c.RNG.NextInt(bound)
}

func (e Variable) Evaluate(c *Context) int64 {
	v, ok := c.Object.NumericVariables[e.Name]
	if !ok {
		Violate(ErrUnknownVariable, "numeric %q", e.Name)
	}
	return v
}

func (XMillis) Evaluate(c *Context) int64 { return c.Object.XMillis }

func (YMillis) Evaluate(c *Context) int64 { return c.Object.YMillis }

func (Speed) Evaluate(c *Context) int64 { return c.Object.SpeedInMillipixelsPerMillisecond }

func (MovementDirection) Evaluate(c *Context) int64 { return c.Object.MovementDirectionInMillidegrees }

func (FacingDirection) Evaluate(c *Context) int64 { return c.Object.FacingDirectionInMillidegrees }

func (PlayerXMillis) Evaluate(c *Context) int64 { return c.PlayerXMillis }

func (PlayerYMillis) Evaluate(c *Context) int64 { return c.PlayerYMillis }

func (ElapsedMillis) Evaluate(c *Context) int64 { return c.ElapsedMillis }

func (e Sine) Evaluate(c *Context) int64 {
	return physics.ScaleByRatio(physics.MilliScale, physics.Sin(e.Angle.Evaluate(c)))
}

func (e Cosine) Evaluate(c *Context) int64 {
	return physics.ScaleByRatio(physics.MilliScale, physics.Cos(e.Angle.Evaluate(c)))
}

func (e Arctangent) Evaluate(c *Context) int64 {
	x := e.X.Evaluate(c)
	y := e.Y.Evaluate(c)
	d, _ := physics.GetMovementDirection(0, 0, x, y)
	return d
}

func (Constant) numeric()          {}
func (Add) numeric()               {}
func (Subtract) numeric()          {}
func (Multiply) numeric()          {}
func (Divide) numeric()            {}
func (Min) numeric()               {}
func (Max) numeric()               {}
func (Absolute) numeric()          {}
func (Negate) numeric()            {}
func (RandomInteger) numeric()     {}
func (Variable) numeric()          {}
func (XMillis) numeric()           {}
func (YMillis) numeric()           {}
func (Speed) numeric()             {}
func (MovementDirection) numeric() {}
func (FacingDirection) numeric()   {}
func (PlayerXMillis) numeric()     {}
func (PlayerYMillis) numeric()     {}
func (ElapsedMillis) numeric()     {}
func (Sine) numeric()              {}
func (Cosine) numeric()            {}
func (Arctangent) numeric()        {}

// Int is shorthand for a numeric constant.
func Int(v int64) Numeric { return Constant{Value: v} }
