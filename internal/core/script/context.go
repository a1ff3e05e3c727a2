package script

import "github.com/zeusync/danmaku/internal/core/random"

// ObjectInfo is the read-only view of an object that expressions may inspect.
// The variable maps are shared with the object and must not be modified.
type ObjectInfo struct {
	XMillis                          int64
	YMillis                          int64
	SpeedInMillipixelsPerMillisecond int64
	MovementDirectionInMillidegrees  int64
	FacingDirectionInMillidegrees    int64
	NumericVariables                 map[string]int64
	BooleanVariables                 map[string]bool
}

// Context is everything an expression can observe during one evaluation.
type Context struct {
	Object ObjectInfo

	PlayerXMillis     int64
	PlayerYMillis     int64
	ElapsedMillis     int64
	IsPlayerDestroyed bool

	// IsParentDestroyed is nil when the object has no parent.
	IsParentDestroyed *bool

	RNG random.Source
}

// Numeric is an integer-valued expression. Evaluation never mutates state
// other than advancing the random source.
type Numeric interface {
	Evaluate(c *Context) int64
	numeric()
}

// Boolean is a truth-valued expression.
type Boolean interface {
	Evaluate(c *Context) bool
	boolean()
}
