package script

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownVariable = errors.New("unknown variable")
	ErrDivisionByZero  = errors.New("division by zero")
	ErrMissingParent   = errors.New("object has no parent")
	ErrInvalidBound    = errors.New("random bound must be positive")
	ErrUnknownOperator = errors.New("unknown comparison operator")
)

// Violation carries a broken scripting contract out of a deeply recursive
// evaluation. It is raised with panic and recovered only at the tick boundary.
type Violation struct {
	Err error
}

func (v *Violation) Error() string { return "script contract violation: " + v.Err.Error() }

func (v *Violation) Unwrap() error { return v.Err }

// Violate raises a Violation wrapping err with optional detail.
func Violate(err error, format string, args ...any) {
	if format != "" {
		err = fmt.Errorf("%w: %s", err, fmt.Sprintf(format, args...))
	}
	panic(&Violation{Err: err})
}
