package script

// CompareOp selects the relation tested by Compare.
type CompareOp int

const (
	Equal CompareOp = iota
	NotEqual
	LessThan
	LessThanOrEqual
	GreaterThan
	GreaterThanOrEqual
)

func (op CompareOp) String() string {
	switch op {
	case Equal:
		return "=="
	case NotEqual:
		return "!="
	case LessThan:
		return "<"
	case LessThanOrEqual:
		return "<="
	case GreaterThan:
		return ">"
	case GreaterThanOrEqual:
		return ">="
	default:
		return "?"
	}
}

type (
	BoolConstant struct{ Value bool }
	BoolVariable struct{ Name string }

	Not struct{ Operand Boolean }
	// And and Or short-circuit, so random draws on the right-hand side only
	// happen when the left-hand side does not decide the result.
	And struct{ Left, Right Boolean }
	Or  struct{ Left, Right Boolean }

	Compare struct {
		Op          CompareOp
		Left, Right Numeric
	}

	// ParentDestroyed requires the object to have a parent.
	ParentDestroyed struct{}
	PlayerDestroyed struct{}

	// RandomBool is a fair coin flip drawn from the tick's random source.
	RandomBool struct{}
)

// True and False are the boolean constants.
var (
	True  Boolean = BoolConstant{Value: true}
	False Boolean = BoolConstant{Value: false}
)

func (e BoolConstant) Evaluate(*Context) bool { return e.Value }

func (e BoolVariable) Evaluate(c *Context) bool {
	v, ok := c.Object.BooleanVariables[e.Name]
	if !ok {
		Violate(ErrUnknownVariable, "boolean %q", e.Name)
	}
	return v
}

func (e Not) Evaluate(c *Context) bool { return !e.Operand.Evaluate(c) }

func (e And) Evaluate(c *Context) bool { return e.Left.Evaluate(c) && e.Right.Evaluate(c) }

func (e Or) Evaluate(c *Context) bool { return e.Left.Evaluate(c) || e.Right.Evaluate(c) }

func (e Compare) Evaluate(c *Context) bool {
	l := e.Left.Evaluate(c)
	r := e.Right.Evaluate(c)
	switch e.Op {
	case Equal:
		return l == r
	case NotEqual:
		return l != r
	case LessThan:
		return l < r
	case LessThanOrEqual:
		return l <= r
	case GreaterThan:
		return l > r
	case GreaterThanOrEqual:
		return l >= r
	default:
		Violate(ErrUnknownOperator, "%d", int(e.Op))
		return false
	}
}

func (ParentDestroyed) Evaluate(c *Context) bool {
	if c.IsParentDestroyed == nil {
		Violate(ErrMissingParent, "")
	}
	return *c.IsParentDestroyed
}

func (PlayerDestroyed) Evaluate(c *Context) bool { return c.IsPlayerDestroyed }

func (RandomBool) Evaluate(c *Context) bool { return c.RNG.NextBool() }

func (BoolConstant) boolean()    {}
func (BoolVariable) boolean()    {}
func (Not) boolean()             {}
func (And) boolean()             {}
func (Or) boolean()              {}
func (Compare) boolean()         {}
func (ParentDestroyed) boolean() {}
func (PlayerDestroyed) boolean() {}
func (RandomBool) boolean()      {}

// Less reports l < r.
func Less(l, r Numeric) Boolean { return Compare{Op: LessThan, Left: l, Right: r} }

// Greater reports l > r.
func Greater(l, r Numeric) Boolean { return Compare{Op: GreaterThan, Left: l, Right: r} }

// Equals reports l == r.
func Equals(l, r Numeric) Boolean { return Compare{Op: Equal, Left: l, Right: r} }
