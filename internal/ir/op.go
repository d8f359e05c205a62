package ir

// Primitive operator names.
const (
	OpAdd        = "add"
	OpSubtract   = "subtract"
	OpMultiply   = "multiply"
	OpDivide     = "divide"
	OpNegative   = "negative"
	OpLeftShift  = "left_shift"
	OpRightShift = "right_shift"
	OpRound      = "round"
	OpCast       = "cast"
	OpMax        = "max"
	OpSum        = "sum"
)

// Argument documents one positional operand of an operator.
type Argument struct {
	Name        string
	TypeKey     string
	Description string
}

// CanonicalizeFunc rewrites a call into an equivalent expression made of
// lower-level operators. newArgs are the (already rewritten) arguments and
// argTypes their checked types.
type CanonicalizeFunc func(attrs Attrs, newArgs []Expr, argTypes []Type) (Expr, error)

// Op describes an operator: its operands, type relation and lowering hook.
// Ops are plain values; there is no process-wide table.
type Op struct {
	Name         string
	Description  string
	NumInputs    int
	Arguments    []Argument
	SupportLevel int
	Relation     Relation

	// NonComputational ops have no kernel and must be canonicalized away
	// before execution.
	NonComputational bool
	Canonicalize     CanonicalizeFunc
}

func unary(name, desc string, rel Relation) *Op {
	return &Op{
		Name:        name,
		Description: desc,
		NumInputs:   1,
		Arguments:   []Argument{{Name: "data", TypeKey: "Tensor", Description: "The input tensor."}},
		Relation:    rel,
	}
}

func binary(name, desc string, rel Relation) *Op {
	return &Op{
		Name:        name,
		Description: desc,
		NumInputs:   2,
		Arguments: []Argument{
			{Name: "lhs", TypeKey: "Tensor", Description: "The left hand side tensor."},
			{Name: "rhs", TypeKey: "Tensor", Description: "The right hand side tensor."},
		},
		Relation: rel,
	}
}

// PrimitiveOps returns descriptors for the primitive operators the builder emits.
func PrimitiveOps() []*Op {
	return []*Op{
		binary(OpAdd, "Elementwise addition with broadcasting.", BroadcastRel),
		binary(OpSubtract, "Elementwise subtraction with broadcasting.", BroadcastRel),
		binary(OpMultiply, "Elementwise multiplication with broadcasting.", BroadcastRel),
		binary(OpDivide, "Elementwise division; integer division truncates toward zero.", BroadcastRel),
		binary(OpLeftShift, "Elementwise left shift by a per-element amount.", IntBroadcastRel),
		binary(OpRightShift, "Elementwise arithmetic right shift by a per-element amount.", IntBroadcastRel),
		unary(OpNegative, "Elementwise negation.", IdentityRel),
		unary(OpRound, "Round half away from zero.", FloatIdentityRel),
		unary(OpCast, "Convert to CastAttrs.DType.", CastRel),
		unary(OpMax, "Maximum over ReduceAttrs.Axes.", ReduceRel),
		unary(OpSum, "Sum over ReduceAttrs.Axes.", ReduceRel),
	}
}
