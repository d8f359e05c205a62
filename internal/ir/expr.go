// Package ir is a small typed expression graph: variables, constants and
// operator calls, plus the type relations, inference and builder used to
// construct and rewrite graphs.
package ir

import (
	"github.com/born-ml/qnn/internal/tensor"
)

// Expr is a node of the expression graph.
type Expr interface {
	// Type returns the node's type; a *IncompleteType or nil before inference.
	Type() Type
	isExpr()
}

// Var is a free input of a function.
type Var struct {
	Name       string
	Annotation Type
}

// NewVar creates a variable. A nil annotation is replaced by a placeholder
// during InferTypes.
func NewVar(name string, annotation Type) *Var {
	return &Var{Name: name, Annotation: annotation}
}

func (*Var) isExpr() {}

// Type returns the variable's annotation.
func (v *Var) Type() Type { return v.Annotation }

// Constant is an immutable tensor literal.
type Constant struct {
	Value *tensor.RawTensor
}

// NewConstant wraps a tensor as a constant expression.
func NewConstant(value *tensor.RawTensor) *Constant {
	return &Constant{Value: value}
}

func (*Constant) isExpr() {}

// Type returns the literal's tensor type.
func (c *Constant) Type() Type {
	return NewTensorType(c.Value.Shape(), c.Value.DType())
}

// ScalarInt returns the value of an integer rank-0 constant.
func (c *Constant) ScalarInt() (int64, bool) {
	if !c.Value.Shape().IsScalar() || !c.Value.DType().IsInt() {
		return 0, false
	}
	return c.Value.Int64At(0), true
}

// ScalarFloat returns the value of a floating-point rank-0 constant.
func (c *Constant) ScalarFloat() (float64, bool) {
	if !c.Value.Shape().IsScalar() || !c.Value.DType().IsFloat() {
		return 0, false
	}
	return c.Value.Float64At(0), true
}

// Call applies an operator to arguments.
type Call struct {
	Op          string
	Args        []Expr
	Attrs       Attrs
	CheckedType Type
}

// NewCall creates an untyped call; InferTypes or the Builder fills CheckedType.
func NewCall(op string, args []Expr, attrs Attrs) *Call {
	return &Call{Op: op, Args: args, Attrs: attrs}
}

func (*Call) isExpr() {}

// Type returns the inferred type of the call.
func (c *Call) Type() Type { return c.CheckedType }
