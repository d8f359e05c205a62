// Package interp is a reference interpreter for ir graphs.
//
// Integer operations compute in int64 and wrap to the result dtype, integer
// division truncates toward zero and shifts are arithmetic. It exists to
// check lowered graphs numerically; it is not tuned for speed.
package interp

import (
	"github.com/pkg/errors"

	"github.com/born-ml/qnn/internal/ir"
	"github.com/born-ml/qnn/internal/parallel"
	"github.com/born-ml/qnn/internal/qnn"
	"github.com/born-ml/qnn/internal/tensor"
)

// Evaluation errors.
var (
	ErrNonComputational = errors.New("operator has no kernel; canonicalize the graph first")
	ErrDivisionByZero   = errors.New("integer division by zero")
	ErrNegativeShift    = errors.New("negative shift amount")
	ErrMissingInput     = errors.New("missing input")
)

// Interpreter evaluates graphs on the CPU. It holds no per-evaluation state
// and may be shared between goroutines.
type Interpreter struct {
	par parallel.Config
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithParallel sets the parallel-for configuration of elementwise kernels.
func WithParallel(cfg parallel.Config) Option {
	return func(in *Interpreter) { in.par = cfg }
}

// New creates an interpreter.
func New(opts ...Option) *Interpreter {
	in := &Interpreter{par: parallel.DefaultConfig()}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Evaluate runs fn on inputs keyed by parameter name.
func (in *Interpreter) Evaluate(fn *ir.Function, inputs map[string]*tensor.RawTensor) (*tensor.RawTensor, error) {
	for _, p := range fn.Params {
		if _, ok := inputs[p.Name]; !ok {
			return nil, errors.Wrapf(ErrMissingInput, "parameter %q", p.Name)
		}
	}
	return in.EvaluateExpr(fn.Body, inputs)
}

// EvaluateExpr evaluates root, resolving variables by name from inputs.
func (in *Interpreter) EvaluateExpr(root ir.Expr, inputs map[string]*tensor.RawTensor) (*tensor.RawTensor, error) {
	values := make(map[ir.Expr]*tensor.RawTensor)
	var evalErr error

	ir.PostOrder(root, func(e ir.Expr) {
		if evalErr != nil {
			return
		}
		var v *tensor.RawTensor
		switch n := e.(type) {
		case *ir.Var:
			v, evalErr = bindVar(n, inputs)
		case *ir.Constant:
			v = n.Value
		case *ir.Call:
			args := make([]*tensor.RawTensor, len(n.Args))
			for i, a := range n.Args {
				args[i] = values[a]
			}
			v, evalErr = in.call(n, args)
			if evalErr != nil {
				evalErr = errors.Wrapf(evalErr, "%s", n.Op)
			}
		}
		values[e] = v
	})
	if evalErr != nil {
		return nil, evalErr
	}
	return values[root], nil
}

func bindVar(v *ir.Var, inputs map[string]*tensor.RawTensor) (*tensor.RawTensor, error) {
	t, ok := inputs[v.Name]
	if !ok {
		return nil, errors.Wrapf(ErrMissingInput, "variable %q", v.Name)
	}
	if want := ir.AsTensor(v.Annotation); want != nil {
		if want.DType != t.DType() {
			return nil, errors.Errorf("input %q: expected dtype %s, got %s", v.Name, want.DType, t.DType())
		}
		if _, err := want.Shape.Unify(t.Shape()); err != nil {
			return nil, errors.Wrapf(err, "input %q", v.Name)
		}
	}
	return t, nil
}

func (in *Interpreter) call(c *ir.Call, args []*tensor.RawTensor) (*tensor.RawTensor, error) {
	switch c.Op {
	case ir.OpAdd, ir.OpSubtract, ir.OpMultiply, ir.OpDivide, ir.OpLeftShift, ir.OpRightShift:
		return in.binary(c.Op, args[0], args[1])
	case ir.OpNegative:
		return in.negative(args[0])
	case ir.OpRound:
		return in.round(args[0])
	case ir.OpCast:
		ca, ok := c.Attrs.(*ir.CastAttrs)
		if !ok {
			return nil, errors.Errorf("expected CastAttrs, got %T", c.Attrs)
		}
		return in.cast(args[0], ca.DType)
	case ir.OpMax, ir.OpSum:
		ra, ok := c.Attrs.(*ir.ReduceAttrs)
		if !ok {
			return nil, errors.Errorf("expected ReduceAttrs, got %T", c.Attrs)
		}
		return reduce(c.Op, args[0], ra)
	case qnn.OpRequantize:
		ra, ok := c.Attrs.(*ir.RequantizeAttrs)
		if !ok {
			return nil, errors.Errorf("expected RequantizeAttrs, got %T", c.Attrs)
		}
		return in.requantize(args, ra)
	case qnn.OpSoftmax:
		return nil, ErrNonComputational
	default:
		return nil, errors.Errorf("no kernel for operator %q", c.Op)
	}
}
