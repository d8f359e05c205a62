package ir

import (
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/born-ml/qnn/internal/tensor"
)

var primitives = lo.KeyBy(PrimitiveOps(), func(op *Op) string { return op.Name })

// Builder constructs typed calls. Every call is type checked as it is added.
// The first failure is kept and every later method becomes a no-op returning
// nil, so a sequence of construction steps needs a single error check at
// Finish. A Builder is owned by one goroutine.
type Builder struct {
	err error
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Err returns the first error recorded, if any.
func (b *Builder) Err() error {
	return b.err
}

// Fail records err unless an earlier error is already recorded.
func (b *Builder) Fail(err error) {
	if b.err == nil && err != nil {
		b.err = err
	}
}

// Finish returns the fragment rooted at root, or the recorded error and no
// fragment.
func (b *Builder) Finish(root Expr) (*Fragment, error) {
	if b.err != nil {
		return nil, b.err
	}
	if root == nil {
		return nil, errors.New("builder: nil root")
	}
	return NewFragment(root), nil
}

// Call adds a call to op after checking it with op's relation.
func (b *Builder) Call(op *Op, attrs Attrs, args ...Expr) Expr {
	if b.err != nil {
		return nil
	}
	if len(args) != op.NumInputs {
		b.Fail(errors.Errorf("%s: expected %d arguments, got %d", op.Name, op.NumInputs, len(args)))
		return nil
	}

	solver := NewSolver()
	types := make([]Type, 0, len(args)+1)
	for i, arg := range args {
		if arg == nil {
			b.Fail(errors.Errorf("%s: argument %d is nil", op.Name, i))
			return nil
		}
		if AsTensor(arg.Type()) == nil {
			b.Fail(errors.Errorf("%s: argument %d has unresolved type %v", op.Name, i, arg.Type()))
			return nil
		}
		types = append(types, arg.Type())
	}
	out := solver.Fresh()
	types = append(types, out)

	status, err := op.Relation(types, attrs, solver)
	switch status {
	case Rejected:
		b.Fail(errors.Wrapf(err, "%s", op.Name))
		return nil
	case Unresolved:
		b.Fail(errors.Wrapf(ErrUnresolvedTypes, "%s", op.Name))
		return nil
	case Resolved:
	}

	call := NewCall(op.Name, args, attrs)
	call.CheckedType = solver.Resolve(out)
	if AsTensor(call.CheckedType) == nil {
		b.Fail(errors.Wrapf(ErrUnresolvedTypes, "%s: output type", op.Name))
		return nil
	}
	return call
}

func (b *Builder) primitive(name string, attrs Attrs, args ...Expr) Expr {
	return b.Call(primitives[name], attrs, args...)
}

// ConstInt returns a scalar integer constant.
func (b *Builder) ConstInt(v int64, dtype tensor.DataType) *Constant {
	return NewConstant(tensor.ScalarInt(v, dtype))
}

// ConstFloat returns a scalar floating-point constant.
func (b *Builder) ConstFloat(v float64, dtype tensor.DataType) *Constant {
	return NewConstant(tensor.ScalarFloat(v, dtype))
}

// Cast converts x to dtype.
func (b *Builder) Cast(x Expr, dtype tensor.DataType) Expr {
	return b.primitive(OpCast, &CastAttrs{DType: dtype}, x)
}

// Add returns lhs + rhs.
func (b *Builder) Add(lhs, rhs Expr) Expr { return b.primitive(OpAdd, nil, lhs, rhs) }

// Subtract returns lhs - rhs.
func (b *Builder) Subtract(lhs, rhs Expr) Expr { return b.primitive(OpSubtract, nil, lhs, rhs) }

// Multiply returns lhs * rhs.
func (b *Builder) Multiply(lhs, rhs Expr) Expr { return b.primitive(OpMultiply, nil, lhs, rhs) }

// Divide returns lhs / rhs, truncating toward zero for integers.
func (b *Builder) Divide(lhs, rhs Expr) Expr { return b.primitive(OpDivide, nil, lhs, rhs) }

// LeftShift returns lhs << rhs elementwise.
func (b *Builder) LeftShift(lhs, rhs Expr) Expr { return b.primitive(OpLeftShift, nil, lhs, rhs) }

// RightShift returns the arithmetic shift lhs >> rhs elementwise.
func (b *Builder) RightShift(lhs, rhs Expr) Expr { return b.primitive(OpRightShift, nil, lhs, rhs) }

// Negative returns -x.
func (b *Builder) Negative(x Expr) Expr { return b.primitive(OpNegative, nil, x) }

// Round rounds a float tensor half away from zero.
func (b *Builder) Round(x Expr) Expr { return b.primitive(OpRound, nil, x) }

// Max reduces x with max over axes.
func (b *Builder) Max(x Expr, axes []int, keepDims bool) Expr {
	return b.primitive(OpMax, &ReduceAttrs{Axes: axes, KeepDims: keepDims}, x)
}

// Sum reduces x with + over axes.
func (b *Builder) Sum(x Expr, axes []int, keepDims bool) Expr {
	return b.primitive(OpSum, &ReduceAttrs{Axes: axes, KeepDims: keepDims}, x)
}
