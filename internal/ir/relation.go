package ir

import (
	"github.com/pkg/errors"

	"github.com/born-ml/qnn/internal/tensor"
)

// RelStatus is the outcome of running a type relation.
type RelStatus int

// Relation outcomes. Unresolved asks the solver to retry once more types are
// known; Rejected is final and comes with an error.
const (
	Unresolved RelStatus = iota
	Resolved
	Rejected
)

// String returns the status name.
func (s RelStatus) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case Resolved:
		return "resolved"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Reporter receives the type assignments a relation makes.
type Reporter interface {
	// Assign unifies dst with src, binding dst if it is a placeholder.
	Assign(dst, src Type) error
}

// Relation checks the argument types of a call and derives its output type.
// types holds one entry per argument followed by the output type.
type Relation func(types []Type, attrs Attrs, r Reporter) (RelStatus, error)

// reject is a helper for the common Rejected return.
func reject(err error) (RelStatus, error) {
	return Rejected, err
}

// IdentityRel assigns every later type to equal types[0].
func IdentityRel(types []Type, _ Attrs, r Reporter) (RelStatus, error) {
	if AsTensor(types[0]) == nil {
		return Unresolved, nil
	}
	for i := 1; i < len(types); i++ {
		if err := r.Assign(types[i], types[0]); err != nil {
			return reject(errors.Wrapf(err, "type %d does not match input", i))
		}
	}
	return Resolved, nil
}

// BroadcastRel types a binary elementwise operator: both operands share a
// dtype and the output takes the broadcast shape.
func BroadcastRel(types []Type, _ Attrs, r Reporter) (RelStatus, error) {
	if len(types) != 3 {
		return reject(errors.Errorf("binary operator expects 2 operands, got %d", len(types)-1))
	}
	lhs, rhs := AsTensor(types[0]), AsTensor(types[1])
	if lhs == nil || rhs == nil {
		return Unresolved, nil
	}
	if lhs.DType != rhs.DType {
		return reject(errors.Errorf("operand dtypes differ: %s vs %s", lhs.DType, rhs.DType))
	}
	shape, _, err := tensor.BroadcastShapes(lhs.Shape, rhs.Shape)
	if err != nil {
		return reject(err)
	}
	if err := r.Assign(types[2], &TensorType{Shape: shape, DType: lhs.DType}); err != nil {
		return reject(err)
	}
	return Resolved, nil
}

// IntBroadcastRel is BroadcastRel restricted to integer operands, for shifts.
func IntBroadcastRel(types []Type, attrs Attrs, r Reporter) (RelStatus, error) {
	if lhs := AsTensor(types[0]); lhs != nil && !lhs.DType.IsInt() {
		return reject(errors.Errorf("operator requires integer operands, got %s", lhs.DType))
	}
	return BroadcastRel(types, attrs, r)
}

// FloatIdentityRel is IdentityRel restricted to floating-point operands.
func FloatIdentityRel(types []Type, attrs Attrs, r Reporter) (RelStatus, error) {
	if in := AsTensor(types[0]); in != nil && !in.DType.IsFloat() {
		return reject(errors.Errorf("operator requires a float operand, got %s", in.DType))
	}
	return IdentityRel(types, attrs, r)
}

// CastRel keeps the operand shape and switches to CastAttrs.DType.
func CastRel(types []Type, attrs Attrs, r Reporter) (RelStatus, error) {
	ca, ok := attrs.(*CastAttrs)
	if !ok {
		return reject(errors.Errorf("cast expects CastAttrs, got %T", attrs))
	}
	in := AsTensor(types[0])
	if in == nil {
		return Unresolved, nil
	}
	if err := r.Assign(types[1], NewTensorType(in.Shape, ca.DType)); err != nil {
		return reject(err)
	}
	return Resolved, nil
}

// ReduceRel types max/sum reductions over ReduceAttrs.Axes.
func ReduceRel(types []Type, attrs Attrs, r Reporter) (RelStatus, error) {
	ra, ok := attrs.(*ReduceAttrs)
	if !ok {
		return reject(errors.Errorf("reduction expects ReduceAttrs, got %T", attrs))
	}
	in := AsTensor(types[0])
	if in == nil {
		return Unresolved, nil
	}
	axes := make([]int, len(ra.Axes))
	for i, a := range ra.Axes {
		norm, err := in.Shape.NormalizeAxis(a)
		if err != nil {
			return reject(err)
		}
		axes[i] = norm
	}
	out := &TensorType{Shape: in.Shape.Reduce(axes, ra.KeepDims), DType: in.DType}
	if err := r.Assign(types[1], out); err != nil {
		return reject(err)
	}
	return Resolved, nil
}
