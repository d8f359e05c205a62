// Package qnn implements the quantized softmax operator: its type relation
// and its lowering into integer-only arithmetic ending in a requantize.
package qnn

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/born-ml/qnn/internal/ir"
	"github.com/born-ml/qnn/internal/tensor"
)

// OpSoftmax is the operator name of quantized softmax.
const OpSoftmax = "qnn.softmax"

// softmaxOperands names the relation slots: five arguments then the output.
var softmaxOperands = []string{"data", "scale", "zero_point", "output_scale", "output_zero_point", "output"}

// SoftmaxOp describes qnn.softmax. Its Canonicalize hook lowers with
// DefaultConstants.
func SoftmaxOp() *ir.Op {
	return &ir.Op{
		Name:        OpSoftmax,
		Description: "Softmax for quantized tensors.",
		NumInputs:   5,
		Arguments: []ir.Argument{
			{Name: "data", TypeKey: "Quantized Tensor", Description: "The input data."},
			{Name: "scale", TypeKey: "Tensor", Description: "The quantization scale of the input tensor."},
			{Name: "zero_point", TypeKey: "Tensor", Description: "The quantization zero_point of the input tensor."},
			{Name: "output_scale", TypeKey: "Tensor", Description: "The quantization scale of the output tensor."},
			{Name: "output_zero_point", TypeKey: "Tensor", Description: "The quantization zero_point of the output tensor."},
		},
		SupportLevel:     11,
		Relation:         SoftmaxRel,
		NonComputational: true,
		Canonicalize: func(attrs ir.Attrs, newArgs []ir.Expr, argTypes []ir.Type) (ir.Expr, error) {
			frag, err := Canonicalize(attrs, newArgs, argTypes, DefaultConstants())
			if err != nil {
				return nil, err
			}
			return frag.Root, nil
		},
	}
}

// MakeSoftmax builds an untyped qnn.softmax call.
func MakeSoftmax(data ir.Expr, axis int, scale, zeroPoint, outputScale, outputZeroPoint ir.Expr) *ir.Call {
	return ir.NewCall(OpSoftmax,
		[]ir.Expr{data, scale, zeroPoint, outputScale, outputZeroPoint},
		&ir.SoftmaxAttrs{Axis: axis})
}

// SoftmaxRel is the type relation of qnn.softmax over
// [data, scale, zero_point, output_scale, output_zero_point, output].
//
// A data slot that is not yet a tensor, or any parameter slot still a
// placeholder, leaves the relation Unresolved. Wrong dtypes, non-scalar
// parameters, an out of range axis or a conflicting output are Rejected
// with a *TypeContractError.
func SoftmaxRel(types []ir.Type, attrs ir.Attrs, r ir.Reporter) (ir.RelStatus, error) {
	if len(types) != len(softmaxOperands) {
		return ir.Rejected, &TypeContractError{
			Op:       OpSoftmax,
			Index:    len(types),
			Operand:  "types",
			Expected: fmt.Sprintf("%d types", len(softmaxOperands)),
			Actual:   fmt.Sprintf("%d types", len(types)),
		}
	}
	x := ir.AsTensor(types[0])
	if x == nil {
		return ir.Unresolved, nil
	}
	if x.DType != tensor.Int8 {
		return ir.Rejected, &TypeContractError{
			Op:       OpSoftmax,
			Index:    0,
			Operand:  "data",
			Expected: "int8 tensor",
			Actual:   x.String(),
		}
	}

	for i := 1; i < 5; i++ {
		if ir.IsIncomplete(types[i]) {
			return ir.Unresolved, nil
		}
	}
	if err := checkQuantParams(OpSoftmax, softmaxOperands, types, r); err != nil {
		return ir.Rejected, err
	}

	sa, ok := attrs.(*ir.SoftmaxAttrs)
	if !ok {
		return ir.Rejected, errors.Errorf("%s: expected SoftmaxAttrs, got %T", OpSoftmax, attrs)
	}
	if _, err := x.Shape.NormalizeAxis(sa.Axis); err != nil {
		return ir.Rejected, &TypeContractError{
			Op:       OpSoftmax,
			Index:    0,
			Operand:  "data",
			Expected: fmt.Sprintf("axis in [%d, %d)", -x.Shape.Rank(), x.Shape.Rank()),
			Actual:   fmt.Sprintf("axis %d", sa.Axis),
			Details:  err.Error(),
		}
	}

	status, err := ir.IdentityRel([]ir.Type{types[0], types[5]}, attrs, r)
	if status == ir.Rejected {
		return ir.Rejected, &TypeContractError{
			Op:       OpSoftmax,
			Index:    5,
			Operand:  "output",
			Expected: x.String(),
			Actual:   types[5].String(),
			Details:  err.Error(),
		}
	}
	return status, err
}
