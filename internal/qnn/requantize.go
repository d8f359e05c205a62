package qnn

import (
	"github.com/pkg/errors"

	"github.com/born-ml/qnn/internal/ir"
	"github.com/born-ml/qnn/internal/tensor"
)

// OpRequantize converts an integer tensor from one (scale, zero_point)
// scheme to another with round-to-nearest and saturation.
const OpRequantize = "qnn.requantize"

var requantizeOperands = []string{"data", "input_scale", "input_zero_point", "output_scale", "output_zero_point", "output"}

var requantizeOp = RequantizeOp()

// RequantizeOp describes qnn.requantize. Only its contract lives here; the
// arithmetic belongs to whatever executes the graph.
func RequantizeOp() *ir.Op {
	return &ir.Op{
		Name:        OpRequantize,
		Description: "Requantize an integer tensor to a new scale and zero point.",
		NumInputs:   5,
		Arguments: []ir.Argument{
			{Name: "data", TypeKey: "Tensor", Description: "The integer input tensor."},
			{Name: "input_scale", TypeKey: "Tensor", Description: "The quantization scale of the input tensor."},
			{Name: "input_zero_point", TypeKey: "Tensor", Description: "The quantization zero_point of the input tensor."},
			{Name: "output_scale", TypeKey: "Tensor", Description: "The quantization scale of the output tensor."},
			{Name: "output_zero_point", TypeKey: "Tensor", Description: "The quantization zero_point of the output tensor."},
		},
		SupportLevel: 11,
		Relation:     RequantizeRel,
	}
}

// RequantizeRel types qnn.requantize. Placeholder scale and zero point slots
// are bound to their canonical scalar types.
func RequantizeRel(types []ir.Type, attrs ir.Attrs, r ir.Reporter) (ir.RelStatus, error) {
	ra, ok := attrs.(*ir.RequantizeAttrs)
	if !ok {
		return ir.Rejected, errors.Errorf("%s: expected RequantizeAttrs, got %T", OpRequantize, attrs)
	}
	if len(types) != len(requantizeOperands) {
		return ir.Rejected, errors.Errorf("%s: expected %d types, got %d", OpRequantize, len(requantizeOperands), len(types))
	}
	data := ir.AsTensor(types[0])
	if data == nil {
		return ir.Unresolved, nil
	}
	switch data.DType {
	case tensor.Int8, tensor.Uint8, tensor.Int16, tensor.Int32:
	default:
		return ir.Rejected, &TypeContractError{
			Op:       OpRequantize,
			Index:    0,
			Operand:  "data",
			Expected: "int8, uint8, int16 or int32 tensor",
			Actual:   data.String(),
		}
	}
	if !ra.OutDType.IsInt() {
		return ir.Rejected, &TypeContractError{
			Op:       OpRequantize,
			Index:    5,
			Operand:  "output",
			Expected: "integer out_dtype",
			Actual:   ra.OutDType.String(),
		}
	}
	shape, err := data.Shape.Unify(ra.Shape)
	if err != nil {
		return ir.Rejected, &TypeContractError{
			Op:       OpRequantize,
			Index:    0,
			Operand:  "data",
			Expected: "shape " + ra.Shape.String(),
			Actual:   data.String(),
			Details:  err.Error(),
		}
	}
	if err := checkQuantParams(OpRequantize, requantizeOperands, types, r); err != nil {
		return ir.Rejected, err
	}
	if err := r.Assign(types[5], &ir.TensorType{Shape: shape, DType: ra.OutDType}); err != nil {
		return ir.Rejected, &TypeContractError{
			Op:       OpRequantize,
			Index:    5,
			Operand:  "output",
			Expected: (&ir.TensorType{Shape: shape, DType: ra.OutDType}).String(),
			Actual:   types[5].String(),
			Details:  err.Error(),
		}
	}
	return ir.Resolved, nil
}

// Requantize adds a qnn.requantize call to b.
func Requantize(b *ir.Builder, data ir.Expr, shape tensor.Shape,
	inputScale, inputZeroPoint, outputScale, outputZeroPoint ir.Expr, outDType tensor.DataType,
) ir.Expr {
	attrs := &ir.RequantizeAttrs{OutDType: outDType, Shape: shape.Clone()}
	return b.Call(requantizeOp, attrs, data, inputScale, inputZeroPoint, outputScale, outputZeroPoint)
}
