package qnn

import (
	"github.com/born-ml/qnn/internal/ir"
	"github.com/born-ml/qnn/internal/tensor"
)

// Scale and zero point operands come as (scale, zero_point) pairs of
// rank-0 float32 and int32 tensors.
var quantParamDTypes = [4]tensor.DataType{tensor.Float32, tensor.Int32, tensor.Float32, tensor.Int32}

// checkQuantParams checks types[1:5] against the scalar parameter contract
// and assigns their canonical types. Placeholders are accepted and bound.
func checkQuantParams(op string, names []string, types []ir.Type, r ir.Reporter) error {
	for i, want := range quantParamDTypes {
		t := types[i+1]
		if ir.IsIncomplete(t) || ir.IsScalarType(t, want) {
			continue
		}
		return &TypeContractError{
			Op:       op,
			Index:    i + 1,
			Operand:  names[i+1],
			Expected: ir.ScalarType(want).String(),
			Actual:   t.String(),
			Details:  "quantization parameters must be scalars",
		}
	}
	for i, want := range quantParamDTypes {
		if err := r.Assign(types[i+1], ir.ScalarType(want)); err != nil {
			return &TypeContractError{
				Op:       op,
				Index:    i + 1,
				Operand:  names[i+1],
				Expected: ir.ScalarType(want).String(),
				Actual:   types[i+1].String(),
				Details:  err.Error(),
			}
		}
	}
	return nil
}
