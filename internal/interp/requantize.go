package interp

import (
	"math"

	"github.com/pkg/errors"

	"github.com/born-ml/qnn/internal/ir"
	"github.com/born-ml/qnn/internal/parallel"
	"github.com/born-ml/qnn/internal/tensor"
)

// requantize maps q to round((q - zp_in) * s_in / s_out) + zp_out, rounding
// half away from zero and saturating to attrs.OutDType.
func (in *Interpreter) requantize(args []*tensor.RawTensor, attrs *ir.RequantizeAttrs) (*tensor.RawTensor, error) {
	data, inScale, inZP, outScale, outZP := args[0], args[1], args[2], args[3], args[4]
	for i, p := range args[1:] {
		if !p.Shape().IsScalar() {
			return nil, errors.Errorf("quantization parameter %d must be a scalar, got shape %v", i+1, p.Shape())
		}
	}
	sOut := outScale.Float64At(0)
	if sOut == 0 || math.IsNaN(sOut) {
		return nil, errors.Errorf("invalid output scale %g", sOut)
	}
	multiplier := inScale.Float64At(0) / sOut
	zpIn, zpOut := inZP.Int64At(0), outZP.Int64At(0)
	lo, hi := attrs.OutDType.IntRange()

	result, err := tensor.NewRaw(data.Shape(), attrs.OutDType)
	if err != nil {
		return nil, err
	}
	parallel.For(data.NumElements(), func(i int) {
		v := math.Round(float64(data.Int64At(i)-zpIn)*multiplier) + float64(zpOut)
		result.SetInt64(i, int64(math.Max(float64(lo), math.Min(float64(hi), v))))
	}, in.par)
	return result, nil
}
