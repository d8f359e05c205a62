package qnn

import (
	"fmt"
	"math"
	"strconv"

	"github.com/pkg/errors"

	"github.com/born-ml/qnn/internal/ir"
	"github.com/born-ml/qnn/internal/tensor"
)

// Canonicalize lowers a qnn.softmax call into integer arithmetic following
// Algorithm 1 of "I-ViT: Integer-only Quantization for Efficient Vision
// Transformer Inference" (arXiv:2207.01405). The result is a complete
// fragment ending in qnn.requantize, or an error and no fragment.
//
// newArgs are [data, scale, zero_point, output_scale, output_zero_point];
// argTypes are their checked types. The input scale must be a constant so
// that round(1/scale) can be checked here instead of dividing by zero at run
// time.
func Canonicalize(attrs ir.Attrs, newArgs []ir.Expr, argTypes []ir.Type, consts Constants) (*ir.Fragment, error) {
	if err := consts.Validate(); err != nil {
		return nil, err
	}
	outDType, _ := consts.OutDType()

	if len(newArgs) != 5 || len(argTypes) != 5 {
		return nil, errors.Errorf("%s: expected 5 arguments and types, got %d and %d", OpSoftmax, len(newArgs), len(argTypes))
	}
	sa, ok := attrs.(*ir.SoftmaxAttrs)
	if !ok {
		return nil, errors.Errorf("%s: expected SoftmaxAttrs, got %T", OpSoftmax, attrs)
	}
	data := ir.AsTensor(argTypes[0])
	if data == nil || data.DType != tensor.Int8 {
		return nil, &TypeContractError{Op: OpSoftmax, Index: 0, Operand: "data", Expected: "int8 tensor", Actual: fmt.Sprint(argTypes[0])}
	}
	axis, err := data.Shape.NormalizeAxis(sa.Axis)
	if err != nil {
		return nil, &TypeContractError{
			Op:       OpSoftmax,
			Index:    0,
			Operand:  "data",
			Expected: fmt.Sprintf("axis in [%d, %d)", -data.Shape.Rank(), data.Shape.Rank()),
			Actual:   fmt.Sprintf("axis %d", sa.Axis),
		}
	}

	x0, err := reciprocalScale(newArgs[1], consts)
	if err != nil {
		return nil, err
	}
	if extent := data.Shape[axis]; extent != tensor.AnyDim && int64(extent) > (int64(math.MaxInt64)>>consts.N)/x0 {
		return nil, &PreconditionError{
			Step:    "sum(exp)",
			Value:   fmt.Sprintf("%d * (%d << %d)", extent, x0, consts.N),
			Details: "sum of exponents over the axis overflows int64",
		}
	}
	guarded := maxExponentQuotient(x0) > int64(consts.N)

	b := ir.NewBuilder()
	i64 := func(v int64) ir.Expr { return b.ConstInt(v, tensor.Int64) }
	axes := []int{axis}

	quantized := b.Subtract(b.Cast(newArgs[0], tensor.Int64), b.Cast(newArgs[2], tensor.Int64))
	x0Expr := i64(x0)
	maxValue := b.Max(quantized, axes, true)
	x := b.Subtract(quantized, maxValue)

	// x * log2(e) ~= x + x/2 - x/16.
	xp := b.Subtract(b.Add(x, b.RightShift(x, i64(1))), b.RightShift(x, i64(4)))
	negX0 := b.Negative(x0Expr)
	q := b.Divide(xp, negX0)
	r := b.Subtract(xp, b.Multiply(q, negX0))
	xb := b.Add(b.RightShift(r, i64(1)), x0Expr)

	// q >= 0. When q can exceed N the shift n-q would go negative, so the
	// exponent is scaled up first and shifted down by q instead.
	var exps ir.Expr
	if guarded {
		exps = b.RightShift(b.LeftShift(xb, i64(int64(consts.N))), q)
	} else {
		exps = b.LeftShift(xb, b.Subtract(i64(int64(consts.N)), q))
	}

	sums := b.Sum(exps, axes, true)
	output := b.RightShift(
		b.Multiply(b.Divide(i64(int64(1)<<consts.M), sums), exps),
		i64(int64(consts.M-consts.Bits)))

	requantized := Requantize(b,
		b.Cast(output, tensor.Int32),
		data.Shape,
		b.ConstFloat(1/float64(int64(1)<<consts.Bits), tensor.Float32),
		b.ConstInt(0, tensor.Int32),
		newArgs[3],
		newArgs[4],
		outDType)

	return b.Finish(requantized)
}

// reciprocalScale returns x0 = round(1/scale) computed in float32, checking
// that it is a positive integer whose shift by N fits in int64.
func reciprocalScale(scale ir.Expr, consts Constants) (int64, error) {
	c, ok := scale.(*ir.Constant)
	if !ok {
		return 0, &PreconditionError{
			Step:    "x0 = round(1/scale)",
			Value:   fmt.Sprintf("%T", scale),
			Details: "input scale must be a constant",
		}
	}
	s, ok := c.ScalarFloat()
	if !ok {
		return 0, &TypeContractError{
			Op:       OpSoftmax,
			Index:    1,
			Operand:  "scale",
			Expected: ir.ScalarType(tensor.Float32).String(),
			Actual:   c.Type().String(),
		}
	}

	inv := float64(float32(1) / float32(s))
	if math.IsNaN(inv) || math.IsInf(inv, 0) {
		return 0, &PreconditionError{
			Step:    "1/scale",
			Value:   strconv.FormatFloat(inv, 'g', -1, 64),
			Details: fmt.Sprintf("scale %g has no finite reciprocal", s),
		}
	}
	x0 := math.Round(inv)
	if x0 < 1 {
		return 0, &PreconditionError{
			Step:    "x0 = round(1/scale)",
			Value:   strconv.FormatFloat(x0, 'g', -1, 64),
			Details: fmt.Sprintf("scale %g must round to a positive reciprocal", s),
		}
	}
	if x0 > float64(int64(math.MaxInt64)>>consts.N) {
		return 0, &PreconditionError{
			Step:    "x0 << N",
			Value:   fmt.Sprintf("%.0f << %d", x0, consts.N),
			Details: "exponent base overflows int64",
		}
	}
	return int64(x0), nil
}

// maxExponentQuotient is the largest q = xp / -x0 reachable from int8 data.
// The centered input minus its maximum spans at most the int8 range.
func maxExponentQuotient(x0 int64) int64 {
	lo, hi := tensor.Int8.IntRange()
	var worst int64
	for x := lo - hi; x <= 0; x++ {
		xp := x + (x >> 1) - (x >> 4)
		worst = max(worst, xp/-x0)
	}
	return worst
}
