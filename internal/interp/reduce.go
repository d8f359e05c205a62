package interp

import (
	"math"

	"github.com/pkg/errors"

	"github.com/born-ml/qnn/internal/ir"
	"github.com/born-ml/qnn/internal/tensor"
)

// reduce computes max or sum over attrs.Axes.
//
// Example:
//
//	x: shape [2, 3], axes [1], keepdims → shape [2, 1]
//	x: shape [2, 3], axes [1]           → shape [2]
func reduce(op string, x *tensor.RawTensor, attrs *ir.ReduceAttrs) (*tensor.RawTensor, error) {
	shape := x.Shape()
	axes := make([]int, len(attrs.Axes))
	reduced := make([]bool, len(shape))
	for i, a := range attrs.Axes {
		norm, err := shape.NormalizeAxis(a)
		if err != nil {
			return nil, err
		}
		axes[i] = norm
		reduced[norm] = true
	}

	// Accumulate into the keep-dims layout, reshape at the end if needed.
	keptShape := shape.Reduce(axes, true)
	acc, err := tensor.NewRaw(keptShape, x.DType())
	if err != nil {
		return nil, err
	}

	inStrides := shape.ComputeStrides()
	outStrides := keptShape.ComputeStrides()
	outIndex := func(i int) int {
		idx := 0
		for d := range shape {
			coord := i / inStrides[d]
			i %= inStrides[d]
			if !reduced[d] {
				idx += coord * outStrides[d]
			}
		}
		return idx
	}

	n := x.NumElements()
	switch {
	case op == ir.OpSum && x.DType().IsFloat():
		for i := 0; i < n; i++ {
			o := outIndex(i)
			acc.SetFloat64(o, acc.Float64At(o)+x.Float64At(i))
		}
	case op == ir.OpSum:
		sums := make([]int64, acc.NumElements())
		for i := 0; i < n; i++ {
			sums[outIndex(i)] += x.Int64At(i)
		}
		for o, v := range sums {
			acc.SetInt64(o, v)
		}
	case op == ir.OpMax && x.DType().IsFloat():
		best := make([]float64, acc.NumElements())
		for o := range best {
			best[o] = math.Inf(-1)
		}
		for i := 0; i < n; i++ {
			o := outIndex(i)
			best[o] = math.Max(best[o], x.Float64At(i))
		}
		for o, v := range best {
			acc.SetFloat64(o, v)
		}
	case op == ir.OpMax:
		best := make([]int64, acc.NumElements())
		for o := range best {
			best[o] = math.MinInt64
		}
		for i := 0; i < n; i++ {
			o := outIndex(i)
			best[o] = max(best[o], x.Int64At(i))
		}
		for o, v := range best {
			acc.SetInt64(o, v)
		}
	default:
		return nil, errors.Errorf("unsupported reduction %q", op)
	}

	if attrs.KeepDims {
		return acc, nil
	}
	out, err := tensor.NewRaw(shape.Reduce(axes, false), x.DType())
	if err != nil {
		return nil, err
	}
	copy(out.Data(), acc.Data())
	return out, nil
}
