package interp

import (
	"math"

	"github.com/pkg/errors"

	"github.com/born-ml/qnn/internal/ir"
	"github.com/born-ml/qnn/internal/parallel"
	"github.com/born-ml/qnn/internal/tensor"
)

type intKernel func(x, y int64) (int64, error)

type floatKernel func(x, y float64) float64

func intKernelFor(op string) intKernel {
	switch op {
	case ir.OpAdd:
		return func(x, y int64) (int64, error) { return x + y, nil }
	case ir.OpSubtract:
		return func(x, y int64) (int64, error) { return x - y, nil }
	case ir.OpMultiply:
		return func(x, y int64) (int64, error) { return x * y, nil }
	case ir.OpDivide:
		return func(x, y int64) (int64, error) {
			if y == 0 {
				return 0, ErrDivisionByZero
			}
			return x / y, nil
		}
	case ir.OpLeftShift:
		return func(x, y int64) (int64, error) {
			if y < 0 {
				return 0, errors.Wrapf(ErrNegativeShift, "%d << %d", x, y)
			}
			return x << uint64(y), nil
		}
	case ir.OpRightShift:
		return func(x, y int64) (int64, error) {
			if y < 0 {
				return 0, errors.Wrapf(ErrNegativeShift, "%d >> %d", x, y)
			}
			return x >> uint64(y), nil
		}
	default:
		return nil
	}
}

func floatKernelFor(op string) floatKernel {
	switch op {
	case ir.OpAdd:
		return func(x, y float64) float64 { return x + y }
	case ir.OpSubtract:
		return func(x, y float64) float64 { return x - y }
	case ir.OpMultiply:
		return func(x, y float64) float64 { return x * y }
	case ir.OpDivide:
		return func(x, y float64) float64 { return x / y }
	default:
		return nil
	}
}

// binary applies op elementwise with NumPy-style broadcasting.
func (in *Interpreter) binary(op string, a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	if a.DType() != b.DType() {
		return nil, errors.Errorf("operand dtypes differ: %s vs %s", a.DType(), b.DType())
	}
	outShape, _, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		return nil, err
	}
	result, err := tensor.NewRaw(outShape, a.DType())
	if err != nil {
		return nil, err
	}

	outStrides := outShape.ComputeStrides()
	aStrides := broadcastStrides(a.Shape(), outShape)
	bStrides := broadcastStrides(b.Shape(), outShape)
	n := outShape.NumElements()

	if a.DType().IsFloat() {
		kernel := floatKernelFor(op)
		if kernel == nil {
			return nil, errors.Errorf("%s is not defined for %s", op, a.DType())
		}
		parallel.For(n, func(i int) {
			x := a.Float64At(flatIndex(i, outStrides, aStrides))
			y := b.Float64At(flatIndex(i, outStrides, bStrides))
			result.SetFloat64(i, kernel(x, y))
		}, in.par)
		return result, nil
	}

	kernel := intKernelFor(op)
	if kernel == nil {
		return nil, errors.Errorf("%s is not defined for %s", op, a.DType())
	}
	err = parallel.ForErr(n, func(i int) error {
		x := a.Int64At(flatIndex(i, outStrides, aStrides))
		y := b.Int64At(flatIndex(i, outStrides, bStrides))
		v, err := kernel(x, y)
		if err != nil {
			return err
		}
		result.SetInt64(i, v)
		return nil
	}, in.par)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (in *Interpreter) negative(x *tensor.RawTensor) (*tensor.RawTensor, error) {
	result, err := tensor.NewRaw(x.Shape(), x.DType())
	if err != nil {
		return nil, err
	}
	if x.DType().IsFloat() {
		parallel.For(x.NumElements(), func(i int) { result.SetFloat64(i, -x.Float64At(i)) }, in.par)
	} else {
		parallel.For(x.NumElements(), func(i int) { result.SetInt64(i, -x.Int64At(i)) }, in.par)
	}
	return result, nil
}

func (in *Interpreter) round(x *tensor.RawTensor) (*tensor.RawTensor, error) {
	if !x.DType().IsFloat() {
		return nil, errors.Errorf("round requires a float tensor, got %s", x.DType())
	}
	result, err := tensor.NewRaw(x.Shape(), x.DType())
	if err != nil {
		return nil, err
	}
	parallel.For(x.NumElements(), func(i int) { result.SetFloat64(i, math.Round(x.Float64At(i))) }, in.par)
	return result, nil
}

// cast converts x to dtype. Integer narrowing wraps; float to integer
// truncates toward zero.
func (in *Interpreter) cast(x *tensor.RawTensor, dtype tensor.DataType) (*tensor.RawTensor, error) {
	result, err := tensor.NewRaw(x.Shape(), dtype)
	if err != nil {
		return nil, err
	}
	src, dst := x.DType().IsFloat(), dtype.IsFloat()
	parallel.For(x.NumElements(), func(i int) {
		switch {
		case src && dst:
			result.SetFloat64(i, x.Float64At(i))
		case src:
			result.SetInt64(i, int64(x.Float64At(i)))
		case dst:
			result.SetFloat64(i, float64(x.Int64At(i)))
		default:
			result.SetInt64(i, x.Int64At(i))
		}
	}, in.par)
	return result, nil
}
