package main

import (
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"

	"github.com/born-ml/qnn/internal/ir"
	"github.com/born-ml/qnn/internal/qnn"
	"github.com/born-ml/qnn/internal/tensor"
)

// softmaxParams holds the quantization operands read from the flags.
type softmaxParams struct {
	axis         int
	scale        float64
	zeroPoint    int64
	outScale     float64
	outZeroPoint int64
}

func paramsFromFlags(cmd *cli.Command) softmaxParams {
	return softmaxParams{
		axis:         cmd.Int("axis"),
		scale:        cmd.Float("scale"),
		zeroPoint:    int64(cmd.Int("zero-point")),
		outScale:     cmd.Float("out-scale"),
		outZeroPoint: int64(cmd.Int("out-zero-point")),
	}
}

// softmaxFunction builds fn(data) = qnn.softmax(data, <constant params>).
func softmaxFunction(shape tensor.Shape, p softmaxParams) *ir.Function {
	data := ir.NewVar("data", ir.NewTensorType(shape, tensor.Int8))
	call := qnn.MakeSoftmax(data, p.axis,
		ir.NewConstant(tensor.ScalarFloat(p.scale, tensor.Float32)),
		ir.NewConstant(tensor.ScalarInt(p.zeroPoint, tensor.Int32)),
		ir.NewConstant(tensor.ScalarFloat(p.outScale, tensor.Float32)),
		ir.NewConstant(tensor.ScalarInt(p.outZeroPoint, tensor.Int32)))
	return ir.NewFunction([]*ir.Var{data}, call)
}

func parseShapes(specs []string) ([]tensor.Shape, error) {
	shapes := make([]tensor.Shape, len(specs))
	for i, spec := range specs {
		s, err := tensor.ParseShape(spec)
		if err != nil {
			return nil, errors.Wrapf(err, "--shape %q", spec)
		}
		if s.IsScalar() {
			return nil, errors.Errorf("--shape %q: softmax needs at least one axis", spec)
		}
		shapes[i] = s
	}
	return shapes, nil
}
