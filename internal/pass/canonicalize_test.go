package pass

import (
	"bytes"
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/qnn/internal/interp"
	"github.com/born-ml/qnn/internal/ir"
	"github.com/born-ml/qnn/internal/logger"
	"github.com/born-ml/qnn/internal/operators"
	"github.com/born-ml/qnn/internal/qnn"
	"github.com/born-ml/qnn/internal/tensor"
)

// softmaxFunction builds fn(data: int8[shape]) = qnn.softmax(data, ...).
func softmaxFunction(shape tensor.Shape, scale float64) (*ir.Function, *ir.Var) {
	data := ir.NewVar("data", ir.NewTensorType(shape, tensor.Int8))
	call := qnn.MakeSoftmax(data, -1,
		ir.NewConstant(tensor.ScalarFloat(scale, tensor.Float32)),
		ir.NewConstant(tensor.ScalarInt(0, tensor.Int32)),
		ir.NewConstant(tensor.ScalarFloat(1.0/255, tensor.Float32)),
		ir.NewConstant(tensor.ScalarInt(-128, tensor.Int32)))
	return ir.NewFunction([]*ir.Var{data}, call), data
}

func countOps(fn *ir.Function, op string) int {
	n := 0
	for _, c := range fn.Calls() {
		if c.Op == op {
			n++
		}
	}
	return n
}

func TestCanonicalizer_LowersSoftmax(t *testing.T) {
	fn, _ := softmaxFunction(tensor.Shape{3}, 1)
	c := NewCanonicalizer(operators.NewRegistry(), nil)

	lowered, err := c.Run(fn)
	require.NoError(t, err)

	assert.Zero(t, countOps(lowered, qnn.OpSoftmax))
	root, ok := lowered.Body.(*ir.Call)
	require.True(t, ok)
	assert.Equal(t, qnn.OpRequantize, root.Op)
	assert.True(t, ir.TypesEqual(ir.NewTensorType(tensor.Shape{3}, tensor.Int8), root.CheckedType))

	input, err := tensor.FromInt64s([]int64{0, 0, 0}, tensor.Shape{3}, tensor.Int8)
	require.NoError(t, err)
	out, err := interp.New().Evaluate(lowered, map[string]*tensor.RawTensor{"data": input})
	require.NoError(t, err)
	assert.Equal(t, []int64{-43, -43, -43}, out.Int64s())
}

func TestCanonicalizer_KeepsFailedCall(t *testing.T) {
	var buf bytes.Buffer
	log := logger.Text(&buf, logger.ParseLevel("debug"))

	// round(1/10) = 0 has no usable fixed-point reciprocal.
	fn, _ := softmaxFunction(tensor.Shape{4}, 10)
	lowered, err := NewCanonicalizer(operators.NewRegistry(), log).Run(fn)
	require.Error(t, err)
	require.NotNil(t, lowered)

	var lerr *LoweringError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, qnn.OpSoftmax, lerr.Op)
	assert.ErrorIs(t, err, qnn.ErrNumericPrecondition)

	assert.Equal(t, 1, countOps(lowered, qnn.OpSoftmax))
	assert.Contains(t, buf.String(), "lowering failed")
}

func TestCanonicalizer_UnresolvedInput(t *testing.T) {
	data := ir.NewVar("data", nil)
	call := qnn.MakeSoftmax(data, 0,
		ir.NewConstant(tensor.ScalarFloat(1, tensor.Float32)),
		ir.NewConstant(tensor.ScalarInt(0, tensor.Int32)),
		ir.NewConstant(tensor.ScalarFloat(1, tensor.Float32)),
		ir.NewConstant(tensor.ScalarInt(0, tensor.Int32)))
	fn := ir.NewFunction([]*ir.Var{data}, call)

	_, err := NewCanonicalizer(operators.NewRegistry(), nil).Run(fn)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ir.ErrUnresolvedTypes))
}

func TestCanonicalizer_RejectedInput(t *testing.T) {
	data := ir.NewVar("data", ir.NewTensorType(tensor.Shape{2}, tensor.Uint8))
	call := qnn.MakeSoftmax(data, 0,
		ir.NewConstant(tensor.ScalarFloat(1, tensor.Float32)),
		ir.NewConstant(tensor.ScalarInt(0, tensor.Int32)),
		ir.NewConstant(tensor.ScalarFloat(1, tensor.Float32)),
		ir.NewConstant(tensor.ScalarInt(0, tensor.Int32)))

	_, err := NewCanonicalizer(operators.NewRegistry(), nil).Run(ir.NewFunction([]*ir.Var{data}, call))
	require.Error(t, err)
	assert.ErrorIs(t, err, qnn.ErrTypeContract)
}

func TestCanonicalizer_LeavesPrimitivesAlone(t *testing.T) {
	x := ir.NewVar("x", ir.NewTensorType(tensor.Shape{2}, tensor.Int64))
	body := ir.NewCall(ir.OpAdd, []ir.Expr{x, x}, nil)
	fn := ir.NewFunction([]*ir.Var{x}, body)

	lowered, err := NewCanonicalizer(operators.NewRegistry(), nil).Run(fn)
	require.NoError(t, err)
	assert.Same(t, body, lowered.Body)
}

func TestCanonicalizer_RunAll(t *testing.T) {
	fns := make([]*ir.Function, 4)
	for i := range fns {
		fns[i], _ = softmaxFunction(tensor.Shape{2, i + 1}, 1.0/256)
	}

	out, err := NewCanonicalizer(operators.NewRegistry(), nil).RunAll(context.Background(), fns, 2)
	require.NoError(t, err)
	require.Len(t, out, len(fns))
	for i, fn := range out {
		require.NotNil(t, fn)
		root := fn.Body.(*ir.Call)
		assert.Equal(t, qnn.OpRequantize, root.Op)
		assert.True(t, ir.TypesEqual(ir.NewTensorType(tensor.Shape{2, i + 1}, tensor.Int8), root.CheckedType))
	}
}

func TestCanonicalizer_RunAllCanceled(t *testing.T) {
	fn, _ := softmaxFunction(tensor.Shape{3}, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCanonicalizer(operators.NewRegistry(), nil).RunAll(ctx, []*ir.Function{fn}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
