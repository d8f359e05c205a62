package qnn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/qnn/internal/ir"
	"github.com/born-ml/qnn/internal/tensor"
)

func f32() *ir.TensorType { return ir.ScalarType(tensor.Float32) }

func i32() *ir.TensorType { return ir.ScalarType(tensor.Int32) }

// relTypes returns [data, scale, zp, out_scale, out_zp, output] with an
// unbound output placeholder.
func relTypes(s *ir.Solver, data ir.Type) []ir.Type {
	return []ir.Type{data, f32(), i32(), f32(), i32(), s.Fresh()}
}

func requireContractError(t *testing.T, err error, index int) *TypeContractError {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTypeContract)
	var tce *TypeContractError
	require.ErrorAs(t, err, &tce)
	assert.Equal(t, OpSoftmax, tce.Op)
	assert.Equal(t, index, tce.Index)
	return tce
}

func TestSoftmaxRel_Resolves(t *testing.T) {
	s := ir.NewSolver()
	types := relTypes(s, ir.NewTensorType(tensor.Shape{2, 3}, tensor.Int8))

	status, err := SoftmaxRel(types, &ir.SoftmaxAttrs{Axis: 1}, s)
	require.NoError(t, err)
	assert.Equal(t, ir.Resolved, status)

	out := ir.AsTensor(s.Resolve(types[5]))
	require.NotNil(t, out)
	assert.Equal(t, tensor.Int8, out.DType)
	assert.Equal(t, tensor.Shape{2, 3}, out.Shape)
}

func TestSoftmaxRel_NegativeAxis(t *testing.T) {
	s := ir.NewSolver()
	types := relTypes(s, ir.NewTensorType(tensor.Shape{2, 3}, tensor.Int8))

	status, err := SoftmaxRel(types, &ir.SoftmaxAttrs{Axis: -2}, s)
	require.NoError(t, err)
	assert.Equal(t, ir.Resolved, status)
}

func TestSoftmaxRel_RejectsUint8(t *testing.T) {
	s := ir.NewSolver()
	types := relTypes(s, ir.NewTensorType(tensor.Shape{4}, tensor.Uint8))

	status, err := SoftmaxRel(types, &ir.SoftmaxAttrs{Axis: 0}, s)
	assert.Equal(t, ir.Rejected, status)
	tce := requireContractError(t, err, 0)
	assert.Equal(t, "data", tce.Operand)
	assert.Contains(t, tce.Actual, "uint8")
}

func TestSoftmaxRel_RejectsBadParams(t *testing.T) {
	tests := []struct {
		name  string
		index int
		param ir.Type
	}{
		{"vector scale", 1, ir.NewTensorType(tensor.Shape{2}, tensor.Float32)},
		{"float64 scale", 1, ir.ScalarType(tensor.Float64)},
		{"int8 zero point", 2, ir.ScalarType(tensor.Int8)},
		{"int32 output scale", 3, ir.ScalarType(tensor.Int32)},
		{"vector output zero point", 4, ir.NewTensorType(tensor.Shape{1}, tensor.Int32)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ir.NewSolver()
			types := relTypes(s, ir.NewTensorType(tensor.Shape{3}, tensor.Int8))
			types[tt.index] = tt.param

			status, err := SoftmaxRel(types, &ir.SoftmaxAttrs{Axis: 0}, s)
			assert.Equal(t, ir.Rejected, status)
			tce := requireContractError(t, err, tt.index)
			assert.Equal(t, softmaxOperands[tt.index], tce.Operand)
			assert.Equal(t, tt.param.String(), tce.Actual)
		})
	}
}

func TestSoftmaxRel_AxisOutOfRange(t *testing.T) {
	for _, axis := range []int{2, -3} {
		s := ir.NewSolver()
		types := relTypes(s, ir.NewTensorType(tensor.Shape{2, 2}, tensor.Int8))

		status, err := SoftmaxRel(types, &ir.SoftmaxAttrs{Axis: axis}, s)
		assert.Equal(t, ir.Rejected, status, "axis %d", axis)
		requireContractError(t, err, 0)
	}
}

func TestSoftmaxRel_OutputMismatch(t *testing.T) {
	tests := []struct {
		name string
		out  ir.Type
	}{
		{"shape", ir.NewTensorType(tensor.Shape{3}, tensor.Int8)},
		{"dtype", ir.NewTensorType(tensor.Shape{2, 3}, tensor.Int32)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ir.NewSolver()
			types := relTypes(s, ir.NewTensorType(tensor.Shape{2, 3}, tensor.Int8))
			types[5] = tt.out

			status, err := SoftmaxRel(types, &ir.SoftmaxAttrs{Axis: 0}, s)
			assert.Equal(t, ir.Rejected, status)
			tce := requireContractError(t, err, 5)
			assert.Equal(t, "output", tce.Operand)
		})
	}
}

func TestSoftmaxRel_DefersIncompleteTypes(t *testing.T) {
	s := ir.NewSolver()
	data := s.Fresh()
	types := relTypes(s, data)
	attrs := &ir.SoftmaxAttrs{Axis: 0}

	status, err := SoftmaxRel(types, attrs, s)
	require.NoError(t, err)
	assert.Equal(t, ir.Unresolved, status)

	require.NoError(t, s.Assign(data, ir.NewTensorType(tensor.Shape{5}, tensor.Int8)))
	for i := range types {
		types[i] = s.Resolve(types[i])
	}
	status, err = SoftmaxRel(types, attrs, s)
	require.NoError(t, err)
	assert.Equal(t, ir.Resolved, status)
}

func TestSoftmaxRel_DefersIncompleteParams(t *testing.T) {
	s := ir.NewSolver()
	types := relTypes(s, ir.NewTensorType(tensor.Shape{5}, tensor.Int8))
	scale := s.Fresh()
	types[3] = scale

	status, err := SoftmaxRel(types, &ir.SoftmaxAttrs{Axis: 0}, s)
	require.NoError(t, err)
	assert.Equal(t, ir.Unresolved, status)
	assert.True(t, ir.IsIncomplete(s.Resolve(scale)), "deferral must not assign")
	assert.True(t, ir.IsIncomplete(s.Resolve(types[5])))
}

func TestSoftmaxRel_WrongArity(t *testing.T) {
	s := ir.NewSolver()
	types := relTypes(s, ir.NewTensorType(tensor.Shape{5}, tensor.Int8))[:5]

	status, err := SoftmaxRel(types, &ir.SoftmaxAttrs{Axis: 0}, s)
	assert.Equal(t, ir.Rejected, status)
	assert.ErrorIs(t, err, ErrTypeContract)
}

func TestSoftmaxOp_Metadata(t *testing.T) {
	op := SoftmaxOp()

	assert.Equal(t, OpSoftmax, op.Name)
	assert.Equal(t, 5, op.NumInputs)
	assert.Len(t, op.Arguments, op.NumInputs)
	assert.True(t, op.NonComputational)
	assert.NotNil(t, op.Canonicalize)
	assert.Equal(t, "data", op.Arguments[0].Name)
	assert.Equal(t, "output_zero_point", op.Arguments[4].Name)
}

func TestMakeSoftmax(t *testing.T) {
	data := ir.NewVar("x", nil)
	c := ir.NewConstant(tensor.ScalarFloat(1, tensor.Float32))
	call := MakeSoftmax(data, -1, c, c, c, c)

	assert.Equal(t, OpSoftmax, call.Op)
	assert.Len(t, call.Args, 5)
	assert.Same(t, data, call.Args[0])
	assert.Equal(t, &ir.SoftmaxAttrs{Axis: -1}, call.Attrs)
	assert.Nil(t, call.CheckedType)
}
