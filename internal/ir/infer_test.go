package ir

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/qnn/internal/tensor"
)

type opTable map[string]*Op

func (t opTable) Get(name string) (*Op, bool) {
	op, ok := t[name]
	return op, ok
}

func primitiveTable() opTable {
	return lo.KeyBy(PrimitiveOps(), func(op *Op) string { return op.Name })
}

func TestInferTypes_Chain(t *testing.T) {
	x := NewVar("x", NewTensorType(tensor.Shape{2, 3}, tensor.Int32))
	wide := NewCall(OpCast, []Expr{x}, &CastAttrs{DType: tensor.Int64})
	sum := NewCall(OpSum, []Expr{wide}, &ReduceAttrs{Axes: []int{0}, KeepDims: true})
	body := NewCall(OpSubtract, []Expr{wide, sum}, nil)
	fn := NewFunction([]*Var{x}, body)

	require.NoError(t, InferTypes(fn, primitiveTable()))
	assert.Equal(t, "Tensor[(1, 3), int64]", sum.CheckedType.String())
	assert.Equal(t, "Tensor[(2, 3), int64]", body.CheckedType.String())
}

func TestInferTypes_IgnoresUnusedParams(t *testing.T) {
	x := NewVar("x", NewTensorType(tensor.Shape{3}, tensor.Int64))
	y := NewVar("y", nil)
	neg := NewCall(OpNegative, []Expr{x}, nil)
	body := NewCall(OpAdd, []Expr{neg, x}, nil)
	fn := NewFunction([]*Var{x, y}, body)

	require.NoError(t, InferTypes(fn, primitiveTable()))
	assert.Equal(t, "Tensor[(3), int64]", body.CheckedType.String())
	assert.Nil(t, y.Annotation, "unused params are not touched")
}

func TestInferTypes_Unresolved(t *testing.T) {
	y := NewVar("y", nil)
	fn := NewFunction([]*Var{y}, NewCall(OpNegative, []Expr{y}, nil))

	err := InferTypes(fn, primitiveTable())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnresolvedTypes))
	assert.Contains(t, err.Error(), OpNegative)
}

func TestInferTypes_Rejected(t *testing.T) {
	x := NewVar("x", NewTensorType(tensor.Shape{3}, tensor.Int64))
	y := NewVar("y", NewTensorType(tensor.Shape{4}, tensor.Int64))
	fn := NewFunction([]*Var{x, y}, NewCall(OpAdd, []Expr{x, y}, nil))

	err := InferTypes(fn, primitiveTable())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broadcasting")
}

func TestInferTypes_UnknownOpAndArity(t *testing.T) {
	x := NewVar("x", NewTensorType(tensor.Shape{3}, tensor.Int64))

	err := InferTypes(NewFunction([]*Var{x}, NewCall("conv", []Expr{x}, nil)), primitiveTable())
	assert.ErrorContains(t, err, "unknown operator")

	err = InferTypes(NewFunction([]*Var{x}, NewCall(OpAdd, []Expr{x}, nil)), primitiveTable())
	assert.ErrorContains(t, err, "expected 2 arguments")
}

func TestInferTypes_Idempotent(t *testing.T) {
	x := NewVar("x", NewTensorType(tensor.Shape{tensor.AnyDim, 4}, tensor.Int64))
	body := NewCall(OpMax, []Expr{x}, &ReduceAttrs{Axes: []int{-1}, KeepDims: false})
	fn := NewFunction([]*Var{x}, body)

	require.NoError(t, InferTypes(fn, primitiveTable()))
	first := body.CheckedType
	require.NoError(t, InferTypes(fn, primitiveTable()))
	assert.True(t, TypesEqual(first, body.CheckedType))
	assert.Equal(t, "Tensor[(?), int64]", first.String())
}

func TestSolver_Assign(t *testing.T) {
	s := NewSolver()
	a, b := s.Fresh(), s.Fresh()
	require.NotEqual(t, a.ID, b.ID)

	require.NoError(t, s.Assign(a, b))
	require.NoError(t, s.Assign(b, ScalarType(tensor.Int32)))
	assert.True(t, IsScalarType(s.Resolve(a), tensor.Int32))

	assert.Error(t, s.Assign(a, ScalarType(tensor.Float32)))
	assert.NoError(t, s.Assign(
		NewTensorType(tensor.Shape{tensor.AnyDim}, tensor.Int8),
		NewTensorType(tensor.Shape{5}, tensor.Int8)))
	assert.Error(t, s.Assign(nil, a))
}

func TestRelStatus_String(t *testing.T) {
	assert.Equal(t, "unresolved", Unresolved.String())
	assert.Equal(t, "resolved", Resolved.String())
	assert.Equal(t, "rejected", Rejected.String())
	assert.Equal(t, "unknown", RelStatus(9).String())
}

func TestRelations(t *testing.T) {
	s := NewSolver()
	i64 := func(dims ...int) Type { return NewTensorType(dims, tensor.Int64) }

	out := s.Fresh()
	status, err := BroadcastRel([]Type{i64(3, 1), i64(1, 4), out}, nil, s)
	require.NoError(t, err)
	assert.Equal(t, Resolved, status)
	assert.Equal(t, "Tensor[(3, 4), int64]", s.Resolve(out).String())

	status, _ = BroadcastRel([]Type{s.Fresh(), i64(3), s.Fresh()}, nil, s)
	assert.Equal(t, Unresolved, status)

	status, err = FloatIdentityRel([]Type{i64(3), s.Fresh()}, nil, s)
	assert.Equal(t, Rejected, status)
	assert.Error(t, err)

	cast := s.Fresh()
	status, err = CastRel([]Type{i64(2), cast}, &CastAttrs{DType: tensor.Int32}, s)
	require.NoError(t, err)
	assert.Equal(t, Resolved, status)
	assert.Equal(t, "Tensor[(2), int32]", s.Resolve(cast).String())

	status, _ = CastRel([]Type{i64(2), s.Fresh()}, nil, s)
	assert.Equal(t, Rejected, status)

	status, _ = ReduceRel([]Type{i64(2), s.Fresh()}, &ReduceAttrs{Axes: []int{3}}, s)
	assert.Equal(t, Rejected, status)
}
