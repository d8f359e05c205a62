// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package qnn

import (
	"context"

	"github.com/born-ml/qnn/internal/interp"
	"github.com/born-ml/qnn/internal/ir"
	"github.com/born-ml/qnn/internal/logger"
	"github.com/born-ml/qnn/internal/operators"
	"github.com/born-ml/qnn/internal/pass"
	internalqnn "github.com/born-ml/qnn/internal/qnn"
	"github.com/born-ml/qnn/tensor"
)

// Graph types.
type (
	// Expr is a node of the expression graph.
	Expr = ir.Expr
	// Var is a function input.
	Var = ir.Var
	// Constant is a tensor literal.
	Constant = ir.Constant
	// Call applies an operator to arguments.
	Call = ir.Call
	// Function is a graph with named inputs.
	Function = ir.Function
	// Fragment is a built subgraph replacing one call.
	Fragment = ir.Fragment
	// Type is the static type of an expression.
	Type = ir.Type
	// TensorType is a known tensor type.
	TensorType = ir.TensorType
	// Attrs carries non-tensor call parameters.
	Attrs = ir.Attrs
	// SoftmaxAttrs holds the softmax axis.
	SoftmaxAttrs = ir.SoftmaxAttrs
	// Op describes an operator.
	Op = ir.Op
	// Reporter receives type assignments from relations.
	Reporter = ir.Reporter
	// RelStatus is the outcome of a type relation.
	RelStatus = ir.RelStatus
)

// Relation outcomes.
const (
	Unresolved = ir.Unresolved
	Resolved   = ir.Resolved
	Rejected   = ir.Rejected
)

// Operator names.
const (
	OpSoftmax    = internalqnn.OpSoftmax
	OpRequantize = internalqnn.OpRequantize
)

// Constants is the fixed-point budget of the lowering.
type Constants = internalqnn.Constants

// Registry maps operator names to descriptors.
type Registry = operators.Registry

// Error types.
type (
	// TypeContractError reports an operand breaking the operator contract.
	TypeContractError = internalqnn.TypeContractError
	// PreconditionError reports an unsound lowering input.
	PreconditionError = internalqnn.PreconditionError
	// LoweringError wraps the failure of one call during Lower.
	LoweringError = pass.LoweringError
)

// Sentinel errors for errors.Is.
var (
	ErrTypeContract        = internalqnn.ErrTypeContract
	ErrNumericPrecondition = internalqnn.ErrNumericPrecondition
	ErrUnresolvedTypes     = ir.ErrUnresolvedTypes
	ErrNonComputational    = interp.ErrNonComputational
)

// NewVar creates a function input. A nil type is inferred when possible.
func NewVar(name string, t Type) *Var {
	return ir.NewVar(name, t)
}

// NewTensorType returns the type of a tensor with shape and dtype.
func NewTensorType(shape tensor.Shape, dtype tensor.DataType) *TensorType {
	return ir.NewTensorType(shape, dtype)
}

// NewFunction creates a function.
func NewFunction(params []*Var, body Expr) *Function {
	return ir.NewFunction(params, body)
}

// Float32 returns a scalar float32 constant, the type of scales.
func Float32(v float64) *Constant {
	return ir.NewConstant(tensor.ScalarFloat(v, tensor.Float32))
}

// Int32 returns a scalar int32 constant, the type of zero points.
func Int32(v int64) *Constant {
	return ir.NewConstant(tensor.ScalarInt(v, tensor.Int32))
}

// MakeSoftmax builds an untyped qnn.softmax call.
func MakeSoftmax(data Expr, axis int, scale, zeroPoint, outputScale, outputZeroPoint Expr) *Call {
	return internalqnn.MakeSoftmax(data, axis, scale, zeroPoint, outputScale, outputZeroPoint)
}

// SoftmaxRel is the qnn.softmax type relation over
// [data, scale, zero_point, output_scale, output_zero_point, output].
func SoftmaxRel(types []Type, attrs Attrs, r Reporter) (RelStatus, error) {
	return internalqnn.SoftmaxRel(types, attrs, r)
}

// SoftmaxOp returns the qnn.softmax descriptor for hosts keeping their own
// operator tables.
func SoftmaxOp() *Op {
	return internalqnn.SoftmaxOp()
}

// DefaultConstants returns N=30, M=60, Bits=8.
func DefaultConstants() Constants {
	return internalqnn.DefaultConstants()
}

// Canonicalize lowers one softmax call given its rewritten arguments and
// their checked types. Either the whole fragment or an error is returned.
func Canonicalize(attrs Attrs, newArgs []Expr, argTypes []Type, consts Constants) (*Fragment, error) {
	return internalqnn.Canonicalize(attrs, newArgs, argTypes, consts)
}

// NewRegistry returns the primitive and qnn operators.
func NewRegistry() *Registry {
	return operators.NewRegistry()
}

// InferTypes type checks fn in place.
func InferTypes(fn *Function) error {
	return ir.InferTypes(fn, operators.NewRegistry())
}

// Lower type checks fn and replaces every qnn.softmax call with its integer
// lowering. Calls that cannot be lowered stay in the result and are
// reported as *LoweringError values.
func Lower(fn *Function) (*Function, error) {
	return pass.NewCanonicalizer(operators.NewRegistry(), nil).Run(fn)
}

// LowerAll lowers independent functions concurrently, logging through the
// logger stored in ctx, if any.
func LowerAll(ctx context.Context, fns []*Function, workers int) ([]*Function, error) {
	return pass.NewCanonicalizer(operators.NewRegistry(), logger.FromContext(ctx)).RunAll(ctx, fns, workers)
}

// Evaluate runs a lowered function on inputs keyed by parameter name.
func Evaluate(fn *Function, inputs map[string]*tensor.RawTensor) (*tensor.RawTensor, error) {
	return interp.New().Evaluate(fn, inputs)
}
