// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/qnn/internal/tensor"
)

// RawTensor is the low-level tensor representation.
//
// RawTensor provides:
//   - Shape and type information via Shape(), DType()
//   - Typed zero-copy views via AsInt8(), AsInt64(), AsFloat32(), etc.
//   - Widening element access via Int64At(), Float64At()
//   - Deep copies via Clone()
type RawTensor = tensor.RawTensor

// Shape represents tensor dimensions.
type Shape = tensor.Shape

// DataType represents the runtime element type.
type DataType = tensor.DataType

// AnyDim marks a symbolic dimension in a type's shape.
const AnyDim = tensor.AnyDim

// Data type constants.
const (
	Float32 = tensor.Float32
	Float64 = tensor.Float64
	Int8    = tensor.Int8
	Int16   = tensor.Int16
	Int32   = tensor.Int32
	Int64   = tensor.Int64
	Uint8   = tensor.Uint8
	Bool    = tensor.Bool
)

// NewRaw allocates a zeroed tensor.
func NewRaw(shape Shape, dtype DataType) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype)
}

// FromInt64s builds an integer tensor, wrapping values to dtype.
//
// Example:
//
//	x, err := tensor.FromInt64s([]int64{1, 2, 3, 4}, tensor.Shape{2, 2}, tensor.Int8)
func FromInt64s(values []int64, shape Shape, dtype DataType) (*RawTensor, error) {
	return tensor.FromInt64s(values, shape, dtype)
}

// FromFloat64s builds a floating-point tensor.
func FromFloat64s(values []float64, shape Shape, dtype DataType) (*RawTensor, error) {
	return tensor.FromFloat64s(values, shape, dtype)
}

// ParseShape parses "2, ?, 8" style shapes.
func ParseShape(text string) (Shape, error) {
	return tensor.ParseShape(text)
}

// ParseDataType parses a dtype name such as "int8".
func ParseDataType(s string) (DataType, error) {
	return tensor.ParseDataType(s)
}

// ScalarInt returns a rank-0 integer tensor.
func ScalarInt(v int64, dtype DataType) *RawTensor {
	return tensor.ScalarInt(v, dtype)
}

// ScalarFloat returns a rank-0 floating-point tensor.
func ScalarFloat(v float64, dtype DataType) *RawTensor {
	return tensor.ScalarFloat(v, dtype)
}
