package ir

import (
	"fmt"

	"github.com/born-ml/qnn/internal/tensor"
)

// Type is the static type of an expression.
type Type interface {
	fmt.Stringer
	isType()
}

// TensorType is a fully known tensor type. A rank-0 shape is a scalar.
type TensorType struct {
	Shape tensor.Shape
	DType tensor.DataType
}

// NewTensorType returns a tensor type, copying shape.
func NewTensorType(shape tensor.Shape, dtype tensor.DataType) *TensorType {
	return &TensorType{Shape: shape.Clone(), DType: dtype}
}

// ScalarType returns the rank-0 tensor type of dtype.
func ScalarType(dtype tensor.DataType) *TensorType {
	return &TensorType{Shape: tensor.Shape{}, DType: dtype}
}

func (*TensorType) isType() {}

// String renders the type as Tensor[(d0, d1), dtype].
func (t *TensorType) String() string {
	return fmt.Sprintf("Tensor[%s, %s]", t.Shape, t.DType)
}

// IncompleteType is a placeholder that type inference has yet to resolve.
type IncompleteType struct {
	ID int
}

func (*IncompleteType) isType() {}

func (t *IncompleteType) String() string {
	return fmt.Sprintf("?%d", t.ID)
}

// AsTensor returns t as a *TensorType, or nil when t is not (yet) a tensor.
func AsTensor(t Type) *TensorType {
	tt, _ := t.(*TensorType)
	return tt
}

// IsIncomplete reports whether t is an unresolved placeholder.
func IsIncomplete(t Type) bool {
	_, ok := t.(*IncompleteType)
	return ok
}

// IsScalarType reports whether t is a rank-0 tensor of dtype.
func IsScalarType(t Type, dtype tensor.DataType) bool {
	tt := AsTensor(t)
	return tt != nil && tt.Shape.IsScalar() && tt.DType == dtype
}

// TypesEqual reports structural equality of two types. Placeholders are
// equal only to the same placeholder.
func TypesEqual(a, b Type) bool {
	switch at := a.(type) {
	case *TensorType:
		bt, ok := b.(*TensorType)
		return ok && at.DType == bt.DType && at.Shape.Equal(bt.Shape)
	case *IncompleteType:
		bt, ok := b.(*IncompleteType)
		return ok && at.ID == bt.ID
	default:
		return a == nil && b == nil
	}
}
