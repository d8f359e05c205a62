package ir

import (
	"github.com/born-ml/qnn/internal/tensor"
)

// Attrs carries the non-tensor parameters of a call.
type Attrs interface {
	AttrsName() string
}

// SoftmaxAttrs configures softmax-like operators.
type SoftmaxAttrs struct {
	Axis int `json:"axis"`
}

// AttrsName implements Attrs.
func (*SoftmaxAttrs) AttrsName() string { return "SoftmaxAttrs" }

// ReduceAttrs configures max/sum reductions.
type ReduceAttrs struct {
	Axes     []int `json:"axes"`
	KeepDims bool  `json:"keepdims"`
}

// AttrsName implements Attrs.
func (*ReduceAttrs) AttrsName() string { return "ReduceAttrs" }

// CastAttrs names the target dtype of a cast.
type CastAttrs struct {
	DType tensor.DataType `json:"dtype"`
}

// AttrsName implements Attrs.
func (*CastAttrs) AttrsName() string { return "CastAttrs" }

// RequantizeAttrs configures a requantize call.
type RequantizeAttrs struct {
	OutDType tensor.DataType `json:"out_dtype"`
	Shape    tensor.Shape    `json:"shape"`
}

// AttrsName implements Attrs.
func (*RequantizeAttrs) AttrsName() string { return "RequantizeAttrs" }
