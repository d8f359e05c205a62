// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package qnn lowers quantized softmax to integer-only arithmetic.
//
// The qnn.softmax operator takes an int8 tensor with its input and output
// (scale, zero_point) pairs and is replaced, during canonicalization, by a
// graph of integer adds, shifts, divisions and max/sum reductions that ends
// in qnn.requantize. The approximation follows Algorithm 1 of "I-ViT:
// Integer-only Quantization for Efficient Vision Transformer Inference".
//
// # Supported Features
//
//   - Type relation with Unresolved/Resolved/Rejected outcomes
//   - Fixed-point exponent with N=30, M=60 and 8 output bits
//   - Any reduction axis, including negative axes and symbolic extents
//   - Text and JSON graph printing with stable fingerprints
//   - A reference interpreter to evaluate lowered graphs
//
// # Example Usage
//
//	import (
//	    "github.com/born-ml/qnn/qnn"
//	    "github.com/born-ml/qnn/tensor"
//	)
//
//	func main() {
//	    data := qnn.NewVar("data", qnn.NewTensorType(tensor.Shape{3}, tensor.Int8))
//	    call := qnn.MakeSoftmax(data, 0,
//	        qnn.Float32(1.0/256), qnn.Int32(0),
//	        qnn.Float32(1.0/256), qnn.Int32(-128))
//
//	    fn, err := qnn.Lower(qnn.NewFunction([]*qnn.Var{data}, call))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Print(fn)
//	}
//
// # Errors
//
// Type errors match ErrTypeContract and carry a *TypeContractError with the
// offending operand index. Lowering preconditions, such as an input scale
// whose reciprocal rounds to zero, match ErrNumericPrecondition.
package qnn
