// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the dense tensors exchanged with the qnn lowering
// and its reference interpreter.
//
// # Overview
//
// A RawTensor is a row-major buffer tagged with a Shape and a DataType.
// Integer element access widens to int64 and stores wrap to the tensor's
// width, matching the two's-complement casts used by lowered graphs.
//
// # Basic Usage
//
//	import "github.com/born-ml/qnn/tensor"
//
//	func main() {
//	    x, err := tensor.FromInt64s([]int64{10, 20, 5}, tensor.Shape{3}, tensor.Int8)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(x) // [10 20 5]:int8(3)
//	}
//
// # Supported Data Types
//
//   - float32, float64 (quantization scales)
//   - int8, int16, int32, int64 (quantized data and intermediates)
//   - uint8, bool
//
// # Symbolic Dimensions
//
// Shapes used in types may contain AnyDim for extents unknown until run
// time. Tensors themselves always have concrete shapes.
package tensor
