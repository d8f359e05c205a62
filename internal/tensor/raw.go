package tensor

import (
	"fmt"
	"unsafe"
)

// RawTensor is the low-level tensor representation: a dense row-major byte
// buffer tagged with a shape and dtype. Shapes must be fully concrete.
type RawTensor struct {
	data   []byte
	shape  Shape
	stride []int
	dtype  DataType
}

// NewRaw creates a new RawTensor with the given shape and type.
// Memory is allocated and zeroed.
func NewRaw(shape Shape, dtype DataType) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if !shape.IsStatic() {
		return nil, fmt.Errorf("cannot allocate tensor with symbolic shape %v", shape)
	}

	// Round up to 8 bytes so typed views of any dtype stay aligned.
	byteSize := shape.NumElements() * dtype.Size()
	words := make([]uint64, (byteSize+7)/8)
	var data []byte
	if len(words) > 0 {
		//nolint:gosec // backing array is owned by this tensor
		data = unsafe.Slice((*byte)(unsafe.Pointer(&words[0])), byteSize)
	}

	return &RawTensor{
		data:   data,
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		dtype:  dtype,
	}, nil
}

// FromInt64s builds an integer tensor from values, wrapping each one to the
// width of dtype.
func FromInt64s(values []int64, shape Shape, dtype DataType) (*RawTensor, error) {
	if !dtype.IsInt() && dtype != Bool {
		return nil, fmt.Errorf("FromInt64s: %s is not an integer type", dtype)
	}
	if shape.NumElements() != len(values) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(values))
	}
	raw, err := NewRaw(shape, dtype)
	if err != nil {
		return nil, err
	}
	for i, v := range values {
		raw.SetInt64(i, v)
	}
	return raw, nil
}

// FromFloat64s builds a floating-point tensor from values.
func FromFloat64s(values []float64, shape Shape, dtype DataType) (*RawTensor, error) {
	if !dtype.IsFloat() {
		return nil, fmt.Errorf("FromFloat64s: %s is not a float type", dtype)
	}
	if shape.NumElements() != len(values) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(values))
	}
	raw, err := NewRaw(shape, dtype)
	if err != nil {
		return nil, err
	}
	for i, v := range values {
		raw.SetFloat64(i, v)
	}
	return raw, nil
}

// ScalarInt returns a rank-0 integer tensor.
func ScalarInt(v int64, dtype DataType) *RawTensor {
	raw, err := FromInt64s([]int64{v}, Shape{}, dtype)
	if err != nil {
		panic(err)
	}
	return raw
}

// ScalarFloat returns a rank-0 floating-point tensor.
func ScalarFloat(v float64, dtype DataType) *RawTensor {
	raw, err := FromFloat64s([]float64{v}, Shape{}, dtype)
	if err != nil {
		panic(err)
	}
	return raw
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// Strides returns the tensor's memory strides.
func (r *RawTensor) Strides() []int {
	return r.stride
}

// DType returns the tensor's data type.
func (r *RawTensor) DType() DataType {
	return r.dtype
}

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int {
	return r.shape.NumElements()
}

// Data returns the raw byte slice.
// WARNING: Direct access to underlying memory. Use with caution.
func (r *RawTensor) Data() []byte {
	return r.data
}

// AsInt8 interprets the data as []int8.
// Panics if the tensor's dtype is not Int8.
func (r *RawTensor) AsInt8() []int8 {
	r.mustBe(Int8)
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by NumElements()
	return unsafe.Slice((*int8)(unsafe.Pointer(unsafe.SliceData(r.data))), r.NumElements())
}

// AsInt16 interprets the data as []int16.
func (r *RawTensor) AsInt16() []int16 {
	r.mustBe(Int16)
	//nolint:gosec // see AsInt8
	return unsafe.Slice((*int16)(unsafe.Pointer(unsafe.SliceData(r.data))), r.NumElements())
}

// AsInt32 interprets the data as []int32.
func (r *RawTensor) AsInt32() []int32 {
	r.mustBe(Int32)
	//nolint:gosec // see AsInt8
	return unsafe.Slice((*int32)(unsafe.Pointer(unsafe.SliceData(r.data))), r.NumElements())
}

// AsInt64 interprets the data as []int64.
func (r *RawTensor) AsInt64() []int64 {
	r.mustBe(Int64)
	//nolint:gosec // see AsInt8
	return unsafe.Slice((*int64)(unsafe.Pointer(unsafe.SliceData(r.data))), r.NumElements())
}

// AsFloat32 interprets the data as []float32.
func (r *RawTensor) AsFloat32() []float32 {
	r.mustBe(Float32)
	//nolint:gosec // see AsInt8
	return unsafe.Slice((*float32)(unsafe.Pointer(unsafe.SliceData(r.data))), r.NumElements())
}

// AsFloat64 interprets the data as []float64.
func (r *RawTensor) AsFloat64() []float64 {
	r.mustBe(Float64)
	//nolint:gosec // see AsInt8
	return unsafe.Slice((*float64)(unsafe.Pointer(unsafe.SliceData(r.data))), r.NumElements())
}

// AsUint8 interprets the data as []uint8.
func (r *RawTensor) AsUint8() []uint8 {
	if r.dtype != Uint8 && r.dtype != Bool {
		panic(fmt.Sprintf("tensor dtype is %s, not uint8", r.dtype))
	}
	return r.data
}

func (r *RawTensor) mustBe(dt DataType) {
	if r.dtype != dt {
		panic(fmt.Sprintf("tensor dtype is %s, not %s", r.dtype, dt))
	}
}

// Int64At returns element i of an integer tensor widened to int64.
func (r *RawTensor) Int64At(i int) int64 {
	switch r.dtype {
	case Int8:
		return int64(r.AsInt8()[i])
	case Int16:
		return int64(r.AsInt16()[i])
	case Int32:
		return int64(r.AsInt32()[i])
	case Int64:
		return r.AsInt64()[i]
	case Uint8, Bool:
		return int64(r.data[i])
	default:
		panic(fmt.Sprintf("Int64At: unsupported dtype %s", r.dtype))
	}
}

// SetInt64 stores v at element i, wrapping to the tensor's width.
func (r *RawTensor) SetInt64(i int, v int64) {
	v = r.dtype.Wrap(v)
	switch r.dtype {
	case Int8:
		r.AsInt8()[i] = int8(v)
	case Int16:
		r.AsInt16()[i] = int16(v)
	case Int32:
		r.AsInt32()[i] = int32(v)
	case Int64:
		r.AsInt64()[i] = v
	case Uint8, Bool:
		r.data[i] = uint8(v)
	default:
		panic(fmt.Sprintf("SetInt64: unsupported dtype %s", r.dtype))
	}
}

// Float64At returns element i of a float tensor widened to float64.
func (r *RawTensor) Float64At(i int) float64 {
	switch r.dtype {
	case Float32:
		return float64(r.AsFloat32()[i])
	case Float64:
		return r.AsFloat64()[i]
	default:
		panic(fmt.Sprintf("Float64At: unsupported dtype %s", r.dtype))
	}
}

// SetFloat64 stores v at element i, rounding to float32 when needed.
func (r *RawTensor) SetFloat64(i int, v float64) {
	switch r.dtype {
	case Float32:
		r.AsFloat32()[i] = float32(v)
	case Float64:
		r.AsFloat64()[i] = v
	default:
		panic(fmt.Sprintf("SetFloat64: unsupported dtype %s", r.dtype))
	}
}

// Int64s copies an integer tensor's elements into a fresh []int64.
func (r *RawTensor) Int64s() []int64 {
	out := make([]int64, r.NumElements())
	for i := range out {
		out[i] = r.Int64At(i)
	}
	return out
}

// Float64s copies a float tensor's elements into a fresh []float64.
func (r *RawTensor) Float64s() []float64 {
	out := make([]float64, r.NumElements())
	for i := range out {
		out[i] = r.Float64At(i)
	}
	return out
}

// Clone returns a deep copy of the tensor.
func (r *RawTensor) Clone() *RawTensor {
	clone, err := NewRaw(r.shape, r.dtype)
	if err != nil {
		panic(err)
	}
	copy(clone.data, r.data)
	return clone
}

// String formats the tensor, e.g. "[10 20 5]:int8(3)".
func (r *RawTensor) String() string {
	if r.dtype.IsFloat() {
		return fmt.Sprintf("%v:%s%v", r.Float64s(), r.dtype, r.shape)
	}
	return fmt.Sprintf("%v:%s%v", r.Int64s(), r.dtype, r.shape)
}
