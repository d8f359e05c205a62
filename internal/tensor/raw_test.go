package tensor

import (
	"testing"
)

// RawTensor Tests

func TestRawTensorAsInt64(t *testing.T) {
	raw, _ := NewRaw(Shape{3, 2}, Int64)
	data := raw.AsInt64()

	if len(data) != 6 {
		t.Errorf("AsInt64 length = %d, want 6", len(data))
	}

	// Modify and verify zero-copy
	data[0] = 42
	if raw.AsInt64()[0] != 42 {
		t.Error("AsInt64 should return zero-copy slice")
	}
}

func TestRawTensorAsInt8(t *testing.T) {
	raw, _ := NewRaw(Shape{5}, Int8)
	data := raw.AsInt8()

	if len(data) != 5 {
		t.Errorf("AsInt8 length = %d, want 5", len(data))
	}

	data[4] = -128
	if raw.Int64At(4) != -128 {
		t.Errorf("Int64At(4) = %d, want -128", raw.Int64At(4))
	}
}

// RawTensor Different Types Tests

func TestNewRawAllTypes(t *testing.T) {
	types := []struct {
		dtype       DataType
		elementSize int
	}{
		{Float32, 4},
		{Float64, 8},
		{Int8, 1},
		{Int16, 2},
		{Int32, 4},
		{Int64, 8},
		{Uint8, 1},
		{Bool, 1},
	}

	shape := Shape{2, 3}
	for _, tt := range types {
		raw, err := NewRaw(shape, tt.dtype)
		if err != nil {
			t.Fatalf("NewRaw(%v, %v) failed: %v", shape, tt.dtype, err)
		}

		if raw.DType() != tt.dtype {
			t.Errorf("DType = %v, want %v", raw.DType(), tt.dtype)
		}

		expectedByteSize := 6 * tt.elementSize // 2*3 elements
		if len(raw.Data()) != expectedByteSize {
			t.Errorf("len(Data) = %d, want %d for type %v", len(raw.Data()), expectedByteSize, tt.dtype)
		}
	}
}

// RawTensor Invalid Creation Tests

func TestNewRawInvalidShape(t *testing.T) {
	invalidShapes := []Shape{
		{0},
		{-2},
		{2, 0},
		{AnyDim},
		{2, AnyDim},
	}

	for _, shape := range invalidShapes {
		_, err := NewRaw(shape, Float32)
		if err == nil {
			t.Errorf("NewRaw(%v) should fail but didn't", shape)
		}
	}
}

func TestFromInt64sWraps(t *testing.T) {
	raw, err := FromInt64s([]int64{127, 128, -129, 300}, Shape{4}, Int8)
	if err != nil {
		t.Fatalf("FromInt64s failed: %v", err)
	}

	want := []int64{127, -128, 127, 44}
	got := raw.Int64s()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("element %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestFromInt64sErrors(t *testing.T) {
	if _, err := FromInt64s([]int64{1, 2}, Shape{3}, Int32); err == nil {
		t.Error("expected element count error")
	}
	if _, err := FromInt64s([]int64{1}, Shape{1}, Float32); err == nil {
		t.Error("expected dtype error")
	}
	if _, err := FromFloat64s([]float64{1}, Shape{1}, Int8); err == nil {
		t.Error("expected dtype error")
	}
}

func TestScalarConstructors(t *testing.T) {
	i := ScalarInt(-128, Int32)
	if !i.Shape().IsScalar() || i.NumElements() != 1 || i.Int64At(0) != -128 {
		t.Errorf("ScalarInt = %v", i)
	}

	f := ScalarFloat(1.0/3, Float32)
	if f.Float64At(0) != float64(float32(1.0/3)) {
		t.Errorf("ScalarFloat should round to float32, got %v", f.Float64At(0))
	}
}

func TestRawTensorClone(t *testing.T) {
	raw, _ := FromInt64s([]int64{1, 2, 3}, Shape{3}, Int16)
	clone := raw.Clone()

	clone.SetInt64(0, 99)
	if raw.Int64At(0) != 1 {
		t.Error("Clone should not share data")
	}
	if clone.Shape().String() != "(3)" || clone.DType() != Int16 {
		t.Errorf("Clone metadata mismatch: %v", clone)
	}
}

func TestRawTensorString(t *testing.T) {
	raw, _ := FromInt64s([]int64{10, 20, 5}, Shape{3}, Int8)
	if got := raw.String(); got != "[10 20 5]:int8(3)" {
		t.Errorf("String() = %q", got)
	}
}

func TestRawTensorAsWrongTypePanics(t *testing.T) {
	raw, _ := NewRaw(Shape{2}, Int32)

	defer func() {
		if recover() == nil {
			t.Error("AsFloat32 on int32 tensor should panic")
		}
	}()
	_ = raw.AsFloat32()
}
