// Package tensor provides the dtype, shape and storage primitives shared by the
// quantized graph IR and the reference interpreter.
package tensor

import (
	"fmt"
	"math"
)

// DataType represents runtime type information for tensors.
type DataType int

// Supported data types for tensors.
const (
	Float32 DataType = iota
	Float64
	Int8
	Int16
	Int32
	Int64
	Uint8
	Bool
)

// Size returns the byte size of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Float32, Int32:
		return 4
	case Float64, Int64:
		return 8
	case Int16:
		return 2
	case Int8, Uint8, Bool:
		return 1
	default:
		panic("unknown data type")
	}
}

// Bits returns the width of the data type in bits.
func (dt DataType) Bits() int {
	return dt.Size() * 8
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Uint8:
		return "uint8"
	case Bool:
		return "bool"
	default:
		return "unknown"
	}
}

// IsFloat reports whether dt is a floating-point type.
func (dt DataType) IsFloat() bool {
	return dt == Float32 || dt == Float64
}

// IsInt reports whether dt is an integer type (signed or unsigned).
func (dt DataType) IsInt() bool {
	switch dt {
	case Int8, Int16, Int32, Int64, Uint8:
		return true
	default:
		return false
	}
}

// IsSigned reports whether dt is a signed integer type.
func (dt DataType) IsSigned() bool {
	switch dt {
	case Int8, Int16, Int32, Int64:
		return true
	default:
		return false
	}
}

// IntRange returns the inclusive range representable by an integer dtype.
func (dt DataType) IntRange() (lo, hi int64) {
	switch dt {
	case Int8:
		return math.MinInt8, math.MaxInt8
	case Int16:
		return math.MinInt16, math.MaxInt16
	case Int32:
		return math.MinInt32, math.MaxInt32
	case Int64:
		return math.MinInt64, math.MaxInt64
	case Uint8:
		return 0, math.MaxUint8
	case Bool:
		return 0, 1
	default:
		panic(fmt.Sprintf("no integer range for %s", dt))
	}
}

// SignedInt returns the signed integer dtype with the given bit width.
func SignedInt(bits int) (DataType, error) {
	switch bits {
	case 8:
		return Int8, nil
	case 16:
		return Int16, nil
	case 32:
		return Int32, nil
	case 64:
		return Int64, nil
	default:
		return 0, fmt.Errorf("no signed integer type with %d bits", bits)
	}
}

// ParseDataType parses a dtype name as produced by String.
func ParseDataType(s string) (DataType, error) {
	for dt := Float32; dt <= Bool; dt++ {
		if dt.String() == s {
			return dt, nil
		}
	}
	return 0, fmt.Errorf("unknown data type %q", s)
}

// Wrap truncates v to the two's-complement width of dt, the way a C cast
// between integer types does.
func (dt DataType) Wrap(v int64) int64 {
	switch dt {
	case Int8:
		return int64(int8(v))
	case Int16:
		return int64(int16(v))
	case Int32:
		return int64(int32(v))
	case Uint8:
		return int64(uint8(v))
	case Bool:
		if v != 0 {
			return 1
		}
		return 0
	default:
		return v
	}
}

// MarshalText encodes the dtype by name.
func (dt DataType) MarshalText() ([]byte, error) {
	return []byte(dt.String()), nil
}

// UnmarshalText decodes a dtype name.
func (dt *DataType) UnmarshalText(text []byte) error {
	parsed, err := ParseDataType(string(text))
	if err != nil {
		return err
	}
	*dt = parsed
	return nil
}
