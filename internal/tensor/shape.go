package tensor

import (
	"fmt"
	"strconv"
	"strings"
)

// AnyDim marks a dimension whose extent is not known at compile time.
const AnyDim = -1

// Shape represents the dimensions of a tensor.
// A dimension equal to AnyDim is symbolic.
type Shape []int

// NumElements returns the total number of elements in the tensor.
// The result is meaningless for shapes with symbolic dimensions.
func (s Shape) NumElements() int {
	if len(s) == 0 {
		return 1 // Scalar has 1 element
	}
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Rank returns the number of dimensions.
func (s Shape) Rank() int {
	return len(s)
}

// IsScalar reports whether the shape is rank-0.
func (s Shape) IsScalar() bool {
	return len(s) == 0
}

// IsStatic reports whether every dimension is concrete.
func (s Shape) IsStatic() bool {
	for _, dim := range s {
		if dim == AnyDim {
			return false
		}
	}
	return true
}

// Validate checks if the shape is valid (all dimensions > 0 or AnyDim).
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim <= 0 && dim != AnyDim {
			return fmt.Errorf("invalid dimension at index %d: %d (must be > 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal. Symbolic dimensions only equal
// other symbolic dimensions.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Unify merges two shapes of equal rank, letting concrete dimensions
// refine symbolic ones.
func (s Shape) Unify(other Shape) (Shape, error) {
	if len(s) != len(other) {
		return nil, fmt.Errorf("rank mismatch: %v vs %v", s, other)
	}
	out := make(Shape, len(s))
	for i := range s {
		switch {
		case s[i] == other[i]:
			out[i] = s[i]
		case s[i] == AnyDim:
			out[i] = other[i]
		case other[i] == AnyDim:
			out[i] = s[i]
		default:
			return nil, fmt.Errorf("dimension %d mismatch: %v vs %v", i, s, other)
		}
	}
	return out, nil
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// NormalizeAxis resolves a possibly negative axis against the rank.
func (s Shape) NormalizeAxis(axis int) (int, error) {
	rank := len(s)
	if axis < -rank || axis >= rank {
		return 0, fmt.Errorf("axis %d out of range for rank %d", axis, rank)
	}
	if axis < 0 {
		axis += rank
	}
	return axis, nil
}

// Reduce returns the shape after reducing the given (normalized) axes.
// With keepDims the reduced dimensions are kept with extent 1.
func (s Shape) Reduce(axes []int, keepDims bool) Shape {
	reduced := make(map[int]bool, len(axes))
	for _, a := range axes {
		reduced[a] = true
	}
	out := make(Shape, 0, len(s))
	for i, dim := range s {
		switch {
		case !reduced[i]:
			out = append(out, dim)
		case keepDims:
			out = append(out, 1)
		}
	}
	return out
}

// ComputeStrides calculates row-major strides for the shape.
// Strides define memory layout: stride[i] = product of all dimensions after i.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// String formats the shape as a parenthesized list, "?" for symbolic dims.
func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, dim := range s {
		if dim == AnyDim {
			parts[i] = "?"
		} else {
			parts[i] = strconv.Itoa(dim)
		}
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// ParseShape parses a comma separated list of extents; "?" is symbolic.
// The empty string yields a scalar shape.
func ParseShape(text string) (Shape, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Shape{}, nil
	}
	fields := strings.Split(text, ",")
	shape := make(Shape, len(fields))
	for i, f := range fields {
		f = strings.TrimSpace(f)
		if f == "?" {
			shape[i] = AnyDim
			continue
		}
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("dimension %d: %w", i, err)
		}
		shape[i] = v
	}
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	return shape, nil
}

// BroadcastShapes implements NumPy-style broadcasting rules.
//
// Rules:
// 1. Compare shapes element-wise from right to left
// 2. Dimensions are compatible if:
//   - They are equal, OR
//   - One of them is 1
//
// 3. Missing dimensions are treated as 1
//
// A symbolic dimension broadcasts against 1 and against another symbolic
// dimension; against a concrete extent it takes that extent.
//
// Returns the broadcasted shape, a flag indicating if broadcasting is needed, and an error if incompatible.
//
// Examples:
//
//	(3, 1) + (3, 5) → (3, 5), true, nil
//	(1, 5) + (3, 5) → (3, 5), true, nil
//	(3, 5) + (3, 5) → (3, 5), false, nil
//	(3, 4) + (3, 5) → nil, false, Error
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	maxLen := max(len(a), len(b))
	result := make(Shape, maxLen)
	needsBroadcast := len(a) != len(b)

	for i := 0; i < maxLen; i++ {
		aIdx := len(a) - 1 - i
		bIdx := len(b) - 1 - i

		aDim := 1
		if aIdx >= 0 {
			aDim = a[aIdx]
		}

		bDim := 1
		if bIdx >= 0 {
			bDim = b[bIdx]
		}

		switch {
		case aDim == bDim:
			result[maxLen-1-i] = aDim
		case aDim == 1:
			result[maxLen-1-i] = bDim
			needsBroadcast = true
		case bDim == 1:
			result[maxLen-1-i] = aDim
			needsBroadcast = true
		case aDim == AnyDim:
			result[maxLen-1-i] = bDim
		case bDim == AnyDim:
			result[maxLen-1-i] = aDim
		default:
			return nil, false, fmt.Errorf("shapes not compatible for broadcasting: %v vs %v (dimension %d: %d vs %d)",
				a, b, maxLen-1-i, aDim, bDim)
		}
	}

	return result, needsBroadcast, nil
}
