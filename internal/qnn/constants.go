package qnn

import (
	"github.com/pkg/errors"

	"github.com/born-ml/qnn/internal/tensor"
)

// Constants is the fixed-point budget of the integer softmax. The fields are
// coupled and validated together.
type Constants struct {
	// N is the left-shift applied to the exponent base; exponents are
	// represented as multiples of 2^-N.
	N int
	// M is the number of fractional bits of the reciprocal of the sum.
	M int
	// Bits is the integer width of the normalized output.
	Bits int
}

// DefaultConstants returns N=30, M=60, Bits=8.
func DefaultConstants() Constants {
	return Constants{N: 30, M: 60, Bits: 8}
}

// Validate checks the constants against the int64 working domain.
func (c Constants) Validate() error {
	switch {
	case c.N <= 0 || c.N >= 63:
		return errors.Errorf("constants: N=%d must be in (0, 63)", c.N)
	case c.M <= 0 || c.M >= 63:
		return errors.Errorf("constants: M=%d must be in (0, 63)", c.M)
	case c.Bits <= 0 || c.Bits >= c.M:
		return errors.Errorf("constants: Bits=%d must be in (0, M=%d)", c.Bits, c.M)
	case c.M-c.Bits < c.Bits:
		return errors.Errorf("constants: M-Bits=%d leaves fewer fractional bits than Bits=%d", c.M-c.Bits, c.Bits)
	}
	if _, err := c.OutDType(); err != nil {
		return errors.Wrap(err, "constants")
	}
	return nil
}

// OutDType is the signed integer type of the requantized output.
func (c Constants) OutDType() (tensor.DataType, error) {
	if c.Bits > 32 {
		return 0, errors.Errorf("Bits=%d exceeds the int32 requantize input", c.Bits)
	}
	return tensor.SignedInt(c.Bits)
}
