package qnn

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error classes. Unresolved types are not errors: relations report them
// through ir.Unresolved.
var (
	ErrTypeContract        = errors.New("type contract violation")
	ErrNumericPrecondition = errors.New("numeric precondition violation")
)

// TypeContractError reports an operand whose type breaks the operator contract.
type TypeContractError struct {
	Op       string // Operator name
	Index    int    // Position in the relation's type list
	Operand  string // Operand name at Index
	Expected string // Expected type descriptor
	Actual   string // Actual type descriptor
	Details  string // Optional extra context
}

// Error implements the error interface.
func (e *TypeContractError) Error() string {
	msg := fmt.Sprintf("%s: operand %d (%s): expected %s, got %s", e.Op, e.Index, e.Operand, e.Expected, e.Actual)
	if e.Details != "" {
		msg += ": " + e.Details
	}
	return msg
}

// Unwrap lets errors.Is match ErrTypeContract.
func (e *TypeContractError) Unwrap() error { return ErrTypeContract }

// PreconditionError reports an intermediate value that makes the integer
// lowering unsound.
type PreconditionError struct {
	Step    string // Lowering step that failed
	Value   string // Offending value
	Details string
}

// Error implements the error interface.
func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %s = %s: %s", ErrNumericPrecondition, e.Step, e.Value, e.Details)
}

// Unwrap lets errors.Is match ErrNumericPrecondition.
func (e *PreconditionError) Unwrap() error { return ErrNumericPrecondition }
