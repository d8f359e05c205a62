package operators

import (
	"slices"
	"testing"

	"github.com/born-ml/qnn/internal/ir"
	"github.com/born-ml/qnn/internal/qnn"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()

	essentialOps := []string{
		ir.OpAdd, ir.OpSubtract, ir.OpMultiply, ir.OpDivide,
		ir.OpLeftShift, ir.OpRightShift, ir.OpNegative, ir.OpRound,
		ir.OpCast, ir.OpMax, ir.OpSum,
		qnn.OpSoftmax, qnn.OpRequantize,
	}

	for _, op := range essentialOps {
		if _, ok := r.Get(op); !ok {
			t.Errorf("Expected operator %s to be registered", op)
		}
	}
}

func TestRegistryGetUnknown(t *testing.T) {
	r := NewRegistry()

	if _, ok := r.Get("qnn.conv2d"); ok {
		t.Error("Expected unknown operator to not be found")
	}
}

func TestSupportedOps(t *testing.T) {
	r := NewRegistry()
	ops := r.SupportedOps()

	if len(ops) != 13 {
		t.Errorf("Expected 13 supported ops, got %d: %v", len(ops), ops)
	}
	if !slices.IsSorted(ops) {
		t.Errorf("Expected sorted op names, got %v", ops)
	}
	descs := r.Ops()
	for i, op := range descs {
		if op.Name != ops[i] {
			t.Errorf("Ops()[%d] = %s, want %s", i, op.Name, ops[i])
		}
	}
}

func TestRegisterCustomOp(t *testing.T) {
	r := NewRegistry()

	r.Register(&ir.Op{Name: "my_custom_op", NumInputs: 1, Relation: ir.IdentityRel})

	if _, ok := r.Get("my_custom_op"); !ok {
		t.Error("Expected custom operator to be registered")
	}
}

func TestOnlySoftmaxIsNonComputational(t *testing.T) {
	r := NewRegistry()

	for _, op := range r.Ops() {
		want := op.Name == qnn.OpSoftmax
		if op.NonComputational != want {
			t.Errorf("%s: NonComputational = %v, want %v", op.Name, op.NonComputational, want)
		}
		if (op.Canonicalize != nil) != want {
			t.Errorf("%s: unexpected Canonicalize hook presence", op.Name)
		}
	}
}
