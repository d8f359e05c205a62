package operators

import (
	"slices"

	"github.com/samber/lo"

	"github.com/born-ml/qnn/internal/ir"
	"github.com/born-ml/qnn/internal/qnn"
)

// Registry maps operator names to descriptors.
// It is safe for concurrent reads once construction is done.
type Registry struct {
	ops map[string]*ir.Op
}

// NewRegistry creates a registry with all supported operators.
func NewRegistry() *Registry {
	r := &Registry{
		ops: make(map[string]*ir.Op),
	}

	r.registerPrimitives()
	r.registerQNN()

	return r
}

func (r *Registry) registerPrimitives() {
	for _, op := range ir.PrimitiveOps() {
		r.Register(op)
	}
}

func (r *Registry) registerQNN() {
	r.Register(qnn.SoftmaxOp())
	r.Register(qnn.RequantizeOp())
}

// Register adds or replaces an operator descriptor.
func (r *Registry) Register(op *ir.Op) {
	r.ops[op.Name] = op
}

// Get returns the descriptor for an operator name.
func (r *Registry) Get(name string) (*ir.Op, bool) {
	op, ok := r.ops[name]
	return op, ok
}

// SupportedOps returns all operator names in sorted order.
func (r *Registry) SupportedOps() []string {
	names := lo.Keys(r.ops)
	slices.Sort(names)
	return names
}

// Ops returns all descriptors ordered by name.
func (r *Registry) Ops() []*ir.Op {
	return lo.Map(r.SupportedOps(), func(name string, _ int) *ir.Op { return r.ops[name] })
}
