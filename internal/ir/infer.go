package ir

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrUnresolvedTypes is returned when inference reaches a fixpoint with
// calls whose relations still report Unresolved.
var ErrUnresolvedTypes = errors.New("type inference did not converge")

// OpLookup resolves operator names to descriptors.
type OpLookup interface {
	Get(name string) (*Op, bool)
}

// InferTypes runs every call's relation until all are resolved, then writes
// the results into Call.CheckedType and into placeholder Var annotations.
//
// Relations that report Unresolved are retried after each round that made
// progress; a Rejected relation aborts inference with its error.
func InferTypes(fn *Function, ops OpLookup) error {
	solver := NewSolver()
	calls := fn.Calls()

	pending := make([]*Call, 0, len(calls))
	descs := make(map[*Call]*Op, len(calls))
	for _, call := range calls {
		op, ok := ops.Get(call.Op)
		if !ok {
			return errors.Errorf("unknown operator %q", call.Op)
		}
		if len(call.Args) != op.NumInputs {
			return errors.Errorf("%s: expected %d arguments, got %d", call.Op, op.NumInputs, len(call.Args))
		}
		if call.CheckedType == nil {
			call.CheckedType = solver.Fresh()
		}
		descs[call] = op
		pending = append(pending, call)
	}

	for len(pending) > 0 {
		var retry []*Call
		for _, call := range pending {
			types := make([]Type, 0, len(call.Args)+1)
			for _, arg := range call.Args {
				types = append(types, solver.Resolve(argType(arg, solver)))
			}
			types = append(types, solver.Resolve(call.CheckedType))

			status, err := descs[call].Relation(types, call.Attrs, solver)
			switch status {
			case Rejected:
				return errors.Wrapf(err, "%s", call.Op)
			case Unresolved:
				retry = append(retry, call)
			case Resolved:
			}
		}
		if len(retry) == len(pending) {
			names := make([]string, len(retry))
			for i, c := range retry {
				names[i] = c.Op
			}
			return errors.Wrapf(ErrUnresolvedTypes, "unresolved calls: %s", strings.Join(names, ", "))
		}
		pending = retry
	}

	for _, call := range calls {
		resolved := solver.Resolve(call.CheckedType)
		if AsTensor(resolved) == nil {
			return errors.Wrapf(ErrUnresolvedTypes, "%s has no concrete type", call.Op)
		}
		call.CheckedType = resolved
	}
	PostOrder(fn.Body, func(e Expr) {
		if v, ok := e.(*Var); ok && v.Annotation != nil {
			v.Annotation = solver.Resolve(v.Annotation)
		}
	})
	return nil
}

// argType gives untyped variables a placeholder so relations can bind them.
func argType(e Expr, solver *Solver) Type {
	if v, ok := e.(*Var); ok && v.Annotation == nil {
		v.Annotation = solver.Fresh()
	}
	return e.Type()
}
