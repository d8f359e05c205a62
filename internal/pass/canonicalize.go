// Package pass runs graph-level transformations over ir functions.
package pass

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/born-ml/qnn/internal/ir"
	"github.com/born-ml/qnn/internal/logger"
)

// LoweringError records a call that could not be canonicalized. The call is
// left in place so the rest of the function is still lowered.
type LoweringError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *LoweringError) Error() string {
	return fmt.Sprintf("canonicalize %s: %v", e.Op, e.Err)
}

// Unwrap returns the lowering failure.
func (e *LoweringError) Unwrap() error { return e.Err }

// Canonicalizer replaces every call whose operator has a Canonicalize hook
// with the hook's result.
type Canonicalizer struct {
	ops ir.OpLookup
	log logger.Logger
}

// NewCanonicalizer creates a pass resolving operators through ops. A nil
// log discards output.
func NewCanonicalizer(ops ir.OpLookup, log logger.Logger) *Canonicalizer {
	if log == nil {
		log = logger.Discard()
	}
	return &Canonicalizer{ops: ops, log: log}
}

// Run type checks fn, lowers its calls bottom-up and type checks the result.
//
// fn itself is not modified beyond the types written by inference. When
// some calls fail to lower, Run still returns the partially lowered
// function along with the joined *LoweringError values.
func (c *Canonicalizer) Run(fn *ir.Function) (*ir.Function, error) {
	if err := ir.InferTypes(fn, c.ops); err != nil {
		return nil, errors.Wrap(err, "infer types")
	}

	var failures []error
	lowered := 0
	body := ir.Mutate(fn.Body, func(call *ir.Call, newArgs []ir.Expr) ir.Expr {
		op, ok := c.ops.Get(call.Op)
		if !ok || op.Canonicalize == nil {
			return ir.WithArgs(call, newArgs)
		}
		argTypes := make([]ir.Type, len(call.Args))
		for i, arg := range call.Args {
			argTypes[i] = arg.Type()
		}
		out, err := op.Canonicalize(call.Attrs, newArgs, argTypes)
		if err != nil {
			c.log.Warn("lowering failed", "op", call.Op, "error", err)
			failures = append(failures, &LoweringError{Op: call.Op, Err: err})
			return ir.WithArgs(call, newArgs)
		}
		lowered++
		c.log.Debug("lowered call", "op", call.Op, "type", call.CheckedType)
		return out
	})

	result := ir.NewFunction(fn.Params, body)
	if err := ir.InferTypes(result, c.ops); err != nil {
		return nil, errors.Wrap(err, "infer lowered types")
	}
	c.log.Info("canonicalized function", "lowered", lowered, "failed", len(failures), "calls", len(result.Calls()))
	return result, stderrors.Join(failures...)
}

// RunAll canonicalizes fns concurrently with at most workers in flight.
// Results keep the order of fns; the first failure cancels the rest.
// The functions must not share nodes.
func (c *Canonicalizer) RunAll(ctx context.Context, fns []*ir.Function, workers int) ([]*ir.Function, error) {
	out := make([]*ir.Function, len(fns))
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, fn := range fns {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := c.Run(fn)
			out[i] = res
			if err != nil {
				return errors.Wrapf(err, "function %d", i)
			}
			return nil
		})
	}
	return out, g.Wait()
}
