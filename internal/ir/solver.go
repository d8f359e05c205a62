package ir

import (
	"github.com/pkg/errors"
)

// Solver is a union-find style Reporter binding placeholders to types.
// A Solver is not safe for concurrent use; each inference run owns one.
type Solver struct {
	bindings map[*IncompleteType]Type
	next     int
}

// NewSolver returns an empty solver.
func NewSolver() *Solver {
	return &Solver{bindings: make(map[*IncompleteType]Type)}
}

// Fresh returns a new placeholder.
func (s *Solver) Fresh() *IncompleteType {
	s.next++
	return &IncompleteType{ID: s.next}
}

// Resolve follows bindings until reaching a tensor type or an unbound placeholder.
func (s *Solver) Resolve(t Type) Type {
	for {
		it, ok := t.(*IncompleteType)
		if !ok {
			return t
		}
		bound, ok := s.bindings[it]
		if !ok {
			return it
		}
		t = bound
	}
}

// Assign implements Reporter.
func (s *Solver) Assign(dst, src Type) error {
	dst, src = s.Resolve(dst), s.Resolve(src)
	if dst == nil || src == nil {
		return errors.New("cannot assign a nil type")
	}
	if dp, ok := dst.(*IncompleteType); ok {
		if sp, ok := src.(*IncompleteType); ok && sp == dp {
			return nil
		}
		s.bindings[dp] = src
		return nil
	}
	if sp, ok := src.(*IncompleteType); ok {
		s.bindings[sp] = dst
		return nil
	}
	dt, st := dst.(*TensorType), src.(*TensorType)
	if dt.DType != st.DType {
		return errors.Errorf("cannot unify %s with %s: dtype mismatch", dt, st)
	}
	if _, err := dt.Shape.Unify(st.Shape); err != nil {
		return errors.Wrapf(err, "cannot unify %s with %s", dt, st)
	}
	return nil
}
