package ir

import (
	"github.com/google/uuid"
)

// Function is a graph with named inputs and a single result.
type Function struct {
	Params []*Var
	Body   Expr
}

// NewFunction creates a function.
func NewFunction(params []*Var, body Expr) *Function {
	return &Function{Params: params, Body: body}
}

// Calls returns every distinct call of the body, arguments before users.
func (fn *Function) Calls() []*Call {
	return collectCalls(fn.Body)
}

// String prints the function in text form.
func (fn *Function) String() string {
	return printFunction(fn)
}

// PostOrder visits each distinct node reachable from root once, arguments
// before the calls that use them. Shared subexpressions are visited once.
func PostOrder(root Expr, visit func(Expr)) {
	seen := make(map[Expr]bool)
	var walk func(e Expr)
	walk = func(e Expr) {
		if e == nil || seen[e] {
			return
		}
		seen[e] = true
		if call, ok := e.(*Call); ok {
			for _, arg := range call.Args {
				walk(arg)
			}
		}
		visit(e)
	}
	walk(root)
}

func collectCalls(root Expr) []*Call {
	var calls []*Call
	PostOrder(root, func(e Expr) {
		if call, ok := e.(*Call); ok {
			calls = append(calls, call)
		}
	})
	return calls
}

// Fragment is a freshly built subgraph meant to replace a single call.
type Fragment struct {
	Root  Expr
	Calls []*Call
}

// NewFragment wraps root, listing its calls in topological order.
func NewFragment(root Expr) *Fragment {
	return &Fragment{Root: root, Calls: collectCalls(root)}
}

// Type returns the type of the fragment's result.
func (f *Fragment) Type() Type {
	return f.Root.Type()
}

// Count returns the number of calls of op in the fragment.
func (f *Fragment) Count(op string) int {
	n := 0
	for _, c := range f.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// String prints the fragment in text form.
func (f *Fragment) String() string {
	return printExpr(f.Root)
}

var fragmentNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/born-ml/qnn/ir/fragment"))

// Fingerprint is a name-based UUID of the fragment's printed form. Equal
// fragments always share a fingerprint.
func (f *Fragment) Fingerprint() uuid.UUID {
	return uuid.NewSHA1(fragmentNamespace, []byte(f.String()))
}
