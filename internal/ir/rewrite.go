package ir

// Mutate rebuilds the graph bottom-up. For every distinct call, f receives
// the call together with its already rewritten arguments and returns the
// expression that replaces it. Vars and constants are kept as is.
func Mutate(root Expr, f func(call *Call, newArgs []Expr) Expr) Expr {
	memo := make(map[Expr]Expr)
	PostOrder(root, func(e Expr) {
		call, ok := e.(*Call)
		if !ok {
			memo[e] = e
			return
		}
		newArgs := make([]Expr, len(call.Args))
		for i, arg := range call.Args {
			newArgs[i] = memo[arg]
		}
		memo[e] = f(call, newArgs)
	})
	return memo[root]
}

// WithArgs returns call itself when args are unchanged, otherwise a copy of
// call using args.
func WithArgs(call *Call, args []Expr) *Call {
	same := len(args) == len(call.Args)
	for i := 0; same && i < len(args); i++ {
		same = args[i] == call.Args[i]
	}
	if same {
		return call
	}
	return &Call{Op: call.Op, Args: args, Attrs: call.Attrs, CheckedType: call.CheckedType}
}
