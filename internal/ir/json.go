package ir

import (
	"github.com/goccy/go-json"
)

type jsonNode struct {
	ID    int    `json:"id"`
	Kind  string `json:"kind"`
	Name  string `json:"name,omitempty"`
	Op    string `json:"op,omitempty"`
	Args  []int  `json:"args,omitempty"`
	Attrs Attrs  `json:"attrs,omitempty"`
	Type  string `json:"type,omitempty"`
	Value string `json:"value,omitempty"`
}

type jsonGraph struct {
	Fingerprint string     `json:"fingerprint,omitempty"`
	Params      []int      `json:"params,omitempty"`
	Nodes       []jsonNode `json:"nodes"`
	Root        int        `json:"root"`
}

// graphNodes flattens the graph under root into a node table in post-order.
func graphNodes(root Expr) ([]jsonNode, map[Expr]int) {
	var nodes []jsonNode
	ids := make(map[Expr]int)
	PostOrder(root, func(e Expr) {
		n := jsonNode{ID: len(nodes)}
		if t := e.Type(); t != nil {
			n.Type = t.String()
		}
		switch v := e.(type) {
		case *Var:
			n.Kind = "var"
			n.Name = v.Name
		case *Constant:
			n.Kind = "const"
			n.Value = FormatConstant(v)
		case *Call:
			n.Kind = "call"
			n.Op = v.Op
			n.Attrs = v.Attrs
			n.Args = make([]int, len(v.Args))
			for i, arg := range v.Args {
				n.Args[i] = ids[arg]
			}
		}
		ids[e] = n.ID
		nodes = append(nodes, n)
	})
	return nodes, ids
}

// MarshalJSON encodes the fragment as a node table with its fingerprint.
func (f *Fragment) MarshalJSON() ([]byte, error) {
	nodes, ids := graphNodes(f.Root)
	return json.Marshal(jsonGraph{
		Fingerprint: f.Fingerprint().String(),
		Nodes:       nodes,
		Root:        ids[f.Root],
	})
}

// MarshalJSON encodes the function as a node table. Parameters unused by the
// body are omitted.
func (fn *Function) MarshalJSON() ([]byte, error) {
	nodes, ids := graphNodes(fn.Body)
	g := jsonGraph{Nodes: nodes, Root: ids[fn.Body]}
	for _, p := range fn.Params {
		if id, ok := ids[p]; ok {
			g.Params = append(g.Params, id)
		}
	}
	return json.Marshal(g)
}
