package ir

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/born-ml/qnn/internal/tensor"
)

// printer assigns stable names: %<var name> for inputs, %0..%n for calls in
// post-order. Output is deterministic for a given graph.
type printer struct {
	sb    strings.Builder
	names map[Expr]string
	next  int
}

func newPrinter() *printer {
	return &printer{names: make(map[Expr]string)}
}

func (p *printer) ref(e Expr) string {
	switch n := e.(type) {
	case *Var:
		return "%" + n.Name
	case *Constant:
		return FormatConstant(n)
	default:
		return p.names[e]
	}
}

func (p *printer) body(root Expr, indent string) {
	PostOrder(root, func(e Expr) {
		call, ok := e.(*Call)
		if !ok {
			return
		}
		name := "%" + strconv.Itoa(p.next)
		p.next++
		p.names[call] = name

		args := lo.Map(call.Args, func(a Expr, _ int) string { return p.ref(a) })
		if attrs := FormatAttrs(call.Attrs); attrs != "" {
			args = append(args, attrs)
		}
		fmt.Fprintf(&p.sb, "%s%s = %s(%s)", indent, name, call.Op, strings.Join(args, ", "))
		if call.CheckedType != nil {
			fmt.Fprintf(&p.sb, " /* ty=%s */", call.CheckedType)
		}
		p.sb.WriteString(";\n")
	})
	p.sb.WriteString(indent + p.ref(root) + "\n")
}

func printExpr(root Expr) string {
	p := newPrinter()
	p.body(root, "")
	return p.sb.String()
}

func printFunction(fn *Function) string {
	p := newPrinter()
	params := lo.Map(fn.Params, func(v *Var, _ int) string {
		if v.Annotation == nil {
			return "%" + v.Name
		}
		return fmt.Sprintf("%%%s: %s", v.Name, v.Annotation)
	})
	fmt.Fprintf(&p.sb, "fn (%s) {\n", strings.Join(params, ", "))
	p.body(fn.Body, "  ")
	p.sb.WriteString("}\n")
	return p.sb.String()
}

// FormatConstant renders a constant: scalars inline with a dtype suffix
// (30i64, 0.00390625f32), tensors as dtype(shape)[values].
func FormatConstant(c *Constant) string {
	v := c.Value
	suffix := dtypeSuffix(v.DType())
	if v.Shape().IsScalar() {
		if v.DType().IsFloat() {
			return strconv.FormatFloat(v.Float64At(0), 'g', -1, 64) + suffix
		}
		return strconv.FormatInt(v.Int64At(0), 10) + suffix
	}
	var vals []string
	if v.DType().IsFloat() {
		vals = lo.Map(v.Float64s(), func(f float64, _ int) string { return strconv.FormatFloat(f, 'g', -1, 64) })
	} else {
		vals = lo.Map(v.Int64s(), func(i int64, _ int) string { return strconv.FormatInt(i, 10) })
	}
	return fmt.Sprintf("%s%s[%s]", v.DType(), v.Shape(), strings.Join(vals, ", "))
}

func dtypeSuffix(dt tensor.DataType) string {
	switch dt {
	case tensor.Float32:
		return "f32"
	case tensor.Float64:
		return "f64"
	case tensor.Int8:
		return "i8"
	case tensor.Int16:
		return "i16"
	case tensor.Int32:
		return "i32"
	case tensor.Int64:
		return "i64"
	case tensor.Uint8:
		return "u8"
	default:
		return "b"
	}
}

// FormatAttrs renders call attributes as key=value pairs.
func FormatAttrs(attrs Attrs) string {
	switch a := attrs.(type) {
	case nil:
		return ""
	case *SoftmaxAttrs:
		return fmt.Sprintf("axis=%d", a.Axis)
	case *ReduceAttrs:
		return fmt.Sprintf("axis=%v, keepdims=%t", a.Axes, a.KeepDims)
	case *CastAttrs:
		return "dtype=" + a.DType.String()
	case *RequantizeAttrs:
		return fmt.Sprintf("out_dtype=%s, shape=%s", a.OutDType, a.Shape)
	default:
		return a.AttrsName()
	}
}
