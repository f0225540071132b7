package ast

import "github.com/ardnew/plume/lang/span"

// Node is a generic description of a syntax node, suitable for encoding as
// JSON or YAML.
type Node struct {
	Kind     string           `json:"kind"               yaml:"kind"`
	Span     span.Span        `json:"span"               yaml:"span"`
	Op       string           `json:"op,omitempty"       yaml:"op,omitempty"`
	Name     string           `json:"name,omitempty"     yaml:"name,omitempty"`
	Value    any              `json:"value,omitempty"    yaml:"value,omitempty"`
	Params   []string         `json:"params,omitempty"   yaml:"params,omitempty"`
	Children map[string]*Node `json:"children,omitempty" yaml:"children,omitempty"`
	Elems    []*Node          `json:"elems,omitempty"    yaml:"elems,omitempty"`
}

// Dump describes e and its descendants.
func Dump(e Expr, names Names) *Node {
	d := dumper{names}

	return d.expr(e)
}

type dumper struct{ names Names }

func (d dumper) node(kind string, s span.Span, children map[string]Expr) *Node {
	n := &Node{Kind: kind, Span: s}

	for key, child := range children {
		if child == nil {
			continue
		}

		if n.Children == nil {
			n.Children = make(map[string]*Node, len(children))
		}

		n.Children[key] = d.expr(child)
	}

	return n
}

func (d dumper) all(es []Expr) []*Node {
	out := make([]*Node, len(es))
	for i, e := range es {
		out[i] = d.expr(e)
	}

	return out
}

func (d dumper) expr(e Expr) *Node {
	switch n := e.(type) {
	case *Number:
		out := d.node("number", n.Loc, nil)
		out.Value = n.Value

		return out
	case *String:
		out := d.node("string", n.Loc, nil)
		out.Value = n.Value

		return out
	case *Bool:
		out := d.node("bool", n.Loc, nil)
		out.Value = n.Value

		return out
	case *Ident:
		out := d.node("ident", n.Loc, nil)
		out.Name = d.names.Resolve(n.Name)

		return out
	case *Binary:
		out := d.node("binary", n.Loc, map[string]Expr{"lhs": n.LHS, "rhs": n.RHS})
		out.Op = n.Op.String()

		return out
	case *Unary:
		out := d.node("unary", n.Loc, map[string]Expr{"operand": n.Operand})
		out.Op = n.Op.String()

		return out
	case *Block:
		out := d.node("block", n.Loc, map[string]Expr{"ret": n.Ret})
		out.Elems = d.all(n.Normal)

		return out
	case *Array:
		out := d.node("array", n.Loc, nil)
		out.Elems = d.all(n.Elems)

		return out
	case *Index:
		return d.node("index", n.Loc, map[string]Expr{"base": n.Base, "index": n.Index})
	case *Call:
		out := d.node("call", n.Loc, map[string]Expr{"base": n.Base})
		out.Elems = d.all(n.Args)

		return out
	case *Declaration:
		out := d.node("declaration", n.Loc, map[string]Expr{"init": n.Init})
		out.Name = d.names.Resolve(n.Name)

		return out
	case *Assign:
		out := d.node("assign", n.Loc, map[string]Expr{"value": n.Value})
		out.Op = n.Op.String()
		out.Children["place"] = d.place(n.Place)

		return out
	case *Dbg:
		return d.node("dbg", n.Loc, map[string]Expr{"x": n.X})
	case *If:
		return d.node("if", n.Loc, map[string]Expr{"cond": n.Cond, "then": n.Then, "else": n.Else})
	case *While:
		return d.node("while", n.Loc, map[string]Expr{"cond": n.Cond, "body": n.Body})
	case *For:
		return d.node("for", n.Loc, map[string]Expr{
			"init": n.Init, "cond": n.Cond, "step": n.Step, "body": n.Body,
		})
	case *Function:
		out := d.node("function", n.Loc, map[string]Expr{"body": n.Body})
		for _, p := range n.Params {
			out.Params = append(out.Params, d.names.Resolve(p.Name))
		}

		return out
	default:
		return nil
	}
}

func (d dumper) place(p Place) *Node {
	switch n := p.(type) {
	case *VarPlace:
		out := &Node{Kind: "var", Span: n.Loc}
		out.Name = d.names.Resolve(n.Name)

		return out
	case *IndexPlace:
		return &Node{
			Kind: "index",
			Span: n.Loc,
			Children: map[string]*Node{
				"base":  d.place(n.Base),
				"index": d.expr(n.Index),
			},
		}
	default:
		return nil
	}
}
