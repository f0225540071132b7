package ast

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/ardnew/plume/lang/intern"
)

// Names resolves symbols to identifier text.
type Names interface {
	Resolve(sym intern.Symbol) string
}

// Fprint writes the canonical source form of the program rooted at root.
// Parsing the output yields a tree equivalent to root.
func Fprint(w io.Writer, root *Block, names Names) error {
	p := &printer{names: names}
	p.stmts(root, "")

	_, err := w.Write(p.buf.Bytes())

	return err
}

// Sprint returns the canonical source form of e.
func Sprint(e Expr, names Names) string {
	p := &printer{names: names}
	p.expr(e, "")

	return p.buf.String()
}

type printer struct {
	buf   bytes.Buffer
	names Names
}

const indentUnit = "  "

// stmts writes the statements of b one per line at the given indent.
func (p *printer) stmts(b *Block, indent string) {
	for _, s := range b.Normal {
		p.buf.WriteString(indent)
		p.expr(s, indent)
		p.buf.WriteString(";\n")
	}

	if b.Ret != nil {
		p.buf.WriteString(indent)
		p.expr(b.Ret, indent)
		p.buf.WriteByte('\n')
	}
}

func (p *printer) expr(e Expr, indent string) {
	switch n := e.(type) {
	case *Number:
		p.buf.WriteString(strconv.FormatFloat(n.Value, 'f', -1, 64))

	case *String:
		p.buf.WriteByte('"')
		p.buf.WriteString(strings.ReplaceAll(n.Value, `"`, `\"`))
		p.buf.WriteByte('"')

	case *Bool:
		p.buf.WriteString(strconv.FormatBool(n.Value))

	case *Ident:
		p.buf.WriteString(p.names.Resolve(n.Name))

	case *Binary:
		level, right := n.Op.Precedence()
		p.operand(n.LHS, indent, level, !right)
		p.buf.WriteString(" " + n.Op.String() + " ")
		p.operand(n.RHS, indent, level, right)

	case *Unary:
		p.buf.WriteString(n.Op.String())
		p.operand(n.Operand, indent, PrecPower, true)

	case *Block:
		if len(n.Normal) == 0 && n.Ret == nil {
			p.buf.WriteString("{}")

			return
		}

		p.buf.WriteString("{\n")
		p.stmts(n, indent+indentUnit)
		p.buf.WriteString(indent + "}")

	case *Array:
		p.buf.WriteByte('[')
		p.list(n.Elems, indent)
		p.buf.WriteByte(']')

	case *Index:
		p.postfixBase(n.Base, indent)
		p.buf.WriteByte('[')
		p.expr(n.Index, indent)
		p.buf.WriteByte(']')

	case *Call:
		p.postfixBase(n.Base, indent)
		p.buf.WriteByte('(')
		p.list(n.Args, indent)
		p.buf.WriteByte(')')

	case *Declaration:
		p.buf.WriteString("var " + p.names.Resolve(n.Name) + " = ")
		p.expr(n.Init, indent)

	case *Assign:
		p.place(n.Place, indent)
		p.buf.WriteString(" " + n.Op.String() + " ")
		p.expr(n.Value, indent)

	case *Dbg:
		p.buf.WriteString("dbg ")
		p.expr(n.X, indent)

	case *If:
		p.buf.WriteString("if ")
		p.expr(n.Cond, indent)
		p.juxtaposed(n.Then, indent)

		if n.Else != nil {
			p.buf.WriteString(" else ")
			p.expr(n.Else, indent)
		}

	case *While:
		p.buf.WriteString("while ")
		p.expr(n.Cond, indent)
		p.juxtaposed(n.Body, indent)

	case *For:
		p.buf.WriteString("for ")
		p.expr(n.Init, indent)
		p.buf.WriteString(", ")
		p.expr(n.Cond, indent)
		p.buf.WriteString(", ")
		p.expr(n.Step, indent)
		p.juxtaposed(n.Body, indent)

	case *Function:
		p.buf.WriteByte('(')

		for i, param := range n.Params {
			if i > 0 {
				p.buf.WriteString(", ")
			}

			p.buf.WriteString(p.names.Resolve(param.Name))
		}

		p.buf.WriteString(") => ")
		p.expr(n.Body, indent)
	}
}

func (p *printer) list(es []Expr, indent string) {
	for i, e := range es {
		if i > 0 {
			p.buf.WriteString(", ")
		}

		p.expr(e, indent)
	}
}

func (p *printer) place(pl Place, indent string) {
	switch n := pl.(type) {
	case *VarPlace:
		p.buf.WriteString(p.names.Resolve(n.Name))
	case *IndexPlace:
		p.place(n.Base, indent)
		p.buf.WriteByte('[')
		p.expr(n.Index, indent)
		p.buf.WriteByte(']')
	}
}

// operand writes e as an operand of an operator at level. Operands at the
// same level are grouped only on the side the operator does not associate
// toward.
func (p *printer) operand(e Expr, indent string, level int, sameLevelOK bool) {
	var paren bool

	switch n := e.(type) {
	case *Binary:
		l, _ := n.Op.Precedence()
		paren = l < level || (l == level && !sameLevelOK)
	case *Unary:
		paren = PrecUnary < level
	default:
		paren = openEnded(e)
	}

	p.grouped(e, indent, paren)
}

func (p *printer) postfixBase(e Expr, indent string) {
	switch e.(type) {
	case *Binary, *Unary:
		p.grouped(e, indent, true)
	default:
		p.grouped(e, indent, openEnded(e))
	}
}

func (p *printer) grouped(e Expr, indent string, paren bool) {
	if paren {
		p.buf.WriteByte('(')
	}

	p.expr(e, indent)

	if paren {
		p.buf.WriteByte(')')
	}
}

// juxtaposed writes an expression that directly follows another with no
// separating token. Forms that would otherwise extend the preceding
// expression are wrapped in a block.
func (p *printer) juxtaposed(e Expr, indent string) {
	text := Sprint(e, p.names)
	if text != "" && strings.ContainsRune("([-", rune(text[0])) {
		p.buf.WriteString(" {\n" + indent + indentUnit)
		p.expr(e, indent+indentUnit)
		p.buf.WriteString("\n" + indent + "}")

		return
	}

	p.buf.WriteByte(' ')
	p.expr(e, indent)
}

// openEnded reports whether e ends in an expression that would absorb a
// following operator.
func openEnded(e Expr) bool {
	switch e.(type) {
	case *Declaration, *Assign, *Dbg, *If, *While, *For, *Function:
		return true
	default:
		return false
	}
}
