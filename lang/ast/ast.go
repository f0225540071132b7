// Package ast declares the syntax tree of plume programs.
//
// Every construct is an expression. Each node records the span of source
// text it was parsed from.
package ast

import (
	"github.com/ardnew/plume/lang/intern"
	"github.com/ardnew/plume/lang/span"
)

// Expr is an expression node.
type Expr interface {
	Span() span.Span
	exprNode()
}

// Place is an assignment target: a variable or an index chain rooted at one.
type Place interface {
	Span() span.Span
	placeNode()
}

type (
	// Number is a numeric literal.
	Number struct {
		Value float64
		Loc   span.Span
	}

	// String is a string literal with escapes resolved.
	String struct {
		Value string
		Loc   span.Span
	}

	// Bool is true or false.
	Bool struct {
		Value bool
		Loc   span.Span
	}

	// Ident is a variable reference.
	Ident struct {
		Name intern.Symbol
		Loc  span.Span
	}

	// Binary is an infix operation.
	Binary struct {
		LHS Expr
		Op  BinaryOp
		RHS Expr
		Loc span.Span
	}

	// Unary is a prefix operation.
	Unary struct {
		Op      UnaryOp
		Operand Expr
		Loc     span.Span
	}

	// Block is a braced statement list, or the root of a program.
	// Normal statements were terminated by a semicolon; Ret, if not nil, is
	// the trailing unterminated statement that supplies the block's value.
	Block struct {
		Normal []Expr
		Ret    Expr
		Loc    span.Span
	}

	// Array is an array literal.
	Array struct {
		Elems []Expr
		Loc   span.Span
	}

	// Index is base[index].
	Index struct {
		Base  Expr
		Index Expr
		Loc   span.Span
	}

	// Call is base(args...).
	Call struct {
		Base Expr
		Args []Expr
		Loc  span.Span
	}

	// Declaration is var name = init.
	Declaration struct {
		Name    intern.Symbol
		NameLoc span.Span
		Init    Expr
		Loc     span.Span
	}

	// Assign stores Value, or Place combined with Value by Op, into Place.
	Assign struct {
		Op    AssignOp
		Place Place
		Value Expr
		Loc   span.Span
	}

	// Dbg logs the rendering of X and yields X.
	Dbg struct {
		X   Expr
		Loc span.Span
	}

	// If is a conditional. Else is nil when absent.
	If struct {
		Cond Expr
		Then Expr
		Else Expr
		Loc  span.Span
	}

	// While is a pre-tested loop.
	While struct {
		Cond Expr
		Body Expr
		Loc  span.Span
	}

	// For is for init, cond, step body.
	For struct {
		Init Expr
		Cond Expr
		Step Expr
		Body Expr
		Loc  span.Span
	}

	// Function is an arrow function literal.
	Function struct {
		Params []Param
		Body   Expr
		Loc    span.Span
	}
)

// Param is a function parameter.
type Param struct {
	Name intern.Symbol
	Loc  span.Span
}

type (
	// VarPlace targets a variable binding.
	VarPlace struct {
		Name intern.Symbol
		Loc  span.Span
	}

	// IndexPlace targets an element of the array held by Base.
	IndexPlace struct {
		Base  Place
		Index Expr
		Loc   span.Span
	}
)

func (e *Number) Span() span.Span      { return e.Loc }
func (e *String) Span() span.Span      { return e.Loc }
func (e *Bool) Span() span.Span        { return e.Loc }
func (e *Ident) Span() span.Span       { return e.Loc }
func (e *Binary) Span() span.Span      { return e.Loc }
func (e *Unary) Span() span.Span       { return e.Loc }
func (e *Block) Span() span.Span       { return e.Loc }
func (e *Array) Span() span.Span       { return e.Loc }
func (e *Index) Span() span.Span       { return e.Loc }
func (e *Call) Span() span.Span        { return e.Loc }
func (e *Declaration) Span() span.Span { return e.Loc }
func (e *Assign) Span() span.Span      { return e.Loc }
func (e *Dbg) Span() span.Span         { return e.Loc }
func (e *If) Span() span.Span          { return e.Loc }
func (e *While) Span() span.Span       { return e.Loc }
func (e *For) Span() span.Span         { return e.Loc }
func (e *Function) Span() span.Span    { return e.Loc }

func (*Number) exprNode()      {}
func (*String) exprNode()      {}
func (*Bool) exprNode()        {}
func (*Ident) exprNode()       {}
func (*Binary) exprNode()      {}
func (*Unary) exprNode()       {}
func (*Block) exprNode()       {}
func (*Array) exprNode()       {}
func (*Index) exprNode()       {}
func (*Call) exprNode()        {}
func (*Declaration) exprNode() {}
func (*Assign) exprNode()      {}
func (*Dbg) exprNode()         {}
func (*If) exprNode()          {}
func (*While) exprNode()       {}
func (*For) exprNode()         {}
func (*Function) exprNode()    {}

func (p *VarPlace) Span() span.Span   { return p.Loc }
func (p *IndexPlace) Span() span.Span { return p.Loc }

func (*VarPlace) placeNode()   {}
func (*IndexPlace) placeNode() {}

// Root returns the variable a place ultimately targets.
func Root(p Place) *VarPlace {
	for {
		switch q := p.(type) {
		case *VarPlace:
			return q
		case *IndexPlace:
			p = q.Base
		}
	}
}

// Respan sets the span of e to s. The parser uses it to widen a
// parenthesized expression over its parentheses.
func Respan(e Expr, s span.Span) {
	switch n := e.(type) {
	case *Number:
		n.Loc = s
	case *String:
		n.Loc = s
	case *Bool:
		n.Loc = s
	case *Ident:
		n.Loc = s
	case *Binary:
		n.Loc = s
	case *Unary:
		n.Loc = s
	case *Block:
		n.Loc = s
	case *Array:
		n.Loc = s
	case *Index:
		n.Loc = s
	case *Call:
		n.Loc = s
	case *Declaration:
		n.Loc = s
	case *Assign:
		n.Loc = s
	case *Dbg:
		n.Loc = s
	case *If:
		n.Loc = s
	case *While:
		n.Loc = s
	case *For:
		n.Loc = s
	case *Function:
		n.Loc = s
	}
}
