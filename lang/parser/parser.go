// Package parser builds plume syntax trees from source text.
//
// The grammar is parsed by recursive descent, with binary operators handled
// by precedence climbing. The only lookahead beyond one token is the scan
// that decides whether an opening parenthesis starts an arrow function; it
// runs on a copy of the lexer cursor.
package parser

import (
	"strconv"

	"github.com/ardnew/plume/lang/ast"
	"github.com/ardnew/plume/lang/intern"
	"github.com/ardnew/plume/lang/lexer"
	"github.com/ardnew/plume/lang/span"
	"github.com/ardnew/plume/lang/token"
)

// Parser holds the state of one parse.
type Parser struct {
	lex     *lexer.Lexer
	symbols *intern.Interner
}

// New returns a parser over src that interns identifiers into symbols.
func New(src string, symbols *intern.Interner) *Parser {
	return &Parser{lex: lexer.New(src), symbols: symbols}
}

// Parse parses src as a complete program.
func Parse(src string, symbols *intern.Interner) (*ast.Block, error) {
	return New(src, symbols).ParseProgram()
}

// ParseProgram parses the remaining input as the root block.
func (p *Parser) ParseProgram() (*ast.Block, error) { return p.parseBlock(true) }

// ParseExpr parses a single expression.
func (p *Parser) ParseExpr() (ast.Expr, error) { return p.parseOp(0) }

func (p *Parser) peek() token.Kind { return p.lex.Peek() }

func (p *Parser) next() token.Kind { return p.lex.Next() }

func (p *Parser) span() span.Span { return p.lex.Span() }

func (p *Parser) skip(k token.Kind) bool {
	if p.peek() == k {
		p.next()

		return true
	}

	return false
}

func (p *Parser) expectNamed(k token.Kind, what string) error {
	if found := p.peek(); found != k {
		return &ExpectedError{Expected: what, Found: found, At: p.lex.PeekSpan()}
	}

	p.next()

	return nil
}

func (p *Parser) expect(k token.Kind) error {
	return p.expectNamed(k, "`"+k.String()+"`")
}

func (p *Parser) intern() intern.Symbol { return p.symbols.Intern(p.lex.Slice()) }

// list parses delimited items up to and including end. The opening token
// has already been consumed. A trailing delimiter is allowed.
func (p *Parser) list(delim, end token.Kind, item func() error) error {
	for !p.skip(end) {
		if err := item(); err != nil {
			return err
		}

		if !p.skip(delim) {
			return p.expect(end)
		}
	}

	return nil
}

// parseBlock parses statements up to the block terminator: end of input for
// the root block, a closing brace otherwise. The opening brace, if any, has
// already been consumed.
func (p *Parser) parseBlock(root bool) (*ast.Block, error) {
	start := p.span()
	end := token.CloseCurly
	if root {
		end = token.EOF
	}

	block := &ast.Block{}

	if p.skip(end) {
		block.Loc = start.Extended(p.span())

		return block, nil
	}

	for {
		stmt, err := p.ParseExpr()
		if err != nil {
			return nil, err
		}

		if !p.skip(token.Semicolon) {
			if err := p.expect(end); err != nil {
				return nil, err
			}

			block.Ret = stmt
			block.Loc = start.Extended(p.span())

			return block, nil
		}

		block.Normal = append(block.Normal, stmt)

		if p.skip(end) {
			block.Loc = start.Extended(p.span())

			return block, nil
		}
	}
}

// parseOp parses binary operations at precedence prec and tighter.
func (p *Parser) parseOp(prec int) (ast.Expr, error) {
	operand := func() (ast.Expr, error) {
		if next, ok := nextTier(prec); ok {
			return p.parseOp(next)
		}

		return p.parseValue()
	}

	lhs, err := operand()
	if err != nil {
		return nil, err
	}

	for {
		op, ok := infix(p.peek(), prec)
		if !ok {
			return lhs, nil
		}

		p.next()

		var rhs ast.Expr
		if tiers[prec].assoc == rightAssoc {
			rhs, err = p.parseOp(prec)
		} else {
			rhs, err = operand()
		}

		if err != nil {
			return nil, err
		}

		lhs = &ast.Binary{
			LHS: lhs,
			Op:  op,
			RHS: rhs,
			Loc: lhs.Span().Extended(rhs.Span()),
		}
	}
}

// parseValue parses a unit followed by any index, call, or assignment
// suffixes.
func (p *Parser) parseValue() (ast.Expr, error) {
	out, err := p.parseUnit()
	if err != nil {
		return nil, err
	}

	for {
		start := out.Span()

		switch k := p.peek(); {
		case k == token.OpenSquare:
			p.next()

			idx, err := p.ParseExpr()
			if err != nil {
				return nil, err
			}

			if err := p.expect(token.CloseSquare); err != nil {
				return nil, err
			}

			out = &ast.Index{Base: out, Index: idx, Loc: start.Extended(p.span())}

		case k == token.OpenParen:
			p.next()

			var args []ast.Expr

			err := p.list(token.Comma, token.CloseParen, func() error {
				arg, err := p.ParseExpr()
				if err != nil {
					return err
				}

				args = append(args, arg)

				return nil
			})
			if err != nil {
				return nil, err
			}

			out = &ast.Call{Base: out, Args: args, Loc: start.Extended(p.span())}

		case k.IsAssign():
			p.next()

			place, err := p.place(out)
			if err != nil {
				return nil, err
			}

			val, err := p.ParseExpr()
			if err != nil {
				return nil, err
			}

			out = &ast.Assign{
				Op:    assignOps[k],
				Place: place,
				Value: val,
				Loc:   start.Extended(p.span()),
			}

		default:
			return out, nil
		}
	}
}

// place converts an already parsed expression into an assignment target.
func (p *Parser) place(e ast.Expr) (ast.Place, error) {
	switch n := e.(type) {
	case *ast.Ident:
		if p.symbols.Reserved(n.Name) {
			return nil, &SpecialIdentError{At: n.Loc}
		}

		return &ast.VarPlace{Name: n.Name, Loc: n.Loc}, nil

	case *ast.Index:
		base, err := p.place(n.Base)
		if err != nil {
			return nil, err
		}

		return &ast.IndexPlace{Base: base, Index: n.Index, Loc: n.Loc}, nil

	default:
		return nil, &InvalidAssignError{At: e.Span()}
	}
}

// parseUnit parses a primary form.
func (p *Parser) parseUnit() (ast.Expr, error) {
	switch k := p.peek(); k {
	case token.Number:
		p.next()

		// Digit strings too long for float64 saturate to +Inf.
		n, _ := strconv.ParseFloat(p.lex.Slice(), 64)

		return &ast.Number{Value: n, Loc: p.span()}, nil

	case token.String:
		p.next()

		return &ast.String{Value: lexer.Unquote(p.lex.Slice()), Loc: p.span()}, nil

	case token.Ident:
		p.next()

		return &ast.Ident{Name: p.intern(), Loc: p.span()}, nil

	case token.True, token.False:
		p.next()

		return &ast.Bool{Value: k == token.True, Loc: p.span()}, nil

	case token.OpenParen:
		p.next()

		return p.parseParen()

	case token.OpenSquare:
		p.next()
		start := p.span()

		var elems []ast.Expr

		err := p.list(token.Comma, token.CloseSquare, func() error {
			e, err := p.ParseExpr()
			if err != nil {
				return err
			}

			elems = append(elems, e)

			return nil
		})
		if err != nil {
			return nil, err
		}

		return &ast.Array{Elems: elems, Loc: start.Extended(p.span())}, nil

	case token.OpenCurly:
		p.next()

		return p.parseBlock(false)

	case token.Dbg:
		p.next()
		start := p.span()

		x, err := p.ParseExpr()
		if err != nil {
			return nil, err
		}

		return &ast.Dbg{X: x, Loc: start.Extended(p.span())}, nil

	case token.If:
		return p.parseIf()

	case token.While:
		p.next()
		start := p.span()

		exprs, err := p.exprs(2)
		if err != nil {
			return nil, err
		}

		return &ast.While{Cond: exprs[0], Body: exprs[1], Loc: start.Extended(p.span())}, nil

	case token.For:
		return p.parseFor()

	case token.Var:
		return p.parseDeclaration()
	}

	if op, prec, ok := prefix(p.peek()); ok {
		p.next()
		start := p.span()

		var (
			operand ast.Expr
			err     error
		)

		if next, ok := nextTier(prec); ok {
			operand, err = p.parseOp(next)
		} else {
			operand, err = p.parseValue()
		}

		if err != nil {
			return nil, err
		}

		return &ast.Unary{Op: op, Operand: operand, Loc: start.Extended(p.span())}, nil
	}

	return nil, &ExpectedError{Expected: "expression", Found: p.peek(), At: p.lex.PeekSpan()}
}

// exprs parses n consecutive expressions.
func (p *Parser) exprs(n int) ([]ast.Expr, error) {
	out := make([]ast.Expr, n)
	for i := range out {
		e, err := p.ParseExpr()
		if err != nil {
			return nil, err
		}

		out[i] = e
	}

	return out, nil
}

// parseParen parses either a parenthesized expression or an arrow function.
// The opening parenthesis has been consumed.
func (p *Parser) parseParen() (ast.Expr, error) {
	start := p.span()

	isFunc, err := p.scanArrow(start)
	if err != nil {
		return nil, err
	}

	if !isFunc {
		inner, err := p.ParseExpr()
		if err != nil {
			return nil, err
		}

		if err := p.expect(token.CloseParen); err != nil {
			return nil, err
		}

		ast.Respan(inner, start.Extended(p.span()))

		return inner, nil
	}

	var params []ast.Param

	err = p.list(token.Comma, token.CloseParen, func() error {
		if err := p.expect(token.Ident); err != nil {
			return err
		}

		if intern.IsReserved(p.lex.Slice()) {
			return &SpecialIdentError{At: p.span()}
		}

		params = append(params, ast.Param{Name: p.intern(), Loc: p.span()})

		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := p.expect(token.FatArrow); err != nil {
		return nil, err
	}

	body, err := p.ParseExpr()
	if err != nil {
		return nil, err
	}

	return &ast.Function{Params: params, Body: body, Loc: start.Extended(p.span())}, nil
}

// scanArrow reports whether the parenthesis group just opened is followed
// by "=>". It scans a copy of the cursor; the primary cursor is untouched.
func (p *Parser) scanArrow(open span.Span) (bool, error) {
	scan := p.lex.Clone()

	for depth := 1; ; {
		switch scan.Next() {
		case token.OpenParen:
			depth++
		case token.CloseParen:
			if depth--; depth == 0 {
				return scan.Next() == token.FatArrow, nil
			}
		case token.EOF:
			return false, &NoMatchingParenError{At: open}
		}
	}
}

func (p *Parser) parseIf() (ast.Expr, error) {
	p.next()
	start := p.span()

	exprs, err := p.exprs(2)
	if err != nil {
		return nil, err
	}

	n := &ast.If{Cond: exprs[0], Then: exprs[1]}

	if p.skip(token.Else) {
		if n.Else, err = p.ParseExpr(); err != nil {
			return nil, err
		}
	}

	n.Loc = start.Extended(p.span())

	return n, nil
}

func (p *Parser) parseFor() (ast.Expr, error) {
	p.next()
	start := p.span()

	var clauses [3]ast.Expr

	for i := range clauses {
		e, err := p.ParseExpr()
		if err != nil {
			return nil, err
		}

		clauses[i] = e

		if i < len(clauses)-1 {
			if err := p.expect(token.Comma); err != nil {
				return nil, err
			}
		}
	}

	body, err := p.ParseExpr()
	if err != nil {
		return nil, err
	}

	return &ast.For{
		Init: clauses[0],
		Cond: clauses[1],
		Step: clauses[2],
		Body: body,
		Loc:  start.Extended(p.span()),
	}, nil
}

func (p *Parser) parseDeclaration() (ast.Expr, error) {
	p.next()
	start := p.span()

	if err := p.expectNamed(token.Ident, "variable name"); err != nil {
		return nil, err
	}

	if intern.IsReserved(p.lex.Slice()) {
		return nil, &SpecialIdentError{At: p.span()}
	}

	name, nameLoc := p.intern(), p.span()

	if err := p.expect(token.Assign); err != nil {
		return nil, err
	}

	init, err := p.ParseExpr()
	if err != nil {
		return nil, err
	}

	return &ast.Declaration{
		Name:    name,
		NameLoc: nameLoc,
		Init:    init,
		Loc:     start.Extended(p.span()),
	}, nil
}
