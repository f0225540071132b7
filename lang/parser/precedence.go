package parser

import (
	"github.com/ardnew/plume/lang/ast"
	"github.com/ardnew/plume/lang/token"
)

type assoc uint8

const (
	leftAssoc assoc = iota
	rightAssoc
)

// tier is one level of binary operator precedence.
type tier struct {
	ops   map[token.Kind]ast.BinaryOp
	assoc assoc
}

// tiers orders binary operators loosest first. The tier at unaryTier holds
// no infix operators; it only positions prefix minus between multiplication
// and exponentiation.
var tiers = [...]tier{
	{ops: map[token.Kind]ast.BinaryOp{token.Eq: ast.Eq, token.NotEq: ast.NotEq}},
	{ops: map[token.Kind]ast.BinaryOp{
		token.Lt: ast.Lt, token.Gt: ast.Gt, token.LtEq: ast.LtEq, token.GtEq: ast.GtEq,
	}},
	{ops: map[token.Kind]ast.BinaryOp{token.Plus: ast.Add, token.Minus: ast.Sub}},
	{ops: map[token.Kind]ast.BinaryOp{token.Mult: ast.Mul, token.Div: ast.Div, token.Mod: ast.Mod}},
	{},
	{ops: map[token.Kind]ast.BinaryOp{token.Pow: ast.Pow}, assoc: rightAssoc},
}

const unaryTier = ast.PrecUnary

// nextTier returns the precedence level binding tighter than prec.
func nextTier(prec int) (int, bool) {
	if prec+1 < len(tiers) {
		return prec + 1, true
	}

	return 0, false
}

// infix returns the binary operator k denotes at precedence prec.
func infix(k token.Kind, prec int) (ast.BinaryOp, bool) {
	op, ok := tiers[prec].ops[k]

	return op, ok
}

// prefix returns the unary operator k denotes and the tier it binds at.
func prefix(k token.Kind) (ast.UnaryOp, int, bool) {
	if k == token.Minus {
		return ast.Neg, unaryTier, true
	}

	return 0, 0, false
}

var assignOps = map[token.Kind]ast.AssignOp{
	token.Assign:      ast.Set,
	token.PlusAssign:  ast.AddSet,
	token.MinusAssign: ast.SubSet,
	token.MultAssign:  ast.MulSet,
	token.DivAssign:   ast.DivSet,
	token.ModAssign:   ast.ModSet,
	token.PowAssign:   ast.PowSet,
}
