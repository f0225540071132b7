// Package token defines the lexical classes of plume source text.
//
// A [Kind] carries no payload. The text of an identifier, number, or string
// literal is recovered from the lexer's current slice.
package token

// Kind classifies a token.
type Kind uint8

// Token kinds.
const (
	Unknown Kind = iota
	EOF

	Ident
	Number
	String

	Plus
	Minus
	Mult
	Div
	Mod
	Pow

	Assign
	PlusAssign
	MinusAssign
	MultAssign
	DivAssign
	ModAssign
	PowAssign

	Eq
	NotEq
	Lt
	Gt
	LtEq
	GtEq

	OpenParen
	CloseParen
	OpenSquare
	CloseSquare
	OpenCurly
	CloseCurly

	Comma
	Semicolon
	Colon
	FatArrow

	True
	False
	Var
	If
	Else
	While
	For
	Dbg

	kindCount
)

var names = [kindCount]string{
	Unknown:     "unknown",
	EOF:         "end of file",
	Ident:       "identifier",
	Number:      "number",
	String:      "string literal",
	Plus:        "+",
	Minus:       "-",
	Mult:        "*",
	Div:         "/",
	Mod:         "%",
	Pow:         "**",
	Assign:      "=",
	PlusAssign:  "+=",
	MinusAssign: "-=",
	MultAssign:  "*=",
	DivAssign:   "/=",
	ModAssign:   "%=",
	PowAssign:   "**=",
	Eq:          "==",
	NotEq:       "!=",
	Lt:          "<",
	Gt:          ">",
	LtEq:        "<=",
	GtEq:        ">=",
	OpenParen:   "(",
	CloseParen:  ")",
	OpenSquare:  "[",
	CloseSquare: "]",
	OpenCurly:   "{",
	CloseCurly:  "}",
	Comma:       ",",
	Semicolon:   ";",
	Colon:       ":",
	FatArrow:    "=>",
	True:        "true",
	False:       "false",
	Var:         "var",
	If:          "if",
	Else:        "else",
	While:       "while",
	For:         "for",
	Dbg:         "dbg",
}

// String returns the display name of k used in diagnostics: the literal
// symbol for operators and keywords, a description for everything else.
func (k Kind) String() string {
	if k < kindCount {
		return names[k]
	}

	return names[Unknown]
}

// keywords maps reserved words to their kinds.
var keywords = map[string]Kind{
	"true":  True,
	"false": False,
	"var":   Var,
	"if":    If,
	"else":  Else,
	"while": While,
	"for":   For,
	"dbg":   Dbg,
}

// Lookup returns the keyword kind of ident, or [Ident] if it is not reserved.
func Lookup(ident string) Kind {
	if k, ok := keywords[ident]; ok {
		return k
	}

	return Ident
}

// Keywords returns the reserved words in declaration order.
func Keywords() []string {
	return []string{"true", "false", "var", "if", "else", "while", "for", "dbg"}
}

// IsAssign reports whether k is plain or compound assignment.
func (k Kind) IsAssign() bool { return k >= Assign && k <= PowAssign }
