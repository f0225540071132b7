// Package lexer splits plume source text into classified tokens.
//
// A [Lexer] is a plain value cursor: copying it (see [Lexer.Clone]) yields a
// fully independent cursor, which the parser uses for speculative lookahead.
package lexer

import (
	"strings"
	"unicode/utf8"

	"github.com/ardnew/plume/lang/span"
	"github.com/ardnew/plume/lang/token"
)

// Lexer produces tokens from source text with one token of lookahead.
type Lexer struct {
	src string
	pos int // offset of the first unscanned byte

	// most recently consumed token
	start, end int

	// cached result of Peek
	peeked     bool
	peekKind   token.Kind
	peekStart  int
	peekEnd    int
	peekOffset int
}

// New returns a lexer positioned at the start of src.
func New(src string) *Lexer {
	return &Lexer{src: src}
}

// Clone returns an independent copy of the cursor.
func (l *Lexer) Clone() *Lexer {
	c := *l

	return &c
}

// Source returns the full source text.
func (l *Lexer) Source() string { return l.src }

// Peek returns the next token without consuming it.
func (l *Lexer) Peek() token.Kind {
	if !l.peeked {
		l.peekKind, l.peekStart, l.peekEnd, l.peekOffset = scan(l.src, l.pos)
		l.peeked = true
	}

	return l.peekKind
}

// PeekSpan returns the span of the token [Lexer.Peek] returns.
func (l *Lexer) PeekSpan() span.Span {
	l.Peek()

	return span.Make(l.peekStart, l.peekEnd)
}

// Next consumes and returns the next token. Once input is exhausted it
// returns [token.EOF] forever.
func (l *Lexer) Next() token.Kind {
	l.Peek()
	l.peeked = false
	l.start, l.end, l.pos = l.peekStart, l.peekEnd, l.peekOffset

	return l.peekKind
}

// Span returns the span of the most recently consumed token.
func (l *Lexer) Span() span.Span { return span.Make(l.start, l.end) }

// Slice returns the text of the most recently consumed token.
func (l *Lexer) Slice() string { return l.src[l.start:l.end] }

// scan classifies the token beginning at or after offset pos. It returns the
// token's kind, its byte range, and the offset following it.
func scan(src string, pos int) (kind token.Kind, start, end, next int) {
	pos = skipSpace(src, pos)
	if pos >= len(src) {
		return token.EOF, len(src), len(src), len(src)
	}

	start = pos
	c := src[pos]

	switch {
	case isIdentStart(c):
		end = pos + 1
		for end < len(src) && isIdentPart(src[end]) {
			end++
		}

		return token.Lookup(src[start:end]), start, end, end

	case isDigit(c):
		end = pos + 1
		for end < len(src) && isDigit(src[end]) {
			end++
		}

		if end < len(src) && src[end] == '.' {
			end++
			for end < len(src) && isDigit(src[end]) {
				end++
			}
		}

		return token.Number, start, end, end

	case c == '"':
		// The literal is the longest prefix whose inner quotes all follow a
		// backslash, so the final quote may close it even after one.
		end = -1
		for i := pos + 1; i < len(src); i++ {
			if src[i] != '"' {
				continue
			}

			end = i + 1
			if src[i-1] != '\\' {
				break
			}
		}

		if end < 0 {
			// unterminated
			return token.Unknown, start, start + 1, start + 1
		}

		return token.String, start, end, end
	}

	for _, op := range operators {
		if strings.HasPrefix(src[pos:], op.text) {
			end = pos + len(op.text)

			return op.kind, start, end, end
		}
	}

	_, size := utf8.DecodeRuneInString(src[pos:])

	return token.Unknown, start, start + size, start + size
}

// operators lists punctuation longest first so that the first prefix match
// is the longest one.
var operators = []struct {
	text string
	kind token.Kind
}{
	{"**=", token.PowAssign},
	{"**", token.Pow},
	{"+=", token.PlusAssign},
	{"-=", token.MinusAssign},
	{"*=", token.MultAssign},
	{"/=", token.DivAssign},
	{"%=", token.ModAssign},
	{"==", token.Eq},
	{"!=", token.NotEq},
	{"<=", token.LtEq},
	{">=", token.GtEq},
	{"=>", token.FatArrow},
	{"+", token.Plus},
	{"-", token.Minus},
	{"*", token.Mult},
	{"/", token.Div},
	{"%", token.Mod},
	{"=", token.Assign},
	{"<", token.Lt},
	{">", token.Gt},
	{"(", token.OpenParen},
	{")", token.CloseParen},
	{"[", token.OpenSquare},
	{"]", token.CloseSquare},
	{"{", token.OpenCurly},
	{"}", token.CloseCurly},
	{",", token.Comma},
	{";", token.Semicolon},
	{":", token.Colon},
}

// skipSpace skips whitespace and line comments.
func skipSpace(src string, pos int) int {
	for pos < len(src) {
		switch src[pos] {
		case ' ', '\t', '\r', '\n', '\f':
			pos++
		case '/':
			if !strings.HasPrefix(src[pos:], "//") {
				return pos
			}

			nl := strings.IndexByte(src[pos:], '\n')
			if nl < 0 {
				return len(src)
			}

			pos += nl + 1
		default:
			return pos
		}
	}

	return pos
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return c == '_' || isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// Unquote returns the contents of a string literal token, with the only
// escape sequence, \", replaced by a double quote.
func Unquote(lit string) string {
	if len(lit) < 2 {
		return ""
	}

	return strings.ReplaceAll(lit[1:len(lit)-1], `\"`, `"`)
}
