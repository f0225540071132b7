package repl

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/plume/lang"
	"github.com/ardnew/plume/lang/value"
)

// conversionParams are the parameters shown for a call to a type binding.
var conversionParams = []string{"v"}

var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// functionCall describes the call whose argument list holds the cursor.
type functionCall struct {
	name     string // callee identifier
	argIndex int    // 0-based index of the argument at the cursor
	inCall   bool   // cursor is inside an argument list
}

func isIdentRune(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// detectFunctionCall finds the innermost unclosed "name(" before cursor and
// counts the commas at its depth. Parentheses and commas are ASCII, so the
// scan walks bytes without splitting runes that matter.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(cursor, len(input))

	open := -1

	for i, depth := cursor-1, 0; i >= 0 && open < 0; i-- {
		switch input[i] {
		case ')', ']':
			depth++
		case '(', '[':
			if depth == 0 {
				if input[i] == '[' {
					return functionCall{}
				}

				open = i
			}

			depth--
		}
	}

	if open < 0 {
		return functionCall{}
	}

	start := open
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if !isIdentRune(r) {
			break
		}

		start -= size
	}

	name := input[start:open]
	if name == "" {
		return functionCall{}
	}

	argIndex := 0

	for i, depth := open+1, 0; i < cursor; i++ {
		switch input[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				argIndex++
			}
		}
	}

	return functionCall{name: name, argIndex: argIndex, inCall: true}
}

// signature returns the parameter names of the callable bound to name in the
// session scope. A type binding takes the one value it converts.
func signature(session *lang.Session, name string) ([]string, bool) {
	if session == nil {
		return nil, false
	}

	for _, b := range session.Bindings() {
		if b.Name != name {
			continue
		}

		switch b.Value.Type() {
		case value.TypeFunction:
			return session.Params(b.Value), true
		case value.TypeType:
			return conversionParams, true
		default:
			return nil, false
		}
	}

	return nil, false
}

// renderSignatureHint renders "name(p0, p1)" with the parameter at
// argIndex highlighted.
func renderSignatureHint(name string, params []string, argIndex int) string {
	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(name))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		if i == argIndex {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
