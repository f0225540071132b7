package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/plume/lang"
	"github.com/ardnew/plume/lang/token"
	"github.com/ardnew/plume/lang/value"
	"github.com/ardnew/plume/lang/vm"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "list", "reset", "edit", "clear", "quit"}

// previewWidth is the most runes of a value shown by list.
const previewWidth = 40

// isWordBoundary reports whether r delimits words for completion: white
// space and every rune of an operator or punctuation token.
func isWordBoundary(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '.',
		'(', ')', '[', ']', '{', '}',
		'+', '-', '*', '/', '%',
		'<', '>', '=', '!',
		'&', '|', ',', ';', '"':
		return true
	}

	return false
}

// wordBounds returns the word at cursor and its byte offsets within input.
// The word is empty when the cursor sits on a boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(cursor, len(input))

	start = cursor
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor
	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// evalCandidates returns the keywords followed by the names bound in the
// session scope.
func evalCandidates(session *lang.Session) []string {
	bindings := session.Bindings()
	keywords := token.Keywords()

	names := make([]string, 0, len(keywords)+len(bindings))
	names = append(names, keywords...)

	for _, b := range bindings {
		names = append(names, b.Name)
	}

	return names
}

// computeMatches returns the fuzzy matches for the word at the cursor, best
// first, with the candidates they were drawn from and the word's offsets.
// An empty word has no matches so the hint line stays visible.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	word, wordStart, wordEnd := wordBounds(m.input.Value(), m.input.Position())
	if word == "" {
		return nil, nil, wordStart, wordEnd
	}

	if m.mode == modeCtrl {
		candidates = ctrlCommands
	} else {
		candidates = evalCandidates(m.session)
	}

	return fuzzy.Find(word, candidates), candidates, wordStart, wordEnd
}

// isFunction reports whether name is bound to a value that can be called.
func (m model) isFunction(name string) bool {
	if m.session == nil || m.mode != modeEval {
		return false
	}

	for _, b := range m.session.Bindings() {
		if b.Name == name {
			t := b.Value.Type()

			return t == value.TypeFunction || t == value.TypeType
		}
	}

	return false
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within width. The selected candidate is highlighted while tab-cycling.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
	callable func(string) bool,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx, callable(match.Str))

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		need := entryWidth
		if i < len(matches)-1 {
			need += ellipsisWidth
		}

		if i > 0 && used+need > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a candidate with its matched runes highlighted.
// Callable candidates are shown with a "()" suffix that is not inserted on
// completion.
func renderCandidate(match fuzzy.Match, selected, callable bool) string {
	baseStyle := suggestionStyle
	highlightStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("4")).
		Bold(true)

	if selected {
		baseStyle = selectedStyle
		highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4")).
			Bold(true)
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlightStyle.Render(string(r)))
		} else {
			b.WriteString(baseStyle.Render(string(r)))
		}
	}

	if callable {
		b.WriteString(baseStyle.Render("()"))
	}

	return b.String()
}

// preview renders the value of a binding for list: functions as their
// parameter list, everything else as its text clipped to previewWidth runes.
func preview(session *lang.Session, b vm.Binding) string {
	if b.Value.Type() == value.TypeFunction {
		return "(" + strings.Join(session.Params(b.Value), ", ") + ") => ..."
	}

	text := b.Value.String()
	if b.Value.Type() == value.TypeString {
		text = `"` + text + `"`
	}

	if utf8.RuneCountInString(text) <= previewWidth {
		return text
	}

	runes := []rune(text)

	return string(runes[:previewWidth-3]) + "..."
}
