// Package diag renders diagnostics for a terminal with an excerpt of the
// offending source.
package diag

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/plume/lang/report"
	"github.com/ardnew/plume/lang/span"
)

// Printer renders reports to one writer. Colors are chosen for the writer's
// terminal profile and dropped when it is not a terminal.
type Printer struct {
	w      io.Writer
	title  lipgloss.Style
	kind   map[report.Kind]lipgloss.Style
	gutter lipgloss.Style
	caret  lipgloss.Style
	text   lipgloss.Style
}

// NewPrinter returns a Printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)

	return &Printer{
		w:     w,
		title: r.NewStyle().Bold(true),
		kind: map[report.Kind]lipgloss.Style{
			report.Error:   r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
			report.Warning: r.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
		},
		gutter: r.NewStyle().Foreground(lipgloss.Color("4")),
		caret:  r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		text:   r.NewStyle().Foreground(lipgloss.Color("1")),
	}
}

// Print writes err. If err carries a diagnostic, its report is rendered
// against src, the text of the source called name. Other errors are written
// on one line.
func (p *Printer) Print(name, src string, err error) error {
	rep, ok := report.From(err)
	if !ok {
		_, werr := fmt.Fprintf(p.w, "%s %s\n", p.kind[report.Error].Render("error:"), err)

		return werr
	}

	return p.Report(name, src, rep)
}

// Report writes rep with one excerpt of src per message:
//
//	error: Nonexistent variable
//	  --> main.plume:2:1
//	   |
//	 2 | y + x
//	   | ^ Variable `y` does not exist
func (p *Printer) Report(name, src string, rep report.Report) error {
	var b strings.Builder

	b.WriteString(p.kind[rep.Kind].Render(rep.Kind.String() + ":"))
	b.WriteByte(' ')
	b.WriteString(p.title.Render(rep.Title))
	b.WriteByte('\n')

	for _, m := range rep.Messages {
		p.excerpt(&b, name, src, m)
	}

	_, err := io.WriteString(p.w, b.String())

	return err
}

func (p *Printer) excerpt(b *strings.Builder, name, src string, m report.Message) {
	line, col := m.Span.Position(src)
	text := sourceLine(src, m.Span)
	num := strconv.Itoa(line)
	pad := strings.Repeat(" ", len(num))

	fmt.Fprintf(b, "%s %s %s:%d:%d\n", pad, p.gutter.Render("-->"), name, line, col)
	fmt.Fprintf(b, "%s %s\n", pad, p.gutter.Render("|"))
	fmt.Fprintf(b, "%s %s %s\n", p.gutter.Render(num), p.gutter.Render("|"), text)

	width := max(1, utf8.RuneCountInString(m.Span.Slice(src)))
	width = min(width, max(1, utf8.RuneCountInString(text)-col+1))

	fmt.Fprintf(b, "%s %s %s%s %s\n",
		pad,
		p.gutter.Render("|"),
		strings.Repeat(" ", col-1),
		p.caret.Render(strings.Repeat("^", width)),
		p.text.Render(m.Text),
	)
}

// sourceLine returns the line of src containing the start of s.
func sourceLine(src string, s span.Span) string {
	at := min(int(s.Start), len(src))

	start := strings.LastIndexByte(src[:at], '\n') + 1

	end := strings.IndexByte(src[at:], '\n')
	if end < 0 {
		return strings.TrimRight(src[start:], "\r")
	}

	return strings.TrimRight(src[start:at+end], "\r")
}
