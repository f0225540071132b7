// Package report defines the host-facing diagnostic shape shared by parse and
// runtime errors.
//
// A [Report] is plain data. Rendering it for a terminal or any other medium is
// left to the host.
package report

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/ardnew/plume/lang/span"
)

// Kind is the severity of a report.
type Kind uint8

// Severities.
const (
	Error Kind = iota
	Warning
)

func (k Kind) String() string {
	switch k {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "error":
		*k = Error
	case "warning":
		*k = Warning
	default:
		return errors.New("unknown report kind: " + string(text))
	}

	return nil
}

// Message annotates one span of source text.
type Message struct {
	Span span.Span `json:"span" yaml:"span"`
	Text string    `json:"text" yaml:"text"`
}

// Report is a structured diagnostic. The first message marks the primary
// offending span.
type Report struct {
	Title    string    `json:"title"    yaml:"title"`
	Kind     Kind      `json:"kind"     yaml:"kind"`
	Messages []Message `json:"messages" yaml:"messages"`
}

// New returns an error report with the given title and messages.
func New(title string, messages ...Message) Report {
	return Report{Title: title, Kind: Error, Messages: messages}
}

// At returns a message annotating s.
func At(s span.Span, text string) Message { return Message{Span: s, Text: text} }

// Primary returns the span of the first message, if any.
func (r Report) Primary() (span.Span, bool) {
	if len(r.Messages) == 0 {
		return span.Span{}, false
	}

	return r.Messages[0].Span, true
}

// String returns the title and the text of the primary message, as
// "title: text".
func (r Report) String() string {
	if len(r.Messages) == 0 {
		return r.Title
	}

	return r.Title + ": " + r.Messages[0].Text
}

// LogValue implements slog.LogValuer.
func (r Report) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("title", r.Title),
		slog.String("kind", r.Kind.String()),
	}

	for i, m := range r.Messages {
		attrs = append(attrs, slog.Group(strconv.Itoa(i),
			slog.Any("span", m.Span),
			slog.String("text", m.Text),
		))
	}

	return slog.GroupValue(attrs...)
}

// Reporter is an error that describes itself as a [Report].
type Reporter interface {
	error
	Report() Report
}

// From returns the report of the first [Reporter] in err's chain.
func From(err error) (Report, bool) {
	var r Reporter
	if errors.As(err, &r) {
		return r.Report(), true
	}

	return Report{}, false
}
