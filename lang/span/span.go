// Package span locates tokens and syntax nodes in source text.
package span

import (
	"fmt"
	"log/slog"
)

// Span is a half-open byte range [Start, End) into source text.
type Span struct {
	Start uint32 `json:"start" yaml:"start"`
	End   uint32 `json:"end"   yaml:"end"`
}

// Make returns the span covering byte offsets [start, end).
func Make(start, end int) Span {
	return Span{Start: uint32(start), End: uint32(end)}
}

// Extended returns the smallest span covering both s and other.
func (s Span) Extended(other Span) Span {
	return Span{Start: min(s.Start, other.Start), End: max(s.End, other.End)}
}

// Len returns the number of bytes covered by s.
func (s Span) Len() int {
	if s.End < s.Start {
		return 0
	}

	return int(s.End - s.Start)
}

// Slice returns the text of src covered by s, clamped to the bounds of src.
func (s Span) Slice(src string) string {
	start, end := min(int(s.Start), len(src)), min(int(s.End), len(src))
	if end < start {
		return ""
	}

	return src[start:end]
}

// Position returns the 1-based line and column of the start of s in src.
// Columns count runes, not bytes.
func (s Span) Position(src string) (line, col int) {
	line, col = 1, 1

	for i, r := range src {
		if i >= int(s.Start) {
			break
		}

		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}

	return line, col
}

func (s Span) String() string { return fmt.Sprintf("%d..%d", s.Start, s.End) }

// LogValue implements slog.LogValuer.
func (s Span) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("start", int(s.Start)),
		slog.Int("end", int(s.End)),
	)
}
