package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles of a pretty handler. Styles come from a renderer
// bound to the handler's output, so output that is not a terminal is
// written without escape sequences.
type palette struct {
	key, time, msg, str, num, null lipgloss.Style
	yes, no                        lipgloss.Style
	level                          map[slog.Level]lipgloss.Style
}

func makePalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	color := func(c string) lipgloss.Style { return r.NewStyle().Foreground(lipgloss.Color(c)) }

	return palette{
		key:  color("8"),
		time: r.NewStyle().Faint(true),
		msg:  r.NewStyle().Bold(true),
		str:  color("6"),
		num:  color("3"),
		null: color("8"),
		yes:  color("2"),
		no:   color("1"),
		level: map[slog.Level]lipgloss.Style{
			slog.Level(LevelTrace): color("5"),
			slog.LevelDebug:        color("4"),
			slog.LevelInfo:         color("2"),
			slog.LevelWarn:         color("3"),
			slog.LevelError:        color("1").Bold(true),
		},
	}
}

func (p palette) levelStyle(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return p.level[slog.LevelError]
	case l >= slog.LevelWarn:
		return p.level[slog.LevelWarn]
	case l >= slog.LevelInfo:
		return p.level[slog.LevelInfo]
	case l >= slog.LevelDebug:
		return p.level[slog.LevelDebug]
	default:
		return p.level[slog.Level(LevelTrace)]
	}
}

// field is an attribute with its fully qualified key.
type field struct {
	key   string
	value slog.Value
}

// entry is a record prepared for a [recordWriter].
type entry struct {
	time   string
	level  slog.Level
	source string
	msg    string
	fields []field
}

type recordWriter func(buf *bytes.Buffer, p palette, e entry)

// prettyHandler is a [slog.Handler] writing styled records.
type prettyHandler struct {
	opts       *slog.HandlerOptions
	mu         *sync.Mutex
	w          io.Writer
	formatTime FormatTime
	write      recordWriter
	palette    palette
	fields     []field // from WithAttrs, keys already qualified
	prefix     string  // from WithGroup
}

func newPrettyHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
	write recordWriter,
) *prettyHandler {
	return &prettyHandler{
		opts:       opts,
		mu:         &sync.Mutex{},
		w:          w,
		formatTime: formatTime,
		write:      write,
		palette:    makePalette(w),
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	e := entry{level: r.Level, msg: r.Message}

	if !r.Time.IsZero() && h.formatTime != nil {
		e.time = h.formatTime(r.Time)
	}

	if h.opts.AddSource {
		if src := r.Source(); src != nil && src.File != "" {
			e.source = fmt.Sprintf("%s:%d", src.File, src.Line)
		}
	}

	e.fields = append(make([]field, 0, len(h.fields)+r.NumAttrs()), h.fields...)
	r.Attrs(func(a slog.Attr) bool {
		e.fields = appendField(e.fields, h.prefix, a)

		return true
	})

	buf := new(bytes.Buffer)
	h.write(buf, h.palette, e)
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.fields = append([]field(nil), h.fields...)

	for _, a := range attrs {
		c.fields = appendField(c.fields, h.prefix, a)
	}

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix = h.prefix + name + "."

	return &c
}

// appendField resolves a and appends it under prefix. Empty attributes are
// dropped; groups with a key stay nested, inline groups are flattened.
func appendField(fields []field, prefix string, a slog.Attr) []field {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return fields
	}

	if a.Value.Kind() == slog.KindGroup && a.Key == "" {
		for _, ga := range a.Value.Group() {
			fields = appendField(fields, prefix, ga)
		}

		return fields
	}

	return append(fields, field{key: prefix + a.Key, value: a.Value})
}

// writeTextRecord writes a record as one line: time, padded level, message,
// then key=value pairs with groups flattened into dotted keys.
func writeTextRecord(buf *bytes.Buffer, p palette, e entry) {
	if e.time != "" {
		buf.WriteString(p.time.Render(e.time))
		buf.WriteByte(' ')
	}

	level := strings.ToUpper(Level(e.level).String())
	buf.WriteString(p.levelStyle(e.level).Render(fmt.Sprintf("%-5s", level)))

	if e.source != "" {
		buf.WriteByte(' ')
		buf.WriteString(p.key.Render(e.source))
	}

	buf.WriteByte(' ')
	buf.WriteString(p.msg.Render(e.msg))

	for _, f := range e.fields {
		writeTextField(buf, p, f.key, f.value)
	}
}

func writeTextField(buf *bytes.Buffer, p palette, key string, v slog.Value) {
	if v.Kind() == slog.KindGroup {
		for _, a := range v.Group() {
			a.Value = a.Value.Resolve()
			writeTextField(buf, p, key+"."+a.Key, a.Value)
		}

		return
	}

	buf.WriteByte(' ')
	buf.WriteString(p.key.Render(key + "="))
	buf.WriteString(textValue(p, v))
}

func textValue(p palette, v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		s := v.String()
		if s == "" || strings.ContainsAny(s, " \t\n\"=") {
			s = strconv.Quote(s)
		}

		return p.str.Render(s)
	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		return p.num.Render(v.String())
	case slog.KindBool:
		if v.Bool() {
			return p.yes.Render("true")
		}

		return p.no.Render("false")
	case slog.KindDuration:
		return p.num.Render(v.Duration().String())
	case slog.KindTime:
		return p.time.Render(v.Time().Format(time.RFC3339))
	default:
		if v.Any() == nil {
			return p.null.Render("null")
		}

		return p.str.Render(strconv.Quote(v.String()))
	}
}

const jsonIndent = "  "

// writeJSONRecord writes a record as an indented JSON object with groups as
// nested objects.
func writeJSONRecord(buf *bytes.Buffer, p palette, e entry) {
	fields := make([]field, 0, len(e.fields)+4)

	if e.time != "" {
		fields = append(fields, field{slog.TimeKey, slog.StringValue(e.time)})
	}

	fields = append(fields, field{slog.LevelKey, slog.StringValue(strings.ToUpper(Level(e.level).String()))})

	if e.source != "" {
		fields = append(fields, field{slog.SourceKey, slog.StringValue(e.source)})
	}

	fields = append(fields, field{slog.MessageKey, slog.StringValue(e.msg)})
	fields = append(fields, e.fields...)

	writeJSONObject(buf, p, fields, "")
}

func writeJSONObject(buf *bytes.Buffer, p palette, fields []field, indent string) {
	if len(fields) == 0 {
		buf.WriteString("{}")

		return
	}

	buf.WriteString("{\n")

	for i, f := range fields {
		if i > 0 {
			buf.WriteString(",\n")
		}

		buf.WriteString(indent + jsonIndent)
		buf.WriteString(p.key.Render(jsonString(f.key)))
		buf.WriteString(": ")

		if f.value.Kind() == slog.KindGroup {
			group := f.value.Group()
			nested := make([]field, 0, len(group))

			for _, a := range group {
				nested = appendField(nested, "", a)
			}

			writeJSONObject(buf, p, nested, indent+jsonIndent)

			continue
		}

		buf.WriteString(jsonValue(p, f.value))
	}

	buf.WriteString("\n" + indent + "}")
}

func jsonValue(p palette, v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return p.str.Render(jsonString(v.String()))
	case slog.KindInt64, slog.KindUint64:
		return p.num.Render(v.String())
	case slog.KindFloat64:
		data, err := json.Marshal(v.Float64())
		if err != nil {
			return p.str.Render(jsonString(v.String()))
		}

		return p.num.Render(string(data))
	case slog.KindBool:
		if v.Bool() {
			return p.yes.Render("true")
		}

		return p.no.Render("false")
	case slog.KindDuration:
		return p.num.Render(strconv.FormatInt(int64(v.Duration()), 10))
	case slog.KindTime:
		return p.str.Render(jsonString(v.Time().Format(time.RFC3339Nano)))
	default:
		if v.Any() == nil {
			return p.null.Render("null")
		}

		if err, ok := v.Any().(error); ok {
			return p.str.Render(jsonString(err.Error()))
		}

		data, err := json.Marshal(v.Any())
		if err != nil {
			return p.str.Render(jsonString(fmt.Sprint(v.Any())))
		}

		return p.str.Render(string(data))
	}
}

func jsonString(s string) string {
	data, _ := json.Marshal(s)

	return string(data)
}
