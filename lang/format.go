package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/plume/lang/ast"
)

// Format writes the canonical source form of p. Parsing the output yields a
// program equivalent to p.
func (p *Program) Format(w io.Writer) error {
	return ast.Fprint(w, p.Root, p.symbols)
}

// Tree returns a description of every node of p for encoding.
func (p *Program) Tree() *ast.Node {
	return ast.Dump(p.Root, p.symbols)
}

// FormatJSON writes the syntax tree of p as JSON. A positive indent writes
// one field per line.
func (p *Program) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	return writeJSON(w, p.Tree(), indent)
}

// FormatYAML writes the syntax tree of p as YAML. A non-positive indent
// writes flow style.
func (p *Program) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	return writeYAML(ctx, w, p.Tree(), indent)
}

func writeJSON(w io.Writer, v any, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(v, "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(v)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

func writeYAML(ctx context.Context, w io.Writer, v any, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, v, opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}

// Encode writes v in the named format: "json", "yaml", or "text" for the
// plain rendering. Values are converted with [ToNative] first when they are
// plume values.
func Encode(ctx context.Context, w io.Writer, format string, v any, indent int) error {
	if pv, ok := asValue(v); ok {
		if format == "text" {
			_, err := fmt.Fprintln(w, pv.String())

			return err
		}

		v = ToNative(pv)
	}

	switch format {
	case "json":
		return writeJSON(w, v, indent)
	case "yaml":
		return writeYAML(ctx, w, v, indent)
	default:
		_, err := fmt.Fprintln(w, v)

		return err
	}
}
