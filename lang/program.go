package lang

import (
	"context"
	"log/slog"

	"github.com/ardnew/plume/lang/ast"
	"github.com/ardnew/plume/lang/intern"
	"github.com/ardnew/plume/lang/lexer"
	"github.com/ardnew/plume/lang/parser"
	"github.com/ardnew/plume/lang/span"
	"github.com/ardnew/plume/lang/token"
	"github.com/ardnew/plume/lang/value"
	"github.com/ardnew/plume/lang/vm"
)

// Program is a parsed script. A Program is never modified after parsing, so
// it may be run any number of times and from concurrent goroutines.
type Program struct {
	Root    *ast.Block
	Source  string
	symbols *intern.Interner
}

// Names resolves the identifiers referenced by p.Root.
func (p *Program) Names() ast.Names { return p.symbols }

// reservedNames returns the names bound in every root scope. They are
// interned before parsing so evaluation never has to intern.
func reservedNames() []string {
	types := value.Types()

	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.Binding()
	}

	return names
}

// ParseString parses src into a [Program].
// Programs are cached by source content unless disabled with [WithCache].
// A syntax error is returned wrapped in [ErrParse]; use [report.From] to
// recover its diagnostic.
func ParseString(ctx context.Context, src string, opts ...Option) (*Program, error) {
	o := makeOptions(opts...)

	o.logger.TraceContext(
		ctx,
		"parse start",
		slog.Int("source_length", len(src)),
		slog.Bool("cache", o.cache),
	)

	if o.cache {
		return parseCached(ctx, src, o)
	}

	return parse(ctx, src, o)
}

// parse is the uncached parsing implementation.
func parse(ctx context.Context, src string, o options) (*Program, error) {
	names := intern.New(reservedNames()...)

	root, err := parser.Parse(src, names)
	if err != nil {
		o.logger.TraceContext(ctx, "parse failed", slog.Any("error", err))

		return nil, ErrParse.Wrap(err).With(slog.Int("source_length", len(src)))
	}

	o.logger.TraceContext(
		ctx,
		"parse complete",
		slog.Int("statements", len(root.Normal)),
		slog.Bool("trailing_expr", root.Ret != nil),
		slog.Int("symbols", names.Len()),
	)

	return &Program{Root: root, Source: src, symbols: names}, nil
}

// Run evaluates p and returns the value of its trailing expression, or null.
// A runtime error is returned wrapped in [ErrRun]; cancellation of ctx ends
// evaluation with the context's error, also wrapped in [ErrRun].
//
// Array values given with [WithGlobal] are shared with the evaluation and
// must not be passed to concurrent runs.
func (p *Program) Run(ctx context.Context, opts ...Option) (value.Value, error) {
	o := makeOptions(opts...)

	globals, err := p.globals(ctx, o)
	if err != nil {
		return value.Null(), err
	}

	machine := vm.New(p.symbols, vm.WithSink(o.sink), vm.WithGlobals(globals...))

	o.logger.TraceContext(ctx, "run start", slog.Int("globals", len(globals)))

	v, err := machine.RunContext(ctx, p.Root)
	if err != nil {
		o.logger.TraceContext(ctx, "run failed", slog.Any("error", err))

		return value.Null(), ErrRun.Wrap(err)
	}

	o.logger.TraceContext(
		ctx,
		"run complete",
		slog.String("type", v.Type().String()),
	)

	return v, nil
}

// globals resolves the host bindings of o against the names of p. Names p
// never mentions are skipped.
func (p *Program) globals(ctx context.Context, o options) ([]vm.Global, error) {
	out := make([]vm.Global, 0, len(o.globals))

	for _, g := range o.globals {
		if err := checkGlobalName(g.name); err != nil {
			return nil, err
		}

		sym, ok := p.symbols.Lookup(g.name)
		if !ok {
			o.logger.TraceContext(ctx, "global unused", slog.String("name", g.name))

			continue
		}

		out = append(out, vm.Global{Name: sym, Value: g.value})
	}

	return out, nil
}

// checkGlobalName reports whether name can be declared by a script.
func checkGlobalName(name string) error {
	lex := lexer.New(name)
	if lex.Next() != token.Ident || lex.Span() != span.Make(0, len(name)) {
		return ErrDefine.With(
			slog.String("name", name),
			slog.String("reason", "not an identifier"),
		)
	}

	if intern.IsReserved(name) {
		return ErrDefine.With(
			slog.String("name", name),
			slog.String("reason", "reserved prefix "+intern.ReservedPrefix),
		)
	}

	return nil
}

// Run parses and evaluates src in one step.
func Run(ctx context.Context, src string, opts ...Option) (value.Value, error) {
	p, err := ParseString(ctx, src, opts...)
	if err != nil {
		return value.Null(), err
	}

	return p.Run(ctx, opts...)
}
