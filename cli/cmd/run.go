package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/ardnew/plume/cli/diag"
	"github.com/ardnew/plume/lang"
	"github.com/ardnew/plume/lang/report"
	"github.com/ardnew/plume/lang/value"
	"github.com/ardnew/plume/lang/vm"
	"github.com/ardnew/plume/log"
)

// Globals binds host values in the root scope of evaluated scripts.
type Globals struct {
	Define map[string]string `help:"Bind NAME to the value of an expr-lang expression evaluated on the host." mapsep:"none" placeholder:"NAME=EXPR" short:"D"`
}

// options evaluates each definition, in name order.
func (g Globals) options(ctx context.Context) ([]lang.Option, error) {
	opts := make([]lang.Option, 0, len(g.Define))

	for _, name := range slices.Sorted(maps.Keys(g.Define)) {
		opt, err := lang.Define(ctx, name, g.Define[name])
		if err != nil {
			return nil, ErrDefine.Wrap(err).With(slog.String("name", name))
		}

		log.DebugContext(ctx, "global defined",
			slog.String("name", name),
			slog.String("expr", g.Define[name]),
		)

		opts = append(opts, opt)
	}

	return opts, nil
}

// Diagnostics selects how parse and runtime errors are presented.
type Diagnostics struct {
	Report string `default:"text" enum:"text,json,yaml" help:"Diagnostic format (${enum})."`
}

// print writes err as a diagnostic of the script s and reports whether err
// carried one.
func (d Diagnostics) print(ctx context.Context, w io.Writer, s script, err error) bool {
	rep, ok := report.From(err)
	if !ok {
		return false
	}

	name := s.name
	if s.path != "" {
		name = s.path
	}

	var werr error

	switch d.Report {
	case "json", "yaml":
		werr = lang.Encode(ctx, w, d.Report, rep, 2)
	default:
		werr = diag.NewPrinter(w).Report(name, s.text, rep)
	}

	if werr != nil {
		log.WarnContext(ctx, "write diagnostic", slog.Any("error", werr))
	}

	return true
}

// sink returns the destination of dbg output.
func sink(w io.Writer) vm.Sink {
	return vm.SinkFunc(func(text string) { fmt.Fprintln(w, text) })
}

// Run evaluates a script and prints its result.
type Run struct {
	Globals     `embed:""`
	Diagnostics `embed:""`

	Output  string        `default:"text" enum:"text,json,yaml" help:"Result format (${enum})."               short:"o"`
	Indent  int           `default:"2"                          help:"Indent width for JSON and YAML results."`
	Quiet   bool          `                                     help:"Do not print the result."              short:"q"`
	Timeout time.Duration `default:"0"                          help:"Abort evaluation after this duration; 0 waits forever."`

	Script string `arg:"" default:"-" help:"Script file, name on the search path, or '-' for stdin." name:"script"`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if r.Timeout > 0 {
		var stop context.CancelFunc

		ctx, stop = context.WithTimeout(ctx, r.Timeout)
		defer stop()
	}

	streams := streamsFrom(ctx)

	s, err := readScript(ctx, r.Script)
	if err != nil {
		return err
	}

	opts, err := r.options(ctx)
	if err != nil {
		return err
	}

	opts = append(opts,
		lang.WithLogger(log.Default()),
		lang.WithSink(sink(streams.Err)),
	)

	start := time.Now()

	v, err := lang.Run(ctx, s.text, opts...)
	if err != nil {
		if r.print(ctx, streams.Err, s, err) {
			return ErrReported.Wrap(err).With(slog.String("script", s.name))
		}

		return err
	}

	log.DebugContext(ctx, "script evaluated",
		slog.String("script", s.name),
		slog.String("type", v.Type().String()),
		slog.Duration("elapsed", time.Since(start)),
	)

	if r.Quiet || (r.Output == "text" && v.Type() == value.TypeNull) {
		return nil
	}

	return lang.Encode(ctx, streams.Out, r.Output, v, r.Indent)
}
