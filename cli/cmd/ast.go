package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/plume/lang"
	"github.com/ardnew/plume/log"
)

// Ast prints the syntax tree of a script.
type Ast struct {
	Diagnostics `embed:""`

	Format string `default:"json" enum:"json,yaml" help:"Tree format (${enum})."         short:"f"`
	Indent int    `default:"2"                     help:"Indent width; 0 writes compact output." short:"i"`

	Script string `arg:"" default:"-" help:"Script file, name on the search path, or '-' for stdin." name:"script"`
}

// Run executes the ast command.
func (a *Ast) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	streams := streamsFrom(ctx)

	s, err := readScript(ctx, a.Script)
	if err != nil {
		return err
	}

	p, err := lang.ParseString(ctx, s.text, lang.WithLogger(log.Default()))
	if err != nil {
		if a.print(ctx, streams.Err, s, err) {
			return ErrReported.Wrap(err).With(slog.String("script", s.name))
		}

		return err
	}

	if a.Format == "yaml" {
		return p.FormatYAML(ctx, streams.Out, a.Indent)
	}

	return p.FormatJSON(ctx, streams.Out, a.Indent)
}
