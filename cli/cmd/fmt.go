package cmd

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ardnew/plume/lang"
	"github.com/ardnew/plume/log"
)

// Fmt prints scripts in canonical form.
type Fmt struct {
	Diagnostics `embed:""`

	Write bool `help:"Rewrite files in place instead of printing them."                  short:"w"`
	List  bool `help:"List files whose formatting differs; fail if any." name:"list" short:"l"`

	Scripts []string `arg:"" default:"-" help:"Script files, names on the search path, or '-' for stdin." name:"script"`
}

// Run executes the fmt command.
func (f *Fmt) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	var unformatted []string

	for _, name := range f.Scripts {
		changed, err := f.format(ctx, name)
		if err != nil {
			return err
		}

		if changed {
			unformatted = append(unformatted, name)
		}
	}

	if f.List && len(unformatted) > 0 {
		return ErrNotFormatted.With(slog.Any("scripts", unformatted))
	}

	return nil
}

// format formats one script and reports whether its text changed.
func (f *Fmt) format(ctx context.Context, name string) (bool, error) {
	streams := streamsFrom(ctx)

	s, err := readScript(ctx, name)
	if err != nil {
		return false, err
	}

	p, err := lang.ParseString(ctx, s.text, lang.WithLogger(log.Default()))
	if err != nil {
		if f.print(ctx, streams.Err, s, err) {
			return false, ErrReported.Wrap(err).With(slog.String("script", s.name))
		}

		return false, err
	}

	var buf bytes.Buffer
	if err := p.Format(&buf); err != nil {
		return false, err
	}

	changed := buf.String() != s.text

	log.DebugContext(ctx, "script formatted",
		slog.String("script", s.name),
		slog.Bool("changed", changed),
	)

	switch {
	case f.List:
		if changed {
			_, err = fmt.Fprintln(streams.Out, s.name)
		}
	case f.Write && s.path != "":
		if changed {
			err = writeFile(s.path, buf.Bytes())
		}
	default:
		_, err = streams.Out.Write(buf.Bytes())
	}

	return changed, err
}

// writeFile replaces the contents of path, preserving its permissions.
func writeFile(path string, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return ErrWriteScript.Wrap(err).With(slog.String("file", path))
	}

	if err := os.WriteFile(path, data, info.Mode().Perm()); err != nil {
		return ErrWriteScript.Wrap(err).With(slog.String("file", path))
	}

	return nil
}
