package cmd

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ardnew/plume/cli/cmd/repl"
	"github.com/ardnew/plume/lang"
	"github.com/ardnew/plume/log"
)

// Repl starts an interactive session.
type Repl struct {
	Globals `embed:""`

	Script string `arg:"" help:"Script evaluated before the first prompt." name:"script" optional:""`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)

	cacheDir, ok := ktx.Model.Vars()[CacheIdentifier]
	if !ok {
		panic("internal error: cache directory undefined")
	}

	opts, err := r.options(ctx)
	if err != nil {
		return err
	}

	logger := log.Default().With(slog.String("command", "repl"))

	cfg := repl.Config{
		CacheDir: cacheDir,
		Logger:   logger,
		Options:  append(opts, lang.WithLogger(logger)),
	}

	var prelude script

	if r.Script != "" {
		if prelude, err = readScript(ctx, r.Script); err != nil {
			return err
		}

		cfg.Prelude = prelude.text
	}

	err = repl.Run(ctx, cfg)
	if r.Script != "" && (errors.Is(err, lang.ErrParse) || errors.Is(err, lang.ErrRun)) {
		if (Diagnostics{}).print(ctx, streamsFrom(ctx).Err, prelude, err) {
			return ErrReported.Wrap(err).With(slog.String("script", prelude.name))
		}
	}

	return err
}
