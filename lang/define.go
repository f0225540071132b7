package lang

import (
	"context"
	"log/slog"

	"github.com/expr-lang/expr"

	"github.com/ardnew/plume/lang/value"
)

// Define evaluates the expr-lang expression source against the host
// environment and returns an option binding its result under name.
//
// The host environment provides target, platform, hostname, cwd(), env(key),
// file.exists, file.isDir, path.abs, path.cat, path.rel, mung.prefix and
// mung.prefixif. The result must be convertible with [FromNative].
func Define(ctx context.Context, name, source string) (Option, error) {
	if err := checkGlobalName(name); err != nil {
		return nil, err
	}

	v, err := Evaluate(ctx, source)
	if err != nil {
		return nil, ErrDefine.Wrap(err).With(slog.String("name", name))
	}

	return WithGlobal(name, v), nil
}

// Evaluate compiles and runs the expr-lang expression source against the
// host environment and converts the result to a plume value.
func Evaluate(ctx context.Context, source string) (value.Value, error) {
	env := makeHostEnv()

	program, err := expr.Compile(source, expr.Env(env))
	if err != nil {
		return value.Null(), ErrDefineCompile.Wrap(err).
			With(slog.String("source", source))
	}

	if err := ctx.Err(); err != nil {
		return value.Null(), err
	}

	out, err := expr.Run(program, env)
	if err != nil {
		return value.Null(), ErrDefineEvaluate.Wrap(err).
			With(slog.String("source", source))
	}

	v, err := FromNative(out)
	if err != nil {
		return value.Null(), ErrDefineEvaluate.Wrap(err).
			With(slog.String("source", source))
	}

	return v, nil
}
