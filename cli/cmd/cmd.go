package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/ardnew/plume/lang"
	"github.com/ardnew/plume/pkg"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	searchPathKey struct{}
	streamsKey    struct{}
)

// Streams are the standard streams used by a command.
type Streams struct {
	In       io.Reader
	Out, Err io.Writer
}

// WithStreams returns a new context.Context whose commands read and write s
// instead of the process's standard streams.
func WithStreams(ctx context.Context, s Streams) context.Context {
	return context.WithValue(ctx, streamsKey{}, s)
}

func streamsFrom(ctx context.Context) Streams {
	s, _ := ctx.Value(streamsKey{}).(Streams)
	if s.In == nil {
		s.In = os.Stdin
	}

	if s.Out == nil {
		s.Out = os.Stdout
	}

	if s.Err == nil {
		s.Err = os.Stderr
	}

	return s
}

// WithSearchPath returns a new context.Context containing the list of
// directories, joined by the platform's list separator, searched for scripts
// named on the command line.
func WithSearchPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, searchPathKey{}, path)
}

func searchPathFrom(ctx context.Context) []string {
	path, _ := ctx.Value(searchPathKey{}).(string)
	if path == "" {
		return nil
	}

	return filepath.SplitList(path)
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// script is the text of one source file.
type script struct {
	name string
	path string
	text string
}

// readScript reads the script called name. A name of "-" reads stdin. A
// name that is not an existing file is looked up in each directory of the
// search path, with and without the script extension.
func readScript(ctx context.Context, name string) (script, error) {
	if name == stdinSource {
		text, err := lang.ReadSource(ctx, streamsFrom(ctx).In)
		if err != nil {
			return script{}, ErrReadScript.Wrap(err).With(slog.String("script", name))
		}

		return script{name: name, text: text}, nil
	}

	path, err := findScript(ctx, name)
	if err != nil {
		return script{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return script{}, ErrReadScript.Wrap(err).With(slog.String("script", path))
	}
	defer f.Close()

	text, err := lang.ReadSource(ctx, f)
	if err != nil {
		return script{}, ErrReadScript.Wrap(err).With(slog.String("script", path))
	}

	return script{name: name, path: path, text: text}, nil
}

// findScript resolves name to the path of a regular file.
func findScript(ctx context.Context, name string) (string, error) {
	if isFile(name) {
		return name, nil
	}

	var dirs []string
	if !filepath.IsAbs(name) {
		dirs = searchPathFrom(ctx)
	}

	for _, dir := range dirs {
		for _, cand := range []string{name, name + pkg.Ext} {
			path := filepath.Join(dir, cand)
			if isFile(path) {
				return path, nil
			}
		}
	}

	return "", ErrScriptNotFound.With(
		slog.String("script", name),
		slog.Any("search_path", dirs),
	)
}

func isFile(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.Mode().IsRegular()
}
