package lang

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// programCache maps a source hash to the *entry parsed from it.
var programCache sync.Map

// entry is the single parse of one source text, shared by every caller that
// requests the same source.
type entry struct {
	once   sync.Once
	source string
	prog   *Program
	err    error
}

// ParseReader reads all of r and parses it as [ParseString] does.
func ParseReader(ctx context.Context, r io.Reader, opts ...Option) (*Program, error) {
	src, err := ReadSource(ctx, r, opts...)
	if err != nil {
		return nil, err
	}

	return ParseString(ctx, src, opts...)
}

// ReadSource reads all of r as source text. Reading is buffered ahead
// asynchronously so a slow source overlaps with its consumer.
func ReadSource(ctx context.Context, r io.Reader, opts ...Option) (string, error) {
	o := makeOptions(opts...)

	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return "", ErrReadInput.Wrap(err)
	}

	o.logger.TraceContext(
		ctx,
		"read input",
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true),
	)

	return string(data), nil
}

// parseCached parses src once per distinct source text.
func parseCached(ctx context.Context, src string, o options) (*Program, error) {
	hash := xxh3.HashString(src)
	key := strconv.FormatUint(hash, 36)

	value, hit := programCache.LoadOrStore(key, &entry{source: src})
	e := value.(*entry)

	// A hash collision is resolved by parsing without the cache.
	if e.source != src {
		o.logger.TraceContext(ctx, "cache collision", slog.String("key", key))

		return parse(ctx, src, o)
	}

	o.logger.TraceContext(
		ctx,
		"cache lookup",
		slog.String("key", key),
		slog.Bool("cache_hit", hit),
	)

	e.once.Do(func() {
		e.prog, e.err = parse(ctx, src, o)
	})

	return e.prog, e.err
}

// ClearCache removes all cached programs.
// This is primarily useful for testing or when memory needs to be reclaimed.
func ClearCache() {
	programCache.Clear()
}

// CacheLen returns the number of cached source texts.
func CacheLen() int {
	var n int

	programCache.Range(func(any, any) bool {
		n++

		return true
	})

	return n
}
