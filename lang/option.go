package lang

import (
	"github.com/ardnew/plume/lang/value"
	"github.com/ardnew/plume/lang/vm"
	"github.com/ardnew/plume/log"
)

// Option configures parsing, evaluation or a [Session].
type Option func(*options)

type options struct {
	logger  log.Logger
	sink    vm.Sink
	globals []global
	cache   bool
}

// global is a host value bound in the root scope under name.
type global struct {
	name  string
	value value.Value
}

// DefaultCache reports whether parse results are cached when no
// [WithCache] option is given.
const DefaultCache = true

func makeOptions(opts ...Option) options {
	o := options{cache: DefaultCache}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithSink directs the output of dbg expressions to s. By default it is
// discarded.
func WithSink(s vm.Sink) Option {
	return func(o *options) { o.sink = s }
}

// WithGlobal binds v under name in the root scope of every evaluation.
// Later bindings of the same name replace earlier ones.
func WithGlobal(name string, v value.Value) Option {
	return func(o *options) { o.globals = append(o.globals, global{name, v}) }
}

// WithCache controls whether [ParseString] and [ParseReader] share programs
// parsed from identical source.
func WithCache(enable bool) Option {
	return func(o *options) { o.cache = enable }
}
