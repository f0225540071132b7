package lang

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ardnew/plume/lang/intern"
	"github.com/ardnew/plume/lang/parser"
	"github.com/ardnew/plume/lang/value"
	"github.com/ardnew/plume/lang/vm"
	"github.com/ardnew/plume/log"
)

// Session evaluates successive inputs in one persistent root scope, so each
// input sees the declarations of those before it. Sessions back interactive
// use; a Session is safe for concurrent use but evaluates one input at a
// time.
type Session struct {
	mu      sync.Mutex
	names   *intern.Interner
	machine *vm.VM
	logger  log.Logger
	inputs  int
	closed  bool
}

// NewSession returns a session whose root scope holds the type bindings and
// the globals given with [WithGlobal]. [WithCache] has no effect.
func NewSession(opts ...Option) (*Session, error) {
	o := makeOptions(opts...)
	names := intern.New(reservedNames()...)

	globals := make([]vm.Global, 0, len(o.globals))
	for _, g := range o.globals {
		if err := checkGlobalName(g.name); err != nil {
			return nil, err
		}

		globals = append(globals, vm.Global{Name: names.Intern(g.name), Value: g.value})
	}

	s := &Session{
		names:   names,
		machine: vm.New(names, vm.WithSink(o.sink), vm.WithGlobals(globals...)),
		logger:  o.logger,
	}
	s.machine.Enter()

	return s, nil
}

// Eval parses and evaluates src in the session scope and returns the value
// of its trailing expression. The caller owns the result; releasing it once
// it is no longer needed spares a copy on the next write to a shared array.
// On error, declarations made before the failing statement remain.
func (s *Session) Eval(ctx context.Context, src string) (value.Value, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return value.Null(), ErrSessionClosed
	}

	s.inputs++
	logger := s.logger.With(slog.Int("input", s.inputs))

	root, err := parser.Parse(src, s.names)
	if err != nil {
		logger.TraceContext(ctx, "parse failed", slog.Any("error", err))

		return value.Null(), ErrParse.Wrap(err)
	}

	v, err := s.machine.ExecContext(ctx, root)
	if err != nil {
		logger.TraceContext(ctx, "run failed", slog.Any("error", err))

		return value.Null(), ErrRun.Wrap(err)
	}

	logger.TraceContext(ctx, "run complete", slog.String("type", v.Type().String()))

	return v, nil
}

// Bindings returns the variables of the session scope sorted by name,
// including the type bindings. The values are borrowed from the session and
// valid until the next call to Eval, Reset or Close.
func (s *Session) Bindings() []vm.Binding {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.machine.Bindings()
}

// Params returns the parameter names of a function value, or nil for any
// other value.
func (s *Session) Params(v value.Value) []string {
	if v.Type() != value.TypeFunction {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	params := v.Func().Params

	out := make([]string, len(params))
	for i, sym := range params {
		out[i] = s.names.Resolve(sym)
	}

	return out
}

// Reset discards every declaration, restoring the initial bindings.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	s.machine.Exit()
	s.machine.Enter()
	s.logger.Trace("session reset", slog.Int("inputs", s.inputs))
}

// Close releases the session scope. Later calls to Eval fail with
// [ErrSessionClosed].
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.machine.Exit()
		s.closed = true
	}
}
