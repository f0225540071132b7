// Package vm evaluates plume syntax trees.
//
// A [VM] walks the tree directly, keeping variables in a stack of scopes.
// Lookup searches from the innermost scope outward and stops at the first
// scope that begins a function body, so a function observes only its own
// parameters and locals. Names with the reserved prefix, which scripts can
// read but never bind, additionally resolve in the root scope.
package vm

import (
	"context"
	"slices"
	"strings"

	"github.com/ardnew/plume/lang/ast"
	"github.com/ardnew/plume/lang/intern"
	"github.com/ardnew/plume/lang/value"
)

// Sink receives the rendering of every value passed to dbg. Implementations
// must not fail observably.
type Sink interface {
	Log(text string)
}

// SinkFunc adapts a function to a [Sink].
type SinkFunc func(text string)

// Log calls f(text).
func (f SinkFunc) Log(text string) { f(text) }

type discard struct{}

func (discard) Log(string) {}

type scopeKind uint8

const (
	normalScope scopeKind = iota
	funcScope
)

type scope struct {
	vars map[intern.Symbol]*value.Value
	kind scopeKind
}

// Global is a value bound in the root scope before evaluation begins.
type Global struct {
	Name  intern.Symbol
	Value value.Value
}

// VM is the state of one evaluation. It is not safe for concurrent use;
// independent VMs may run concurrently over the same tree and interner.
type VM struct {
	names   *intern.Interner
	scopes  []scope
	sink    Sink
	globals []Global
	ctx     context.Context
}

// Option configures a [VM].
type Option func(*VM)

// WithSink directs dbg output to s. By default it is discarded.
func WithSink(s Sink) Option {
	return func(vm *VM) {
		if s != nil {
			vm.sink = s
		}
	}
}

// WithGlobals binds gs in the root scope, after the type bindings.
func WithGlobals(gs ...Global) Option {
	return func(vm *VM) { vm.globals = append(vm.globals, gs...) }
}

// New returns a VM resolving identifier names through names. The VM never
// interns new names, so names may be shared with concurrent evaluations.
func New(names *intern.Interner, opts ...Option) *VM {
	vm := &VM{names: names, sink: discard{}}
	for _, opt := range opts {
		opt(vm)
	}

	return vm
}

// Run evaluates root as a program and returns its value. The returned error,
// if any, is one of the runtime error types of this package.
func (vm *VM) Run(root *ast.Block) (value.Value, error) {
	return vm.RunContext(context.Background(), root)
}

// RunContext is like [VM.Run] but abandons evaluation with the error of ctx
// once ctx is done. Cancellation is observed on each loop iteration and
// function call.
func (vm *VM) RunContext(ctx context.Context, root *ast.Block) (value.Value, error) {
	vm.Enter()
	defer vm.Exit()

	return vm.ExecContext(ctx, root)
}

// Enter pushes the root scope, binding each type under its reserved name
// and then every global. Enter must be balanced by [VM.Exit].
func (vm *VM) Enter() {
	vm.push(funcScope)

	for _, t := range value.Types() {
		if sym, ok := vm.names.Lookup(t.Binding()); ok {
			vm.bind(sym, value.TypeValue(t))
		}
	}

	for _, g := range vm.globals {
		vm.bind(g.Name, g.Value.Share())
	}
}

// Exit pops the root scope.
func (vm *VM) Exit() { vm.pop() }

// Exec evaluates the statements of b in the current scope and returns the
// value of its trailing statement, or null. Declarations made by b remain
// visible to later calls, which lets a host evaluate a program piecewise.
func (vm *VM) Exec(b *ast.Block) (value.Value, error) {
	for _, s := range b.Normal {
		v, err := vm.eval(s)
		if err != nil {
			return value.Null(), err
		}

		v.Release()
	}

	if b.Ret == nil {
		return value.Null(), nil
	}

	return vm.eval(b.Ret)
}

// ExecContext is like [VM.Exec] but observes cancellation of ctx as
// [VM.RunContext] does.
func (vm *VM) ExecContext(ctx context.Context, b *ast.Block) (value.Value, error) {
	prev := vm.ctx
	vm.ctx = ctx

	defer func() { vm.ctx = prev }()

	return vm.Exec(b)
}

// Binding describes a variable visible in the root scope.
type Binding struct {
	Name  string
	Value value.Value
}

// Bindings returns the variables of the root scope sorted by name, if a
// root scope is active.
// The values are borrowed and must not be retained across evaluations.
func (vm *VM) Bindings() []Binding {
	if len(vm.scopes) == 0 {
		return nil
	}

	out := make([]Binding, 0, len(vm.scopes[0].vars))
	for sym, v := range vm.scopes[0].vars {
		out = append(out, Binding{Name: vm.names.Resolve(sym), Value: *v})
	}

	slices.SortFunc(out, func(a, b Binding) int { return strings.Compare(a.Name, b.Name) })

	return out
}

// Depth returns the number of active scopes.
func (vm *VM) Depth() int { return len(vm.scopes) }

func (vm *VM) push(kind scopeKind) {
	vm.scopes = append(vm.scopes, scope{vars: make(map[intern.Symbol]*value.Value), kind: kind})
}

func (vm *VM) pop() {
	top := vm.scopes[len(vm.scopes)-1]
	vm.scopes = vm.scopes[:len(vm.scopes)-1]

	for _, v := range top.vars {
		v.Release()
	}
}

// bind stores v, which the scope takes ownership of, under sym in the
// innermost scope.
func (vm *VM) bind(sym intern.Symbol, v value.Value) {
	vars := vm.scopes[len(vm.scopes)-1].vars
	if old, ok := vars[sym]; ok {
		old.Release()
		*old = v

		return
	}

	vars[sym] = &v
}

// interrupted returns the error of the active context, if it is done.
func (vm *VM) interrupted() error {
	if vm.ctx == nil {
		return nil
	}

	return vm.ctx.Err()
}

// lookup returns the storage bound to sym.
func (vm *VM) lookup(sym intern.Symbol) (*value.Value, bool) {
	for i := len(vm.scopes) - 1; i >= 0; i-- {
		if v, ok := vm.scopes[i].vars[sym]; ok {
			return v, true
		}

		if vm.scopes[i].kind == funcScope {
			break
		}
	}

	if len(vm.scopes) > 0 && vm.names.Reserved(sym) {
		v, ok := vm.scopes[0].vars[sym]

		return v, ok
	}

	return nil, false
}
