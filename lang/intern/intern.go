// Package intern maps identifier text to small stable integer handles.
package intern

import "strings"

// Symbol is an interned identifier. Symbols from one [Interner] compare
// equal exactly when their text does.
type Symbol uint32

// ReservedPrefix marks identifiers that scripts may read but never declare
// or assign.
const ReservedPrefix = "$"

// Interner deduplicates identifier text.
//
// An Interner is not safe for concurrent mutation. Concurrent calls to
// [Interner.Lookup] and [Interner.Resolve] are safe once interning stops.
type Interner struct {
	ids   map[string]Symbol
	names []string
}

// New returns an interner pre-populated with names, in order.
func New(names ...string) *Interner {
	in := &Interner{ids: make(map[string]Symbol, len(names))}
	for _, name := range names {
		in.Intern(name)
	}

	return in
}

// Intern returns the symbol for name, allocating one on first use.
func (in *Interner) Intern(name string) Symbol {
	if sym, ok := in.ids[name]; ok {
		return sym
	}

	sym := Symbol(len(in.names))
	name = strings.Clone(name)
	in.ids[name] = sym
	in.names = append(in.names, name)

	return sym
}

// Lookup returns the symbol for name without allocating one.
func (in *Interner) Lookup(name string) (Symbol, bool) {
	sym, ok := in.ids[name]

	return sym, ok
}

// Resolve returns the text of sym. It panics if sym was not produced by in.
func (in *Interner) Resolve(sym Symbol) string { return in.names[sym] }

// Len returns the number of distinct symbols.
func (in *Interner) Len() int { return len(in.names) }

// Reserved reports whether sym names a reserved identifier.
func (in *Interner) Reserved(sym Symbol) bool {
	return IsReserved(in.names[sym])
}

// IsReserved reports whether name carries the reserved prefix.
func IsReserved(name string) bool {
	return strings.HasPrefix(name, ReservedPrefix)
}
