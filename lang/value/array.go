package value

import "unicode/utf8"

// array is the backing store shared by array values. refs counts the
// bindings, elements, and in-flight values holding it. It may overcount,
// which costs an unneeded copy, but never undercounts.
type array struct {
	elems []Value
	refs  int
}

// Array returns an array value owning elems.
func Array(elems ...Value) Value {
	return Value{typ: TypeArray, arr: &array{elems: elems, refs: 1}}
}

// Share records a new holder of v and returns v. Holders of arrays must
// balance each Share with a [Value.Release].
func (v Value) Share() Value {
	if v.arr != nil {
		v.arr.refs++
	}

	return v
}

// Release drops a holder of v. When the last holder of an array goes away
// its elements are released in turn.
func (v Value) Release() {
	if v.arr == nil {
		return
	}

	if v.arr.refs--; v.arr.refs == 0 {
		for _, e := range v.arr.elems {
			e.Release()
		}
	}
}

// Shared reports whether the backing store of an array is visible to more
// than one holder.
func (v Value) Shared() bool { return v.arr != nil && v.arr.refs > 1 }

// Elems returns the elements of an array. The slice must not be modified;
// use [Value.Elem] to obtain a mutable element.
func (v Value) Elems() []Value {
	if v.arr == nil {
		return nil
	}

	return v.arr.elems
}

// Len returns the number of elements of an array or characters of a string.
func (v Value) Len() int {
	switch v.typ {
	case TypeArray:
		return len(v.arr.elems)
	case TypeString:
		return utf8.RuneCountInString(v.str)
	default:
		return 0
	}
}

// At returns element i of an array as a new holder.
func (v Value) At(i int) Value { return v.arr.elems[i].Share() }

// CharAt returns the i-th character of a string.
func (v Value) CharAt(i int) (string, bool) {
	for j := range v.str {
		if i == 0 {
			_, size := utf8.DecodeRuneInString(v.str[j:])

			return v.str[j : j+size], true
		}

		i--
	}

	return "", false
}

// unshare gives v a private backing store if its current one is shared.
func (v *Value) unshare() {
	if v.arr.refs <= 1 {
		return
	}

	elems := make([]Value, len(v.arr.elems))
	for i, e := range v.arr.elems {
		elems[i] = e.Share()
	}

	v.arr.refs--
	v.arr = &array{elems: elems, refs: 1}
}

// Elem returns a pointer to element i of the array held by v, copying the
// backing store first if another holder could observe the mutation.
func (v *Value) Elem(i int) *Value {
	v.unshare()

	return &v.arr.elems[i]
}

// Append adds e, which the array takes ownership of, to the end of the array
// held by v.
func (v *Value) Append(e Value) {
	v.unshare()
	v.arr.elems = append(v.arr.elems, e)
}
