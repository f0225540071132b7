package value

import (
	"math"
	"strings"

	"github.com/ardnew/plume/lang/ast"
)

// Binary applies op to a and b. It reports false if op is not defined for
// the operand types. Equality is defined for every pair of types.
func Binary(op ast.BinaryOp, a, b Value) (Value, bool) {
	switch op {
	case ast.Add:
		return add(a, b)
	case ast.Sub:
		return arith(a, b, func(x, y float64) float64 { return x - y })
	case ast.Mul:
		return mul(a, b)
	case ast.Div:
		return arith(a, b, func(x, y float64) float64 { return x / y })
	case ast.Mod:
		return arith(a, b, remEuclid)
	case ast.Pow:
		return arith(a, b, math.Pow)
	case ast.Eq:
		return Bool(a.Equal(b)), true
	case ast.NotEq:
		return Bool(!a.Equal(b)), true
	case ast.Lt:
		return compare(a, b, func(x, y float64) bool { return x < y })
	case ast.Gt:
		return compare(a, b, func(x, y float64) bool { return x > y })
	case ast.LtEq:
		return compare(a, b, func(x, y float64) bool { return x <= y })
	case ast.GtEq:
		return compare(a, b, func(x, y float64) bool { return x >= y })
	default:
		return Null(), false
	}
}

// Unary applies op to v. It reports false if op is not defined for v.
func Unary(op ast.UnaryOp, v Value) (Value, bool) {
	if op == ast.Neg && v.typ == TypeNumber {
		return Number(-v.num), true
	}

	return Null(), false
}

func arith(a, b Value, fn func(x, y float64) float64) (Value, bool) {
	if a.typ != TypeNumber || b.typ != TypeNumber {
		return Null(), false
	}

	return Number(fn(a.num, b.num)), true
}

func compare(a, b Value, fn func(x, y float64) bool) (Value, bool) {
	if a.typ != TypeNumber || b.typ != TypeNumber {
		return Null(), false
	}

	return Bool(fn(a.num, b.num)), true
}

func add(a, b Value) (Value, bool) {
	switch {
	case a.typ != b.typ:
		return Null(), false
	case a.typ == TypeNumber:
		return Number(a.num + b.num), true
	case a.typ == TypeString:
		return String(a.str + b.str), true
	case a.typ == TypeArray:
		elems := make([]Value, 0, len(a.arr.elems)+len(b.arr.elems))
		for _, e := range a.arr.elems {
			elems = append(elems, e.Share())
		}

		for _, e := range b.arr.elems {
			elems = append(elems, e.Share())
		}

		return Array(elems...), true
	default:
		return Null(), false
	}
}

func mul(a, b Value) (Value, bool) {
	if a.typ == TypeNumber && b.typ == TypeNumber {
		return Number(a.num * b.num), true
	}

	if b.typ == TypeNumber {
		a, b = b, a
	}

	if a.typ != TypeNumber {
		return Null(), false
	}

	n := repeatCount(a.num)

	switch b.typ {
	case TypeString:
		if !repeatFits(len(b.str), n) {
			return Null(), false
		}

		return String(strings.Repeat(b.str, n)), true
	case TypeArray:
		if len(b.arr.elems) == 0 {
			n = 0
		}

		if !repeatFits(len(b.arr.elems), n) {
			return Null(), false
		}

		elems := make([]Value, 0, len(b.arr.elems)*n)
		for range n {
			for _, e := range b.arr.elems {
				elems = append(elems, e.Share())
			}
		}

		return Array(elems...), true
	default:
		return Null(), false
	}
}

// MaxRepeatLen is the longest string, in bytes, or array, in elements, that
// repetition with `*` may produce.
const MaxRepeatLen = 1 << 28

// repeatFits reports whether size repeated n times stays within
// [MaxRepeatLen].
func repeatFits(size, n int) bool {
	return size == 0 || n <= MaxRepeatLen/size
}

// repeatCount truncates n toward zero and clamps it at zero.
func repeatCount(n float64) int {
	switch {
	case math.IsNaN(n) || n <= 0:
		return 0
	case n >= math.MaxInt:
		return math.MaxInt
	default:
		return int(n)
	}
}

// remEuclid returns the least non-negative remainder of x / y.
func remEuclid(x, y float64) float64 {
	r := math.Mod(x, y)
	if r < 0 {
		r += math.Abs(y)
	}

	return r
}
