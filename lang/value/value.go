// Package value implements the runtime values of plume programs and the
// operators defined over them.
//
// A [Value] is a small tagged union passed by value. Strings and function
// bodies are immutable and shared freely. Arrays share a reference-counted
// backing sequence that is copied before mutation whenever another holder
// can observe it; see [Value.Share], [Value.Release], and [Value.Elem].
package value

import (
	"math"
	"strconv"
	"strings"

	"github.com/ardnew/plume/lang/ast"
	"github.com/ardnew/plume/lang/intern"
)

// Type tags the variant held by a [Value]. Types are themselves values.
type Type uint8

// Value types. The zero Type is Null so that the zero Value is null.
const (
	TypeNull Type = iota
	TypeNumber
	TypeBool
	TypeString
	TypeArray
	TypeFunction
	TypeType
)

// Types returns every value type in declaration order.
func Types() []Type {
	return []Type{TypeNumber, TypeBool, TypeString, TypeArray, TypeNull, TypeFunction, TypeType}
}

var typeNames = [...]string{
	TypeNull:     "null",
	TypeNumber:   "number",
	TypeBool:     "bool",
	TypeString:   "string",
	TypeArray:    "array",
	TypeFunction: "function",
	TypeType:     "type",
}

// String returns the lowercase name of t used in diagnostics.
func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}

	return "Type(" + strconv.Itoa(int(t)) + ")"
}

// Binding returns the reserved identifier bound to t in the root scope,
// such as "$Number".
func (t Type) Binding() string {
	name := t.String()

	return intern.ReservedPrefix + strings.ToUpper(name[:1]) + name[1:]
}

// Function is a function value: a body and its parameters. It captures no
// environment.
type Function struct {
	Params []intern.Symbol
	Body   ast.Expr
}

// NewFunction returns a function value for the literal fn.
func NewFunction(fn *ast.Function) Value {
	params := make([]intern.Symbol, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = p.Name
	}

	return Value{typ: TypeFunction, fn: &Function{Params: params, Body: fn.Body}}
}

// Value is a runtime value.
type Value struct {
	typ Type
	num float64
	str string
	arr *array
	fn  *Function
	tag Type
}

// Null returns the null value.
func Null() Value { return Value{} }

// Number returns a numeric value.
func Number(n float64) Value { return Value{typ: TypeNumber, num: n} }

// Bool returns a boolean value.
func Bool(b bool) Value {
	v := Value{typ: TypeBool}
	if b {
		v.num = 1
	}

	return v
}

// String returns a string value.
func String(s string) Value { return Value{typ: TypeString, str: s} }

// TypeValue returns the value naming t.
func TypeValue(t Type) Value { return Value{typ: TypeType, tag: t} }

// Type returns the variant held by v.
func (v Value) Type() Type { return v.typ }

// Num returns the number held by v. It is zero for non-numbers.
func (v Value) Num() float64 {
	if v.typ != TypeNumber {
		return 0
	}

	return v.num
}

// Truth returns the boolean held by v. It is false for non-booleans.
func (v Value) Truth() bool { return v.typ == TypeBool && v.num != 0 }

// Str returns the string held by v. It is empty for non-strings.
func (v Value) Str() string { return v.str }

// Func returns the function held by v, or nil.
func (v Value) Func() *Function { return v.fn }

// Tag returns the type named by a Type value.
func (v Value) Tag() Type { return v.tag }

// Equal reports whether v and w are equal. Values of different types are
// never equal. Arrays compare element-wise, functions by identity, and
// numbers by IEEE comparison, so NaN is unequal to itself.
func (v Value) Equal(w Value) bool {
	if v.typ != w.typ {
		return false
	}

	switch v.typ {
	case TypeNull:
		return true
	case TypeNumber, TypeBool:
		return v.num == w.num
	case TypeString:
		return v.str == w.str
	case TypeFunction:
		return v.fn == w.fn
	case TypeType:
		return v.tag == w.tag
	case TypeArray:
		a, b := v.Elems(), w.Elems()
		if len(a) != len(b) {
			return false
		}

		for i := range a {
			if !a[i].Equal(b[i]) {
				return false
			}
		}

		return true
	default:
		return false
	}
}

// String returns the canonical textual rendering of v, as printed by dbg
// and produced by conversion to string.
func (v Value) String() string {
	var sb strings.Builder
	v.render(&sb)

	return sb.String()
}

func (v Value) render(sb *strings.Builder) {
	switch v.typ {
	case TypeNull:
		sb.WriteString("null")
	case TypeNumber:
		sb.WriteString(FormatNumber(v.num))
	case TypeBool:
		sb.WriteString(strconv.FormatBool(v.Truth()))
	case TypeString:
		sb.WriteString(v.str)
	case TypeArray:
		sb.WriteByte('[')

		for i, e := range v.Elems() {
			if i > 0 {
				sb.WriteString(", ")
			}

			e.render(sb)
		}

		sb.WriteByte(']')
	case TypeFunction:
		sb.WriteString("<" + strconv.Itoa(len(v.fn.Params)) + "-param func>")
	case TypeType:
		sb.WriteString("<type '" + v.tag.String() + "'>")
	}
}

// FormatNumber renders n in plain decimal notation without an exponent.
func FormatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "inf"
	case math.IsInf(n, -1):
		return "-inf"
	}

	return strconv.FormatFloat(n, 'f', -1, 64)
}
