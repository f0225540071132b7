package lang

import (
	"fmt"
	"log/slog"
	"math"
	"reflect"

	"github.com/ardnew/plume/lang/value"
)

// maxSafeInteger is the largest magnitude below which every integer is
// exactly representable as a float64.
const maxSafeInteger = 1 << 53

// ToNative converts v to a Go value suitable for encoding: nil, bool,
// string, int64 for whole numbers of safe magnitude, float64 for other finite
// numbers, and []any for arrays. Non-finite numbers, functions and types are
// converted to their rendering.
func ToNative(v value.Value) any {
	switch v.Type() {
	case value.TypeNull:
		return nil
	case value.TypeBool:
		return v.Truth()
	case value.TypeString:
		return v.Str()
	case value.TypeNumber:
		n := v.Num()

		switch {
		case math.IsNaN(n) || math.IsInf(n, 0):
			return v.String()
		case n == math.Trunc(n) && math.Abs(n) < maxSafeInteger:
			return int64(n)
		default:
			return n
		}
	case value.TypeArray:
		elems := v.Elems()

		out := make([]any, len(elems))
		for i, e := range elems {
			out[i] = ToNative(e)
		}

		return out
	default:
		return v.String()
	}
}

// FromNative converts a Go value to a plume value. It accepts nil, booleans,
// strings, every integer and floating-point kind, [value.Value], and slices
// or arrays of accepted values. Any other value, including maps, fails with
// [ErrInvalidValue].
func FromNative(x any) (value.Value, error) {
	switch t := x.(type) {
	case nil:
		return value.Null(), nil
	case value.Value:
		return t.Share(), nil
	case bool:
		return value.Bool(t), nil
	case string:
		return value.String(t), nil
	case float64:
		return value.Number(t), nil
	case int:
		return value.Number(float64(t)), nil
	case []any:
		return fromSlice(len(t), func(i int) any { return t[i] })
	}

	rv := reflect.ValueOf(x)

	switch rv.Kind() {
	case reflect.Bool:
		return value.Bool(rv.Bool()), nil
	case reflect.String:
		return value.String(rv.String()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return value.Number(float64(rv.Int())), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return value.Number(float64(rv.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return value.Number(rv.Float()), nil
	case reflect.Slice, reflect.Array:
		return fromSlice(rv.Len(), func(i int) any { return rv.Index(i).Interface() })
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return value.Null(), nil
		}

		return FromNative(rv.Elem().Interface())
	default:
		return value.Null(), ErrInvalidValue.With(
			slog.String("type", fmt.Sprintf("%T", x)),
		)
	}
}

func fromSlice(n int, at func(i int) any) (value.Value, error) {
	elems := make([]value.Value, 0, n)

	for i := range n {
		e, err := FromNative(at(i))
		if err != nil {
			for _, done := range elems {
				done.Release()
			}

			return value.Null(), err
		}

		elems = append(elems, e)
	}

	return value.Array(elems...), nil
}

// asValue reports whether x holds a plume value.
func asValue(x any) (value.Value, bool) {
	switch t := x.(type) {
	case value.Value:
		return t, true
	case *value.Value:
		if t != nil {
			return *t, true
		}
	}

	return value.Value{}, false
}
