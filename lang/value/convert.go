package value

import (
	"errors"
	"strconv"
	"strings"
)

// Convert returns v converted to type to. It reports false if no conversion
// exists. Conversions that exist but fail on the given input, such as
// parsing a non-numeric string, yield null.
func Convert(v Value, to Type) (Value, bool) {
	switch {
	case v.typ == to:
		return v, true
	case to == TypeString:
		return String(v.String()), true
	case to == TypeType:
		return TypeValue(v.typ), true
	}

	switch v.typ {
	case TypeString:
		switch to {
		case TypeNumber:
			if n, ok := ParseNumber(v.str); ok {
				return Number(n), true
			}

			return Null(), true
		case TypeBool:
			switch v.str {
			case "true":
				return Bool(true), true
			case "false":
				return Bool(false), true
			}

			return Null(), true
		}
	case TypeNumber:
		if to == TypeBool {
			return Bool(v.num != 0), true
		}
	case TypeBool:
		if to == TypeNumber {
			if v.Truth() {
				return Number(1), true
			}

			return Number(0), true
		}
	}

	return Null(), false
}

// ParseNumber parses decimal text with an optional sign, fraction, and
// exponent, or one of the special forms inf, infinity, and nan. Magnitudes
// beyond the float64 range saturate to infinity.
func ParseNumber(s string) (float64, bool) {
	if strings.ContainsAny(s, "xX_") {
		return 0, false
	}

	n, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}

	return n, true
}
