package ast

// BinaryOp is an infix operator.
type BinaryOp uint8

// Binary operators.
const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Mod
	Pow
	Eq
	NotEq
	Lt
	Gt
	LtEq
	GtEq
)

var binaryNames = [...]string{
	Add:   "+",
	Sub:   "-",
	Mul:   "*",
	Div:   "/",
	Mod:   "%",
	Pow:   "**",
	Eq:    "==",
	NotEq: "!=",
	Lt:    "<",
	Gt:    ">",
	LtEq:  "<=",
	GtEq:  ">=",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryNames) {
		return binaryNames[op]
	}

	return "?"
}

// UnaryOp is a prefix operator.
type UnaryOp uint8

// Unary operators.
const (
	Neg UnaryOp = iota
)

func (op UnaryOp) String() string {
	if op == Neg {
		return "-"
	}

	return "?"
}

// AssignOp is plain or compound assignment.
type AssignOp uint8

// Assignment operators.
const (
	Set AssignOp = iota
	AddSet
	SubSet
	MulSet
	DivSet
	ModSet
	PowSet
)

var assignNames = [...]string{
	Set:    "=",
	AddSet: "+=",
	SubSet: "-=",
	MulSet: "*=",
	DivSet: "/=",
	ModSet: "%=",
	PowSet: "**=",
}

func (op AssignOp) String() string {
	if int(op) < len(assignNames) {
		return assignNames[op]
	}

	return "?"
}

// Binary returns the operator a compound assignment applies. It reports
// false for plain assignment.
func (op AssignOp) Binary() (BinaryOp, bool) {
	switch op {
	case AddSet:
		return Add, true
	case SubSet:
		return Sub, true
	case MulSet:
		return Mul, true
	case DivSet:
		return Div, true
	case ModSet:
		return Mod, true
	case PowSet:
		return Pow, true
	default:
		return 0, false
	}
}

// Precedence levels, loosest first.
const (
	PrecEquality = iota
	PrecCompare
	PrecSum
	PrecProduct
	PrecUnary
	PrecPower
)

// Precedence returns the binding level of op and whether it groups to the
// right.
func (op BinaryOp) Precedence() (level int, rightAssoc bool) {
	switch op {
	case Eq, NotEq:
		return PrecEquality, false
	case Lt, Gt, LtEq, GtEq:
		return PrecCompare, false
	case Add, Sub:
		return PrecSum, false
	case Mul, Div, Mod:
		return PrecProduct, false
	case Pow:
		return PrecPower, true
	default:
		return PrecEquality, false
	}
}
