package vm

import (
	"fmt"
	"log/slog"

	"github.com/ardnew/plume/lang/ast"
	"github.com/ardnew/plume/lang/report"
	"github.com/ardnew/plume/lang/span"
	"github.com/ardnew/plume/lang/value"
)

type (
	// InvalidOperandsError reports a binary operator applied to operand
	// types it is not defined for.
	InvalidOperandsError struct {
		Op       ast.BinaryOp
		LHS, RHS value.Type
		At       span.Span
	}

	// InvalidUnaryOperandError reports a prefix operator applied to an
	// operand type it is not defined for.
	InvalidUnaryOperandError struct {
		Op      ast.UnaryOp
		Operand value.Type
		At      span.Span
	}

	// NonexistentVariableError reports a reference to an unbound name.
	NonexistentVariableError struct {
		Name string
		At   span.Span
	}

	// CannotIndexError reports indexing of a base type by an index type
	// that has no meaning.
	CannotIndexError struct {
		Base, Index value.Type
		At          span.Span
	}

	// FractionalIndexError reports an index that is not a whole number.
	FractionalIndexError struct {
		Index float64
		At    span.Span
	}

	// IndexOutOfBoundsError reports an index outside of a string or array.
	IndexOutOfBoundsError struct {
		Index  int64
		Base   value.Type
		Length int
		At     span.Span
	}

	// InvalidAssignError reports an index assignment target that does not
	// refer to storage, such as a character of a string.
	InvalidAssignError struct {
		At span.Span
	}

	// NonBooleanConditionError reports a condition that evaluated to a
	// non-boolean value.
	NonBooleanConditionError struct {
		Found value.Type
		At    span.Span
	}

	// CannotCallError reports a call of a value that is neither a function
	// nor a type.
	CannotCallError struct {
		Callee value.Type
		At     span.Span
	}

	// IncorrectArgAmountError reports a call with the wrong number of
	// arguments.
	IncorrectArgAmountError struct {
		Correct, Bad int
		At           span.Span
	}

	// CannotConvertError reports a conversion between types that have no
	// conversion.
	CannotConvertError struct {
		From, To value.Type
		At       span.Span
	}
)

func (e *InvalidOperandsError) Report() report.Report {
	return report.New("Invalid operands", report.At(e.At,
		fmt.Sprintf("Cannot apply `%s` to %s and %s", e.Op, e.LHS, e.RHS)))
}

func (e *InvalidUnaryOperandError) Report() report.Report {
	return report.New("Invalid unary operand", report.At(e.At,
		fmt.Sprintf("Cannot apply unary `%s` to %s", e.Op, e.Operand)))
}

func (e *NonexistentVariableError) Report() report.Report {
	return report.New("Nonexistent variable", report.At(e.At,
		fmt.Sprintf("Variable `%s` does not exist", e.Name)))
}

func (e *CannotIndexError) Report() report.Report {
	return report.New("Cannot index", report.At(e.At,
		fmt.Sprintf("Cannot index %s with %s", e.Base, e.Index)))
}

func (e *FractionalIndexError) Report() report.Report {
	return report.New("Fractional index", report.At(e.At,
		"Tried to index with non-integer "+value.FormatNumber(e.Index)))
}

func (e *IndexOutOfBoundsError) Report() report.Report {
	return report.New("Index out of bounds", report.At(e.At,
		fmt.Sprintf("Index %d is out of bounds for %s of length %d", e.Index, e.Base, e.Length)))
}

func (e *InvalidAssignError) Report() report.Report {
	return report.New("Invalid expression for assignment", report.At(e.At,
		"This expression is not a reference and cannot be assigned to"))
}

func (e *NonBooleanConditionError) Report() report.Report {
	return report.New("Non boolean condition", report.At(e.At,
		fmt.Sprintf("Expected bool for condition, found %s", e.Found)))
}

func (e *CannotCallError) Report() report.Report {
	return report.New("Cannot call value", report.At(e.At,
		fmt.Sprintf("Cannot call a %s", e.Callee)))
}

func (e *IncorrectArgAmountError) Report() report.Report {
	return report.New("Incorrect argument count", report.At(e.At,
		fmt.Sprintf("This call requires %d arguments, but received %d", e.Correct, e.Bad)))
}

func (e *CannotConvertError) Report() report.Report {
	return report.New("Cannot convert", report.At(e.At,
		fmt.Sprintf("Cannot convert %s to %s", e.From, e.To)))
}

func (e *InvalidOperandsError) Error() string     { return e.Report().String() }
func (e *InvalidUnaryOperandError) Error() string { return e.Report().String() }
func (e *NonexistentVariableError) Error() string { return e.Report().String() }
func (e *CannotIndexError) Error() string         { return e.Report().String() }
func (e *FractionalIndexError) Error() string     { return e.Report().String() }
func (e *IndexOutOfBoundsError) Error() string    { return e.Report().String() }
func (e *InvalidAssignError) Error() string       { return e.Report().String() }
func (e *NonBooleanConditionError) Error() string { return e.Report().String() }
func (e *CannotCallError) Error() string          { return e.Report().String() }
func (e *IncorrectArgAmountError) Error() string  { return e.Report().String() }
func (e *CannotConvertError) Error() string       { return e.Report().String() }

func (e *InvalidOperandsError) LogValue() slog.Value     { return e.Report().LogValue() }
func (e *InvalidUnaryOperandError) LogValue() slog.Value { return e.Report().LogValue() }
func (e *NonexistentVariableError) LogValue() slog.Value { return e.Report().LogValue() }
func (e *CannotIndexError) LogValue() slog.Value         { return e.Report().LogValue() }
func (e *FractionalIndexError) LogValue() slog.Value     { return e.Report().LogValue() }
func (e *IndexOutOfBoundsError) LogValue() slog.Value    { return e.Report().LogValue() }
func (e *InvalidAssignError) LogValue() slog.Value       { return e.Report().LogValue() }
func (e *NonBooleanConditionError) LogValue() slog.Value { return e.Report().LogValue() }
func (e *CannotCallError) LogValue() slog.Value          { return e.Report().LogValue() }
func (e *IncorrectArgAmountError) LogValue() slog.Value  { return e.Report().LogValue() }
func (e *CannotConvertError) LogValue() slog.Value       { return e.Report().LogValue() }
