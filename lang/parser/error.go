package parser

import (
	"fmt"
	"log/slog"

	"github.com/ardnew/plume/lang/report"
	"github.com/ardnew/plume/lang/span"
	"github.com/ardnew/plume/lang/token"
)

// ExpectedError reports a token other than the one the grammar requires.
type ExpectedError struct {
	Expected string
	Found    token.Kind
	At       span.Span
}

// SpecialIdentError reports a reserved identifier in a declaration or
// assignment position.
type SpecialIdentError struct {
	At span.Span
}

// InvalidAssignError reports an assignment whose left side is not a
// variable or an index chain rooted at one.
type InvalidAssignError struct {
	At span.Span
}

// NoMatchingParenError reports an opening parenthesis with no match before
// the end of input.
type NoMatchingParenError struct {
	At span.Span
}

func (e *ExpectedError) Report() report.Report {
	return report.New(
		fmt.Sprintf("Expected %s, found `%s`", e.Expected, e.Found),
		report.At(e.At, "Expected "+e.Expected),
	)
}

func (e *SpecialIdentError) Report() report.Report {
	return report.New(
		"Cannot declare or modify variables with special name",
		report.At(e.At, "Variable name used here"),
	)
}

func (e *InvalidAssignError) Report() report.Report {
	return report.New(
		"Invalid expression for assignment",
		report.At(e.At, "Cannot assign to this expression"),
	)
}

func (e *NoMatchingParenError) Report() report.Report {
	return report.New(
		"No matching parenthesis",
		report.At(e.At, "Cannot find a matching `)` for this `(`"),
	)
}

func (e *ExpectedError) Error() string        { return e.Report().String() }
func (e *SpecialIdentError) Error() string    { return e.Report().String() }
func (e *InvalidAssignError) Error() string   { return e.Report().String() }
func (e *NoMatchingParenError) Error() string { return e.Report().String() }

func (e *ExpectedError) LogValue() slog.Value        { return e.Report().LogValue() }
func (e *SpecialIdentError) LogValue() slog.Value    { return e.Report().LogValue() }
func (e *InvalidAssignError) LogValue() slog.Value   { return e.Report().LogValue() }
func (e *NoMatchingParenError) LogValue() slog.Value { return e.Report().LogValue() }
