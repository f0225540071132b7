// Package lang runs plume programs on behalf of a host application.
//
// Plume is a small expression language. Every construct is an expression,
// blocks yield their trailing expression, and functions are values that
// capture no environment:
//
//	var fact = (n) => if n < 2 { 1 } else { n * fact(n - 1) };
//	var xs = [1, 2, 3];
//	xs[0] += fact(5);
//	dbg xs;
//	$String(xs[0]) + "!"
//
// # Entry points
//
// [ParseString] and [ParseReader] produce an immutable [Program] that may be
// run any number of times, concurrently, with [Program.Run]. [Run] parses and
// evaluates in one step. Parsed programs are cached by source content.
//
// A [Session] keeps one root scope across inputs for interactive use.
//
// # Errors
//
// Syntax errors are wrapped in [ErrParse] and runtime errors in [ErrRun].
// Both carry a diagnostic that [report.From] converts to a [report.Report]
// with a title and spanned messages; rendering is left to the caller.
//
// # Host values
//
// [WithGlobal] binds host values in the root scope. [FromNative] and
// [ToNative] convert between Go values and plume values, and [Define]
// computes a binding from an expr-lang expression evaluated against the
// host environment.
//
// [report.From]: https://pkg.go.dev/github.com/ardnew/plume/lang/report#From
// [report.Report]: https://pkg.go.dev/github.com/ardnew/plume/lang/report#Report
package lang
