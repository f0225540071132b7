package vm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/plume/lang/intern"
	"github.com/ardnew/plume/lang/parser"
	"github.com/ardnew/plume/lang/report"
	"github.com/ardnew/plume/lang/span"
	"github.com/ardnew/plume/lang/value"
)

func run(t *testing.T, src string, opts ...Option) (value.Value, error) {
	t.Helper()

	names := intern.New()

	root, err := parser.Parse(src, names)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	return New(names, opts...).Run(root)
}

func mustRun(t *testing.T, src string) value.Value {
	t.Helper()

	v, err := run(t, src)
	if err != nil {
		t.Fatalf("run error in %q: %v", src, err)
	}

	return v
}

func TestEval(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"empty", "", "null"},
		{"arithmetic", "1 + 2 * 3 - 4 / 8", "6.5"},
		{"pow_right_assoc", "2 ** 3 ** 2", "512"},
		{"neg_pow", "-2 ** 2", "-4"},
		{"mod", "-7 % 3", "2"},
		{"equality", "1 + 1 == 2", "true"},
		{"concat", `"ab" + "cd" == "abcd"`, "true"},
		{"array_concat", "[1] + [2] == [1, 2]", "true"},
		{"repeat", `"ab" * 3`, "ababab"},
		{"repeat_clamped", `"ab" * -3`, ""},
		{"mismatched_equality", `1 == "1"`, "false"},
		{"block_all_terminated", "{ 1; 2; }", "null"},
		{"block_trailing", "{ 1; 2 }", "2"},
		{"root_terminated", "1; 2;", "null"},
		{"declaration_value", "var x = 1", "null"},
		{"assignment_value", "var x = 1; x = 2", "null"},
		{"shadow_in_block", "var x = 1; { var x = 2; x } + x", "3"},
		{"block_sees_outer", "var x = 1; { x = 5 }; x", "5"},
		{"block_locals_dropped", "var x = 1; { var x = 2; }; x", "1"},
		{"redeclare", "var x = 1; var x = x + 1; x", "2"},
		{"if_true", "if 1 < 2 \"yes\" else \"no\"", "yes"},
		{"if_false_no_else", "if false 1", "null"},
		{"while_value", "var i = 0; while i < 3 { i += 1; i * 10 }", "30"},
		{"while_never", "while false 1", "null"},
		{"for_value", "var s = 0; for var i = 0, i < 4, i += 1 { s += i; s }", "6"},
		{"for_scope", "var i = 10; for var i = 0, i < 2, i += 1 i; i", "10"},
		{"function", "var add = (a, b) => a + b; add(2, 3)", "5"},
		{"function_render", "(a, b) => a", "<2-param func>"},
		{"recursion", "var f = (f, n) => if n <= 1 1 else n * f(f, n - 1); f(f, 5)", "120"},
		{"immediate_call", "((x) => x * 2)(21)", "42"},
		{"higher_order", "var twice = (f, x) => f(f(x)); twice((x) => x + 3, 1)", "7"},
		{"string_index", `"hello"[1]`, "e"},
		{"string_index_unicode", `"héllo"[1]`, "é"},
		{"array_index", "[10, 20, 30][2]", "30"},
		{"nested_assign", "var a = [[1, 2], [3]]; a[0][1] = 5; a", "[[1, 5], [3]]"},
		{"compound_index_assign", "var a = [1]; a[0] += 41; a[0]", "42"},
		{"self_insert", "var a = [1, 2]; a[0] = a; a", "[[1, 2], 2]"},
		{"convert_round_trip", "$Number($String(5)) == 5", "true"},
		{"convert_bool_invalid", `$Bool("nope")`, "null"},
		{"convert_number_invalid", `$Number("x1")`, "null"},
		{"convert_to_type", "$Type([]) == $Array", "true"},
		{"type_render", "$Type(1)", "<type 'number'>"},
		{"convert_number_to_bool", "$Bool(2)", "true"},
		{"convert_identity_array", "var a = [1]; var b = $Array(a); b[0] = 2; a", "[1]"},
		{"dbg_passthrough", "dbg 1 + 1", "2"},
		{"type_binding_inside_function", `var f = (s) => $Number(s) + 1; f("41")`, "42"},
		{"nan_inequality", "var n = 0 / 0; n == n", "false"},
		{"inf", "1 / 0", "inf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := mustRun(t, tt.src).String(); got != tt.want {
				t.Errorf("%s\n got: %s\nwant: %s", tt.src, got, tt.want)
			}
		})
	}
}

func TestCopyOnWriteIsolation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"shared_binding", "var a = [1, 2]; var b = a; b[0] = 9; a", "[1, 2]"},
		{"writer_sees_change", "var a = [1, 2]; var b = a; b[0] = 9; b", "[9, 2]"},
		{"original_writer", "var a = [1, 2]; var b = a; a[1] = 7; b", "[1, 2]"},
		{"nested", "var a = [[1]]; var b = a; b[0][0] = 2; a", "[[1]]"},
		{"element_alias", "var a = [[1]]; var e = a[0]; a[0][0] = 2; e", "[1]"},
		{"argument", "var a = [1]; var f = (x) => { x[0] = 5; x }; f(a); a", "[1]"},
		{"argument_result", "var a = [1]; var f = (x) => { x[0] = 5; x }; f(a)", "[5]"},
		{"repeat_elements", "var a = [[0]] * 2; a[0][0] = 1; a", "[[1], [0]]"},
		{"concat_elements", "var x = [0]; var a = [x] + [x]; a[1][0] = 3; [a, x]", "[[[0], [3]], [0]]"},
		{"after_release", "var a = [1]; { var b = a; }; a[0] = 2; a", "[2]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := mustRun(t, tt.src).String(); got != tt.want {
				t.Errorf("%s\n got: %s\nwant: %s", tt.src, got, tt.want)
			}
		})
	}
}

func TestRuntimeErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		src     string
		title   string
		message string
		at      span.Span
	}{
		{
			"invalid_operands", `1 + "x"`,
			"Invalid operands", "Cannot apply `+` to number and string", span.Make(0, 7),
		},
		{
			"invalid_compound_operands", `var a = 1; a -= "x"`,
			"Invalid operands", "Cannot apply `-` to number and string", span.Make(11, 19),
		},
		{
			"invalid_unary", "-true",
			"Invalid unary operand", "Cannot apply unary `-` to bool", span.Make(0, 5),
		},
		{
			"nonexistent", "y + 1",
			"Nonexistent variable", "Variable `y` does not exist", span.Make(0, 1),
		},
		{
			"nonexistent_assign", "z = 1",
			"Nonexistent variable", "Variable `z` does not exist", span.Make(0, 1),
		},
		{
			"function_isolation", "var outer = 1; var f = () => outer; f()",
			"Nonexistent variable", "Variable `outer` does not exist", span.Make(29, 34),
		},
		{
			"repeat_too_long", `"a" * 10000000000000000000`,
			"Invalid operands", "Cannot apply `*` to string and number", span.Make(0, 26),
		},
		{
			"cannot_index", "true[0]",
			"Cannot index", "Cannot index bool with number", span.Make(0, 7),
		},
		{
			"cannot_index_with_string", `[1]["0"]`,
			"Cannot index", "Cannot index array with string", span.Make(0, 8),
		},
		{
			"fractional", `"abc"[1.5]`,
			"Fractional index", "Tried to index with non-integer 1.5", span.Make(0, 10),
		},
		{
			"out_of_bounds_string", `"abc"[3]`,
			"Index out of bounds", "Index 3 is out of bounds for string of length 3", span.Make(0, 8),
		},
		{
			"negative_index", "[1, 2][-1]",
			"Index out of bounds", "Index -1 is out of bounds for array of length 2", span.Make(0, 10),
		},
		{
			"out_of_bounds_assign", "var a = []; a[0] = 1",
			"Index out of bounds", "Index 0 is out of bounds for array of length 0", span.Make(12, 16),
		},
		{
			"string_index_assign", `var s = "abc"; s[0] = "x"`,
			"Invalid expression for assignment",
			"This expression is not a reference and cannot be assigned to", span.Make(15, 19),
		},
		{
			"non_boolean_if", "if 1 2",
			"Non boolean condition", "Expected bool for condition, found number", span.Make(3, 4),
		},
		{
			"non_boolean_while", `while "x" 1`,
			"Non boolean condition", "Expected bool for condition, found string", span.Make(6, 9),
		},
		{
			"non_boolean_for", "for var i = 0, i, i += 1 0",
			"Non boolean condition", "Expected bool for condition, found number", span.Make(15, 16),
		},
		{
			"cannot_call", "var x = 3; x(1)",
			"Cannot call value", "Cannot call a number", span.Make(11, 12),
		},
		{
			"arity", "var f = (a, b) => a; f(1)",
			"Incorrect argument count", "This call requires 2 arguments, but received 1", span.Make(21, 25),
		},
		{
			"type_arity", "$Number(1, 2)",
			"Incorrect argument count", "This call requires 1 arguments, but received 2", span.Make(0, 13),
		},
		{
			"cannot_convert", "$Array(1)",
			"Cannot convert", "Cannot convert number to array", span.Make(0, 9),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := run(t, tt.src)
			if err == nil {
				t.Fatalf("expected error for %q", tt.src)
			}

			rep, ok := report.From(err)
			if !ok {
				t.Fatalf("error %T does not carry a report", err)
			}

			if rep.Title != tt.title || rep.Kind != report.Error {
				t.Errorf("expected %s %q, got %s %q", report.Error, tt.title, rep.Kind, rep.Title)
			}

			if len(rep.Messages) != 1 {
				t.Fatalf("expected one message, got %d", len(rep.Messages))
			}

			if got := rep.Messages[0]; got.Text != tt.message || got.Span != tt.at {
				t.Errorf("expected %q at %v, got %q at %v", tt.message, tt.at, got.Text, got.Span)
			}
		})
	}
}

func TestArityFields(t *testing.T) {
	_, err := run(t, "var f = (a, b) => a; f(1)")

	var e *IncorrectArgAmountError
	if !errors.As(err, &e) {
		t.Fatalf("expected IncorrectArgAmountError, got %v", err)
	}

	if e.Correct != 2 || e.Bad != 1 {
		t.Errorf("expected correct=2 bad=1, got correct=%d bad=%d", e.Correct, e.Bad)
	}
}

func TestInvalidOperandsFields(t *testing.T) {
	_, err := run(t, `1 + "x"`)

	var e *InvalidOperandsError
	if !errors.As(err, &e) {
		t.Fatalf("expected InvalidOperandsError, got %v", err)
	}

	if e.LHS != value.TypeNumber || e.RHS != value.TypeString {
		t.Errorf("expected number and string, got %v and %v", e.LHS, e.RHS)
	}
}

func TestDbgSink(t *testing.T) {
	var lines []string

	v, err := run(t, `var a = dbg [1, "x"]; dbg a[1] + "y"; dbg 0.5`,
		WithSink(SinkFunc(func(s string) { lines = append(lines, s) })))
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	if v.String() != "0.5" {
		t.Errorf("expected dbg to pass its value through, got %v", v)
	}

	want := "[1, x]|xy|0.5"
	if got := strings.Join(lines, "|"); got != want {
		t.Errorf("expected sink lines %q, got %q", want, got)
	}
}

func TestGlobals(t *testing.T) {
	names := intern.New()

	root, err := parser.Parse("limit * 2", names)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	sym, _ := names.Lookup("limit")

	v, err := New(names, WithGlobals(Global{Name: sym, Value: value.Number(21)})).Run(root)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	if v.Num() != 42 {
		t.Errorf("expected 42, got %v", v)
	}
}

func TestScopesUnwindOnError(t *testing.T) {
	names := intern.New()
	m := New(names)

	m.Enter()
	defer m.Exit()

	for _, src := range []string{
		"var keep = 1;",
		"{ for var i = 0, true, i += 1 { var f = () => missing; f() } }",
	} {
		root, err := parser.Parse(src, names)
		if err != nil {
			t.Fatalf("parse error: %v", err)
		}

		_, _ = m.Exec(root)
	}

	if m.Depth() != 1 {
		t.Fatalf("expected only the root scope after error, got depth %d", m.Depth())
	}

	root, _ := parser.Parse("keep + 1", names)

	v, err := m.Exec(root)
	if err != nil || v.Num() != 2 {
		t.Errorf("expected root binding to survive, got %v (%v)", v, err)
	}

	bindings := m.Bindings()
	if len(bindings) != 1 || bindings[0].Name != "keep" {
		t.Errorf("unexpected bindings %+v", bindings)
	}
}

func TestRunContextCanceled(t *testing.T) {
	names := intern.New()

	for _, src := range []string{
		"while true {}",
		"var f = (f) => f(f); f(f)",
	} {
		root, err := parser.Parse(src, names)
		if err != nil {
			t.Fatalf("parse error: %v", err)
		}

		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		m := New(names)
		if _, err := m.RunContext(ctx, root); !errors.Is(err, context.Canceled) {
			t.Errorf("%s: expected context.Canceled, got %v", src, err)
		}

		if m.Depth() != 0 {
			t.Errorf("%s: expected scopes to unwind, got depth %d", src, m.Depth())
		}
	}
}

func TestConcurrentRunsShareTree(t *testing.T) {
	names := intern.New()

	root, err := parser.Parse("var a = [0]; for var i = 0, i < 100, i += 1 a[0] += i; a[0]", names)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	done := make(chan float64)
	for range 8 {
		go func() {
			v, _ := New(names).Run(root)
			done <- v.Num()
		}()
	}

	for range 8 {
		if got := <-done; got != 4950 {
			t.Errorf("expected 4950, got %v", got)
		}
	}
}

func BenchmarkLoop(b *testing.B) {
	names := intern.New()

	root, err := parser.Parse(
		"var a = [0] * 64; for var i = 0, i < 1000, i += 1 a[i % 64] += i; a[0]",
		names)
	if err != nil {
		b.Fatalf("parse error: %v", err)
	}

	for b.Loop() {
		if _, err := New(names).Run(root); err != nil {
			b.Fatalf("run error: %v", err)
		}
	}
}
