package lang_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ardnew/plume/lang"
	"github.com/ardnew/plume/lang/parser"
	"github.com/ardnew/plume/lang/report"
	"github.com/ardnew/plume/lang/span"
	"github.com/ardnew/plume/lang/value"
	"github.com/ardnew/plume/lang/vm"
)

func TestRun_ReturnsTrailingValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		want   string
	}{
		{name: "empty", source: "", want: "null"},
		{name: "statement only", source: "var x = 1;", want: "null"},
		{name: "arithmetic", source: "1 + 2 * 3", want: "7"},
		{name: "string", source: `"a" + "b"`, want: "ab"},
		{name: "array", source: "var a = [1, 2]; a[1] = 5; a", want: "[1, 5]"},
		{name: "function", source: "var sq = (x) => x * x; sq(9)", want: "81"},
		{name: "conversion", source: `$Number("12") + 1`, want: "13"},
		{
			name:   "conversion in function",
			source: "var f = (x) => $String(x); f(3) + \"!\"",
			want:   "3!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			v, err := lang.Run(t.Context(), tt.source)
			if err != nil {
				t.Fatalf("Run(%q) failed: %v", tt.source, err)
			}

			if got := v.String(); got != tt.want {
				t.Errorf("Run(%q) = %s, want %s", tt.source, got, tt.want)
			}
		})
	}
}

func TestParseString_SyntaxError_Report(t *testing.T) {
	t.Parallel()

	_, err := lang.ParseString(t.Context(), "var $x = 1", lang.WithCache(false))
	if !errors.Is(err, lang.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}

	var special *parser.SpecialIdentError
	if !errors.As(err, &special) {
		t.Fatalf("expected SpecialIdentError in chain of %v", err)
	}

	rep, ok := report.From(err)
	if !ok {
		t.Fatal("expected a report")
	}

	if rep.Title != "Cannot declare or modify variables with special name" {
		t.Errorf("unexpected title %q", rep.Title)
	}

	if at, _ := rep.Primary(); at != span.Make(4, 6) {
		t.Errorf("expected primary span 4..6, got %s", at)
	}
}

func TestRun_RuntimeError_Report(t *testing.T) {
	t.Parallel()

	_, err := lang.Run(t.Context(), "var x = 1;\ny + x")
	if !errors.Is(err, lang.ErrRun) {
		t.Fatalf("expected ErrRun, got %v", err)
	}

	var missing *vm.NonexistentVariableError
	if !errors.As(err, &missing) {
		t.Fatalf("expected NonexistentVariableError in chain of %v", err)
	}

	rep, ok := report.From(err)
	if !ok {
		t.Fatal("expected a report")
	}

	if rep.Title != "Nonexistent variable" {
		t.Errorf("unexpected title %q", rep.Title)
	}

	if len(rep.Messages) != 1 || rep.Messages[0].Span != span.Make(11, 12) {
		t.Errorf("unexpected messages %+v", rep.Messages)
	}
}

func TestProgram_Run_Globals(t *testing.T) {
	t.Parallel()

	p, err := lang.ParseString(t.Context(), "greeting + name")
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}

	v, err := p.Run(t.Context(),
		lang.WithGlobal("greeting", value.String("hello, ")),
		lang.WithGlobal("name", value.String("world")),
		lang.WithGlobal("unused", value.Number(1)),
	)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if got := v.String(); got != "hello, world" {
		t.Errorf("expected %q, got %q", "hello, world", got)
	}
}

func TestProgram_Run_InvalidGlobal(t *testing.T) {
	t.Parallel()

	p, err := lang.ParseString(t.Context(), "1")
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}

	for _, name := range []string{"", "two words", "1x", "$Number", "var", "a+b"} {
		t.Run(name, func(t *testing.T) {
			_, err := p.Run(t.Context(), lang.WithGlobal(name, value.Null()))
			if !errors.Is(err, lang.ErrDefine) {
				t.Errorf("WithGlobal(%q): expected ErrDefine, got %v", name, err)
			}
		})
	}
}

func TestRun_WithSink(t *testing.T) {
	t.Parallel()

	var lines []string

	sink := vm.SinkFunc(func(text string) { lines = append(lines, text) })

	v, err := lang.Run(t.Context(), `dbg "x" + dbg 1; 2`, lang.WithSink(sink))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if v.String() != "2" {
		t.Errorf("expected 2, got %s", v)
	}

	if got := strings.Join(lines, "|"); got != "1|x1" {
		t.Errorf("expected dbg lines 1|x1, got %s", got)
	}
}

func TestProgram_Run_Canceled(t *testing.T) {
	t.Parallel()

	p, err := lang.ParseString(t.Context(), "while true {}")
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
	defer cancel()

	_, err = p.Run(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}

	if !errors.Is(err, lang.ErrRun) {
		t.Errorf("expected ErrRun, got %v", err)
	}
}

func TestProgram_Run_Concurrent(t *testing.T) {
	t.Parallel()

	p, err := lang.ParseString(t.Context(), `
		var total = 0;
		for var i = 0, i < n, i += 1 { total += i };
		total
	`)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}

	var wg sync.WaitGroup

	for n := range 8 {
		wg.Go(func() {
			v, err := p.Run(t.Context(), lang.WithGlobal("n", value.Number(float64(n))))
			if err != nil {
				t.Errorf("Run(n=%d) failed: %v", n, err)

				return
			}

			if want := float64(n * (n - 1) / 2); v.Num() != want {
				t.Errorf("Run(n=%d) = %s, want %g", n, v, want)
			}
		})
	}

	wg.Wait()
}
