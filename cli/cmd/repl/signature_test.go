package repl

import (
	"slices"
	"strings"
	"testing"
)

func TestDetectFunctionCall(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		cursor     int
		wantName   string
		wantIndex  int
		wantInCall bool
	}{
		{"no call", "greeting", 8, "", 0, false},
		{"open paren", "add(", 4, "add", 0, true},
		{"first arg", "add(1", 5, "add", 0, true},
		{"second arg", "add(1,", 6, "add", 1, true},
		{"second arg value", "add(1, 2", 8, "add", 1, true},
		{"closed call", "add(1, 2)", 9, "", 0, false},
		{"nested call inner", "add(mul(2, ", 11, "mul", 1, true},
		{"nested call outer", "add(mul(2, 3), ", 15, "add", 1, true},
		{"array arg commas", "add([1, 2], ", 12, "add", 1, true},
		{"inside array", "[1, ", 4, "", 0, false},
		{"arrow params", "(a, ", 4, "", 0, false},
		{"type binding", "$Number(", 8, "$Number", 0, true},
		{"after operator", "1 + f(x", 7, "f", 0, true},
		{"cursor mid input", "add(1, 2)", 5, "add", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectFunctionCall(tt.input, tt.cursor)
			if got.name != tt.wantName || got.argIndex != tt.wantIndex ||
				got.inCall != tt.wantInCall {
				t.Errorf("detectFunctionCall(%q, %d) = %+v, want {%s %d %v}",
					tt.input, tt.cursor, got, tt.wantName, tt.wantIndex, tt.wantInCall)
			}
		})
	}
}

func TestSignature(t *testing.T) {
	s := newTestSession(t)
	eval(t, s, "var add = (left, right) => left + right; var n = 3;")

	tests := []struct {
		name   string
		want   []string
		wantOK bool
	}{
		{"add", []string{"left", "right"}, true},
		{"$String", []string{"v"}, true},
		{"n", nil, false},
		{"missing", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := signature(s, tt.name)
			if ok != tt.wantOK || !slices.Equal(got, tt.want) {
				t.Errorf("signature(%q) = (%v, %v), want (%v, %v)",
					tt.name, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestRenderSignatureHint(t *testing.T) {
	got := renderSignatureHint("add", []string{"left", "right"}, 1)

	for _, want := range []string{"add", "(", "left", ", ", "right", ")"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in hint %q", want, got)
		}
	}

	if got := renderSignatureHint("f", nil, 0); !strings.Contains(got, "()") {
		t.Errorf("expected empty parameter list in %q", got)
	}
}

func BenchmarkDetectFunctionCall(b *testing.B) {
	input := "var r = add(mul(2, 3), [1, 2, 3], \"text\", "

	for b.Loop() {
		_ = detectFunctionCall(input, len(input))
	}
}

func BenchmarkSignature(b *testing.B) {
	s := newTestSession(b)
	eval(b, s, "var add = (left, right) => left + right;")

	for b.Loop() {
		_, _ = signature(s, "add")
	}
}
