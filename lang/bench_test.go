package lang_test

import (
	"strings"
	"testing"

	"github.com/ardnew/plume/lang"
)

const benchSource = `
var fib = (n) => if n < 2 { n } else { fib(n - 1) + fib(n - 2) };
var xs = [0] * 32;
for var i = 0, i < 32, i += 1 { xs[i] = i * i };
fib(15) + xs[31]
`

func BenchmarkParseString(b *testing.B) {
	src := strings.Repeat(benchSource+";\n", 16) + "0"

	for b.Loop() {
		if _, err := lang.ParseString(b.Context(), src, lang.WithCache(false)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParseString_Cached(b *testing.B) {
	for b.Loop() {
		if _, err := lang.ParseString(b.Context(), benchSource); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkProgram_Run(b *testing.B) {
	p, err := lang.ParseString(b.Context(), benchSource)
	if err != nil {
		b.Fatal(err)
	}

	for b.Loop() {
		if _, err := p.Run(b.Context()); err != nil {
			b.Fatal(err)
		}
	}
}
