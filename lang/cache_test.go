package lang_test

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/ardnew/plume/lang"
)

// The cache is process-wide, so these tests use sources no other test
// parses and do not run in parallel with ClearCache.

func TestParseString_CacheSharesProgram(t *testing.T) {
	src := "var cached = 1; cached + 41"

	p1, err := lang.ParseString(t.Context(), src)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}

	p2, err := lang.ParseString(t.Context(), src)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}

	if p1 != p2 {
		t.Error("expected identical sources to share one program")
	}

	p3, err := lang.ParseString(t.Context(), src, lang.WithCache(false))
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}

	if p3 == p1 {
		t.Error("expected WithCache(false) to parse a new program")
	}

	if p3.Source != src {
		t.Errorf("expected source %q, got %q", src, p3.Source)
	}
}

func TestParseString_CacheKeepsErrors(t *testing.T) {
	src := "var cachedFailure ="

	_, err1 := lang.ParseString(t.Context(), src)
	_, err2 := lang.ParseString(t.Context(), src)

	if !errors.Is(err1, lang.ErrParse) || !errors.Is(err2, lang.ErrParse) {
		t.Fatalf("expected ErrParse twice, got %v and %v", err1, err2)
	}
}

func TestClearCache(t *testing.T) {
	if _, err := lang.ParseString(t.Context(), "var cleared = true"); err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}

	if lang.CacheLen() == 0 {
		t.Fatal("expected a cached program")
	}

	lang.ClearCache()

	if n := lang.CacheLen(); n != 0 {
		t.Errorf("expected empty cache, got %d entries", n)
	}
}

func TestParseReader(t *testing.T) {
	t.Parallel()

	r := iotest.OneByteReader(strings.NewReader("var r = [1, 2]; r[0] + r[1]"))

	p, err := lang.ParseReader(t.Context(), r, lang.WithCache(false))
	if err != nil {
		t.Fatalf("ParseReader failed: %v", err)
	}

	v, err := p.Run(t.Context())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if v.String() != "3" {
		t.Errorf("expected 3, got %s", v)
	}
}

func TestParseReader_ReadError(t *testing.T) {
	t.Parallel()

	r := iotest.ErrReader(errors.New("boom"))

	if _, err := lang.ParseReader(t.Context(), r); !errors.Is(err, lang.ErrReadInput) {
		t.Errorf("expected ErrReadInput, got %v", err)
	}
}
