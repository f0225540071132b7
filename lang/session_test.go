package lang_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/ardnew/plume/lang"
	"github.com/ardnew/plume/lang/value"
)

func newSession(t *testing.T, opts ...lang.Option) *lang.Session {
	t.Helper()

	s, err := lang.NewSession(opts...)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}

	t.Cleanup(s.Close)

	return s
}

func eval(t *testing.T, s *lang.Session, src string) value.Value {
	t.Helper()

	v, err := s.Eval(t.Context(), src)
	if err != nil {
		t.Fatalf("Eval(%q) failed: %v", src, err)
	}

	return v
}

func TestSession_Eval_PersistsDeclarations(t *testing.T) {
	t.Parallel()

	s := newSession(t)

	eval(t, s, "var xs = [1, 2];")
	eval(t, s, "var push = (a, x) => a + [x];")
	eval(t, s, "xs = push(xs, 3);")

	if got := eval(t, s, "xs").String(); got != "[1, 2, 3]" {
		t.Errorf("expected [1, 2, 3], got %s", got)
	}
}

func TestSession_Eval_ErrorKeepsEarlierStatements(t *testing.T) {
	t.Parallel()

	s := newSession(t)

	_, err := s.Eval(t.Context(), "var a = 1; missing; var b = 2;")
	if !errors.Is(err, lang.ErrRun) {
		t.Fatalf("expected ErrRun, got %v", err)
	}

	if got := eval(t, s, "a").String(); got != "1" {
		t.Errorf("expected a = 1, got %s", got)
	}

	if _, err := s.Eval(t.Context(), "b"); !errors.Is(err, lang.ErrRun) {
		t.Errorf("expected b to be undeclared, got %v", err)
	}

	if _, err := s.Eval(t.Context(), "var = 1"); !errors.Is(err, lang.ErrParse) {
		t.Errorf("expected ErrParse, got %v", err)
	}
}

func TestSession_Bindings(t *testing.T) {
	t.Parallel()

	s := newSession(t, lang.WithGlobal("host", value.String("h")))
	eval(t, s, "var f = (left, right) => left;")

	var names []string
	for _, b := range s.Bindings() {
		names = append(names, b.Name)
	}

	for _, want := range []string{"$Number", "$Type", "f", "host"} {
		if !slices.Contains(names, want) {
			t.Errorf("expected binding %q in %v", want, names)
		}
	}

	if !slices.IsSorted(names) {
		t.Errorf("expected sorted bindings, got %v", names)
	}

	f := eval(t, s, "f")
	if got := s.Params(f); !slices.Equal(got, []string{"left", "right"}) {
		t.Errorf("expected params [left right], got %v", got)
	}

	if got := s.Params(value.Number(1)); got != nil {
		t.Errorf("expected no params for a number, got %v", got)
	}
}

func TestSession_Reset(t *testing.T) {
	t.Parallel()

	s := newSession(t, lang.WithGlobal("g", value.Number(7)))
	eval(t, s, "var x = 1; g = 8;")

	s.Reset()

	if _, err := s.Eval(t.Context(), "x"); !errors.Is(err, lang.ErrRun) {
		t.Errorf("expected x to be gone after Reset, got %v", err)
	}

	if got := eval(t, s, "g").String(); got != "7" {
		t.Errorf("expected g restored to 7, got %s", got)
	}
}

func TestSession_Close(t *testing.T) {
	t.Parallel()

	s := newSession(t)
	s.Close()
	s.Close()

	if _, err := s.Eval(t.Context(), "1"); !errors.Is(err, lang.ErrSessionClosed) {
		t.Errorf("expected ErrSessionClosed, got %v", err)
	}
}

func TestNewSession_InvalidGlobal(t *testing.T) {
	t.Parallel()

	_, err := lang.NewSession(lang.WithGlobal("$Mine", value.Null()))
	if !errors.Is(err, lang.ErrDefine) {
		t.Errorf("expected ErrDefine, got %v", err)
	}
}
