package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/ardnew/plume/lang/span"
)

type testError struct{ at span.Span }

func (e testError) Error() string { return "test" }

func (e testError) Report() Report {
	return New("Test failure", At(e.at, "here"), At(span.Make(0, 1), "and here"))
}

func TestFromWrapped(t *testing.T) {
	err := fmt.Errorf("context: %w", testError{span.Make(3, 5)})

	r, ok := From(err)
	if !ok {
		t.Fatal("expected report from wrapped error")
	}

	if r.Title != "Test failure" || r.Kind != Error {
		t.Errorf("unexpected report header: %+v", r)
	}

	if s, ok := r.Primary(); !ok || s != span.Make(3, 5) {
		t.Errorf("expected primary span 3..5, got %v", s)
	}

	if _, ok := From(errors.New("plain")); ok {
		t.Error("expected no report from plain error")
	}
}

func TestString(t *testing.T) {
	if got := New("Cannot call value").String(); got != "Cannot call value" {
		t.Errorf("String() without messages = %q", got)
	}

	r := testError{span.Make(3, 5)}.Report()
	if got := r.String(); got != "Test failure: here" {
		t.Errorf("String() = %q, want %q", got, "Test failure: here")
	}
}

func TestJSON(t *testing.T) {
	r := New("Nonexistent variable", At(span.Make(1, 2), "Variable `x` does not exist"))

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}

	want := `{"title":"Nonexistent variable","kind":"error","messages":[{"span":{"start":1,"end":2},"text":"Variable ` + "`x`" + ` does not exist"}]}`
	if string(data) != want {
		t.Errorf("expected %s, got %s", want, data)
	}

	var back Report
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}

	if back.Kind != Error || len(back.Messages) != 1 {
		t.Errorf("unexpected decoded report: %+v", back)
	}
}

func TestLogValue(t *testing.T) {
	v := New("t", At(span.Make(0, 1), "m")).LogValue()
	if v.Kind() != slog.KindGroup {
		t.Fatalf("expected group value, got %v", v.Kind())
	}

	if n := len(v.Group()); n != 3 {
		t.Errorf("expected 3 attributes, got %d", n)
	}
}
