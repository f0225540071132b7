package pkg

import (
	"os"
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	if Name != "plume" {
		t.Errorf("expected Name to be %q, got %q", "plume", Name)
	}
}

func TestVersion(t *testing.T) {
	buf, err := os.ReadFile("VERSION")
	if err != nil {
		t.Fatalf("failed to read VERSION file: %v", err)
	}

	if got, want := Version(), strings.TrimSpace(string(buf)); got != want {
		t.Errorf("expected Version() %q, got %q", want, got)
	}

	if strings.Count(Version(), ".") != 2 {
		t.Errorf("expected a semantic version, got %q", Version())
	}
}
