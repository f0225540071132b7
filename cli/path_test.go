package cli

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestUserDir(t *testing.T) {
	t.Run("lookup", func(t *testing.T) {
		dir := t.TempDir()
		got := userDir(func() (string, error) { return dir, nil }, ".config")

		if want := filepath.Join(dir, basePrefix()); got != want {
			t.Errorf("userDir() = %q, want %q", got, want)
		}
	})

	t.Run("fallback", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)

		got := userDir(func() (string, error) { return "", errors.New("unset") }, ".cache")

		if want := filepath.Join(home, ".cache", basePrefix()); got != want {
			t.Errorf("userDir() = %q, want %q", got, want)
		}
	})
}

func TestBasePrefix(t *testing.T) {
	if basePrefix() == "" {
		t.Error("basePrefix() is empty")
	}
}
