package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/plume/cli/cmd"
	"github.com/ardnew/plume/pkg"
)

func TestRun_Commands(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	lib := t.TempDir()
	if err := os.WriteFile(filepath.Join(lib, "sum"+pkg.Ext), []byte("[1, 2] + [3]"), 0o600); err != nil {
		t.Fatal(err)
	}

	env := t.TempDir()
	if err := os.WriteFile(filepath.Join(env, "greet"+pkg.Ext), []byte(`"hi " + who`), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv(pkg.PathEnv, env)

	tests := []struct {
		name   string
		stdin  string
		args   []string
		want   string
		target error
	}{
		{"default command reads stdin", "2 * 21", nil, "42\n", nil},
		{"explicit run", "2 ** 10", []string{"run", "-"}, "1024\n", nil},
		{"include directory", "", []string{"-I", lib, "sum"}, "[1, 2, 3]\n", nil},
		{"search path env", "", []string{"run", "-D", `who="there"`, "greet"}, "hi there\n", nil},
		{"json output", "[true]", []string{"run", "-o", "json"}, "[true]\n", nil},
		{"version", "", []string{"version"}, pkg.Name + " " + pkg.Version() + "\n", nil},
		{"reported", "missing", []string{"run"}, "", cmd.ErrReported},
		{"not found", "", []string{"run", "nothing-here"}, "", cmd.ErrScriptNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, errOut bytes.Buffer

			ctx := cmd.WithStreams(t.Context(), cmd.Streams{
				In:  strings.NewReader(tt.stdin),
				Out: &out,
				Err: &errOut,
			})

			exited := false

			err := Run(ctx, func(int) { exited = true }, tt.args...)
			if tt.target != nil {
				if !errors.Is(err, tt.target) {
					t.Fatalf("expected %v, got %v", tt.target, err)
				}

				return
			}

			if err != nil || exited {
				t.Fatalf("Run(%q) failed: %v (exited %v)\n%s", tt.args, err, exited, errOut.String())
			}

			if out.String() != tt.want {
				t.Errorf("Run(%q) = %q, want %q", tt.args, out.String(), tt.want)
			}
		})
	}
}

func TestRun_ConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	if err := mkdirAllRequired(); err != nil {
		t.Fatal(err)
	}

	conf := configPath(baseConfig + ".yaml")
	if err := os.WriteFile(conf, []byte("run:\n  output: json\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() { os.Remove(conf) })

	var out bytes.Buffer

	ctx := cmd.WithStreams(t.Context(), cmd.Streams{
		In:  strings.NewReader(`"x"`),
		Out: &out,
		Err: &bytes.Buffer{},
	})

	if err := Run(ctx, func(int) {}, "run"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if out.String() != "\"x\"\n" {
		t.Errorf("expected JSON output from config, got %q", out.String())
	}
}

func TestSearchPath(t *testing.T) {
	sep := string(os.PathListSeparator)
	t.Setenv(pkg.PathEnv, "b"+sep+sep+"c")

	if got, want := searchPath([]string{"a"}), "a"+sep+"b"+sep+"c"; got != want {
		t.Errorf("searchPath = %q, want %q", got, want)
	}
}
