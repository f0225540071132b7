package cli

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func TestResolveYAML_FlattensKeys(t *testing.T) {
	const doc = `
log:
  level: debug
  pretty: false
log_caller: true
include:
  - /opt/plume
  - ./lib
run-indent: 4
ratio: 0.5
`

	r, err := resolveYAML(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("resolveYAML failed: %v", err)
	}

	tests := []struct {
		flag string
		want any
	}{
		{"log-level", "debug"},
		{"log-pretty", false},
		{"log-caller", true},
		{"include", "/opt/plume,./lib"},
		{"run-indent", "4"},
		{"ratio", "0.5"},
		{"missing", nil},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			got, err := r.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: tt.flag}})
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}

			if got != tt.want {
				t.Errorf("Resolve(%q) = %#v, want %#v", tt.flag, got, tt.want)
			}
		})
	}
}

func TestResolveYAML_CommandFlags(t *testing.T) {
	r, err := resolveYAML(strings.NewReader("output: yaml\nrun:\n  output: json\n"))
	if err != nil {
		t.Fatalf("resolveYAML failed: %v", err)
	}

	flag := &kong.Flag{Value: &kong.Value{Name: "output"}}
	run := &kong.Path{Command: &kong.Node{Name: "run", Parent: &kong.Node{}}}

	if got, _ := r.Resolve(nil, run, flag); got != "json" {
		t.Errorf("expected command value json, got %#v", got)
	}

	if got, _ := r.Resolve(nil, &kong.Path{}, flag); got != "yaml" {
		t.Errorf("expected root value yaml, got %#v", got)
	}
}

func TestResolveYAML_Empty(t *testing.T) {
	r, err := resolveYAML(strings.NewReader(""))
	if err != nil {
		t.Fatalf("resolveYAML failed: %v", err)
	}

	if got, _ := r.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: "log-level"}}); got != nil {
		t.Errorf("expected no value, got %#v", got)
	}
}

func TestResolveYAML_Invalid(t *testing.T) {
	if _, err := resolveYAML(strings.NewReader("log: [unclosed")); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestLogConfig_Scan(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantLevel  logLevel
		wantFormat logFormat
		wantPretty bool
		wantCaller bool
	}{
		{
			name:       "separate values",
			args:       []string{"run", "--log-level", "debug", "--log-format", "json", "x"},
			wantLevel:  "debug",
			wantFormat: "json",
			wantPretty: true,
		},
		{
			name:       "assigned values",
			args:       []string{"--log-level=warn", "--log-pretty=false", "--log-caller"},
			wantLevel:  "warn",
			wantCaller: true,
		},
		{
			name:      "negated",
			args:      []string{"--no-log-pretty", "--no-log-caller=false", "--log-level"},
			wantLevel: "",
			// --no-log-caller=false enables the caller.
			wantCaller: true,
		},
		{
			name:       "unrelated flags",
			args:       []string{"--level", "debug", "-q"},
			wantPretty: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := logConfig{Pretty: true}
			f.scan(tt.args)

			if f.Level != tt.wantLevel || f.Format != tt.wantFormat ||
				f.Pretty != tt.wantPretty || f.Caller != tt.wantCaller {
				t.Errorf("scan(%q) = %+v, want level=%q format=%q pretty=%v caller=%v",
					tt.args, f, tt.wantLevel, tt.wantFormat, tt.wantPretty, tt.wantCaller)
			}
		})
	}

	t.Cleanup(func() { (&logConfig{Pretty: true}).start(t.Context()) })
}
