package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestLogger_Make_DefaultConfiguration(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf)

	if logger.Level() != LevelInfo {
		t.Errorf("expected default level info, got %v", logger.Level())
	}

	if logger.caller {
		t.Error("expected caller disabled by default")
	}

	if logger.Format() != FormatText || !logger.pretty {
		t.Errorf("expected pretty text by default, got %v pretty=%v", logger.Format(), logger.pretty)
	}
}

func TestLogger_Zero_Discards(t *testing.T) {
	var logger Logger

	logger.Info("nothing")
	logger.TraceContext(t.Context(), "nothing")

	if logger.Enabled(t.Context(), LevelError) {
		t.Error("zero logger reports enabled")
	}

	if logger.With(slog.String("k", "v")).Logger != nil {
		t.Error("zero logger gained a handler from With")
	}
}

func TestLogger_LogMethods_RespectLevelFiltering(t *testing.T) {
	tests := []struct {
		name     string
		logFunc  func(Logger, string, ...slog.Attr)
		minLevel Level
		logged   bool
	}{
		{"trace at trace", (Logger).Trace, LevelTrace, true},
		{"trace at debug", (Logger).Trace, LevelDebug, false},
		{"debug at debug", (Logger).Debug, LevelDebug, true},
		{"debug at info", (Logger).Debug, LevelInfo, false},
		{"info at info", (Logger).Info, LevelInfo, true},
		{"info at warn", (Logger).Info, LevelWarn, false},
		{"warn at warn", (Logger).Warn, LevelWarn, true},
		{"warn at error", (Logger).Warn, LevelError, false},
		{"error at error", (Logger).Error, LevelError, true},
		{"error at trace", (Logger).Error, LevelTrace, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := Make(&buf, WithLevel(tt.minLevel))
			tt.logFunc(logger, "test message")

			if got := buf.Len() > 0; got != tt.logged {
				t.Errorf("expected logged=%v, got output %q", tt.logged, buf.String())
			}
		})
	}
}

func TestLogger_Plain_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithFormat(FormatJSON), WithPretty(false), WithLevel(LevelTrace))
	logger.Trace("parse start", slog.Int("source_length", 12))

	var result map[string]any
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON output: %v", err)
	}

	if result["level"] != "TRACE" {
		t.Errorf("expected level TRACE, got %v", result["level"])
	}

	if result["msg"] != "parse start" || result["source_length"] != 12.0 {
		t.Errorf("unexpected record %v", result)
	}
}

func TestLogger_Pretty_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithTimeLayout("none"))

	logger.With(slog.String("component", "vm")).
		WithGroup("run").
		Warn("slow loop", slog.Int("iterations", 3), slog.String("note", "two words"))

	want := `WARN  slow loop component=vm run.iterations=3 run.note="two words"` + "\n"
	if buf.String() != want {
		t.Errorf("got:\n%q\nwant:\n%q", buf.String(), want)
	}
}

type diagnostic struct{}

func (diagnostic) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("title", "Nonexistent variable"),
		slog.Group("span", slog.Int("start", 0), slog.Int("end", 1)),
	)
}

func TestLogger_Pretty_Text_ResolvesGroups(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithTimeLayout("none"))

	logger.Error("run failed", slog.Any("error", diagnostic{}))

	want := `ERROR run failed error.title="Nonexistent variable" error.span.start=0 error.span.end=1` + "\n"
	if buf.String() != want {
		t.Errorf("got:\n%q\nwant:\n%q", buf.String(), want)
	}
}

func TestLogger_Pretty_JSON_NestsGroups(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithFormat(FormatJSON), WithTimeLayout("none"))

	logger.Info("done", slog.Any("error", diagnostic{}), slog.Bool("ok", false))

	if !strings.Contains(buf.String(), "\n  \"error\": {\n    \"title\"") {
		t.Errorf("expected indented nested group, got:\n%s", buf.String())
	}

	var result struct {
		Msg   string `json:"msg"`
		Error struct {
			Title string         `json:"title"`
			Span  map[string]int `json:"span"`
		} `json:"error"`
		OK bool `json:"ok"`
	}
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("pretty JSON is not valid JSON: %v\n%s", err, buf.String())
	}

	if result.Msg != "done" || result.Error.Title != "Nonexistent variable" || result.Error.Span["end"] != 1 {
		t.Errorf("unexpected record %+v", result)
	}
}

func TestLogger_Make_WithCaller_IncludesSource(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithCaller(true), WithPretty(false), WithFormat(FormatJSON))
	logger.Info("test message")

	if !strings.Contains(buf.String(), "log_test.go") {
		t.Errorf("expected caller file in output, got %s", buf.String())
	}

	buf.Reset()
	Make(&buf, WithCaller(false), WithPretty(false)).Info("test message")

	if strings.Contains(buf.String(), "source") {
		t.Error("caller info included when disabled")
	}
}

func TestLogger_Wrap_OverridesConfiguration(t *testing.T) {
	var first, second bytes.Buffer

	base := Make(&first, WithLevel(LevelError))
	wrapped := base.Wrap(WithOutput(&second), WithLevel(LevelDebug))

	base.Info("dropped")
	wrapped.Debug("kept")

	if first.Len() != 0 {
		t.Errorf("base logger wrote %q", first.String())
	}

	if !strings.Contains(second.String(), "kept") {
		t.Errorf("wrapped logger did not write, got %q", second.String())
	}
}

func TestLogger_ConcurrentCalls_ThreadSafe(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf)

	var wg sync.WaitGroup
	for i := range 100 {
		wg.Go(func() {
			logger.Info("concurrent message", slog.Int("id", i))
		})
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 100 {
		t.Errorf("expected 100 log lines, got %d", len(lines))
	}
}

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelTrace, "trace"},
		{LevelDebug, "debug"},
		{LevelInfo, "info"},
		{LevelWarn, "warn"},
		{LevelError, "error"},
		{LevelInfo + 2, "info+2"},
		{LevelTrace - 1, "trace-1"},
		{LevelError + 4, "error+4"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", int(tt.level), got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"trace":   LevelTrace,
		"TRACE":   LevelTrace,
		"debug":   LevelDebug,
		"warn":    LevelWarn,
		"error":   LevelError,
		"info+2":  LevelInfo + 2,
		"bananas": DefaultLevel,
	}

	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	for name := range Formats() {
		if got := ParseFormat(" " + strings.ToUpper(name) + " ").String(); got != name {
			t.Errorf("ParseFormat(%q) round trip gave %q", name, got)
		}
	}

	if ParseFormat("xml") != DefaultFormat {
		t.Error("unknown format did not fall back to default")
	}
}

func TestConfig_formatTime_FormatsTimestamp(t *testing.T) {
	now := time.Date(2023, 10, 15, 14, 30, 45, 123456789, time.UTC)

	tests := []struct {
		name   string
		layout string
		want   string
	}{
		{"rfc3339", "RFC3339", "2023-10-15T14:30:45Z"},
		{"rfc3339 nano", "rfc-3339-nano", "2023-10-15T14:30:45.123456789Z"},
		{"kitchen", "Kitchen", "2:30PM"},
		{"custom", "2006/01/02", "2023/10/15"},
		{"none", "none", ""},
		{"blank", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := makeFormatTimeFunc(tt.layout)(now); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConfig_DefaultLogger(t *testing.T) {
	original := Default()
	defer defaultLog.Store(&original)

	var buf bytes.Buffer
	Config(WithOutput(&buf), WithLevel(LevelDebug), WithTimeLayout("none"))

	Debug("configured", slog.String("via", "Config"))
	TraceContext(t.Context(), "below level")

	if got, want := buf.String(), "DEBUG configured via=Config\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
