package log_test

import (
	"log/slog"
	"os"

	"github.com/ardnew/plume/log"
)

func Example_text() {
	logger := log.Make(os.Stdout, log.WithTimeLayout("none"), log.WithPretty(false))
	logger.Info("program parsed", slog.Int("statements", 3))
	// Output:
	// level=INFO msg="program parsed" statements=3
}

func Example_levels() {
	logger := log.Make(os.Stdout,
		log.WithLevel(log.LevelWarn),
		log.WithTimeLayout("none"),
		log.WithFormat(log.FormatJSON),
		log.WithPretty(false))

	logger.Debug("dropped")
	logger.Warn("kept", slog.String("key", "value"))
	// Output:
	// {"level":"WARN","msg":"kept","key":"value"}
}
