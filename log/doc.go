// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// A [Logger] is built once from functional options and is immutable
// afterward; [Logger.Wrap] derives a reconfigured copy. The zero Logger
// discards everything, so components can hold one unconditionally.
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatJSON))
//	logger.TraceContext(ctx, "parse start", slog.Int("source_length", n))
//
// # Levels
//
// [LevelTrace] sits below [LevelDebug] and carries the per-phase records
// emitted by the language facade.
//
// # Output Formats
//
// [FormatText] and [FormatJSON] use the [log/slog] handlers unless pretty
// output is enabled with [WithPretty], in which case text records become
// aligned, colored lines and JSON records are indented with groups nested.
// Colors are applied with lipgloss only when the output is a terminal.
//
// # Default Logger
//
// The package-level functions write through a default logger that the CLI
// reconfigures with [Config] as flags are parsed.
package log
