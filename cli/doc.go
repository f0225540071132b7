// Package cli contains the command line interface for plume.
//
// # Usage
//
//	plume [flags] [run] [script]
//	plume ast [-f json|yaml] [script]
//	plume fmt [-w|-l] script...
//	plume repl [script]
//	plume init [-f]
//	plume version [-v]
//
// The run command is the default, so "plume script.plume" evaluates the
// script and prints its result. A script named "-" or omitted is read from
// stdin. Script names that are not files are looked up in each directory
// given with -I and then in each directory listed in $PLUME_PATH, with and
// without the ".plume" extension.
//
// Values computed by the host are bound into the script's root scope with
// -D NAME=EXPR, where EXPR is an expr-lang expression.
//
// # Configuration
//
// Flag defaults are read from config.yaml (and config.json) in the user
// configuration directory. The init command writes the current flag values
// there. Nested YAML mappings join their keys with "-":
//
//	log:
//	  level: debug
//	  pretty: false
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o plume .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: ~/.cache/plume/pprof)
//
// # Examples
//
//	# Evaluate a script with debug logging
//	plume --log-level=debug run build.plume
//
//	# Bind the host name and evaluate stdin
//	echo 'host + "!"' | plume -D host=hostname
//
//	# Report diagnostics as JSON
//	plume run --report=json broken.plume
package cli
