// Package profile records pprof profiles of a plume process.
//
// Profiling is compiled in only with the "pprof" build tag ([Tag]). Without
// it, [Enabled] reports false, [Modes] is empty and [Profiler.Start] returns
// a Stopper that does nothing.
//
//	go build -tags pprof .
//
// A [Profiler] names one mode and an output directory:
//
//	defer profile.Profiler{Mode: "cpu", Path: dir}.Start().Stop()
//
// The modes are allocs, block, clock, cpu, goroutine, heap, mem, mutex,
// thread and trace. An empty or unknown mode starts nothing. The profile is
// written when Stop is called, to a file named after its kind (cpu.pprof,
// mem.pprof, trace.out and so on) under Path, or under a temporary
// directory when Path is empty.
//
// The plume command starts a profiler from its flags and stops it when the
// command returns:
//
//	plume --pprof-mode cpu run fib.plume
//	plume --pprof-mode heap --pprof-dir ./profiles repl
//
// --pprof-dir defaults to the pprof directory inside the plume cache
// directory. Inspect the output with go tool pprof:
//
//	go tool pprof -http=:8080 ./plume ./profiles/heap.pprof
package profile
