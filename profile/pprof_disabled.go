//go:build !pprof

package profile

// Modes returns nil when built without the pprof tag.
func Modes() []string { return nil }

// Enabled reports whether the binary was built with profiling support.
func Enabled() bool { return false }

func start(Profiler) Stopper { return ignore{} }
